package user

import (
	"context"
	"fmt"
	"time"

	"Pointspin-Backend/domain"
	"Pointspin-Backend/entities"
	"Pointspin-Backend/internal/utils"
	"Pointspin-Backend/internal/utils/mailing"
	"Pointspin-Backend/pkg/jwt"
	"Pointspin-Backend/pkg/wallet"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (*domain.Profile, error)
		Login(ctx context.Context, req domain.LoginRequest) (*domain.TokenResponse, error)
		Refresh(ctx context.Context, req domain.RefreshRequest) (*domain.TokenResponse, error)
		Me(ctx context.Context, userID string) (*domain.Profile, error)
		ForgotPassword(ctx context.Context, req domain.ForgotPasswordRequest) error
		ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error
	}

	userService struct {
		db               *gorm.DB
		userRepository   UserRepository
		walletRepository wallet.WalletRepository
		jwtService       jwt.JWTService
	}
)

func NewUserService(db *gorm.DB, userRepository UserRepository, walletRepository wallet.WalletRepository, jwtService jwt.JWTService) UserService {
	return &userService{
		db:               db,
		userRepository:   userRepository,
		walletRepository: walletRepository,
		jwtService:       jwtService,
	}
}

func toProfile(user *entities.User) *domain.Profile {
	return &domain.Profile{
		ID:       user.ID.String(),
		Email:    user.Email,
		Nickname: user.Nickname,
		Role:     user.Role,
	}
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (*domain.Profile, error) {
	existing, err := s.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrEmailAlreadyUsed
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &entities.User{
		Email:        req.Email,
		PasswordHash: string(hash),
		Nickname:     req.Nickname,
		Role:         domain.RoleUser,
		Status:       domain.UserStatusActive,
	}

	// User and wallet are created together: an account without a wallet
	// cannot spin or charge.
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.userRepository.WithTx(tx).CreateUser(ctx, user); err != nil {
			return err
		}
		return s.walletRepository.WithTx(tx).CreateWallet(ctx, &entities.Wallet{
			UserID: user.ID,
		})
	})
	if err != nil {
		return nil, err
	}

	return toProfile(user), nil
}

func (s *userService) Login(ctx context.Context, req domain.LoginRequest) (*domain.TokenResponse, error) {
	user, err := s.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, domain.ErrInvalidCredentials
	}
	if user.Status != domain.UserStatusActive {
		return nil, domain.ErrUserNotActive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
		return nil, domain.ErrInvalidCredentials
	}

	return &domain.TokenResponse{
		AccessToken:  s.jwtService.GenerateTokenUser(user.ID.String(), user.Role),
		RefreshToken: s.jwtService.GenerateTokenRefresh(user.ID.String(), user.Role),
	}, nil
}

func (s *userService) Refresh(ctx context.Context, req domain.RefreshRequest) (*domain.TokenResponse, error) {
	userID, _, err := s.jwtService.GetUserIDByRefreshToken(req.RefreshToken)
	if err != nil {
		return nil, err
	}
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrTokenInvalid
	}

	// Role and status come from the current user row, not the old token.
	user, err := s.userRepository.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if user.Status != domain.UserStatusActive {
		return nil, domain.ErrUserNotActive
	}

	return &domain.TokenResponse{
		AccessToken:  s.jwtService.GenerateTokenUser(user.ID.String(), user.Role),
		RefreshToken: s.jwtService.GenerateTokenRefresh(user.ID.String(), user.Role),
	}, nil
}

func (s *userService) Me(ctx context.Context, userID string) (*domain.Profile, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	user, err := s.userRepository.GetUserByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return toProfile(user), nil
}

func (s *userService) ForgotPassword(ctx context.Context, req domain.ForgotPasswordRequest) error {
	user, err := s.userRepository.GetUserByEmail(ctx, req.Email)
	if err != nil {
		return err
	}
	if user == nil {
		// Do not leak which addresses exist.
		return nil
	}

	token, err := s.jwtService.GenerateTokenForgetPassword(map[string]any{
		"user_id": user.ID.String(),
	}, 15*time.Minute)
	if err != nil {
		return err
	}

	resetLink := fmt.Sprintf("%s/reset-password?token=%s", utils.GetConfig("APP_URL"), token)
	body := fmt.Sprintf(
		"<p>A password reset was requested for your account.</p><p><a href=%q>Reset your password</a> (valid for 15 minutes).</p>",
		resetLink,
	)
	return mailing.SendMail(user.Email, "Reset your password", body)
}

func (s *userService) ResetPassword(ctx context.Context, req domain.ResetPasswordRequest) error {
	claims, err := s.jwtService.ValidateTokenForgetPassword(req.Token)
	if err != nil {
		return domain.ErrInvalidResetToken
	}

	rawID, ok := claims["user_id"].(string)
	if !ok {
		return domain.ErrInvalidResetToken
	}
	userID, err := uuid.Parse(rawID)
	if err != nil {
		return domain.ErrInvalidResetToken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	return s.userRepository.UpdatePassword(ctx, userID, string(hash))
}
