package user

import (
	"context"
	"testing"

	"Pointspin-Backend/domain"
	"Pointspin-Backend/entities"
	"Pointspin-Backend/pkg/jwt"
	"Pointspin-Backend/pkg/wallet"

	migration "Pointspin-Backend/cmd/database/migrate"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("unwrap db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := migration.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newUserService(t *testing.T) (UserService, *gorm.DB) {
	t.Helper()
	db := newTestDB(t)
	service := NewUserService(db, NewUserRepository(db), wallet.NewWalletRepository(db), jwt.NewJWTService())
	return service, db
}

func TestRegister_CreatesUserWithWallet(t *testing.T) {
	service, db := newUserService(t)
	ctx := context.Background()

	profile, err := service.Register(ctx, domain.RegisterRequest{
		Email:    "dana@example.com",
		Password: "supersecret",
		Nickname: "dana",
	})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if profile.Role != domain.RoleUser {
		t.Fatalf("expected role USER, got %s", profile.Role)
	}

	var user entities.User
	if err := db.Where("email = ?", "dana@example.com").First(&user).Error; err != nil {
		t.Fatalf("user row missing: %v", err)
	}
	if user.PasswordHash == "supersecret" {
		t.Fatalf("password stored in clear")
	}

	var w entities.Wallet
	if err := db.Where("user_id = ?", user.ID).First(&w).Error; err != nil {
		t.Fatalf("wallet row missing: %v", err)
	}
	if w.BalancePoint != 0 || w.TicketBalance != 0 {
		t.Fatalf("fresh wallet not empty: %+v", w)
	}
}

func TestRegister_RejectsDuplicateEmail(t *testing.T) {
	service, _ := newUserService(t)
	ctx := context.Background()

	req := domain.RegisterRequest{Email: "dup@example.com", Password: "supersecret"}
	if _, err := service.Register(ctx, req); err != nil {
		t.Fatalf("first register: %v", err)
	}

	_, err := service.Register(ctx, req)
	if err != domain.ErrEmailAlreadyUsed {
		t.Fatalf("expected ErrEmailAlreadyUsed, got %v", err)
	}
}

func TestLogin(t *testing.T) {
	service, db := newUserService(t)
	ctx := context.Background()

	if _, err := service.Register(ctx, domain.RegisterRequest{
		Email:    "lee@example.com",
		Password: "supersecret",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}

	token, err := service.Login(ctx, domain.LoginRequest{Email: "lee@example.com", Password: "supersecret"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if token.AccessToken == "" {
		t.Fatalf("empty access token")
	}

	if _, err := service.Login(ctx, domain.LoginRequest{Email: "lee@example.com", Password: "wrong"}); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := service.Login(ctx, domain.LoginRequest{Email: "nobody@example.com", Password: "supersecret"}); err != domain.ErrInvalidCredentials {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}

	if err := db.Model(&entities.User{}).
		Where("email = ?", "lee@example.com").
		UpdateColumn("status", domain.UserStatusSuspended).Error; err != nil {
		t.Fatalf("suspend user: %v", err)
	}
	if _, err := service.Login(ctx, domain.LoginRequest{Email: "lee@example.com", Password: "supersecret"}); err != domain.ErrUserNotActive {
		t.Fatalf("expected ErrUserNotActive, got %v", err)
	}
}

func TestRefresh(t *testing.T) {
	service, db := newUserService(t)
	ctx := context.Background()

	if _, err := service.Register(ctx, domain.RegisterRequest{
		Email:    "kim@example.com",
		Password: "supersecret",
	}); err != nil {
		t.Fatalf("register: %v", err)
	}
	tokens, err := service.Login(ctx, domain.LoginRequest{Email: "kim@example.com", Password: "supersecret"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if tokens.RefreshToken == "" {
		t.Fatalf("login returned no refresh token")
	}

	refreshed, err := service.Refresh(ctx, domain.RefreshRequest{RefreshToken: tokens.RefreshToken})
	if err != nil {
		t.Fatalf("refresh: %v", err)
	}
	if refreshed.AccessToken == "" || refreshed.RefreshToken == "" {
		t.Fatalf("refresh returned empty tokens")
	}

	// An access token is not accepted as a refresh token.
	if _, err := service.Refresh(ctx, domain.RefreshRequest{RefreshToken: tokens.AccessToken}); err != domain.ErrTokenInvalid {
		t.Fatalf("expected ErrTokenInvalid for access token, got %v", err)
	}

	if err := db.Model(&entities.User{}).
		Where("email = ?", "kim@example.com").
		UpdateColumn("status", domain.UserStatusSuspended).Error; err != nil {
		t.Fatalf("suspend user: %v", err)
	}
	if _, err := service.Refresh(ctx, domain.RefreshRequest{RefreshToken: tokens.RefreshToken}); err != domain.ErrUserNotActive {
		t.Fatalf("expected ErrUserNotActive, got %v", err)
	}
}
