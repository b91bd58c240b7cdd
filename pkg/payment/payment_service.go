package payment

import (
	"context"
	"crypto/subtle"
	"fmt"

	"Pointspin-Backend/domain"
	"Pointspin-Backend/entities"
	"Pointspin-Backend/internal/utils"
	"Pointspin-Backend/pkg/midtrans"
	"Pointspin-Backend/pkg/user"
	"Pointspin-Backend/pkg/wallet"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	PaymentService interface {
		GetPackages(ctx context.Context) []domain.PointPackage
		CreateOrder(ctx context.Context, userID string, req domain.CreateOrderRequest) (*domain.CreateOrderResponse, error)

		// Webhook confirms an order. Redeliveries of an already-applied
		// status are acknowledged without crediting twice.
		Webhook(ctx context.Context, signature string, req domain.PaymentWebhookRequest) (*domain.PaymentWebhookResponse, error)
		ListOrders(ctx context.Context, userID string, limit int) ([]*entities.Payment, error)
	}

	paymentService struct {
		db                *gorm.DB
		paymentRepository PaymentRepository
		userRepository    user.UserRepository
		walletService     wallet.WalletService
		midtransService   midtrans.MidtransService
		webhookSecret     string
	}
)

func NewPaymentService(
	db *gorm.DB,
	paymentRepository PaymentRepository,
	userRepository user.UserRepository,
	walletService wallet.WalletService,
	midtransService midtrans.MidtransService,
	webhookSecret string,
) PaymentService {
	return &paymentService{
		db:                db,
		paymentRepository: paymentRepository,
		userRepository:    userRepository,
		walletService:     walletService,
		midtransService:   midtransService,
		webhookSecret:     webhookSecret,
	}
}

func (s *paymentService) GetPackages(ctx context.Context) []domain.PointPackage {
	return domain.PointPackages
}

func findPackage(id string) (domain.PointPackage, bool) {
	for _, pkg := range domain.PointPackages {
		if pkg.ID == id {
			return pkg, true
		}
	}
	return domain.PointPackage{}, false
}

func (s *paymentService) CreateOrder(ctx context.Context, userID string, req domain.CreateOrderRequest) (*domain.CreateOrderResponse, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	pkg, ok := findPackage(req.PackageID)
	if !ok {
		return nil, domain.ErrInvalidPackage
	}

	usr, err := s.userRepository.GetUserByID(ctx, uid)
	if err != nil {
		return nil, err
	}

	orderID := fmt.Sprintf("order_%s", uuid.New().String())

	checkoutURL, err := s.midtransService.CreateTransaction(ctx, orderID, pkg.KRW, usr.Email)
	if err != nil {
		return nil, domain.ErrPaymentFailed
	}

	payment := &entities.Payment{
		UserID:       uid,
		Provider:     domain.ProviderMidtrans,
		OrderID:      orderID,
		AmountKRW:    pkg.KRW,
		PointGranted: pkg.Point,
		Status:       domain.PaymentStatusCreated,
		CheckoutURL:  checkoutURL,
	}
	if err := s.paymentRepository.CreatePayment(ctx, payment); err != nil {
		return nil, err
	}

	return &domain.CreateOrderResponse{
		OrderID:     orderID,
		PaymentID:   payment.ID.String(),
		Provider:    payment.Provider,
		CheckoutURL: checkoutURL,
	}, nil
}

func (s *paymentService) Webhook(ctx context.Context, signature string, req domain.PaymentWebhookRequest) (*domain.PaymentWebhookResponse, error) {
	if subtle.ConstantTimeCompare([]byte(signature), []byte(s.webhookSecret)) != 1 {
		return nil, domain.ErrInvalidSignature
	}

	resp := &domain.PaymentWebhookResponse{OK: true}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.paymentRepository.WithTx(tx)

		payment, err := repo.GetByOrderID(ctx, req.OrderID)
		if err != nil {
			return err
		}

		if payment.Status == req.Status {
			resp.Idempotent = true
			return nil
		}
		if payment.Status != domain.PaymentStatusCreated {
			// Terminal states never transition again.
			resp.Idempotent = true
			return nil
		}

		payment.Status = req.Status
		payment.Raw = req.Raw
		if req.Status == domain.PaymentStatusPaid {
			now := tx.NowFunc()
			payment.PaidAt = &now
		}
		if err := repo.SavePayment(ctx, payment); err != nil {
			return err
		}

		if req.Status != domain.PaymentStatusPaid {
			return nil
		}

		meta := utils.JSONString(map[string]any{
			"order_id":   payment.OrderID,
			"amount_krw": payment.AmountKRW,
		})
		return s.walletService.Credit(
			ctx, tx, payment.UserID, payment.PointGranted,
			domain.TransactionTypeCharge, domain.RefTypePayment, payment.ID.String(), meta,
		)
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

func (s *paymentService) ListOrders(ctx context.Context, userID string, limit int) ([]*entities.Payment, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.paymentRepository.ListByUser(ctx, uid, limit)
}
