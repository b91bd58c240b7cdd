package payment

import (
	"context"
	"errors"

	"Pointspin-Backend/domain"
	"Pointspin-Backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	PaymentRepository interface {
		WithTx(tx *gorm.DB) PaymentRepository

		CreatePayment(ctx context.Context, payment *entities.Payment) error
		GetByOrderID(ctx context.Context, orderID string) (*entities.Payment, error)
		SavePayment(ctx context.Context, payment *entities.Payment) error
		ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*entities.Payment, error)
	}

	paymentRepository struct {
		db *gorm.DB
	}
)

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepository{
		db: db,
	}
}

func (r *paymentRepository) WithTx(tx *gorm.DB) PaymentRepository {
	return &paymentRepository{db: tx}
}

func (r *paymentRepository) CreatePayment(ctx context.Context, payment *entities.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepository) GetByOrderID(ctx context.Context, orderID string) (*entities.Payment, error) {
	var payment entities.Payment
	if err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		First(&payment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, err
	}
	return &payment, nil
}

func (r *paymentRepository) SavePayment(ctx context.Context, payment *entities.Payment) error {
	return r.db.WithContext(ctx).Save(payment).Error
}

func (r *paymentRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*entities.Payment, error) {
	var payments []*entities.Payment
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}
