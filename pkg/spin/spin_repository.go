package spin

import (
	"context"
	"errors"

	"Pointspin-Backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	SpinRepository interface {
		WithTx(tx *gorm.DB) SpinRepository

		FindByIdempotencyKey(ctx context.Context, userID uuid.UUID, key string) (*entities.Spin, error)
		CreateSpin(ctx context.Context, spin *entities.Spin) error
		ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*entities.Spin, error)
	}

	spinRepository struct {
		db *gorm.DB
	}
)

func NewSpinRepository(db *gorm.DB) SpinRepository {
	return &spinRepository{
		db: db,
	}
}

func (r *spinRepository) WithTx(tx *gorm.DB) SpinRepository {
	return &spinRepository{db: tx}
}

func (r *spinRepository) FindByIdempotencyKey(ctx context.Context, userID uuid.UUID, key string) (*entities.Spin, error) {
	var spin entities.Spin
	if err := r.db.WithContext(ctx).
		Preload("ResultRewardCatalog").
		Where("user_id = ? AND idempotency_key = ?", userID, key).
		First(&spin).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &spin, nil
}

func (r *spinRepository) CreateSpin(ctx context.Context, spin *entities.Spin) error {
	return r.db.WithContext(ctx).Create(spin).Error
}

func (r *spinRepository) ListByUser(ctx context.Context, userID uuid.UUID, limit int) ([]*entities.Spin, error) {
	var spins []*entities.Spin
	if err := r.db.WithContext(ctx).
		Preload("ResultRewardCatalog").
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&spins).Error; err != nil {
		return nil, err
	}
	return spins, nil
}
