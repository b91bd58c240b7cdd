package audit

import (
	"context"

	"Pointspin-Backend/entities"

	"gorm.io/gorm"
)

type (
	AuditRepository interface {
		Create(ctx context.Context, log *entities.AuditLog) error
		ListByTarget(ctx context.Context, targetType, targetID string, limit int) ([]*entities.AuditLog, error)
	}

	auditRepository struct {
		db *gorm.DB
	}
)

func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepository{
		db: db,
	}
}

func (r *auditRepository) Create(ctx context.Context, log *entities.AuditLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *auditRepository) ListByTarget(ctx context.Context, targetType, targetID string, limit int) ([]*entities.AuditLog, error) {
	var logs []*entities.AuditLog
	if err := r.db.WithContext(ctx).
		Where("target_type = ? AND target_id = ?", targetType, targetID).
		Order("created_at DESC").
		Limit(limit).
		Find(&logs).Error; err != nil {
		return nil, err
	}
	return logs, nil
}
