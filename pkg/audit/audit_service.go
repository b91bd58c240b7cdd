package audit

import (
	"context"
	"log"

	"Pointspin-Backend/domain"
	"Pointspin-Backend/entities"

	"github.com/google/uuid"
)

type (
	AuditService interface {
		// Record is best effort. Admin mutations must not fail because the
		// audit row could not be written, so errors are only logged.
		Record(ctx context.Context, actorID string, action, targetType, targetID, diff string)
		History(ctx context.Context, targetType, targetID string, limit int) ([]*entities.AuditLog, error)
	}

	auditService struct {
		auditRepository AuditRepository
	}
)

func NewAuditService(auditRepository AuditRepository) AuditService {
	return &auditService{
		auditRepository: auditRepository,
	}
}

func (s *auditService) Record(ctx context.Context, actorID string, action, targetType, targetID, diff string) {
	actorUUID, err := uuid.Parse(actorID)
	if err != nil {
		log.Printf("audit: invalid actor id %q: %v", actorID, err)
		return
	}

	entry := &entities.AuditLog{
		ActorUserID: actorUUID,
		Action:      action,
		TargetType:  targetType,
		TargetID:    targetID,
		Diff:        diff,
	}
	if err := s.auditRepository.Create(ctx, entry); err != nil {
		log.Printf("audit: failed to record %s on %s/%s: %v", action, targetType, targetID, err)
	}
}

func (s *auditService) History(ctx context.Context, targetType, targetID string, limit int) ([]*entities.AuditLog, error) {
	if limit < 1 || limit > 100 {
		limit = 20
	}
	if targetType == "" || targetID == "" {
		return nil, domain.ErrNotFound
	}
	return s.auditRepository.ListByTarget(ctx, targetType, targetID, limit)
}
