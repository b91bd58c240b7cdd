package event

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"Pointspin-Backend/domain"
	"Pointspin-Backend/internal/utils"
	"Pointspin-Backend/pkg/wallet"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const checkinTicketGrant = 1

type (
	EventService interface {
		// DailyCheckin grants the day's ticket once. The ledger row keyed
		// by the calendar date is the idempotency record.
		DailyCheckin(ctx context.Context, userID string) (*domain.CheckinResult, error)
		Status(ctx context.Context, userID string) (*domain.EventStatus, error)
	}

	eventService struct {
		db               *gorm.DB
		walletRepository wallet.WalletRepository
		walletService    wallet.WalletService
	}
)

func NewEventService(db *gorm.DB, walletRepository wallet.WalletRepository, walletService wallet.WalletService) EventService {
	return &eventService{
		db:               db,
		walletRepository: walletRepository,
		walletService:    walletService,
	}
}

func isDuplicateRef(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "duplicate key") || strings.Contains(msg, "unique constraint")
}

func checkinRefID(day time.Time) string {
	return fmt.Sprintf("daily-checkin:%s", day.UTC().Format("2006-01-02"))
}

func (s *eventService) DailyCheckin(ctx context.Context, userID string) (*domain.CheckinResult, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	refID := checkinRefID(time.Now())

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.walletRepository.WithTx(tx)

		existing, err := repo.FindTransactionByRef(ctx, uid, domain.RefTypeEvent, refID)
		if err != nil {
			return err
		}
		if existing != nil {
			return domain.ErrAlreadyCheckedIn
		}

		meta := utils.JSONString(map[string]any{"tickets": checkinTicketGrant})
		if err := s.walletService.GrantTicket(ctx, tx, uid, checkinTicketGrant, domain.RefTypeEvent, refID, meta); err != nil {
			// Two requests racing past the existence check land here: the
			// unique EVENT ref index rejects the second insert and the
			// whole transaction, ticket grant included, rolls back.
			if isDuplicateRef(err) {
				return domain.ErrAlreadyCheckedIn
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &domain.CheckinResult{
		OK:            true,
		TicketGranted: checkinTicketGrant,
	}, nil
}

func (s *eventService) Status(ctx context.Context, userID string) (*domain.EventStatus, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	day := time.Now().UTC()
	entry, err := s.walletRepository.FindTransactionByRef(ctx, uid, domain.RefTypeEvent, checkinRefID(day))
	if err != nil {
		return nil, err
	}

	return &domain.EventStatus{
		Date:      day.Format("2006-01-02"),
		CheckedIn: entry != nil,
	}, nil
}
