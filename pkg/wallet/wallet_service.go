package wallet

import (
	"context"

	"Pointspin-Backend/domain"
	"Pointspin-Backend/entities"
	"Pointspin-Backend/internal/utils"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	// WalletService is the ledger: every balance change goes through it and
	// leaves an append-only WalletTransaction row in the same transaction.
	WalletService interface {
		GetBalance(ctx context.Context, userID string) (*domain.WalletBalance, error)
		LedgerHistory(ctx context.Context, userID string, cursor string, limit int) (*domain.LedgerHistory, error)
		AdjustPoints(ctx context.Context, userID string, req domain.AdjustPointsRequest, actorID string) error

		// Tx-scoped primitives. Callers own the surrounding transaction;
		// the guard, the balance write and the ledger row commit together.
		Balance(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*domain.WalletBalance, error)
		Debit(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amount int64, refType, refID, meta string) error
		Credit(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amount int64, txType, refType, refID, meta string) error
		ConsumeTicket(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
		GrantTicket(ctx context.Context, tx *gorm.DB, userID uuid.UUID, qty int, refType, refID, meta string) error
		Record(ctx context.Context, tx *gorm.DB, userID uuid.UUID, txType string, amount int64, refType, refID, meta string) error
	}

	walletService struct {
		db               *gorm.DB
		walletRepository WalletRepository
	}
)

func NewWalletService(db *gorm.DB, walletRepository WalletRepository) WalletService {
	return &walletService{
		db:               db,
		walletRepository: walletRepository,
	}
}

func (s *walletService) GetBalance(ctx context.Context, userID string) (*domain.WalletBalance, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	wallet, err := s.walletRepository.GetByUserID(ctx, uid)
	if err != nil {
		return nil, err
	}

	return &domain.WalletBalance{
		BalancePoint:  wallet.BalancePoint,
		TicketBalance: wallet.TicketBalance,
	}, nil
}

func (s *walletService) LedgerHistory(ctx context.Context, userID string, cursor string, limit int) (*domain.LedgerHistory, error) {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return nil, domain.ErrParseUUID
	}

	if limit < 1 || limit > 100 {
		limit = 20
	}

	entries, err := s.walletRepository.ListTransactions(ctx, uid, cursor, limit)
	if err != nil {
		return nil, err
	}

	history := &domain.LedgerHistory{Items: make([]*domain.LedgerEntry, 0, len(entries))}
	for _, entry := range entries {
		history.Items = append(history.Items, &domain.LedgerEntry{
			ID:        entry.ID.String(),
			Type:      entry.Type,
			Amount:    entry.Amount,
			RefType:   entry.RefType,
			RefID:     entry.RefID,
			Meta:      entry.Meta,
			CreatedAt: entry.CreatedAt,
		})
	}
	if len(entries) == limit {
		history.NextCursor = entries[len(entries)-1].ID.String()
	}

	return history, nil
}

func (s *walletService) AdjustPoints(ctx context.Context, userID string, req domain.AdjustPointsRequest, actorID string) error {
	uid, err := uuid.Parse(userID)
	if err != nil {
		return domain.ErrParseUUID
	}

	meta := utils.JSONString(map[string]any{"reason": req.Reason})

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := s.walletRepository.WithTx(tx)

		if req.Amount >= 0 {
			if err := repo.CreditPoints(ctx, uid, req.Amount); err != nil {
				return err
			}
		} else {
			if err := repo.DebitPoints(ctx, uid, -req.Amount); err != nil {
				return err
			}
		}

		return repo.CreateTransaction(ctx, &entities.WalletTransaction{
			UserID:  uid,
			Type:    domain.TransactionTypeAdjust,
			Amount:  req.Amount,
			RefType: domain.RefTypeAdmin,
			RefID:   actorID,
			Meta:    meta,
		})
	})
}

func (s *walletService) Balance(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*domain.WalletBalance, error) {
	wallet, err := s.walletRepository.WithTx(tx).GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &domain.WalletBalance{
		BalancePoint:  wallet.BalancePoint,
		TicketBalance: wallet.TicketBalance,
	}, nil
}

func (s *walletService) Debit(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amount int64, refType, refID, meta string) error {
	repo := s.walletRepository.WithTx(tx)

	if err := repo.DebitPoints(ctx, userID, amount); err != nil {
		return err
	}

	return repo.CreateTransaction(ctx, &entities.WalletTransaction{
		UserID:  userID,
		Type:    domain.TransactionTypeSpend,
		Amount:  -amount,
		RefType: refType,
		RefID:   refID,
		Meta:    meta,
	})
}

func (s *walletService) Credit(ctx context.Context, tx *gorm.DB, userID uuid.UUID, amount int64, txType, refType, refID, meta string) error {
	repo := s.walletRepository.WithTx(tx)

	if err := repo.CreditPoints(ctx, userID, amount); err != nil {
		return err
	}

	return repo.CreateTransaction(ctx, &entities.WalletTransaction{
		UserID:  userID,
		Type:    txType,
		Amount:  amount,
		RefType: refType,
		RefID:   refID,
		Meta:    meta,
	})
}

func (s *walletService) Record(ctx context.Context, tx *gorm.DB, userID uuid.UUID, txType string, amount int64, refType, refID, meta string) error {
	return s.walletRepository.WithTx(tx).CreateTransaction(ctx, &entities.WalletTransaction{
		UserID:  userID,
		Type:    txType,
		Amount:  amount,
		RefType: refType,
		RefID:   refID,
		Meta:    meta,
	})
}

func (s *walletService) ConsumeTicket(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	return s.walletRepository.WithTx(tx).ConsumeTicket(ctx, userID)
}

func (s *walletService) GrantTicket(ctx context.Context, tx *gorm.DB, userID uuid.UUID, qty int, refType, refID, meta string) error {
	repo := s.walletRepository.WithTx(tx)

	if err := repo.GrantTicket(ctx, userID, qty); err != nil {
		return err
	}

	return repo.CreateTransaction(ctx, &entities.WalletTransaction{
		UserID:  userID,
		Type:    domain.TransactionTypeReward,
		Amount:  0,
		RefType: refType,
		RefID:   refID,
		Meta:    meta,
	})
}
