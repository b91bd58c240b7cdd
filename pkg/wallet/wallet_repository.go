package wallet

import (
	"context"
	"errors"

	"Pointspin-Backend/domain"
	"Pointspin-Backend/entities"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type (
	WalletRepository interface {
		// WithTx rebinds the repository to an open transaction so balance
		// mutation and ledger rows commit together.
		WithTx(tx *gorm.DB) WalletRepository

		CreateWallet(ctx context.Context, wallet *entities.Wallet) error
		GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.Wallet, error)

		// Balance mutations are single conditional updates: the guard and
		// the write are one statement, never a read-modify-write.
		DebitPoints(ctx context.Context, userID uuid.UUID, amount int64) error
		CreditPoints(ctx context.Context, userID uuid.UUID, amount int64) error
		ConsumeTicket(ctx context.Context, userID uuid.UUID) error
		GrantTicket(ctx context.Context, userID uuid.UUID, qty int) error

		CreateTransaction(ctx context.Context, tx *entities.WalletTransaction) error
		FindTransactionByRef(ctx context.Context, userID uuid.UUID, refType, refID string) (*entities.WalletTransaction, error)
		ListTransactions(ctx context.Context, userID uuid.UUID, cursor string, limit int) ([]*entities.WalletTransaction, error)
	}

	walletRepository struct {
		db *gorm.DB
	}
)

func NewWalletRepository(db *gorm.DB) WalletRepository {
	return &walletRepository{
		db: db,
	}
}

func (r *walletRepository) WithTx(tx *gorm.DB) WalletRepository {
	return &walletRepository{db: tx}
}

func (r *walletRepository) CreateWallet(ctx context.Context, wallet *entities.Wallet) error {
	return r.db.WithContext(ctx).Create(wallet).Error
}

func (r *walletRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*entities.Wallet, error) {
	var wallet entities.Wallet
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&wallet).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrWalletNotFound
		}
		return nil, err
	}
	return &wallet, nil
}

func (r *walletRepository) DebitPoints(ctx context.Context, userID uuid.UUID, amount int64) error {
	res := r.db.WithContext(ctx).
		Model(&entities.Wallet{}).
		Where("user_id = ? AND balance_point >= ?", userID, amount).
		UpdateColumn("balance_point", gorm.Expr("balance_point - ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return domain.ErrInsufficientBalance
	}
	return nil
}

func (r *walletRepository) CreditPoints(ctx context.Context, userID uuid.UUID, amount int64) error {
	res := r.db.WithContext(ctx).
		Model(&entities.Wallet{}).
		Where("user_id = ?", userID).
		UpdateColumn("balance_point", gorm.Expr("balance_point + ?", amount))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return domain.ErrWalletNotFound
	}
	return nil
}

func (r *walletRepository) ConsumeTicket(ctx context.Context, userID uuid.UUID) error {
	res := r.db.WithContext(ctx).
		Model(&entities.Wallet{}).
		Where("user_id = ? AND ticket_balance >= 1", userID).
		UpdateColumn("ticket_balance", gorm.Expr("ticket_balance - 1"))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return domain.ErrInsufficientTickets
	}
	return nil
}

func (r *walletRepository) GrantTicket(ctx context.Context, userID uuid.UUID, qty int) error {
	res := r.db.WithContext(ctx).
		Model(&entities.Wallet{}).
		Where("user_id = ?", userID).
		UpdateColumn("ticket_balance", gorm.Expr("ticket_balance + ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected != 1 {
		return domain.ErrWalletNotFound
	}
	return nil
}

func (r *walletRepository) CreateTransaction(ctx context.Context, tx *entities.WalletTransaction) error {
	return r.db.WithContext(ctx).Create(tx).Error
}

func (r *walletRepository) FindTransactionByRef(ctx context.Context, userID uuid.UUID, refType, refID string) (*entities.WalletTransaction, error) {
	var entry entities.WalletTransaction
	if err := r.db.WithContext(ctx).
		Where("user_id = ? AND ref_type = ? AND ref_id = ?", userID, refType, refID).
		First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *walletRepository) ListTransactions(ctx context.Context, userID uuid.UUID, cursor string, limit int) ([]*entities.WalletTransaction, error) {
	query := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC")

	if cursor != "" {
		var pivot entities.WalletTransaction
		if err := r.db.WithContext(ctx).
			Where("id = ?", cursor).
			First(&pivot).Error; err == nil {
			query = query.Where(
				"created_at < ? OR (created_at = ? AND id < ?)",
				pivot.CreatedAt, pivot.CreatedAt, pivot.ID,
			)
		}
	}

	var entries []*entities.WalletTransaction
	if err := query.Limit(limit).Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}
