package entities

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Wallet struct {
	ID            uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID        uuid.UUID `gorm:"type:uuid;uniqueIndex" json:"user_id"`
	BalancePoint  int64     `json:"balance_point"`
	TicketBalance int       `json:"ticket_balance"`

	User *User `gorm:"foreignKey:UserID"`
	Timestamp
}

func (w *Wallet) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

// WalletTransaction rows are append-only: they are never updated or deleted.
// Type is one of SPEND, CHARGE, REWARD, ADJUST; Amount is signed, negative
// when points leave the wallet; RefType is SPIN, PAYMENT, EVENT or ADMIN and
// Meta carries free-form JSON. EVENT refs are unique per user so a
// naturally-idempotent external action can only ever land one ledger row,
// even when two requests race past the existence check. Spin refs stay
// non-unique: a spin's stake and dust rows share its id.
type WalletTransaction struct {
	ID      uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID  uuid.UUID `gorm:"type:uuid;index:idx_wallet_tx_user_ref,priority:1;uniqueIndex:uniq_wallet_tx_event_ref,priority:1,where:ref_type = 'EVENT'" json:"user_id"`
	Type    string    `json:"type"`
	Amount  int64     `json:"amount"`
	RefType string    `gorm:"index:idx_wallet_tx_user_ref,priority:2;uniqueIndex:uniq_wallet_tx_event_ref,priority:2" json:"ref_type"`
	RefID   string    `gorm:"index:idx_wallet_tx_user_ref,priority:3;uniqueIndex:uniq_wallet_tx_event_ref,priority:3" json:"ref_id"`
	Meta    string    `json:"meta,omitempty"`

	User *User `gorm:"foreignKey:UserID"`
	Timestamp
}

func (t *WalletTransaction) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}
