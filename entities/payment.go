package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Payment struct {
	ID           uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	UserID       uuid.UUID  `gorm:"type:uuid;index" json:"user_id"`
	Provider     string     `json:"provider"` // MIDTRANS, TOSS, ETC
	OrderID      string     `gorm:"uniqueIndex" json:"order_id"`
	AmountKRW    int64      `json:"amount_krw"`
	PointGranted int64      `json:"point_granted"`
	Status       string     `json:"status"` // CREATED, PAID, FAILED, CANCELED, REFUNDED
	CheckoutURL  string     `json:"checkout_url,omitempty"`
	Raw          string     `json:"raw,omitempty"`
	PaidAt       *time.Time `json:"paid_at,omitempty"`

	User *User `gorm:"foreignKey:UserID"`
	Timestamp
}

func (p *Payment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
