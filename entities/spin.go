package entities

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Spin is the durable record of one spin outcome. (UserID, IdempotencyKey)
// is unique; a retried request resolves to the already-stored row.
type Spin struct {
	ID                    uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID                uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_spin_user_idem,priority:1" json:"user_id"`
	MachineID             uuid.UUID `gorm:"type:uuid;index" json:"machine_id"`
	ProbabilityVersionID  uuid.UUID `gorm:"type:uuid" json:"probability_version_id"`
	CostPoint             int       `json:"cost_point"`
	UsedTicket            bool      `json:"used_ticket"`
	ResultRarity          string    `json:"result_rarity"`
	ResultRewardCatalogID uuid.UUID `gorm:"type:uuid" json:"result_reward_catalog_id"`
	IdempotencyKey        string    `gorm:"uniqueIndex:idx_spin_user_idem,priority:2" json:"idempotency_key"`

	User                *User          `gorm:"foreignKey:UserID"`
	Machine             *Machine       `gorm:"foreignKey:MachineID"`
	ResultRewardCatalog *RewardCatalog `gorm:"foreignKey:ResultRewardCatalogID"`
	Timestamp
}

func (s *Spin) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}
