package entities

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type RewardCatalog struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Type      string    `json:"type"` // COSMETIC, CURRENCY, ACCESS, TICKET
	Name      string    `json:"name"`
	Rarity    string    `json:"rarity"`
	Stackable bool      `json:"stackable"`
	ImageURL  string    `json:"image_url,omitempty"`
	Meta      string    `json:"meta,omitempty"`

	Timestamp
}

func (r *RewardCatalog) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

type Inventory struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID          uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_inventory_user_reward,priority:1" json:"user_id"`
	RewardCatalogID uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_inventory_user_reward,priority:2" json:"reward_catalog_id"`
	Qty             int       `json:"qty"`

	User          *User          `gorm:"foreignKey:UserID"`
	RewardCatalog *RewardCatalog `gorm:"foreignKey:RewardCatalogID"`
	Timestamp
}

func (i *Inventory) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

type Equip struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID          uuid.UUID `gorm:"type:uuid;uniqueIndex:idx_equip_user_slot,priority:1" json:"user_id"`
	SlotKey         string    `gorm:"uniqueIndex:idx_equip_user_slot,priority:2" json:"slot_key"`
	RewardCatalogID uuid.UUID `gorm:"type:uuid" json:"reward_catalog_id"`

	RewardCatalog *RewardCatalog `gorm:"foreignKey:RewardCatalogID"`
	Timestamp
}

func (e *Equip) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}
