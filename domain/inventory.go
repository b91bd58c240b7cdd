package domain

import (
	"errors"
	"time"
)

const (
	RewardTypeCosmetic = "COSMETIC"
	RewardTypeCurrency = "CURRENCY"
	RewardTypeAccess   = "ACCESS"
	RewardTypeTicket   = "TICKET"
)

var (
	MessageSuccessGetInventory = "inventory retrieved successfully"
	MessageSuccessEquip        = "item equipped successfully"
	MessageSuccessGetEquips    = "equipped items retrieved successfully"
	MessageSuccessCreateReward = "reward created successfully"
	MessageSuccessUpdateReward = "reward updated successfully"
	MessageSuccessUploadImage  = "reward image uploaded successfully"

	MessageFailedGetInventory = "failed to retrieve inventory"
	MessageFailedEquip        = "failed to equip item"
	MessageFailedGetEquips    = "failed to retrieve equipped items"
	MessageFailedCreateReward = "failed to create reward"
	MessageFailedUpdateReward = "failed to update reward"
	MessageFailedUploadImage  = "failed to upload reward image"

	ErrItemNotOwned     = errors.New("item not owned")
	ErrRewardNotFound   = errors.New("reward not found")
	ErrInvalidImageType = errors.New("invalid image type")
)

type (
	// AcquireResult reports what a single reward acquisition did to the
	// inventory. Delta is 0 when a non-stackable duplicate was converted.
	AcquireResult struct {
		Delta     int  `json:"delta"`
		Stacked   bool `json:"stacked"`
		Duplicate bool `json:"duplicate"`
	}

	InventoryItem struct {
		ID         string     `json:"id"`
		Qty        int        `json:"qty"`
		Reward     SpinReward `json:"reward"`
		ObtainedAt time.Time  `json:"obtained_at"`
	}

	InventoryList struct {
		Items      []*InventoryItem `json:"items"`
		NextCursor string           `json:"next_cursor,omitempty"`
	}

	EquipRequest struct {
		SlotKey         string `json:"slot_key" validate:"required,min=2"`
		RewardCatalogID string `json:"reward_catalog_id" validate:"required,uuid"`
	}

	CreateRewardRequest struct {
		Type      string `json:"type" validate:"required,oneof=COSMETIC CURRENCY ACCESS TICKET"`
		Name      string `json:"name" validate:"required,min=2"`
		Rarity    string `json:"rarity" validate:"required,oneof=COMMON RARE EPIC LEGENDARY"`
		Stackable bool   `json:"stackable"`
		Meta      string `json:"meta,omitempty"`
	}

	UpdateRewardRequest struct {
		Type      *string `json:"type,omitempty" validate:"omitempty,oneof=COSMETIC CURRENCY ACCESS TICKET"`
		Name      *string `json:"name,omitempty" validate:"omitempty,min=2"`
		Rarity    *string `json:"rarity,omitempty" validate:"omitempty,oneof=COMMON RARE EPIC LEGENDARY"`
		Stackable *bool   `json:"stackable,omitempty"`
		Meta      *string `json:"meta,omitempty"`
	}
)
