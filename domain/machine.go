package domain

import (
	"errors"
	"time"
)

const (
	RarityCommon    = "COMMON"
	RarityRare      = "RARE"
	RarityEpic      = "EPIC"
	RarityLegendary = "LEGENDARY"

	VersionStatusDraft     = "DRAFT"
	VersionStatusPublished = "PUBLISHED"
	VersionStatusArchived  = "ARCHIVED"
)

// Rarities is the fixed draw enumeration in display order. Configurations
// are sorted along it so a weight set always walks in the same order.
var Rarities = []string{RarityCommon, RarityRare, RarityEpic, RarityLegendary}

var (
	MessageSuccessGetMachines    = "machines retrieved successfully"
	MessageSuccessGetMachine     = "machine retrieved successfully"
	MessageSuccessCreateMachine  = "machine created successfully"
	MessageSuccessUpdateMachine  = "machine updated successfully"
	MessageSuccessCreateVersion  = "probability version created successfully"
	MessageSuccessPublishVersion = "probability version published successfully"

	MessageFailedGetMachines    = "failed to retrieve machines"
	MessageFailedGetMachine     = "failed to retrieve machine"
	MessageFailedCreateMachine  = "failed to create machine"
	MessageFailedUpdateMachine  = "failed to update machine"
	MessageFailedCreateVersion  = "failed to create probability version"
	MessageFailedPublishVersion = "failed to publish probability version"

	ErrMachineNotFound       = errors.New("machine not found")
	ErrVersionNotFound       = errors.New("probability version not found")
	ErrNoActiveConfiguration = errors.New("machine has no published probability version")
	ErrInvalidRarity         = errors.New("invalid rarity")
	ErrRarityWithoutPool     = errors.New("rarity has no reward pool items")
)

type (
	CreateMachineRequest struct {
		Name          string `json:"name" validate:"required,min=2"`
		ThemeKey      string `json:"theme_key" validate:"required,min=2"`
		CostPerSpin   int    `json:"cost_per_spin" validate:"required,gt=0"`
		TicketAllowed bool   `json:"ticket_allowed"`
		IsActive      bool   `json:"is_active"`
	}

	UpdateMachineRequest struct {
		Name          *string `json:"name,omitempty" validate:"omitempty,min=2"`
		ThemeKey      *string `json:"theme_key,omitempty" validate:"omitempty,min=2"`
		CostPerSpin   *int    `json:"cost_per_spin,omitempty" validate:"omitempty,gt=0"`
		TicketAllowed *bool   `json:"ticket_allowed,omitempty"`
		IsActive      *bool   `json:"is_active,omitempty"`
	}

	RarityWeightInput struct {
		Rarity string `json:"rarity" validate:"required,oneof=COMMON RARE EPIC LEGENDARY"`
		Weight int    `json:"weight" validate:"required,gt=0"`
	}

	RewardPoolItemInput struct {
		Rarity          string `json:"rarity" validate:"required,oneof=COMMON RARE EPIC LEGENDARY"`
		RewardCatalogID string `json:"reward_catalog_id" validate:"required,uuid"`
		Weight          int    `json:"weight" validate:"required,gt=0"`
	}

	CreateProbabilityVersionRequest struct {
		Note          string                `json:"note,omitempty"`
		RarityWeights []RarityWeightInput   `json:"rarity_weights" validate:"required,min=1,dive"`
		PoolItems     []RewardPoolItemInput `json:"pool_items" validate:"required,min=1,dive"`
	}

	MachineSummary struct {
		ID            string `json:"id"`
		Name          string `json:"name"`
		ThemeKey      string `json:"theme_key"`
		CostPerSpin   int    `json:"cost_per_spin"`
		TicketAllowed bool   `json:"ticket_allowed"`
		IsActive      bool   `json:"is_active"`
	}

	PublishResult struct {
		VersionID        string     `json:"version_id"`
		AlreadyPublished bool       `json:"already_published"`
		PublishedAt      *time.Time `json:"published_at,omitempty"`
	}
)
