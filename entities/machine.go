package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Machine struct {
	ID                          uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	Name                        string     `json:"name"`
	ThemeKey                    string     `json:"theme_key"`
	CostPerSpin                 int        `json:"cost_per_spin"`
	TicketAllowed               bool       `json:"ticket_allowed"`
	IsActive                    bool       `json:"is_active"`
	CurrentProbabilityVersionID *uuid.UUID `gorm:"type:uuid" json:"current_probability_version_id,omitempty"`

	CurrentProbabilityVersion *ProbabilityVersion `gorm:"foreignKey:CurrentProbabilityVersionID"`
	Timestamp
}

func (m *Machine) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

type ProbabilityVersion struct {
	ID            uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	MachineID     uuid.UUID  `gorm:"type:uuid;uniqueIndex:idx_prob_version_machine_number,priority:1" json:"machine_id"`
	VersionNumber int        `gorm:"uniqueIndex:idx_prob_version_machine_number,priority:2" json:"version_number"`
	Status        string     `json:"status"` // DRAFT, PUBLISHED, ARCHIVED
	Note          string     `json:"note,omitempty"`
	PublishedAt   *time.Time `json:"published_at,omitempty"`

	Machine         *Machine          `gorm:"foreignKey:MachineID"`
	RarityWeights   []*RarityWeight   `gorm:"foreignKey:ProbabilityVersionID"`
	RewardPoolItems []*RewardPoolItem `gorm:"foreignKey:ProbabilityVersionID"`
	Timestamp
}

func (v *ProbabilityVersion) BeforeCreate(tx *gorm.DB) error {
	if v.ID == uuid.Nil {
		v.ID = uuid.New()
	}
	return nil
}

type RarityWeight struct {
	ID                   uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ProbabilityVersionID uuid.UUID `gorm:"type:uuid;index" json:"probability_version_id"`
	Rarity               string    `json:"rarity"` // COMMON, RARE, EPIC, LEGENDARY
	Weight               int       `json:"weight"`

	Timestamp
}

func (w *RarityWeight) BeforeCreate(tx *gorm.DB) error {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return nil
}

type RewardPoolItem struct {
	ID                   uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	ProbabilityVersionID uuid.UUID `gorm:"type:uuid;index" json:"probability_version_id"`
	Rarity               string    `json:"rarity"`
	RewardCatalogID      uuid.UUID `gorm:"type:uuid" json:"reward_catalog_id"`
	Weight               int       `json:"weight"`

	RewardCatalog *RewardCatalog `gorm:"foreignKey:RewardCatalogID"`
	Timestamp
}

func (p *RewardPoolItem) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}
