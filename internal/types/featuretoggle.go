package types

import (
	"time"

	"gorm.io/datatypes"
)

// StrategyBinding attaches a named activation strategy to a toggle.
type StrategyBinding struct {
	Name        string                 `json:"name"`
	Parameters  map[string]interface{} `json:"parameters,omitempty"`
	Constraints []Constraint           `json:"constraints,omitempty"`
}

type Constraint struct {
	ContextName string   `json:"contextName"`
	Operator    string   `json:"operator"`
	Values      []string `json:"values"`
}

// Variant is a named sub-allocation of a toggle's "on" state.
type Variant struct {
	Name      string                 `json:"name"`
	Weight    int                    `json:"weight"`
	Payload   map[string]interface{} `json:"payload,omitempty"`
	Overrides []VariantOverride      `json:"overrides,omitempty"`
}

type VariantOverride struct {
	ContextName string   `json:"contextName"`
	Values      []string `json:"values"`
}

type FeatureToggle struct {
	Name        string         `gorm:"primaryKey;size:128" json:"name"`
	Description string         `gorm:"size:512" json:"description"`
	Enabled     bool           `gorm:"not null" json:"enabled"`
	Stale       bool           `gorm:"not null" json:"stale"`
	Archived    bool           `gorm:"not null;index" json:"archived"`
	Project     string         `gorm:"size:128" json:"project,omitempty"`
	Strategies  datatypes.JSON `gorm:"type:jsonb" json:"strategies"`
	Variants    datatypes.JSON `gorm:"type:jsonb" json:"variants,omitempty"`
	CreatedAt   time.Time      `gorm:"not null" json:"createdAt"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updatedAt"`
}

func (FeatureToggle) TableName() string { return "feature_toggles" }
