package types

import (
	"time"

	"gorm.io/datatypes"
)

// StrategyParameter describes one configurable parameter of a strategy.
type StrategyParameter struct {
	Name        string `json:"name"`
	Type        string `json:"type"`
	Description string `json:"description,omitempty"`
	Required    bool   `json:"required"`
}

// Strategy is a named, parameterized activation rule. Built-in strategies
// ship with Editable=false and reject update and delete.
type Strategy struct {
	Name        string         `gorm:"primaryKey;size:128" json:"name"`
	Description string         `gorm:"size:512" json:"description"`
	Parameters  datatypes.JSON `gorm:"type:jsonb" json:"parameters"`
	Editable    bool           `gorm:"not null" json:"editable"`
	Deprecated  bool           `gorm:"not null" json:"deprecated"`
	CreatedAt   time.Time      `gorm:"not null" json:"createdAt"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updatedAt"`
}

func (Strategy) TableName() string { return "strategies" }
