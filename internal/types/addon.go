package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Addon is a configured integration (webhook-style). Delivery mechanics
// live with the dispatch collaborator; this is just the stored config.
type Addon struct {
	ID          uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Provider    string         `gorm:"size:64;not null" json:"provider"`
	Description string         `gorm:"size:512" json:"description"`
	Enabled     bool           `gorm:"not null" json:"enabled"`
	Parameters  datatypes.JSON `gorm:"type:jsonb" json:"parameters"`
	Events      datatypes.JSON `gorm:"type:jsonb" json:"events"`
	CreatedAt   time.Time      `gorm:"not null" json:"createdAt"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updatedAt"`
}

func (Addon) TableName() string { return "addons" }
