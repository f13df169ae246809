package types

import (
	"time"

	"gorm.io/datatypes"
)

// ContextField declares a field SDK clients may send in their context,
// e.g. userId or environment. Seeded from static config at startup.
type ContextField struct {
	Name        string         `gorm:"primaryKey;size:128" json:"name"`
	Description string         `gorm:"size:512" json:"description"`
	SortOrder   int            `gorm:"not null" json:"sortOrder"`
	LegalValues datatypes.JSON `gorm:"type:jsonb" json:"legalValues,omitempty"`
	CreatedAt   time.Time      `gorm:"not null" json:"createdAt"`
	UpdatedAt   time.Time      `gorm:"not null" json:"updatedAt"`
}

func (ContextField) TableName() string { return "context_fields" }
