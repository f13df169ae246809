package types

import (
	"time"

	"gorm.io/datatypes"
)

// Event is one row of the append-only event log. Rows are never updated
// or deleted; drop markers only scope what queries look at.
type Event struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	Type      string         `gorm:"column:type;not null;index" json:"type"`
	CreatedBy string         `gorm:"column:created_by;not null" json:"createdBy"`
	CreatedAt time.Time      `gorm:"not null;index" json:"createdAt"`
	Data      datatypes.JSON `gorm:"type:jsonb;column:data" json:"data"`
	Tags      datatypes.JSON `gorm:"type:jsonb;column:tags" json:"tags,omitempty"`

	// Diffs is filled in by the event differ for audit display. Never
	// persisted: nil means no older event to compare against, an empty
	// slice means the payloads were identical.
	Diffs []FieldDiff `gorm:"-" json:"diffs"`
}

func (Event) TableName() string { return "events" }

// FieldDiff is one entry of a structural diff between two event payloads.
type FieldDiff struct {
	Op   string      `json:"op"` // "added", "deleted", "edited"
	Path []string    `json:"path"`
	Lhs  interface{} `json:"lhs,omitempty"`
	Rhs  interface{} `json:"rhs,omitempty"`
}
