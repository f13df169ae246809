package types

import (
	"time"

	"gorm.io/datatypes"
)

// ClientApplication is an SDK application that announced itself via the
// client API register call.
type ClientApplication struct {
	AppName    string         `gorm:"primaryKey;size:255" json:"appName"`
	CreatedBy  string         `gorm:"size:255" json:"createdBy,omitempty"`
	Strategies datatypes.JSON `gorm:"type:jsonb" json:"strategies,omitempty"`
	Announced  bool           `gorm:"not null" json:"announced"`
	CreatedAt  time.Time      `gorm:"not null" json:"createdAt"`
	UpdatedAt  time.Time      `gorm:"not null" json:"updatedAt"`
}

func (ClientApplication) TableName() string { return "client_applications" }

// ClientInstance is one running instance of a client application.
type ClientInstance struct {
	AppName    string    `gorm:"primaryKey;size:255" json:"appName"`
	InstanceID string    `gorm:"primaryKey;size:255" json:"instanceId"`
	ClientIP   string    `gorm:"size:64" json:"clientIp,omitempty"`
	LastSeen   time.Time `gorm:"not null" json:"lastSeen"`
	CreatedAt  time.Time `gorm:"not null" json:"createdAt"`
}

func (ClientInstance) TableName() string { return "client_instances" }

// ClientMetric is one raw, client-reported usage bucket, persisted
// before it is fanned out to the in-memory aggregator.
type ClientMetric struct {
	ID         uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	AppName    string         `gorm:"size:255;not null;index" json:"appName"`
	InstanceID string         `gorm:"size:255;not null" json:"instanceId"`
	Bucket     datatypes.JSON `gorm:"type:jsonb;not null" json:"bucket"`
	CreatedAt  time.Time      `gorm:"not null" json:"createdAt"`
}

func (ClientMetric) TableName() string { return "client_metrics" }
