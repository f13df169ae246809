package types

import "time"

// Tag is identified by its (type, value) pair. Type defaults to "simple".
type Tag struct {
	Type      string    `gorm:"primaryKey;size:64" json:"type"`
	Value     string    `gorm:"primaryKey;size:255" json:"value"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
}

func (Tag) TableName() string { return "tags" }

// TagType namespaces tags, e.g. "simple" or "release".
type TagType struct {
	Name        string    `gorm:"primaryKey;size:64" json:"name"`
	Description string    `gorm:"size:512" json:"description"`
	Icon        string    `gorm:"size:64" json:"icon,omitempty"`
	CreatedAt   time.Time `gorm:"not null" json:"createdAt"`
}

func (TagType) TableName() string { return "tag_types" }

// FeatureTag joins a feature toggle with a tag.
type FeatureTag struct {
	FeatureName string    `gorm:"primaryKey;size:128" json:"featureName"`
	TagType     string    `gorm:"primaryKey;size:64" json:"tagType"`
	TagValue    string    `gorm:"primaryKey;size:255" json:"tagValue"`
	CreatedAt   time.Time `gorm:"not null" json:"createdAt"`
}

func (FeatureTag) TableName() string { return "feature_tags" }
