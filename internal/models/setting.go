package models

import "time"

// Setting is one administrator-managed key/value pair
type Setting struct {
	Key       string    `gorm:"primaryKey;size:64" json:"key"`
	Value     string    `gorm:"size:255;not null" json:"value"`
	UpdatedBy *uint     `json:"updated_by,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Setting) TableName() string {
	return "affiliate_settings"
}
