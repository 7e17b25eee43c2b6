package domain

import (
	"errors"
	"time"

	"gorm.io/datatypes"
)

var ErrNotFound = errors.New("not found")

// SavedReport is a stored report configuration. Params holds the report
// builder's filter state as an opaque JSON document.
type SavedReport struct {
	ID        string         `gorm:"primaryKey" json:"id"`
	Name      string         `gorm:"not null" json:"name"`
	Type      string         `gorm:"not null" json:"type"`
	Params    datatypes.JSON `json:"params"`
	CreatedAt time.Time      `gorm:"not null" json:"createdAt"`
}

func (SavedReport) TableName() string { return "saved_reports" }
