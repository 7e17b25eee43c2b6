package domain

import (
	"errors"
	"time"
)

var (
	ErrNotFound       = errors.New("not found")
	ErrInvalidID      = errors.New("invalid id")
	ErrInvalidName    = errors.New("invalid name")
	ErrInvalidSection = errors.New("invalid section")
)

// Section groups products in the catalog. Deleting a section cascades to its
// products; their image blobs are removed as separate best-effort steps.
type Section struct {
	ID        string    `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"not null" json:"name"`
	Color     string    `json:"color"`
	Icon      string    `json:"icon"`
	Image     *string   `json:"image"`
	CreatedAt time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

// Product belongs to exactly one Section and carries up to three images.
type Product struct {
	ID              string    `gorm:"primaryKey" json:"id"`
	SectionID       string    `gorm:"not null;index" json:"sectionId"`
	Name            string    `gorm:"not null" json:"name"`
	Description     string    `json:"description"`
	Price           float64   `json:"price"`
	RentPrice       float64   `json:"rentPrice"`
	Image           *string   `json:"image"`
	ImageSecondary1 *string   `gorm:"column:image_secondary1" json:"imageSecondary1"`
	ImageSecondary2 *string   `gorm:"column:image_secondary2" json:"imageSecondary2"`
	CreatedAt       time.Time `gorm:"not null" json:"createdAt"`
	UpdatedAt       time.Time `gorm:"not null" json:"updatedAt"`
}

// ImageRefs returns every image reference the product carries.
func (p *Product) ImageRefs() []*string {
	return []*string{p.Image, p.ImageSecondary1, p.ImageSecondary2}
}

// SectionWithCount is the aggregate list row: a section plus how many
// products it owns, computed in SQL rather than per-section queries.
type SectionWithCount struct {
	Section
	ProductCount int64 `json:"productCount"`
}
