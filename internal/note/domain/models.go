package domain

import (
	"errors"
	"time"
)

var ErrNotFound = errors.New("not found")

type Note struct {
	ID      string    `gorm:"primaryKey" json:"id"`
	Title   string    `gorm:"not null" json:"title"`
	Content string    `json:"content"`
	Date    time.Time `gorm:"not null" json:"date"`
}
