package domain

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrInvalidArchive means the selected file is not a recognizable backup.
	// It is always raised before any destructive step.
	ErrInvalidArchive = errors.New("invalid or corrupted backup archive")

	// ErrPartialRestore means the destructive wipe had already begun when the
	// restore failed. The store may be inconsistent until the next successful
	// import; the caller should tell the user to restart.
	ErrPartialRestore = errors.New("restore failed after wipe; data may be inconsistent")
)

// Meta is the archive's sanity-check manifest: who wrote it, when, and how
// many records of each kind it claims to hold.
type Meta struct {
	AppName    string         `json:"appName"`
	Version    string         `json:"version"`
	ExportDate time.Time      `json:"exportDate"`
	Counts     map[string]int `json:"counts"`
}

// CollectStats reports one garbage-collection pass.
type CollectStats struct {
	Referenced int `json:"referenced"`
	Removed    int `json:"removed"`
}

type Service interface {
	// Export writes a full backup archive and returns its path. Nothing is
	// produced when any step fails.
	Export(ctx context.Context) (string, error)

	// Import restores the given archive, replacing all live data. Failures
	// before the wipe leave the live state untouched.
	Import(ctx context.Context, archivePath string) error

	// Collect removes blob files no record references.
	Collect(ctx context.Context) (CollectStats, error)
}
