package db

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// WipeAll deletes every row from the given tables with foreign-key
// enforcement suspended, so deletion order does not matter. Enforcement is
// restored best-effort even when a mid-sequence delete fails; the delete
// error wins over a restore error.
func WipeAll(ctx context.Context, conn *gorm.DB, dbType string, tables []string) error {
	disable, enable := fkToggle(dbType)

	if err := conn.WithContext(ctx).Exec(disable).Error; err != nil {
		return fmt.Errorf("suspend foreign keys: %w", err)
	}

	var wipeErr error
	for _, table := range tables {
		if err := conn.WithContext(ctx).Exec("DELETE FROM " + table).Error; err != nil {
			wipeErr = fmt.Errorf("wipe %s: %w", table, err)
			break
		}
	}

	if err := conn.WithContext(ctx).Exec(enable).Error; err != nil && wipeErr == nil {
		wipeErr = fmt.Errorf("restore foreign keys: %w", err)
	}

	return wipeErr
}

func fkToggle(dbType string) (disable, enable string) {
	switch dbType {
	case "postgres":
		return "SET session_replication_role = replica", "SET session_replication_role = DEFAULT"
	case "mysql":
		return "SET FOREIGN_KEY_CHECKS = 0", "SET FOREIGN_KEY_CHECKS = 1"
	default:
		return "PRAGMA foreign_keys = OFF", "PRAGMA foreign_keys = ON"
	}
}
