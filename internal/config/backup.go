package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
)

// BackupConfig tunes the export/import pipeline. It lives in an optional
// backup.yml so users can adjust it without rebuilding, and reloads on change.
type BackupConfig struct {
	// ArchivePrefix overrides the slugified business name in archive names.
	ArchivePrefix string `mapstructure:"archivePrefix"`
	// CollectOnStart runs a garbage-collection pass during startup.
	CollectOnStart bool `mapstructure:"collectOnStart"`
	// KeepArchives is how many produced archives to retain in the data dir.
	KeepArchives int `mapstructure:"keepArchives"`
}

func DefaultBackupConfig() BackupConfig {
	return BackupConfig{
		ArchivePrefix:  "",
		CollectOnStart: true,
		KeepArchives:   5,
	}
}

type BackupConfigHolder struct {
	current atomic.Value // holds BackupConfig
}

func NewBackupConfigHolder(cfg Config) (*BackupConfigHolder, error) {
	v := viper.New()

	v.SetConfigName("backup")
	v.SetConfigType("yml")
	v.AddConfigPath(cfg.DataDir)
	v.AddConfigPath(".")

	v.SetEnvPrefix("DECORA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
		defaults := DefaultBackupConfig()
		v.SetDefault("backup.archivePrefix", defaults.ArchivePrefix)
		v.SetDefault("backup.collectOnStart", defaults.CollectOnStart)
		v.SetDefault("backup.keepArchives", defaults.KeepArchives)
	}

	var bc BackupConfig
	if err := v.UnmarshalKey("backup", &bc); err != nil {
		return nil, err
	}
	if err := validateBackupConfig(bc); err != nil {
		return nil, err
	}

	holder := &BackupConfigHolder{}
	holder.current.Store(bc)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated BackupConfig
		if err := v.UnmarshalKey("backup", &updated); err != nil {
			log.Printf("[backup-config] reload failed: %v", err)
			return
		}
		if err := validateBackupConfig(updated); err != nil {
			log.Printf("[backup-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[backup-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *BackupConfigHolder) Get() BackupConfig {
	return h.current.Load().(BackupConfig)
}

func validateBackupConfig(cfg BackupConfig) error {
	if cfg.KeepArchives < 0 {
		return errors.New("backup.keepArchives cannot be negative")
	}
	return nil
}
