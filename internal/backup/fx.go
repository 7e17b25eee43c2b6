package backup

import (
	"context"

	"github.com/smallbiznis/decora/internal/backup/domain"
	"github.com/smallbiznis/decora/internal/backup/service"
	"github.com/smallbiznis/decora/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("backup.service",
	fx.Provide(service.New),
	fx.Invoke(collectOnStart),
)

// collectOnStart runs one garbage-collection pass after startup when enabled.
func collectOnStart(lc fx.Lifecycle, svc domain.Service, holder *config.BackupConfigHolder, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			if !holder.Get().CollectOnStart {
				return nil
			}
			go func() {
				if _, err := svc.Collect(context.Background()); err != nil {
					log.Warn("startup garbage collection failed", zap.Error(err))
				}
			}()
			return nil
		},
	})
}
