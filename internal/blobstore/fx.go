package blobstore

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/smallbiznis/decora/internal/config"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func provideMetrics() *Metrics {
	return NewMetrics(prometheus.DefaultRegisterer)
}

func provideStore(cfg config.Config, log *zap.Logger, metrics *Metrics) (*Store, error) {
	return New(cfg.BlobDir(), log, metrics)
}

var Module = fx.Module("blobstore",
	fx.Provide(
		provideMetrics,
		provideStore,
	),
)
