package main

import (
	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/decora/internal/blobstore"
	"github.com/smallbiznis/decora/internal/clock"
	"github.com/smallbiznis/decora/internal/config"
	"github.com/smallbiznis/decora/internal/logger"
	"github.com/smallbiznis/decora/internal/migration"
	"github.com/smallbiznis/decora/internal/observability"
	"github.com/smallbiznis/decora/internal/server"
	"github.com/smallbiznis/decora/pkg/db"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		// Core infrastructure
		config.Module,
		logger.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		clock.Module,
		migration.Module,
		blobstore.Module,

		// HTTP surface plus every feature module it serves
		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() *snowflake.Node {
	node, err := snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
	return node
}
