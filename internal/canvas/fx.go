package canvas

import (
	"github.com/smallbiznis/decora/internal/canvas/repository"
	"github.com/smallbiznis/decora/internal/canvas/service"
	"go.uber.org/fx"
)

var Module = fx.Module("canvas.service",
	fx.Provide(repository.Provide),
	fx.Provide(service.New),
)
