package savedreport

import "go.uber.org/fx"

var Module = fx.Module("savedreport.repository",
	fx.Provide(NewRepository),
)
