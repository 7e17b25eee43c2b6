package note

import "go.uber.org/fx"

var Module = fx.Module("note.repository",
	fx.Provide(NewRepository),
)
