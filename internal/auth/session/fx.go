package session

import "go.uber.org/fx"

var Module = fx.Module("auth.cookies",
	fx.Provide(NewManager),
)
