package session

import (
	"context"

	"go.uber.org/fx"
)

var Module = fx.Module("session",
	fx.Provide(NewController),
	fx.Invoke(registerLifecycle),
)

// registerLifecycle starts the initial load in the background and closes
// the gateway on shutdown.
func registerLifecycle(lc fx.Lifecycle, c *Controller) {
	loadCtx, cancel := context.WithCancel(context.Background())
	lc.Append(fx.Hook{
		OnStart: func(context.Context) error {
			go c.Load(loadCtx)
			return nil
		},
		OnStop: func(context.Context) error {
			cancel()
			return c.Close()
		},
	})
}
