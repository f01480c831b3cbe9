package log

import (
	"go.uber.org/fx"
	"go.uber.org/zap"
)

const ModuleName = "diref/log"

// Module provides a *zap.Logger built from the Config in the graph and
// routes fx's own events through it.
func Module() fx.Option {
	return fx.Module(ModuleName,
		fx.Provide(NewZapLogger),
		fx.WithLogger(NewEventLogger),
		fx.Invoke(func(lc fx.Lifecycle, logger *zap.Logger) {
			lc.Append(fx.StopHook(func() {
				_ = logger.Sync()
			}))
		}),
	)
}
