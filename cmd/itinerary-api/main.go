// README: Entry point; wires config, logger, LLM provider, generator, metrics and the HTTP server with fx.
package main

import (
	_ "go.uber.org/automaxprocs"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
	"go.uber.org/zap"

	"itinerary/internal/config"
)

func main() {
	app := fx.New(
		appOptions(),
		fx.WithLogger(func(log *zap.Logger) fxevent.Logger {
			return &fxevent.ZapLogger{Logger: log.Named("fx")}
		}),
	)
	app.Run()
}

// appOptions is the dependency graph of the API server.
func appOptions() fx.Option {
	return fx.Options(
		fx.Provide(config.Load),
		loggerModule,
		suggestModule,
		httpModule,
	)
}
