package main

import (
	"context"
	"errors"
	"net"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"itinerary/internal/ai"
	"itinerary/internal/config"
	httptransport "itinerary/internal/http"
	"itinerary/internal/http/handlers"
	"itinerary/internal/logger"
	"itinerary/internal/observability"
	"itinerary/internal/suggest"
)

const serviceName = "itinerary-api"

var loggerModule = fx.Provide(provideLogger)

var suggestModule = fx.Provide(
	provideMetrics,
	provideLLM,
	provideGenerator,
	func(g *suggest.Generator) handlers.Recommender { return g },
)

var httpModule = fx.Options(
	fx.Provide(provideRouter, provideServer),
	fx.Invoke(func(*http.Server) {}),
)

func provideLogger(lc fx.Lifecycle, cfg config.Config) (*zap.Logger, error) {
	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(func() { _ = log.Sync() }))
	return log, nil
}

func provideMetrics(lc fx.Lifecycle) (*observability.Metrics, error) {
	m, err := observability.New(serviceName)
	if err != nil {
		return nil, err
	}
	lc.Append(fx.StopHook(m.Shutdown))
	return m, nil
}

func provideLLM(lc fx.Lifecycle, cfg config.Config, log *zap.Logger) (ai.LLMProvider, error) {
	p, err := ai.New(context.Background(), ai.Config{
		Provider:    cfg.LLM.Provider,
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		BaseURL:     cfg.LLM.BaseURL,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	})
	if err != nil {
		return nil, err
	}
	log.Info("llm provider ready",
		zap.String("provider", cfg.LLM.Provider),
		zap.String("model", p.Model()),
		zap.Duration("timeout", cfg.LLM.Timeout),
	)
	lc.Append(fx.StopHook(p.Close))
	return p, nil
}

func provideGenerator(llm ai.LLMProvider, cfg config.Config) (*suggest.Generator, error) {
	return suggest.NewGenerator(llm,
		suggest.WithMinPlaces(cfg.Suggest.MinPlaces),
		suggest.WithMatchRatio(cfg.Suggest.MatchRatio),
	)
}

func provideRouter(cfg config.Config, rec handlers.Recommender, m *observability.Metrics, log *zap.Logger) *gin.Engine {
	if cfg.Log.Level != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	return httptransport.NewRouter(httptransport.RouterDeps{
		Recommender: rec,
		Metrics:     m,
		Logger:      log,
	})
}

func provideServer(lc fx.Lifecycle, cfg config.Config, engine *gin.Engine, log *zap.Logger) *http.Server {
	srv := &http.Server{Addr: cfg.HTTP.Addr, Handler: engine}
	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			ln, err := net.Listen("tcp", srv.Addr)
			if err != nil {
				return err
			}
			log.Info("http server listening", zap.String("addr", ln.Addr().String()))
			go func() {
				if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("http server shutting down")
			return srv.Shutdown(ctx)
		},
	})
	return srv
}
