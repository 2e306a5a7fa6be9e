package main

import (
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx"

	"itinerary/internal/http/handlers"
	"itinerary/internal/suggest"
)

func TestAppGraphIsComplete(t *testing.T) {
	require.NoError(t, fx.ValidateApp(appOptions(), fx.NopLogger))
}

func TestAppGraphProvidesRouterDeps(t *testing.T) {
	err := fx.ValidateApp(
		appOptions(),
		fx.NopLogger,
		fx.Invoke(func(*gin.Engine, handlers.Recommender, *suggest.Generator) {}),
	)
	require.NoError(t, err)
}

func TestAppGraphDetectsMissingProvider(t *testing.T) {
	err := fx.ValidateApp(
		loggerModule,
		suggestModule,
		httpModule,
		fx.NopLogger,
	)
	require.Error(t, err, "config.Config has no provider")
}
