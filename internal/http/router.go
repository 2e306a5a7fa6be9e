// README: HTTP router registration.
package http

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"itinerary/internal/http/handlers"
	"itinerary/internal/http/middleware"
	"itinerary/internal/observability"
)

type RouterDeps struct {
	Recommender handlers.Recommender
	Metrics     *observability.Metrics
	Logger      *zap.Logger
}

func NewRouter(deps RouterDeps) *gin.Engine {
	log := deps.Logger
	if log == nil {
		log = zap.NewNop()
	}

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logging(log), middleware.Recovery(log))

	suggestionHandler := handlers.NewSuggestionHandler(deps.Recommender, deps.Metrics, log)
	r.POST("/suggestions", suggestionHandler.Suggest)
	r.GET("/", handlers.Health)
	if deps.Metrics != nil {
		r.GET("/metrics", gin.WrapH(deps.Metrics.Handler()))
	}

	return r
}
