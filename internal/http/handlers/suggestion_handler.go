// README: Suggestion handler; validates the request body and runs one generator call per request.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"itinerary/internal/observability"
	"itinerary/internal/suggest"
)

// Recommender is satisfied by *suggest.Generator.
type Recommender interface {
	Recommend(ctx context.Context, prefs suggest.Preferences, opts ...suggest.Option) ([]suggest.Place, error)
}

type SuggestionHandler struct {
	rec     Recommender
	metrics *observability.Metrics
	log     *zap.Logger
}

func NewSuggestionHandler(rec Recommender, metrics *observability.Metrics, log *zap.Logger) *SuggestionHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &SuggestionHandler{rec: rec, metrics: metrics, log: log}
}

// Pointers distinguish a missing field from an empty one.
type suggestionReq struct {
	Location    *string   `json:"location"`
	Budget      *string   `json:"budget"`
	Experiences *[]string `json:"experiences"`
}

type suggestionResp struct {
	Suggestions []suggest.Place `json:"suggestions"`
}

func (r suggestionReq) preferences() (suggest.Preferences, error) {
	switch {
	case r.Location == nil:
		return suggest.Preferences{}, errors.New("field required: location")
	case r.Budget == nil:
		return suggest.Preferences{}, errors.New("field required: budget")
	case r.Experiences == nil:
		return suggest.Preferences{}, errors.New("field required: experiences")
	}
	return suggest.Preferences{
		Location:    *r.Location,
		Budget:      *r.Budget,
		Experiences: *r.Experiences,
	}, nil
}

// Suggest handles POST /suggestions.
func (h *SuggestionHandler) Suggest(c *gin.Context) {
	start := time.Now()

	var req suggestionReq
	if err := c.ShouldBindJSON(&req); err != nil {
		h.metrics.RecordSuggestion(c.Request.Context(), observability.StatusInvalidRequest, time.Since(start))
		writeError(c, http.StatusUnprocessableEntity, bindMessage(err))
		return
	}
	prefs, err := req.preferences()
	if err != nil {
		h.metrics.RecordSuggestion(c.Request.Context(), observability.StatusInvalidRequest, time.Since(start))
		writeError(c, http.StatusUnprocessableEntity, err.Error())
		return
	}

	// A client disconnect must not abort the provider call.
	ctx := context.WithoutCancel(c.Request.Context())
	places, err := h.rec.Recommend(ctx, prefs)
	if err != nil {
		h.log.Error("suggestion failed",
			zap.String("request_id", c.GetString("request_id")),
			zap.String("location", prefs.Location),
			zap.Error(err),
		)
		h.metrics.RecordSuggestion(ctx, observability.StatusError, time.Since(start))
		writeError(c, http.StatusInternalServerError, err.Error())
		return
	}

	if places == nil {
		places = []suggest.Place{}
	}
	h.metrics.RecordSuggestion(ctx, observability.StatusOK, time.Since(start))
	writeJSON(c, http.StatusOK, suggestionResp{Suggestions: places})
}

func bindMessage(err error) string {
	var typeErr *json.UnmarshalTypeError
	var syntaxErr *json.SyntaxError
	switch {
	case errors.Is(err, io.EOF):
		return "request body is empty"
	case errors.As(err, &typeErr):
		return fmt.Sprintf("field %s: expected %s, got %s", typeErr.Field, typeErr.Type, typeErr.Value)
	case errors.As(err, &syntaxErr):
		return fmt.Sprintf("malformed JSON at offset %d", syntaxErr.Offset)
	default:
		return "invalid request body: " + err.Error()
	}
}
