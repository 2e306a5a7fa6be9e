package observability

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_RecordAndExpose(t *testing.T) {
	m, err := New("itinerary-test")
	require.NoError(t, err)
	t.Cleanup(func() { _ = m.Shutdown(context.Background()) })

	m.RecordSuggestion(context.Background(), StatusOK, 120*time.Millisecond)
	m.RecordSuggestion(context.Background(), StatusError, 5*time.Millisecond)

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	var sawCounter, sawHistogram bool
	for _, f := range families {
		name := f.GetName()
		if strings.Contains(name, "suggestions_requests") {
			sawCounter = true
			var total float64
			for _, metric := range f.GetMetric() {
				total += metric.GetCounter().GetValue()
			}
			assert.EqualValues(t, 2, total)
		}
		if strings.Contains(name, "suggestions_duration") {
			sawHistogram = true
		}
	}
	assert.True(t, sawCounter)
	assert.True(t, sawHistogram)

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))
	body, _ := io.ReadAll(rec.Body)
	assert.Contains(t, string(body), "suggestions_requests")
	assert.Contains(t, string(body), `status="ok"`)
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	m.RecordSuggestion(context.Background(), StatusOK, time.Second)
	assert.NoError(t, m.Shutdown(context.Background()))
	assert.Nil(t, m.Registry())
}
