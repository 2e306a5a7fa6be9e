package suggest

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"itinerary/internal/ai"
)

// stubCompleter records prompts and replays a canned completion.
type stubCompleter struct {
	mu      sync.Mutex
	prompts []string
	reply   string
	err     error
}

func (s *stubCompleter) Complete(_ context.Context, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.prompts = append(s.prompts, prompt)
	return s.reply, s.err
}

func (s *stubCompleter) calls() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.prompts)
}

func kyotoCompletion() string {
	items := make([]string, 0, 20)
	for i := 0; i < 10; i++ {
		items = append(items, placeJSON(i, "culture"), placeJSON(i, "food"))
	}
	return completionWith(items...)
}

func TestRecommend_KyotoScenario(t *testing.T) {
	llm := &stubCompleter{reply: kyotoCompletion()}
	g, err := NewGenerator(llm)
	require.NoError(t, err)

	prefs := Preferences{Location: "Kyoto", Budget: "medium", Experiences: []string{"culture", "food"}}
	places, err := g.Recommend(context.Background(), prefs)
	require.NoError(t, err)

	require.Len(t, places, 20)
	for i := 0; i < 10; i++ {
		assert.Equal(t, fmt.Sprintf("culture spot %d", i), places[2*i].Name)
		assert.Equal(t, fmt.Sprintf("food spot %d", i), places[2*i+1].Name)
	}

	require.Equal(t, 1, llm.calls())
	prompt := llm.prompts[0]
	assert.Contains(t, prompt, "Kyoto")
	assert.Contains(t, prompt, "medium")
	assert.Contains(t, prompt, "culture")
	assert.Contains(t, prompt, "food")
	assert.Contains(t, prompt, "20")
	assert.Contains(t, prompt, "70")
}

func TestRecommend_KeepsDuplicatesFromProvider(t *testing.T) {
	dup := placeJSON(3, "food")
	llm := &stubCompleter{reply: completionWith(dup, dup, dup)}
	g, err := NewGenerator(llm)
	require.NoError(t, err)

	places, err := g.Recommend(context.Background(), Preferences{Location: "Osaka"})
	require.NoError(t, err)
	assert.Len(t, places, 3)
	assert.Equal(t, places[0], places[2])
}

func TestRecommend_PerCallOptions(t *testing.T) {
	llm := &stubCompleter{reply: completionWith()}
	g, err := NewGenerator(llm, WithMinPlaces(12))
	require.NoError(t, err)
	assert.Equal(t, 12, g.Defaults().MinPlaces)

	_, err = g.Recommend(context.Background(), Preferences{Location: "Rome"}, WithMatchRatio(0.5), WithMinPlaces(8))
	require.NoError(t, err)
	assert.Contains(t, llm.prompts[0], "at least 8 places")
	assert.Contains(t, llm.prompts[0], "At least 50%")
}

func TestRecommend_InvalidOptionsNeverCallLLM(t *testing.T) {
	llm := &stubCompleter{reply: completionWith()}
	g, err := NewGenerator(llm)
	require.NoError(t, err)

	_, err = g.Recommend(context.Background(), Preferences{}, WithMatchRatio(2))
	require.ErrorIs(t, err, ErrValidation)
	assert.Zero(t, llm.calls())

	_, err = NewGenerator(llm, WithMinPlaces(0))
	require.ErrorIs(t, err, ErrValidation)

	_, err = NewGenerator(nil)
	require.ErrorIs(t, err, ErrConfiguration)
}

func TestRecommend_ErrorClasses(t *testing.T) {
	tests := []struct {
		name  string
		llm   *stubCompleter
		class error
	}{
		{"missing key", &stubCompleter{err: ai.ErrMissingAPIKey}, ErrConfiguration},
		{"rejected key", &stubCompleter{err: fmt.Errorf("groq: %w", ai.ErrInvalidAPIKey)}, ErrConfiguration},
		{"network", &stubCompleter{err: errors.New("dial tcp: connection refused")}, ErrTransport},
		{"deadline", &stubCompleter{err: context.DeadlineExceeded}, ErrTransport},
		{"empty completion", &stubCompleter{err: ai.ErrEmptyCompletion}, ErrSchema},
		{"free text", &stubCompleter{reply: "Sure! Kyoto has many temples."}, ErrSchema},
		{"no places key", &stubCompleter{reply: `{"results":[]}`}, ErrSchema},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := NewGenerator(tt.llm)
			require.NoError(t, err)

			places, err := g.Recommend(context.Background(), Preferences{Location: "Kyoto"})
			require.ErrorIs(t, err, tt.class)
			assert.Nil(t, places)
			assert.Equal(t, 1, tt.llm.calls(), "no retry on failure")
		})
	}
}

func TestRecommend_MissingCredentialMakesNoNetworkCall(t *testing.T) {
	var hits atomic.Int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	g, err := NewGenerator(ai.NewGroqProvider(ai.Config{BaseURL: srv.URL}))
	require.NoError(t, err)

	_, err = g.Recommend(context.Background(), Preferences{Location: "Kyoto", Budget: "low", Experiences: []string{"food"}})
	require.ErrorIs(t, err, ErrConfiguration)
	require.ErrorIs(t, err, ai.ErrMissingAPIKey)
	assert.Zero(t, hits.Load())
}
