package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeGroq struct {
	mu       sync.Mutex
	hits     atomic.Int32
	lastBody map[string]any
	lastAuth string
	status   int
	reply    string
}

func (f *fakeGroq) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.hits.Add(1)
	f.mu.Lock()
	f.lastAuth = r.Header.Get("Authorization")
	_ = json.NewDecoder(r.Body).Decode(&f.lastBody)
	f.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if f.status != 0 && f.status != http.StatusOK {
		w.WriteHeader(f.status)
		_, _ = w.Write([]byte(`{"error":{"message":"Invalid API Key","type":"invalid_request_error","code":"invalid_api_key"}}`))
		return
	}
	_, _ = w.Write([]byte(f.reply))
}

func chatCompletion(content string) string {
	body, _ := json.Marshal(map[string]any{
		"id":      "chatcmpl-test",
		"object":  "chat.completion",
		"created": time.Now().Unix(),
		"model":   DefaultGroqModel,
		"choices": []map[string]any{{
			"index":         0,
			"message":       map[string]any{"role": "assistant", "content": content},
			"finish_reason": "stop",
		}},
	})
	return string(body)
}

func newTestGroq(t *testing.T, f *fakeGroq, key string) *GroqProvider {
	t.Helper()
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return NewGroqProvider(Config{APIKey: key, BaseURL: srv.URL, Timeout: 5 * time.Second})
}

func TestGroqComplete_SendsPinnedJSONRequest(t *testing.T) {
	f := &fakeGroq{reply: chatCompletion(`{"places":[]}`)}
	p := newTestGroq(t, f, "gsk_test")

	out, err := p.Complete(context.Background(), "recommend places in Kyoto")
	require.NoError(t, err)
	assert.Equal(t, `{"places":[]}`, out)

	assert.EqualValues(t, 1, f.hits.Load())
	f.mu.Lock()
	defer f.mu.Unlock()
	assert.Equal(t, "Bearer gsk_test", f.lastAuth)
	assert.Equal(t, DefaultGroqModel, f.lastBody["model"])

	temp, ok := f.lastBody["temperature"].(float64)
	require.True(t, ok, "temperature must be sent explicitly")
	assert.Less(t, temp, 1e-6)

	format, ok := f.lastBody["response_format"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "json_object", format["type"])

	msgs, ok := f.lastBody["messages"].([]any)
	require.True(t, ok)
	require.Len(t, msgs, 1)
	assert.Equal(t, "recommend places in Kyoto", msgs[0].(map[string]any)["content"])
}

func TestGroqComplete_MissingKeyMakesNoRequest(t *testing.T) {
	f := &fakeGroq{reply: chatCompletion(`{"places":[]}`)}
	p := newTestGroq(t, f, "  ")

	_, err := p.Complete(context.Background(), "prompt")
	require.ErrorIs(t, err, ErrMissingAPIKey)
	assert.EqualValues(t, 0, f.hits.Load())
}

func TestGroqComplete_RejectedKey(t *testing.T) {
	f := &fakeGroq{status: http.StatusUnauthorized}
	p := newTestGroq(t, f, "gsk_wrong")

	_, err := p.Complete(context.Background(), "prompt")
	require.ErrorIs(t, err, ErrInvalidAPIKey)
	assert.EqualValues(t, 1, f.hits.Load())
}

func TestGroqComplete_ServerErrorIsReturnedOnce(t *testing.T) {
	f := &fakeGroq{status: http.StatusInternalServerError}
	p := newTestGroq(t, f, "gsk_test")

	_, err := p.Complete(context.Background(), "prompt")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidAPIKey)
	assert.EqualValues(t, 1, f.hits.Load())
}

func TestGroqComplete_EmptyContent(t *testing.T) {
	f := &fakeGroq{reply: chatCompletion("   ")}
	p := newTestGroq(t, f, "gsk_test")

	_, err := p.Complete(context.Background(), "prompt")
	require.ErrorIs(t, err, ErrEmptyCompletion)
}

func TestNew_SelectsProvider(t *testing.T) {
	p, err := New(context.Background(), Config{Provider: "GROQ", APIKey: "k", Model: "llama-3.1-8b-instant"})
	require.NoError(t, err)
	assert.IsType(t, &GroqProvider{}, p)
	assert.Equal(t, "llama-3.1-8b-instant", p.Model())

	_, err = New(context.Background(), Config{Provider: "gemini"})
	require.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = New(context.Background(), Config{Provider: "bard", APIKey: "k"})
	require.Error(t, err)
}
