// README: Bench cases; health, request validation, response schema conformance and a concurrent burst.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/xeipuuv/gojsonschema"
)

const (
	StatusPass = "PASS"
	StatusFail = "FAIL"
	StatusSkip = "SKIP"
)

const suggestionsSchema = `{
  "type": "object",
  "required": ["suggestions"],
  "properties": {
    "suggestions": {
      "type": "array",
      "items": {
        "type": "object",
        "required": ["name", "lat", "lng", "description", "estimated_cost", "popularity"],
        "properties": {
          "name": {"type": "string"},
          "lat": {"type": "number"},
          "lng": {"type": "number"},
          "description": {"type": "string"},
          "estimated_cost": {"type": ["string", "number"]},
          "popularity": {"type": "string"}
        }
      }
    }
  }
}`

const errorSchema = `{
  "type": "object",
  "required": ["detail"],
  "properties": {"detail": {"type": "string"}}
}`

type Runner struct {
	cfg   Config
	httpc *http.Client
}

type Result struct {
	Name    string
	Status  string
	Latency time.Duration
	Note    string
}

type TestCase struct {
	Name string
	Live bool
	Run  func(ctx context.Context, r *Runner) Result
}

func NewRunner(cfg Config) *Runner {
	return &Runner{
		cfg:   cfg,
		httpc: &http.Client{Timeout: 90 * time.Second},
	}
}

func (r *Runner) RunAll(ctx context.Context) []Result {
	tests := r.cases()
	results := make([]Result, 0, len(tests))

	for _, tc := range tests {
		var res Result
		if tc.Live && !r.cfg.Live {
			res = Result{Status: StatusSkip, Note: "live=false"}
		} else {
			res = tc.Run(ctx, r)
		}
		res.Name = tc.Name
		results = append(results, res)
		fmt.Printf("%-5s %s", res.Status, tc.Name)
		if res.Latency > 0 {
			fmt.Printf(" (%s)", res.Latency.Round(time.Millisecond))
		}
		if res.Note != "" {
			fmt.Printf(" - %s", res.Note)
		}
		fmt.Println()
	}
	return results
}

func (r *Runner) preferences() map[string]any {
	return map[string]any{
		"location":    r.cfg.Location,
		"budget":      r.cfg.Budget,
		"experiences": r.cfg.Experiences,
	}
}

func (r *Runner) cases() []TestCase {
	base := r.cfg.BaseURL
	return []TestCase{
		{
			Name: "Health: GET /",
			Run: func(ctx context.Context, r *Runner) Result {
				status, body, latency, err := r.do(ctx, http.MethodGet, base+"/", "")
				if err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				if status != http.StatusOK || !strings.Contains(string(body), "Itinerary Suggestion API is running.") {
					return Result{Status: StatusFail, Latency: latency, Note: fmt.Sprintf("status=%d", status)}
				}
				return Result{Status: StatusPass, Latency: latency}
			},
		},
		malformedCase("Validation: empty body", base, ``),
		malformedCase("Validation: missing experiences", base, `{"location":"Kyoto","budget":"low"}`),
		malformedCase("Validation: experiences not a list", base, `{"location":"Kyoto","budget":"low","experiences":"food"}`),
		{
			Name: "Suggestions: schema conformance",
			Live: true,
			Run: func(ctx context.Context, r *Runner) Result {
				b, _ := json.Marshal(r.preferences())
				status, body, latency, err := r.do(ctx, http.MethodPost, base+"/suggestions", string(b))
				if err != nil {
					return Result{Status: StatusFail, Note: err.Error()}
				}
				if status != http.StatusOK {
					return Result{Status: StatusFail, Latency: latency, Note: fmt.Sprintf("status=%d body=%s", status, truncate(body))}
				}
				if msg := validate(suggestionsSchema, body); msg != "" {
					return Result{Status: StatusFail, Latency: latency, Note: msg}
				}
				var resp struct {
					Suggestions []json.RawMessage `json:"suggestions"`
				}
				_ = json.Unmarshal(body, &resp)
				return Result{Status: StatusPass, Latency: latency, Note: fmt.Sprintf("places=%d", len(resp.Suggestions))}
			},
		},
		{
			Name: "Suggestions: concurrent burst",
			Live: true,
			Run: func(ctx context.Context, r *Runner) Result {
				return concurrentBurst(ctx, r, base+"/suggestions")
			},
		},
	}
}

func malformedCase(name, base, body string) TestCase {
	return TestCase{
		Name: name,
		Run: func(ctx context.Context, r *Runner) Result {
			status, resp, latency, err := r.do(ctx, http.MethodPost, base+"/suggestions", body)
			if err != nil {
				return Result{Status: StatusFail, Note: err.Error()}
			}
			if status != http.StatusUnprocessableEntity {
				return Result{Status: StatusFail, Latency: latency, Note: fmt.Sprintf("status=%d", status)}
			}
			if msg := validate(errorSchema, resp); msg != "" {
				return Result{Status: StatusFail, Latency: latency, Note: msg}
			}
			return Result{Status: StatusPass, Latency: latency, Note: fmt.Sprintf("status=%d", status)}
		},
	}
}

func concurrentBurst(ctx context.Context, r *Runner, url string) Result {
	b, _ := json.Marshal(r.preferences())
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok, bad  int
		slowest  time.Duration
		firstErr string
	)

	start := time.Now()
	for i := 0; i < r.cfg.Concurrency; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			status, body, latency, err := r.do(ctx, http.MethodPost, url, string(b))
			mu.Lock()
			defer mu.Unlock()
			if latency > slowest {
				slowest = latency
			}
			if err == nil && status == http.StatusOK && validate(suggestionsSchema, body) == "" {
				ok++
				return
			}
			bad++
			if firstErr == "" {
				if err != nil {
					firstErr = err.Error()
				} else {
					firstErr = fmt.Sprintf("status=%d", status)
				}
			}
		}()
	}
	wg.Wait()

	note := fmt.Sprintf("ok=%d failed=%d slowest=%s total=%s", ok, bad, slowest.Round(time.Millisecond), time.Since(start).Round(time.Millisecond))
	if bad > 0 {
		return Result{Status: StatusFail, Note: note + " first=" + firstErr}
	}
	return Result{Status: StatusPass, Note: note}
}

func (r *Runner) do(ctx context.Context, method, url, body string) (int, []byte, time.Duration, error) {
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, reader)
	if err != nil {
		return 0, nil, 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	start := time.Now()
	resp, err := r.httpc.Do(req)
	if err != nil {
		return 0, nil, time.Since(start), err
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(resp.Body)
	return resp.StatusCode, data, time.Since(start), err
}

func validate(schema string, body []byte) string {
	res, err := gojsonschema.Validate(gojsonschema.NewStringLoader(schema), gojsonschema.NewBytesLoader(body))
	if err != nil {
		return "invalid json: " + err.Error()
	}
	if res.Valid() {
		return ""
	}
	msgs := make([]string, 0, len(res.Errors()))
	for _, e := range res.Errors() {
		msgs = append(msgs, e.String())
	}
	return strings.Join(msgs, "; ")
}

func truncate(b []byte) string {
	if len(b) > 200 {
		return string(b[:200]) + "..."
	}
	return string(b)
}
