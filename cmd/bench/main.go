// README: Smoke and load runner for a deployed itinerary API; executes HTTP checks and prints a PASS/FAIL summary.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

func main() {
	cfg := loadConfig()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	bench := NewRunner(cfg)
	results := bench.RunAll(ctx)

	fmt.Println("\n== Summary ==")
	pass, fail, skipped := 0, 0, 0
	for _, r := range results {
		switch r.Status {
		case StatusPass:
			pass++
		case StatusFail:
			fail++
		case StatusSkip:
			skipped++
		}
	}
	fmt.Printf("PASS=%d FAIL=%d SKIP=%d\n", pass, fail, skipped)

	if fail > 0 {
		os.Exit(1)
	}
}

type Config struct {
	BaseURL     string
	Location    string
	Budget      string
	Experiences []string
	Live        bool
	Timeout     time.Duration
	Concurrency int
}

func loadConfig() Config {
	var cfg Config
	var experiences string
	flag.StringVar(&cfg.BaseURL, "base-url", envOrDefault("ITINERARY_BENCH_BASE_URL", "http://localhost:8080"), "API base URL")
	flag.StringVar(&cfg.Location, "location", envOrDefault("ITINERARY_BENCH_LOCATION", "Kyoto"), "Location sent in live cases")
	flag.StringVar(&cfg.Budget, "budget", envOrDefault("ITINERARY_BENCH_BUDGET", "medium"), "Budget sent in live cases")
	flag.StringVar(&experiences, "experiences", envOrDefault("ITINERARY_BENCH_EXPERIENCES", "culture,food"), "Comma-separated experiences")
	flag.BoolVar(&cfg.Live, "live", envOrDefaultBool("ITINERARY_BENCH_LIVE", false), "Run cases that call the LLM provider")
	flag.DurationVar(&cfg.Timeout, "timeout", envOrDefaultDuration("ITINERARY_BENCH_TIMEOUT", 5*time.Minute), "Total timeout")
	flag.IntVar(&cfg.Concurrency, "concurrency", envOrDefaultInt("ITINERARY_BENCH_CONCURRENCY", 4), "Concurrent live requests in the burst case")
	flag.Parse()
	cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	cfg.Experiences = splitList(experiences)
	return cfg
}

func splitList(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func envOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envOrDefaultBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		v = strings.ToLower(v)
		return v == "1" || v == "true" || v == "yes"
	}
	return def
}

func envOrDefaultInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			return n
		}
	}
	return def
}

func envOrDefaultDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
