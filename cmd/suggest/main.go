// README: Command-line itinerary suggestions; reads preferences from flags or an interactive prompt and prints the places as JSON.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"

	"itinerary/internal/ai"
	"itinerary/internal/config"
	"itinerary/internal/logger"
	"itinerary/internal/suggest"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

type cliFlags struct {
	location    string
	budget      string
	experiences string
	minPlaces   int
	matchRatio  float64
}

func run(args []string, stdin *os.File, stdout, stderr io.Writer) error {
	var f cliFlags
	fs := flag.NewFlagSet("suggest", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&f.location, "location", "", "Destination, e.g. Kyoto")
	fs.StringVar(&f.budget, "budget", "", "Budget, e.g. low, medium, high")
	fs.StringVar(&f.experiences, "experiences", "", "Comma-separated experiences, e.g. culture,food")
	fs.IntVar(&f.minPlaces, "min-places", 0, "Override ITINERARY_MIN_PLACES")
	fs.Float64Var(&f.matchRatio, "match-ratio", -1, "Override ITINERARY_MATCH_RATIO")
	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.Log.Level, "console")
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	prefs, err := readPreferences(f, stdin, stdout)
	if err != nil {
		return err
	}

	ctx := context.Background()
	provider, err := ai.New(ctx, ai.Config{
		Provider:    cfg.LLM.Provider,
		APIKey:      cfg.LLM.APIKey,
		Model:       cfg.LLM.Model,
		BaseURL:     cfg.LLM.BaseURL,
		Temperature: cfg.LLM.Temperature,
		Timeout:     cfg.LLM.Timeout,
	})
	if err != nil {
		return err
	}
	defer provider.Close()

	opts := []suggest.Option{
		suggest.WithMinPlaces(cfg.Suggest.MinPlaces),
		suggest.WithMatchRatio(cfg.Suggest.MatchRatio),
	}
	if f.minPlaces > 0 {
		opts = append(opts, suggest.WithMinPlaces(f.minPlaces))
	}
	if f.matchRatio >= 0 {
		opts = append(opts, suggest.WithMatchRatio(f.matchRatio))
	}
	gen, err := suggest.NewGenerator(provider, opts...)
	if err != nil {
		return err
	}

	log.Debug("requesting suggestions", zap.String("model", provider.Model()), zap.Any("preferences", prefs))
	places, err := gen.Recommend(ctx, prefs)
	if err != nil {
		return err
	}
	return printPlaces(stdout, places)
}

// readPreferences uses the flags when any is set, otherwise prompts on a terminal.
func readPreferences(f cliFlags, stdin *os.File, stdout io.Writer) (suggest.Preferences, error) {
	if f.location != "" || f.budget != "" || f.experiences != "" {
		return suggest.Preferences{
			Location:    f.location,
			Budget:      f.budget,
			Experiences: splitExperiences(f.experiences),
		}, nil
	}

	info, err := stdin.Stat()
	if err != nil || info.Mode()&os.ModeCharDevice == 0 {
		return suggest.Preferences{}, errors.New("no preferences given: pass -location, -budget and -experiences or run in a terminal")
	}
	return promptPreferences(bufio.NewReader(stdin), stdout)
}

func promptPreferences(r *bufio.Reader, w io.Writer) (suggest.Preferences, error) {
	ask := func(label string) (string, error) {
		fmt.Fprintf(w, "%s: ", label)
		line, err := r.ReadString('\n')
		if err != nil && !(errors.Is(err, io.EOF) && line != "") {
			return "", err
		}
		return strings.TrimSpace(line), nil
	}

	location, err := ask("Where are you traveling to")
	if err != nil {
		return suggest.Preferences{}, err
	}
	budget, err := ask("What is your budget (low, medium, high)")
	if err != nil {
		return suggest.Preferences{}, err
	}
	experiences, err := ask("Experiences you want, comma separated (e.g. culture, food)")
	if err != nil {
		return suggest.Preferences{}, err
	}
	return suggest.Preferences{
		Location:    location,
		Budget:      budget,
		Experiences: splitExperiences(experiences),
	}, nil
}

func splitExperiences(s string) []string {
	out := []string{}
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func printPlaces(w io.Writer, places []suggest.Place) error {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{"places": places})
}
