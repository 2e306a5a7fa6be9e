package suggest

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"itinerary/internal/ai"
)

// Completer sends a prompt to an LLM and returns the raw completion text.
// ai.LLMProvider satisfies it.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Generator turns preferences into place recommendations with one LLM call.
// It holds no per-request state and is safe for concurrent use.
type Generator struct {
	llm      Completer
	defaults Options
	tracer   trace.Tracer
}

// NewGenerator returns a Generator using llm. opts override DefaultOptions.
func NewGenerator(llm Completer, opts ...Option) (*Generator, error) {
	if llm == nil {
		return nil, fmt.Errorf("%w: nil completer", ErrConfiguration)
	}
	defaults := DefaultOptions().apply(opts)
	if err := defaults.Validate(); err != nil {
		return nil, err
	}
	return &Generator{
		llm:      llm,
		defaults: defaults,
		tracer:   otel.Tracer("itinerary/suggest"),
	}, nil
}

// Defaults returns the generator's tunables.
func (g *Generator) Defaults() Options {
	return g.defaults
}

// Recommend builds the prompt, calls the LLM exactly once and parses the answer.
// Places come back in the provider's order; nothing is deduplicated or retried.
func (g *Generator) Recommend(ctx context.Context, prefs Preferences, opts ...Option) ([]Place, error) {
	o := g.defaults.apply(opts)
	if err := o.Validate(); err != nil {
		return nil, err
	}

	ctx, span := g.tracer.Start(ctx, "suggest.Recommend", trace.WithAttributes(
		attribute.String("location", prefs.Location),
		attribute.Int("experiences", len(prefs.Experiences)),
		attribute.Int("min_places", o.MinPlaces),
		attribute.Int("match_percent", o.MatchPercent()),
	))
	defer span.End()

	completion, err := g.llm.Complete(ctx, BuildPrompt(prefs, o))
	if err != nil {
		err = classify(err)
		span.RecordError(err)
		span.SetStatus(codes.Error, "llm call failed")
		return nil, err
	}

	places, err := ParsePlaces(completion)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "parse failed")
		return nil, err
	}

	span.SetAttributes(attribute.Int("places", len(places)))
	return places, nil
}

func classify(err error) error {
	switch {
	case errors.Is(err, ErrConfiguration), errors.Is(err, ErrTransport), errors.Is(err, ErrSchema):
		return err
	case errors.Is(err, ai.ErrMissingAPIKey), errors.Is(err, ai.ErrInvalidAPIKey):
		return fmt.Errorf("%w: %w", ErrConfiguration, err)
	case errors.Is(err, ai.ErrEmptyCompletion):
		return fmt.Errorf("%w: %w", ErrSchema, err)
	default:
		return fmt.Errorf("%w: %w", ErrTransport, err)
	}
}
