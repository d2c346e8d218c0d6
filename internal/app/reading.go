package app

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/randomtoy/arcana-web/internal/domain"
	"github.com/randomtoy/arcana-web/internal/ports"
)

// FallbackReading is shown when the provider answers with empty content.
const FallbackReading = "The cards offered no words this time. Take a breath and ask again."

// User-facing messages stored in FormState.Err. The underlying cause is
// carried in the returned error and logged at the transport edge.
const (
	msgMissingCredential = "The reading room is not configured: the generation API key is missing."
	msgGenerationFailed  = "The reading could not be completed. Please try again in a moment."
	msgSuperseded        = "A newer reading request replaced this one."
)

// Params are the fixed generation parameters applied to every reading.
type Params struct {
	Model         string
	MaxTokens     int
	Temperature   float64
	HasCredential bool
}

// flight tracks one in-progress reading so a newer request for the same key
// can cancel it.
type flight struct {
	cancel context.CancelFunc
}

// ReadingService turns a submitted form into a reading. It resolves card
// names against the catalog, builds the prompt, and makes exactly one
// generation attempt per submit.
type ReadingService struct {
	catalog ports.CardCatalog
	gen     ports.Generator
	rng     domain.RNG
	params  Params

	mu       sync.Mutex
	inflight map[string]*flight
}

// Meta describes a completed generation attempt.
type Meta struct {
	Model     string
	LatencyMS int64
}

func NewReadingService(catalog ports.CardCatalog, gen ports.Generator, rng domain.RNG, params Params) *ReadingService {
	return &ReadingService{
		catalog:  catalog,
		gen:      gen,
		rng:      rng,
		params:   params,
		inflight: make(map[string]*flight),
	}
}

// Read validates the form, resolves its cards, and requests one reading.
// The returned state always carries the outcome: Reading on success, Err on
// failure. The returned error holds the cause for status mapping and logs.
//
// A non-empty flightKey enrolls the attempt in single-flight tracking: a
// later Read with the same key cancels this one, which then returns
// domain.ErrSuperseded.
func (s *ReadingService) Read(ctx context.Context, flightKey string, form domain.FormState) (domain.FormState, Meta, error) {
	if err := form.Validate(); err != nil {
		form, _ = domain.Apply(form, domain.SubmitFailed{Message: validationMessage(err)})
		return form, Meta{}, err
	}

	if !s.params.HasCredential {
		form, _ = domain.Apply(form, domain.SubmitFailed{Message: msgMissingCredential})
		return form, Meta{}, domain.ErrMissingCredential
	}

	details, err := s.resolveCards(ctx, form.NonEmptyCards())
	if err != nil {
		form, _ = domain.Apply(form, domain.SubmitFailed{Message: msgGenerationFailed})
		return form, Meta{}, fmt.Errorf("resolve cards: %w", err)
	}
	prompt := buildPrompt(form.Question, details)

	form, _ = domain.Apply(form, domain.SubmitStarted{})

	ctx, done := s.begin(flightKey, ctx)
	defer done()

	start := time.Now()
	out, err := s.gen.Generate(ctx, ports.GenerateInput{
		System:      systemPrompt,
		Prompt:      prompt,
		Model:       s.params.Model,
		MaxTokens:   s.params.MaxTokens,
		Temperature: s.params.Temperature,
	})
	latency := time.Since(start).Milliseconds()

	if err != nil {
		if errors.Is(err, context.Canceled) {
			form, _ = domain.Apply(form, domain.SubmitFailed{Message: msgSuperseded})
			return form, Meta{LatencyMS: latency}, domain.ErrSuperseded
		}
		form, _ = domain.Apply(form, domain.SubmitFailed{Message: msgGenerationFailed})
		if !errors.Is(err, domain.ErrUpstreamLLM) {
			err = fmt.Errorf("%w: %v", domain.ErrUpstreamLLM, err)
		}
		return form, Meta{LatencyMS: latency}, err
	}

	text := strings.TrimSpace(out.Text)
	if text == "" {
		text = FallbackReading
	}

	form, _ = domain.Apply(form, domain.SubmitSucceeded{Reading: text})

	model := out.Model
	if model == "" {
		model = s.params.Model
	}
	return form, Meta{Model: model, LatencyMS: latency}, nil
}

// Draw fills the form's card slots with randomly drawn catalog cards.
func (s *ReadingService) Draw(ctx context.Context, form domain.FormState) (domain.FormState, error) {
	cards, err := s.catalog.Cards(ctx)
	if err != nil {
		return form, fmt.Errorf("load catalog: %w", err)
	}
	names, err := domain.Draw(cards, form.CardCount, s.rng)
	if err != nil {
		return form, err
	}
	return domain.Apply(form, domain.SetCardNames{Names: names})
}

// resolveCards looks each typed name up in the catalog. Unknown names stay in
// the reading untouched; known ones gain keywords and a short meaning.
func (s *ReadingService) resolveCards(ctx context.Context, names []string) ([]domain.CardDetail, error) {
	details := make([]domain.CardDetail, len(names))
	for i, name := range names {
		card, ok, err := s.catalog.Find(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("find card %q: %w", name, err)
		}
		details[i] = domain.CardDetail{Name: name, Known: ok}
		if ok {
			details[i].Keywords = card.Keywords
			details[i].Short = card.Short
		}
	}
	return details, nil
}

// begin derives the generation context and, for a non-empty key, cancels any
// reading already in flight under that key.
func (s *ReadingService) begin(key string, parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)
	if key == "" {
		return ctx, cancel
	}

	f := &flight{cancel: cancel}

	s.mu.Lock()
	if prev, ok := s.inflight[key]; ok {
		prev.cancel()
	}
	s.inflight[key] = f
	s.mu.Unlock()

	return ctx, func() {
		s.mu.Lock()
		if s.inflight[key] == f {
			delete(s.inflight, key)
		}
		s.mu.Unlock()
		cancel()
	}
}

func validationMessage(err error) string {
	switch {
	case errors.Is(err, domain.ErrEmptyQuestion):
		return "Please enter a question before asking for a reading."
	case errors.Is(err, domain.ErrNoCards):
		return "Enter at least one card name, or draw cards first."
	default:
		return err.Error()
	}
}
