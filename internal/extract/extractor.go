// Package extract is the pipeline façade. It coordinates acquisition,
// request building, the model call, and normalization, and decides when a
// failed client-side scrape warrants server-side re-acquisition.
package extract

import (
	"context"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/itstoasti/Snaprecipes/internal/ai"
	"github.com/itstoasti/Snaprecipes/internal/config"
	"github.com/itstoasti/Snaprecipes/internal/content"
	"github.com/itstoasti/Snaprecipes/internal/normalize"
	"github.com/itstoasti/Snaprecipes/recipe"
)

// Acquirer runs the content-acquisition ladder.
type Acquirer interface {
	AcquireClientSide(ctx context.Context, pageURL string) recipe.AcquiredContent
	AcquireServerSide(ctx context.Context, pageURL string, prior recipe.AcquiredContent) recipe.AcquiredContent
}

// Generator calls the selected model backend.
type Generator interface {
	Generate(ctx context.Context, req recipe.ExtractionRequest) (string, error)
	ProviderName() string
}

// Service exposes the only two entry points of the extraction subsystem.
// It is stateless per invocation; concurrent calls share nothing mutable.
type Service struct {
	cfg       *config.Config
	acquirer  Acquirer
	model     Generator
	telemetry *Telemetry
	log       zerolog.Logger
}

// NewService wires the pipeline together.
func NewService(cfg *config.Config, acquirer Acquirer, model Generator, log zerolog.Logger) *Service {
	return &Service{
		cfg:       cfg,
		acquirer:  acquirer,
		model:     model,
		telemetry: NewTelemetry(log),
		log:       log,
	}
}

// Telemetry exposes the background recorder, mostly so callers and tests can
// drain it on shutdown.
func (s *Service) Telemetry() *Telemetry {
	return s.telemetry
}

// FromURL extracts a structured recipe from a source URL.
func (s *Service) FromURL(ctx context.Context, pageURL string) (recipe.ExtractedRecipe, error) {
	attemptID := uuid.NewString()
	log := s.log.With().Str("attempt", attemptID).Str("url", pageURL).Logger()

	acquired := s.acquirer.AcquireClientSide(ctx, pageURL)
	log.Debug().Bool("scrape_succeeded", acquired.ScrapeSucceeded).
		Int("raw_chars", len(acquired.RawText)).Msg("client-side acquisition done")

	rec, res, err := s.runModel(ctx, log, pageURL, acquired)

	if insufficient(res, err) && !acquired.ScrapeSucceeded {
		log.Info().Msg("input insufficient after failed scrape, re-acquiring server-side")
		reacquired := s.acquirer.AcquireServerSide(ctx, pageURL, acquired)

		rec2, res2, err2 := s.runModel(ctx, log, pageURL, reacquired)
		switch {
		case err2 == nil:
			rec, res, err = rec2, res2, err2
		case err != nil:
			// both attempts failed; surface the later, better-informed error
			err = err2
		}
	}

	if err != nil {
		s.telemetry.Record(ctx, Event{AttemptID: attemptID, Source: "url", Provider: s.model.ProviderName(), Err: err.Error()})
		return recipe.ExtractedRecipe{}, err
	}

	s.telemetry.Record(ctx, Event{AttemptID: attemptID, Source: "url", Provider: s.model.ProviderName(), Defaults: res.Defaults})
	return rec, nil
}

// FromImage extracts a structured recipe from a photographed recipe card.
func (s *Service) FromImage(ctx context.Context, imageBase64 string) (recipe.ExtractedRecipe, error) {
	attemptID := uuid.NewString()

	raw, err := s.model.Generate(ctx, recipe.ExtractionRequest{
		Prompt:      ai.ExtractionPrompt,
		ImageBase64: imageBase64,
		Provider:    s.model.ProviderName(),
		Model:       s.cfg.Model(s.model.ProviderName()),
	})
	if err != nil {
		s.telemetry.Record(ctx, Event{AttemptID: attemptID, Source: "image", Provider: s.model.ProviderName(), Err: err.Error()})
		return recipe.ExtractedRecipe{}, err
	}

	res, err := normalize.Normalize(raw, "")
	if err != nil {
		s.telemetry.Record(ctx, Event{AttemptID: attemptID, Source: "image", Provider: s.model.ProviderName(), Err: err.Error()})
		return recipe.ExtractedRecipe{}, err
	}

	s.telemetry.Record(ctx, Event{AttemptID: attemptID, Source: "image", Provider: s.model.ProviderName(), Defaults: res.Defaults})
	return res.Recipe, nil
}

// runModel windows the acquired text, frames the request, calls the model,
// and normalizes its output.
func (s *Service) runModel(ctx context.Context, log zerolog.Logger, pageURL string, acquired recipe.AcquiredContent) (recipe.ExtractedRecipe, normalize.Result, error) {
	windowed := content.SelectRecipeSection(acquired.RawText, content.MaxWindowChars)

	raw, err := s.model.Generate(ctx, recipe.ExtractionRequest{
		Prompt:        ai.ExtractionPrompt,
		ContentWindow: ai.FrameContent(pageURL, acquired, windowed),
		Provider:      s.model.ProviderName(),
		Model:         s.cfg.Model(s.model.ProviderName()),
	})
	if err != nil {
		return recipe.ExtractedRecipe{}, normalize.Result{}, err
	}

	res, err := normalize.Normalize(raw, acquired.CandidateImageURL)
	if err != nil {
		return recipe.ExtractedRecipe{}, normalize.Result{}, err
	}
	if len(res.Defaults) > 0 {
		log.Info().Strs("defaults", res.Defaults).Msg("normalization applied defaults")
	}
	return res.Recipe, res, nil
}

// insufficient reports whether the attempt produced nothing worth keeping:
// either normalization failed outright or the recipe has no ingredients and
// no steps.
func insufficient(res normalize.Result, err error) bool {
	if err != nil {
		return true
	}
	return len(res.Recipe.Ingredients) == 0 && len(res.Recipe.Steps) == 0
}
