// Command server exposes the extraction pipeline over HTTP.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/itstoasti/Snaprecipes/internal/acquire"
	"github.com/itstoasti/Snaprecipes/internal/ai"
	"github.com/itstoasti/Snaprecipes/internal/config"
	"github.com/itstoasti/Snaprecipes/internal/extract"
	"github.com/itstoasti/Snaprecipes/recipe"
)

type extractRequest struct {
	URL         string `json:"url"`
	ImageBase64 string `json:"imageBase64"`
	Provider    string `json:"provider"`
}

// extractor is the slice of extract.Service the handler needs.
type extractor interface {
	FromURL(ctx context.Context, pageURL string) (recipe.ExtractedRecipe, error)
	FromImage(ctx context.Context, imageBase64 string) (recipe.ExtractedRecipe, error)
}

// serviceBuilder wires a pipeline for one request's provider choice.
type serviceBuilder func(provider string) (extractor, error)

func main() {
	log := zerolog.New(os.Stderr).With().Timestamp().Logger()
	cfg := config.Load()

	router := newRouter(func(provider string) (extractor, error) {
		return buildService(cfg, provider, log)
	}, log)

	log.Info().Str("addr", cfg.ServerAddr).Msg("starting extraction server")
	if err := router.Run(cfg.ServerAddr); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

// newRouter assembles the HTTP surface around the given pipeline builder.
func newRouter(build serviceBuilder, log zerolog.Logger) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), corsMiddleware())

	router.POST("/api/extract", func(c *gin.Context) {
		var req extractRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
		if (req.URL == "") == (req.ImageBase64 == "") {
			c.JSON(http.StatusBadRequest, gin.H{"error": "provide exactly one of url or imageBase64"})
			return
		}

		svc, err := build(req.Provider)
		if err != nil {
			c.JSON(statusForError(err), gin.H{"error": err.Error()})
			return
		}

		var result recipe.ExtractedRecipe
		if req.URL != "" {
			result, err = svc.FromURL(c.Request.Context(), req.URL)
		} else {
			result, err = svc.FromImage(c.Request.Context(), req.ImageBase64)
		}
		if err != nil {
			log.Error().Err(err).Msg("extraction failed")
			c.JSON(statusForError(err), gin.H{"error": userMessage(err)})
			return
		}
		c.JSON(http.StatusOK, result)
	})

	return router
}

// buildService wires a pipeline for the requested provider, defaulting to
// the configured one.
func buildService(cfg *config.Config, provider string, log zerolog.Logger) (*extract.Service, error) {
	p, err := ai.NewProvider(cfg, provider)
	if err != nil {
		return nil, err
	}
	model := ai.NewClient(p, nil, cfg.ModelTimeout, log)
	acquirer := acquire.New(cfg, nil, log)
	return extract.NewService(cfg, acquirer, model, log), nil
}

// statusForError maps the error taxonomy onto HTTP statuses.
func statusForError(err error) int {
	var reqErr *recipe.ProviderRequestError
	var malformed *recipe.MalformedResponseError
	var empty *recipe.EmptyResponseError
	var configErr *recipe.ProviderConfigError
	switch {
	case errors.As(err, &reqErr):
		return http.StatusBadGateway
	case errors.As(err, &malformed), errors.As(err, &empty):
		return http.StatusUnprocessableEntity
	case errors.As(err, &configErr):
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// userMessage keeps the caller-facing message actionable without leaking
// upstream bodies.
func userMessage(err error) string {
	var reqErr *recipe.ProviderRequestError
	var malformed *recipe.MalformedResponseError
	var empty *recipe.EmptyResponseError
	switch {
	case errors.As(err, &reqErr):
		return "could not reach the extraction service"
	case errors.As(err, &malformed), errors.As(err, &empty):
		return "could not understand this page"
	default:
		return err.Error()
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
		c.Header("Access-Control-Allow-Methods", "POST, OPTIONS")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
