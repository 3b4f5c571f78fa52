// Package acquire implements the content-acquisition ladder: platform
// metadata, link preview, rendered-page proxy, rotating-UA direct fetch, and
// a search-snippet last resort. Acquisition never fails the pipeline; every
// strategy runs under its own error boundary and failure degrades to less
// content.
package acquire

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"github.com/itstoasti/Snaprecipes/internal/config"
	"github.com/itstoasti/Snaprecipes/recipe"
)

// HTTPClient defines the interface for HTTP client operations
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

const defaultUserAgent = "Mozilla/5.0 (compatible; SnapRecipes/1.0)"

// Acquirer runs the acquisition ladder for one URL at a time. It holds no
// per-call state; concurrent calls are safe.
type Acquirer struct {
	client HTTPClient
	cfg    *config.Config
	log    zerolog.Logger
}

// New creates an acquirer. A nil client gets a default with the configured
// acquisition timeout.
func New(cfg *config.Config, client HTTPClient, log zerolog.Logger) *Acquirer {
	if client == nil {
		client = &http.Client{Timeout: cfg.HTTPTimeout}
	}
	return &Acquirer{client: client, cfg: cfg, log: log}
}

// AcquireClientSide runs the lightweight strategies: platform metadata for
// recognized social-video URLs, a generic link preview, and the rendered-page
// proxy. The caption/metadata step always runs since it is cheap and
// additive.
func (a *Acquirer) AcquireClientSide(ctx context.Context, pageURL string) recipe.AcquiredContent {
	var out recipe.AcquiredContent

	isSocialVideo := strings.Contains(pageURL, "tiktok.com")
	if isSocialVideo {
		meta, err := a.fetchVideoMetadata(ctx, pageURL)
		if err != nil {
			a.log.Debug().Err(err).Str("url", pageURL).Msg("video metadata fetch failed")
		} else {
			if meta.Title != "" {
				out.SocialCaption = fmt.Sprintf("\n\n--- TikTok Video Caption ---\nCaption: %s", meta.Title)
			}
			out.CandidateImageURL = meta.Cover
		}
		// the platform aggressively blocks both preview and proxy scrapers;
		// the caption and cover are the best client-side result
		return out
	}

	preview, err := a.fetchLinkPreview(ctx, pageURL)
	if err != nil {
		a.log.Debug().Err(err).Str("url", pageURL).Msg("link preview fetch failed")
	} else {
		if out.CandidateImageURL == "" && len(preview.Images) > 0 {
			out.CandidateImageURL = preview.Images[0]
		}
		if preview.Description != "" {
			title := preview.Title
			if title == "" {
				title = "Unknown"
			}
			out.SocialCaption = fmt.Sprintf("\n\n--- Social Media Metadata / Caption ---\nTitle: %s\nCaption: %s", title, preview.Description)
		}
	}

	text, err := a.fetchRenderedText(ctx, pageURL)
	if err != nil {
		a.log.Warn().Err(err).Str("url", pageURL).Msg("rendered-page fetch failed, proceeding with metadata only")
		return out
	}
	out.RawText = text
	out.ScrapeSucceeded = true
	return out
}

// AcquireServerSide runs the heavyweight strategies after a failed
// client-side scrape: direct fetch with rotating user agents, then
// search-engine snippets. Caption and thumbnail survive from the prior pass.
func (a *Acquirer) AcquireServerSide(ctx context.Context, pageURL string, prior recipe.AcquiredContent) recipe.AcquiredContent {
	out := prior

	text, err := a.fetchDirect(ctx, pageURL)
	if err != nil {
		a.log.Debug().Err(err).Str("url", pageURL).Msg("direct fetch failed")
	} else if text != "" {
		out.RawText = text
		out.ScrapeSucceeded = true
		return out
	}

	text, err = a.fetchSearchSnippets(ctx, pageURL)
	if err != nil {
		a.log.Debug().Err(err).Str("url", pageURL).Msg("search snippet fallback failed")
		return out
	}
	out.RawText = text
	out.ScrapeSucceeded = true
	return out
}

// get issues a GET with the given user agent and returns the body for 2xx
// responses.
func (a *Acquirer) get(ctx context.Context, rawURL, userAgent string, extraHeaders map[string]string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)
	for k, v := range extraHeaders {
		req.Header.Set(k, v)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return readBody(resp)
}
