package acquire

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/itstoasti/Snaprecipes/internal/config"
	"github.com/itstoasti/Snaprecipes/internal/content"
	"github.com/itstoasti/Snaprecipes/recipe"
)

func newTestAcquirer(cfg *config.Config) *Acquirer {
	if cfg.PreviewTimeout == 0 {
		cfg.PreviewTimeout = 5 * time.Second
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = 5 * time.Second
	}
	return New(cfg, http.DefaultClient, zerolog.Nop())
}

func TestAcquireClientSide_SocialVideo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/", r.URL.Path)
		assert.Contains(t, r.URL.RawQuery, "url=")
		_, _ = w.Write([]byte(`{"data":{"title":"Easy pasta recipe! 1 cup flour...","cover":"https://p16.example/cover.jpg"}}`))
	}))
	defer server.Close()

	a := newTestAcquirer(&config.Config{VideoBase: server.URL})
	got := a.AcquireClientSide(context.Background(), "https://www.tiktok.com/@cook/video/123")

	assert.Contains(t, got.SocialCaption, "TikTok Video Caption")
	assert.Contains(t, got.SocialCaption, "Easy pasta recipe!")
	assert.Equal(t, "https://p16.example/cover.jpg", got.CandidateImageURL)
	assert.False(t, got.ScrapeSucceeded)
	assert.Empty(t, got.RawText)
}

func TestAcquireClientSide_SocialVideoEndpointDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	a := newTestAcquirer(&config.Config{VideoBase: server.URL})
	got := a.AcquireClientSide(context.Background(), "https://www.tiktok.com/@cook/video/123")

	// silent failure, not fatal
	assert.Empty(t, got.SocialCaption)
	assert.Empty(t, got.CandidateImageURL)
	assert.False(t, got.ScrapeSucceeded)
}

func TestAcquireClientSide_PreviewAndRenderedText(t *testing.T) {
	longText := strings.Repeat("Rendered recipe text. ", 50)

	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head>
			<title>Fallback Title</title>
			<meta property="og:title" content="Carbonara" />
			<meta property="og:description" content="The best carbonara you will ever make" />
			<meta property="og:image" content="https://img.example/carbonara.jpg" />
		</head><body></body></html>`))
	}))
	defer page.Close()

	reader := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(longText))
	}))
	defer reader.Close()

	a := newTestAcquirer(&config.Config{ReaderBase: reader.URL})
	got := a.AcquireClientSide(context.Background(), page.URL)

	assert.True(t, got.ScrapeSucceeded)
	assert.Equal(t, strings.TrimSpace(longText), got.RawText)
	assert.Equal(t, "https://img.example/carbonara.jpg", got.CandidateImageURL)
	assert.Contains(t, got.SocialCaption, "Title: Carbonara")
	assert.Contains(t, got.SocialCaption, "Caption: The best carbonara")
}

func TestAcquireClientSide_BotChallengeIsFailedScrape(t *testing.T) {
	page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head><meta property="og:description" content="caption" /></head></html>`))
	}))
	defer page.Close()

	reader := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte("Just a moment... challenge-platform"))
	}))
	defer reader.Close()

	a := newTestAcquirer(&config.Config{ReaderBase: reader.URL})
	got := a.AcquireClientSide(context.Background(), page.URL)

	assert.False(t, got.ScrapeSucceeded)
	assert.Empty(t, got.RawText)
	// cheap metadata still came through
	assert.Contains(t, got.SocialCaption, "caption")
}

func TestFetchRenderedText_Validation(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		expectError bool
	}{
		{name: "plausible text", body: strings.Repeat("recipe ", 100), expectError: false},
		{name: "too short", body: "tiny", expectError: true},
		{name: "bot challenge long form", body: strings.Repeat("padding ", 100) + "Verification successful. Waiting...", expectError: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(tc.body))
			}))
			defer server.Close()

			a := newTestAcquirer(&config.Config{ReaderBase: server.URL})
			_, err := a.fetchRenderedText(context.Background(), "https://site.example/recipe")
			if tc.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFetchDirect_RecipeIslandWins(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		_, _ = w.Write([]byte(`<html><head>
			<script type="application/ld+json">
			{"@context":"https://schema.org","@graph":[
				{"@type":"WebSite","name":"Blog"},
				{"@type":["Recipe","Thing"],"name":"Lasagna","recipeIngredient":["1 lb pasta"]}
			]}
			</script>
		</head><body><p>nav nav nav</p></body></html>`))
	}))
	defer server.Close()

	a := newTestAcquirer(&config.Config{})
	text, err := a.fetchDirect(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Contains(t, text, `"Lasagna"`)
	assert.Contains(t, text, `"recipeIngredient"`)
	assert.Equal(t, 1, requests, "first user agent should succeed")
}

func TestFetchDirect_RotatesUserAgents(t *testing.T) {
	var agents []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		agents = append(agents, r.Header.Get("User-Agent"))
		if len(agents) < 3 {
			w.WriteHeader(http.StatusForbidden)
			return
		}
		_, _ = w.Write([]byte("<html><body><article><p>" + strings.Repeat("Mix the flour and sugar well. ", 30) + "</p></article></body></html>"))
	}))
	defer server.Close()

	a := newTestAcquirer(&config.Config{})
	text, err := a.fetchDirect(context.Background(), server.URL)
	require.NoError(t, err)

	assert.Contains(t, text, "Mix the flour and sugar")
	require.Len(t, agents, 3)
	assert.NotEqual(t, agents[0], agents[1])
	assert.NotEqual(t, agents[1], agents[2])
}

func TestFetchDirect_AllAgentsBlocked(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	a := newTestAcquirer(&config.Config{})
	_, err := a.fetchDirect(context.Background(), server.URL)
	assert.Error(t, err)
}

func TestFetchDirect_StripsMarkupAndTruncates(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><body>
			<script>var tracking = "should not appear";</script>
			<style>.ad { color: red }</style>
			<div>` + strings.Repeat("sauté ", 10000) + `</div>
		</body></html>`))
	}))
	defer server.Close()

	a := newTestAcquirer(&config.Config{})
	text, err := a.fetchDirect(context.Background(), server.URL)
	require.NoError(t, err)

	assert.NotContains(t, text, "should not appear")
	assert.NotContains(t, text, "color: red")
	assert.LessOrEqual(t, len(text), content.MaxDirectFetchChars)
	// the cut never splits a multi-byte character
	assert.True(t, utf8.ValidString(text))
}

func TestFetchSearchSnippets(t *testing.T) {
	t.Run("accepts recipe-flavored snippets", func(t *testing.T) {
		var query string
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			query = r.URL.Query().Get("q")
			_, _ = w.Write([]byte("<html><body><div class='result'>" +
				strings.Repeat("Combine each ingredient and follow the instruction list. ", 20) +
				"</div></body></html>"))
		}))
		defer server.Close()

		a := newTestAcquirer(&config.Config{SearchBase: server.URL})
		text, err := a.fetchSearchSnippets(context.Background(), "https://tasty.example/recipes/best-chocolate-cake")
		require.NoError(t, err)

		assert.Contains(t, query, "site:tasty.example")
		assert.Contains(t, query, "chocolate")
		assert.Contains(t, text, "ingredient")
	})

	t.Run("rejects short results", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html><body>ingredient</body></html>"))
		}))
		defer server.Close()

		a := newTestAcquirer(&config.Config{SearchBase: server.URL})
		_, err := a.fetchSearchSnippets(context.Background(), "https://tasty.example/recipes/cake")
		assert.Error(t, err)
	})

	t.Run("rejects irrelevant results", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html><body>" + strings.Repeat("unrelated result text ", 30) + "</body></html>"))
		}))
		defer server.Close()

		a := newTestAcquirer(&config.Config{SearchBase: server.URL})
		_, err := a.fetchSearchSnippets(context.Background(), "https://tasty.example/recipes/cake")
		assert.Error(t, err)
	})
}

func TestAcquireServerSide(t *testing.T) {
	t.Run("direct fetch wins, prior metadata survives", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html><body><article><p>" + strings.Repeat("Stir gently over low heat. ", 30) + "</p></article></body></html>"))
		}))
		defer server.Close()

		prior := recipe.AcquiredContent{
			SocialCaption:     "\n\n--- caption ---",
			CandidateImageURL: "https://img.example/c.jpg",
		}
		a := newTestAcquirer(&config.Config{})
		got := a.AcquireServerSide(context.Background(), server.URL, prior)

		assert.True(t, got.ScrapeSucceeded)
		assert.Contains(t, got.RawText, "Stir gently")
		assert.Equal(t, prior.SocialCaption, got.SocialCaption)
		assert.Equal(t, prior.CandidateImageURL, got.CandidateImageURL)
	})

	t.Run("falls through to search snippets", func(t *testing.T) {
		page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer page.Close()

		search := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("<html><body>" + strings.Repeat("Add one ingredient at a time per instruction. ", 20) + "</body></html>"))
		}))
		defer search.Close()

		a := newTestAcquirer(&config.Config{SearchBase: search.URL})
		got := a.AcquireServerSide(context.Background(), page.URL+"/recipes/pie", recipe.AcquiredContent{})

		assert.True(t, got.ScrapeSucceeded)
		assert.Contains(t, got.RawText, "ingredient")
	})

	t.Run("everything down degrades to prior content", func(t *testing.T) {
		page := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		}))
		defer page.Close()

		search := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}))
		defer search.Close()

		prior := recipe.AcquiredContent{SocialCaption: "\n\n--- caption ---"}
		a := newTestAcquirer(&config.Config{SearchBase: search.URL})
		got := a.AcquireServerSide(context.Background(), page.URL, prior)

		assert.False(t, got.ScrapeSucceeded)
		assert.Empty(t, got.RawText)
		assert.Equal(t, prior.SocialCaption, got.SocialCaption)
	})
}

func TestAcquisitionIsCancelable(t *testing.T) {
	started := make(chan struct{})
	var once sync.Once
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		once.Do(func() { close(started) })
		<-r.Context().Done()
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		<-started
		cancel()
	}()

	a := newTestAcquirer(&config.Config{ReaderBase: server.URL})
	got := a.AcquireClientSide(ctx, server.URL)

	// cancellation degrades acquisition instead of panicking or hanging
	assert.False(t, got.ScrapeSucceeded)
}
