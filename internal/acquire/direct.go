package acquire

import (
	"bytes"
	"context"
	"fmt"
	"net/url"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"github.com/itstoasti/Snaprecipes/internal/content"
)

// userAgents are tried in order until one gets a response. Blog hosts that
// refuse the first often serve the second or the crawler string.
var userAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/124.0.0.0 Safari/537.36",
	"Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.0 Mobile/15E148 Safari/604.1",
	"Mozilla/5.0 (compatible; Googlebot/2.1; +http://www.google.com/bot.html)",
}

// fetchDirect GETs the page itself, rotating user agents until one succeeds.
// An embedded structured recipe island beats extracted page text; failing
// that, readability's main text beats a naive tag strip.
func (a *Acquirer) fetchDirect(ctx context.Context, pageURL string) (string, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("invalid url: %w", err)
	}

	var lastErr error
	for _, ua := range userAgents {
		body, err := a.get(ctx, pageURL, ua, nil)
		if err != nil {
			lastErr = err
			continue
		}

		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
		if err != nil {
			lastErr = fmt.Errorf("failed to parse HTML: %w", err)
			continue
		}

		if blob, ok := findRecipeIsland(doc); ok {
			return blob, nil
		}

		text := mainText(body, parsed, doc)
		if text == "" {
			lastErr = fmt.Errorf("page yielded no text")
			continue
		}
		return content.Clip(text, content.MaxDirectFetchChars), nil
	}
	if lastErr == nil {
		lastErr = fmt.Errorf("no user agent succeeded")
	}
	return "", lastErr
}

// mainText extracts readable text from the fetched page, preferring
// readability's article extraction over stripping every tag.
func mainText(body []byte, pageURL *url.URL, doc *goquery.Document) string {
	if article, err := readability.FromReader(bytes.NewReader(body), pageURL); err == nil {
		if text := content.CollapseWhitespace(article.TextContent); len(text) >= content.MinPlausibleText {
			return text
		}
	}

	doc.Find("script, style, noscript, iframe, svg").Remove()
	return content.CollapseWhitespace(doc.Find("body").Text())
}
