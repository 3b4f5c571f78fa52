package acquire

import (
	"bytes"
	"context"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/itstoasti/Snaprecipes/internal/content"
)

const minSearchSnippetLength = 200

var pathWordRe = regexp.MustCompile(`[a-zA-Z]{3,}`)

// searchKeywords must appear in the snippets for them to count as recipe
// content rather than generic result chrome.
var searchKeywords = []string{"ingredient", "instruction"}

// fetchSearchSnippets is the last resort: a site-restricted search built from
// the URL's domain and path words, accepted only when the stripped result
// text is long enough and plausibly recipe-related.
func (a *Acquirer) fetchSearchSnippets(ctx context.Context, pageURL string) (string, error) {
	parsed, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("invalid url: %w", err)
	}

	words := pathWordRe.FindAllString(parsed.Path, -1)
	query := fmt.Sprintf("site:%s %s", parsed.Hostname(), strings.Join(words, " "))
	endpoint := fmt.Sprintf("%s/html/?q=%s", strings.TrimSuffix(a.cfg.SearchBase, "/"), url.QueryEscape(query))

	body, err := a.get(ctx, endpoint, userAgents[0], nil)
	if err != nil {
		return "", err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to parse search results: %w", err)
	}
	doc.Find("script, style, noscript").Remove()
	text := content.CollapseWhitespace(doc.Find("body").Text())

	if len(text) < minSearchSnippetLength {
		return "", fmt.Errorf("search snippets too short (%d chars)", len(text))
	}
	lower := strings.ToLower(text)
	relevant := false
	for _, keyword := range searchKeywords {
		if strings.Contains(lower, keyword) {
			relevant = true
			break
		}
	}
	if !relevant {
		return "", fmt.Errorf("search snippets carry no recipe keywords")
	}

	return content.Clip(text, content.MaxDirectFetchChars), nil
}
