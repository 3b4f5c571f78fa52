package acquire

import (
	"context"
	"fmt"
	"strings"

	"github.com/itstoasti/Snaprecipes/internal/content"
)

// botChallengeMarkers identify interstitial pages the rendering proxy
// sometimes returns instead of real content.
var botChallengeMarkers = []string{
	"just a moment",
	"challenge-platform",
	"verification successful",
}

// fetchRenderedText asks the JavaScript-rendering proxy for the page's text.
// Implausibly short output and bot-challenge interstitials count as failure.
func (a *Acquirer) fetchRenderedText(ctx context.Context, pageURL string) (string, error) {
	endpoint := fmt.Sprintf("%s/%s", strings.TrimSuffix(a.cfg.ReaderBase, "/"), pageURL)

	body, err := a.get(ctx, endpoint, defaultUserAgent, map[string]string{
		"Accept": "text/event-stream, text/plain",
	})
	if err != nil {
		return "", err
	}

	text := strings.TrimSpace(string(body))
	if len(text) < content.MinPlausibleText {
		return "", fmt.Errorf("rendered text implausibly short (%d chars)", len(text))
	}
	lower := strings.ToLower(text)
	for _, marker := range botChallengeMarkers {
		if strings.Contains(lower, marker) {
			return "", fmt.Errorf("rendered text is a bot challenge (%q)", marker)
		}
	}
	return text, nil
}
