package acquire

import (
	"bytes"
	"context"
	"fmt"

	"github.com/PuerkitoBio/goquery"
)

// linkPreview is the Open-Graph-style metadata of a page.
type linkPreview struct {
	Title       string
	Description string
	Images      []string
}

// fetchLinkPreview reads the page's meta tags under a short timeout. Social
// platforms usually inject post captions into the OG description even when
// they block full scrapes.
func (a *Acquirer) fetchLinkPreview(ctx context.Context, pageURL string) (linkPreview, error) {
	ctx, cancel := context.WithTimeout(ctx, a.cfg.PreviewTimeout)
	defer cancel()

	body, err := a.get(ctx, pageURL, defaultUserAgent, nil)
	if err != nil {
		return linkPreview{}, err
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return linkPreview{}, fmt.Errorf("failed to parse HTML: %w", err)
	}

	var preview linkPreview
	preview.Title = metaContent(doc, "og:title")
	if preview.Title == "" {
		preview.Title = doc.Find("title").First().Text()
	}
	preview.Description = metaContent(doc, "og:description")
	if preview.Description == "" {
		preview.Description = metaContent(doc, "description")
	}
	for _, key := range []string{"og:image", "og:image:url", "twitter:image"} {
		if img := metaContent(doc, key); img != "" {
			preview.Images = append(preview.Images, img)
		}
	}
	return preview, nil
}

// metaContent reads a meta tag by property or name attribute.
func metaContent(doc *goquery.Document, key string) string {
	if v, ok := doc.Find(fmt.Sprintf(`meta[property=%q]`, key)).First().Attr("content"); ok {
		return v
	}
	if v, ok := doc.Find(fmt.Sprintf(`meta[name=%q]`, key)).First().Attr("content"); ok {
		return v
	}
	return ""
}
