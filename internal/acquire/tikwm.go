package acquire

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

// videoMetadata is the caption and cover image of a social-video post.
type videoMetadata struct {
	Title string
	Cover string
}

// fetchVideoMetadata queries the public metadata endpoint for a recognized
// social-video URL. Non-2xx and malformed JSON are plain errors that the
// ladder swallows.
func (a *Acquirer) fetchVideoMetadata(ctx context.Context, pageURL string) (videoMetadata, error) {
	endpoint := fmt.Sprintf("%s/api/?url=%s", a.cfg.VideoBase, url.QueryEscape(pageURL))

	body, err := a.get(ctx, endpoint, defaultUserAgent, nil)
	if err != nil {
		return videoMetadata{}, err
	}

	var payload struct {
		Data struct {
			Title string `json:"title"`
			Cover string `json:"cover"`
		} `json:"data"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return videoMetadata{}, fmt.Errorf("malformed metadata response: %w", err)
	}
	if payload.Data.Title == "" && payload.Data.Cover == "" {
		return videoMetadata{}, fmt.Errorf("metadata response carried no data")
	}
	return videoMetadata{Title: payload.Data.Title, Cover: payload.Data.Cover}, nil
}

const maxBodyBytes = 4 << 20 // upstream pages can be arbitrarily large

func readBody(resp *http.Response) ([]byte, error) {
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	return body, nil
}
