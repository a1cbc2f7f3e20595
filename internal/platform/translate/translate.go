// Package translate proxies message text through a LibreTranslate
// compatible endpoint.
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/nomavia/guestlink/pkg/logger"
)

// Translator turns text into the target language. Implementations must
// fall back to the original text on any failure; translation is never
// allowed to lose a message.
type Translator interface {
	Translate(ctx context.Context, text, target string) string
}

type request struct {
	Q      string `json:"q"`
	Source string `json:"source"`
	Target string `json:"target"`
	Format string `json:"format"`
}

type response struct {
	TranslatedText string `json:"translatedText"`
}

type Client struct {
	url    string
	client *http.Client
}

func NewClient(url string, timeout time.Duration) *Client {
	return &Client{
		url:    url,
		client: &http.Client{Timeout: timeout},
	}
}

func (c *Client) Translate(ctx context.Context, text, target string) string {
	if target == "" {
		return text
	}

	translated, err := c.translate(ctx, text, target)
	if err != nil {
		logger.WarnContext(ctx, "translation failed, keeping original text", "target", target, "error", err)
		return text
	}
	return translated
}

func (c *Client) translate(ctx context.Context, text, target string) (string, error) {
	payload, err := json.Marshal(request{Q: text, Source: "auto", Target: target, Format: "text"})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(payload))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	res, err := c.client.Do(req)
	if err != nil {
		return "", err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("translate endpoint returned status %d", res.StatusCode)
	}

	var out response
	if err := json.NewDecoder(res.Body).Decode(&out); err != nil {
		return "", err
	}
	if out.TranslatedText == "" {
		return "", fmt.Errorf("empty translation result")
	}
	return out.TranslatedText, nil
}

// Noop passes text through untouched. Used when translation is disabled.
type Noop struct{}

func (Noop) Translate(_ context.Context, text, _ string) string {
	return text
}
