package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"menulens/internal/env"
	"menulens/internal/schema"
)

const (
	defaultModel   = "gemini-2.5-flash"
	defaultBaseURL = "https://generativelanguage.googleapis.com"

	maxAttempts = 3
	maxBackoff  = 30 * time.Second
)

type GeminiClient struct {
	apiKey  string
	model   string
	baseURL string
	http    *http.Client
	sleep   func(time.Duration)
	logger  *zap.SugaredLogger
}

func NewGeminiClient(logger *zap.SugaredLogger) *GeminiClient {
	return &GeminiClient{
		apiKey:  os.Getenv("GEMINI_API_KEY"),
		model:   env.GetString("GEMINI_MODEL", defaultModel),
		baseURL: defaultBaseURL,
		http:    &http.Client{Timeout: 60 * time.Second},
		sleep:   time.Sleep,
		logger:  logger,
	}
}

// Extract sends the uploaded text to Gemini and returns the validated
// menu plus the raw model output.
func (g *GeminiClient) Extract(ctx context.Context, text string) (*schema.Menu, string, error) {
	raw, err := g.generateWithRetry(ctx, BuildExtractionPrompt(text))
	if err != nil {
		return nil, "", err
	}

	parsed, err := ParseModelJSON(raw)
	if err != nil {
		return nil, raw, err
	}

	menu, issues := schema.Validate(parsed)
	if len(issues) > 0 {
		return nil, raw, &ValidationError{Issues: issues, Raw: raw}
	}

	return menu, raw, nil
}

// generateWithRetry retries rate-limited calls up to maxAttempts total.
// Only 429s are retried; any other failure propagates immediately.
func (g *GeminiClient) generateWithRetry(ctx context.Context, prompt string) (string, error) {
	if g.apiKey == "" {
		return "", ErrMissingAPIKey
	}

	var lastErr error

	for attempt := 0; attempt < maxAttempts; attempt++ {
		raw, err := g.generate(ctx, prompt)
		if err == nil {
			return raw, nil
		}
		lastErr = err

		var rle *RateLimitError
		if !errors.As(err, &rle) {
			break
		}
		if attempt == maxAttempts-1 {
			break
		}

		delay := rle.RetryAfter
		if delay <= 0 {
			// 2s, 4s, 8s for attempts 0, 1, 2
			delay = time.Duration(1<<attempt) * 2 * time.Second
		}
		if delay > maxBackoff {
			delay = maxBackoff
		}

		g.logger.Infow("rate limited by gemini, backing off",
			"attempt", attempt,
			"delay", delay,
		)
		g.sleep(delay)
	}

	return "", lastErr
}

func (g *GeminiClient) generate(ctx context.Context, prompt string) (string, error) {
	url := fmt.Sprintf(
		"%s/v1beta/models/%s:generateContent?key=%s",
		g.baseURL,
		g.model,
		g.apiKey,
	)

	payload := map[string]any{
		"contents": []map[string]any{
			{
				"parts": []map[string]string{
					{"text": prompt},
				},
			},
		},
		"generationConfig": map[string]any{
			"temperature":      0,
			"responseMimeType": "application/json",
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(
		ctx,
		http.MethodPost,
		url,
		bytes.NewBuffer(body),
	)
	if err != nil {
		return "", err
	}

	req.Header.Set("Content-Type", "application/json")

	resp, err := g.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}

	if resp.StatusCode == http.StatusTooManyRequests {
		return "", &RateLimitError{RetryAfter: parseRetryDelay(raw)}
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("gemini api error: %s", string(raw))
	}

	// Gemini response shape
	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}

	if err := json.Unmarshal(raw, &result); err != nil {
		return "", err
	}

	if len(result.Candidates) == 0 ||
		len(result.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}

	output := strings.TrimSpace(result.Candidates[0].Content.Parts[0].Text)
	if output == "" {
		return "", ErrEmptyResponse
	}

	return output, nil
}

var retryDelayPattern = regexp.MustCompile(`^(\d+)(?:\.\d+)?s$`)

// parseRetryDelay digs the RetryInfo delay ("43s" style) out of a 429
// error body. Zero means no usable hint.
func parseRetryDelay(body []byte) time.Duration {
	var apiErr struct {
		Error struct {
			Details []struct {
				Type       string `json:"@type"`
				RetryDelay string `json:"retryDelay"`
			} `json:"details"`
		} `json:"error"`
	}

	if err := json.Unmarshal(body, &apiErr); err != nil {
		return 0
	}

	for _, d := range apiErr.Error.Details {
		if !strings.Contains(d.Type, "RetryInfo") {
			continue
		}
		m := retryDelayPattern.FindStringSubmatch(d.RetryDelay)
		if m == nil {
			continue
		}
		secs, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		return time.Duration(secs) * time.Second
	}

	return 0
}
