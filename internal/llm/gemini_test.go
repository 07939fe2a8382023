package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go.uber.org/zap"
)

func newTestClient(serverURL string, sleeps *[]time.Duration) *GeminiClient {
	return &GeminiClient{
		apiKey:  "test-key",
		model:   "gemini-test",
		baseURL: serverURL,
		http:    &http.Client{},
		sleep: func(d time.Duration) {
			*sleeps = append(*sleeps, d)
		},
		logger: zap.NewNop().Sugar(),
	}
}

// geminiBody wraps model output text in the candidates response shape
func geminiBody(t *testing.T, text string) []byte {
	t.Helper()

	body, err := json.Marshal(map[string]any{
		"candidates": []map[string]any{
			{
				"content": map[string]any{
					"parts": []map[string]string{
						{"text": text},
					},
				},
			},
		},
	})
	if err != nil {
		t.Fatal(err)
	}
	return body
}

func rateLimitBody(retryDelay string) string {
	if retryDelay == "" {
		return `{"error":{"code":429,"status":"RESOURCE_EXHAUSTED"}}`
	}
	return `{"error":{"code":429,"status":"RESOURCE_EXHAUSTED","details":[{"@type":"type.googleapis.com/google.rpc.RetryInfo","retryDelay":"` + retryDelay + `"}]}}`
}

func TestExtract_Success(t *testing.T) {
	var sleeps []time.Duration

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(geminiBody(t, `{"vendor":"X","currency":"₹","items":[{"name":"Tea","price":10}]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, &sleeps)

	menu, raw, err := client.Extract(context.Background(), "Tea - Rs 10")
	if err != nil {
		t.Fatal(err)
	}

	if menu.Vendor != "X" || len(menu.Items) != 1 || menu.Items[0].Name != "Tea" {
		t.Fatalf("unexpected menu: %+v", menu)
	}
	if raw == "" {
		t.Fatal("expected raw model output to be returned")
	}
	if len(sleeps) != 0 {
		t.Fatalf("expected no backoff on success, slept %v", sleeps)
	}
}

func TestExtract_MissingAPIKey(t *testing.T) {
	var sleeps []time.Duration
	client := newTestClient("http://unused", &sleeps)
	client.apiKey = ""

	_, _, err := client.Extract(context.Background(), "text")
	if !errors.Is(err, ErrMissingAPIKey) {
		t.Fatalf("expected ErrMissingAPIKey, got %v", err)
	}
}

func TestExtract_RetryHonorsServerDelay(t *testing.T) {
	var (
		sleeps   []time.Duration
		requests int
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(rateLimitBody("5s")))
			return
		}
		w.Write(geminiBody(t, `{"items":[{"name":"Tea"}]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, &sleeps)

	if _, _, err := client.Extract(context.Background(), "text"); err != nil {
		t.Fatal(err)
	}

	if requests != 2 {
		t.Fatalf("expected 2 attempts, got %d", requests)
	}
	if len(sleeps) != 1 || sleeps[0] != 5*time.Second {
		t.Fatalf("expected a single 5s backoff, got %v", sleeps)
	}
}

func TestExtract_RetryClampsServerDelay(t *testing.T) {
	var (
		sleeps   []time.Duration
		requests int
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		if requests == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(rateLimitBody("43s")))
			return
		}
		w.Write(geminiBody(t, `{"items":[{"name":"Tea"}]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, &sleeps)

	if _, _, err := client.Extract(context.Background(), "text"); err != nil {
		t.Fatal(err)
	}

	if len(sleeps) != 1 || sleeps[0] != 30*time.Second {
		t.Fatalf("expected a 30s clamped backoff, got %v", sleeps)
	}
}

func TestExtract_RateLimitExhaustsAfterThreeAttempts(t *testing.T) {
	var (
		sleeps   []time.Duration
		requests int
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusTooManyRequests)
		w.Write([]byte(rateLimitBody("")))
	}))
	defer server.Close()

	client := newTestClient(server.URL, &sleeps)

	_, _, err := client.Extract(context.Background(), "text")

	var rle *RateLimitError
	if !errors.As(err, &rle) {
		t.Fatalf("expected RateLimitError, got %v", err)
	}
	if requests != 3 {
		t.Fatalf("expected exactly 3 attempts, got %d", requests)
	}

	// no server hint → exponential fallback: 2s then 4s
	want := []time.Duration{2 * time.Second, 4 * time.Second}
	if len(sleeps) != len(want) {
		t.Fatalf("expected %v backoffs, got %v", want, sleeps)
	}
	for i := range want {
		if sleeps[i] != want[i] {
			t.Fatalf("expected %v backoffs, got %v", want, sleeps)
		}
	}
}

func TestExtract_NonRateLimitFailureIsNotRetried(t *testing.T) {
	var (
		sleeps   []time.Duration
		requests int
	)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"code":500}}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, &sleeps)

	_, _, err := client.Extract(context.Background(), "text")
	if err == nil {
		t.Fatal("expected an error")
	}
	if requests != 1 {
		t.Fatalf("expected a single attempt, got %d", requests)
	}
	if len(sleeps) != 0 {
		t.Fatalf("expected no backoff, got %v", sleeps)
	}
}

func TestExtract_EmptyModelOutput(t *testing.T) {
	var sleeps []time.Duration

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(geminiBody(t, "   "))
	}))
	defer server.Close()

	client := newTestClient(server.URL, &sleeps)

	_, _, err := client.Extract(context.Background(), "text")
	if !errors.Is(err, ErrEmptyResponse) {
		t.Fatalf("expected ErrEmptyResponse, got %v", err)
	}
	if len(sleeps) != 0 {
		t.Fatalf("empty output must not trigger retries, slept %v", sleeps)
	}
}

func TestExtract_InvalidModelOutput(t *testing.T) {
	var sleeps []time.Duration

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(geminiBody(t, "sorry, I could not find a menu in the text"))
	}))
	defer server.Close()

	client := newTestClient(server.URL, &sleeps)

	_, raw, err := client.Extract(context.Background(), "text")
	if !errors.Is(err, ErrInvalidJSON) {
		t.Fatalf("expected ErrInvalidJSON, got %v", err)
	}
	if raw == "" {
		t.Fatal("expected the raw output for diagnosis")
	}
}

func TestExtract_SalvagesWrappedJSON(t *testing.T) {
	var sleeps []time.Duration

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(geminiBody(t, "Here is the JSON: {\"vendor\":\"X\",\"items\":[{\"name\":\"Tea\"}]} thanks"))
	}))
	defer server.Close()

	client := newTestClient(server.URL, &sleeps)

	menu, _, err := client.Extract(context.Background(), "text")
	if err != nil {
		t.Fatal(err)
	}
	if menu.Vendor != "X" || len(menu.Items) != 1 || menu.Items[0].Name != "Tea" {
		t.Fatalf("unexpected salvaged menu: %+v", menu)
	}
}

func TestExtract_ValidationFailure(t *testing.T) {
	var sleeps []time.Duration

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(geminiBody(t, `{"items":[]}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, &sleeps)

	_, _, err := client.Extract(context.Background(), "text")

	var validationErr *ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(validationErr.Issues) == 0 || validationErr.Raw == "" {
		t.Fatalf("expected issues and raw output, got %+v", validationErr)
	}
}

func TestParseRetryDelay(t *testing.T) {
	cases := []struct {
		name string
		body string
		want time.Duration
	}{
		{"whole seconds", rateLimitBody("43s"), 43 * time.Second},
		{"decimal seconds", rateLimitBody("2.5s"), 2 * time.Second},
		{"no details", rateLimitBody(""), 0},
		{"garbage delay", rateLimitBody("soon"), 0},
		{"not json", "too many requests", 0},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := parseRetryDelay([]byte(tc.body)); got != tc.want {
				t.Fatalf("parseRetryDelay = %v, want %v", got, tc.want)
			}
		})
	}
}
