package fetch

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

const maxErrorBodyBytes = 64 * 1024

// Runner performs backend calls and classifies outcomes. It never returns a
// Go error for ordinary HTTP failures; everything is folded into Result.
type Runner struct {
	base    *url.URL
	client  *http.Client
	limiter *rate.Limiter
	token   string
	log     *slog.Logger
}

// NewRunner builds a runner for a backend base URL ("https://host[:port]").
// Requests are rate limited to stay polite toward self-hosted backends.
func NewRunner(baseURL, token string, logger *slog.Logger) (*Runner, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		base: u,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		// 20 rps, burst of 10: well above interactive use, low enough to
		// keep accidental loops from hammering the backend.
		limiter: rate.NewLimiter(rate.Every(50*time.Millisecond), 10),
		token:   token,
		log:     logger,
	}, nil
}

// Do issues one request against a relative API path ("/tags/view") with an
// optional JSON body.
func (r *Runner) Do(ctx context.Context, method, path string, body any) Result {
	if err := r.limiter.Wait(ctx); err != nil {
		return TransportFailure("request canceled: " + err.Error())
	}

	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return TransportFailure("encode request body: " + err.Error())
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, r.base.String()+path, reader)
	if err != nil {
		return TransportFailure("create request: " + err.Error())
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if r.token != "" {
		req.Header.Set("Authorization", "Bearer "+r.token)
	}

	r.log.Debug("fetch", "method", method, "path", path)

	resp, err := r.client.Do(req)
	if err != nil {
		r.log.Debug("fetch transport failure", "path", path, "error", err)
		return TransportFailure("network error: " + err.Error())
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		raw, err := io.ReadAll(resp.Body)
		if err != nil {
			return TransportFailure("read response: " + err.Error())
		}
		return OK(resp.StatusCode, raw)
	}

	msg := extractErrorMessage(resp.Body)
	if msg == "" {
		msg = http.StatusText(resp.StatusCode)
	}
	r.log.Debug("fetch failed", "path", path, "status", resp.StatusCode, "error", msg)
	return HTTPFailure(resp.StatusCode, msg)
}

// extractErrorMessage pulls the backend's structured error out of a non-2xx
// body ({"_error": "..."}), falling back to the raw response text.
func extractErrorMessage(body io.Reader) string {
	raw, err := io.ReadAll(io.LimitReader(body, maxErrorBodyBytes))
	if err != nil {
		return ""
	}
	var structured struct {
		Error string `json:"_error"`
	}
	if err := json.Unmarshal(raw, &structured); err == nil && structured.Error != "" {
		return structured.Error
	}
	return strings.TrimSpace(string(raw))
}
