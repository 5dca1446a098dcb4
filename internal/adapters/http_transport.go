package adapters

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/ZanzyTHEbar/errbuilder-go"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"materialization-audit/internal/shared"
)

const defaultHTTPTimeout = 60 * time.Second
const defaultRateBurst = 1
const maxErrorBodyBytes = 4096

// HTTPTransport issues single-shot GET requests against CAVE services.
// Failed requests are not retried.
type HTTPTransport struct {
	Client    *http.Client
	Limiter   *rate.Limiter
	AuthToken string
}

func NewHTTPTransport(timeoutSec int, rateLimit float64, rateBurst int, authToken string) HTTPTransport {
	return HTTPTransport{
		Client:    &http.Client{Timeout: normalizeHTTPTimeout(timeoutSec)},
		Limiter:   newRateLimiter(rateLimit, rateBurst),
		AuthToken: strings.TrimSpace(authToken),
	}
}

func normalizeHTTPTimeout(value int) time.Duration {
	timeout := time.Duration(value) * time.Second
	if timeout <= 0 {
		return defaultHTTPTimeout
	}
	return timeout
}

func newRateLimiter(limit float64, burst int) *rate.Limiter {
	if limit <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = defaultRateBurst
	}
	return rate.NewLimiter(rate.Limit(limit), burst)
}

func (t HTTPTransport) getJSON(ctx context.Context, url string, out interface{}) error {
	body, err := t.get(ctx, url)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(body, out); err != nil {
		return errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to decode response from " + url).
			WithCause(err)
	}
	return nil
}

func (t HTTPTransport) get(ctx context.Context, url string) ([]byte, error) {
	if t.Limiter != nil {
		if err := t.Limiter.Wait(ctx); err != nil {
			return nil, errbuilder.New().
				WithCode(errbuilder.CodeInternal).
				WithMsg("request canceled").
				WithCause(err)
		}
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to create request").
			WithCause(err)
	}
	req.Header.Set("Accept", "application/json")
	if t.AuthToken != "" {
		req.Header.Set("Authorization", "Bearer "+t.AuthToken)
	}
	client := t.Client
	if client == nil {
		client = &http.Client{Timeout: defaultHTTPTimeout}
	}
	started := time.Now()
	resp, err := client.Do(req)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("request failed").
			WithCause(err)
	}
	defer resp.Body.Close()
	log.Ctx(ctx).Debug().
		Str("url", url).
		Int("status", resp.StatusCode).
		Dur("elapsed", time.Since(started)).
		Msg("cave request")

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
		cause := shared.HTTPStatusErrorWithBody(resp.StatusCode, url, strings.TrimSpace(string(snippet)))
		return nil, errbuilder.New().
			WithCode(statusCode(resp.StatusCode)).
			WithMsg("unexpected response status").
			WithCause(cause)
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errbuilder.New().
			WithCode(errbuilder.CodeInternal).
			WithMsg("failed to read response body").
			WithCause(err)
	}
	return body, nil
}

func statusCode(status int) errbuilder.ErrCode {
	switch status {
	case http.StatusNotFound:
		return errbuilder.CodeNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		return errbuilder.CodePermissionDenied
	default:
		return errbuilder.CodeInternal
	}
}
