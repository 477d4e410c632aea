// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared across stages.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// RetryBaseDelay controls the base duration for exponential backoff.
// Tests override this to avoid real sleeps.
var RetryBaseDelay = 2 * time.Second

const defaultMaxRetries = 3

// ErrExhausted marks a request that kept failing transiently until the
// retry budget ran out. Callers match it with errors.Is.
var ErrExhausted = errors.New("retries exhausted")

// DoJSON executes an HTTP request, decodes the JSON response body into v,
// and retries transient failures with exponential backoff: transport
// errors, HTTP 429, HTTP 5xx, and bodies that fail to decode. The delay
// starts at RetryBaseDelay (2 s) and doubles each attempt: 2 s, 4 s, 8 s.
//
// maxRetries bounds the retries after the initial attempt; when it is
// negative the default (3) is used. Non-retryable HTTP statuses (4xx other
// than 429) fail immediately. If the context is cancelled during a backoff
// wait the function returns ctx.Err(). After exhausting retries the
// returned error wraps ErrExhausted together with the last failure.
//
// Requests with a body must be built with http.NewRequest so GetBody is
// populated; the body is re-materialized on every attempt.
func DoJSON(ctx context.Context, client *http.Client, req *http.Request, maxRetries int, v any) error {
	if maxRetries < 0 {
		maxRetries = defaultMaxRetries
	}

	var lastErr error
	for attempt := 0; ; attempt++ {
		lastErr = doJSONOnce(ctx, client, req, v)
		if lastErr == nil {
			return nil
		}

		var pe *permanentError
		if errors.As(lastErr, &pe) {
			return pe.err
		}

		if attempt >= maxRetries {
			return fmt.Errorf("%s %s after %d attempt(s): %w: %w",
				req.Method, req.URL.Path, attempt+1, ErrExhausted, lastErr)
		}

		backoff := RetryBaseDelay << attempt
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
	}
}

// permanentError wraps a failure that must not be retried.
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }

func doJSONOnce(ctx context.Context, client *http.Client, req *http.Request, v any) error {
	attemptReq := req.Clone(ctx)
	if req.GetBody != nil {
		body, err := req.GetBody()
		if err != nil {
			return &permanentError{err: fmt.Errorf("re-creating request body: %w", err)}
		}
		attemptReq.Body = body
	}

	resp, err := client.Do(attemptReq)
	if err != nil {
		return fmt.Errorf("HTTP request: %w", err)
	}
	defer func() {
		io.Copy(io.Discard, resp.Body)
		resp.Body.Close()
	}()

	switch {
	case resp.StatusCode == http.StatusOK:
		// Decoded below.
	case resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500:
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, req.URL.Host)
	default:
		return &permanentError{err: fmt.Errorf("HTTP %d from %s", resp.StatusCode, req.URL.Host)}
	}

	if v == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("decoding response: %w", err)
	}
	return nil
}
