// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package httputil provides HTTP helpers shared by the source clients.
package httputil

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"
)

// ErrRateLimited is returned by DoWithBackoff after an HTTP 429 response.
// The backoff sleep has already been taken by the time it is returned;
// callers treat the call as having produced zero results and do not retry.
var ErrRateLimited = errors.New("rate limited by upstream API")

// DoWithBackoff executes an HTTP request. On HTTP 429 the response body
// is drained, the function sleeps for backoff once, and ErrRateLimited
// is returned. Any other response is handed back untouched. If the
// context is cancelled during the backoff wait, ctx.Err() is returned.
func DoWithBackoff(ctx context.Context, client *http.Client, req *http.Request, backoff time.Duration) (*http.Response, error) {
	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusTooManyRequests {
		return resp, nil
	}

	io.Copy(io.Discard, resp.Body)
	resp.Body.Close()

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-time.After(backoff):
	}
	return nil, ErrRateLimited
}
