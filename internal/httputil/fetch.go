// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package httputil

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
)

// UserAgent is sent with every fetch.
const UserAgent = "hwpx-convert/1.0 (+https://github.com/pdiddy/hwpx-convert)"

// ErrBodyTooLarge is returned when a response exceeds FetchOptions.MaxBytes.
var ErrBodyTooLarge = errors.New("response body too large")

// StatusError reports a non-2xx response.
type StatusError struct {
	URL    string
	Status int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("GET %s: HTTP %d %s", e.URL, e.Status, http.StatusText(e.Status))
}

// FetchOptions tunes Fetch.
type FetchOptions struct {
	// Token is sent as a bearer token when set.
	Token string
	// MaxBytes bounds the body; 0 means unlimited.
	MaxBytes int64
	// MaxRetries is passed to DoWithRetry.
	MaxRetries int
}

// Fetch downloads url and returns its body and Content-Type.
func Fetch(ctx context.Context, client *http.Client, url string, opts FetchOptions) ([]byte, string, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, "", fmt.Errorf("building request for %s: %w", url, err)
	}
	req.Header.Set("User-Agent", UserAgent)
	if opts.Token != "" {
		req.Header.Set("Authorization", "Bearer "+opts.Token)
	}

	resp, err := DoWithRetry(ctx, client, req, opts.MaxRetries)
	if err != nil {
		return nil, "", fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, resp.Body)
		return nil, "", &StatusError{URL: url, Status: resp.StatusCode}
	}
	if opts.MaxBytes > 0 && resp.ContentLength > opts.MaxBytes {
		return nil, "", fmt.Errorf("GET %s: %w (%d bytes)", url, ErrBodyTooLarge, resp.ContentLength)
	}

	body := io.Reader(resp.Body)
	if opts.MaxBytes > 0 {
		body = io.LimitReader(resp.Body, opts.MaxBytes+1)
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, "", fmt.Errorf("reading %s: %w", url, err)
	}
	if opts.MaxBytes > 0 && int64(len(data)) > opts.MaxBytes {
		return nil, "", fmt.Errorf("GET %s: %w (over %d bytes)", url, ErrBodyTooLarge, opts.MaxBytes)
	}
	return data, resp.Header.Get("Content-Type"), nil
}
