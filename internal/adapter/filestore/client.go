// Package filestore talks to the document store holding declaration
// attachments. The engine only ever deletes or probes files; uploads go
// directly from clients to the store.
package filestore

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// Client is an HTTP client for the document store.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
	maxElapsed time.Duration
}

// NewClient creates a Client. maxElapsed bounds the total retry window per
// operation.
func NewClient(baseURL string, timeout, maxElapsed time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.With("adapter", "filestore"),
		maxElapsed: maxElapsed,
	}
}

// Delete removes a file from the store. Deleting a file that is already
// gone succeeds; transient upstream failures are retried with exponential
// backoff until the retry window closes.
func (c *Client) Delete(ctx context.Context, path string) error {
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.fileURL(path), nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("filestore: create request: %w", err))
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("filestore: request failed: %w", err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK,
			resp.StatusCode == http.StatusNoContent,
			resp.StatusCode == http.StatusNotFound:
			return nil
		case resp.StatusCode >= 500:
			return fmt.Errorf("filestore: status %d", resp.StatusCode)
		default:
			return backoff.Permanent(fmt.Errorf("filestore: status %d", resp.StatusCode))
		}
	}

	err := backoff.Retry(op, c.newBackOff(ctx))
	if err != nil {
		return err
	}

	c.log.DebugContext(ctx, "file deleted", "path", path)
	return nil
}

// Exists probes whether a file is present in the store.
func (c *Client) Exists(ctx context.Context, path string) (bool, error) {
	var exists bool
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.fileURL(path), nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("filestore: create request: %w", err))
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("filestore: request failed: %w", err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
			exists = true
			return nil
		case resp.StatusCode == http.StatusNotFound:
			exists = false
			return nil
		case resp.StatusCode >= 500:
			return fmt.Errorf("filestore: status %d", resp.StatusCode)
		default:
			return backoff.Permanent(fmt.Errorf("filestore: status %d", resp.StatusCode))
		}
	}

	if err := backoff.Retry(op, c.newBackOff(ctx)); err != nil {
		return false, err
	}
	return exists, nil
}

func (c *Client) fileURL(path string) string {
	return c.baseURL + "/files/" + url.PathEscape(path)
}

func (c *Client) newBackOff(ctx context.Context) backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 100 * time.Millisecond
	bo.MaxElapsedTime = c.maxElapsed
	return backoff.WithContext(bo, ctx)
}
