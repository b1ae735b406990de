// Package countryconfig fetches event configurations (declaration forms and
// action rules) from the country configuration service, with a TTL cache so
// the engine keeps serving during short outages.
package countryconfig

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"

	"github.com/opencivil/registry-backend/internal/domain"
)

// Client is an HTTP client for the country configuration service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	log        *slog.Logger
	ttl        time.Duration
	maxElapsed time.Duration

	mu        sync.RWMutex
	cached    map[string]*domain.EventConfiguration
	fetchedAt time.Time

	now func() time.Time
}

// NewClient creates a Client. ttl bounds how long a fetched configuration
// set is served without revalidation.
func NewClient(baseURL string, timeout, ttl time.Duration, logger *slog.Logger) *Client {
	return &Client{
		baseURL:    baseURL,
		httpClient: &http.Client{Timeout: timeout},
		log:        logger.With("adapter", "countryconfig"),
		ttl:        ttl,
		maxElapsed: 5 * time.Second,
		now:        time.Now,
	}
}

// GetConfiguration returns the configuration for one event type.
// Returns domain.ErrNotFound when the country configuration does not define
// the type.
func (c *Client) GetConfiguration(ctx context.Context, eventType string) (*domain.EventConfiguration, error) {
	configs, err := c.configurations(ctx)
	if err != nil {
		return nil, err
	}
	cfg, ok := configs[eventType]
	if !ok {
		return nil, fmt.Errorf("event type %q: %w", eventType, domain.ErrNotFound)
	}
	return cfg, nil
}

// ListConfigurations returns every configured event type.
func (c *Client) ListConfigurations(ctx context.Context) ([]*domain.EventConfiguration, error) {
	configs, err := c.configurations(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*domain.EventConfiguration, 0, len(configs))
	for _, cfg := range configs {
		out = append(out, cfg)
	}
	return out, nil
}

func (c *Client) configurations(ctx context.Context) (map[string]*domain.EventConfiguration, error) {
	c.mu.RLock()
	fresh := c.cached != nil && c.now().Sub(c.fetchedAt) < c.ttl
	cached := c.cached
	c.mu.RUnlock()

	if fresh {
		return cached, nil
	}

	fetched, err := c.fetch(ctx)
	if err != nil {
		// Serve the stale set rather than failing the request; the form
		// changing mid-flight is less harmful than an outage.
		if cached != nil {
			c.log.WarnContext(ctx, "serving stale event configurations", "error", err)
			return cached, nil
		}
		return nil, err
	}

	c.mu.Lock()
	c.cached = fetched
	c.fetchedAt = c.now()
	c.mu.Unlock()

	return fetched, nil
}

// fetch retrieves the full configuration set, retrying transient upstream
// failures with exponential backoff until the retry window closes.
func (c *Client) fetch(ctx context.Context) (map[string]*domain.EventConfiguration, error) {
	var configs map[string]*domain.EventConfiguration
	op := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/events", nil)
		if err != nil {
			return backoff.Permanent(fmt.Errorf("countryconfig: create request: %w", err))
		}

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return fmt.Errorf("countryconfig: request failed: %w", err)
		}
		defer resp.Body.Close()

		switch {
		case resp.StatusCode == http.StatusOK:
		case resp.StatusCode >= 500:
			return fmt.Errorf("countryconfig: status %d", resp.StatusCode)
		default:
			return backoff.Permanent(fmt.Errorf("countryconfig: status %d", resp.StatusCode))
		}

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("countryconfig: read body: %w", err)
		}

		var list []*domain.EventConfiguration
		if err := json.Unmarshal(body, &list); err != nil {
			return backoff.Permanent(fmt.Errorf("countryconfig: decode json: %w", err))
		}

		configs = make(map[string]*domain.EventConfiguration, len(list))
		for _, cfg := range list {
			configs[cfg.ID] = cfg
		}
		return nil
	}

	if err := backoff.Retry(op, c.newBackOff(ctx)); err != nil {
		return nil, err
	}

	c.log.DebugContext(ctx, "event configurations fetched", "count", len(configs))

	return configs, nil
}

func (c *Client) newBackOff(ctx context.Context) backoff.BackOff {
	bo := backoff.NewExponentialBackOff()
	bo.InitialInterval = 100 * time.Millisecond
	bo.MaxElapsedTime = c.maxElapsed
	return backoff.WithContext(bo, ctx)
}
