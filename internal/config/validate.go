package config

import (
	"fmt"
	"net/url"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if len(c.Auth.JWTSecret) < 32 {
		return fmt.Errorf("auth.jwt_secret must be at least 32 characters (got %d)", len(c.Auth.JWTSecret))
	}

	if err := checkBaseURL("filestore.base_url", c.FileStore.BaseURL); err != nil {
		return err
	}
	if err := checkBaseURL("country_config.base_url", c.CountryConfig.BaseURL); err != nil {
		return err
	}

	if c.Cleanup.BatchSize <= 0 {
		return fmt.Errorf("cleanup.batch_size must be > 0 (got %d)", c.Cleanup.BatchSize)
	}
	if c.Cleanup.MaxAttempts <= 0 {
		return fmt.Errorf("cleanup.max_attempts must be > 0 (got %d)", c.Cleanup.MaxAttempts)
	}
	if c.CountryConfig.CacheTTL <= 0 {
		return fmt.Errorf("country_config.cache_ttl must be > 0 (got %v)", c.CountryConfig.CacheTTL)
	}

	return nil
}

func checkBaseURL(name, raw string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must be an absolute http(s) URL (got %q)", name, raw)
	}
	return nil
}
