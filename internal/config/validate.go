package config

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	switch c.Provider.Mode {
	case ProviderModeRest:
		if c.Supabase.URL == "" {
			return fmt.Errorf("supabase.url is required in rest provider mode")
		}
		if c.Supabase.APIKey() == "" {
			return fmt.Errorf("supabase needs a service_role_key or anon_key in rest provider mode")
		}
	case ProviderModePostgres:
		if c.Database.DSN == "" {
			return fmt.Errorf("database.dsn is required in postgres provider mode")
		}
	default:
		return fmt.Errorf("provider.mode must be %q or %q (got %q)",
			ProviderModeRest, ProviderModePostgres, c.Provider.Mode)
	}

	if c.Assets.Enabled && c.Supabase.URL == "" {
		return fmt.Errorf("assets.enabled requires supabase.url")
	}

	if h := c.Auth.AdminTokenHash; h != "" {
		if _, err := bcrypt.Cost([]byte(h)); err != nil {
			return fmt.Errorf("auth.admin_token_hash must be a bcrypt hash: %w", err)
		}
	}

	if c.RateLimit.Enabled && c.RateLimit.PerMinute <= 0 {
		return fmt.Errorf("rate_limit.per_minute must be > 0 (got %d)", c.RateLimit.PerMinute)
	}

	if c.Analytics.Enabled && c.Analytics.QueueSize <= 0 {
		return fmt.Errorf("analytics.queue_size must be > 0 (got %d)", c.Analytics.QueueSize)
	}

	return nil
}
