package config

import (
	"fmt"
	"net/url"
	"time"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

var logLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	// Validate Server config
	if c.Server.BaseURL == "" {
		errors = append(errors, ValidationError{
			Field:   "server.base_url",
			Message: "RAG server base URL is required",
		})
	} else if u, err := url.Parse(c.Server.BaseURL); err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errors = append(errors, ValidationError{
			Field:   "server.base_url",
			Message: "base_url must be an absolute http(s) URL",
		})
	}

	timeouts := []struct {
		field string
		value time.Duration
	}{
		{"server.submit_timeout", c.Server.SubmitTimeout},
		{"server.status_timeout", c.Server.StatusTimeout},
		{"server.request_timeout", c.Server.RequestTimeout},
		{"server.direct_timeout", c.Server.DirectTimeout},
	}
	for _, t := range timeouts {
		if t.value <= 0 {
			errors = append(errors, ValidationError{
				Field:   t.field,
				Message: "timeout must be positive",
			})
		}
	}

	if c.Server.RateLimit <= 0 {
		errors = append(errors, ValidationError{
			Field:   "server.rate_limit",
			Message: "rate_limit must be positive",
		})
	}

	// Validate Polling config
	if c.Polling.Interval <= 0 {
		errors = append(errors, ValidationError{
			Field:   "polling.interval",
			Message: "interval must be positive",
		})
	}

	if c.Polling.MaxWait < c.Polling.Interval {
		errors = append(errors, ValidationError{
			Field:   "polling.max_wait",
			Message: "max_wait must be at least one polling interval",
		})
	}

	if c.UI.MaxSources < 0 {
		errors = append(errors, ValidationError{
			Field:   "ui.max_sources",
			Message: "max_sources cannot be negative",
		})
	}

	if !logLevels[c.Log.Level] {
		errors = append(errors, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("unknown log level: %s", c.Log.Level),
		})
	}

	return errors
}
