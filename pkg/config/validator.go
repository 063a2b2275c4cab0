package config

import (
	"fmt"
	"net/url"
)

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (c *Config) Validate() []ValidationError {
	var errors []ValidationError

	// Validate Source config
	if c.Source.BaseURL == "" {
		errors = append(errors, ValidationError{
			Field:   "source.base_url",
			Message: "document source base URL is required",
		})
	} else if _, err := url.Parse(c.Source.BaseURL); err != nil {
		errors = append(errors, ValidationError{
			Field:   "source.base_url",
			Message: "invalid document source base URL",
		})
	}

	if len(c.Source.Periods) == 0 {
		errors = append(errors, ValidationError{
			Field:   "source.periods",
			Message: "at least one supported period is required",
		})
	}

	for _, p := range c.Source.Periods {
		if p < 1 {
			errors = append(errors, ValidationError{
				Field:   "source.periods",
				Message: fmt.Sprintf("invalid period: %d", p),
			})
		}
	}

	if c.Source.MaxIndex < 1 {
		errors = append(errors, ValidationError{
			Field:   "source.max_index",
			Message: "max_index must be positive",
		})
	}

	if c.Source.MaxMisses < 1 {
		errors = append(errors, ValidationError{
			Field:   "source.max_misses",
			Message: "max_misses must be positive",
		})
	}

	if c.Source.RateLimit <= 0 {
		errors = append(errors, ValidationError{
			Field:   "source.rate_limit",
			Message: "rate_limit must be positive",
		})
	}

	if c.Source.Retries < 0 {
		errors = append(errors, ValidationError{
			Field:   "source.retries",
			Message: "retries must not be negative",
		})
	}

	// Validate Store config
	if c.Store.Dir == "" {
		errors = append(errors, ValidationError{
			Field:   "store.dir",
			Message: "document store directory is required",
		})
	}

	// Validate Search config
	if c.Search.URL != "" {
		if _, err := url.Parse(c.Search.URL); err != nil {
			errors = append(errors, ValidationError{
				Field:   "search.url",
				Message: "invalid search cluster URL",
			})
		}
	}

	if c.Search.Index == "" {
		errors = append(errors, ValidationError{
			Field:   "search.index",
			Message: "search index name is required",
		})
	}

	if c.Search.BatchSize < 1 {
		errors = append(errors, ValidationError{
			Field:   "search.batch_size",
			Message: "batch_size must be positive",
		})
	}

	// Validate Log config
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		errors = append(errors, ValidationError{
			Field:   "log.level",
			Message: fmt.Sprintf("unknown log level: %s", c.Log.Level),
		})
	}

	switch c.Log.Format {
	case "text", "json":
	default:
		errors = append(errors, ValidationError{
			Field:   "log.format",
			Message: fmt.Sprintf("unknown log format: %s", c.Log.Format),
		})
	}

	return errors
}
