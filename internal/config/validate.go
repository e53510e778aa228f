package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/AndreyAkinshin/testimpact/internal/report"
	"github.com/AndreyAkinshin/testimpact/internal/runner"
	"github.com/AndreyAkinshin/testimpact/internal/workspace"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Validate checks the values of a decoded configuration.
func Validate(cfg *Config) error {
	if cfg.Runner != "" && !slices.Contains(runner.Names(), cfg.Runner) {
		return &ValidationError{
			Field:   "runner",
			Message: fmt.Sprintf("must be one of %s", strings.Join(runner.Names(), ", ")),
		}
	}

	if cfg.Ecosystem != "" {
		if _, err := workspace.ParseEcosystem(cfg.Ecosystem); err != nil {
			return &ValidationError{Field: "ecosystem", Message: err.Error()}
		}
	}

	if cfg.Format != "" && !slices.Contains(report.Formats(), cfg.Format) {
		return &ValidationError{
			Field:   "format",
			Message: fmt.Sprintf("must be one of %s", strings.Join(report.Formats(), ", ")),
		}
	}

	if _, err := ParseTimeout(cfg.Timeout); err != nil {
		return &ValidationError{Field: "timeout", Message: err.Error()}
	}

	for i, pattern := range cfg.Ignore {
		if strings.TrimSpace(pattern) == "" {
			return &ValidationError{
				Field:   fmt.Sprintf("ignore[%d]", i),
				Message: "must not be empty",
			}
		}
	}

	return nil
}

// ParseTimeout parses a per-package timeout. An empty string and zero both
// mean no timeout.
func ParseTimeout(s string) (time.Duration, error) {
	if s == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid duration %q", s)
	}
	if d < 0 {
		return 0, fmt.Errorf("must not be negative, got %s", s)
	}
	return d, nil
}
