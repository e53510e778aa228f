package config

import (
	"time"

	testimpacterrors "github.com/AndreyAkinshin/testimpact/internal/errors"
	"github.com/AndreyAkinshin/testimpact/internal/report"
)

// Default configuration values.
const (
	DefaultFormat   = report.FormatConsole
	DefaultFailFast = true
)

// Settings is the effective run configuration after defaults, the
// configuration file and command-line flags have been merged.
type Settings struct {
	Runner         string // empty selects the ecosystem default
	Ecosystem      string // empty selects detection
	Format         string
	SkipDependents bool
	Transitive     bool
	FailFast       bool
	Verbose        bool
	Timeout        time.Duration
	RunnerArgs     []string
	Ignore         []string
}

// Overrides holds the flags given explicitly on the command line. Nil or
// empty fields leave the configured value in place.
type Overrides struct {
	Runner         *string
	Ecosystem      *string
	Format         *string
	SkipDependents *bool
	Transitive     *bool
	FailFast       *bool
	Verbose        *bool
	Timeout        *time.Duration
	RunnerArgs     []string
}

// Defaults returns the settings used when neither a file nor flags set
// anything.
func Defaults() Settings {
	return Settings{
		Format:   DefaultFormat,
		FailFast: DefaultFailFast,
	}
}

// Resolve layers cfg (which may be nil) and then o over the defaults.
// Invalid values are reported as invalid arguments.
func Resolve(cfg *Config, o Overrides) (Settings, error) {
	s := Defaults()

	if cfg != nil {
		if err := Validate(cfg); err != nil {
			return Settings{}, testimpacterrors.InvalidArgumentsf("invalid config value %v", err)
		}
		applyFile(&s, cfg)
	}

	flags := Config{}
	applyString(&flags.Runner, o.Runner)
	applyString(&flags.Ecosystem, o.Ecosystem)
	applyString(&flags.Format, o.Format)
	if err := Validate(&flags); err != nil {
		return Settings{}, testimpacterrors.InvalidArgumentsf("invalid %v", err)
	}
	if o.Timeout != nil && *o.Timeout < 0 {
		return Settings{}, testimpacterrors.InvalidArgumentsf("--timeout must not be negative, got %s", *o.Timeout)
	}

	applyString(&s.Runner, o.Runner)
	applyString(&s.Ecosystem, o.Ecosystem)
	applyString(&s.Format, o.Format)
	applyBool(&s.SkipDependents, o.SkipDependents)
	applyBool(&s.Transitive, o.Transitive)
	applyBool(&s.FailFast, o.FailFast)
	applyBool(&s.Verbose, o.Verbose)
	if o.Timeout != nil {
		s.Timeout = *o.Timeout
	}
	if len(o.RunnerArgs) > 0 {
		s.RunnerArgs = append([]string(nil), o.RunnerArgs...)
	}

	return s, nil
}

func applyFile(s *Settings, cfg *Config) {
	if cfg.Runner != "" {
		s.Runner = cfg.Runner
	}
	if cfg.Ecosystem != "" {
		s.Ecosystem = cfg.Ecosystem
	}
	if cfg.Format != "" {
		s.Format = cfg.Format
	}
	applyBool(&s.SkipDependents, cfg.SkipDependents)
	applyBool(&s.Transitive, cfg.Transitive)
	applyBool(&s.FailFast, cfg.FailFast)
	applyBool(&s.Verbose, cfg.Verbose)
	// Validate has already accepted the timeout.
	s.Timeout, _ = ParseTimeout(cfg.Timeout)
	s.RunnerArgs = append([]string(nil), cfg.RunnerArgs...)
	s.Ignore = append([]string(nil), cfg.Ignore...)
}

func applyString(dst *string, v *string) {
	if v != nil && *v != "" {
		*dst = *v
	}
}

func applyBool(dst *bool, v *bool) {
	if v != nil {
		*dst = *v
	}
}
