// Package config loads the optional run configuration file.
package config

import (
	"encoding/json"
	"fmt"

	"github.com/kballard/go-shellquote"
)

// Config is the decoded configuration file. Unset fields stay zero (or nil
// for booleans) so that defaults and flags can be layered on top.
type Config struct {
	Schema         string     `json:"$schema,omitempty"`
	Runner         string     `json:"runner,omitempty"`
	Ecosystem      string     `json:"ecosystem,omitempty"`
	Format         string     `json:"format,omitempty"`
	SkipDependents *bool      `json:"skip_dependents,omitempty"`
	Transitive     *bool      `json:"transitive,omitempty"`
	FailFast       *bool      `json:"fail_fast,omitempty"`
	Verbose        *bool      `json:"verbose,omitempty"`
	Timeout        string     `json:"timeout,omitempty"` // Go duration, e.g. "10m"
	RunnerArgs     RunnerArgs `json:"runner_args,omitempty"`
	Ignore         []string   `json:"ignore,omitempty"`
}

// RunnerArgs are extra arguments appended to every test command. In the
// file they are either a list or a single shell-quoted string.
type RunnerArgs []string

// UnmarshalJSON implements json.Unmarshaler.
func (a *RunnerArgs) UnmarshalJSON(data []byte) error {
	var list []string
	if err := json.Unmarshal(data, &list); err == nil {
		*a = list
		return nil
	}

	var line string
	if err := json.Unmarshal(data, &line); err != nil {
		return fmt.Errorf("runner_args must be a list of strings or a string")
	}
	words, err := shellquote.Split(line)
	if err != nil {
		return fmt.Errorf("runner_args: %w", err)
	}
	*a = words
	return nil
}
