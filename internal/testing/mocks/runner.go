// Package mocks provides shared test doubles for testimpact packages.
package mocks

import (
	"context"
	"sync"
)

// Runner implements runner.Runner for testing. Each package runs a shell
// script through `sh -c`; packages without a script exit 0.
// Use NewRunner() to create instances with a fluent builder API.
type Runner struct {
	name      string
	installed bool
	tip       string
	scripts   map[string]string

	mu       sync.Mutex
	commands []string
}

// NewRunner creates an installed mock runner with the given name.
func NewRunner(name string) *Runner {
	return &Runner{
		name:      name,
		installed: true,
		tip:       "install " + name,
		scripts:   make(map[string]string),
	}
}

// WithScript sets the shell script run when testing pkg.
func (m *Runner) WithScript(pkg, script string) *Runner {
	m.scripts[pkg] = script
	return m
}

// WithInstalled sets the result of IsInstalled.
func (m *Runner) WithInstalled(installed bool) *Runner {
	m.installed = installed
	return m
}

// WithInstallInstructions sets the install tip.
func (m *Runner) WithInstallInstructions(tip string) *Runner {
	m.tip = tip
	return m
}

func (m *Runner) Name() string { return m.name }

func (m *Runner) IsInstalled(context.Context) bool { return m.installed }

func (m *Runner) InstallInstructions() string { return m.tip }

// Command returns `sh -c <script> <pkg>` and records pkg. Extra arguments
// appended by the caller become the script's positional parameters.
func (m *Runner) Command(pkg string) []string {
	m.mu.Lock()
	m.commands = append(m.commands, pkg)
	m.mu.Unlock()

	script, ok := m.scripts[pkg]
	if !ok {
		script = "exit 0"
	}
	return []string{"sh", "-c", script, pkg}
}

// Commands returns the packages Command was called for, in order.
func (m *Runner) Commands() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]string, len(m.commands))
	copy(out, m.commands)
	return out
}
