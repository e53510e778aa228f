package testparser

import "strings"

// Registry maps test runner names to their parsers.
type Registry struct {
	parsers map[string]Parser
}

// NewRegistry creates a registry holding the built-in parsers.
func NewRegistry() *Registry {
	r := &Registry{parsers: make(map[string]Parser)}
	r.Register("cargo", &CargoParser{})
	r.Register("nextest", &NextestParser{})
	r.Register("go", &GoParser{})
	return r
}

// Get returns the parser for a runner name, or nil if none is registered.
func (r *Registry) Get(runner string) Parser {
	return r.parsers[strings.ToLower(runner)]
}

// Register adds or replaces the parser for a runner name.
func (r *Registry) Register(runner string, parser Parser) {
	r.parsers[strings.ToLower(runner)] = parser
}
