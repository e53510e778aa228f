// Package plan builds the ordered list of packages a run will test.
package plan

import (
	"fmt"

	"github.com/AndreyAkinshin/testimpact/internal/errors"
	"github.com/AndreyAkinshin/testimpact/internal/workspace"
)

// Kind tags why a package is in the plan.
type Kind int

const (
	KindManual Kind = iota
	KindModified
	KindDependent
)

var kindNames = []string{"manual", "modified", "dependent"}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// MarshalText implements encoding.TextMarshaler.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(k.String()), nil
}

// Mode distinguishes user-selected plans from discovered ones.
type Mode int

const (
	ModeManual Mode = iota
	ModeDiscovered
)

func (m Mode) String() string {
	if m == ModeManual {
		return "manual"
	}
	return "discovered"
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	return []byte(m.String()), nil
}

// Entry is one package in the plan.
type Entry struct {
	Name string `json:"name"`
	Kind Kind   `json:"kind"`
}

// Options are the run settings carried by a plan.
type Options struct {
	WithDependents bool
	FailFast       bool
	Verbose        bool
	RunnerArgs     []string
}

// Plan is the immutable input of the executor. Each package name appears once.
type Plan struct {
	WorkspaceRoot  string   `json:"workspace_root"`
	Mode           Mode     `json:"mode"`
	Entries        []Entry  `json:"entries"`
	WithDependents bool     `json:"with_dependents"`
	FailFast       bool     `json:"fail_fast"`
	Verbose        bool     `json:"verbose"`
	RunnerArgs     []string `json:"runner_args"`
}

// NewManual builds a plan from explicitly named packages, in the given
// order. Every name must exist in g; the first unknown one is reported.
func NewManual(root string, names []string, g *workspace.Graph, opts Options) (*Plan, error) {
	for _, name := range names {
		if !g.Has(name) {
			return nil, errors.UnknownPackage(name)
		}
	}

	p := newPlan(root, ModeManual, opts)
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		if seen[name] {
			continue
		}
		seen[name] = true
		p.Entries = append(p.Entries, Entry{Name: name, Kind: KindManual})
	}
	return p, nil
}

// NewDiscovered builds a plan from resolved packages: every modified package
// first, then dependents that are not already modified, each in input order.
func NewDiscovered(root string, modified, dependents []string, opts Options) *Plan {
	p := newPlan(root, ModeDiscovered, opts)
	seen := make(map[string]bool, len(modified)+len(dependents))

	add := func(name string, kind Kind) {
		if seen[name] {
			return
		}
		seen[name] = true
		p.Entries = append(p.Entries, Entry{Name: name, Kind: kind})
	}

	for _, name := range modified {
		add(name, KindModified)
	}
	for _, name := range dependents {
		add(name, KindDependent)
	}
	return p
}

func newPlan(root string, mode Mode, opts Options) *Plan {
	args := make([]string, len(opts.RunnerArgs))
	copy(args, opts.RunnerArgs)
	return &Plan{
		WorkspaceRoot:  root,
		Mode:           mode,
		Entries:        []Entry{},
		WithDependents: opts.WithDependents,
		FailFast:       opts.FailFast,
		Verbose:        opts.Verbose,
		RunnerArgs:     args,
	}
}

// PackagesToTest returns the names the executor will run. Manual plans
// return every entry; discovered plans drop dependents unless
// WithDependents is set.
func (p *Plan) PackagesToTest() []string {
	names := make([]string, 0, len(p.Entries))
	for _, e := range p.Entries {
		if e.Kind == KindDependent && !p.WithDependents {
			continue
		}
		names = append(names, e.Name)
	}
	return names
}

// IsEmpty reports whether nothing would be tested.
func (p *Plan) IsEmpty() bool {
	return len(p.PackagesToTest()) == 0
}

// Counts tallies entries by kind, whether or not they will be tested.
type Counts struct {
	Manual    int `json:"manual"`
	Modified  int `json:"modified"`
	Dependent int `json:"dependent"`
}

// Counts returns the number of entries of each kind.
func (p *Plan) Counts() Counts {
	var c Counts
	for _, e := range p.Entries {
		switch e.Kind {
		case KindManual:
			c.Manual++
		case KindModified:
			c.Modified++
		case KindDependent:
			c.Dependent++
		}
	}
	return c
}

// Names returns the names of entries of the given kind in plan order.
func (p *Plan) Names(kind Kind) []string {
	var names []string
	for _, e := range p.Entries {
		if e.Kind == kind {
			names = append(names, e.Name)
		}
	}
	return names
}
