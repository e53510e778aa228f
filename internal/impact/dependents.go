package impact

import (
	"fmt"

	"github.com/AndreyAkinshin/testimpact/internal/topsort"
	"github.com/AndreyAkinshin/testimpact/internal/workspace"
)

// Reach selects how far dependent resolution follows the graph.
type Reach int

const (
	// ReachDirect selects packages that directly depend on a changed package.
	ReachDirect Reach = iota
	// ReachTransitive follows dependents of dependents until closure.
	ReachTransitive
)

func (r Reach) String() string {
	switch r {
	case ReachDirect:
		return "direct"
	case ReachTransitive:
		return "transitive"
	default:
		return fmt.Sprintf("Reach(%d)", int(r))
	}
}

// Dependents returns the packages whose direct dependency list names one of
// changed, in graph order. It does not follow dependents of dependents: with
// c -> b -> a and changed = [a], the result is [b]. A changed package that
// depends on another changed package is included; the plan builder gives
// the Modified tag precedence.
func Dependents(changed []string, g *workspace.Graph) []string {
	changedSet := make(map[string]bool, len(changed))
	for _, name := range changed {
		changedSet[name] = true
	}

	var result []string
	for _, p := range g.Packages() {
		for _, dep := range p.Dependencies {
			if changedSet[dep] {
				result = append(result, p.Name)
				break
			}
		}
	}
	return result
}

// TransitiveDependents returns every package that reaches a changed package
// through one or more dependency edges, breadth-first from changed. Changed
// packages are never part of the result.
func TransitiveDependents(changed []string, g *workspace.Graph) []string {
	reverse := topsort.Reverse(topsort.Graph(g.InternalDependencies()), g.Names())
	return topsort.Reachable(reverse, changed)
}

// Resolve dispatches on reach.
func Resolve(changed []string, g *workspace.Graph, reach Reach) []string {
	if reach == ReachTransitive {
		return TransitiveDependents(changed, g)
	}
	return Dependents(changed, g)
}
