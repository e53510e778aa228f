// Package topsort provides dependency-order sorting with cycle detection and
// reverse-dependency walks over package graphs.
package topsort

import (
	"fmt"
	"sort"
)

// Graph represents a directed dependency graph.
// The keys are package names, values are lists of dependencies (edges point to dependencies).
type Graph map[string][]string

// keys returns the graph's nodes in sorted order.
func (g Graph) keys() []string {
	names := make([]string, 0, len(g))
	for name := range g {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Sort performs topological sort on the graph, returning nodes in dependency order.
// Dependencies appear before dependents in the result.
// Returns an error if a cycle is detected or a dependency is undefined.
//
// The nodes parameter specifies which nodes to sort, and in which order ties are
// broken. If nil, all nodes in the graph are sorted alphabetically. When nodes is
// provided, only those nodes and their transitive dependencies are included.
func Sort(g Graph, nodes []string) ([]string, error) {
	if nodes == nil {
		nodes = g.keys()
	}

	var result []string
	visited := make(map[string]bool)
	inStack := make(map[string]bool)

	var visit func(name string) error
	visit = func(name string) error {
		if inStack[name] {
			return fmt.Errorf("circular dependency detected involving %q", name)
		}
		if visited[name] {
			return nil
		}

		deps, exists := g[name]
		if !exists {
			return fmt.Errorf("package %q not found in graph", name)
		}

		inStack[name] = true

		for _, dep := range deps {
			if err := visit(dep); err != nil {
				return err
			}
		}

		visited[name] = true
		inStack[name] = false
		result = append(result, name)

		return nil
	}

	for _, name := range nodes {
		if err := visit(name); err != nil {
			return nil, err
		}
	}

	return result, nil
}

// Validate checks the graph for self-references and undefined dependencies.
// Returns nil if the graph is valid.
func Validate(g Graph) error {
	for _, name := range g.keys() {
		for _, dep := range g[name] {
			if dep == name {
				return fmt.Errorf("%q depends on itself", name)
			}
			if _, ok := g[dep]; !ok {
				return fmt.Errorf("%q depends on undefined package %q", name, dep)
			}
		}
	}

	_, err := Sort(g, nil)
	return err
}

// Reverse flips every edge so that each node maps to its dependents.
// Dependents are listed in the order given by order (sorted keys if nil).
// Every node of g is present in the result, even without dependents.
func Reverse(g Graph, order []string) Graph {
	if order == nil {
		order = g.keys()
	}

	rev := make(Graph, len(g))
	for name := range g {
		rev[name] = nil
	}
	for _, name := range order {
		for _, dep := range g[name] {
			rev[dep] = append(rev[dep], name)
		}
	}
	return rev
}

// Reachable walks g breadth-first from start and returns every node reached
// through at least one edge, in discovery order. Start nodes themselves are
// never reported and each node appears once.
func Reachable(g Graph, start []string) []string {
	queued := make(map[string]bool, len(start))
	queue := make([]string, 0, len(start))
	for _, s := range start {
		if !queued[s] {
			queued[s] = true
			queue = append(queue, s)
		}
	}

	var result []string
	emitted := make(map[string]bool)
	isStart := make(map[string]bool, len(start))
	for _, s := range start {
		isStart[s] = true
	}

	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]

		for _, next := range g[name] {
			if !emitted[next] && !isStart[next] {
				emitted[next] = true
				result = append(result, next)
			}
			if !queued[next] {
				queued[next] = true
				queue = append(queue, next)
			}
		}
	}

	return result
}
