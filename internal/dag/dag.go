// SPDX-License-Identifier: MPL-2.0

// Package dag provides directed acyclic graph operations for topological sorting
// and cycle detection. The resolver uses it to order a binding plan so that every
// aliased binding follows the binding whose instance it shares.
package dag

import (
	"fmt"
	"strings"
)

type (
	// CycleError indicates that the graph contains a cycle, preventing topological ordering.
	CycleError[K comparable] struct {
		// Cycle holds the nodes left with unresolved incoming edges, in
		// insertion order. Enough to identify the problem, not necessarily
		// a minimal cycle.
		Cycle []K
	}

	// Graph is a directed graph over comparable keys. An edge from A to B
	// means A must be ordered before B.
	Graph[K comparable] struct {
		adjacency map[K][]K
		// nodes keeps insertion order for deterministic output.
		nodes   []K
		nodeSet map[K]bool
	}
)

func (e *CycleError[K]) Error() string {
	parts := make([]string, len(e.Cycle))
	for i, n := range e.Cycle {
		parts[i] = fmt.Sprint(n)
	}
	return fmt.Sprintf("dependency cycle detected: %s", strings.Join(parts, " -> "))
}

// New creates an empty Graph.
func New[K comparable]() *Graph[K] {
	return &Graph[K]{
		adjacency: make(map[K][]K),
		nodeSet:   make(map[K]bool),
	}
}

// AddNode adds a node to the graph. Adding an existing node is a no-op.
func (g *Graph[K]) AddNode(n K) {
	if g.nodeSet[n] {
		return
	}
	g.nodeSet[n] = true
	g.nodes = append(g.nodes, n)
}

// AddEdge adds a directed edge from -> to. Both nodes are added if missing.
func (g *Graph[K]) AddEdge(from, to K) {
	g.AddNode(from)
	g.AddNode(to)
	g.adjacency[from] = append(g.adjacency[from], to)
}

// Len returns the number of nodes.
func (g *Graph[K]) Len() int { return len(g.nodes) }

// TopologicalSort returns an order in which every edge points forward, using
// Kahn's algorithm. Nodes at the same level keep their insertion order.
// A cyclic graph yields a *CycleError.
func (g *Graph[K]) TopologicalSort() ([]K, error) {
	if len(g.nodes) == 0 {
		return nil, nil
	}

	inDegree := make(map[K]int, len(g.nodes))
	for _, neighbors := range g.adjacency {
		for _, neighbor := range neighbors {
			inDegree[neighbor]++
		}
	}

	queue := make([]K, 0, len(g.nodes))
	for _, n := range g.nodes {
		if inDegree[n] == 0 {
			queue = append(queue, n)
		}
	}

	result := make([]K, 0, len(g.nodes))
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		result = append(result, n)

		for _, neighbor := range g.adjacency[n] {
			inDegree[neighbor]--
			if inDegree[neighbor] == 0 {
				queue = append(queue, neighbor)
			}
		}
	}

	if len(result) != len(g.nodes) {
		var cycle []K
		for _, n := range g.nodes {
			if inDegree[n] > 0 {
				cycle = append(cycle, n)
			}
		}
		return nil, &CycleError[K]{Cycle: cycle}
	}

	return result, nil
}
