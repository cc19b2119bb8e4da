package skillgraph

import (
	"fmt"
	"strings"
)

// Validate performs structural checks on a graph: duplicate node ids,
// invalid tiers, self-loop edges, edges referencing missing nodes,
// question paths referencing missing nodes, and prerequisite cycles.
// Returns a combined error describing all problems found, or nil.
func Validate(g *KnowledgeGraph) error {
	var errs []string

	idSet := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if idSet[n.ID] {
			errs = append(errs, fmt.Sprintf("duplicate node id: %q", n.ID))
		}
		idSet[n.ID] = true
		if !IsValidTier(n.Tier) {
			errs = append(errs, fmt.Sprintf("node %q has unknown tier %q", n.ID, n.Tier))
		}
	}

	edgeSet := make(map[[2]string]bool, len(g.Edges))
	for _, e := range g.Edges {
		if e.From == e.To {
			errs = append(errs, fmt.Sprintf("self-loop edge on %q", e.From))
		}
		if !idSet[e.From] {
			errs = append(errs, fmt.Sprintf("edge references nonexistent node %q", e.From))
		}
		if !idSet[e.To] {
			errs = append(errs, fmt.Sprintf("edge references nonexistent node %q", e.To))
		}
		key := [2]string{e.From, e.To}
		if edgeSet[key] {
			errs = append(errs, fmt.Sprintf("duplicate edge %q -> %q", e.From, e.To))
		}
		edgeSet[key] = true
	}

	for q, p := range g.QuestionPaths {
		for _, id := range p.NodeIDs() {
			if !idSet[id] {
				errs = append(errs, fmt.Sprintf("question path %q references nonexistent node %q", truncate(q, 40), id))
			}
		}
	}

	// Cycle check via Kahn's algorithm.
	inDegree := make(map[string]int, len(g.Nodes))
	adj := make(map[string][]string)
	for id := range idSet {
		inDegree[id] = 0
	}
	for _, e := range g.Edges {
		if !idSet[e.From] || !idSet[e.To] || e.From == e.To {
			continue
		}
		adj[e.From] = append(adj[e.From], e.To)
		inDegree[e.To]++
	}

	var queue []string
	for id, deg := range inDegree {
		if deg == 0 {
			queue = append(queue, id)
		}
	}
	visited := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		visited++
		for _, next := range adj[id] {
			inDegree[next]--
			if inDegree[next] == 0 {
				queue = append(queue, next)
			}
		}
	}
	if visited < len(idSet) {
		var cycleNodes []string
		for _, n := range g.Nodes {
			if inDegree[n.ID] > 0 {
				cycleNodes = append(cycleNodes, n.ID)
			}
		}
		errs = append(errs, fmt.Sprintf("prerequisite cycle involving: %s", strings.Join(cycleNodes, ", ")))
	}

	if len(errs) > 0 {
		return fmt.Errorf("knowledge graph validation failed:\n  %s", strings.Join(errs, "\n  "))
	}
	return nil
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}
