package skillgraph

import "sort"

// ComputeLevels assigns each node its prerequisite depth: 0 for nodes
// with no prerequisites, otherwise 1 + the maximum level among direct
// prerequisites. Levels are derived data; author-supplied values are
// overwritten. Nodes caught in a cycle keep level 0 (Validate reports
// cycles separately).
func ComputeLevels(g *KnowledgeGraph) {
	prereqs := make(map[string][]string)
	inDegree := make(map[string]int, len(g.Nodes))
	for _, n := range g.Nodes {
		inDegree[n.ID] = 0
	}
	for _, e := range g.Edges {
		// Edges into unknown nodes don't contribute to depth.
		if _, ok := inDegree[e.To]; !ok {
			continue
		}
		if _, ok := inDegree[e.From]; !ok {
			continue
		}
		prereqs[e.To] = append(prereqs[e.To], e.From)
		inDegree[e.To]++
	}

	dependents := make(map[string][]string)
	for to, froms := range prereqs {
		for _, from := range froms {
			dependents[from] = append(dependents[from], to)
		}
	}

	level := make(map[string]int, len(g.Nodes))

	var queue []string
	for id, deg := range inDegree {
		if deg == 0 {
			queue = append(queue, id)
		}
	}
	sort.Strings(queue)

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]

		deps := append([]string(nil), dependents[id]...)
		sort.Strings(deps)
		for _, depID := range deps {
			if level[id]+1 > level[depID] {
				level[depID] = level[id] + 1
			}
			inDegree[depID]--
			if inDegree[depID] == 0 {
				queue = append(queue, depID)
			}
		}
	}

	for i := range g.Nodes {
		g.Nodes[i].Level = level[g.Nodes[i].ID]
	}
}
