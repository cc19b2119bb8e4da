package skillgraph

import "encoding/json"

// Merge combines N partial knowledge graphs into one canonical graph.
// Pure and deterministic given input order.
//
// Node identity is resolved in two passes: an exact-id union first
// (first occurrence of an id wins for attributes, appearsInQuestions
// is set-unioned), then a semantic pass that folds nodes whose names
// describe the same concept (see semanticallyEquivalent). All edges
// and question paths are remapped through the resulting id mapping;
// edges that become self-loops or duplicates are dropped.
//
// Graph generation runs in bounded-size batches, and batches routinely
// invent near-duplicate names for the same skill ("list_operations"
// vs "List Operations"). Without the semantic pass those duplicates
// fragment mastery tracking across redundant nodes.
func Merge(graphs []KnowledgeGraph) KnowledgeGraph {
	merged := mergeExact(graphs)

	canonical, idMap := dedupeSemantic(merged.Nodes)
	merged.Nodes = canonical
	merged.Edges = remapEdges(merged.Edges, idMap)
	merged.QuestionPaths = remapPaths(merged.QuestionPaths, idMap)

	ComputeLevels(&merged)
	return merged
}

// mergeExact performs the exact-id union of nodes, edges, and the
// auxiliary collections.
func mergeExact(graphs []KnowledgeGraph) KnowledgeGraph {
	out := KnowledgeGraph{}

	nodeIdx := make(map[string]int)
	for _, g := range graphs {
		for _, n := range g.Nodes {
			if i, ok := nodeIdx[n.ID]; ok {
				// First writer wins for attributes; question
				// references accumulate.
				out.Nodes[i].AppearsInQuestions = unionStrings(out.Nodes[i].AppearsInQuestions, n.AppearsInQuestions)
				continue
			}
			cp := n
			cp.AppearsInQuestions = unionStrings(nil, n.AppearsInQuestions)
			nodeIdx[n.ID] = len(out.Nodes)
			out.Nodes = append(out.Nodes, cp)
		}
	}

	seenEdge := make(map[[2]string]bool)
	for _, g := range graphs {
		for _, e := range g.Edges {
			key := [2]string{e.From, e.To}
			if seenEdge[key] {
				continue
			}
			seenEdge[key] = true
			out.Edges = append(out.Edges, e)
		}
	}

	for _, g := range graphs {
		for course, ids := range g.Courses {
			if out.Courses == nil {
				out.Courses = make(map[string][]string)
			}
			out.Courses[course] = unionStrings(out.Courses[course], ids)
		}
		// Later batches override earlier ones for the same question.
		for q, path := range g.QuestionPaths {
			if out.QuestionPaths == nil {
				out.QuestionPaths = make(map[string]QuestionPath)
			}
			out.QuestionPaths[q] = path
		}
		for q, trace := range g.IPAByQuestion {
			if out.IPAByQuestion == nil {
				out.IPAByQuestion = make(map[string]json.RawMessage)
			}
			out.IPAByQuestion[q] = trace
		}
	}

	return out
}

// dedupeSemantic folds semantically equivalent nodes into the first
// accepted canonical node, returning the canonical set and the
// id-to-canonical mapping. Every surviving node maps to itself.
func dedupeSemantic(nodes []SkillNode) ([]SkillNode, map[string]string) {
	var canonical []SkillNode
	idMap := make(map[string]string, len(nodes))

	for _, n := range nodes {
		matched := false
		for i := range canonical {
			if semanticallyEquivalent(canonical[i], n) {
				idMap[n.ID] = canonical[i].ID
				canonical[i].AppearsInQuestions = unionStrings(canonical[i].AppearsInQuestions, n.AppearsInQuestions)
				matched = true
				break
			}
		}
		if !matched {
			idMap[n.ID] = n.ID
			canonical = append(canonical, n)
		}
	}

	return canonical, idMap
}

// remapEdges applies the id mapping to edge endpoints, silently
// dropping edges that become self-loops or duplicates.
func remapEdges(edges []SkillEdge, idMap map[string]string) []SkillEdge {
	var out []SkillEdge
	seen := make(map[[2]string]bool, len(edges))
	for _, e := range edges {
		from, to := mapID(e.From, idMap), mapID(e.To, idMap)
		if from == to {
			continue
		}
		key := [2]string{from, to}
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, SkillEdge{From: from, To: to, Reason: e.Reason})
	}
	return out
}

// remapPaths applies the id mapping to every question path, in both
// the flat and structured representations.
func remapPaths(paths map[string]QuestionPath, idMap map[string]string) map[string]QuestionPath {
	if paths == nil {
		return nil
	}
	out := make(map[string]QuestionPath, len(paths))
	for q, p := range paths {
		if p.Structured != nil {
			out[q] = QuestionPath{Structured: &StructuredPath{
				RequiredNodes:    mapIDs(p.Structured.RequiredNodes, idMap),
				ExecutionOrder:   mapIDs(p.Structured.ExecutionOrder, idMap),
				ValidationStatus: p.Structured.ValidationStatus,
			}}
			continue
		}
		out[q] = QuestionPath{Flat: mapIDs(p.Flat, idMap)}
	}
	return out
}

func mapID(id string, idMap map[string]string) string {
	if mapped, ok := idMap[id]; ok {
		return mapped
	}
	return id
}

func mapIDs(ids []string, idMap map[string]string) []string {
	if ids == nil {
		return nil
	}
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = mapID(id, idMap)
	}
	return out
}

// unionStrings appends the items of add not already present in base,
// preserving first-seen order. Always returns a fresh slice when base
// is nil so callers never alias input graphs.
func unionStrings(base, add []string) []string {
	seen := make(map[string]bool, len(base)+len(add))
	out := make([]string, 0, len(base)+len(add))
	for _, s := range base {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, s := range add {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
