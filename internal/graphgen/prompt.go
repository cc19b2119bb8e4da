package graphgen

import (
	"fmt"
	"strings"
)

const systemPrompt = `You are a curriculum analyst extracting a skill knowledge graph from practice questions.

Rules:
- For each question, identify the distinct skills a student must apply to solve it.
- Emit each skill once as a node with a stable snake_case id (e.g. binary_search, list_operations), a readable name, and a difficulty tier.
- Tiers: foundational (basic literacy for the subject), core (standard techniques), applied (combining techniques), advanced (specialist material).
- Emit a prerequisite edge from A to B only when A genuinely must be learned before B. Do not emit edges between unrelated skills.
- Never emit an edge from a skill to itself.
- For each question, emit a questionPaths entry listing the skill ids in the order a solver would apply them.
- Reuse ids exactly when the same skill appears in multiple questions. Do not invent near-duplicate ids for the same concept.
- Group the skills: declare a small set of topics (broad subject areas) and subtopics (each under one topic), both with stable snake_case ids, and assign every skill to exactly one subtopic via skillSubtopics.
- Set schemaVersion to 1.0.0.`

// batchMessage renders one batch of questions as the user message.
func batchMessage(courseID string, batch []QuestionInput) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Course: %s\n", courseID)
	fmt.Fprintf(&b, "Questions (%d):\n\n", len(batch))

	for _, q := range batch {
		fmt.Fprintf(&b, "[%s]\n%s\n\n", q.ID, q.Text)
	}

	return b.String()
}
