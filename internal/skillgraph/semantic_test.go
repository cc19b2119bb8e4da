package skillgraph

import "testing"

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"list_operations", "list operations"},
		{"List Operations", "list operations"},
		{"list-operations", "list operations"},
		{"  List   Operations  ", "list operations"},
		{"recursion", "recursion"},
	}
	for _, tt := range tests {
		if got := normalizeName(tt.in); got != tt.want {
			t.Errorf("normalizeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSemanticallyEquivalent(t *testing.T) {
	tests := []struct {
		name string
		a, b SkillNode
		want bool
	}{
		{
			name: "exact after normalization",
			a:    SkillNode{Name: "list_operations", Tier: TierCore},
			b:    SkillNode{Name: "List Operations", Tier: TierCore},
			want: true,
		},
		{
			name: "exact match ignores tier",
			a:    SkillNode{Name: "list_operations", Tier: TierCore},
			b:    SkillNode{Name: "List Operations", Tier: TierAdvanced},
			want: true,
		},
		{
			name: "high overlap same tier",
			a:    SkillNode{Name: "binary search trees", Tier: TierApplied},
			b:    SkillNode{Name: "binary search tree traversal", Tier: TierApplied},
			want: false, // 2 common / max 4 = 0.5, below threshold
		},
		{
			name: "overlap above threshold same tier",
			a:    SkillNode{Name: "hash table collisions", Tier: TierApplied},
			b:    SkillNode{Name: "hash table collision handling", Tier: TierApplied},
			want: false, // "collisions" vs "collision" don't token-match
		},
		{
			name: "two of three words shared",
			a:    SkillNode{Name: "slice append semantics", Tier: TierCore},
			b:    SkillNode{Name: "slice append growth", Tier: TierCore},
			want: true, // 2 common / max 3 ≈ 0.67
		},
		{
			name: "overlap but tier differs",
			a:    SkillNode{Name: "slice append semantics", Tier: TierCore},
			b:    SkillNode{Name: "slice append growth", Tier: TierAdvanced},
			want: false,
		},
		{
			name: "disjoint names",
			a:    SkillNode{Name: "recursion", Tier: TierCore},
			b:    SkillNode{Name: "list operations", Tier: TierCore},
			want: false,
		},
		{
			name: "no meaningful words never overlap-match",
			a:    SkillNode{Name: "io", Tier: TierCore},
			b:    SkillNode{Name: "os", Tier: TierCore},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := semanticallyEquivalent(tt.a, tt.b); got != tt.want {
				t.Errorf("semanticallyEquivalent(%q, %q) = %v, want %v", tt.a.Name, tt.b.Name, got, tt.want)
			}
		})
	}
}

func TestNameTokens_FiltersShortWords(t *testing.T) {
	tokens := nameTokens("of to the map api")
	if tokens["of"] || tokens["to"] {
		t.Error("words of length <= 2 must be filtered")
	}
	if !tokens["the"] || !tokens["map"] || !tokens["api"] {
		t.Error("three-letter words must be kept")
	}
}
