package modules

import "testing"

func TestDefaultModulesHaveUniqueIDs(t *testing.T) {
	t.Parallel()

	seen := map[string]bool{}
	for _, feature := range Default(Options{}) {
		if feature == nil {
			t.Fatal("nil module in registry")
		}
		if seen[feature.ID()] {
			t.Fatalf("duplicate module id %q", feature.ID())
		}
		seen[feature.ID()] = true
	}
	if !seen["adminpanel"] {
		t.Fatalf("registry = %v, want adminpanel", seen)
	}
}
