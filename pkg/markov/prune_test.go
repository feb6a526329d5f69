package markov

import (
	"errors"
	"testing"
)

func TestPrune(t *testing.T) {
	// Order 1 over "abcabd": a -> b (2), b -> c (1), b -> d (1), c -> a (1).
	g := newRuneGenerator(t, 1, "abcabd")
	before := g.Stats().TrieNodes

	removed, err := g.Prune(1)
	if err != nil {
		t.Fatalf("Prune failed: %v", err)
	}
	if removed != 1 {
		t.Errorf("expected only context c to be pruned, removed %d", removed)
	}
	if _, ok := g.Lookup([]rune("c")); ok {
		t.Error("context c should be gone")
	}
	for _, ctx := range []string{"a", "b"} {
		if _, ok := g.Lookup([]rune(ctx)); !ok {
			t.Errorf("context %q should have survived", ctx)
		}
	}
	if after := g.Stats().TrieNodes; after != before-1 {
		t.Errorf("expected the pruned leaf to be released, nodes %d -> %d", before, after)
	}
}

func TestPruneKeepsSeed(t *testing.T) {
	g := newRuneGenerator(t, 2, "abcdef")

	removed, err := g.Prune(10)
	if err != nil {
		t.Fatal(err)
	}
	if removed != 3 {
		t.Errorf("expected every context but the seed to be removed, got %d", removed)
	}
	if !g.chains.ContainsKey(g.Seed()) {
		t.Fatal("seed context was pruned")
	}

	if err := g.Finalize(); err != nil {
		t.Fatal(err)
	}
	got, _ := g.GenerateList(9)
	if string(got) != "abcabcabc" {
		t.Errorf("expected pruned contexts to act as dead ends, got %q", string(got))
	}
}

func TestPruneAfterFinalize(t *testing.T) {
	g := newFinalizedRuneGenerator(t, 1, "abc")
	if _, err := g.Prune(0); !errors.Is(err, ErrInvalidState) {
		t.Errorf("expected ErrInvalidState, got %v", err)
	}
}
