package markov

import "testing"

func TestStats(t *testing.T) {
	g := newRuneGenerator(t, 1, "abcabd")

	want := Stats{
		Order:          1,
		Contexts:       3, // a, b, c
		Transitions:    5,
		UniqueLinks:    4, // a->b, b->c, b->d, c->a
		MaxFollowers:   2,
		TrieNodes:      4,
		SeedLength:     1,
		Finalized:      false,
		CompiledTables: 0,
	}
	if got := g.Stats(); got != want {
		t.Errorf("Stats() before Finalize = %+v, want %+v", got, want)
	}

	if err := g.Finalize(); err != nil {
		t.Fatal(err)
	}
	want.Finalized = true
	want.CompiledTables = 3
	if got := g.Stats(); got != want {
		t.Errorf("Stats() after Finalize = %+v, want %+v", got, want)
	}
}
