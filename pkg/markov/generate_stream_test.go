package markov

import (
	"strings"
	"testing"
)

func TestStream(t *testing.T) {
	g := newFinalizedRuneGenerator(t, 2, "abab")

	t.Run("Bounded by caller", func(t *testing.T) {
		stream, err := g.Stream()
		if err != nil {
			t.Fatalf("Stream failed: %v", err)
		}

		var sb strings.Builder
		for r := range stream {
			sb.WriteRune(r)
			if sb.Len() == 8 {
				break
			}
		}
		if sb.String() != "abababab" {
			t.Errorf("expected %q, got %q", "abababab", sb.String())
		}
	})

	t.Run("Resumes where it stopped", func(t *testing.T) {
		g.Reset()
		stream, _ := g.Stream()
		n := 0
		for range stream {
			n++
			if n == 3 {
				break
			}
		}
		r, err := g.Generate()
		if err != nil {
			t.Fatal(err)
		}
		if r != 'b' {
			t.Errorf("expected the fourth symbol 'b', got %q", r)
		}
	})
}

func TestStreamWrapsForever(t *testing.T) {
	g := newFinalizedRuneGenerator(t, 3, "abcd")
	stream, _ := g.Stream()

	var sb strings.Builder
	for r := range stream {
		sb.WriteRune(r)
		if sb.Len() == 12 {
			break
		}
	}
	if sb.String() != "abcdabcdabcd" {
		t.Errorf("got %q", sb.String())
	}
}
