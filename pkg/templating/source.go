package templating

import (
	"strings"

	"github.com/CTAG07/chaingen/pkg/markov"
)

// Source produces the next n symbols of generated text, rendered as a string.
type Source interface {
	Next(n int) (string, error)
}

// SourceFunc adapts a plain function to the Source interface.
type SourceFunc func(n int) (string, error)

// Next calls f(n).
func (f SourceFunc) Next(n int) (string, error) {
	return f(n)
}

// RuneSource renders n characters at a time from a finalized character model.
func RuneSource(g *markov.Generator[rune]) Source {
	return SourceFunc(func(n int) (string, error) {
		var sb strings.Builder
		for range n {
			r, err := g.Generate()
			if err != nil {
				return "", err
			}
			sb.WriteRune(r)
		}
		return sb.String(), nil
	})
}

// WordSource renders n words at a time from a finalized word model, joined
// the way tok joins them.
func WordSource(g *markov.Generator[string], tok *markov.WordTokenizer) Source {
	return SourceFunc(func(n int) (string, error) {
		words := make([]string, 0, n)
		for range n {
			w, err := g.Generate()
			if err != nil {
				return "", err
			}
			words = append(words, w)
		}
		return tok.Join(words), nil
	})
}
