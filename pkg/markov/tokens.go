package markov

import (
	"bufio"
	"io"
	"iter"
)

// SymbolStream is a pull-based source of symbols for Ingest. Next returns
// io.EOF once the stream is exhausted; any other error aborts ingestion.
type SymbolStream[S any] interface {
	Next() (S, error)
}

// SliceStream returns a stream over the elements of s.
func SliceStream[S any](s []S) SymbolStream[S] {
	return &sliceStream[S]{items: s}
}

type sliceStream[S any] struct {
	items []S
	pos   int
}

func (s *sliceStream[S]) Next() (S, error) {
	if s.pos >= len(s.items) {
		var zero S
		return zero, io.EOF
	}
	s.pos++
	return s.items[s.pos-1], nil
}

// SeqStream adapts an iterator into a stream. The iterator is consumed
// lazily; call the returned stop function if the stream is abandoned early.
func SeqStream[S any](seq iter.Seq[S]) (SymbolStream[S], func()) {
	next, stop := iter.Pull(seq)
	return &seqStream[S]{next: next}, stop
}

type seqStream[S any] struct {
	next func() (S, bool)
}

func (s *seqStream[S]) Next() (S, error) {
	v, ok := s.next()
	if !ok {
		return v, io.EOF
	}
	return v, nil
}

// RuneStream reads r one rune at a time without loading it into memory.
// Invalid UTF-8 is returned as utf8.RuneError.
type RuneStream struct {
	reader *bufio.Reader
}

// NewRuneStream wraps r in a buffered rune reader.
func NewRuneStream(r io.Reader) *RuneStream {
	return &RuneStream{reader: bufio.NewReader(r)}
}

// Next returns the next rune, or io.EOF at the end of the input.
func (s *RuneStream) Next() (rune, error) {
	ch, _, err := s.reader.ReadRune()
	if err != nil {
		return 0, err
	}
	return ch, nil
}
