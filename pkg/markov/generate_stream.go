package markov

import (
	"fmt"
	"iter"
	"log/slog"
)

// Stream returns an unbounded sequence that continues the current run, one
// Generate call per element. Break out of the range loop to stop; the
// generator keeps its position, so a later Stream or Generate call picks up
// where this one left off.
func (g *Generator[S]) Stream() (iter.Seq[S], error) {
	if !g.finalized {
		return nil, fmt.Errorf("stream before finalize: %w", ErrInvalidState)
	}
	return func(yield func(S) bool) {
		for {
			sym, err := g.Generate()
			if err != nil {
				// Unreachable while every table stays compiled.
				g.logger.Error("Generation stream aborted", slog.Any("error", err))
				return
			}
			if !yield(sym) {
				return
			}
		}
	}, nil
}
