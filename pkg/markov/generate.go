package markov

import (
	"fmt"
	"log/slog"
)

// Generate emits the next symbol of the current run.
//
// A run starts by replaying the seed one symbol per call. Once the seed has
// been emitted, each call samples a follower of the last order symbols and
// slides the window. If the window is a context that was never followed by
// anything (the tail of an ingested stream), the run starts over with the
// seed. Generate never ends on its own; the caller bounds the output.
func (g *Generator[S]) Generate() (S, error) {
	var zero S
	if !g.finalized {
		return zero, fmt.Errorf("generate before finalize: %w", ErrInvalidState)
	}

	if g.phase == phaseWalk {
		table, ok := g.chains.Get(g.window)
		if ok {
			sym, err := table.Sample(g.rng)
			if err != nil {
				return zero, fmt.Errorf("sampling context %v: %w", g.window, err)
			}
			copy(g.window, g.window[1:])
			g.window[len(g.window)-1] = sym
			return sym, nil
		}

		g.logger.Debug("Dead-end context, replaying seed",
			slog.Int("order", g.order),
			slog.Any("context", g.window),
		)
		g.window = append(g.window[:0], g.seed...)
		g.phase = phaseReplay
		g.replayPos = 0
	}

	sym := g.seed[g.replayPos]
	g.replayPos++
	if g.replayPos == g.order {
		g.phase = phaseWalk
	}
	return sym, nil
}

// GenerateList starts a fresh run and returns exactly n symbols. The first
// min(n, order) symbols are always the seed.
func (g *Generator[S]) GenerateList(n int) ([]S, error) {
	if n < 0 {
		return nil, fmt.Errorf("negative length %d", n)
	}
	if !g.finalized {
		return nil, fmt.Errorf("generate before finalize: %w", ErrInvalidState)
	}

	g.Reset()
	out := make([]S, 0, n)
	for len(out) < n {
		sym, err := g.Generate()
		if err != nil {
			return out, err
		}
		out = append(out, sym)
	}

	g.logger.Debug("Generated list",
		slog.Int("order", g.order),
		slog.Int("length", n),
	)
	return out, nil
}
