package markov

import (
	"fmt"
	"log/slog"
	"slices"
)

// Prune removes every context observed minTotal times or fewer. This is
// useful for dropping rare, and often noisy, transitions before Finalize.
// The seed context is never removed, so the walk always has a start. Pruned
// contexts become dead ends: reaching one during generation restarts the run
// from the seed. Prune returns the number of contexts removed and fails with
// ErrInvalidState once the generator is finalized.
func (g *Generator[S]) Prune(minTotal int) (int, error) {
	if g.finalized {
		return 0, fmt.Errorf("prune after finalize: %w", ErrInvalidState)
	}

	// Collect first; the trie must not change while it is being walked.
	var doomed [][]S
	for context, table := range g.chains.All() {
		if table.Total() <= minTotal && !slices.Equal(context, g.seed) {
			doomed = append(doomed, context)
		}
	}

	removed := 0
	for _, context := range doomed {
		if g.chains.Remove(context) {
			removed++
		}
	}

	g.logger.Info("Model pruned",
		slog.Int("order", g.order),
		slog.Int("min_total", minTotal),
		slog.Int("contexts_removed", removed),
		slog.Int("contexts_remaining", g.chains.Len()),
	)
	return removed, nil
}
