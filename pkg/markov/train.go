package markov

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"

	"github.com/CTAG07/chaingen/pkg/seqtrie"
)

// Ingest reads stream to the end and records every context -> follower pair
// it contains. The first order symbols only fill the initial window; each
// later symbol is counted as a follower of the window before it and then
// slides the window. The last window of the stream is left without a table.
//
// Counts are staged per stream and merged into the model only once the
// stream reaches io.EOF, so a failed Ingest leaves the model untouched. The
// first stream that is read successfully sets the seed; later streams merge
// their counts into the same tables. Ingest fails with ErrInsufficientData
// when the stream is shorter than the order, and with ErrInvalidState once
// the generator is finalized.
func (g *Generator[S]) Ingest(stream SymbolStream[S]) error {
	if g.finalized {
		return fmt.Errorf("ingest after finalize: %w", ErrInvalidState)
	}

	window := make([]S, 0, g.order)
	for len(window) < g.order {
		sym, err := stream.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return fmt.Errorf("stream yielded %d of %d symbols: %w", len(window), g.order, ErrInsufficientData)
			}
			return fmt.Errorf("stream error: %w", err)
		}
		window = append(window, sym)
	}
	first := slices.Clone(window)

	staged := seqtrie.New[S, *Table[S]]()
	var transitions int64
	for {
		sym, err := stream.Next()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return fmt.Errorf("stream error after %d transitions: %w", transitions, err)
		}

		table, ok := staged.Get(window)
		if !ok {
			table = NewTable[S]()
			staged.Put(window, table)
		}
		table.Add(sym)
		transitions++

		copy(window, window[1:])
		window[len(window)-1] = sym
	}

	newContexts, newFollowers := g.merge(staged)
	if g.seed == nil {
		g.seed = first
	}

	g.logger.Info("Ingestion completed",
		slog.Int("order", g.order),
		slog.Int64("transitions_recorded", transitions),
		slog.Int("contexts_created", newContexts),
		slog.Int("followers_created", newFollowers),
		slog.Int("contexts_total", g.chains.Len()),
	)

	return nil
}

// merge folds the counts of one fully read stream into the model and reports
// how many contexts and context -> follower pairs were new.
func (g *Generator[S]) merge(staged *seqtrie.Trie[S, *Table[S]]) (newContexts, newFollowers int) {
	for context, st := range staged.All() {
		table, ok := g.chains.Get(context)
		if !ok {
			g.chains.Put(context, st)
			newContexts++
			newFollowers += st.Distinct()
			continue
		}
		for _, f := range st.Followers() {
			if table.addN(f.Symbol, f.Freq) {
				newFollowers++
			}
		}
	}
	return newContexts, newFollowers
}
