package markov

import (
	"bufio"
	"fmt"
	"io"
	"slices"
	"strings"
)

// Dump writes a human-readable listing of the model: a header with the
// number of contexts, then each context in ascending order with its total
// and one "count symbol" line per follower. format renders a single symbol;
// nil uses fmt.Sprint.
func (g *Generator[S]) Dump(w io.Writer, format func(S) string) error {
	if format == nil {
		format = func(s S) string { return fmt.Sprint(s) }
	}

	type entry struct {
		context []S
		table   *Table[S]
	}
	entries := make([]entry, 0, g.chains.Len())
	for context, table := range g.chains.All() {
		entries = append(entries, entry{context: context, table: table})
	}
	slices.SortFunc(entries, func(a, b entry) int {
		return slices.Compare(a.context, b.context)
	})

	bw := bufio.NewWriter(w)
	_, _ = fmt.Fprintf(bw, "%d %d-tuples:\n", len(entries), g.order)
	parts := make([]string, g.order)
	for _, e := range entries {
		for i, sym := range e.context {
			parts[i] = format(sym)
		}
		_, _ = fmt.Fprintf(bw, "[%s] %d\n", strings.Join(parts, " "), e.table.Total())
		for _, f := range e.table.Followers() {
			_, _ = fmt.Fprintf(bw, "  %d %s\n", f.Freq, format(f.Symbol))
		}
	}
	return bw.Flush()
}
