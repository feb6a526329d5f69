package markov

// Stats holds aggregated statistics for a Generator's model.
type Stats struct {
	Order          int  // The context length
	Contexts       int  // The number of distinct contexts with a recorded follower
	Transitions    int  // The sum of all follower counts; the number of recorded context -> symbol steps
	UniqueLinks    int  // The number of distinct context -> symbol pairs
	MaxFollowers   int  // The largest number of distinct followers of any one context
	TrieNodes      int  // Live nodes in the context trie, root included
	SeedLength     int  // Length of the seed, 0 before the first successful ingest
	Finalized      bool // Whether Finalize has completed
	CompiledTables int  // Tables currently ready for sampling
}

// Stats returns a snapshot of the model's size and shape.
func (g *Generator[S]) Stats() Stats {
	st := Stats{
		Order:      g.order,
		Contexts:   g.chains.Len(),
		TrieNodes:  g.chains.NodeCount(),
		SeedLength: len(g.seed),
		Finalized:  g.finalized,
	}
	for table := range g.chains.Values() {
		st.Transitions += table.Total()
		st.UniqueLinks += table.Distinct()
		st.MaxFollowers = max(st.MaxFollowers, table.Distinct())
		if table.Compiled() {
			st.CompiledTables++
		}
	}
	return st
}
