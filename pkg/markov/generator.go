package markov

import (
	"cmp"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"slices"

	"github.com/CTAG07/chaingen/pkg/seqtrie"
)

// phase tags where a generation run currently is.
type phase int

const (
	// phaseReplay emits the seed symbol by symbol.
	phaseReplay phase = iota
	// phaseWalk samples followers of the rolling window.
	phaseWalk
)

// generatorOptions Is used by NewGenerator to hold optional settings.
type generatorOptions struct {
	rng    *rand.Rand
	logger *slog.Logger
}

// GeneratorOption configures a Generator at construction time.
type GeneratorOption func(*generatorOptions)

// WithRand makes the generator draw from r instead of the math/rand/v2
// top-level source. Passing a seeded source makes generation reproducible.
func WithRand(r *rand.Rand) GeneratorOption {
	return func(o *generatorOptions) { o.rng = r }
}

// WithLogger sets the logger used for ingestion and generation events.
func WithLogger(logger *slog.Logger) GeneratorOption {
	return func(o *generatorOptions) { o.logger = logger }
}

// Generator is an order-k Markov model over symbols of type S, together with
// the state of the walk that produces output from it.
// A Generator is not safe for concurrent use.
type Generator[S cmp.Ordered] struct {
	order     int
	chains    *seqtrie.Trie[S, *Table[S]]
	seed      []S
	finalized bool

	window    []S
	phase     phase
	replayPos int

	rng    *rand.Rand
	logger *slog.Logger
}

// NewGenerator returns an empty Generator that uses contexts of order
// symbols. Order must be at least 1.
func NewGenerator[S cmp.Ordered](order int, opts ...GeneratorOption) (*Generator[S], error) {
	if order < 1 {
		return nil, fmt.Errorf("%w: got %d", ErrInvalidOrder, order)
	}

	options := &generatorOptions{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(options)
	}

	return &Generator[S]{
		order:  order,
		chains: seqtrie.New[S, *Table[S]](),
		window: make([]S, 0, order),
		rng:    options.rng,
		logger: options.logger,
	}, nil
}

// SetLogger sets the logger for the Generator. By default, all logs are discarded.
func (g *Generator[S]) SetLogger(logger *slog.Logger) {
	if logger != nil {
		g.logger = logger
	}
}

// Order returns the context length.
func (g *Generator[S]) Order() int {
	return g.order
}

// Seed returns a copy of the first context ever ingested, or nil if no
// ingest has succeeded yet.
func (g *Generator[S]) Seed() []S {
	return slices.Clone(g.seed)
}

// Len returns the number of distinct contexts that have a recorded follower.
func (g *Generator[S]) Len() int {
	return g.chains.Len()
}

// Finalized reports whether Finalize has completed.
func (g *Generator[S]) Finalized() bool {
	return g.finalized
}

// Lookup returns the table recorded for context, if any. The table is owned
// by the generator and must not be modified.
func (g *Generator[S]) Lookup(context []S) (*Table[S], bool) {
	return g.chains.Get(context)
}

// Finalize compiles every recorded table and prepares the generator for
// output. After Finalize, Ingest is refused. Calling Finalize again
// recompiles and restarts the walk from the seed.
func (g *Generator[S]) Finalize() error {
	if g.chains.IsEmpty() {
		return fmt.Errorf("finalize with no recorded contexts: %w", ErrInsufficientData)
	}

	compiled := 0
	for table := range g.chains.Values() {
		table.Compile()
		compiled++
	}
	g.finalized = true
	g.Reset()

	g.logger.Info("Model finalized",
		slog.Int("order", g.order),
		slog.Int("contexts", g.chains.Len()),
		slog.Int("tables_compiled", compiled),
	)
	return nil
}

// Reset restarts the walk so that the next emitted symbols replay the seed.
// It has no effect before Finalize.
func (g *Generator[S]) Reset() {
	if !g.finalized {
		return
	}
	g.window = append(g.window[:0], g.seed...)
	g.phase = phaseReplay
	g.replayPos = 0
}
