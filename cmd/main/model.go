package main

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strconv"

	"github.com/CTAG07/chaingen/pkg/markov"
	"github.com/CTAG07/chaingen/pkg/templating"
)

// symbolMode bundles everything that differs between character and word
// models.
type symbolMode[S cmp.Ordered] struct {
	stream func(io.Reader) markov.SymbolStream[S]
	render func([]S) string
	format func(S) string
	source func(*markov.Generator[S]) templating.Source
}

func charMode() symbolMode[rune] {
	return symbolMode[rune]{
		stream: func(r io.Reader) markov.SymbolStream[rune] { return markov.NewRuneStream(r) },
		render: func(syms []rune) string { return string(syms) },
		format: func(r rune) string { return strconv.QuoteRune(r) },
		source: templating.RuneSource,
	}
}

func wordMode(tok *markov.WordTokenizer) symbolMode[string] {
	return symbolMode[string]{
		stream: func(r io.Reader) markov.SymbolStream[string] { return tok.NewStream(r) },
		render: tok.Join,
		format: func(s string) string { return s },
		source: func(g *markov.Generator[string]) templating.Source {
			return templating.WordSource(g, tok)
		},
	}
}

// tokenizer builds the word tokenizer described by the config.
func (c *cli) tokenizer() *markov.WordTokenizer {
	var opts []markov.Option
	tc := c.config.Tokenizer
	if tc.Separator != "" {
		opts = append(opts, markov.WithSeparator(tc.Separator))
	}
	if tc.SplitRegex != "" {
		opts = append(opts, markov.WithSplitRegex(tc.SplitRegex))
	}
	if tc.SeparatorExcRegex != "" {
		opts = append(opts, markov.WithSeparatorExcRegex(tc.SeparatorExcRegex))
	}
	return markov.NewWordTokenizer(opts...)
}

// trainingSource is one named input, either a file or a stored corpus.
type trainingSource struct {
	name string
	open func(ctx context.Context) (io.ReadCloser, error)
}

func fileSource(path string) trainingSource {
	return trainingSource{
		name: filepath.Base(path),
		open: func(context.Context) (io.ReadCloser, error) {
			return os.Open(path)
		},
	}
}

// collectSources resolves file arguments and --corpus names into training
// sources. Stored corpora are opened through the store; the returned function
// releases it.
func (c *cli) collectSources(ctx context.Context, files, corpora []string) ([]trainingSource, func(), error) {
	sources := make([]trainingSource, 0, len(files)+len(corpora))
	for _, f := range files {
		sources = append(sources, fileSource(f))
	}
	if len(corpora) == 0 {
		if len(sources) == 0 {
			return nil, nil, errors.New("no training sources: pass files or --corpus names")
		}
		return sources, func() {}, nil
	}

	store, closeStore, err := c.openStore(ctx)
	if err != nil {
		return nil, nil, err
	}
	for _, name := range corpora {
		sources = append(sources, trainingSource{
			name: "corpus:" + name,
			open: func(ctx context.Context) (io.ReadCloser, error) {
				r, err := store.Open(ctx, name)
				if err != nil {
					return nil, err
				}
				return io.NopCloser(r), nil
			},
		})
	}
	return sources, closeStore, nil
}

// buildOptions controls how a model is trained from its sources.
type buildOptions struct {
	order    int
	prune    int
	skipBad  bool
	finalize bool
	rng      *rand.Rand
}

// buildModel trains a generator on every source in order. With skipBad, a
// source that cannot be opened or read, or is shorter than the order, is
// logged and skipped instead of aborting the build.
func buildModel[S cmp.Ordered](ctx context.Context, logger *slog.Logger, mode symbolMode[S], sources []trainingSource, opts buildOptions) (*markov.Generator[S], error) {
	genOpts := []markov.GeneratorOption{markov.WithLogger(logger)}
	if opts.rng != nil {
		genOpts = append(genOpts, markov.WithRand(opts.rng))
	}
	g, err := markov.NewGenerator[S](opts.order, genOpts...)
	if err != nil {
		return nil, err
	}

	used := 0
	for _, src := range sources {
		if err = ctx.Err(); err != nil {
			return nil, err
		}
		if err = ingestSource(ctx, g, mode, src); err != nil {
			if !opts.skipBad {
				return nil, err
			}
			logger.Warn("Skipping training source", "source", src.name, "error", err)
			continue
		}
		used++
	}
	if used == 0 {
		return nil, fmt.Errorf("no usable training sources among %d given: %w", len(sources), markov.ErrInsufficientData)
	}

	if opts.prune > 0 {
		removed, err := g.Prune(opts.prune)
		if err != nil {
			return nil, err
		}
		logger.Info("Pruned rare contexts", "min_total", opts.prune, "removed", removed)
	}

	if opts.finalize {
		if err = g.Finalize(); err != nil {
			return nil, fmt.Errorf("training text too short for order %d: %w", opts.order, err)
		}
	}
	return g, nil
}

func ingestSource[S cmp.Ordered](ctx context.Context, g *markov.Generator[S], mode symbolMode[S], src trainingSource) error {
	rc, err := src.open(ctx)
	if err != nil {
		return fmt.Errorf("could not open %s: %w", src.name, err)
	}
	defer func(rc io.ReadCloser) {
		_ = rc.Close()
	}(rc)

	if err = g.Ingest(mode.stream(rc)); err != nil {
		return fmt.Errorf("could not train on %s: %w", src.name, err)
	}
	return nil
}

// newRand returns a deterministic generator for seed.
func newRand(seed uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed, seed))
}
