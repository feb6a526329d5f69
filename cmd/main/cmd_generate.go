package main

import (
	"bytes"
	"cmp"
	"context"
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/CTAG07/chaingen/pkg/markov"
	"github.com/CTAG07/chaingen/pkg/templating"
	"github.com/natefinch/atomic"
	"github.com/spf13/cobra"
)

// generateOptions holds the flags of the generate command.
type generateOptions struct {
	order    int
	length   int
	mode     string
	corpora  []string
	template string
	prune    int
	seed     uint64
	out      string
	skipBad  bool
}

// TemplateInput is the data passed to a template rendered by generate.
type TemplateInput struct {
	Order   int
	Length  int
	Mode    string
	Sources []string
	Stats   markov.Stats
}

func newGenerateCmd(c *cli) *cobra.Command {
	opts := &generateOptions{}
	defaults := DefaultConfig().Generate

	cmd := &cobra.Command{
		Use:   "generate [files...]",
		Short: "Train on the given sources and print generated text",
		Long: `Train an order-k chain on every file argument and every --corpus source,
then print --length symbols of generated text. Output always starts with
the first k symbols of the first usable source.`,
		Example: `  chaingen generate --order 4 --length 300 alice.txt
  chaingen generate --mode word --corpus poems --template verse`,
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.applyConfig(cmd, c.config.Generate)
			if err := opts.validate(); err != nil {
				return err
			}
			return runGenerate(cmd, c, opts, args)
		},
	}

	f := cmd.Flags()
	f.IntVarP(&opts.order, "order", "k", defaults.Order, fmt.Sprintf("Context length in symbols (%d-%d)", minOrder, maxOrder))
	f.IntVarP(&opts.length, "length", "n", defaults.Length, "Number of symbols to generate")
	f.StringVarP(&opts.mode, "mode", "m", defaults.Mode, "Symbol mode: char or word")
	f.StringArrayVar(&opts.corpora, "corpus", nil, "Train on a stored corpus source (repeatable)")
	f.StringVarP(&opts.template, "template", "t", "", "Render output through a template from the template directory")
	f.IntVar(&opts.prune, "prune", defaults.Prune, "Drop contexts seen at most this many times before generating")
	f.Uint64Var(&opts.seed, "seed", 0, "Seed for a reproducible run")
	f.StringVarP(&opts.out, "out", "o", "", "Write output to this file instead of stdout")
	f.BoolVar(&opts.skipBad, "skip-bad", false, "Skip unreadable or too-short sources instead of failing")

	return cmd
}

// applyConfig fills every flag the user did not set from the config file.
func (o *generateOptions) applyConfig(cmd *cobra.Command, cfg *GenerateConfig) {
	f := cmd.Flags()
	if !f.Changed("order") {
		o.order = cfg.Order
	}
	if !f.Changed("length") {
		o.length = cfg.Length
	}
	if !f.Changed("mode") {
		o.mode = cfg.Mode
	}
	if !f.Changed("prune") {
		o.prune = cfg.Prune
	}
}

func (o *generateOptions) validate() error {
	if err := validateOrder(o.order); err != nil {
		return err
	}
	if o.length < 1 {
		return fmt.Errorf("length must be positive, got %d", o.length)
	}
	if o.prune < 0 {
		return fmt.Errorf("prune threshold must not be negative, got %d", o.prune)
	}
	if o.mode != modeChar && o.mode != modeWord {
		return fmt.Errorf("unknown mode %q, expected %q or %q", o.mode, modeChar, modeWord)
	}
	return nil
}

func runGenerate(cmd *cobra.Command, c *cli, opts *generateOptions, files []string) error {
	var rng *rand.Rand
	if cmd.Flags().Changed("seed") {
		rng = newRand(opts.seed)
	}

	var buf bytes.Buffer
	var err error
	switch opts.mode {
	case modeWord:
		err = generateWith(cmd.Context(), c, wordMode(c.tokenizer()), opts, files, rng, &buf)
	default:
		err = generateWith(cmd.Context(), c, charMode(), opts, files, rng, &buf)
	}
	if err != nil {
		return err
	}
	if buf.Len() > 0 && buf.Bytes()[buf.Len()-1] != '\n' {
		buf.WriteByte('\n')
	}

	if opts.out == "" {
		_, err = buf.WriteTo(cmd.OutOrStdout())
		return err
	}
	size := buf.Len()
	if err = atomic.WriteFile(opts.out, &buf); err != nil {
		return fmt.Errorf("failed to write %s: %w", opts.out, err)
	}
	c.logger.Info("Output written", "path", opts.out, "bytes", size)
	return nil
}

func generateWith[S cmp.Ordered](ctx context.Context, c *cli, mode symbolMode[S], opts *generateOptions, files []string, rng *rand.Rand, w io.Writer) error {
	sources, release, err := c.collectSources(ctx, files, opts.corpora)
	if err != nil {
		return err
	}
	defer release()

	g, err := buildModel(ctx, c.logger, mode, sources, buildOptions{
		order:    opts.order,
		prune:    opts.prune,
		skipBad:  opts.skipBad,
		finalize: true,
		rng:      rng,
	})
	if err != nil {
		return err
	}

	if opts.template != "" {
		return renderTemplate(c, mode.source(g), opts, sources, g.Stats(), rng, w)
	}

	syms, err := g.GenerateList(opts.length)
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, mode.render(syms))
	return err
}

func renderTemplate(c *cli, src templating.Source, opts *generateOptions, sources []trainingSource, stats markov.Stats, rng *rand.Rand, w io.Writer) error {
	tmOpts := []templating.Option{
		templating.WithConfig(*c.config.Templates),
		templating.WithLogger(c.logger),
	}
	if rng != nil {
		tmOpts = append(tmOpts, templating.WithRand(rng))
	}
	tm, err := templating.NewTemplateManager(c.config.TemplateDir, src, tmOpts...)
	if err != nil {
		return fmt.Errorf("failed to load templates: %w", err)
	}

	names := make([]string, len(sources))
	for i, s := range sources {
		names[i] = s.name
	}
	input := TemplateInput{
		Order:   opts.order,
		Length:  opts.length,
		Mode:    opts.mode,
		Sources: names,
		Stats:   stats,
	}
	if err = tm.Execute(w, opts.template, input); err != nil {
		return fmt.Errorf("failed to render template %s: %w", opts.template, err)
	}
	return nil
}
