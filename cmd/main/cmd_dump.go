package main

import (
	"bufio"
	"cmp"
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

type dumpOptions struct {
	order   int
	mode    string
	corpora []string
	prune   int
	skipBad bool
}

func newDumpCmd(c *cli) *cobra.Command {
	opts := &dumpOptions{}
	defaults := DefaultConfig().Generate

	cmd := &cobra.Command{
		Use:   "dump [files...]",
		Short: "Train on the given sources and print the learned chain",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := cmd.Flags()
			if !f.Changed("order") {
				opts.order = c.config.Generate.Order
			}
			if !f.Changed("mode") {
				opts.mode = c.config.Generate.Mode
			}
			if !f.Changed("prune") {
				opts.prune = c.config.Generate.Prune
			}
			if err := validateOrder(opts.order); err != nil {
				return err
			}
			if opts.prune < 0 {
				return fmt.Errorf("prune threshold must not be negative, got %d", opts.prune)
			}

			out := bufio.NewWriter(cmd.OutOrStdout())
			var err error
			switch opts.mode {
			case modeChar:
				err = dumpWith(cmd.Context(), c, charMode(), opts, args, out)
			case modeWord:
				err = dumpWith(cmd.Context(), c, wordMode(c.tokenizer()), opts, args, out)
			default:
				err = fmt.Errorf("unknown mode %q, expected %q or %q", opts.mode, modeChar, modeWord)
			}
			if err != nil {
				return err
			}
			return out.Flush()
		},
	}

	f := cmd.Flags()
	f.IntVarP(&opts.order, "order", "k", defaults.Order, fmt.Sprintf("Context length in symbols (%d-%d)", minOrder, maxOrder))
	f.StringVarP(&opts.mode, "mode", "m", defaults.Mode, "Symbol mode: char or word")
	f.StringArrayVar(&opts.corpora, "corpus", nil, "Train on a stored corpus source (repeatable)")
	f.IntVar(&opts.prune, "prune", defaults.Prune, "Drop contexts seen at most this many times before dumping")
	f.BoolVar(&opts.skipBad, "skip-bad", false, "Skip unreadable or too-short sources instead of failing")
	return cmd
}

func dumpWith[S cmp.Ordered](ctx context.Context, c *cli, mode symbolMode[S], opts *dumpOptions, files []string, w io.Writer) error {
	sources, release, err := c.collectSources(ctx, files, opts.corpora)
	if err != nil {
		return err
	}
	defer release()

	g, err := buildModel(ctx, c.logger, mode, sources, buildOptions{
		order:   opts.order,
		prune:   opts.prune,
		skipBad: opts.skipBad,
	})
	if err != nil {
		return err
	}

	if err = g.Dump(w, mode.format); err != nil {
		return err
	}
	st := g.Stats()
	_, err = fmt.Fprintf(w, "\ncontexts: %d\ntransitions: %d\nunique links: %d\nmax followers: %d\ntrie nodes: %d\nseed: %s\n",
		st.Contexts, st.Transitions, st.UniqueLinks, st.MaxFollowers, st.TrieNodes, seedString(g.Seed(), mode))
	return err
}

func seedString[S cmp.Ordered](seed []S, mode symbolMode[S]) string {
	return fmt.Sprintf("%q", mode.render(seed))
}
