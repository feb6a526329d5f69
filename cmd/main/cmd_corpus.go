package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/CTAG07/chaingen/pkg/corpus"
	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

func newCorpusCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "corpus",
		Short: "Manage training texts stored in the corpus database",
	}
	cmd.AddCommand(
		newCorpusAddCmd(c),
		newCorpusListCmd(c),
		newCorpusRmCmd(c),
		newCorpusStatsCmd(c),
	)
	return cmd
}

func newCorpusAddCmd(c *cli) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "add <files...>",
		Short: "Store text files as named corpus sources",
		Long: `Store each file under its base name, or under --name when a single file
is given. Adding an existing name replaces its text.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if name != "" && len(args) > 1 {
				return errors.New("--name can only be used with a single file")
			}

			store, release, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			for _, path := range args {
				srcName := name
				if srcName == "" {
					srcName = sourceName(path)
				}
				src, err := addFile(cmd, store, srcName, path)
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "added %s (%s, id %s)\n", src.Name, humanize.Bytes(uint64(src.Size)), src.ID)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "Source name to store a single file under")
	return cmd
}

func addFile(cmd *cobra.Command, store *corpus.Store, name, path string) (corpus.Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return corpus.Source{}, err
	}
	defer func(f *os.File) {
		_ = f.Close()
	}(f)
	return store.AddSource(cmd.Context(), name, f)
}

// sourceName derives a corpus name from a file path by dropping the
// directory and extension.
func sourceName(path string) string {
	base := filepath.Base(path)
	if trimmed := strings.TrimSuffix(base, filepath.Ext(base)); trimmed != "" {
		return trimmed
	}
	return base
}

func newCorpusListCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List stored corpus sources",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, release, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			sources, err := store.ListSources(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(sources) == 0 {
				_, _ = fmt.Fprintln(out, "no sources stored")
				return nil
			}
			for _, s := range sources {
				_, _ = fmt.Fprintf(out, "%-24s %10s  added %s\n", s.Name, humanize.Bytes(uint64(s.Size)), humanize.Time(s.AddedAt))
			}
			return nil
		},
	}
}

func newCorpusRmCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <names...>",
		Aliases: []string{"remove"},
		Short:   "Remove stored corpus sources",
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, release, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			for _, name := range args {
				if err = store.RemoveSource(cmd.Context(), name); err != nil {
					return err
				}
				_, _ = fmt.Fprintf(cmd.OutOrStdout(), "removed %s\n", name)
			}
			return nil
		},
	}
}

func newCorpusStatsCmd(c *cli) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show corpus database totals",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			store, release, err := c.openStore(cmd.Context())
			if err != nil {
				return err
			}
			defer release()

			st, err := store.Stats(cmd.Context())
			if err != nil {
				return err
			}
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "sources: %d\nsize: %s\n", st.Sources, humanize.Bytes(uint64(st.TotalBytes)))
			return nil
		},
	}
}
