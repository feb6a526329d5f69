package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/CTAG07/chaingen/pkg/corpus"
	"github.com/CTAG07/chaingen/pkg/markov"
	"github.com/stretchr/testify/require"
)

// testEnv is a scratch directory holding a config file, a corpus database
// and any training files a test writes.
type testEnv struct {
	t   *testing.T
	dir string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return &testEnv{t: t, dir: t.TempDir()}
}

// file writes content to name inside the environment and returns its path.
func (e *testEnv) file(name, content string) string {
	e.t.Helper()
	path := filepath.Join(e.dir, name)
	require.NoError(e.t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(e.t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// run executes chaingen with args and returns what it wrote to stdout.
func (e *testEnv) run(args ...string) (string, error) {
	e.t.Helper()
	cmd := newRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(append([]string{
		"--config", filepath.Join(e.dir, "config.json"),
		"--db", filepath.Join(e.dir, "corpus.db"),
	}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGenerateDeterministicChain(t *testing.T) {
	env := newTestEnv(t)
	path := env.file("abab.txt", "abab")

	out, err := env.run("generate", "--order", "2", "--length", "6", path)
	require.NoError(t, err)
	require.Equal(t, "ababab\n", out)
}

func TestGenerateWordMode(t *testing.T) {
	env := newTestEnv(t)
	path := env.file("fish.txt", "one fish two fish.")

	out, err := env.run("generate", "--mode", "word", "-k", "2", "-n", "5", path)
	require.NoError(t, err)
	require.Equal(t, "one fish two fish.\n", out)
}

func TestGenerateUsesConfigDefaults(t *testing.T) {
	env := newTestEnv(t)
	env.file("config.json", `{"generate_config": {"order": 1, "length": 7, "mode": "char"}}`)
	path := env.file("xyz.txt", "xyz")

	out, err := env.run("generate", path)
	require.NoError(t, err)
	require.Equal(t, "xyzxyzx\n", out)

	out, err = env.run("generate", "--length", "2", path)
	require.NoError(t, err)
	require.Equal(t, "xy\n", out, "flags must override the config file")
}

func TestGenerateSeedIsReproducible(t *testing.T) {
	env := newTestEnv(t)
	path := env.file("text.txt", strings.Repeat("the cat sat on the mat and the rat ate the hat. ", 20))

	first, err := env.run("generate", "-k", "2", "-n", "200", "--seed", "42", path)
	require.NoError(t, err)
	second, err := env.run("generate", "-k", "2", "-n", "200", "--seed", "42", path)
	require.NoError(t, err)
	require.Equal(t, first, second)
	require.Len(t, []rune(strings.TrimSuffix(first, "\n")), 200)
	require.True(t, strings.HasPrefix(first, "th"))
}

func TestGenerateWritesOutFile(t *testing.T) {
	env := newTestEnv(t)
	path := env.file("abab.txt", "abab")
	outPath := filepath.Join(env.dir, "out", "result.txt")
	require.NoError(t, os.MkdirAll(filepath.Dir(outPath), 0755))

	out, err := env.run("generate", "-k", "2", "-n", "4", "--out", outPath, path)
	require.NoError(t, err)
	require.Empty(t, out)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	require.Equal(t, "abab\n", string(data))
}

func TestGenerateRejectsInvalidFlags(t *testing.T) {
	env := newTestEnv(t)
	path := env.file("abab.txt", "abab")

	testCases := []struct {
		name string
		args []string
	}{
		{"OrderZero", []string{"--order", "0"}},
		{"OrderTooHigh", []string{"--order", "21"}},
		{"LengthZero", []string{"--length", "0"}},
		{"UnknownMode", []string{"--mode", "bytes"}},
		{"NegativePrune", []string{"--prune", "-1"}},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			args := append([]string{"generate"}, tc.args...)
			_, err := env.run(append(args, path)...)
			require.Error(t, err)
		})
	}
}

func TestGenerateFailures(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run("generate")
	require.ErrorContains(t, err, "no training sources")

	short := env.file("short.txt", "ab")
	_, err = env.run("generate", "-k", "3", short)
	require.ErrorIs(t, err, markov.ErrInsufficientData)

	_, err = env.run("generate", "-k", "2", filepath.Join(env.dir, "missing.txt"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestGenerateSkipBad(t *testing.T) {
	env := newTestEnv(t)
	short := env.file("short.txt", "a")
	good := env.file("good.txt", "xyxy")
	missing := filepath.Join(env.dir, "missing.txt")

	out, err := env.run("generate", "-k", "2", "-n", "6", "--skip-bad", short, missing, good)
	require.NoError(t, err)
	require.Equal(t, "xyxyxy\n", out, "the seed must come from the first usable source")

	_, err = env.run("generate", "-k", "2", "--skip-bad", short, missing)
	require.ErrorIs(t, err, markov.ErrInsufficientData)
}

func TestGeneratePrune(t *testing.T) {
	env := newTestEnv(t)
	path := env.file("abcdef.txt", "abcdef")

	out, err := env.run("generate", "-k", "2", "-n", "9", "--prune", "10", path)
	require.NoError(t, err)
	require.Equal(t, "abcabcabc\n", out)
}

func TestGenerateTemplate(t *testing.T) {
	env := newTestEnv(t)
	tmplDir := filepath.Join(env.dir, "templates")
	env.file("config.json", `{"template_dir": "`+filepath.ToSlash(tmplDir)+`"}`)
	env.file("templates/page.tmpl.txt", `[{{.Mode}} k={{.Order}}] {{generate .Length | upper}}`)
	path := env.file("abab.txt", "abab")

	out, err := env.run("generate", "-k", "2", "-n", "4", "--template", "page", path)
	require.NoError(t, err)
	require.Equal(t, "[char k=2] ABAB\n", out)

	_, err = env.run("generate", "-k", "2", "--template", "missing", path)
	require.Error(t, err)
}

func TestCorpusCommands(t *testing.T) {
	env := newTestEnv(t)
	fish := env.file("fish.txt", "one fish two fish.")

	out, err := env.run("corpus", "add", fish)
	require.NoError(t, err)
	require.Contains(t, out, "added fish")

	out, err = env.run("corpus", "add", "--name", "other", fish)
	require.NoError(t, err)
	require.Contains(t, out, "added other")

	_, err = env.run("corpus", "add", "--name", "both", fish, fish)
	require.Error(t, err)

	out, err = env.run("corpus", "list")
	require.NoError(t, err)
	require.Contains(t, out, "fish")
	require.Contains(t, out, "other")

	out, err = env.run("corpus", "stats")
	require.NoError(t, err)
	require.Contains(t, out, "sources: 2")

	out, err = env.run("generate", "--mode", "word", "-k", "2", "-n", "5", "--corpus", "fish")
	require.NoError(t, err)
	require.Equal(t, "one fish two fish.\n", out)

	out, err = env.run("corpus", "rm", "other")
	require.NoError(t, err)
	require.Contains(t, out, "removed other")

	_, err = env.run("corpus", "rm", "other")
	require.ErrorIs(t, err, corpus.ErrSourceNotFound)

	_, err = env.run("generate", "--corpus", "other")
	require.ErrorIs(t, err, corpus.ErrSourceNotFound)
}

func TestDump(t *testing.T) {
	env := newTestEnv(t)
	path := env.file("abab.txt", "abab")

	out, err := env.run("dump", "-k", "2", path)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "2 2-tuples:\n['a' 'b'] 1\n  1 'a'\n['b' 'a'] 1\n  1 'b'\n"), out)
	require.Contains(t, out, "contexts: 2\n")
	require.Contains(t, out, "seed: \"ab\"\n")
}

func TestSourceName(t *testing.T) {
	require.Equal(t, "alice", sourceName("/books/alice.txt"))
	require.Equal(t, "notes", sourceName("notes"))
	require.Equal(t, ".bashrc", sourceName(".bashrc"))
}

func TestDumpUsesConfigPrune(t *testing.T) {
	env := newTestEnv(t)
	env.file("config.json", `{"generate_config": {"order": 2, "length": 10, "mode": "char", "prune": 10}}`)
	path := env.file("abcdef.txt", "abcdef")

	out, err := env.run("dump", path)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "1 2-tuples:\n['a' 'b'] 1\n  1 'c'\n"), out)
	require.Contains(t, out, "contexts: 1\n")

	out, err = env.run("dump", "--prune", "0", path)
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(out, "4 2-tuples:\n"), out)
	require.Contains(t, out, "contexts: 4\n")

	_, err = env.run("dump", "--prune=-1", path)
	require.Error(t, err)
}
