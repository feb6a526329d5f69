package markov

import (
	"go/build"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// newRuneGenerator builds a rune generator of the given order and ingests
// each text as its own stream. A fixed PCG seed keeps tests reproducible.
func newRuneGenerator(t *testing.T, order int, texts ...string) *Generator[rune] {
	t.Helper()
	g, err := NewGenerator[rune](order, WithRand(rand.New(rand.NewPCG(1, 2))))
	if err != nil {
		t.Fatalf("NewGenerator(%d) error = %v", order, err)
	}
	for _, text := range texts {
		if err := g.Ingest(NewRuneStream(strings.NewReader(text))); err != nil {
			t.Fatalf("Ingest(%q) error = %v", text, err)
		}
	}
	return g
}

// newFinalizedRuneGenerator is a convenience helper that also finalizes.
func newFinalizedRuneGenerator(t *testing.T, order int, texts ...string) *Generator[rune] {
	t.Helper()
	g := newRuneGenerator(t, order, texts...)
	if err := g.Finalize(); err != nil {
		t.Fatalf("Finalize() error = %v", err)
	}
	return g
}

// fixedSource always returns the same value, pinning Float64 to one point.
type fixedSource uint64

func (s fixedSource) Uint64() uint64 { return uint64(s) }

var (
	benchmarkCorpus string
	corpusOnce      sync.Once
)

// createBenchmarkCorpus reads Go source files to create a corpus for benchmarking.
func createBenchmarkCorpus() string {
	corpusOnce.Do(func() {
		var sb strings.Builder
		goRoot := build.Default.GOROOT
		filesToRead := []string{
			filepath.Join(goRoot, "src/net/http/server.go"),
			filepath.Join(goRoot, "src/go/parser/parser.go"),
			filepath.Join(goRoot, "src/encoding/json/encode.go"),
		}

		for _, file := range filesToRead {
			content, err := os.ReadFile(file)
			if err != nil {
				benchmarkCorpus = "this is a fallback corpus for benchmarking. it is not very long but will prevent a crash. "
				return
			}
			sb.Write(content)
			sb.WriteString("\n")
		}
		benchmarkCorpus = sb.String()
	})
	return benchmarkCorpus
}
