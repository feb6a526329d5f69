package markov

import (
	"bufio"
	"errors"
	"io"
	"regexp"
	"strings"
)

// WordTokenizer splits text into word and punctuation symbols with regular
// expressions, and joins generated symbols back into readable text.
// Its behavior can be customized with functional options.
type WordTokenizer struct {
	separator         string
	splitRegex        *regexp.Regexp
	separatorExcRegex *regexp.Regexp
}

// Option Is a function that configures a WordTokenizer.
type Option func(*WordTokenizer)

// WithSeparator Sets the string used for joining tokens during output.
// Default: " "
func WithSeparator(sep string) Option {
	return func(t *WordTokenizer) {
		t.separator = sep
	}
}

// WithSplitRegex sets the regex used to find tokens in input text.
// Default: `[\w']+|[.,!?;:]`
func WithSplitRegex(splitRegex string) Option {
	return func(t *WordTokenizer) {
		t.splitRegex = regexp.MustCompile(splitRegex)
	}
}

// WithSeparatorExcRegex sets the regex deciding which tokens are joined
// without a separator in front of them.
// Default: `^[.,!?;:]`
func WithSeparatorExcRegex(excRegex string) Option {
	return func(t *WordTokenizer) {
		t.separatorExcRegex = regexp.MustCompile(excRegex)
	}
}

// NewWordTokenizer creates a tokenizer with default settings, which can be
// overridden by providing one or more Option functions.
func NewWordTokenizer(opts ...Option) *WordTokenizer {
	t := &WordTokenizer{
		separator: " ",
		// Runs of word characters OR single instances of common punctuation.
		splitRegex:        regexp.MustCompile(`[\w']+|[.,!?;:]`),
		separatorExcRegex: regexp.MustCompile(`^[.,!?;:]`),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// Separator returns the string placed before next in joined output.
func (t *WordTokenizer) Separator(next string) string {
	if t.separatorExcRegex.MatchString(next) {
		return ""
	}
	return t.separator
}

// Join concatenates tokens with the configured separator rules.
func (t *WordTokenizer) Join(tokens []string) string {
	var sb strings.Builder
	for i, tok := range tokens {
		if i > 0 {
			sb.WriteString(t.Separator(tok))
		}
		sb.WriteString(tok)
	}
	return sb.String()
}

// NewStream returns a lazy word stream over r. Lines may be of any length.
func (t *WordTokenizer) NewStream(r io.Reader) *WordStream {
	return &WordStream{
		reader:     bufio.NewReader(r),
		splitRegex: t.splitRegex,
	}
}

// WordStream is the SymbolStream produced by WordTokenizer. It reads one line
// at a time and hands out the tokens found on it.
type WordStream struct {
	reader     *bufio.Reader
	buffer     []string
	splitRegex *regexp.Regexp
	eof        bool
}

// Next returns the next token. When the input is exhausted it returns io.EOF.
// Any other error indicates a problem reading from the underlying reader.
func (s *WordStream) Next() (string, error) {
	for len(s.buffer) == 0 { // Loop until we have tokens
		if s.eof {
			return "", io.EOF
		}
		line, err := s.reader.ReadString('\n')
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return "", err
			}
			s.eof = true
		}
		s.buffer = s.splitRegex.FindAllString(line, -1)
	}

	word := s.buffer[0]
	s.buffer = s.buffer[1:]
	return word, nil
}
