package templating

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"math/rand/v2"
	"path/filepath"
	"slices"
	"strings"
	"text/template"
)

const (
	templateSuffix = ".tmpl.txt"
	partialSuffix  = ".part.txt"
)

// ErrNoSource is returned by generate and words when no Source is bound.
var ErrNoSource = errors.New("templating: no text source bound")

// Option configures a TemplateManager.
type Option func(*TemplateManager)

// WithConfig replaces the default TemplateConfig.
func WithConfig(cfg TemplateConfig) Option {
	return func(tm *TemplateManager) {
		tm.config = cfg
	}
}

// WithRand sets the random source used by randomChoice and randomInt.
func WithRand(r *rand.Rand) Option {
	return func(tm *TemplateManager) {
		if r != nil {
			tm.rng = r
		}
	}
}

// WithLogger sets the manager's logger. By default, all logs are discarded.
func WithLogger(logger *slog.Logger) Option {
	return func(tm *TemplateManager) {
		if logger != nil {
			tm.logger = logger
		}
	}
}

// TemplateManager loads templates from a directory and executes them against
// a bound Source.
type TemplateManager struct {
	logger         *slog.Logger
	config         TemplateConfig
	source         Source
	rng            *rand.Rand
	templates      *template.Template
	cleanTemplates *template.Template
	templateNames  []string
	funcMap        template.FuncMap
	templateDir    string
}

// NewTemplateManager creates a manager for templateDir and performs an initial
// Refresh. source may be nil, in which case generate and words fail at
// execution time.
func NewTemplateManager(templateDir string, source Source, opts ...Option) (*TemplateManager, error) {
	tm := &TemplateManager{
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		config:      DefaultConfig(),
		source:      source,
		rng:         rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		templateDir: templateDir,
	}
	for _, opt := range opts {
		opt(tm)
	}
	tm.funcMap = tm.makeFuncMap()

	if err := tm.Refresh(); err != nil {
		return nil, err
	}

	tm.logger.Info("Template manager initialized", "dir", templateDir)
	return tm, nil
}

func (tm *TemplateManager) makeFuncMap() template.FuncMap {
	return template.FuncMap{
		// Text (from funcs_text.go)
		"generate": tm.generate,
		"words":    tm.generate,
		"wrap":     tm.wrap,
		"upper":    upper,
		"trim":     trim,

		// Logic (from funcs_logic.go)
		"repeat":       tm.repeat,
		"list":         list,
		"randomChoice": tm.randomChoice,
		"randomInt":    tm.randomInt,

		// Simple (from funcs_simple.go)
		"add":     add,
		"sub":     sub,
		"mult":    mult,
		"div":     div,
		"mod":     mod,
		"inc":     inc,
		"dec":     dec,
		"default": orDefault,
		"indent":  indent,
	}
}

// SetSource binds a new Source, typically after the model was rebuilt.
func (tm *TemplateManager) SetSource(source Source) {
	tm.source = source
}

// SetLogger sets the logger for the manager.
func (tm *TemplateManager) SetLogger(logger *slog.Logger) {
	if logger != nil {
		tm.logger = logger
	}
}

// Config returns a copy of the current configuration.
func (tm *TemplateManager) Config() TemplateConfig {
	return tm.config
}

// Refresh reloads every template and partial from the template directory.
// A directory without templates is not an error.
func (tm *TemplateManager) Refresh() error {
	root := template.New("").Funcs(tm.funcMap)

	var names []string
	for _, suffix := range []string{templateSuffix, partialSuffix} {
		pattern := filepath.Join(tm.templateDir, "*"+suffix)
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return fmt.Errorf("invalid template pattern '%s': %w", pattern, err)
		}
		if len(matches) == 0 {
			continue
		}
		if _, err = root.ParseFiles(matches...); err != nil {
			tm.logger.Error("failed to parse template files", "pattern", pattern, "error", err)
			return err
		}
		if suffix == templateSuffix {
			for _, m := range matches {
				names = append(names, filepath.Base(m))
			}
		}
	}

	if len(names) == 0 {
		tm.logger.Warn("No template files found", "dir", tm.templateDir)
	}
	slices.Sort(names)

	clean, err := root.Clone()
	if err != nil {
		return fmt.Errorf("failed to clone templates: %w", err)
	}

	tm.templates = root
	tm.cleanTemplates = clean
	tm.templateNames = names
	tm.logger.Info("Loaded template files", "count", len(names))
	return nil
}

// Execute renders the named template into w. An empty name renders nothing.
func (tm *TemplateManager) Execute(w io.Writer, name string, data any) error {
	if name == "" {
		return nil
	}
	if !strings.HasSuffix(name, templateSuffix) && !strings.HasSuffix(name, partialSuffix) {
		name += templateSuffix
	}
	return tm.templates.ExecuteTemplate(w, name, data)
}

// ExecuteString parses and executes a raw template string with the manager's
// functions and any loaded partials.
func (tm *TemplateManager) ExecuteString(w io.Writer, content string, data any) error {
	tempSet, err := tm.cleanTemplates.Clone()
	if err != nil {
		return fmt.Errorf("failed to clone clean templates for string execution: %w", err)
	}

	t, err := tempSet.New("inline").Parse(content)
	if err != nil {
		return fmt.Errorf("failed to parse string template: %w", err)
	}
	return t.Execute(w, data)
}

// TemplateNames returns the sorted file names of the loaded full templates.
func (tm *TemplateManager) TemplateNames() []string {
	return slices.Clone(tm.templateNames)
}

// TemplateDir returns the directory the manager loads from.
func (tm *TemplateManager) TemplateDir() string {
	return tm.templateDir
}
