package template

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/aymerick/raymond"

	"github.com/aescanero/dago-node-render/internal/eval/cel"
	"github.com/aescanero/dago-node-render/internal/value"
)

// ErrLoad is returned when a template file cannot be read or parsed
var ErrLoad = errors.New("template load failed")

// Option configures an Engine
type Option func(*Engine)

// WithBaseDir resolves relative template paths against dir and refuses
// paths that escape it.
func WithBaseDir(dir string) Option {
	return func(e *Engine) {
		e.baseDir = strings.TrimSpace(dir)
	}
}

// WithCEL enables the "when" block helper backed by evaluator
func WithCEL(evaluator *cel.Evaluator) Option {
	return func(e *Engine) {
		e.evaluator = evaluator
	}
}

// Engine creates Handlebars templates. An Engine holds no per-render state
// and may be shared between goroutines; the templates it returns may not.
type Engine struct {
	baseDir   string
	evaluator *cel.Evaluator
	helpers   map[string]interface{}
}

// NewEngine creates a new template engine
func NewEngine(options ...Option) *Engine {
	engine := &Engine{}
	for _, opt := range options {
		if opt != nil {
			opt(engine)
		}
	}
	engine.helpers = builtinHelpers()
	return engine
}

// New returns an empty template with no source and an empty schema
func (e *Engine) New() *Template {
	return &Template{
		engine: e,
		schema: value.Object{},
	}
}

// LoadFile reads and parses the template at path and installs schema as its
// base schema.
func (e *Engine) LoadFile(path string, base value.Value) (*Template, error) {
	tpl, err := e.load(path)
	if err != nil {
		return nil, err
	}
	if base != nil {
		tpl.InstallValue(base)
	}
	return tpl, nil
}

// LoadFileBinary reads and parses the template at path and installs a
// MessagePack base schema. Decode failures wrap schema.ErrInvalidCompactSchema.
func (e *Engine) LoadFileBinary(path string, data []byte) (*Template, error) {
	tpl, err := e.load(path)
	if err != nil {
		return nil, err
	}
	if err := tpl.InstallBinary(data); err != nil {
		return nil, err
	}
	return tpl, nil
}

// Validate parses a template source without rendering it
func (e *Engine) Validate(source string) error {
	_, err := raymond.Parse(source)
	return err
}

func (e *Engine) load(path string) (*Template, error) {
	resolved, err := e.resolvePath(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoad, err)
	}

	data, err := os.ReadFile(resolved)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %w", ErrLoad, path, err)
	}

	tpl := e.New()
	tpl.path = resolved
	tpl.source = string(data)
	if err := tpl.parse(); err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s: %w", ErrLoad, path, err)
	}
	return tpl, nil
}

func (e *Engine) resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.New("template path is empty")
	}
	if e.baseDir == "" {
		return path, nil
	}

	resolved := path
	if !filepath.IsAbs(path) {
		resolved = filepath.Join(e.baseDir, path)
	}
	rel, err := filepath.Rel(e.baseDir, resolved)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("template path %q is outside %s", path, e.baseDir)
	}
	return resolved, nil
}
