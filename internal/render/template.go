package render

import (
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/aescanero/dago-node-render/internal/schema"
	"github.com/aescanero/dago-node-render/internal/value"
)

// Option configures a Template
type Option func(*Template)

// WithPath renders the template file at path. An empty path is ignored.
func WithPath(path string) Option {
	return func(t *Template) {
		if path != "" {
			t.source = FilePath(path)
		}
	}
}

// WithSource renders inline template text
func WithSource(text string) Option {
	return func(t *Template) {
		t.source = InlineSource(text)
	}
}

// WithSchemaText sets a JSON base schema. Empty text is ignored.
func WithSchemaText(text string) Option {
	return func(t *Template) {
		t.inputs = append(t.inputs, schema.SerializedText{Text: text})
	}
}

// WithSchemaBinary sets a MessagePack base schema. Empty data is ignored.
func WithSchemaBinary(data []byte) Option {
	return func(t *Template) {
		t.inputs = append(t.inputs, schema.CompactBinary{Data: data})
	}
}

// WithSchemaValue sets a base schema from Go data, converted with
// value.Convert when the template is created. A value that converts to
// null, such as a nil pointer, is ignored.
func WithSchemaValue(v any) Option {
	return func(t *Template) {
		if v != nil {
			t.values = append(t.values, v)
		}
	}
}

// WithEngine sets the engine templates are rendered with
func WithEngine(engine Engine) Option {
	return func(t *Template) {
		if engine != nil {
			t.engine = engine
		}
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) Option {
	return func(t *Template) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// Template pairs a template source with the schema it renders against
type Template struct {
	engine Engine
	logger *zap.Logger
	source Source
	store  *schema.Store
	status Status

	// base inputs collected by options
	inputs []schema.Input
	values []any
}

// New creates a new template. Giving more than one of WithSchemaText,
// WithSchemaBinary and WithSchemaValue fails with
// schema.ErrMultipleSchemaInputs.
func New(options ...Option) (*Template, error) {
	t := &Template{
		engine: defaultEngine,
		logger: zap.NewNop(),
		source: InlineSource(""),
	}
	for _, opt := range options {
		if opt != nil {
			opt(t)
		}
	}

	inputs := t.inputs
	for _, v := range t.values {
		converted, err := value.Convert(v)
		if err != nil {
			return nil, fmt.Errorf("failed to convert schema value: %w", err)
		}
		if _, null := converted.(value.Null); null {
			continue
		}
		inputs = append(inputs, schema.Structured{Value: converted})
	}

	store, err := schema.NewStore(inputs...)
	if err != nil {
		return nil, err
	}
	t.store = store
	t.inputs, t.values = nil, nil

	return t, nil
}

// SetPath selects the template file at path, replacing any inline source
func (t *Template) SetPath(path string) {
	t.source = FilePath(path)
}

// SetSource selects inline template text, replacing any path
func (t *Template) SetSource(text string) {
	t.source = InlineSource(text)
}

// Source returns the current template source
func (t *Template) Source() Source {
	return t.source
}

// MergeSchema merges a JSON schema
func (t *Template) MergeSchema(text string) error {
	action, err := t.store.MergeText(text)
	return t.merged("text", action, err)
}

// MergeSchemaBinary merges a MessagePack schema
func (t *Template) MergeSchemaBinary(data []byte) error {
	action, err := t.store.MergeBinary(data)
	return t.merged("binary", action, err)
}

// MergeSchemaValue converts v and merges it. A conversion error leaves the
// schema unchanged.
func (t *Template) MergeSchemaValue(v any) error {
	action, err := t.store.MergeValue(v)
	return t.merged("value", action, err)
}

func (t *Template) merged(kind string, action schema.Action, err error) error {
	if err != nil {
		return fmt.Errorf("failed to merge %s schema: %w", kind, err)
	}
	t.logger.Debug("Schema merged",
		zap.String("kind", kind),
		zap.Stringer("action", action),
		zap.Int("pending", t.store.Pending()))
	return nil
}

// Render renders the template. The schema is kept, so later merges build on
// it and the template can be rendered again.
func (t *Template) Render() (string, error) {
	base, merges := t.store.Snapshot()
	return t.render(base, merges, false)
}

// RenderOnce renders the template and gives its schema to the engine. The
// template has no schema afterwards, whatever the outcome.
func (t *Template) RenderOnce() (string, error) {
	base, merges := t.store.Take()
	return t.render(base, merges, true)
}

func (t *Template) render(base schema.Input, merges []schema.Input, consume bool) (string, error) {
	t.status = Status{}

	tpl, err := t.build(base, merges)
	if err != nil {
		t.status = failure(err)
		t.logger.Debug("Template build failed", zap.Error(err))
		return "", err
	}

	var result string
	if consume {
		result, err = tpl.RenderOnce()
	} else {
		result, err = tpl.Render()
	}

	code, text, param, failed := tpl.Status()
	t.status = Status{Code: code, Text: text, Param: param, Failed: failed}

	if err != nil {
		if !t.status.Failed {
			t.status = Status{Code: code, Text: text, Param: err.Error(), Failed: true}
		}
		t.logger.Debug("Template render failed",
			zap.String("status_code", code),
			zap.Error(err))
		return "", fmt.Errorf("%w: %w", ErrEngine, err)
	}

	t.logger.Debug("Template rendered",
		zap.String("status_code", code),
		zap.Int("length", len(result)))
	return result, nil
}

// build creates the engine template and installs the base and the merges in
// the order they were recorded.
func (t *Template) build(base schema.Input, merges []schema.Input) (EngineTemplate, error) {
	var tpl EngineTemplate

	switch src := t.source.(type) {
	case FilePath:
		loaded, err := t.load(string(src), base)
		if err != nil {
			return nil, err
		}
		tpl = loaded
	case InlineSource:
		tpl = t.engine.New()
		tpl.SetSource(string(src))
		if err := install(tpl, base); err != nil {
			return nil, err
		}
	default:
		tpl = t.engine.New()
		if err := install(tpl, base); err != nil {
			return nil, err
		}
	}

	for _, m := range merges {
		if err := install(tpl, m); err != nil {
			return nil, err
		}
	}
	return tpl, nil
}

// load asks the engine for the template file, passing a structured or binary
// base along so the engine installs it.
func (t *Template) load(path string, base schema.Input) (EngineTemplate, error) {
	switch b := base.(type) {
	case schema.CompactBinary:
		tpl, err := t.engine.LoadFileBinary(path, b.Data)
		if err != nil {
			if errors.Is(err, schema.ErrInvalidCompactSchema) {
				return nil, fmt.Errorf("%w: %w", ErrSchemaDecode, err)
			}
			return nil, fmt.Errorf("%w: %w", ErrSourceLoad, err)
		}
		return tpl, nil
	case schema.Structured:
		tpl, err := t.engine.LoadFile(path, b.Value)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSourceLoad, err)
		}
		return tpl, nil
	default:
		tpl, err := t.engine.LoadFile(path, nil)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrSourceLoad, err)
		}
		if err := install(tpl, base); err != nil {
			return nil, err
		}
		return tpl, nil
	}
}

func install(tpl EngineTemplate, in schema.Input) error {
	switch s := in.(type) {
	case nil, schema.Unset:
		return nil
	case schema.Structured:
		tpl.InstallValue(s.Value)
		return nil
	case schema.SerializedText:
		if err := tpl.InstallText(s.Text); err != nil {
			return fmt.Errorf("%w: %w", ErrSchemaDecode, err)
		}
		return nil
	case schema.CompactBinary:
		if err := tpl.InstallBinary(s.Data); err != nil {
			return fmt.Errorf("%w: %w", ErrSchemaDecode, err)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown schema input %T", ErrSchemaDecode, in)
	}
}

// StatusCode returns the status code of the last render
func (t *Template) StatusCode() string {
	return t.status.Code
}

// StatusText returns the status text of the last render
func (t *Template) StatusText() string {
	return t.status.Text
}

// StatusParam returns the status parameter of the last render. For failed
// renders it holds the error message.
func (t *Template) StatusParam() string {
	return t.status.Param
}

// HasError reports whether the last render failed
func (t *Template) HasError() bool {
	return t.status.Failed
}

// Status returns the outcome of the last render
func (t *Template) Status() Status {
	return t.status
}
