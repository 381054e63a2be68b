package template

import (
	"fmt"

	"github.com/aymerick/raymond"

	"github.com/aescanero/dago-node-render/internal/schema"
	"github.com/aescanero/dago-node-render/internal/value"
)

const (
	statusOK         = "200"
	statusOKText     = "OK"
	statusFailed     = "500"
	statusFailedText = "Internal Server Error"
)

// Status is the outcome reported by the last render of a template
type Status struct {
	Code   string
	Text   string
	Param  string
	Failed bool
}

// Template is a single engine-side template: source text plus the schema it
// renders against. A Template is not safe for concurrent use.
type Template struct {
	engine *Engine
	path   string
	source string
	parsed *raymond.Template
	schema value.Value
	status Status

	// root is the native schema while a render is running
	root interface{}
}

// SetSource replaces the template source
func (t *Template) SetSource(source string) {
	t.path = ""
	t.source = source
	t.parsed = nil
}

// Path returns the file the template was loaded from, if any
func (t *Template) Path() string {
	return t.path
}

// Schema returns the schema the next render will use. It is nil after
// RenderOnce.
func (t *Template) Schema() value.Value {
	return t.schema
}

// InstallValue merges v into the template schema
func (t *Template) InstallValue(v value.Value) {
	t.schema = value.Merge(t.schema, v)
}

// InstallText decodes a JSON schema and merges it into the template schema
func (t *Template) InstallText(text string) error {
	v, err := schema.DecodeText(text)
	if err != nil {
		return fmt.Errorf("failed to merge schema text: %w", err)
	}
	t.InstallValue(v)
	return nil
}

// InstallBinary decodes a MessagePack schema and merges it into the template
// schema
func (t *Template) InstallBinary(data []byte) error {
	v, err := schema.DecodeBinary(data)
	if err != nil {
		return fmt.Errorf("failed to merge schema msgpack: %w", err)
	}
	t.InstallValue(v)
	return nil
}

// Render renders the template and keeps its schema for further renders
func (t *Template) Render() (string, error) {
	return t.exec(t.schema)
}

// RenderOnce renders the template after taking its schema. The template has
// no schema afterwards.
func (t *Template) RenderOnce() (string, error) {
	s := t.schema
	t.schema = nil
	return t.exec(s)
}

// Status returns the outcome of the last render
func (t *Template) Status() Status {
	return t.status
}

func (t *Template) exec(s value.Value) (string, error) {
	t.status = Status{Code: statusOK, Text: statusOKText}

	if err := t.parse(); err != nil {
		return t.fail(err)
	}

	var ctx interface{} = map[string]interface{}{}
	if s != nil {
		ctx = value.Native(s)
	}

	t.root = ctx
	defer func() { t.root = nil }()

	result, err := t.parsed.Exec(ctx)
	if err != nil {
		return t.fail(err)
	}
	return result, nil
}

func (t *Template) fail(err error) (string, error) {
	t.status = Status{
		Code:   statusFailed,
		Text:   statusFailedText,
		Param:  err.Error(),
		Failed: true,
	}
	return "", fmt.Errorf("failed to render template: %w", err)
}

// parse compiles the source once per Template; parsed templates are never
// shared between Templates.
func (t *Template) parse() error {
	if t.parsed != nil {
		return nil
	}

	tpl, err := raymond.Parse(t.source)
	if err != nil {
		return fmt.Errorf("parse error: %w", err)
	}
	tpl.RegisterHelpers(t.engine.helpers)
	tpl.RegisterHelpers(t.helpers())

	t.parsed = tpl
	return nil
}
