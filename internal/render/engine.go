package render

import (
	"github.com/aescanero/dago-node-render/internal/eval/template"
	"github.com/aescanero/dago-node-render/internal/value"
)

// Engine creates engine-side templates
type Engine interface {
	// LoadFile loads and parses the template at path with schema as its base
	LoadFile(path string, schema value.Value) (EngineTemplate, error)

	// LoadFileBinary loads the template at path with a MessagePack base
	LoadFileBinary(path string, data []byte) (EngineTemplate, error)

	// New returns an empty template
	New() EngineTemplate
}

// EngineTemplate is one template inside the engine
type EngineTemplate interface {
	SetSource(text string)
	InstallValue(v value.Value)
	InstallText(text string) error
	InstallBinary(data []byte) error
	Render() (string, error)
	RenderOnce() (string, error)
	Status() (code, text, param string, failed bool)
}

// defaultEngine is used by templates created without WithEngine
var defaultEngine = NewHandlebarsEngine(template.NewEngine())

// handlebarsEngine adapts a template.Engine to Engine
type handlebarsEngine struct {
	engine *template.Engine
}

// NewHandlebarsEngine wraps a Handlebars template engine
func NewHandlebarsEngine(engine *template.Engine) Engine {
	return &handlebarsEngine{engine: engine}
}

func (e *handlebarsEngine) LoadFile(path string, schema value.Value) (EngineTemplate, error) {
	tpl, err := e.engine.LoadFile(path, schema)
	if err != nil {
		return nil, err
	}
	return handlebarsTemplate{tpl}, nil
}

func (e *handlebarsEngine) LoadFileBinary(path string, data []byte) (EngineTemplate, error) {
	tpl, err := e.engine.LoadFileBinary(path, data)
	if err != nil {
		return nil, err
	}
	return handlebarsTemplate{tpl}, nil
}

func (e *handlebarsEngine) New() EngineTemplate {
	return handlebarsTemplate{e.engine.New()}
}

type handlebarsTemplate struct {
	*template.Template
}

func (t handlebarsTemplate) Status() (code, text, param string, failed bool) {
	s := t.Template.Status()
	return s.Code, s.Text, s.Param, s.Failed
}
