package render

// Source selects where the template text comes from: FilePath or
// InlineSource.
type Source interface {
	isSource()
}

// FilePath is a template file loaded by the engine at render time
type FilePath string

// InlineSource is template text given directly
type InlineSource string

func (FilePath) isSource()     {}
func (InlineSource) isSource() {}
