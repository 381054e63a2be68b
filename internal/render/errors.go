package render

import "errors"

var (
	// ErrSourceLoad is returned when the template file cannot be loaded
	ErrSourceLoad = errors.New("template source load failed")

	// ErrSchemaDecode is returned when a text or binary schema cannot be
	// decoded at render time
	ErrSchemaDecode = errors.New("schema decode failed")

	// ErrEngine is returned when the engine fails to render
	ErrEngine = errors.New("template engine failed")
)
