package schema

import "errors"

var (
	// ErrMultipleSchemaInputs is returned when more than one base schema form is given
	ErrMultipleSchemaInputs = errors.New("use only one schema input: text, binary or value")

	// ErrInvalidSerializedSchema is returned for malformed JSON schema text
	ErrInvalidSerializedSchema = errors.New("invalid serialized schema")

	// ErrInvalidCompactSchema is returned for malformed MessagePack schema data
	ErrInvalidCompactSchema = errors.New("invalid compact schema")
)
