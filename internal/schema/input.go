package schema

import (
	"bytes"

	"github.com/aescanero/dago-node-render/internal/value"
)

// Input is one schema contribution. The set of implementations is closed:
// Unset, Structured, SerializedText and CompactBinary.
type Input interface {
	isInput()
}

// Unset marks the absence of a schema
type Unset struct{}

// Structured is a schema that is already a value.Value
type Structured struct {
	Value value.Value
}

// SerializedText is a JSON schema that has not been decoded yet
type SerializedText struct {
	Text string
}

// CompactBinary is a MessagePack schema that has not been decoded yet
type CompactBinary struct {
	Data []byte
}

func (Unset) isInput()          {}
func (Structured) isInput()     {}
func (SerializedText) isInput() {}
func (CompactBinary) isInput()  {}

// IsEmpty reports whether in carries no schema. Empty text and empty binary
// payloads count as absent.
func IsEmpty(in Input) bool {
	switch t := in.(type) {
	case nil, Unset:
		return true
	case Structured:
		return t.Value == nil
	case SerializedText:
		return t.Text == ""
	case CompactBinary:
		return len(t.Data) == 0
	default:
		return true
	}
}

// Decode turns in into a structured value. Unset decodes to an empty object.
func Decode(in Input) (value.Value, error) {
	switch t := in.(type) {
	case nil, Unset:
		return value.Object{}, nil
	case Structured:
		return t.Value, nil
	case SerializedText:
		return DecodeText(t.Text)
	case CompactBinary:
		return DecodeBinary(t.Data)
	default:
		return nil, ErrInvalidSerializedSchema
	}
}

// Kind names the input form for logs and errors
func Kind(in Input) string {
	switch in.(type) {
	case nil, Unset:
		return "unset"
	case Structured:
		return "structured"
	case SerializedText:
		return "text"
	case CompactBinary:
		return "binary"
	default:
		return "unknown"
	}
}

// clone returns a copy of in that shares no mutable memory with it
func clone(in Input) Input {
	switch t := in.(type) {
	case nil:
		return Unset{}
	case Structured:
		return Structured{Value: value.Clone(t.Value)}
	case CompactBinary:
		return CompactBinary{Data: bytes.Clone(t.Data)}
	default:
		return in
	}
}
