package schema

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/aescanero/dago-node-render/internal/value"
)

// DecodeText parses a JSON schema. Numbers keep their integer precision.
func DecodeText(text string) (value.Value, error) {
	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSerializedSchema, err)
	}
	if err := dec.Decode(new(any)); !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: unexpected data after top-level value", ErrInvalidSerializedSchema)
	}

	v, err := value.Convert(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidSerializedSchema, err)
	}
	return v, nil
}

// DecodeBinary parses a MessagePack schema.
func DecodeBinary(data []byte) (value.Value, error) {
	r := bytes.NewReader(data)
	dec := msgpack.NewDecoder(r)
	dec.UseLooseInterfaceDecoding(true)

	var raw any
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidCompactSchema, err)
	}
	if r.Len() != 0 {
		return nil, fmt.Errorf("%w: %d trailing bytes", ErrInvalidCompactSchema, r.Len())
	}

	v, err := value.Convert(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCompactSchema, err)
	}
	return v, nil
}

// EncodeBinary packs v as MessagePack
func EncodeBinary(v value.Value) ([]byte, error) {
	data, err := msgpack.Marshal(value.Native(v))
	if err != nil {
		return nil, fmt.Errorf("failed to encode schema: %w", err)
	}
	return data, nil
}
