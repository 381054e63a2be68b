package schema

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/aescanero/dago-node-render/internal/value"
)

// LoadFile reads a schema file and returns it as an Input chosen by
// extension:
//   - .json            SerializedText, decoded later like any JSON schema
//   - .msgpack, .mp    CompactBinary
//   - .yaml, .yml      Structured, decoded and converted now
func LoadFile(path string) (Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema file: %w", err)
	}

	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".json":
		return SerializedText{Text: string(data)}, nil
	case ".msgpack", ".mp":
		return CompactBinary{Data: data}, nil
	case ".yaml", ".yml":
		v, err := decodeYAML(data)
		if err != nil {
			return nil, fmt.Errorf("failed to parse schema file %s: %w", path, err)
		}
		return Structured{Value: v}, nil
	default:
		return nil, fmt.Errorf("unsupported schema file extension %q", ext)
	}
}

func decodeYAML(data []byte) (value.Value, error) {
	var raw any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSerializedSchema, err)
	}
	// An empty document decodes to nil; treat it as an empty schema.
	if raw == nil {
		return value.Object{}, nil
	}
	return value.Convert(raw)
}
