package schema_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/aescanero/dago-node-render/internal/schema"
	"github.com/aescanero/dago-node-render/internal/value"
)

func TestDecodeText(t *testing.T) {
	got, err := schema.DecodeText(`{"data":{"title":"Hello","n":18446744073709551615,"f":1.5,"ok":true,"none":null}}`)
	if err != nil {
		t.Fatalf("DecodeText() error = %v", err)
	}
	f, _ := value.Float(1.5)
	want := value.Object{
		"data": value.Object{
			"title": value.String("Hello"),
			"n":     value.Uint(18446744073709551615),
			"f":     f,
			"ok":    value.Bool(true),
			"none":  value.Null{},
		},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("DecodeText() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeText_Invalid(t *testing.T) {
	for _, text := range []string{"", "{", `{"a":1} {"b":2}`, `{"a":1e999}`} {
		if _, err := schema.DecodeText(text); !errors.Is(err, schema.ErrInvalidSerializedSchema) {
			t.Fatalf("DecodeText(%q) error = %v, want ErrInvalidSerializedSchema", text, err)
		}
	}
}

func TestDecodeBinary_RoundTrip(t *testing.T) {
	in := mustConvert(t, map[string]any{
		"data": map[string]any{"key": "value", "list": []any{1, -2, "three"}, "flag": false},
	})
	packed, err := schema.EncodeBinary(in)
	if err != nil {
		t.Fatalf("EncodeBinary() error = %v", err)
	}
	got, err := schema.DecodeBinary(packed)
	if err != nil {
		t.Fatalf("DecodeBinary() error = %v", err)
	}
	if diff := cmp.Diff(in, got); diff != "" {
		t.Fatalf("DecodeBinary() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeBinary_KnownPayload(t *testing.T) {
	// {"data": {"key": "value"}}
	packed := []byte{129, 164, 100, 97, 116, 97, 129, 163, 107, 101, 121, 165, 118, 97, 108, 117, 101}
	got, err := schema.DecodeBinary(packed)
	if err != nil {
		t.Fatalf("DecodeBinary() error = %v", err)
	}
	want := value.Object{"data": value.Object{"key": value.String("value")}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("DecodeBinary() mismatch (-want +got):\n%s", diff)
	}
}

func TestDecodeBinary_Invalid(t *testing.T) {
	inputs := [][]byte{
		nil,
		{0xc1},
		{0x81, 0xa1}, // truncated map
		{0x80, 0x80}, // trailing value
	}
	for _, in := range inputs {
		if _, err := schema.DecodeBinary(in); !errors.Is(err, schema.ErrInvalidCompactSchema) {
			t.Fatalf("DecodeBinary(%v) error = %v, want ErrInvalidCompactSchema", in, err)
		}
	}
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()
	write := func(name string, data []byte) string {
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
		return path
	}

	jsonPath := write("schema.json", []byte(`{"a":1}`))
	packPath := write("schema.msgpack", []byte{0x80})
	yamlPath := write("schema.yaml", []byte("data:\n  title: Hello\n  1: one\n  items: [1, 2]\n"))
	emptyPath := write("empty.yml", nil)
	txtPath := write("schema.txt", []byte("x"))

	in, err := schema.LoadFile(jsonPath)
	if err != nil || schema.Kind(in) != "text" {
		t.Fatalf("LoadFile(json) = %s, %v", schema.Kind(in), err)
	}
	in, err = schema.LoadFile(packPath)
	if err != nil || schema.Kind(in) != "binary" {
		t.Fatalf("LoadFile(msgpack) = %s, %v", schema.Kind(in), err)
	}

	in, err = schema.LoadFile(yamlPath)
	if err != nil {
		t.Fatalf("LoadFile(yaml) error = %v", err)
	}
	want := value.Object{
		"data": value.Object{
			"title": value.String("Hello"),
			"1":     value.String("one"),
			"items": value.Array{value.Int(1), value.Int(2)},
		},
	}
	if diff := cmp.Diff(want, in.(schema.Structured).Value); diff != "" {
		t.Fatalf("LoadFile(yaml) mismatch (-want +got):\n%s", diff)
	}

	in, err = schema.LoadFile(emptyPath)
	if err != nil {
		t.Fatalf("LoadFile(empty yaml) error = %v", err)
	}
	if diff := cmp.Diff(value.Value(value.Object{}), in.(schema.Structured).Value); diff != "" {
		t.Fatalf("LoadFile(empty yaml) mismatch (-want +got):\n%s", diff)
	}

	if _, err := schema.LoadFile(txtPath); err == nil {
		t.Fatal("expected error for unsupported extension")
	}
	if _, err := schema.LoadFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
