package worker

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aescanero/dago-node-render/internal/eval/template"
	"github.com/aescanero/dago-node-render/internal/render"
	"github.com/aescanero/dago-node-render/internal/schema"
	"github.com/aescanero/dago-node-render/internal/value"
)

func messageValues(t *testing.T, request RenderRequest) map[string]interface{} {
	t.Helper()
	data, err := json.Marshal(request)
	if err != nil {
		t.Fatalf("marshal request: %v", err)
	}
	return map[string]interface{}{"data": string(data)}
}

func packed(t *testing.T, v value.Value) []byte {
	t.Helper()
	data, err := schema.EncodeBinary(v)
	if err != nil {
		t.Fatalf("EncodeBinary() error = %v", err)
	}
	return data
}

func testEngine(t *testing.T) (render.Engine, string) {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "order.hbs"), []byte("{{x}}/{{only}}/{{y}}"), 0o600); err != nil {
		t.Fatalf("write template: %v", err)
	}
	return render.NewHandlebarsEngine(template.NewEngine(template.WithBaseDir(dir))), dir
}

func TestParseRenderRequest(t *testing.T) {
	request, err := parseRenderRequest(messageValues(t, RenderRequest{
		RequestID: "req-1",
		Source:    "{{a}}",
		SchemaPart: SchemaPart{
			SchemaMsgpack: []byte{0x80},
		},
		Merges: []SchemaPart{{SchemaText: `{"a":1}`}},
	}))
	if err != nil {
		t.Fatalf("parseRenderRequest() error = %v", err)
	}

	want := &RenderRequest{
		RequestID:  "req-1",
		Source:     "{{a}}",
		SchemaPart: SchemaPart{SchemaMsgpack: []byte{0x80}},
		Merges:     []SchemaPart{{SchemaText: `{"a":1}`}},
	}
	if diff := cmp.Diff(want, request); diff != "" {
		t.Errorf("parseRenderRequest() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRenderRequestGeneratesID(t *testing.T) {
	request, err := parseRenderRequest(map[string]interface{}{"data": `{"source": "x"}`})
	if err != nil {
		t.Fatalf("parseRenderRequest() error = %v", err)
	}
	if _, err := uuid.Parse(request.RequestID); err != nil {
		t.Errorf("RequestID = %q is not a UUID: %v", request.RequestID, err)
	}
}

func TestParseRenderRequestInvalid(t *testing.T) {
	tests := []struct {
		name        string
		values      map[string]interface{}
		wantRequest bool
	}{
		{name: "missing data", values: map[string]interface{}{}},
		{name: "data not a string", values: map[string]interface{}{"data": 1}},
		{name: "malformed json", values: map[string]interface{}{"data": "{"}},
		{name: "path and source", values: map[string]interface{}{"data": `{"request_id":"r","path":"a.hbs","source":"x"}`}, wantRequest: true},
		{name: "no template", values: map[string]interface{}{"data": `{"request_id":"r"}`}, wantRequest: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request, err := parseRenderRequest(tt.values)
			if err == nil {
				t.Fatal("parseRenderRequest() error = nil, want error")
			}
			if (request != nil) != tt.wantRequest {
				t.Errorf("parseRenderRequest() request = %v, want request %v", request, tt.wantRequest)
			}
		})
	}
}

func TestExecute(t *testing.T) {
	engine, _ := testEngine(t)

	tests := []struct {
		name    string
		request RenderRequest
		want    RenderResult
	}{
		{
			name: "inline with every schema form",
			request: RenderRequest{
				RequestID:  "inline",
				Source:     "{{x}}/{{only}}/{{y}}",
				SchemaPart: SchemaPart{Schema: json.RawMessage(`{"x": 1, "y": "base"}`)},
				Merges: []SchemaPart{
					{SchemaMsgpack: packed(t, value.Object{"only": value.String("binary")})},
					{SchemaText: `{"x": 2}`},
					{Schema: json.RawMessage(`{"y": "merged"}`)},
				},
			},
			want: RenderResult{
				RequestID:  "inline",
				Content:    "2/binary/merged",
				StatusCode: "200",
				StatusText: "OK",
			},
		},
		{
			name: "file with binary base and queued merge",
			request: RenderRequest{
				RequestID: "file",
				Path:      "order.hbs",
				SchemaPart: SchemaPart{
					SchemaMsgpack: packed(t, value.Object{"x": value.Int(1), "only": value.String("binary")}),
				},
				Merges: []SchemaPart{{Schema: json.RawMessage(`{"x": 2, "y": 3}`)}},
			},
			want: RenderResult{
				RequestID:  "file",
				Content:    "2/binary/3",
				StatusCode: "200",
				StatusText: "OK",
			},
		},
		{
			name:    "status set by template",
			request: RenderRequest{RequestID: "status", Source: `{{status "404" param="order.hbs"}}`},
			want: RenderResult{
				RequestID:   "status",
				StatusCode:  "404",
				StatusText:  "Not Found",
				StatusParam: "order.hbs",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := execute(&tt.request, engine, zap.NewNop())
			if err != nil {
				t.Fatalf("execute() error = %v", err)
			}
			if diff := cmp.Diff(&tt.want, got, cmpopts.IgnoreFields(RenderResult{}, "Timestamp")); diff != "" {
				t.Errorf("execute() mismatch (-want +got):\n%s", diff)
			}
			if got.Timestamp.IsZero() {
				t.Error("Timestamp is zero")
			}
		})
	}
}

func TestExecuteRenderFailure(t *testing.T) {
	engine, _ := testEngine(t)

	got, err := execute(&RenderRequest{RequestID: "missing", Path: "missing.hbs"}, engine, zap.NewNop())
	if err != nil {
		t.Fatalf("execute() error = %v", err)
	}
	if !got.HasError || got.Error == "" || got.StatusParam == "" {
		t.Errorf("execute() = %+v, want failed result", got)
	}
	if got.StatusCode != "" || got.StatusText != "" {
		t.Errorf("StatusCode, StatusText = %q, %q, want empty", got.StatusCode, got.StatusText)
	}
}

func TestExecuteInvalidRequest(t *testing.T) {
	engine, _ := testEngine(t)

	tests := []struct {
		name    string
		request RenderRequest
		wantErr error
	}{
		{
			name: "two base schemas",
			request: RenderRequest{
				Source:     "x",
				SchemaPart: SchemaPart{Schema: json.RawMessage(`{"a":1}`), SchemaText: `{"b":2}`},
			},
			wantErr: schema.ErrMultipleSchemaInputs,
		},
		{
			name: "malformed text merged into structured base",
			request: RenderRequest{
				Source:     "x",
				SchemaPart: SchemaPart{Schema: json.RawMessage(`{"a":1}`)},
				Merges:     []SchemaPart{{SchemaText: "{"}},
			},
			wantErr: schema.ErrInvalidSerializedSchema,
		},
		{
			name: "merge with two forms",
			request: RenderRequest{
				Source: "x",
				Merges: []SchemaPart{{SchemaText: `{"a":1}`, Schema: json.RawMessage(`{"b":2}`)}},
			},
		},
		{
			name: "empty merge",
			request: RenderRequest{
				Source: "x",
				Merges: []SchemaPart{{}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := execute(&tt.request, engine, zap.NewNop())
			if err == nil {
				t.Fatalf("execute() = %+v, want error", got)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("execute() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
