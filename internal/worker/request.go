package worker

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/aescanero/dago-node-render/internal/render"
)

// SchemaPart is one schema contribution of a request. Exactly one field is
// expected to be set; SchemaMsgpack is base64 in JSON.
type SchemaPart struct {
	Schema        json.RawMessage `json:"schema,omitempty"`
	SchemaText    string          `json:"schema_text,omitempty"`
	SchemaMsgpack []byte          `json:"schema_msgpack,omitempty"`
}

// RenderRequest represents a render work request
type RenderRequest struct {
	RequestID string `json:"request_id"`
	Path      string `json:"path,omitempty"`
	Source    string `json:"source,omitempty"`

	SchemaPart

	Merges []SchemaPart `json:"merges,omitempty"`
}

// RenderResult is published for every request that could be rendered,
// including renders that failed in the engine.
type RenderResult struct {
	RequestID   string    `json:"request_id"`
	Content     string    `json:"content"`
	StatusCode  string    `json:"status_code"`
	StatusText  string    `json:"status_text"`
	StatusParam string    `json:"status_param"`
	HasError    bool      `json:"has_error"`
	Error       string    `json:"error,omitempty"`
	Timestamp   time.Time `json:"timestamp"`
}

// parseRenderRequest parses a render request from Redis message values. A
// request that decodes but is invalid is returned along with the error.
func parseRenderRequest(values map[string]interface{}) (*RenderRequest, error) {
	dataStr, ok := values["data"].(string)
	if !ok {
		return nil, fmt.Errorf("missing or invalid 'data' field")
	}

	var request RenderRequest
	if err := json.Unmarshal([]byte(dataStr), &request); err != nil {
		return nil, fmt.Errorf("failed to unmarshal render request: %w", err)
	}

	if request.RequestID == "" {
		request.RequestID = uuid.NewString()
	}

	if request.Path != "" && request.Source != "" {
		return &request, fmt.Errorf("request sets both path and source")
	}
	if request.Path == "" && request.Source == "" {
		return &request, fmt.Errorf("request sets neither path nor source")
	}

	return &request, nil
}

// decodeStructured decodes a JSON schema part for value conversion. Numbers
// stay json.Number so integers keep their precision.
func decodeStructured(raw json.RawMessage) (interface{}, error) {
	decoder := json.NewDecoder(bytes.NewReader(raw))
	decoder.UseNumber()

	var v interface{}
	if err := decoder.Decode(&v); err != nil {
		return nil, fmt.Errorf("failed to decode schema: %w", err)
	}
	return v, nil
}

// newTemplate builds the template for a request: source, base schema and
// merges in request order.
func newTemplate(request *RenderRequest, engine render.Engine, logger *zap.Logger) (*render.Template, error) {
	options := []render.Option{
		render.WithEngine(engine),
		render.WithLogger(logger),
		render.WithPath(request.Path),
		render.WithSchemaText(request.SchemaText),
		render.WithSchemaBinary(request.SchemaMsgpack),
	}
	if request.Source != "" {
		options = append(options, render.WithSource(request.Source))
	}
	if len(request.Schema) > 0 {
		base, err := decodeStructured(request.Schema)
		if err != nil {
			return nil, err
		}
		options = append(options, render.WithSchemaValue(base))
	}

	tpl, err := render.New(options...)
	if err != nil {
		return nil, fmt.Errorf("failed to create template: %w", err)
	}

	for i, part := range request.Merges {
		if err := mergePart(tpl, part); err != nil {
			return nil, fmt.Errorf("merge %d: %w", i, err)
		}
	}
	return tpl, nil
}

func mergePart(tpl *render.Template, part SchemaPart) error {
	set := 0
	if len(part.Schema) > 0 {
		set++
	}
	if part.SchemaText != "" {
		set++
	}
	if len(part.SchemaMsgpack) > 0 {
		set++
	}
	if set != 1 {
		return fmt.Errorf("expected exactly one of schema, schema_text or schema_msgpack, got %d", set)
	}

	switch {
	case len(part.Schema) > 0:
		v, err := decodeStructured(part.Schema)
		if err != nil {
			return err
		}
		return tpl.MergeSchemaValue(v)
	case part.SchemaText != "":
		return tpl.MergeSchema(part.SchemaText)
	default:
		return tpl.MergeSchemaBinary(part.SchemaMsgpack)
	}
}

// execute renders a request once. An error is returned only for requests
// that cannot be turned into a template; render failures are reported in
// the result.
func execute(request *RenderRequest, engine render.Engine, logger *zap.Logger) (*RenderResult, error) {
	tpl, err := newTemplate(request, engine, logger.With(zap.String("request_id", request.RequestID)))
	if err != nil {
		return nil, err
	}

	content, renderErr := tpl.RenderOnce()
	status := tpl.Status()

	result := &RenderResult{
		RequestID:   request.RequestID,
		Content:     content,
		StatusCode:  status.Code,
		StatusText:  status.Text,
		StatusParam: status.Param,
		HasError:    status.Failed,
		Timestamp:   time.Now().UTC(),
	}
	if renderErr != nil {
		result.Error = renderErr.Error()
	}
	return result, nil
}
