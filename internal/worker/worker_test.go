package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/aescanero/dago-node-render/internal/config"
	"github.com/aescanero/dago-node-render/internal/eval/template"
	"github.com/aescanero/dago-node-render/internal/render"
)

func TestWorkerRedisRoundTrip(t *testing.T) {
	// Skip if Redis is not available
	client := redis.NewClient(&redis.Options{Addr: "localhost:6379"})
	if err := client.Ping(context.Background()).Err(); err != nil {
		t.Skipf("Redis not available: %v", err)
	}
	defer client.Close()

	prefix := fmt.Sprintf("test:render:%s", uuid.NewString())
	cfg := &config.Config{
		WorkerID:      "render-test",
		StreamKey:     prefix + ":work",
		ConsumerGroup: "render-test-workers",
		ResultStream:  prefix + ":done",
		BlockTime:     100 * time.Millisecond,
	}
	ctx := context.Background()
	defer client.Del(ctx, cfg.StreamKey, cfg.ResultStream, cfg.ErrorStream())

	engine := render.NewHandlebarsEngine(template.NewEngine())
	w := NewWorker(cfg, client, engine, zap.NewNop())
	if err := w.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}
	defer func() { _ = w.Stop() }()

	requests := []string{
		`{"request_id":"ok","source":"Hello {{name}}","schema":{"name":"Ada"}}`,
		`{"request_id":"bad","source":"x","schema":{"a":1},"schema_text":"{}"}`,
	}
	for _, data := range requests {
		if err := client.XAdd(ctx, &redis.XAddArgs{
			Stream: cfg.StreamKey,
			Values: map[string]interface{}{"data": data},
		}).Err(); err != nil {
			t.Fatalf("XAdd() error = %v", err)
		}
	}

	result := readOne(t, client, cfg.ResultStream)
	var got RenderResult
	if err := json.Unmarshal([]byte(result), &got); err != nil {
		t.Fatalf("unmarshal result: %v", err)
	}
	if got.RequestID != "ok" || got.Content != "Hello Ada" || got.StatusCode != "200" || got.HasError {
		t.Errorf("result = %+v", got)
	}

	failure := readOne(t, client, cfg.ErrorStream())
	var event map[string]interface{}
	if err := json.Unmarshal([]byte(failure), &event); err != nil {
		t.Fatalf("unmarshal error event: %v", err)
	}
	if event["request_id"] != "bad" || event["error"] == "" {
		t.Errorf("error event = %v", event)
	}
}

func readOne(t *testing.T, client *redis.Client, stream string) string {
	t.Helper()

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		messages, err := client.XRange(context.Background(), stream, "-", "+").Result()
		if err != nil {
			t.Fatalf("XRange(%s) error = %v", stream, err)
		}
		if len(messages) > 0 {
			data, _ := messages[0].Values["data"].(string)
			return data
		}
		time.Sleep(50 * time.Millisecond)
	}
	t.Fatalf("no message on %s", stream)
	return ""
}
