// Package worker implements the render worker lifecycle and Redis Streams integration.
//
// The worker reads render requests from a Redis Streams consumer group, renders
// each one with its own render.Template and publishes the outcome to the result
// stream.
//
// A request is a JSON document in the "data" field of the stream entry:
//
//	{
//	  "request_id": "7b0c...",
//	  "path": "invoice.hbs",
//	  "schema_msgpack": "gaRkYXRh...",
//	  "merges": [{"schema": {"customer": {"name": "Ada"}}}, {"schema_text": "{\"paid\": true}"}]
//	}
//
// Exactly one of path and source is required; the base schema is at most one
// of schema, schema_text and schema_msgpack (base64). Merges are applied in
// order. Requests without a request_id get a generated one.
//
// Example usage:
//
//	cfg, _ := config.Load()
//	redisClient := redis.NewClient(&redis.Options{...})
//	engine := render.NewHandlebarsEngine(template.NewEngine(template.WithBaseDir(cfg.TemplateRoot)))
//
//	worker := worker.NewWorker(cfg, redisClient, engine, logger)
//	if err := worker.Start(); err != nil {
//	    log.Fatal(err)
//	}
//	defer worker.Stop()
//
// Render failures are results, published with has_error set and the status
// reported by the template. Requests that cannot be parsed or composed are
// published to the "<result stream>.errors" stream instead.
//
// Health checks are provided via a separate HTTP server:
//
//	healthServer := worker.NewHealthServer(8083, redisClient, engine, logger)
//	healthServer.Start()
//	defer healthServer.Stop()
package worker
