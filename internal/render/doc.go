// Package render composes a template source and its schema inputs and drives
// the template engine.
//
// A Template is configured with a source (a file path or inline text) and any
// number of schema contributions in any order, then rendered:
//
//	tpl, err := render.New(
//	    render.WithPath("welcome.hbs"),
//	    render.WithSchemaBinary(packed),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	if err := tpl.MergeSchemaValue(map[string]any{"user": map[string]any{"name": "Ada"}}); err != nil {
//	    log.Fatal(err)
//	}
//
//	out, err := tpl.RenderOnce()
//	if err != nil {
//	    log.Printf("render failed: %s", tpl.StatusParam())
//	}
//
// Render keeps the composed schema so the template can be rendered again.
// RenderOnce hands the schema to the engine and leaves the template without
// one. Both record the outcome; StatusCode, StatusText, StatusParam and
// HasError report the last attempt, including failed ones.
//
// A Template is not safe for concurrent use.
package render
