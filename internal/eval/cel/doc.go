// Package cel provides a CEL (Common Expression Language) evaluator for
// conditional template sections.
//
// Example usage:
//
//	evaluator, err := cel.NewEvaluator()
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	vars := map[string]interface{}{
//	    "schema": map[string]interface{}{
//	        "data": map[string]interface{}{"count": 3},
//	    },
//	    "this": nil,
//	}
//
//	matched, err := evaluator.EvaluateBool(ctx, "schema.data.count > 2", vars)
//
// Supported operations:
//   - Comparisons: ==, !=, <, <=, >, >=
//   - Boolean logic: &&, ||, !
//   - String operations: contains, startsWith, endsWith, matches
//   - Arithmetic: +, -, *, /, %
//   - List operations: in, size
//   - Map access: schema.field, schema["field"], has(schema.field)
package cel
