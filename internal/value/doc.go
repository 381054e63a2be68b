// Package value provides the JSON-compatible value model used to carry schema
// data between callers and the template engine.
//
// A Value is one of Null, Bool, Number, String, Array or Object. Values are
// produced from arbitrary Go data with Convert, which rejects types that have
// no JSON representation and non-finite floats:
//
//	v, err := value.Convert(map[string]any{
//	    "data": map[string]any{
//	        "title": "Hello",
//	        "tags":  []string{"a", "b"},
//	    },
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Merge combines two values the way schema overlays expect: objects are merged
// key by key, arrays and scalars are replaced by the incoming value.
//
//	merged := value.Merge(base, overlay)
package value
