// Package schema composes template schemas from several input forms.
//
// A schema contribution is an Input: Structured (an already converted
// value.Value), SerializedText (JSON text) or CompactBinary (MessagePack).
// A Store holds one base input plus the merges that could not be applied yet
// because the base has not been decoded:
//
//	store, err := schema.NewStore(schema.CompactBinary{Data: packed})
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Queued: the binary base is decoded by the engine at render time.
//	_, _ = store.MergeValue(map[string]any{"x": 1})
//
//	base, merges := store.Take()
//
// Once the base is structured, later merges are decoded and folded into it
// immediately with value.Merge.
package schema
