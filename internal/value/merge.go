package value

// Merge combines incoming into target and returns the result without
// modifying either argument.
//
// When both sides are objects they are merged key by key: keys only in
// target are kept, keys only in incoming are added and keys present in both
// are merged recursively with the same rule. In every other case (scalars,
// arrays or mismatched types) incoming replaces target. Arrays are never
// concatenated.
func Merge(target, incoming Value) Value {
	if incoming == nil {
		incoming = Null{}
	}

	dst, ok := target.(Object)
	if !ok {
		return incoming
	}
	src, ok := incoming.(Object)
	if !ok {
		return incoming
	}

	out := make(Object, len(dst)+len(src))
	for k, v := range dst {
		out[k] = v
	}
	for k, v := range src {
		if existing, found := out[k]; found {
			out[k] = Merge(existing, v)
			continue
		}
		out[k] = v
	}
	return out
}
