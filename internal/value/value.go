package value

import (
	"fmt"
	"math"
	"strconv"
)

// Value is a JSON-compatible value. The set of implementations is closed:
// Null, Bool, Number, String, Array and Object.
type Value interface {
	isValue()
}

// Null is the JSON null value
type Null struct{}

// Bool is a JSON boolean
type Bool bool

// String is a JSON string
type String string

// Array is an ordered sequence of values
type Array []Value

// Object maps keys to values. Key order carries no meaning.
type Object map[string]Value

func (Null) isValue()   {}
func (Bool) isValue()   {}
func (String) isValue() {}
func (Array) isValue()  {}
func (Object) isValue() {}
func (Number) isValue() {}

type numberKind uint8

const (
	kindInt numberKind = iota
	kindUint
	kindFloat
)

// Number is a JSON number backed by a signed integer, an unsigned integer or
// a finite float.
type Number struct {
	kind numberKind
	i    int64
	u    uint64
	f    float64
}

// Int returns a Number holding a signed integer
func Int(i int64) Number {
	return Number{kind: kindInt, i: i}
}

// Uint returns a Number holding an unsigned integer
func Uint(u uint64) Number {
	return Number{kind: kindUint, u: u}
}

// Float returns a Number holding f. NaN and infinities are rejected with
// ErrNonFiniteNumber.
func Float(f float64) (Number, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return Number{}, fmt.Errorf("%w: %v", ErrNonFiniteNumber, f)
	}
	return Number{kind: kindFloat, f: f}, nil
}

// IsInteger reports whether the number was built from an integer
func (n Number) IsInteger() bool {
	return n.kind != kindFloat
}

// Int64 returns the number as an int64 and whether it fits exactly
func (n Number) Int64() (int64, bool) {
	switch n.kind {
	case kindInt:
		return n.i, true
	case kindUint:
		if n.u > math.MaxInt64 {
			return 0, false
		}
		return int64(n.u), true
	default:
		if n.f != math.Trunc(n.f) || n.f < math.MinInt64 || n.f >= math.MaxInt64 {
			return 0, false
		}
		return int64(n.f), true
	}
}

// Float64 returns the number as a float64, possibly losing precision
func (n Number) Float64() float64 {
	switch n.kind {
	case kindInt:
		return float64(n.i)
	case kindUint:
		return float64(n.u)
	default:
		return n.f
	}
}

// Equal reports whether two numbers hold the same numeric value.
func (n Number) Equal(o Number) bool {
	if n.kind == o.kind {
		return n.i == o.i && n.u == o.u && n.f == o.f
	}
	if n.IsInteger() && o.IsInteger() {
		a, aok := n.Int64()
		b, bok := o.Int64()
		if aok && bok {
			return a == b
		}
		return !aok && !bok && n.u == o.u
	}
	return n.Float64() == o.Float64()
}

func (n Number) String() string {
	switch n.kind {
	case kindInt:
		return strconv.FormatInt(n.i, 10)
	case kindUint:
		return strconv.FormatUint(n.u, 10)
	default:
		return strconv.FormatFloat(n.f, 'g', -1, 64)
	}
}

// MarshalJSON encodes the number without losing integer precision
func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(n.String()), nil
}

// native returns the plain Go number the template engine and encoders expect
func (n Number) native() any {
	switch n.kind {
	case kindInt:
		return n.i
	case kindUint:
		return n.u
	default:
		return n.f
	}
}

// Native converts v into plain Go data: nil, bool, int64, uint64, float64,
// string, []any and map[string]any.
func Native(v Value) any {
	switch t := v.(type) {
	case nil, Null:
		return nil
	case Bool:
		return bool(t)
	case Number:
		return t.native()
	case String:
		return string(t)
	case Array:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = Native(item)
		}
		return out
	case Object:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = Native(item)
		}
		return out
	default:
		panic(fmt.Sprintf("value: unknown value type %T", v))
	}
}

// Clone returns a deep copy of v. A nil Value clones to Null.
func Clone(v Value) Value {
	switch t := v.(type) {
	case nil:
		return Null{}
	case Array:
		out := make(Array, len(t))
		for i, item := range t {
			out[i] = Clone(item)
		}
		return out
	case Object:
		out := make(Object, len(t))
		for k, item := range t {
			out[k] = Clone(item)
		}
		return out
	default:
		return v
	}
}

// TypeName returns the JSON type name of v
func TypeName(v Value) string {
	switch v.(type) {
	case nil, Null:
		return "null"
	case Bool:
		return "boolean"
	case Number:
		return "number"
	case String:
		return "string"
	case Array:
		return "array"
	case Object:
		return "object"
	default:
		return fmt.Sprintf("%T", v)
	}
}
