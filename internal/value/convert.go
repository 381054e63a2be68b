package value

import (
	"cmp"
	"encoding"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"reflect"
	"slices"
	"strconv"
)

var (
	// ErrUnsupportedType is returned when a Go value has no JSON representation
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrNonFiniteNumber is returned for NaN and infinite floats
	ErrNonFiniteNumber = errors.New("non-finite number")
)

// ConvertError reports where in a nested Go value conversion failed.
type ConvertError struct {
	Path string
	Type string
	Err  error
}

func (e *ConvertError) Error() string {
	return fmt.Sprintf("convert %s (%s): %v", e.Path, e.Type, e.Err)
}

func (e *ConvertError) Unwrap() error {
	return e.Err
}

var (
	valueType       = reflect.TypeOf((*Value)(nil)).Elem()
	jsonNumberType  = reflect.TypeOf(json.Number(""))
	textMarshalType = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	stringerType    = reflect.TypeOf((*fmt.Stringer)(nil)).Elem()
)

// Convert turns v into a Value.
//
// Accepted inputs are nil, booleans, signed and unsigned integers, finite
// floats, strings, json.Number, maps, slices, arrays, Values and pointers or
// interfaces to any of those. Map keys that are not strings are rendered with
// the canonical formatting described on MapKey. Anything else fails with
// ErrUnsupportedType; NaN or infinite floats fail with ErrNonFiniteNumber.
// On error no partial result is returned.
func Convert(v any) (Value, error) {
	return convert(reflect.ValueOf(v), "$")
}

func convert(rv reflect.Value, path string) (Value, error) {
	if !rv.IsValid() {
		return Null{}, nil
	}

	if rv.Kind() != reflect.Interface && rv.Kind() != reflect.Pointer && rv.Type().Implements(valueType) {
		return convertValue(rv.Interface().(Value), path)
	}
	if rv.Type() == jsonNumberType {
		return convertJSONNumber(json.Number(rv.String()), path)
	}

	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return Null{}, nil
		}
		return convert(rv.Elem(), path)

	case reflect.Map:
		return convertMap(rv, path)

	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return nil, unsupported(rv, path)
		}
		return convertSequence(rv, path)

	case reflect.Array:
		return convertSequence(rv, path)

	case reflect.String:
		return String(rv.String()), nil

	// Bool stays ahead of the integer kinds.
	case reflect.Bool:
		return Bool(rv.Bool()), nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Int(rv.Int()), nil

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return Uint(rv.Uint()), nil

	case reflect.Float32, reflect.Float64:
		n, err := Float(rv.Float())
		if err != nil {
			return nil, &ConvertError{Path: path, Type: rv.Type().String(), Err: ErrNonFiniteNumber}
		}
		return n, nil
	}

	return nil, unsupported(rv, path)
}

// convertValue re-validates an already structured value so conversion is
// idempotent and the result shares no memory with the input.
func convertValue(v Value, path string) (Value, error) {
	switch t := v.(type) {
	case Null, Bool, String:
		return t, nil
	case Number:
		if t.kind == kindFloat && (math.IsNaN(t.f) || math.IsInf(t.f, 0)) {
			return nil, &ConvertError{Path: path, Type: TypeName(t), Err: ErrNonFiniteNumber}
		}
		return t, nil
	case Array:
		out := make(Array, len(t))
		for i, item := range t {
			if item == nil {
				out[i] = Null{}
				continue
			}
			converted, err := convertValue(item, indexPath(path, i))
			if err != nil {
				return nil, err
			}
			out[i] = converted
		}
		return out, nil
	case Object:
		out := make(Object, len(t))
		for k, item := range t {
			if item == nil {
				out[k] = Null{}
				continue
			}
			converted, err := convertValue(item, keyPath(path, k))
			if err != nil {
				return nil, err
			}
			out[k] = converted
		}
		return out, nil
	default:
		return nil, &ConvertError{Path: path, Type: TypeName(v), Err: ErrUnsupportedType}
	}
}

func convertJSONNumber(n json.Number, path string) (Value, error) {
	if i, err := strconv.ParseInt(string(n), 10, 64); err == nil {
		return Int(i), nil
	}
	if u, err := strconv.ParseUint(string(n), 10, 64); err == nil {
		return Uint(u), nil
	}
	f, err := strconv.ParseFloat(string(n), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return nil, &ConvertError{Path: path, Type: "json.Number", Err: fmt.Errorf("%w: %v", ErrUnsupportedType, err)}
	}
	num, err := Float(f)
	if err != nil {
		return nil, &ConvertError{Path: path, Type: "json.Number", Err: ErrNonFiniteNumber}
	}
	return num, nil
}

type mapEntry struct {
	key     string
	direct  bool
	keyType string
	value   reflect.Value
}

func convertMap(rv reflect.Value, path string) (Value, error) {
	entries := make([]mapEntry, 0, rv.Len())
	iter := rv.MapRange()
	for iter.Next() {
		k := iter.Key()
		key, direct, err := MapKey(k)
		if err != nil {
			return nil, &ConvertError{Path: path, Type: k.Type().String(), Err: err}
		}
		entries = append(entries, mapEntry{key: key, direct: direct, keyType: dynamicType(k), value: iter.Value()})
	}

	// Colliding keys resolve deterministically: string keys win over
	// canonicalised ones, other collisions are ordered by key type name.
	slices.SortFunc(entries, func(a, b mapEntry) int {
		if c := cmp.Compare(a.key, b.key); c != 0 {
			return c
		}
		switch {
		case a.direct != b.direct && a.direct:
			return 1
		case a.direct != b.direct:
			return -1
		default:
			return cmp.Compare(a.keyType, b.keyType)
		}
	})

	out := make(Object, len(entries))
	for _, entry := range entries {
		converted, err := convert(entry.value, keyPath(path, entry.key))
		if err != nil {
			return nil, err
		}
		out[entry.key] = converted
	}
	return out, nil
}

func convertSequence(rv reflect.Value, path string) (Value, error) {
	out := make(Array, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		converted, err := convert(rv.Index(i), indexPath(path, i))
		if err != nil {
			return nil, err
		}
		out[i] = converted
	}
	return out, nil
}

// MapKey renders a map key as an object key. The boolean result reports
// whether the key already was a plain string.
//
// Non-string keys use a locale-independent canonical form: TextMarshaler
// output, then fmt.Stringer output, then strconv formatting for booleans,
// integers and finite floats (shortest 'g' representation). A nil interface key
// becomes "null". Other key kinds fail with ErrUnsupportedType.
func MapKey(k reflect.Value) (string, bool, error) {
	if k.Kind() == reflect.Interface {
		if k.IsNil() {
			return "null", false, nil
		}
		k = k.Elem()
	}
	if k.Kind() == reflect.String && k.Type() == reflect.TypeOf("") {
		return k.String(), true, nil
	}

	if k.Type().Implements(textMarshalType) {
		b, err := k.Interface().(encoding.TextMarshaler).MarshalText()
		if err != nil {
			return "", false, fmt.Errorf("%w: key: %v", ErrUnsupportedType, err)
		}
		return string(b), false, nil
	}
	if k.Type().Implements(stringerType) {
		return k.Interface().(fmt.Stringer).String(), false, nil
	}

	switch k.Kind() {
	case reflect.String:
		return k.String(), true, nil
	case reflect.Bool:
		return strconv.FormatBool(k.Bool()), false, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(k.Int(), 10), false, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(k.Uint(), 10), false, nil
	case reflect.Float32, reflect.Float64:
		f := k.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return "", false, fmt.Errorf("%w: map key", ErrNonFiniteNumber)
		}
		return strconv.FormatFloat(f, 'g', -1, k.Type().Bits()), false, nil
	}

	return "", false, fmt.Errorf("%w: map key of type %s", ErrUnsupportedType, k.Type())
}

func dynamicType(k reflect.Value) string {
	if k.Kind() == reflect.Interface {
		if k.IsNil() {
			return "nil"
		}
		k = k.Elem()
	}
	return k.Type().String()
}

func unsupported(rv reflect.Value, path string) error {
	return &ConvertError{Path: path, Type: rv.Type().String(), Err: ErrUnsupportedType}
}

func keyPath(path, key string) string {
	return path + "." + key
}

func indexPath(path string, i int) string {
	return path + "[" + strconv.Itoa(i) + "]"
}
