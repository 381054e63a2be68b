package template

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"reflect"
	"strconv"
	"strings"

	"github.com/aymerick/raymond"
)

// builtinHelpers returns the stateless helpers shared by every template
func builtinHelpers() map[string]interface{} {
	return map[string]interface{}{
		// uppercase helper
		"uppercase": func(str string) string {
			return strings.ToUpper(str)
		},

		// lowercase helper
		"lowercase": func(str string) string {
			return strings.ToLower(str)
		},

		// trim helper
		"trim": func(str string) string {
			return strings.TrimSpace(str)
		},

		// default helper - return default value if first arg is empty
		"default": func(value interface{}, defaultValue interface{}) interface{} {
			if value == nil || value == "" {
				return defaultValue
			}
			return value
		},

		"eq": func(a, b interface{}) bool {
			return equalValues(a, b)
		},

		"ne": func(a, b interface{}) bool {
			return !equalValues(a, b)
		},

		// gt and lt compare numbers; non-numeric arguments compare false
		"gt": func(a, b interface{}) bool {
			x, okA := toFloat(a)
			y, okB := toFloat(b)
			return okA && okB && x > y
		},

		"lt": func(a, b interface{}) bool {
			x, okA := toFloat(a)
			y, okB := toFloat(b)
			return okA && okB && x < y
		},

		"contains": func(str, substr string) bool {
			return strings.Contains(str, substr)
		},

		// join helper - join array elements with separator
		"join": func(arr []interface{}, sep string) string {
			strs := make([]string, len(arr))
			for i, v := range arr {
				strs[i] = fmt.Sprint(v)
			}
			return strings.Join(strs, sep)
		},

		"len": func(value interface{}) int {
			switch v := value.(type) {
			case string:
				return len(v)
			case []interface{}:
				return len(v)
			case map[string]interface{}:
				return len(v)
			default:
				return 0
			}
		},

		// json helper - dump a schema value as JSON
		"json": func(value interface{}) raymond.SafeString {
			data, err := json.Marshal(value)
			if err != nil {
				panic(fmt.Errorf("json helper: %w", err))
			}
			return raymond.SafeString(data)
		},
	}
}

// helpers returns the helpers bound to one template's render state
func (t *Template) helpers() map[string]interface{} {
	return map[string]interface{}{
		// {{status "404"}} or {{status "404" text="Not Found" param="/missing"}}
		"status": func(code string, options *raymond.Options) string {
			text := options.HashStr("text")
			if text == "" {
				if n, err := strconv.Atoi(code); err == nil {
					text = http.StatusText(n)
				}
			}
			t.status.Code = code
			t.status.Text = text
			t.status.Param = options.HashStr("param")
			return ""
		},

		// {{#when "schema.data.count > 2"}}...{{else}}...{{/when}}
		"when": func(expr string, options *raymond.Options) string {
			evaluator := t.engine.evaluator
			if evaluator == nil {
				panic(errors.New("when helper: CEL evaluator is not configured"))
			}
			matched, err := evaluator.EvaluateBool(context.Background(), expr, map[string]interface{}{
				"schema": t.root,
				"this":   options.Ctx(),
			})
			if err != nil {
				panic(fmt.Errorf("when helper: %w", err))
			}
			if matched {
				return options.Fn()
			}
			return options.Inverse()
		},
	}
}

func equalValues(a, b interface{}) bool {
	_, aString := a.(string)
	_, bString := b.(string)
	if aString || bString {
		return reflect.DeepEqual(a, b)
	}
	if x, ok := toFloat(a); ok {
		if y, ok := toFloat(b); ok {
			return x == y
		}
	}
	return reflect.DeepEqual(a, b)
}

func toFloat(v interface{}) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int32:
		return float64(n), true
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return f, err == nil
	default:
		return 0, false
	}
}
