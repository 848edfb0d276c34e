package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Object is a decoded JSON object. Numbers may be float64 or json.Number
// depending on the decoder that produced it.
type Object map[string]interface{}

// asObject returns v as an Object when it is a JSON object.
func asObject(v interface{}) (Object, bool) {
	switch o := v.(type) {
	case map[string]interface{}:
		return Object(o), true
	case Object:
		return o, true
	}
	return nil, false
}

// number converts a JSON scalar to a finite float64. Numeric strings are
// accepted; everything else reports false.
func number(v interface{}) (float64, bool) {
	var f float64
	switch n := v.(type) {
	case float64:
		f = n
	case int:
		f = float64(n)
	case int64:
		f = float64(n)
	case json.Number:
		parsed, err := n.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, false
		}
		f = parsed
	default:
		return 0, false
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// text converts a JSON scalar to a string; empty strings and non-scalars report false.
func text(v interface{}) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, s != ""
	case json.Number:
		return s.String(), true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	}
	return "", false
}

// firstNumber returns the first key of o holding a usable number.
func (o Object) firstNumber(keys ...string) (float64, bool) {
	for _, k := range keys {
		if v, ok := o[k]; ok && v != nil {
			if f, ok := number(v); ok {
				return f, true
			}
		}
	}
	return 0, false
}

// firstNonZero returns the first key of o holding a non-zero number.
func (o Object) firstNonZero(keys ...string) (float64, bool) {
	for _, k := range keys {
		if f, ok := number(o[k]); ok && f != 0 {
			return f, true
		}
	}
	return 0, false
}

// firstText returns the first key of o holding a non-empty string.
func (o Object) firstText(keys ...string) string {
	for _, k := range keys {
		if s, ok := text(o[k]); ok {
			return s
		}
	}
	return ""
}

// array returns the value at key when it is a JSON array.
func (o Object) array(key string) ([]interface{}, bool) {
	a, ok := o[key].([]interface{})
	return a, ok
}
