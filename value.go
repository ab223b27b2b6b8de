package toon

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"
)

// maxSafeInt is 2^53-1, the largest integer magnitude that round-trips
// exactly through an IEEE-754 double.
const maxSafeInt = 1<<53 - 1

// Object is an ordered string-keyed map: the JSON-domain "object" variant
// Plain Go maps cannot stand in for it because map iteration order
// is unspecified, but TOON objects must preserve insertion order end to
// end.
type Object struct {
	keys       []string
	vals       map[string]any
	quotedKeys map[string]bool
}

// NewObject returns an empty ordered object.
func NewObject() *Object {
	return &Object{vals: make(map[string]any)}
}

// Set assigns key to v, appending key to the iteration order on first use.
func (o *Object) Set(key string, v any) {
	if _, ok := o.vals[key]; !ok {
		o.keys = append(o.keys, key)
	}
	o.vals[key] = v
}

// SetQuoted is Set plus a record of whether the source key token was
// quoted, consulted by safe-mode path expansion to leave quoted keys
// containing '.' unsplit.
func (o *Object) SetQuoted(key string, v any, wasQuoted bool) {
	o.Set(key, v)
	if wasQuoted {
		if o.quotedKeys == nil {
			o.quotedKeys = make(map[string]bool)
		}
		o.quotedKeys[key] = true
	}
}

// Get returns the value stored at key, if any.
func (o *Object) Get(key string) (any, bool) {
	v, ok := o.vals[key]
	return v, ok
}

// Keys returns the object's keys in insertion order.
func (o *Object) Keys() []string { return o.keys }

// Len returns the number of keys in the object.
func (o *Object) Len() int { return len(o.keys) }

// KeyWasQuoted reports whether key was set via SetQuoted(key, v, true).
func (o *Object) KeyWasQuoted(key string) bool {
	return o.quotedKeys != nil && o.quotedKeys[key]
}

// fieldNameCaser converts a struct field name that carries no explicit
// `toon` tag into a key. It defaults to the identity function; the CLI
// overrides it via SetFieldNameCaser to apply a configured naming
// convention (see internal/config).
var fieldNameCaser = func(name string) string { return name }

// SetFieldNameCaser installs the function normalizeStruct uses to derive
// a key for untagged struct fields.
func SetFieldNameCaser(f func(string) string) {
	if f == nil {
		f = func(name string) string { return name }
	}
	fieldNameCaser = f
}

// Normalize maps an arbitrary Go value onto the JSON data model:
// *Object, []any, string, int64, float64, bool, or nil. It is pure.
// Funcs, channels and unsafe pointers map to nil; values with no mapping
// (complex numbers, maps with non-string keys, an invalid json.Number)
// produce an error instead.
func Normalize(v any) (any, error) {
	return normalize(reflect.ValueOf(v))
}

func normalize(rv reflect.Value) (any, error) {
	if !rv.IsValid() {
		return nil, nil
	}

	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		if obj, ok := rv.Interface().(*Object); ok {
			return normalizeObject(obj)
		}
		return normalize(rv.Elem())
	}

	if t, ok := rv.Interface().(time.Time); ok {
		return t.UTC().Format("2006-01-02T15:04:05.000Z"), nil
	}
	if n, ok := rv.Interface().(json.Number); ok {
		return normalizeJSONNumber(n)
	}

	switch rv.Kind() {
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.String:
		return rv.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return normalizeInt(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return normalizeUint(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return normalizeFloat(rv.Float()), nil
	case reflect.Slice:
		if rv.IsNil() {
			return nil, nil
		}
		return normalizeSlice(rv)
	case reflect.Array:
		return normalizeSlice(rv)
	case reflect.Map:
		return normalizeMap(rv)
	case reflect.Struct:
		return normalizeStruct(rv)
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return nil, nil
	default:
		return nil, &EncodeError{Message: fmt.Sprintf("toon: cannot normalize value of kind %s", rv.Kind())}
	}
}

func normalizeSlice(rv reflect.Value) (any, error) {
	out := make([]any, rv.Len())
	for i := range out {
		v, err := normalize(rv.Index(i))
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func normalizeObject(obj *Object) (any, error) {
	out := NewObject()
	for _, k := range obj.Keys() {
		v, _ := obj.Get(k)
		nv, err := normalize(reflect.ValueOf(v))
		if err != nil {
			return nil, err
		}
		out.SetQuoted(k, nv, obj.KeyWasQuoted(k))
	}
	return out, nil
}

func normalizeMap(rv reflect.Value) (any, error) {
	if rv.IsNil() {
		return nil, nil
	}
	if rv.Type().Key().Kind() != reflect.String {
		return nil, &EncodeError{Message: fmt.Sprintf("toon: map key type %s is not supported, only string keys", rv.Type().Key())}
	}
	keys := make([]string, 0, rv.Len())
	it := rv.MapRange()
	for it.Next() {
		keys = append(keys, it.Key().String())
	}
	sort.Strings(keys)
	out := NewObject()
	for _, k := range keys {
		v := rv.MapIndex(reflect.ValueOf(k).Convert(rv.Type().Key()))
		nv, err := normalize(v)
		if err != nil {
			return nil, err
		}
		out.Set(k, nv)
	}
	return out, nil
}

func normalizeStruct(rv reflect.Value) (any, error) {
	t := rv.Type()
	out := NewObject()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" {
			continue
		}
		name, omitempty, skip := parseToonTag(field)
		if skip {
			continue
		}
		fv := rv.Field(i)
		if omitempty && isEmptyValue(fv) {
			continue
		}
		nv, err := normalize(fv)
		if err != nil {
			return nil, err
		}
		out.Set(name, nv)
	}
	return out, nil
}

// parseToonTag reads the struct-tag convention described in SPEC_FULL.md
// `toon:"name,omitempty"`, `toon:"-"` to skip the field entirely.
func parseToonTag(field reflect.StructField) (name string, omitempty, skip bool) {
	tag := field.Tag.Get("toon")
	if tag == "-" {
		return "", false, true
	}
	parts := strings.Split(tag, ",")
	name = fieldNameCaser(field.Name)
	if parts[0] != "" {
		name = parts[0]
	}
	for _, p := range parts[1:] {
		if p == "omitempty" {
			omitempty = true
		}
	}
	return name, omitempty, false
}

func isEmptyValue(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Slice, reflect.Map, reflect.Array, reflect.String:
		return v.Len() == 0
	case reflect.Bool:
		return !v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int() == 0
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint() == 0
	case reflect.Float32, reflect.Float64:
		return v.Float() == 0
	case reflect.Interface, reflect.Pointer:
		return v.IsNil()
	default:
		return false
	}
}

// normalizeInt and normalizeUint apply the big-integer rule: magnitudes
// within the safe integer range stay numbers, larger ones become decimal
// strings so the encoder quotes them rather than silently losing precision.
func normalizeInt(n int64) any {
	if n >= -maxSafeInt && n <= maxSafeInt {
		return n
	}
	return strconv.FormatInt(n, 10)
}

func normalizeUint(n uint64) any {
	if n <= uint64(maxSafeInt) {
		return int64(n)
	}
	return strconv.FormatUint(n, 10)
}

func normalizeFloat(f float64) any {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	if f == math.Trunc(f) {
		if math.Abs(f) <= float64(maxSafeInt) {
			return int64(f)
		}
		return strconv.FormatFloat(f, 'f', -1, 64)
	}
	return f
}

func normalizeJSONNumber(n json.Number) (any, error) {
	if i, err := n.Int64(); err == nil {
		return normalizeInt(i), nil
	}
	f, err := n.Float64()
	if err != nil {
		return nil, &EncodeError{Message: fmt.Sprintf("toon: invalid json.Number %q", string(n))}
	}
	return normalizeFloat(f), nil
}
