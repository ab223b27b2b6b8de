package toon

import (
	"fmt"
	"io"
	"iter"
	"strconv"
	"strings"
)

// EncodeOptions controls the encoder.
type EncodeOptions struct {
	Indent       int    // spaces per level, default 2
	Delimiter    byte   // ',', '\t', or '|', default ','
	KeyFolding   string // "off" or "safe", default "off"
	FlattenDepth int    // max chain length to fold; -1 means unbounded
}

// DefaultEncodeOptions returns the encoder's default option set.
func DefaultEncodeOptions() EncodeOptions {
	return EncodeOptions{Indent: 2, Delimiter: defaultDelimiter, KeyFolding: "off", FlattenDepth: -1}
}

// Encode returns the LF-joined output of EncodeLines, with no trailing
// newline.
func Encode(v any, opts EncodeOptions) (string, error) {
	var lines []string
	for line, err := range EncodeLines(v, opts) {
		if err != nil {
			return "", err
		}
		lines = append(lines, line)
	}
	return strings.Join(lines, "\n"), nil
}

// EncodeLines walks a normalized value and lazily yields each output line
// without its terminator. Errors are delivered as the second
// value of the pair and terminate iteration.
func EncodeLines(v any, opts EncodeOptions) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		norm, err := Normalize(v)
		if err != nil {
			yield("", err)
			return
		}
		w := &lineWriter{yield: yield, opts: opts}
		w.encodeRoot(norm)
	}
}

// lineWriter drives the single-threaded, suspend-between-lines emission
// described here: each call to emit hands exactly one line to the caller
// before resuming the walk.
type lineWriter struct {
	yield   func(string, error) bool
	opts    EncodeOptions
	stopped bool
}

func (w *lineWriter) emit(line string) {
	if w.stopped {
		return
	}
	if !w.yield(line, nil) {
		w.stopped = true
	}
}

func (w *lineWriter) fail(err error) {
	if w.stopped {
		return
	}
	w.yield("", err)
	w.stopped = true
}

func (w *lineWriter) encodeRoot(v any) {
	switch val := v.(type) {
	case *Object:
		// An empty root object yields zero lines.
		if val.Len() > 0 {
			w.encodeObjectFields(val, "")
		}
	case []any:
		w.encodeArray("", "", false, val, "")
	default:
		lit, err := w.formatPrimitive(val)
		if err != nil {
			w.fail(err)
			return
		}
		w.emit(lit)
	}
}

func (w *lineWriter) childIndent(indent string) string {
	return indent + strings.Repeat(" ", w.opts.Indent)
}

func (w *lineWriter) encodeObjectFields(obj *Object, indent string) {
	for _, k := range obj.Keys() {
		if w.stopped {
			return
		}
		v, _ := obj.Get(k)
		fk, fv, folded := w.foldChain(k, v)
		w.emitKeyedValue(indent, fk, fv, folded)
	}
}

func (w *lineWriter) emitKeyedValue(indent, key string, v any, folded bool) {
	qk := encodeKey(key, w.opts.Delimiter, !folded && w.opts.KeyFolding == "safe")
	switch val := v.(type) {
	case *Object:
		w.emit(indent + qk + ":")
		if val.Len() > 0 {
			w.encodeObjectFields(val, w.childIndent(indent))
		}
	case []any:
		w.encodeArray(indent, qk, true, val, w.childIndent(indent))
	default:
		lit, err := w.formatPrimitive(val)
		if err != nil {
			w.fail(err)
			return
		}
		w.emit(indent + qk + ": " + lit)
	}
}

// foldChain implements safe-mode key folding: collapse a run of
// single-key objects into a dotted key, stopping at FlattenDepth, at any
// intermediate key that would itself need quoting, or when the value is no
// longer a single-key object.
func (w *lineWriter) foldChain(key string, val any) (string, any, bool) {
	if w.opts.KeyFolding != "safe" {
		return key, val, false
	}
	chain := []string{key}
	cur := val
	depth := 1
	for {
		obj, ok := cur.(*Object)
		if !ok || obj.Len() != 1 {
			break
		}
		if w.opts.FlattenDepth >= 0 && depth >= w.opts.FlattenDepth {
			break
		}
		k := obj.Keys()[0]
		if needsQuotingKey(k, w.opts.Delimiter, true) {
			break
		}
		v, _ := obj.Get(k)
		chain = append(chain, k)
		cur = v
		depth++
	}
	if len(chain) == 1 {
		return key, val, false
	}
	return strings.Join(chain, "."), cur, true
}

func encodeKey(key string, delim byte, folding bool) string {
	if needsQuotingKey(key, delim, folding) {
		return quoteString(key)
	}
	return key
}

func (w *lineWriter) formatPrimitive(v any) (string, error) {
	switch val := v.(type) {
	case nil:
		return "null", nil
	case bool:
		if val {
			return "true", nil
		}
		return "false", nil
	case int64:
		return formatInt(val), nil
	case float64:
		return formatFloat(val), nil
	case string:
		if needsQuoting(val, w.opts.Delimiter) {
			return quoteString(val), nil
		}
		return val, nil
	default:
		return "", &EncodeError{Message: fmt.Sprintf("toon: cannot encode value of type %T", v)}
	}
}

// encodeArray implements the array form selector: empty, inline,
// tabular, or list, in that priority order.
func (w *lineWriter) encodeArray(headerIndent, key string, hasKey bool, arr []any, bodyIndent string) {
	n := len(arr)
	makeHeader := func(suffix string) string {
		prefix := "[" + strconv.Itoa(n) + "]"
		if hasKey {
			return headerIndent + key + prefix + suffix + ":"
		}
		return headerIndent + prefix + suffix + ":"
	}

	if n == 0 {
		w.emit(makeHeader(""))
		return
	}

	if allPrimitive(arr) {
		toks := make([]string, n)
		for i, e := range arr {
			lit, err := w.formatPrimitive(e)
			if err != nil {
				w.fail(err)
				return
			}
			toks[i] = lit
		}
		w.emit(makeHeader("") + " " + strings.Join(toks, w.listSep()))
		return
	}

	if fields, rows, ok := tabularFields(arr); ok {
		fieldParts := make([]string, len(fields))
		for i, f := range fields {
			fieldParts[i] = encodeKey(f, w.opts.Delimiter, false)
		}
		w.emit(makeHeader("{" + strings.Join(fieldParts, string(w.opts.Delimiter)) + "}"))
		for _, row := range rows {
			cells := make([]string, len(fields))
			for i, f := range fields {
				v, _ := row.Get(f)
				lit, err := w.formatPrimitive(v)
				if err != nil {
					w.fail(err)
					return
				}
				cells[i] = lit
			}
			w.emit(bodyIndent + strings.Join(cells, string(w.opts.Delimiter)))
		}
		return
	}

	w.emit(makeHeader(""))
	w.encodeListEntries(arr, bodyIndent)
}

func (w *lineWriter) listSep() string {
	if w.opts.Delimiter == ',' || w.opts.Delimiter == '|' {
		return string(w.opts.Delimiter) + " "
	}
	return string(w.opts.Delimiter)
}

func (w *lineWriter) encodeListEntries(arr []any, indent string) {
	for _, e := range arr {
		if w.stopped {
			return
		}
		switch val := e.(type) {
		case *Object:
			w.encodeListObjectEntry(indent, val)
		case []any:
			w.encodeListArrayEntry(indent, val)
		default:
			lit, err := w.formatPrimitive(val)
			if err != nil {
				w.fail(err)
				return
			}
			w.emit(indent + "- " + lit)
		}
	}
}

// encodeListObjectEntry implements the list-entry object rule: the
// first key-value pair lives on the dash line, remaining keys align two
// spaces past the dash regardless of the configured indent width. An empty
// object has no first key to anchor the dash line, an edge case the source
// grammar leaves unaddressed; "- :" is this implementation's marker for it
// (see DESIGN.md).
func (w *lineWriter) encodeListObjectEntry(indent string, obj *Object) {
	if obj.Len() == 0 {
		w.emit(indent + "- :")
		return
	}
	keys := obj.Keys()
	firstKey := keys[0]
	v, _ := obj.Get(firstKey)
	fk, fv, folded := w.foldChain(firstKey, v)
	qk := encodeKey(fk, w.opts.Delimiter, !folded && w.opts.KeyFolding == "safe")
	cont := indent + "  "

	switch val := fv.(type) {
	case *Object:
		w.emit(indent + "- " + qk + ":")
		if val.Len() > 0 {
			w.encodeObjectFields(val, cont)
		}
	case []any:
		w.encodeArray(indent+"- "+qk, "", false, val, cont)
	default:
		lit, err := w.formatPrimitive(val)
		if err != nil {
			w.fail(err)
			return
		}
		w.emit(indent + "- " + qk + ": " + lit)
	}

	for _, k := range keys[1:] {
		if w.stopped {
			return
		}
		cv, _ := obj.Get(k)
		cfk, cfv, cfolded := w.foldChain(k, cv)
		w.emitKeyedValue(cont, cfk, cfv, cfolded)
	}
}

// encodeListArrayEntry implements the list-entry array rule: the dash
// line bears an empty (or tabular) header with no key, and the body is
// indented one configured level deeper than the dash.
func (w *lineWriter) encodeListArrayEntry(indent string, arr []any) {
	w.encodeArray(indent+"- ", "", false, arr, w.childIndent(indent))
}

func isPrimitiveValue(v any) bool {
	switch v.(type) {
	case nil, bool, int64, float64, string:
		return true
	default:
		return false
	}
}

func allPrimitive(arr []any) bool {
	for _, e := range arr {
		if !isPrimitiveValue(e) {
			return false
		}
	}
	return true
}

// tabularFields checks the tabular-form precondition:
// every element is a non-empty object, all objects share exactly the same
// key set in the same order, and every leaf value is a primitive.
func tabularFields(arr []any) ([]string, []*Object, bool) {
	first, ok := arr[0].(*Object)
	if !ok || first.Len() == 0 {
		return nil, nil, false
	}
	fields := append([]string{}, first.Keys()...)
	rows := make([]*Object, len(arr))
	for i, e := range arr {
		obj, ok := e.(*Object)
		if !ok || obj.Len() != len(fields) {
			return nil, nil, false
		}
		for j, f := range fields {
			if obj.Keys()[j] != f {
				return nil, nil, false
			}
			v, _ := obj.Get(f)
			if !isPrimitiveValue(v) {
				return nil, nil, false
			}
		}
		rows[i] = obj
	}
	return fields, rows, true
}

// Encoder writes successive TOON documents to an underlying writer, one
// per Encode call.
type Encoder struct {
	w    io.Writer
	opts EncodeOptions
}

// NewEncoder returns an Encoder with the default option set.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w, opts: DefaultEncodeOptions()}
}

// SetOptions overrides the encoder's option set and returns the receiver
// for chaining.
func (e *Encoder) SetOptions(opts EncodeOptions) *Encoder {
	e.opts = opts
	return e
}

// Encode normalizes and writes v, terminated by a single newline.
func (e *Encoder) Encode(v any) error {
	out, err := Encode(v, e.opts)
	if err != nil {
		return err
	}
	_, err = io.WriteString(e.w, out+"\n")
	return err
}

// Marshal encodes v with the default option set.
func Marshal(v any) ([]byte, error) {
	s, err := Encode(v, DefaultEncodeOptions())
	if err != nil {
		return nil, err
	}
	return []byte(s), nil
}
