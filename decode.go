package toon

import (
	"context"
	"fmt"
	"io"
	"iter"
	"reflect"
	"strconv"
	"strings"
)

// Options controls the decoder.
type Options struct {
	Indent      int    // expected spaces per level, default 2
	Strict      bool   // default true; false selects lenient/best-effort recovery
	ExpandPaths string // "off" or "safe", default "off"
}

// DefaultOptions returns the decoder's default option set.
func DefaultOptions() Options {
	return Options{Indent: 2, Strict: true, ExpandPaths: "off"}
}

// Decode parses a complete TOON document into the JSON data model
// (*Object, []any, string, int64, float64, bool, nil).
func Decode(text string, opts Options) (any, error) {
	events, err := parseEvents(text, opts)
	if err != nil {
		return nil, err
	}
	b := &builder{opts: opts}
	for _, ev := range events {
		if err := b.feed(ev); err != nil {
			return nil, err
		}
	}
	if !b.done {
		return nil, &DecodeError{Kind: IncompleteStream, Message: "incomplete event stream"}
	}
	if opts.ExpandPaths == "safe" {
		return expandPathsInValue(b.result, opts.Strict)
	}
	return b.result, nil
}

// DecodeFromLines decodes events produced incrementally, mirroring Decode's
// builder/path-expansion stage for callers that already have an event
// sequence (e.g. one replayed from DecodeStreamSync).
func DecodeFromLines(events iter.Seq2[Event, error], opts Options) (any, error) {
	b := &builder{opts: opts}
	for ev, err := range events {
		if err != nil {
			return nil, err
		}
		if err := b.feed(ev); err != nil {
			return nil, err
		}
	}
	if !b.done {
		return nil, &DecodeError{Kind: IncompleteStream, Message: "incomplete event stream"}
	}
	if opts.ExpandPaths == "safe" {
		return expandPathsInValue(b.result, opts.Strict)
	}
	return b.result, nil
}

// DecodeStreamSync returns the structural decoder's event stream directly.
// ExpandPaths is rejected: path expansion requires a materialized
// tree and cannot be expressed as a flat event sequence.
func DecodeStreamSync(text string, opts Options) iter.Seq2[Event, error] {
	return func(yield func(Event, error) bool) {
		if opts.ExpandPaths == "safe" {
			yield(Event{}, &DecodeError{Kind: UnsupportedOption, Message: "expandPaths is not supported by decodeStreamSync"})
			return
		}
		events, err := parseEvents(text, opts)
		if err != nil {
			yield(Event{}, err)
			return
		}
		for _, ev := range events {
			if !yield(ev, nil) {
				return
			}
		}
	}
}

// LineSource supplies lines one at a time from an asynchronous upstream,
// such as a socket or another non-blocking source.
type LineSource interface {
	// NextLine returns the next line of input (without its terminator) and
	// true, or ("", false) at end of input, or an error.
	NextLine(ctx context.Context) (string, bool, error)
}

// StreamEvent pairs an Event with an error for DecodeStream's channel.
type StreamEvent struct {
	Event Event
	Err   error
}

// DecodeStream decodes from an asynchronous LineSource, suspending on each
// upstream read, while preserving the same event order DecodeStreamSync
// would produce for the same fully-buffered text. All lines are collected
// before parsing starts, so no event is sent until the source reports end
// of input.
func DecodeStream(ctx context.Context, src LineSource, opts Options) <-chan StreamEvent {
	out := make(chan StreamEvent)
	go func() {
		defer close(out)
		var lines []string
		for {
			line, ok, err := src.NextLine(ctx)
			if err != nil {
				out <- StreamEvent{Err: err}
				return
			}
			if !ok {
				break
			}
			lines = append(lines, line)
			select {
			case <-ctx.Done():
				out <- StreamEvent{Err: ctx.Err()}
				return
			default:
			}
		}
		events, err := parseEvents(strings.Join(lines, "\n"), opts)
		if err != nil {
			out <- StreamEvent{Err: err}
			return
		}
		for _, ev := range events {
			select {
			case out <- StreamEvent{Event: ev}:
			case <-ctx.Done():
				out <- StreamEvent{Err: ctx.Err()}
				return
			}
		}
	}()
	return out
}

// parseEvents runs the structural decoder end to end and materializes its
// event stream with an ordinary recursive descent rather than a suspending
// coroutine: the two are observationally identical to any caller, since
// nothing downstream distinguishes events produced eagerly from events
// produced one at a time. See DESIGN.md.
func parseEvents(text string, opts Options) ([]Event, error) {
	if opts.Indent <= 0 {
		opts.Indent = 2
	}
	rawLines, err := prepareLines(splitTextLines(text), opts)
	if err != nil {
		return nil, err
	}
	p := &eventParser{lines: rawLines, opts: opts}
	if err := p.parseRootValue(); err != nil {
		return nil, err
	}
	if p.pos != len(p.lines) {
		return nil, &DecodeError{Kind: MalformedHeader, Line: p.cur().num, Message: "unexpected trailing content"}
	}
	return p.events, nil
}

// eventParser is the structural decoder: a recursive descent over
// rawLines driven by each line's (indent, header) shape, tracked against
// the ExpectValue/InObject/InList/InTabular states of the structural grammar.
type eventParser struct {
	lines  []rawLine
	pos    int
	opts   Options
	events []Event
}

func (p *eventParser) eof() bool { return p.pos >= len(p.lines) }

func (p *eventParser) cur() rawLine { return p.lines[p.pos] }

func (p *eventParser) emit(ev Event) { p.events = append(p.events, ev) }

func (p *eventParser) errf(lineNum int, kind Kind, format string, args ...any) error {
	return &DecodeError{Kind: kind, Line: lineNum, Message: fmt.Sprintf(format, args...)}
}

// parseRootValue handles the three root forms: an empty
// document (empty object), a root array header, or a root object whose
// first field starts at indent 0; anything else is a single-line scalar.
func (p *eventParser) parseRootValue() error {
	if p.eof() {
		p.emit(Event{Kind: EventStartObject})
		p.emit(Event{Kind: EventEndObject})
		return nil
	}

	line := p.cur()
	if line.indent != 0 {
		return p.errf(line.num, IndentationError, "root line must not be indented")
	}
	h, hasHeader, rest, err := splitHeader(line.content)
	if err != nil {
		return wrapLineErr(line.num, err)
	}
	if !hasHeader {
		v, err := parseScalar(strings.TrimSpace(line.content))
		if err != nil {
			return wrapLineErr(line.num, err)
		}
		p.pos++
		p.emit(Event{Kind: EventPrimitive, Value: v})
		return nil
	}
	if h.hasKey {
		p.emit(Event{Kind: EventStartObject})
		if err := p.parseFieldLoop(0); err != nil {
			return err
		}
		p.emit(Event{Kind: EventEndObject})
		return nil
	}
	return p.parseHeaderValue(line.num, 0, h, rest)
}

// parseFieldLoop consumes the run of sibling key: value lines at exactly
// parentIndent, tracking the same nested-object indentation state.
func (p *eventParser) parseFieldLoop(parentIndent int) error {
	for !p.eof() {
		line := p.cur()
		if line.indent < parentIndent {
			return nil
		}
		if line.indent != parentIndent {
			return p.errf(line.num, IndentationError, "unexpected indentation inside object")
		}
		if strings.HasPrefix(strings.TrimLeft(line.content, " "), "- ") || strings.TrimSpace(line.content) == "-" {
			return nil
		}
		h, hasHeader, rest, err := splitHeader(line.content)
		if err != nil {
			return wrapLineErr(line.num, err)
		}
		if !hasHeader || !h.hasKey {
			return p.errf(line.num, MalformedHeader, "expected a key: value field")
		}
		p.emit(Event{Kind: EventKey, Key: h.key, WasQuoted: h.keyQuoted})
		if err := p.parseHeaderValue(line.num, parentIndent, h, rest); err != nil {
			return err
		}
	}
	return nil
}

// parseHeaderValue dispatches on the header's shape once its key (if any)
// has already been emitted by the caller; the header's own line has not
// yet been consumed on entry, and parseHeaderValue advances past it along
// whichever branch it takes.
func (p *eventParser) parseHeaderValue(lineNum, parentIndent int, h header, rest string) error {
	childIndent := parentIndent + p.opts.Indent

	switch {
	case h.hasFields:
		p.pos++
		return p.parseTabularBody(lineNum, h, rest, childIndent)
	case h.hasLength:
		trimmed := strings.TrimSpace(rest)
		if trimmed != "" {
			p.pos++
			return p.parseInlineArrayBody(lineNum, h.length, trimmed)
		}
		p.pos++
		return p.parseListOrEmptyArrayBody(lineNum, h.length, childIndent)
	default:
		trimmed := strings.TrimSpace(rest)
		if trimmed != "" {
			p.pos++
			v, err := parseScalar(trimmed)
			if err != nil {
				return wrapLineErr(lineNum, err)
			}
			p.emit(Event{Kind: EventPrimitive, Value: v})
			return nil
		}
		p.pos++
		return p.parseObjectOrEmptyBody(childIndent)
	}
}

// parseObjectOrEmptyBody handles a "key:" header with nothing after the
// colon: either the object has no fields (next line is not indented deeper)
// or it continues with a standard field loop.
func (p *eventParser) parseObjectOrEmptyBody(childIndent int) error {
	p.emit(Event{Kind: EventStartObject})
	if p.eof() || p.cur().indent < childIndent {
		p.emit(Event{Kind: EventEndObject})
		return nil
	}
	if p.cur().indent != childIndent {
		return p.errf(p.cur().num, IndentationError, "unexpected indentation inside object")
	}
	if err := p.parseFieldLoop(childIndent); err != nil {
		return err
	}
	p.emit(Event{Kind: EventEndObject})
	return nil
}

func (p *eventParser) parseInlineArrayBody(headerLineNum, n int, inline string) error {
	delim := detectDelimiter(inline)
	toks, err := splitDelimited(inline, delim, delim != '\t')
	if err != nil {
		return wrapLineErr(headerLineNum, err)
	}
	if len(toks) != n {
		if err := p.lengthMismatch(headerLineNum, n, len(toks)); err != nil {
			return err
		}
	}
	p.emit(Event{Kind: EventStartArray, Length: n})
	for _, tok := range toks {
		v, err := parseScalar(tok)
		if err != nil {
			return wrapLineErr(headerLineNum, err)
		}
		p.emit(Event{Kind: EventPrimitive, Value: v})
	}
	p.emit(Event{Kind: EventEndArray})
	return nil
}

func (p *eventParser) parseTabularBody(headerLineNum int, h header, rest string, childIndent int) error {
	if strings.TrimSpace(rest) != "" {
		return p.errf(headerLineNum, MalformedHeader, "tabular header must not have trailing content")
	}
	p.emit(Event{Kind: EventStartArray, Length: h.length})
	count := 0
	for !p.eof() && p.cur().indent >= childIndent {
		line := p.cur()
		if line.indent != childIndent {
			return p.errf(line.num, IndentationError, "unexpected indentation inside tabular array")
		}
		toks, err := splitDelimited(line.content, h.delim, h.delim != '\t')
		if err != nil {
			return wrapLineErr(line.num, err)
		}
		// Strict mode rejects a row whose cell count doesn't match the
		// header's field count; lenient mode uses whichever of the two is
		// shorter and proceeds.
		if len(toks) != len(h.fields) && p.opts.Strict {
			return p.errf(line.num, DelimiterMismatch, "row has %d cells, header declares %d fields", len(toks), len(h.fields))
		}
		n := len(h.fields)
		if len(toks) < n {
			n = len(toks)
		}
		p.pos++
		p.emit(Event{Kind: EventStartObject})
		for i := 0; i < n; i++ {
			v, err := parseScalar(toks[i])
			if err != nil {
				return wrapLineErr(line.num, err)
			}
			p.emit(Event{Kind: EventKey, Key: h.fields[i]})
			p.emit(Event{Kind: EventPrimitive, Value: v})
		}
		p.emit(Event{Kind: EventEndObject})
		count++
	}
	if count != h.length {
		if err := p.lengthMismatch(headerLineNum, h.length, count); err != nil {
			return err
		}
	}
	p.emit(Event{Kind: EventEndArray})
	return nil
}

// parseListOrEmptyArrayBody handles a "[N]:" header with nothing inline:
// either the array is empty, or its body is a run of "- " list entries.
func (p *eventParser) parseListOrEmptyArrayBody(headerLineNum, n, childIndent int) error {
	p.emit(Event{Kind: EventStartArray, Length: n})
	count := 0
	for !p.eof() && p.cur().indent >= childIndent {
		if p.cur().indent != childIndent {
			return p.errf(p.cur().num, IndentationError, "unexpected indentation inside list array")
		}
		if err := p.parseListEntry(childIndent); err != nil {
			return err
		}
		count++
	}
	if count != n {
		if err := p.lengthMismatch(headerLineNum, n, count); err != nil {
			return err
		}
	}
	p.emit(Event{Kind: EventEndArray})
	return nil
}

// parseListEntry consumes one "- ..." entry, per the list-array
// form: a primitive, a nested array, or an object whose first field rides
// the dash line and whose remaining fields are indented dashIndent+2 —
// two literal spaces, independent of the configured indent width.
func (p *eventParser) parseListEntry(dashIndent int) error {
	line := p.cur()
	content := line.content
	if !strings.HasPrefix(content, "-") {
		return p.errf(line.num, MalformedHeader, "expected a list entry starting with '-'")
	}
	after := content[1:]
	trimmed := strings.TrimPrefix(after, " ")
	if trimmed == "" {
		// Bare "-" introduces a nested array or object on following lines.
		p.pos++
		return p.parseNestedAfterDash(line.num, dashIndent+2)
	}
	if strings.TrimSpace(trimmed) == ":" {
		// Invented extension: "- :" marks an empty object entry, a case the
		// source grammar's dash-line-needs-a-first-key description leaves
		// unaddressed. See DESIGN.md.
		p.pos++
		p.emit(Event{Kind: EventStartObject})
		p.emit(Event{Kind: EventEndObject})
		return nil
	}

	h, hasHeader, rest, err := splitHeader(trimmed)
	if err != nil {
		return wrapLineErr(line.num, err)
	}
	if !hasHeader {
		v, err := parseScalar(trimmed)
		if err != nil {
			return wrapLineErr(line.num, err)
		}
		p.pos++
		p.emit(Event{Kind: EventPrimitive, Value: v})
		return nil
	}
	if !h.hasKey {
		// "- [N]: ..." carries a nested array whose body sits one indent
		// level past the dash.
		return p.parseHeaderValue(line.num, dashIndent, h, rest)
	}

	contIndent := dashIndent + 2
	p.emit(Event{Kind: EventStartObject})
	p.emit(Event{Kind: EventKey, Key: h.key, WasQuoted: h.keyQuoted})
	if err := p.parseHeaderValue(line.num, contIndent-p.opts.Indent, h, rest); err != nil {
		return err
	}
	if err := p.parseFieldLoop(contIndent); err != nil {
		return err
	}
	p.emit(Event{Kind: EventEndObject})
	return nil
}

// parseNestedAfterDash handles a bare "-" dash line: the entry itself is a
// nested array, materialized on the following, deeper-indented lines.
func (p *eventParser) parseNestedAfterDash(dashLineNum, childIndent int) error {
	if p.eof() || p.cur().indent != childIndent {
		return p.errf(dashLineNum, MalformedHeader, "bare '-' entry has no nested value")
	}
	line := p.cur()
	h, hasHeader, rest, err := splitHeader(line.content)
	if err != nil {
		return wrapLineErr(line.num, err)
	}
	if !hasHeader || h.hasKey {
		return p.errf(line.num, MalformedHeader, "expected a nested array header")
	}
	return p.parseHeaderValue(line.num, childIndent-p.opts.Indent, h, rest)
}

// lengthMismatch reports a declared-vs-actual array length mismatch. In
// lenient mode downgrades this to best-effort: the decoder keeps
// whatever elements it actually found instead of failing.
func (p *eventParser) lengthMismatch(lineNum, want, got int) error {
	msg := fmt.Sprintf("array declares length %d but has %d elements", want, got)
	if !p.opts.Strict {
		return nil
	}
	return &DecodeError{Kind: LengthMismatch, Line: lineNum, Message: msg}
}

// builder assembles Events into the JSON data model: a stack of
// in-progress containers, each frame recording what it's waiting for next.
type builder struct {
	opts   Options
	stack  []*builderFrame
	result any
	done   bool
}

type builderFrame struct {
	isArray        bool
	obj            *Object
	arr            []any
	pendingKey     string
	pendingQuoted  bool
	havePendingKey bool
}

func (b *builder) feed(ev Event) error {
	switch ev.Kind {
	case EventStartObject:
		b.push(&builderFrame{obj: NewObject()})
		return nil
	case EventEndObject:
		f, err := b.popExpect(false)
		if err != nil {
			return err
		}
		b.setValue(f.obj)
		return nil
	case EventStartArray:
		b.push(&builderFrame{isArray: true})
		return nil
	case EventEndArray:
		f, err := b.popExpect(true)
		if err != nil {
			return err
		}
		b.setValue(f.arr)
		return nil
	case EventKey:
		if len(b.stack) == 0 || b.stack[len(b.stack)-1].isArray {
			return &DecodeError{Kind: IncompleteStream, Message: "key event outside an object"}
		}
		top := b.stack[len(b.stack)-1]
		top.pendingKey, top.pendingQuoted, top.havePendingKey = ev.Key, ev.WasQuoted, true
		return nil
	case EventPrimitive:
		b.setValue(ev.Value)
		return nil
	}
	return nil
}

func (b *builder) push(f *builderFrame) {
	b.stack = append(b.stack, f)
}

func (b *builder) popExpect(wantArray bool) (*builderFrame, error) {
	if len(b.stack) == 0 {
		return nil, &DecodeError{Kind: IncompleteStream, Message: "unbalanced container end event"}
	}
	f := b.stack[len(b.stack)-1]
	if f.isArray != wantArray {
		return nil, &DecodeError{Kind: IncompleteStream, Message: "mismatched container end event"}
	}
	b.stack = b.stack[:len(b.stack)-1]
	return f, nil
}

// setValue places v into the current container context: as an object
// field (consuming the most recent pending key), as the next array
// element, or as the whole document's result if the stack is empty.
func (b *builder) setValue(v any) {
	if len(b.stack) == 0 {
		b.result = v
		b.done = true
		return
	}
	top := b.stack[len(b.stack)-1]
	if top.isArray {
		top.arr = append(top.arr, v)
		return
	}
	if !top.havePendingKey {
		return
	}
	top.obj.SetQuoted(top.pendingKey, v, top.pendingQuoted)
	top.havePendingKey = false
}

// expandPathsInValue implements safe-mode path expansion: dotted
// object keys (other than ones that arrived already quoted) are split and
// merged into nested objects. Array elements are never expanded.
func expandPathsInValue(v any, strict bool) (any, error) {
	switch val := v.(type) {
	case *Object:
		return expandObject(val, strict)
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			ev, err := expandPathsInValue(e, strict)
			if err != nil {
				return nil, err
			}
			out[i] = ev
		}
		return out, nil
	default:
		return v, nil
	}
}

func expandObject(obj *Object, strict bool) (*Object, error) {
	out := NewObject()
	for _, k := range obj.Keys() {
		v, _ := obj.Get(k)
		ev, err := expandPathsInValue(v, strict)
		if err != nil {
			return nil, err
		}
		if obj.KeyWasQuoted(k) || !strings.Contains(k, ".") {
			if err := mergeInto(out, []string{k}, ev, strict); err != nil {
				return nil, err
			}
			continue
		}
		if err := mergeInto(out, strings.Split(k, "."), ev, strict); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// mergeInto merges v at the nested path segs into out, applying the
// conflict rules: object+object merges recursively, object+non-object is
// ExpansionConflict in strict mode and last-write-wins in lenient mode,
// non-object+non-object is always last-write-wins.
func mergeInto(out *Object, segs []string, v any, strict bool) error {
	if len(segs) == 1 {
		existing, had := out.Get(segs[0])
		if had {
			merged, err := mergeValues(existing, v, strict)
			if err != nil {
				return err
			}
			out.Set(segs[0], merged)
			return nil
		}
		out.Set(segs[0], v)
		return nil
	}
	head, rest := segs[0], segs[1:]
	existing, had := out.Get(head)
	var child *Object
	if had {
		co, ok := existing.(*Object)
		if !ok {
			if strict {
				return &DecodeError{Kind: ExpansionConflict, Message: fmt.Sprintf("path expansion conflict at key %q", head)}
			}
			child = NewObject()
			out.Set(head, child)
		} else {
			child = co
		}
	} else {
		child = NewObject()
		out.Set(head, child)
	}
	return mergeInto(child, rest, v, strict)
}

func mergeValues(existing, v any, strict bool) (any, error) {
	eo, eok := existing.(*Object)
	vo, vok := v.(*Object)
	switch {
	case eok && vok:
		merged := NewObject()
		for _, k := range eo.Keys() {
			val, _ := eo.Get(k)
			merged.Set(k, val)
		}
		for _, k := range vo.Keys() {
			val, _ := vo.Get(k)
			if cur, had := merged.Get(k); had {
				m, err := mergeValues(cur, val, strict)
				if err != nil {
					return nil, err
				}
				merged.Set(k, m)
				continue
			}
			merged.Set(k, val)
		}
		return merged, nil
	case eok != vok:
		if strict {
			return nil, &DecodeError{Kind: ExpansionConflict, Message: "path expansion conflict between object and non-object value"}
		}
		return v, nil
	default:
		return v, nil
	}
}

// Decoder decodes the TOON document held in an underlying reader. The
// first Decode call reads the reader to its end; later calls return io.EOF.
type Decoder struct {
	r        io.Reader
	opts     Options
	consumed bool
}

// NewDecoder returns a Decoder with the default option set.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{r: r, opts: DefaultOptions()}
}

// SetOptions overrides the decoder's option set and returns the receiver
// for chaining.
func (d *Decoder) SetOptions(opts Options) *Decoder {
	d.opts = opts
	return d
}

// Decode reads the whole underlying reader and decodes it into v. It
// returns io.EOF once an earlier call has consumed the reader.
func (d *Decoder) Decode(v any) error {
	if d.consumed {
		return io.EOF
	}
	d.consumed = true
	b, err := io.ReadAll(d.r)
	if err != nil {
		return err
	}
	val, err := Decode(string(b), d.opts)
	if err != nil {
		return err
	}
	return assignValue(reflect.ValueOf(v), val)
}

// Unmarshal decodes data with the default option set into v.
func Unmarshal(data []byte, v any) error {
	val, err := Decode(string(data), DefaultOptions())
	if err != nil {
		return err
	}
	return assignValue(reflect.ValueOf(v), val)
}

// assignValue reflects a decoded JSON-domain value into the Go value
// pointed to by rv, dispatching across setValue/setStruct/setSlice
// /setMap family, adapted to read from *Object/[]any instead of
// map[string]any/[]any.
func assignValue(rv reflect.Value, v any) error {
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return &DecodeError{Message: "toon: Decode target must be a non-nil pointer"}
	}
	return setValue(rv.Elem(), v)
}

func setValue(dst reflect.Value, v any) error {
	if dst.Kind() == reflect.Interface && dst.NumMethod() == 0 {
		if v == nil {
			dst.Set(reflect.Zero(dst.Type()))
			return nil
		}
		dst.Set(reflect.ValueOf(toGoValue(v)))
		return nil
	}
	if dst.Kind() == reflect.Pointer {
		if v == nil {
			dst.Set(reflect.Zero(dst.Type()))
			return nil
		}
		if dst.IsNil() {
			dst.Set(reflect.New(dst.Type().Elem()))
		}
		return setValue(dst.Elem(), v)
	}

	switch val := v.(type) {
	case nil:
		dst.Set(reflect.Zero(dst.Type()))
		return nil
	case bool:
		if dst.Kind() != reflect.Bool {
			return typeMismatch(dst, v)
		}
		dst.SetBool(val)
		return nil
	case string:
		switch dst.Kind() {
		case reflect.String:
			dst.SetString(val)
			return nil
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			n, err := strconv.ParseInt(val, 10, 64)
			if err != nil {
				return typeMismatch(dst, v)
			}
			dst.SetInt(n)
			return nil
		default:
			return typeMismatch(dst, v)
		}
	case int64:
		return setNumeric(dst, float64(val), val, v)
	case float64:
		return setNumeric(dst, val, int64(val), v)
	case *Object:
		return setObject(dst, val)
	case []any:
		return setSlice(dst, val)
	default:
		return typeMismatch(dst, v)
	}
}

func setNumeric(dst reflect.Value, f float64, i int64, orig any) error {
	switch dst.Kind() {
	case reflect.Float32, reflect.Float64:
		dst.SetFloat(f)
		return nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		dst.SetInt(i)
		return nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		dst.SetUint(uint64(i))
		return nil
	case reflect.String:
		dst.SetString(strconv.FormatFloat(f, 'g', -1, 64))
		return nil
	default:
		return typeMismatch(dst, orig)
	}
}

func setObject(dst reflect.Value, obj *Object) error {
	switch dst.Kind() {
	case reflect.Struct:
		return setStruct(dst, obj)
	case reflect.Map:
		return setMap(dst, obj)
	default:
		return typeMismatch(dst, obj)
	}
}

func setStruct(dst reflect.Value, obj *Object) error {
	t := dst.Type()
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.PkgPath != "" {
			continue
		}
		name, _, skip := parseToonTag(field)
		if skip {
			continue
		}
		v, ok := obj.Get(name)
		if !ok {
			continue
		}
		if err := setValue(dst.Field(i), v); err != nil {
			return err
		}
	}
	return nil
}

func setMap(dst reflect.Value, obj *Object) error {
	if dst.Type().Key().Kind() != reflect.String {
		return &DecodeError{Message: "toon: map key type must be string"}
	}
	m := reflect.MakeMapWithSize(dst.Type(), obj.Len())
	elemType := dst.Type().Elem()
	for _, k := range obj.Keys() {
		v, _ := obj.Get(k)
		ev := reflect.New(elemType).Elem()
		if err := setValue(ev, v); err != nil {
			return err
		}
		m.SetMapIndex(reflect.ValueOf(k).Convert(dst.Type().Key()), ev)
	}
	dst.Set(m)
	return nil
}

func setSlice(dst reflect.Value, arr []any) error {
	switch dst.Kind() {
	case reflect.Slice:
		s := reflect.MakeSlice(dst.Type(), len(arr), len(arr))
		for i, e := range arr {
			if err := setValue(s.Index(i), e); err != nil {
				return err
			}
		}
		dst.Set(s)
		return nil
	case reflect.Array:
		if dst.Len() != len(arr) {
			return &DecodeError{Message: fmt.Sprintf("toon: array length mismatch: target has %d, value has %d", dst.Len(), len(arr))}
		}
		for i, e := range arr {
			if err := setValue(dst.Index(i), e); err != nil {
				return err
			}
		}
		return nil
	default:
		return typeMismatch(dst, arr)
	}
}

func typeMismatch(dst reflect.Value, v any) error {
	return &DecodeError{Message: fmt.Sprintf("toon: cannot assign %T into Go value of type %s", v, dst.Type())}
}

// toGoValue converts a decoded JSON-domain value into the map[string]any
// /[]any shape idiomatic Go callers expect from an `any`-typed Decode
// target, unwrapping *Object.
func toGoValue(v any) any {
	switch val := v.(type) {
	case *Object:
		m := make(map[string]any, val.Len())
		for _, k := range val.Keys() {
			fv, _ := val.Get(k)
			m[k] = toGoValue(fv)
		}
		return m
	case []any:
		out := make([]any, len(val))
		for i, e := range val {
			out[i] = toGoValue(e)
		}
		return out
	default:
		return val
	}
}
