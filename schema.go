package shadergen

import (
	"encoding/hex"
	"fmt"
	"math"
	"strings"
)

// Schema is the ordered list of methods of one technique family.
// It is built once at package initialization and never mutated.
type Schema struct {
	name    string
	methods []*Method
	index   map[string]int
}

// NewSchema builds a schema from methods in order. It panics on an empty
// enumeration, a repeated method name or option, or an enumeration that
// does not fit in a byte, since those are errors in static family tables.
func NewSchema(name string, methods ...*Method) *Schema {
	s := &Schema{
		name:    name,
		methods: methods,
		index:   make(map[string]int, len(methods)),
	}
	for i, m := range methods {
		if _, dup := s.index[m.Name]; dup {
			panic(fmt.Sprintf("shadergen: schema %s: method %s declared twice", name, m.Name))
		}
		if len(m.Options) == 0 || len(m.Options) > math.MaxUint8+1 {
			panic(fmt.Sprintf("shadergen: schema %s: method %s has %d options", name, m.Name, len(m.Options)))
		}
		seen := make(map[Option]struct{}, len(m.Options))
		for _, o := range m.Options {
			if _, dup := seen[o]; dup {
				panic(fmt.Sprintf("shadergen: schema %s: method %s lists %s twice", name, m.Name, o))
			}
			seen[o] = struct{}{}
		}
		s.index[m.Name] = i
	}
	return s
}

// Name returns the schema name.
func (s *Schema) Name() string { return s.name }

// MethodCount returns the number of methods.
func (s *Schema) MethodCount() int { return len(s.methods) }

// OptionCount returns the option count of method i, or -1 if i is out of
// range.
func (s *Schema) OptionCount(i int) int {
	if i < 0 || i >= len(s.methods) {
		return -1
	}
	return len(s.methods[i].Options)
}

// Method returns method i, or nil if i is out of range.
func (s *Schema) Method(i int) *Method {
	if i < 0 || i >= len(s.methods) {
		return nil
	}
	return s.methods[i]
}

// MethodIndex returns the index of the named method.
func (s *Schema) MethodIndex(name string) (int, bool) {
	i, ok := s.index[name]
	return i, ok
}

// MethodNames returns the method names in schema order.
func (s *Schema) MethodNames() []string {
	names := make([]string, len(s.methods))
	for i, m := range s.methods {
		names[i] = m.Name
	}
	return names
}

// Default returns the selection that picks the first option of every method.
func (s *Schema) Default() Selection {
	return Selection{schema: s, ords: make([]uint8, len(s.methods))}
}

// Select builds a selection from one option per method, in schema order.
func (s *Schema) Select(opts ...Option) (Selection, error) {
	if len(opts) != len(s.methods) {
		return Selection{}, fmt.Errorf("%w: %s has %d methods, got %d options",
			ErrSchemaMismatch, s.name, len(s.methods), len(opts))
	}
	ords := make([]uint8, len(opts))
	for i, o := range opts {
		n, ok := s.methods[i].Ordinal(o)
		if !ok {
			return Selection{}, fmt.Errorf("%w: %s is not an option of %s",
				ErrSchemaMismatch, o, s.methods[i].Name)
		}
		ords[i] = uint8(n)
	}
	return Selection{schema: s, ords: ords}, nil
}

// Decode builds a selection from one byte per method. It fails with
// ErrSchemaMismatch, and returns the zero Selection, if the length is wrong
// or any byte is outside its method's range.
func (s *Schema) Decode(b []byte) (Selection, error) {
	if len(b) != len(s.methods) {
		return Selection{}, fmt.Errorf("%w: %s expects %d bytes, got %d",
			ErrSchemaMismatch, s.name, len(s.methods), len(b))
	}
	for i, v := range b {
		if int(v) >= len(s.methods[i].Options) {
			return Selection{}, fmt.Errorf("%w: %s option %d out of range [0,%d)",
				ErrSchemaMismatch, s.methods[i].Name, v, len(s.methods[i].Options))
		}
	}
	return Selection{schema: s, ords: append([]uint8(nil), b...)}, nil
}

// DecodeKey decodes the hexadecimal form returned by Selection.Key.
func (s *Schema) DecodeKey(key string) (Selection, error) {
	b, err := hex.DecodeString(key)
	if err != nil {
		return Selection{}, fmt.Errorf("%w: %v", ErrSchemaMismatch, err)
	}
	return s.Decode(b)
}

// Encode returns the byte form of sel, one ordinal per method.
func (s *Schema) Encode(sel Selection) ([]byte, error) {
	if sel.schema != s {
		return nil, fmt.Errorf("%w: selection belongs to another schema", ErrSchemaMismatch)
	}
	return sel.Bytes(), nil
}

// Selection is one option per method of a schema: a full permutation choice.
// Selections are immutable; With returns a modified copy.
type Selection struct {
	schema *Schema
	ords   []uint8
}

// Schema returns the schema the selection belongs to.
func (v Selection) Schema() *Schema { return v.schema }

// IsZero reports whether v is the zero Selection.
func (v Selection) IsZero() bool { return v.schema == nil }

// Len returns the number of methods.
func (v Selection) Len() int { return len(v.ords) }

// Ordinal returns the selected ordinal of method i, or -1 if i is out of
// range.
func (v Selection) Ordinal(i int) int {
	if i < 0 || i >= len(v.ords) {
		return -1
	}
	return int(v.ords[i])
}

// Option returns the selected option of method i.
func (v Selection) Option(i int) Option {
	if i < 0 || i >= len(v.ords) {
		return Option{}
	}
	return v.schema.methods[i].Options[v.ords[i]]
}

// OptionOf returns the selected option of the named method.
func (v Selection) OptionOf(method string) (Option, bool) {
	if v.schema == nil {
		return Option{}, false
	}
	i, ok := v.schema.index[method]
	if !ok {
		return Option{}, false
	}
	return v.Option(i), true
}

// With returns a copy of v with the named method set to o.
func (v Selection) With(method string, o Option) (Selection, error) {
	if v.schema == nil {
		return Selection{}, fmt.Errorf("%w: zero selection", ErrSchemaMismatch)
	}
	i, ok := v.schema.index[method]
	if !ok {
		return Selection{}, fmt.Errorf("%w: %s has no method %s", ErrSchemaMismatch, v.schema.name, method)
	}
	n, ok := v.schema.methods[i].Ordinal(o)
	if !ok {
		return Selection{}, fmt.Errorf("%w: %s is not an option of %s", ErrSchemaMismatch, o, method)
	}
	ords := append([]uint8(nil), v.ords...)
	ords[i] = uint8(n)
	return Selection{schema: v.schema, ords: ords}, nil
}

// Bytes returns the persisted form: one ordinal byte per method.
func (v Selection) Bytes() []byte {
	return append([]byte(nil), v.ords...)
}

// Key returns the lower-case hexadecimal form of Bytes.
func (v Selection) Key() string {
	return hex.EncodeToString(v.ords)
}

// Equal reports whether v and o select the same options of the same schema.
func (v Selection) Equal(o Selection) bool {
	return v.schema == o.schema && string(v.ords) == string(o.ords)
}

func (v Selection) String() string {
	if v.schema == nil {
		return "<none>"
	}
	var b strings.Builder
	for i, m := range v.schema.methods {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(m.Name)
		b.WriteByte('=')
		b.WriteString(lower(v.Option(i).Name()))
	}
	return b.String()
}
