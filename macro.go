package shadergen

import (
	"fmt"
	"strconv"
)

// Control macro names.
const (
	// DefinitionHelperSentinel disables the definition helper include in
	// pixel templates.
	DefinitionHelperSentinel = "_DEFINITION_HELPER_HLSLI"

	// VertexHelperSentinel disables the vertex helper include in vertex
	// templates.
	VertexHelperSentinel = "_VERTEX_SHADER_HELPER_HLSLI"

	// FixesMacro carries the fixes flag as 0 or 1.
	FixesMacro = "APPLY_HLSL_FIXES"
)

// Macro is one preprocessor definition.
type Macro struct {
	Name       string `yaml:"name" toml:"name"`
	Definition string `yaml:"definition" toml:"definition"`
}

// MacroSet is an ordered list of macros handed to the backend.
type MacroSet []Macro

// Validate fails with a *DuplicateMacroError for the first name that
// appears twice.
func (s MacroSet) Validate() error {
	seen := make(map[string]struct{}, len(s))
	for _, m := range s {
		if _, dup := seen[m.Name]; dup {
			return &DuplicateMacroError{Name: m.Name}
		}
		seen[m.Name] = struct{}{}
	}
	return nil
}

// Lookup returns the definition of name.
func (s MacroSet) Lookup(name string) (string, bool) {
	for _, m := range s {
		if m.Name == name {
			return m.Definition, true
		}
	}
	return "", false
}

// Names returns the macro names in order.
func (s MacroSet) Names() []string {
	names := make([]string, len(s))
	for i, m := range s {
		names[i] = m.Name
	}
	return names
}

// Map returns the set as a name -> definition map.
func (s MacroSet) Map() map[string]string {
	out := make(map[string]string, len(s))
	for _, m := range s {
		out[m.Name] = m.Definition
	}
	return out
}

// Equal reports whether s and o hold the same macros in the same order.
func (s MacroSet) Equal(o MacroSet) bool {
	if len(s) != len(o) {
		return false
	}
	for i := range s {
		if s[i] != o[i] {
			return false
		}
	}
	return true
}

// macroBuilder accumulates a macro set in emission order.
type macroBuilder struct {
	set MacroSet
}

func (b *macroBuilder) add(name, definition string) {
	b.set = append(b.set, Macro{Name: name, Definition: definition})
}

func (b *macroBuilder) flag(name string, on bool) {
	if on {
		b.add(name, "1")
	} else {
		b.add(name, "0")
	}
}

// enum emits k_<group>_<value> = ordinal for every value.
func (b *macroBuilder) enum(group string, names []string) {
	for i, n := range names {
		b.add(enumName(group, n), strconv.Itoa(i))
	}
}

func (b *macroBuilder) methodEnum(m *Method) {
	for i, o := range m.Options {
		b.add(enumName(m.Name, o.name), strconv.Itoa(i))
	}
}

func (b *macroBuilder) methodCategories(m *Method) {
	for _, o := range m.Options {
		n := categoryName(m.Name, o.name)
		b.add(n, n)
	}
}

func (b *macroBuilder) resolved(m *Method, o Option) {
	for _, mm := range m.Macros {
		if macro, ok := mm.resolve(o); ok {
			b.set = append(b.set, macro)
		}
	}
}

func (b *macroBuilder) arg(m *Method, o Option) {
	b.add(m.argName(), enumName(m.Name, o.name))
}

func (b *macroBuilder) stageAndType(stage Stage, t ShaderType) {
	b.add("shaderstage", enumName("shaderstage", stage.String()))
	b.add("shadertype", enumName("shadertype", t.String()))
}

func (b *macroBuilder) finish() (MacroSet, error) {
	if err := b.set.Validate(); err != nil {
		return nil, err
	}
	return b.set, nil
}

// AssemblePixel builds the full macro set that selects one permutation of
// f's pixel template at stage.
//
// The set holds, in order: the definition helper sentinel, the stage and
// family tables, every method's enumeration table, the category sentinels
// when the family uses them, the fixes flag, each method's resolved macros
// for the selected option, the stage and family tags and one _arg macro per
// method.
func AssemblePixel(f *Family, sel Selection, stage Stage, fixes bool) (MacroSet, error) {
	if err := f.checkSelection(sel); err != nil {
		return nil, err
	}
	if !stage.Valid() {
		return nil, fmt.Errorf("shadergen: invalid stage %d", stage)
	}
	methods := f.Schema.methods
	for i, m := range methods {
		if err := m.checkSupported(sel.Option(i)); err != nil {
			return nil, err
		}
	}

	var b macroBuilder
	b.add(DefinitionHelperSentinel, "1")
	b.enum("shaderstage", stageNames)
	b.enum("shadertype", shaderTypeNames)
	for _, m := range methods {
		b.methodEnum(m)
	}
	if f.AutoCategories {
		for _, m := range methods {
			b.methodCategories(m)
		}
	}
	b.flag(FixesMacro, fixes)
	for i, m := range methods {
		b.resolved(m, sel.Option(i))
	}
	b.stageAndType(stage, f.Type)
	for i, m := range methods {
		b.arg(m, sel.Option(i))
	}
	return b.finish()
}

// AssembleSharedPixel builds the reduced macro set for a stage whose pixel
// program is shared across selections. Only the method the stage branches
// on contributes, with the given ordinal; a negative method means the shared
// program branches on no method.
func AssembleSharedPixel(f *Family, stage Stage, method, ordinal int, fixes bool) (MacroSet, error) {
	var m *Method
	var o Option
	if method >= 0 {
		m = f.Schema.Method(method)
		if m == nil {
			return nil, fmt.Errorf("%w: %s has no method %d", ErrSchemaMismatch, f.Name(), method)
		}
		if ordinal < 0 || ordinal >= len(m.Options) {
			return nil, fmt.Errorf("%w: %s option %d out of range [0,%d)",
				ErrSchemaMismatch, m.Name, ordinal, len(m.Options))
		}
		o = m.Options[ordinal]
	}

	var b macroBuilder
	b.add(DefinitionHelperSentinel, "1")
	b.enum("shaderstage", stageNames)
	b.enum("shadertype", shaderTypeNames)
	if m != nil {
		b.methodEnum(m)
	}
	b.flag(FixesMacro, fixes)
	if m != nil {
		b.resolved(m, o)
	}
	b.stageAndType(stage, f.Type)
	if m != nil {
		b.arg(m, o)
	}
	return b.finish()
}

// AssembleSharedVertex builds the macro set of the vertex program shared by
// every selection for vertex format vf at stage.
func AssembleSharedVertex(f *Family, vf VertexFormat, stage Stage, fixes bool) (MacroSet, error) {
	if !vf.Valid() {
		return nil, fmt.Errorf("shadergen: invalid vertex format %d", vf)
	}
	format := lower(vf.String())

	var b macroBuilder
	b.add(f.vertexSentinel(), "1")
	b.enum("shaderstage", stageNames)
	b.enum("vertextype", vertexFormatNames)
	b.flag(FixesMacro, fixes)
	for _, prefix := range f.VertexMacros {
		b.add(prefix, prefix+"_"+format)
	}
	b.add("input_vertex_format", upper(vf.String())+"_VERTEX")
	b.add("shaderstage", enumName("shaderstage", stage.String()))
	b.add("vertextype", enumName("vertextype", vf.String()))
	return b.finish()
}
