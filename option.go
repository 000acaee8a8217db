package shadergen

import "slices"

// Option is one discrete choice of a Method, identified by its display name.
//
// Families that share a concept (blend mode, self illumination) reference the
// same Option values from package catalog, so no option is ever re-mapped
// between families by string.
type Option struct {
	name string
}

// NewOption returns the option with the given display name.
func NewOption(name string) Option { return Option{name: name} }

// Name returns the display name, e.g. "Constant_Color".
func (o Option) Name() string { return o.name }

func (o Option) String() string { return o.name }

// IsZero reports whether o is the zero Option.
func (o Option) IsZero() bool { return o.name == "" }

// ParameterTable maps each option of a method to the bindings it requires.
// Options that need nothing still appear with an empty list.
type ParameterTable map[Option]Parameters

// MethodMacro is a resolved macro emitted for the selected option of a
// method, e.g. calc_albedo_ps -> calc_albedo_constant_color_ps.
type MethodMacro struct {
	Name   string
	Prefix string
	Suffix string

	// Only restricts the macro to the listed options. Empty means always.
	Only []Option

	// Substitute names the option whose name builds the definition in place
	// of the selected one.
	Substitute map[Option]Option
}

// resolve returns the macro for the selected option o, or false when Only
// excludes o.
func (mm MethodMacro) resolve(o Option) (Macro, bool) {
	if len(mm.Only) > 0 && !slices.Contains(mm.Only, o) {
		return Macro{}, false
	}
	if sub, ok := mm.Substitute[o]; ok {
		o = sub
	}
	return Macro{Name: mm.Name, Definition: lower(mm.Prefix + o.name + mm.Suffix)}, true
}

// Method is one axis of variation with its enumerated options and the
// declarative tables that describe what each option means.
type Method struct {
	// Name is the lower-case method name used in macro names, e.g. "albedo".
	Name string

	// Options is the enumeration. The index of an option is its ordinal.
	Options []Option

	// Macros are emitted for the selected option in order.
	Macros []MethodMacro

	// ArgName overrides the <name>_arg macro name.
	ArgName string

	// Pixel lists the pixel stage bindings per option.
	Pixel ParameterTable

	// Vertex lists the vertex stage bindings per option. Nil means the
	// method adds no option-specific vertex bindings.
	Vertex ParameterTable

	// VertexCategory appends a category_<name> float4 vertex binding after
	// the method's vertex entries.
	VertexCategory bool

	// Unsupported options fail parameter binding and pixel generation.
	Unsupported []Option
}

// OptionCount returns the size of the enumeration.
func (m *Method) OptionCount() int { return len(m.Options) }

// Ordinal returns the ordinal of o within m.
func (m *Method) Ordinal(o Option) (int, bool) {
	i := slices.Index(m.Options, o)
	return i, i >= 0
}

// Supported reports whether o can be built.
func (m *Method) Supported(o Option) bool {
	return !slices.Contains(m.Unsupported, o)
}

func (m *Method) argName() string {
	if m.ArgName != "" {
		return m.ArgName
	}
	return m.Name + "_arg"
}

func (m *Method) checkSupported(o Option) error {
	if !m.Supported(o) {
		return &UnsupportedOptionError{Method: m.Name, Option: o}
	}
	return nil
}
