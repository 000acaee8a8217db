package shadergen

import "fmt"

// Templates names the template files of a family without extension.
type Templates struct {
	Pixel        string
	SharedPixel  string
	SharedVertex string
}

// Family is the declarative description of one technique family: its
// option schema, entry point matrix, naming rules and binding tables.
// Families are data; the generator and assembler are shared.
type Family struct {
	Type   ShaderType
	Schema *Schema
	Matrix *EntryPointMatrix

	// AutoCategories adds category_<method>_option_<option> sentinels to
	// full pixel macro sets.
	AutoCategories bool

	Templates Templates

	// VertexSentinel replaces VertexHelperSentinel in shared vertex sets.
	VertexSentinel string

	// VertexMacros are emitted as <prefix> -> <prefix>_<vertex format>.
	VertexMacros []string

	// Globals are the frame-scope bindings shared by every program.
	Globals Parameters

	// OptionDir prefixes the path token returned by OptionParameters.
	OptionDir string
}

// Name returns the lower-case family tag, e.g. "shader".
func (f *Family) Name() string { return lower(f.Type.String()) }

// SharedMethodIndex returns the schema index of the method a shared pixel
// program at stage branches on.
func (f *Family) SharedMethodIndex(stage Stage) (int, bool) {
	name, ok := f.Matrix.SharedMethod(stage)
	if !ok {
		return -1, false
	}
	i, ok := f.Schema.MethodIndex(name)
	if !ok {
		return -1, false
	}
	return i, true
}

// MethodShared reports whether method is the one still selected by the
// shared pixel program at stage.
func (f *Family) MethodShared(stage Stage, method int) bool {
	i, ok := f.SharedMethodIndex(stage)
	return ok && i == method
}

func (f *Family) vertexSentinel() string {
	if f.VertexSentinel != "" {
		return f.VertexSentinel
	}
	return VertexHelperSentinel
}

func (f *Family) checkSelection(sel Selection) error {
	if sel.schema == nil {
		return ErrNotConfigured
	}
	if sel.schema != f.Schema {
		return fmt.Errorf("%w: selection of %s used with %s", ErrSchemaMismatch, sel.schema.name, f.Name())
	}
	return nil
}
