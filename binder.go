package shadergen

import "fmt"

// PixelParameters returns the pixel stage bindings of sel: each method's
// table entry for its selected option, concatenated in schema order.
func PixelParameters(f *Family, sel Selection) (Parameters, error) {
	if err := f.checkSelection(sel); err != nil {
		return nil, err
	}
	out := Parameters{}
	for i, m := range f.Schema.methods {
		o := sel.Option(i)
		if err := m.checkSupported(o); err != nil {
			return nil, err
		}
		out = append(out, m.Pixel[o]...)
	}
	return out, nil
}

// VertexParameters returns the vertex stage bindings of sel. A method with
// VertexCategory contributes category_<method> after its own entries.
func VertexParameters(f *Family, sel Selection) (Parameters, error) {
	if err := f.checkSelection(sel); err != nil {
		return nil, err
	}
	out := Parameters{}
	for i, m := range f.Schema.methods {
		out = append(out, m.Vertex[sel.Option(i)]...)
		if m.VertexCategory {
			out = append(out, Float4("category_"+m.Name))
		}
	}
	return out, nil
}

// GlobalParameters returns the frame-scope bindings of f.
func GlobalParameters(f *Family) Parameters {
	return f.Globals.Clone()
}

// OptionParameters returns the pixel bindings required by one option of one
// method in isolation, with the path token that identifies the option to
// authoring tools.
func OptionParameters(f *Family, method string, ordinal int) (Parameters, string, error) {
	i, ok := f.Schema.MethodIndex(method)
	if !ok {
		return nil, "", fmt.Errorf("%w: %s has no method %s", ErrSchemaMismatch, f.Name(), method)
	}
	m := f.Schema.methods[i]
	if ordinal < 0 || ordinal >= len(m.Options) {
		return nil, "", fmt.Errorf("%w: %s option %d out of range [0,%d)",
			ErrSchemaMismatch, method, ordinal, len(m.Options))
	}
	o := m.Options[ordinal]
	if err := m.checkSupported(o); err != nil {
		return nil, "", err
	}
	return m.Pixel[o].Clone(), f.OptionPath(m, o), nil
}

// OptionPath returns the identifying path token of option o of m, e.g.
// shaders\particle_options\albedo_palettized.
func (f *Family) OptionPath(m *Method, o Option) string {
	token := lower(m.Name + "_" + o.name)
	if f.OptionDir == "" {
		return token
	}
	return f.OptionDir + `\` + token
}
