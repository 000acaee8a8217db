package shadergen

import "slices"

// StageSupport describes one supported stage of a family.
type StageSupport struct {
	// SharedPixel marks a pixel program that serves every selection.
	SharedPixel bool

	// SharedMethod names the single method a shared pixel program still
	// branches on, if any.
	SharedMethod string
}

// EntryPointMatrix answers, per family, which stages and vertex formats
// exist and which programs are shared across selections.
type EntryPointMatrix struct {
	stages  map[Stage]StageSupport
	formats []VertexFormat
}

// NewEntryPointMatrix builds a matrix. Stages absent from stages are
// unsupported.
func NewEntryPointMatrix(stages map[Stage]StageSupport, formats ...VertexFormat) *EntryPointMatrix {
	m := &EntryPointMatrix{
		stages:  make(map[Stage]StageSupport, len(stages)),
		formats: slices.Clone(formats),
	}
	for s, sup := range stages {
		m.stages[s] = sup
	}
	slices.Sort(m.formats)
	return m
}

// Supported reports whether the family defines a pixel program for stage.
func (m *EntryPointMatrix) Supported(stage Stage) bool {
	_, ok := m.stages[stage]
	return ok
}

// PixelShared reports whether one pixel program serves all selections at
// stage. Unsupported stages are never shared.
func (m *EntryPointMatrix) PixelShared(stage Stage) bool {
	return m.stages[stage].SharedPixel
}

// SharedMethod returns the method a shared pixel program branches on.
func (m *EntryPointMatrix) SharedMethod(stage Stage) (string, bool) {
	sup, ok := m.stages[stage]
	if !ok || !sup.SharedPixel || sup.SharedMethod == "" {
		return "", false
	}
	return sup.SharedMethod, true
}

// VertexShared reports whether vertex programs at stage are shared across
// selections. Vertex programs depend only on vertex format and stage, so
// this is always true.
func (m *EntryPointMatrix) VertexShared(Stage) bool { return true }

// VertexFormatSupported reports whether the family accepts vf.
func (m *EntryPointMatrix) VertexFormatSupported(vf VertexFormat) bool {
	_, ok := slices.BinarySearch(m.formats, vf)
	return ok
}

// Stages returns the supported stages in ordinal order.
func (m *EntryPointMatrix) Stages() []Stage {
	out := make([]Stage, 0, len(m.stages))
	for s := range m.stages {
		out = append(out, s)
	}
	slices.Sort(out)
	return out
}

// VertexFormats returns the supported vertex formats in ordinal order.
func (m *EntryPointMatrix) VertexFormats() []VertexFormat {
	return slices.Clone(m.formats)
}
