package shadergen

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/gogpu/gputypes"
)

// Generator exposes one family's permutations: option introspection, the
// four generation paths and the three parameter lists.
//
// A Generator holds no mutable state and is safe for concurrent use. Each
// generation call builds its own include resolver.
type Generator struct {
	family *Family
	opts   generatorOptions
}

// NewGenerator creates a generator for family f.
//
// Example:
//
//	sel, _ := shader.Schema().Default().With("albedo", catalog.AlbedoConstantColor)
//	gen := shadergen.NewGenerator(shader.Family(), shadergen.WithSelection(sel))
//	params, _ := gen.PixelParameters()
func NewGenerator(f *Family, opts ...GeneratorOption) *Generator {
	o := defaultGeneratorOptions()
	for _, opt := range opts {
		opt(&o)
	}
	return &Generator{family: f, opts: o}
}

// Family returns the generator's family.
func (g *Generator) Family() *Family { return g.family }

// Selection returns the bound selection and whether one is bound.
func (g *Generator) Selection() (Selection, bool) {
	return g.opts.selection, !g.opts.selection.IsZero()
}

// MethodCount returns the number of methods of the family.
func (g *Generator) MethodCount() int { return g.family.Schema.MethodCount() }

// OptionCount returns the option count of method i, or -1.
func (g *Generator) OptionCount(i int) int { return g.family.Schema.OptionCount(i) }

// MethodNames returns the method names in schema order.
func (g *Generator) MethodNames() []string { return g.family.Schema.MethodNames() }

// OptionValue returns the selected ordinal of method i.
func (g *Generator) OptionValue(i int) (int, error) {
	sel, err := g.bound()
	if err != nil {
		return -1, err
	}
	if i < 0 || i >= sel.Len() {
		return -1, fmt.Errorf("%w: method index %d out of range [0,%d)", ErrSchemaMismatch, i, sel.Len())
	}
	return sel.Ordinal(i), nil
}

func (g *Generator) bound() (Selection, error) {
	sel := g.opts.selection
	if sel.IsZero() {
		return Selection{}, ErrNotConfigured
	}
	if err := g.family.checkSelection(sel); err != nil {
		return Selection{}, err
	}
	return sel, nil
}

// PixelMacros assembles the macro set GeneratePixel would hand the backend
// for stage. A nil set with a nil error means the stage has no pixel
// program.
func (g *Generator) PixelMacros(stage Stage) (MacroSet, error) {
	sel, err := g.bound()
	if err != nil {
		return nil, err
	}
	m := g.family.Matrix
	if !m.Supported(stage) {
		return nil, nil
	}
	if m.PixelShared(stage) {
		i, ok := g.family.SharedMethodIndex(stage)
		if !ok {
			return AssembleSharedPixel(g.family, stage, -1, 0, g.opts.fixes)
		}
		return AssembleSharedPixel(g.family, stage, i, sel.Ordinal(i), g.opts.fixes)
	}
	return AssemblePixel(g.family, sel, stage, g.opts.fixes)
}

// SharedPixelMacros assembles the macro set of the shared pixel program at
// stage for one option of the shared method. Pass a negative method for a
// stage whose shared program branches on no method.
func (g *Generator) SharedPixelMacros(stage Stage, method, ordinal int) (MacroSet, error) {
	m := g.family.Matrix
	if !m.Supported(stage) || !m.PixelShared(stage) {
		return nil, nil
	}
	shared, ok := g.family.SharedMethodIndex(stage)
	switch {
	case ok && shared != method:
		return nil, nil
	case !ok && method >= 0:
		return nil, nil
	case !ok:
		method = -1
	}
	return AssembleSharedPixel(g.family, stage, method, ordinal, g.opts.fixes)
}

// SharedVertexMacros assembles the macro set of the shared vertex program.
func (g *Generator) SharedVertexMacros(vf VertexFormat, stage Stage) (MacroSet, error) {
	m := g.family.Matrix
	if !m.VertexFormatSupported(vf) || !m.Supported(stage) {
		return nil, nil
	}
	return AssembleSharedVertex(g.family, vf, stage, g.opts.fixes)
}

// GeneratePixel compiles the pixel program of the bound selection at stage.
// An unsupported stage yields a nil program. A stage whose pixel program is
// shared yields the shared program for the selection's option of the
// shared method.
func (g *Generator) GeneratePixel(ctx context.Context, stage Stage) (*Program, error) {
	macros, err := g.PixelMacros(stage)
	if err != nil || macros == nil {
		return nil, err
	}
	sel := g.opts.selection
	if g.family.Matrix.PixelShared(stage) {
		i, ok := g.family.SharedMethodIndex(stage)
		ordinal := 0
		if ok {
			ordinal = sel.Ordinal(i)
		}
		return g.compile(ctx, ProgramSharedPixel, g.family.Templates.SharedPixel, stage, macros,
			g.sharedPixelKey(stage, i, ordinal))
	}
	return g.compile(ctx, ProgramPixel, g.family.Templates.Pixel, stage, macros,
		g.key(ProgramPixel, sel.Key(), stage.String()))
}

// GenerateVertex compiles the vertex program for the bound selection.
// Vertex programs never depend on the selection, so this is the shared
// vertex program; it still requires a bound selection.
func (g *Generator) GenerateVertex(ctx context.Context, vf VertexFormat, stage Stage) (*Program, error) {
	if _, err := g.bound(); err != nil {
		return nil, err
	}
	return g.GenerateSharedVertex(ctx, vf, stage)
}

// GenerateSharedPixel compiles the shared pixel program at stage for
// option ordinal of method. It yields a nil program when stage is
// unsupported, not shared, or does not branch on method.
func (g *Generator) GenerateSharedPixel(ctx context.Context, stage Stage, method, ordinal int) (*Program, error) {
	macros, err := g.SharedPixelMacros(stage, method, ordinal)
	if err != nil || macros == nil {
		return nil, err
	}
	if method < 0 {
		method, ordinal = -1, 0
	}
	return g.compile(ctx, ProgramSharedPixel, g.family.Templates.SharedPixel, stage, macros,
		g.sharedPixelKey(stage, method, ordinal))
}

// GenerateSharedVertex compiles the vertex program shared by every
// selection. It yields a nil program when the family does not support vf
// or stage.
func (g *Generator) GenerateSharedVertex(ctx context.Context, vf VertexFormat, stage Stage) (*Program, error) {
	macros, err := g.SharedVertexMacros(vf, stage)
	if err != nil || macros == nil {
		return nil, err
	}
	return g.compile(ctx, ProgramSharedVertex, g.family.Templates.SharedVertex, stage, macros,
		g.key(ProgramSharedVertex, vf.String(), stage.String()))
}

// PixelParameters returns the pixel bindings of the bound selection.
func (g *Generator) PixelParameters() (Parameters, error) {
	sel, err := g.bound()
	if err != nil {
		return nil, err
	}
	return PixelParameters(g.family, sel)
}

// VertexParameters returns the vertex bindings of the bound selection.
func (g *Generator) VertexParameters() (Parameters, error) {
	sel, err := g.bound()
	if err != nil {
		return nil, err
	}
	return VertexParameters(g.family, sel)
}

// GlobalParameters returns the family's frame-scope bindings. It needs no
// selection.
func (g *Generator) GlobalParameters() Parameters {
	return GlobalParameters(g.family)
}

// OptionParameters returns the bindings one option requires in isolation
// and its path token. It needs no selection.
func (g *Generator) OptionParameters(method string, ordinal int) (Parameters, string, error) {
	return OptionParameters(g.family, method, ordinal)
}

func (g *Generator) sharedPixelKey(stage Stage, method, ordinal int) string {
	return g.key(ProgramSharedPixel, strconv.Itoa(method)+":"+strconv.Itoa(ordinal), stage.String())
}

func (g *Generator) key(kind ProgramKind, variant, stage string) string {
	profile := g.opts.pixelProfile
	if kind == ProgramSharedVertex {
		profile = g.opts.vertexProfile
	}
	return fmt.Sprintf("%s/%s/%s/%s/%s/%s/%t/%s", g.family.Name(), kind, variant, stage,
		g.opts.extension, profile, g.opts.fixes, backendKey(g.opts.backend))
}

func (g *Generator) compile(ctx context.Context, kind ProgramKind, base string, stage Stage, macros MacroSet, key string) (*Program, error) {
	if g.opts.backend == nil {
		return nil, ErrNoBackend
	}
	if g.opts.cache != nil {
		return g.opts.cache.getOrCompile(ctx, key, func(ctx context.Context) (*Program, error) {
			return g.build(ctx, kind, base, stage, macros)
		})
	}
	return g.build(ctx, kind, base, stage, macros)
}

func (g *Generator) build(ctx context.Context, kind ProgramKind, base string, stage Stage, macros MacroSet) (*Program, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	p := &Program{
		Kind:     kind,
		Stage:    gputypes.ShaderStageFragment,
		Template: base + g.opts.extension,
		Entry:    stage.EntryPoint(),
		Profile:  g.opts.pixelProfile,
		Macros:   macros,
	}
	if kind == ProgramSharedVertex {
		p.Stage = gputypes.ShaderStageVertex
		p.Profile = g.opts.vertexProfile
	}

	req := CompileRequest{
		Template: p.Template,
		Entry:    p.Entry,
		Profile:  p.Profile,
		Macros:   macros,
		Stage:    p.Stage,
	}
	if g.opts.templates != nil {
		req.Includes = g.opts.templates.Scope(p.Template)
	}

	log := Logger()
	log.Debug("shadergen: compiling",
		slog.String("family", g.family.Name()),
		slog.String("kind", kind.String()),
		slog.String("template", p.Template),
		slog.String("entry", p.Entry),
		slog.Int("macros", len(macros)))

	code, err := g.opts.backend.Compile(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("shadergen: %s %s: %w", g.family.Name(), p.Entry, err)
	}
	p.Bytecode = code
	return p, nil
}
