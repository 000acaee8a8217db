package shadergen

import (
	"context"
	"sync/atomic"
)

var (
	optDefault       = NewOption("Default")
	optConstantColor = NewOption("Constant_Color")
	optNone          = NewOption("None")
	optSimple        = NewOption("Simple")
	optDiffuseOnly   = NewOption("Diffuse_Only")
	optCarPaint      = NewOption("Car_Paint")
	optOff           = NewOption("Off")
	optSimpleDetail  = NewOption("Simple_Detail")
)

// testFamily is a small family with one method per assembler feature:
// Only, Substitute, an unsupported option, an _arg override, vertex
// categories and both kinds of shared pixel stage.
func testFamily() *Family {
	return &Family{
		Type: TypeShader,
		Schema: NewSchema("test",
			&Method{
				Name:    "albedo",
				Options: []Option{optDefault, optConstantColor},
				Macros: []MethodMacro{
					{Name: "calc_albedo_ps", Prefix: "calc_albedo_", Suffix: "_ps"},
					{Name: "calc_albedo_vs", Prefix: "calc_albedo_", Suffix: "_vs", Only: []Option{optConstantColor}},
				},
				Pixel: ParameterTable{
					optDefault:       Params(Sampler("base_map"), Color4("albedo_color")),
					optConstantColor: Params(Color4("albedo_color")),
				},
			},
			&Method{
				Name:    "alpha_test",
				Options: []Option{optNone, optSimple},
				Macros: []MethodMacro{
					{Name: "calc_alpha_test_ps", Prefix: "calc_alpha_test_", Suffix: "_ps"},
				},
				Pixel: ParameterTable{
					optNone:   Params(),
					optSimple: Params(Sampler("alpha_test_map")),
				},
			},
			&Method{
				Name:        "material_model",
				Options:     []Option{optDiffuseOnly, optCarPaint},
				Macros:      []MethodMacro{{Name: "material_type", Prefix: "material_type_"}},
				ArgName:     "material_type_arg",
				Unsupported: []Option{optCarPaint},
				Pixel: ParameterTable{
					optDiffuseOnly: Params(Bool("no_dynamic_lights")),
					optCarPaint:    Params(),
				},
			},
			&Method{
				Name:    "parallax",
				Options: []Option{optOff, optSimple, optSimpleDetail},
				Macros: []MethodMacro{
					{Name: "calc_parallax_ps", Prefix: "calc_parallax_", Suffix: "_ps"},
					{
						Name:       "calc_parallax_vs",
						Prefix:     "calc_parallax_",
						Suffix:     "_vs",
						Substitute: map[Option]Option{optSimpleDetail: optSimple},
					},
				},
				Pixel: ParameterTable{
					optOff:          Params(),
					optSimple:       Params(Sampler("height_map")),
					optSimpleDetail: Params(Sampler("height_map"), Sampler("height_scale_map")),
				},
				Vertex: ParameterTable{
					optSimple: Params(Float("height_scale")),
				},
				VertexCategory: true,
			},
		),
		Matrix: NewEntryPointMatrix(map[Stage]StageSupport{
			StageAlbedo:         {},
			StageDynamicLight:   {},
			StageShadowGenerate: {SharedPixel: true, SharedMethod: "alpha_test"},
			StageStaticSH:       {SharedPixel: true},
		}, VertexRigid, VertexWorld),
		Templates: Templates{
			Pixel:        "pixl_test",
			SharedPixel:  "glps_test",
			SharedVertex: "glvs_test",
		},
		VertexMacros: []string{"calc_vertex_transform"},
		Globals: Params(
			SamplerNoTransform("depth_buffer").From(ExternGlobalTargetZ),
		),
		OptionDir: `shaders\test_options`,
	}
}

// echoBackend returns "<template>:<entry>" as bytecode.
func echoBackend() Backend {
	return BackendFunc(func(_ context.Context, req CompileRequest) ([]byte, error) {
		return []byte(req.Template + ":" + req.Entry), nil
	})
}

// countingBackend counts Compile calls.
type countingBackend struct {
	calls atomic.Int64
	fn    BackendFunc
}

func (b *countingBackend) Compile(ctx context.Context, req CompileRequest) ([]byte, error) {
	b.calls.Add(1)
	if b.fn != nil {
		return b.fn(ctx, req)
	}
	return []byte(req.Entry), nil
}
