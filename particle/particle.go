// Package particle declares the particle technique family.
//
// Particles support only the Default stage, share no pixel program and are
// drawn with the Particle and Particle_Model vertex formats. Full pixel
// macro sets carry category sentinels, and most methods add a
// category_<method> vertex binding.
package particle

import (
	"sync"

	"github.com/gogpu/shadergen"
	c "github.com/gogpu/shadergen/catalog"
)

// Method names in schema order.
const (
	MethodAlbedo               = "albedo"
	MethodBlendMode            = "blend_mode"
	MethodSpecializedRendering = "specialized_rendering"
	MethodLighting             = "lighting"
	MethodRenderTargets        = "render_targets"
	MethodDepthFade            = "depth_fade"
	MethodBlackPoint           = "black_point"
	MethodFog                  = "fog"
	MethodFrameBlend           = "frame_blend"
	MethodSelfIllumination     = "self_illumination"
)

// Template names without extension.
const (
	PixelTemplate        = "pixl_particle"
	SharedPixelTemplate  = "glps_particle"
	SharedVertexTemplate = "glvs_particle"
)

var (
	familyOnce sync.Once
	family     *shadergen.Family
)

// Family returns the particle family. The value is built once and must not
// be modified.
func Family() *shadergen.Family {
	familyOnce.Do(func() { family = newFamily() })
	return family
}

// Schema returns the particle family's option schema.
func Schema() *shadergen.Schema { return Family().Schema }

// NewGenerator is shorthand for shadergen.NewGenerator(Family(), opts...).
func NewGenerator(opts ...shadergen.GeneratorOption) *shadergen.Generator {
	return shadergen.NewGenerator(Family(), opts...)
}

var (
	params    = shadergen.Params
	sampler   = shadergen.Sampler
	samplerNT = shadergen.SamplerNoTransform
	float     = shadergen.Float
	float4    = shadergen.Float4
)

type options = []shadergen.Option

func newFamily() *shadergen.Family {
	return &shadergen.Family{
		Type: shadergen.TypeParticle,
		Schema: shadergen.NewSchema("particle",
			albedo(),
			blendMode(),
			specializedRendering(),
			lighting(),
			bare(MethodRenderTargets, options{c.RenderTargetsLDRAndHDR, c.RenderTargetsLDROnly},
				shadergen.MethodMacro{Name: "particle_render_targets", Prefix: "render_targets_"}),
			depthFade(),
			bare(MethodBlackPoint, options{c.Off, c.On}),
			withCategory(bare(MethodFog, options{c.Off, c.On})),
			frameBlend(),
			selfIllumination(),
		),
		Matrix: shadergen.NewEntryPointMatrix(
			map[shadergen.Stage]shadergen.StageSupport{
				shadergen.StageDefault: {},
			},
			shadergen.VertexParticle,
			shadergen.VertexParticleModel,
		),
		AutoCategories: true,
		Templates: shadergen.Templates{
			Pixel:        PixelTemplate,
			SharedPixel:  SharedPixelTemplate,
			SharedVertex: SharedVertexTemplate,
		},
		VertexSentinel: shadergen.DefinitionHelperSentinel,
		VertexMacros:   []string{"calc_vertex_transform", "transform_unknown_vector"},
		Globals: params(
			samplerNT("depth_buffer").From(shadergen.ExternGlobalTargetZ),
			float4("screen_constants").From(shadergen.ExternScreenConstants),
		),
		OptionDir: `shaders\particle_options`,
	}
}

func albedo() *shadergen.Method {
	palettized := params(sampler("base_map"), samplerNT("palette"))
	plasma := params(
		sampler("base_map"),
		sampler("base_map2"),
		samplerNT("palette"),
		sampler("alpha_map"),
	)
	return &shadergen.Method{
		Name: MethodAlbedo,
		Options: options{
			c.AlbedoDiffuseOnly,
			c.AlbedoDiffusePlusBillboardAlpha,
			c.AlbedoPalettized,
			c.AlbedoPalettizedPlusBillboardAlpha,
			c.AlbedoDiffusePlusSpriteAlpha,
			c.AlbedoPalettizedPlusSpriteAlpha,
			c.AlbedoDiffuseModulated,
			c.AlbedoPalettizedGlow,
			c.AlbedoPalettizedPlasma,
			c.AlbedoPalettized2dPlasma,
		},
		Macros: []shadergen.MethodMacro{
			{Name: "calc_albedo_ps", Prefix: "calc_albedo_", Suffix: "_ps"},
		},
		VertexCategory: true,
		Pixel: shadergen.ParameterTable{
			c.AlbedoDiffuseOnly:                  params(sampler("base_map")),
			c.AlbedoDiffusePlusBillboardAlpha:    params(sampler("base_map"), sampler("alpha_map")),
			c.AlbedoPalettized:                   palettized,
			c.AlbedoPalettizedPlusBillboardAlpha: append(palettized.Clone(), sampler("alpha_map")),
			c.AlbedoDiffusePlusSpriteAlpha:       params(sampler("base_map"), sampler("alpha_map")),
			c.AlbedoPalettizedPlusSpriteAlpha:    append(palettized.Clone(), sampler("alpha_map")),
			c.AlbedoDiffuseModulated: params(
				sampler("base_map"),
				float4("tint_color"),
				float("modulation_factor"),
			),
			c.AlbedoPalettizedGlow:     params(sampler("base_map"), float4("tint_color")),
			c.AlbedoPalettizedPlasma:   append(plasma.Clone(), float("alpha_modulation_factor")),
			c.AlbedoPalettized2dPlasma: plasma,
		},
	}
}

func blendMode() *shadergen.Method {
	m := bare(MethodBlendMode, c.BlendModes(),
		shadergen.MethodMacro{Name: "blend_type", Prefix: "blend_type_"})
	m.ArgName = "blend_type_arg"
	return withCategory(m)
}

func specializedRendering() *shadergen.Method {
	distortion := params(float("distortion_scale"))
	return &shadergen.Method{
		Name: MethodSpecializedRendering,
		Options: options{
			c.None,
			c.RenderingDistortion,
			c.RenderingDistortionExpensive,
			c.RenderingDistortionDiffuse,
			c.RenderingDistortionExpensiveDiffuse,
		},
		Macros: []shadergen.MethodMacro{
			{Name: "particle_specialized_rendering", Prefix: "specialized_rendering_"},
		},
		VertexCategory: true,
		Pixel: shadergen.ParameterTable{
			c.None:                                params(),
			c.RenderingDistortion:                 distortion,
			c.RenderingDistortionExpensive:        distortion,
			c.RenderingDistortionDiffuse:          distortion,
			c.RenderingDistortionExpensiveDiffuse: distortion,
		},
	}
}

func lighting() *shadergen.Method {
	return withCategory(bare(MethodLighting,
		options{
			c.None,
			c.LightingPerPixelRaviOrder3,
			c.LightingPerVertexRaviOrder0,
			c.LightingPerPixelSmooth,
			c.LightingPerVertexAmbient,
			c.LightingSmoke,
		},
		shadergen.MethodMacro{Name: "particle_lighting", Prefix: "lighting_"}))
}

func depthFade() *shadergen.Method {
	m := bare(MethodDepthFade, options{c.Off, c.On})
	m.Pixel[c.On] = params(float("depth_fade_range"))
	return m
}

func frameBlend() *shadergen.Method {
	m := withCategory(bare(MethodFrameBlend, options{c.Off, c.On}))
	m.Vertex = shadergen.ParameterTable{
		c.Off: params(),
		c.On:  params(float("starting_uv_scale"), float("ending_uv_scale")),
	}
	return m
}

func selfIllumination() *shadergen.Method {
	m := withCategory(bare(MethodSelfIllumination, options{c.Off, c.SelfIllumConstantColor}))
	m.Vertex = shadergen.ParameterTable{
		c.Off:                    params(),
		c.SelfIllumConstantColor: params(float4("self_illum_color")),
	}
	return m
}

// bare builds a method whose options bind nothing in the pixel stage.
func bare(name string, opts options, macros ...shadergen.MethodMacro) *shadergen.Method {
	pixel := make(shadergen.ParameterTable, len(opts))
	for _, o := range opts {
		pixel[o] = params()
	}
	return &shadergen.Method{
		Name:    name,
		Options: opts,
		Macros:  macros,
		Pixel:   pixel,
	}
}

func withCategory(m *shadergen.Method) *shadergen.Method {
	m.VertexCategory = true
	return m
}
