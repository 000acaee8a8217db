// Package shader declares the general "shader" technique family: eleven
// methods from albedo to distortion, fourteen supported stages with a
// shared shadow generate pixel program, and the World, Rigid and Skinned
// vertex formats.
package shader

import (
	"sync"

	"github.com/gogpu/shadergen"
)

// Method names in schema order.
const (
	MethodAlbedo             = "albedo"
	MethodBumpMapping        = "bump_mapping"
	MethodAlphaTest          = "alpha_test"
	MethodSpecularMask       = "specular_mask"
	MethodMaterialModel      = "material_model"
	MethodEnvironmentMapping = "environment_mapping"
	MethodSelfIllumination   = "self_illumination"
	MethodBlendMode          = "blend_mode"
	MethodParallax           = "parallax"
	MethodMisc               = "misc"
	MethodDistortion         = "distortion"
)

// Template names without extension.
const (
	PixelTemplate        = "pixl_shader"
	SharedPixelTemplate  = "glps_shader"
	SharedVertexTemplate = "glvs_shader"
)

var (
	familyOnce sync.Once
	family     *shadergen.Family
)

// Family returns the shader family. The value is built once and must not be
// modified.
func Family() *shadergen.Family {
	familyOnce.Do(func() { family = newFamily() })
	return family
}

// Schema returns the shader family's option schema.
func Schema() *shadergen.Schema { return Family().Schema }

// NewGenerator is shorthand for shadergen.NewGenerator(Family(), opts...).
func NewGenerator(opts ...shadergen.GeneratorOption) *shadergen.Generator {
	return shadergen.NewGenerator(Family(), opts...)
}

func newFamily() *shadergen.Family {
	supported := shadergen.StageSupport{}
	stages := map[shadergen.Stage]shadergen.StageSupport{
		shadergen.StageAlbedo:                supported,
		shadergen.StageStaticPRTAmbient:      supported,
		shadergen.StageStaticPRTLinear:       supported,
		shadergen.StageStaticPRTQuadratic:    supported,
		shadergen.StageStaticPerPixel:        supported,
		shadergen.StageStaticPerVertex:       supported,
		shadergen.StageStaticPerVertexColor:  supported,
		shadergen.StageActiveCamo:            supported,
		shadergen.StageSfxDistort:            supported,
		shadergen.StageDynamicLight:          supported,
		shadergen.StageDynamicLightCinematic: supported,
		shadergen.StageLightmapDebugMode:     supported,
		shadergen.StageStaticSH:              supported,
		shadergen.StageShadowGenerate: {
			SharedPixel:  true,
			SharedMethod: MethodAlphaTest,
		},
	}

	return &shadergen.Family{
		Type: shadergen.TypeShader,
		Schema: shadergen.NewSchema("shader",
			albedo(),
			bumpMapping(),
			alphaTest(),
			specularMask(),
			materialModel(),
			environmentMapping(),
			selfIllumination(),
			blendMode(),
			parallax(),
			misc(),
			distortion(),
		),
		Matrix: shadergen.NewEntryPointMatrix(stages,
			shadergen.VertexWorld,
			shadergen.VertexRigid,
			shadergen.VertexSkinned,
		),
		Templates: shadergen.Templates{
			Pixel:        PixelTemplate,
			SharedPixel:  SharedPixelTemplate,
			SharedVertex: SharedVertexTemplate,
		},
		VertexSentinel: shadergen.VertexHelperSentinel,
		VertexMacros: []string{
			"calc_vertex_transform",
			"transform_dominant_light",
			"calc_distortion",
		},
		Globals:   globals(),
		OptionDir: `shaders\shader_options`,
	}
}

func globals() shadergen.Parameters {
	return params(
		samplerNT("albedo_texture").From(shadergen.ExternGlobalTargetTexaccum),
		samplerNT("normal_texture").From(shadergen.ExternGlobalTargetNormal),
		samplerNT("lightprobe_texture_array").From(shadergen.ExternLightprobeTexture),
		samplerNT("shadow_depth_map_1").From(shadergen.ExternGlobalTargetShadowBuffer1),
		samplerNT("dynamic_light_gel_texture").From(shadergen.ExternDynamicLightGel0),
		float4("debug_tint").From(shadergen.ExternDebugTint),
		samplerNT("active_camo_distortion_texture").From(shadergen.ExternActiveCamoDistortionTexture),
		samplerNT("scene_ldr_texture").From(shadergen.ExternSceneLDRTexture),
		samplerNT("scene_hdr_texture").From(shadergen.ExternSceneHDRTexture),
		samplerNT("dominant_light_intensity_map").From(shadergen.ExternDominantLightIntensityMap),
	)
}

var (
	params    = shadergen.Params
	sampler   = shadergen.Sampler
	samplerNT = shadergen.SamplerNoTransform
	boolean   = shadergen.Bool
	float     = shadergen.Float
	float3    = shadergen.Float3
	float4    = shadergen.Float4
	color3    = shadergen.Color3
	color4    = shadergen.Color4
)
