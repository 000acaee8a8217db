// Package catalog holds the canonical option values shared by every
// technique family.
//
// A concept that exists in more than one family, such as a blend mode or
// the Off state of a toggle, is a single Option value here. Family schemas
// reference these values directly, so two families agree on an option by
// identity rather than by re-parsing its name.
package catalog

import "github.com/gogpu/shadergen"

var opt = shadergen.NewOption

// Toggles and empty choices.
var (
	Off  = opt("Off")
	On   = opt("On")
	None = opt("None")
)

// Albedo.
var (
	AlbedoDefault                   = opt("Default")
	AlbedoDetailBlend               = opt("Detail_Blend")
	AlbedoConstantColor             = opt("Constant_Color")
	AlbedoTwoChangeColor            = opt("Two_Change_Color")
	AlbedoFourChangeColor           = opt("Four_Change_Color")
	AlbedoThreeDetailBlend          = opt("Three_Detail_Blend")
	AlbedoTwoDetailOverlay          = opt("Two_Detail_Overlay")
	AlbedoTwoDetail                 = opt("Two_Detail")
	AlbedoColorMask                 = opt("Color_Mask")
	AlbedoTwoDetailBlackPoint       = opt("Two_Detail_Black_Point")
	AlbedoTwoChangeColorAnimOverlay = opt("Two_Change_Color_Anim_Overlay")
	AlbedoChameleon                 = opt("Chameleon")
	AlbedoTwoChangeColorChameleon   = opt("Two_Change_Color_Chameleon")
	AlbedoChameleonMasked           = opt("Chameleon_Masked")
	AlbedoColorMaskHardLight        = opt("Color_Mask_Hard_Light")

	AlbedoDiffuseOnly                  = opt("Diffuse_Only")
	AlbedoDiffusePlusBillboardAlpha    = opt("Diffuse_Plus_Billboard_Alpha")
	AlbedoPalettized                   = opt("Palettized")
	AlbedoPalettizedPlusBillboardAlpha = opt("Palettized_Plus_Billboard_Alpha")
	AlbedoDiffusePlusSpriteAlpha       = opt("Diffuse_Plus_Sprite_Alpha")
	AlbedoPalettizedPlusSpriteAlpha    = opt("Palettized_Plus_Sprite_Alpha")
	AlbedoDiffuseModulated             = opt("Diffuse_Modulated")
	AlbedoPalettizedGlow               = opt("Palettized_Glow")
	AlbedoPalettizedPlasma             = opt("Palettized_Plasma")
	AlbedoPalettized2dPlasma           = opt("Palettized_2d_Plasma")
)

// Blend modes.
var (
	BlendOpaque              = opt("Opaque")
	BlendAdditive            = opt("Additive")
	BlendMultiply            = opt("Multiply")
	BlendAlphaBlend          = opt("Alpha_Blend")
	BlendDoubleMultiply      = opt("Double_Multiply")
	BlendPreMultipliedAlpha  = opt("Pre_Multiplied_Alpha")
	BlendMaximum             = opt("Maximum")
	BlendMultiplyAdd         = opt("Multiply_Add")
	BlendAddSrcTimesDstAlpha = opt("Add_Src_Times_Dstalpha")
	BlendAddSrcTimesSrcAlpha = opt("Add_Src_Times_Srcalpha")
	BlendInvAlphaBlend       = opt("Inv_Alpha_Blend")
)

// BlendModes returns every blend mode in canonical order.
func BlendModes() []shadergen.Option {
	return []shadergen.Option{
		BlendOpaque,
		BlendAdditive,
		BlendMultiply,
		BlendAlphaBlend,
		BlendDoubleMultiply,
		BlendPreMultipliedAlpha,
		BlendMaximum,
		BlendMultiplyAdd,
		BlendAddSrcTimesDstAlpha,
		BlendAddSrcTimesSrcAlpha,
		BlendInvAlphaBlend,
	}
}

// Bump mapping.
var (
	BumpStandard     = opt("Standard")
	BumpDetail       = opt("Detail")
	BumpDetailMasked = opt("Detail_Masked")
)

// Alpha test.
var AlphaTestSimple = opt("Simple")

// Specular mask.
var (
	SpecularMaskNone             = opt("No_Specular_Mask")
	SpecularMaskFromDiffuse      = opt("Specular_Mask_From_Diffuse")
	SpecularMaskFromTexture      = opt("Specular_Mask_From_Texture")
	SpecularMaskFromColorTexture = opt("Specular_Mask_From_Color_Texture")
)

// Material models.
var (
	MaterialDiffuseOnly     = opt("Diffuse_Only")
	MaterialCookTorrance    = opt("Cook_Torrance")
	MaterialTwoLobePhong    = opt("Two_Lobe_Phong")
	MaterialFoliage         = opt("Foliage")
	MaterialGlass           = opt("Glass")
	MaterialOrganism        = opt("Organism")
	MaterialSingleLobePhong = opt("Single_Lobe_Phong")
	MaterialCarPaint        = opt("Car_Paint")
)

// Environment mapping.
var (
	EnvPerPixel        = opt("Per_Pixel")
	EnvDynamic         = opt("Dynamic")
	EnvFromFlatTexture = opt("From_Flat_Texture")
	EnvCustomMap       = opt("Custom_Map")
)

// Self illumination.
var (
	SelfIllumSimple                = opt("Simple")
	SelfIllumThreeChannel          = opt("_3_Channel_Self_Illum")
	SelfIllumPlasma                = opt("Plasma")
	SelfIllumFromDiffuse           = opt("From_Diffuse")
	SelfIllumDetail                = opt("Illum_Detail")
	SelfIllumMeter                 = opt("Meter")
	SelfIllumTimesDiffuse          = opt("Self_Illum_Times_Diffuse")
	SelfIllumSimpleWithAlphaMask   = opt("Simple_With_Alpha_Mask")
	SelfIllumSimpleFourChangeColor = opt("Simple_Four_Change_Color")
	SelfIllumConstantColor         = opt("Constant_Color")
)

// Parallax.
var (
	ParallaxSimple       = opt("Simple")
	ParallaxInterpolated = opt("Interpolated")
	ParallaxSimpleDetail = opt("Simple_Detail")
)

// Misc.
var (
	MiscFirstPersonNever                    = opt("First_Person_Never")
	MiscFirstPersonNeverWithRotatingBitmaps = opt("First_Person_Never_With_Rotating_Bitmaps")
)

// Particle specialized rendering.
var (
	RenderingDistortion                 = opt("Distortion")
	RenderingDistortionExpensive        = opt("Distortion_Expensive")
	RenderingDistortionDiffuse          = opt("Distortion_Diffuse")
	RenderingDistortionExpensiveDiffuse = opt("Distortion_Expensive_Diffuse")
)

// Particle lighting.
var (
	LightingPerPixelRaviOrder3  = opt("Per_Pixel_Ravi_Order_3")
	LightingPerVertexRaviOrder0 = opt("Per_Vertex_Ravi_Order_0")
	LightingPerPixelSmooth      = opt("Per_Pixel_Smooth")
	LightingPerVertexAmbient    = opt("Per_Vertex_Ambient")
	LightingSmoke               = opt("Smoke_Lighting")
)

// Particle render targets.
var (
	RenderTargetsLDRAndHDR = opt("Ldr_And_Hdr")
	RenderTargetsLDROnly   = opt("Ldr_Only")
)
