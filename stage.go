package shadergen

import (
	"fmt"
	"strings"
)

// Stage names an entry point inside a template, such as the albedo pass or
// the shadow generate pass. Stages are shared by every family; each family
// declares which ones it supports in its EntryPointMatrix.
type Stage uint8

// Stage values. The ordinal is emitted as k_shaderstage_<name>.
const (
	StageDefault Stage = iota
	StageAlbedo
	StageStaticDefault
	StageStaticPerPixel
	StageStaticPerVertex
	StageStaticSH
	StageStaticPRTAmbient
	StageStaticPRTLinear
	StageStaticPRTQuadratic
	StageDynamicLight
	StageShadowGenerate
	StageShadowApply
	StageActiveCamo
	StageLightmapDebugMode
	StageStaticPerVertexColor
	StageWaterTessellation
	StageWaterShading
	StageDynamicLightCinematic
	StageZOnly
	StageSfxDistort
)

var stageNames = []string{
	"Default",
	"Albedo",
	"Static_Default",
	"Static_Per_Pixel",
	"Static_Per_Vertex",
	"Static_Sh",
	"Static_Prt_Ambient",
	"Static_Prt_Linear",
	"Static_Prt_Quadratic",
	"Dynamic_Light",
	"Shadow_Generate",
	"Shadow_Apply",
	"Active_Camo",
	"Lightmap_Debug_Mode",
	"Static_Per_Vertex_Color",
	"Water_Tesselation",
	"Water_Shading",
	"Dynamic_Light_Cinematic",
	"Z_Only",
	"Sfx_Distort",
}

func (s Stage) String() string { return nameOf(stageNames, s) }

// Valid reports whether s is a declared stage.
func (s Stage) Valid() bool { return int(s) < len(stageNames) }

// EntryPoint returns the template entry symbol for s, entry_<stage>.
func (s Stage) EntryPoint() string { return "entry_" + lower(s.String()) }

// Stages returns every declared stage in ordinal order.
func Stages() []Stage { return values[Stage](stageNames) }

// ParseStage looks a stage up by name, ignoring case.
func ParseStage(name string) (Stage, error) { return parseName[Stage]("stage", stageNames, name) }

// VertexFormat names an input vertex layout.
type VertexFormat uint8

// VertexFormat values. The ordinal is emitted as k_vertextype_<name>.
const (
	VertexWorld VertexFormat = iota
	VertexRigid
	VertexSkinned
	VertexParticleModel
	VertexFlatWorld
	VertexFlatRigid
	VertexFlatSkinned
	VertexScreen
	VertexDebug
	VertexTransparent
	VertexParticle
	VertexContrail
	VertexLightVolume
	VertexChudSimple
	VertexChudFancy
	VertexDecorator
	VertexTinyPosition
	VertexPatchyFog
	VertexWater
	VertexRipple
	VertexImplicit
	VertexBeam
)

var vertexFormatNames = []string{
	"World",
	"Rigid",
	"Skinned",
	"Particle_Model",
	"Flat_World",
	"Flat_Rigid",
	"Flat_Skinned",
	"Screen",
	"Debug",
	"Transparent",
	"Particle",
	"Contrail",
	"Light_Volume",
	"Chud_Simple",
	"Chud_Fancy",
	"Decorator",
	"Tiny_Position",
	"Patchy_Fog",
	"Water",
	"Ripple",
	"Implicit",
	"Beam",
}

func (v VertexFormat) String() string { return nameOf(vertexFormatNames, v) }

// Valid reports whether v is a declared vertex format.
func (v VertexFormat) Valid() bool { return int(v) < len(vertexFormatNames) }

// VertexFormats returns every declared vertex format in ordinal order.
func VertexFormats() []VertexFormat { return values[VertexFormat](vertexFormatNames) }

// ParseVertexFormat looks a vertex format up by name, ignoring case.
func ParseVertexFormat(name string) (VertexFormat, error) {
	return parseName[VertexFormat]("vertex format", vertexFormatNames, name)
}

// ShaderType is the technique family tag emitted as k_shadertype_<name>.
type ShaderType uint8

// ShaderType values.
const (
	TypeShader ShaderType = iota
	TypeBeam
	TypeContrail
	TypeDecal
	TypeHalogram
	TypeLightVolume
	TypeParticle
	TypeTerrain
	TypeCortana
	TypeWater
	TypeBlack
	TypeScreen
	TypeCustom
	TypeFoliage
	TypeZOnly
	TypeGlass
)

var shaderTypeNames = []string{
	"Shader",
	"Beam",
	"Contrail",
	"Decal",
	"Halogram",
	"Light_Volume",
	"Particle",
	"Terrain",
	"Cortana",
	"Water",
	"Black",
	"Screen",
	"Custom",
	"Foliage",
	"Zonly",
	"Glass",
}

func (t ShaderType) String() string { return nameOf(shaderTypeNames, t) }

// ParseShaderType looks a family tag up by name, ignoring case.
func ParseShaderType(name string) (ShaderType, error) {
	return parseName[ShaderType]("shader type", shaderTypeNames, name)
}

func nameOf[T ~uint8](names []string, v T) string {
	if int(v) < len(names) {
		return names[v]
	}
	return fmt.Sprintf("%T(%d)", v, uint8(v))
}

func values[T ~uint8](names []string) []T {
	out := make([]T, len(names))
	for i := range names {
		out[i] = T(i)
	}
	return out
}

func parseName[T ~uint8](kind string, names []string, name string) (T, error) {
	for i, n := range names {
		if strings.EqualFold(n, name) {
			return T(i), nil
		}
	}
	return 0, fmt.Errorf("shadergen: unknown %s %q", kind, name)
}
