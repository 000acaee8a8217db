package shadergen

import (
	"fmt"
	"slices"
)

// ParameterKind is the binding type of a Parameter.
type ParameterKind uint8

// Parameter kinds.
const (
	// ParamSampler is a texture with a scale/offset transform.
	ParamSampler ParameterKind = iota
	// ParamSamplerNoTransform is a texture bound without a transform.
	ParamSamplerNoTransform
	ParamBool
	ParamFloat
	ParamFloat3
	ParamFloat4
	ParamColor3
	ParamColor4
)

var parameterKindNames = []string{
	"sampler",
	"sampler_no_transform",
	"bool",
	"float",
	"float3",
	"float4",
	"color3",
	"color4",
}

func (k ParameterKind) String() string { return nameOf(parameterKindNames, k) }

// MarshalText implements encoding.TextMarshaler.
func (k ParameterKind) MarshalText() ([]byte, error) {
	if int(k) >= len(parameterKindNames) {
		return nil, fmt.Errorf("shadergen: invalid parameter kind %d", k)
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *ParameterKind) UnmarshalText(text []byte) error {
	v, err := parseName[ParameterKind]("parameter kind", parameterKindNames, string(text))
	if err != nil {
		return err
	}
	*k = v
	return nil
}

// IsSampler reports whether k is one of the texture kinds.
func (k ParameterKind) IsSampler() bool {
	return k == ParamSampler || k == ParamSamplerNoTransform
}

// IsColor reports whether k is a color kind.
func (k ParameterKind) IsColor() bool {
	return k == ParamColor3 || k == ParamColor4
}

// Extern identifies a value supplied by the surrounding engine rather than
// by material authoring.
type Extern string

// ExternNone marks an authored parameter.
const ExternNone Extern = ""

// Engine-supplied sources.
const (
	ExternGlobalTargetTexaccum        Extern = "texture_global_target_texaccum"
	ExternGlobalTargetNormal          Extern = "texture_global_target_normal"
	ExternGlobalTargetZ               Extern = "texture_global_target_z"
	ExternGlobalTargetShadowBuffer1   Extern = "texture_global_target_shadow_buffer1"
	ExternLightprobeTexture           Extern = "texture_lightprobe_texture"
	ExternDynamicLightGel0            Extern = "texture_dynamic_light_gel_0"
	ExternDebugTint                   Extern = "debug_tint"
	ExternActiveCamoDistortionTexture Extern = "active_camo_distortion_texture"
	ExternSceneLDRTexture             Extern = "scene_ldr_texture"
	ExternSceneHDRTexture             Extern = "scene_hdr_texture"
	ExternDominantLightIntensityMap   Extern = "texture_dominant_light_intensity_map"
	ExternScreenConstants             Extern = "screen_constants"
	ExternChangeColorPrimary          Extern = "object_change_color_primary"
	ExternChangeColorSecondary        Extern = "object_change_color_secondary"
	ExternChangeColorTertiary         Extern = "object_change_color_tertiary"
	ExternChangeColorQuaternary       Extern = "object_change_color_quaternary"
	ExternChangeColorPrimaryAnim      Extern = "object_change_color_primary_anim"
	ExternChangeColorSecondaryAnim    Extern = "object_change_color_secondary_anim"
	ExternCookTorranceCC0236          Extern = "texture_cook_torrance_cc0236"
	ExternCookTorranceDD0236          Extern = "texture_cook_torrance_dd0236"
	ExternCookTorranceC78D78          Extern = "texture_cook_torrance_c78d78"
	ExternDynamicEnvironmentMap0      Extern = "texture_dynamic_environment_map_0"
	ExternDynamicEnvironmentMap1      Extern = "texture_dynamic_environment_map_1"
	ExternFlatEnvmapMatrixX           Extern = "flat_envmap_matrix_x"
	ExternFlatEnvmapMatrixY           Extern = "flat_envmap_matrix_y"
	ExternFlatEnvmapMatrixZ           Extern = "flat_envmap_matrix_z"
)

// Parameter is one runtime binding a compiled program requires.
type Parameter struct {
	Kind   ParameterKind `yaml:"kind" toml:"kind"`
	Name   string        `yaml:"name" toml:"name"`
	Extern Extern        `yaml:"extern,omitempty" toml:"extern,omitempty"`
}

// From returns a copy of p sourced from the engine value e.
func (p Parameter) From(e Extern) Parameter {
	p.Extern = e
	return p
}

func (p Parameter) String() string {
	if p.Extern != ExternNone {
		return fmt.Sprintf("%s %s <- %s", p.Kind, p.Name, p.Extern)
	}
	return fmt.Sprintf("%s %s", p.Kind, p.Name)
}

// Sampler returns a texture parameter with a transform.
func Sampler(name string) Parameter { return Parameter{Kind: ParamSampler, Name: name} }

// SamplerNoTransform returns a texture parameter without a transform.
func SamplerNoTransform(name string) Parameter {
	return Parameter{Kind: ParamSamplerNoTransform, Name: name}
}

// Bool returns a boolean parameter.
func Bool(name string) Parameter { return Parameter{Kind: ParamBool, Name: name} }

// Float returns a scalar parameter.
func Float(name string) Parameter { return Parameter{Kind: ParamFloat, Name: name} }

// Float3 returns a 3-vector parameter.
func Float3(name string) Parameter { return Parameter{Kind: ParamFloat3, Name: name} }

// Float4 returns a 4-vector parameter.
func Float4(name string) Parameter { return Parameter{Kind: ParamFloat4, Name: name} }

// Color3 returns an RGB color parameter.
func Color3(name string) Parameter { return Parameter{Kind: ParamColor3, Name: name} }

// Color4 returns an RGBA color parameter.
func Color4(name string) Parameter { return Parameter{Kind: ParamColor4, Name: name} }

// Parameters is an ordered binding list. Order decides slot assignment.
type Parameters []Parameter

// Params collects ps into a Parameters list. Params() is an explicitly
// empty list.
func Params(ps ...Parameter) Parameters {
	if ps == nil {
		return Parameters{}
	}
	return Parameters(ps)
}

// Names returns the parameter names in order.
func (p Parameters) Names() []string {
	names := make([]string, len(p))
	for i := range p {
		names[i] = p[i].Name
	}
	return names
}

// Lookup returns the first parameter called name.
func (p Parameters) Lookup(name string) (Parameter, bool) {
	i := slices.IndexFunc(p, func(q Parameter) bool { return q.Name == name })
	if i < 0 {
		return Parameter{}, false
	}
	return p[i], true
}

// Filter returns the parameters for which keep returns true.
func (p Parameters) Filter(keep func(Parameter) bool) Parameters {
	out := Parameters{}
	for _, q := range p {
		if keep(q) {
			out = append(out, q)
		}
	}
	return out
}

// Clone returns a copy that does not share storage with p.
func (p Parameters) Clone() Parameters {
	return append(Parameters{}, p...)
}
