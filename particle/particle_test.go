package particle

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/shadergen"
	c "github.com/gogpu/shadergen/catalog"
	"github.com/gogpu/shadergen/shader"
)

func TestSchemaShape(t *testing.T) {
	s := Schema()
	want := []int{10, 11, 5, 6, 2, 2, 2, 2, 2, 2}
	require.Equal(t, len(want), s.MethodCount())
	for i, n := range want {
		assert.Equal(t, n, s.OptionCount(i), "method %s", s.Method(i).Name)
	}
}

func TestParameterTablesExhaustive(t *testing.T) {
	s := Schema()
	for i := range s.MethodCount() {
		m := s.Method(i)
		for _, o := range m.Options {
			_, ok := m.Pixel[o]
			assert.True(t, ok, "%s/%s has no pixel table entry", m.Name, o)
			if m.Vertex != nil {
				_, ok = m.Vertex[o]
				assert.True(t, ok, "%s/%s has no vertex table entry", m.Name, o)
			}
		}
	}
}

func TestSharedConceptsAreCanonical(t *testing.T) {
	particleBlend := Schema().Method(1)
	i, ok := shader.Schema().MethodIndex(shader.MethodBlendMode)
	require.True(t, ok)
	shaderBlend := shader.Schema().Method(i)

	// The shader family uses a prefix of the canonical blend modes.
	assert.Equal(t, particleBlend.Options[:len(shaderBlend.Options)], shaderBlend.Options)
	assert.Equal(t, c.BlendModes(), particleBlend.Options)
}

func TestPalettizedScenario(t *testing.T) {
	sel, err := Schema().Default().With(MethodAlbedo, c.AlbedoPalettized)
	require.NoError(t, err)

	params, err := NewGenerator(shadergen.WithSelection(sel)).PixelParameters()
	require.NoError(t, err)
	require.Len(t, params, 2)
	assert.Equal(t, shadergen.Sampler("base_map"), params[0])
	assert.Equal(t, shadergen.SamplerNoTransform("palette"), params[1])
}

func TestPixelParameters(t *testing.T) {
	sel, err := Schema().Select(
		c.AlbedoPalettizedPlasma,
		c.BlendAdditive,
		c.RenderingDistortionExpensive,
		c.None,
		c.RenderTargetsLDROnly,
		c.On,
		c.Off,
		c.Off,
		c.Off,
		c.Off,
	)
	require.NoError(t, err)

	params, err := NewGenerator(shadergen.WithSelection(sel)).PixelParameters()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"base_map", "base_map2", "palette", "alpha_map", "alpha_modulation_factor",
		"distortion_scale",
		"depth_fade_range",
	}, params.Names())
}

func TestVertexParameters(t *testing.T) {
	gen := NewGenerator(shadergen.WithSelection(Schema().Default()))
	params, err := gen.VertexParameters()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"category_albedo",
		"category_blend_mode",
		"category_specialized_rendering",
		"category_lighting",
		"category_fog",
		"category_frame_blend",
		"category_self_illumination",
	}, params.Names())
	for _, p := range params {
		assert.Equal(t, shadergen.ParamFloat4, p.Kind)
	}

	sel, err := Schema().Default().With(MethodFrameBlend, c.On)
	require.NoError(t, err)
	sel, err = sel.With(MethodSelfIllumination, c.SelfIllumConstantColor)
	require.NoError(t, err)
	params, err = NewGenerator(shadergen.WithSelection(sel)).VertexParameters()
	require.NoError(t, err)
	assert.Equal(t, []string{
		"category_albedo",
		"category_blend_mode",
		"category_specialized_rendering",
		"category_lighting",
		"category_fog",
		"starting_uv_scale",
		"ending_uv_scale",
		"category_frame_blend",
		"self_illum_color",
		"category_self_illumination",
	}, params.Names())
}

func TestPixelMacros(t *testing.T) {
	sel, err := Schema().Default().With(MethodLighting, c.LightingSmoke)
	require.NoError(t, err)
	macros, err := NewGenerator(shadergen.WithSelection(sel)).PixelMacros(shadergen.StageDefault)
	require.NoError(t, err)
	require.NoError(t, macros.Validate())

	got := macros.Map()
	assert.Equal(t, "calc_albedo_diffuse_only_ps", got["calc_albedo_ps"])
	assert.Equal(t, "blend_type_opaque", got["blend_type"])
	assert.Equal(t, "specialized_rendering_none", got["particle_specialized_rendering"])
	assert.Equal(t, "lighting_smoke_lighting", got["particle_lighting"])
	assert.Equal(t, "render_targets_ldr_and_hdr", got["particle_render_targets"])
	assert.Equal(t, "k_shadertype_particle", got["shadertype"])
	assert.Equal(t, "k_shaderstage_default", got["shaderstage"])
	assert.Equal(t, "k_blend_mode_opaque", got["blend_type_arg"])
	assert.Equal(t, "k_lighting_smoke_lighting", got["lighting_arg"])
	assert.Equal(t, "k_self_illumination_off", got["self_illumination_arg"])
	assert.Equal(t, "10", got["k_blend_mode_inv_alpha_blend"])
	assert.Equal(t, "0", got[shadergen.FixesMacro])

	// Category sentinels define themselves.
	for _, name := range []string{
		"category_albedo_option_palettized_2d_plasma",
		"category_blend_mode_option_add_src_times_dstalpha",
		"category_fog_option_on",
	} {
		assert.Equal(t, name, got[name])
	}

	// Category sentinels precede the fixes flag and the resolved macros.
	names := macros.Names()
	assert.Less(t, indexOf(names, "category_self_illumination_option_constant_color"),
		indexOf(names, shadergen.FixesMacro))
	assert.Less(t, indexOf(names, shadergen.FixesMacro), indexOf(names, "calc_albedo_ps"))
	assert.Equal(t, shadergen.DefinitionHelperSentinel, names[0])
}

func indexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return -1
}

func TestEntryPointMatrix(t *testing.T) {
	m := Family().Matrix
	for _, stage := range shadergen.Stages() {
		assert.Equal(t, stage == shadergen.StageDefault, m.Supported(stage), "stage %s", stage)
		assert.False(t, m.PixelShared(stage), "stage %s", stage)
	}
	assert.Equal(t, []shadergen.Stage{shadergen.StageDefault}, m.Stages())
	assert.True(t, m.VertexFormatSupported(shadergen.VertexParticle))
	assert.True(t, m.VertexFormatSupported(shadergen.VertexParticleModel))
	assert.False(t, m.VertexFormatSupported(shadergen.VertexWorld))
}

func TestSharedVertexMacros(t *testing.T) {
	macros, err := NewGenerator(shadergen.WithFixes(true)).
		SharedVertexMacros(shadergen.VertexParticleModel, shadergen.StageDefault)
	require.NoError(t, err)

	got := macros.Map()
	assert.Equal(t, "1", got[shadergen.DefinitionHelperSentinel])
	_, ok := got[shadergen.VertexHelperSentinel]
	assert.False(t, ok)
	assert.Equal(t, "calc_vertex_transform_particle_model", got["calc_vertex_transform"])
	assert.Equal(t, "transform_unknown_vector_particle_model", got["transform_unknown_vector"])
	assert.Equal(t, "PARTICLE_MODEL_VERTEX", got["input_vertex_format"])
	assert.Equal(t, "1", got[shadergen.FixesMacro])
}

func TestUnsupportedVertexFormatYieldsNoProgram(t *testing.T) {
	called := false
	backend := shadergen.BackendFunc(func(context.Context, shadergen.CompileRequest) ([]byte, error) {
		called = true
		return nil, nil
	})
	gen := NewGenerator(shadergen.WithSelection(Schema().Default()), shadergen.WithBackend(backend))

	p, err := gen.GenerateVertex(context.Background(), shadergen.VertexSkinned, shadergen.StageDefault)
	require.NoError(t, err)
	assert.Nil(t, p)

	p, err = gen.GenerateSharedPixel(context.Background(), shadergen.StageDefault, 0, 0)
	require.NoError(t, err)
	assert.Nil(t, p)
	assert.False(t, called)

	p, err = gen.GenerateVertex(context.Background(), shadergen.VertexParticle, shadergen.StageDefault)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "glvs_particle.hlsl", p.Template)
	assert.Equal(t, "vs_3_0", p.Profile)
	assert.True(t, called)
}

func TestOptionParameters(t *testing.T) {
	gen := NewGenerator()
	tests := []struct {
		ordinal int
		names   []string
		path    string
	}{
		{0, []string{"base_map"}, `shaders\particle_options\albedo_diffuse_only`},
		{2, []string{"base_map", "palette"}, `shaders\particle_options\albedo_palettized`},
		{7, []string{"base_map", "tint_color"}, `shaders\particle_options\albedo_palettized_glow`},
		{9, []string{"base_map", "base_map2", "palette", "alpha_map"}, `shaders\particle_options\albedo_palettized_2d_plasma`},
	}
	for _, tt := range tests {
		params, path, err := gen.OptionParameters(MethodAlbedo, tt.ordinal)
		require.NoError(t, err)
		assert.Equal(t, tt.names, params.Names())
		assert.Equal(t, tt.path, path)
	}

	_, _, err := gen.OptionParameters(MethodAlbedo, 10)
	assert.ErrorIs(t, err, shadergen.ErrSchemaMismatch)
	_, _, err = gen.OptionParameters("nope", 0)
	assert.ErrorIs(t, err, shadergen.ErrSchemaMismatch)
}

func TestGlobalParameters(t *testing.T) {
	globals := NewGenerator().GlobalParameters()
	require.Len(t, globals, 2)
	assert.Equal(t, shadergen.SamplerNoTransform("depth_buffer").From(shadergen.ExternGlobalTargetZ), globals[0])
	assert.Equal(t, shadergen.Float4("screen_constants").From(shadergen.ExternScreenConstants), globals[1])
}

func TestNotConfigured(t *testing.T) {
	gen := NewGenerator()
	_, err := gen.PixelParameters()
	assert.ErrorIs(t, err, shadergen.ErrNotConfigured)
	_, err = gen.VertexParameters()
	assert.ErrorIs(t, err, shadergen.ErrNotConfigured)
	_, err = gen.OptionValue(0)
	assert.ErrorIs(t, err, shadergen.ErrNotConfigured)
	_, err = gen.GeneratePixel(context.Background(), shadergen.StageDefault)
	assert.ErrorIs(t, err, shadergen.ErrNotConfigured)
	_, err = gen.GenerateVertex(context.Background(), shadergen.VertexParticle, shadergen.StageDefault)
	assert.ErrorIs(t, err, shadergen.ErrNotConfigured)
}

func TestSchemaMismatch(t *testing.T) {
	gen := NewGenerator(shadergen.WithSelection(shader.Schema().Default()))
	_, err := gen.PixelParameters()
	assert.ErrorIs(t, err, shadergen.ErrSchemaMismatch)
}

func TestEveryOptionAssemblesUniqueMacros(t *testing.T) {
	schema := Schema()
	for i := range schema.MethodCount() {
		m := schema.Method(i)
		for _, o := range m.Options {
			sel, err := schema.Default().With(m.Name, o)
			require.NoError(t, err)
			enc, err := schema.Encode(sel)
			require.NoError(t, err)
			back, err := schema.Decode(enc)
			require.NoError(t, err)
			assert.True(t, back.Equal(sel), "%s=%s round trip", m.Name, o)

			gen := NewGenerator(shadergen.WithSelection(sel), shadergen.WithFixes(true))
			macros, err := gen.PixelMacros(shadergen.StageDefault)
			require.NoError(t, err, "%s=%s", m.Name, o)
			assert.NoError(t, macros.Validate(), "%s=%s", m.Name, o)

			for _, vf := range Family().Matrix.VertexFormats() {
				macros, err := gen.SharedVertexMacros(vf, shadergen.StageDefault)
				require.NoError(t, err)
				assert.NoError(t, macros.Validate(), "%s=%s %s", m.Name, o, vf)
			}
		}
	}
}

func TestPalettizedGlowPixelParametersMatchOption(t *testing.T) {
	sel, err := Schema().Default().With(MethodAlbedo, c.AlbedoPalettizedGlow)
	require.NoError(t, err)
	gen := NewGenerator(shadergen.WithSelection(sel))

	option, _, err := gen.OptionParameters(MethodAlbedo, sel.Ordinal(0))
	require.NoError(t, err)
	pixel, err := gen.PixelParameters()
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(pixel), len(option))
	assert.Equal(t, option.Names(), pixel[:len(option)].Names(), "albedo bindings come first")
	assert.Equal(t, []string{"base_map", "tint_color"}, option.Names())
}
