package naga

import (
	"context"
	"encoding/binary"
	"errors"
	"testing"

	"github.com/gogpu/gputypes"
	"github.com/gogpu/naga/glsl"
	"github.com/gogpu/naga/hlsl"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gogpu/shadergen"
	"github.com/gogpu/shadergen/particle"
	"github.com/gogpu/shadergen/template"
)

const pixelTemplate = `#include "helpers.wgsl"

@fragment
fn entry_default(@location(0) color: vec4<f32>) -> @location(0) vec4<f32> {
#if APPLY_HLSL_FIXES
    return color * 0.5;
#else
    return tint(color);
#endif
}
`

const helpers = `#pragma once
fn tint(c: vec4<f32>) -> vec4<f32> {
    return c;
}
`

const vertexTemplate = `@vertex
fn entry_default(@builtin(vertex_index) idx: u32) -> @builtin(position) vec4<f32> {
    return vec4<f32>(0.0, 0.0, 0.0, 1.0);
}
`

const spirvMagic = 0x07230203

func testRepo(t *testing.T) *template.Repository {
	t.Helper()
	fsys := afero.NewMemMapFs()
	for name, text := range map[string]string{
		"pixl_particle.wgsl": pixelTemplate,
		"helpers.wgsl":       helpers,
		"glvs_particle.wgsl": vertexTemplate,
		"broken.wgsl":        "@fragment\nfn entry_default( {\n",
	} {
		require.NoError(t, afero.WriteFile(fsys, "/shaders/"+name, []byte(text), 0o644))
	}
	return template.NewRepository(fsys, "/shaders")
}

func request(repo *template.Repository, name, profile string, stage gputypes.ShaderStages) shadergen.CompileRequest {
	return shadergen.CompileRequest{
		Template: name,
		Entry:    "entry_default",
		Profile:  profile,
		Stage:    stage,
		Includes: repo.Scope(name),
	}
}

func TestCompileSPIRV(t *testing.T) {
	repo := testRepo(t)
	b := New(WithValidation(false))
	assert.Equal(t, OutputSPIRV, b.Output())

	code, err := b.Compile(context.Background(), request(repo, "pixl_particle.wgsl", "ps_3_0", gputypes.ShaderStageFragment))
	require.NoError(t, err)
	require.Greater(t, len(code), 20)
	assert.EqualValues(t, spirvMagic, binary.LittleEndian.Uint32(code))

	code, err = b.Compile(context.Background(), request(repo, "glvs_particle.wgsl", "vs_3_0", gputypes.ShaderStageVertex))
	require.NoError(t, err)
	assert.EqualValues(t, spirvMagic, binary.LittleEndian.Uint32(code))

	// Without a stage only the entry point name is checked.
	_, err = b.Compile(context.Background(), request(repo, "glvs_particle.wgsl", "", 0))
	require.NoError(t, err)
}

func TestCacheKey(t *testing.T) {
	spirvKey := New().CacheKey()
	assert.Equal(t, spirvKey, New().CacheKey())
	assert.NotEqual(t, spirvKey, New(WithOutput(OutputHLSL)).CacheKey())
	assert.NotEqual(t, spirvKey, New(WithValidation(false)).CacheKey())
	assert.NotEqual(t, spirvKey, New(WithDebug(true)).CacheKey())
	assert.NotEqual(t, New(WithOutput(OutputGLSL)).CacheKey(),
		New(WithOutput(OutputGLSL), WithGLSLVersion(glsl.Version450)).CacheKey())
}

func TestCompileSourceOutputs(t *testing.T) {
	repo := testRepo(t)
	ctx := context.Background()

	code, err := New(WithValidation(false), WithOutput(OutputHLSL)).
		Compile(ctx, request(repo, "pixl_particle.wgsl", "ps_5_0", gputypes.ShaderStageFragment))
	require.NoError(t, err)
	assert.NotEmpty(t, code)

	code, err = New(WithValidation(false), WithOutput(OutputGLSL)).
		Compile(ctx, request(repo, "glvs_particle.wgsl", "vs_3_0", gputypes.ShaderStageVertex))
	require.NoError(t, err)
	assert.Contains(t, string(code), "#version")
}

func TestCompileDiagnostics(t *testing.T) {
	repo := testRepo(t)
	b := New(WithValidation(false))
	ctx := context.Background()

	tests := []struct {
		name string
		req  shadergen.CompileRequest
		is   error
		msg  string
	}{
		{
			name: "wrong stage",
			req:  request(repo, "pixl_particle.wgsl", "ps_5_0", gputypes.ShaderStageVertex),
			msg:  "entry point entry_default is not a vertex shader",
		},
		{
			name: "missing entry point",
			req: func() shadergen.CompileRequest {
				r := request(repo, "pixl_particle.wgsl", "ps_3_0", gputypes.ShaderStageFragment)
				r.Entry = "entry_albedo"
				return r
			}(),
			msg: "entry point entry_albedo not found",
		},
		{
			name: "no template source",
			req:  shadergen.CompileRequest{Template: "pixl_particle.wgsl", Entry: "entry_default"},
			is:   ErrNoTemplates,
		},
		{
			name: "missing template",
			req:  request(repo, "missing.wgsl", "ps_3_0", gputypes.ShaderStageFragment),
			is:   shadergen.ErrTemplateNotFound,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := b.Compile(ctx, tt.req)
			var diag *shadergen.CompileDiagnostic
			require.True(t, errors.As(err, &diag), "got %v", err)
			assert.Equal(t, tt.req.Template, diag.Template)
			assert.Equal(t, tt.req.Entry, diag.Entry)
			if tt.is != nil {
				assert.ErrorIs(t, err, tt.is)
			}
			if tt.msg != "" {
				assert.EqualError(t, diag.Err, tt.msg)
			}
		})
	}
}

func TestCompileParseError(t *testing.T) {
	repo := testRepo(t)
	_, err := New().Compile(context.Background(), request(repo, "broken.wgsl", "ps_3_0", gputypes.ShaderStageFragment))
	var diag *shadergen.CompileDiagnostic
	require.True(t, errors.As(err, &diag))
	assert.Contains(t, diag.Log, "fn entry_default(", "the expanded source is attached")
}

func TestCompileCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().Compile(ctx, request(testRepo(t), "pixl_particle.wgsl", "ps_3_0", gputypes.ShaderStageFragment))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestGenerateWithNaga(t *testing.T) {
	gen := particle.NewGenerator(
		shadergen.WithSelection(particle.Schema().Default()),
		shadergen.WithTemplates(testRepo(t)),
		shadergen.WithTemplateExtension(".wgsl"),
		shadergen.WithBackend(New(WithValidation(false))))
	ctx := context.Background()

	p, err := gen.GeneratePixel(ctx, shadergen.StageDefault)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "pixl_particle.wgsl", p.Template)
	assert.EqualValues(t, spirvMagic, binary.LittleEndian.Uint32(p.Bytecode))

	p, err = gen.GenerateVertex(ctx, shadergen.VertexParticleModel, shadergen.StageDefault)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.EqualValues(t, spirvMagic, binary.LittleEndian.Uint32(p.Bytecode))
}

func TestShaderModel(t *testing.T) {
	tests := []struct {
		profile string
		want    hlsl.ShaderModel
	}{
		{"ps_3_0", hlsl.ShaderModel5_0},
		{"vs_5_0", hlsl.ShaderModel5_0},
		{"ps_5_1", hlsl.ShaderModel5_1},
		{"ps_6_0", hlsl.ShaderModel6_0},
		{"vs_6_7", hlsl.ShaderModel6_7},
		{"bogus", hlsl.ShaderModel5_0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ShaderModel(tt.profile), tt.profile)
	}
}

func TestParseOutput(t *testing.T) {
	for _, o := range []Output{OutputSPIRV, OutputHLSL, OutputGLSL} {
		got, err := ParseOutput(o.String())
		require.NoError(t, err)
		assert.Equal(t, o, got)
	}
	got, err := ParseOutput("SPV")
	require.NoError(t, err)
	assert.Equal(t, OutputSPIRV, got)
	_, err = ParseOutput("msl")
	assert.Error(t, err)
	assert.Equal(t, "Output(9)", Output(9).String())
}
