package shadergen

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEntryPointMatrix(t *testing.T) {
	m := testFamily().Matrix

	tests := []struct {
		stage     Stage
		supported bool
		shared    bool
		method    string
	}{
		{StageAlbedo, true, false, ""},
		{StageDynamicLight, true, false, ""},
		{StageShadowGenerate, true, true, "alpha_test"},
		{StageStaticSH, true, true, ""},
		{StageDefault, false, false, ""},
		{StageZOnly, false, false, ""},
	}
	for _, tt := range tests {
		t.Run(tt.stage.String(), func(t *testing.T) {
			// Stable across calls.
			for range 2 {
				assert.Equal(t, tt.supported, m.Supported(tt.stage))
				assert.Equal(t, tt.shared, m.PixelShared(tt.stage))
				method, ok := m.SharedMethod(tt.stage)
				assert.Equal(t, tt.method, method)
				assert.Equal(t, tt.method != "", ok)
				assert.True(t, m.VertexShared(tt.stage))
			}
		})
	}

	assert.Equal(t, []Stage{StageAlbedo, StageDynamicLight, StageShadowGenerate, StageStaticSH}, m.Stages())
}

func TestEntryPointMatrixVertexFormats(t *testing.T) {
	m := testFamily().Matrix
	assert.Equal(t, []VertexFormat{VertexWorld, VertexRigid}, m.VertexFormats())
	assert.True(t, m.VertexFormatSupported(VertexWorld))
	assert.True(t, m.VertexFormatSupported(VertexRigid))
	assert.False(t, m.VertexFormatSupported(VertexSkinned))
	assert.False(t, m.VertexFormatSupported(VertexParticle))
}

func TestMatrixCopiesInput(t *testing.T) {
	stages := map[Stage]StageSupport{StageAlbedo: {}}
	m := NewEntryPointMatrix(stages)
	stages[StageZOnly] = StageSupport{}
	assert.False(t, m.Supported(StageZOnly))
}

func TestFamilySharedMethodIndex(t *testing.T) {
	f := testFamily()
	i, ok := f.SharedMethodIndex(StageShadowGenerate)
	assert.True(t, ok)
	assert.Equal(t, 1, i)
	assert.True(t, f.MethodShared(StageShadowGenerate, 1))
	assert.False(t, f.MethodShared(StageShadowGenerate, 0))

	i, ok = f.SharedMethodIndex(StageStaticSH)
	assert.False(t, ok)
	assert.Equal(t, -1, i)
	assert.False(t, f.MethodShared(StageAlbedo, 1))
}

func TestStageNames(t *testing.T) {
	assert.Equal(t, "entry_static_prt_ambient", StageStaticPRTAmbient.EntryPoint())
	assert.Equal(t, "entry_shadow_generate", StageShadowGenerate.EntryPoint())

	s, err := ParseStage("static_sh")
	assert.NoError(t, err)
	assert.Equal(t, StageStaticSH, s)
	_, err = ParseStage("nope")
	assert.Error(t, err)

	vf, err := ParseVertexFormat("Particle_Model")
	assert.NoError(t, err)
	assert.Equal(t, VertexParticleModel, vf)

	st, err := ParseShaderType("particle")
	assert.NoError(t, err)
	assert.Equal(t, TypeParticle, st)
	assert.False(t, Stage(200).Valid())
	assert.Len(t, Stages(), 20)
}
