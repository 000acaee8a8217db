package shadergen

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProgramCacheHitsAndMisses(t *testing.T) {
	f := testFamily()
	backend := &countingBackend{}
	c := NewProgramCache(0)
	gen := NewGenerator(f, WithSelection(f.Schema.Default()), WithBackend(backend), WithCache(c))
	ctx := context.Background()

	first, err := gen.GeneratePixel(ctx, StageAlbedo)
	require.NoError(t, err)
	second, err := gen.GeneratePixel(ctx, StageAlbedo)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.EqualValues(t, 1, backend.calls.Load())

	_, err = gen.GeneratePixel(ctx, StageDynamicLight)
	require.NoError(t, err)

	stats := c.Stats()
	assert.Equal(t, 2, stats.Programs)
	assert.Equal(t, DefaultCacheCapacity, stats.Capacity)
	assert.EqualValues(t, 1, stats.Hits)
	assert.EqualValues(t, 2, stats.Misses)
	assert.Equal(t, 2, c.Len())
}

func TestProgramCacheKeys(t *testing.T) {
	f := testFamily()
	backend := &countingBackend{}
	c := NewProgramCache(-1)
	ctx := context.Background()
	other, err := f.Schema.Default().With("albedo", optConstantColor)
	require.NoError(t, err)

	gens := []*Generator{
		NewGenerator(f, WithSelection(f.Schema.Default()), WithBackend(backend), WithCache(c)),
		NewGenerator(f, WithSelection(other), WithBackend(backend), WithCache(c)),
		NewGenerator(f, WithSelection(f.Schema.Default()), WithBackend(backend), WithCache(c), WithFixes(true)),
		NewGenerator(f, WithSelection(f.Schema.Default()), WithBackend(backend), WithCache(c), WithProfiles("ps_5_0", "")),
	}
	for _, gen := range gens {
		_, err := gen.GeneratePixel(ctx, StageAlbedo)
		require.NoError(t, err)
	}
	assert.EqualValues(t, len(gens), backend.calls.Load(), "distinct permutations compile separately")

	// Vertex programs ignore the selection.
	for _, gen := range gens[:2] {
		_, err := gen.GenerateVertex(ctx, VertexWorld, StageAlbedo)
		require.NoError(t, err)
	}
	assert.EqualValues(t, len(gens)+1, backend.calls.Load())
}

// keyedBackend emits its key so tests can tell which backend built a
// program.
type keyedBackend string

func (b keyedBackend) CacheKey() string { return "keyed/" + string(b) }

func (b keyedBackend) Compile(_ context.Context, req CompileRequest) ([]byte, error) {
	return []byte(string(b) + ":" + req.Template), nil
}

func TestProgramCacheKeysSeparateExtensionsAndBackends(t *testing.T) {
	f := testFamily()
	c := NewProgramCache(0)
	ctx := context.Background()
	sel := WithSelection(f.Schema.Default())

	hlsl, err := NewGenerator(f, sel, WithBackend(echoBackend()), WithCache(c)).GeneratePixel(ctx, StageAlbedo)
	require.NoError(t, err)
	wgsl, err := NewGenerator(f, sel, WithBackend(echoBackend()), WithCache(c),
		WithTemplateExtension(".wgsl")).GeneratePixel(ctx, StageAlbedo)
	require.NoError(t, err)
	assert.Equal(t, "pixl_test.hlsl:entry_albedo", string(hlsl.Bytecode))
	assert.Equal(t, "pixl_test.wgsl:entry_albedo", string(wgsl.Bytecode))

	spirv, err := NewGenerator(f, sel, WithBackend(keyedBackend("spirv")), WithCache(c)).GeneratePixel(ctx, StageAlbedo)
	require.NoError(t, err)
	glsl, err := NewGenerator(f, sel, WithBackend(keyedBackend("glsl")), WithCache(c)).GeneratePixel(ctx, StageAlbedo)
	require.NoError(t, err)
	assert.Equal(t, "spirv:pixl_test.hlsl", string(spirv.Bytecode))
	assert.Equal(t, "glsl:pixl_test.hlsl", string(glsl.Bytecode))
	assert.Equal(t, 4, c.Len())
}

func TestProgramCacheWaiterOutlivesCanceledCaller(t *testing.T) {
	f := testFamily()
	started := make(chan struct{})
	release := make(chan struct{})
	backend := &countingBackend{fn: func(ctx context.Context, req CompileRequest) ([]byte, error) {
		close(started)
		<-release
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		return []byte(req.Entry), nil
	}}
	c := NewProgramCache(0)
	gen := NewGenerator(f, WithSelection(f.Schema.Default()), WithBackend(backend), WithCache(c))

	ctx, cancel := context.WithCancel(context.Background())
	first := make(chan error, 1)
	go func() {
		_, err := gen.GeneratePixel(ctx, StageAlbedo)
		first <- err
	}()
	<-started

	type result struct {
		p   *Program
		err error
	}
	second := make(chan result, 1)
	go func() {
		p, err := gen.GeneratePixel(context.Background(), StageAlbedo)
		second <- result{p, err}
	}()
	time.Sleep(20 * time.Millisecond)

	cancel()
	select {
	case err := <-first:
		require.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("canceled caller did not return")
	}

	close(release)
	r := <-second
	require.NoError(t, r.err)
	assert.Equal(t, "entry_albedo", string(r.p.Bytecode))
	assert.EqualValues(t, 1, backend.calls.Load())
	assert.Equal(t, 1, c.Len(), "the shared build is cached despite the cancellation")
}

func TestProgramCacheSingleflight(t *testing.T) {
	f := testFamily()
	release := make(chan struct{})
	backend := &countingBackend{fn: func(_ context.Context, req CompileRequest) ([]byte, error) {
		<-release
		return []byte(req.Entry), nil
	}}
	c := NewProgramCache(0)
	gen := NewGenerator(f, WithSelection(f.Schema.Default()), WithBackend(backend), WithCache(c))

	const n = 8
	var wg sync.WaitGroup
	programs := make([]*Program, n)
	for i := range n {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := gen.GeneratePixel(context.Background(), StageAlbedo)
			assert.NoError(t, err)
			programs[i] = p
		}()
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.EqualValues(t, 1, backend.calls.Load())
	for _, p := range programs {
		assert.Same(t, programs[0], p)
	}
}

func TestProgramCacheErrorsNotCached(t *testing.T) {
	f := testFamily()
	fail := true
	backend := &countingBackend{fn: func(_ context.Context, req CompileRequest) ([]byte, error) {
		if fail {
			return nil, &CompileDiagnostic{Template: req.Template, Entry: req.Entry}
		}
		return []byte("ok"), nil
	}}
	c := NewProgramCache(0)
	gen := NewGenerator(f, WithSelection(f.Schema.Default()), WithBackend(backend), WithCache(c))

	_, err := gen.GeneratePixel(context.Background(), StageAlbedo)
	require.Error(t, err)
	assert.Zero(t, c.Len())

	fail = false
	p, err := gen.GeneratePixel(context.Background(), StageAlbedo)
	require.NoError(t, err)
	assert.Equal(t, "ok", string(p.Bytecode))
	assert.EqualValues(t, 2, backend.calls.Load())
}

func TestProgramCacheInvalidateTemplate(t *testing.T) {
	f := testFamily()
	c := NewProgramCache(0)
	gen := NewGenerator(f, WithSelection(f.Schema.Default()), WithBackend(echoBackend()), WithCache(c))
	ctx := context.Background()

	for _, stage := range []Stage{StageAlbedo, StageDynamicLight, StageShadowGenerate} {
		_, err := gen.GeneratePixel(ctx, stage)
		require.NoError(t, err)
	}
	_, err := gen.GenerateVertex(ctx, VertexRigid, StageAlbedo)
	require.NoError(t, err)
	require.Equal(t, 4, c.Len())

	assert.Equal(t, 2, c.InvalidateTemplate("pixl_test.hlsl"))
	assert.Equal(t, 2, c.Len())
	assert.Equal(t, 1, c.InvalidateTemplate("glps_test"))
	assert.Zero(t, c.InvalidateTemplate("missing.hlsl"))
	assert.Equal(t, 1, c.Len())

	c.Clear()
	assert.Zero(t, c.Len())
}

func TestProgramCacheEviction(t *testing.T) {
	f := testFamily()
	c := NewProgramCache(1)
	gen := NewGenerator(f, WithSelection(f.Schema.Default()), WithBackend(echoBackend()), WithCache(c))

	_, err := gen.GeneratePixel(context.Background(), StageAlbedo)
	require.NoError(t, err)
	_, err = gen.GeneratePixel(context.Background(), StageDynamicLight)
	require.NoError(t, err)

	stats := c.Stats()
	assert.Equal(t, 1, stats.Programs)
	assert.EqualValues(t, 1, stats.Evictions)
}

func TestTemplateExt(t *testing.T) {
	tests := []struct {
		name, want string
	}{
		{"pixl_shader.hlsl", ".hlsl"},
		{"pixl_shader", ""},
		{`shaders.d\pixl_shader`, ""},
		{"dir.v2/glvs.wgsl", ".wgsl"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, templateExt(tt.name), tt.name)
	}
}
