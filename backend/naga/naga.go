// Package naga compiles WGSL shader templates with the pure Go naga
// compiler.
//
// Templates are expanded with template.Preprocess, using the macro set of
// the request, then parsed, lowered, validated and emitted as SPIR-V, HLSL
// or GLSL. The entry point named by the request must run at the request's
// stage.
//
// Example:
//
//	gen := shadergen.NewGenerator(shader.Family(),
//	    shadergen.WithSelection(sel),
//	    shadergen.WithTemplates(template.NewOSRepository("shaders")),
//	    shadergen.WithTemplateExtension(".wgsl"),
//	    shadergen.WithBackend(naga.New(naga.WithOutput(naga.OutputHLSL))))
package naga

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/gogpu/gputypes"
	gonaga "github.com/gogpu/naga"
	"github.com/gogpu/naga/glsl"
	"github.com/gogpu/naga/hlsl"
	"github.com/gogpu/naga/ir"
	"github.com/gogpu/naga/spirv"

	"github.com/gogpu/shadergen"
	"github.com/gogpu/shadergen/template"
)

// Output selects the code the backend emits.
type Output uint8

// Outputs.
const (
	// OutputSPIRV emits a SPIR-V binary.
	OutputSPIRV Output = iota
	// OutputHLSL emits HLSL source for the requested entry point.
	OutputHLSL
	// OutputGLSL emits GLSL source for the requested entry point.
	OutputGLSL
)

// String returns the output name.
func (o Output) String() string {
	switch o {
	case OutputSPIRV:
		return "spirv"
	case OutputHLSL:
		return "hlsl"
	case OutputGLSL:
		return "glsl"
	default:
		return "Output(" + strconv.Itoa(int(o)) + ")"
	}
}

// ParseOutput parses an output name as returned by Output.String.
func ParseOutput(s string) (Output, error) {
	switch strings.ToLower(s) {
	case "spirv", "spv", "":
		return OutputSPIRV, nil
	case "hlsl":
		return OutputHLSL, nil
	case "glsl":
		return OutputGLSL, nil
	}
	return 0, fmt.Errorf("naga: unknown output %q", s)
}

// ErrNoTemplates reports a request without an include resolver, so there
// is no template text to compile.
var ErrNoTemplates = errors.New("naga: request has no template source")

// Backend is a shadergen.Backend backed by naga. It holds no per-request
// state and is safe for concurrent use.
type Backend struct {
	output       Output
	spirvVersion spirv.Version
	glslVersion  glsl.Version
	validate     bool
	debug        bool
}

// Option configures a Backend.
type Option func(*Backend)

// WithOutput sets the emitted code. The default is OutputSPIRV.
func WithOutput(o Output) Option {
	return func(b *Backend) {
		b.output = o
	}
}

// WithSPIRVVersion sets the SPIR-V version. The default is 1.3.
func WithSPIRVVersion(v spirv.Version) Option {
	return func(b *Backend) {
		b.spirvVersion = v
	}
}

// WithGLSLVersion sets the GLSL language version. The default is 3.30.
func WithGLSLVersion(v glsl.Version) Option {
	return func(b *Backend) {
		b.glslVersion = v
	}
}

// WithValidation toggles IR validation. It is on by default.
func WithValidation(on bool) Option {
	return func(b *Backend) {
		b.validate = on
	}
}

// WithDebug includes debug information in SPIR-V output.
func WithDebug(on bool) Option {
	return func(b *Backend) {
		b.debug = on
	}
}

// New creates a naga backend.
func New(opts ...Option) *Backend {
	b := &Backend{
		output:       OutputSPIRV,
		spirvVersion: spirv.Version1_3,
		glslVersion:  glsl.Version330,
		validate:     true,
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Output returns the configured output.
func (b *Backend) Output() Output { return b.output }

// CacheKey implements shadergen.CacheKeyer. It covers every setting that
// changes the emitted code.
func (b *Backend) CacheKey() string {
	return fmt.Sprintf("naga/%s/%v/%v/%t/%t", b.output, b.spirvVersion, b.glslVersion, b.validate, b.debug)
}

// Compile implements shadergen.Backend. Failures are reported as
// *shadergen.CompileDiagnostic.
func (b *Backend) Compile(ctx context.Context, req shadergen.CompileRequest) ([]byte, error) {
	fail := func(err error, log string) error {
		return &shadergen.CompileDiagnostic{
			Template: req.Template,
			Entry:    req.Entry,
			Profile:  req.Profile,
			Log:      log,
			Err:      err,
		}
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if req.Includes == nil {
		return nil, fail(ErrNoTemplates, "")
	}

	source, err := template.Preprocess(req.Includes, req.Template, req.Macros)
	if err != nil {
		return nil, fail(err, "")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	ast, err := gonaga.Parse(source)
	if err != nil {
		return nil, fail(err, source)
	}
	module, err := gonaga.LowerWithSource(ast, source)
	if err != nil {
		return nil, fail(err, source)
	}
	if b.validate {
		problems, err := gonaga.Validate(module)
		if err != nil {
			return nil, fail(err, "")
		}
		if len(problems) > 0 {
			return nil, fail(fmt.Errorf("validation failed: %w", &problems[0]), validationLog(problems))
		}
	}
	if err := checkEntryPoint(module, req.Entry, req.Stage); err != nil {
		return nil, fail(err, "")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	code, err := b.emit(module, req)
	if err != nil {
		return nil, fail(err, "")
	}
	shadergen.Logger().Debug("naga: compiled",
		slog.String("template", req.Template),
		slog.String("entry", req.Entry),
		slog.String("output", b.output.String()),
		slog.Int("bytes", len(code)))
	return code, nil
}

func (b *Backend) emit(module *ir.Module, req shadergen.CompileRequest) ([]byte, error) {
	switch b.output {
	case OutputHLSL:
		opts := hlsl.DefaultOptions()
		opts.EntryPoint = req.Entry
		opts.ShaderModel = ShaderModel(req.Profile)
		code, _, err := hlsl.Compile(module, opts)
		if err != nil {
			return nil, err
		}
		return []byte(code), nil
	case OutputGLSL:
		opts := glsl.DefaultOptions()
		opts.LangVersion = b.glslVersion
		opts.EntryPoint = req.Entry
		code, _, err := glsl.Compile(module, opts)
		if err != nil {
			return nil, err
		}
		return []byte(code), nil
	default:
		return gonaga.GenerateSPIRV(module, spirv.Options{
			Version: b.spirvVersion,
			Debug:   b.debug,
		})
	}
}

// checkEntryPoint fails unless module has an entry point called entry
// running at stage. A request without a single stage only checks the name.
func checkEntryPoint(module *ir.Module, entry string, stage gputypes.ShaderStages) error {
	for _, ep := range module.EntryPoints {
		if ep.Name != entry {
			continue
		}
		want, ok := irStage(stage)
		if ok && ep.Stage != want {
			return fmt.Errorf("entry point %s is not a %s shader", entry, stageName(want))
		}
		return nil
	}
	return fmt.Errorf("entry point %s not found", entry)
}

func irStage(s gputypes.ShaderStages) (ir.ShaderStage, bool) {
	switch s {
	case gputypes.ShaderStageFragment:
		return ir.StageFragment, true
	case gputypes.ShaderStageVertex:
		return ir.StageVertex, true
	}
	return 0, false
}

func stageName(s ir.ShaderStage) string {
	if s == ir.StageVertex {
		return "vertex"
	}
	return "fragment"
}

var shaderModels = map[string]hlsl.ShaderModel{
	"5_0": hlsl.ShaderModel5_0,
	"5_1": hlsl.ShaderModel5_1,
	"6_0": hlsl.ShaderModel6_0,
	"6_1": hlsl.ShaderModel6_1,
	"6_2": hlsl.ShaderModel6_2,
	"6_3": hlsl.ShaderModel6_3,
	"6_4": hlsl.ShaderModel6_4,
	"6_5": hlsl.ShaderModel6_5,
	"6_6": hlsl.ShaderModel6_6,
	"6_7": hlsl.ShaderModel6_7,
}

// ShaderModel maps a profile such as ps_5_1 to its HLSL shader model.
// Profiles below 5.0, such as the default ps_3_0, and unknown profiles use
// shader model 5.0.
func ShaderModel(profile string) hlsl.ShaderModel {
	version := profile
	if i := strings.IndexByte(profile, '_'); i >= 0 {
		version = profile[i+1:]
	}
	if sm, ok := shaderModels[version]; ok {
		return sm
	}
	shadergen.Logger().Warn("naga: profile has no HLSL shader model, using 5.0",
		slog.String("profile", profile))
	return hlsl.ShaderModel5_0
}

func validationLog(problems []ir.ValidationError) string {
	var b strings.Builder
	for i := range problems {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(problems[i].Error())
	}
	return b.String()
}
