package shadergen

import (
	"context"
	"fmt"

	"github.com/gogpu/gputypes"
)

// IncludeResolver resolves template and include paths for one generation
// request. Each request gets its own resolver, so no include state is shared
// between concurrent compilations.
type IncludeResolver interface {
	// Resolve returns the source text of path relative to dir, together with
	// the directory nested includes of that file resolve against. An empty
	// dir means the directory of the requested template. Missing files fail
	// with an error wrapping ErrTemplateNotFound.
	Resolve(path, dir string) (source, resolvedDir string, err error)
}

// TemplateSource hands out request-scoped include resolvers.
type TemplateSource interface {
	Scope(template string) IncludeResolver
}

// CompileRequest is everything a backend needs to build one program.
type CompileRequest struct {
	Template string
	Entry    string
	Profile  string
	Macros   MacroSet

	// Stage is the pipeline stage Entry must run at: fragment for pixel
	// programs, vertex for shared vertex programs.
	Stage gputypes.ShaderStages

	// Includes resolves Template itself (path Template, dir "") and every
	// include it pulls in. Nil when the generator has no template source.
	Includes IncludeResolver
}

// Backend compiles a template into bytecode. Compile may block; it should
// return promptly once ctx is done. Failures should be reported as
// *CompileDiagnostic.
type Backend interface {
	Compile(ctx context.Context, req CompileRequest) ([]byte, error)
}

// CacheKeyer is implemented by backends whose output depends on their
// configuration. Programs compiled by backends with different cache keys
// never share a ProgramCache entry. Backends without a cache key are told
// apart by type only.
type CacheKeyer interface {
	CacheKey() string
}

func backendKey(b Backend) string {
	if k, ok := b.(CacheKeyer); ok {
		return k.CacheKey()
	}
	return fmt.Sprintf("%T", b)
}

// BackendFunc adapts a function to Backend.
type BackendFunc func(ctx context.Context, req CompileRequest) ([]byte, error)

// Compile calls f(ctx, req).
func (f BackendFunc) Compile(ctx context.Context, req CompileRequest) ([]byte, error) {
	return f(ctx, req)
}

// ProgramKind tells which generation path produced a program.
type ProgramKind uint8

// Program kinds.
const (
	ProgramPixel ProgramKind = iota
	ProgramSharedPixel
	ProgramSharedVertex
)

var programKindNames = []string{"pixel", "shared_pixel", "shared_vertex"}

func (k ProgramKind) String() string { return nameOf(programKindNames, k) }

// MarshalText implements encoding.TextMarshaler.
func (k ProgramKind) MarshalText() ([]byte, error) { return []byte(k.String()), nil }

// Program is a compiled permutation. Programs returned from a ProgramCache
// are shared and must not be modified.
type Program struct {
	Kind     ProgramKind           `yaml:"kind"`
	Stage    gputypes.ShaderStages `yaml:"-"`
	Template string                `yaml:"template"`
	Entry    string                `yaml:"entry"`
	Profile  string                `yaml:"profile"`
	Macros   MacroSet              `yaml:"macros"`
	Bytecode []byte                `yaml:"-"`
}
