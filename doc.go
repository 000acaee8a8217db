// Package shadergen generates shader permutations from an option schema.
//
// # Overview
//
// A technique family (see the shader and particle packages) declares a set
// of methods, each with an ordered list of options. Picking one option per
// method yields a Selection. For a selection and a render stage the
// generator assembles the preprocessor macros that specialize the family's
// template, hands them to a Backend and returns the compiled Program.
// It also reports which parameters a permutation binds.
//
// # Quick Start
//
//	import (
//	    "github.com/gogpu/shadergen"
//	    "github.com/gogpu/shadergen/backend/naga"
//	    "github.com/gogpu/shadergen/catalog"
//	    "github.com/gogpu/shadergen/shader"
//	    "github.com/gogpu/shadergen/template"
//	)
//
//	sel, _ := shader.Schema().Default().With("albedo", catalog.AlbedoConstantColor)
//	gen := shadergen.NewGenerator(shader.Family(),
//	    shadergen.WithSelection(sel),
//	    shadergen.WithTemplates(template.NewOSRepository("shaders")),
//	    shadergen.WithTemplateExtension(".wgsl"),
//	    shadergen.WithBackend(naga.New()))
//
//	prog, err := gen.GeneratePixel(ctx, shadergen.StageAlbedo)
//
// # Programs
//
// There are three kinds of program:
//   - Pixel: one per selection and stage, specialized by every method.
//   - Shared pixel: stages such as Shadow_Generate branch on a single
//     method, so one program per option of that method serves every
//     selection.
//   - Shared vertex: vertex programs depend only on the vertex format and
//     the stage.
//
// # Selections
//
// A selection encodes as one byte per method, in schema order. Keys are the
// hex form of those bytes and are stable across processes.
//
// # Concurrency
//
// Generators and families are immutable. Every compilation gets its own
// IncludeResolver, so concurrent generation never shares include state.
// ProgramCache and Batch add sharing and parallelism on top.
package shadergen

// Version information
const (
	// Version is the current version of the library
	Version = "0.1.0"

	// VersionMajor is the major version
	VersionMajor = 0

	// VersionMinor is the minor version
	VersionMinor = 1

	// VersionPatch is the patch version
	VersionPatch = 0
)
