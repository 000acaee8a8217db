package shadergen

import (
	"errors"
	"fmt"
)

// Configuration errors. They are detected before any backend call and are
// never retried.
var (
	// ErrSchemaMismatch reports a selection or byte vector that does not fit
	// a family's option schema.
	ErrSchemaMismatch = errors.New("shadergen: selection does not match schema")

	// ErrNotConfigured reports a per-selection call on a generator that was
	// created without a selection.
	ErrNotConfigured = errors.New("shadergen: generator has no bound selection")

	// ErrDuplicateMacroDefinition reports a macro set that defines the same
	// name twice. Use errors.As with *DuplicateMacroError for the name.
	ErrDuplicateMacroDefinition = errors.New("shadergen: duplicate macro definition")

	// ErrUnsupportedOption reports a permutation the engine refuses to build.
	ErrUnsupportedOption = errors.New("shadergen: unsupported option")

	// ErrTemplateNotFound reports a template or include that the template
	// source cannot resolve.
	ErrTemplateNotFound = errors.New("shadergen: template not found")

	// ErrNoBackend reports a generation call on a generator without a
	// compilation backend.
	ErrNoBackend = errors.New("shadergen: no compilation backend configured")
)

// DuplicateMacroError names the macro that appeared more than once.
type DuplicateMacroError struct {
	Name string
}

func (e *DuplicateMacroError) Error() string {
	return fmt.Sprintf("shadergen: macro %s is defined multiple times", e.Name)
}

// Is reports whether target is ErrDuplicateMacroDefinition.
func (e *DuplicateMacroError) Is(target error) bool {
	return target == ErrDuplicateMacroDefinition
}

// UnsupportedOptionError names the method and option that cannot be built.
type UnsupportedOptionError struct {
	Method string
	Option Option
}

func (e *UnsupportedOptionError) Error() string {
	return fmt.Sprintf("shadergen: %s option %s is not supported", e.Method, e.Option)
}

// Is reports whether target is ErrUnsupportedOption.
func (e *UnsupportedOptionError) Is(target error) bool {
	return target == ErrUnsupportedOption
}

// CompileDiagnostic is a compilation failure reported by a backend.
// The generator passes it through to the caller unchanged.
type CompileDiagnostic struct {
	Template string
	Entry    string
	Profile  string

	// Log holds the backend's diagnostic text, if any.
	Log string

	// Err is the underlying backend error.
	Err error
}

func (d *CompileDiagnostic) Error() string {
	msg := fmt.Sprintf("shadergen: compile %s (%s, %s)", d.Template, d.Entry, d.Profile)
	if d.Err != nil {
		msg += ": " + d.Err.Error()
	}
	if d.Log != "" {
		msg += "\n" + d.Log
	}
	return msg
}

func (d *CompileDiagnostic) Unwrap() error {
	return d.Err
}
