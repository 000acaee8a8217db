package shadergen

// GeneratorOption configures a Generator during creation.
//
// Example:
//
//	gen := shadergen.NewGenerator(particle.Family(),
//	    shadergen.WithSelection(sel),
//	    shadergen.WithBackend(naga.New()),
//	    shadergen.WithTemplates(repo))
type GeneratorOption func(*generatorOptions)

// generatorOptions holds optional configuration for Generator creation.
type generatorOptions struct {
	selection     Selection
	backend       Backend
	templates     TemplateSource
	fixes         bool
	pixelProfile  string
	vertexProfile string
	extension     string
	cache         *ProgramCache
}

// Default target profiles and template extension.
const (
	DefaultPixelProfile      = "ps_3_0"
	DefaultVertexProfile     = "vs_3_0"
	DefaultTemplateExtension = ".hlsl"
)

func defaultGeneratorOptions() generatorOptions {
	return generatorOptions{
		pixelProfile:  DefaultPixelProfile,
		vertexProfile: DefaultVertexProfile,
		extension:     DefaultTemplateExtension,
	}
}

// WithSelection binds a selection. Without one, the generator only serves
// shared programs and global parameters.
func WithSelection(sel Selection) GeneratorOption {
	return func(o *generatorOptions) {
		o.selection = sel
	}
}

// WithBackend sets the compilation backend.
func WithBackend(b Backend) GeneratorOption {
	return func(o *generatorOptions) {
		o.backend = b
	}
}

// WithTemplates sets the template source used to scope include resolution
// for each request.
func WithTemplates(src TemplateSource) GeneratorOption {
	return func(o *generatorOptions) {
		o.templates = src
	}
}

// WithFixes sets the APPLY_HLSL_FIXES flag on every generated macro set.
func WithFixes(on bool) GeneratorOption {
	return func(o *generatorOptions) {
		o.fixes = on
	}
}

// WithProfiles overrides the pixel and vertex target profiles. Empty values
// keep the defaults.
func WithProfiles(pixel, vertex string) GeneratorOption {
	return func(o *generatorOptions) {
		if pixel != "" {
			o.pixelProfile = pixel
		}
		if vertex != "" {
			o.vertexProfile = vertex
		}
	}
}

// WithTemplateExtension sets the extension appended to family template
// names, e.g. ".wgsl".
func WithTemplateExtension(ext string) GeneratorOption {
	return func(o *generatorOptions) {
		o.extension = ext
	}
}

// WithCache shares compiled programs through c.
func WithCache(c *ProgramCache) GeneratorOption {
	return func(o *generatorOptions) {
		o.cache = c
	}
}
