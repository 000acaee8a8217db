package main

import (
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/shadergen"
	"github.com/gogpu/shadergen/backend/naga"
	"github.com/gogpu/shadergen/particle"
	"github.com/gogpu/shadergen/shader"
	"github.com/gogpu/shadergen/template"
)

// app holds the state shared by every subcommand.
type app struct {
	fs afero.Fs

	configPath string
	verbose    bool

	// Flag values; they override the configuration file when set.
	flags config

	cfg    config
	family *shadergen.Family
}

func newApp(fsys afero.Fs) *app {
	return &app{fs: fsys}
}

func newRootCmd() *cobra.Command {
	return newApp(afero.NewOsFs()).command()
}

func (a *app) command() *cobra.Command {
	root := &cobra.Command{
		Use:               "permgen",
		Short:             "Inspect and compile shader permutations",
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}
	f := root.PersistentFlags()
	f.StringVar(&a.configPath, "config", "", "configuration file (default "+defaultConfigPath+")")
	f.BoolVarP(&a.verbose, "verbose", "v", false, "log debug output to stderr")
	f.StringVarP(&a.flags.Family, "family", "f", "", "technique family: shader or particle")
	f.StringVar(&a.flags.Templates, "templates", "", "template directory")
	f.StringVar(&a.flags.Extension, "ext", "", "template file extension")
	f.StringVarP(&a.flags.Output, "output", "o", "", "emitted code: spirv, hlsl or glsl")
	f.StringVar(&a.flags.OutDir, "out-dir", "", "directory compiled programs are written to")
	f.StringVar(&a.flags.PixelProfile, "pixel-profile", "", "pixel target profile")
	f.StringVar(&a.flags.VertexProfile, "vertex-profile", "", "vertex target profile")
	f.BoolVar(&a.flags.Fixes, "fixes", false, "set APPLY_HLSL_FIXES")
	f.IntVarP(&a.flags.Workers, "workers", "j", 0, "batch workers (0 = GOMAXPROCS)")
	f.Bool("validate", true, "validate compiled modules")

	root.AddCommand(
		a.optionsCmd(),
		a.macrosCmd(),
		a.paramsCmd(),
		a.compileCmd(),
		a.batchCmd(),
		a.watchCmd(),
	)
	return root
}

// setup loads the configuration and applies flag overrides.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	path, required := a.configPath, a.configPath != ""
	if !required {
		path = defaultConfigPath
	}
	cfg, err := loadConfig(a.fs, path, required)
	if err != nil {
		return err
	}

	flags := cmd.Flags()
	override := func(name string, dst *string, v string) {
		if flags.Changed(name) {
			*dst = v
		}
	}
	override("family", &cfg.Family, a.flags.Family)
	override("templates", &cfg.Templates, a.flags.Templates)
	override("ext", &cfg.Extension, a.flags.Extension)
	override("output", &cfg.Output, a.flags.Output)
	override("out-dir", &cfg.OutDir, a.flags.OutDir)
	override("pixel-profile", &cfg.PixelProfile, a.flags.PixelProfile)
	override("vertex-profile", &cfg.VertexProfile, a.flags.VertexProfile)
	if flags.Changed("fixes") {
		cfg.Fixes = a.flags.Fixes
	}
	if flags.Changed("workers") {
		cfg.Workers = a.flags.Workers
	}
	if flags.Changed("validate") {
		v, err := flags.GetBool("validate")
		if err != nil {
			return err
		}
		cfg.Validate = &v
	}
	if err := cfg.expand(); err != nil {
		return err
	}

	if a.family, err = lookupFamily(cfg.Family); err != nil {
		return err
	}
	if a.verbose {
		shadergen.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}
	a.cfg = cfg
	return nil
}

func lookupFamily(name string) (*shadergen.Family, error) {
	switch strings.ToLower(name) {
	case "shader":
		return shader.Family(), nil
	case "particle":
		return particle.Family(), nil
	}
	return nil, fmt.Errorf("unknown family %q (want shader or particle)", name)
}

func (a *app) repository() *template.Repository {
	return template.NewRepository(a.fs, a.cfg.Templates)
}

func (a *app) backend() (*naga.Backend, error) {
	out, err := naga.ParseOutput(a.cfg.Output)
	if err != nil {
		return nil, err
	}
	return naga.New(naga.WithOutput(out), naga.WithValidation(a.cfg.validate())), nil
}

// generatorOptions returns the options every generator of a run shares.
func (a *app) generatorOptions(cache *shadergen.ProgramCache) ([]shadergen.GeneratorOption, error) {
	b, err := a.backend()
	if err != nil {
		return nil, err
	}
	opts := []shadergen.GeneratorOption{
		shadergen.WithBackend(b),
		shadergen.WithTemplates(a.repository()),
		shadergen.WithTemplateExtension(a.cfg.Extension),
		shadergen.WithFixes(a.cfg.Fixes),
		shadergen.WithProfiles(a.cfg.PixelProfile, a.cfg.VertexProfile),
	}
	if cache != nil {
		opts = append(opts, shadergen.WithCache(cache))
	}
	return opts, nil
}

// writeProgram stores p under the output directory and returns its path.
func (a *app) writeProgram(name string, p *shadergen.Program) (string, error) {
	if err := a.fs.MkdirAll(a.cfg.OutDir, 0o755); err != nil {
		return "", err
	}
	ext := a.cfg.Output
	if ext == "" || ext == "spirv" {
		ext = "spv"
	}
	path := filepath.Join(a.cfg.OutDir, name+"."+ext)
	if err := afero.WriteFile(a.fs, path, p.Bytecode, 0o644); err != nil {
		return "", err
	}
	return path, nil
}

// programName names the output file of a batch request.
func programName(f *shadergen.Family, req shadergen.Request) string {
	stage := strings.ToLower(req.Stage.String())
	switch req.Kind {
	case shadergen.ProgramSharedPixel:
		if req.Method < 0 {
			return fmt.Sprintf("%s_shared_%s", f.Name(), stage)
		}
		m := f.Schema.Method(req.Method)
		return fmt.Sprintf("%s_shared_%s_%s_%s", f.Name(), stage, m.Name, strings.ToLower(m.Options[req.Ordinal].Name()))
	case shadergen.ProgramSharedVertex:
		return fmt.Sprintf("%s_vertex_%s_%s", f.Name(), strings.ToLower(req.VertexFormat.String()), stage)
	default:
		return fmt.Sprintf("%s_%s_%s", f.Name(), req.Selection.Key(), stage)
	}
}

func writeYAML(w io.Writer, v any) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
