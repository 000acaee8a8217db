package main

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/gogpu/shadergen"
	"github.com/gogpu/shadergen/template"
)

// selectFlags are the flags that pick one selection.
type selectFlags struct {
	key   string
	pairs []string
}

func (s *selectFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.key, "key", "", "selection key (hex, one byte per method)")
	cmd.Flags().StringArrayVarP(&s.pairs, "select", "s", nil, "method=Option, repeatable")
}

func (s *selectFlags) selection(schema *shadergen.Schema) (shadergen.Selection, error) {
	return parseSelection(schema, s.key, s.pairs)
}

type methodInfo struct {
	Index   int      `yaml:"index"`
	Name    string   `yaml:"name"`
	Options []string `yaml:"options"`
}

type schemaInfo struct {
	Family        string       `yaml:"family"`
	Methods       []methodInfo `yaml:"methods"`
	Stages        []string     `yaml:"stages"`
	SharedStages  []string     `yaml:"shared_pixel_stages,omitempty"`
	VertexFormats []string     `yaml:"vertex_formats"`
}

func (a *app) optionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "List the methods, options, stages and vertex formats of a family",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			f := a.family
			info := schemaInfo{Family: f.Name()}
			for i := range f.Schema.MethodCount() {
				m := f.Schema.Method(i)
				mi := methodInfo{Index: i, Name: m.Name}
				for _, o := range m.Options {
					mi.Options = append(mi.Options, o.Name())
				}
				info.Methods = append(info.Methods, mi)
			}
			for _, s := range f.Matrix.Stages() {
				info.Stages = append(info.Stages, s.String())
				if f.Matrix.PixelShared(s) {
					info.SharedStages = append(info.SharedStages, s.String())
				}
			}
			for _, vf := range f.Matrix.VertexFormats() {
				info.VertexFormats = append(info.VertexFormats, vf.String())
			}
			return writeYAML(cmd.OutOrStdout(), info)
		},
	}
}

func (a *app) macrosCmd() *cobra.Command {
	var (
		sf     selectFlags
		stage  string
		vertex string
	)
	cmd := &cobra.Command{
		Use:   "macros",
		Short: "Print the macro set of a permutation",
		Long: `Print the macro set handed to the backend for a selection at a stage.
With --vertex the shared vertex program's macros are printed instead.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := a.stage(stage)
			if err != nil {
				return err
			}
			sel, err := sf.selection(a.family.Schema)
			if err != nil {
				return err
			}
			gen := shadergen.NewGenerator(a.family,
				shadergen.WithSelection(sel),
				shadergen.WithFixes(a.cfg.Fixes))

			var macros shadergen.MacroSet
			if vertex != "" {
				vf, err := shadergen.ParseVertexFormat(vertex)
				if err != nil {
					return err
				}
				macros, err = gen.SharedVertexMacros(vf, st)
				if err != nil {
					return err
				}
			} else if macros, err = gen.PixelMacros(st); err != nil {
				return err
			}
			if macros == nil {
				return fmt.Errorf("%s has no program for stage %s", a.family.Name(), st)
			}
			return writeYAML(cmd.OutOrStdout(), macros)
		},
	}
	sf.register(cmd)
	cmd.Flags().StringVar(&stage, "stage", "", "stage name (default: first supported stage)")
	cmd.Flags().StringVar(&vertex, "vertex", "", "vertex format; prints the shared vertex program's macros")
	return cmd
}

type paramsInfo struct {
	Selection string               `yaml:"selection"`
	Key       string               `yaml:"key"`
	Pixel     shadergen.Parameters `yaml:"pixel"`
	Vertex    shadergen.Parameters `yaml:"vertex"`
	Global    shadergen.Parameters `yaml:"global"`
}

func (a *app) paramsCmd() *cobra.Command {
	var sf selectFlags
	cmd := &cobra.Command{
		Use:   "params",
		Short: "Print the parameters a permutation binds",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sel, err := sf.selection(a.family.Schema)
			if err != nil {
				return err
			}
			gen := shadergen.NewGenerator(a.family, shadergen.WithSelection(sel))
			info := paramsInfo{
				Selection: sel.String(),
				Key:       sel.Key(),
				Global:    gen.GlobalParameters(),
			}
			if info.Pixel, err = gen.PixelParameters(); err != nil {
				return err
			}
			if info.Vertex, err = gen.VertexParameters(); err != nil {
				return err
			}
			return writeYAML(cmd.OutOrStdout(), info)
		},
	}
	sf.register(cmd)
	return cmd
}

func (a *app) compileCmd() *cobra.Command {
	var (
		sf     selectFlags
		stage  string
		vertex string
	)
	cmd := &cobra.Command{
		Use:   "compile",
		Short: "Compile one permutation and write it to the output directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := a.stage(stage)
			if err != nil {
				return err
			}
			sel, err := sf.selection(a.family.Schema)
			if err != nil {
				return err
			}
			opts, err := a.generatorOptions(nil)
			if err != nil {
				return err
			}
			gen := shadergen.NewGenerator(a.family, append(opts, shadergen.WithSelection(sel))...)

			req := shadergen.Request{Kind: shadergen.ProgramPixel, Selection: sel, Stage: st}
			var p *shadergen.Program
			if vertex != "" {
				vf, err := shadergen.ParseVertexFormat(vertex)
				if err != nil {
					return err
				}
				req = shadergen.Request{Kind: shadergen.ProgramSharedVertex, Stage: st, VertexFormat: vf}
				p, err = gen.GenerateVertex(cmd.Context(), vf, st)
				if err != nil {
					return err
				}
			} else if p, err = gen.GeneratePixel(cmd.Context(), st); err != nil {
				return err
			}
			if p == nil {
				return fmt.Errorf("%s has no program for stage %s", a.family.Name(), st)
			}
			if p.Kind == shadergen.ProgramSharedPixel {
				req = sharedPixelRequest(a.family, sel, st)
			}
			path, err := a.writeProgram(programName(a.family, req), p)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), path)
			return nil
		},
	}
	sf.register(cmd)
	cmd.Flags().StringVar(&stage, "stage", "", "stage name (default: first supported stage)")
	cmd.Flags().StringVar(&vertex, "vertex", "", "vertex format; compiles the shared vertex program")
	return cmd
}

// sharedPixelRequest names the shared pixel program sel uses at stage.
func sharedPixelRequest(f *shadergen.Family, sel shadergen.Selection, stage shadergen.Stage) shadergen.Request {
	req := shadergen.Request{Kind: shadergen.ProgramSharedPixel, Stage: stage, Method: -1}
	if i, ok := f.SharedMethodIndex(stage); ok {
		req.Method, req.Ordinal = i, sel.Ordinal(i)
	}
	return req
}

type batchReport struct {
	Family   string               `yaml:"family"`
	Programs int                  `yaml:"programs"`
	Written  []string             `yaml:"written"`
	Elapsed  string               `yaml:"elapsed"`
	Cache    shadergen.CacheStats `yaml:"cache"`
}

func (a *app) batchCmd() *cobra.Command {
	var sf selectFlags
	cmd := &cobra.Command{
		Use:   "batch",
		Short: "Compile every configured selection and every shared program",
		Long: `Compile the pixel programs of every [[selection]] in the configuration
file (plus the one given by --key/--select, if any) at every stage, and every
shared pixel and vertex program of the family.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sels, err := a.selections(sf)
			if err != nil {
				return err
			}
			cache := shadergen.NewProgramCache(a.cfg.CacheSize)
			report, err := a.runBatch(cmd.Context(), sels, cache)
			if err != nil {
				return err
			}
			return writeYAML(cmd.OutOrStdout(), report)
		},
	}
	sf.register(cmd)
	return cmd
}

func (a *app) watchCmd() *cobra.Command {
	var sf selectFlags
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Run batch, then rebuild whenever templates change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			sels, err := a.selections(sf)
			if err != nil {
				return err
			}
			cache := shadergen.NewProgramCache(a.cfg.CacheSize)
			changed := make(chan struct{}, 1)
			w, err := template.Watch(a.repository(), cache, template.OnInvalidate(func(string, int) {
				select {
				case changed <- struct{}{}:
				default:
				}
			}))
			if err != nil {
				return err
			}
			defer w.Close()

			for {
				report, err := a.runBatch(ctx, sels, cache)
				if err != nil {
					if ctx.Err() != nil {
						return nil
					}
					fmt.Fprintln(cmd.ErrOrStderr(), err)
				} else if err := writeYAML(cmd.OutOrStdout(), report); err != nil {
					return err
				}

				select {
				case <-ctx.Done():
					return nil
				case <-changed:
				}
				// Let editors finish writing before rebuilding.
				select {
				case <-ctx.Done():
					return nil
				case <-time.After(100 * time.Millisecond):
				}
			}
		},
	}
	sf.register(cmd)
	return cmd
}

// selections returns the configured selections, plus the one named by sf
// when any selection flag is set. With neither, the default selection is
// used.
func (a *app) selections(sf selectFlags) ([]shadergen.Selection, error) {
	schema := a.family.Schema
	var sels []shadergen.Selection
	for _, sc := range a.cfg.Selections {
		sel, err := parseSelectionConfig(schema, sc)
		if err != nil {
			return nil, err
		}
		sels = append(sels, sel)
	}
	if sf.key != "" || len(sf.pairs) > 0 || len(sels) == 0 {
		sel, err := sf.selection(schema)
		if err != nil {
			return nil, err
		}
		sels = append(sels, sel)
	}
	return sels, nil
}

func (a *app) runBatch(ctx context.Context, sels []shadergen.Selection, cache *shadergen.ProgramCache) (batchReport, error) {
	start := time.Now()
	opts, err := a.generatorOptions(cache)
	if err != nil {
		return batchReport{}, err
	}
	b := shadergen.NewBatch(a.family, a.cfg.Workers, opts...)
	defer b.Close()

	reqs := append(shadergen.PixelRequests(a.family, sels...), shadergen.SharedRequests(a.family)...)
	results, err := b.Run(ctx, reqs)
	if err != nil {
		return batchReport{}, err
	}
	report := batchReport{Family: a.family.Name()}
	for _, r := range results {
		if r.Program == nil {
			continue
		}
		path, err := a.writeProgram(programName(a.family, r.Request), r.Program)
		if err != nil {
			return batchReport{}, err
		}
		report.Programs++
		report.Written = append(report.Written, path)
	}
	report.Elapsed = time.Since(start).Round(time.Millisecond).String()
	report.Cache = cache.Stats()
	return report, nil
}

// stage parses name, defaulting to the family's first supported stage.
func (a *app) stage(name string) (shadergen.Stage, error) {
	if name == "" {
		return a.family.Matrix.Stages()[0], nil
	}
	st, err := shadergen.ParseStage(strings.ReplaceAll(name, "-", "_"))
	if err != nil {
		return 0, err
	}
	if !a.family.Matrix.Supported(st) {
		return 0, fmt.Errorf("%s does not support stage %s", a.family.Name(), st)
	}
	return st, nil
}
