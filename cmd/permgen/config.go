package main

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"

	"github.com/mitchellh/go-homedir"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/afero"
)

// defaultConfigPath is read when --config is not given. A missing default
// file is not an error.
const defaultConfigPath = "~/.config/permgen/permgen.toml"

// config is the permgen configuration file.
//
//	family = "particle"
//	templates = "~/src/shaders"
//	extension = ".wgsl"
//	output = "spirv"
//	out_dir = "build/shaders"
//
//	[[selection]]
//	name = "glow"
//	options = { albedo = "Palettized_Glow", blend_mode = "Additive" }
type config struct {
	Family        string            `toml:"family"`
	Templates     string            `toml:"templates"`
	Extension     string            `toml:"extension"`
	Output        string            `toml:"output"`
	OutDir        string            `toml:"out_dir"`
	PixelProfile  string            `toml:"pixel_profile"`
	VertexProfile string            `toml:"vertex_profile"`
	Fixes         bool              `toml:"fixes"`
	Validate      *bool             `toml:"validate"`
	Workers       int               `toml:"workers"`
	CacheSize     int               `toml:"cache_size"`
	Selections    []selectionConfig `toml:"selection"`
}

// selectionConfig names one selection either by key or by options.
type selectionConfig struct {
	Name    string            `toml:"name"`
	Key     string            `toml:"key"`
	Options map[string]string `toml:"options"`
}

func defaultConfig() config {
	return config{
		Family:    "shader",
		Templates: ".",
		Extension: ".wgsl",
		Output:    "spirv",
		OutDir:    ".",
	}
}

// loadConfig reads the TOML file at path over the defaults. Unknown keys
// are rejected so typos do not pass silently.
func loadConfig(fsys afero.Fs, path string, required bool) (config, error) {
	cfg := defaultConfig()
	expanded, err := homedir.Expand(path)
	if err != nil {
		return cfg, err
	}
	data, err := afero.ReadFile(fsys, expanded)
	if errors.Is(err, fs.ErrNotExist) && !required {
		return cfg, nil
	}
	if err != nil {
		return cfg, err
	}
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// expand resolves ~ in the path settings.
func (c *config) expand() error {
	var err error
	if c.Templates, err = homedir.Expand(c.Templates); err != nil {
		return err
	}
	c.OutDir, err = homedir.Expand(c.OutDir)
	return err
}

func (c *config) validate() bool {
	return c.Validate == nil || *c.Validate
}
