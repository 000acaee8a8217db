package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/gogpu/shadergen"
)

// parseSelection starts from the selection with the given key (the
// default selection when key is empty) and applies method=Option pairs.
// Option names match ignoring case.
func parseSelection(schema *shadergen.Schema, key string, pairs []string) (shadergen.Selection, error) {
	sel := schema.Default()
	if key != "" {
		var err error
		if sel, err = schema.DecodeKey(key); err != nil {
			return shadergen.Selection{}, err
		}
	}
	for _, pair := range pairs {
		method, option, ok := strings.Cut(pair, "=")
		if !ok {
			return shadergen.Selection{}, fmt.Errorf("selection %q: want method=Option", pair)
		}
		var err error
		if sel, err = withOption(sel, strings.TrimSpace(method), strings.TrimSpace(option)); err != nil {
			return shadergen.Selection{}, err
		}
	}
	return sel, nil
}

func parseSelectionConfig(schema *shadergen.Schema, sc selectionConfig) (shadergen.Selection, error) {
	methods := make([]string, 0, len(sc.Options))
	for m := range sc.Options {
		methods = append(methods, m)
	}
	sort.Strings(methods)
	pairs := make([]string, len(methods))
	for i, m := range methods {
		pairs[i] = m + "=" + sc.Options[m]
	}
	sel, err := parseSelection(schema, sc.Key, pairs)
	if err != nil && sc.Name != "" {
		return sel, fmt.Errorf("selection %s: %w", sc.Name, err)
	}
	return sel, err
}

func withOption(sel shadergen.Selection, method, name string) (shadergen.Selection, error) {
	schema := sel.Schema()
	i, ok := schema.MethodIndex(method)
	if !ok {
		return shadergen.Selection{}, fmt.Errorf("%w: %s has no method %s", shadergen.ErrSchemaMismatch, schema.Name(), method)
	}
	m := schema.Method(i)
	for _, o := range m.Options {
		if strings.EqualFold(o.Name(), name) {
			return sel.With(method, o)
		}
	}
	return shadergen.Selection{}, fmt.Errorf("%w: %s is not an option of %s", shadergen.ErrSchemaMismatch, name, method)
}
