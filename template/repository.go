package template

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"

	"github.com/gogpu/shadergen"
)

// Repository is a directory of templates on an afero filesystem.
// It is safe for concurrent use.
type Repository struct {
	fs   afero.Fs
	root string
}

// NewRepository creates a repository reading from root on fsys.
func NewRepository(fsys afero.Fs, root string) *Repository {
	return &Repository{fs: fsys, root: filepath.Clean(root)}
}

// NewOSRepository creates a repository on the operating system filesystem.
func NewOSRepository(root string) *Repository {
	return NewRepository(afero.NewOsFs(), root)
}

// Root returns the repository directory.
func (r *Repository) Root() string { return r.root }

// Fs returns the underlying filesystem.
func (r *Repository) Fs() afero.Fs { return r.fs }

// Source returns the raw text of the template called name, without any
// preprocessing.
func (r *Repository) Source(name string) (string, error) {
	p, err := Clean(name)
	if err != nil {
		return "", err
	}
	return r.read(p)
}

// Exists reports whether name resolves to a file in the repository.
func (r *Repository) Exists(name string) bool {
	p, err := Clean(name)
	if err != nil {
		return false
	}
	ok, err := afero.Exists(r.fs, r.path(p))
	return err == nil && ok
}

// Scope implements shadergen.TemplateSource.
func (r *Repository) Scope(template string) shadergen.IncludeResolver {
	s := &scope{repo: r, dir: "."}
	if p, err := Clean(template); err == nil {
		s.template, s.dir = p, path.Dir(p)
	}
	return s
}

// Rel returns the slash-separated repository name of the file at the
// filesystem path p, or false if p lies outside the repository.
func (r *Repository) Rel(p string) (string, bool) {
	rel, err := filepath.Rel(r.root, p)
	if err != nil {
		return "", false
	}
	rel = filepath.ToSlash(rel)
	if rel == ".." || strings.HasPrefix(rel, "../") {
		return "", false
	}
	return rel, true
}

func (r *Repository) path(p string) string {
	return filepath.Join(r.root, filepath.FromSlash(p))
}

func (r *Repository) read(p string) (string, error) {
	b, err := afero.ReadFile(r.fs, r.path(p))
	if errors.Is(err, fs.ErrNotExist) {
		return "", fmt.Errorf("%w: %s", shadergen.ErrTemplateNotFound, p)
	}
	if err != nil {
		return "", fmt.Errorf("template: read %s: %w", p, err)
	}
	return string(b), nil
}

// Clean normalizes a template or include path: backslashes become
// slashes and the result is cleaned. Paths that leave the repository fail
// with shadergen.ErrTemplateNotFound.
func Clean(name string) (string, error) {
	p := path.Clean(strings.ReplaceAll(name, `\`, "/"))
	if p == "." || p == ".." || strings.HasPrefix(p, "../") || strings.HasPrefix(p, "/") {
		return "", fmt.Errorf("%w: %q is outside the repository", shadergen.ErrTemplateNotFound, name)
	}
	return p, nil
}
