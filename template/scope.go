package template

import (
	"path"
	"strings"
)

// scope resolves the includes of one request.
type scope struct {
	repo *Repository

	// template is the cleaned name of the requested template and dir its
	// directory.
	template string
	dir      string
}

// Resolve returns the text of name relative to dir and the directory
// nested includes of that file resolve against. An empty dir means the
// directory of the requested template; the template itself resolves by its
// own name.
func (s *scope) Resolve(name, dir string) (string, string, error) {
	name = strings.ReplaceAll(name, `\`, "/")
	var p string
	switch {
	case dir == "" && s.template != "" && path.Clean(name) == s.template:
		p = s.template
	case dir == "":
		p = path.Join(s.dir, name)
	default:
		p = path.Join(dir, name)
	}
	p, err := Clean(p)
	if err != nil {
		return "", "", err
	}
	text, err := s.repo.read(p)
	if err != nil {
		return "", "", err
	}
	return text, path.Dir(p), nil
}
