package templates

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"text/template"

	"github.com/Masterminds/sprig/v3"
)

//go:embed defaults/*
var defaultsFS embed.FS

// ErrNotFound is returned when neither the project nor the embedded
// defaults provide a template.
var ErrNotFound = errors.New("template not found")

// Data is the context every template is rendered with.
type Data struct {
	Environment       string
	Provider          string
	Host              string
	User              string
	Port              int
	Timezone          string
	ProjectRoot       string
	RemoteProjectRoot string
	DataDir           string
	Vars              map[string]string
}

// Source describes where a template was loaded from.
type Source struct {
	Name     string
	Path     string // empty for embedded defaults
	Embedded bool
}

func (s Source) String() string {
	if s.Embedded {
		return "embedded:" + s.Name
	}
	return s.Path
}

// Load returns the template called name from dir, falling back to the
// embedded default of the same name. A leading dot is ignored for the
// embedded lookup, so ".bash_profile" resolves to the bundled bash_profile.
func Load(dir, name string) ([]byte, Source, error) {
	if dir != "" {
		p := filepath.Join(dir, name)
		// #nosec G304
		content, err := os.ReadFile(p)
		if err == nil {
			return content, Source{Name: name, Path: p}, nil
		}
		if !errors.Is(err, fs.ErrNotExist) {
			return nil, Source{}, fmt.Errorf("failed to read template %s: %w", p, err)
		}
	}

	content, err := Default(name)
	if err != nil {
		return nil, Source{}, err
	}
	return content, Source{Name: name, Embedded: true}, nil
}

// Default returns the embedded template called name.
func Default(name string) ([]byte, error) {
	key := path.Join("defaults", trimDot(name))
	content, err := defaultsFS.ReadFile(key)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, name)
	}
	return content, nil
}

// Names lists the embedded default templates.
func Names() []string {
	entries, err := defaultsFS.ReadDir("defaults")
	if err != nil {
		return nil
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names
}

// Render executes content as a template named name.
func Render(name string, content []byte, data any) ([]byte, error) {
	tmpl, err := template.New(name).
		Funcs(sprig.TxtFuncMap()).
		Option("missingkey=error").
		Parse(string(content))
	if err != nil {
		return nil, fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	return buf.Bytes(), nil
}

// LoadAndRender combines Load and Render.
func LoadAndRender(dir, name string, data any) ([]byte, Source, error) {
	content, src, err := Load(dir, name)
	if err != nil {
		return nil, Source{}, err
	}
	out, err := Render(name, content, data)
	if err != nil {
		return nil, src, err
	}
	return out, src, nil
}

func trimDot(name string) string {
	if len(name) > 1 && name[0] == '.' {
		return name[1:]
	}
	return name
}
