// Package manifest describes a pipeline declaratively. A manifest lists
// shader sources once, by id, and passes that reference them in attach
// order, optionally with initial uniform values. It can be written in
// YAML or TOML:
//
//	shaders:
//	  - id: quad
//	    path: fullscreen.vert
//	  - id: tint
//	    path: tint.frag
//	passes:
//	  - name: base
//	    shaders: [quad, tint]
//	    uniforms:
//	      - {name: gain, type: float, value: 0.5}
//
// The shader type defaults to the one implied by the file extension.
package manifest

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"github.com/go-theft-auto/pipeline"
)

// ErrInvalid is wrapped by every validation error.
var ErrInvalid = errors.New("manifest: invalid")

// Format is a manifest encoding.
type Format string

const (
	YAML Format = "yaml"
	TOML Format = "toml"
)

// FormatFromPath picks the format from the file extension.
func FormatFromPath(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		return YAML, nil
	case ".toml":
		return TOML, nil
	}
	return "", fmt.Errorf("manifest %q: unknown format", name)
}

// Manifest is a decoded pipeline description.
type Manifest struct {
	Shaders []ShaderSpec `yaml:"shaders" toml:"shaders"`
	Passes  []PassSpec   `yaml:"passes" toml:"passes"`
}

// ShaderSpec declares one shader. Exactly one of Path and Source is set.
type ShaderSpec struct {
	ID     string `yaml:"id" toml:"id"`
	Type   string `yaml:"type,omitempty" toml:"type,omitempty"`
	Path   string `yaml:"path,omitempty" toml:"path,omitempty"`
	Source string `yaml:"source,omitempty" toml:"source,omitempty"`

	stage pipeline.ShaderType
}

// Stage returns the resolved shader type. It is valid after Validate.
func (s ShaderSpec) Stage() pipeline.ShaderType { return s.stage }

// PassSpec declares one pass.
type PassSpec struct {
	Name     string        `yaml:"name,omitempty" toml:"name,omitempty"`
	Shaders  []string      `yaml:"shaders" toml:"shaders"`
	Uniforms []UniformSpec `yaml:"uniforms,omitempty" toml:"uniforms,omitempty"`
}

// UniformSpec is an initial uniform value. Type is a GLSL type name such
// as float, ivec2 or mat4; Value is a number, a bool or a list of numbers.
type UniformSpec struct {
	Name  string `yaml:"name" toml:"name"`
	Type  string `yaml:"type" toml:"type"`
	Value any    `yaml:"value" toml:"value"`
}

// Decode reads a manifest from r and validates it.
func Decode(r io.Reader, f Format) (*Manifest, error) {
	var m Manifest
	switch f {
	case YAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&m); err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("decode yaml manifest: %w", err)
		}
	case TOML:
		dec := toml.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&m); err != nil {
			return nil, fmt.Errorf("decode toml manifest: %w", err)
		}
	default:
		return nil, fmt.Errorf("decode manifest: unknown format %q", f)
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

// Load reads the manifest at name. Relative shader paths are resolved
// against the manifest's directory.
func Load(name string) (*Manifest, error) {
	f, err := FormatFromPath(name)
	if err != nil {
		return nil, err
	}
	file, err := os.Open(name)
	if err != nil {
		return nil, fmt.Errorf("load manifest: %w", err)
	}
	defer file.Close()

	m, err := Decode(file, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	dir := filepath.Dir(name)
	for i := range m.Shaders {
		if p := m.Shaders[i].Path; p != "" && !filepath.IsAbs(p) {
			m.Shaders[i].Path = filepath.Join(dir, p)
		}
	}
	return m, nil
}

// LoadFS reads the manifest called name from fsys. Shader paths are
// resolved against name's directory so they can be read from the same
// filesystem with the Embedded profile.
func LoadFS(fsys fs.FS, name string) (*Manifest, error) {
	f, err := FormatFromPath(name)
	if err != nil {
		return nil, err
	}
	file, err := fsys.Open(name)
	if err != nil {
		return nil, fmt.Errorf("load manifest: %w", err)
	}
	defer file.Close()

	m, err := Decode(file, f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	dir := path.Dir(name)
	for i := range m.Shaders {
		if p := m.Shaders[i].Path; p != "" {
			m.Shaders[i].Path = path.Join(dir, p)
		}
	}
	return m, nil
}

// Validate checks ids, references and types, and resolves shader stages.
// Unnamed passes are named pass0, pass1 and so on.
func (m *Manifest) Validate() error {
	if len(m.Passes) == 0 {
		return fmt.Errorf("%w: no passes", ErrInvalid)
	}

	ids := make(map[string]bool, len(m.Shaders))
	for i := range m.Shaders {
		s := &m.Shaders[i]
		switch {
		case s.ID == "":
			return fmt.Errorf("%w: shader %d has no id", ErrInvalid, i)
		case ids[s.ID]:
			return fmt.Errorf("%w: duplicate shader id %q", ErrInvalid, s.ID)
		case (s.Path == "") == (s.Source == ""):
			return fmt.Errorf("%w: shader %q needs exactly one of path and source", ErrInvalid, s.ID)
		}
		ids[s.ID] = true

		if s.Type != "" {
			t, err := pipeline.ParseShaderType(s.Type)
			if err != nil {
				return fmt.Errorf("%w: shader %q: %w", ErrInvalid, s.ID, err)
			}
			s.stage = t
			continue
		}
		t, ok := pipeline.ShaderTypeFromExt(s.Path)
		if !ok {
			return fmt.Errorf("%w: shader %q: type not set and not implied by %q", ErrInvalid, s.ID, s.Path)
		}
		s.stage = t
	}

	names := make(map[string]bool, len(m.Passes))
	for i := range m.Passes {
		p := &m.Passes[i]
		if p.Name == "" {
			p.Name = fmt.Sprintf("pass%d", i)
		}
		if names[p.Name] {
			return fmt.Errorf("%w: duplicate pass name %q", ErrInvalid, p.Name)
		}
		names[p.Name] = true

		if len(p.Shaders) == 0 {
			return fmt.Errorf("%w: pass %q has no shaders", ErrInvalid, p.Name)
		}
		for _, id := range p.Shaders {
			if !ids[id] {
				return fmt.Errorf("%w: pass %q: unknown shader %q", ErrInvalid, p.Name, id)
			}
		}
		for _, u := range p.Uniforms {
			if u.Name == "" {
				return fmt.Errorf("%w: pass %q: uniform without a name", ErrInvalid, p.Name)
			}
			if _, ok := converters[u.Type]; !ok {
				return fmt.Errorf("%w: pass %q: uniform %q: unsupported type %q", ErrInvalid, p.Name, u.Name, u.Type)
			}
		}
	}
	return nil
}

// Users returns the names of the passes that attach shader id.
func (m *Manifest) Users(id string) []string {
	var names []string
	for _, p := range m.Passes {
		for _, s := range p.Shaders {
			if s == id {
				names = append(names, p.Name)
				break
			}
		}
	}
	return names
}
