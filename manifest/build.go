package manifest

import (
	"errors"
	"fmt"

	"github.com/go-theft-auto/pipeline"
	"github.com/go-theft-auto/pipeline/backend/opengl"
	"github.com/go-theft-auto/pipeline/reload"
)

type initial struct {
	name  string
	value any
}

// Built is a pipeline constructed from a manifest, with its shaders and
// passes indexed by manifest id and name.
type Built[P opengl.Profile] struct {
	Pipeline *opengl.Pipeline[P]

	shaders  map[string]*opengl.Shader[P]
	ids      []string
	passes   []*opengl.Pass[P]
	names    []string
	uniforms [][]initial
	m        *Manifest
}

// Build creates the shaders, passes and pipeline described by m on dev.
// Nothing is compiled until Load.
func Build[P opengl.Profile](dev *opengl.Device[P], m *Manifest) (*Built[P], error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}

	b := &Built[P]{
		shaders: make(map[string]*opengl.Shader[P], len(m.Shaders)),
		m:       m,
	}
	for _, s := range m.Shaders {
		var sh *opengl.Shader[P]
		if s.Source != "" {
			sh = dev.NewShaderFromSource(s.Stage(), s.Source)
		} else {
			sh = dev.NewShader(s.Stage(), s.Path)
		}
		b.shaders[s.ID] = sh
		b.ids = append(b.ids, s.ID)
	}

	render := make([]pipeline.RenderPass, 0, len(m.Passes))
	for _, ps := range m.Passes {
		stages := make([]pipeline.ShaderStage[*opengl.ShaderContext], len(ps.Shaders))
		for i, id := range ps.Shaders {
			stages[i] = b.shaders[id]
		}

		inits := make([]initial, 0, len(ps.Uniforms))
		for _, u := range ps.Uniforms {
			v, err := converters[u.Type](u.Value)
			if err != nil {
				return nil, fmt.Errorf("%w: pass %q: uniform %q: %w", ErrInvalid, ps.Name, u.Name, err)
			}
			inits = append(inits, initial{name: u.Name, value: v})
		}

		p := dev.NewPass(stages...)
		b.passes = append(b.passes, p)
		b.names = append(b.names, ps.Name)
		b.uniforms = append(b.uniforms, inits)
		render = append(render, p)
	}
	b.Pipeline = dev.NewPipeline(render...)
	return b, nil
}

// Load compiles and links every pass, then sets the manifest's initial
// uniform values.
func (b *Built[P]) Load() error {
	if err := b.Pipeline.Load(); err != nil {
		return err
	}
	return b.ApplyUniforms()
}

// ApplyUniforms sets the manifest's initial uniform values on every
// linked pass.
func (b *Built[P]) ApplyUniforms() error {
	var errs []error
	for i := range b.passes {
		if err := b.applyUniforms(i); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (b *Built[P]) applyUniforms(i int) error {
	p := b.passes[i]
	if !p.Linked() {
		return nil
	}
	for _, u := range b.uniforms[i] {
		if err := setUniform(p, u.name, u.value); err != nil {
			return fmt.Errorf("pass %q: %w", b.names[i], err)
		}
	}
	return nil
}

// Shader returns the shader declared with id.
func (b *Built[P]) Shader(id string) (*opengl.Shader[P], bool) {
	sh, ok := b.shaders[id]
	return sh, ok
}

// Pass returns the pass called name.
func (b *Built[P]) Pass(name string) (*opengl.Pass[P], bool) {
	for i, n := range b.names {
		if n == name {
			return b.passes[i], true
		}
	}
	return nil, false
}

// PassNames returns the pass names in pipeline order.
func (b *Built[P]) PassNames() []string {
	return append([]string(nil), b.names...)
}

// Watch registers every file-backed shader with w, together with the
// passes that use it. Relinked passes get their initial uniforms back.
func (b *Built[P]) Watch(w *reload.Watcher) error {
	for _, id := range b.ids {
		sh := b.shaders[id]
		if sh.Path() == "" {
			continue
		}
		var users []reload.Pass
		for _, name := range b.m.Users(id) {
			for i, n := range b.names {
				if n == name {
					users = append(users, relinker[P]{b: b, i: i})
				}
			}
		}
		if err := w.Add(sh, users...); err != nil {
			return fmt.Errorf("watch shader %q: %w", id, err)
		}
	}
	return nil
}

// relinker restores a pass's initial uniforms after the watcher links it
// again.
type relinker[P opengl.Profile] struct {
	b *Built[P]
	i int
}

func (r relinker[P]) Free() error { return r.b.passes[r.i].Free() }

func (r relinker[P]) Load() error {
	if err := r.b.passes[r.i].Load(); err != nil {
		return err
	}
	return r.b.applyUniforms(r.i)
}

// Free releases the passes and then the shaders.
func (b *Built[P]) Free() error {
	errs := []error{b.Pipeline.Free()}
	for _, id := range b.ids {
		errs = append(errs, b.shaders[id].Free())
	}
	return errors.Join(errs...)
}
