package pipeline

import "maps"

// ShaderSource is the backend-agnostic part of a shader context.
// Backend shader contexts embed it and add their resource handle.
type ShaderSource struct {
	Type ShaderType
	Path string // where the Reader loads Code from
	Code string // populated lazily by the Reader when empty
}

// Source returns s itself so embedding contexts satisfy ShaderContext.
func (s *ShaderSource) Source() *ShaderSource { return s }

// ShaderContext is what the core needs to know about a backend shader
// context: its source and whether it currently owns a backend object.
type ShaderContext interface {
	Source() *ShaderSource
	Allocated() bool
}

// Stage is the profile-independent view of a shader that a pass drives.
type Stage interface {
	Load() error
	Free() error
	Loaded() bool
	Type() ShaderType
	Path() string
}

// ShaderStage is a Stage that also exposes its backend context, which the
// pass attacher needs to reach the backend handle.
type ShaderStage[C any] interface {
	Stage
	Context() C
}

// PassState holds the backend-agnostic part of a pass context: the ordered
// shader list and the reflected uniform and attribute cells.
// Backend pass contexts embed it.
type PassState[S, U, A any] struct {
	shaders    []ShaderStage[S]
	uniforms   map[string]*Uniform[U]
	attributes map[string]*Attribute[A]
}

// AddShader appends a shader. Order is attach order; duplicates are kept.
func (s *PassState[S, U, A]) AddShader(sh ShaderStage[S]) {
	s.shaders = append(s.shaders, sh)
}

// Shaders returns the shaders in attach order.
func (s *PassState[S, U, A]) Shaders() []ShaderStage[S] {
	return s.shaders
}

// Stages returns the shaders as plain stages.
func (s *PassState[S, U, A]) Stages() []Stage {
	stages := make([]Stage, len(s.shaders))
	for i, sh := range s.shaders {
		stages[i] = sh
	}
	return stages
}

// AddUniform registers a reflected uniform under name, replacing any
// previous cell with the same name.
func (s *PassState[S, U, A]) AddUniform(name string, u *Uniform[U]) {
	if s.uniforms == nil {
		s.uniforms = make(map[string]*Uniform[U])
	}
	s.uniforms[name] = u
}

// Uniform looks up a reflected uniform.
func (s *PassState[S, U, A]) Uniform(name string) (*Uniform[U], bool) {
	u, ok := s.uniforms[name]
	return u, ok
}

// Uniforms returns a copy of the name→uniform map.
func (s *PassState[S, U, A]) Uniforms() map[string]*Uniform[U] {
	if s.uniforms == nil {
		return map[string]*Uniform[U]{}
	}
	return maps.Clone(s.uniforms)
}

// AddAttribute registers a reflected vertex attribute under name.
func (s *PassState[S, U, A]) AddAttribute(name string, a *Attribute[A]) {
	if s.attributes == nil {
		s.attributes = make(map[string]*Attribute[A])
	}
	s.attributes[name] = a
}

// Attribute looks up a reflected vertex attribute.
func (s *PassState[S, U, A]) Attribute(name string) (*Attribute[A], bool) {
	a, ok := s.attributes[name]
	return a, ok
}

// Attributes returns a copy of the name→attribute map.
func (s *PassState[S, U, A]) Attributes() map[string]*Attribute[A] {
	if s.attributes == nil {
		return map[string]*Attribute[A]{}
	}
	return maps.Clone(s.attributes)
}

// ClearReflection drops every reflected uniform and attribute cell.
func (s *PassState[S, U, A]) ClearReflection() {
	clear(s.uniforms)
	clear(s.attributes)
}

// PassContext is the contract a backend pass context fulfils for Pass.
type PassContext[U, A any] interface {
	Stages() []Stage
	Uniform(name string) (*Uniform[U], bool)
	Uniforms() map[string]*Uniform[U]
	Attribute(name string) (*Attribute[A], bool)
	Attributes() map[string]*Attribute[A]
	ClearReflection()
	Linked() bool
}

// RenderPass is the profile-independent view of a pass that a pipeline
// sequences.
type RenderPass interface {
	Load() error
	Use() error
	Free() error
	Linked() bool
}

// PipelineState holds the ordered passes and the cursor of a pipeline.
// The zero value has no passes and no active pass.
type PipelineState struct {
	passes []RenderPass
	cursor int // current pass + 1, so the zero value means "none"
}

// AddPass appends a pass to the sequence.
func (s *PipelineState) AddPass(p RenderPass) {
	s.passes = append(s.passes, p)
}

// Pass returns the pass at index i.
func (s *PipelineState) Pass(i int) RenderPass {
	return s.passes[i]
}

// Len returns the number of passes.
func (s *PipelineState) Len() int {
	return len(s.passes)
}

// Current returns the active pass index, or -1 when no pass is active.
func (s *PipelineState) Current() int {
	return s.cursor - 1
}

// SetCurrent moves the cursor; -1 means no active pass.
func (s *PipelineState) SetCurrent(i int) {
	s.cursor = i + 1
}

// PipelineContext is the contract a backend pipeline context fulfils for
// Pipeline.
type PipelineContext interface {
	Pass(i int) RenderPass
	Len() int
	Current() int
	SetCurrent(i int)
}
