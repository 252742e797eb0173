package pipeline

// Component strategies. Each role operation is a single-method interface
// over the backend context it mutates; a profile is any type that
// implements the set of operations a flow (see validator.go) requires.

// ShaderReader fills the context's source code from its path.
type ShaderReader[C any] interface {
	ReadShader(ctx C) error
}

// ShaderLoader compiles the source into a backend shader object.
type ShaderLoader[C any] interface {
	LoadShader(ctx C) error
}

// ShaderFreer deletes the backend shader object. It must be a no-op when
// nothing is allocated.
type ShaderFreer[C any] interface {
	FreeShader(ctx C) error
}

// ShaderReloader is optional. A profile implementing it recompiles a
// loaded shader so that a compile failure keeps the previous object alive;
// without it Reload falls back to free then load.
type ShaderReloader[C any] interface {
	ReloadShader(ctx C) error
}

// ShaderAttacher attaches every shader of a pass to its program.
type ShaderAttacher[C any] interface {
	AttachShaders(ctx C) error
}

// PassLoader creates the backend program, attaches the shaders through
// attach and links it. The profile's own attacher is handed in so the two
// strategies can be swapped independently.
type PassLoader[C any] interface {
	LoadPass(ctx C, attach ShaderAttacher[C]) error
}

// UniformReader reflects the active uniforms of a linked program into
// the context.
type UniformReader[C any] interface {
	ReadUniforms(ctx C) error
}

// AttributeReader reflects the active vertex attributes of a linked
// program into the context.
type AttributeReader[C any] interface {
	ReadAttributes(ctx C) error
}

// PassUser makes the pass's program the active one.
type PassUser[C any] interface {
	UsePass(ctx C) error
}

// PassFreer detaches shaders and deletes the program. It must be a no-op
// when no program exists.
type PassFreer[C any] interface {
	FreePass(ctx C) error
}

// PipelineUser activates the pass at the context's cursor.
type PipelineUser[C any] interface {
	UsePipeline(ctx C) error
}

// PipelineResetter puts the cursor back to "no active pass".
type PipelineResetter[C any] interface {
	ResetPipeline(ctx C) error
}

// UniformSetter is the per-value-kind table that pushes a uniform value to
// the backend. SetUniform maps every UniformValue type onto exactly one of
// these calls; components is the vector width, cols/rows the GLSL matrix
// shape.
type UniformSetter[C any] interface {
	UniformFloats(ctx C, components int, v []float32) error
	UniformDoubles(ctx C, components int, v []float64) error
	UniformInts(ctx C, components int, v []int32) error
	UniformUints(ctx C, components int, v []uint32) error
	UniformMatrix(ctx C, cols, rows int, v []float32) error
	UniformMatrixDouble(ctx C, cols, rows int, v []float64) error
}

// AttributeBinder binds the attribute's vertex buffer, allocating it if
// needed.
type AttributeBinder[C any] interface {
	BindAttribute(ctx C) error
}

// AttributeUnbinder unbinds the attribute's vertex buffer.
type AttributeUnbinder[C any] interface {
	UnbindAttribute(ctx C) error
}

// AttributeSetter uploads vertex data into the bound buffer and describes
// its layout. components is the per-vertex width.
type AttributeSetter[C any] interface {
	AttributeFloats(ctx C, components int, usage BufferUsage, v []float32) error
	AttributeInts(ctx C, components int, usage BufferUsage, v []int32) error
	AttributeUints(ctx C, components int, usage BufferUsage, v []uint32) error
}

// AttributeFreer deletes the attribute's vertex buffer, if any.
type AttributeFreer[C any] interface {
	FreeAttribute(ctx C) error
}
