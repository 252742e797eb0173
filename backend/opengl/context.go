package opengl

import "github.com/go-theft-auto/pipeline"

// ShaderContext holds one shader's source and GL object.
type ShaderContext struct {
	pipeline.ShaderSource
	ShaderID uint32 // 0 when no GL object exists

	gl Driver
}

// NewShaderContext creates a context for a shader read lazily from path.
func NewShaderContext(d Driver, t pipeline.ShaderType, path string) *ShaderContext {
	return &ShaderContext{
		ShaderSource: pipeline.ShaderSource{Type: t, Path: path},
		gl:           d,
	}
}

// Allocated reports whether a GL shader object exists.
func (c *ShaderContext) Allocated() bool { return c != nil && c.ShaderID != 0 }

// Driver returns the driver the context was created with.
func (c *ShaderContext) Driver() Driver { return c.gl }

// PassContext holds one program and its reflected cells.
type PassContext struct {
	pipeline.PassState[*ShaderContext, *UniformContext, *AttributeContext]
	ProgramID uint32 // 0 when no program exists

	gl Driver
}

// NewPassContext creates a pass context over the given shaders, in
// attach order.
func NewPassContext(d Driver, shaders ...pipeline.ShaderStage[*ShaderContext]) *PassContext {
	c := &PassContext{gl: d}
	for _, sh := range shaders {
		c.AddShader(sh)
	}
	return c
}

// Linked reports whether a linked program exists.
func (c *PassContext) Linked() bool { return c != nil && c.ProgramID != 0 }

// Driver returns the driver the context was created with.
func (c *PassContext) Driver() Driver { return c.gl }

// UniformContext describes one active uniform of a linked program.
type UniformContext struct {
	Program  uint32
	Location int32
	Type     uint32 // GL type enum, see TypeName
	Size     int32  // array length, 1 for scalars

	gl Driver
}

// AttributeContext describes one active vertex attribute and owns its
// vertex buffer.
type AttributeContext struct {
	Location uint32
	Type     uint32
	Size     int32
	BufferID uint32 // 0 until the first bind

	gl Driver
}

// PipelineContext holds the pass sequence and cursor.
type PipelineContext struct {
	pipeline.PipelineState
}

// NewPipelineContext creates a pipeline context over passes, in order.
func NewPipelineContext(passes ...pipeline.RenderPass) *PipelineContext {
	c := &PipelineContext{}
	for _, p := range passes {
		c.AddPass(p)
	}
	return c
}
