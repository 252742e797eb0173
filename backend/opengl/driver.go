package opengl

import "unsafe"

// Driver is the slice of the OpenGL API the components call. Every context
// carries the Driver it was created with, so several GL contexts (or a
// fake, see package gltest) can coexist without global state.
//
// Enum arguments are the raw GL enum values.
type Driver interface {
	CreateShader(xtype uint32) uint32
	ShaderSource(shader uint32, source string)
	CompileShader(shader uint32)
	GetShaderiv(shader, pname uint32) int32
	GetShaderInfoLog(shader uint32) string
	DeleteShader(shader uint32)

	CreateProgram() uint32
	AttachShader(program, shader uint32)
	DetachShader(program, shader uint32)
	LinkProgram(program uint32)
	GetProgramiv(program, pname uint32) int32
	GetProgramInfoLog(program uint32) string
	UseProgram(program uint32)
	DeleteProgram(program uint32)

	// Reflection. Index runs over [0, GetProgramiv(ACTIVE_*)).
	GetActiveUniform(program, index uint32) (name string, size int32, xtype uint32)
	GetUniformLocation(program uint32, name string) int32
	GetActiveAttrib(program, index uint32) (name string, size int32, xtype uint32)
	GetAttribLocation(program uint32, name string) int32

	// Uniform uploads go straight to program (glProgramUniform*), so the
	// program need not be current. count is len(v) divided by the element
	// width.
	ProgramUniformfv(program uint32, location int32, components int, v []float32)
	ProgramUniformdv(program uint32, location int32, components int, v []float64)
	ProgramUniformiv(program uint32, location int32, components int, v []int32)
	ProgramUniformuiv(program uint32, location int32, components int, v []uint32)
	ProgramUniformMatrixfv(program uint32, location int32, cols, rows int, v []float32)
	ProgramUniformMatrixdv(program uint32, location int32, cols, rows int, v []float64)

	GenBuffer() uint32
	BindBuffer(target, buffer uint32)
	BufferData(target uint32, size int, data unsafe.Pointer, usage uint32)
	VertexAttribPointer(index uint32, size int32, xtype uint32)
	VertexAttribIPointer(index uint32, size int32, xtype uint32)
	EnableVertexAttribArray(index uint32)
	DeleteBuffer(buffer uint32)

	// Drawing, used by Renderer.
	GenVertexArray() uint32
	BindVertexArray(vao uint32)
	DeleteVertexArray(vao uint32)
	Viewport(x, y, width, height int32)
	ClearColor(r, g, b, a float32)
	Clear(mask uint32)
	DrawArrays(mode uint32, first, count int32)
	ReadPixels(x, y, width, height int32, rgba []byte)
}
