package opengl

import (
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// maxNameLength bounds reflected uniform and attribute names.
const maxNameLength = 256

type nativeDriver struct{}

// NativeDriver returns the Driver backed by the OpenGL 4.1 core bindings.
// gl.Init must have succeeded on the calling thread's current context
// (OpenWindow does this).
func NativeDriver() Driver { return nativeDriver{} }

func (nativeDriver) CreateShader(xtype uint32) uint32 { return gl.CreateShader(xtype) }

func (nativeDriver) ShaderSource(shader uint32, source string) {
	csource, free := gl.Strs(source + "\x00")
	gl.ShaderSource(shader, 1, csource, nil)
	free()
}

func (nativeDriver) CompileShader(shader uint32) { gl.CompileShader(shader) }

func (nativeDriver) GetShaderiv(shader, pname uint32) int32 {
	var v int32
	gl.GetShaderiv(shader, pname, &v)
	return v
}

func (nativeDriver) GetShaderInfoLog(shader uint32) string {
	var logLength int32
	gl.GetShaderiv(shader, gl.INFO_LOG_LENGTH, &logLength)
	if logLength == 0 {
		return ""
	}
	log := make([]byte, logLength+1)
	gl.GetShaderInfoLog(shader, logLength, nil, &log[0])
	return strings.TrimRight(string(log), "\x00")
}

func (nativeDriver) DeleteShader(shader uint32) { gl.DeleteShader(shader) }

func (nativeDriver) CreateProgram() uint32 { return gl.CreateProgram() }

func (nativeDriver) AttachShader(program, shader uint32) { gl.AttachShader(program, shader) }

func (nativeDriver) DetachShader(program, shader uint32) { gl.DetachShader(program, shader) }

func (nativeDriver) LinkProgram(program uint32) { gl.LinkProgram(program) }

func (nativeDriver) GetProgramiv(program, pname uint32) int32 {
	var v int32
	gl.GetProgramiv(program, pname, &v)
	return v
}

func (nativeDriver) GetProgramInfoLog(program uint32) string {
	var logLength int32
	gl.GetProgramiv(program, gl.INFO_LOG_LENGTH, &logLength)
	if logLength == 0 {
		return ""
	}
	log := make([]byte, logLength+1)
	gl.GetProgramInfoLog(program, logLength, nil, &log[0])
	return strings.TrimRight(string(log), "\x00")
}

func (nativeDriver) UseProgram(program uint32) { gl.UseProgram(program) }

func (nativeDriver) DeleteProgram(program uint32) { gl.DeleteProgram(program) }

func (nativeDriver) GetActiveUniform(program, index uint32) (string, int32, uint32) {
	var (
		length, size int32
		xtype        uint32
		name         [maxNameLength]uint8
	)
	gl.GetActiveUniform(program, index, maxNameLength, &length, &size, &xtype, &name[0])
	return string(name[:length]), size, xtype
}

func (nativeDriver) GetUniformLocation(program uint32, name string) int32 {
	return gl.GetUniformLocation(program, gl.Str(name+"\x00"))
}

func (nativeDriver) GetActiveAttrib(program, index uint32) (string, int32, uint32) {
	var (
		length, size int32
		xtype        uint32
		name         [maxNameLength]uint8
	)
	gl.GetActiveAttrib(program, index, maxNameLength, &length, &size, &xtype, &name[0])
	return string(name[:length]), size, xtype
}

func (nativeDriver) GetAttribLocation(program uint32, name string) int32 {
	return gl.GetAttribLocation(program, gl.Str(name+"\x00"))
}

func (nativeDriver) ProgramUniformfv(program uint32, location int32, components int, v []float32) {
	if len(v) == 0 {
		return
	}
	count := int32(len(v) / components)
	switch components {
	case 1:
		gl.ProgramUniform1fv(program, location, count, &v[0])
	case 2:
		gl.ProgramUniform2fv(program, location, count, &v[0])
	case 3:
		gl.ProgramUniform3fv(program, location, count, &v[0])
	case 4:
		gl.ProgramUniform4fv(program, location, count, &v[0])
	}
}

func (nativeDriver) ProgramUniformdv(program uint32, location int32, components int, v []float64) {
	if len(v) == 0 {
		return
	}
	count := int32(len(v) / components)
	switch components {
	case 1:
		gl.ProgramUniform1dv(program, location, count, &v[0])
	case 2:
		gl.ProgramUniform2dv(program, location, count, &v[0])
	case 3:
		gl.ProgramUniform3dv(program, location, count, &v[0])
	case 4:
		gl.ProgramUniform4dv(program, location, count, &v[0])
	}
}

func (nativeDriver) ProgramUniformiv(program uint32, location int32, components int, v []int32) {
	if len(v) == 0 {
		return
	}
	count := int32(len(v) / components)
	switch components {
	case 1:
		gl.ProgramUniform1iv(program, location, count, &v[0])
	case 2:
		gl.ProgramUniform2iv(program, location, count, &v[0])
	case 3:
		gl.ProgramUniform3iv(program, location, count, &v[0])
	case 4:
		gl.ProgramUniform4iv(program, location, count, &v[0])
	}
}

func (nativeDriver) ProgramUniformuiv(program uint32, location int32, components int, v []uint32) {
	if len(v) == 0 {
		return
	}
	count := int32(len(v) / components)
	switch components {
	case 1:
		gl.ProgramUniform1uiv(program, location, count, &v[0])
	case 2:
		gl.ProgramUniform2uiv(program, location, count, &v[0])
	case 3:
		gl.ProgramUniform3uiv(program, location, count, &v[0])
	case 4:
		gl.ProgramUniform4uiv(program, location, count, &v[0])
	}
}

func (nativeDriver) ProgramUniformMatrixfv(program uint32, location int32, cols, rows int, v []float32) {
	if len(v) == 0 {
		return
	}
	count := int32(len(v) / (cols * rows))
	switch {
	case cols == 2 && rows == 2:
		gl.ProgramUniformMatrix2fv(program, location, count, false, &v[0])
	case cols == 3 && rows == 3:
		gl.ProgramUniformMatrix3fv(program, location, count, false, &v[0])
	case cols == 4 && rows == 4:
		gl.ProgramUniformMatrix4fv(program, location, count, false, &v[0])
	case cols == 2 && rows == 3:
		gl.ProgramUniformMatrix2x3fv(program, location, count, false, &v[0])
	case cols == 3 && rows == 2:
		gl.ProgramUniformMatrix3x2fv(program, location, count, false, &v[0])
	case cols == 2 && rows == 4:
		gl.ProgramUniformMatrix2x4fv(program, location, count, false, &v[0])
	case cols == 4 && rows == 2:
		gl.ProgramUniformMatrix4x2fv(program, location, count, false, &v[0])
	case cols == 3 && rows == 4:
		gl.ProgramUniformMatrix3x4fv(program, location, count, false, &v[0])
	case cols == 4 && rows == 3:
		gl.ProgramUniformMatrix4x3fv(program, location, count, false, &v[0])
	}
}

func (nativeDriver) ProgramUniformMatrixdv(program uint32, location int32, cols, rows int, v []float64) {
	if len(v) == 0 || cols != rows {
		return
	}
	count := int32(len(v) / (cols * rows))
	switch cols {
	case 2:
		gl.ProgramUniformMatrix2dv(program, location, count, false, &v[0])
	case 3:
		gl.ProgramUniformMatrix3dv(program, location, count, false, &v[0])
	case 4:
		gl.ProgramUniformMatrix4dv(program, location, count, false, &v[0])
	}
}

func (nativeDriver) GenBuffer() uint32 {
	var b uint32
	gl.GenBuffers(1, &b)
	return b
}

func (nativeDriver) BindBuffer(target, buffer uint32) { gl.BindBuffer(target, buffer) }

func (nativeDriver) BufferData(target uint32, size int, data unsafe.Pointer, usage uint32) {
	gl.BufferData(target, size, data, usage)
}

func (nativeDriver) VertexAttribPointer(index uint32, size int32, xtype uint32) {
	gl.VertexAttribPointerWithOffset(index, size, xtype, false, 0, 0)
}

func (nativeDriver) VertexAttribIPointer(index uint32, size int32, xtype uint32) {
	gl.VertexAttribIPointerWithOffset(index, size, xtype, 0, 0)
}

func (nativeDriver) EnableVertexAttribArray(index uint32) { gl.EnableVertexAttribArray(index) }

func (nativeDriver) DeleteBuffer(buffer uint32) { gl.DeleteBuffers(1, &buffer) }

func (nativeDriver) GenVertexArray() uint32 {
	var vao uint32
	gl.GenVertexArrays(1, &vao)
	return vao
}

func (nativeDriver) BindVertexArray(vao uint32) { gl.BindVertexArray(vao) }

func (nativeDriver) DeleteVertexArray(vao uint32) { gl.DeleteVertexArrays(1, &vao) }

func (nativeDriver) Viewport(x, y, width, height int32) { gl.Viewport(x, y, width, height) }

func (nativeDriver) ClearColor(r, g, b, a float32) { gl.ClearColor(r, g, b, a) }

func (nativeDriver) Clear(mask uint32) { gl.Clear(mask) }

func (nativeDriver) DrawArrays(mode uint32, first, count int32) { gl.DrawArrays(mode, first, count) }

func (nativeDriver) ReadPixels(x, y, width, height int32, rgba []byte) {
	if len(rgba) < int(width*height*4) {
		return
	}
	gl.ReadPixels(x, y, width, height, gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(rgba))
}
