package opengl

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-theft-auto/pipeline"
)

// ClassicPassLoader creates a program, attaches the shaders and links it.
// On failure the program is deleted and the context stays unlinked.
type ClassicPassLoader struct{}

func (ClassicPassLoader) LoadPass(ctx *PassContext, attach pipeline.ShaderAttacher[*PassContext]) error {
	if ctx == nil || ctx.gl == nil {
		return pipeline.InvalidContext("load pass")
	}
	d := ctx.gl
	id := d.CreateProgram()
	if id == 0 {
		return &pipeline.LinkError{Log: "glCreateProgram returned 0"}
	}
	ctx.ProgramID = id

	if err := attach.AttachShaders(ctx); err != nil {
		d.DeleteProgram(id)
		ctx.ProgramID = 0
		return err
	}

	d.LinkProgram(id)
	if d.GetProgramiv(id, glLinkStatus) == glFalse {
		log := d.GetProgramInfoLog(id)
		d.DeleteProgram(id)
		ctx.ProgramID = 0
		return &pipeline.LinkError{Log: log}
	}
	return nil
}

// ClassicShaderAttacher attaches every shader in pass order.
type ClassicShaderAttacher struct{}

func (ClassicShaderAttacher) AttachShaders(ctx *PassContext) error {
	if ctx == nil || ctx.gl == nil || ctx.ProgramID == 0 {
		return pipeline.InvalidContext("attach shaders")
	}
	for _, sh := range ctx.Shaders() {
		sc := sh.Context()
		if !sc.Allocated() {
			return fmt.Errorf("attach %s shader %q: not loaded: %w", sh.Type(), sh.Path(), pipeline.ErrInvalidContext)
		}
		ctx.gl.AttachShader(ctx.ProgramID, sc.ShaderID)
	}
	return nil
}

// ClassicUniformReader registers a cell for every active uniform that has
// a location. Arrays are registered under their bare name.
type ClassicUniformReader struct{}

func (ClassicUniformReader) ReadUniforms(ctx *PassContext) error {
	if ctx == nil || ctx.gl == nil || ctx.ProgramID == 0 {
		return pipeline.InvalidContext("read uniforms")
	}
	d := ctx.gl
	n := d.GetProgramiv(ctx.ProgramID, glActiveUniforms)
	for i := range uint32(max(n, 0)) {
		name, size, xtype := d.GetActiveUniform(ctx.ProgramID, i)
		loc := d.GetUniformLocation(ctx.ProgramID, name)
		if loc < 0 {
			// Block members are not settable through glUniform*.
			continue
		}
		name = strings.TrimSuffix(name, "[0]")
		uc := &UniformContext{Program: ctx.ProgramID, Location: loc, Type: xtype, Size: size, gl: d}
		ctx.AddUniform(name, pipeline.NewUniform(name, uc, ClassicUniformSetter{}))
	}
	return nil
}

// ClassicAttributeReader registers a cell for every active vertex
// attribute. Built-ins such as gl_VertexID are skipped.
type ClassicAttributeReader struct{}

func (ClassicAttributeReader) ReadAttributes(ctx *PassContext) error {
	if ctx == nil || ctx.gl == nil || ctx.ProgramID == 0 {
		return pipeline.InvalidContext("read attributes")
	}
	d := ctx.gl
	n := d.GetProgramiv(ctx.ProgramID, glActiveAttributes)
	for i := range uint32(max(n, 0)) {
		name, size, xtype := d.GetActiveAttrib(ctx.ProgramID, i)
		loc := d.GetAttribLocation(ctx.ProgramID, name)
		if loc < 0 || strings.HasPrefix(name, "gl_") {
			continue
		}
		ac := &AttributeContext{Location: uint32(loc), Type: xtype, Size: size, gl: d}
		ctx.AddAttribute(name, pipeline.NewAttribute(name, ac, ClassicAttribute{}))
	}
	return nil
}

// ClassicPassUser makes the program current.
type ClassicPassUser struct{}

func (ClassicPassUser) UsePass(ctx *PassContext) error {
	if ctx == nil || ctx.gl == nil {
		return pipeline.InvalidContext("use pass")
	}
	ctx.gl.UseProgram(ctx.ProgramID)
	return nil
}

// ClassicPassFreer detaches the shaders that still exist, deletes the
// attribute buffers and the program. Shaders are left alive.
type ClassicPassFreer struct{}

func (ClassicPassFreer) FreePass(ctx *PassContext) error {
	if ctx == nil || ctx.gl == nil {
		return pipeline.InvalidContext("free pass")
	}
	if ctx.ProgramID == 0 {
		return nil
	}
	d := ctx.gl
	for _, sh := range ctx.Shaders() {
		if sc := sh.Context(); sc.Allocated() {
			d.DetachShader(ctx.ProgramID, sc.ShaderID)
		}
	}
	var errs []error
	for name, a := range ctx.Attributes() {
		if err := a.Free(); err != nil {
			errs = append(errs, fmt.Errorf("attribute %q: %w", name, err))
		}
	}
	d.DeleteProgram(ctx.ProgramID)
	ctx.ProgramID = 0
	return errors.Join(errs...)
}
