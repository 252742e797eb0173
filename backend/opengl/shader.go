package opengl

import (
	"fmt"
	"io/fs"
	"os"

	"github.com/go-theft-auto/pipeline"
)

// ClassicShaderReader reads shader source from the filesystem.
type ClassicShaderReader struct{}

func (ClassicShaderReader) ReadShader(ctx *ShaderContext) error {
	if ctx == nil {
		return pipeline.InvalidContext("read shader")
	}
	data, err := os.ReadFile(ctx.Path)
	if err != nil {
		return fmt.Errorf("%w: %s shader %q: %w", pipeline.ErrShaderRead, ctx.Type, ctx.Path, err)
	}
	ctx.Code = string(data)
	return nil
}

// EmbeddedShaderReader reads shader source from an fs.FS, typically an
// embed.FS compiled into the binary.
type EmbeddedShaderReader struct {
	FS fs.FS
}

func (r EmbeddedShaderReader) ReadShader(ctx *ShaderContext) error {
	if ctx == nil {
		return pipeline.InvalidContext("read shader")
	}
	if r.FS == nil {
		return fmt.Errorf("%w: %s shader %q: no filesystem", pipeline.ErrShaderRead, ctx.Type, ctx.Path)
	}
	data, err := fs.ReadFile(r.FS, ctx.Path)
	if err != nil {
		return fmt.Errorf("%w: %s shader %q: %w", pipeline.ErrShaderRead, ctx.Type, ctx.Path, err)
	}
	ctx.Code = string(data)
	return nil
}

// ClassicShaderLoader compiles the source into a GL shader object. A
// rejected source leaves no GL object behind.
type ClassicShaderLoader struct{}

func (ClassicShaderLoader) LoadShader(ctx *ShaderContext) error {
	if ctx == nil || ctx.gl == nil {
		return pipeline.InvalidContext("load shader")
	}
	id, err := compile(ctx)
	if err != nil {
		return err
	}
	ctx.ShaderID = id
	return nil
}

// ReloadShader compiles the current source into a fresh object and only
// then deletes the old one, so a failed recompile leaves the shader usable.
func (ClassicShaderLoader) ReloadShader(ctx *ShaderContext) error {
	if ctx == nil || ctx.gl == nil {
		return pipeline.InvalidContext("reload shader")
	}
	id, err := compile(ctx)
	if err != nil {
		return err
	}
	if ctx.ShaderID != 0 {
		ctx.gl.DeleteShader(ctx.ShaderID)
	}
	ctx.ShaderID = id
	return nil
}

func compile(ctx *ShaderContext) (uint32, error) {
	xtype, err := shaderEnum(ctx.Type)
	if err != nil {
		return 0, err
	}
	d := ctx.gl
	id := d.CreateShader(xtype)
	if id == 0 {
		return 0, &pipeline.CompileError{Type: ctx.Type, Path: ctx.Path, Log: "glCreateShader returned 0"}
	}
	d.ShaderSource(id, ctx.Code)
	d.CompileShader(id)
	if d.GetShaderiv(id, glCompileStatus) == glFalse {
		log := d.GetShaderInfoLog(id)
		d.DeleteShader(id)
		return 0, &pipeline.CompileError{Type: ctx.Type, Path: ctx.Path, Log: log}
	}
	return id, nil
}

// ClassicShaderFreer deletes the GL shader object and zeroes the handle.
type ClassicShaderFreer struct{}

func (ClassicShaderFreer) FreeShader(ctx *ShaderContext) error {
	if ctx == nil || ctx.gl == nil {
		return pipeline.InvalidContext("free shader")
	}
	if ctx.ShaderID != 0 {
		ctx.gl.DeleteShader(ctx.ShaderID)
		ctx.ShaderID = 0
	}
	return nil
}
