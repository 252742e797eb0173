package opengl

import (
	"fmt"

	"github.com/go-theft-auto/pipeline"
)

// ClassicUniformSetter pushes uniform values with glProgramUniform* into
// the program the uniform was reflected from.
type ClassicUniformSetter struct{}

func checkUniform(ctx *UniformContext, width int) error {
	if ctx == nil || ctx.gl == nil {
		return pipeline.InvalidContext("set uniform")
	}
	if width < 1 || width > 4 {
		return fmt.Errorf("uniform width %d: %w", width, pipeline.ErrTypeMismatch)
	}
	return nil
}

func (ClassicUniformSetter) UniformFloats(ctx *UniformContext, components int, v []float32) error {
	if err := checkUniform(ctx, components); err != nil {
		return err
	}
	ctx.gl.ProgramUniformfv(ctx.Program, ctx.Location, components, v)
	return nil
}

func (ClassicUniformSetter) UniformDoubles(ctx *UniformContext, components int, v []float64) error {
	if err := checkUniform(ctx, components); err != nil {
		return err
	}
	ctx.gl.ProgramUniformdv(ctx.Program, ctx.Location, components, v)
	return nil
}

func (ClassicUniformSetter) UniformInts(ctx *UniformContext, components int, v []int32) error {
	if err := checkUniform(ctx, components); err != nil {
		return err
	}
	ctx.gl.ProgramUniformiv(ctx.Program, ctx.Location, components, v)
	return nil
}

func (ClassicUniformSetter) UniformUints(ctx *UniformContext, components int, v []uint32) error {
	if err := checkUniform(ctx, components); err != nil {
		return err
	}
	ctx.gl.ProgramUniformuiv(ctx.Program, ctx.Location, components, v)
	return nil
}

func (ClassicUniformSetter) UniformMatrix(ctx *UniformContext, cols, rows int, v []float32) error {
	if err := checkUniform(ctx, cols); err != nil {
		return err
	}
	if rows < 2 || rows > 4 || cols < 2 {
		return fmt.Errorf("uniform mat%dx%d: %w", cols, rows, pipeline.ErrTypeMismatch)
	}
	ctx.gl.ProgramUniformMatrixfv(ctx.Program, ctx.Location, cols, rows, v)
	return nil
}

func (ClassicUniformSetter) UniformMatrixDouble(ctx *UniformContext, cols, rows int, v []float64) error {
	if err := checkUniform(ctx, cols); err != nil {
		return err
	}
	if rows != cols || cols < 2 {
		return fmt.Errorf("uniform dmat%dx%d: %w", cols, rows, pipeline.ErrTypeMismatch)
	}
	ctx.gl.ProgramUniformMatrixdv(ctx.Program, ctx.Location, cols, rows, v)
	return nil
}
