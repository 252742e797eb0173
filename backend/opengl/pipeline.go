package opengl

import (
	"fmt"

	"github.com/go-theft-auto/pipeline"
)

// ClassicPipelineUser activates the pass under the cursor.
type ClassicPipelineUser struct{}

func (ClassicPipelineUser) UsePipeline(ctx *PipelineContext) error {
	if ctx == nil {
		return pipeline.InvalidContext("use pipeline")
	}
	i := ctx.Current()
	if i < 0 || i >= ctx.Len() {
		return fmt.Errorf("use pipeline at %d: %w", i, pipeline.ErrPassIndex)
	}
	return ctx.Pass(i).Use()
}

// ClassicPipelineResetter moves the cursor back to -1.
type ClassicPipelineResetter struct{}

func (ClassicPipelineResetter) ResetPipeline(ctx *PipelineContext) error {
	if ctx == nil {
		return pipeline.InvalidContext("reset pipeline")
	}
	ctx.SetCurrent(-1)
	return nil
}
