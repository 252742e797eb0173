package opengl

import "github.com/go-theft-auto/pipeline"

// Orchestration types specialised for this backend.
type (
	Shader[P Profile]   = pipeline.Shader[*ShaderContext, P]
	Pass[P Profile]     = pipeline.Pass[*PassContext, P, *UniformContext, *AttributeContext]
	Pipeline[P Profile] = pipeline.Pipeline[*PipelineContext, P]
	Uniform             = pipeline.Uniform[*UniformContext]
	Attribute           = pipeline.Attribute[*AttributeContext]
)

// Device builds shaders, passes and pipelines that share one driver and
// one profile.
type Device[P Profile] struct {
	gl      Driver
	profile P
}

// NewDevice returns a device using profile on driver d.
func NewDevice[P Profile](d Driver, profile P) *Device[P] {
	return &Device[P]{gl: d, profile: profile}
}

// NewClassic returns a device with the Classic profile.
func NewClassic(d Driver) *Device[Classic] {
	return NewDevice(d, Classic{})
}

// Driver returns the device's driver.
func (d *Device[P]) Driver() Driver { return d.gl }

// Profile returns the device's profile.
func (d *Device[P]) Profile() P { return d.profile }

// NewShader returns an unloaded shader whose source is read from path on
// first Load.
func (d *Device[P]) NewShader(t pipeline.ShaderType, path string) *Shader[P] {
	return pipeline.NewShader(NewShaderContext(d.gl, t, path), d.profile)
}

// NewShaderFromSource returns an unloaded shader with inline source. It
// has no path, so Reload recompiles the same code.
func (d *Device[P]) NewShaderFromSource(t pipeline.ShaderType, code string) *Shader[P] {
	ctx := NewShaderContext(d.gl, t, "")
	ctx.Code = code
	return pipeline.NewShader(ctx, d.profile)
}

// NewPass returns an unlinked pass over shaders, attached in the given
// order. Shaders may be shared with other passes and may come from
// devices with another profile on the same driver.
func (d *Device[P]) NewPass(shaders ...pipeline.ShaderStage[*ShaderContext]) *Pass[P] {
	return pipeline.NewPass[*PassContext, P, *UniformContext, *AttributeContext](NewPassContext(d.gl, shaders...), d.profile)
}

// NewPipeline returns a pipeline over passes with the cursor at -1.
func (d *Device[P]) NewPipeline(passes ...pipeline.RenderPass) *Pipeline[P] {
	return pipeline.NewPipeline(NewPipelineContext(passes...), d.profile)
}
