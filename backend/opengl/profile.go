package opengl

import (
	"io/fs"

	"github.com/go-theft-auto/pipeline"
)

// Profile is the set of operations a profile must provide to drive
// shaders, passes and pipelines on this backend.
type Profile interface {
	pipeline.ShaderFlow[*ShaderContext]
	pipeline.PassFlow[*PassContext]
	pipeline.PipelineFlow[*PipelineContext]
}

// Classic is the default OpenGL profile: sources come from the
// filesystem, every other operation is a plain GL call sequence.
//
// Profiles are assembled by embedding components. To replace one,
// embed Classic and add the replacement as a shallower field; Go's
// selector rules pick it over the promoted one (see Embedded).
type Classic struct {
	ClassicShaderReader
	ClassicShaderLoader
	ClassicShaderFreer
	ClassicPassLoader
	ClassicShaderAttacher
	ClassicUniformReader
	ClassicAttributeReader
	ClassicPassUser
	ClassicPassFreer
	ClassicPipelineUser
	ClassicPipelineResetter
}

// Embedded is Classic with shader sources read from an fs.FS.
type Embedded struct {
	Classic
	EmbeddedShaderReader
}

// NewEmbedded returns an Embedded profile reading from fsys.
func NewEmbedded(fsys fs.FS) Embedded {
	return Embedded{EmbeddedShaderReader: EmbeddedShaderReader{FS: fsys}}
}

var (
	_ Profile = Classic{}
	_ Profile = Embedded{}

	_ pipeline.ShaderReloader[*ShaderContext]     = Classic{}
	_ pipeline.UniformFlow[*UniformContext]       = ClassicUniformSetter{}
	_ pipeline.AttributeFlow[*AttributeContext]   = ClassicAttribute{}
	_ pipeline.ShaderReader[*ShaderContext]       = EmbeddedShaderReader{}
	_ pipeline.PassLoader[*PassContext]           = ClassicPassLoader{}
	_ pipeline.PipelineResetter[*PipelineContext] = ClassicPipelineResetter{}
)
