package pipeline

// Flow constraints. Every orchestration type names its flow as a type
// parameter constraint, so pairing a context with a profile that lacks any
// required operation is rejected by the compiler:
//
//	type NoFree struct{ opengl.ClassicShaderReader; opengl.ClassicShaderLoader }
//	pipeline.NewShader(ctx, NoFree{}) // does not compile: missing FreeShader
//
// Adding an operation to a flow is a breaking change for every profile.

// ShaderFlow is what Shader requires from its profile.
type ShaderFlow[C any] interface {
	ShaderReader[C]
	ShaderLoader[C]
	ShaderFreer[C]
}

// PassFlow is what Pass requires from its profile.
type PassFlow[C any] interface {
	PassLoader[C]
	ShaderAttacher[C]
	UniformReader[C]
	AttributeReader[C]
	PassUser[C]
	PassFreer[C]
}

// PipelineFlow is what Pipeline requires from its profile.
type PipelineFlow[C any] interface {
	PipelineUser[C]
	PipelineResetter[C]
}

// UniformFlow is what a Uniform cell requires from its backend.
type UniformFlow[C any] interface {
	UniformSetter[C]
}

// AttributeFlow is what an Attribute cell requires from its backend.
type AttributeFlow[C any] interface {
	AttributeBinder[C]
	AttributeUnbinder[C]
	AttributeSetter[C]
	AttributeFreer[C]
}
