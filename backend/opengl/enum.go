package opengl

import (
	"fmt"

	"github.com/go-theft-auto/pipeline"
)

// OpenGL enum values used by the components. They match the values
// defined by github.com/go-gl/gl so a Driver can pass them straight
// through, and keep the components free of cgo.
const (
	glFalse = 0
	glTrue  = 1

	glVertexShader         = 0x8B31
	glFragmentShader       = 0x8B30
	glGeometryShader       = 0x8DD9
	glTessControlShader    = 0x8E88
	glTessEvaluationShader = 0x8E87
	glComputeShader        = 0x91B9

	glCompileStatus    = 0x8B81
	glLinkStatus       = 0x8B82
	glActiveUniforms   = 0x8B86
	glActiveAttributes = 0x8B89

	glArrayBuffer = 0x8892
	glStreamDraw  = 0x88E0
	glStaticDraw  = 0x88E4
	glDynamicDraw = 0x88E8

	glTriangles       = 0x0004
	glColorBufferBit  = 0x00004000
	glInt             = 0x1404
	glUnsignedInt     = 0x1405
	glFloat           = 0x1406
	glDouble          = 0x140A
	glFloatVec2       = 0x8B50
	glFloatVec3       = 0x8B51
	glFloatVec4       = 0x8B52
	glIntVec2         = 0x8B53
	glIntVec3         = 0x8B54
	glIntVec4         = 0x8B55
	glBool            = 0x8B56
	glBoolVec2        = 0x8B57
	glBoolVec3        = 0x8B58
	glBoolVec4        = 0x8B59
	glFloatMat2       = 0x8B5A
	glFloatMat3       = 0x8B5B
	glFloatMat4       = 0x8B5C
	glSampler2D       = 0x8B5E
	glFloatMat2x3     = 0x8B65
	glFloatMat2x4     = 0x8B66
	glFloatMat3x2     = 0x8B67
	glFloatMat3x4     = 0x8B68
	glFloatMat4x2     = 0x8B69
	glFloatMat4x3     = 0x8B6A
	glUnsignedIntVec2 = 0x8DC6
	glUnsignedIntVec3 = 0x8DC7
	glUnsignedIntVec4 = 0x8DC8
	glDoubleMat2      = 0x8F46
	glDoubleMat3      = 0x8F47
	glDoubleMat4      = 0x8F48
	glDoubleVec2      = 0x8FFC
	glDoubleVec3      = 0x8FFD
	glDoubleVec4      = 0x8FFE
)

// shaderEnum maps a stage onto its GL shader type.
func shaderEnum(t pipeline.ShaderType) (uint32, error) {
	switch t {
	case pipeline.VertexShader:
		return glVertexShader, nil
	case pipeline.FragmentShader:
		return glFragmentShader, nil
	case pipeline.GeometryShader:
		return glGeometryShader, nil
	case pipeline.TessControlShader:
		return glTessControlShader, nil
	case pipeline.TessEvaluationShader:
		return glTessEvaluationShader, nil
	case pipeline.ComputeShader:
		return glComputeShader, nil
	}
	return 0, fmt.Errorf("shader type %v: %w", t, pipeline.ErrInvalidContext)
}

// usageEnum maps a buffer usage hint onto its GL value.
func usageEnum(u pipeline.BufferUsage) (uint32, error) {
	switch u {
	case pipeline.StaticDraw:
		return glStaticDraw, nil
	case pipeline.DynamicDraw:
		return glDynamicDraw, nil
	case pipeline.StreamDraw:
		return glStreamDraw, nil
	}
	return 0, fmt.Errorf("buffer usage %v: %w", u, pipeline.ErrUnsupportedUsage)
}

var typeNames = map[uint32]string{
	glFloat:           "float",
	glDouble:          "double",
	glInt:             "int",
	glUnsignedInt:     "uint",
	glBool:            "bool",
	glFloatVec2:       "vec2",
	glFloatVec3:       "vec3",
	glFloatVec4:       "vec4",
	glDoubleVec2:      "dvec2",
	glDoubleVec3:      "dvec3",
	glDoubleVec4:      "dvec4",
	glIntVec2:         "ivec2",
	glIntVec3:         "ivec3",
	glIntVec4:         "ivec4",
	glUnsignedIntVec2: "uvec2",
	glUnsignedIntVec3: "uvec3",
	glUnsignedIntVec4: "uvec4",
	glBoolVec2:        "bvec2",
	glBoolVec3:        "bvec3",
	glBoolVec4:        "bvec4",
	glFloatMat2:       "mat2",
	glFloatMat3:       "mat3",
	glFloatMat4:       "mat4",
	glFloatMat2x3:     "mat2x3",
	glFloatMat2x4:     "mat2x4",
	glFloatMat3x2:     "mat3x2",
	glFloatMat3x4:     "mat3x4",
	glFloatMat4x2:     "mat4x2",
	glFloatMat4x3:     "mat4x3",
	glDoubleMat2:      "dmat2",
	glDoubleMat3:      "dmat3",
	glDoubleMat4:      "dmat4",
	glSampler2D:       "sampler2D",
}

// TypeName returns the GLSL spelling of a reflected GL type enum.
func TypeName(glType uint32) string {
	if n, ok := typeNames[glType]; ok {
		return n
	}
	return fmt.Sprintf("0x%04X", glType)
}

// TypeEnum is the inverse of TypeName. Test drivers use it to report
// reflected types.
func TypeEnum(name string) (uint32, bool) {
	for k, v := range typeNames {
		if v == name {
			return k, true
		}
	}
	return 0, false
}
