package pipeline

import (
	"fmt"
	"strings"
)

// ShaderType identifies the programmable stage a shader belongs to.
type ShaderType int

const (
	VertexShader ShaderType = iota
	FragmentShader
	GeometryShader
	TessControlShader
	TessEvaluationShader
	ComputeShader
)

var shaderTypeNames = [...]string{
	VertexShader:         "vertex",
	FragmentShader:       "fragment",
	GeometryShader:       "geometry",
	TessControlShader:    "tess_control",
	TessEvaluationShader: "tess_evaluation",
	ComputeShader:        "compute",
}

// String returns the lower-case stage name used in manifests and logs.
func (t ShaderType) String() string {
	if t < 0 || int(t) >= len(shaderTypeNames) {
		return fmt.Sprintf("ShaderType(%d)", int(t))
	}
	return shaderTypeNames[t]
}

// Valid reports whether t names a known stage.
func (t ShaderType) Valid() bool {
	return t >= 0 && int(t) < len(shaderTypeNames)
}

// ParseShaderType maps a stage name (as printed by String, case-insensitive,
// with the short aliases "vert", "frag", "geom", "tesc", "tese" and "comp")
// to its ShaderType.
func ParseShaderType(s string) (ShaderType, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "vertex", "vert":
		return VertexShader, nil
	case "fragment", "frag":
		return FragmentShader, nil
	case "geometry", "geom":
		return GeometryShader, nil
	case "tess_control", "tesc":
		return TessControlShader, nil
	case "tess_evaluation", "tese":
		return TessEvaluationShader, nil
	case "compute", "comp":
		return ComputeShader, nil
	}
	return 0, fmt.Errorf("unknown shader type %q", s)
}

// ShaderTypeFromExt guesses the stage from a conventional GLSL file
// extension such as ".vert" or ".frag".
func ShaderTypeFromExt(path string) (ShaderType, bool) {
	i := strings.LastIndexByte(path, '.')
	if i < 0 {
		return 0, false
	}
	t, err := ParseShaderType(path[i+1:])
	return t, err == nil
}
