package pipeline

import (
	"errors"
	"fmt"
)

// Errors reported by shaders, passes, pipelines and their value cells.
// Backends return them (possibly wrapped) so callers can test with errors.Is.
var (
	ErrShaderRead        = errors.New("pipeline: shader source not readable")
	ErrShaderCompilation = errors.New("pipeline: shader compilation failed")
	ErrShaderFreed       = errors.New("pipeline: shader already freed")
	ErrPassLink          = errors.New("pipeline: pass link failed")
	ErrNotLinked         = errors.New("pipeline: pass is not linked")
	ErrInvalidContext    = errors.New("pipeline: invalid context")
	ErrUniformNotFound   = errors.New("pipeline: uniform not found")
	ErrAttributeNotFound = errors.New("pipeline: attribute not found")
	ErrTypeMismatch      = errors.New("pipeline: value type mismatch")
	ErrBufferNotSet      = errors.New("pipeline: attribute buffer not set")
	ErrUnsupportedUsage  = errors.New("pipeline: unsupported buffer usage")
	ErrPassIndex         = errors.New("pipeline: pass index out of range")
)

// CompileError is returned when the backend rejects a shader source.
// Log holds the backend's diagnostic output verbatim.
type CompileError struct {
	Type ShaderType
	Path string
	Log  string
}

func (e *CompileError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s shader compilation failed: %s", e.Type, e.Log)
	}
	return fmt.Sprintf("%s shader %q compilation failed: %s", e.Type, e.Path, e.Log)
}

// Unwrap makes errors.Is(err, ErrShaderCompilation) hold.
func (e *CompileError) Unwrap() error { return ErrShaderCompilation }

// LinkError is returned when the backend fails to link a pass.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("pass link failed: %s", e.Log)
}

// Unwrap makes errors.Is(err, ErrPassLink) hold.
func (e *LinkError) Unwrap() error { return ErrPassLink }

// InvalidContext reports a nil or foreign context handed to a component.
func InvalidContext(component string) error {
	return fmt.Errorf("%s: %w", component, ErrInvalidContext)
}
