package pipeline

import "fmt"

// ShaderState is the lifecycle position of a Shader.
type ShaderState int

const (
	ShaderUnloaded ShaderState = iota
	ShaderLoaded
	ShaderFreed // terminal
)

func (s ShaderState) String() string {
	switch s {
	case ShaderUnloaded:
		return "unloaded"
	case ShaderLoaded:
		return "loaded"
	case ShaderFreed:
		return "freed"
	}
	return fmt.Sprintf("ShaderState(%d)", int(s))
}

// Shader is one programmable stage whose lifecycle is delegated to the
// components of profile P on backend context C.
//
// A Shader may be shared by several passes. Freeing it deletes the backend
// object once and zeroes the handle, so later Free calls from any owner are
// no-ops.
type Shader[C ShaderContext, P ShaderFlow[C]] struct {
	ctx     C
	profile P
	state   ShaderState
}

// NewShader wraps a backend context. Backends usually provide a
// constructor that builds the context for you.
func NewShader[C ShaderContext, P ShaderFlow[C]](ctx C, profile P) *Shader[C, P] {
	return &Shader[C, P]{ctx: ctx, profile: profile}
}

// Context returns the backend context.
func (s *Shader[C, P]) Context() C { return s.ctx }

// State returns the lifecycle state.
func (s *Shader[C, P]) State() ShaderState { return s.state }

// Loaded reports whether the shader holds a compiled backend object.
func (s *Shader[C, P]) Loaded() bool { return s.state == ShaderLoaded }

// Type returns the shader stage.
func (s *Shader[C, P]) Type() ShaderType { return s.ctx.Source().Type }

// Path returns the source path.
func (s *Shader[C, P]) Path() string { return s.ctx.Source().Path }

// Code returns the source text, empty until read.
func (s *Shader[C, P]) Code() string { return s.ctx.Source().Code }

// Load reads the source if it has not been read yet and compiles it.
// Loading a loaded shader does nothing; loading a freed one fails with
// ErrShaderFreed.
func (s *Shader[C, P]) Load() error {
	switch s.state {
	case ShaderLoaded:
		return nil
	case ShaderFreed:
		return fmt.Errorf("load %s shader %q: %w", s.Type(), s.Path(), ErrShaderFreed)
	}

	if s.ctx.Source().Code == "" {
		if err := s.profile.ReadShader(s.ctx); err != nil {
			return err
		}
	}
	if err := s.profile.LoadShader(s.ctx); err != nil {
		return err
	}

	s.state = ShaderLoaded
	Logger().Debug("shader loaded", "type", s.Type(), "path", s.Path())
	return nil
}

// Reload re-reads the source from its path and compiles it again. On
// failure the previously compiled object stays in place and the error is
// returned. Shaders without a path are recompiled from their current code.
func (s *Shader[C, P]) Reload() error {
	if s.state == ShaderFreed {
		return fmt.Errorf("reload %s shader %q: %w", s.Type(), s.Path(), ErrShaderFreed)
	}

	src := s.ctx.Source()
	prevCode := src.Code
	if src.Path != "" {
		src.Code = ""
		if err := s.profile.ReadShader(s.ctx); err != nil {
			src.Code = prevCode
			return err
		}
	}

	if s.state == ShaderUnloaded {
		return s.Load()
	}

	if r, ok := any(s.profile).(ShaderReloader[C]); ok {
		if err := r.ReloadShader(s.ctx); err != nil {
			src.Code = prevCode
			return err
		}
	} else {
		if err := s.profile.FreeShader(s.ctx); err != nil {
			return err
		}
		if err := s.profile.LoadShader(s.ctx); err != nil {
			s.state = ShaderUnloaded
			return err
		}
	}
	Logger().Debug("shader reloaded", "type", s.Type(), "path", s.Path())
	return nil
}

// Free deletes the backend object. It is idempotent and leaves the shader
// in the terminal freed state.
func (s *Shader[C, P]) Free() error {
	if err := s.profile.FreeShader(s.ctx); err != nil {
		return err
	}
	if s.state != ShaderFreed {
		Logger().Debug("shader freed", "type", s.Type(), "path", s.Path())
	}
	s.state = ShaderFreed
	return nil
}

// Close frees the shader and logs, rather than returns, any error.
func (s *Shader[C, P]) Close() {
	if err := s.Free(); err != nil {
		Logger().Error("free shader", "type", s.Type(), "path", s.Path(), "err", err)
	}
}
