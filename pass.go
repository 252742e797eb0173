package pipeline

import (
	"errors"
	"fmt"
)

// Pass is one linked program built from an ordered set of shader stages.
// C is the backend pass context, P the profile supplying the pass
// components, U and A the backend uniform and attribute contexts.
type Pass[C PassContext[U, A], P PassFlow[C], U, A any] struct {
	ctx     C
	profile P
}

// NewPass wraps a backend pass context whose shader list is already
// populated. Backends usually provide a constructor that builds it.
func NewPass[C PassContext[U, A], P PassFlow[C], U, A any](ctx C, profile P) *Pass[C, P, U, A] {
	return &Pass[C, P, U, A]{ctx: ctx, profile: profile}
}

// Context returns the backend context.
func (p *Pass[C, P, U, A]) Context() C { return p.ctx }

// Linked reports whether the pass currently owns a linked program.
func (p *Pass[C, P, U, A]) Linked() bool { return p.ctx.Linked() }

// Shaders returns the pass's stages in attach order.
func (p *Pass[C, P, U, A]) Shaders() []Stage { return p.ctx.Stages() }

// Load compiles any shader that is not loaded yet, links the program and
// reflects its uniforms and attributes, in that order. Reflection is only
// touched after a successful link; if it fails the program is released and
// the pass ends up unlinked with no cells. Loading a linked pass does
// nothing.
func (p *Pass[C, P, U, A]) Load() error {
	if p.ctx.Linked() {
		return nil
	}

	for _, sh := range p.ctx.Stages() {
		if sh.Loaded() {
			continue
		}
		if err := sh.Load(); err != nil {
			return fmt.Errorf("load pass: %w", err)
		}
	}

	if err := p.profile.LoadPass(p.ctx, p.profile); err != nil {
		return fmt.Errorf("load pass: %w", err)
	}

	p.ctx.ClearReflection()
	if err := p.reflect(); err != nil {
		return errors.Join(fmt.Errorf("load pass: %w", err), p.Free())
	}

	Logger().Debug("pass linked",
		"shaders", len(p.ctx.Stages()),
		"uniforms", len(p.ctx.Uniforms()),
		"attributes", len(p.ctx.Attributes()))
	return nil
}

func (p *Pass[C, P, U, A]) reflect() error {
	if err := p.profile.ReadUniforms(p.ctx); err != nil {
		return err
	}
	return p.profile.ReadAttributes(p.ctx)
}

// Use makes this pass's program the active one.
func (p *Pass[C, P, U, A]) Use() error {
	if !p.ctx.Linked() {
		return fmt.Errorf("use pass: %w", ErrNotLinked)
	}
	return p.profile.UsePass(p.ctx)
}

// Free detaches the shaders, releases attribute buffers and deletes the
// program, dropping the reflected cells. It is a no-op on an unlinked pass.
// The shaders themselves stay loaded: other passes may share them.
func (p *Pass[C, P, U, A]) Free() error {
	if !p.ctx.Linked() {
		return nil
	}
	if err := p.profile.FreePass(p.ctx); err != nil {
		return err
	}
	p.ctx.ClearReflection()
	Logger().Debug("pass freed")
	return nil
}

// Reload frees the program, recompiles every shader from its source and
// links again. A shader that fails to recompile keeps its previous object,
// so the pass is relinked with it and stays usable; the compile error is
// still returned.
func (p *Pass[C, P, U, A]) Reload() error {
	if err := p.Free(); err != nil {
		return fmt.Errorf("reload pass: %w", err)
	}
	var errs []error
	for _, sh := range p.ctx.Stages() {
		r, ok := sh.(interface{ Reload() error })
		if !ok {
			continue
		}
		if err := r.Reload(); err != nil {
			errs = append(errs, err)
		}
	}
	if err := p.Load(); err != nil {
		errs = append(errs, err)
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("reload pass: %w", err)
	}
	return nil
}

// Close frees the pass and logs, rather than returns, any error.
func (p *Pass[C, P, U, A]) Close() {
	if err := p.Free(); err != nil {
		Logger().Error("free pass", "err", err)
	}
}

// Uniforms returns the reflected uniforms by name. The map is a copy;
// values can only be changed through WithUniform or SetUniform.
func (p *Pass[C, P, U, A]) Uniforms() map[string]*Uniform[U] {
	return p.ctx.Uniforms()
}

// Uniform looks up a reflected uniform.
func (p *Pass[C, P, U, A]) Uniform(name string) (*Uniform[U], bool) {
	return p.ctx.Uniform(name)
}

// Attributes returns the reflected vertex attributes by name.
func (p *Pass[C, P, U, A]) Attributes() map[string]*Attribute[A] {
	return p.ctx.Attributes()
}

// Attribute looks up a reflected vertex attribute.
func (p *Pass[C, P, U, A]) Attribute(name string) (*Attribute[A], bool) {
	return p.ctx.Attribute(name)
}

// WithUniform sets the uniform called name and returns the pass so calls
// can be chained. It fails with ErrUniformNotFound when the linked program
// has no such active uniform.
//
//	_, err := pipeline.WithUniform(pass, "time", float32(t))
func WithUniform[T UniformValue, C PassContext[U, A], P PassFlow[C], U, A any](p *Pass[C, P, U, A], name string, value T) (*Pass[C, P, U, A], error) {
	u, ok := p.ctx.Uniform(name)
	if !ok {
		return p, fmt.Errorf("uniform %q: %w", name, ErrUniformNotFound)
	}
	if err := SetUniform(u, value); err != nil {
		return p, err
	}
	return p, nil
}

// WithAttribute uploads vertex data for the attribute called name and
// returns the pass. It fails with ErrAttributeNotFound when the program has
// no such active attribute.
func WithAttribute[T AttributeValue, C PassContext[U, A], P PassFlow[C], U, A any](p *Pass[C, P, U, A], name string, data T) (*Pass[C, P, U, A], error) {
	a, ok := p.ctx.Attribute(name)
	if !ok {
		return p, fmt.Errorf("attribute %q: %w", name, ErrAttributeNotFound)
	}
	if err := SetAttribute(a, data); err != nil {
		return p, err
	}
	return p, nil
}
