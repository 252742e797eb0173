package pipeline

import (
	"errors"
	"fmt"
)

// Pipeline is an ordered sequence of passes with a cursor for multi-pass
// rendering. The cursor starts at -1 (no active pass).
//
// A frame typically walks every pass once. UseNext reports whether another
// pass follows, and resets the cursor to -1 after activating the last one:
//
//	for more := pipe.Len() > 0; more; {
//		var err error
//		if more, err = pipe.UseNext(); err != nil {
//			return err
//		}
//		draw()
//	}
type Pipeline[C PipelineContext, P PipelineFlow[C]] struct {
	ctx     C
	profile P
}

// NewPipeline wraps a backend pipeline context whose pass list is already
// populated. Backends usually provide a constructor that builds it.
func NewPipeline[C PipelineContext, P PipelineFlow[C]](ctx C, profile P) *Pipeline[C, P] {
	return &Pipeline[C, P]{ctx: ctx, profile: profile}
}

// Context returns the backend context.
func (p *Pipeline[C, P]) Context() C { return p.ctx }

// Len returns the number of passes.
func (p *Pipeline[C, P]) Len() int { return p.ctx.Len() }

// Current returns the active pass index, or -1.
func (p *Pipeline[C, P]) Current() int { return p.ctx.Current() }

// Pass returns the pass at index i, or ErrPassIndex.
func (p *Pipeline[C, P]) Pass(i int) (RenderPass, error) {
	if i < 0 || i >= p.ctx.Len() {
		return nil, fmt.Errorf("pass %d of %d: %w", i, p.ctx.Len(), ErrPassIndex)
	}
	return p.ctx.Pass(i), nil
}

// HasNext reports whether a pass follows the current one.
func (p *Pipeline[C, P]) HasNext() bool {
	return p.ctx.Current()+1 < p.ctx.Len()
}

// UseNext advances to and activates the next pass, then reports whether a
// further pass follows. Activating the last pass resets the cursor, as does
// calling UseNext with nothing left; both return false.
func (p *Pipeline[C, P]) UseNext() (bool, error) {
	if !p.HasNext() {
		return false, p.Reset()
	}
	if err := p.Use(p.ctx.Current() + 1); err != nil {
		return false, err
	}
	if p.HasNext() {
		return true, nil
	}
	return false, p.Reset()
}

// Use moves the cursor to index and activates that pass. Out-of-range
// indices fail with ErrPassIndex and leave the cursor untouched.
func (p *Pipeline[C, P]) Use(index int) error {
	if index < 0 || index >= p.ctx.Len() {
		return fmt.Errorf("use pass %d of %d: %w", index, p.ctx.Len(), ErrPassIndex)
	}
	p.ctx.SetCurrent(index)
	if err := p.profile.UsePipeline(p.ctx); err != nil {
		return fmt.Errorf("use pass %d: %w", index, err)
	}
	return nil
}

// Reset puts the cursor back to -1. Pass state is not touched.
func (p *Pipeline[C, P]) Reset() error {
	return p.profile.ResetPipeline(p.ctx)
}

// Load loads every pass in order and stops at the first failure.
func (p *Pipeline[C, P]) Load() error {
	for i := range p.ctx.Len() {
		if err := p.ctx.Pass(i).Load(); err != nil {
			return fmt.Errorf("pass %d: %w", i, err)
		}
	}
	return nil
}

// Free resets the cursor and frees every pass, collecting all errors.
func (p *Pipeline[C, P]) Free() error {
	errs := []error{p.Reset()}
	for i := range p.ctx.Len() {
		if err := p.ctx.Pass(i).Free(); err != nil {
			errs = append(errs, fmt.Errorf("pass %d: %w", i, err))
		}
	}
	return errors.Join(errs...)
}

// Close frees the pipeline and logs, rather than returns, any error.
func (p *Pipeline[C, P]) Close() {
	if err := p.Free(); err != nil {
		Logger().Error("free pipeline", "err", err)
	}
}
