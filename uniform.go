package pipeline

import "fmt"

// Uniform is a named, typed value slot reflected from a linked program.
// It stores one value whose type is pinned by the first SetUniform and
// pushes every write to the backend through its setter table.
type Uniform[C any] struct {
	name   string
	ctx    C
	setter UniformFlow[C]
	value  any
}

// NewUniform creates an empty cell. Backend uniform readers call this
// while reflecting a program; setter must provide the full per-kind table.
func NewUniform[C any](name string, ctx C, setter UniformFlow[C]) *Uniform[C] {
	return &Uniform[C]{name: name, ctx: ctx, setter: setter}
}

// Name returns the uniform's name in the program.
func (u *Uniform[C]) Name() string { return u.name }

// Context returns the backend descriptor (location, type, size).
func (u *Uniform[C]) Context() C { return u.ctx }

// IsSet reports whether a value has been stored.
func (u *Uniform[C]) IsSet() bool { return u.value != nil }

// Value returns the stored value, or nil.
func (u *Uniform[C]) Value() any { return u.value }

func (u *Uniform[C]) String() string {
	if u.value == nil {
		return fmt.Sprintf("uniform %s (unset)", u.name)
	}
	return fmt.Sprintf("uniform %s = %v", u.name, u.value)
}

// SetUniform stores v in u and pushes it to the backend. Once a value of
// type T has been stored, setting any other type fails with
// ErrTypeMismatch and leaves the cell unchanged.
func SetUniform[T UniformValue, C any](u *Uniform[C], v T) error {
	if u == nil || u.setter == nil {
		return InvalidContext("set uniform")
	}
	if err := pin[T](u.name, u.value); err != nil {
		return err
	}
	u.value = v
	if err := pushUniform(u.setter, u.ctx, v); err != nil {
		return fmt.Errorf("set uniform %q: %w", u.name, err)
	}
	return nil
}

// GetUniform returns the value stored in u as T, failing with
// ErrTypeMismatch if the cell holds another type or nothing at all.
func GetUniform[T UniformValue, C any](u *Uniform[C]) (T, error) {
	if u == nil {
		var zero T
		return zero, InvalidContext("get uniform")
	}
	return load[T](u.name, u.value)
}
