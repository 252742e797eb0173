package pipeline

import (
	"errors"
	"fmt"
)

// BufferUsage is the usage hint for an attribute's vertex buffer.
type BufferUsage int

const (
	StaticDraw BufferUsage = iota
	DynamicDraw
	StreamDraw
)

func (u BufferUsage) String() string {
	switch u {
	case StaticDraw:
		return "static"
	case DynamicDraw:
		return "dynamic"
	case StreamDraw:
		return "stream"
	}
	return fmt.Sprintf("BufferUsage(%d)", int(u))
}

// Valid reports whether u is one of the supported hints.
func (u BufferUsage) Valid() bool {
	return u >= StaticDraw && u <= StreamDraw
}

// Attribute is a named vertex input reflected from a linked program. It
// owns the vertex buffer its data is uploaded into; the buffer handle lives
// in the backend context.
type Attribute[C any] struct {
	name  string
	ctx   C
	flow  AttributeFlow[C]
	usage BufferUsage
	value any
}

// NewAttribute creates an empty cell with StaticDraw usage. Backend
// attribute readers call this while reflecting a program.
func NewAttribute[C any](name string, ctx C, flow AttributeFlow[C]) *Attribute[C] {
	return &Attribute[C]{name: name, ctx: ctx, flow: flow}
}

// Name returns the attribute's name in the program.
func (a *Attribute[C]) Name() string { return a.name }

// Context returns the backend descriptor (location, type, size, buffer).
func (a *Attribute[C]) Context() C { return a.ctx }

// IsSet reports whether data has been stored.
func (a *Attribute[C]) IsSet() bool { return a.value != nil }

// Usage returns the buffer usage hint.
func (a *Attribute[C]) Usage() BufferUsage { return a.usage }

// SetUsage changes the usage hint applied by the next upload.
func (a *Attribute[C]) SetUsage(u BufferUsage) error {
	if !u.Valid() {
		return fmt.Errorf("attribute %q usage %v: %w", a.name, u, ErrUnsupportedUsage)
	}
	a.usage = u
	return nil
}

// Bind binds the vertex buffer, allocating it on first use.
func (a *Attribute[C]) Bind() error {
	return a.flow.BindAttribute(a.ctx)
}

// Unbind unbinds the vertex buffer. It fails with ErrBufferNotSet if no
// buffer was ever allocated.
func (a *Attribute[C]) Unbind() error {
	return a.flow.UnbindAttribute(a.ctx)
}

// Free deletes the vertex buffer, if any.
func (a *Attribute[C]) Free() error {
	return a.flow.FreeAttribute(a.ctx)
}

// SetAttribute stores data in a and uploads it: bind, upload, unbind. The
// element type is pinned by the first call; a different T fails with
// ErrTypeMismatch.
func SetAttribute[T AttributeValue, C any](a *Attribute[C], data T) error {
	if a == nil || a.flow == nil {
		return InvalidContext("set attribute")
	}
	if err := pin[T](a.name, a.value); err != nil {
		return err
	}
	a.value = data

	if err := a.Bind(); err != nil {
		return fmt.Errorf("set attribute %q: %w", a.name, err)
	}
	if err := pushAttribute(a.flow, a.ctx, a.usage, data); err != nil {
		return fmt.Errorf("set attribute %q: %w", a.name, errors.Join(err, a.Unbind()))
	}
	if err := a.Unbind(); err != nil {
		return fmt.Errorf("set attribute %q: %w", a.name, err)
	}
	return nil
}

// GetAttribute returns the data stored in a as T.
func GetAttribute[T AttributeValue, C any](a *Attribute[C]) (T, error) {
	if a == nil {
		var zero T
		return zero, InvalidContext("get attribute")
	}
	return load[T](a.name, a.value)
}
