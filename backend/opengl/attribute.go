package opengl

import (
	"fmt"
	"unsafe"

	"github.com/go-theft-auto/pipeline"
)

// ClassicAttributeBinder binds the attribute's ARRAY_BUFFER, generating it
// on first use.
type ClassicAttributeBinder struct{}

func (ClassicAttributeBinder) BindAttribute(ctx *AttributeContext) error {
	if ctx == nil || ctx.gl == nil {
		return pipeline.InvalidContext("bind attribute")
	}
	if ctx.BufferID == 0 {
		ctx.BufferID = ctx.gl.GenBuffer()
	}
	if ctx.BufferID == 0 {
		return fmt.Errorf("bind attribute: glGenBuffers: %w", pipeline.ErrBufferNotSet)
	}
	ctx.gl.BindBuffer(glArrayBuffer, ctx.BufferID)
	return nil
}

// ClassicAttributeUnbinder unbinds ARRAY_BUFFER.
type ClassicAttributeUnbinder struct{}

func (ClassicAttributeUnbinder) UnbindAttribute(ctx *AttributeContext) error {
	if ctx == nil || ctx.gl == nil {
		return pipeline.InvalidContext("unbind attribute")
	}
	if ctx.BufferID == 0 {
		return fmt.Errorf("unbind attribute: %w", pipeline.ErrBufferNotSet)
	}
	ctx.gl.BindBuffer(glArrayBuffer, 0)
	return nil
}

// ClassicAttributeSetter uploads data into the bound buffer and points the
// attribute at it, tightly packed.
type ClassicAttributeSetter struct{}

func (ClassicAttributeSetter) AttributeFloats(ctx *AttributeContext, components int, usage pipeline.BufferUsage, v []float32) error {
	return upload(ctx, components, usage, v, glFloat, false)
}

func (ClassicAttributeSetter) AttributeInts(ctx *AttributeContext, components int, usage pipeline.BufferUsage, v []int32) error {
	return upload(ctx, components, usage, v, glInt, true)
}

func (ClassicAttributeSetter) AttributeUints(ctx *AttributeContext, components int, usage pipeline.BufferUsage, v []uint32) error {
	return upload(ctx, components, usage, v, glUnsignedInt, true)
}

func upload[T float32 | int32 | uint32](ctx *AttributeContext, components int, usage pipeline.BufferUsage, v []T, xtype uint32, integer bool) error {
	if ctx == nil || ctx.gl == nil {
		return pipeline.InvalidContext("set attribute")
	}
	if ctx.BufferID == 0 {
		return fmt.Errorf("set attribute: %w", pipeline.ErrBufferNotSet)
	}
	if components < 1 || components > 4 {
		return fmt.Errorf("attribute width %d: %w", components, pipeline.ErrTypeMismatch)
	}
	glUsage, err := usageEnum(usage)
	if err != nil {
		return err
	}

	var ptr unsafe.Pointer
	if len(v) > 0 {
		ptr = unsafe.Pointer(&v[0])
	}
	d := ctx.gl
	d.BufferData(glArrayBuffer, len(v)*4, ptr, glUsage)
	if integer {
		d.VertexAttribIPointer(ctx.Location, int32(components), xtype)
	} else {
		d.VertexAttribPointer(ctx.Location, int32(components), xtype)
	}
	d.EnableVertexAttribArray(ctx.Location)
	return nil
}

// ClassicAttributeFreer deletes the vertex buffer and zeroes the handle.
type ClassicAttributeFreer struct{}

func (ClassicAttributeFreer) FreeAttribute(ctx *AttributeContext) error {
	if ctx == nil || ctx.gl == nil {
		return pipeline.InvalidContext("free attribute")
	}
	if ctx.BufferID != 0 {
		ctx.gl.DeleteBuffer(ctx.BufferID)
		ctx.BufferID = 0
	}
	return nil
}

// ClassicAttribute is the full attribute flow handed to reflected cells.
type ClassicAttribute struct {
	ClassicAttributeBinder
	ClassicAttributeUnbinder
	ClassicAttributeSetter
	ClassicAttributeFreer
}
