package pipeline

import (
	"fmt"
	"reflect"
	"unsafe"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"
)

// Integer vectors for ivecN / uvecN uniforms; mathgl only ships float ones.
type (
	IVec2 [2]int32
	IVec3 [3]int32
	IVec4 [4]int32
	UVec2 [2]uint32
	UVec3 [3]uint32
	UVec4 [4]uint32
)

// UniformValue is the closed set of types a uniform can hold. Each maps
// onto exactly one UniformSetter call; any other type fails to compile.
//
// mathgl names matrices rows×cols while GLSL names them cols×rows, so an
// mgl32.Mat3x2 feeds a GLSL mat2x3.
type UniformValue interface {
	float32 | float64 | int32 | uint32 | bool |
		mgl32.Vec2 | mgl32.Vec3 | mgl32.Vec4 |
		mgl64.Vec2 | mgl64.Vec3 | mgl64.Vec4 |
		IVec2 | IVec3 | IVec4 |
		UVec2 | UVec3 | UVec4 |
		mgl32.Mat2 | mgl32.Mat3 | mgl32.Mat4 |
		mgl32.Mat2x3 | mgl32.Mat3x2 | mgl32.Mat2x4 | mgl32.Mat4x2 | mgl32.Mat3x4 | mgl32.Mat4x3 |
		mgl64.Mat2 | mgl64.Mat3 | mgl64.Mat4
}

// AttributeValue is the closed set of vertex data an attribute accepts.
type AttributeValue interface {
	[]float32 | []int32 | []uint32 |
		[]mgl32.Vec2 | []mgl32.Vec3 | []mgl32.Vec4
}

// pushUniform is the type→backend-call table. The union above guarantees v
// is one of the listed cases.
func pushUniform[C any](s UniformSetter[C], ctx C, v any) error {
	switch x := v.(type) {
	case float32:
		return s.UniformFloats(ctx, 1, []float32{x})
	case float64:
		return s.UniformDoubles(ctx, 1, []float64{x})
	case int32:
		return s.UniformInts(ctx, 1, []int32{x})
	case uint32:
		return s.UniformUints(ctx, 1, []uint32{x})
	case bool:
		var i int32
		if x {
			i = 1
		}
		return s.UniformInts(ctx, 1, []int32{i})
	case mgl32.Vec2:
		return s.UniformFloats(ctx, 2, x[:])
	case mgl32.Vec3:
		return s.UniformFloats(ctx, 3, x[:])
	case mgl32.Vec4:
		return s.UniformFloats(ctx, 4, x[:])
	case mgl64.Vec2:
		return s.UniformDoubles(ctx, 2, x[:])
	case mgl64.Vec3:
		return s.UniformDoubles(ctx, 3, x[:])
	case mgl64.Vec4:
		return s.UniformDoubles(ctx, 4, x[:])
	case IVec2:
		return s.UniformInts(ctx, 2, x[:])
	case IVec3:
		return s.UniformInts(ctx, 3, x[:])
	case IVec4:
		return s.UniformInts(ctx, 4, x[:])
	case UVec2:
		return s.UniformUints(ctx, 2, x[:])
	case UVec3:
		return s.UniformUints(ctx, 3, x[:])
	case UVec4:
		return s.UniformUints(ctx, 4, x[:])
	case mgl32.Mat2:
		return s.UniformMatrix(ctx, 2, 2, x[:])
	case mgl32.Mat3:
		return s.UniformMatrix(ctx, 3, 3, x[:])
	case mgl32.Mat4:
		return s.UniformMatrix(ctx, 4, 4, x[:])
	case mgl32.Mat2x3:
		return s.UniformMatrix(ctx, 3, 2, x[:])
	case mgl32.Mat3x2:
		return s.UniformMatrix(ctx, 2, 3, x[:])
	case mgl32.Mat2x4:
		return s.UniformMatrix(ctx, 4, 2, x[:])
	case mgl32.Mat4x2:
		return s.UniformMatrix(ctx, 2, 4, x[:])
	case mgl32.Mat3x4:
		return s.UniformMatrix(ctx, 4, 3, x[:])
	case mgl32.Mat4x3:
		return s.UniformMatrix(ctx, 3, 4, x[:])
	case mgl64.Mat2:
		return s.UniformMatrixDouble(ctx, 2, 2, x[:])
	case mgl64.Mat3:
		return s.UniformMatrixDouble(ctx, 3, 3, x[:])
	case mgl64.Mat4:
		return s.UniformMatrixDouble(ctx, 4, 4, x[:])
	}
	return fmt.Errorf("uniform value %T: %w", v, ErrTypeMismatch)
}

// pushAttribute is the type→backend-call table for vertex data.
func pushAttribute[C any](s AttributeSetter[C], ctx C, usage BufferUsage, v any) error {
	switch x := v.(type) {
	case []float32:
		return s.AttributeFloats(ctx, 1, usage, x)
	case []int32:
		return s.AttributeInts(ctx, 1, usage, x)
	case []uint32:
		return s.AttributeUints(ctx, 1, usage, x)
	case []mgl32.Vec2:
		return s.AttributeFloats(ctx, 2, usage, flatten(x))
	case []mgl32.Vec3:
		return s.AttributeFloats(ctx, 3, usage, flatten(x))
	case []mgl32.Vec4:
		return s.AttributeFloats(ctx, 4, usage, flatten(x))
	}
	return fmt.Errorf("attribute value %T: %w", v, ErrTypeMismatch)
}

// flatten reinterprets a slice of float vectors as its component floats
// without copying.
func flatten[V mgl32.Vec2 | mgl32.Vec3 | mgl32.Vec4](v []V) []float32 {
	if len(v) == 0 {
		return nil
	}
	n := int(unsafe.Sizeof(v[0]) / unsafe.Sizeof(float32(0)))
	return unsafe.Slice((*float32)(unsafe.Pointer(&v[0])), len(v)*n)
}

// pin checks that storing a T into a cell currently holding stored keeps
// the cell's type. A cell with nothing stored accepts any T.
func pin[T any](name string, stored any) error {
	if stored == nil {
		return nil
	}
	if _, ok := stored.(T); ok {
		return nil
	}
	return fmt.Errorf("%q holds %T, not %s: %w", name, stored, reflect.TypeFor[T](), ErrTypeMismatch)
}

// load returns the stored value as T.
func load[T any](name string, stored any) (T, error) {
	v, ok := stored.(T)
	if !ok {
		var zero T
		if stored == nil {
			return zero, fmt.Errorf("%q has no value: %w", name, ErrTypeMismatch)
		}
		return zero, fmt.Errorf("%q holds %T, not %s: %w", name, stored, reflect.TypeFor[T](), ErrTypeMismatch)
	}
	return v, nil
}
