package manifest

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/go-gl/mathgl/mgl64"

	"github.com/go-theft-auto/pipeline"
)

// converter turns a decoded manifest value into a typed uniform value.
type converter func(v any) (any, error)

// Matrices are listed column by column, as GL stores them.
var converters = map[string]converter{
	"bool": func(v any) (any, error) {
		b, ok := v.(bool)
		if !ok {
			return nil, fmt.Errorf("want a bool, got %T", v)
		}
		return b, nil
	},
	"float":  f32(1, func(f []float32) any { return f[0] }),
	"vec2":   f32(2, func(f []float32) any { return mgl32.Vec2(f) }),
	"vec3":   f32(3, func(f []float32) any { return mgl32.Vec3(f) }),
	"vec4":   f32(4, func(f []float32) any { return mgl32.Vec4(f) }),
	"mat2":   f32(4, func(f []float32) any { return mgl32.Mat2(f) }),
	"mat3":   f32(9, func(f []float32) any { return mgl32.Mat3(f) }),
	"mat4":   f32(16, func(f []float32) any { return mgl32.Mat4(f) }),
	"double": f64(1, func(f []float64) any { return f[0] }),
	"dvec2":  f64(2, func(f []float64) any { return mgl64.Vec2(f) }),
	"dvec3":  f64(3, func(f []float64) any { return mgl64.Vec3(f) }),
	"dvec4":  f64(4, func(f []float64) any { return mgl64.Vec4(f) }),
	"dmat2":  f64(4, func(f []float64) any { return mgl64.Mat2(f) }),
	"dmat3":  f64(9, func(f []float64) any { return mgl64.Mat3(f) }),
	"dmat4":  f64(16, func(f []float64) any { return mgl64.Mat4(f) }),
	"int":    i32(1, func(i []int32) any { return i[0] }),
	"ivec2":  i32(2, func(i []int32) any { return pipeline.IVec2(i) }),
	"ivec3":  i32(3, func(i []int32) any { return pipeline.IVec3(i) }),
	"ivec4":  i32(4, func(i []int32) any { return pipeline.IVec4(i) }),
	"uint":   u32(1, func(u []uint32) any { return u[0] }),
	"uvec2":  u32(2, func(u []uint32) any { return pipeline.UVec2(u) }),
	"uvec3":  u32(3, func(u []uint32) any { return pipeline.UVec3(u) }),
	"uvec4":  u32(4, func(u []uint32) any { return pipeline.UVec4(u) }),
}

func f32(n int, build func([]float32) any) converter {
	return func(v any) (any, error) {
		xs, err := numbers(v, n)
		if err != nil {
			return nil, err
		}
		out := make([]float32, n)
		for i, x := range xs {
			out[i] = float32(x)
		}
		return build(out), nil
	}
}

func f64(n int, build func([]float64) any) converter {
	return func(v any) (any, error) {
		xs, err := numbers(v, n)
		if err != nil {
			return nil, err
		}
		return build(xs), nil
	}
}

func i32(n int, build func([]int32) any) converter {
	return func(v any) (any, error) {
		xs, err := numbers(v, n)
		if err != nil {
			return nil, err
		}
		out := make([]int32, n)
		for i, x := range xs {
			if x != math.Trunc(x) || x < math.MinInt32 || x > math.MaxInt32 {
				return nil, fmt.Errorf("value %d: %v is not an int32", i, x)
			}
			out[i] = int32(x)
		}
		return build(out), nil
	}
}

func u32(n int, build func([]uint32) any) converter {
	return func(v any) (any, error) {
		xs, err := numbers(v, n)
		if err != nil {
			return nil, err
		}
		out := make([]uint32, n)
		for i, x := range xs {
			if x != math.Trunc(x) || x < 0 || x > math.MaxUint32 {
				return nil, fmt.Errorf("value %d: %v is not a uint32", i, x)
			}
			out[i] = uint32(x)
		}
		return build(out), nil
	}
}

// numbers accepts a single number when n is 1 and a list of exactly n
// numbers otherwise.
func numbers(v any, n int) ([]float64, error) {
	list, ok := v.([]any)
	if !ok {
		if n != 1 {
			return nil, fmt.Errorf("want a list of %d numbers, got %T", n, v)
		}
		x, err := number(v)
		if err != nil {
			return nil, err
		}
		return []float64{x}, nil
	}
	if len(list) != n {
		return nil, fmt.Errorf("want %d numbers, got %d", n, len(list))
	}
	out := make([]float64, n)
	for i, item := range list {
		x, err := number(item)
		if err != nil {
			return nil, fmt.Errorf("value %d: %w", i, err)
		}
		out[i] = x
	}
	return out, nil
}

// number accepts what YAML and TOML decode numbers into.
func number(v any) (float64, error) {
	switch n := v.(type) {
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case uint64:
		return float64(n), nil
	case float64:
		return n, nil
	}
	return 0, fmt.Errorf("want a number, got %T", v)
}

// setUniform pushes a converted value through the typed cell API.
func setUniform[C pipeline.PassContext[U, A], P pipeline.PassFlow[C], U, A any](p *pipeline.Pass[C, P, U, A], name string, v any) error {
	var err error
	switch v := v.(type) {
	case bool:
		_, err = pipeline.WithUniform(p, name, v)
	case float32:
		_, err = pipeline.WithUniform(p, name, v)
	case float64:
		_, err = pipeline.WithUniform(p, name, v)
	case int32:
		_, err = pipeline.WithUniform(p, name, v)
	case uint32:
		_, err = pipeline.WithUniform(p, name, v)
	case mgl32.Vec2:
		_, err = pipeline.WithUniform(p, name, v)
	case mgl32.Vec3:
		_, err = pipeline.WithUniform(p, name, v)
	case mgl32.Vec4:
		_, err = pipeline.WithUniform(p, name, v)
	case mgl32.Mat2:
		_, err = pipeline.WithUniform(p, name, v)
	case mgl32.Mat3:
		_, err = pipeline.WithUniform(p, name, v)
	case mgl32.Mat4:
		_, err = pipeline.WithUniform(p, name, v)
	case mgl64.Vec2:
		_, err = pipeline.WithUniform(p, name, v)
	case mgl64.Vec3:
		_, err = pipeline.WithUniform(p, name, v)
	case mgl64.Vec4:
		_, err = pipeline.WithUniform(p, name, v)
	case mgl64.Mat2:
		_, err = pipeline.WithUniform(p, name, v)
	case mgl64.Mat3:
		_, err = pipeline.WithUniform(p, name, v)
	case mgl64.Mat4:
		_, err = pipeline.WithUniform(p, name, v)
	case pipeline.IVec2:
		_, err = pipeline.WithUniform(p, name, v)
	case pipeline.IVec3:
		_, err = pipeline.WithUniform(p, name, v)
	case pipeline.IVec4:
		_, err = pipeline.WithUniform(p, name, v)
	case pipeline.UVec2:
		_, err = pipeline.WithUniform(p, name, v)
	case pipeline.UVec3:
		_, err = pipeline.WithUniform(p, name, v)
	case pipeline.UVec4:
		_, err = pipeline.WithUniform(p, name, v)
	default:
		err = fmt.Errorf("uniform %q: unsupported value %T", name, v)
	}
	return err
}
