package pipeline_test

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-theft-auto/pipeline"
)

// backend is a minimal in-memory backend used to exercise the
// orchestration layer without a GPU.
type backend struct {
	next     uint32
	live     map[uint32]bool
	attached map[uint32][]uint32
	calls    []string
	files    map[string]string

	failLink    bool
	failReflect bool
}

func newBackend() *backend {
	return &backend{
		live:     make(map[uint32]bool),
		attached: make(map[uint32][]uint32),
		files:    make(map[string]string),
	}
}

func (b *backend) alloc() uint32 {
	b.next++
	b.live[b.next] = true
	return b.next
}

func (b *backend) record(format string, args ...any) {
	b.calls = append(b.calls, fmt.Sprintf(format, args...))
}

func (b *backend) count(prefix string) int {
	n := 0
	for _, c := range b.calls {
		if strings.HasPrefix(c, prefix) {
			n++
		}
	}
	return n
}

type shaderCtx struct {
	pipeline.ShaderSource
	id uint32
	b  *backend
}

func (c *shaderCtx) Allocated() bool { return c.id != 0 }

type uniformCtx struct {
	name  string
	calls []string
}

type attrCtx struct {
	name   string
	buffer uint32
	b      *backend
	data   []float32
	ints   []int32
	width  int
	usage  pipeline.BufferUsage
}

type passCtx struct {
	pipeline.PassState[*shaderCtx, *uniformCtx, *attrCtx]
	program    uint32
	b          *backend
	uniforms   []string
	attributes []string
}

func (c *passCtx) Linked() bool { return c.program != 0 }

type pipeCtx struct {
	pipeline.PipelineState
	b *backend
}

// baseProfile implements every flow for the mock contexts.
type baseProfile struct{}

// profile adds in-place recompilation to baseProfile.
type profile struct{ baseProfile }

func (profile) ReloadShader(ctx *shaderCtx) error {
	ctx.b.record("recompile %s", ctx.Path)
	if strings.Contains(ctx.Code, "error") {
		return &pipeline.CompileError{Type: ctx.Type, Path: ctx.Path, Log: "syntax error"}
	}
	old := ctx.id
	ctx.id = ctx.b.alloc()
	if old != 0 {
		ctx.b.record("delete shader %d", old)
		delete(ctx.b.live, old)
	}
	return nil
}

func (baseProfile) ReadShader(ctx *shaderCtx) error {
	code, ok := ctx.b.files[ctx.Path]
	ctx.b.record("read %s", ctx.Path)
	if !ok {
		return fmt.Errorf("%w: %s", pipeline.ErrShaderRead, ctx.Path)
	}
	ctx.Code = code
	return nil
}

func (baseProfile) LoadShader(ctx *shaderCtx) error {
	ctx.b.record("compile %s", ctx.Path)
	if strings.Contains(ctx.Code, "error") {
		return &pipeline.CompileError{Type: ctx.Type, Path: ctx.Path, Log: "syntax error"}
	}
	ctx.id = ctx.b.alloc()
	return nil
}

func (baseProfile) FreeShader(ctx *shaderCtx) error {
	if ctx.id == 0 {
		return nil
	}
	ctx.b.record("delete shader %d", ctx.id)
	delete(ctx.b.live, ctx.id)
	ctx.id = 0
	return nil
}

func (baseProfile) LoadPass(ctx *passCtx, attach pipeline.ShaderAttacher[*passCtx]) error {
	ctx.program = ctx.b.alloc()
	ctx.b.record("create program %d", ctx.program)
	if err := attach.AttachShaders(ctx); err != nil {
		return err
	}
	if ctx.b.failLink {
		delete(ctx.b.live, ctx.program)
		ctx.program = 0
		return &pipeline.LinkError{Log: "link failed"}
	}
	return nil
}

func (baseProfile) AttachShaders(ctx *passCtx) error {
	for _, sh := range ctx.Shaders() {
		id := sh.Context().id
		ctx.b.record("attach %d", id)
		ctx.b.attached[ctx.program] = append(ctx.b.attached[ctx.program], id)
	}
	return nil
}

func (baseProfile) ReadUniforms(ctx *passCtx) error {
	for _, name := range ctx.uniforms {
		ctx.AddUniform(name, pipeline.NewUniform(name, &uniformCtx{name: name}, setter{}))
	}
	return nil
}

func (baseProfile) ReadAttributes(ctx *passCtx) error {
	if ctx.b.failReflect {
		return errors.New("reflection failed")
	}
	for _, name := range ctx.attributes {
		ac := &attrCtx{name: name, b: ctx.b}
		ctx.AddAttribute(name, pipeline.NewAttribute(name, ac, attrFlow{}))
	}
	return nil
}

func (baseProfile) UsePass(ctx *passCtx) error {
	ctx.b.record("use program %d", ctx.program)
	return nil
}

func (baseProfile) FreePass(ctx *passCtx) error {
	for _, sh := range ctx.Shaders() {
		if sc := sh.Context(); sc.Allocated() {
			ctx.b.record("detach %d", sc.id)
		}
	}
	for _, a := range ctx.Attributes() {
		if err := a.Free(); err != nil {
			return err
		}
	}
	ctx.b.record("delete program %d", ctx.program)
	delete(ctx.b.live, ctx.program)
	ctx.program = 0
	return nil
}

func (baseProfile) UsePipeline(ctx *pipeCtx) error {
	return ctx.Pass(ctx.Current()).Use()
}

func (baseProfile) ResetPipeline(ctx *pipeCtx) error {
	ctx.SetCurrent(-1)
	return nil
}

type setter struct{}

func (setter) UniformFloats(ctx *uniformCtx, n int, v []float32) error {
	ctx.calls = append(ctx.calls, fmt.Sprintf("floats%d %v", n, v))
	return nil
}

func (setter) UniformDoubles(ctx *uniformCtx, n int, v []float64) error {
	ctx.calls = append(ctx.calls, fmt.Sprintf("doubles%d %v", n, v))
	return nil
}

func (setter) UniformInts(ctx *uniformCtx, n int, v []int32) error {
	ctx.calls = append(ctx.calls, fmt.Sprintf("ints%d %v", n, v))
	return nil
}

func (setter) UniformUints(ctx *uniformCtx, n int, v []uint32) error {
	ctx.calls = append(ctx.calls, fmt.Sprintf("uints%d %v", n, v))
	return nil
}

func (setter) UniformMatrix(ctx *uniformCtx, cols, rows int, v []float32) error {
	ctx.calls = append(ctx.calls, fmt.Sprintf("mat%dx%d %v", cols, rows, v))
	return nil
}

func (setter) UniformMatrixDouble(ctx *uniformCtx, cols, rows int, v []float64) error {
	ctx.calls = append(ctx.calls, fmt.Sprintf("dmat%dx%d %v", cols, rows, v))
	return nil
}

type attrFlow struct{}

func (attrFlow) BindAttribute(ctx *attrCtx) error {
	if ctx.buffer == 0 {
		ctx.buffer = ctx.b.alloc()
	}
	ctx.b.record("bind %d", ctx.buffer)
	return nil
}

func (attrFlow) UnbindAttribute(ctx *attrCtx) error {
	if ctx.buffer == 0 {
		return pipeline.ErrBufferNotSet
	}
	ctx.b.record("unbind %d", ctx.buffer)
	return nil
}

func (attrFlow) AttributeFloats(ctx *attrCtx, n int, usage pipeline.BufferUsage, v []float32) error {
	ctx.data, ctx.width, ctx.usage = slices.Clone(v), n, usage
	ctx.b.record("upload %d floats", len(v))
	return nil
}

func (attrFlow) AttributeInts(ctx *attrCtx, n int, usage pipeline.BufferUsage, v []int32) error {
	ctx.ints, ctx.width, ctx.usage = slices.Clone(v), n, usage
	ctx.b.record("upload %d ints", len(v))
	return nil
}

func (attrFlow) AttributeUints(ctx *attrCtx, n int, usage pipeline.BufferUsage, v []uint32) error {
	ctx.width, ctx.usage = n, usage
	ctx.b.record("upload %d uints", len(v))
	return nil
}

func (attrFlow) FreeAttribute(ctx *attrCtx) error {
	if ctx.buffer != 0 {
		ctx.b.record("delete buffer %d", ctx.buffer)
		delete(ctx.b.live, ctx.buffer)
		ctx.buffer = 0
	}
	return nil
}

type (
	testShader   = pipeline.Shader[*shaderCtx, profile]
	testPass     = pipeline.Pass[*passCtx, profile, *uniformCtx, *attrCtx]
	testPipeline = pipeline.Pipeline[*pipeCtx, profile]
)

func (b *backend) shader(t pipeline.ShaderType, path, code string) *testShader {
	b.files[path] = code
	ctx := &shaderCtx{ShaderSource: pipeline.ShaderSource{Type: t, Path: path}, b: b}
	return pipeline.NewShader(ctx, profile{})
}

func (b *backend) pass(uniforms, attributes []string, shaders ...*testShader) *testPass {
	ctx := &passCtx{b: b, uniforms: uniforms, attributes: attributes}
	for _, sh := range shaders {
		ctx.AddShader(sh)
	}
	return pipeline.NewPass[*passCtx, profile, *uniformCtx, *attrCtx](ctx, profile{})
}

func (b *backend) pipeline(passes ...pipeline.RenderPass) *testPipeline {
	ctx := &pipeCtx{b: b}
	for _, p := range passes {
		ctx.AddPass(p)
	}
	return pipeline.NewPipeline(ctx, profile{})
}

// basicPass returns a pass over a vertex and a fragment shader.
func (b *backend) basicPass(uniforms ...string) *testPass {
	vs := b.shader(pipeline.VertexShader, fmt.Sprintf("v%d.vert", len(b.files)), "void main() {}")
	fs := b.shader(pipeline.FragmentShader, fmt.Sprintf("f%d.frag", len(b.files)), "void main() {}")
	return b.pass(uniforms, []string{"position"}, vs, fs)
}
