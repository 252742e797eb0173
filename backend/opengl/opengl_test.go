package opengl_test

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-theft-auto/pipeline"
	"github.com/go-theft-auto/pipeline/backend/opengl"
	"github.com/go-theft-auto/pipeline/backend/opengl/gltest"
)

const vertexSource = `#version 410 core
layout(location = 0) in vec2 position;
in vec3 color;
uniform mat4 mvp;
out vec3 vColor;

void main() {
    vColor = color;
    gl_Position = mvp * vec4(position, 0.0, 1.0);
}
`

const fragmentSource = `#version 410 core
in vec3 vColor;
uniform float testUniform;
uniform vec3 tint;
uniform float weights[4];
out vec4 fragColor;

void main() {
    fragColor = vec4(vColor * tint * testUniform, weights[0]);
}
`

// Missing semicolon after the assignment.
const brokenSource = `#version 410 core
out vec4 fragColor;

void main() {
    fragColor = vec4(1.0)
}
`

func writeShaders(t *testing.T) (vert, frag string) {
	t.Helper()
	dir := t.TempDir()
	vert = filepath.Join(dir, "basic.vert")
	frag = filepath.Join(dir, "basic.frag")
	require.NoError(t, os.WriteFile(vert, []byte(vertexSource), 0o644))
	require.NoError(t, os.WriteFile(frag, []byte(fragmentSource), 0o644))
	return vert, frag
}

func newPass(t *testing.T) (*gltest.Driver, *opengl.Pass[opengl.Classic]) {
	t.Helper()
	gl := gltest.New()
	dev := opengl.NewClassic(gl)
	vert, frag := writeShaders(t)
	p := dev.NewPass(
		dev.NewShader(pipeline.VertexShader, vert),
		dev.NewShader(pipeline.FragmentShader, frag),
	)
	return gl, p
}

func TestPass_LoadReflects(t *testing.T) {
	gl, p := newPass(t)
	require.NoError(t, p.Load())
	require.True(t, p.Linked())

	uniforms := p.Uniforms()
	assert.Len(t, uniforms, 4)
	for _, name := range []string{"mvp", "testUniform", "tint", "weights"} {
		assert.Contains(t, uniforms, name)
	}
	assert.Equal(t, "mat4", opengl.TypeName(uniforms["mvp"].Context().Type))
	assert.Equal(t, int32(4), uniforms["weights"].Context().Size)

	attrs := p.Attributes()
	require.Len(t, attrs, 2)
	assert.Equal(t, uint32(0), attrs["position"].Context().Location)
	assert.Equal(t, "vec3", opengl.TypeName(attrs["color"].Context().Type))

	prog := p.Context().ProgramID
	assert.Len(t, gl.Attached(prog), 2)
	assert.Empty(t, gl.Errors())
}

func TestShader_CompileErrorFreesObject(t *testing.T) {
	gl := gltest.New()
	dev := opengl.NewClassic(gl)
	sh := dev.NewShaderFromSource(pipeline.FragmentShader, brokenSource)

	err := sh.Load()
	require.ErrorIs(t, err, pipeline.ErrShaderCompilation)
	var ce *pipeline.CompileError
	require.ErrorAs(t, err, &ce)
	assert.Contains(t, ce.Log, "0:5")

	assert.Zero(t, sh.Context().ShaderID)
	assert.Zero(t, gl.LiveShaders())
	assert.Empty(t, gl.Errors())
}

func TestShader_ReadError(t *testing.T) {
	dev := opengl.NewClassic(gltest.New())
	sh := dev.NewShader(pipeline.VertexShader, filepath.Join(t.TempDir(), "missing.vert"))

	err := sh.Load()
	require.ErrorIs(t, err, pipeline.ErrShaderRead)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestShader_FreeTwice(t *testing.T) {
	gl := gltest.New()
	dev := opengl.NewClassic(gl)
	sh := dev.NewShaderFromSource(pipeline.VertexShader, opengl.FullscreenVertexSource)

	require.NoError(t, sh.Load())
	require.NoError(t, sh.Free())
	require.NoError(t, sh.Free())

	assert.Equal(t, 1, gl.Count("DeleteShader"))
	assert.Zero(t, gl.LiveShaders())
	assert.Empty(t, gl.Errors())
}

func TestShader_ReloadKeepsObjectOnError(t *testing.T) {
	gl := gltest.New()
	dev := opengl.NewClassic(gl)
	vert, _ := writeShaders(t)
	sh := dev.NewShader(pipeline.VertexShader, vert)
	require.NoError(t, sh.Load())
	first := sh.Context().ShaderID

	require.NoError(t, os.WriteFile(vert, []byte(brokenSource), 0o644))
	require.ErrorIs(t, sh.Reload(), pipeline.ErrShaderCompilation)
	assert.Equal(t, first, sh.Context().ShaderID)
	assert.Equal(t, vertexSource, sh.Code())

	require.NoError(t, os.WriteFile(vert, []byte(vertexSource), 0o644))
	require.NoError(t, sh.Reload())
	assert.NotEqual(t, first, sh.Context().ShaderID)
	assert.Equal(t, 1, gl.LiveShaders())
	assert.Empty(t, gl.Errors())
}

func TestPass_SetUniform(t *testing.T) {
	gl, p := newPass(t)
	require.NoError(t, p.Load())

	_, err := pipeline.WithUniform(p, "testUniform", float32(5))
	require.NoError(t, err)

	u := p.Uniforms()["testUniform"]
	v, err := pipeline.GetUniform[float32](u)
	require.NoError(t, err)
	assert.Equal(t, float32(5), v)

	got, ok := gl.UniformValue(p.Context().ProgramID, u.Context().Location)
	require.True(t, ok)
	assert.Equal(t, []float32{5}, got)
	assert.Equal(t, 1, gl.Count("ProgramUniform1fv"))
}

func TestPass_UniformChain(t *testing.T) {
	gl, p := newPass(t)
	require.NoError(t, p.Load())

	p, err := pipeline.WithUniform(p, "mvp", mgl32.Ortho2D(0, 800, 600, 0))
	require.NoError(t, err)
	_, err = pipeline.WithUniform(p, "tint", mgl32.Vec3{1, 0.5, 0.25})
	require.NoError(t, err)

	assert.Equal(t, 1, gl.Count("ProgramUniformMatrix4x4fv"))
	assert.Equal(t, 1, gl.Count("ProgramUniform3fv"))

	_, err = pipeline.WithUniform(p, "tint", float32(1))
	assert.ErrorIs(t, err, pipeline.ErrTypeMismatch)
	assert.Empty(t, gl.Errors())
}

func TestPass_UniformNotFound(t *testing.T) {
	_, p := newPass(t)

	_, err := pipeline.WithUniform(p, "nonExistentUniform", int32(5))
	require.ErrorIs(t, err, pipeline.ErrUniformNotFound)

	require.NoError(t, p.Load())
	_, err = pipeline.WithUniform(p, "nonExistentUniform", int32(5))
	require.ErrorIs(t, err, pipeline.ErrUniformNotFound)
}

func TestPass_SetAttribute(t *testing.T) {
	gl, p := newPass(t)
	require.NoError(t, p.Load())

	tri := []mgl32.Vec2{{-1, -1}, {1, -1}, {0, 1}}
	_, err := pipeline.WithAttribute(p, "position", tri)
	require.NoError(t, err)

	a, _ := p.Attribute("position")
	buf := a.Context().BufferID
	require.NotZero(t, buf)

	data, usage, ok := gl.BufferData(buf)
	require.True(t, ok)
	assert.Equal(t, uint32(0x88E4), usage, "STATIC_DRAW")
	require.Len(t, data, 6*4)
	assert.Equal(t, float32(-1), math.Float32frombits(binary.LittleEndian.Uint32(data[0:])))
	assert.Equal(t, float32(1), math.Float32frombits(binary.LittleEndian.Uint32(data[20:])))

	assert.Equal(t, 1, gl.Count("VertexAttribPointer(0, 2, 0x1406)"))
	assert.Equal(t, 1, gl.Count("EnableVertexAttribArray(0)"))

	require.NoError(t, p.Free())
	assert.Zero(t, gl.LiveBuffers())
	assert.Empty(t, gl.Errors())
}

func TestPass_LinkFailure(t *testing.T) {
	gl, p := newPass(t)
	gl.FailLink = true

	err := p.Load()
	require.ErrorIs(t, err, pipeline.ErrPassLink)
	assert.False(t, p.Linked())
	assert.Empty(t, p.Uniforms())
	assert.Zero(t, gl.LivePrograms())
}

func TestPass_DuplicateStageFailsLink(t *testing.T) {
	gl := gltest.New()
	dev := opengl.NewClassic(gl)
	a := dev.NewShaderFromSource(pipeline.VertexShader, opengl.FullscreenVertexSource)
	b := dev.NewShaderFromSource(pipeline.VertexShader, opengl.FullscreenVertexSource)

	err := dev.NewPass(a, b).Load()
	var le *pipeline.LinkError
	require.ErrorAs(t, err, &le)
	assert.Contains(t, le.Log, "multiple definitions of main")
}

func TestPass_FreeSharedShader(t *testing.T) {
	gl := gltest.New()
	dev := opengl.NewClassic(gl)
	vs := dev.NewShaderFromSource(pipeline.VertexShader, opengl.FullscreenVertexSource)
	red := dev.NewShaderFromSource(pipeline.FragmentShader, "out vec4 c;\nvoid main() {\nc = vec4(1, 0, 0, 1);\n}\n")
	blue := dev.NewShaderFromSource(pipeline.FragmentShader, "out vec4 c;\nvoid main() {\nc = vec4(0, 0, 1, 1);\n}\n")
	p1 := dev.NewPass(vs, red)
	p2 := dev.NewPass(vs, blue)
	require.NoError(t, p1.Load())
	require.NoError(t, p2.Load())

	require.NoError(t, p1.Free())
	require.NoError(t, vs.Free())
	require.NoError(t, p2.Free())
	require.NoError(t, vs.Free())
	require.NoError(t, red.Free())
	require.NoError(t, blue.Free())

	assert.Zero(t, gl.LiveShaders())
	assert.Zero(t, gl.LivePrograms())
	assert.Empty(t, gl.Errors(), "no double delete, no stray detach")
}

func TestPass_Reload(t *testing.T) {
	gl := gltest.New()
	dev := opengl.NewClassic(gl)
	vert, frag := writeShaders(t)
	p := dev.NewPass(dev.NewShader(pipeline.VertexShader, vert), dev.NewShader(pipeline.FragmentShader, frag))
	require.NoError(t, p.Load())

	require.NoError(t, os.WriteFile(frag, []byte(brokenSource), 0o644))
	require.ErrorIs(t, p.Reload(), pipeline.ErrShaderCompilation)
	assert.True(t, p.Linked())
	assert.Contains(t, p.Uniforms(), "testUniform", "relinked from the previous source")

	require.NoError(t, os.WriteFile(frag, []byte("out vec4 c;\nuniform float gain;\nvoid main() {\nc = vec4(gain);\n}\n"), 0o644))
	require.NoError(t, p.Reload())
	assert.Contains(t, p.Uniforms(), "gain")
	assert.NotContains(t, p.Uniforms(), "testUniform")
	assert.Equal(t, 1, gl.LivePrograms())
	assert.Equal(t, 2, gl.LiveShaders())
	assert.Empty(t, gl.Errors())
}

func TestPipeline_TwoPasses(t *testing.T) {
	gl := gltest.New()
	dev := opengl.NewClassic(gl)
	vs := dev.NewShaderFromSource(pipeline.VertexShader, opengl.FullscreenVertexSource)
	first := dev.NewPass(vs, dev.NewShaderFromSource(pipeline.FragmentShader, "out vec4 c;\nvoid main() {\nc = vec4(1);\n}\n"))
	second := dev.NewPass(vs, dev.NewShaderFromSource(pipeline.FragmentShader, "out vec4 c;\nvoid main() {\nc = vec4(0);\n}\n"))
	pipe := dev.NewPipeline(first, second)
	require.NoError(t, pipe.Load())
	gl.Reset()

	more, err := pipe.UseNext()
	require.NoError(t, err)
	assert.True(t, more)
	assert.Equal(t, first.Context().ProgramID, gl.CurrentProgram())

	more, err = pipe.UseNext()
	require.NoError(t, err)
	assert.False(t, more)
	assert.Equal(t, second.Context().ProgramID, gl.CurrentProgram())
	assert.Equal(t, -1, pipe.Current())

	assert.Equal(t, 2, gl.Count("UseProgram"))

	require.NoError(t, pipe.Free())
	assert.Zero(t, gl.LivePrograms())
	assert.Empty(t, gl.Errors())
}

func TestPipeline_UseOutOfRange(t *testing.T) {
	dev := opengl.NewClassic(gltest.New())
	pipe := dev.NewPipeline()
	assert.ErrorIs(t, pipe.Use(0), pipeline.ErrPassIndex)
}

func TestEmbeddedProfile(t *testing.T) {
	fsys := fstest.MapFS{
		"shaders/basic.vert": {Data: []byte(vertexSource)},
		"shaders/basic.frag": {Data: []byte(fragmentSource)},
	}
	gl := gltest.New()
	dev := opengl.NewDevice(gl, opengl.NewEmbedded(fsys))
	p := dev.NewPass(
		dev.NewShader(pipeline.VertexShader, "shaders/basic.vert"),
		dev.NewShader(pipeline.FragmentShader, "shaders/basic.frag"),
	)
	require.NoError(t, p.Load())
	assert.Contains(t, p.Uniforms(), "testUniform")

	missing := dev.NewShader(pipeline.VertexShader, "shaders/none.vert")
	assert.ErrorIs(t, missing.Load(), pipeline.ErrShaderRead)
}

func TestRenderer_Render(t *testing.T) {
	gl := gltest.New()
	dev := opengl.NewClassic(gl)
	vs := dev.NewShaderFromSource(pipeline.VertexShader, opengl.FullscreenVertexSource)
	fs := dev.NewShaderFromSource(pipeline.FragmentShader, "out vec4 c;\nvoid main() {\nc = vec4(1);\n}\n")
	pipe := dev.NewPipeline(dev.NewPass(vs, fs), dev.NewPass(vs, fs))
	require.NoError(t, pipe.Load())

	r := opengl.NewRenderer(gl, 4, 2)
	defer r.Delete()
	r.SetClearColor(mgl32.Vec4{0.1, 0.2, 0.3, 1})

	for range 2 {
		require.NoError(t, r.Render(pipe, nil))
	}
	assert.Equal(t, 4, gl.Count("DrawArrays"))
	assert.Equal(t, -1, pipe.Current())

	img := r.Snapshot()
	assert.Equal(t, 4, img.Bounds().Dx())
	assert.Equal(t, 2, img.Bounds().Dy())
	assert.Equal(t, uint8(0xFF), img.RGBAAt(3, 1).A)
	assert.Empty(t, gl.Errors())
}

func TestTypeName(t *testing.T) {
	e, ok := opengl.TypeEnum("dmat3")
	require.True(t, ok)
	assert.Equal(t, "dmat3", opengl.TypeName(e))
	assert.Equal(t, "0x1234", opengl.TypeName(0x1234))
}
