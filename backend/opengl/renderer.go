// Package opengl is the OpenGL 4.1 backend of package pipeline: contexts,
// Classic components and profiles, a native go-gl Driver, a GLFW window
// helper and a small renderer for full-screen passes.
package opengl

import (
	"fmt"
	"image"

	"github.com/go-gl/mathgl/mgl32"
)

// FullscreenVertexSource is a vertex shader that covers the viewport with
// one triangle generated from gl_VertexID. It needs no vertex buffer and
// passes uv in [0,1] to the fragment stage.
const FullscreenVertexSource = `#version 410 core
out vec2 uv;

void main() {
    vec2 p = vec2(float((gl_VertexID << 1) & 2), float(gl_VertexID & 2));
    uv = p;
    gl_Position = vec4(p * 2.0 - 1.0, 0.0, 1.0);
}
`

// Walker is the part of a pipeline Renderer.Render drives.
type Walker interface {
	Len() int
	Reset() error
	UseNext() (bool, error)
}

// Renderer owns the vertex array used to draw full-screen passes and the
// viewport they are drawn into.
type Renderer struct {
	gl     Driver
	vao    uint32
	width  int32
	height int32
	clear  mgl32.Vec4
}

// NewRenderer creates a renderer with a width×height viewport.
func NewRenderer(d Driver, width, height int) *Renderer {
	return &Renderer{
		gl:     d,
		vao:    d.GenVertexArray(),
		width:  int32(width),
		height: int32(height),
		clear:  mgl32.Vec4{0, 0, 0, 1},
	}
}

// Resize updates the viewport size.
func (r *Renderer) Resize(width, height int) {
	r.width = int32(width)
	r.height = int32(height)
}

// Size returns the viewport size.
func (r *Renderer) Size() (int, int) { return int(r.width), int(r.height) }

// SetClearColor sets the color Begin clears to.
func (r *Renderer) SetClearColor(c mgl32.Vec4) { r.clear = c }

// Begin sets the viewport and clears the color buffer.
func (r *Renderer) Begin() {
	r.gl.Viewport(0, 0, r.width, r.height)
	r.gl.ClearColor(r.clear[0], r.clear[1], r.clear[2], r.clear[3])
	r.gl.Clear(glColorBufferBit)
}

// DrawFullscreen draws the triangle expected by FullscreenVertexSource
// with whatever program is current.
func (r *Renderer) DrawFullscreen() {
	r.gl.BindVertexArray(r.vao)
	r.gl.DrawArrays(glTriangles, 0, 3)
	r.gl.BindVertexArray(0)
}

// Render resets p and walks every pass once, calling draw after each pass
// has been activated with its index. A nil draw draws a full-screen
// triangle.
func (r *Renderer) Render(p Walker, draw func(pass int) error) error {
	if draw == nil {
		draw = func(int) error {
			r.DrawFullscreen()
			return nil
		}
	}
	if err := p.Reset(); err != nil {
		return err
	}
	r.Begin()
	for i := 0; i < p.Len(); i++ {
		more, err := p.UseNext()
		if err != nil {
			return fmt.Errorf("render pass %d: %w", i, err)
		}
		if err := draw(i); err != nil {
			return fmt.Errorf("render pass %d: %w", i, err)
		}
		if !more {
			break
		}
	}
	return nil
}

// Snapshot reads back the color buffer, flipped so row 0 is the top.
func (r *Renderer) Snapshot() *image.RGBA {
	w, h := int(r.width), int(r.height)
	pixels := make([]byte, w*h*4)
	r.gl.ReadPixels(0, 0, r.width, r.height, pixels)

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	stride := w * 4
	for y := range h {
		copy(img.Pix[y*stride:(y+1)*stride], pixels[(h-1-y)*stride:(h-y)*stride])
	}
	return img
}

// Delete releases the vertex array.
func (r *Renderer) Delete() {
	if r.vao != 0 {
		r.gl.DeleteVertexArray(r.vao)
		r.vao = 0
	}
}
