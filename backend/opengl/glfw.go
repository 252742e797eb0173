package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// Window is a GLFW window with a current OpenGL 4.1 core context.
// Create and use it from the main, OS-locked thread.
type Window struct {
	window *glfw.Window
	keys   map[glfw.Key]func()
}

type windowConfig struct {
	title  string
	hidden bool
	vsync  bool
}

// WindowOption configures OpenWindow.
type WindowOption func(*windowConfig)

// WithTitle sets the window title.
func WithTitle(title string) WindowOption {
	return func(c *windowConfig) { c.title = title }
}

// WithHidden creates an invisible window, for offscreen rendering.
func WithHidden() WindowOption {
	return func(c *windowConfig) { c.hidden = true }
}

// WithVSync enables or disables swap-interval synchronisation.
func WithVSync(on bool) WindowOption {
	return func(c *windowConfig) { c.vsync = on }
}

// OpenWindow initialises GLFW, opens a window, makes its context current
// and loads the GL function pointers. Close releases all of it.
func OpenWindow(width, height int, opts ...WindowOption) (*Window, error) {
	cfg := windowConfig{title: "pipeline", vsync: true}
	for _, opt := range opts {
		opt(&cfg)
	}

	if err := glfw.Init(); err != nil {
		return nil, fmt.Errorf("glfw init: %w", err)
	}

	glfw.WindowHint(glfw.ContextVersionMajor, 4)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	if cfg.hidden {
		glfw.WindowHint(glfw.Visible, glfw.False)
	}

	window, err := glfw.CreateWindow(width, height, cfg.title, nil, nil)
	if err != nil {
		glfw.Terminate()
		return nil, fmt.Errorf("create window: %w", err)
	}
	window.MakeContextCurrent()
	if cfg.vsync {
		glfw.SwapInterval(1)
	} else {
		glfw.SwapInterval(0)
	}

	if err := gl.Init(); err != nil {
		window.Destroy()
		glfw.Terminate()
		return nil, fmt.Errorf("gl init: %w", err)
	}

	w := &Window{window: window, keys: make(map[glfw.Key]func())}
	window.SetKeyCallback(w.keyCallback)
	return w, nil
}

// Driver returns the native driver for this window's context.
func (w *Window) Driver() Driver { return NativeDriver() }

// OnKey registers fn to run when key is pressed. Callbacks run inside
// PollEvents.
func (w *Window) OnKey(key glfw.Key, fn func()) {
	w.keys[key] = fn
}

func (w *Window) keyCallback(_ *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}
	if fn, ok := w.keys[key]; ok {
		fn()
	}
}

// ShouldClose reports whether the user asked to close the window.
func (w *Window) ShouldClose() bool { return w.window.ShouldClose() }

// SetShouldClose marks the window for closing.
func (w *Window) SetShouldClose(v bool) { w.window.SetShouldClose(v) }

// PollEvents processes pending window events.
func (w *Window) PollEvents() { glfw.PollEvents() }

// SwapBuffers presents the back buffer.
func (w *Window) SwapBuffers() { w.window.SwapBuffers() }

// FramebufferSize returns the drawable size in pixels.
func (w *Window) FramebufferSize() (int, int) { return w.window.GetFramebufferSize() }

// Time returns seconds since GLFW was initialised.
func (w *Window) Time() float64 { return glfw.GetTime() }

// Close destroys the window and terminates GLFW.
func (w *Window) Close() {
	w.window.Destroy()
	glfw.Terminate()
}
