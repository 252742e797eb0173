// Example runs a two-pass pipeline described by example/pipeline.yaml in a
// window, one pass per half of the screen.
//
// Prerequisites:
//
//	Install devbox: https://www.jetify.com/devbox
//	devbox shell              # enter the dev environment (provides Go + OpenGL/X11 headers)
//	go run ./example/         # run this example from the repository root
//
// Shader sources are watched: save a change to any file under
// example/shaders and it is recompiled on the next frame. A source that
// fails to compile is reported and the previous program keeps running.
// Press R to reload everything, Escape to quit.
package main

import (
	"errors"
	"fmt"
	"os"
	"runtime"

	"github.com/go-gl/glfw/v3.3/glfw"
	"github.com/go-gl/mathgl/mgl32"

	"github.com/go-theft-auto/pipeline"
	"github.com/go-theft-auto/pipeline/backend/opengl"
	"github.com/go-theft-auto/pipeline/manifest"
	"github.com/go-theft-auto/pipeline/reload"
)

const (
	windowWidth  = 1024
	windowHeight = 512
	windowTitle  = "pipeline example"
	manifestPath = "example/pipeline.yaml"
)

func init() {
	// GLFW must run on the main thread.
	runtime.LockOSThread()
}

func main() {
	pipeline.SetVerbose(os.Getenv("PIPELINE_DEBUG") != "")
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run() error {
	m, err := manifest.Load(manifestPath)
	if err != nil {
		return err
	}

	win, err := opengl.OpenWindow(windowWidth, windowHeight, opengl.WithTitle(windowTitle))
	if err != nil {
		return err
	}
	defer win.Close()

	gl := win.Driver()
	built, err := manifest.Build(opengl.NewClassic(gl), m)
	if err != nil {
		return err
	}
	if err := built.Load(); err != nil {
		return fmt.Errorf("load pipeline: %w", err)
	}
	defer func() {
		if err := built.Free(); err != nil {
			pipeline.Logger().Error("free pipeline", "err", err)
		}
	}()

	watcher, err := reload.New()
	if err != nil {
		return err
	}
	defer watcher.Close()
	if err := built.Watch(watcher); err != nil {
		return err
	}

	renderer := opengl.NewRenderer(gl, windowWidth, windowHeight)
	defer renderer.Delete()
	renderer.SetClearColor(mgl32.Vec4{0.12, 0.12, 0.14, 1})

	win.OnKey(glfw.KeyR, watcher.NotifyAll)
	win.OnKey(glfw.KeyEscape, func() { win.SetShouldClose(true) })

	passes := built.PassNames()
	for !win.ShouldClose() {
		win.PollEvents()

		if n, err := watcher.Apply(); err != nil {
			fmt.Fprintln(os.Stderr, err)
		} else if n > 0 {
			fmt.Printf("reloaded %d shader(s)\n", n)
		}

		w, h := win.FramebufferSize()
		renderer.Resize(w, h)
		t := float32(win.Time())
		for _, name := range passes {
			p, _ := built.Pass(name)
			if _, err := pipeline.WithUniform(p, "time", t); err != nil && !errors.Is(err, pipeline.ErrUniformNotFound) {
				return err
			}
		}

		// Each pass draws into its own vertical slice of the window.
		slice := int32(w / len(passes))
		err := renderer.Render(built.Pipeline, func(i int) error {
			gl.Viewport(int32(i)*slice, 0, slice, int32(h))
			renderer.DrawFullscreen()
			return nil
		})
		if err != nil {
			return err
		}

		win.SwapBuffers()
	}
	return nil
}
