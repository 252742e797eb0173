package main

import (
	"errors"
	"fmt"
	"image/jpeg"
	"io"
	"os"
	"path/filepath"

	"github.com/go-gl/mathgl/mgl32"

	"github.com/go-theft-auto/pipeline/backend/opengl"
	"github.com/go-theft-auto/pipeline/manifest"
)

type config struct {
	out     string
	width   int
	height  int
	quality int
}

func (c config) validate() error {
	switch {
	case c.out == "":
		return errors.New("pipesnap: --out must not be empty")
	case c.width <= 0 || c.height <= 0:
		return fmt.Errorf("pipesnap: invalid size %dx%d", c.width, c.height)
	case c.quality < 1 || c.quality > 100:
		return fmt.Errorf("pipesnap: quality %d out of range", c.quality)
	}
	return nil
}

// snap builds and loads m on gl, renders each pass on its own and writes
// <out>/<pass>.jpg. It returns the written paths in pass order. When
// report is not nil the reflection table is written to it first.
func snap(gl opengl.Driver, m *manifest.Manifest, cfg config, report io.Writer) (files []string, err error) {
	built, err := manifest.Build(opengl.NewClassic(gl), m)
	if err != nil {
		return nil, err
	}
	defer func() {
		err = errors.Join(err, built.Free())
	}()
	if err := built.Load(); err != nil {
		return nil, fmt.Errorf("load pipeline: %w", err)
	}

	if report != nil {
		if err := writeReport(report, built); err != nil {
			return nil, err
		}
	}

	if err := os.MkdirAll(cfg.out, 0o755); err != nil {
		return nil, fmt.Errorf("mkdir: %w", err)
	}

	renderer := opengl.NewRenderer(gl, cfg.width, cfg.height)
	defer renderer.Delete()
	renderer.SetClearColor(mgl32.Vec4{0.12, 0.12, 0.14, 1})

	pipe := built.Pipeline
	for i, name := range built.PassNames() {
		renderer.Begin()
		if err := pipe.Use(i); err != nil {
			return files, fmt.Errorf("pass %q: %w", name, err)
		}
		renderer.DrawFullscreen()

		path := filepath.Join(cfg.out, name+".jpg")
		if err := writeJPEG(path, renderer, cfg.quality); err != nil {
			return files, fmt.Errorf("pass %q: %w", name, err)
		}
		files = append(files, path)
	}
	return files, pipe.Reset()
}

func writeJPEG(path string, r *opengl.Renderer, quality int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := jpeg.Encode(f, r.Snapshot(), &jpeg.Options{Quality: quality}); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
