// Command pipesnap renders every pass of a pipeline manifest over a
// full-screen triangle in a hidden window and saves one JPEG per pass.
// With --report it also prints the uniforms and attributes each pass
// exposes after linking.
//
// Usage:
//
//	devbox shell
//	go run ./cmd/pipesnap --out snapshots --report example/pipeline.yaml
package main

import (
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/urfave/cli/v2"

	"github.com/go-theft-auto/pipeline"
	"github.com/go-theft-auto/pipeline/backend/opengl"
	"github.com/go-theft-auto/pipeline/manifest"
)

func init() {
	runtime.LockOSThread()
}

var (
	outFlag = &cli.StringFlag{
		Name:    "out",
		Aliases: []string{"o"},
		Value:   "snapshots",
		Usage:   "directory the JPEG files are written to",
	}
	widthFlag = &cli.IntFlag{
		Name:  "width",
		Value: 512,
		Usage: "viewport width in pixels",
	}
	heightFlag = &cli.IntFlag{
		Name:  "height",
		Value: 512,
		Usage: "viewport height in pixels",
	}
	qualityFlag = &cli.IntFlag{
		Name:  "quality",
		Value: 90,
		Usage: "JPEG quality, 1 to 100",
	}
	reportFlag = &cli.BoolFlag{
		Name:  "report",
		Usage: "print the reflected uniforms and attributes of every pass",
	}
	verboseFlag = &cli.BoolFlag{
		Name:    "verbose",
		Aliases: []string{"v"},
		Usage:   "log shader and pass lifecycle events",
	}
)

func main() {
	app := &cli.App{
		Name:      "pipesnap",
		Usage:     "render each pass of a pipeline manifest to a JPEG",
		ArgsUsage: "<manifest.yaml|manifest.toml>",
		Flags:     []cli.Flag{outFlag, widthFlag, heightFlag, qualityFlag, reportFlag, verboseFlag},
		Action:    run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.NArg() != 1 {
		return cli.Exit("pipesnap: expected exactly one manifest", 2)
	}
	pipeline.SetVerbose(c.Bool(verboseFlag.Name))

	cfg := config{
		out:     c.String(outFlag.Name),
		width:   c.Int(widthFlag.Name),
		height:  c.Int(heightFlag.Name),
		quality: c.Int(qualityFlag.Name),
	}
	if err := cfg.validate(); err != nil {
		return cli.Exit(err, 2)
	}

	m, err := manifest.Load(c.Args().First())
	if err != nil {
		return err
	}

	win, err := opengl.OpenWindow(cfg.width, cfg.height, opengl.WithHidden(), opengl.WithTitle("pipesnap"))
	if err != nil {
		return err
	}
	defer win.Close()

	var report io.Writer
	if c.Bool(reportFlag.Name) {
		report = c.App.Writer
	}
	files, err := snap(win.Driver(), m, cfg, report)
	if err != nil {
		return err
	}
	for _, f := range files {
		fmt.Fprintf(c.App.Writer, "  %s (%dx%d)\n", f, cfg.width, cfg.height)
	}
	fmt.Fprintf(c.App.Writer, "\nGenerated %d snapshots in %s/\n", len(files), cfg.out)
	return nil
}
