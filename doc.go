/*
Package pipeline manages the lifecycle of GPU shader programs: reading and
compiling shaders, linking them into passes, walking an ordered list of
passes each frame, and pushing typed uniform and vertex attribute values.

The package itself issues no GPU calls. Every operation is delegated to a
component supplied by a profile, and components act on backend contexts.
backend/opengl provides the OpenGL 4.1 contexts, the Classic components and
the Classic and Embedded profiles.

# Quick Start

	// Setup, after a GL context is current.
	dev := opengl.NewClassic(opengl.NativeDriver())
	vs := dev.NewShader(pipeline.VertexShader, "shaders/quad.vert")
	blur := dev.NewPass(vs, dev.NewShader(pipeline.FragmentShader, "shaders/blur.frag"))
	tone := dev.NewPass(vs, dev.NewShader(pipeline.FragmentShader, "shaders/tone.frag"))
	pipe := dev.NewPipeline(blur, tone)
	if err := pipe.Load(); err != nil {
	    return err
	}
	defer pipe.Close()

	// Frame loop
	for !window.ShouldClose() {
	    if _, err := pipeline.WithUniform(blur, "radius", float32(4)); err != nil {
	        return err
	    }
	    for more := pipe.Len() > 0; more; {
	        var err error
	        if more, err = pipe.UseNext(); err != nil {
	            return err
	        }
	        drawFullscreen()
	    }
	    window.SwapBuffers()
	}

# Lifecycle

A Shader starts unloaded. Load reads its source when it has none yet and
compiles it; Free deletes the backend object and is safe to call any number
of times, from any of the passes sharing the shader. A freed shader cannot
be loaded again. Reload re-reads the source and recompiles it; when the
profile implements ShaderReloader a failed recompile keeps the previous
object.

A Pass loads its shaders, links them in the order they were given and then
reflects the program's active uniforms and attributes. Its cells only exist
while it is linked. Free releases the program but not the shaders.

A Pipeline holds passes and a cursor that starts at -1. UseNext activates
the next pass and reports whether another one follows; after activating the
last pass it resets the cursor, so a loop driven by its result runs each
pass exactly once per frame. Use(i) activates a pass directly.

# Profiles

A profile is a struct embedding one component per operation:

	type Classic struct {
	    ClassicShaderReader
	    ClassicShaderLoader
	    ...
	}

To swap a component, embed the profile and add the replacement at a
shallower depth. Embedded does this to read sources from an fs.FS:

	type Embedded struct {
	    Classic
	    EmbeddedShaderReader
	}

The flow constraints in validator.go are the type parameter bounds of
Shader, Pass and Pipeline, so a profile missing an operation does not
compile.

# Values

Uniform and Attribute cells accept only the Go types in UniformValue and
AttributeValue. The first value set fixes a cell's type; setting another
type fails with ErrTypeMismatch and leaves the cell unchanged.

	_, err := pipeline.WithUniform(pass, "mvp", mgl32.Ident4())
	_, err = pipeline.WithAttribute(pass, "position", []mgl32.Vec2{{-1, -1}, {3, -1}, {-1, 3}})

# Logging

Lifecycle events are logged at debug level through log/slog. Call
SetVerbose(true) to see them on stderr, or SetLogger to route them
elsewhere.
*/
package pipeline
