package pipeline_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-theft-auto/pipeline"
)

func loadedPasses(t *testing.T, b *backend, n int) []pipeline.RenderPass {
	t.Helper()
	passes := make([]pipeline.RenderPass, n)
	for i := range passes {
		p := b.basicPass()
		require.NoError(t, p.Load())
		passes[i] = p
	}
	b.calls = nil
	return passes
}

func TestPipeline_CursorLaw(t *testing.T) {
	for n := 1; n <= 4; n++ {
		t.Run(fmt.Sprintf("%d passes", n), func(t *testing.T) {
			b := newBackend()
			pipe := b.pipeline(loadedPasses(t, b, n)...)
			require.Equal(t, -1, pipe.Current())

			for i := range n {
				more, err := pipe.UseNext()
				require.NoError(t, err)
				if i < n-1 {
					assert.True(t, more, "call %d", i+1)
					assert.Equal(t, i, pipe.Current())
				} else {
					assert.False(t, more, "last call")
				}
			}
			assert.Equal(t, -1, pipe.Current(), "full cycle resets the cursor")
			assert.Equal(t, n, b.count("use program"))
		})
	}
}

func TestPipeline_TwoPassScenario(t *testing.T) {
	b := newBackend()
	passes := loadedPasses(t, b, 2)
	pipe := b.pipeline(passes...)

	more, err := pipe.UseNext()
	require.NoError(t, err)
	assert.True(t, more)

	more, err = pipe.UseNext()
	require.NoError(t, err)
	assert.False(t, more)

	first := passes[0].(*testPass).Context().program
	second := passes[1].(*testPass).Context().program
	assert.Equal(t, []string{
		fmt.Sprintf("use program %d", first),
		fmt.Sprintf("use program %d", second),
	}, b.calls, "each pass activated once, in order")
}

func TestPipeline_UseNextWithNothingLeft(t *testing.T) {
	b := newBackend()
	pipe := b.pipeline()

	more, err := pipe.UseNext()
	require.NoError(t, err)
	assert.False(t, more)
	assert.Equal(t, -1, pipe.Current())
	assert.False(t, pipe.HasNext())

	pipe = b.pipeline(loadedPasses(t, b, 2)...)
	require.NoError(t, pipe.Use(1))
	assert.False(t, pipe.HasNext())

	more, err = pipe.UseNext()
	require.NoError(t, err)
	assert.False(t, more)
	assert.Equal(t, -1, pipe.Current())
	assert.Equal(t, 1, b.count("use program"), "reset activates nothing")
}

func TestPipeline_FrameLoop(t *testing.T) {
	b := newBackend()
	pipe := b.pipeline(loadedPasses(t, b, 3)...)

	for frame := range 2 {
		drawn := 0
		for more := pipe.Len() > 0; more; {
			var err error
			more, err = pipe.UseNext()
			require.NoError(t, err)
			drawn++
		}
		assert.Equal(t, 3, drawn, "frame %d", frame)
		assert.Equal(t, -1, pipe.Current())
	}
}

func TestPipeline_Use(t *testing.T) {
	b := newBackend()
	pipe := b.pipeline(loadedPasses(t, b, 3)...)

	require.NoError(t, pipe.Use(2))
	assert.Equal(t, 2, pipe.Current())
	assert.False(t, pipe.HasNext())

	require.NoError(t, pipe.Use(0))
	assert.True(t, pipe.HasNext())

	for _, bad := range []int{-1, 3, 100} {
		err := pipe.Use(bad)
		require.ErrorIs(t, err, pipeline.ErrPassIndex)
		assert.Equal(t, 0, pipe.Current(), "cursor untouched by a bad index")
	}
}

func TestPipeline_UseUnlinkedPass(t *testing.T) {
	b := newBackend()
	pipe := b.pipeline(b.basicPass())

	_, err := pipe.UseNext()
	require.ErrorIs(t, err, pipeline.ErrNotLinked)
}

func TestPipeline_Reset(t *testing.T) {
	b := newBackend()
	pipe := b.pipeline(loadedPasses(t, b, 2)...)

	_, err := pipe.UseNext()
	require.NoError(t, err)
	require.NoError(t, pipe.Reset())
	assert.Equal(t, -1, pipe.Current())
	assert.True(t, pipe.HasNext())

	for i := range pipe.Len() {
		p, err := pipe.Pass(i)
		require.NoError(t, err)
		assert.True(t, p.Linked(), "reset leaves passes alone")
	}
}

func TestPipeline_Pass(t *testing.T) {
	b := newBackend()
	passes := loadedPasses(t, b, 2)
	pipe := b.pipeline(passes...)

	p, err := pipe.Pass(1)
	require.NoError(t, err)
	assert.Same(t, passes[1], p)

	_, err = pipe.Pass(2)
	assert.ErrorIs(t, err, pipeline.ErrPassIndex)
}

func TestPipeline_LoadStopsAtFirstError(t *testing.T) {
	b := newBackend()
	good := b.basicPass()
	vs := b.shader(pipeline.VertexShader, "bad.vert", "error")
	bad := b.pass(nil, nil, vs)
	never := b.basicPass()
	pipe := b.pipeline(good, bad, never)

	err := pipe.Load()
	require.ErrorIs(t, err, pipeline.ErrShaderCompilation)
	assert.Contains(t, err.Error(), "pass 1")
	assert.True(t, good.Linked())
	assert.False(t, never.Linked())
}

func TestPipeline_FreeAndClose(t *testing.T) {
	b := newBackend()
	pipe := b.pipeline(b.basicPass(), b.basicPass())
	require.NoError(t, pipe.Load())
	_, err := pipe.UseNext()
	require.NoError(t, err)

	require.NoError(t, pipe.Free())
	assert.Equal(t, -1, pipe.Current())
	assert.Equal(t, 2, b.count("delete program"))

	pipe.Close()
	assert.Equal(t, 2, b.count("delete program"), "second free is a no-op")
}
