package report

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTestPNG(t *testing.T, path string, c color.Color) {
	t.Helper()
	img := image.NewNRGBA(image.Rect(0, 0, 8, 8))
	for y := 0; y < 8; y++ {
		for x := 0; x < 8; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0644))
}

func TestBuildGIF(t *testing.T) {
	dir := t.TempDir()
	colors := []color.Color{
		color.NRGBA{R: 255, A: 255},
		color.NRGBA{G: 255, A: 255},
		color.NRGBA{B: 255, A: 255},
	}
	for i, c := range colors {
		writeTestPNG(t, filepath.Join(dir, fmt.Sprintf("frame-%03d.png", i)), c)
	}
	// A non-PNG file in the directory is ignored.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0644))

	out := filepath.Join(t.TempDir(), "anim.gif")
	require.NoError(t, BuildGIF(dir, out, 10))

	f, err := os.Open(out)
	require.NoError(t, err)
	defer f.Close()
	decoded, err := gif.DecodeAll(f)
	require.NoError(t, err)

	require.Len(t, decoded.Image, 3)
	assert.Equal(t, 0, decoded.LoopCount)
	for _, d := range decoded.Delay {
		assert.Equal(t, 10, d) // 100/fps centiseconds
	}
}

func TestBuildGIFRejectsBadFrameRate(t *testing.T) {
	err := BuildGIF(t.TempDir(), "out.gif", 0)
	assert.Error(t, err)
}

func TestBuildGIFEmptyDirectory(t *testing.T) {
	out := filepath.Join(t.TempDir(), "anim.gif")
	err := BuildGIF(t.TempDir(), out, 12)
	assert.Error(t, err)
}
