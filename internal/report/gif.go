package report

import (
	"fmt"
	"image"
	"image/color/palette"
	"image/draw"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// BuildGIF stitches every *.png file in frameDir, in lexicographic order,
// into a single looping GIF at the given frame rate. Frame file names are
// zero-padded by the frame writer, so lexicographic order is frame order.
func BuildGIF(frameDir, outPath string, fps int) error {
	if fps < 1 {
		return fmt.Errorf("frame rate must be at least 1, got %d", fps)
	}

	entries, err := os.ReadDir(frameDir)
	if err != nil {
		return fmt.Errorf("failed to list frame directory: %w", err)
	}
	var frames []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".png") {
			frames = append(frames, e.Name())
		}
	}
	if len(frames) == 0 {
		return fmt.Errorf("no PNG frames in %s", frameDir)
	}
	// ReadDir returns sorted entries, but sort again: frame order is what
	// the animation effect depends on.
	sort.Strings(frames)

	delay := 100 / fps // centiseconds per frame
	if delay < 1 {
		delay = 1
	}

	anim := &gif.GIF{LoopCount: 0}
	for _, name := range frames {
		img, err := readPNG(filepath.Join(frameDir, name))
		if err != nil {
			return err
		}
		anim.Image = append(anim.Image, quantize(img))
		anim.Delay = append(anim.Delay, delay)
	}

	out, err := os.Create(outPath)
	if err != nil {
		return fmt.Errorf("failed to create GIF file: %w", err)
	}
	defer out.Close()
	if err := gif.EncodeAll(out, anim); err != nil {
		return fmt.Errorf("failed to encode GIF: %w", err)
	}
	return out.Close()
}

func readPNG(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open frame: %w", err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("failed to decode frame %s: %w", path, err)
	}
	return img, nil
}

// quantize dithers a frame down to a paletted image for GIF encoding.
func quantize(img image.Image) *image.Paletted {
	bounds := img.Bounds()
	pm := image.NewPaletted(bounds, palette.Plan9)
	draw.FloydSteinberg.Draw(pm, bounds, img, bounds.Min)
	return pm
}
