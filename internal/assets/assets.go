// Package assets holds the animation frame store. Frames are loaded once
// at startup from image files (PNG, JPEG, GIF or SVG); when no files are
// available a procedurally generated loop keeps the animation region alive.
package assets

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"
)

// Store is an immutable sequence of animation frames.
type Store struct {
	frames []*image.RGBA
}

// Count returns the number of frames in the loop.
func (s *Store) Count() int {
	return len(s.frames)
}

// Frame returns frame i modulo the loop length.
func (s *Store) Frame(i int) *image.RGBA {
	return s.frames[i%len(s.frames)]
}

// Load reads every supported image file in dir, sorted by name, as one
// animation loop.
func Load(dir string) (*Store, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read frame dir: %w", err)
	}

	var names []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".png", ".jpg", ".jpeg", ".gif", ".svg":
			names = append(names, e.Name())
		}
	}
	sort.Strings(names)

	if len(names) == 0 {
		return nil, fmt.Errorf("no frame images in %s", dir)
	}

	frames := make([]*image.RGBA, 0, len(names))
	for _, name := range names {
		img, err := decodeFile(filepath.Join(dir, name))
		if err != nil {
			return nil, fmt.Errorf("decode %s: %w", name, err)
		}
		frames = append(frames, img)
	}
	return &Store{frames: frames}, nil
}

func decodeFile(path string) (*image.RGBA, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var img image.Image
	switch strings.ToLower(filepath.Ext(path)) {
	case ".png":
		img, err = png.Decode(bytes.NewReader(data))
	case ".jpg", ".jpeg":
		img, err = jpeg.Decode(bytes.NewReader(data))
	case ".gif":
		img, err = gif.Decode(bytes.NewReader(data))
	case ".svg":
		return decodeSVG(data)
	default:
		return nil, fmt.Errorf("unsupported image format")
	}
	if err != nil {
		return nil, err
	}

	bounds := img.Bounds()
	rgba := image.NewRGBA(bounds)
	draw.Draw(rgba, bounds, img, bounds.Min, draw.Src)
	return rgba, nil
}

// decodeSVG rasterizes an SVG at its intrinsic viewbox size.
func decodeSVG(data []byte) (*image.RGBA, error) {
	icon, err := oksvg.ReadIconStream(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	w := int(icon.ViewBox.W)
	h := int(icon.ViewBox.H)
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("svg has no viewbox")
	}

	rgba := image.NewRGBA(image.Rect(0, 0, w, h))
	icon.SetTarget(0, 0, float64(w), float64(h))
	scanner := rasterx.NewScannerGV(w, h, rgba, rgba.Bounds())
	icon.Draw(rasterx.NewDasher(w, h, scanner), 1.0)
	return rgba, nil
}

// Generated builds a procedural loop of n frames: diagonal color bands
// scrolling one step per frame, so every frame differs from the last.
func Generated(w, h, n int) *Store {
	palette := []color.RGBA{
		{226, 72, 38, 255},
		{255, 153, 0, 255},
		{255, 229, 0, 255},
		{70, 235, 145, 255},
		{0, 153, 255, 255},
		{102, 77, 204, 255},
	}
	const band = 12

	frames := make([]*image.RGBA, n)
	for i := range frames {
		img := image.NewRGBA(image.Rect(0, 0, w, h))
		for y := 0; y < h; y++ {
			for x := 0; x < w; x++ {
				c := palette[((x+y+i*2)/band)%len(palette)]
				img.SetRGBA(x, y, c)
			}
		}
		frames[i] = img
	}
	return &Store{frames: frames}
}
