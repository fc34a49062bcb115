package surface

import (
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"

	"github.com/sweeney/wifi-clock/internal/render"
)

// FaceSet maps the render font slots onto concrete faces.
type FaceSet map[render.Font]font.Face

// Face returns the face for f, falling back to the built-in bitmap face
// so text always renders even with no font files installed.
func (fs FaceSet) Face(f render.Font) font.Face {
	if face, ok := fs[f]; ok {
		return face
	}
	return basicfont.Face7x13
}

// fontSpec names the TTF file and point size for one slot.
type fontSpec struct {
	file string
	size float64
}

var fontSpecs = map[render.Font]fontSpec{
	render.FontClock:   {"Orbitron-ExtraBold.ttf", 18},
	render.FontSeconds: {"Orbitron-Light.ttf", 28},
	render.FontLabel:   {"Orbitron-Light.ttf", 18},
	render.FontSmall:   {"Orbitron-Medium.ttf", 10},
}

// BasicFaces returns a FaceSet using only the built-in bitmap face.
func BasicFaces() FaceSet {
	return FaceSet{}
}

// LoadFaces builds a FaceSet from TTF files in dir. A missing or broken
// file leaves its slot on the bitmap fallback rather than failing startup.
func LoadFaces(dir string) (FaceSet, []error) {
	fs := FaceSet{}
	var errs []error
	for slot, spec := range fontSpecs {
		face, err := loadFace(filepath.Join(dir, spec.file), spec.size)
		if err != nil {
			errs = append(errs, fmt.Errorf("font %s: %w", spec.file, err))
			continue
		}
		fs[slot] = face
	}
	return fs, errs
}

func loadFace(path string, size float64) (font.Face, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	ttf, err := opentype.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}
	return opentype.NewFace(ttf, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}
