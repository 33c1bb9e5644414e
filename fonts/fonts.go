// Package fonts loads the font assets used to rasterize Open Graph images.
//
// Fonts are read once and parsed into a FontSet that is shared read-only by
// every render. A FontSet never falls back to a system font: a missing or
// unreadable file is an error.
package fonts

import (
	"errors"
	"fmt"

	"github.com/spf13/afero"
	"golang.org/x/image/font"
	"golang.org/x/image/font/opentype"
)

// Family names the card template refers to.
const (
	RegularFamily = "Atkinson Regular"
	BoldFamily    = "Atkinson Bold"
)

// Default font locations, relative to the site root.
const (
	DefaultRegularPath = "./public/fonts/atkinson-regular.woff"
	DefaultBoldPath    = "./public/fonts/atkinson-bold.woff"
)

var (
	// ErrUnsupportedFormat is returned for data that is neither WOFF 1.0 nor
	// a TrueType/OpenType file.
	ErrUnsupportedFormat = errors.New("unsupported font format")
	// ErrUnknownFamily is returned when a template asks for a family the set
	// does not hold.
	ErrUnknownFamily = errors.New("unknown font family")
)

// Face is a named, weighted and styled font asset.
type Face struct {
	Name   string
	Weight int
	Style  string
	Font   *opentype.Font
}

// FontSet is an immutable collection of faces addressed by family name.
type FontSet struct {
	faces map[string]Face
	names []string
}

// New builds a FontSet from already parsed faces.
func New(faces ...Face) (*FontSet, error) {
	s := &FontSet{faces: make(map[string]Face, len(faces))}
	for _, f := range faces {
		if f.Name == "" {
			return nil, errors.New("fonts: face without a family name")
		}
		if f.Font == nil {
			return nil, fmt.Errorf("fonts: face %q has no font data", f.Name)
		}
		if _, dup := s.faces[f.Name]; dup {
			return nil, fmt.Errorf("fonts: duplicate family %q", f.Name)
		}
		if f.Style == "" {
			f.Style = "normal"
		}
		s.faces[f.Name] = f
		s.names = append(s.names, f.Name)
	}
	return s, nil
}

// Load reads the regular (400) and bold (700) faces from fsys.
func Load(fsys afero.Fs, regularPath, boldPath string) (*FontSet, error) {
	regular, err := LoadFile(fsys, regularPath)
	if err != nil {
		return nil, err
	}
	bold, err := LoadFile(fsys, boldPath)
	if err != nil {
		return nil, err
	}
	return New(
		Face{Name: RegularFamily, Weight: 400, Style: "normal", Font: regular},
		Face{Name: BoldFamily, Weight: 700, Style: "normal", Font: bold},
	)
}

// LoadFile reads and parses one font file.
func LoadFile(fsys afero.Fs, path string) (*opentype.Font, error) {
	data, err := afero.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("read font %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parse font %s: %w", path, err)
	}
	return f, nil
}

// Parse decodes WOFF 1.0 or plain sfnt data.
func Parse(data []byte) (*opentype.Font, error) {
	if len(data) < 4 {
		return nil, ErrUnsupportedFormat
	}
	switch string(data[:4]) {
	case "wOFF":
		sfnt, err := decodeWOFF(data)
		if err != nil {
			return nil, err
		}
		data = sfnt
	case "\x00\x01\x00\x00", "OTTO", "true":
	case "wOF2":
		return nil, fmt.Errorf("%w: WOFF2", ErrUnsupportedFormat)
	default:
		return nil, ErrUnsupportedFormat
	}
	return opentype.Parse(data)
}

// Lookup returns the face registered under family.
func (s *FontSet) Lookup(family string) (Face, bool) {
	f, ok := s.faces[family]
	return f, ok
}

// Families lists the registered family names in registration order.
func (s *FontSet) Families() []string {
	return append([]string(nil), s.names...)
}

// NewFace returns a face for family at size pixels. Faces carry scratch
// buffers and must not be shared across goroutines; the parsed fonts may.
func (s *FontSet) NewFace(family string, size float64) (font.Face, error) {
	f, ok := s.faces[family]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownFamily, family)
	}
	return opentype.NewFace(f.Font, &opentype.FaceOptions{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}
