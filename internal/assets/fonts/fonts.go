// Package fonts exposes the font faces used for board captions and coordinates.
package fonts

import (
	"fmt"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

const (
	captionSize = 18
	titleSize   = 22
	dpi         = 72
)

var (
	captionOnce sync.Once
	captionFace font.Face
	captionErr  error

	titleOnce sync.Once
	titleFace font.Face
	titleErr  error
)

// CaptionFace is used for coordinates and secondary HUD text.
func CaptionFace() (font.Face, error) {
	captionOnce.Do(func() {
		captionFace, captionErr = newFace(goregular.TTF, captionSize)
	})
	return captionFace, captionErr
}

// TitleFace is used for the HUD header.
func TitleFace() (font.Face, error) {
	titleOnce.Do(func() {
		titleFace, titleErr = newFace(gobold.TTF, titleSize)
	})
	return titleFace, titleErr
}

func newFace(ttf []byte, size float64) (font.Face, error) {
	parsed, err := opentype.Parse(ttf)
	if err != nil {
		return nil, fmt.Errorf("parse font: %w", err)
	}
	face, err := opentype.NewFace(parsed, &opentype.FaceOptions{
		Size:    size,
		DPI:     dpi,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, fmt.Errorf("new font face: %w", err)
	}
	return face, nil
}
