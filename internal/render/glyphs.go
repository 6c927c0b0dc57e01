package render

import (
	"bytes"
	"fmt"

	svg "github.com/ajstarks/svgo"
	nchess "github.com/corentings/chess/v2"
)

// glyphBox is the side of the square viewBox every piece glyph is drawn in.
const glyphBox = 45

type glyphPalette struct {
	fill   string
	stroke string
	detail string
}

var (
	whiteGlyph = glyphPalette{fill: "#ffffff", stroke: "#000000", detail: "#000000"}
	blackGlyph = glyphPalette{fill: "#1c1f2e", stroke: "#000000", detail: "#ececff"}
)

func paletteFor(piece nchess.Piece) glyphPalette {
	if piece.Color() == nchess.White {
		return whiteGlyph
	}
	return blackGlyph
}

func (p glyphPalette) body() string {
	return fmt.Sprintf("fill:%s;stroke:%s;stroke-width:1.5;stroke-linejoin:round", p.fill, p.stroke)
}

func (p glyphPalette) mark() string {
	return fmt.Sprintf("fill:%s;stroke:none", p.detail)
}

// glyphSVG returns a standalone SVG document for piece.
func glyphSVG(piece nchess.Piece) []byte {
	var buf bytes.Buffer
	canvas := svg.New(&buf)
	canvas.Startview(glyphBox, glyphBox, 0, 0, glyphBox, glyphBox)
	drawGlyph(canvas, piece)
	canvas.End()
	return buf.Bytes()
}

// drawGlyph draws piece into canvas within a glyphBox x glyphBox area at the origin.
func drawGlyph(canvas *svg.SVG, piece nchess.Piece) {
	pal := paletteFor(piece)
	body := pal.body()

	switch piece.Type() {
	case nchess.Pawn:
		canvas.Polygon(
			[]int{12, 33, 29, 26, 19, 16},
			[]int{38, 38, 28, 22, 22, 28},
			body,
		)
		canvas.Circle(22, 15, 6, body)
	case nchess.Rook:
		canvas.Polygon(
			[]int{11, 34, 34, 31, 31, 34, 34, 29, 29, 25, 25, 20, 20, 16, 16, 11, 11, 14, 14, 11},
			[]int{38, 38, 34, 34, 17, 14, 8, 8, 11, 11, 8, 8, 11, 11, 8, 8, 14, 17, 34, 34},
			body,
		)
		canvas.Rect(14, 17, 17, 2, pal.mark())
	case nchess.Knight:
		canvas.Polygon(
			[]int{12, 34, 33, 30, 24, 21, 19, 15, 10, 12, 16, 20, 17, 13},
			[]int{38, 38, 26, 14, 9, 6, 10, 13, 22, 25, 23, 21, 28, 33},
			body,
		)
		canvas.Circle(18, 15, 1, pal.mark())
	case nchess.Bishop:
		canvas.Polygon(
			[]int{12, 33, 29, 16},
			[]int{38, 38, 30, 30},
			body,
		)
		canvas.Polygon(
			[]int{22, 29, 28, 17, 16},
			[]int{11, 19, 28, 28, 19},
			body,
		)
		canvas.Circle(22, 8, 3, body)
		canvas.Rect(21, 17, 3, 7, pal.mark())
	case nchess.Queen:
		canvas.Polygon(
			[]int{11, 34, 33, 36, 29, 29, 24, 22, 20, 15, 15, 8, 12},
			[]int{36, 36, 27, 12, 23, 9, 22, 8, 22, 9, 23, 12, 27},
			body,
		)
		for _, peak := range [][2]int{{8, 12}, {15, 9}, {22, 8}, {29, 9}, {36, 12}} {
			canvas.Circle(peak[0], peak[1], 2, body)
		}
		canvas.Rect(12, 30, 21, 2, pal.mark())
	case nchess.King:
		canvas.Polygon(
			[]int{11, 34, 33, 37, 33, 26, 22, 19, 12, 8, 12},
			[]int{38, 38, 30, 22, 16, 18, 16, 18, 16, 22, 30},
			body,
		)
		canvas.Rect(21, 4, 3, 12, body)
		canvas.Rect(17, 7, 11, 3, body)
		canvas.Rect(12, 31, 21, 2, pal.mark())
	}
}
