package render

import (
	"context"
	"fmt"
	"io"
	"strings"

	svg "github.com/ajstarks/svgo"
	nchess "github.com/corentings/chess/v2"
	"github.com/park285/chess960-viewer/internal/surface"
)

const (
	svgLightSquare = "#e9cfa3"
	svgDarkSquare  = "#bb8860"
	svgCoordinate  = "#3c3c3c"
)

// WriteSVG draws board as a vector image whose squares are glyphBox units wide.
func WriteSVG(ctx context.Context, w io.Writer, board *nchess.Board, opts RenderOptions) error {
	if board == nil {
		return fmt.Errorf("board is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	margin := 0
	if opts.Coordinates {
		margin = glyphBox / 2
	}
	size := glyphBox*8 + margin*2

	canvas := svg.New(w)
	canvas.Startview(size, size, 0, 0, size, size)
	if title := strings.TrimSpace(opts.HUDHeader); title != "" {
		canvas.Title(title)
	}

	ranks := surface.Ranks(opts.Flipped)
	files := surface.Files(opts.Flipped)
	squares := board.SquareMap()

	for row, rank := range ranks {
		for col, file := range files {
			sq := nchess.NewSquare(file, rank)
			x := margin + col*glyphBox
			y := margin + row*glyphBox
			fill := svgLightSquare
			if (int(sq.File())+int(sq.Rank()))%2 == 0 {
				fill = svgDarkSquare
			}
			canvas.Rect(x, y, glyphBox, glyphBox, "fill:"+fill)
			piece := squares[sq]
			if piece == nchess.NoPiece {
				continue
			}
			canvas.Gtransform(fmt.Sprintf("translate(%d,%d)", x, y))
			drawGlyph(canvas, piece)
			canvas.Gend()
		}
	}

	if opts.Coordinates {
		label := "font-family:sans-serif;font-size:14px;text-anchor:middle;fill:" + svgCoordinate
		for row, rank := range ranks {
			canvas.Text(margin/2, margin+row*glyphBox+glyphBox/2+5, rank.String(), label)
		}
		for col, file := range files {
			canvas.Text(margin+col*glyphBox+glyphBox/2, size-margin/2+5, file.String(), label)
		}
	}

	canvas.End()
	return nil
}
