// Package render draws board states to PNG and SVG.
package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	imagedraw "image/draw"
	"image/png"
	"strings"
	"sync"

	nchess "github.com/corentings/chess/v2"
	fontassets "github.com/park285/chess960-viewer/internal/assets/fonts"
	"github.com/park285/chess960-viewer/internal/surface"
	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"
)

const DefaultSquareSize = 72

type RenderOptions struct {
	Flipped     bool
	Coordinates bool
	HUDHeader   string
	HUDCaption  string
}

type BoardRenderer interface {
	RenderPNG(ctx context.Context, board *nchess.Board, opts RenderOptions) ([]byte, error)
}

type pngBoardRenderer struct {
	squareSize int
	pieces     PieceSet

	// font faces are not safe for concurrent use
	mu sync.Mutex
}

func NewPNGBoardRenderer(squareSize int, pieces PieceSet) BoardRenderer {
	if squareSize <= 0 {
		squareSize = DefaultSquareSize
	}
	return &pngBoardRenderer{squareSize: squareSize, pieces: pieces}
}

func (r *pngBoardRenderer) RenderPNG(ctx context.Context, board *nchess.Board, opts RenderOptions) ([]byte, error) {
	if board == nil {
		return nil, fmt.Errorf("board is nil")
	}

	const (
		boardSquares  = 8
		panelRadius   = 12
		titleHeight   = 40
		captionHeight = 32
		gapToBoard    = 18
		gapPanels     = 10
		titlePaddingX = 28
		shadowOffsetY = 6
	)

	squareSize := r.squareSize
	boardSize := squareSize * boardSquares
	sideMargin := squareSize / 2
	topMargin := titleHeight + captionHeight + gapPanels + gapToBoard + 20
	bottomMargin := squareSize / 2

	totalWidth := boardSize + sideMargin*2
	totalHeight := boardSize + topMargin + bottomMargin
	boardOrigin := image.Point{X: sideMargin, Y: topMargin}
	boardRect := image.Rect(boardOrigin.X, boardOrigin.Y, boardOrigin.X+boardSize, boardOrigin.Y+boardSize)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	img := image.NewRGBA(image.Rect(0, 0, totalWidth, totalHeight))
	imagedraw.Draw(img, img.Bounds(), image.NewUniform(backgroundColor), image.Point{}, imagedraw.Src)

	drawHUD(img, opts, boardRect, hudLayout{
		radius:        panelRadius,
		titleHeight:   titleHeight,
		captionHeight: captionHeight,
		gapPanels:     gapPanels,
		gapToBoard:    gapToBoard,
		paddingX:      titlePaddingX,
		shadowOffsetY: shadowOffsetY,
	})
	drawBoardShadow(img, boardRect)
	drawSquares(img, squareSize, boardOrigin, opts.Flipped)
	if err := drawPieces(img, board, r.pieces, squareSize, boardOrigin, opts.Flipped); err != nil {
		return nil, err
	}
	if opts.Coordinates {
		if err := drawCoordinates(img, squareSize, boardOrigin, sideMargin, opts.Flipped); err != nil {
			return nil, err
		}
	}

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}

	return pngBuf.Bytes(), nil
}

var (
	backgroundColor     = color.RGBA{240, 240, 240, 255}
	lightSquare         = color.RGBA{233, 207, 163, 255}
	darkSquare          = color.RGBA{187, 136, 96, 255}
	hudPanelColor       = color.NRGBA{R: 28, G: 31, B: 46, A: 250}
	hudCaptionColor     = color.NRGBA{R: 32, G: 35, B: 52, A: 245}
	hudShadowColor      = color.NRGBA{0, 0, 0, 50}
	hudTextPrimary      = color.NRGBA{R: 236, G: 239, B: 255, A: 255}
	hudCaptionTextColor = color.NRGBA{R: 204, G: 210, B: 236, A: 255}
	boardShadowColor    = color.NRGBA{0, 0, 0, 26}
	coordinateTextColor = color.NRGBA{R: 60, G: 60, B: 60, A: 255}
)

type hudLayout struct {
	radius        int
	titleHeight   int
	captionHeight int
	gapPanels     int
	gapToBoard    int
	paddingX      int
	shadowOffsetY int
}

func drawBoardShadow(img *image.RGBA, boardRect image.Rectangle) {
	if img == nil {
		return
	}
	shadowRect := image.Rect(
		boardRect.Min.X+4,
		boardRect.Min.Y+8,
		boardRect.Max.X+4,
		boardRect.Max.Y+8,
	)
	imagedraw.Draw(img, shadowRect, image.NewUniform(boardShadowColor), image.Point{}, imagedraw.Over)
}

func drawSquares(dst imagedraw.Image, squareSize int, origin image.Point, flipped bool) {
	for row, rank := range surface.Ranks(flipped) {
		for col, file := range surface.Files(flipped) {
			x := origin.X + col*squareSize
			y := origin.Y + row*squareSize
			clr := squareColor(nchess.NewSquare(file, rank))
			imagedraw.Draw(dst, image.Rect(x, y, x+squareSize, y+squareSize), image.NewUniform(clr), image.Point{}, imagedraw.Src)
		}
	}
}

func drawPieces(dst imagedraw.Image, board *nchess.Board, set PieceSet, squareSize int, origin image.Point, flipped bool) error {
	boardMap := board.SquareMap()
	for row, rank := range surface.Ranks(flipped) {
		for col, file := range surface.Files(flipped) {
			piece := boardMap[nchess.NewSquare(file, rank)]
			if piece == nchess.NoPiece {
				continue
			}
			img, err := renderPieceImage(set, piece, squareSize)
			if err != nil {
				return err
			}
			x := origin.X + col*squareSize
			y := origin.Y + row*squareSize
			imagedraw.Draw(dst, image.Rect(x, y, x+squareSize, y+squareSize), img, image.Point{}, imagedraw.Over)
		}
	}
	return nil
}

func drawHUD(img *image.RGBA, opts RenderOptions, boardRect image.Rectangle, l hudLayout) {
	if img == nil {
		return
	}
	titleFace, err := fontassets.TitleFace()
	if err != nil {
		return
	}
	captionFace, err := fontassets.CaptionFace()
	if err != nil {
		return
	}

	title := strings.TrimSpace(opts.HUDHeader)
	if title == "" {
		title = "Chess960"
	}
	caption := strings.TrimSpace(opts.HUDCaption)

	captionBottom := boardRect.Min.Y - l.gapToBoard
	captionTop := captionBottom - l.captionHeight
	titleBottom := captionTop - l.gapPanels
	titleTop := titleBottom - l.titleHeight

	titleDrawer := &font.Drawer{Dst: img, Face: titleFace}
	titleWidth := titleDrawer.MeasureString(title).Round() + l.paddingX*2
	if titleWidth > boardRect.Dx() {
		titleWidth = boardRect.Dx()
	}
	titleLeft := boardRect.Min.X + (boardRect.Dx()-titleWidth)/2
	titleRect := image.Rect(titleLeft, titleTop, titleLeft+titleWidth, titleBottom)

	drawRoundedPanel(img, titleRect.Add(image.Pt(0, l.shadowOffsetY)), l.radius, hudShadowColor)
	drawRoundedPanel(img, titleRect, l.radius, hudPanelColor)
	title = truncateWithEllipsis(titleFace, title, titleRect.Dx()-l.paddingX*2)
	drawCenteredString(titleDrawer, titleRect, title, hudTextPrimary)

	if caption == "" {
		return
	}
	captionDrawer := &font.Drawer{Dst: img, Face: captionFace}
	captionWidth := captionDrawer.MeasureString(caption).Round() + l.paddingX*2
	if captionWidth > boardRect.Dx() {
		captionWidth = boardRect.Dx()
	}
	captionLeft := boardRect.Min.X + (boardRect.Dx()-captionWidth)/2
	captionRect := image.Rect(captionLeft, captionTop, captionLeft+captionWidth, captionBottom)

	drawRoundedPanel(img, captionRect.Add(image.Pt(0, l.shadowOffsetY)), l.radius, hudShadowColor)
	drawRoundedPanel(img, captionRect, l.radius, hudCaptionColor)
	caption = truncateWithEllipsis(captionFace, caption, captionRect.Dx()-l.paddingX*2)
	drawCenteredString(captionDrawer, captionRect, caption, hudCaptionTextColor)
}

func truncateWithEllipsis(face font.Face, text string, maxWidth int) string {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" || maxWidth <= 0 || face == nil {
		return trimmed
	}

	drawer := font.Drawer{Face: face}
	if drawer.MeasureString(trimmed).Round() <= maxWidth {
		return trimmed
	}

	ellipsis := "..."
	if drawer.MeasureString(ellipsis).Round() > maxWidth {
		return ""
	}

	runes := []rune(trimmed)
	for len(runes) > 0 {
		runes = runes[:len(runes)-1]
		candidate := string(runes) + ellipsis
		if drawer.MeasureString(candidate).Round() <= maxWidth {
			return candidate
		}
	}

	return ellipsis
}

func drawRoundedPanel(img *image.RGBA, rect image.Rectangle, radius int, clr color.Color) {
	if img == nil || rect.Empty() {
		return
	}
	if radius < 0 {
		radius = 0
	}
	maxRadius := rect.Dx() / 2
	if r := rect.Dy() / 2; r < maxRadius {
		maxRadius = r
	}
	if radius > maxRadius {
		radius = maxRadius
	}
	fill := image.NewUniform(clr)
	if radius == 0 {
		imagedraw.Draw(img, rect, fill, image.Point{}, imagedraw.Over)
		return
	}

	core := image.Rect(rect.Min.X+radius, rect.Min.Y, rect.Max.X-radius, rect.Max.Y)
	if core.Dx() > 0 {
		imagedraw.Draw(img, core, fill, image.Point{}, imagedraw.Over)
	}

	leftRect := image.Rect(rect.Min.X, rect.Min.Y+radius, rect.Min.X+radius, rect.Max.Y-radius)
	if leftRect.Dx() > 0 {
		imagedraw.Draw(img, leftRect, fill, image.Point{}, imagedraw.Over)
	}

	rightRect := image.Rect(rect.Max.X-radius, rect.Min.Y+radius, rect.Max.X, rect.Max.Y-radius)
	if rightRect.Dx() > 0 {
		imagedraw.Draw(img, rightRect, fill, image.Point{}, imagedraw.Over)
	}

	// quarter discs only, so overlapping fills do not double-blend
	drawQuarter(img, image.Pt(rect.Min.X+radius, rect.Min.Y+radius), radius, -1, -1, clr)
	drawQuarter(img, image.Pt(rect.Max.X-radius-1, rect.Min.Y+radius), radius, 1, -1, clr)
	drawQuarter(img, image.Pt(rect.Min.X+radius, rect.Max.Y-radius-1), radius, -1, 1, clr)
	drawQuarter(img, image.Pt(rect.Max.X-radius-1, rect.Max.Y-radius-1), radius, 1, 1, clr)
}

func drawCenteredString(drawer *font.Drawer, rect image.Rectangle, text string, clr color.Color) {
	if drawer == nil {
		return
	}
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	metrics := drawer.Face.Metrics()
	width := drawer.MeasureString(text).Round()
	x := rect.Min.X + (rect.Dx()-width)/2
	if x < rect.Min.X {
		x = rect.Min.X
	}
	baseline := rect.Min.Y + (rect.Dy()+metrics.Ascent.Ceil()-metrics.Descent.Ceil())/2
	drawer.Src = image.NewUniform(clr)
	drawer.Dot = fixed.P(x, baseline)
	drawer.DrawString(text)
}

func drawCoordinates(dst imagedraw.Image, squareSize int, origin image.Point, margin int, flipped bool) error {
	face, err := fontassets.CaptionFace()
	if err != nil {
		return err
	}

	drawer := &font.Drawer{
		Dst:  dst,
		Face: face,
		Src:  image.NewUniform(coordinateTextColor),
	}

	ranks := surface.Ranks(flipped)
	files := surface.Files(flipped)
	ascent := face.Metrics().Ascent.Ceil()
	boardEndY := origin.Y + len(ranks)*squareSize

	for row, rank := range ranks {
		rankCenter := origin.Y + row*squareSize + squareSize/2
		drawCenteredText(drawer, rank.String(), origin.X-margin/2, rankCenter+ascent/2)
	}
	for col, file := range files {
		fileCenter := origin.X + col*squareSize + squareSize/2
		drawCenteredText(drawer, file.String(), fileCenter, boardEndY+ascent)
	}

	return nil
}

// drawQuarter fills the quadrant of a disc selected by the signs of dx and dy,
// excluding the centre row and column.
func drawQuarter(img *image.RGBA, center image.Point, radius, dx, dy int, clr color.Color) {
	rSquared := radius * radius
	for y := 1; y <= radius; y++ {
		for x := 1; x <= radius; x++ {
			if x*x+y*y > rSquared {
				continue
			}
			blendPixel(img, center.X+x*dx, center.Y+y*dy, clr)
		}
	}
}

func blendPixel(img *image.RGBA, x, y int, clr color.Color) {
	if img == nil {
		return
	}
	if !(image.Point{X: x, Y: y}).In(img.Bounds()) {
		return
	}

	sr, sg, sb, sa := clr.RGBA()
	srcA := float64(sa) / 65535.0
	if srcA <= 0 {
		return
	}
	// RGBA() is alpha-premultiplied
	srcR := float64(sr) / 65535.0
	srcG := float64(sg) / 65535.0
	srcB := float64(sb) / 65535.0

	dst := img.RGBAAt(x, y)
	inv := 1 - srcA
	img.SetRGBA(x, y, color.RGBA{
		R: floatToUint8((srcR + float64(dst.R)/255.0*inv) * 255.0),
		G: floatToUint8((srcG + float64(dst.G)/255.0*inv) * 255.0),
		B: floatToUint8((srcB + float64(dst.B)/255.0*inv) * 255.0),
		A: floatToUint8((srcA + float64(dst.A)/255.0*inv) * 255.0),
	})
}

func floatToUint8(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v + 0.5)
}

func drawCenteredText(drawer *font.Drawer, text string, centerX, baseline int) {
	if text == "" {
		return
	}
	width := drawer.MeasureString(text).Round()
	drawer.Dot = fixed.P(centerX-width/2, baseline)
	drawer.DrawString(text)
}

func squareColor(sq nchess.Square) color.Color {
	if (int(sq.File())+int(sq.Rank()))%2 == 0 {
		return darkSquare
	}
	return lightSquare
}
