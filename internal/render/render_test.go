package render

import (
	"bytes"
	"context"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	nchess "github.com/corentings/chess/v2"
	"github.com/park285/chess960-viewer/internal/chess960"
	"github.com/park285/chess960-viewer/internal/surface"
	"github.com/srwiley/oksvg"
)

func mustFEN(t *testing.T, id int) string {
	t.Helper()
	fen, err := chess960.FEN(id)
	if err != nil {
		t.Fatalf("FEN(%d): %v", id, err)
	}
	return fen
}

func TestGlyphsParse(t *testing.T) {
	types := []nchess.PieceType{nchess.King, nchess.Queen, nchess.Rook, nchess.Bishop, nchess.Knight, nchess.Pawn}
	for _, c := range []nchess.Color{nchess.White, nchess.Black} {
		for _, pt := range types {
			p := nchess.NewPiece(pt, c)
			data := glyphSVG(p)
			if !bytes.Contains(data, []byte("viewBox")) {
				t.Fatalf("%s: missing viewBox", pieceAssetName(p))
			}
			if _, err := oksvg.ReadIconStream(bytes.NewReader(data)); err != nil {
				t.Fatalf("%s: %v", pieceAssetName(p), err)
			}
			img, err := renderPieceImage(PieceSet{}, p, 48)
			if err != nil {
				t.Fatalf("%s: render: %v", pieceAssetName(p), err)
			}
			if img.Bounds().Dx() != 48 {
				t.Fatalf("%s: size=%d", pieceAssetName(p), img.Bounds().Dx())
			}
		}
	}
}

func TestRenderPNG(t *testing.T) {
	ctx := context.Background()
	board, err := surface.DecodeBoard(mustFEN(t, 518))
	if err != nil {
		t.Fatal(err)
	}
	r := NewPNGBoardRenderer(32, PieceSet{})
	white, err := r.RenderPNG(ctx, board, RenderOptions{Coordinates: true, HUDHeader: "Chess960 #518"})
	if err != nil {
		t.Fatalf("RenderPNG: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(white))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := img.Bounds().Dx(); got != 32*8+32 {
		t.Fatalf("width=%d", got)
	}
	black, err := r.RenderPNG(ctx, board, RenderOptions{Coordinates: true, Flipped: true, HUDHeader: "Chess960 #518"})
	if err != nil {
		t.Fatalf("RenderPNG flipped: %v", err)
	}
	if bytes.Equal(white, black) {
		t.Fatalf("expected different images for flipped orientation")
	}
	if _, err := r.RenderPNG(ctx, nil, RenderOptions{}); err == nil {
		t.Fatalf("expected error for nil board")
	}
	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	if _, err := r.RenderPNG(cancelled, board, RenderOptions{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestPNGSurface(t *testing.T) {
	ctx := context.Background()
	m := NewPNGMounter(NewPNGBoardRenderer(24, PieceSet{}))
	s, err := m.Mount(ctx, surface.ViewOnlyConfig(mustFEN(t, 0), surface.DefaultAnimation))
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	var buf bytes.Buffer
	if err := s.Render(ctx, &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if _, err := png.Decode(&buf); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if err := s.Destroy(); err != nil {
		t.Fatalf("Destroy: %v", err)
	}
	if err := s.Render(ctx, &buf); !errors.Is(err, surface.ErrDestroyed) {
		t.Fatalf("expected ErrDestroyed, got %v", err)
	}
}

func TestSVGSurface(t *testing.T) {
	ctx := context.Background()
	s, err := NewSVGMounter().Mount(ctx, surface.ViewOnlyConfig(mustFEN(t, 518), 0))
	if err != nil {
		t.Fatalf("Mount: %v", err)
	}
	var buf bytes.Buffer
	if err := s.Render(ctx, &buf); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "<svg") || !strings.Contains(out, "Chess960 #518") {
		t.Fatalf("unexpected svg output: %.200s", out)
	}
	// 32 pieces, each wrapped in its own translated group
	if got := strings.Count(out, "translate("); got != 32 {
		t.Fatalf("piece groups=%d want=32", got)
	}
	if _, err := oksvg.ReadIconStream(strings.NewReader(out)); err != nil {
		t.Fatalf("board svg does not parse: %v", err)
	}
}

func TestDefaultCaption(t *testing.T) {
	header, caption := DefaultCaption(surface.ViewOnlyConfig(mustFEN(t, 518), 0))
	if header != "Chess960 #518" || caption != "RNBQKBNR" {
		t.Fatalf("header=%q caption=%q", header, caption)
	}
	header, _ = DefaultCaption(surface.Config{FEN: "8/8/8/8/8/8/8/8 w - - 0 1"})
	if header != "Chess960" {
		t.Fatalf("header=%q", header)
	}
}

func TestPieceSetDirOverride(t *testing.T) {
	dir := t.TempDir()
	custom := `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 10 10"><rect x="0" y="0" width="10" height="10" style="fill: #ff0000"/></svg>`
	if err := os.WriteFile(filepath.Join(dir, "wK.svg"), []byte(custom), 0o644); err != nil {
		t.Fatal(err)
	}
	set := PieceSet{Dir: dir}
	king := nchess.NewPiece(nchess.King, nchess.White)
	data, err := set.source(king)
	if err != nil {
		t.Fatalf("source: %v", err)
	}
	if !bytes.Contains(data, []byte("fill:#ff0000")) {
		t.Fatalf("expected sanitized override, got %s", data)
	}
	img, err := renderPieceImage(set, king, 10)
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	r, _, _, a := img.At(5, 5).RGBA()
	if a == 0 || r == 0 {
		t.Fatalf("override not drawn: r=%d a=%d", r, a)
	}
	// missing files fall back to the built-in glyphs
	queen := nchess.NewPiece(nchess.Queen, nchess.Black)
	data, err = set.source(queen)
	if err != nil || !bytes.Equal(data, glyphSVG(queen)) {
		t.Fatalf("expected built-in fallback, err=%v", err)
	}
}

func TestSanitizeSVG(t *testing.T) {
	in := []byte(`style="fill: #fff; stroke: 000000"`)
	got := string(sanitizeSVG(in))
	if got != `style="fill:#fff; stroke:#000000"` {
		t.Fatalf("got=%q", got)
	}
}
