package surface

import (
	"context"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/lipgloss"
	nchess "github.com/corentings/chess/v2"
)

var (
	textLightSquare = lipgloss.Color("#E9CFA3")
	textDarkSquare  = lipgloss.Color("#BB8860")
	textChanged     = lipgloss.Color("#FFE478")
	textWhitePiece  = lipgloss.Color("#FFFFFF")
	textBlackPiece  = lipgloss.Color("#1C1F2E")
	textCoordinate  = lipgloss.Color("#08D678")
)

// TextMounter mounts surfaces that draw the board as styled terminal text.
// Squares that differ from the previously mounted board are highlighted for the
// configured animation duration.
type TextMounter struct {
	mu   sync.Mutex
	prev map[nchess.Square]nchess.Piece
	now  func() time.Time
}

func NewTextMounter() *TextMounter {
	return &TextMounter{now: time.Now}
}

// WithClock replaces the time source; used by tests.
func (m *TextMounter) WithClock(now func() time.Time) *TextMounter {
	m.now = now
	return m
}

func (m *TextMounter) Mount(ctx context.Context, cfg Config) (Surface, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h, err := NewHandle(cfg)
	if err != nil {
		return nil, err
	}
	h.mountedAt = m.now()
	current := h.Board().SquareMap()

	m.mu.Lock()
	changed := make(map[nchess.Square]bool)
	if m.prev != nil {
		for sq := nchess.A1; sq <= nchess.H8; sq++ {
			if m.prev[sq] != current[sq] {
				changed[sq] = true
			}
		}
	}
	m.prev = current
	m.mu.Unlock()

	return &TextSurface{Handle: h, changed: changed, now: m.now}, nil
}

type TextSurface struct {
	*Handle
	changed map[nchess.Square]bool
	now     func() time.Time
}

// Animating reports whether the redraw transition is still running.
func (s *TextSurface) Animating() bool {
	d := s.Config().Animation.Duration
	return d > 0 && len(s.changed) > 0 && s.now().Sub(s.MountedAt()) < d
}

// Changed returns the squares that differ from the previous mount.
func (s *TextSurface) Changed() []nchess.Square {
	out := make([]nchess.Square, 0, len(s.changed))
	for sq := nchess.A1; sq <= nchess.H8; sq++ {
		if s.changed[sq] {
			out = append(out, sq)
		}
	}
	return out
}

func (s *TextSurface) Render(ctx context.Context, w io.Writer) error {
	if err := s.Alive(); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	_, err := io.WriteString(w, s.View())
	return err
}

// View returns the board as a multi-line string.
func (s *TextSurface) View() string {
	cfg := s.Config()
	flipped := cfg.Flipped()
	animating := s.Animating()
	board := s.Board()
	coord := lipgloss.NewStyle().Foreground(textCoordinate)

	var b strings.Builder
	for _, rank := range Ranks(flipped) {
		if cfg.Coordinates {
			b.WriteString(coord.Render(rank.String()))
			b.WriteString(" ")
		}
		for _, file := range Files(flipped) {
			sq := nchess.NewSquare(file, rank)
			b.WriteString(s.cell(sq, board.Piece(sq), animating && s.changed[sq]))
		}
		b.WriteString("\n")
	}
	if cfg.Coordinates {
		b.WriteString("  ")
		for _, file := range Files(flipped) {
			b.WriteString(coord.Render(fmt.Sprintf(" %s ", file.String())))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (s *TextSurface) cell(sq nchess.Square, piece nchess.Piece, highlight bool) string {
	bg := textLightSquare
	if (int(sq.File())+int(sq.Rank()))%2 == 0 {
		bg = textDarkSquare
	}
	if highlight {
		bg = textChanged
	}
	st := lipgloss.NewStyle().Background(bg)
	if piece == nchess.NoPiece {
		return st.Render("   ")
	}
	fg := textBlackPiece
	if piece.Color() == nchess.White {
		fg = textWhitePiece
	}
	return st.Foreground(fg).Bold(true).Render(" " + string(PieceGlyph(piece)) + " ")
}

// PieceGlyph returns the solid unicode chess glyph; colour comes from styling.
func PieceGlyph(piece nchess.Piece) rune {
	switch piece.Type() {
	case nchess.King:
		return '♚'
	case nchess.Queen:
		return '♛'
	case nchess.Rook:
		return '♜'
	case nchess.Bishop:
		return '♝'
	case nchess.Knight:
		return '♞'
	case nchess.Pawn:
		return '♟'
	}
	return ' '
}
