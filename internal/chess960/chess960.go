// Package chess960 maps a Chess960 position index to its starting FEN.
package chess960

import (
	"errors"
	"fmt"
	"strings"
)

// ErrIndexOutOfRange is returned for ids outside [0, Len()).
var ErrIndexOutOfRange = errors.New("chess960 index out of range")

// fenSuffix fixes white to move, all castling flags, no en passant and fresh clocks.
const fenSuffix = " w KQkq - 0 1"

// Position is the board-state descriptor for one index.
type Position struct {
	ID       int
	BackRank string
	FEN      string
}

// Generator turns ids into positions using one arrangement table.
type Generator struct {
	table Table
}

// NewGenerator builds a generator over table; nil means DefaultTable.
func NewGenerator(table Table) *Generator {
	if table == nil {
		table = DefaultTable()
	}
	return &Generator{table: table}
}

// Len is the number of indices the generator accepts.
func (g *Generator) Len() int { return g.table.Len() }

// Table returns the arrangement table behind g.
func (g *Generator) Table() Table { return g.table }

// Generate returns the position for id, or ErrIndexOutOfRange.
func (g *Generator) Generate(id int) (Position, error) {
	if id < 0 || id >= g.table.Len() {
		return Position{}, fmt.Errorf("%w: %d", ErrIndexOutOfRange, id)
	}
	white := g.table.At(id)
	return Position{ID: id, BackRank: white, FEN: buildFEN(white)}, nil
}

func buildFEN(white string) string {
	black := strings.ToLower(white)
	var sb strings.Builder
	sb.Grow(len(white)*2 + 40)
	sb.WriteString(black)
	sb.WriteString("/pppppppp/8/8/8/8/PPPPPPPP/")
	sb.WriteString(white)
	sb.WriteString(fenSuffix)
	return sb.String()
}

var defaultGenerator = NewGenerator(nil)

// FEN returns the starting FEN for id using the default table.
func FEN(id int) (string, error) {
	p, err := defaultGenerator.Generate(id)
	if err != nil {
		return "", err
	}
	return p.FEN, nil
}

// Ranks splits a FEN placement field into its eight ranks, rank 8 first.
func Ranks(fen string) []string {
	placement := fen
	if i := strings.IndexByte(fen, ' '); i >= 0 {
		placement = fen[:i]
	}
	return strings.Split(placement, "/")
}
