package positionpresenter

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/park285/chess960-viewer/internal/chess960"
	"github.com/park285/chess960-viewer/internal/msgcat"
	"github.com/park285/chess960-viewer/internal/shell"
	"github.com/park285/chess960-viewer/pkg/positiondto"
)

const (
	codeInvalidQuery = "invalid_query"
	codeOutOfRange   = "out_of_range"
	standardBackRank = "RNBQKBNR"
)

// Presenter turns generator output into DTOs and catalog text.
type Presenter struct {
	gen     *chess960.Generator
	catalog *msgcat.Catalog
}

func New(gen *chess960.Generator, catalog *msgcat.Catalog) *Presenter {
	if gen == nil {
		gen = chess960.NewGenerator(nil)
	}
	return &Presenter{gen: gen, catalog: catalog}
}

func ToDTO(pos chess960.Position) *positiondto.Position {
	return &positiondto.Position{
		ID:       pos.ID,
		BackRank: pos.BackRank,
		FEN:      pos.FEN,
		Ranks:    chess960.Ranks(pos.FEN),
		Standard: pos.BackRank == standardBackRank,
	}
}

func SelectionDTO(sel shell.Selection, shown bool) positiondto.Selection {
	out := positiondto.Selection{Pending: sel.Pending}
	if shown {
		out.Position = ToDTO(sel.Position)
	}
	return out
}

// Resolve accepts either a numeric id or an eight-letter back rank.
func (p *Presenter) Resolve(query string) (*positiondto.Position, error) {
	q := strings.TrimSpace(query)
	if q == "" {
		return nil, positiondto.DomainError{Code: codeInvalidQuery, Message: "empty position query"}
	}
	id, err := strconv.Atoi(q)
	if err != nil {
		q = strings.ToUpper(q)
		if !chess960.ValidArrangement(q) {
			return nil, positiondto.DomainError{Code: codeInvalidQuery, Message: fmt.Sprintf("%q is neither an id nor a Chess960 back rank", q)}
		}
		id = chess960.IndexOf(p.gen.Table(), q)
		if id < 0 {
			return nil, positiondto.DomainError{Code: codeInvalidQuery, Message: fmt.Sprintf("back rank %s is not in the table", q)}
		}
	}
	pos, err := p.gen.Generate(id)
	if errors.Is(err, chess960.ErrIndexOutOfRange) {
		return nil, positiondto.DomainError{Code: codeOutOfRange, Message: fmt.Sprintf("id %d is outside 0-%d", id, p.gen.Len()-1)}
	}
	if err != nil {
		return nil, err
	}
	return ToDTO(pos), nil
}

// WriteJSON writes v indented with a trailing newline.
func WriteJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Summary renders the catalog lines shown next to the board.
func (p *Presenter) Summary(pos *positiondto.Position) string {
	if pos == nil {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(p.catalog.Text("panel.current_id", map[string]any{"ID": pos.ID}))
	sb.WriteString("\n")
	sb.WriteString(p.catalog.Text("panel.back_rank", map[string]any{"BackRank": pos.BackRank}))
	sb.WriteString("\n")
	sb.WriteString(p.catalog.Text("panel.fen", map[string]any{"FEN": pos.FEN}))
	return sb.String()
}
