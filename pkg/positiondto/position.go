package positiondto

// Position is the exported view of one Chess960 starting position.
type Position struct {
	ID       int      `json:"id"`
	BackRank string   `json:"back_rank"`
	FEN      string   `json:"fen"`
	Ranks    []string `json:"ranks"`
	Standard bool     `json:"standard,omitempty"`
}

// Selection mirrors the interactive shell state.
type Selection struct {
	Position *Position `json:"position,omitempty"`
	Pending  string    `json:"pending"`
}
