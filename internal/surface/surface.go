// Package surface defines the rendering-surface contract: a surface is mounted with a
// board-state config, draws it on demand and must be destroyed before the next mount.
package surface

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"
	"time"

	nchess "github.com/corentings/chess/v2"
	"github.com/google/uuid"
)

var (
	ErrDestroyed = errors.New("surface destroyed")
	ErrEmptyFEN  = errors.New("surface config has no fen")
)

type Orientation string

const (
	OrientationWhite Orientation = "white"
	OrientationBlack Orientation = "black"
)

// DefaultAnimation is the transition time applied to redraws.
const DefaultAnimation = 300 * time.Millisecond

type AnimationConfig struct {
	Duration time.Duration
}

type MovableConfig struct {
	ShowDests bool
}

type DrawableConfig struct {
	Visible bool
}

type PremovableConfig struct {
	Enabled bool
}

// Config is the option bag a surface is mounted with.
type Config struct {
	ViewOnly    bool
	FEN         string
	Coordinates bool
	Orientation Orientation
	Animation   AnimationConfig
	Movable     MovableConfig
	Drawable    DrawableConfig
	Premovable  PremovableConfig
}

// ViewOnlyConfig is the fixed display config: no input of any kind, white at the bottom,
// coordinates shown.
func ViewOnlyConfig(fen string, animation time.Duration) Config {
	if animation < 0 {
		animation = 0
	}
	return Config{
		ViewOnly:    true,
		FEN:         fen,
		Coordinates: true,
		Orientation: OrientationWhite,
		Animation:   AnimationConfig{Duration: animation},
		Movable:     MovableConfig{ShowDests: false},
		Drawable:    DrawableConfig{Visible: false},
		Premovable:  PremovableConfig{Enabled: false},
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.FEN) == "" {
		return ErrEmptyFEN
	}
	switch c.Orientation {
	case OrientationWhite, OrientationBlack, "":
	default:
		return fmt.Errorf("unknown orientation %q", c.Orientation)
	}
	return nil
}

// Flipped reports whether black faces the viewer.
func (c Config) Flipped() bool { return c.Orientation == OrientationBlack }

// Surface is one mounted board. Render after Destroy returns ErrDestroyed.
type Surface interface {
	ID() string
	Config() Config
	Render(ctx context.Context, w io.Writer) error
	Destroy() error
}

type Mounter interface {
	Mount(ctx context.Context, cfg Config) (Surface, error)
}

// MounterFunc adapts a function to Mounter.
type MounterFunc func(ctx context.Context, cfg Config) (Surface, error)

func (f MounterFunc) Mount(ctx context.Context, cfg Config) (Surface, error) { return f(ctx, cfg) }

// Handle carries the lifecycle bookkeeping shared by surface implementations.
type Handle struct {
	id        string
	cfg       Config
	board     *nchess.Board
	mountedAt time.Time

	mu        sync.Mutex
	destroyed bool
	onDestroy func()
}

// NewHandle validates cfg and decodes its FEN into a board.
func NewHandle(cfg Config) (*Handle, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	board, err := DecodeBoard(cfg.FEN)
	if err != nil {
		return nil, err
	}
	if cfg.Orientation == "" {
		cfg.Orientation = OrientationWhite
	}
	return &Handle{
		id:        uuid.NewString(),
		cfg:       cfg,
		board:     board,
		mountedAt: time.Now(),
	}, nil
}

func (h *Handle) ID() string { return h.id }

func (h *Handle) Config() Config { return h.cfg }

func (h *Handle) Board() *nchess.Board { return h.board }

func (h *Handle) MountedAt() time.Time { return h.mountedAt }

// OnDestroy registers fn to run once on the first Destroy.
func (h *Handle) OnDestroy(fn func()) {
	h.mu.Lock()
	h.onDestroy = fn
	h.mu.Unlock()
}

// Alive returns ErrDestroyed once the handle is released.
func (h *Handle) Alive() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.destroyed {
		return ErrDestroyed
	}
	return nil
}

func (h *Handle) Destroy() error {
	h.mu.Lock()
	if h.destroyed {
		h.mu.Unlock()
		return nil
	}
	h.destroyed = true
	fn := h.onDestroy
	h.mu.Unlock()
	if fn != nil {
		fn()
	}
	return nil
}

// DecodeBoard parses a FEN into a board model.
func DecodeBoard(fen string) (*nchess.Board, error) {
	opt, err := nchess.FEN(strings.TrimSpace(fen))
	if err != nil {
		return nil, fmt.Errorf("decode fen: %w", err)
	}
	game := nchess.NewGame(opt)
	return game.Position().Board(), nil
}

// Ranks returns board ranks in display order, top row first.
func Ranks(flipped bool) []nchess.Rank {
	ranks := []nchess.Rank{nchess.Rank8, nchess.Rank7, nchess.Rank6, nchess.Rank5, nchess.Rank4, nchess.Rank3, nchess.Rank2, nchess.Rank1}
	if flipped {
		reverse(ranks)
	}
	return ranks
}

// Files returns board files in display order, left column first.
func Files(flipped bool) []nchess.File {
	files := []nchess.File{nchess.FileA, nchess.FileB, nchess.FileC, nchess.FileD, nchess.FileE, nchess.FileF, nchess.FileG, nchess.FileH}
	if flipped {
		reverse(files)
	}
	return files
}

func reverse[T any](s []T) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
