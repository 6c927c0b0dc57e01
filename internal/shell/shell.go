package shell

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/park285/chess960-viewer/internal/chess960"
	"github.com/park285/chess960-viewer/internal/surface"
	"go.uber.org/zap"
)

// ErrClosed is returned by handlers called after Close.
var ErrClosed = errors.New("shell closed")

// Selection is the shell-owned view state: the displayed position and the raw text field.
type Selection struct {
	ID       int
	Position chess960.Position
	Pending  string
}

// Shell keeps the displayed position and the mounted surface in step.
// Every handler holds the shell lock for its whole duration.
type Shell struct {
	mu        sync.Mutex
	gen       *chess960.Generator
	mounter   surface.Mounter
	rng       *rand.Rand
	animation time.Duration
	logger    *zap.Logger

	state   Selection
	shown   bool
	current surface.Surface
	closed  bool
}

// Option configures a Shell at construction.
type Option func(*Shell)

// WithSeed makes random selection reproducible; 0 keeps the runtime-seeded source.
func WithSeed(seed uint64) Option {
	return func(s *Shell) {
		if seed != 0 {
			s.rng = rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
		}
	}
}

// WithRand supplies the random source directly.
func WithRand(r *rand.Rand) Option {
	return func(s *Shell) { s.rng = r }
}

// WithAnimation sets the transition duration passed to every mount.
func WithAnimation(d time.Duration) Option {
	return func(s *Shell) { s.animation = d }
}

// WithLogger sets the logger; nil keeps the no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Shell) {
		if l != nil {
			s.logger = l
		}
	}
}

// New builds a shell over gen (nil means the default table) drawing on mounter.
// A nil mounter tracks the selection without drawing anything.
func New(gen *chess960.Generator, mounter surface.Mounter, opts ...Option) *Shell {
	if gen == nil {
		gen = chess960.NewGenerator(nil)
	}
	s := &Shell{
		gen:       gen,
		mounter:   mounter,
		animation: surface.DefaultAnimation,
		logger:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize shows a random position.
func (s *Shell) Initialize(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	id := s.pick()
	s.logger.Info("shell_initialize", zap.Int("id", id))
	return s.show(ctx, id)
}

// RequestRandom shows a new uniformly chosen position; repeats are allowed.
func (s *Shell) RequestRandom(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return ErrClosed
	}
	return s.show(ctx, s.pick())
}

// RequestLoad shows the position named by text. Text that is not an integer in
// range is ignored without touching the state; applied reports which case happened.
func (s *Shell) RequestLoad(ctx context.Context, text string) (applied bool, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, ErrClosed
	}
	return s.load(ctx, text)
}

// UpdatePendingInput stores the raw field text as typed.
func (s *Shell) UpdatePendingInput(text string) {
	s.mu.Lock()
	s.state.Pending = text
	s.mu.Unlock()
}

// Submit runs RequestLoad with the pending text as it is at call time.
func (s *Shell) Submit(ctx context.Context) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return false, ErrClosed
	}
	return s.load(ctx, s.state.Pending)
}

// Snapshot returns a copy of the selection; ok is false until a position has been shown.
func (s *Shell) Snapshot() (sel Selection, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state, s.shown
}

// Surface returns the mounted surface, or nil when none is mounted.
func (s *Shell) Surface() surface.Surface {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Close destroys the mounted surface. Later handler calls return ErrClosed.
func (s *Shell) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.release()
}

func (s *Shell) pick() int {
	if s.rng != nil {
		return s.rng.IntN(s.gen.Len())
	}
	return rand.IntN(s.gen.Len())
}

// load accepts whole base-10 integers only. "3.5" and "1e2" are ignored instead of being
// cut down to their numeric prefix; a leading sign and leading zeros are fine.
func (s *Shell) load(ctx context.Context, text string) (bool, error) {
	id, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil || id < 0 || id >= s.gen.Len() {
		s.logger.Debug("shell_load_ignored", zap.String("input", text))
		return false, nil
	}
	return true, s.show(ctx, id)
}

// show must be called with mu held.
func (s *Shell) show(ctx context.Context, id int) error {
	pos, err := s.gen.Generate(id)
	if err != nil {
		return err
	}
	s.state.ID = id
	s.state.Position = pos
	s.shown = true

	if err := s.release(); err != nil {
		s.logger.Warn("surface_destroy_failed", zap.Error(err))
	}
	if s.mounter == nil {
		return nil
	}
	surf, err := s.mounter.Mount(ctx, surface.ViewOnlyConfig(pos.FEN, s.animation))
	if err != nil {
		s.logger.Warn("surface_mount_failed", zap.Int("id", id), zap.Error(err))
		return fmt.Errorf("mount position %d: %w", id, err)
	}
	s.current = surf
	s.logger.Debug("position_shown", zap.Int("id", id), zap.String("surface_id", surf.ID()))
	return nil
}

func (s *Shell) release() error {
	if s.current == nil {
		return nil
	}
	err := s.current.Destroy()
	s.current = nil
	return err
}
