package shell

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand/v2"
	"strings"
	"testing"

	"github.com/park285/chess960-viewer/internal/chess960"
	"github.com/park285/chess960-viewer/internal/surface"
)

type fakeSurface struct {
	id        string
	cfg       surface.Config
	events    *[]string
	destroyed bool
}

func (f *fakeSurface) ID() string             { return f.id }
func (f *fakeSurface) Config() surface.Config { return f.cfg }
func (f *fakeSurface) Render(_ context.Context, w io.Writer) error {
	_, err := io.WriteString(w, f.cfg.FEN)
	return err
}
func (f *fakeSurface) Destroy() error {
	if f.destroyed {
		return errors.New("double destroy")
	}
	f.destroyed = true
	*f.events = append(*f.events, "destroy "+f.id)
	return nil
}

type fakeMounter struct {
	events []string
	mounts []*fakeSurface
	fail   error
}

func (m *fakeMounter) Mount(_ context.Context, cfg surface.Config) (surface.Surface, error) {
	if m.fail != nil {
		return nil, m.fail
	}
	for _, s := range m.mounts {
		if !s.destroyed {
			return nil, fmt.Errorf("surface %s still alive", s.id)
		}
	}
	s := &fakeSurface{id: fmt.Sprintf("s%d", len(m.mounts)), cfg: cfg, events: &m.events}
	m.mounts = append(m.mounts, s)
	m.events = append(m.events, "mount "+s.id)
	return s, nil
}

func newTestShell(t *testing.T) (*Shell, *fakeMounter) {
	t.Helper()
	m := &fakeMounter{}
	return New(chess960.NewGenerator(nil), m, WithSeed(42)), m
}

func assertConsistent(t *testing.T, sh *Shell) {
	t.Helper()
	sel, ok := sh.Snapshot()
	if !ok {
		t.Fatalf("no position shown")
	}
	fen, err := chess960.FEN(sel.ID)
	if err != nil {
		t.Fatalf("FEN(%d): %v", sel.ID, err)
	}
	if sel.Position.ID != sel.ID || sel.Position.FEN != fen {
		t.Fatalf("state mismatch: id=%d position=%+v", sel.ID, sel.Position)
	}
	if cur := sh.Surface(); cur != nil && cur.Config().FEN != fen {
		t.Fatalf("surface shows %q want %q", cur.Config().FEN, fen)
	}
}

func TestInitializeMountsViewOnly(t *testing.T) {
	sh, m := newTestShell(t)
	if _, ok := sh.Snapshot(); ok {
		t.Fatalf("snapshot should be empty before Initialize")
	}
	if err := sh.Initialize(context.Background()); err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	sel, _ := sh.Snapshot()
	if sel.ID < 0 || sel.ID >= chess960.Count {
		t.Fatalf("id out of range: %d", sel.ID)
	}
	assertConsistent(t, sh)
	if len(m.mounts) != 1 {
		t.Fatalf("mounts=%d", len(m.mounts))
	}
	cfg := m.mounts[0].cfg
	if !cfg.ViewOnly || !cfg.Coordinates || cfg.Orientation != surface.OrientationWhite {
		t.Fatalf("unexpected config: %+v", cfg)
	}
	if cfg.Movable.ShowDests || cfg.Drawable.Visible || cfg.Premovable.Enabled {
		t.Fatalf("interaction should be disabled: %+v", cfg)
	}
	if cfg.Animation.Duration != surface.DefaultAnimation {
		t.Fatalf("animation=%v", cfg.Animation.Duration)
	}
}

func TestRequestLoad(t *testing.T) {
	ctx := context.Background()
	sh, _ := newTestShell(t)
	applied, err := sh.RequestLoad(ctx, "5")
	if err != nil || !applied {
		t.Fatalf("RequestLoad(5): applied=%v err=%v", applied, err)
	}
	sel, _ := sh.Snapshot()
	if sel.ID != 5 {
		t.Fatalf("id=%d want=5", sel.ID)
	}
	assertConsistent(t, sh)

	if applied, _ := sh.RequestLoad(ctx, " 518 "); !applied {
		t.Fatalf("surrounding whitespace should be accepted")
	}
	sel, _ = sh.Snapshot()
	if sel.Position.BackRank != "RNBQKBNR" {
		t.Fatalf("back rank=%q", sel.Position.BackRank)
	}
}

func TestRequestLoadIgnoresInvalid(t *testing.T) {
	ctx := context.Background()
	sh, m := newTestShell(t)
	if _, err := sh.RequestLoad(ctx, "5"); err != nil {
		t.Fatal(err)
	}
	before, _ := sh.Snapshot()
	mounts := len(m.mounts)
	for _, in := range []string{"960", "-1", "abc", "", "12abc", "3.5", "0x10"} {
		applied, err := sh.RequestLoad(ctx, in)
		if applied || err != nil {
			t.Fatalf("RequestLoad(%q): applied=%v err=%v", in, applied, err)
		}
		after, _ := sh.Snapshot()
		if after != before {
			t.Fatalf("RequestLoad(%q) changed state: %+v", in, after)
		}
	}
	if len(m.mounts) != mounts {
		t.Fatalf("ignored input must not remount")
	}
}

func TestRequestLoadWholeIntegersOnly(t *testing.T) {
	ctx := context.Background()
	sh, _ := newTestShell(t)
	if _, err := sh.RequestLoad(ctx, "955"); err != nil {
		t.Fatal(err)
	}
	// numeric-field values with a fraction or exponent are not truncated to their prefix
	for _, in := range []string{"3.5", "1e2", " 12abc"} {
		before, _ := sh.Snapshot()
		applied, _ := sh.RequestLoad(ctx, in)
		after, _ := sh.Snapshot()
		if applied || after != before {
			t.Fatalf("RequestLoad(%q) should be ignored, got id=%d", in, after.ID)
		}
	}
	cases := map[string]int{"+5": 5, "007": 7, "0": 0, "959": 959}
	for in, want := range cases {
		applied, err := sh.RequestLoad(ctx, in)
		sel, _ := sh.Snapshot()
		if !applied || err != nil || sel.ID != want {
			t.Fatalf("RequestLoad(%q): applied=%v err=%v id=%d want=%d", in, applied, err, sel.ID, want)
		}
	}
}

func TestRequestLoadBeforeInitialize(t *testing.T) {
	sh, _ := newTestShell(t)
	if applied, _ := sh.RequestLoad(context.Background(), "abc"); applied {
		t.Fatalf("expected ignore")
	}
	if _, ok := sh.Snapshot(); ok {
		t.Fatalf("ignored input must not create a selection")
	}
}

func TestSubmitUsesPendingText(t *testing.T) {
	ctx := context.Background()
	sh, _ := newTestShell(t)
	if err := sh.Initialize(ctx); err != nil {
		t.Fatal(err)
	}
	sh.UpdatePendingInput("4")
	sh.UpdatePendingInput("42")
	sel, _ := sh.Snapshot()
	if sel.Pending != "42" {
		t.Fatalf("pending=%q", sel.Pending)
	}
	if applied, err := sh.Submit(ctx); !applied || err != nil {
		t.Fatalf("Submit: applied=%v err=%v", applied, err)
	}
	sel, _ = sh.Snapshot()
	if sel.ID != 42 || sel.Pending != "42" {
		t.Fatalf("after submit: %+v", sel)
	}
	assertConsistent(t, sh)
}

func TestRequestRandomUniform(t *testing.T) {
	ctx := context.Background()
	sh := New(chess960.NewGenerator(nil), nil, WithRand(rand.New(rand.NewPCG(1, 2))))
	const draws = 96000
	counts := make([]int, chess960.Count)
	for i := 0; i < draws; i++ {
		if err := sh.RequestRandom(ctx); err != nil {
			t.Fatalf("RequestRandom: %v", err)
		}
		sel, _ := sh.Snapshot()
		if sel.ID < 0 || sel.ID >= chess960.Count {
			t.Fatalf("id out of range: %d", sel.ID)
		}
		counts[sel.ID]++
	}
	// expected 100 per id; chi-square with 959 degrees of freedom stays well under 1150
	var chi float64
	for _, c := range counts {
		d := float64(c) - 100
		chi += d * d / 100
	}
	if chi > 1150 {
		t.Fatalf("distribution looks skewed: chi2=%.1f", chi)
	}
	for id, c := range counts {
		if c == 0 {
			t.Fatalf("id %d never drawn", id)
		}
	}
}

func TestSeedIsReproducible(t *testing.T) {
	ctx := context.Background()
	a := New(nil, nil, WithSeed(7))
	b := New(nil, nil, WithSeed(7))
	for i := 0; i < 20; i++ {
		if err := a.RequestRandom(ctx); err != nil {
			t.Fatal(err)
		}
		if err := b.RequestRandom(ctx); err != nil {
			t.Fatal(err)
		}
		sa, _ := a.Snapshot()
		sb, _ := b.Snapshot()
		if sa.ID != sb.ID {
			t.Fatalf("draw %d: %d != %d", i, sa.ID, sb.ID)
		}
	}
}

func TestDestroyBeforeRemountAndOnClose(t *testing.T) {
	ctx := context.Background()
	sh, m := newTestShell(t)
	if err := sh.Initialize(ctx); err != nil {
		t.Fatal(err)
	}
	if _, err := sh.RequestLoad(ctx, "0"); err != nil {
		t.Fatal(err)
	}
	if err := sh.RequestRandom(ctx); err != nil {
		t.Fatal(err)
	}
	if err := sh.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	want := "mount s0,destroy s0,mount s1,destroy s1,mount s2,destroy s2"
	if got := strings.Join(m.events, ","); got != want {
		t.Fatalf("events=%s\nwant=%s", got, want)
	}
	if sh.Surface() != nil {
		t.Fatalf("surface should be released")
	}
	if err := sh.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}
	if err := sh.RequestRandom(ctx); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
	if _, err := sh.Submit(ctx); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestMountFailureKeepsStateConsistent(t *testing.T) {
	ctx := context.Background()
	sh, m := newTestShell(t)
	if _, err := sh.RequestLoad(ctx, "10"); err != nil {
		t.Fatal(err)
	}
	m.fail = errors.New("no terminal")
	applied, err := sh.RequestLoad(ctx, "20")
	if !applied || err == nil || !errors.Is(err, m.fail) {
		t.Fatalf("expected wrapped mount error, applied=%v err=%v", applied, err)
	}
	sel, _ := sh.Snapshot()
	if sel.ID != 20 {
		t.Fatalf("id=%d want=20", sel.ID)
	}
	assertConsistent(t, sh)
	if sh.Surface() != nil {
		t.Fatalf("failed mount must leave no surface")
	}
	if !m.mounts[0].destroyed {
		t.Fatalf("previous surface should have been released")
	}
}

func TestWithTextMounter(t *testing.T) {
	ctx := context.Background()
	sh := New(nil, surface.NewTextMounter(), WithSeed(3), WithAnimation(0))
	if _, err := sh.RequestLoad(ctx, "518"); err != nil {
		t.Fatal(err)
	}
	var b strings.Builder
	if err := sh.Surface().Render(ctx, &b); err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(b.String(), "♚") {
		t.Fatalf("board missing king: %q", b.String())
	}
	if err := sh.Close(); err != nil {
		t.Fatal(err)
	}
}
