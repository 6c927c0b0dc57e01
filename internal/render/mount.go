package render

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"github.com/park285/chess960-viewer/internal/chess960"
	"github.com/park285/chess960-viewer/internal/surface"
	"go.uber.org/zap"
)

// Captioner derives the HUD header and caption for a mounted config.
type Captioner func(cfg surface.Config) (header, caption string)

// DefaultCaption names the position by its index in the default table.
func DefaultCaption(cfg surface.Config) (string, string) {
	ranks := chess960.Ranks(cfg.FEN)
	if len(ranks) != 8 {
		return "Chess960", ""
	}
	white := ranks[7]
	if id := chess960.IndexOf(chess960.DefaultTable(), white); id >= 0 {
		return fmt.Sprintf("Chess960 #%d", id), white
	}
	return "Chess960", white
}

type mounterOptions struct {
	caption Captioner
	logger  *zap.Logger
}

type MountOption func(*mounterOptions)

func WithCaptioner(c Captioner) MountOption {
	return func(o *mounterOptions) {
		if c != nil {
			o.caption = c
		}
	}
}

func WithLogger(l *zap.Logger) MountOption {
	return func(o *mounterOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

func buildOptions(opts []MountOption) mounterOptions {
	o := mounterOptions{caption: DefaultCaption, logger: zap.NewNop()}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

func renderOptionsFor(cfg surface.Config, caption Captioner) RenderOptions {
	header, sub := caption(cfg)
	return RenderOptions{
		Flipped:     cfg.Flipped(),
		Coordinates: cfg.Coordinates,
		HUDHeader:   header,
		HUDCaption:  sub,
	}
}

// PNGMounter mounts surfaces that paint the board into a PNG image.
type PNGMounter struct {
	renderer BoardRenderer
	opts     mounterOptions
}

func NewPNGMounter(renderer BoardRenderer, opts ...MountOption) *PNGMounter {
	if renderer == nil {
		renderer = NewPNGBoardRenderer(DefaultSquareSize, PieceSet{})
	}
	return &PNGMounter{renderer: renderer, opts: buildOptions(opts)}
}

func (m *PNGMounter) Mount(ctx context.Context, cfg surface.Config) (surface.Surface, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h, err := surface.NewHandle(cfg)
	if err != nil {
		return nil, err
	}
	m.opts.logger.Debug("png_surface_mount", zap.String("surface_id", h.ID()), zap.String("fen", cfg.FEN))
	return &PNGSurface{Handle: h, renderer: m.renderer, opts: renderOptionsFor(h.Config(), m.opts.caption)}, nil
}

type PNGSurface struct {
	*surface.Handle
	renderer BoardRenderer
	opts     RenderOptions
}

// Image renders the board and returns the encoded PNG.
func (s *PNGSurface) Image(ctx context.Context) ([]byte, error) {
	if err := s.Alive(); err != nil {
		return nil, err
	}
	return s.renderer.RenderPNG(ctx, s.Board(), s.opts)
}

func (s *PNGSurface) Render(ctx context.Context, w io.Writer) error {
	data, err := s.Image(ctx)
	if err != nil {
		return err
	}
	_, err = io.Copy(w, bytes.NewReader(data))
	return err
}

// SVGMounter mounts surfaces that emit an SVG document.
type SVGMounter struct {
	opts mounterOptions
}

func NewSVGMounter(opts ...MountOption) *SVGMounter {
	return &SVGMounter{opts: buildOptions(opts)}
}

func (m *SVGMounter) Mount(ctx context.Context, cfg surface.Config) (surface.Surface, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	h, err := surface.NewHandle(cfg)
	if err != nil {
		return nil, err
	}
	m.opts.logger.Debug("svg_surface_mount", zap.String("surface_id", h.ID()), zap.String("fen", cfg.FEN))
	return &SVGSurface{Handle: h, opts: renderOptionsFor(h.Config(), m.opts.caption)}, nil
}

type SVGSurface struct {
	*surface.Handle
	opts RenderOptions
}

func (s *SVGSurface) Render(ctx context.Context, w io.Writer) error {
	if err := s.Alive(); err != nil {
		return err
	}
	return WriteSVG(ctx, w, s.Board(), s.opts)
}
