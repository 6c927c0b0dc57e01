package builder

import (
	"errors"
	"fmt"
	"strings"

	"github.com/park285/chess960-viewer/internal/adapter/positionpresenter"
	"github.com/park285/chess960-viewer/internal/chess960"
	"github.com/park285/chess960-viewer/internal/config"
	"github.com/park285/chess960-viewer/internal/msgcat"
	"github.com/park285/chess960-viewer/internal/render"
	"github.com/park285/chess960-viewer/internal/shell"
	"github.com/park285/chess960-viewer/internal/surface"
	"go.uber.org/zap"
)

type Deps struct {
	Config    *config.AppConfig
	Logger    *zap.Logger
	Generator *chess960.Generator
	Catalog   *msgcat.Catalog
	Presenter *positionpresenter.Presenter
	Renderer  render.BoardRenderer
}

func New(cfg *config.AppConfig, logger *zap.Logger) (*Deps, error) {
	if cfg == nil {
		return nil, errors.New("nil config")
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	catalog, err := msgcat.New(cfg.MessagesDir)
	if err != nil {
		return nil, fmt.Errorf("init messages: %w", err)
	}

	gen := chess960.NewGenerator(nil)
	pieces := render.PieceSet{Dir: cfg.PieceDir}
	if pieces.Dir != "" {
		logger.Info("piece_set_override", zap.String("dir", pieces.Dir))
	}

	return &Deps{
		Config:    cfg,
		Logger:    logger,
		Generator: gen,
		Catalog:   catalog,
		Presenter: positionpresenter.New(gen, catalog),
		Renderer:  render.NewPNGBoardRenderer(cfg.SquareSize, pieces),
	}, nil
}

// Mounter returns the surface factory for kind (text, png or svg).
func (d *Deps) Mounter(kind string) (surface.Mounter, error) {
	log := d.Logger.With(zap.String("surface", kind))
	switch strings.ToLower(strings.TrimSpace(kind)) {
	case config.SurfaceText:
		return surface.NewTextMounter(), nil
	case config.SurfacePNG:
		return render.NewPNGMounter(d.Renderer, render.WithLogger(log), render.WithCaptioner(d.Caption)), nil
	case config.SurfaceSVG:
		return render.NewSVGMounter(render.WithLogger(log), render.WithCaptioner(d.Caption)), nil
	default:
		return nil, fmt.Errorf("unknown surface %q", kind)
	}
}

// Caption names the mounted position through the message catalog, looking the back rank
// up in the generator's table. Unknown arrangements get the plain default caption.
func (d *Deps) Caption(cfg surface.Config) (string, string) {
	ranks := chess960.Ranks(cfg.FEN)
	if len(ranks) != 8 {
		return render.DefaultCaption(cfg)
	}
	id := chess960.IndexOf(d.Generator.Table(), ranks[7])
	if id < 0 {
		return render.DefaultCaption(cfg)
	}
	return d.Catalog.Text("board.header", map[string]any{"ID": id}),
		d.Catalog.Text("board.caption", map[string]any{"BackRank": ranks[7]})
}

// Shell wires an interactive shell onto the given surface kind.
func (d *Deps) Shell(kind string) (*shell.Shell, error) {
	m, err := d.Mounter(kind)
	if err != nil {
		return nil, err
	}
	return shell.New(d.Generator, m,
		shell.WithSeed(d.Config.Seed),
		shell.WithAnimation(d.Config.Animation()),
		shell.WithLogger(d.Logger.Named("shell")),
	), nil
}

// ExportConfig is the one-shot surface config; orientation and coordinates follow settings.
func (d *Deps) ExportConfig(fen string) surface.Config {
	cfg := surface.ViewOnlyConfig(fen, 0)
	cfg.Coordinates = d.Config.Coordinates
	if d.Config.Orientation == string(surface.OrientationBlack) {
		cfg.Orientation = surface.OrientationBlack
	}
	return cfg
}
