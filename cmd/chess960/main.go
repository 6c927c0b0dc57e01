package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/park285/chess960-viewer/internal/adapter/positionpresenter"
	"github.com/park285/chess960-viewer/internal/builder"
	appcfg "github.com/park285/chess960-viewer/internal/config"
	"github.com/park285/chess960-viewer/internal/obslog"
	"github.com/park285/chess960-viewer/internal/tui"
	"github.com/park285/chess960-viewer/pkg/positiondto"
	"go.uber.org/zap"
)

func main() {
	cmd := "tui"
	args := os.Args[1:]
	if len(args) > 0 {
		cmd, args = strings.ToLower(args[0]), args[1:]
	}

	if err := obslog.InitFromEnv(cmd == "tui"); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	logger := obslog.L()
	defer func() { _ = logger.Sync() }()

	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	deps, err := builder.New(cfg, logger)
	if err != nil {
		log.Fatalf("init error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, deps, cmd, args, os.Stdout); err != nil {
		var de positiondto.DomainError
		if errors.As(err, &de) {
			fmt.Fprintln(os.Stderr, de.Message)
			os.Exit(2)
		}
		logger.Error("command_failed", zap.String("cmd", cmd), zap.Error(err))
		log.Fatalf("%s: %v", cmd, err)
	}
}

func run(ctx context.Context, deps *builder.Deps, cmd string, args []string, stdout io.Writer) error {
	switch cmd {
	case "tui":
		return runTUI(ctx, deps)
	case "fen":
		pos, err := resolveArg(deps, args)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(stdout, pos.FEN)
		return err
	case "show":
		pos, err := resolveArg(deps, args)
		if err != nil {
			return err
		}
		if len(args) > 1 && strings.EqualFold(args[1], "text") {
			_, err = fmt.Fprintln(stdout, deps.Presenter.Summary(pos))
			return err
		}
		return positionpresenter.WriteJSON(stdout, pos)
	case "random":
		return runRandom(ctx, deps, stdout)
	case appcfg.SurfacePNG, appcfg.SurfaceSVG:
		return export(ctx, deps, cmd, args, stdout)
	case "help", "-h", "--help":
		_, err := io.WriteString(stdout, deps.Catalog.Text("cli.usage", nil))
		return err
	default:
		_, _ = io.WriteString(os.Stderr, deps.Catalog.Text("cli.usage", nil))
		return fmt.Errorf("unknown command %q", cmd)
	}
}

func runTUI(ctx context.Context, deps *builder.Deps) error {
	sh, err := deps.Shell(appcfg.SurfaceText)
	if err != nil {
		return err
	}
	defer sh.Close()
	if err := sh.Initialize(ctx); err != nil {
		return err
	}
	return tui.Run(ctx, sh, deps.Catalog, deps.Config.InputMaxRunes)
}

// runRandom draws one position through a shell mounted on the configured surface.
// The text surface reports the selection as JSON; png and svg write the board image.
func runRandom(ctx context.Context, deps *builder.Deps, stdout io.Writer) error {
	kind := deps.Config.Surface
	sh, err := deps.Shell(kind)
	if err != nil {
		return err
	}
	defer sh.Close()
	if err := sh.RequestRandom(ctx); err != nil {
		return err
	}
	if kind == appcfg.SurfaceText {
		sel, shown := sh.Snapshot()
		return positionpresenter.WriteJSON(stdout, positionpresenter.SelectionDTO(sel, shown))
	}
	if err := sh.Surface().Render(ctx, stdout); err != nil {
		return fmt.Errorf("render %s: %w", kind, err)
	}
	return nil
}

func resolveArg(deps *builder.Deps, args []string) (*positiondto.Position, error) {
	if len(args) == 0 {
		return nil, positiondto.DomainError{Code: "missing_argument", Message: "expected a position id or back rank"}
	}
	return deps.Presenter.Resolve(args[0])
}

// export writes one board image to args[1], or stdout when absent or "-".
func export(ctx context.Context, deps *builder.Deps, kind string, args []string, stdout io.Writer) (err error) {
	pos, err := resolveArg(deps, args)
	if err != nil {
		return err
	}
	m, err := deps.Mounter(kind)
	if err != nil {
		return err
	}
	s, err := m.Mount(ctx, deps.ExportConfig(pos.FEN))
	if err != nil {
		return err
	}
	defer s.Destroy()

	w := stdout
	if len(args) > 1 && args[1] != "-" {
		f, err := os.Create(args[1])
		if err != nil {
			return fmt.Errorf("create %s: %w", args[1], err)
		}
		defer func() {
			if cerr := f.Close(); cerr != nil && err == nil {
				err = cerr
			}
		}()
		w = f
	}
	if err := s.Render(ctx, w); err != nil {
		return fmt.Errorf("render %s: %w", kind, err)
	}
	deps.Logger.Info("board_exported", zap.String("format", kind), zap.Int("id", pos.ID))
	return nil
}
