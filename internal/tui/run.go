package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/park285/chess960-viewer/internal/msgcat"
	"github.com/park285/chess960-viewer/internal/shell"
)

func Run(ctx context.Context, sh *shell.Shell, catalog *msgcat.Catalog, maxRunes int) error {
	p := tea.NewProgram(NewModel(ctx, sh, catalog, maxRunes), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
