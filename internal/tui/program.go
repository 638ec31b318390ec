package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/felixgeelhaar/feedfort/internal/app"
)

// Run starts the full-screen client and blocks until the user quits or ctx
// is cancelled
func Run(ctx context.Context, a *app.App) error {
	model := NewModel(ctx, a)
	defer model.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("run TUI: %w", err)
	}
	return nil
}
