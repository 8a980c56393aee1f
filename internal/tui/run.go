package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
)

// Run starts the wallet view and blocks until the user quits or ctx ends.
func Run(ctx context.Context, sess Session, bridge *Bridge, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(NewModel(ctx, sess, bridge), opts...)
	_, err := p.Run()
	return err
}
