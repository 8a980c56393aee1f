package cli

import (
	"context"
	"errors"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/mrz1836/tokengate/internal/tui"
	gateerr "github.com/mrz1836/tokengate/pkg/errors"
)

// disconnectTimeout bounds the revoke sent when the UI exits while connected.
const disconnectTimeout = 10 * time.Second

var (
	// stdoutIsTerminal reports whether the UI can draw. Replaced in tests.
	stdoutIsTerminal = func() bool {
		return term.IsTerminal(int(os.Stdout.Fd())) //nolint:gosec // G115: Fd() returns uintptr, safe conversion for term.IsTerminal
	}

	// runProgram runs the terminal UI. Replaced in tests.
	runProgram = func(ctx context.Context, sess tui.Session, bridge *tui.Bridge) error {
		return tui.Run(ctx, sess, bridge)
	}
)

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open the interactive wallet panel",
	Long: `Open the interactive wallet panel.

Connect the configured wallet with c, refresh the balance with r and
disconnect with d. Builder access is requested as soon as the balance meets
the required amount and revoked on disconnect, including when the panel is
closed while connected.`,
	Args: cobra.NoArgs,
	RunE: runUI,
}

func runUI(cmd *cobra.Command, _ []string) error {
	if !stdoutIsTerminal() {
		return gateerr.WithSuggestion(
			gateerr.WithDetails(gateerr.ErrInvalidInput, map[string]string{"stdout": "not a terminal"}),
			"use 'tokengate check' in scripts and pipelines",
		)
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	bridge := tui.NewBridge()
	st, err := buildStack(cfg, logger, stackOptions{Toaster: bridge, Notify: true})
	if err != nil {
		return err
	}
	defer st.Close()

	sess := st.session
	unsubscribe := sess.Subscribe(bridge)
	defer unsubscribe()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	err = runProgram(ctx, sess, bridge)
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		err = nil
	}

	// Leaving while connected revokes builder access
	if sess.Connected() {
		dctx, cancel := context.WithTimeout(context.Background(), disconnectTimeout)
		defer cancel()
		if derr := sess.Disconnect(dctx); derr != nil {
			logger.Error("ui: disconnect on exit: %v", derr)
		}
	}

	return err
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for command registration
func init() {
	rootCmd.AddCommand(uiCmd)
}
