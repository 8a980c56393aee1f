// Package tui renders the wallet button: connect/disconnect controls, the
// token balance against the access threshold and the latest toast.
package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/mrz1836/tokengate/internal/chain/solana"
	"github.com/mrz1836/tokengate/internal/notify"
	"github.com/mrz1836/tokengate/internal/session"
)

// Session is the part of session.WalletSession the view drives.
type Session interface {
	Connect(ctx context.Context) (string, error)
	Disconnect(ctx context.Context) error
	RefreshBalance(ctx context.Context) (bool, error)
	State() session.State
	RequiredBalance() float64
}

type operation int

const (
	opConnect operation = iota + 1
	opDisconnect
	opRefresh
)

// opDoneMsg reports that a session operation returned.
type opDoneMsg struct {
	op  operation
	err error
}

// Model is the bubbletea model of the wallet view.
type Model struct {
	ctx     context.Context //nolint:containedctx // operations outlive a single Update call
	sess    Session
	bridge  *Bridge
	keys    KeyMap
	spinner spinner.Model

	state      session.State
	required   float64
	connecting bool
	refreshing bool
	lastToast  string
}

// NewModel creates the view over sess. bridge delivers the session's events
// and toasts; it must be subscribed to sess by the caller.
func NewModel(ctx context.Context, sess Session, bridge *Bridge) Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return Model{
		ctx:      ctx,
		sess:     sess,
		bridge:   bridge,
		keys:     DefaultKeyMap(),
		spinner:  sp,
		state:    sess.State(),
		required: sess.RequiredBalance(),
	}
}

// Init starts listening for bridged messages and the spinner.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.bridge.listen(), m.spinner.Tick)
}

// Update handles input, bridged session messages and operation results.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case eventMsg:
		m.state = m.sess.State()
		return m, m.bridge.listen()

	case toastMsg:
		m.lastToast = msg.text
		return m, m.bridge.listen()

	case opDoneMsg:
		switch msg.op {
		case opConnect:
			m.connecting = false
		case opRefresh:
			m.refreshing = false
		default:
		}
		m.state = m.sess.State()
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Connect):
		if m.state.Connected || m.connecting {
			return m, nil
		}
		m.connecting = true
		return m, m.run(opConnect, func(ctx context.Context) error {
			_, err := m.sess.Connect(ctx)
			return err
		})

	case key.Matches(msg, m.keys.Disconnect):
		if !m.state.Connected {
			return m, nil
		}
		return m, m.run(opDisconnect, m.sess.Disconnect)

	case key.Matches(msg, m.keys.Refresh):
		if !m.state.Connected || m.refreshing {
			return m, nil
		}
		m.refreshing = true
		return m, m.run(opRefresh, func(ctx context.Context) error {
			_, err := m.sess.RefreshBalance(ctx)
			return err
		})
	}

	return m, nil
}

func (m Model) run(op operation, fn func(context.Context) error) tea.Cmd {
	ctx := m.ctx
	return func() tea.Msg {
		return opDoneMsg{op: op, err: fn(ctx)}
	}
}

// View renders the wallet button or panel.
func (m Model) View() string {
	var b strings.Builder

	if !m.state.Connected {
		label := "Connect Wallet"
		style := ConnectButtonStyle
		if m.connecting {
			label = m.spinner.View() + " Connecting..."
			style = DisabledButtonStyle
		}
		b.WriteString(style.Render(label))
	} else {
		b.WriteString(m.panelView())
	}

	b.WriteString("\n")
	if m.lastToast != "" {
		b.WriteString(ToastStyle.Render(m.lastToast))
		b.WriteString("\n")
	}
	b.WriteString(m.helpView())
	b.WriteString("\n")
	return b.String()
}

func (m Model) panelView() string {
	header := lipgloss.JoinHorizontal(lipgloss.Top,
		AddressStyle.Render(solana.ShortAddress(m.state.Address)),
		"  ",
		DisconnectStyle.Render("[d] Disconnect"),
	)

	icon, balanceStyle, panel := "!", BalanceStyle, PanelStyle
	if m.state.HasAccess {
		icon, balanceStyle, panel = "✔", GrantedBalanceStyle, GrantedPanelStyle
	}

	balance := fmt.Sprintf("%s %s / %s", icon,
		notify.FormatAmount(m.state.Balance), notify.FormatAmount(m.required))
	refresh := "[r] ↻"
	if m.refreshing {
		refresh = m.spinner.View()
	}
	line := lipgloss.JoinHorizontal(lipgloss.Top, balanceStyle.Render(balance), "  ", HelpStyle.Render(refresh))

	return panel.Render(lipgloss.JoinVertical(lipgloss.Left, header, line))
}

func (m Model) helpView() string {
	bindings := []key.Binding{m.keys.Connect, m.keys.Disconnect, m.keys.Refresh, m.keys.Quit}
	parts := make([]string, 0, len(bindings))
	for _, kb := range bindings {
		h := kb.Help()
		parts = append(parts, h.Key+" "+h.Desc)
	}
	return HelpStyle.Render(strings.Join(parts, " • "))
}
