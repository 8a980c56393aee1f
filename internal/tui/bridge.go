package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/mrz1836/tokengate/internal/session"
)

// bridgeBuffer bounds queued messages. The view re-reads session state on
// every message, so a dropped message only delays a redraw.
const bridgeBuffer = 64

// eventMsg carries a session event into the program.
type eventMsg struct {
	event session.Event
}

// toastMsg carries a toast into the program.
type toastMsg struct {
	text string
}

// Bridge forwards session events and toasts into a tea program. It is a
// session.Subscriber and a toaster. Sends never block.
type Bridge struct {
	ch chan tea.Msg
}

// NewBridge creates a bridge.
func NewBridge() *Bridge {
	return &Bridge{ch: make(chan tea.Msg, bridgeBuffer)}
}

// OnEvent queues a session event.
func (b *Bridge) OnEvent(e session.Event) {
	b.push(eventMsg{event: e})
}

// Toast queues a toast.
func (b *Bridge) Toast(message string) {
	b.push(toastMsg{text: message})
}

func (b *Bridge) push(msg tea.Msg) {
	select {
	case b.ch <- msg:
	default:
	}
}

// listen waits for the next bridged message.
func (b *Bridge) listen() tea.Cmd {
	return func() tea.Msg {
		return <-b.ch
	}
}
