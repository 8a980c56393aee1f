package notify

import (
	"context"
	"fmt"

	"github.com/mrz1836/tokengate/internal/config"
	"github.com/mrz1836/tokengate/internal/metrics"
	"github.com/mrz1836/tokengate/internal/session"
)

// Toaster posts user-visible messages.
type Toaster interface {
	Toast(message string)
}

// LogWriter is the logging surface the notifier writes to.
type LogWriter interface {
	Debug(format string, args ...any)
	Error(format string, args ...any)
}

// Compile-time interface check
var _ session.PermissionNotifier = (*Notifier)(nil)

// Notifier turns access transitions into toasts and authorization messages.
// Delivery is fire-and-forget: send failures are logged and counted only.
type Notifier struct {
	channel Channel
	toaster Toaster
	logger  LogWriter
	metrics *metrics.Metrics
}

// NewNotifier creates a notifier. Nil collaborators are replaced by no-ops
// and metrics.Global.
func NewNotifier(channel Channel, toaster Toaster, logger LogWriter, m *metrics.Metrics) *Notifier {
	if channel == nil {
		channel = NopChannel{}
	}
	if toaster == nil {
		toaster = ToasterFunc(func(string) {})
	}
	if logger == nil {
		logger = config.NullLogger()
	}
	if m == nil {
		m = metrics.Global
	}
	return &Notifier{channel: channel, toaster: toaster, logger: logger, metrics: m}
}

// GrantedMessage is the toast posted when access is granted.
func GrantedMessage(balance float64) string {
	return fmt.Sprintf("Builder access granted (%s tokens)", FormatAmount(balance))
}

// InsufficientMessage is the toast posted when the balance drops below required.
func InsufficientMessage(balance, required float64) string {
	return fmt.Sprintf("Insufficient tokens (%s / %s)", FormatAmount(balance), FormatAmount(required))
}

// Granted toasts the grant and requests builder rank for address.
func (n *Notifier) Granted(ctx context.Context, address string, balance float64) {
	n.toaster.Toast(GrantedMessage(balance))
	n.send(ctx, MsgRequestBuilder, BuilderRequest{WalletAddress: address, TokenBalance: balance})
}

// Insufficient toasts the shortfall. No message is sent.
func (n *Notifier) Insufficient(_ context.Context, balance, required float64) {
	n.toaster.Toast(InsufficientMessage(balance, required))
}

// Revoked asks the authorization service to drop builder rank.
func (n *Notifier) Revoked(ctx context.Context) {
	n.send(ctx, MsgRevokeBuilder, nil)
}

func (n *Notifier) send(ctx context.Context, msgType string, payload any) {
	err := n.channel.Send(ctx, msgType, payload)
	n.metrics.RecordMessage(err)
	if err != nil {
		n.logger.Error("notify: %s not delivered: %v", msgType, err)
		return
	}
	n.logger.Debug("notify: %s sent", msgType)
}
