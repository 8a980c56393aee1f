package output

import (
	"fmt"
	"io"
)

// Message prefixes. Plain variants are used when color is disabled.
const (
	prefixSuccess      = "✅ "
	prefixWarn         = "⚠️  "
	prefixSuccessPlain = "OK: "
	prefixWarnPlain    = "WARN: "
)

// Messenger prints short status lines.
type Messenger struct {
	out     io.Writer
	err     io.Writer
	noColor bool
}

// NewMessenger creates a messenger writing successes to out and warnings to errOut.
func NewMessenger(out, errOut io.Writer, noColor bool) *Messenger {
	return &Messenger{out: out, err: errOut, noColor: noColor}
}

// Success prints a success line.
func (m *Messenger) Success(msg string) {
	prefix := prefixSuccess
	if m.noColor {
		prefix = prefixSuccessPlain
	}
	_, _ = fmt.Fprintln(m.out, prefix+msg)
}

// Successf prints a formatted success line.
func (m *Messenger) Successf(format string, args ...any) {
	m.Success(fmt.Sprintf(format, args...))
}

// Warn prints a warning line.
func (m *Messenger) Warn(msg string) {
	prefix := prefixWarn
	if m.noColor {
		prefix = prefixWarnPlain
	}
	_, _ = fmt.Fprintln(m.err, prefix+msg)
}

// Warnf prints a formatted warning line.
func (m *Messenger) Warnf(format string, args ...any) {
	m.Warn(fmt.Sprintf(format, args...))
}
