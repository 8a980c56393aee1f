package notify

import (
	"fmt"
	"io"
	"sync"
)

// ToasterFunc adapts a function to a toaster.
type ToasterFunc func(message string)

// Toast calls f(message).
func (f ToasterFunc) Toast(message string) {
	f(message)
}

// WriterToaster prints each toast as a line on w.
type WriterToaster struct {
	mu sync.Mutex
	w  io.Writer
}

// NewWriterToaster creates a toaster writing to w.
func NewWriterToaster(w io.Writer) *WriterToaster {
	return &WriterToaster{w: w}
}

// Toast writes the message. Write errors are ignored.
func (t *WriterToaster) Toast(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	_, _ = fmt.Fprintf(t.w, "» %s\n", message)
}
