package session

import (
	"context"
	"fmt"
	"math/big"
	"sync"
)

// journal records events, notifications and toasts in one ordered log.
type journal struct {
	mu      sync.Mutex
	entries []string
}

func (j *journal) add(format string, args ...any) {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, fmt.Sprintf(format, args...))
}

func (j *journal) all() []string {
	j.mu.Lock()
	defer j.mu.Unlock()
	return append([]string(nil), j.entries...)
}

func (j *journal) count(entry string) int {
	n := 0
	for _, e := range j.all() {
		if e == entry {
			n++
		}
	}
	return n
}

func (j *journal) reset() {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = nil
}

type mockProvider struct {
	mu            sync.Mutex
	address       string
	connectErr    error
	disconnectErr error
	block         chan struct{}
	entered       chan struct{}
	connects      int
	disconnects   int
}

func (p *mockProvider) Connect(_ context.Context) (string, error) {
	p.mu.Lock()
	p.connects++
	block, entered := p.block, p.entered
	p.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if block != nil {
		<-block
	}
	return p.address, p.connectErr
}

func (p *mockProvider) Disconnect(_ context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.disconnects++
	return p.disconnectErr
}

func (p *mockProvider) connectCalls() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.connects
}

type mockLedger struct {
	mu      sync.Mutex
	amounts map[string]*big.Int
	err     error
	block   chan struct{}
	entered chan struct{}
	calls   int
}

func (l *mockLedger) TokenBalance(_ context.Context, owner, _ string) (*big.Int, error) {
	l.mu.Lock()
	l.calls++
	block, entered := l.block, l.entered
	l.mu.Unlock()

	if entered != nil {
		entered <- struct{}{}
	}
	if block != nil {
		<-block
	}

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return nil, l.err
	}
	if amount, ok := l.amounts[owner]; ok {
		return amount, nil
	}
	return big.NewInt(0), nil
}

func (l *mockLedger) set(owner string, raw int64) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.amounts == nil {
		l.amounts = make(map[string]*big.Int)
	}
	l.amounts[owner] = big.NewInt(raw)
}

// unblock stops blocking new lookups and returns the gate that calls
// already waiting on it still hold.
func (l *mockLedger) unblock() chan struct{} {
	l.mu.Lock()
	defer l.mu.Unlock()
	block := l.block
	l.block, l.entered = nil, nil
	return block
}

func (l *mockLedger) callCount() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

type journalNotifier struct{ j *journal }

func (n journalNotifier) Granted(_ context.Context, address string, balance float64) {
	n.j.add("grant %s %g", address, balance)
}

func (n journalNotifier) Insufficient(_ context.Context, balance, required float64) {
	n.j.add("insufficient %g/%g", balance, required)
}

func (n journalNotifier) Revoked(_ context.Context) {
	n.j.add("revoke")
}

type journalToaster struct{ j *journal }

func (t journalToaster) Toast(message string) {
	t.j.add("toast %s", message)
}

func journalSubscriber(j *journal) Subscriber {
	return SubscriberFunc(func(e Event) {
		switch e.Kind {
		case EventConnected:
			j.add("connected %s", e.Address)
		case EventDisconnected:
			j.add("disconnected")
		case EventAccessChanged:
			j.add("accessChanged %t %g", e.Granted, e.Balance)
		}
	})
}
