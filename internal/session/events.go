package session

import "slices"

// EventKind identifies a session event.
type EventKind int

// Session event kinds.
const (
	EventConnected EventKind = iota + 1
	EventDisconnected
	EventAccessChanged
)

// String returns the event name.
func (k EventKind) String() string {
	switch k {
	case EventConnected:
		return "connected"
	case EventDisconnected:
		return "disconnected"
	case EventAccessChanged:
		return "accessChanged"
	default:
		return "unknown"
	}
}

// Event is delivered to subscribers. Address is set for EventConnected;
// Granted and Balance are set for EventAccessChanged.
type Event struct {
	Kind    EventKind
	Address string
	Granted bool
	Balance float64
}

// AccessTransition is the payload of an EventAccessChanged event.
type AccessTransition struct {
	Granted bool
	Balance float64
}

// Transition returns the access transition carried by an
// EventAccessChanged event.
func (e Event) Transition() (AccessTransition, bool) {
	if e.Kind != EventAccessChanged {
		return AccessTransition{}, false
	}
	return AccessTransition{Granted: e.Granted, Balance: e.Balance}, true
}

// Subscriber receives session events synchronously, in emission order.
// Subscribers must not call session operations from OnEvent.
type Subscriber interface {
	OnEvent(Event)
}

// SubscriberFunc adapts a function to Subscriber.
type SubscriberFunc func(Event)

// OnEvent calls f(e).
func (f SubscriberFunc) OnEvent(e Event) {
	f(e)
}

// Subscribe registers sub and returns a function that removes it.
// The returned function is idempotent.
func (s *WalletSession) Subscribe(sub Subscriber) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = sub
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *WalletSession) emit(e Event) {
	s.subMu.Lock()
	ids := make([]uint64, 0, len(s.subs))
	for id := range s.subs {
		ids = append(ids, id)
	}
	s.subMu.Unlock()

	// Deliver in subscription order.
	slices.Sort(ids)
	for _, id := range ids {
		s.subMu.Lock()
		sub, ok := s.subs[id]
		s.subMu.Unlock()
		if ok {
			sub.OnEvent(e)
		}
	}
}
