package view

import "sync"

// Subscription is the handle returned by every subscribe operation, live or
// emulated. Closing it tears down every underlying resource the
// subscription opened (change streams, pollers, the reaction stream) and is
// safe to call more than once. Each handle owns its own last-emitted cache;
// handles never share state.
type Subscription struct {
	mu       sync.Mutex
	closed   bool
	closers  []func()
	lastMsgs []MessageView
}

func NewSubscription() *Subscription {
	return &Subscription{}
}

// OnClose registers a teardown hook. If the subscription is already closed
// the hook runs immediately, so late stream registration cannot leak.
func (s *Subscription) OnClose(fn func()) {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		fn()
		return
	}
	s.closers = append(s.closers, fn)
	s.mu.Unlock()
}

// Close tears the subscription down. Idempotent.
func (s *Subscription) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	closers := s.closers
	s.closers = nil
	s.mu.Unlock()

	for _, fn := range closers {
		fn()
	}
}

// Active reports whether the handle is still subscribed. In-flight work
// must check this before invoking the callback: views resolved after Close
// are discarded, not delivered.
func (s *Subscription) Active() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return !s.closed
}

// LastMessages returns the most recently emitted message view.
func (s *Subscription) LastMessages() []MessageView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastMsgs
}

// SetLastMessages records the view just emitted on this handle.
func (s *Subscription) SetLastMessages(views []MessageView) {
	s.mu.Lock()
	s.lastMsgs = views
	s.mu.Unlock()
}
