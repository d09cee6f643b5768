package events

import (
	"context"
	"log/slog"
	"testing"
)

// discardHandler is a no-op slog handler for tests.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }

func newTestDispatcher() *Dispatcher {
	return NewDispatcher(slog.New(discardHandler{}))
}

func TestDispatchOrder(t *testing.T) {
	d := newTestDispatcher()
	var order []int
	for i := 0; i < 5; i++ {
		i := i
		d.Register(OnMessage, HandlerFunc(func(Event) {
			order = append(order, i)
		}))
	}

	d.Dispatch(Message{Text: "hi"})

	if len(order) != 5 {
		t.Fatalf("invoked %d handlers, want 5", len(order))
	}
	for i, got := range order {
		if got != i {
			t.Fatalf("dispatch order %v, want registration order", order)
		}
	}
}

func TestHandlerIsolation(t *testing.T) {
	d := newTestDispatcher()
	var secondRan bool
	d.Register(OnMessage, HandlerFunc(func(Event) {
		panic("first handler blows up")
	}))
	d.Register(OnMessage, HandlerFunc(func(Event) {
		secondRan = true
	}))

	d.Dispatch(Message{Text: "hi"})

	if !secondRan {
		t.Fatal("panicking handler prevented the next handler from running")
	}
}

func TestUnknownEventNameAccepted(t *testing.T) {
	d := newTestDispatcher()
	var ran bool
	d.Register("made_up_event", HandlerFunc(func(Event) { ran = true }))

	d.Dispatch(named{name: "made_up_event"})

	if !ran {
		t.Fatal("handler for custom event name not invoked")
	}
}

// named is a test-only event with an arbitrary name.
type named struct{ name string }

func (n named) EventName() string { return n.name }

func TestDispatchNoSubscribers(t *testing.T) {
	d := newTestDispatcher()
	d.Dispatch(Connect{}) // must not panic
}

func TestRegisterDuringDispatch(t *testing.T) {
	d := newTestDispatcher()
	d.Register(OnMessage, HandlerFunc(func(Event) {
		// Registering mid-dispatch must not deadlock or affect this round.
		d.Register(OnMessage, HandlerFunc(func(Event) {}))
	}))

	d.Dispatch(Message{Text: "hi"})
}

func TestEventPayloads(t *testing.T) {
	d := newTestDispatcher()
	var got Event
	d.Register(OnEvent, HandlerFunc(func(e Event) { got = e }))

	d.Dispatch(Protocol{Tag: "user_join", Payload: []byte{1, 2}})

	p, ok := got.(Protocol)
	if !ok {
		t.Fatalf("got %T, want Protocol", got)
	}
	if p.Tag != "user_join" || len(p.Payload) != 2 {
		t.Fatalf("payload mismatch: %+v", p)
	}
}
