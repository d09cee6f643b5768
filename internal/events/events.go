// Package events decouples the protocol internals from the application
// layer: the client raises named events, subscribers receive them in
// registration order, and one failing subscriber never affects the rest.
package events

import (
	"fmt"
	"log/slog"
	"sync"
)

// Event names raised by the client. Registration is not restricted to this
// set; unknown names simply get their own subscriber list.
const (
	OnConnect    = "on_connect"
	OnDisconnect = "on_disconnect"
	OnMessage    = "on_message"
	OnEvent      = "on_event"
	OnError      = "on_error"
	OnTimeout    = "on_timeout"
	OnClose      = "on_close"
)

// Event is the payload delivered to subscribers. Exactly one concrete
// variant exists per notification kind.
type Event interface {
	EventName() string
}

// Connect signals that the handshake completed and the session is live.
type Connect struct{}

// Disconnect signals that the session fully tore down.
type Disconnect struct{}

// Message carries a chat line, already decoded as UTF-8 text.
type Message struct {
	Source int32
	Text   string
}

// Protocol carries a recognized but unprocessed protocol notification:
// the command tag plus the raw payload.
type Protocol struct {
	Tag     string
	Payload []byte
}

// Error carries a connection-threatening failure description.
type Error struct {
	Message string
}

// Timeout carries a connect-timeout description.
type Timeout struct {
	Message string
}

// Closed signals that the peer closed the connection cleanly.
type Closed struct{}

func (Connect) EventName() string    { return OnConnect }
func (Disconnect) EventName() string { return OnDisconnect }
func (Message) EventName() string    { return OnMessage }
func (Protocol) EventName() string   { return OnEvent }
func (Error) EventName() string      { return OnError }
func (Timeout) EventName() string    { return OnTimeout }
func (Closed) EventName() string     { return OnClose }

// Handler consumes one event.
type Handler interface {
	HandleEvent(Event)
}

// HandlerFunc adapts a plain function to Handler.
type HandlerFunc func(Event)

func (f HandlerFunc) HandleEvent(e Event) { f(e) }

// Dispatcher maps event names to ordered subscriber lists.
type Dispatcher struct {
	mu       sync.Mutex
	handlers map[string][]Handler
	log      *slog.Logger
}

// NewDispatcher creates an empty registry. logger must not be nil; handler
// failures are reported through it.
func NewDispatcher(logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		handlers: make(map[string][]Handler),
		log:      logger,
	}
}

// Register appends handler to the named event's subscriber list. Insertion
// order determines dispatch order; duplicate handlers are allowed.
func (d *Dispatcher) Register(name string, handler Handler) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.handlers[name] = append(d.handlers[name], handler)
	d.log.Debug("registered event handler", "event", name)
}

// Dispatch delivers e to every subscriber of its event name, in
// registration order. A panicking handler is logged and skipped; it never
// aborts delivery to later handlers or propagates into the protocol loop.
// All handlers have run by the time Dispatch returns.
func (d *Dispatcher) Dispatch(e Event) {
	name := e.EventName()

	// Snapshot under the lock so handlers registered mid-dispatch never
	// race the iteration.
	d.mu.Lock()
	subscribers := make([]Handler, len(d.handlers[name]))
	copy(subscribers, d.handlers[name])
	d.mu.Unlock()

	for _, h := range subscribers {
		d.invoke(name, h, e)
	}
}

func (d *Dispatcher) invoke(name string, h Handler, e Event) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("event handler failed", "event", name, "err", fmt.Sprint(r))
		}
	}()
	h.HandleEvent(e)
}
