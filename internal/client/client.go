// Package client implements the RoRnet session: the connect handshake, the
// steady-state receive loop, and the façade the application layer drives.
package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/Zentro/RoRServerBot/internal/auth"
	"github.com/Zentro/RoRServerBot/internal/events"
	"github.com/Zentro/RoRServerBot/internal/rornet"
	"github.com/Zentro/RoRServerBot/internal/transport"
)

// discardHandler is a no-op slog handler used when no logger is configured.
type discardHandler struct{}

func (discardHandler) Enabled(context.Context, slog.Level) bool  { return false }
func (discardHandler) Handle(context.Context, slog.Record) error { return nil }
func (d discardHandler) WithAttrs([]slog.Attr) slog.Handler      { return d }
func (d discardHandler) WithGroup(string) slog.Handler           { return d }

const defaultConnectTimeout = 10 * time.Second

// Config holds everything one session needs. There is no ambient global
// state; construct a Config once and hand it to New.
type Config struct {
	Host           string
	Port           int
	Username       string
	Password       string // server password, sent as a digest
	UserToken      string // auth token, sent as a digest
	Language       string
	ClientName     string
	ClientVersion  string
	ConnectTimeout time.Duration
	Logger         *slog.Logger
}

func (c *Config) withDefaults() Config {
	out := *c
	if out.Username == "" {
		out.Username = "RoRBot"
	}
	if out.Language == "" {
		out.Language = "en-US"
	}
	if out.ClientName == "" {
		out.ClientName = "rorbot"
	}
	if out.ClientVersion == "" {
		out.ClientVersion = "2.0.0"
	}
	if out.ConnectTimeout == 0 {
		out.ConnectTimeout = defaultConnectTimeout
	}
	if out.Logger == nil {
		out.Logger = slog.New(discardHandler{})
	}
	return out
}

// Client is one RoRnet session: a single TCP connection, one background
// receive goroutine, and the event registry that notifies the application.
type Client struct {
	cfg        Config
	log        *slog.Logger
	dispatcher *events.Dispatcher

	mu         sync.Mutex
	state      State
	conn       *transport.Conn
	userInfo   rornet.UserInfo
	serverInfo rornet.ServerInfo
	uniqueID   int32

	stop     chan struct{} // closed to signal the receive loop
	loopDone chan struct{} // closed by the receive loop on exit
}

// New creates an idle client for one session against cfg.Host:cfg.Port.
func New(cfg Config) *Client {
	c := cfg.withDefaults()
	logger := c.Logger.With("component", "client", "host", c.Host, "port", c.Port)
	return &Client{
		cfg:        c,
		log:        logger,
		dispatcher: events.NewDispatcher(logger),
		state:      StateIdle,
	}
}

// RegisterHandler subscribes handler to the named event. The registry is
// safe to mutate at any time, including while the receive loop is running.
func (c *Client) RegisterHandler(name string, handler events.Handler) {
	c.dispatcher.Register(name, handler)
}

// State reports the current lifecycle phase.
func (c *Client) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// IsConnected reports whether the session is established and its receive
// loop running.
func (c *Client) IsConnected() bool {
	return c.State() == StateConnected
}

// ServerInfo returns the peer's identity record, valid once connected and
// immutable for the life of the session.
func (c *Client) ServerInfo() rornet.ServerInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.serverInfo
}

// UserInfo returns this client's identity as last echoed by the server.
func (c *Client) UserInfo() rornet.UserInfo {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.userInfo
}

// UniqueID returns the server-assigned unique id, valid once connected.
func (c *Client) UniqueID() int32 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.uniqueID
}

// Connect opens the transport and drives the HELLO / USER_INFO / WELCOME
// exchange. On success the receive loop is running and the connect event
// has fired. On failure the client ends up Closed with a typed error
// describing what the server objected to.
func (c *Client) Connect(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateIdle {
		c.mu.Unlock()
		return ErrNotIdle
	}
	c.state = StateHandshaking
	c.mu.Unlock()

	conn, err := transport.Dial(ctx, c.cfg.Host, c.cfg.Port, c.cfg.ConnectTimeout)
	if err != nil {
		c.mu.Lock()
		c.state = StateClosed
		c.mu.Unlock()
		if errors.Is(err, transport.ErrTimeout) {
			c.dispatcher.Dispatch(events.Timeout{Message: err.Error()})
		} else {
			c.dispatcher.Dispatch(events.Error{Message: err.Error()})
		}
		c.log.Error("connect failed", "err", err)
		return err
	}

	c.mu.Lock()
	c.conn = conn
	c.mu.Unlock()
	c.log.Info("connection established", "addr", conn.RemoteAddr())

	serverInfo, userInfo, err := c.handshake(conn)
	if err != nil {
		c.log.Error("handshake failed", "err", err)
		c.dispatcher.Dispatch(events.Error{Message: err.Error()})
		c.disconnect(false)
		return err
	}

	c.mu.Lock()
	c.serverInfo = serverInfo
	c.userInfo = userInfo
	c.uniqueID = int32(userInfo.UniqueID)
	c.state = StateConnected
	c.stop = make(chan struct{})
	c.loopDone = make(chan struct{})
	c.mu.Unlock()

	go c.recvLoop(conn)

	c.log.Info("connected", "server", serverInfo.ServerName, "uid", userInfo.UniqueID)
	c.dispatcher.Dispatch(events.Connect{})
	return nil
}

// handshake runs the serial HELLO / USER_INFO / WELCOME exchange on conn.
// No concurrent reader exists yet; the receive loop starts only on success.
func (c *Client) handshake(conn *transport.Conn) (rornet.ServerInfo, rornet.UserInfo, error) {
	var si rornet.ServerInfo
	var ui rornet.UserInfo

	hello := rornet.NewFrame(rornet.MsgHello, 0, 0, []byte(rornet.ProtocolVersion))
	if err := conn.Write(hello.Encode()); err != nil {
		return si, ui, fmt.Errorf("send hello: %w", err)
	}

	reply, err := c.readFrame(conn)
	if err != nil {
		return si, ui, fmt.Errorf("read hello response: %w", err)
	}
	if reply.Command != rornet.MsgHello {
		return si, ui, classifyHello(reply.Command)
	}
	si, err = rornet.DecodeServerInfo(reply.Payload)
	if err != nil {
		return si, ui, fmt.Errorf("decode server info: %w", err)
	}

	ui = rornet.UserInfo{
		SlotNum:        -1,
		Username:       c.cfg.Username,
		UserToken:      auth.SecretDigest(c.cfg.UserToken),
		ServerPassword: auth.SecretDigest(c.cfg.Password),
		Language:       c.cfg.Language,
		ClientName:     c.cfg.ClientName,
		ClientVersion:  c.cfg.ClientVersion,
		SessionType:    "bot",
	}
	userFrame := rornet.NewFrame(rornet.MsgUserInfo, 0, 0, ui.Encode())
	if err := conn.Write(userFrame.Encode()); err != nil {
		return si, ui, fmt.Errorf("send user info: %w", err)
	}

	reply, err = c.readFrame(conn)
	if err != nil {
		return si, ui, fmt.Errorf("read welcome: %w", err)
	}
	if reply.Command != rornet.MsgWelcome {
		return si, ui, classifyWelcome(reply.Command)
	}
	welcomed, err := rornet.DecodeUserInfo(reply.Payload)
	if err != nil {
		return si, ui, fmt.Errorf("decode welcome: %w", err)
	}
	return si, welcomed, nil
}

// errOversizeFrame is the framing error for headers declaring a payload
// beyond MaxPayloadSize. The declared size drives the read buffer, so an
// absurd header must fail before any allocation.
var errOversizeFrame = errors.New("frame payload exceeds maximum size")

// readFrame reads one header and its payload. Zero-size frames issue no
// payload read. io.EOF only ever means a clean close on the header
// boundary; a close between header and payload tears the frame and is
// reported as io.ErrUnexpectedEOF.
func (c *Client) readFrame(conn *transport.Conn) (rornet.Frame, error) {
	hdrBuf := make([]byte, rornet.HeaderSize)
	if err := conn.ReadFull(hdrBuf); err != nil {
		return rornet.Frame{}, err
	}
	hdr, err := rornet.DecodeHeader(hdrBuf)
	if err != nil {
		return rornet.Frame{}, err
	}
	if hdr.Size > rornet.MaxPayloadSize {
		return rornet.Frame{}, fmt.Errorf("%w: command %v declares %d bytes", errOversizeFrame, hdr.Command, hdr.Size)
	}
	var payload []byte
	if hdr.Size > 0 {
		payload = make([]byte, hdr.Size)
		if err := conn.ReadFull(payload); err != nil {
			if errors.Is(err, io.EOF) {
				err = io.ErrUnexpectedEOF
			}
			return rornet.Frame{}, err
		}
	}
	return rornet.Frame{Header: hdr, Payload: payload}, nil
}

// Send encodes and writes the frame. On a client that is not connected it
// is a warn-only no-op, so callers racing a disconnect stay safe. A write
// failure tears the session down the same way a receive failure does.
func (c *Client) Send(f rornet.Frame) error {
	c.mu.Lock()
	conn := c.conn
	connected := c.state == StateConnected
	c.mu.Unlock()

	if !connected || conn == nil {
		c.log.Warn("send on disconnected client dropped", "command", f.Command)
		return nil
	}
	if err := conn.Write(f.Encode()); err != nil {
		c.log.Error("send failed", "command", f.Command, "err", err)
		c.dispatcher.Dispatch(events.Error{Message: err.Error()})
		c.disconnect(false)
		return err
	}
	c.log.Debug("sent frame", "command", f.Command, "size", f.Size)
	return nil
}

// SendChat frames text as a UTF_CHAT message from this client's assigned
// unique id.
func (c *Client) SendChat(text string) error {
	return c.Send(rornet.NewFrame(rornet.MsgUTFChat, c.UniqueID(), 0, []byte(text)))
}

// Disconnect tears the session down: best-effort USER_LEAVE, stop and wait
// for the receive loop, close the transport, raise the disconnect event.
// Idempotent; the second call is a no-op with respect to the socket.
// Must not be called from inside an event handler (the loop delivering that
// event cannot be waited on from within itself).
func (c *Client) Disconnect() {
	c.disconnect(true)
}

// disconnect is the single teardown path. wait controls whether it blocks
// until the receive loop acknowledges termination; the loop itself and the
// send-failure path pass false.
func (c *Client) disconnect(wait bool) {
	c.mu.Lock()
	if c.state == StateDisconnecting || c.state == StateClosed {
		c.mu.Unlock()
		return
	}
	c.state = StateDisconnecting
	conn := c.conn
	stop := c.stop
	loopDone := c.loopDone
	uid := c.uniqueID
	c.mu.Unlock()

	if stop != nil {
		close(stop)
	}

	if conn != nil {
		// Best-effort goodbye; skipped when the wire is already broken.
		leave := rornet.NewFrame(rornet.MsgUserLeave, uid, 0, nil)
		if err := conn.Write(leave.Encode()); err != nil {
			c.log.Debug("user leave not sent", "err", err)
		}
		conn.Close()
	}

	if wait && loopDone != nil {
		<-loopDone
	}

	c.mu.Lock()
	c.state = StateClosed
	c.conn = nil
	c.mu.Unlock()

	c.log.Info("disconnected")
	c.dispatcher.Dispatch(events.Disconnect{})
}

// stopping reports whether teardown has been signaled.
func (c *Client) stopping(stop chan struct{}) bool {
	select {
	case <-stop:
		return true
	default:
		return false
	}
}

// recvLoop is the steady-state read path: one goroutine, the connection's
// only reader. It exits on stop signal, peer close, or read failure, and
// always closes loopDone so Disconnect can await acknowledgment.
func (c *Client) recvLoop(conn *transport.Conn) {
	c.mu.Lock()
	stop := c.stop
	loopDone := c.loopDone
	c.mu.Unlock()
	defer close(loopDone)

	c.log.Debug("receive loop started")
	for {
		frame, err := c.readFrame(conn)
		if err != nil {
			if c.stopping(stop) {
				// Our own disconnect closed the socket under the read.
				return
			}
			switch {
			case errors.Is(err, io.EOF):
				c.log.Info("connection closed by peer")
				c.dispatcher.Dispatch(events.Closed{})
			default:
				c.log.Error("receive failed", "err", err)
				c.dispatcher.Dispatch(events.Error{Message: err.Error()})
			}
			c.disconnect(false)
			return
		}
		c.handleFrame(frame)
	}
}

// protocolEventTags maps the recognized-but-not-processed commands to the
// tag their protocol event carries. Reserved extension points; the core
// frames them and nothing more.
var protocolEventTags = map[rornet.MessageType]string{
	rornet.MsgUserJoin:              "user_join",
	rornet.MsgUserLeave:             "user_leave",
	rornet.MsgStreamRegister:        "stream_register",
	rornet.MsgStreamRegisterResult:  "stream_register_result",
	rornet.MsgStreamUnregister:      "stream_unregister",
	rornet.MsgStreamData:            "stream_data",
	rornet.MsgStreamDataDiscardable: "stream_data_discardable",
	rornet.MsgNetQuality:            "net_quality",
	rornet.MsgUTFPrivateChat:        "private_chat",
}

// handleFrame classifies one inbound frame and raises the matching event.
// Errors local to a single message never tear down the session.
func (c *Client) handleFrame(f rornet.Frame) {
	if !f.Command.Known() {
		c.log.Warn("unknown command ignored", "command", uint32(f.Command))
		return
	}

	if tag, ok := protocolEventTags[f.Command]; ok {
		c.log.Debug("protocol event", "tag", tag, "source", f.Source)
		c.dispatcher.Dispatch(events.Protocol{Tag: tag, Payload: f.Payload})
		return
	}

	switch f.Command {
	case rornet.MsgUTFChat:
		source := f.Source
		if source > rornet.MaxPlayerSource {
			// Sources above the player id range are the server itself.
			source = rornet.SourceSystem
		}
		text := strings.ToValidUTF8(string(f.Payload), "�")
		c.log.Debug("chat message", "source", source, "text", text)
		c.dispatcher.Dispatch(events.Message{Source: source, Text: text})
	default:
		// Known command with no client-side semantics (VERSION,
		// SERVER_SETTINGS, GAME_CMD, ...). Accepted and dropped.
		c.log.Debug("frame ignored", "command", f.Command)
	}
}
