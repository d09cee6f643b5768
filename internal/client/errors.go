package client

import (
	"errors"
	"fmt"

	"github.com/Zentro/RoRServerBot/internal/rornet"
)

var (
	// ErrNotIdle is returned by Connect on a client that already ran a
	// session. Closed is terminal; create a fresh client instead.
	ErrNotIdle = errors.New("client already used")

	// Handshake rejections, matched with errors.Is against the error
	// returned by Connect.
	ErrWrongVersion  = errors.New("wrong protocol version")
	ErrServerFull    = errors.New("server is full")
	ErrBanned        = errors.New("banned from server")
	ErrWrongPassword = errors.New("wrong password")
)

// HandshakeError describes a failed connect attempt, carrying the stage
// that failed and the command the server answered with.
type HandshakeError struct {
	Stage   string // "hello" or "welcome"
	Command rornet.MessageType
	Err     error
}

func (e *HandshakeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("handshake %s: server answered %v: %v", e.Stage, e.Command, e.Err)
	}
	return fmt.Sprintf("handshake %s: unexpected server response %v", e.Stage, e.Command)
}

func (e *HandshakeError) Unwrap() error { return e.Err }

// classifyHello maps a non-HELLO reply to the HELLO frame. Anything but an
// explicit version rejection is an unknown error.
func classifyHello(cmd rornet.MessageType) *HandshakeError {
	he := &HandshakeError{Stage: "hello", Command: cmd}
	if cmd == rornet.MsgWrongVersion || cmd == rornet.MsgWrongVersionLegacy {
		he.Err = ErrWrongVersion
	}
	return he
}

// classifyWelcome maps a non-WELCOME reply to the USER_INFO frame.
func classifyWelcome(cmd rornet.MessageType) *HandshakeError {
	he := &HandshakeError{Stage: "welcome", Command: cmd}
	switch cmd {
	case rornet.MsgFull:
		he.Err = ErrServerFull
	case rornet.MsgBanned:
		he.Err = ErrBanned
	case rornet.MsgWrongPassword:
		he.Err = ErrWrongPassword
	}
	return he
}
