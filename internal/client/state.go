package client

// State is the session lifecycle phase. Transitions only move forward:
// Idle -> Handshaking -> Connected -> Disconnecting -> Closed, with
// Handshaking and Connected allowed to jump to Closed through the
// disconnect path on failure. Closed is terminal; a new connection needs a
// fresh Client.
type State int32

const (
	StateIdle State = iota
	StateHandshaking
	StateConnected
	StateDisconnecting
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateHandshaking:
		return "handshaking"
	case StateConnected:
		return "connected"
	case StateDisconnecting:
		return "disconnecting"
	case StateClosed:
		return "closed"
	default:
		return "unknown"
	}
}
