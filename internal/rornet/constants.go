// Package rornet implements the RoRnet wire format: the 16-byte frame
// header and the fixed-layout records exchanged during and after the
// handshake. The codec is pure transform — no I/O.
//
// All multi-byte integers are little-endian. The reference implementation
// packed with the host's native order; this implementation pins
// little-endian as the protocol's byte order, for header and records alike.
package rornet

// ProtocolVersion is the version string sent as the HELLO payload.
const ProtocolVersion = "RoRnet_2.44"

// MaxPayloadSize is the largest payload a frame may declare. It bounds the
// per-frame read buffer; ServerInfo, the biggest fixed record, fits well
// under it. Headers declaring more are a framing error.
const MaxPayloadSize = 8192

// MessageType identifies a frame's command.
type MessageType uint32

const (
	MsgInvalid               MessageType = 0
	MsgWrongVersionLegacy    MessageType = 1003
	MsgHello                 MessageType = 1025
	MsgFull                  MessageType = 1026
	MsgWrongPassword         MessageType = 1027
	MsgWrongVersion          MessageType = 1028
	MsgBanned                MessageType = 1029
	MsgWelcome               MessageType = 1030
	MsgVersion               MessageType = 1031
	MsgServerSettings        MessageType = 1032
	MsgUserInfo              MessageType = 1033
	MsgMasterInfo            MessageType = 1034
	MsgNetQuality            MessageType = 1035
	MsgGameCmd               MessageType = 1036
	MsgUserJoin              MessageType = 1037
	MsgUserLeave             MessageType = 1038
	MsgUTFChat               MessageType = 1039
	MsgUTFPrivateChat        MessageType = 1040
	MsgStreamRegister        MessageType = 1041
	MsgStreamRegisterResult  MessageType = 1042
	MsgStreamUnregister      MessageType = 1043
	MsgStreamData            MessageType = 1044
	MsgStreamDataDiscardable MessageType = 1045
)

func (m MessageType) String() string {
	switch m {
	case MsgInvalid:
		return "INVALID"
	case MsgWrongVersionLegacy:
		return "WRONG_VERSION_LEGACY"
	case MsgHello:
		return "HELLO"
	case MsgFull:
		return "FULL"
	case MsgWrongPassword:
		return "WRONG_PASSWORD"
	case MsgWrongVersion:
		return "WRONG_VERSION"
	case MsgBanned:
		return "BANNED"
	case MsgWelcome:
		return "WELCOME"
	case MsgVersion:
		return "VERSION"
	case MsgServerSettings:
		return "SERVER_SETTINGS"
	case MsgUserInfo:
		return "USER_INFO"
	case MsgMasterInfo:
		return "MASTER_INFO"
	case MsgNetQuality:
		return "NET_QUALITY"
	case MsgGameCmd:
		return "GAME_CMD"
	case MsgUserJoin:
		return "USER_JOIN"
	case MsgUserLeave:
		return "USER_LEAVE"
	case MsgUTFChat:
		return "UTF_CHAT"
	case MsgUTFPrivateChat:
		return "UTF_PRIVATE_CHAT"
	case MsgStreamRegister:
		return "STREAM_REGISTER"
	case MsgStreamRegisterResult:
		return "STREAM_REGISTER_RESULT"
	case MsgStreamUnregister:
		return "STREAM_UNREGISTER"
	case MsgStreamData:
		return "STREAM_DATA"
	case MsgStreamDataDiscardable:
		return "STREAM_DATA_DISCARDABLE"
	default:
		return "unknown"
	}
}

// Known reports whether m is part of the RoRnet command enumeration.
// Frames carrying commands outside the enumeration are logged and ignored
// by the receive loop, never treated as fatal.
func (m MessageType) Known() bool {
	if m == MsgInvalid || m == MsgWrongVersionLegacy {
		return true
	}
	return m >= MsgHello && m <= MsgStreamDataDiscardable
}

// UserAuth is the bitmask carried in UserInfo.AuthStatus.
type UserAuth int32

const (
	AuthNone   UserAuth = 0
	AuthAdmin  UserAuth = 1 << 0
	AuthRanked UserAuth = 1 << 1
	AuthMod    UserAuth = 1 << 2
	AuthBot    UserAuth = 1 << 3
	AuthBanned UserAuth = 1 << 4
)

// SourceSystem is the sentinel source id for server/system chat messages.
// Chat frames whose nominal source exceeds MaxPlayerSource are remapped to
// it before the message event fires.
const (
	SourceSystem    int32 = -1
	MaxPlayerSource int32 = 100000
)
