package rornet

import (
	"errors"
	"strings"
	"testing"
)

func TestUserInfoRoundTrip(t *testing.T) {
	original := UserInfo{
		UniqueID:       42,
		AuthStatus:     int32(AuthBot),
		SlotNum:        -1,
		ColourNum:      3,
		Username:       "RoRBot",
		UserToken:      strings.Repeat("A", 40),
		ServerPassword: strings.Repeat("B", 40),
		Language:       "en-US",
		ClientName:     "rorbot",
		ClientVersion:  "2.0.0",
		ClientGUID:     "",
		SessionType:    "bot",
		SessionOptions: "",
	}
	wire := original.Encode()
	if len(wire) != UserInfoSize {
		t.Fatalf("encoded length = %d, want %d", len(wire), UserInfoSize)
	}
	decoded, err := DecodeUserInfo(wire)
	if err != nil {
		t.Fatal(err)
	}
	if decoded != original {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", decoded, original)
	}
}

func TestUserInfoTruncatesLongFields(t *testing.T) {
	u := UserInfo{Username: strings.Repeat("x", 60), Language: "en-US-oversized"}
	decoded, err := DecodeUserInfo(u.Encode())
	if err != nil {
		t.Fatal(err)
	}
	if got, want := decoded.Username, strings.Repeat("x", 40); got != want {
		t.Fatalf("username = %q (%d bytes), want %d-byte truncation", got, len(got), len(want))
	}
	if got := decoded.Language; got != "en-US-over" {
		t.Fatalf("language = %q, want deterministic 10-byte truncation", got)
	}
}

func TestServerInfoRoundTrip(t *testing.T) {
	original := ServerInfo{
		ProtocolVersion: ProtocolVersion,
		Terrain:         "simple2",
		ServerName:      "Test Server",
		HasPassword:     true,
		Info:            "a RoR server",
	}
	wire := original.Encode()
	if len(wire) != ServerInfoSize {
		t.Fatalf("encoded length = %d, want %d", len(wire), ServerInfoSize)
	}
	decoded, err := DecodeServerInfo(wire)
	if err != nil {
		t.Fatal(err)
	}
	if decoded != original {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", decoded, original)
	}
}

func TestDecodeRecordWrongLength(t *testing.T) {
	if _, err := DecodeUserInfo(make([]byte, UserInfoSize-1)); !errors.Is(err, ErrRecordSize) {
		t.Fatalf("user info: got %v, want ErrRecordSize", err)
	}
	if _, err := DecodeServerInfo(make([]byte, ServerInfoSize+1)); !errors.Is(err, ErrRecordSize) {
		t.Fatalf("server info: got %v, want ErrRecordSize", err)
	}
	if _, err := DecodeStreamRegister(nil); !errors.Is(err, ErrRecordSize) {
		t.Fatalf("stream register: got %v, want ErrRecordSize", err)
	}
}

func TestDecodeTextReplacesInvalidUTF8(t *testing.T) {
	wire := make([]byte, ServerInfoSize)
	copy(wire[148:], []byte{0xff, 0xfe, 'o', 'k'})
	decoded, err := DecodeServerInfo(wire)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasSuffix(decoded.ServerName, "ok") || !strings.ContainsRune(decoded.ServerName, '�') {
		t.Fatalf("server name = %q, want replacement runes then %q", decoded.ServerName, "ok")
	}
}

func TestStreamRegisterRoundTrip(t *testing.T) {
	original := StreamRegister{
		Type:           0,
		Status:         -1,
		OriginSourceID: 12,
		OriginStreamID: 4,
		Name:           "truck.truck",
		Data:           "cfg",
	}
	decoded, err := DecodeStreamRegister(original.Encode())
	if err != nil {
		t.Fatal(err)
	}
	if decoded != original {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", decoded, original)
	}
}

func TestActorStreamRegisterRoundTrip(t *testing.T) {
	original := ActorStreamRegister{
		Type:           1,
		Status:         0,
		OriginSourceID: 5,
		OriginStreamID: 2,
		Name:           "dumper.truck",
		BufferSize:     512,
		Time:           1234,
		Skin:           "default",
		SectionConfig:  "",
	}
	decoded, err := DecodeActorStreamRegister(original.Encode())
	if err != nil {
		t.Fatal(err)
	}
	if decoded != original {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", decoded, original)
	}
}

func TestVehicleStateRoundTrip(t *testing.T) {
	original := VehicleState{
		Time:         100,
		EngineSpeed:  1500.5,
		EngineForce:  0.75,
		EngineClutch: 1,
		EngineGear:   -1,
		HydroDir:     -0.25,
		Brake:        0.5,
		WheelSpeed:   22.2,
		FlagMask:     0xDEADBEEF,
	}
	decoded, err := DecodeVehicleState(original.Encode())
	if err != nil {
		t.Fatal(err)
	}
	if decoded != original {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", decoded, original)
	}
}

func TestMessageTypeKnown(t *testing.T) {
	for _, m := range []MessageType{MsgInvalid, MsgWrongVersionLegacy, MsgHello, MsgStreamDataDiscardable} {
		if !m.Known() {
			t.Fatalf("%v should be known", m)
		}
	}
	for _, m := range []MessageType{1, 1024, 1046, 9999} {
		if m.Known() {
			t.Fatalf("%v should be unknown", m)
		}
	}
}
