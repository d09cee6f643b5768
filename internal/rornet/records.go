package rornet

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"strings"
)

// ErrRecordSize is returned when a buffer does not exactly match a record's
// fixed wire size. The length check always happens before any field is
// interpreted.
var ErrRecordSize = errors.New("wrong record size")

// Fixed record sizes, declaration order of the fields is part of the wire
// contract.
const (
	UserInfoSize            = 4 + 4 + 4 + 4 + 40 + 40 + 40 + 10 + 10 + 25 + 40 + 10 + 128 // 359
	ServerInfoSize          = 20 + 128 + 128 + 1 + 4096                                   // 4373
	StreamRegisterSize      = 4 + 4 + 4 + 4 + 128 + 128                                   // 272
	ActorStreamRegisterSize = 4 + 4 + 4 + 4 + 128 + 4 + 4 + 60 + 60                       // 272
	StreamUnregisterSize    = 4
	VehicleStateSize        = 4 + 4 + 4 + 4 + 4 + 4 + 4 + 4 + 4 // 36
)

// putText writes s into the fixed-width field dst: UTF-8 encoded, truncated
// to the field width, right-padded with NUL bytes (dst arrives zeroed).
func putText(dst []byte, s string) {
	copy(dst, s)
}

// getText decodes a fixed-width text field: trailing NUL padding stripped,
// invalid UTF-8 sequences replaced. Never fails on malformed text.
func getText(b []byte) string {
	s := strings.TrimRight(string(b), "\x00")
	return strings.ToValidUTF8(s, "�")
}

func sizeErr(record string, want, got int) error {
	return fmt.Errorf("%s: %w: expected %d bytes, got %d", record, ErrRecordSize, want, got)
}

// UserInfo describes a client identity. Sent once during the handshake with
// UserToken and ServerPassword holding secret digests (see the auth
// package); the server echoes back an enriched copy carrying the assigned
// unique id, slot and colour.
type UserInfo struct {
	UniqueID       uint32
	AuthStatus     int32
	SlotNum        int32
	ColourNum      int32
	Username       string
	UserToken      string
	ServerPassword string
	Language       string
	ClientName     string
	ClientVersion  string
	ClientGUID     string
	SessionType    string
	SessionOptions string
}

// Encode packs u into its 359-byte wire form.
func (u *UserInfo) Encode() []byte {
	buf := make([]byte, UserInfoSize)
	binary.LittleEndian.PutUint32(buf[0:4], u.UniqueID)
	binary.LittleEndian.PutUint32(buf[4:8], uint32(u.AuthStatus))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(u.SlotNum))
	binary.LittleEndian.PutUint32(buf[12:16], uint32(u.ColourNum))
	putText(buf[16:56], u.Username)
	putText(buf[56:96], u.UserToken)
	putText(buf[96:136], u.ServerPassword)
	putText(buf[136:146], u.Language)
	putText(buf[146:156], u.ClientName)
	putText(buf[156:181], u.ClientVersion)
	putText(buf[181:221], u.ClientGUID)
	putText(buf[221:231], u.SessionType)
	putText(buf[231:359], u.SessionOptions)
	return buf
}

// DecodeUserInfo unpacks a 359-byte UserInfo record.
func DecodeUserInfo(b []byte) (UserInfo, error) {
	if len(b) != UserInfoSize {
		return UserInfo{}, sizeErr("user info", UserInfoSize, len(b))
	}
	return UserInfo{
		UniqueID:       binary.LittleEndian.Uint32(b[0:4]),
		AuthStatus:     int32(binary.LittleEndian.Uint32(b[4:8])),
		SlotNum:        int32(binary.LittleEndian.Uint32(b[8:12])),
		ColourNum:      int32(binary.LittleEndian.Uint32(b[12:16])),
		Username:       getText(b[16:56]),
		UserToken:      getText(b[56:96]),
		ServerPassword: getText(b[96:136]),
		Language:       getText(b[136:146]),
		ClientName:     getText(b[146:156]),
		ClientVersion:  getText(b[156:181]),
		ClientGUID:     getText(b[181:221]),
		SessionType:    getText(b[221:231]),
		SessionOptions: getText(b[231:359]),
	}, nil
}

// ServerInfo is the peer's identity and capabilities, received once as the
// HELLO response payload and immutable for the life of the session.
type ServerInfo struct {
	ProtocolVersion string
	Terrain         string
	ServerName      string
	HasPassword     bool
	Info            string
}

// Encode packs s into its 4373-byte wire form.
func (s *ServerInfo) Encode() []byte {
	buf := make([]byte, ServerInfoSize)
	putText(buf[0:20], s.ProtocolVersion)
	putText(buf[20:148], s.Terrain)
	putText(buf[148:276], s.ServerName)
	if s.HasPassword {
		buf[276] = 1
	}
	putText(buf[277:4373], s.Info)
	return buf
}

// DecodeServerInfo unpacks a 4373-byte ServerInfo record.
func DecodeServerInfo(b []byte) (ServerInfo, error) {
	if len(b) != ServerInfoSize {
		return ServerInfo{}, sizeErr("server info", ServerInfoSize, len(b))
	}
	return ServerInfo{
		ProtocolVersion: getText(b[0:20]),
		Terrain:         getText(b[20:148]),
		ServerName:      getText(b[148:276]),
		HasPassword:     b[276] != 0,
		Info:            getText(b[277:4373]),
	}, nil
}

// StreamRegister announces a peer sub-channel. Recognized and framed but
// not semantically processed by this client.
type StreamRegister struct {
	Type           int32
	Status         int32
	OriginSourceID int32
	OriginStreamID int32
	Name           string
	Data           string
}

func (s *StreamRegister) Encode() []byte {
	buf := make([]byte, StreamRegisterSize)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(s.Type))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(s.Status))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(s.OriginSourceID))
	binary.LittleEndian.PutUint32(buf[12:16], uint32(s.OriginStreamID))
	putText(buf[16:144], s.Name)
	putText(buf[144:272], s.Data)
	return buf
}

func DecodeStreamRegister(b []byte) (StreamRegister, error) {
	if len(b) != StreamRegisterSize {
		return StreamRegister{}, sizeErr("stream register", StreamRegisterSize, len(b))
	}
	return StreamRegister{
		Type:           int32(binary.LittleEndian.Uint32(b[0:4])),
		Status:         int32(binary.LittleEndian.Uint32(b[4:8])),
		OriginSourceID: int32(binary.LittleEndian.Uint32(b[8:12])),
		OriginStreamID: int32(binary.LittleEndian.Uint32(b[12:16])),
		Name:           getText(b[16:144]),
		Data:           getText(b[144:272]),
	}, nil
}

// ActorStreamRegister is the actor-specific stream announcement.
type ActorStreamRegister struct {
	Type           int32
	Status         int32
	OriginSourceID int32
	OriginStreamID int32
	Name           string
	BufferSize     int32
	Time           int32
	Skin           string
	SectionConfig  string
}

func (a *ActorStreamRegister) Encode() []byte {
	buf := make([]byte, ActorStreamRegisterSize)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(a.Type))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(a.Status))
	binary.LittleEndian.PutUint32(buf[8:12], uint32(a.OriginSourceID))
	binary.LittleEndian.PutUint32(buf[12:16], uint32(a.OriginStreamID))
	putText(buf[16:144], a.Name)
	binary.LittleEndian.PutUint32(buf[144:148], uint32(a.BufferSize))
	binary.LittleEndian.PutUint32(buf[148:152], uint32(a.Time))
	putText(buf[152:212], a.Skin)
	putText(buf[212:272], a.SectionConfig)
	return buf
}

func DecodeActorStreamRegister(b []byte) (ActorStreamRegister, error) {
	if len(b) != ActorStreamRegisterSize {
		return ActorStreamRegister{}, sizeErr("actor stream register", ActorStreamRegisterSize, len(b))
	}
	return ActorStreamRegister{
		Type:           int32(binary.LittleEndian.Uint32(b[0:4])),
		Status:         int32(binary.LittleEndian.Uint32(b[4:8])),
		OriginSourceID: int32(binary.LittleEndian.Uint32(b[8:12])),
		OriginStreamID: int32(binary.LittleEndian.Uint32(b[12:16])),
		Name:           getText(b[16:144]),
		BufferSize:     int32(binary.LittleEndian.Uint32(b[144:148])),
		Time:           int32(binary.LittleEndian.Uint32(b[148:152])),
		Skin:           getText(b[152:212]),
		SectionConfig:  getText(b[212:272]),
	}, nil
}

// StreamUnregister withdraws a previously registered stream.
type StreamUnregister struct {
	StreamID uint32
}

func (s *StreamUnregister) Encode() []byte {
	buf := make([]byte, StreamUnregisterSize)
	binary.LittleEndian.PutUint32(buf, s.StreamID)
	return buf
}

func DecodeStreamUnregister(b []byte) (StreamUnregister, error) {
	if len(b) != StreamUnregisterSize {
		return StreamUnregister{}, sizeErr("stream unregister", StreamUnregisterSize, len(b))
	}
	return StreamUnregister{StreamID: binary.LittleEndian.Uint32(b)}, nil
}

// VehicleState is the fixed prefix of a stream-data payload. Framed only;
// this client never simulates vehicles.
type VehicleState struct {
	Time         int32
	EngineSpeed  float32
	EngineForce  float32
	EngineClutch float32
	EngineGear   int32
	HydroDir     float32
	Brake        float32
	WheelSpeed   float32
	FlagMask     uint32
}

func (v *VehicleState) Encode() []byte {
	buf := make([]byte, VehicleStateSize)
	binary.LittleEndian.PutUint32(buf[0:4], uint32(v.Time))
	binary.LittleEndian.PutUint32(buf[4:8], math.Float32bits(v.EngineSpeed))
	binary.LittleEndian.PutUint32(buf[8:12], math.Float32bits(v.EngineForce))
	binary.LittleEndian.PutUint32(buf[12:16], math.Float32bits(v.EngineClutch))
	binary.LittleEndian.PutUint32(buf[16:20], uint32(v.EngineGear))
	binary.LittleEndian.PutUint32(buf[20:24], math.Float32bits(v.HydroDir))
	binary.LittleEndian.PutUint32(buf[24:28], math.Float32bits(v.Brake))
	binary.LittleEndian.PutUint32(buf[28:32], math.Float32bits(v.WheelSpeed))
	binary.LittleEndian.PutUint32(buf[32:36], v.FlagMask)
	return buf
}

func DecodeVehicleState(b []byte) (VehicleState, error) {
	if len(b) != VehicleStateSize {
		return VehicleState{}, sizeErr("vehicle state", VehicleStateSize, len(b))
	}
	return VehicleState{
		Time:         int32(binary.LittleEndian.Uint32(b[0:4])),
		EngineSpeed:  math.Float32frombits(binary.LittleEndian.Uint32(b[4:8])),
		EngineForce:  math.Float32frombits(binary.LittleEndian.Uint32(b[8:12])),
		EngineClutch: math.Float32frombits(binary.LittleEndian.Uint32(b[12:16])),
		EngineGear:   int32(binary.LittleEndian.Uint32(b[16:20])),
		HydroDir:     math.Float32frombits(binary.LittleEndian.Uint32(b[20:24])),
		Brake:        math.Float32frombits(binary.LittleEndian.Uint32(b[24:28])),
		WheelSpeed:   math.Float32frombits(binary.LittleEndian.Uint32(b[28:32])),
		FlagMask:     binary.LittleEndian.Uint32(b[32:36]),
	}, nil
}
