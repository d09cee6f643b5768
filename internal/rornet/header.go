package rornet

import (
	"encoding/binary"
	"fmt"
)

// HeaderSize is the fixed size of every frame header:
// command u32, source i32, stream id u32, payload size u32.
const HeaderSize = 16

// Header is the fixed 16-byte prefix of every frame. Source is signed on
// the application side but travels as its unsigned two's-complement bit
// pattern; the int32 conversion on decode restores negative values.
type Header struct {
	Command  MessageType
	Source   int32
	StreamID uint32
	Size     uint32
}

// Frame is one self-delimited protocol message. Payload is kept as raw
// bytes; text decoding happens only where a command's semantics require it.
type Frame struct {
	Header
	Payload []byte
}

// EncodeHeader packs h into its 16-byte wire form.
func EncodeHeader(h Header) [HeaderSize]byte {
	var buf [HeaderSize]byte
	binary.LittleEndian.PutUint32(buf[0:4], uint32(h.Command))
	binary.LittleEndian.PutUint32(buf[4:8], uint32(h.Source))
	binary.LittleEndian.PutUint32(buf[8:12], h.StreamID)
	binary.LittleEndian.PutUint32(buf[12:16], h.Size)
	return buf
}

// DecodeHeader unpacks a 16-byte header. The buffer must be exactly
// HeaderSize bytes.
func DecodeHeader(b []byte) (Header, error) {
	if len(b) != HeaderSize {
		return Header{}, fmt.Errorf("header: %w: expected %d bytes, got %d", ErrRecordSize, HeaderSize, len(b))
	}
	return Header{
		Command:  MessageType(binary.LittleEndian.Uint32(b[0:4])),
		Source:   int32(binary.LittleEndian.Uint32(b[4:8])),
		StreamID: binary.LittleEndian.Uint32(b[8:12]),
		Size:     binary.LittleEndian.Uint32(b[12:16]),
	}, nil
}

// NewFrame builds a frame whose Size matches the payload length.
func NewFrame(command MessageType, source int32, streamID uint32, payload []byte) Frame {
	return Frame{
		Header: Header{
			Command:  command,
			Source:   source,
			StreamID: streamID,
			Size:     uint32(len(payload)),
		},
		Payload: payload,
	}
}

// Encode returns the frame's full wire form: header immediately followed by
// the payload, no padding, no terminator.
func (f Frame) Encode() []byte {
	hdr := EncodeHeader(f.Header)
	out := make([]byte, 0, HeaderSize+len(f.Payload))
	out = append(out, hdr[:]...)
	return append(out, f.Payload...)
}
