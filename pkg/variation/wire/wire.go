// Package wire implements the two binary activation event layouts shared
// with third-party hosts: the V3 event embedded in the VST3 event stream
// and the legacy V2 vendor-specific event. Field order, widths and type
// tags are part of the binary contract and must not change.
package wire

import (
	"encoding/binary"
	"math"
)

// V3 type tags ('VE' activate, 'VT' terminate).
const (
	V3TypeActivate  uint16 = 0x5645
	V3TypeTerminate uint16 = 0x5654
)

// V2 type tags ('PSVE' activate, 'PSVT' terminate).
const (
	V2TypeActivate  int32 = 0x50535645
	V2TypeTerminate int32 = 0x50535654
)

// Encoded sizes in bytes. V2PayloadSize is the byteSize value a current
// producer writes: the struct size minus the leading type and byteSize
// fields.
const (
	V3EventSize   = 28
	V2EventSize   = 24
	V2PayloadSize = 16
)

// V3Event is the activation/termination request carried in a VST3 event
// stream.
type V3Event struct {
	BusIndex     int32
	SampleOffset int32
	PPQPosition  float64
	Flags        uint16
	Type         uint16 // V3TypeActivate or V3TypeTerminate
	Channel      int32  // -1 applies to all channels of the bus
	VariationID  int32
}

// NewV3Activate returns an activation request for a variation on a unit.
func NewV3Activate(busIndex, channel int32, id int32) V3Event {
	return V3Event{BusIndex: busIndex, Type: V3TypeActivate, Channel: channel, VariationID: id}
}

// NewV3Terminate returns a momentary termination request for a unit.
func NewV3Terminate(busIndex, channel int32) V3Event {
	return V3Event{BusIndex: busIndex, Type: V3TypeTerminate, Channel: channel}
}

func (e V3Event) IsTerminate() bool {
	return e.Type == V3TypeTerminate
}

// AppendTo encodes the event and appends the V3EventSize bytes to dst.
// With sufficient capacity in dst it does not allocate.
func (e V3Event) AppendTo(dst []byte) []byte {
	var buf [V3EventSize]byte
	binary.LittleEndian.PutUint32(buf[0:], uint32(e.BusIndex))
	binary.LittleEndian.PutUint32(buf[4:], uint32(e.SampleOffset))
	binary.LittleEndian.PutUint64(buf[8:], math.Float64bits(e.PPQPosition))
	binary.LittleEndian.PutUint16(buf[16:], e.Flags)
	binary.LittleEndian.PutUint16(buf[18:], e.Type)
	binary.LittleEndian.PutUint32(buf[20:], uint32(e.Channel))
	binary.LittleEndian.PutUint32(buf[24:], uint32(e.VariationID))
	return append(dst, buf[:]...)
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (e V3Event) MarshalBinary() ([]byte, error) {
	return e.AppendTo(nil), nil
}

// DecodeV3 decodes a V3 event from data. ok is false when the buffer is
// too short or the type tag is unknown; unknown tags are skipped rather
// than treated as errors so newer producers remain compatible.
func DecodeV3(data []byte) (e V3Event, ok bool) {
	if len(data) < V3EventSize {
		return V3Event{}, false
	}
	typ := binary.LittleEndian.Uint16(data[18:])
	if typ != V3TypeActivate && typ != V3TypeTerminate {
		return V3Event{}, false
	}
	e.BusIndex = int32(binary.LittleEndian.Uint32(data[0:]))
	e.SampleOffset = int32(binary.LittleEndian.Uint32(data[4:]))
	e.PPQPosition = math.Float64frombits(binary.LittleEndian.Uint64(data[8:]))
	e.Flags = binary.LittleEndian.Uint16(data[16:])
	e.Type = typ
	e.Channel = int32(binary.LittleEndian.Uint32(data[20:]))
	e.VariationID = int32(binary.LittleEndian.Uint32(data[24:]))
	return e, true
}

// V2Event is the legacy vendor-specific activation event. ByteSize is the
// payload size following the two header fields; a current producer writes
// V2PayloadSize. A different value signals an older or newer producer and
// bounds how much of the payload may be read.
type V2Event struct {
	Type        int32 // V2TypeActivate or V2TypeTerminate
	ByteSize    int32
	DeltaFrames int32
	Flags       int32
	Channel     int32 // -1 applies to all channels
	VariationID int32
}

// NewV2Activate returns an activation request with the current payload
// size.
func NewV2Activate(channel, id int32) V2Event {
	return V2Event{Type: V2TypeActivate, ByteSize: V2PayloadSize, Channel: channel, VariationID: id}
}

// NewV2Terminate returns a momentary termination request.
func NewV2Terminate(channel int32) V2Event {
	return V2Event{Type: V2TypeTerminate, ByteSize: V2PayloadSize, Channel: channel}
}

func (e V2Event) IsTerminate() bool {
	return e.Type == V2TypeTerminate
}

// AppendTo encodes the event and appends the V2EventSize bytes to dst.
func (e V2Event) AppendTo(dst []byte) []byte {
	var buf [V2EventSize]byte
	binary.LittleEndian.PutUint32(buf[0:], uint32(e.Type))
	binary.LittleEndian.PutUint32(buf[4:], uint32(e.ByteSize))
	binary.LittleEndian.PutUint32(buf[8:], uint32(e.DeltaFrames))
	binary.LittleEndian.PutUint32(buf[12:], uint32(e.Flags))
	binary.LittleEndian.PutUint32(buf[16:], uint32(e.Channel))
	binary.LittleEndian.PutUint32(buf[20:], uint32(e.VariationID))
	return append(dst, buf[:]...)
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (e V2Event) MarshalBinary() ([]byte, error) {
	return e.AppendTo(nil), nil
}

// DecodeV2 decodes a V2 event from data. It honors the declared ByteSize:
// a payload shorter than the statically known layout (an older producer)
// is skipped, a longer one (a newer producer) is read only up to the
// known fields. consumed reports the full declared extent of the event so
// a caller can step over trailing fields it does not understand; it is 0
// when ok is false and the buffer did not contain a well-formed event.
func DecodeV2(data []byte) (e V2Event, consumed int, ok bool) {
	if len(data) < 8 {
		return V2Event{}, 0, false
	}
	typ := int32(binary.LittleEndian.Uint32(data[0:]))
	byteSize := int32(binary.LittleEndian.Uint32(data[4:]))
	if byteSize < 0 || int(byteSize) > len(data)-8 {
		return V2Event{}, 0, false
	}
	consumed = 8 + int(byteSize)
	if typ != V2TypeActivate && typ != V2TypeTerminate {
		// Unknown tag: not an error, skip the declared extent.
		return V2Event{}, consumed, false
	}
	if byteSize < V2PayloadSize {
		// Older producer without the fields we need.
		return V2Event{}, consumed, false
	}
	e.Type = typ
	e.ByteSize = byteSize
	e.DeltaFrames = int32(binary.LittleEndian.Uint32(data[8:]))
	e.Flags = int32(binary.LittleEndian.Uint32(data[12:]))
	e.Channel = int32(binary.LittleEndian.Uint32(data[16:]))
	e.VariationID = int32(binary.LittleEndian.Uint32(data[20:]))
	return e, consumed, true
}
