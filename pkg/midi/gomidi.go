package midi

import (
	gomidi "gitlab.com/gomidi/midi/v2"
)

// FromMessage translates a gomidi wire message into an engine event.
// Message kinds the engine does not consume (aftertouch, sysex, clock)
// return ok=false and are dropped by the caller.
func FromMessage(msg gomidi.Message, sampleOffset int32) (Event, bool) {
	var (
		channel    uint8
		key        uint8
		velocity   uint8
		controller uint8
		value      uint8
		program    uint8
		relative   int16
		absolute   uint16
	)

	switch {
	case msg.GetNoteOn(&channel, &key, &velocity):
		// Running status note-on with velocity 0 is a note-off.
		if velocity == 0 {
			return NoteOffEvent{
				BaseEvent:  BaseEvent{EventChannel: channel, Offset: sampleOffset},
				NoteNumber: key,
			}, true
		}
		return NoteOnEvent{
			BaseEvent:  BaseEvent{EventChannel: channel, Offset: sampleOffset},
			NoteNumber: key,
			Velocity:   velocity,
		}, true
	case msg.GetNoteOff(&channel, &key, &velocity):
		return NoteOffEvent{
			BaseEvent:  BaseEvent{EventChannel: channel, Offset: sampleOffset},
			NoteNumber: key,
			Velocity:   velocity,
		}, true
	case msg.GetControlChange(&channel, &controller, &value):
		return ControlChangeEvent{
			BaseEvent:  BaseEvent{EventChannel: channel, Offset: sampleOffset},
			Controller: controller,
			Value:      value,
		}, true
	case msg.GetProgramChange(&channel, &program):
		return ProgramChangeEvent{
			BaseEvent: BaseEvent{EventChannel: channel, Offset: sampleOffset},
			Program:   program,
		}, true
	case msg.GetPitchBend(&channel, &relative, &absolute):
		return PitchBendEvent{
			BaseEvent: BaseEvent{EventChannel: channel, Offset: sampleOffset},
			Value:     relative,
		}, true
	}

	return nil, false
}
