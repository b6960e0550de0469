package midi

import (
	"strings"
	"testing"
)

func TestEventTypes(t *testing.T) {
	tests := []struct {
		event Event
		typ   EventType
	}{
		{NoteOnEvent{NoteNumber: 60, Velocity: 100}, EventTypeNoteOn},
		{NoteOffEvent{NoteNumber: 60}, EventTypeNoteOff},
		{ControlChangeEvent{Controller: 64, Value: 127}, EventTypeControlChange},
		{ProgramChangeEvent{Program: 5}, EventTypeProgramChange},
		{PitchBendEvent{Value: -8192}, EventTypePitchBend},
	}

	for _, tt := range tests {
		if tt.event.Type() != tt.typ {
			t.Errorf("%s: Type() = %v, want %v", tt.event.String(), tt.event.Type(), tt.typ)
		}
	}
}

func TestEventAccessors(t *testing.T) {
	ev := NoteOnEvent{
		BaseEvent:  BaseEvent{EventChannel: 9, Offset: 480},
		NoteNumber: 36,
		Velocity:   100,
	}
	if ev.Channel() != 9 {
		t.Errorf("Channel = %d, want 9", ev.Channel())
	}
	if ev.SampleOffset() != 480 {
		t.Errorf("SampleOffset = %d, want 480", ev.SampleOffset())
	}
	if !strings.Contains(ev.String(), "note:36") {
		t.Errorf("String = %q", ev.String())
	}
}

func TestNoteNumberToName(t *testing.T) {
	tests := []struct {
		note uint8
		want string
	}{
		{0, "C-1"},
		{60, "C4"},
		{61, "C#4"},
		{69, "A4"},
		{127, "G9"},
	}
	for _, tt := range tests {
		if got := NoteNumberToName(tt.note); got != tt.want {
			t.Errorf("NoteNumberToName(%d) = %q, want %q", tt.note, got, tt.want)
		}
	}
}
