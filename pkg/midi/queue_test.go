package midi

import (
	"testing"
)

func queueWithOffsets(offsets ...int32) *EventQueue {
	q := NewEventQueue()
	for _, off := range offsets {
		q.Add(NoteOnEvent{BaseEvent: BaseEvent{Offset: off}, NoteNumber: 60, Velocity: 100})
	}
	return q
}

func TestQueueSortsBySampleOffset(t *testing.T) {
	q := queueWithOffsets(300, 100, 200)

	events := q.GetAllEvents()
	if len(events) != 3 {
		t.Fatalf("Expected 3 events, got %d", len(events))
	}
	for i, want := range []int32{100, 200, 300} {
		if events[i].SampleOffset() != want {
			t.Errorf("Event %d offset = %d, want %d", i, events[i].SampleOffset(), want)
		}
	}
}

func TestQueueRangeQueries(t *testing.T) {
	q := queueWithOffsets(0, 63, 64, 127, 128)

	// [start, end) block semantics.
	events := q.GetEventsInRange(64, 128)
	if len(events) != 2 {
		t.Fatalf("Expected 2 events in [64,128), got %d", len(events))
	}
	if events[0].SampleOffset() != 64 || events[1].SampleOffset() != 127 {
		t.Errorf("Wrong events: %v", events)
	}

	if events := q.GetEventsInRange(500, 600); events != nil {
		t.Errorf("Expected nil past the end, got %v", events)
	}
}

func TestQueueRemoveProcessedEvents(t *testing.T) {
	q := queueWithOffsets(10, 20, 30)

	q.RemoveProcessedEvents(20)
	if q.Size() != 1 {
		t.Fatalf("Expected 1 event left, got %d", q.Size())
	}
	if q.GetAllEvents()[0].SampleOffset() != 30 {
		t.Error("Wrong event kept")
	}
}

func TestQueueClear(t *testing.T) {
	q := queueWithOffsets(1, 2)
	q.Clear()
	if !q.IsEmpty() {
		t.Error("Expected empty queue after Clear")
	}
}

func TestQueueStableOrderForEqualOffsets(t *testing.T) {
	q := NewEventQueue()
	q.Add(NoteOnEvent{BaseEvent: BaseEvent{Offset: 5}, NoteNumber: 1, Velocity: 1})
	q.Add(NoteOffEvent{BaseEvent: BaseEvent{Offset: 5}, NoteNumber: 1})

	events := q.GetAllEvents()
	if events[0].Type() != EventTypeNoteOn || events[1].Type() != EventTypeNoteOff {
		t.Error("Equal-offset events reordered")
	}
}

type collectingProcessor struct {
	offsets []int32
}

func (p *collectingProcessor) ProcessEvent(event Event) {
	p.offsets = append(p.offsets, event.SampleOffset())
}

func TestQueueProcessEvents(t *testing.T) {
	q := queueWithOffsets(40, 10, 90)

	var p collectingProcessor
	q.ProcessEvents(&p, 0, 64)

	if len(p.offsets) != 2 || p.offsets[0] != 10 || p.offsets[1] != 40 {
		t.Errorf("Processed offsets = %v, want [10 40]", p.offsets)
	}
}
