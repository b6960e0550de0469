package engine

import (
	"github.com/justyntemme/soundvar/pkg/midi"
	"github.com/justyntemme/soundvar/pkg/variation"
)

// trigger is one registered activation sequence, precomputed from the
// published snapshot so the audio path only touches immutable data plus
// its own progress counters.
type trigger struct {
	id        variation.VariationID
	momentary bool
	items     []variation.SequenceItem
}

func buildTriggers(snap *variation.Snapshot) []trigger {
	vars := snap.Variations()
	out := make([]trigger, 0, len(vars))
	for i := range vars {
		seq := &vars[i].ActivationSequence
		if seq.Len() == 0 {
			continue
		}
		items := make([]variation.SequenceItem, seq.Len())
		copy(items, seq.Items())
		out = append(out, trigger{
			id:        vars[i].ID,
			momentary: vars[i].IsMomentary(),
			items:     items,
		})
	}
	return out
}

// matchEvent advances every registered sequence against one performance
// event and returns the index of the trigger to fire, or -1.
//
// Rules:
//   - An event matching the next expected item advances that sequence.
//   - A mismatching note-on, controller or program change restarts the
//     sequence; the interrupting event is immediately re-tested against
//     the first item so overlapping attempts are not lost.
//   - Note-offs never restart progress: released key switches between the
//     steps of a multi-event sequence are part of normal playing. They
//     only advance explicit note-off items.
//   - Untracked kinds (pitch bend etc.) are transparent.
//
// When several sequences complete on the same event the longest wins;
// ties fall to registration order. All progress restarts after a fire.
func (us *unitState) matchEvent(ev midi.Event) int {
	if !tracked(ev) {
		return -1
	}

	best := -1
	bestLen := 0
	for i := range us.triggers {
		t := &us.triggers[i]
		p := int(us.progress[i])

		if itemMatches(t.items[p], ev) {
			p++
		} else if restarts(ev) {
			p = 0
			if itemMatches(t.items[0], ev) {
				p = 1
			}
		}

		if p == len(t.items) {
			p = 0
			if len(t.items) > bestLen {
				best = i
				bestLen = len(t.items)
			}
		}
		us.progress[i] = uint8(p)
	}

	if best >= 0 {
		for i := range us.progress {
			us.progress[i] = 0
		}
	}
	return best
}

func tracked(ev midi.Event) bool {
	switch ev.Type() {
	case midi.EventTypeNoteOn, midi.EventTypeNoteOff,
		midi.EventTypeControlChange, midi.EventTypeProgramChange:
		return true
	default:
		return false
	}
}

func restarts(ev midi.Event) bool {
	return ev.Type() != midi.EventTypeNoteOff
}

func itemMatches(item variation.SequenceItem, ev midi.Event) bool {
	switch item.Type {
	case variation.ItemNote, variation.ItemNoteOn:
		on, ok := ev.(midi.NoteOnEvent)
		return ok && variation.Pitch(on.NoteNumber) == item.Pitch
	case variation.ItemNoteOff:
		off, ok := ev.(midi.NoteOffEvent)
		return ok && variation.Pitch(off.NoteNumber) == item.Pitch
	case variation.ItemControl:
		cc, ok := ev.(midi.ControlChangeEvent)
		return ok && variation.CCNumber(cc.Controller) == item.Number &&
			variation.CCValue(cc.Value) == item.Value
	case variation.ItemProgramChange:
		pc, ok := ev.(midi.ProgramChangeEvent)
		return ok && variation.CCValue(pc.Program) == item.Value
	default:
		return false
	}
}
