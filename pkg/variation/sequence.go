package variation

import (
	"fmt"
)

// MaxSequenceItems is the hard capacity of an activation sequence.
const MaxSequenceItems = 8

// ItemType discriminates the tagged variants of a sequence item.
type ItemType int32

const (
	// ItemNote asks the host to send a note-on followed by a note-off.
	// The note-off is either ignored by the plug-in or terminates a
	// momentary variation.
	ItemNote ItemType = iota
	// ItemNoteOn is a single note-on event.
	ItemNoteOn
	// ItemNoteOff is a single note-off event.
	ItemNoteOff
	// ItemControl is a controller event.
	ItemControl
	// ItemProgramChange is a program change event.
	ItemProgramChange
)

// SequenceItem is one step of an activation sequence. Type selects which
// fields are meaningful: Pitch/Velocity for the note variants, Number and
// Value for controllers, Value alone for program changes.
type SequenceItem struct {
	Type     ItemType
	Pitch    Pitch
	Velocity float32
	Number   CCNumber
	Value    CCValue
}

// NoteItem returns a note item with both on and off semantics.
func NoteItem(pitch Pitch, velocity float32) SequenceItem {
	return SequenceItem{Type: ItemNote, Pitch: pitch, Velocity: velocity}
}

// NoteOnItem returns a single note-on item.
func NoteOnItem(pitch Pitch, velocity float32) SequenceItem {
	return SequenceItem{Type: ItemNoteOn, Pitch: pitch, Velocity: velocity}
}

// NoteOffItem returns a single note-off item.
func NoteOffItem(pitch Pitch) SequenceItem {
	return SequenceItem{Type: ItemNoteOff, Pitch: pitch}
}

// ControlItem returns a controller item.
func ControlItem(number CCNumber, value CCValue) SequenceItem {
	return SequenceItem{Type: ItemControl, Number: number, Value: value}
}

// ProgramChangeItem returns a program change item.
func ProgramChangeItem(value CCValue) SequenceItem {
	return SequenceItem{Type: ItemProgramChange, Value: value}
}

func (i SequenceItem) String() string {
	switch i.Type {
	case ItemNote:
		return fmt.Sprintf("Note{pitch:%d, vel:%.2f}", i.Pitch, i.Velocity)
	case ItemNoteOn:
		return fmt.Sprintf("NoteOn{pitch:%d, vel:%.2f}", i.Pitch, i.Velocity)
	case ItemNoteOff:
		return fmt.Sprintf("NoteOff{pitch:%d}", i.Pitch)
	case ItemControl:
		return fmt.Sprintf("Control{cc:%d, val:%d}", i.Number, i.Value)
	case ItemProgramChange:
		return fmt.Sprintf("ProgramChange{val:%d}", i.Value)
	default:
		return fmt.Sprintf("Unknown{type:%d}", i.Type)
	}
}

// ActivationSequence is the ordered list of performance events that
// selects a variation when played. Most sequences hold a single item, a
// simple key switch. Capacity is fixed at MaxSequenceItems; adding beyond
// capacity leaves the sequence unchanged.
type ActivationSequence struct {
	count int32
	items [MaxSequenceItems]SequenceItem
}

// Sequence builds an activation sequence from items, truncating beyond
// capacity.
func Sequence(items ...SequenceItem) ActivationSequence {
	var s ActivationSequence
	for _, item := range items {
		s.Add(item)
	}
	return s
}

// Add appends an item. It reports false when the sequence is full, in
// which case the sequence is unchanged.
func (s *ActivationSequence) Add(item SequenceItem) bool {
	if s.count >= MaxSequenceItems {
		return false
	}
	s.items[s.count] = item
	s.count++
	return true
}

func (s *ActivationSequence) Clear() {
	s.count = 0
}

func (s *ActivationSequence) Len() int {
	return int(s.count)
}

// At returns the item at index i; i must be in [0, Len()).
func (s *ActivationSequence) At(i int) SequenceItem {
	return s.items[i]
}

// Items returns a view of the populated items. The slice aliases the
// sequence storage and must not be retained across mutation.
func (s *ActivationSequence) Items() []SequenceItem {
	return s.items[:s.count]
}

// MaxScoreSymbols is the hard capacity of a score symbol list.
const MaxScoreSymbols = 4

// ScoreSymbolList is the combination of notation symbols suggested to
// trigger a variation from a score. Same truncation policy as
// ActivationSequence.
type ScoreSymbolList struct {
	count   int32
	symbols [MaxScoreSymbols]ScoreSymbolID
}

// Symbols builds a symbol list, truncating beyond capacity.
func Symbols(ids ...ScoreSymbolID) ScoreSymbolList {
	var l ScoreSymbolList
	for _, id := range ids {
		l.Add(id)
	}
	return l
}

// Add appends a symbol. It reports false when the list is full.
func (l *ScoreSymbolList) Add(id ScoreSymbolID) bool {
	if l.count >= MaxScoreSymbols {
		return false
	}
	l.symbols[l.count] = id
	l.count++
	return true
}

func (l *ScoreSymbolList) Clear() {
	l.count = 0
}

func (l *ScoreSymbolList) Len() int {
	return int(l.count)
}

func (l *ScoreSymbolList) At(i int) ScoreSymbolID {
	return l.symbols[i]
}

// List returns a view of the populated symbols.
func (l *ScoreSymbolList) List() []ScoreSymbolID {
	return l.symbols[:l.count]
}
