// Package engine resolves performance events and wire requests into the
// active sound variation of each addressable unit. Everything on the
// event path runs inside the audio callback: transitions are synchronous,
// lock free and allocation free, and host notification is deferred
// through a bounded change-flag queue drained by the coordinating
// context.
package engine

import (
	"sync/atomic"

	"github.com/justyntemme/soundvar/pkg/midi"
	"github.com/justyntemme/soundvar/pkg/variation"
	"github.com/justyntemme/soundvar/pkg/variation/notify"
)

// UnitID addresses one instrument unit inside the plug-in.
type UnitID struct {
	Bus     int32
	Channel int16
}

// Wildcard addressing: -1 selects all buses or all channels.
const (
	AnyBus     int32 = -1
	AnyChannel int16 = -1
)

// Matches reports whether u is selected by the possibly wildcarded sel.
func (u UnitID) Matches(sel UnitID) bool {
	if sel.Bus != AnyBus && sel.Bus != u.Bus {
		return false
	}
	if sel.Channel != AnyChannel && sel.Channel != u.Channel {
		return false
	}
	return true
}

// StateKind enumerates the activation states of a unit.
type StateKind uint8

const (
	// StateInactive: no variation was explicitly activated. Queries
	// resolve this to the preset's default variation when one exists.
	StateInactive StateKind = iota
	// StateActive: a variation is active until replaced.
	StateActive
	// StateMomentary: a momentary variation overrides the previous
	// selection until it terminates.
	StateMomentary
)

// State is the activation state of one unit. Current is the active (or
// momentary) variation for StateActive/StateMomentary. Restore is the
// selection re-enabled when a momentary terminates; HasRestore is false
// when the momentary interrupted StateInactive, in which case termination
// falls back to StateInactive rather than to the preset default.
type State struct {
	Kind       StateKind
	Current    variation.VariationID
	Restore    variation.VariationID
	HasRestore bool
}

// unitState is owned by the audio path once its table is published; the
// coordinating context only reads it for reporting.
type unitState struct {
	id       UnitID
	snap     *variation.Snapshot
	triggers []trigger
	progress []uint8
	state    State

	// pitch whose note-off terminates the current momentary, -1 none
	termPitch variation.Pitch
}

type unitTable struct {
	units map[UnitID]*unitState
}

// Engine is the per-plug-in activation state machine. Catalog changes
// publish a fresh unit table through an atomic swap so the audio path
// never observes a partially built tree.
type Engine struct {
	changes  *notify.Queue
	disabled atomic.Bool
	table    atomic.Pointer[unitTable]
}

// New creates an engine pushing change flags into queue.
func New(changes *notify.Queue) *Engine {
	e := &Engine{changes: changes}
	e.table.Store(&unitTable{units: map[UnitID]*unitState{}})
	return e
}

// Changes returns the flag queue the coordinating context drains.
func (e *Engine) Changes() *notify.Queue {
	return e.changes
}

// ConfigureUnits installs the set of addressable units, all starting
// Inactive with no catalog. Coordinating context only.
func (e *Engine) ConfigureUnits(units []UnitID) {
	next := &unitTable{units: make(map[UnitID]*unitState, len(units))}
	for _, u := range units {
		next.units[u] = newUnitState(u, nil)
	}
	e.table.Store(next)
}

// Units returns the configured unit addresses.
func (e *Engine) Units() []UnitID {
	t := e.table.Load()
	out := make([]UnitID, 0, len(t.units))
	for u := range t.units {
		out = append(out, u)
	}
	return out
}

// LoadPreset publishes a new catalog snapshot for a unit and resets its
// activation and matching state, as a fresh sound preset demands.
// Coordinating context only.
func (e *Engine) LoadPreset(unit UnitID, snap *variation.Snapshot) {
	e.swapUnit(unit, snap, false)
}

// UpdateList publishes an edited catalog snapshot for a unit, keeping the
// unit's activation state. Matching progress restarts against the new
// sequences. Coordinating context only.
func (e *Engine) UpdateList(unit UnitID, snap *variation.Snapshot) {
	e.swapUnit(unit, snap, true)
}

func (e *Engine) swapUnit(unit UnitID, snap *variation.Snapshot, carryState bool) {
	cur := e.table.Load()
	next := &unitTable{units: make(map[UnitID]*unitState, len(cur.units))}
	for id, us := range cur.units {
		next.units[id] = us
	}

	fresh := newUnitState(unit, snap)
	if prev, ok := cur.units[unit]; ok && carryState {
		fresh.state = prev.state
		fresh.termPitch = prev.termPitch
	}
	next.units[unit] = fresh
	e.table.Store(next)
}

func newUnitState(unit UnitID, snap *variation.Snapshot) *unitState {
	us := &unitState{
		id:        unit,
		snap:      snap,
		termPitch: -1,
	}
	if snap != nil {
		us.triggers = buildTriggers(snap)
		us.progress = make([]uint8, len(us.triggers))
	}
	return us
}

// SetKeySwitchesDisabled toggles the mode that ignores all activation
// sequence events; only wire requests are accepted while set.
func (e *Engine) SetKeySwitchesDisabled(disabled bool) {
	e.disabled.Store(disabled)
}

// KeySwitchesDisabled reports the current disable state. Callable from
// any context at any time.
func (e *Engine) KeySwitchesDisabled() bool {
	return e.disabled.Load()
}

// ProcessEvent feeds one performance event to a unit. Audio path.
// Matcher-sourced activation and termination are suppressed while key
// switches are disabled.
func (e *Engine) ProcessEvent(unit UnitID, ev midi.Event) {
	if e.disabled.Load() {
		return
	}
	us, ok := e.table.Load().units[unit]
	if !ok || us.snap == nil {
		return
	}

	// A matching note-off ends the held momentary before anything else.
	if off, isOff := ev.(midi.NoteOffEvent); isOff {
		if us.state.Kind == StateMomentary && us.termPitch >= 0 &&
			variation.Pitch(off.NoteNumber) == us.termPitch {
			e.terminate(us)
		}
	}

	fired := us.matchEvent(ev)
	if fired >= 0 {
		e.activate(us, us.triggers[fired].id)
	}
}

// Activate requests activation of a variation, as decoded from a wire
// event. sel may use wildcard addressing. Audio path; accepted regardless
// of the key-switch-disable mode.
func (e *Engine) Activate(sel UnitID, id variation.VariationID) {
	t := e.table.Load()
	for uid, us := range t.units {
		if uid.Matches(sel) {
			e.activate(us, id)
		}
	}
}

// Terminate requests termination of the held momentary variation, as
// decoded from a wire event. No-op for units not in a momentary state.
func (e *Engine) Terminate(sel UnitID) {
	t := e.table.Load()
	for uid, us := range t.units {
		if uid.Matches(sel) {
			e.terminate(us)
		}
	}
}

func (e *Engine) activate(us *unitState, id variation.VariationID) {
	if us.snap == nil {
		return
	}
	data, ok := us.snap.Find(id)
	if !ok {
		// Unknown IDs are skipped; the host may hold a newer list.
		return
	}

	if !data.IsMomentary() {
		us.state = State{Kind: StateActive, Current: id}
		us.termPitch = -1
		e.raiseActiveChanged(us)
		return
	}

	switch us.state.Kind {
	case StateMomentary:
		// A second momentary replaces the held one, keeping the
		// original restore target. No stacking beyond one level.
		us.state.Current = id
	case StateActive:
		us.state = State{
			Kind:       StateMomentary,
			Current:    id,
			Restore:    us.state.Current,
			HasRestore: true,
		}
	default:
		us.state = State{Kind: StateMomentary, Current: id}
	}
	us.termPitch = releasePitch(data)
	e.raiseActiveChanged(us)
}

func (e *Engine) terminate(us *unitState) {
	if us.state.Kind != StateMomentary {
		return
	}
	if us.state.HasRestore {
		us.state = State{Kind: StateActive, Current: us.state.Restore}
	} else {
		us.state = State{Kind: StateInactive}
	}
	us.termPitch = -1
	e.raiseActiveChanged(us)
}

func (e *Engine) raiseActiveChanged(us *unitState) {
	e.changes.Push(notify.Change{
		Message: notify.ActiveVariationChanged,
		Bus:     us.id.Bus,
		Channel: us.id.Channel,
	})
}

// releasePitch picks the note whose release terminates a momentary
// variation: the last held-note item of its activation sequence, or the
// suggested trigger pitch. -1 leaves the wire terminate event as the only
// way out.
func releasePitch(data variation.Data) variation.Pitch {
	items := data.ActivationSequence.Items()
	for i := len(items) - 1; i >= 0; i-- {
		if items[i].Type == variation.ItemNote {
			return items[i].Pitch
		}
	}
	return data.TriggerPitch
}

// StateOf returns the raw activation state of a unit. Coordinating reads
// are safe; the value is a copy.
func (e *Engine) StateOf(unit UnitID) (State, bool) {
	us, ok := e.table.Load().units[unit]
	if !ok {
		return State{}, false
	}
	return us.state, true
}

// ActiveVariation resolves the current variation of a unit. StateInactive
// resolves to the preset's default variation when the catalog declares
// one; otherwise there is no active variation.
func (e *Engine) ActiveVariation(unit UnitID) (variation.VariationID, bool) {
	us, ok := e.table.Load().units[unit]
	if !ok {
		return 0, false
	}
	switch us.state.Kind {
	case StateActive, StateMomentary:
		return us.state.Current, true
	default:
		if us.snap != nil {
			if def, ok := us.snap.Default(); ok {
				return def.ID, true
			}
		}
		return 0, false
	}
}

// Snapshot returns the published catalog of a unit, nil when no preset
// has been loaded.
func (e *Engine) Snapshot(unit UnitID) *variation.Snapshot {
	us, ok := e.table.Load().units[unit]
	if !ok {
		return nil
	}
	return us.snap
}
