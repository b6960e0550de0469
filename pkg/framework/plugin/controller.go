// Package plugin ties the sound variation subsystem together behind the
// controller surface a host talks to: catalog queries, active-variation
// queries, capability queries, wire event handling and state
// persistence.
package plugin

import (
	"fmt"
	"io"

	"github.com/justyntemme/soundvar/pkg/framework/bus"
	"github.com/justyntemme/soundvar/pkg/framework/state"
	"github.com/justyntemme/soundvar/pkg/midi"
	"github.com/justyntemme/soundvar/pkg/variation"
	"github.com/justyntemme/soundvar/pkg/variation/engine"
	"github.com/justyntemme/soundvar/pkg/variation/notify"
	"github.com/justyntemme/soundvar/pkg/variation/wire"
)

// Controller is the per-plug-in entry point for sound variation support.
// Catalog queries and notification delivery belong to the coordinating
// context; ProcessEvent and the wire handlers run on the audio path.
type Controller struct {
	Info Info

	buses      *bus.Configuration
	provider   variation.Provider
	eng        *engine.Engine
	changes    *notify.Queue
	dispatcher *notify.Dispatcher
	stateMgr   *state.Manager
}

// NewController creates a controller for the given bus layout. provider
// populates the catalog of each unit on demand. The dispatcher is where
// the host's observer gets attached.
func NewController(info Info, cfg *bus.Configuration, provider variation.Provider, dispatcher *notify.Dispatcher, changes *notify.Queue) *Controller {
	c := &Controller{
		Info:       info,
		buses:      cfg,
		provider:   provider,
		changes:    changes,
		eng:        engine.New(changes),
		dispatcher: dispatcher,
		stateMgr:   state.NewManager(),
	}

	var units []engine.UnitID
	cfg.EachUnit(func(busIndex int32, channel int16) {
		units = append(units, engine.UnitID{Bus: busIndex, Channel: channel})
	})
	c.eng.ConfigureUnits(units)

	return c
}

// Engine exposes the activation engine, for processors that feed it
// directly.
func (c *Controller) Engine() *engine.Engine {
	return c.eng
}

// Buses returns the event bus configuration.
func (c *Controller) Buses() *bus.Configuration {
	return c.buses
}

// GetVariationList builds a fresh catalog for the unit and drives the
// receiver with it, exactly once, in display order. On success the same
// snapshot is published to the engine for sequence matching. A provider
// or builder failure leaves the receiver untouched and any previously
// published snapshot intact.
func (c *Controller) GetVariationList(busIndex int32, channel int16, receiver variation.ListReceiver) error {
	snap, err := c.buildSnapshot(busIndex, channel)
	if err != nil {
		return err
	}
	snap.Replay(receiver)
	c.eng.UpdateList(engine.UnitID{Bus: busIndex, Channel: channel}, snap)
	return nil
}

// GetActiveVariation resolves the currently active variation of a unit.
// ok is false when no variation is active and the preset has no default.
func (c *Controller) GetActiveVariation(busIndex int32, channel int16) (variation.VariationID, bool) {
	return c.eng.ActiveVariation(engine.UnitID{Bus: busIndex, Channel: channel})
}

// LoadPreset rebuilds the unit's catalog after a new sound preset was
// loaded, resets its activation state and notifies the host.
// Coordinating context only.
func (c *Controller) LoadPreset(busIndex int32, channel int16) error {
	snap, err := c.buildSnapshot(busIndex, channel)
	if err != nil {
		return err
	}
	c.eng.LoadPreset(engine.UnitID{Bus: busIndex, Channel: channel}, snap)
	c.dispatcher.Notify(notify.PresetChanged, busIndex, channel)
	return nil
}

// NotifyListModified republishes the unit's catalog after an edit,
// keeping the activation state, and notifies the host. Coordinating
// context only.
func (c *Controller) NotifyListModified(busIndex int32, channel int16) error {
	snap, err := c.buildSnapshot(busIndex, channel)
	if err != nil {
		return err
	}
	c.eng.UpdateList(engine.UnitID{Bus: busIndex, Channel: channel}, snap)
	c.dispatcher.Notify(notify.VariationListModified, busIndex, channel)
	return nil
}

func (c *Controller) buildSnapshot(busIndex int32, channel int16) (*variation.Snapshot, error) {
	if !c.buses.HasUnit(busIndex, channel) {
		return nil, fmt.Errorf("plugin: no unit at bus %d channel %d", busIndex, channel)
	}
	if c.provider == nil {
		return nil, fmt.Errorf("plugin: no variation provider")
	}

	builder := variation.NewBuilder()
	if err := c.provider.ProvideVariations(busIndex, channel, builder); err != nil {
		return nil, fmt.Errorf("plugin: provider failed: %w", err)
	}
	snap, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("plugin: catalog contract violation: %w", err)
	}
	return snap, nil
}

// Deliver drains queued change flags into the host observer. Coordinating
// context only; typically driven by a timer or the host idle call.
func (c *Controller) Deliver() int {
	return c.dispatcher.Deliver()
}

// Capability queries. A controller built through NewController always
// carries wire event and key-switch-disable support; hosts still probe
// through the tri-state answers.

// IsWireEventSupported reports whether activation/termination wire events
// are handled.
func (c *Controller) IsWireEventSupported() variation.TriState {
	return variation.TriTrue
}

// IsKeySwitchDisableSupported reports whether the key-switch-disable mode
// exists.
func (c *Controller) IsKeySwitchDisableSupported() variation.TriState {
	return variation.TriTrue
}

// AreKeySwitchesDisabled reports whether the mode is currently active.
func (c *Controller) AreKeySwitchesDisabled() variation.TriState {
	return variation.TriBool(c.eng.KeySwitchesDisabled())
}

// SetKeySwitchesDisabled toggles the mode that ignores activation
// sequences in favor of wire events only.
func (c *Controller) SetKeySwitchesDisabled(disabled bool) {
	c.eng.SetKeySwitchesDisabled(disabled)
}

// ProcessEvent feeds one performance event to a unit. Audio path.
func (c *Controller) ProcessEvent(busIndex int32, channel int16, ev midi.Event) {
	c.eng.ProcessEvent(engine.UnitID{Bus: busIndex, Channel: channel}, ev)
}

// ProcessEvents drains a block's worth of queued events into a unit, in
// sample order. Audio path.
func (c *Controller) ProcessEvents(busIndex int32, channel int16, q *midi.EventQueue, startSample, endSample int32) {
	for _, ev := range q.GetEventsInRange(startSample, endSample) {
		c.ProcessEvent(busIndex, channel, ev)
	}
}

// HandleWireV3 applies a decoded V3 activation or termination event.
// Audio path; accepted regardless of the key-switch-disable mode.
func (c *Controller) HandleWireV3(ev wire.V3Event) {
	sel := engine.UnitID{Bus: ev.BusIndex, Channel: clampChannel(ev.Channel)}
	if ev.IsTerminate() {
		c.eng.Terminate(sel)
		return
	}
	c.eng.Activate(sel, variation.VariationID(ev.VariationID))
}

// HandleWireV2 applies a decoded legacy V2 event. The V2 layout carries
// no bus index; events address bus 0, the only event bus a V2 instrument
// exposes.
func (c *Controller) HandleWireV2(ev wire.V2Event) {
	sel := engine.UnitID{Bus: 0, Channel: clampChannel(ev.Channel)}
	if ev.IsTerminate() {
		c.eng.Terminate(sel)
		return
	}
	c.eng.Activate(sel, variation.VariationID(ev.VariationID))
}

func clampChannel(ch int32) int16 {
	if ch < 0 {
		return engine.AnyChannel
	}
	return int16(ch)
}

// SaveState writes the controller state (key-switch-disable mode and
// explicit per-unit selections) to w. Coordinating context only.
func (c *Controller) SaveState(w io.Writer) error {
	p := state.Persisted{
		KeySwitchesDisabled: c.eng.KeySwitchesDisabled(),
	}
	for _, unit := range c.eng.Units() {
		sel := state.UnitSelection{Bus: unit.Bus, Channel: unit.Channel}
		if st, ok := c.eng.StateOf(unit); ok && st.Kind == engine.StateActive {
			sel.HasActive = true
			sel.Active = st.Current
		}
		p.Units = append(p.Units, sel)
	}
	return c.stateMgr.Save(w, p)
}

// LoadState restores controller state from r. Selections referring to
// units or variations that no longer exist are skipped. Coordinating
// context only.
func (c *Controller) LoadState(r io.Reader) error {
	p, err := c.stateMgr.Load(r)
	if err != nil {
		return err
	}

	c.eng.SetKeySwitchesDisabled(p.KeySwitchesDisabled)
	for _, sel := range p.Units {
		if !sel.HasActive {
			continue
		}
		unit := engine.UnitID{Bus: sel.Bus, Channel: sel.Channel}
		if snap := c.eng.Snapshot(unit); snap != nil {
			if _, ok := snap.Find(sel.Active); !ok {
				continue
			}
		}
		c.eng.Activate(unit, sel.Active)
	}
	c.Deliver()
	return nil
}
