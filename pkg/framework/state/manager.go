package state

import (
	"encoding/binary"
	"fmt"
	"io"

	"github.com/justyntemme/soundvar/pkg/variation"
)

// UnitSelection is the persisted activation of one unit.
type UnitSelection struct {
	Bus       int32
	Channel   int16
	HasActive bool
	Active    variation.VariationID
}

// Persisted is the controller state written into the host document:
// the key-switch-disable mode and the explicitly activated variation per
// unit. Variation IDs are stable across preset reloads, which is what
// makes storing them here valid.
type Persisted struct {
	KeySwitchesDisabled bool
	Units               []UnitSelection
}

// Manager handles controller state saving and loading
type Manager struct {
	version uint32
}

// NewManager creates a new state manager
func NewManager() *Manager {
	return &Manager{version: 1}
}

const magic = "SNDVAR"

// Save writes the controller state to a writer
func (m *Manager) Save(w io.Writer, p Persisted) error {
	if _, err := w.Write([]byte(magic)); err != nil {
		return err
	}

	if err := binary.Write(w, binary.LittleEndian, m.version); err != nil {
		return err
	}

	disabled := uint8(0)
	if p.KeySwitchesDisabled {
		disabled = 1
	}
	if err := binary.Write(w, binary.LittleEndian, disabled); err != nil {
		return err
	}

	if err := binary.Write(w, binary.LittleEndian, int32(len(p.Units))); err != nil {
		return err
	}

	for _, u := range p.Units {
		hasActive := uint8(0)
		if u.HasActive {
			hasActive = 1
		}
		fields := []interface{}{u.Bus, u.Channel, hasActive, int32(u.Active)}
		for _, f := range fields {
			if err := binary.Write(w, binary.LittleEndian, f); err != nil {
				return err
			}
		}
	}

	// No custom data block; readers skip anything after a zero marker.
	return binary.Write(w, binary.LittleEndian, uint32(0))
}

// Load reads the controller state from a reader
func (m *Manager) Load(r io.Reader) (Persisted, error) {
	var p Persisted

	header := make([]byte, len(magic))
	if _, err := io.ReadFull(r, header); err != nil {
		return p, err
	}
	if string(header) != magic {
		return p, fmt.Errorf("invalid state format")
	}

	var version uint32
	if err := binary.Read(r, binary.LittleEndian, &version); err != nil {
		return p, err
	}
	if version > m.version {
		return p, fmt.Errorf("state version %d is newer than supported version %d", version, m.version)
	}

	var disabled uint8
	if err := binary.Read(r, binary.LittleEndian, &disabled); err != nil {
		return p, err
	}
	p.KeySwitchesDisabled = disabled != 0

	var count int32
	if err := binary.Read(r, binary.LittleEndian, &count); err != nil {
		return p, err
	}
	if count < 0 {
		return p, fmt.Errorf("corrupt state: negative unit count")
	}

	for i := int32(0); i < count; i++ {
		var (
			u         UnitSelection
			hasActive uint8
			active    int32
		)
		if err := binary.Read(r, binary.LittleEndian, &u.Bus); err != nil {
			return p, err
		}
		if err := binary.Read(r, binary.LittleEndian, &u.Channel); err != nil {
			return p, err
		}
		if err := binary.Read(r, binary.LittleEndian, &hasActive); err != nil {
			return p, err
		}
		if err := binary.Read(r, binary.LittleEndian, &active); err != nil {
			return p, err
		}
		u.HasActive = hasActive != 0
		u.Active = variation.VariationID(active)
		p.Units = append(p.Units, u)
	}

	// Trailing custom block marker, ignored for forward compatibility.
	var hasCustom uint32
	if err := binary.Read(r, binary.LittleEndian, &hasCustom); err != nil {
		return p, err
	}

	return p, nil
}
