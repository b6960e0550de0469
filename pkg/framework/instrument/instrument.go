// Package instrument holds the thin boundary surfaces of the instrument
// extensions that sit next to sound variations: key assignment
// reporting, instrument change observation and speaker arrangement
// support. They share the (busIndex, channel) addressing and tri-state
// answer conventions of the variation controller; their internal logic
// belongs to the plug-in, not to this framework.
package instrument

import (
	"github.com/justyntemme/soundvar/pkg/variation"
)

// KeyType classifies what a key on the musical keyboard does.
type KeyType int32

const (
	// KeySustainable: sound starts with note-on and ends with note-off.
	KeySustainable KeyType = 0
	// KeyOneShot: note-on starts a sound that plays for a fixed time.
	KeyOneShot KeyType = 1
	// KeyFunction: the pitch triggers a function, like a key switch.
	KeyFunction KeyType = 2
)

// KeyAssignment describes a single key/pitch.
type KeyAssignment struct {
	Pitch variation.Pitch
	Type  KeyType
	Title string
	Color variation.ColorSpec
}

// KeyAssignmentReceiver is implemented by the host to collect key
// assignments in display order.
type KeyAssignmentReceiver interface {
	AddKeyAssignment(assignment KeyAssignment)
}

// ChangeMessage enumerates instrument-side change notifications.
type ChangeMessage int32

const (
	KeyAssignmentChanged  ChangeMessage = 1
	DrumInstrumentChanged ChangeMessage = 2
	MiddleCChanged        ChangeMessage = 3
)

// Observer is implemented by the host; main thread only. Bus/channel of
// -1/-1 scope a change to all units.
type Observer interface {
	OnInstrumentChanged(msg ChangeMessage, busIndex int32, channel int16)
}

// Feature enumerates the optional instrument capabilities a host probes.
type Feature int32

const (
	FeatureKeyAssignment  Feature = 1
	FeatureDrumInstrument Feature = 2
	FeatureReportMiddleC  Feature = 3
	FeatureModifyMiddleC  Feature = 4
)

// Controller is the plug-in side of the instrument extension.
type Controller interface {
	IsFeatureSupported(which Feature) variation.TriState
	SetObserver(observer Observer)
	GetKeyAssignments(receiver KeyAssignmentReceiver, busIndex int32, channel int16) error
	IsDrumInstrument(busIndex int32, channel int16) variation.TriState
}

// SpeakerSupport answers speaker arrangement capability queries for a
// bus. The arrangement is an opaque host-defined bitmask.
type SpeakerSupport interface {
	IsArrangementSupportedOnBus(arrangement uint64, direction int32, busIndex int32) variation.TriState
}

// KeySwitchAssignments derives function-key assignments from a catalog
// snapshot: every variation with a suggested trigger pitch maps to a
// KeyFunction key carrying the variation's display title and color.
func KeySwitchAssignments(snap *variation.Snapshot) []KeyAssignment {
	var out []KeyAssignment
	for _, v := range snap.Variations() {
		if v.TriggerPitch < 0 {
			continue
		}
		title, _ := snap.DisplayTitle(v.ID)
		out = append(out, KeyAssignment{
			Pitch: v.TriggerPitch,
			Type:  KeyFunction,
			Title: title,
			Color: v.Color,
		})
	}
	return out
}
