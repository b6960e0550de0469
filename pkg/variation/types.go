// Package variation defines the sound variation data model: variations
// (articulations) of an instrument preset, the folders that organize them,
// and the catalog snapshot a host queries from a plug-in.
package variation

// Pitch is a MIDI pitch. -1 means "not set".
type Pitch int16

// CCNumber is a MIDI controller number.
type CCNumber int16

// CCValue is a MIDI controller or program change value.
type CCValue int16

// VariationID addresses a single variation. IDs are chosen by the plug-in
// and must be stable: the same logical variation reports the same ID on
// every catalog query and on every reload of the same sound preset. Hosts
// persist these IDs in documents, so an ID must never be reused for a
// different variation.
type VariationID int32

// ColorSpec is an RGBA display color. 0 means "not set".
type ColorSpec uint32

// MaxTitleLen bounds variation, folder and preset titles, matching the
// fixed 128-unit strings of the wire-level extension.
const MaxTitleLen = 127

// Flags qualify a variation.
type Flags int32

const (
	// FlagIsMomentary marks a variation that stays active only while held.
	// The previous variation is re-enabled when it terminates, so its
	// activation sequence must be a note with release semantics, or the
	// plug-in must support the wire terminate event.
	FlagIsMomentary Flags = 1 << 0

	// FlagIsDefault marks the variation active right after the sound
	// preset loads. At most one variation per catalog carries this flag.
	FlagIsDefault Flags = 1 << 1
)

// Data describes a single sound variation as reported to the host.
type Data struct {
	ID                 VariationID
	Title              string
	ActivationSequence ActivationSequence
	Color              ColorSpec
	TriggerPitch       Pitch // suggested key switch, -1 if not provided
	ScoreSymbols       ScoreSymbolList
	Flags              Flags
}

// NewData returns a Data with the optional fields at their unset values.
func NewData(id VariationID, title string) Data {
	return Data{
		ID:           id,
		Title:        title,
		TriggerPitch: -1,
	}
}

func (d Data) IsMomentary() bool {
	return d.Flags&FlagIsMomentary != 0
}

func (d Data) IsDefault() bool {
	return d.Flags&FlagIsDefault != 0
}

// FolderFlags qualify a variation folder.
type FolderFlags int32

// FolderFlagPrependTitle asks the host to prepend the folder title when
// displaying the names of contained variations.
const FolderFlagPrependTitle FolderFlags = 1 << 0

// FolderData describes a bracketing folder node. Folders may nest.
type FolderData struct {
	Title string
	Color ColorSpec
	Flags FolderFlags
}

func (f FolderData) PrependTitle() bool {
	return f.Flags&FolderFlagPrependTitle != 0
}

// PresetInfo names the sound preset the reported variations belong to.
// Path is an optional internal qualifier resolving name clashes; it is not
// displayed but should be valid as a file system component.
type PresetInfo struct {
	Name string
	Path string
}

// TriState is the answer of a capability query. It keeps "the feature is
// absent" distinct from "the feature is present and the answer is no".
type TriState int32

const (
	TriNotImplemented TriState = iota
	TriFalse
	TriTrue
)

func (t TriState) String() string {
	switch t {
	case TriNotImplemented:
		return "not implemented"
	case TriFalse:
		return "false"
	case TriTrue:
		return "true"
	default:
		return "unknown"
	}
}

// TriBool converts a supported feature's boolean answer to a TriState.
func TriBool(b bool) TriState {
	if b {
		return TriTrue
	}
	return TriFalse
}

// clampTitle bounds a title to MaxTitleLen runes.
func clampTitle(s string) string {
	runes := []rune(s)
	if len(runes) <= MaxTitleLen {
		return s
	}
	return string(runes[:MaxTitleLen])
}
