// Package preset loads declarative sound preset files describing a
// variation map: which articulations a preset offers, how they are
// organized in folders, and the performance sequences that activate
// them. A loaded file acts as a variation provider for the controller.
package preset

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/justyntemme/soundvar/pkg/variation"
)

// File is a parsed preset file.
type File struct {
	Name    string  `yaml:"name"`
	Path    string  `yaml:"path"`
	Entries []Entry `yaml:"variations"`
}

// Entry is either a variation or a folder of nested entries.
type Entry struct {
	Folder *Folder `yaml:"folder,omitempty"`

	ID           int32      `yaml:"id"`
	Title        string     `yaml:"title"`
	Color        uint32     `yaml:"color"`
	TriggerPitch *int16     `yaml:"trigger_pitch"`
	Momentary    bool       `yaml:"momentary"`
	Default      bool       `yaml:"default"`
	Symbols      []string   `yaml:"symbols"`
	Sequence     []SeqEntry `yaml:"sequence"`
}

// Folder groups nested entries under a display title.
type Folder struct {
	Title        string  `yaml:"title"`
	Color        uint32  `yaml:"color"`
	PrependTitle bool    `yaml:"prepend_title"`
	Entries      []Entry `yaml:"variations"`
}

// SeqEntry is one activation sequence step.
type SeqEntry struct {
	Type     string  `yaml:"type"` // note, note_on, note_off, control, program_change
	Pitch    int16   `yaml:"pitch"`
	Velocity float32 `yaml:"velocity"`
	Number   int16   `yaml:"number"`
	Value    int16   `yaml:"value"`
}

// Load reads and parses a preset file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("preset: read %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("preset: parse %s: %w", path, err)
	}
	log.Debug("preset loaded", "path", path, "name", f.Name)
	return f, nil
}

// Parse parses preset YAML.
func Parse(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	return &f, nil
}

// ProvideVariations drives a catalog receiver with the file content, so a
// *File can be used directly as the controller's variation provider. The
// bus and channel are ignored: a preset file describes one unit.
func (f *File) ProvideVariations(busIndex int32, channel int16, list variation.ListReceiver) error {
	list.SetPresetInfo(variation.PresetInfo{Name: f.Name, Path: f.Path})
	return provideEntries(f.Entries, list)
}

func provideEntries(entries []Entry, list variation.ListReceiver) error {
	for i := range entries {
		e := &entries[i]
		if e.Folder != nil {
			flags := variation.FolderFlags(0)
			if e.Folder.PrependTitle {
				flags |= variation.FolderFlagPrependTitle
			}
			list.BeginFolder(variation.FolderData{
				Title: e.Folder.Title,
				Color: variation.ColorSpec(e.Folder.Color),
				Flags: flags,
			})
			if err := provideEntries(e.Folder.Entries, list); err != nil {
				return err
			}
			list.EndFolder()
			continue
		}

		data, err := e.variationData()
		if err != nil {
			return err
		}
		list.AddVariation(data)
	}
	return nil
}

func (e *Entry) variationData() (variation.Data, error) {
	data := variation.NewData(variation.VariationID(e.ID), e.Title)
	data.Color = variation.ColorSpec(e.Color)
	if e.TriggerPitch != nil {
		data.TriggerPitch = variation.Pitch(*e.TriggerPitch)
	}
	if e.Momentary {
		data.Flags |= variation.FlagIsMomentary
	}
	if e.Default {
		data.Flags |= variation.FlagIsDefault
	}

	for _, name := range e.Symbols {
		id, ok := SymbolByName(name)
		if !ok {
			return variation.Data{}, fmt.Errorf("preset: unknown score symbol %q", name)
		}
		data.ScoreSymbols.Add(id)
	}

	for _, s := range e.Sequence {
		item, err := s.sequenceItem()
		if err != nil {
			return variation.Data{}, err
		}
		data.ActivationSequence.Add(item)
	}

	return data, nil
}

func (s *SeqEntry) sequenceItem() (variation.SequenceItem, error) {
	vel := s.Velocity
	if vel == 0 {
		vel = 1
	}
	switch s.Type {
	case "note":
		return variation.NoteItem(variation.Pitch(s.Pitch), vel), nil
	case "note_on":
		return variation.NoteOnItem(variation.Pitch(s.Pitch), vel), nil
	case "note_off":
		return variation.NoteOffItem(variation.Pitch(s.Pitch)), nil
	case "control":
		return variation.ControlItem(variation.CCNumber(s.Number), variation.CCValue(s.Value)), nil
	case "program_change":
		return variation.ProgramChangeItem(variation.CCValue(s.Value)), nil
	default:
		return variation.SequenceItem{}, fmt.Errorf("preset: unknown sequence item type %q", s.Type)
	}
}

// SymbolByName maps a symbol name (or a literal four character code) to
// its glyph ID.
func SymbolByName(name string) (variation.ScoreSymbolID, bool) {
	if id, ok := symbolNames[name]; ok {
		return id, true
	}
	if id := variation.FourCC(name); id != 0 {
		return id, true
	}
	return 0, false
}

var symbolNames = map[string]variation.ScoreSymbolID{
	"staccato":       variation.SymbolStaccato,
	"staccatissimo":  variation.SymbolStaccatissimo,
	"tenuto":         variation.SymbolTenuto,
	"accent":         variation.SymbolAccent,
	"strong_accent":  variation.SymbolStrongAccent,
	"tremolo1":       variation.SymbolTremolo1,
	"tremolo2":       variation.SymbolTremolo2,
	"tremolo3":       variation.SymbolTremolo3,
	"glissando":      variation.SymbolGlissando,
	"portamento":     variation.SymbolPortamento,
	"slur":           variation.SymbolSlur,
	"vibrato":        variation.SymbolVibrato,
	"wide_vibrato":   variation.SymbolWideVibrato,
	"con_sordino":    variation.SymbolConSordino,
	"senza_sordino":  variation.SymbolSenzaSordino,
	"arco":           variation.SymbolArco,
	"pizzicato":      variation.SymbolPizzicato,
	"col_legno":      variation.SymbolColLegno,
	"sul_ponticello": variation.SymbolSulPonticello,
	"sul_tasto":      variation.SymbolSulTasto,
	"down_bow":       variation.SymbolDownBow,
	"up_bow":         variation.SymbolUpBow,
	"trill_halftone": variation.SymbolTrillHalftone,
	"pedal_down":     variation.SymbolPedalDown,
	"pedal_up":       variation.SymbolPedalUp,
	"hammer_on":      variation.SymbolHammerOn,
	"pull_off":       variation.SymbolPullOff,
}
