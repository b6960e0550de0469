package plugin

import (
	"bytes"
	"errors"
	"testing"

	"github.com/justyntemme/soundvar/pkg/framework/bus"
	"github.com/justyntemme/soundvar/pkg/midi"
	"github.com/justyntemme/soundvar/pkg/variation"
	"github.com/justyntemme/soundvar/pkg/variation/engine"
	"github.com/justyntemme/soundvar/pkg/variation/notify"
	"github.com/justyntemme/soundvar/pkg/variation/wire"
)

var testInfo = Info{
	ID:       "com.example.testinstrument",
	Name:     "Test Instrument",
	Version:  "1.0.0",
	Vendor:   "Example",
	Category: "Instrument",
}

// testProvider populates a small catalog: Sustain(1, default), Legato(2,
// momentary, key switch 36), Marcato(3).
func testProvider(busIndex int32, channel int16, list variation.ListReceiver) error {
	list.SetPresetInfo(variation.PresetInfo{Name: "Test Preset"})

	sustain := variation.NewData(1, "Sustain")
	sustain.Flags |= variation.FlagIsDefault
	list.AddVariation(sustain)

	legato := variation.NewData(2, "Legato")
	legato.Flags |= variation.FlagIsMomentary
	legato.ActivationSequence = variation.Sequence(variation.NoteItem(36, 1))
	list.AddVariation(legato)

	list.AddVariation(variation.NewData(3, "Marcato"))
	return nil
}

type testHarness struct {
	c        *Controller
	observed []notify.Change
}

func newHarness(t *testing.T, provider variation.Provider) *testHarness {
	t.Helper()
	h := &testHarness{}

	q := notify.NewQueue(64)
	d := notify.NewDispatcher(q, notify.ObserverFunc(func(c notify.Change) {
		h.observed = append(h.observed, c)
	}), nil)

	cfg := bus.NewBuilder().WithEventInput("Event In", 2).MustBuild()
	h.c = NewController(testInfo, cfg, provider, d, q)
	return h
}

// countingReceiver counts catalog calls and records variation order.
type countingReceiver struct {
	adds    int
	begins  int
	ends    int
	presets int
	titles  []string
}

func (r *countingReceiver) AddVariation(data variation.Data) {
	r.adds++
	r.titles = append(r.titles, data.Title)
}
func (r *countingReceiver) BeginFolder(variation.FolderData) { r.begins++ }
func (r *countingReceiver) EndFolder()                       { r.ends++ }
func (r *countingReceiver) SetPresetInfo(variation.PresetInfo) {
	r.presets++
}

func TestGetVariationListDrivesReceiverOnce(t *testing.T) {
	h := newHarness(t, variation.ProviderFunc(testProvider))

	var rec countingReceiver
	if err := h.c.GetVariationList(0, 0, &rec); err != nil {
		t.Fatalf("GetVariationList failed: %v", err)
	}

	if rec.adds != 3 || rec.presets != 1 {
		t.Errorf("Receiver saw adds=%d presets=%d, want 3 and 1", rec.adds, rec.presets)
	}
	if rec.titles[0] != "Sustain" || rec.titles[2] != "Marcato" {
		t.Errorf("Display order wrong: %v", rec.titles)
	}

	// The same catalog is now published for sequence matching.
	snap := h.c.Engine().Snapshot(engine.UnitID{Bus: 0, Channel: 0})
	if snap == nil || snap.Len() != 3 {
		t.Error("Expected snapshot published to the engine")
	}
}

func TestGetVariationListProviderFailure(t *testing.T) {
	wantErr := errors.New("sampler offline")
	h := newHarness(t, variation.ProviderFunc(func(int32, int16, variation.ListReceiver) error {
		return wantErr
	}))

	var rec countingReceiver
	err := h.c.GetVariationList(0, 0, &rec)
	if !errors.Is(err, wantErr) {
		t.Fatalf("Expected provider error, got %v", err)
	}

	// The receiver must not see a partial list.
	if rec.adds != 0 || rec.presets != 0 || rec.begins != 0 {
		t.Errorf("Receiver touched on failure: %+v", rec)
	}
}

func TestGetVariationListContractViolation(t *testing.T) {
	h := newHarness(t, variation.ProviderFunc(func(_ int32, _ int16, list variation.ListReceiver) error {
		list.BeginFolder(variation.FolderData{Title: "Open"})
		list.AddVariation(variation.NewData(1, "A"))
		return nil // folder never closed
	}))

	var rec countingReceiver
	if err := h.c.GetVariationList(0, 0, &rec); err == nil {
		t.Fatal("Expected catalog contract error")
	}
	if rec.adds != 0 {
		t.Error("Receiver touched on contract violation")
	}
}

func TestGetVariationListUnknownUnit(t *testing.T) {
	h := newHarness(t, variation.ProviderFunc(testProvider))

	var rec countingReceiver
	if err := h.c.GetVariationList(0, 7, &rec); err == nil {
		t.Error("Expected error for channel outside the bus layout")
	}
	if err := h.c.GetVariationList(3, 0, &rec); err == nil {
		t.Error("Expected error for unknown bus")
	}
}

func TestCapabilityQueries(t *testing.T) {
	h := newHarness(t, variation.ProviderFunc(testProvider))

	if h.c.IsWireEventSupported() != variation.TriTrue {
		t.Error("Expected wire event support")
	}
	if h.c.IsKeySwitchDisableSupported() != variation.TriTrue {
		t.Error("Expected key-switch-disable support")
	}
	if h.c.AreKeySwitchesDisabled() != variation.TriFalse {
		t.Error("Expected key switches enabled initially")
	}

	h.c.SetKeySwitchesDisabled(true)
	if h.c.AreKeySwitchesDisabled() != variation.TriTrue {
		t.Error("Expected key switches disabled after set")
	}
}

func TestActiveVariationAfterWireV3(t *testing.T) {
	h := newHarness(t, variation.ProviderFunc(testProvider))
	var rec countingReceiver
	if err := h.c.GetVariationList(0, 0, &rec); err != nil {
		t.Fatal(err)
	}

	// Inactive resolves to the default.
	if id, ok := h.c.GetActiveVariation(0, 0); !ok || id != 1 {
		t.Errorf("GetActiveVariation = %d ok=%v, want default 1", id, ok)
	}

	h.c.HandleWireV3(wire.NewV3Activate(0, 0, 3))
	if id, ok := h.c.GetActiveVariation(0, 0); !ok || id != 3 {
		t.Errorf("GetActiveVariation = %d ok=%v, want 3", id, ok)
	}

	// Activation queued exactly one flag for the observer.
	if n := h.c.Deliver(); n != 1 {
		t.Errorf("Deliver = %d, want 1", n)
	}
	if len(h.observed) != 1 || h.observed[0].Message != notify.ActiveVariationChanged {
		t.Errorf("Observer saw %+v", h.observed)
	}
}

func TestWireV3MomentaryTerminate(t *testing.T) {
	h := newHarness(t, variation.ProviderFunc(testProvider))
	var rec countingReceiver
	if err := h.c.GetVariationList(0, 0, &rec); err != nil {
		t.Fatal(err)
	}

	h.c.HandleWireV3(wire.NewV3Activate(0, 0, 3))
	h.c.HandleWireV3(wire.NewV3Activate(0, 0, 2))
	if id, _ := h.c.GetActiveVariation(0, 0); id != 2 {
		t.Errorf("Expected momentary 2 active, got %d", id)
	}

	h.c.HandleWireV3(wire.NewV3Terminate(0, 0))
	if id, _ := h.c.GetActiveVariation(0, 0); id != 3 {
		t.Errorf("Expected restore to 3, got %d", id)
	}
}

func TestWireV2AddressesBusZero(t *testing.T) {
	h := newHarness(t, variation.ProviderFunc(testProvider))
	var rec countingReceiver
	for ch := int16(0); ch < 2; ch++ {
		if err := h.c.GetVariationList(0, ch, &rec); err != nil {
			t.Fatal(err)
		}
	}

	// Channel -1 fans out to every channel of bus 0.
	h.c.HandleWireV2(wire.NewV2Activate(-1, 3))

	for ch := int16(0); ch < 2; ch++ {
		if id, _ := h.c.GetActiveVariation(0, ch); id != 3 {
			t.Errorf("Channel %d: expected 3 active, got %d", ch, id)
		}
	}
}

func TestLoadPresetNotifiesDirectly(t *testing.T) {
	h := newHarness(t, variation.ProviderFunc(testProvider))

	if err := h.c.LoadPreset(0, 0); err != nil {
		t.Fatalf("LoadPreset failed: %v", err)
	}

	// Preset changes bypass the flag queue: the observer is notified from
	// the coordinating context without waiting for a Deliver.
	if len(h.observed) != 1 || h.observed[0].Message != notify.PresetChanged {
		t.Fatalf("Observer saw %+v, want immediate PresetChanged", h.observed)
	}
}

func TestNotifyListModifiedKeepsState(t *testing.T) {
	h := newHarness(t, variation.ProviderFunc(testProvider))
	var rec countingReceiver
	if err := h.c.GetVariationList(0, 0, &rec); err != nil {
		t.Fatal(err)
	}

	h.c.HandleWireV3(wire.NewV3Activate(0, 0, 3))
	if err := h.c.NotifyListModified(0, 0); err != nil {
		t.Fatalf("NotifyListModified failed: %v", err)
	}

	if id, _ := h.c.GetActiveVariation(0, 0); id != 3 {
		t.Errorf("Expected active 3 kept across list update, got %d", id)
	}
	found := false
	for _, c := range h.observed {
		if c.Message == notify.VariationListModified {
			found = true
		}
	}
	if !found {
		t.Error("Expected VariationListModified notification")
	}
}

func TestProcessEventsDrainsQueueInOrder(t *testing.T) {
	h := newHarness(t, variation.ProviderFunc(testProvider))
	var rec countingReceiver
	if err := h.c.GetVariationList(0, 0, &rec); err != nil {
		t.Fatal(err)
	}

	q := midi.NewEventQueue()
	q.Add(midi.NoteOnEvent{BaseEvent: midi.BaseEvent{Offset: 32}, NoteNumber: 36, Velocity: 90})
	q.Add(midi.NoteOffEvent{BaseEvent: midi.BaseEvent{Offset: 96}, NoteNumber: 36})

	// First half of the block: the key switch goes down.
	h.c.ProcessEvents(0, 0, q, 0, 64)
	if id, _ := h.c.GetActiveVariation(0, 0); id != 2 {
		t.Errorf("Expected momentary 2 after first half, got %d", id)
	}

	// Second half: released, back to the default.
	h.c.ProcessEvents(0, 0, q, 64, 128)
	if id, _ := h.c.GetActiveVariation(0, 0); id != 1 {
		t.Errorf("Expected default 1 after release, got %d", id)
	}
}

func TestStateRoundTrip(t *testing.T) {
	h := newHarness(t, variation.ProviderFunc(testProvider))
	var rec countingReceiver
	if err := h.c.GetVariationList(0, 0, &rec); err != nil {
		t.Fatal(err)
	}

	h.c.HandleWireV3(wire.NewV3Activate(0, 0, 3))
	h.c.SetKeySwitchesDisabled(true)

	var buf bytes.Buffer
	if err := h.c.SaveState(&buf); err != nil {
		t.Fatalf("SaveState failed: %v", err)
	}

	restored := newHarness(t, variation.ProviderFunc(testProvider))
	if err := restored.c.GetVariationList(0, 0, &rec); err != nil {
		t.Fatal(err)
	}
	if err := restored.c.LoadState(&buf); err != nil {
		t.Fatalf("LoadState failed: %v", err)
	}

	if restored.c.AreKeySwitchesDisabled() != variation.TriTrue {
		t.Error("Key-switch-disable mode not restored")
	}
	if id, ok := restored.c.GetActiveVariation(0, 0); !ok || id != 3 {
		t.Errorf("GetActiveVariation = %d ok=%v, want restored 3", id, ok)
	}
}

func TestLoadStateSkipsUnknownVariation(t *testing.T) {
	h := newHarness(t, variation.ProviderFunc(testProvider))
	var rec countingReceiver
	if err := h.c.GetVariationList(0, 0, &rec); err != nil {
		t.Fatal(err)
	}
	h.c.HandleWireV3(wire.NewV3Activate(0, 0, 3))

	var buf bytes.Buffer
	if err := h.c.SaveState(&buf); err != nil {
		t.Fatal(err)
	}

	// The restored plug-in carries a preset without id 3.
	restored := newHarness(t, variation.ProviderFunc(func(_ int32, _ int16, list variation.ListReceiver) error {
		d := variation.NewData(1, "Sustain")
		d.Flags |= variation.FlagIsDefault
		list.AddVariation(d)
		return nil
	}))
	if err := restored.c.GetVariationList(0, 0, &rec); err != nil {
		t.Fatal(err)
	}
	if err := restored.c.LoadState(&buf); err != nil {
		t.Fatalf("LoadState failed: %v", err)
	}

	// The stale selection is skipped; the unit stays on the default.
	if id, ok := restored.c.GetActiveVariation(0, 0); !ok || id != 1 {
		t.Errorf("GetActiveVariation = %d ok=%v, want default 1", id, ok)
	}
}

func TestInfoUID(t *testing.T) {
	uid := testInfo.UID()
	if string(uid[:]) != testInfo.ID[:16] {
		t.Errorf("UID = %q, want %q", uid, testInfo.ID[:16])
	}

	short := Info{ID: "abc"}.UID()
	if short[0] != 'a' || short[3] != 0 {
		t.Errorf("Short UID = %v", short)
	}
}
