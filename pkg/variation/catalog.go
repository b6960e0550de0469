package variation

import (
	"errors"
	"fmt"
)

// ListReceiver is the host-side sink driven by a plug-in when it reports
// its variation catalog, in display order. Variations may appear at top
// level or inside (arbitrarily nested) folders.
type ListReceiver interface {
	AddVariation(data Data)
	BeginFolder(folder FolderData)
	EndFolder()
	SetPresetInfo(info PresetInfo)
}

// Provider is implemented by the plug-in side to populate a catalog for
// one addressable unit.
type Provider interface {
	ProvideVariations(busIndex int32, channel int16, list ListReceiver) error
}

// ProviderFunc adapts a function to the Provider interface.
type ProviderFunc func(busIndex int32, channel int16, list ListReceiver) error

func (f ProviderFunc) ProvideVariations(busIndex int32, channel int16, list ListReceiver) error {
	return f(busIndex, channel, list)
}

// NodeKind discriminates catalog snapshot nodes.
type NodeKind int32

const (
	NodeVariation NodeKind = iota
	NodeFolderBegin
	NodeFolderEnd
)

// Node is one entry of a catalog snapshot: a variation, a folder opening
// bracket, or a folder closing bracket.
type Node struct {
	Kind      NodeKind
	Variation Data       // valid for NodeVariation
	Folder    FolderData // valid for NodeFolderBegin
}

// Builder assembles a catalog snapshot. It implements ListReceiver, so a
// Provider can drive it directly. Contract violations (unmatched
// EndFolder, duplicate IDs, folders left open) are accumulated and
// reported by Build; the offending call is rejected without disturbing
// nodes added before it.
type Builder struct {
	nodes       []Node
	depth       int
	seen        map[VariationID]int
	haveDefault bool
	preset      PresetInfo
	hasPreset   bool
	errs        []error
}

// Contract violations reported by Builder.Build.
var (
	ErrUnbalancedFolder = errors.New("variation: endFolder without matching beginFolder")
	ErrUnclosedFolder   = errors.New("variation: folder left open at build")
	ErrDuplicateID      = errors.New("variation: duplicate variation id")
)

func NewBuilder() *Builder {
	return &Builder{
		seen: make(map[VariationID]int),
	}
}

// AddVariation appends a variation at the current position. A second
// variation claiming the default flag has the flag cleared so that one
// snapshot never carries more than one default. Titles are clamped to
// MaxTitleLen.
func (b *Builder) AddVariation(data Data) {
	if _, dup := b.seen[data.ID]; dup {
		b.errs = append(b.errs, fmt.Errorf("%w: %d", ErrDuplicateID, data.ID))
		return
	}

	data.Title = clampTitle(data.Title)
	if data.IsDefault() {
		if b.haveDefault {
			data.Flags &^= FlagIsDefault
		} else {
			b.haveDefault = true
		}
	}

	b.seen[data.ID] = len(b.nodes)
	b.nodes = append(b.nodes, Node{Kind: NodeVariation, Variation: data})
}

// BeginFolder opens a folder. All following variations belong to it until
// the matching EndFolder.
func (b *Builder) BeginFolder(folder FolderData) {
	folder.Title = clampTitle(folder.Title)
	b.nodes = append(b.nodes, Node{Kind: NodeFolderBegin, Folder: folder})
	b.depth++
}

// EndFolder closes the innermost open folder. Called without an open
// folder it records a contract violation and leaves the node list intact;
// the depth counter never goes negative.
func (b *Builder) EndFolder() {
	if b.depth == 0 {
		b.errs = append(b.errs, ErrUnbalancedFolder)
		return
	}
	b.nodes = append(b.nodes, Node{Kind: NodeFolderEnd})
	b.depth--
}

// SetPresetInfo records the preset the variations belong to.
func (b *Builder) SetPresetInfo(info PresetInfo) {
	info.Name = clampTitle(info.Name)
	info.Path = clampTitle(info.Path)
	b.preset = info
	b.hasPreset = true
}

// Depth returns the number of currently open folders.
func (b *Builder) Depth() int {
	return b.depth
}

// Build returns the assembled snapshot. Any recorded contract violation,
// or a folder still open, fails the build; no snapshot is produced, so a
// previously published snapshot is never corrupted by a bad rebuild.
func (b *Builder) Build() (*Snapshot, error) {
	errs := b.errs
	if b.depth != 0 {
		errs = append(errs, fmt.Errorf("%w: %d open", ErrUnclosedFolder, b.depth))
	}
	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}

	snap := &Snapshot{
		nodes:     make([]Node, len(b.nodes)),
		preset:    b.preset,
		hasPreset: b.hasPreset,
		index:     make(map[VariationID]int, len(b.seen)),
	}
	copy(snap.nodes, b.nodes)
	for id, pos := range b.seen {
		snap.index[id] = pos
	}
	return snap, nil
}

// Snapshot is an immutable, fully built catalog. It is published as a
// value for concurrent readers; nothing mutates it after Build.
type Snapshot struct {
	nodes     []Node
	preset    PresetInfo
	hasPreset bool
	index     map[VariationID]int
}

// Nodes returns the snapshot's node sequence in display order. The slice
// must be treated as read-only.
func (s *Snapshot) Nodes() []Node {
	return s.nodes
}

// Len returns the number of variations (folder brackets excluded).
func (s *Snapshot) Len() int {
	return len(s.index)
}

// PresetInfo returns the preset info, if one was reported.
func (s *Snapshot) PresetInfo() (PresetInfo, bool) {
	return s.preset, s.hasPreset
}

// Find returns the variation with the given ID.
func (s *Snapshot) Find(id VariationID) (Data, bool) {
	pos, ok := s.index[id]
	if !ok {
		return Data{}, false
	}
	return s.nodes[pos].Variation, true
}

// Default returns the variation flagged as default, if any.
func (s *Snapshot) Default() (Data, bool) {
	for _, n := range s.nodes {
		if n.Kind == NodeVariation && n.Variation.IsDefault() {
			return n.Variation, true
		}
	}
	return Data{}, false
}

// Variations returns the variations in display order, flattened across
// folders.
func (s *Snapshot) Variations() []Data {
	out := make([]Data, 0, len(s.index))
	for _, n := range s.nodes {
		if n.Kind == NodeVariation {
			out = append(out, n.Variation)
		}
	}
	return out
}

// Replay drives a ListReceiver with the snapshot content in display
// order, exactly as the producing plug-in reported it.
func (s *Snapshot) Replay(r ListReceiver) {
	if s.hasPreset {
		r.SetPresetInfo(s.preset)
	}
	for _, n := range s.nodes {
		switch n.Kind {
		case NodeVariation:
			r.AddVariation(n.Variation)
		case NodeFolderBegin:
			r.BeginFolder(n.Folder)
		case NodeFolderEnd:
			r.EndFolder()
		}
	}
}

// DisplayTitle resolves the display name of a variation, prepending the
// titles of enclosing folders that carry the prepend flag.
func (s *Snapshot) DisplayTitle(id VariationID) (string, bool) {
	pos, ok := s.index[id]
	if !ok {
		return "", false
	}

	prefix := ""
	var stack []FolderData
	for i := 0; i <= pos; i++ {
		switch s.nodes[i].Kind {
		case NodeFolderBegin:
			stack = append(stack, s.nodes[i].Folder)
		case NodeFolderEnd:
			stack = stack[:len(stack)-1]
		}
	}
	for _, f := range stack {
		if f.PrependTitle() && f.Title != "" {
			prefix += f.Title + " "
		}
	}
	return prefix + s.nodes[pos].Variation.Title, true
}
