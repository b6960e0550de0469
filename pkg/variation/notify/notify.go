// Package notify carries change signals from the plug-in to the host.
// Delivery is level triggered: a signal names what category of state is
// stale and which unit it concerns, never the new value. The receiver
// re-queries the catalog or the active-variation accessor.
package notify

import (
	"github.com/charmbracelet/log"
)

// Message is the category of a change signal.
type Message int32

const (
	// PresetChanged: a new sound preset was loaded. The host should
	// re-query the variation list and discard cached variation data.
	PresetChanged Message = iota
	// VariationListModified: the list of the loaded preset was edited.
	// The host should re-query the variation list and adjust caches.
	VariationListModified
	// ActiveVariationChanged: the host should re-query the active
	// variation.
	ActiveVariationChanged
)

func (m Message) String() string {
	switch m {
	case PresetChanged:
		return "preset changed"
	case VariationListModified:
		return "variation list modified"
	case ActiveVariationChanged:
		return "active variation changed"
	default:
		return "unknown"
	}
}

// Change is one queued signal. Bus/Channel scope the signal to a unit;
// -1/-1 means all units.
type Change struct {
	Message Message
	Bus     int32
	Channel int16
}

// Observer is implemented by the host. It must only be invoked from the
// coordinating context, never from the audio path.
type Observer interface {
	OnSoundVariationsChanged(change Change)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(change Change)

func (f ObserverFunc) OnSoundVariationsChanged(change Change) {
	f(change)
}

// Dispatcher converts queued change flags into observer calls. The audio
// path pushes flags into the queue; the coordinating context calls
// Deliver to drain it. Coordinating-context state changes (preset load,
// list edits) bypass the queue via Notify.
type Dispatcher struct {
	queue    *Queue
	observer Observer
	logger   *log.Logger
}

// NewDispatcher wires a queue to an observer. logger may be nil to
// disable delivery tracing.
func NewDispatcher(queue *Queue, observer Observer, logger *log.Logger) *Dispatcher {
	return &Dispatcher{
		queue:    queue,
		observer: observer,
		logger:   logger,
	}
}

// SetObserver replaces the observer. A nil observer drops deliveries.
func (d *Dispatcher) SetObserver(observer Observer) {
	d.observer = observer
}

// Deliver drains the flag queue and invokes the observer once per flag.
// It returns the number of delivered signals. Coordinating context only.
func (d *Dispatcher) Deliver() int {
	n := 0
	for {
		change, ok := d.queue.Pop()
		if !ok {
			return n
		}
		d.dispatch(change)
		n++
	}
}

// Notify delivers a change immediately. Coordinating context only; the
// audio path must push into the queue instead.
func (d *Dispatcher) Notify(msg Message, bus int32, channel int16) {
	d.dispatch(Change{Message: msg, Bus: bus, Channel: channel})
}

func (d *Dispatcher) dispatch(change Change) {
	if d.logger != nil {
		d.logger.Debug("sound variations changed",
			"message", change.Message.String(),
			"bus", change.Bus,
			"channel", change.Channel)
	}
	if d.observer != nil {
		d.observer.OnSoundVariationsChanged(change)
	}
}
