// Package bus describes the event bus layout of an instrument plug-in.
// Every addressable unit the variation engine manages is one channel of
// one event input bus; the (busIndex, channel) pair is the addressing
// convention shared with the host.
package bus

// Direction represents the bus direction
type Direction int32

const (
	// DirectionInput represents input bus
	DirectionInput Direction = 0
	// DirectionOutput represents output bus
	DirectionOutput Direction = 1
)

// Info contains event bus configuration
type Info struct {
	Direction    Direction
	ChannelCount int32
	Name         string
	IsActive     bool
}

// Configuration manages the event buses of an instrument
type Configuration struct {
	eventBuses []Info
}

// NewInstrumentConfiguration creates the common single-bus instrument
// layout: one event input carrying 16 channels.
func NewInstrumentConfiguration() *Configuration {
	return &Configuration{
		eventBuses: []Info{
			{
				Direction:    DirectionInput,
				ChannelCount: 16,
				Name:         "Event In",
				IsActive:     true,
			},
		},
	}
}

// GetBusCount returns the number of buses for a given direction
func (c *Configuration) GetBusCount(direction Direction) int32 {
	count := int32(0)
	for _, b := range c.eventBuses {
		if b.Direction == direction {
			count++
		}
	}
	return count
}

// GetBusInfo returns information about a specific bus
func (c *Configuration) GetBusInfo(direction Direction, index int32) *Info {
	busIndex := int32(0)
	for i := range c.eventBuses {
		if c.eventBuses[i].Direction == direction {
			if busIndex == index {
				return &c.eventBuses[i]
			}
			busIndex++
		}
	}
	return nil
}

// EachUnit calls fn for every addressable unit of the active event input
// buses, in (busIndex, channel) order.
func (c *Configuration) EachUnit(fn func(busIndex int32, channel int16)) {
	busIndex := int32(0)
	for i := range c.eventBuses {
		if c.eventBuses[i].Direction != DirectionInput {
			continue
		}
		if c.eventBuses[i].IsActive {
			for ch := int32(0); ch < c.eventBuses[i].ChannelCount; ch++ {
				fn(busIndex, int16(ch))
			}
		}
		busIndex++
	}
}

// HasUnit reports whether (busIndex, channel) addresses a configured unit
// on an active event input bus.
func (c *Configuration) HasUnit(busIndex int32, channel int16) bool {
	info := c.GetBusInfo(DirectionInput, busIndex)
	if info == nil || !info.IsActive {
		return false
	}
	return channel >= 0 && int32(channel) < info.ChannelCount
}
