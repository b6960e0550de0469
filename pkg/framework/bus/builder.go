// Package bus describes the event bus layout of an instrument plug-in.
package bus

import (
	"fmt"
)

// Builder provides a fluent API for building bus configurations
type Builder struct {
	config *Configuration
	errors []error
}

// NewBuilder creates a new bus configuration builder
func NewBuilder() *Builder {
	return &Builder{
		config: &Configuration{
			eventBuses: []Info{},
		},
		errors: []error{},
	}
}

// WithEventInput adds an event input bus carrying the given number of
// channels (addressable units)
func (b *Builder) WithEventInput(name string, channels int32) *Builder {
	b.config.eventBuses = append(b.config.eventBuses, Info{
		Direction:    DirectionInput,
		ChannelCount: channels,
		Name:         name,
		IsActive:     true,
	})
	return b
}

// WithEventOutput adds an event output bus
func (b *Builder) WithEventOutput(name string) *Builder {
	b.config.eventBuses = append(b.config.eventBuses, Info{
		Direction:    DirectionOutput,
		ChannelCount: 1,
		Name:         name,
		IsActive:     true,
	})
	return b
}

// SetBusActive sets a specific bus as active/inactive
func (b *Builder) SetBusActive(direction Direction, index int32, active bool) *Builder {
	busIndex := int32(0)
	for i := range b.config.eventBuses {
		if b.config.eventBuses[i].Direction == direction {
			if busIndex == index {
				b.config.eventBuses[i].IsActive = active
				return b
			}
			busIndex++
		}
	}

	b.errors = append(b.errors, fmt.Errorf("bus not found: direction=%d, index=%d", direction, index))
	return b
}

// Validate checks if the configuration is valid
func (b *Builder) Validate() error {
	if len(b.errors) > 0 {
		return fmt.Errorf("builder errors: %v", b.errors)
	}

	hasInput := false
	for _, bi := range b.config.eventBuses {
		if bi.Direction == DirectionInput {
			hasInput = true
		}
		if bi.ChannelCount <= 0 {
			return fmt.Errorf("invalid channel count %d for bus %s", bi.ChannelCount, bi.Name)
		}
		if bi.ChannelCount > 16 {
			return fmt.Errorf("channel count %d exceeds maximum of 16 for bus %s", bi.ChannelCount, bi.Name)
		}
	}

	if !hasInput {
		return fmt.Errorf("configuration must have at least one event input bus")
	}

	return nil
}

// Build returns the built configuration or an error
func (b *Builder) Build() (*Configuration, error) {
	if err := b.Validate(); err != nil {
		return nil, err
	}
	return b.config, nil
}

// MustBuild returns the built configuration or panics on error
func (b *Builder) MustBuild() *Configuration {
	config, err := b.Build()
	if err != nil {
		panic(err)
	}
	return config
}
