package core

import (
	"errors"

	"tinygo.org/x/drivers"
)

// SPIBusID identifies a hardware SPI bus configuration (controller + pins)
type SPIBusID uint8

// SPIMode represents SPI clock polarity and phase (0-3)
// Mode 0: CPOL=0, CPHA=0 (clock idle low, sample on rising edge)
// Mode 1: CPOL=0, CPHA=1 (clock idle low, sample on falling edge)
// Mode 2: CPOL=1, CPHA=0 (clock idle high, sample on falling edge)
// Mode 3: CPOL=1, CPHA=1 (clock idle high, sample on rising edge)
type SPIMode uint8

// ErrInvalidSPIMode is returned for modes outside 0-3
var ErrInvalidSPIMode = errors.New("invalid SPI mode")

// SPIConfig holds the configuration for an SPI bus.
// Transfers are always MSB first.
type SPIConfig struct {
	BusID SPIBusID // Hardware bus identifier
	Mode  SPIMode  // SPI mode (0-3)
	Rate  uint32   // Clock rate in Hz
}

// Validate checks the mode and rate
func (c SPIConfig) Validate() error {
	if c.Mode > 3 {
		return ErrInvalidSPIMode
	}
	if c.Rate == 0 {
		return errors.New("SPI rate must be non-zero")
	}
	return nil
}

// SPIDriver is the abstract SPI interface that core code uses.
// Platform-specific implementations handle actual hardware control.
type SPIDriver interface {
	// ConfigureBus sets up a hardware SPI bus with specified parameters
	// and returns it ready for transfers
	ConfigureBus(config SPIConfig) (drivers.SPI, error)

	// GetBusInfo returns information about available SPI buses
	// Returns a map of bus IDs to human-readable descriptions
	GetBusInfo() map[SPIBusID]string
}
