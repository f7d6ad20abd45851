package core

// GPIOPin identifies a hardware GPIO pin number
type GPIOPin uint32

// GPIODriver is the abstract GPIO interface that core code uses.
// Platform-specific implementations handle actual hardware control.
type GPIODriver interface {
	// ConfigureOutput configures a pin as a digital output
	// Returns error if pin is invalid or already in use
	ConfigureOutput(pin GPIOPin) error

	// ConfigureInputPullUp configures a pin as a digital input with pull-up resistor
	ConfigureInputPullUp(pin GPIOPin) error

	// SetPin sets the pin to high (true) or low (false)
	SetPin(pin GPIOPin, value bool) error

	// GetPin reads the current pin state
	GetPin(pin GPIOPin) (bool, error)
}

// MemoryGPIO is a GPIODriver that keeps pin state in memory.
// Host builds and tests use it in place of real hardware.
type MemoryGPIO struct {
	pins    map[GPIOPin]bool
	toggles map[GPIOPin]int
}

// NewMemoryGPIO creates an empty in-memory GPIO driver
func NewMemoryGPIO() *MemoryGPIO {
	return &MemoryGPIO{
		pins:    make(map[GPIOPin]bool),
		toggles: make(map[GPIOPin]int),
	}
}

func (m *MemoryGPIO) ConfigureOutput(pin GPIOPin) error {
	m.pins[pin] = false
	return nil
}

func (m *MemoryGPIO) ConfigureInputPullUp(pin GPIOPin) error {
	m.pins[pin] = true
	return nil
}

func (m *MemoryGPIO) SetPin(pin GPIOPin, value bool) error {
	if m.pins[pin] != value {
		m.toggles[pin]++
	}
	m.pins[pin] = value
	return nil
}

func (m *MemoryGPIO) GetPin(pin GPIOPin) (bool, error) {
	return m.pins[pin], nil
}

// Toggles returns how many times the pin changed level
func (m *MemoryGPIO) Toggles(pin GPIOPin) int {
	return m.toggles[pin]
}
