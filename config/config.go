// Package config holds the board and menu settings shared by the firmware
// and the host tools.
package config

import (
	"errors"
	"fmt"
	"path"
	"time"

	"disk2/core"
	"disk2/dispatch"
)

// Config describes one board: the SPI link to the FPGA, the signal pins
// and where disk images live.
type Config struct {
	SPI SPIConfig `yaml:"spi"`

	// LED toggled around every SPI transaction. On the ULX3S it doubles
	// as the FPGA select line.
	LEDPin core.GPIOPin `yaml:"led_pin"`

	// Falling edge on this pin means the FPGA has an event
	IRQPin core.GPIOPin `yaml:"irq_pin"`

	// Mount point of the SD card
	ImageRoot string `yaml:"image_root"`

	// Directory the browser opens in, relative to ImageRoot
	StartDir string `yaml:"start_dir"`

	// Image mounted before the IRQ is armed. Empty leaves the drive empty.
	InitialImage string `yaml:"initial_image"`

	// Glob patterns for files shown in the browser. Empty (the default)
	// lists every file.
	Filter []string `yaml:"filter"`

	// Dispatches slower than this are counted as overruns
	LatencyBudget time.Duration `yaml:"latency_budget"`

	// Deferred runs dispatches on a goroutine; the IRQ handler only
	// triggers. Otherwise the IRQ handler dispatches directly.
	Deferred bool `yaml:"deferred"`

	// Debug enables the core debug sink
	Debug bool `yaml:"debug"`
}

// SPIConfig selects the SPI bus and its clocking
type SPIConfig struct {
	Bus  core.SPIBusID `yaml:"bus"`
	Mode core.SPIMode  `yaml:"mode"`
	Rate uint32        `yaml:"rate"` // Hz
}

// Defaults
const (
	DefaultSPIRate   = 2000000 // 2 MHz
	DefaultImageRoot = "/sd"
	DefaultStartDir  = "/"
)

// Default returns the configuration for a ULX3S wired to a Pico
func Default() *Config {
	cfg := &Config{
		SPI: SPIConfig{
			Bus:  2, // spi0c: SCK=GPIO18 MOSI=GPIO19 MISO=GPIO16
			Mode: 0,
			Rate: DefaultSPIRate,
		},
		LEDPin:       25,
		IRQPin:       20,
		InitialImage: "/apple2/snack_attack.nib",
	}
	applyDefaults(cfg)
	return cfg
}

// applyDefaults fills in missing configuration values
func applyDefaults(cfg *Config) {
	if cfg.SPI.Rate == 0 {
		cfg.SPI.Rate = DefaultSPIRate
	}
	if cfg.ImageRoot == "" {
		cfg.ImageRoot = DefaultImageRoot
	}
	if cfg.StartDir == "" {
		cfg.StartDir = DefaultStartDir
	}
	cfg.StartDir = path.Clean("/" + cfg.StartDir)
	if cfg.InitialImage != "" {
		cfg.InitialImage = path.Clean("/" + cfg.InitialImage)
	}
	if cfg.LatencyBudget == 0 {
		cfg.LatencyBudget = dispatch.DefaultLatencyBudget
	}
}

// Validate reports settings the board cannot run with
func (c *Config) Validate() error {
	if err := c.BusConfig().Validate(); err != nil {
		return fmt.Errorf("spi: %w", err)
	}
	if c.LEDPin == c.IRQPin {
		return errors.New("led_pin and irq_pin must differ")
	}
	if c.LatencyBudget < 0 {
		return errors.New("latency_budget must not be negative")
	}
	return nil
}

// BusConfig converts the SPI section for core.SPIDriver
func (c *Config) BusConfig() core.SPIConfig {
	return core.SPIConfig{
		BusID: c.SPI.Bus,
		Mode:  c.SPI.Mode,
		Rate:  c.SPI.Rate,
	}
}

// Dispatch converts the timing settings for dispatch.New
func (c *Config) Dispatch() dispatch.Config {
	return dispatch.Config{LatencyBudget: c.LatencyBudget}
}
