// SPDX-License-Identifier: BSD-3-Clause

//go:build linux
// +build linux

// Package boardgpio implements capability.BoardControl over real GPIO
// lines, for a keyboard host built on a Linux SBC (e.g. a Raspberry Pi
// driving an external matrix) rather than a dedicated MCU. Bootloader
// entry and soft reset are modeled as momentary line pulses to a
// supervisory reset controller; status and recalibrate use plain
// level lines.
package boardgpio

import (
	"context"
	"fmt"
	"time"

	"github.com/openhmk/hmkcore/pkg/gpio"
)

const (
	// defaultPulseDuration is how long EnterBootloader/Reboot hold their
	// line high before the board's reset supervisor acts on it.
	defaultPulseDuration = 200 * time.Millisecond
	// recalibratePollInterval is how often WatchRecalibrateButton samples
	// the button line for a falling edge.
	recalibratePollInterval = 20 * time.Millisecond
)

// Config names the GPIO chip and line for each control signal. StatusLED
// and RecalibrateLine are optional; leave them empty to skip wiring them.
type Config struct {
	Chip string

	BootloaderLine string
	ResetLine      string
	StatusLEDLine  string

	RecalibrateLine string
}

// Board drives a board's bootloader-entry, reset, and status-LED lines
// over a GPIO character device chip.
type Board struct {
	cfg Config
}

// New validates cfg and returns a Board ready to drive its lines. Lines
// are requested and released per call rather than held open, matching
// pkg/gpio's one-shot Toggle/Set helpers.
func New(cfg Config) (*Board, error) {
	if cfg.Chip == "" {
		return nil, fmt.Errorf("%w: chip path must not be empty", gpio.ErrInvalidChipPath)
	}
	if cfg.BootloaderLine == "" {
		return nil, fmt.Errorf("%w: bootloader line must not be empty", gpio.ErrInvalidLineName)
	}
	if cfg.ResetLine == "" {
		return nil, fmt.Errorf("%w: reset line must not be empty", gpio.ErrInvalidLineName)
	}
	return &Board{cfg: cfg}, nil
}

// EnterBootloader pulses the bootloader-request line. The reset
// supervisor on the other end is expected to hold the board in its
// bootloader on seeing the line asserted across a reset.
func (b *Board) EnterBootloader() error {
	return gpio.ToggleGPIO(b.cfg.Chip, b.cfg.BootloaderLine, defaultPulseDuration)
}

// Reboot pulses the reset line.
func (b *Board) Reboot() error {
	return gpio.ToggleGPIO(b.cfg.Chip, b.cfg.ResetLine, defaultPulseDuration)
}

// SetStatusLED drives the status LED line high or low. A no-op when
// Config.StatusLEDLine is unset.
func (b *Board) SetStatusLED(on bool) {
	if b.cfg.StatusLEDLine == "" {
		return
	}
	value := 0
	if on {
		value = 1
	}
	_ = gpio.SetGPIO(b.cfg.Chip, b.cfg.StatusLEDLine, value)
}

// WatchRecalibrateButton polls the configured recalibrate line and
// invokes onPress each time it observes a high-to-low transition,
// until ctx is canceled. Returns immediately if Config.RecalibrateLine
// is unset.
func (b *Board) WatchRecalibrateButton(ctx context.Context, onPress func()) error {
	if b.cfg.RecalibrateLine == "" {
		return nil
	}

	ticker := time.NewTicker(recalibratePollInterval)
	defer ticker.Stop()

	last := 1
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			value, err := gpio.GetGPIO(b.cfg.Chip, b.cfg.RecalibrateLine)
			if err != nil {
				return err
			}
			if last == 1 && value == 0 {
				onPress()
			}
			last = value
		}
	}
}
