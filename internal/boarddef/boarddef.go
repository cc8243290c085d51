// SPDX-License-Identifier: BSD-3-Clause

// Package boarddef loads the static per-board definition (key count,
// default keymap, default actuation curve, ADC inversion) from a TOML file,
// replacing the original firmware's per-board config.h/board.h headers. A
// board target ships its own definition file; the hosted simulator ships
// one describing a generic 100-key layout.
package boarddef

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// Definition is the static, compile-time-ish description of a board: how
// many keys it has, what its default keymap/actuation look like, and
// whether its analog front-end needs inversion.
type Definition struct {
	Name            string   `toml:"name"`
	NumKeys         int      `toml:"num_keys"`
	SwitchTravel    uint8    `toml:"switch_travel"`
	InvertADC       bool     `toml:"invert_adc"`
	DefaultKeymap   []string `toml:"default_keymap"`   // len == NumKeys, KC_ names resolved by internal/layout
	DefaultActuationPoint uint8 `toml:"default_actuation_point"`
	DefaultRestValue      uint16 `toml:"default_rest_value"`
	DefaultBottomOutValue uint16 `toml:"default_bottom_out_value"`
	BootloaderAddress     uint32 `toml:"bootloader_address"`
}

// Load reads and validates a board definition from a TOML file at path.
func Load(path string) (*Definition, error) {
	var def Definition
	if _, err := toml.DecodeFile(path, &def); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecodeFailed, err)
	}
	if err := def.Validate(); err != nil {
		return nil, err
	}
	return &def, nil
}

// Validate checks internal consistency of the definition.
func (d *Definition) Validate() error {
	if d.NumKeys <= 0 {
		return fmt.Errorf("%w: num_keys must be positive", ErrInvalidDefinition)
	}
	if len(d.DefaultKeymap) != 0 && len(d.DefaultKeymap) != d.NumKeys {
		return fmt.Errorf("%w: default_keymap length %d != num_keys %d", ErrInvalidDefinition, len(d.DefaultKeymap), d.NumKeys)
	}
	return nil
}

// Generic returns a minimal built-in definition for the hosted simulator
// when no board TOML file is supplied.
func Generic(numKeys int) *Definition {
	return &Definition{
		Name:                  "generic-simulator",
		NumKeys:               numKeys,
		SwitchTravel:          255,
		DefaultActuationPoint: 128,
		DefaultRestValue:      200,
		DefaultBottomOutValue: 3800,
		BootloaderAddress:     0x1FFF0000,
	}
}
