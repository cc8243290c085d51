// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/nats-io/nats.go"

	"github.com/openhmk/hmkcore/pkg/ipc"
)

// FirmwareVersionCmd prints the board's config schema version.
type FirmwareVersionCmd struct{}

func (c *FirmwareVersionCmd) Run(nc *nats.Conn, cli *CLI) error {
	resp, err := sendCommand(nc, cli.Timeout, ipc.CommandFirmwareVersion, nil)
	if err != nil {
		return err
	}
	if len(resp) < 2 {
		return ErrCommandFailed
	}
	fmt.Printf("config version: %d\n", binary.LittleEndian.Uint16(resp))
	return nil
}

// RebootCmd performs a normal soft reset.
type RebootCmd struct{}

func (c *RebootCmd) Run(nc *nats.Conn, cli *CLI) error {
	_, err := sendCommand(nc, cli.Timeout, ipc.CommandReboot, nil)
	return err
}

// BootloaderCmd resets the board into its bootloader.
type BootloaderCmd struct{}

func (c *BootloaderCmd) Run(nc *nats.Conn, cli *CLI) error {
	_, err := sendCommand(nc, cli.Timeout, ipc.CommandBootloader, nil)
	return err
}

// FactoryResetCmd erases all profiles and calibration.
type FactoryResetCmd struct {
	Yes bool `help:"Confirm the reset; the command refuses to run without it" default:"false"`
}

func (c *FactoryResetCmd) Run(nc *nats.Conn, cli *CLI) error {
	if !c.Yes {
		return fmt.Errorf("refusing to factory-reset without --yes")
	}
	_, err := sendCommand(nc, cli.Timeout, ipc.CommandFactoryReset, nil)
	return err
}

// RecalibrateCmd re-runs rest/bottom-out calibration on every key.
type RecalibrateCmd struct{}

func (c *RecalibrateCmd) Run(nc *nats.Conn, cli *CLI) error {
	_, err := sendCommand(nc, cli.Timeout, ipc.CommandRecalibrate, nil)
	return err
}

// AnalogInfoCmd prints the live filtered travel distance for a key range.
type AnalogInfoCmd struct {
	Start int `help:"First physical key index" default:"0"`
	Count int `help:"Number of keys to read" default:"1"`
}

func (c *AnalogInfoCmd) Run(nc *nats.Conn, cli *CLI) error {
	resp, err := sendCommand(nc, cli.Timeout, ipc.CommandAnalogInfo, []byte{byte(c.Start), byte(c.Count)})
	if err != nil {
		return err
	}
	for i, d := range resp {
		fmt.Printf("key %d: distance %d/255\n", c.Start+i, d)
	}
	return nil
}

// GetCalibrationCmd prints the board's rest/bottom-out ADC calibration.
type GetCalibrationCmd struct{}

func (c *GetCalibrationCmd) Run(nc *nats.Conn, cli *CLI) error {
	resp, err := sendCommand(nc, cli.Timeout, ipc.CommandGetCalibration, nil)
	if err != nil {
		return err
	}
	if len(resp) < 4 {
		return ErrCommandFailed
	}
	fmt.Printf("rest: %d  bottom_out: %d\n",
		binary.LittleEndian.Uint16(resp[0:2]), binary.LittleEndian.Uint16(resp[2:4]))
	return nil
}

// SetCalibrationCmd overwrites the board's rest/bottom-out ADC calibration.
type SetCalibrationCmd struct {
	Rest      uint16 `arg:"" help:"Rest-position ADC reading"`
	BottomOut uint16 `arg:"" help:"Bottom-out ADC reading"`
}

func (c *SetCalibrationCmd) Run(nc *nats.Conn, cli *CLI) error {
	var b [4]byte
	binary.LittleEndian.PutUint16(b[0:2], c.Rest)
	binary.LittleEndian.PutUint16(b[2:4], c.BottomOut)
	_, err := sendCommand(nc, cli.Timeout, ipc.CommandSetCalibration, b[:])
	return err
}

// GetProfileCmd prints the active profile index.
type GetProfileCmd struct{}

func (c *GetProfileCmd) Run(nc *nats.Conn, cli *CLI) error {
	resp, err := sendCommand(nc, cli.Timeout, ipc.CommandGetProfile, nil)
	if err != nil {
		return err
	}
	if len(resp) < 1 {
		return ErrCommandFailed
	}
	fmt.Printf("active profile: %d\n", resp[0])
	return nil
}

// ResetProfileCmd restores one profile to board defaults.
type ResetProfileCmd struct {
	Profile int `arg:"" help:"Profile index to reset"`
}

func (c *ResetProfileCmd) Run(nc *nats.Conn, cli *CLI) error {
	_, err := sendCommand(nc, cli.Timeout, ipc.CommandResetProfile, []byte{byte(c.Profile)})
	return err
}

// DuplicateProfileCmd copies one profile's configuration onto another.
type DuplicateProfileCmd struct {
	Dst int `arg:"" help:"Destination profile index"`
	Src int `arg:"" help:"Source profile index"`
}

func (c *DuplicateProfileCmd) Run(nc *nats.Conn, cli *CLI) error {
	_, err := sendCommand(nc, cli.Timeout, ipc.CommandDuplicateProfile, []byte{byte(c.Dst), byte(c.Src)})
	return err
}

// GetMetadataCmd prints the board's name, key count, switch travel, and
// config schema version.
type GetMetadataCmd struct{}

func (c *GetMetadataCmd) Run(nc *nats.Conn, cli *CLI) error {
	resp, err := sendCommand(nc, cli.Timeout, ipc.CommandGetMetadata, []byte{0, 28})
	if err != nil {
		return err
	}
	if len(resp) < 28 {
		return ErrCommandFailed
	}
	name := strings.TrimRight(string(resp[0:24]), "\x00")
	fmt.Printf("name: %s\nnum_keys: %d\nswitch_travel: %d\nconfig_version: %d\n",
		name, resp[24], resp[25], binary.LittleEndian.Uint16(resp[26:28]))
	return nil
}

// GetLogLevelCmd prints the firmware's current log level.
type GetLogLevelCmd struct{}

func (c *GetLogLevelCmd) Run(nc *nats.Conn, cli *CLI) error {
	resp, err := sendCommand(nc, cli.Timeout, ipc.CommandGetLogLevel, nil)
	if err != nil {
		return err
	}
	if len(resp) < 1 {
		return ErrCommandFailed
	}
	fmt.Println(logLevelName(resp[0]))
	return nil
}

// SetLogLevelCmd changes the firmware's log level.
type SetLogLevelCmd struct {
	Level string `arg:"" help:"One of debug, info, warn, error" enum:"debug,info,warn,error"`
}

func (c *SetLogLevelCmd) Run(nc *nats.Conn, cli *CLI) error {
	code, ok := logLevelCode(c.Level)
	if !ok {
		return fmt.Errorf("unknown log level %q", c.Level)
	}
	_, err := sendCommand(nc, cli.Timeout, ipc.CommandSetLogLevel, []byte{code})
	return err
}

func logLevelName(code byte) string {
	switch code {
	case 0:
		return "debug"
	case 1:
		return "info"
	case 2:
		return "warn"
	case 3:
		return "error"
	default:
		return "unknown"
	}
}

func logLevelCode(name string) (byte, bool) {
	switch name {
	case "debug":
		return 0, true
	case "info":
		return 1, true
	case "warn":
		return 2, true
	case "error":
		return 3, true
	default:
		return 0, false
	}
}

// RawCmd is the escape hatch covering every command ID a convenience
// subcommand above doesn't wrap directly (the keymap/actuation-map/
// advanced-key/gamepad-button block commands take variable-length,
// element-indexed payloads better expressed as hex on the command line
// than as a bespoke flag set per command).
type RawCmd struct {
	ID      uint8  `arg:"" help:"Numeric command ID"`
	Payload string `arg:"" optional:"" help:"Request payload as hex, e.g. 0002 for profile 0, layer 2"`
}

func (c *RawCmd) Run(nc *nats.Conn, cli *CLI) error {
	payload, err := hex.DecodeString(c.Payload)
	if err != nil {
		return fmt.Errorf("decode payload hex: %w", err)
	}
	resp, err := sendCommand(nc, cli.Timeout, c.ID, payload)
	if err != nil {
		return err
	}
	fmt.Println(hex.EncodeToString(resp))
	return nil
}
