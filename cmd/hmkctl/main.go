// SPDX-License-Identifier: BSD-3-Clause

// Command hmkctl is the host-side configurator: it talks
// internal/commandproto's command set to a running board (or cmd/hmksim)
// as ordinary NATS request/reply calls, the Go analogue of the original
// firmware's USB-HID host configurator tool.
package main

import (
	"time"

	"github.com/alecthomas/kong"
	"github.com/nats-io/nats.go"
)

// CLI is hmkctl's full command surface. Every subcommand's Run method
// receives the shared *nats.Conn and *CLI (for Timeout) via kong's
// dependency binding.
type CLI struct {
	Addr    string        `help:"NATS address of the board's IPC bus" default:"nats://127.0.0.1:4222" env:"HMKCTL_ADDR"`
	Timeout time.Duration `help:"Per-command request timeout" default:"2s"`

	FirmwareVersion  FirmwareVersionCmd  `cmd:"" name:"firmware-version" help:"Print the board's config schema version"`
	Reboot           RebootCmd           `cmd:"" help:"Soft-reset the board"`
	Bootloader       BootloaderCmd       `cmd:"" help:"Reset into the bootloader"`
	FactoryReset     FactoryResetCmd     `cmd:"" name:"factory-reset" help:"Erase all profiles and calibration"`
	Recalibrate      RecalibrateCmd      `cmd:"" help:"Re-run rest/bottom-out calibration on every key"`
	AnalogInfo       AnalogInfoCmd       `cmd:"" name:"analog-info" help:"Print live filtered travel distance for a key range"`
	GetCalibration   GetCalibrationCmd   `cmd:"" name:"get-calibration" help:"Print rest/bottom-out ADC calibration"`
	SetCalibration   SetCalibrationCmd   `cmd:"" name:"set-calibration" help:"Overwrite rest/bottom-out ADC calibration"`
	GetProfile       GetProfileCmd       `cmd:"" name:"get-profile" help:"Print the active profile index"`
	ResetProfile     ResetProfileCmd     `cmd:"" name:"reset-profile" help:"Restore one profile to board defaults"`
	DuplicateProfile DuplicateProfileCmd `cmd:"" name:"duplicate-profile" help:"Copy one profile onto another"`
	GetMetadata      GetMetadataCmd      `cmd:"" name:"get-metadata" help:"Print board name, key count, switch travel, config version"`
	GetLogLevel      GetLogLevelCmd      `cmd:"" name:"get-log-level" help:"Print the firmware's current log level"`
	SetLogLevel      SetLogLevelCmd      `cmd:"" name:"set-log-level" help:"Change the firmware's log level"`
	Raw              RawCmd              `cmd:"" help:"Send a raw command ID with a hex payload"`
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("hmkctl"),
		kong.Description("Host-side configurator for the Hall-effect keyboard firmware core"),
		kong.UsageOnError(),
	)

	nc, err := nats.Connect(cli.Addr)
	ctx.FatalIfErrorf(err)
	defer nc.Close()

	ctx.Bind(nc)
	ctx.Bind(&cli)

	err = ctx.Run()
	ctx.FatalIfErrorf(err)
}
