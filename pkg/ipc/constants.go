// SPDX-License-Identifier: BSD-3-Clause

package ipc

// Command protocol subjects. internal/commandproto registers one NATS micro
// endpoint per command ID on "hmk.cmd.<id>"; the raw-HID transport bridges
// a 64-byte inbound buffer to a request on the matching subject and writes
// the reply back onto the raw-HID IN endpoint.
const (
	SubjectCommandPrefix = "hmk.cmd"

	CommandFirmwareVersion  = 0
	CommandReboot           = 1
	CommandBootloader       = 2
	CommandFactoryReset     = 3
	CommandRecalibrate      = 4
	CommandAnalogInfo       = 5
	CommandGetCalibration   = 6
	CommandSetCalibration   = 7
	CommandGetProfile       = 8
	CommandGetOptions       = 9
	CommandSetOptions       = 10
	CommandResetProfile     = 11
	CommandDuplicateProfile = 12
	CommandGetMetadata      = 13

	// Supplemented from original_source/src/log.c, dropped by the
	// distilled spec but present in the original firmware's command set.
	CommandGetLogLevel = 14
	CommandSetLogLevel = 15

	CommandGetKeymap         = 128
	CommandSetKeymap         = 129
	CommandGetActuationMap   = 130
	CommandSetActuationMap   = 131
	CommandGetAdvancedKeys   = 132
	CommandSetAdvancedKeys   = 133
	CommandGetTickRate       = 134
	CommandSetTickRate       = 135
	CommandGetGamepadButtons = 136
	CommandSetGamepadButtons = 137
	CommandGetGamepadOptions = 138
	CommandSetGamepadOptions = 139

	CommandUnknown = 255
)

// Internal bus subjects outside the raw-HID command set: housekeeping
// signals between the board's own services rather than the host protocol.
const (
	SubjectBoardIdentity = "hmk.board.identity"
	SubjectScanTick      = "hmk.scan.tick"
)
