// SPDX-License-Identifier: BSD-3-Clause

// Package commandproto implements the host-facing command set described by
// pkg/ipc's command ID table: version query, reboot/bootloader/factory-reset,
// recalibration, per-range analog info, calibration and profile option
// get/set, profile reset/duplication, a paginated metadata blob, log-level
// control, and the get/set pairs for keymap, actuation map, advanced keys,
// tick rate, and gamepad configuration.
//
// Handlers operate on plain byte payloads — no command_id byte, no NATS
// framing — so they can be registered as NATS micro endpoints (one per
// command subject, by service/commandsrv) or called directly from a test.
// The "set_*" handlers check only the payload length; internal/configstore
// rejects an out-of-range profile, layer, start, or length against its own
// schema bounds before writing, so a rejected write never touches the cache
// or flash.
package commandproto
