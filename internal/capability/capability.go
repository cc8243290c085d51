// SPDX-License-Identifier: BSD-3-Clause

// Package capability declares the abstract hardware contracts the firmware
// core is built against: the ADC sampling producer, the flash-like block
// device backing WearLevel, a monotonic timer, the USB transport, and
// miscellaneous board control (bootloader entry, reset, status LED). A real
// board target and the hosted simulator each supply their own concrete
// implementations; the core never imports a board package directly.
package capability

import "context"

// FlashDevice is a flash-like block device addressed in whole sectors,
// backing WearLevel's virtual region plus its append log.
type FlashDevice interface {
	// SectorSize returns the erase granularity in bytes.
	SectorSize() int

	// SectorCount returns the number of sectors this device exposes.
	SectorCount() int

	// ReadAt reads len(buf) bytes starting at byte offset off.
	ReadAt(off int64, buf []byte) error

	// WriteAt writes data at byte offset off. The destination region must
	// already be erased (all FLASH_EMPTY_VAL); implementations do not
	// perform read-modify-write.
	WriteAt(off int64, data []byte) error

	// EraseSector erases the sector containing byte offset off, resetting
	// it to FLASH_EMPTY_VAL.
	EraseSector(off int64) error
}

// AdcSink is the per-key analog sampling source. A real board calls
// StoreADC from an interrupt or DMA-complete handler; the simulator calls it
// from a synthetic trace generator. Implementations of the consumer side
// (internal/matrix) must treat StoreADC as callable concurrently with Scan.
type AdcSink interface {
	// StoreADC delivers one raw 16-bit sample for the given physical key
	// index. Safe to call concurrently with the scan loop.
	StoreADC(key int, raw uint16)
}

// Timer exposes the monotonic clock the firmware measures elapsed time
// against (tapping terms, calibration windows, toggle timeouts).
type Timer interface {
	// NowMs returns a monotonically increasing millisecond timestamp.
	NowMs() uint32
}

// ReportKind identifies a HID report kind for chained sends.
type ReportKind int

const (
	ReportKeyboard ReportKind = iota
	ReportSystem
	ReportConsumer
	ReportMouse
	ReportXInput
)

// UsbTransport models the opaque USB device stack contract: "send a report
// on an endpoint", "invoke a callback on received OUT data", and a readiness
// probe standing in for interface-ready / suspended state.
type UsbTransport interface {
	// Ready reports whether the given report kind's endpoint can currently
	// accept a new report (interface mounted, not suspended, previous send
	// complete).
	Ready(kind ReportKind) bool

	// SendReport transmits buf on the endpoint for kind. The transport
	// invokes the registered completion callback (via
	// OnReportComplete) once the transfer finishes.
	SendReport(kind ReportKind, buf []byte) error

	// OnReportComplete registers the callback invoked when a previously
	// sent report of kind finishes transmitting.
	OnReportComplete(kind ReportKind, cb func())

	// RequestRemoteWakeup asks the host to resume a suspended bus.
	RequestRemoteWakeup() error

	// RawHIDReceived registers the callback invoked with each inbound
	// 64-byte Raw HID OUT buffer. The callback's return value is written
	// back as the 64-byte Raw HID IN reply.
	RawHIDReceived(cb func(ctx context.Context, req []byte) []byte)
}

// BoardControl is miscellaneous board-level control not modeled elsewhere:
// bootloader entry, soft reset, and status indication.
type BoardControl interface {
	// EnterBootloader writes the bootloader handoff magic word to the
	// reserved end-of-RAM slot and resets the device. Does not return on
	// success.
	EnterBootloader() error

	// Reboot performs a normal soft reset. Does not return on success.
	Reboot() error

	// SetStatusLED sets the board's status indicator, if one exists.
	SetStatusLED(on bool)
}
