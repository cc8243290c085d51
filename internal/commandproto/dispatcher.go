// SPDX-License-Identifier: BSD-3-Clause

package commandproto

import (
	"context"
	"sort"

	"github.com/openhmk/hmkcore/pkg/ipc"
)

type handlerFunc func(ctx context.Context, payload []byte) ([]byte, error)

// Handlers implements every raw-HID command against a ConfigStore and the
// board primitives supplied through Option. It has no NATS or transport
// dependency of its own; service/commandsrv registers it both as a direct
// raw-HID bridge (via Dispatch) and as a set of NATS micro endpoints (via
// Call, one per command subject).
type Handlers struct {
	config
	table map[uint8]handlerFunc
}

// New builds a Handlers. WithConfigStore is required; the rest are optional
// and their absent commands fail with a descriptive error rather than
// panicking.
func New(opts ...Option) *Handlers {
	var cfg config
	for _, opt := range opts {
		opt.apply(&cfg)
	}
	h := &Handlers{config: cfg}
	h.table = h.buildTable()
	return h
}

func (h *Handlers) buildTable() map[uint8]handlerFunc {
	return map[uint8]handlerFunc{
		ipc.CommandFirmwareVersion:  h.handleFirmwareVersion,
		ipc.CommandReboot:           h.handleReboot,
		ipc.CommandBootloader:       h.handleBootloader,
		ipc.CommandFactoryReset:     h.handleFactoryReset,
		ipc.CommandRecalibrate:      h.handleRecalibrate,
		ipc.CommandAnalogInfo:       h.handleAnalogInfo,
		ipc.CommandGetCalibration:   h.handleGetCalibration,
		ipc.CommandSetCalibration:   h.handleSetCalibration,
		ipc.CommandGetProfile:       h.handleGetProfile,
		ipc.CommandGetOptions:       h.handleGetOptions,
		ipc.CommandSetOptions:       h.handleSetOptions,
		ipc.CommandResetProfile:     h.handleResetProfile,
		ipc.CommandDuplicateProfile: h.handleDuplicateProfile,
		ipc.CommandGetMetadata:      h.handleGetMetadata,
		ipc.CommandGetLogLevel:      h.handleGetLogLevel,
		ipc.CommandSetLogLevel:      h.handleSetLogLevel,

		ipc.CommandGetKeymap:         h.handleGetKeymap,
		ipc.CommandSetKeymap:         h.handleSetKeymap,
		ipc.CommandGetActuationMap:   h.handleGetActuationMap,
		ipc.CommandSetActuationMap:   h.handleSetActuationMap,
		ipc.CommandGetAdvancedKeys:   h.handleGetAdvancedKeys,
		ipc.CommandSetAdvancedKeys:   h.handleSetAdvancedKeys,
		ipc.CommandGetTickRate:       h.handleGetTickRate,
		ipc.CommandSetTickRate:       h.handleSetTickRate,
		ipc.CommandGetGamepadButtons: h.handleGetGamepadButtons,
		ipc.CommandSetGamepadButtons: h.handleSetGamepadButtons,
		ipc.CommandGetGamepadOptions: h.handleGetGamepadOptions,
		ipc.CommandSetGamepadOptions: h.handleSetGamepadOptions,
	}
}

// Commands returns every registered command ID in ascending order, for
// service/commandsrv to register one NATS micro endpoint per ID.
func (h *Handlers) Commands() []uint8 {
	ids := make([]uint8, 0, len(h.table))
	for id := range h.table {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Call invokes the handler registered for cmd with a bare payload (no
// command_id byte), returning its raw response payload.
func (h *Handlers) Call(ctx context.Context, cmd uint8, payload []byte) ([]byte, error) {
	fn, ok := h.table[cmd]
	if !ok {
		return nil, ErrUnknownCommand
	}
	return fn(ctx, payload)
}

// Dispatch implements the raw-HID framing directly: req's first byte is the
// command ID, the rest is the payload. The reply echoes command_id and the
// response payload on success, or a single CommandUnknown byte on failure.
// Its signature matches capability.UsbTransport.RawHIDReceived's callback,
// so it can be registered there without adapting.
func (h *Handlers) Dispatch(ctx context.Context, req []byte) []byte {
	if len(req) == 0 {
		return []byte{ipc.CommandUnknown}
	}
	cmd := req[0]
	resp, err := h.Call(ctx, cmd, req[1:])
	if err != nil {
		return []byte{ipc.CommandUnknown}
	}
	return append([]byte{cmd}, resp...)
}
