// SPDX-License-Identifier: BSD-3-Clause

package commandproto

import (
	"context"
	"encoding/binary"
	"log/slog"

	"github.com/openhmk/hmkcore/pkg/log"
)

const metadataSize = 24 + 1 + 1 + 2 // name, num_keys, switch_travel, version

func (h *Handlers) buildMetadata() []byte {
	b := make([]byte, metadataSize)
	def := h.def
	if def == nil && h.cfg != nil {
		def = h.cfg.Board()
	}
	if def != nil {
		n := copy(b[0:24], def.Name)
		_ = n
		b[24] = clampByte(def.NumKeys)
		b[25] = def.SwitchTravel
	}
	if h.cfg != nil {
		binary.LittleEndian.PutUint16(b[26:28], h.cfg.Version())
	}
	return b
}

func clampByte(v int) byte {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return byte(v)
}

func (h *Handlers) handleFirmwareVersion(_ context.Context, _ []byte) ([]byte, error) {
	var b [2]byte
	if h.cfg != nil {
		binary.LittleEndian.PutUint16(b[:], h.cfg.Version())
	}
	return b[:], nil
}

func (h *Handlers) handleReboot(_ context.Context, _ []byte) ([]byte, error) {
	if h.board == nil {
		return nil, ErrBoardNil
	}
	return nil, h.board.Reboot()
}

func (h *Handlers) handleBootloader(_ context.Context, _ []byte) ([]byte, error) {
	if h.board == nil {
		return nil, ErrBoardNil
	}
	return nil, h.board.EnterBootloader()
}

func (h *Handlers) handleFactoryReset(_ context.Context, _ []byte) ([]byte, error) {
	return nil, h.cfg.Reset()
}

func (h *Handlers) handleRecalibrate(_ context.Context, _ []byte) ([]byte, error) {
	if h.mat == nil {
		return nil, ErrMatrixNil
	}
	h.mat.Recalibrate()
	return nil, nil
}

func (h *Handlers) handleAnalogInfo(_ context.Context, payload []byte) ([]byte, error) {
	if h.mat == nil {
		return nil, ErrMatrixNil
	}
	if err := requirePayload(payload, 2); err != nil {
		return nil, err
	}
	start, length := int(payload[0]), int(payload[1])
	if start < 0 || length < 0 || start+length > h.mat.NumKeys() {
		return nil, ErrShortPayload
	}
	out := make([]byte, length)
	for i := 0; i < length; i++ {
		out[i] = h.mat.Distance(start + i)
	}
	return out, nil
}

func (h *Handlers) handleGetCalibration(_ context.Context, _ []byte) ([]byte, error) {
	cal := h.cfg.GetCalibration()
	var b [4]byte
	binary.LittleEndian.PutUint16(b[0:2], cal.InitialRest)
	binary.LittleEndian.PutUint16(b[2:4], cal.InitialBottomOut)
	return b[:], nil
}

func (h *Handlers) handleSetCalibration(_ context.Context, payload []byte) ([]byte, error) {
	if err := requirePayload(payload, 4); err != nil {
		return nil, err
	}
	cal := calibrationFromBytes(payload)
	return nil, h.cfg.SetCalibration(cal)
}

func (h *Handlers) handleGetProfile(_ context.Context, _ []byte) ([]byte, error) {
	return []byte{h.cfg.GetCurrentProfile()}, nil
}

func (h *Handlers) handleGetOptions(_ context.Context, payload []byte) ([]byte, error) {
	if err := requirePayload(payload, 1); err != nil {
		return nil, err
	}
	kb, gp, err := h.cfg.GetOptions(int(payload[0]))
	if err != nil {
		return nil, err
	}
	return []byte{boolByte(kb), boolByte(gp)}, nil
}

func (h *Handlers) handleSetOptions(_ context.Context, payload []byte) ([]byte, error) {
	if err := requirePayload(payload, 3); err != nil {
		return nil, err
	}
	return nil, h.cfg.SetOptions(int(payload[0]), payload[1] != 0, payload[2] != 0)
}

func (h *Handlers) handleResetProfile(_ context.Context, payload []byte) ([]byte, error) {
	if err := requirePayload(payload, 1); err != nil {
		return nil, err
	}
	return nil, h.cfg.ResetProfile(int(payload[0]))
}

func (h *Handlers) handleDuplicateProfile(_ context.Context, payload []byte) ([]byte, error) {
	if err := requirePayload(payload, 2); err != nil {
		return nil, err
	}
	return nil, h.cfg.DuplicateProfile(int(payload[0]), int(payload[1]))
}

func (h *Handlers) handleGetMetadata(_ context.Context, payload []byte) ([]byte, error) {
	if err := requirePayload(payload, 2); err != nil {
		return nil, err
	}
	blob := h.buildMetadata()
	start, length := int(payload[0]), int(payload[1])
	if start < 0 || length < 0 || start+length > len(blob) {
		return nil, ErrShortPayload
	}
	return blob[start : start+length], nil
}

func (h *Handlers) handleGetLogLevel(_ context.Context, _ []byte) ([]byte, error) {
	return []byte{codeFromLevel(log.CurrentLevel())}, nil
}

func (h *Handlers) handleSetLogLevel(_ context.Context, payload []byte) ([]byte, error) {
	if err := requirePayload(payload, 1); err != nil {
		return nil, err
	}
	level, ok := levelFromCode(payload[0])
	if !ok {
		return nil, ErrInvalidLogLevel
	}
	log.SetLevel(level)
	return nil, nil
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

// levelFromCode/codeFromLevel map the host's compact 1-byte level
// enumeration onto slog's levels, supplementing the command set from
// original_source/src/log.c's runtime log-level control.
func levelFromCode(code byte) (slog.Level, bool) {
	switch code {
	case 0:
		return slog.LevelDebug, true
	case 1:
		return slog.LevelInfo, true
	case 2:
		return slog.LevelWarn, true
	case 3:
		return slog.LevelError, true
	default:
		return 0, false
	}
}

func codeFromLevel(level slog.Level) byte {
	switch {
	case level <= slog.LevelDebug:
		return 0
	case level <= slog.LevelInfo:
		return 1
	case level <= slog.LevelWarn:
		return 2
	default:
		return 3
	}
}
