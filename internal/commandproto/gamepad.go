// SPDX-License-Identifier: BSD-3-Clause

package commandproto

import "context"

func (h *Handlers) handleGetGamepadButtons(_ context.Context, payload []byte) ([]byte, error) {
	if err := requirePayload(payload, 3); err != nil {
		return nil, err
	}
	profile, start, length := int(payload[0]), int(payload[1]), int(payload[2])
	buttons, err := h.cfg.GetGamepadButtons(profile)
	if err != nil {
		return nil, err
	}
	if start < 0 || length < 0 || start+length > len(buttons) {
		return nil, ErrShortPayload
	}
	return append([]byte(nil), buttons[start:start+length]...), nil
}

func (h *Handlers) handleSetGamepadButtons(_ context.Context, payload []byte) ([]byte, error) {
	if err := requirePayload(payload, 3); err != nil {
		return nil, err
	}
	profile, start, length := int(payload[0]), int(payload[1]), int(payload[2])
	if err := requirePayload(payload, 3+length); err != nil {
		return nil, err
	}
	return nil, h.cfg.SetGamepadButtons(profile, start, payload[3:3+length])
}

func (h *Handlers) handleGetGamepadOptions(_ context.Context, payload []byte) ([]byte, error) {
	if err := requirePayload(payload, 1); err != nil {
		return nil, err
	}
	opts, err := h.cfg.GetGamepadOptions(int(payload[0]))
	if err != nil {
		return nil, err
	}
	enc := encodeGamepadOptions(opts)
	return enc[:], nil
}

func (h *Handlers) handleSetGamepadOptions(_ context.Context, payload []byte) ([]byte, error) {
	if err := requirePayload(payload, 1+gamepadOptionsSize); err != nil {
		return nil, err
	}
	opts := decodeGamepadOptions(payload[1 : 1+gamepadOptionsSize])
	return nil, h.cfg.SetGamepadOptions(int(payload[0]), opts)
}
