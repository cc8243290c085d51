// SPDX-License-Identifier: BSD-3-Clause

package commandproto

import "context"

func (h *Handlers) handleGetKeymap(_ context.Context, payload []byte) ([]byte, error) {
	if err := requirePayload(payload, 4); err != nil {
		return nil, err
	}
	profile, layer, start, length := int(payload[0]), int(payload[1]), int(payload[2]), int(payload[3])
	keymap, err := h.cfg.GetKeymap(profile, layer)
	if err != nil {
		return nil, err
	}
	if start < 0 || length < 0 || start+length > len(keymap) {
		return nil, ErrShortPayload
	}
	return append([]byte(nil), keymap[start:start+length]...), nil
}

func (h *Handlers) handleSetKeymap(_ context.Context, payload []byte) ([]byte, error) {
	if err := requirePayload(payload, 4); err != nil {
		return nil, err
	}
	profile, layer, start, length := int(payload[0]), int(payload[1]), int(payload[2]), int(payload[3])
	if err := requirePayload(payload, 4+length); err != nil {
		return nil, err
	}
	return nil, h.cfg.SetKeymap(profile, layer, start, payload[4:4+length])
}

func (h *Handlers) handleGetActuationMap(_ context.Context, payload []byte) ([]byte, error) {
	if err := requirePayload(payload, 3); err != nil {
		return nil, err
	}
	profile, start, length := int(payload[0]), int(payload[1]), int(payload[2])
	acts, err := h.cfg.GetActuationMap(profile)
	if err != nil {
		return nil, err
	}
	if start < 0 || length < 0 || start+length > len(acts) {
		return nil, ErrShortPayload
	}
	out := make([]byte, 0, length*actuationSize)
	for i := start; i < start+length; i++ {
		enc := encodeActuation(acts[i])
		out = append(out, enc[:]...)
	}
	return out, nil
}

func (h *Handlers) handleSetActuationMap(_ context.Context, payload []byte) ([]byte, error) {
	if err := requirePayload(payload, 3); err != nil {
		return nil, err
	}
	profile, start, count := int(payload[0]), int(payload[1]), int(payload[2])
	nbytes := count * actuationSize
	if err := requirePayload(payload, 3+nbytes); err != nil {
		return nil, err
	}
	return nil, h.cfg.SetActuationMap(profile, start*actuationSize, payload[3:3+nbytes])
}

func (h *Handlers) handleGetAdvancedKeys(_ context.Context, payload []byte) ([]byte, error) {
	if err := requirePayload(payload, 3); err != nil {
		return nil, err
	}
	profile, start, length := int(payload[0]), int(payload[1]), int(payload[2])
	aks, err := h.cfg.GetAdvancedKeys(profile)
	if err != nil {
		return nil, err
	}
	if start < 0 || length < 0 || start+length > len(aks) {
		return nil, ErrShortPayload
	}
	out := make([]byte, 0, length*advancedKeySize)
	for i := start; i < start+length; i++ {
		enc := encodeAdvancedKey(aks[i])
		out = append(out, enc[:]...)
	}
	return out, nil
}

func (h *Handlers) handleSetAdvancedKeys(_ context.Context, payload []byte) ([]byte, error) {
	if err := requirePayload(payload, 3); err != nil {
		return nil, err
	}
	profile, start, count := int(payload[0]), int(payload[1]), int(payload[2])
	nbytes := count * advancedKeySize
	if err := requirePayload(payload, 3+nbytes); err != nil {
		return nil, err
	}
	return nil, h.cfg.SetAdvancedKeys(profile, start*advancedKeySize, payload[3:3+nbytes])
}

func (h *Handlers) handleGetTickRate(_ context.Context, payload []byte) ([]byte, error) {
	if err := requirePayload(payload, 1); err != nil {
		return nil, err
	}
	rate, err := h.cfg.GetTickRate(int(payload[0]))
	if err != nil {
		return nil, err
	}
	return []byte{rate}, nil
}

func (h *Handlers) handleSetTickRate(_ context.Context, payload []byte) ([]byte, error) {
	if err := requirePayload(payload, 2); err != nil {
		return nil, err
	}
	return nil, h.cfg.SetTickRate(int(payload[0]), payload[1])
}
