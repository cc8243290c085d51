// SPDX-License-Identifier: BSD-3-Clause

// Package scanloop implements the cooperative scan-tick driver: the single
// goroutine that, once per tick, walks Matrix, AdvancedKeys, Layout,
// HidComposer (whose drain hook runs DeferredStack once no report is left
// to send), and XInput in that fixed order. It owns no
// domain logic of its own — every behavioral decision lives in the
// component it drives — it only owns the schedule and the profile-reload
// wiring between them.
//
// A board target or the hosted simulator constructs every component
// (internal/matrix, internal/layout, internal/advancedkeys,
// internal/deferredstack, internal/hid, internal/xinput) against its own
// capability implementations and hands them to scanloop.New. ScanLoop then
// reloads each component's profile-scoped state from ConfigStore at boot
// and again whenever Layout reports a profile switch.
package scanloop
