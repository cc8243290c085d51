// SPDX-License-Identifier: BSD-3-Clause

package layout_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openhmk/hmkcore/internal/boarddef"
	"github.com/openhmk/hmkcore/internal/capability"
	"github.com/openhmk/hmkcore/internal/configstore"
	"github.com/openhmk/hmkcore/internal/hid"
	"github.com/openhmk/hmkcore/internal/keycode"
	"github.com/openhmk/hmkcore/internal/layout"
	"github.com/openhmk/hmkcore/internal/matrix"
	"github.com/openhmk/hmkcore/internal/simflash"
	"github.com/openhmk/hmkcore/internal/wearlevel"
)

type fakeTransport struct{}

func (fakeTransport) Ready(capability.ReportKind) bool              { return true }
func (fakeTransport) SendReport(kind capability.ReportKind, buf []byte) error {
	return nil
}
func (fakeTransport) OnReportComplete(capability.ReportKind, func()) {}
func (fakeTransport) RequestRemoteWakeup() error                     { return nil }
func (fakeTransport) RawHIDReceived(func(ctx context.Context, req []byte) []byte) {}

// recordingTransport is fakeTransport plus a record of sent report kinds,
// for tests that need to prove a press actually staged and sent a report
// rather than being silently dropped.
type recordingTransport struct {
	sent []capability.ReportKind
}

func (r *recordingTransport) Ready(capability.ReportKind) bool { return true }
func (r *recordingTransport) SendReport(kind capability.ReportKind, buf []byte) error {
	r.sent = append(r.sent, kind)
	return nil
}
func (r *recordingTransport) OnReportComplete(capability.ReportKind, func()) {}
func (r *recordingTransport) RequestRemoteWakeup() error                     { return nil }
func (r *recordingTransport) RawHIDReceived(func(ctx context.Context, req []byte) []byte) {}

type fakeBoard struct {
	bootloaderCalls int
	rebootCalls     int
}

func (f *fakeBoard) EnterBootloader() error { f.bootloaderCalls++; return nil }
func (f *fakeBoard) Reboot() error          { f.rebootCalls++; return nil }
func (f *fakeBoard) SetStatusLED(bool)      {}

type fakeTimer struct{ ms uint32 }

func (f *fakeTimer) NowMs() uint32 { return f.ms }

const numKeys = 4

func newFixture(t *testing.T) (*layout.Layout, *configstore.ConfigStore) {
	t.Helper()
	dev, err := simflash.Open(filepath.Join(t.TempDir(), "flash.img"), 4096, 4)
	require.NoError(t, err)
	t.Cleanup(func() { _ = dev.Close() })

	wl, err := wearlevel.New(dev, 8192, 8192)
	require.NoError(t, err)

	board := &boarddef.Definition{
		Name:         "test",
		NumKeys:      numKeys,
		SwitchTravel: 40,
		DefaultKeymap: []string{"KC_A", "KC_B", "KC_LAYER_MO_1", "KC_TRNS"},
	}

	cfg := configstore.New(wl, board)
	require.NoError(t, cfg.Init())

	composer := hid.New(fakeTransport{}, nil)
	mat := matrix.New(numKeys, 40, &fakeTimer{}, false)

	l := layout.New(numKeys, composer, cfg, mat, &fakeBoard{})
	require.NoError(t, l.ReloadKeymap())
	return l, cfg
}

func TestPressReleaseRoundTripsThroughComposer(t *testing.T) {
	l, _ := newFixture(t)

	require.NoError(t, l.Press(0))
	require.NoError(t, l.Release(0))
}

func TestMomentaryLayerActivatesWhileHeld(t *testing.T) {
	l, _ := newFixture(t)

	require.Equal(t, uint8(0), l.CurrentLayer())
	require.NoError(t, l.Press(2)) // KC_LAYER_MO_1
	require.Equal(t, uint8(1), l.CurrentLayer())
	require.NoError(t, l.Release(2))
	require.Equal(t, uint8(0), l.CurrentLayer())
}

func TestKeyLockIgnoresPressesUntilToggledOff(t *testing.T) {
	dev, err := simflash.Open(filepath.Join(t.TempDir(), "flash.img"), 4096, 4)
	require.NoError(t, err)
	t.Cleanup(func() { _ = dev.Close() })
	wl, err := wearlevel.New(dev, 8192, 8192)
	require.NoError(t, err)

	board := &boarddef.Definition{
		Name:          "test",
		NumKeys:       2,
		SwitchTravel:  40,
		DefaultKeymap: []string{"KC_A", "KC_KEY_LOCK"},
	}
	cfg := configstore.New(wl, board)
	require.NoError(t, cfg.Init())

	l := layout.New(2, hid.New(fakeTransport{}, nil), cfg, matrix.New(2, 40, &fakeTimer{}, false), &fakeBoard{})
	require.NoError(t, l.ReloadKeymap())

	require.NoError(t, l.Press(0))  // registers KC_A normally
	require.NoError(t, l.Release(0))

	require.NoError(t, l.Press(1)) // KC_KEY_LOCK toggles key 1's own lock bit
	require.NoError(t, l.Press(1)) // re-toggles it back off; KEY_LOCK always fires itself
	require.NoError(t, l.Release(1))
}

func TestKeyLockOnlyObservedOnDefaultLayer(t *testing.T) {
	dev, err := simflash.Open(filepath.Join(t.TempDir(), "flash.img"), 4096, 4)
	require.NoError(t, err)
	t.Cleanup(func() { _ = dev.Close() })
	wl, err := wearlevel.New(dev, 8192, 8192)
	require.NoError(t, err)

	board := &boarddef.Definition{
		Name:          "test",
		NumKeys:       3,
		SwitchTravel:  40,
		DefaultKeymap: []string{"KC_KEY_LOCK", "KC_TRNS", "KC_LAYER_MO_1"},
	}
	cfg := configstore.New(wl, board)
	require.NoError(t, cfg.Init())
	// Layer 1 maps key 0 to a plain keycode instead of KC_KEY_LOCK, so a
	// switch off layer 0 changes what pressing key 0 resolves to.
	require.NoError(t, cfg.SetKeymap(0, 1, 0, []byte{byte(keycode.KCB)}))

	transport := &recordingTransport{}
	composer := hid.New(transport, nil)
	l := layout.New(3, composer, cfg, matrix.New(3, 40, &fakeTimer{}, false), &fakeBoard{})
	require.NoError(t, l.ReloadKeymap())

	require.NoError(t, l.Press(0)) // KC_KEY_LOCK locks key 0 on layer 0
	require.NoError(t, l.Release(0))

	require.NoError(t, l.Press(2)) // KC_LAYER_MO_1: switch off layer 0
	require.Equal(t, uint8(1), l.CurrentLayer())

	require.NoError(t, l.Press(0)) // key 0 now resolves to KC_B; the layer-0 lock bit is bypassed
	require.NoError(t, composer.SendReports(context.Background()))
	require.Contains(t, transport.sent, capability.ReportKeyboard)
	require.NoError(t, l.Release(0))
}

func TestRegisterUnregisterBypassResolution(t *testing.T) {
	l, _ := newFixture(t)
	l.Register(1, keycode.KCZ)
	l.Unregister(1, keycode.KCZ)
}

func TestOutOfRangeKeyRejected(t *testing.T) {
	l, _ := newFixture(t)
	require.ErrorIs(t, l.Press(numKeys), layout.ErrKeyOutOfRange)
	require.ErrorIs(t, l.Release(-1), layout.ErrKeyOutOfRange)
}
