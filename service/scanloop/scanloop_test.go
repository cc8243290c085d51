// SPDX-License-Identifier: BSD-3-Clause

package scanloop

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openhmk/hmkcore/internal/boarddef"
	"github.com/openhmk/hmkcore/internal/capability"
	"github.com/openhmk/hmkcore/internal/configstore"
	"github.com/openhmk/hmkcore/internal/deferredstack"
	"github.com/openhmk/hmkcore/internal/hid"
	"github.com/openhmk/hmkcore/internal/layout"
	"github.com/openhmk/hmkcore/internal/matrix"
	"github.com/openhmk/hmkcore/internal/simflash"
	"github.com/openhmk/hmkcore/internal/wearlevel"
)

type fakeTransport struct {
	sent []capability.ReportKind
}

func (f *fakeTransport) Ready(capability.ReportKind) bool { return true }
func (f *fakeTransport) SendReport(kind capability.ReportKind, buf []byte) error {
	f.sent = append(f.sent, kind)
	return nil
}
func (f *fakeTransport) OnReportComplete(kind capability.ReportKind, cb func()) { cb() }
func (f *fakeTransport) RequestRemoteWakeup() error                            { return nil }
func (f *fakeTransport) RawHIDReceived(func(ctx context.Context, req []byte) []byte) {}

type fakeBoard struct{}

func (fakeBoard) EnterBootloader() error { return nil }
func (fakeBoard) Reboot() error          { return nil }
func (fakeBoard) SetStatusLED(bool)      {}

type fakeTimer struct{ ms uint32 }

func (f *fakeTimer) NowMs() uint32 { return f.ms }

const numKeys = 2

func newFixture(t *testing.T) (*ScanLoop, *fakeTransport) {
	t.Helper()
	dev, err := simflash.Open(filepath.Join(t.TempDir(), "flash.img"), 4096, 4)
	require.NoError(t, err)
	t.Cleanup(func() { _ = dev.Close() })

	wl, err := wearlevel.New(dev, 8192, 8192)
	require.NoError(t, err)

	board := &boarddef.Definition{
		Name:                  "test",
		NumKeys:               numKeys,
		SwitchTravel:          255,
		DefaultActuationPoint: 64,
		DefaultRestValue:      0,
		DefaultBottomOutValue: 4095,
		DefaultKeymap:         []string{"KC_A", "KC_B"},
	}
	cfg := configstore.New(wl, board)
	require.NoError(t, cfg.Init())

	transport := &fakeTransport{}
	timer := &fakeTimer{}
	mat := matrix.New(numKeys, 255, timer, false)
	composer := hid.New(transport, nil)
	lay := layout.New(numKeys, composer, cfg, mat, fakeBoard{})
	require.NoError(t, lay.ReloadKeymap())
	deferred := deferredstack.New(lay)

	sl := New(
		WithConfigStore(cfg),
		WithMatrix(mat),
		WithLayout(lay),
		WithComposer(composer),
		WithDeferredStack(deferred),
	)
	return sl, transport
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func settle(mat *matrix.Matrix, key int, raw uint16, ticks int) {
	for i := 0; i < ticks; i++ {
		mat.StoreADC(key, raw)
	}
}

func TestReloadProfileAppliesTickRateFromConfigStore(t *testing.T) {
	sl, _ := newFixture(t)
	sl.logger = discardLogger()
	sl.reloadProfile(context.Background(), 0)
	require.Equal(t, uint8(1), sl.tickRate)
}

func TestTickSendsKeyboardReportOnActuation(t *testing.T) {
	sl, transport := newFixture(t)
	sl.logger = discardLogger()
	sl.reloadProfile(context.Background(), 0)

	sl.mat.Recalibrate()
	settle(sl.mat, 0, 0, 40)
	require.NoError(t, sl.tick(context.Background()))

	settle(sl.mat, 0, 4095, 40)
	require.NoError(t, sl.tick(context.Background()))

	require.Contains(t, transport.sent, capability.ReportKeyboard)
}

func TestValidateRejectsMissingComponents(t *testing.T) {
	sl := New()
	require.ErrorIs(t, sl.validate(), ErrConfigStoreNil)
}
