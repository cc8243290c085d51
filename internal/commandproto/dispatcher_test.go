// SPDX-License-Identifier: BSD-3-Clause

package commandproto

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openhmk/hmkcore/internal/boarddef"
	"github.com/openhmk/hmkcore/internal/configstore"
	"github.com/openhmk/hmkcore/internal/simflash"
	"github.com/openhmk/hmkcore/internal/wearlevel"
	"github.com/openhmk/hmkcore/pkg/ipc"
)

type fakeBoard struct {
	rebooted     bool
	bootloadered bool
}

func (f *fakeBoard) EnterBootloader() error { f.bootloadered = true; return nil }
func (f *fakeBoard) Reboot() error          { f.rebooted = true; return nil }
func (f *fakeBoard) SetStatusLED(bool)      {}

func newFixture(t *testing.T) (*Handlers, *configstore.ConfigStore, *fakeBoard) {
	t.Helper()
	dev, err := simflash.Open(filepath.Join(t.TempDir(), "flash.img"), 4096, 4)
	require.NoError(t, err)
	t.Cleanup(func() { _ = dev.Close() })

	wl, err := wearlevel.New(dev, 8192, 8192)
	require.NoError(t, err)

	def := &boarddef.Definition{
		Name:                  "test",
		NumKeys:               4,
		SwitchTravel:          255,
		DefaultActuationPoint: 64,
		DefaultRestValue:      0,
		DefaultBottomOutValue: 4095,
		DefaultKeymap:         []string{"KC_A", "KC_B", "KC_C", "KC_D"},
	}
	cfg := configstore.New(wl, def)
	require.NoError(t, cfg.Init())

	board := &fakeBoard{}
	h := New(WithConfigStore(cfg), WithBoardControl(board), WithBoardDefinition(def))
	return h, cfg, board
}

func TestFirmwareVersionEchoesCommandID(t *testing.T) {
	h, cfg, _ := newFixture(t)
	reply := h.Dispatch(context.Background(), []byte{ipc.CommandFirmwareVersion})
	require.Equal(t, byte(ipc.CommandFirmwareVersion), reply[0])
	require.Equal(t, byte(cfg.Version()), reply[1])
}

func TestUnknownCommandRepliesUnknown(t *testing.T) {
	h, _, _ := newFixture(t)
	reply := h.Dispatch(context.Background(), []byte{254})
	require.Equal(t, []byte{ipc.CommandUnknown}, reply)
}

func TestRebootCallsBoardControl(t *testing.T) {
	h, _, board := newFixture(t)
	reply := h.Dispatch(context.Background(), []byte{ipc.CommandReboot})
	require.Equal(t, byte(ipc.CommandReboot), reply[0])
	require.True(t, board.rebooted)
}

func TestSetOptionsRejectsOutOfRangeProfile(t *testing.T) {
	h, _, _ := newFixture(t)
	_, err := h.Call(context.Background(), ipc.CommandSetOptions, []byte{200, 1, 0})
	require.ErrorIs(t, err, configstore.ErrOutOfRange)
}

func TestSetThenGetKeymapRoundTrips(t *testing.T) {
	h, _, _ := newFixture(t)
	_, err := h.Call(context.Background(), ipc.CommandSetKeymap, []byte{0, 0, 1, 2, 9, 9})
	require.NoError(t, err)

	got, err := h.Call(context.Background(), ipc.CommandGetKeymap, []byte{0, 0, 0, 4})
	require.NoError(t, err)
	require.Equal(t, []byte{0, 9, 9, 0}, got)
}

func TestSetActuationMapRoundTripsThroughGet(t *testing.T) {
	h, _, _ := newFixture(t)
	// one record: actuation_point=50, rt_down=5, rt_up=6, continuous=true
	_, err := h.Call(context.Background(), ipc.CommandSetActuationMap, []byte{0, 2, 1, 50, 5, 6, 1})
	require.NoError(t, err)

	got, err := h.Call(context.Background(), ipc.CommandGetActuationMap, []byte{0, 2, 1})
	require.NoError(t, err)
	require.Equal(t, []byte{50, 5, 6, 1}, got)
}

func TestGetMetadataPaginates(t *testing.T) {
	h, _, _ := newFixture(t)
	got, err := h.Call(context.Background(), ipc.CommandGetMetadata, []byte{0, 4})
	require.NoError(t, err)
	require.Equal(t, []byte("test"), got)
}

func TestSetLogLevelRejectsInvalidCode(t *testing.T) {
	h, _, _ := newFixture(t)
	_, err := h.Call(context.Background(), ipc.CommandSetLogLevel, []byte{42})
	require.ErrorIs(t, err, ErrInvalidLogLevel)
}
