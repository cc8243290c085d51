// SPDX-License-Identifier: BSD-3-Clause

package configstore_test

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/openhmk/hmkcore/internal/boarddef"
	"github.com/openhmk/hmkcore/internal/configstore"
	"github.com/openhmk/hmkcore/internal/simflash"
	"github.com/openhmk/hmkcore/internal/wearlevel"
)

func newStore(t *testing.T) *configstore.ConfigStore {
	t.Helper()
	dev, err := simflash.Open(filepath.Join(t.TempDir(), "cfg.img"), 4096, 24)
	require.NoError(t, err)
	t.Cleanup(func() { _ = dev.Close() })

	wl, err := wearlevel.New(dev, 8192, 4096*24-8192)
	require.NoError(t, err)
	require.NoError(t, wl.Init())

	cs := configstore.New(wl, boarddef.Generic(80))
	require.NoError(t, cs.Init())
	return cs
}

func TestInitFactoryResetsEmptyFlash(t *testing.T) {
	cs := newStore(t)
	require.EqualValues(t, configstore.CurrentVersion, cs.Version())
	require.EqualValues(t, 0, cs.GetCurrentProfile())
}

func TestSetKeymapRoundTrips(t *testing.T) {
	cs := newStore(t)
	require.NoError(t, cs.SetKeymap(0, 0, 5, []byte{0x10, 0x11, 0x12}))
	row, err := cs.GetKeymap(0, 0)
	require.NoError(t, err)
	require.Equal(t, uint8(0x10), row[5])
	require.Equal(t, uint8(0x11), row[6])
	require.Equal(t, uint8(0x12), row[7])
}

func TestSetCurrentProfileValidatesRange(t *testing.T) {
	cs := newStore(t)
	require.NoError(t, cs.SetCurrentProfile(2))
	require.EqualValues(t, 2, cs.GetCurrentProfile())
	require.ErrorIs(t, cs.SetCurrentProfile(configstore.NumProfiles), configstore.ErrOutOfRange)
}

func TestDuplicateProfile(t *testing.T) {
	cs := newStore(t)
	require.NoError(t, cs.SetTickRate(0, 4))
	require.NoError(t, cs.DuplicateProfile(1, 0))
	rate, err := cs.GetTickRate(1)
	require.NoError(t, err)
	require.EqualValues(t, 4, rate)
}

func TestResetProfileRestoresDefaults(t *testing.T) {
	cs := newStore(t)
	require.NoError(t, cs.SetTickRate(0, 7))
	require.NoError(t, cs.ResetProfile(0))
	rate, err := cs.GetTickRate(0)
	require.NoError(t, err)
	require.EqualValues(t, 1, rate)
}
