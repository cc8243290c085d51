// SPDX-License-Identifier: BSD-3-Clause

package scanloop

import (
	"time"

	"github.com/openhmk/hmkcore/internal/advancedkeys"
	"github.com/openhmk/hmkcore/internal/configstore"
	"github.com/openhmk/hmkcore/internal/deferredstack"
	"github.com/openhmk/hmkcore/internal/hid"
	"github.com/openhmk/hmkcore/internal/layout"
	"github.com/openhmk/hmkcore/internal/matrix"
	"github.com/openhmk/hmkcore/internal/xinput"
)

// DefaultBaseInterval is the scan loop's underlying tick period. A
// profile's tick_rate divides this further, per §3's per-profile scan
// tick divisor.
const DefaultBaseInterval = time.Millisecond

type config struct {
	serviceName  string
	baseInterval time.Duration

	cfg      *configstore.ConfigStore
	mat      *matrix.Matrix
	lay      *layout.Layout
	ak       *advancedkeys.Manager
	composer *hid.Composer
	deferred *deferredstack.Stack
	xi       *xinput.Manager
}

// Option configures a ScanLoop.
type Option interface {
	apply(*config)
}

type optionFunc func(*config)

func (f optionFunc) apply(c *config) { f(c) }

// WithName overrides the service's supervision-tree name.
func WithName(name string) Option {
	return optionFunc(func(c *config) { c.serviceName = name })
}

// WithBaseInterval overrides the underlying tick period that a profile's
// tick_rate divides.
func WithBaseInterval(d time.Duration) Option {
	return optionFunc(func(c *config) { c.baseInterval = d })
}

// WithConfigStore supplies the persistent configuration ScanLoop reloads
// every component's profile-scoped state from.
func WithConfigStore(cfg *configstore.ConfigStore) Option {
	return optionFunc(func(c *config) { c.cfg = cfg })
}

// WithMatrix supplies the per-key sensor pipeline.
func WithMatrix(mat *matrix.Matrix) Option {
	return optionFunc(func(c *config) { c.mat = mat })
}

// WithLayout supplies the keymap resolver. ScanLoop installs its own
// OnProfileChange hook on lay, overwriting any previously set one.
func WithLayout(lay *layout.Layout) Option {
	return optionFunc(func(c *config) { c.lay = lay })
}

// WithAdvancedKeys supplies the NullBind/DKS/Tap-Hold/Toggle engine. May
// be nil if the board has no advanced keys configured.
func WithAdvancedKeys(ak *advancedkeys.Manager) Option {
	return optionFunc(func(c *config) { c.ak = ak })
}

// WithComposer supplies the HID report composer.
func WithComposer(composer *hid.Composer) Option {
	return optionFunc(func(c *config) { c.composer = composer })
}

// WithDeferredStack supplies the post-report action stack. May be nil;
// if set, its Drain is still driven by composer's own onDrain hook, not
// by ScanLoop directly. ScanLoop only stores it; it neither calls Drain
// nor offers an accessor for it.
func WithDeferredStack(ds *deferredstack.Stack) Option {
	return optionFunc(func(c *config) { c.deferred = ds })
}

// WithXInput supplies the gamepad report manager. May be nil if the board
// doesn't expose an XInput interface.
func WithXInput(xi *xinput.Manager) Option {
	return optionFunc(func(c *config) { c.xi = xi })
}
