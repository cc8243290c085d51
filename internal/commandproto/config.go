// SPDX-License-Identifier: BSD-3-Clause

package commandproto

import (
	"github.com/openhmk/hmkcore/internal/boarddef"
	"github.com/openhmk/hmkcore/internal/capability"
	"github.com/openhmk/hmkcore/internal/configstore"
	"github.com/openhmk/hmkcore/internal/matrix"
)

type config struct {
	cfg   *configstore.ConfigStore
	mat   *matrix.Matrix
	board capability.BoardControl
	def   *boarddef.Definition
}

// Option configures a Handlers.
type Option interface {
	apply(*config)
}

type optionFunc func(*config)

func (f optionFunc) apply(c *config) { f(c) }

// WithConfigStore supplies the persistent configuration every get/set
// command ultimately reads from or writes through.
func WithConfigStore(cfg *configstore.ConfigStore) Option {
	return optionFunc(func(c *config) { c.cfg = cfg })
}

// WithMatrix supplies the per-key sensor pipeline RECALIBRATE and
// ANALOG_INFO act on. Omit it on a host build that only manages
// configuration offline.
func WithMatrix(mat *matrix.Matrix) Option {
	return optionFunc(func(c *config) { c.mat = mat })
}

// WithBoardControl supplies REBOOT and BOOTLOADER's target.
func WithBoardControl(board capability.BoardControl) Option {
	return optionFunc(func(c *config) { c.board = board })
}

// WithBoardDefinition supplies the board metadata GET_METADATA serves.
// Defaults to cfg.Board() if omitted and a ConfigStore is set.
func WithBoardDefinition(def *boarddef.Definition) Option {
	return optionFunc(func(c *config) { c.def = def })
}
