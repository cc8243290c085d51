// SPDX-License-Identifier: BSD-3-Clause

package layout

import "errors"

var (
	ErrKeyOutOfRange = errors.New("layout: key index out of range")
	ErrReloadFailed  = errors.New("layout: keymap reload failed")
)
