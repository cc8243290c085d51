// SPDX-License-Identifier: BSD-3-Clause

package xinput

import "errors"

var (
	ErrTransportNil  = errors.New("xinput: transport is nil")
	ErrInvalidButton = errors.New("xinput: gamepad button code out of range")
)
