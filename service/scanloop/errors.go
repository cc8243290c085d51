// SPDX-License-Identifier: BSD-3-Clause

package scanloop

import "errors"

var (
	ErrMatrixNil      = errors.New("scanloop: matrix not configured")
	ErrLayoutNil      = errors.New("scanloop: layout not configured")
	ErrComposerNil    = errors.New("scanloop: hid composer not configured")
	ErrConfigStoreNil = errors.New("scanloop: config store not configured")
	ErrAlreadyStarted = errors.New("scanloop: service already started")
)
