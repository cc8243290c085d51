// SPDX-License-Identifier: BSD-3-Clause

package configstore

import "errors"

var (
	ErrOutOfRange      = errors.New("configstore: argument out of range")
	ErrMigrationFailed = errors.New("configstore: migration failed")
	ErrInvalidPayload  = errors.New("configstore: invalid payload length")
)
