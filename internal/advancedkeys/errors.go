// SPDX-License-Identifier: BSD-3-Clause

package advancedkeys

import "errors"

var (
	ErrNotBound     = errors.New("advancedkeys: physical key has no binding on the active layer")
	ErrUnknownKind  = errors.New("advancedkeys: advanced key binding has an unknown kind")
	ErrTooManyKeys  = errors.New("advancedkeys: profile binds more advanced keys than physical keys exist")
)
