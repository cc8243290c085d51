// SPDX-License-Identifier: BSD-3-Clause

package boarddef

import "errors"

var (
	ErrDecodeFailed      = errors.New("boarddef: failed to decode definition file")
	ErrInvalidDefinition = errors.New("boarddef: invalid board definition")
)
