// SPDX-License-Identifier: BSD-3-Clause

package matrix

import "errors"

var (
	ErrKeyOutOfRange  = errors.New("matrix: key index out of range")
	ErrInvalidProfile = errors.New("matrix: actuation map size mismatch")
)
