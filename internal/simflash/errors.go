// SPDX-License-Identifier: BSD-3-Clause

package simflash

import "errors"

var (
	ErrOpenFailed  = errors.New("simflash: failed to open backing file")
	ErrReadFailed  = errors.New("simflash: read failed")
	ErrWriteFailed = errors.New("simflash: write failed")
	ErrEraseFailed = errors.New("simflash: erase failed")
)
