// SPDX-License-Identifier: BSD-3-Clause

package deferredstack

import "errors"

var (
	ErrLocked       = errors.New("deferredstack: stack is locked")
	ErrFull         = errors.New("deferredstack: stack is full")
	ErrNotPowerOf2  = errors.New("deferredstack: capacity must be a power of two")
)
