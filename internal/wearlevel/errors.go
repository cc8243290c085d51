// SPDX-License-Identifier: BSD-3-Clause

package wearlevel

import "errors"

var (
	// ErrInvalidSize indicates the virtual region or log area size is
	// invalid (virtual region too large, log area not word-aligned).
	ErrInvalidSize = errors.New("wearlevel: invalid region size")
	// ErrOutOfRange indicates a read or write addresses bytes outside the
	// virtual region.
	ErrOutOfRange = errors.New("wearlevel: address out of range")
	// ErrConsolidateFailed indicates a forced consolidation attempt itself
	// failed; per spec this is escalated as unrecoverable by the caller.
	ErrConsolidateFailed = errors.New("wearlevel: consolidation failed")
	// ErrNotInitialized indicates an operation was attempted before Init.
	ErrNotInitialized = errors.New("wearlevel: not initialized")
)
