// SPDX-License-Identifier: BSD-3-Clause

//go:build linux
// +build linux

package main

import (
	"github.com/openhmk/hmkcore/internal/boardgpio"
	"github.com/openhmk/hmkcore/internal/capability"
)

// newGPIOBoard wires bootloader-entry, reset, and status-LED lines to a
// real GPIO chip, for a hosted run that drives an actual reset
// supervisor instead of just logging the request.
func newGPIOBoard(chip, bootloaderLine, resetLine, statusLEDLine string) (capability.BoardControl, error) {
	return boardgpio.New(boardgpio.Config{
		Chip:           chip,
		BootloaderLine: bootloaderLine,
		ResetLine:      resetLine,
		StatusLEDLine:  statusLEDLine,
	})
}
