// SPDX-License-Identifier: BSD-3-Clause

//go:build !linux
// +build !linux

package main

import (
	"fmt"

	"github.com/openhmk/hmkcore/internal/capability"
)

// newGPIOBoard is unavailable off Linux; pkg/gpio is built on the
// Linux-only GPIO character device ABI.
func newGPIOBoard(chip, bootloaderLine, resetLine, statusLEDLine string) (capability.BoardControl, error) {
	return nil, fmt.Errorf("GPIO board control requires linux, rebuild the simulator on a Linux host to use HMKSIM_GPIO_CHIP")
}
