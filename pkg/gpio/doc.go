// SPDX-License-Identifier: BSD-3-Clause

//go:build linux
// +build linux

// Package gpio wraps the Linux GPIO character device ABI
// (github.com/warthog618/go-gpiocdev) with request-per-call helpers for
// the handful of control lines a keyboard host needs: bootloader-entry,
// reset, status LED, and an optional physical recalibrate button. See
// internal/boardgpio for the capability.BoardControl adapter built on
// top of these helpers.
//
// # Basic usage
//
// Each operation requests its line, performs the action, and releases
// the line again — there is no held-open line handle to manage:
//
//	if err := gpio.ToggleGPIO("/dev/gpiochip0", "bootloader-request", 200*time.Millisecond); err != nil {
//		log.Fatal(err)
//	}
//
//	if err := gpio.SetGPIO("/dev/gpiochip0", "status-led", 1); err != nil {
//		log.Fatal(err)
//	}
//
//	pressed, err := gpio.GetGPIO("/dev/gpiochip0", "recalibrate-button")
//	if err != nil {
//		log.Fatal(err)
//	}
//
// Per-call behavior (direction, bias, drive, active state, debounce) is
// customized with the Option values in config.go, e.g.:
//
//	gpio.SetGPIO("/dev/gpiochip0", "status-led", 1, gpio.WithBias(gpio.BiasPullUp))
//
// # Error handling
//
// Failures are wrapped in the sentinel errors in errors.go:
//
//	if err := gpio.SetGPIO(chip, line, 1); err != nil {
//		switch {
//		case errors.Is(err, gpio.ErrChipNotFound):
//			log.Fatal("GPIO chip not available")
//		case errors.Is(err, gpio.ErrLineNotFound):
//			log.Fatal("GPIO line not found")
//		case errors.Is(err, gpio.ErrPermissionDenied):
//			log.Fatal("insufficient permissions for GPIO access")
//		default:
//			log.Fatalf("unexpected error: %v", err)
//		}
//	}
//
// # Platform considerations
//
// This package is Linux-only (CONFIG_GPIO_CDEV, /dev/gpiochipN);
// off Linux, internal/boardgpio falls back to a console-logging
// capability.BoardControl stub instead.
package gpio
