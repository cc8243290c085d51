// SPDX-License-Identifier: BSD-3-Clause

package hid

import "errors"

var (
	ErrTransportNil  = errors.New("hid: usb transport not configured")
	ErrSendFailed    = errors.New("hid: report send failed")
	ErrSuspended     = errors.New("hid: endpoint not ready")
)
