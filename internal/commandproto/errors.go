// SPDX-License-Identifier: BSD-3-Clause

package commandproto

import "errors"

var (
	ErrShortPayload    = errors.New("commandproto: payload too short for command")
	ErrUnknownCommand  = errors.New("commandproto: unknown command id")
	ErrMatrixNil       = errors.New("commandproto: matrix not configured")
	ErrBoardNil        = errors.New("commandproto: board control not configured")
	ErrInvalidLogLevel = errors.New("commandproto: invalid log level code")
)
