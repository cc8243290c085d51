// SPDX-License-Identifier: BSD-3-Clause

// Package commandsrv runs internal/commandproto's handlers against the
// board's IPC bus and, optionally, its raw-HID endpoint. It registers one
// NATS micro endpoint per command subject under pkg/ipc.SubjectCommandPrefix
// and, when given a capability.UsbTransport, bridges each inbound 64-byte
// raw-HID OUT buffer into a synchronous request on the matching subject,
// writing the reply straight back onto the raw-HID IN endpoint.
package commandsrv
