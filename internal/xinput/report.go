// SPDX-License-Identifier: BSD-3-Clause

package xinput

import "encoding/binary"

// reportSize is both the wire size and the value the report's own
// report_size field carries, per §6's exact XInput report layout.
const reportSize = 20

// Report is the 20-byte XInput gamepad report: a report_id/report_size
// pair, the button bitmask, the two analog triggers, and four signed
// thumbstick axes.
type Report struct {
	Buttons      uint16
	LeftTrigger  uint8
	RightTrigger uint8
	ThumbLX      int16
	ThumbLY      int16
	ThumbRX      int16
	ThumbRY      int16
}

func encodeReport(r Report) []byte {
	buf := make([]byte, reportSize)
	buf[0] = 0 // report_id
	buf[1] = reportSize
	binary.LittleEndian.PutUint16(buf[2:], r.Buttons)
	buf[4] = r.LeftTrigger
	buf[5] = r.RightTrigger
	binary.LittleEndian.PutUint16(buf[6:], uint16(r.ThumbLX))
	binary.LittleEndian.PutUint16(buf[8:], uint16(r.ThumbLY))
	binary.LittleEndian.PutUint16(buf[10:], uint16(r.ThumbRX))
	binary.LittleEndian.PutUint16(buf[12:], uint16(r.ThumbRY))
	// bytes 14..19 stay reserved/zero.
	return buf
}
