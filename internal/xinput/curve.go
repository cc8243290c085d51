// SPDX-License-Identifier: BSD-3-Clause

package xinput

// applyCurve runs x through the profile's 4-point piecewise-linear curve.
// Below the first point's x, the output is clamped to 0 (key-start
// deadzone); above the last point's x, it's clamped to 255 (key-end
// deadzone). Between two consecutive points it interpolates linearly.
func applyCurve(curve [4][2]uint8, x uint8) uint8 {
	if x <= curve[0][0] {
		return 0
	}
	if x >= curve[3][0] {
		return 255
	}
	for i := 0; i < 3; i++ {
		x0, y0 := curve[i][0], curve[i][1]
		x1, y1 := curve[i+1][0], curve[i+1][1]
		if x1 == x0 {
			continue
		}
		if x >= x0 && x <= x1 {
			span := int(x1) - int(x0)
			pos := int(x) - int(x0)
			return uint8(int(y0) + (int(y1)-int(y0))*pos/span)
		}
	}
	return x
}
