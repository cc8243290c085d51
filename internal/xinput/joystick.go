// SPDX-License-Identifier: BSD-3-Clause

package xinput

import "math"

// combineAxis folds a pair of opposing accumulators into one signed
// [-255,255] magnitude plus a direction sign, per the snappy vs.
// difference combination rule.
func combineAxis(pos, neg uint8, snappy bool) (mag uint8, positive bool) {
	if snappy {
		if pos >= neg {
			return pos, true
		}
		return neg, false
	}
	if pos >= neg {
		return pos - neg, true
	}
	return neg - pos, false
}

// shapeJoystick runs the raw (x,y) magnitude pair — each already signed
// via combineAxis — through the circular or square normalization, applies
// curve to the resulting scalar magnitude, and rescales back to a shaped
// (x,y) pair in [-255,255].
func shapeJoystick(curve [4][2]uint8, square bool, x, y float64) (float64, float64) {
	if x == 0 && y == 0 {
		return 0, 0
	}

	if !square {
		ax, ay := math.Abs(x), math.Abs(y)
		xp := x * math.Sqrt(math.Max(0, 255*255-ay*ay/2)) / 255
		yp := y * math.Sqrt(math.Max(0, 255*255-ax*ax/2)) / 255
		magnitude := math.Hypot(x, y)
		if magnitude == 0 {
			return 0, 0
		}
		newMag := float64(applyCurve(curve, clamp255(magnitude)))
		if newMag >= 255 {
			// End-deadzone: snap directly onto the unit circle rather
			// than rescale a magnitude that may exceed 255 on the
			// diagonal.
			angle := math.Atan2(yp, xp)
			return 255 * math.Cos(angle), 255 * math.Sin(angle)
		}
		factor := newMag / magnitude
		return xp * factor, yp * factor
	}

	normMag := math.Max(math.Abs(x), math.Abs(y))
	if normMag == 0 {
		return 0, 0
	}
	newMag := float64(applyCurve(curve, clamp255(normMag)))
	factor := newMag / normMag
	return x * factor, y * factor
}

func clamp255(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}
