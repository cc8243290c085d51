// SPDX-License-Identifier: BSD-3-Clause

package matrix

import "math"

// curveSize is the resolution of the precomputed ADC-to-distance curve.
const curveSize = 1024

// curveTable[k] = 1024*log10(1 + 9k/1024), computed once at package init
// with the standard library's math.Log10 rather than a third-party curve
// or fixed-point math library: this is a 1024-entry table built once at
// startup, not a hot-path computation, so there is nothing for a
// third-party library to meaningfully accelerate or simplify here.
var curveTable [curveSize]uint32

func init() {
	for k := 0; k < curveSize; k++ {
		curveTable[k] = uint32(1024 * math.Log10(1+9*float64(k)/curveSize))
	}
}

// curveDistance maps a normalized travel fraction frac in [0,1) through the
// log-shaped curve table and scales the result into [0, switchTravel].
func curveDistance(frac float64, switchTravel uint8) uint8 {
	idx := int(frac * curveSize)
	if idx < 0 {
		idx = 0
	}
	if idx >= curveSize {
		idx = curveSize - 1
	}
	maxVal := curveTable[curveSize-1]
	if maxVal == 0 {
		return 0
	}
	scaled := curveTable[idx] * uint32(switchTravel) / maxVal
	if scaled > uint32(switchTravel) {
		scaled = uint32(switchTravel)
	}
	return uint8(scaled)
}

// computeDistance implements §4.3 step 4: clamp-then-curve the filtered ADC
// reading between the calibrated rest/bottom-out endpoints.
func computeDistance(adcFiltered, adcRest, adcBottomOut uint16, switchTravel uint8) uint8 {
	if adcFiltered <= adcRest || adcRest >= adcBottomOut {
		return 0
	}
	if adcFiltered >= adcBottomOut {
		return switchTravel
	}
	span := float64(adcBottomOut - adcRest)
	frac := float64(adcFiltered-adcRest) / span
	return curveDistance(frac, switchTravel)
}
