// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"context"
	"math/rand/v2"
	"time"

	"github.com/openhmk/hmkcore/internal/matrix"
)

// traceInterval is how often the synthetic generator delivers one key's
// next sample. A real board's ADC/DMA completion handler would call
// StoreADC far more often and for every key each pass; this is a
// standalone demo driver, not a timing model of the real sampling rate.
const traceInterval = time.Millisecond

// runSyntheticTrace feeds Matrix.StoreADC with a slow random walk per
// key, standing in for the original firmware's ISR-driven ADC sampler.
// It exists only so the hosted simulator has something moving through
// the scan pipeline without a real Hall-effect sensor attached.
func runSyntheticTrace(ctx context.Context, mat *matrix.Matrix, numKeys int) {
	ticker := time.NewTicker(traceInterval)
	defer ticker.Stop()

	rng := rand.New(rand.NewPCG(1, 2))
	level := make([]int, numKeys)
	for i := range level {
		level[i] = 200
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			key := rng.IntN(numKeys)
			level[key] += rng.IntN(401) - 200
			if level[key] < 0 {
				level[key] = 0
			}
			if level[key] > 4095 {
				level[key] = 4095
			}
			mat.StoreADC(key, uint16(level[key]))
		}
	}
}
