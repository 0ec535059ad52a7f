// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package region

import (
	"fmt"

	"github.com/nectario/grownet-go/pal"
)

// Metrics is the per-tick structural/spatial snapshot spec 6 requires:
// how many events were delivered, how much slot/synapse state exists,
// and -- when the region has an Output2D layer -- where the active
// mass of that layer's frame sits. Grounded on emer.AvgMax's
// accumulate-then-finalize shape, generalized from a single avg/max
// pair to the full set of structural and spatial aggregates a tick
// needs.
type Metrics struct {
	DeliveredEvents int
	TotalSlots      int
	TotalSynapses   int

	ActivePixels int
	CentroidRow  float64
	CentroidCol  float64
	BBoxRowMin   int
	BBoxRowMax   int
	BBoxColMin   int
	BBoxColMax   int
}

// accumulateStructural walks every layer once, summing slot and
// synapse (fire-hook) counts with pal.SumOrdered so the totals are
// reproducible regardless of GOMAXPROCS, matching the determinism
// invariant PAL exists for.
func accumulateStructural(layers []*Layer) (totalSlots, totalSynapses int) {
	slots := pal.SumOrdered(pal.IntRange(len(layers)), func(i int) float64 {
		ly := layers[i]
		sum := 0
		for _, n := range ly.Neurons {
			sum += n.Slots.Len()
		}
		return float64(sum)
	})
	synapses := pal.SumOrdered(pal.IntRange(len(layers)), func(i int) float64 {
		ly := layers[i]
		sum := 0
		for _, n := range ly.Neurons {
			sum += len(n.FireHooks)
		}
		return float64(sum)
	})
	return int(slots), int(synapses)
}

// computeSpatialMetrics aggregates activePixels/centroid/bbox over a
// row-major height x width frame: a thresholded (>0) pixel is "active"
// and contributes to the centroid and bounding box. Region.finishTick
// applies it to the ReadFrame() of the first Output2D layer in region
// order; with no Output2D layer, or an all-zero frame, no Input2D
// frame is used in its place.
func computeSpatialMetrics(frame []float32, height, width int) Metrics {
	m := Metrics{BBoxRowMin: height, BBoxColMin: width, BBoxRowMax: -1, BBoxColMax: -1}
	var rowSum, colSum float64
	for i, v := range frame {
		if v <= 0 {
			continue
		}
		r, c := i/width, i%width
		m.ActivePixels++
		rowSum += float64(r)
		colSum += float64(c)
		if r < m.BBoxRowMin {
			m.BBoxRowMin = r
		}
		if r > m.BBoxRowMax {
			m.BBoxRowMax = r
		}
		if c < m.BBoxColMin {
			m.BBoxColMin = c
		}
		if c > m.BBoxColMax {
			m.BBoxColMax = c
		}
	}
	if m.ActivePixels > 0 {
		m.CentroidRow = rowSum / float64(m.ActivePixels)
		m.CentroidCol = colSum / float64(m.ActivePixels)
	} else {
		m.BBoxRowMin, m.BBoxColMin = 0, 0
		m.BBoxRowMax, m.BBoxColMax = -1, -1
	}
	return m
}

// String renders a human-readable multi-line dump of m, one field per
// line, for logs and test diffs.
func (m Metrics) String() string {
	return fmt.Sprintf(
		"DeliveredEvents: %d\nTotalSlots: %d\nTotalSynapses: %d\nActivePixels: %d\nCentroidRow: %.4f\nCentroidCol: %.4f\nBBoxRowMin: %d\nBBoxRowMax: %d\nBBoxColMin: %d\nBBoxColMax: %d\n",
		m.DeliveredEvents, m.TotalSlots, m.TotalSynapses, m.ActivePixels,
		m.CentroidRow, m.CentroidCol, m.BBoxRowMin, m.BBoxRowMax, m.BBoxColMin, m.BBoxColMax)
}
