// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package region

import (
	"testing"

	"github.com/andreyvit/diff"
)

func TestComputeSpatialMetricsStringOutput(t *testing.T) {
	frame := []float32{
		0, 1, 0,
		1, 1, 0,
		0, 0, 0,
	}
	m := computeSpatialMetrics(frame, 3, 3)

	want := "DeliveredEvents: 0\n" +
		"TotalSlots: 0\n" +
		"TotalSynapses: 0\n" +
		"ActivePixels: 3\n" +
		"CentroidRow: 0.6667\n" +
		"CentroidCol: 0.6667\n" +
		"BBoxRowMin: 0\n" +
		"BBoxRowMax: 1\n" +
		"BBoxColMin: 0\n" +
		"BBoxColMax: 1\n"

	got := m.String()
	if got != want {
		t.Errorf("Metrics.String() mismatch:\n%v", diff.LineDiff(want, got))
	}
}

func TestComputeSpatialMetricsEmptyFrame(t *testing.T) {
	frame := []float32{0, 0, 0, 0}
	m := computeSpatialMetrics(frame, 2, 2)
	if m.ActivePixels != 0 {
		t.Errorf("ActivePixels = %d, want 0", m.ActivePixels)
	}
	if m.BBoxRowMax != -1 || m.BBoxColMax != -1 {
		t.Errorf("expected empty bbox max sentinels, got rowMax=%d colMax=%d", m.BBoxRowMax, m.BBoxColMax)
	}
}
