// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package region

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWeightReinforceFrozenNoOp(t *testing.T) {
	w := NewWeight()
	w.Frozen = true
	before := w.Strength
	w.Reinforce(1.0)
	assert.Equal(t, before, w.Strength, "frozen weight strength should not change")
	assert.Equal(t, 0, w.HitCount, "frozen weight hit count should not change")
}

func TestWeightReinforceSaturates(t *testing.T) {
	w := NewWeight()
	for i := 0; i < HitSaturation+10; i++ {
		w.Reinforce(1.0)
	}
	assert.Equal(t, HitSaturation, w.HitCount)
}

func TestWeightUpdateThresholdFirstSeenSetsTheta(t *testing.T) {
	w := NewWeight()
	fired := w.UpdateThreshold(0.5)
	assert.False(t, fired, "first observation should never fire (strength starts at 0)")
	assert.Equal(t, float32(0.5)*(1+WeightEPS), w.Theta)
}

func TestWeightFrozenThresholdStillReportsFire(t *testing.T) {
	w := NewWeight()
	w.UpdateThreshold(0.5)
	w.Strength = 1.0
	w.Frozen = true
	assert.True(t, w.UpdateThreshold(0.01), "frozen weight with Strength > Theta should report fired")
}
