// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package region

import (
	"math"
	"testing"
)

// TestBusDecay reproduces worked example E6: modulation 1.5 -> 1.0,
// inhibition 0.7 -> 0.63 after one Decay.
func TestBusDecay(t *testing.T) {
	b := NewBus()
	b.PulseModulation(1.5)
	b.PulseInhibition(0.7)
	b.Decay()
	if math.Abs(float64(b.ModulationFactor)-1.0) > 1e-6 {
		t.Errorf("ModulationFactor = %v, want 1.0", b.ModulationFactor)
	}
	if math.Abs(float64(b.InhibitionFactor)-0.63) > 1e-6 {
		t.Errorf("InhibitionFactor = %v, want 0.63", b.InhibitionFactor)
	}
	if b.Step != 1 {
		t.Errorf("Step = %d, want 1", b.Step)
	}
}

func TestBusNewDefaults(t *testing.T) {
	b := NewBus()
	if b.ModulationFactor != NeutralModulation {
		t.Errorf("ModulationFactor = %v, want %v", b.ModulationFactor, NeutralModulation)
	}
	if b.InhibitionFactor != NeutralInhibition {
		t.Errorf("InhibitionFactor = %v, want %v", b.InhibitionFactor, NeutralInhibition)
	}
}
