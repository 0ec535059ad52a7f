// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package region

import "testing"

func TestLayerTryGrowNeuronRespectsLimit(t *testing.T) {
	eng := NewEngine(DefaultSlotConfig())
	ly := NewLayer("L", eng, 1, 0, 0)
	ly.NeuronLimit = 1
	seed := ly.Neurons[0]
	if idx := ly.TryGrowNeuron(seed); idx >= 0 {
		t.Fatalf("TryGrowNeuron returned %d, want -1 (at limit)", idx)
	}
	ly.NeuronLimit = 2
	idx := ly.TryGrowNeuron(seed)
	if idx != 1 || len(ly.Neurons) != 2 {
		t.Fatalf("TryGrowNeuron idx=%d neurons=%d, want idx=1 neurons=2", idx, len(ly.Neurons))
	}
	if ly.Neurons[1].Kind != seed.Kind {
		t.Errorf("grown neuron kind = %v, want %v", ly.Neurons[1].Kind, seed.Kind)
	}
}

func TestOutputLayer2DForwardAndReadFrame(t *testing.T) {
	eng := NewEngine(DefaultSlotConfig())
	out := NewOutputLayer2D("out", eng, 2, 2, 0.0)
	out.PropagateFrom(0, 1.0)
	out.PropagateFrom(3, 2.0)
	frame := out.ReadFrame()
	if frame[0] != 1.0 || frame[3] != 2.0 {
		t.Errorf("frame = %v, want [1 0 0 2]", frame)
	}
	if frame[1] != 0 || frame[2] != 0 {
		t.Errorf("untouched pixels should stay zero: %v", frame)
	}
}

func TestInputLayer2DForwardImageRejectsWrongSize(t *testing.T) {
	eng := NewEngine(DefaultSlotConfig())
	in := NewInputLayer2D("in", eng, 2, 2, 1.0, WeightEPS)
	if err := in.ForwardImage([]float32{1, 2, 3}); err == nil {
		t.Error("expected a size-mismatch error")
	}
}
