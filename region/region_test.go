// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package region

import "testing"

func TestRegionTickDeliversThroughTract(t *testing.T) {
	r := NewRegion("test")
	r.SetSeed(1)
	r.AddLayer("src", 1, 0, 0)
	r.AddLayer("dst", 1, 0, 0)
	if _, err := r.ConnectLayers("src", "dst", 1.0, false); err != nil {
		t.Fatalf("ConnectLayers: %v", err)
	}

	var lastVal float32
	dst, _ := r.layerByName("dst")
	dst.Neurons[0].FireHooks = append(dst.Neurons[0].FireHooks, func(a float32) { lastVal = a })

	if _, err := r.Tick("src", 5.0); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	// src's single excitatory neuron needs to cross threshold before its
	// own fire hook (the tract subscription) runs; a single tick with
	// an untrained threshold will not fire, so just exercise the path
	// without asserting lastVal here.
	_ = lastVal
}

func TestRegionTickUnknownLayerIsValidationError(t *testing.T) {
	r := NewRegion("test")
	if _, err := r.Tick("missing", 1.0); err == nil {
		t.Error("expected an error for an unbound layer name")
	}
}

func TestRegionImageTickAndMetrics(t *testing.T) {
	r := NewRegion("test")
	r.AddInputLayer2D("in", 2, 2, 1.0, WeightEPS)
	r.AddOutputLayer2D("out", 2, 2, 0.0)
	if _, err := r.ConnectLayers("in", "out", 1.0, false); err != nil {
		t.Fatalf("ConnectLayers: %v", err)
	}

	m, err := r.TickImage("in", []float32{1, 1, 1, 1})
	if err != nil {
		t.Fatalf("TickImage: %v", err)
	}
	if m.TotalSlots == 0 {
		t.Error("expected at least one slot to have been allocated")
	}
}

func TestRegionGrowthGrowsAtMostOneLayerPerTick(t *testing.T) {
	r := NewRegion("test")
	cfg := DefaultSlotConfig()
	cfg.NeuronGrowthEnabled = false // isolate region-level growth from per-neuron growth
	r.SlotEngine = NewEngine(cfg)

	ly := r.AddLayer("L", 1, 0, 0)
	ly.NeuronLimit = 4

	policy := DefaultRegionGrowthPolicy()
	policy.Enabled = true
	policy.AvgSlotsThreshold = 1
	policy.CooldownTicks = 0
	r.SetGrowthPolicy(policy)

	before := len(r.Layers)
	if _, err := r.Tick("L", 1.0); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	afterOne := len(r.Layers)
	if afterOne != before+1 {
		t.Fatalf("len(r.Layers) = %d after tick 1, want %d (exactly one new layer, not a neuron on L)", afterOne, before+1)
	}
	if len(ly.Neurons) != 1 {
		t.Errorf("region growth must not add a neuron to L: len(ly.Neurons) = %d, want 1", len(ly.Neurons))
	}

	// A second tick, still within cooldown=0: L still qualifies (its
	// own slot stats are unaffected by the new, untouched layer), so
	// growth fires again -- but still at most one new layer per tick.
	if _, err := r.Tick("L", 2.0); err != nil {
		t.Fatalf("Tick: %v", err)
	}
	if len(r.Layers) != before+2 {
		t.Errorf("len(r.Layers) = %d after tick 2, want %d (one more layer, never more than one per tick)", len(r.Layers), before+2)
	}
}

func TestRegionPruneRemovesWeakUnfrozenSlots(t *testing.T) {
	r := NewRegion("test")
	ly := r.AddLayer("L", 1, 0, 0)
	n := ly.Neurons[0]
	n.Slots.Set(0, NewWeight())
	strong := NewWeight()
	strong.Strength = 0.9
	n.Slots.Set(1, strong)

	pruned := r.Prune(0.5)
	if pruned != 1 {
		t.Errorf("Prune removed %d slots, want 1", pruned)
	}
	if n.Slots.Get(1) == nil {
		t.Error("strong slot should have survived pruning")
	}
}
