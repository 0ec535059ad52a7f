// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package proximity

import (
	"testing"

	"github.com/nectario/grownet-go/rng"
)

// fakeHost is a minimal RegionHost over layers with the given neuron
// counts; every layer is a candidate.
type fakeHost struct {
	layers    []int
	connected map[[4]int]bool
	calls     [][4]int
}

func newFakeHost(neuronsPerLayer ...int) *fakeHost {
	return &fakeHost{layers: neuronsPerLayer, connected: make(map[[4]int]bool)}
}

func (h *fakeHost) LayerCount() int             { return len(h.layers) }
func (h *fakeHost) NeuronCount(i int) int        { return h.layers[i] }
func (h *fakeHost) IsCandidateLayer(i int) bool { return true }
func (h *fakeHost) AlreadyConnected(sl, si, dl, di int) bool {
	return h.connected[[4]int{sl, si, dl, di}]
}
func (h *fakeHost) ConnectNeurons(sl, si, dl, di int) {
	h.connected[[4]int{sl, si, dl, di}] = true
	h.calls = append(h.calls, [4]int{sl, si, dl, di})
}
func (h *fakeHost) RecordMeshRule(sl, dl int) {}

func TestConfigValidateRejectsProbabilisticWithoutRNG(t *testing.T) {
	cfg := Config{Enabled: true, Radius: 1, Func: Linear}
	if err := cfg.Validate(); err == nil {
		t.Error("expected an error for Linear function with no RNG")
	}
	cfg.RNG = rng.NewSeeded(1)
	if err := cfg.Validate(); err != nil {
		t.Errorf("unexpected error once RNG is set: %v", err)
	}
}

func TestEngineApplyStepConnectsWithinRadius(t *testing.T) {
	// Two single-neuron layers one LayerSpacing (4.0) apart in Z; a
	// radius comfortably larger than that should connect them under
	// Step.
	cfg := Config{Enabled: true, Radius: LayerSpacing + 1, Func: Step, PerTickBudget: 0}
	eng, err := NewEngine(cfg)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	host := newFakeHost(1, 1)
	n := eng.Apply(host, 0)
	if n != 1 {
		t.Fatalf("Apply accepted %d connections, want 1", n)
	}
	if !host.connected[[4]int{0, 0, 1, 0}] {
		t.Error("expected neuron (0,0) connected to (1,0)")
	}
}

func TestEngineApplyRespectsDevelopmentWindow(t *testing.T) {
	cfg := Config{Enabled: true, Radius: 100, Func: Step, DevWindowStart: 10}
	eng, err := NewEngine(cfg)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	host := newFakeHost(1, 1)
	if n := eng.Apply(host, 0); n != 0 {
		t.Errorf("Apply before dev window accepted %d, want 0", n)
	}
	if n := eng.Apply(host, 10); n != 1 {
		t.Errorf("Apply at dev window start accepted %d, want 1", n)
	}
}

func TestEngineApplyBudgetCapsAcceptedConnections(t *testing.T) {
	cfg := Config{Enabled: true, Radius: 100, Func: Step, PerTickBudget: 1}
	eng, err := NewEngine(cfg)
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	host := newFakeHost(3)
	n := eng.Apply(host, 0)
	if n != 1 {
		t.Errorf("Apply accepted %d connections, want exactly the budget of 1", n)
	}
}

func TestPositionGridLayout(t *testing.T) {
	p0 := Position(0, 0, 4)
	p1 := Position(1, 0, 4)
	if p1.Z-p0.Z != LayerSpacing {
		t.Errorf("layer Z spacing = %v, want %v", p1.Z-p0.Z, LayerSpacing)
	}
}
