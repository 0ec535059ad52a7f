// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package region

import "testing"

func TestNeuronInputKindGainAndFireHooks(t *testing.T) {
	eng := NewEngine(DefaultSlotConfig())
	bus := NewBus()
	n := NewNeuron(InputKind, bus, eng)
	n.Gain = 2.0
	n.EpsilonFire = 0.02

	var hookAmplitude float32
	hooked := false
	n.FireHooks = append(n.FireHooks, func(a float32) { hooked = true; hookAmplitude = a })

	n.OnInput(1.0) // first observation: sets theta, cannot fire yet
	if n.LastInput != 2.0 {
		t.Fatalf("LastInput = %v, want 2.0 (input scaled by Gain)", n.LastInput)
	}
	fired := n.OnInput(1.0)
	if fired {
		t.Fatal("identical repeated input should not cross threshold")
	}
	if hooked {
		t.Fatal("fire hook should not run without a threshold crossing")
	}
	_ = hookAmplitude
}

func TestNeuronInhibitoryAndModulatorySetBusOnly(t *testing.T) {
	bus := NewBus()
	eng := NewEngine(DefaultSlotConfig())
	inh := NewNeuron(Inhibitory, bus, eng)
	mod := NewNeuron(Modulatory, bus, eng)

	hooked := false
	inh.FireHooks = append(inh.FireHooks, func(float32) { hooked = true })

	inh.OnOutput(0.7)
	mod.OnOutput(1.5)

	if bus.InhibitionFactor != 0.7 {
		t.Errorf("InhibitionFactor = %v, want 0.7", bus.InhibitionFactor)
	}
	if bus.ModulationFactor != 1.5 {
		t.Errorf("ModulationFactor = %v, want 1.5", bus.ModulationFactor)
	}
	if hooked {
		t.Error("inhibitory neuron must not notify fire hooks")
	}
}

func TestNeuronOutputAccumulatesAndDecays(t *testing.T) {
	bus := NewBus()
	eng := NewEngine(DefaultSlotConfig())
	n := NewNeuron(OutputKind, bus, eng)
	n.Smoothing = 0.5

	n.OnInput(1.0)
	n.OnInput(1.0)
	if n.OutputValue != 2.0 {
		t.Errorf("OutputValue = %v, want 2.0", n.OutputValue)
	}
	n.EndTick()
	if n.OutputValue != 1.0 {
		t.Errorf("OutputValue after decay = %v, want 1.0", n.OutputValue)
	}
}

func TestNeuronFreezeUnfreezeLastSlot(t *testing.T) {
	bus := NewBus()
	eng := NewEngine(DefaultSlotConfig())
	n := NewNeuron(Excitatory, bus, eng)
	n.OnInput(1.0)
	n.FreezeLastSlot()
	w := n.Slots.Get(n.State.LastSlotID)
	if !w.Frozen {
		t.Fatal("FreezeLastSlot did not freeze the slot")
	}
	n.UnfreezeLastSlot()
	if w.Frozen {
		t.Error("UnfreezeLastSlot did not clear Frozen")
	}
	if !n.State.PreferLastSlotOnce {
		t.Error("UnfreezeLastSlot must set PreferLastSlotOnce")
	}
}
