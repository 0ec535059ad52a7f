// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package region

// Kind tags which of the five neuron variants spec 2/4.4 describes a
// Neuron is. Collapsing the original's deep Excitatory/Inhibitory/...
// inheritance tree into one struct with a tag, per spec section 9's
// design note.
type Kind int

const (
	Excitatory Kind = iota
	Inhibitory
	Modulatory
	InputKind
	OutputKind
)

// LayerHost is the callback surface a Neuron uses to ask its owning
// layer to grow a sibling. Layer implements this; Neuron never imports
// the layer package-level type directly, so growth can be triggered
// from deep inside onInput without a layer<->neuron import cycle.
type LayerHost interface {
	TryGrowNeuron(seed *Neuron) int
}

// Neuron is the sum-type unit of the engine: one struct, tagged by
// Kind, covering every variant spec 2 lists. Grounded on leabra.Neuron
// (state) + leabra.Layer's per-unit dispatch (behavior), collapsed per
// spec section 9's "tagged variants" design note.
type Neuron struct {
	Kind   Kind
	Index  int
	Bus    *Bus
	Engine *Engine
	Owner  LayerHost

	SlotLimit int // per-neuron limit; the larger of this and the engine's config applies, -1 to defer to the config
	Slots     *SlotMap
	State     SlotState

	Outgoing  []Synapse
	FireHooks []func(amplitude float32)

	LastInput float32
	FiredLast bool

	// Input-only
	Gain        float32
	EpsilonFire float32

	// Output-only
	OutputValue float32
	Smoothing   float32
}

// NewNeuron returns a Neuron of the given kind, wired to bus/engine.
func NewNeuron(kind Kind, bus *Bus, engine *Engine) *Neuron {
	return &Neuron{
		Kind:        kind,
		Bus:         bus,
		Engine:      engine,
		SlotLimit:   -1,
		Slots:       NewSlotMap(),
		Gain:        1,
		EpsilonFire: WeightEPS,
		Smoothing:   0.3,
	}
}

// OnInput processes one external/upstream value and returns whether
// the neuron fired.
func (n *Neuron) OnInput(x float32) bool {
	switch n.Kind {
	case InputKind:
		return n.onInputAsInput(x)
	case OutputKind:
		return n.onInputAsOutput(x)
	default:
		return n.onInputGeneric(x)
	}
}

func (n *Neuron) onInputGeneric(x float32) bool {
	w, id, usedFallback, atCapacity := n.Engine.SelectOrCreateScalar(&n.State, n.Slots, n.SlotLimit, x)
	w.Reinforce(n.Bus.ModulationFactor)
	fired := w.UpdateThreshold(x)
	n.FiredLast = fired
	n.LastInput = x
	n.evaluateGrowth(id, usedFallback, atCapacity)
	return fired
}

// OnInput2D is the spatial counterpart used by generic-layer neurons
// fed from a 2D projection (spec 4.3's selectOrCreateSlot2D path).
func (n *Neuron) OnInput2D(row, col, x float32) bool {
	w, id, usedFallback, atCapacity := n.Engine.SelectOrCreateSpatial(&n.State, n.Slots, n.SlotLimit, row, col)
	w.Reinforce(n.Bus.ModulationFactor)
	fired := w.UpdateThreshold(x)
	n.FiredLast = fired
	n.LastInput = x
	n.evaluateGrowth(id, usedFallback, atCapacity)
	return fired
}

func (n *Neuron) singleSlot() *Weight {
	w := n.Slots.Get(0)
	if w == nil {
		w = NewWeight()
		n.Slots.Set(0, w)
	}
	return w
}

func (n *Neuron) onInputAsInput(x float32) bool {
	gained := x * n.Gain
	w := n.singleSlot()
	w.Reinforce(n.Bus.ModulationFactor)
	fired := w.UpdateThresholdWithEPS(gained, n.EpsilonFire)
	n.FiredLast = fired
	n.LastInput = gained
	if fired {
		n.OnOutput(gained)
	}
	return fired
}

func (n *Neuron) onInputAsOutput(amplitude float32) bool {
	n.OutputValue += amplitude
	n.LastInput = amplitude
	n.FiredLast = false
	return false
}

// OnOutput delivers a firing amplitude per spec 4.4's per-variant
// rules: inhibitory/modulatory neurons only touch the bus; excitatory
// (and input) neurons notify fire hooks and, except for Input, fan out
// along every outgoing synapse, recursing into any target that itself
// fires.
func (n *Neuron) OnOutput(amplitude float32) {
	switch n.Kind {
	case Inhibitory:
		n.Bus.InhibitionFactor = amplitude
	case Modulatory:
		n.Bus.ModulationFactor = amplitude
	case InputKind:
		n.notifyFireHooks(amplitude)
	default:
		n.notifyFireHooks(amplitude)
		n.fanOutSynapses(amplitude)
	}
}

func (n *Neuron) notifyFireHooks(amplitude float32) {
	for _, hook := range n.FireHooks {
		hook(amplitude)
	}
}

func (n *Neuron) fanOutSynapses(amplitude float32) {
	for _, syn := range n.Outgoing {
		tgt := syn.Target
		if tgt.OnInput(amplitude) {
			tgt.OnOutput(amplitude)
		}
	}
}

// EndTick runs per-neuron end-of-tick housekeeping: Output neurons
// decay their accumulated value.
func (n *Neuron) EndTick() {
	if n.Kind == OutputKind {
		n.OutputValue *= (1 - n.Smoothing)
	}
}

// FreezeLastSlot marks the most recently selected slot frozen.
func (n *Neuron) FreezeLastSlot() {
	if w := n.Slots.Get(n.State.LastSlotID); w != nil {
		w.Frozen = true
	}
}

// UnfreezeLastSlot clears the frozen flag on the most recently
// selected slot and arranges for the very next selection to land back
// on it exactly once.
func (n *Neuron) UnfreezeLastSlot() {
	if w := n.Slots.Get(n.State.LastSlotID); w != nil {
		w.Frozen = false
	}
	n.State.PreferLastSlotOnce = true
}
