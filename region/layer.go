// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package region

import "fmt"

// LayerKind tags which of the four layer variants spec 2/4.5 and
// design note 9 describe a Layer is: Generic mixed E/I/M, Input2D,
// InputND, or Output2D. One struct, dispatched on Kind, per the same
// "collapse deep inheritance to a tagged sum type" design note applied
// to Neuron.
type LayerKind int

const (
	LayerGeneric LayerKind = iota
	LayerInput2D
	LayerInputND
	LayerOutput2D
)

// Layer owns its neurons (in stable, append-only order) and exactly
// one Bus. Grounded on leabra.LayerStru/leabra.Layer, trimmed of the
// XCAL-specific activation/inhibition machinery this engine doesn't
// use and given the four-kind dispatch spec 4.5 calls for.
type Layer struct {
	Kind        LayerKind
	Name        string
	Bus         *Bus
	Neurons     []*Neuron
	NeuronLimit int // -1 for unlimited

	RegionRef *Region
	Engine    *Engine

	// 2D/ND shape, used by Input2D/Output2D/InputND.
	Height int
	Width  int
	Shape  []int

	// Output2D accumulates the last amplitude delivered to each
	// neuron into a row-major frame buffer.
	Frame []float32

	// Input2D/Input gain+imprint parameters, applied to every neuron
	// created in this layer.
	Gain        float32
	EpsilonFire float32
	Smoothing   float32
}

// NewLayer constructs an empty Generic layer with the given neuron
// counts (excitatory, inhibitory, modulatory), in that order, matching
// spec 6's addLayer(exc, inh, mod) signature.
func NewLayer(name string, engine *Engine, exc, inh, mod int) *Layer {
	ly := &Layer{
		Kind:        LayerGeneric,
		Name:        name,
		Bus:         NewBus(),
		Engine:      engine,
		NeuronLimit: -1,
	}
	for i := 0; i < exc; i++ {
		ly.appendNeuron(Excitatory)
	}
	for i := 0; i < inh; i++ {
		ly.appendNeuron(Inhibitory)
	}
	for i := 0; i < mod; i++ {
		ly.appendNeuron(Modulatory)
	}
	return ly
}

func (ly *Layer) appendNeuron(kind Kind) *Neuron {
	n := NewNeuron(kind, ly.Bus, ly.Engine)
	n.Index = len(ly.Neurons)
	n.Owner = ly
	ly.Neurons = append(ly.Neurons, n)
	return n
}

// Forward delivers x to every neuron in the layer (spec 4.5): each
// neuron's onInput is called, and onOutput follows for any that fire.
// Used by Generic layers; Input2D/InputND have their own forward
// entry points (ForwardImage/ForwardND) and Output2D is driven purely
// by PropagateFrom.
func (ly *Layer) Forward(x float32) {
	for _, n := range ly.Neurons {
		if n.OnInput(x) {
			n.OnOutput(x)
		}
	}
}

// PropagateFrom delivers amplitude to the single neuron at index i, as
// used by Tract/TractWindowed fan-out.
func (ly *Layer) PropagateFrom(i int, amplitude float32) {
	if i < 0 || i >= len(ly.Neurons) {
		return
	}
	n := ly.Neurons[i]
	if ly.Kind == LayerOutput2D {
		ly.depositFrame(i, amplitude)
		return
	}
	if n.OnInput(amplitude) {
		n.OnOutput(amplitude)
	}
}

// EndTick runs per-neuron end-of-tick hooks then decays the bus.
func (ly *Layer) EndTick() {
	for _, n := range ly.Neurons {
		n.EndTick()
	}
	ly.syncFrame()
	ly.Bus.Decay()
}

// TryGrowNeuron appends a new neuron of the same kind as seed, if
// NeuronLimit allows it. Returns the new neuron's index, or -1 if the
// layer refused. Implements the LayerHost interface Neuron.evaluateGrowth
// calls into.
func (ly *Layer) TryGrowNeuron(seed *Neuron) int {
	if ly.NeuronLimit >= 0 && len(ly.Neurons) >= ly.NeuronLimit {
		return -1
	}
	n := ly.appendNeuron(seed.Kind)
	n.SlotLimit = seed.SlotLimit
	if ly.RegionRef != nil {
		ly.RegionRef.autowireNewNeuron(ly, n.Index)
	}
	return n.Index
}

// NeuronCount is a convenience accessor used by region-growth scoring
// and the proximity sidecar.
func (ly *Layer) NeuronCount() int { return len(ly.Neurons) }

func (ly *Layer) String() string {
	return fmt.Sprintf("Layer(%s, kind=%d, n=%d)", ly.Name, ly.Kind, len(ly.Neurons))
}
