// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package region

import (
	"fmt"

	"github.com/nectario/grownet-go/tensor"
)

// NewInputLayerND builds an InputND edge layer: one Input-kind neuron
// per tensor element of shape. The shape is not checked here; every
// ForwardND call checks its shape against the bound one. Grounded on
// original_source/src/cpp/InputLayerND.h.
func NewInputLayerND(name string, engine *Engine, shape []int, gain, epsilonFire float32) *Layer {
	sh := tensor.NewShape(shape)
	ly := &Layer{
		Kind:        LayerInputND,
		Name:        name,
		Bus:         NewBus(),
		Engine:      engine,
		NeuronLimit: -1,
		Shape:       append([]int(nil), shape...),
		Gain:        gain,
		EpsilonFire: epsilonFire,
	}
	for i := 0; i < sh.Len(); i++ {
		n := ly.appendNeuron(InputKind)
		n.Gain = gain
		n.EpsilonFire = epsilonFire
	}
	return ly
}

// ForwardND validates flat against shape (spec 6: "shape mismatches in
// ND tick raise a validation error") and forwards one element per
// neuron, row-major.
func (ly *Layer) ForwardND(flat []float64, shape []int) error {
	if ly.Kind != LayerInputND {
		return newValidationError("ForwardND", fmt.Sprintf("called on non-InputND layer %q", ly.Name))
	}
	if !tensor.Equal(ly.Shape, shape) {
		return newValidationError("ForwardND", fmt.Sprintf("shape %v does not match bound shape %v", shape, ly.Shape))
	}
	if err := tensor.Validate(shape, flat); err != nil {
		return newValidationError("ForwardND", err.Error())
	}
	for i, v := range flat {
		n := ly.Neurons[i]
		fv := float32(v)
		if n.OnInput(fv) {
			n.OnOutput(fv)
		}
	}
	return nil
}
