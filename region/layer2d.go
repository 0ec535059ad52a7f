// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package region

import "fmt"

// NewInputLayer2D builds an Input2D edge layer: one neuron per pixel,
// each an Input-kind neuron with the given gain/epsilonFire. Grounded
// on original_source/src/cpp/InputLayer2D.h.
func NewInputLayer2D(name string, engine *Engine, height, width int, gain, epsilonFire float32) *Layer {
	ly := &Layer{
		Kind:        LayerInput2D,
		Name:        name,
		Bus:         NewBus(),
		Engine:      engine,
		NeuronLimit: -1,
		Height:      height,
		Width:       width,
		Gain:        gain,
		EpsilonFire: epsilonFire,
	}
	for i := 0; i < height*width; i++ {
		n := ly.appendNeuron(InputKind)
		n.Gain = gain
		n.EpsilonFire = epsilonFire
	}
	return ly
}

// NewOutputLayer2D builds an Output2D edge layer: one Output-kind
// neuron per pixel, each smoothing its accumulated amplitude by
// smoothing per endTick. Grounded on original_source/src/cpp/OutputLayer2D.h.
func NewOutputLayer2D(name string, engine *Engine, height, width int, smoothing float32) *Layer {
	ly := &Layer{
		Kind:        LayerOutput2D,
		Name:        name,
		Bus:         NewBus(),
		Engine:      engine,
		NeuronLimit: -1,
		Height:      height,
		Width:       width,
		Smoothing:   smoothing,
		Frame:       make([]float32, height*width),
	}
	for i := 0; i < height*width; i++ {
		n := ly.appendNeuron(OutputKind)
		n.Smoothing = smoothing
	}
	return ly
}

// ForwardImage feeds one pixel value per neuron into onInput, in
// row-major order, as spec 4.5's Input2D.forwardImage.
func (ly *Layer) ForwardImage(frame []float32) error {
	if ly.Kind != LayerInput2D {
		return newValidationError("ForwardImage", fmt.Sprintf("called on non-Input2D layer %q", ly.Name))
	}
	if len(frame) != ly.Height*ly.Width {
		return newValidationError("ForwardImage", fmt.Sprintf("frame size %d != %dx%d", len(frame), ly.Height, ly.Width))
	}
	for i, v := range frame {
		n := ly.Neurons[i]
		if n.OnInput(v) {
			n.OnOutput(v)
		}
	}
	return nil
}

// depositFrame adds amplitude to neuron i's accumulated OutputValue and
// copies that accumulated value into the Output2D frame buffer.
func (ly *Layer) depositFrame(i int, amplitude float32) {
	n := ly.Neurons[i]
	n.OnInput(amplitude)
	ly.Frame[i] = n.OutputValue
}

// ReadFrame returns the current row-major Output2D frame (height x
// width, or nil for other layer kinds).
func (ly *Layer) ReadFrame() []float32 {
	return ly.Frame
}

// syncFrame refreshes the Output2D Frame buffer from current neuron
// OutputValues; called at end of tick so ReadFrame reflects any decay
// applied by EndTick.
func (ly *Layer) syncFrame() {
	if ly.Kind != LayerOutput2D {
		return
	}
	if ly.Frame == nil {
		ly.Frame = make([]float32, len(ly.Neurons))
	}
	for i, n := range ly.Neurons {
		ly.Frame[i] = n.OutputValue
	}
}
