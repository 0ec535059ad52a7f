// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package region

import "github.com/nectario/grownet-go/rng"

// Tract is a probabilistic bundle of inter-layer connections realized
// as fire-hook registrations on the source layer's neurons: a hook
// calls dst.PropagateFrom(sourceIndex, amplitude) whenever that source
// neuron fires. Grounded on leabra.PrjnStru, trimmed to the
// hook-based, index-addressed connectivity spec 4.6 describes instead
// of leabra's dense synaptic-weight-array connectivity.
type Tract struct {
	SourceLayer *Layer
	DestLayer   *Layer
	Feedback    bool
	Probability float32

	rngSrc rng.Source
}

// NewTract builds a Tract and subscribes every source neuron with
// probability p (spec 4.6). A probability of 1.0 always subscribes,
// so no RNG draw is required in the common bindInput/bindOutput case.
func NewTract(src, dst *Layer, feedback bool, probability float32, rngSrc rng.Source) *Tract {
	t := &Tract{SourceLayer: src, DestLayer: dst, Feedback: feedback, Probability: probability, rngSrc: rngSrc}
	for i := range src.Neurons {
		t.maybeSubscribe(i)
	}
	return t
}

func (t *Tract) maybeSubscribe(sourceIndex int) {
	if t.Probability < 1.0 && !rng.BoolP(float64(t.Probability), t.rngSrc) {
		return
	}
	t.subscribe(sourceIndex)
}

func (t *Tract) subscribe(sourceIndex int) {
	dst := t.DestLayer
	n := t.SourceLayer.Neurons[sourceIndex]
	idx := sourceIndex
	n.FireHooks = append(n.FireHooks, func(amplitude float32) {
		dst.PropagateFrom(idx, amplitude)
	})
}

// AttachSourceNeuron subscribes a newly grown source neuron at newIdx,
// using the same per-edge probability the Tract was built with, so
// growth preserves connectivity (spec 4.6/4.7 autowiring).
func (t *Tract) AttachSourceNeuron(newIdx int) {
	t.maybeSubscribe(newIdx)
}
