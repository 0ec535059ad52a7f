// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package region

// MeshRule records one connectLayers(src, dst, probability, feedback)
// call so that autowireNewNeuron can re-derive, for a freshly grown
// neuron, every plain Tract it must join. TractWindowed rules are not
// recorded here: their own AttachSourceNeuron looks membership up in
// the edges/allowed sources recorded when the tract was built. Grounded on the mesh-of-PrjnStru connectivity
// leabra.Network.ConnectLayers builds up, trimmed to the
// index-addressed, probability-weighted edges spec 4.6/4.7 need.
type MeshRule struct {
	SourceLayer *Layer
	DestLayer   *Layer
	Probability float32
	Feedback    bool
	Tract       *Tract
}
