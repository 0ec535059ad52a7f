// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package region

// Synapse is a lightweight directed edge from a source neuron to a
// target neuron. It holds only a non-owning pointer to its target and
// a feedback flag; the Region is the sole owner of the neurons it
// connects. Grounded on leabra's PrjnStru, trimmed from a whole
// projection object down to the single-edge granularity spec 3 calls
// for.
type Synapse struct {
	Target   *Neuron
	Feedback bool
}
