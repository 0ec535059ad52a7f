// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

/*
Package grownet is the overall repository for the grownet event
processing engine, written in Go. This top level has no functional
code -- everything is organized into the following sub-packages:

* region: the engine itself -- Region, Layer, Neuron, Tract,
TractWindowed, the percent-delta slot engine, and the growth
subsystem. One flat package, the same way leabra keeps
Neuron/Layer/Prjn/Network together, since Neuron, Layer, and Tract
all need to call back into each other and Go has no forward
declarations to break the cycle otherwise.

* rng: the random-number abstractions shared by PAL's reduction
kernels and the proximity sidecar's probabilistic accept functions.

* tensor: N-dimensional shape validation for InputND layers.

* pal: the deterministic parallel-for/parallel-map abstraction used
for per-tick structural metric aggregation.

* proximity: the spatial-hash-assisted distance connectivity sidecar,
depending only on rng and a RegionHost interface it defines itself so
that region can depend on proximity without a cycle.
*/
package grownet
