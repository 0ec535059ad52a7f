// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package proximity is the spatial-distance connectivity sidecar: a
// deterministic layout assigns every neuron a 3D position, a spatial
// hash answers "who is nearby" without an O(n^2) scan, and an accept
// function turns distance into a connection probability. It depends
// only on rng and the RegionHost interface it defines itself, so
// region can depend on proximity without a cycle.
package proximity

import "goki.dev/mat32/v2"

const (
	// LayerSpacing is the Z distance between successive layers in the
	// deterministic layout.
	LayerSpacing = 4.0
	// GridSpacing is the X/Y distance between adjacent neurons within
	// a layer's square grid.
	GridSpacing = 1.2
)

// Position returns the deterministic 3D position of neuron idx (of
// count total) within layerIndex: neurons are packed into a square
// grid of side ceil(sqrt(count+1)) spaced GridSpacing apart in X/Y,
// with every layer offset along Z by LayerSpacing. Grounded on
// evec/relpos's layer-stacking-along-Z convention, generalized from
// whole-layer placement to per-neuron placement.
func Position(layerIndex, idx, count int) mat32.Vec3 {
	side := gridSide(count)
	row := idx / side
	col := idx % side
	return mat32.Vec3{
		X: float32(col) * GridSpacing,
		Y: float32(row) * GridSpacing,
		Z: float32(layerIndex) * LayerSpacing,
	}
}

func gridSide(count int) int {
	side := 1
	for side*side < count+1 {
		side++
	}
	return side
}

func dist(a, b mat32.Vec3) float32 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	dz := a.Z - b.Z
	return mat32.Sqrt(dx*dx + dy*dy + dz*dz)
}
