// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package proximity

import "goki.dev/mat32/v2"

// Point is one neuron's spatial-hash entry: which layer/neuron it is
// and where the deterministic layout places it.
type Point struct {
	LayerIndex  int
	NeuronIndex int
	Pos         mat32.Vec3
}

type cellKey struct{ x, y, z int }

// SpatialHash buckets Points into cells of side CellSize so that a
// radius query only has to look at the 27-cell neighborhood around the
// query point instead of scanning every point. Rebuilding is lazy: the
// sidecar calls Build once per tick only when the previous hash is
// stale (spec's "reuse the spatial hash across ticks when topology is
// unchanged" supplement). Grounded on prjn.PoolTile's bucketed spatial
// iteration, generalized from a fixed pooling grid to an arbitrary
// radius query.
type SpatialHash struct {
	CellSize float32
	cells    map[cellKey][]Point
}

// NewSpatialHash returns an empty hash with the given cell size
// (conventionally set to the proximity radius).
func NewSpatialHash(cellSize float32) *SpatialHash {
	if cellSize <= 0 {
		cellSize = 1
	}
	return &SpatialHash{CellSize: cellSize, cells: make(map[cellKey][]Point)}
}

func (h *SpatialHash) keyOf(p mat32.Vec3) cellKey {
	return cellKey{
		x: int(mat32.Floor(p.X / h.CellSize)),
		y: int(mat32.Floor(p.Y / h.CellSize)),
		z: int(mat32.Floor(p.Z / h.CellSize)),
	}
}

// Build replaces the hash contents with points.
func (h *SpatialHash) Build(points []Point) {
	h.cells = make(map[cellKey][]Point, len(points))
	for _, p := range points {
		k := h.keyOf(p.Pos)
		h.cells[k] = append(h.cells[k], p)
	}
}

// Query returns every point within radius of pos, scanning the
// 27-cell neighborhood of pos's cell.
func (h *SpatialHash) Query(pos mat32.Vec3, radius float32) []Point {
	center := h.keyOf(pos)
	var out []Point
	for dx := -1; dx <= 1; dx++ {
		for dy := -1; dy <= 1; dy++ {
			for dz := -1; dz <= 1; dz++ {
				k := cellKey{center.x + dx, center.y + dy, center.z + dz}
				for _, p := range h.cells[k] {
					if dist(p.Pos, pos) <= radius {
						out = append(out, p)
					}
				}
			}
		}
	}
	return out
}
