// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package region

import (
	"golang.org/x/exp/slices"

	"goki.dev/grr"
)

// Padding selects how TractWindowed enumerates window origins at the
// source grid's edges.
type Padding int

const (
	PaddingSame Padding = iota
	PaddingValid
)

// windowEdge is a deduplicated (sourceIndex, destCenterIndex) pair, used
// only when the destination is an Output2D layer.
type windowEdge struct {
	src, dst int
}

// TractWindowed bundles the deterministic, kernel/stride/padding
// driven connectivity a convolution-like projection needs: every
// source pixel that participates in at least one window ("unique
// source") is subscribed exactly once, and -- when the destination is
// Output2D -- each window additionally contributes a deduplicated
// (source, destCenter) edge. Grounded on
// original_source/src/cpp/src/TractWindowed.cpp and
// prjn.PoolTile's receptive-field tiling.
type TractWindowed struct {
	SourceLayer *Layer
	DestLayer   *Layer
	KH, KW      int
	SH, SW      int
	Padding     Padding

	destIsOutput2D bool
	destH, destW   int

	edges          []windowEdge // only populated when destIsOutput2D
	allowedSources map[int]bool // only populated when !destIsOutput2D

	UniqueSources int
}

// NewTractWindowed builds the windowed geometry for src -> dst and
// subscribes the resulting unique sources' fire hooks. feedback is
// accepted for symmetry with Tract; it is not stored and does not
// change the geometry.
func NewTractWindowed(src, dst *Layer, kh, kw, sh, sw int, padding Padding, feedback bool) (*TractWindowed, error) {
	if kh <= 0 || kw <= 0 || sh <= 0 || sw <= 0 {
		return nil, grr.Log(errInvalidKernel)
	}
	t := &TractWindowed{
		SourceLayer: src,
		DestLayer:   dst,
		KH:          kh,
		KW:          kw,
		SH:          sh,
		SW:          sw,
		Padding:     padding,
	}
	t.destIsOutput2D = dst.Kind == LayerOutput2D
	if t.destIsOutput2D {
		t.destH, t.destW = dst.Height, dst.Width
	}
	t.build(src.Height, src.Width)
	t.wireUniqueSources()
	return t, nil
}

func (t *TractWindowed) build(h, w int) {
	origins := windowOrigins(h, t.KH, t.SH, t.Padding)
	colOrigins := windowOrigins(w, t.KW, t.SW, t.Padding)

	sources := make(map[int]bool)
	var edges []windowEdge

	for _, or := range origins {
		for _, oc := range colOrigins {
			r0, r1, c0, c1 := clipWindow(or, oc, t.KH, t.KW, h, w)
			if r0 >= r1 || c0 >= c1 {
				continue
			}
			var centerIdx int
			if t.destIsOutput2D {
				centerRow := r0 + (r1-r0-1)/2
				centerCol := c0 + (c1-c0-1)/2
				destRow := scaleCoord(centerRow, h, t.destH)
				destCol := scaleCoord(centerCol, w, t.destW)
				centerIdx = destRow*t.destW + destCol
			}
			for r := r0; r < r1; r++ {
				for c := c0; c < c1; c++ {
					srcIdx := r*w + c
					sources[srcIdx] = true
					if t.destIsOutput2D {
						edges = append(edges, windowEdge{src: srcIdx, dst: centerIdx})
					}
				}
			}
		}
	}

	if t.destIsOutput2D {
		slices.SortFunc(edges, func(a, b windowEdge) int {
			if a.src != b.src {
				return a.src - b.src
			}
			return a.dst - b.dst
		})
		edges = slices.CompactFunc(edges, func(a, b windowEdge) bool { return a == b })
		t.edges = edges
	} else {
		t.allowedSources = sources
	}
	t.UniqueSources = len(sources)
}

func (t *TractWindowed) wireUniqueSources() {
	if t.destIsOutput2D {
		bySource := make(map[int][]int)
		for _, e := range t.edges {
			bySource[e.src] = append(bySource[e.src], e.dst)
		}
		for src, centers := range bySource {
			t.subscribeToCenters(src, centers)
		}
		return
	}
	for src := range t.allowedSources {
		t.subscribeToAllDest(src)
	}
}

func (t *TractWindowed) subscribeToCenters(src int, centers []int) {
	n := t.SourceLayer.Neurons[src]
	dst := t.DestLayer
	cs := append([]int(nil), centers...)
	n.FireHooks = append(n.FireHooks, func(amplitude float32) {
		for _, c := range cs {
			dst.PropagateFrom(c, amplitude)
		}
	})
}

func (t *TractWindowed) subscribeToAllDest(src int) {
	n := t.SourceLayer.Neurons[src]
	dst := t.DestLayer
	n.FireHooks = append(n.FireHooks, func(amplitude float32) {
		for d := range dst.Neurons {
			dst.PropagateFrom(d, amplitude)
		}
	})
}

// AttachSourceNeuron re-derives which centers (Output2D dest) or
// whether any-destination wiring (non-Output2D dest) a newly grown
// source neuron belongs to, by looking newIdx up in the edges or
// allowed-source set recorded at build time (the windows are not
// recomputed). Used by Region.autowireNewNeuron.
func (t *TractWindowed) AttachSourceNeuron(newIdx int) {
	h, w := t.SourceLayer.Height, t.SourceLayer.Width
	if newIdx < 0 || newIdx >= h*w {
		return
	}
	if t.destIsOutput2D {
		var centers []int
		for _, e := range t.edges {
			if e.src == newIdx {
				centers = append(centers, e.dst)
			}
		}
		if len(centers) > 0 {
			t.subscribeToCenters(newIdx, centers)
		}
		return
	}
	if t.allowedSources[newIdx] {
		t.subscribeToAllDest(newIdx)
	}
}

func windowOrigins(size, kernel, stride int, padding Padding) []int {
	var origins []int
	if padding == PaddingSame {
		pad := (kernel - 1) / 2
		for o := -pad; o <= size-1+pad; o += stride {
			origins = append(origins, o)
		}
	} else {
		for o := 0; o+kernel <= size; o += stride {
			origins = append(origins, o)
		}
	}
	return origins
}

func clipWindow(originRow, originCol, kh, kw, h, w int) (r0, r1, c0, c1 int) {
	r0 = maxInt(0, originRow)
	r1 = minInt(h, originRow+kh)
	c0 = maxInt(0, originCol)
	c1 = minInt(w, originCol+kw)
	return
}

func scaleCoord(c, from, to int) int {
	if from == to || from == 0 {
		return c
	}
	return c * to / from
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}
