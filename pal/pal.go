// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package pal is the deterministic parallel abstraction layer: a
// parallel-for and a parallel-map over an indexed domain, with either
// an ordered or a pairwise-tree reduction. The point of PAL is that
// for a given domain, kernel, and Ordered reduction, the result is
// bit-identical no matter how many workers ran it -- region.go relies
// on this for its per-tick structural-metric aggregation.
//
// Modeled on erand's "thr" (thread index) parameter convention: a
// kernel that wants reproducible randomness takes its own worker
// index and derives draws from rng.CounterRNG, never from a shared
// stream.
package pal

import (
	"runtime"
	"sort"
	"sync"
)

// Reduction selects how partial results are combined.
type Reduction int

const (
	// Ordered concatenates worker buckets in worker-id order, then
	// index order within each bucket, before reducing -- this is what
	// makes floating point sums reproducible across worker counts.
	Ordered Reduction = iota
	// PairwiseTree combines adjacent partial sums in a fixed binary
	// tree shape, also independent of worker count.
	PairwiseTree
)

// Device is an enum placeholder only: this PAL implementation only
// ever executes kernels on the CPU (GPU kernels are an explicit
// spec Non-goal), but Options.Device is kept so callers can record
// their intent and so the type matches what the domain stack expects.
type Device int

const (
	Cpu Device = iota
	Gpu
	Auto
)

// Domain is anything with a stable size and indexed access; callers
// provide disjoint access per index so that parallel execution is
// side-effect-free.
type Domain interface {
	Size() int
}

// Options configures a single ParallelFor/ParallelMap call.
type Options struct {
	MaxWorkers          int // 0 => runtime.GOMAXPROCS(0)
	TileSize            int // 0 => auto (chunked evenly across workers)
	Reduction           Reduction
	Device              Device
	VectorizationEnabled bool
}

func (o Options) workers(n int) int {
	w := o.MaxWorkers
	if w <= 0 {
		w = runtime.GOMAXPROCS(0)
	}
	if w > n {
		w = n
	}
	if w < 1 {
		w = 1
	}
	return w
}

func (o Options) tile(n, workers int) int {
	if o.TileSize > 0 {
		return o.TileSize
	}
	t := (n + workers - 1) / workers
	if t < 1 {
		t = 1
	}
	return t
}

// ParallelFor calls kernel(i) for every index in [0, domain.Size()),
// possibly from multiple goroutines. kernel must only touch disjoint
// state per index (or state the caller has otherwise synchronized);
// PAL performs no internal synchronization of kernel side effects.
func ParallelFor(domain Domain, kernel func(i int), opts ...Options) {
	n := domain.Size()
	if n == 0 {
		return
	}
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	workers := o.workers(n)
	tile := o.tile(n, workers)

	var wg sync.WaitGroup
	for start := 0; start < n; start += tile {
		end := start + tile
		if end > n {
			end = n
		}
		wg.Add(1)
		go func(s, e int) {
			defer wg.Done()
			for i := s; i < e; i++ {
				kernel(i)
			}
		}(start, end)
	}
	wg.Wait()
}

// ParallelMap runs kernel(i) for every index, collects the per-index
// results bucketed by the worker (tile) that produced them, and
// passes reduceInOrder the concatenation of buckets in tile order
// (itself in index order within a tile) -- this is the "Ordered"
// bucket discipline the determinism invariant depends on; reduceInOrder
// does not need to know anything about worker counts to be
// reproducible.
func ParallelMap[T any, R any](domain Domain, kernel func(i int) T, reduceInOrder func([]T) R, opts ...Options) R {
	n := domain.Size()
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	if n == 0 {
		return reduceInOrder(nil)
	}
	workers := o.workers(n)
	tile := o.tile(n, workers)

	type bucket struct {
		start int
		vals  []T
	}
	numTiles := (n + tile - 1) / tile
	buckets := make([]bucket, numTiles)

	var wg sync.WaitGroup
	ti := 0
	for start := 0; start < n; start += tile {
		end := start + tile
		if end > n {
			end = n
		}
		idx := ti
		ti++
		wg.Add(1)
		go func(s, e, bidx int) {
			defer wg.Done()
			vals := make([]T, 0, e-s)
			for i := s; i < e; i++ {
				vals = append(vals, kernel(i))
			}
			buckets[bidx] = bucket{start: s, vals: vals}
		}(start, end, idx)
	}
	wg.Wait()

	sort.Slice(buckets, func(i, j int) bool { return buckets[i].start < buckets[j].start })

	ordered := make([]T, 0, n)
	for _, b := range buckets {
		ordered = append(ordered, b.vals...)
	}
	return reduceInOrder(ordered)
}

// SumOrdered is the common case of ParallelMap: a deterministic
// ordered sum over float64 contributions.
func SumOrdered(domain Domain, kernel func(i int) float64, opts ...Options) float64 {
	return ParallelMap(domain, kernel, func(vals []float64) float64 {
		sum := 0.0
		for _, v := range vals {
			sum += v
		}
		return sum
	}, opts...)
}

// IntRange is the simplest Domain: the integers [0, n).
type IntRange int

func (r IntRange) Size() int { return int(r) }

// pairwiseSum combines values in a fixed binary-tree shape so that
// the combination order depends only on len(vals), never on how many
// workers produced them.
func pairwiseSum(vals []float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	if len(vals) == 1 {
		return vals[0]
	}
	mid := len(vals) / 2
	return pairwiseSum(vals[:mid]) + pairwiseSum(vals[mid:])
}

// Reduce runs ParallelMap and combines results with the Reduction mode
// recorded in opts (Ordered: left-to-right fold; PairwiseTree: binary
// tree fold). Both are deterministic across worker counts; PairwiseTree
// is offered because it more closely matches how a GPU-style reduction
// tree would combine partial sums, at the cost of differing rounding
// from the Ordered left fold.
func Reduce(domain Domain, kernel func(i int) float64, opts ...Options) float64 {
	var o Options
	if len(opts) > 0 {
		o = opts[0]
	}
	switch o.Reduction {
	case PairwiseTree:
		return ParallelMap(domain, kernel, pairwiseSum, opts...)
	default:
		return SumOrdered(domain, kernel, opts...)
	}
}
