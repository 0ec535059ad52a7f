// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package rng provides the random-number abstractions shared by the
// proximity sidecar and the PAL reduction kernels. It follows the same
// shape as emergent's erand package: a small Source interface plus
// helpers (BoolP, Choose) that take an optional explicit source so
// callers can choose between the process-global generator and a
// reproducible, per-worker one.
package rng

import (
	"math/rand"
	"time"
)

// Source is anything that can produce uniform floats in [0,1).
// draw is an opaque draw index a caller can use to keep parallel
// workers from stepping on each other's draws; implementations that
// don't care about worker isolation (e.g. the global source) ignore it.
type Source interface {
	Float64(draw int) float64
}

// globalSource wraps a time-seeded math/rand generator of its own.
type globalSource struct {
	r *rand.Rand
}

// NewGlobalSource returns a Source backed by a freshly seeded
// math/rand.Rand. Not suitable for the proximity sidecar's
// probabilistic accept functions, which the region spec requires to
// come from an explicitly seeded Source (see Seeded).
func NewGlobalSource() Source {
	return &globalSource{r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (g *globalSource) Float64(draw int) float64 {
	return g.r.Float64()
}

// seeded is a deterministic Source owned by a Region. Unlike
// globalSource it is safe to copy the seed forward into reproducible
// runs: the same seed always yields the same draw sequence.
type seeded struct {
	r *rand.Rand
}

// NewSeeded returns a deterministic Source for the given seed.
// Region.SetSeed installs one for its Tract probability draws; the
// proximity engine does not receive it and draws from its own
// Config.RNG (only in its Linear/Logistic accept tests).
func NewSeeded(seed int64) Source {
	return &seeded{r: rand.New(rand.NewSource(seed))}
}

func (s *seeded) Float64(draw int) float64 {
	return s.r.Float64()
}

// BoolP reports true with probability p, reading from src (or the
// global source if src is nil). Mirrors erand.BoolP's "optional
// explicit source" signature.
func BoolP(p float64, src Source) bool {
	if src == nil {
		src = globalFallback
	}
	return src.Float64(0) < p
}

// globalFallback is used only by BoolP/Choose when no Source is
// supplied; it is never used for anything the spec requires to be
// reproducible.
var globalFallback = NewGlobalSource()

// Choose picks an index into ps (probabilities, need not sum to 1 --
// it is normalized against their sum) according to its weight.
func Choose(ps []float64, src Source) int {
	if src == nil {
		src = globalFallback
	}
	total := 0.0
	for _, p := range ps {
		total += p
	}
	if total <= 0 {
		return 0
	}
	pv := src.Float64(0) * total
	sum := 0.0
	for i, p := range ps {
		sum += p
		if pv < sum {
			return i
		}
	}
	return len(ps) - 1
}
