// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package proximity

import (
	"github.com/chewxy/math32"
	"github.com/nectario/grownet-go/rng"
)

// RegionHost is the minimal surface Engine needs from whatever owns
// the layers: defined here (not in region) so region can import
// proximity without proximity importing region back.
type RegionHost interface {
	LayerCount() int
	NeuronCount(layerIndex int) int
	IsCandidateLayer(layerIndex int) bool
	AlreadyConnected(srcLayer, srcIdx, dstLayer, dstIdx int) bool
	ConnectNeurons(srcLayer, srcIdx, dstLayer, dstIdx int)
	RecordMeshRule(srcLayer, dstLayer int)
}

// Engine runs one sidecar pass per qualifying tick, reusing its
// spatial hash across ticks when the host's topology has not grown
// since the last build (spec's "reuse spatial hash across ticks"
// supplement).
type Engine struct {
	Config Config

	hash          *SpatialHash
	builtForCount int // total neuron count across candidate layers at last build
	lastApplyStep uint64
	everApplied   bool
}

// NewEngine validates cfg and returns a ready Engine.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{Config: cfg}, nil
}

// Apply runs one proximity pass at the given tick step against host,
// honoring the development window, per-tick budget, and cooldown.
// Returns the number of new connections accepted.
func (e *Engine) Apply(host RegionHost, step uint64) int {
	cfg := e.Config
	if !cfg.Enabled {
		return 0
	}
	if step < cfg.DevWindowStart || (cfg.DevWindowEnd > 0 && step > cfg.DevWindowEnd) {
		return 0
	}
	if e.everApplied && cfg.CooldownTicks > 0 && step-e.lastApplyStep < cfg.CooldownTicks {
		return 0
	}

	points := e.collectPoints(host)
	if e.hash == nil || e.builtForCount != len(points) {
		e.hash = NewSpatialHash(cfg.Radius)
		e.hash.Build(points)
		e.builtForCount = len(points)
	}

	budget := cfg.PerTickBudget
	accepted := 0
	for _, p := range points {
		if budget > 0 && accepted >= budget {
			break
		}
		neighbors := e.hash.Query(p.Pos, cfg.Radius)
		for _, q := range neighbors {
			if budget > 0 && accepted >= budget {
				break
			}
			if before(q, p) || q == p {
				continue // visit each unordered cross- or same-layer pair exactly once
			}
			d := dist(p.Pos, q.Pos)
			if !e.accept(d) {
				continue
			}
			if host.AlreadyConnected(p.LayerIndex, p.NeuronIndex, q.LayerIndex, q.NeuronIndex) {
				continue
			}
			host.ConnectNeurons(p.LayerIndex, p.NeuronIndex, q.LayerIndex, q.NeuronIndex)
			if cfg.RecordMeshRuleCrossLayer && p.LayerIndex != q.LayerIndex {
				host.RecordMeshRule(p.LayerIndex, q.LayerIndex)
			}
			accepted++
		}
	}

	e.lastApplyStep = step
	e.everApplied = true
	return accepted
}

// before reports whether a sorts strictly ahead of b in the canonical
// (LayerIndex, NeuronIndex) order Apply uses to visit every unordered
// pair of points exactly once.
func before(a, b Point) bool {
	if a.LayerIndex != b.LayerIndex {
		return a.LayerIndex < b.LayerIndex
	}
	return a.NeuronIndex < b.NeuronIndex
}

func (e *Engine) collectPoints(host RegionHost) []Point {
	var points []Point
	for li := 0; li < host.LayerCount(); li++ {
		if !host.IsCandidateLayer(li) {
			continue
		}
		n := host.NeuronCount(li)
		for ni := 0; ni < n; ni++ {
			points = append(points, Point{LayerIndex: li, NeuronIndex: ni, Pos: Position(li, ni, n)})
		}
	}
	return points
}

// accept evaluates the configured Function at distance d. Step is
// deterministic; Linear/Logistic draw from Config.RNG, validated
// non-nil at construction.
func (e *Engine) accept(d float32) bool {
	cfg := e.Config
	switch cfg.Func {
	case Step:
		return d <= cfg.Radius
	case Linear:
		if d > cfg.Radius {
			return false
		}
		frac := 1 - d/cfg.Radius
		if frac < 0 {
			frac = 0
		}
		p := math32.Pow(frac, cfg.Gamma)
		return rng.BoolP(float64(p), cfg.RNG)
	case Logistic:
		p := sigmoid(cfg.Steepness * (cfg.Radius - d))
		return rng.BoolP(float64(p), cfg.RNG)
	default:
		return false
	}
}

func sigmoid(x float32) float32 {
	return 1 / (1 + math32.Exp(-x))
}
