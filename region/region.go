// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package region implements the brain-inspired discrete-tick event
// engine: a Region owns Layers of Neurons wired by Tracts, driven one
// tick at a time. Grounded throughout on leabra.Network/leabra.Layer's
// network-owns-layers-owns-units shape, trimmed of XCAL learning and
// generalized to the percent-delta slot engine, tagged-variant
// neurons/layers, and growth/proximity machinery spec sections 2-6
// describe.
package region

import (
	"fmt"

	"github.com/nectario/grownet-go/proximity"
	"github.com/nectario/grownet-go/rng"
)

// RegionGrowthPolicy is the OR-triggered, at-most-one-layer-per-tick
// region-level growth rule spec 4.7 describes: a layer qualifies when
// its average slot count or its at-capacity/fallback rate crosses a
// threshold, and the single highest-scoring qualifying layer (if any)
// is grown, never more than one per tick.
type RegionGrowthPolicy struct {
	Enabled                       bool
	AvgSlotsThreshold             float32
	PercentAtCapFallbackThreshold float32 // 0-100
	CooldownTicks                 uint64
	MaximumLayers                 int     // -1 means unlimited
	ConnectionProbability         float32 // passed to connectLayers(best->new, …)
}

// DefaultRegionGrowthPolicy returns region growth disabled with
// reasonable thresholds, so enabling it only requires flipping Enabled.
func DefaultRegionGrowthPolicy() RegionGrowthPolicy {
	return RegionGrowthPolicy{
		AvgSlotsThreshold:             8,
		PercentAtCapFallbackThreshold: 50,
		CooldownTicks:                 5,
		MaximumLayers:                 -1,
		ConnectionProbability:         1.0,
	}
}

type connKey struct {
	srcLayer, srcIdx, dstLayer, dstIdx int
}

// Region is the top-level orchestrator: it owns every Layer, the
// region-wide Bus, the mesh of plain and windowed Tracts between
// layers, the growth policies, and an optional proximity sidecar.
// Grounded on leabra.Network/leabra.NetworkStru.
type Region struct {
	Name string
	Bus  *Bus

	Layers     []*Layer
	layerIndex map[string]int

	MeshRules      []*MeshRule
	WindowedTracts []*TractWindowed
	connected      map[connKey]bool

	SlotEngine   *Engine
	GrowthPolicy RegionGrowthPolicy

	proximityEngine *proximity.Engine
	proximityConfig proximity.Config

	tickStep             uint64
	lastRegionGrowthTick uint64
	hasRegionGrown       bool

	rngSrc rng.Source

	// inputPorts/outputPorts map a bound port name to the edge layer
	// it owns exclusively (spec 4.8's ports-as-edges data model).
	inputPorts  map[string]*Layer
	outputPorts map[string]*Layer

	defaultInput  string
	defaultOutput string
}

// NewRegion returns an empty Region with the default slot engine
// config and region growth disabled.
func NewRegion(name string) *Region {
	return &Region{
		Name:         name,
		Bus:          NewBus(),
		layerIndex:   make(map[string]int),
		connected:    make(map[connKey]bool),
		SlotEngine:   NewEngine(DefaultSlotConfig()),
		GrowthPolicy: DefaultRegionGrowthPolicy(),
		rngSrc:       rng.NewGlobalSource(),
		inputPorts:   make(map[string]*Layer),
		outputPorts:  make(map[string]*Layer),
	}
}

// SetSeed replaces the Region's RNG source with a deterministic one,
// required before ConnectLayers with probability<1 can be relied on to
// reproduce. It does not affect the proximity sidecar, which draws
// from the RNG in the config passed to SetProximityConfig.
func (r *Region) SetSeed(seed int64) { r.rngSrc = rng.NewSeeded(seed) }

func (r *Region) addLayer(ly *Layer) *Layer {
	ly.RegionRef = r
	ly.Engine = r.SlotEngine
	r.layerIndex[ly.Name] = len(r.Layers)
	r.Layers = append(r.Layers, ly)
	return ly
}

// AddLayer adds a Generic mixed excitatory/inhibitory/modulatory layer.
func (r *Region) AddLayer(name string, exc, inh, mod int) *Layer {
	return r.addLayer(NewLayer(name, r.SlotEngine, exc, inh, mod))
}

// AddInputLayer2D adds an Input2D edge layer.
func (r *Region) AddInputLayer2D(name string, height, width int, gain, epsilonFire float32) *Layer {
	return r.addLayer(NewInputLayer2D(name, r.SlotEngine, height, width, gain, epsilonFire))
}

// AddOutputLayer2D adds an Output2D edge layer.
func (r *Region) AddOutputLayer2D(name string, height, width int, smoothing float32) *Layer {
	return r.addLayer(NewOutputLayer2D(name, r.SlotEngine, height, width, smoothing))
}

// AddInputLayerND adds an InputND edge layer.
func (r *Region) AddInputLayerND(name string, shape []int, gain, epsilonFire float32) *Layer {
	return r.addLayer(NewInputLayerND(name, r.SlotEngine, shape, gain, epsilonFire))
}

func (r *Region) layerByName(name string) (*Layer, error) {
	idx, ok := r.layerIndex[name]
	if !ok {
		return nil, newValidationError("layerByName", fmt.Sprintf("no such layer %q", name))
	}
	return r.Layers[idx], nil
}

// ConnectLayers wires every source neuron to the destination layer
// with independent probability, recording a MeshRule so that neurons
// grown later on the source layer get the same treatment.
func (r *Region) ConnectLayers(srcName, dstName string, probability float32, feedback bool) (*Tract, error) {
	src, err := r.layerByName(srcName)
	if err != nil {
		return nil, err
	}
	dst, err := r.layerByName(dstName)
	if err != nil {
		return nil, err
	}
	t := NewTract(src, dst, feedback, probability, r.rngSrc)
	r.MeshRules = append(r.MeshRules, &MeshRule{SourceLayer: src, DestLayer: dst, Probability: probability, Feedback: feedback, Tract: t})
	return t, nil
}

// ConnectLayersWindowed wires src to dst with kernel/stride/padding
// geometry (spec 4.6), returning the number of unique source
// subscriptions created.
func (r *Region) ConnectLayersWindowed(srcName, dstName string, kh, kw, sh, sw int, padding Padding, feedback bool) (int, error) {
	src, err := r.layerByName(srcName)
	if err != nil {
		return 0, err
	}
	dst, err := r.layerByName(dstName)
	if err != nil {
		return 0, err
	}
	tw, err := NewTractWindowed(src, dst, kh, kw, sh, sw, padding, feedback)
	if err != nil {
		return 0, err
	}
	r.WindowedTracts = append(r.WindowedTracts, tw)
	return tw.UniqueSources, nil
}

// autowireNewNeuron re-applies every MeshRule/TractWindowed whose
// source is ly to the newly grown neuron at newIdx (spec 4.7
// autowiring). Called by Layer.TryGrowNeuron.
func (r *Region) autowireNewNeuron(ly *Layer, newIdx int) {
	for _, rule := range r.MeshRules {
		if rule.SourceLayer == ly && rule.Tract != nil {
			rule.Tract.AttachSourceNeuron(newIdx)
		}
	}
	for _, tw := range r.WindowedTracts {
		if tw.SourceLayer == ly {
			tw.AttachSourceNeuron(newIdx)
		}
	}
}

// BindInput ensures a scalar (1-neuron) input edge layer exists for
// port -- creating it on first use, reusing it on every later call --
// and connects it to each named attach layer with probability 1.0
// (spec 4.8). Port names are unique per direction; a port already
// bound to an edge of a different kind is a validation error.
func (r *Region) BindInput(port string, attachLayers []string) error {
	edge, err := r.ensureInputEdge(port, LayerGeneric, 0, 0, nil, 0, 0)
	if err != nil {
		return err
	}
	if err := r.connectEdgeToAttachLayers(edge, attachLayers); err != nil {
		return err
	}
	r.defaultInput = port
	return nil
}

// BindInput2D ensures an Input2D edge layer exists for port with the
// requested shape (reusing it if the shape matches, erroring if it
// doesn't) and connects it to each attach layer.
func (r *Region) BindInput2D(port string, height, width int, gain, epsilonFire float32, attachLayers []string) error {
	edge, err := r.ensureInputEdge(port, LayerInput2D, height, width, nil, gain, epsilonFire)
	if err != nil {
		return err
	}
	if err := r.connectEdgeToAttachLayers(edge, attachLayers); err != nil {
		return err
	}
	r.defaultInput = port
	return nil
}

// BindInputND is BindInput2D's N-dimensional analogue.
func (r *Region) BindInputND(port string, shape []int, gain, epsilonFire float32, attachLayers []string) error {
	edge, err := r.ensureInputEdge(port, LayerInputND, 0, 0, shape, gain, epsilonFire)
	if err != nil {
		return err
	}
	if err := r.connectEdgeToAttachLayers(edge, attachLayers); err != nil {
		return err
	}
	r.defaultInput = port
	return nil
}

// ensureInputEdge returns the edge layer already bound to port,
// validating it matches the requested kind/shape, or creates one named
// "<port>@in" of that kind on first use.
func (r *Region) ensureInputEdge(port string, kind LayerKind, height, width int, shape []int, gain, epsilonFire float32) (*Layer, error) {
	if edge, ok := r.inputPorts[port]; ok {
		if edge.Kind != kind {
			return nil, newValidationError("bindInput", fmt.Sprintf("port %q is already bound to a different layer kind", port))
		}
		switch kind {
		case LayerInput2D:
			if edge.Height != height || edge.Width != width {
				return nil, newValidationError("bindInput2D", fmt.Sprintf("port %q is already bound with shape %dx%d", port, edge.Height, edge.Width))
			}
		case LayerInputND:
			if !shapeEqual(edge.Shape, shape) {
				return nil, newValidationError("bindInputND", fmt.Sprintf("port %q is already bound with a different shape", port))
			}
		}
		return edge, nil
	}

	name := port + "@in"
	var edge *Layer
	switch kind {
	case LayerInput2D:
		edge = r.AddInputLayer2D(name, height, width, gain, epsilonFire)
	case LayerInputND:
		edge = r.AddInputLayerND(name, shape, gain, epsilonFire)
	default:
		edge = r.AddLayer(name, 1, 0, 0)
	}
	r.inputPorts[port] = edge
	return edge, nil
}

func (r *Region) connectEdgeToAttachLayers(edge *Layer, attachLayers []string) error {
	for _, name := range attachLayers {
		if _, err := r.ConnectLayers(edge.Name, name, 1.0, false); err != nil {
			return err
		}
	}
	return nil
}

func shapeEqual(a, b []int) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// BindOutput ensures port is backed by an existing Output2D layer and
// connects every named source layer to it with probability 1.0.
func (r *Region) BindOutput(port string, attachLayers []string) error {
	edge, err := r.layerByName(port)
	if err != nil {
		return err
	}
	if edge.Kind != LayerOutput2D {
		return newValidationError("bindOutput", fmt.Sprintf("layer %q is not Output2D", port))
	}
	for _, name := range attachLayers {
		if _, err := r.ConnectLayers(name, port, 1.0, false); err != nil {
			return err
		}
	}
	r.outputPorts[port] = edge
	r.defaultOutput = port
	return nil
}

// PulseInhibition/PulseModulation apply the pulse to the region bus
// and to every layer's own bus, matching spec 4.2's "a pulse issued at
// region scope is visible to every layer for exactly the next tick".
func (r *Region) PulseInhibition(f float32) {
	r.Bus.PulseInhibition(f)
	for _, ly := range r.Layers {
		ly.Bus.PulseInhibition(f)
	}
}

func (r *Region) PulseModulation(f float32) {
	r.Bus.PulseModulation(f)
	for _, ly := range r.Layers {
		ly.Bus.PulseModulation(f)
	}
}

// SetGrowthPolicy replaces the region-level growth policy.
func (r *Region) SetGrowthPolicy(p RegionGrowthPolicy) { r.GrowthPolicy = p }

// SetProximityConfig validates cfg and installs the proximity sidecar;
// pass a zero Config (Enabled: false) to remove it.
func (r *Region) SetProximityConfig(cfg proximity.Config) error {
	if !cfg.Enabled {
		r.proximityEngine = nil
		r.proximityConfig = cfg
		return nil
	}
	eng, err := proximity.NewEngine(cfg)
	if err != nil {
		return err
	}
	r.proximityEngine = eng
	r.proximityConfig = cfg
	return nil
}

// inputLayerFor resolves name to an edge layer: a bound port name
// takes priority, falling back to a direct layer name so callers who
// never bind a port can still tick a layer they added directly.
func (r *Region) inputLayerFor(name string) (*Layer, error) {
	if edge, ok := r.inputPorts[name]; ok {
		return edge, nil
	}
	return r.layerByName(name)
}

// Tick delivers value to the bound port (or layer) and runs the
// shared end-of-tick pipeline (phases C-G of spec 5).
func (r *Region) Tick(name string, value float32) (Metrics, error) {
	if name == "" {
		name = r.defaultInput
	}
	ly, err := r.inputLayerFor(name)
	if err != nil {
		return Metrics{}, err
	}
	if ly.Kind == LayerInput2D || ly.Kind == LayerOutput2D || ly.Kind == LayerInputND {
		return Metrics{}, newValidationError("Tick", fmt.Sprintf("layer %q requires its own tick variant", name))
	}
	ly.Forward(value)
	return r.finishTick(), nil
}

// TickImage delivers a row-major frame to the bound port (or layer).
func (r *Region) TickImage(name string, frame []float32) (Metrics, error) {
	if name == "" {
		name = r.defaultInput
	}
	ly, err := r.inputLayerFor(name)
	if err != nil {
		return Metrics{}, err
	}
	if err := ly.ForwardImage(frame); err != nil {
		return Metrics{}, err
	}
	return r.finishTick(), nil
}

// TickND delivers a flat tensor to the bound port (or layer).
func (r *Region) TickND(name string, flat []float64, shape []int) (Metrics, error) {
	if name == "" {
		name = r.defaultInput
	}
	ly, err := r.inputLayerFor(name)
	if err != nil {
		return Metrics{}, err
	}
	if err := ly.ForwardND(flat, shape); err != nil {
		return Metrics{}, err
	}
	return r.finishTick(), nil
}

// ReadOutput returns the bound (or named) Output2D layer's current
// frame.
func (r *Region) ReadOutput(name string) ([]float32, error) {
	if name == "" {
		name = r.defaultOutput
	}
	ly, err := r.layerByName(name)
	if err != nil {
		return nil, err
	}
	if ly.Kind != LayerOutput2D {
		return nil, newValidationError("ReadOutput", fmt.Sprintf("layer %q is not Output2D", name))
	}
	return ly.ReadFrame(), nil
}

func (r *Region) finishTick() Metrics {
	if r.proximityEngine != nil {
		r.proximityEngine.Apply(r, r.tickStep)
	}
	for _, ly := range r.Layers {
		ly.EndTick()
	}
	r.Bus.Decay()

	totalSlots, totalSynapses := accumulateStructural(r.Layers)
	m := Metrics{DeliveredEvents: 1, TotalSlots: totalSlots, TotalSynapses: totalSynapses}
	if out := r.firstOutput2D(); out != nil {
		spatial := computeSpatialMetrics(out.ReadFrame(), out.Height, out.Width)
		m.ActivePixels = spatial.ActivePixels
		m.CentroidRow, m.CentroidCol = spatial.CentroidRow, spatial.CentroidCol
		m.BBoxRowMin, m.BBoxRowMax = spatial.BBoxRowMin, spatial.BBoxRowMax
		m.BBoxColMin, m.BBoxColMax = spatial.BBoxColMin, spatial.BBoxColMax
	}

	r.tickStep++
	r.evaluateRegionGrowth(r.tickStep)
	return m
}

func (r *Region) firstOutput2D() *Layer {
	for _, ly := range r.Layers {
		if ly.Kind == LayerOutput2D {
			return ly
		}
	}
	return nil
}

// Prune drops any unfrozen slot whose current |strength| is below
// minStrength, across every neuron in the region, returning the count
// removed. Real maintenance pass (spec's supplemented "prune"
// feature), not a no-op: long-running regions otherwise accumulate one
// slot per distinct percent-delta bucket ever visited, even for
// buckets a neuron passed through once and never reinforced.
func (r *Region) Prune(minStrength float32) int {
	pruned := 0
	for _, ly := range r.Layers {
		for _, n := range ly.Neurons {
			for _, id := range n.Slots.Keys() {
				w := n.Slots.Get(id)
				if w == nil || w.Frozen {
					continue
				}
				if absF32(w.Strength) < minStrength {
					n.Slots.Delete(id)
					pruned++
				}
			}
		}
	}
	return pruned
}

// --- region-level growth (spec 4.7) ---

func (r *Region) evaluateRegionGrowth(step uint64) {
	p := r.GrowthPolicy
	if !p.Enabled {
		return
	}
	if r.hasRegionGrown && step-r.lastRegionGrowthTick < p.CooldownTicks {
		return
	}
	if p.MaximumLayers >= 0 && len(r.Layers) >= p.MaximumLayers {
		return
	}

	var bestLayer *Layer
	bestScore := float32(-1)
	for _, ly := range r.Layers {
		if ly.Kind != LayerGeneric || len(ly.Neurons) == 0 {
			continue
		}
		atCapFrac, fallbackFrac, avgSlots := layerGrowthStats(ly)
		triggered := avgSlots >= p.AvgSlotsThreshold || fallbackFrac*100 >= p.PercentAtCapFallbackThreshold
		if !triggered {
			continue
		}
		score := 0.60*atCapFrac + 0.25*minF32(1, avgSlots/maxF32(p.AvgSlotsThreshold, 1e-6)) + 0.15*fallbackFrac
		if score > bestScore {
			bestScore = score
			bestLayer = ly
		}
	}
	if bestLayer == nil {
		return
	}
	if _, err := r.requestLayerGrowth(bestLayer, p.ConnectionProbability); err != nil {
		return
	}
	r.lastRegionGrowthTick = step
	r.hasRegionGrown = true
}

// requestLayerGrowth appends a new Generic layer (default 4
// excitatory neurons) and connects best to it with the given
// probability, feedback=false. Region-level growth grows the region's
// layer count, never an existing layer's neuron count -- that is
// per-neuron growth's job (growth.go), triggered independently from
// inside Neuron.OnInput.
func (r *Region) requestLayerGrowth(best *Layer, probability float32) (*Layer, error) {
	name := r.nextGrownLayerName(best.Name)
	grown := r.AddLayer(name, 4, 0, 0)
	if _, err := r.ConnectLayers(best.Name, name, probability, false); err != nil {
		return nil, err
	}
	return grown, nil
}

func (r *Region) nextGrownLayerName(base string) string {
	for i := 1; ; i++ {
		name := fmt.Sprintf("%s_grown%d", base, i)
		if _, ok := r.layerIndex[name]; !ok {
			return name
		}
	}
}

func layerGrowthStats(ly *Layer) (atCapFrac, fallbackFrac, avgSlots float32) {
	n := len(ly.Neurons)
	if n == 0 {
		return 0, 0, 0
	}
	var atCap, fallback, totalSlots int
	for _, nr := range ly.Neurons {
		limit := nr.SlotLimit
		if limit < 0 {
			limit = nr.Engine.Config.SlotLimit
		}
		slots := nr.Slots.Len()
		totalSlots += slots
		if limit >= 0 && slots >= limit {
			atCap++
		}
		if nr.State.LastSlotUsedFallback {
			fallback++
		}
	}
	return float32(atCap) / float32(n), float32(fallback) / float32(n), float32(totalSlots) / float32(n)
}

// --- proximity.RegionHost ---

func (r *Region) LayerCount() int { return len(r.Layers) }

func (r *Region) NeuronCount(layerIndex int) int {
	if layerIndex < 0 || layerIndex >= len(r.Layers) {
		return 0
	}
	return len(r.Layers[layerIndex].Neurons)
}

func (r *Region) IsCandidateLayer(layerIndex int) bool {
	candidates := r.proximityConfig.CandidateLayers
	if len(candidates) == 0 {
		return true
	}
	for _, c := range candidates {
		if c == layerIndex {
			return true
		}
	}
	return false
}

func (r *Region) AlreadyConnected(srcLayer, srcIdx, dstLayer, dstIdx int) bool {
	return r.connected[connKey{srcLayer, srcIdx, dstLayer, dstIdx}]
}

func (r *Region) ConnectNeurons(srcLayer, srcIdx, dstLayer, dstIdx int) {
	key := connKey{srcLayer, srcIdx, dstLayer, dstIdx}
	if r.connected[key] {
		return
	}
	r.connected[key] = true
	src := r.Layers[srcLayer]
	dst := r.Layers[dstLayer]
	n := src.Neurons[srcIdx]
	idx := dstIdx
	n.FireHooks = append(n.FireHooks, func(amplitude float32) {
		dst.PropagateFrom(idx, amplitude)
	})
}

func (r *Region) RecordMeshRule(srcLayer, dstLayer int) {
	r.MeshRules = append(r.MeshRules, &MeshRule{SourceLayer: r.Layers[srcLayer], DestLayer: r.Layers[dstLayer], Probability: 1})
}
