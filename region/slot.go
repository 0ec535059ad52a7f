// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package region

import (
	"github.com/chewxy/math32"
	"goki.dev/ordmap"
)

// AnchorMode selects how a neuron's slot-selection anchor is set.
// FIRST is the only mode spec section 4.3 requires.
type AnchorMode int

const (
	AnchorFirst AnchorMode = iota
)

// SlotConfig is the per-region (or per-neuron-overridable) tuning for
// the slot engine: capacity, bin width, anchor mode, and the growth
// gates spec section 4.7 says live "on the slot config".
type SlotConfig struct {
	// SlotLimit bounds the number of slots a neuron may hold; <0 means
	// unlimited. The effective limit is the larger of this value and
	// the neuron's own SlotLimit (spec 4.3 step 4).
	SlotLimit int `desc:"max slots per neuron, -1 for unlimited"`
	// BinWidthPct is the minimum percent-delta bucket width; spec
	// requires max(binWidthPct, 0.1) when computing desiredId.
	BinWidthPct float32 `desc:"percent-delta width of one slot bin"`
	// EpsilonScale floors the anchor magnitude used in the percent
	// delta denominator, avoiding divide-by-(near)zero anchors.
	EpsilonScale float32 `desc:"floor for |anchor| in percent-delta calc"`
	AnchorMode   AnchorMode

	GrowthEnabled                         bool    `desc:"master growth switch"`
	NeuronGrowthEnabled                   bool    `desc:"per-neuron growth switch"`
	MinDeltaPctForGrowth                  float32 `desc:"0 disables the min-delta gate"`
	FallbackGrowthRequiresSameMissingSlot bool
	FallbackGrowthThreshold               int    `desc:"consecutive-fallback streak required to grow"`
	NeuronGrowthCooldownTicks             uint64 `desc:"ticks required between growth attempts on one neuron"`
}

// DefaultSlotConfig returns sane defaults matching the worked examples
// in spec section 8 (E7 uses SlotLimit=1 explicitly; everything else
// here is a reasonable tuning default, not part of the contract).
func DefaultSlotConfig() SlotConfig {
	return SlotConfig{
		SlotLimit:                 -1,
		BinWidthPct:               10,
		EpsilonScale:              1e-6,
		AnchorMode:                AnchorFirst,
		GrowthEnabled:             true,
		NeuronGrowthEnabled:       true,
		FallbackGrowthThreshold:   3,
		NeuronGrowthCooldownTicks: 0,
	}
}

// SlotState is the per-neuron bookkeeping the slot engine reads and
// updates: anchors, last-selection outcome, and the fallback-streak
// fields growth evaluation consumes (spec's Neuron "growth
// bookkeeping" row).
type SlotState struct {
	AnchorSet bool
	Anchor    float32

	AnchorRowSet bool
	AnchorRow    float32
	AnchorColSet bool
	AnchorCol    float32

	LastSlotID           int
	LastSlotUsedFallback bool
	FallbackStreak       int
	PrevMissingSlotID    int
	LastMissingSlotID    int
	LastMaxAxisDeltaPct  float32
	LastGrowthTick       uint64
	PreferLastSlotOnce   bool
}

// SlotMap is the ordered id->Weight map a Neuron owns. Backed by
// goki.dev/ordmap (the same ordered-map library netparams/params use)
// so that metrics aggregation and tests get reproducible iteration
// order without a side-channel sorted-keys slice.
type SlotMap struct {
	om ordmap.Map[int, *Weight]
}

// NewSlotMap returns an empty slot map.
func NewSlotMap() *SlotMap {
	return &SlotMap{}
}

// Len returns the number of slots currently held.
func (sm *SlotMap) Len() int { return sm.om.Len() }

// Get returns the slot at id, or nil if absent.
func (sm *SlotMap) Get(id int) *Weight {
	w, ok := sm.om.ValByKeyTry(id)
	if !ok {
		return nil
	}
	return w
}

// Set inserts or overwrites the slot at id.
func (sm *SlotMap) Set(id int, w *Weight) {
	sm.om.Add(id, w)
}

// Keys returns the slot ids in insertion order.
func (sm *SlotMap) Keys() []int {
	return sm.om.Keys()
}

// Delete removes the slot at id, if present. ordmap.Map has no public
// delete, so this rebuilds the map without that key.
func (sm *SlotMap) Delete(id int) {
	keys := sm.om.Keys()
	var rebuilt ordmap.Map[int, *Weight]
	for _, k := range keys {
		if k == id {
			continue
		}
		if w, ok := sm.om.ValByKeyTry(k); ok {
			rebuilt.Add(k, w)
		}
	}
	sm.om = rebuilt
}

// LowestKey returns the smallest slot id currently present, and
// whether the map is non-empty. Used as the deterministic tie-break
// when capacity is reached and the map is non-empty (spec 4.3 step 6,
// spec 9's open question: "lowest key vs insertion-order-first" --
// this engine picks lowest key).
func (sm *SlotMap) LowestKey() (int, bool) {
	keys := sm.om.Keys()
	if len(keys) == 0 {
		return 0, false
	}
	lowest := keys[0]
	for _, k := range keys[1:] {
		if k < lowest {
			lowest = k
		}
	}
	return lowest, true
}

// Engine selects or creates slots for neuron input, scalar or 2D,
// enforcing capacity with a deterministic fallback. Grounded on
// original_source/src/cpp/SlotEngine.cpp's percent-delta binning.
type Engine struct {
	Config SlotConfig
}

// NewEngine returns a slot Engine for the given config.
func NewEngine(cfg SlotConfig) *Engine {
	return &Engine{Config: cfg}
}

func (e *Engine) effectiveLimit(neuronLimit int) int {
	limit := neuronLimit
	if limit < e.Config.SlotLimit {
		limit = e.Config.SlotLimit
	}
	return limit
}

func binWidth(w float32) float32 {
	if w > 0.1 {
		return w
	}
	return 0.1
}

// SelectOrCreateScalar implements spec 4.3's scalar path. neuronLimit
// is the owning neuron's own SlotLimit (-1 if unset); slots is that
// neuron's slot map; state is that neuron's SlotState.
func (e *Engine) SelectOrCreateScalar(state *SlotState, slots *SlotMap, neuronLimit int, x float32) (w *Weight, id int, usedFallback bool, atCapacity bool) {
	if e.Config.AnchorMode == AnchorFirst && !state.AnchorSet {
		state.Anchor = x
		state.AnchorSet = true
	}
	denom := maxF32(absF32(state.Anchor), e.Config.EpsilonScale)
	deltaPct := absF32(x-state.Anchor) / denom * 100
	desiredID := int(math32.Floor(deltaPct / binWidth(e.Config.BinWidthPct)))

	return e.selectOrCreate(state, slots, neuronLimit, desiredID, deltaPct)
}

// SelectOrCreateSpatial implements spec 4.3's 2D path: independent
// percent-deltas for row and col, packed into one composite key.
func (e *Engine) SelectOrCreateSpatial(state *SlotState, slots *SlotMap, neuronLimit int, row, col float32) (w *Weight, id int, usedFallback bool, atCapacity bool) {
	if e.Config.AnchorMode == AnchorFirst && !state.AnchorRowSet {
		state.AnchorRow = row
		state.AnchorRowSet = true
	}
	if e.Config.AnchorMode == AnchorFirst && !state.AnchorColSet {
		state.AnchorCol = col
		state.AnchorColSet = true
	}
	rowDenom := maxF32(absF32(state.AnchorRow), e.Config.EpsilonScale)
	colDenom := maxF32(absF32(state.AnchorCol), e.Config.EpsilonScale)
	rowDeltaPct := absF32(row-state.AnchorRow) / rowDenom * 100
	colDeltaPct := absF32(col-state.AnchorCol) / colDenom * 100

	rowBin := int(math32.Floor(rowDeltaPct / binWidth(e.Config.BinWidthPct)))
	colBin := int(math32.Floor(colDeltaPct / binWidth(e.Config.BinWidthPct)))

	// Composite key: a fixed constant K large enough that row/col bins
	// never collide for any bin count we realistically hit (spec 4.3:
	// "K is a fixed implementation constant large enough to avoid
	// collisions").
	const spatialKeyStride = 1 << 16
	desiredID := rowBin*spatialKeyStride + colBin

	maxDelta := maxF32(rowDeltaPct, colDeltaPct)
	return e.selectOrCreate(state, slots, neuronLimit, desiredID, maxDelta)
}

func (e *Engine) selectOrCreate(state *SlotState, slots *SlotMap, neuronLimit int, desiredID int, deltaPct float32) (*Weight, int, bool, bool) {
	limit := e.effectiveLimit(neuronLimit)

	// One-shot reuse takes priority over everything else (spec 4.3 step 7).
	if state.PreferLastSlotOnce {
		state.PreferLastSlotOnce = false
		if w := slots.Get(state.LastSlotID); w != nil {
			e.recordSelection(state, state.LastSlotID, false, deltaPct)
			return w, state.LastSlotID, false, limit >= 0 && slots.Len() >= limit
		}
	}

	atCapacity := limit >= 0 && slots.Len() >= limit
	outOfDomain := limit >= 0 && desiredID >= limit
	_, wantNew := lookupMiss(slots, desiredID)

	useFallback := outOfDomain || (atCapacity && wantNew)

	if !useFallback {
		if w := slots.Get(desiredID); w != nil {
			e.recordSelection(state, desiredID, false, deltaPct)
			return w, desiredID, false, atCapacity
		}
		w := NewWeight()
		slots.Set(desiredID, w)
		e.recordSelection(state, desiredID, false, deltaPct)
		return w, desiredID, false, atCapacity
	}

	fallbackID := limit - 1
	if fallbackID < 0 {
		fallbackID = 0
	}
	if slots.Len() == 0 || (!atCapacity && slots.Get(fallbackID) == nil) {
		w := NewWeight()
		slots.Set(fallbackID, w)
		e.recordFallback(state, fallbackID, desiredID, deltaPct)
		return w, fallbackID, true, atCapacity
	}
	if w := slots.Get(fallbackID); w != nil {
		e.recordFallback(state, fallbackID, desiredID, deltaPct)
		return w, fallbackID, true, atCapacity
	}
	// at capacity, non-empty, chosen id absent: reuse the
	// deterministic lowest-key slot (spec 9 open question).
	lowest, _ := slots.LowestKey()
	w := slots.Get(lowest)
	e.recordFallback(state, lowest, desiredID, deltaPct)
	return w, lowest, true, atCapacity
}

func lookupMiss(slots *SlotMap, id int) (*Weight, bool) {
	w := slots.Get(id)
	return w, w == nil
}

func (e *Engine) recordSelection(state *SlotState, id int, fallback bool, deltaPct float32) {
	state.LastSlotID = id
	state.LastSlotUsedFallback = fallback
	if !fallback {
		state.FallbackStreak = 0
		state.PrevMissingSlotID = 0
		state.LastMissingSlotID = 0
	}
}

func (e *Engine) recordFallback(state *SlotState, chosenID, desiredID int, deltaPct float32) {
	state.LastSlotID = chosenID
	state.LastSlotUsedFallback = true
	state.LastMissingSlotID = desiredID
	state.LastMaxAxisDeltaPct = deltaPct
}
