// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package region

// evaluateGrowth implements spec 4.7's per-neuron growth trigger. It
// runs at the tail of every generic onInput call and, on success,
// calls back into the owning layer to append a sibling neuron -- which
// the Region then autowires to match the layer's mesh rules and
// tracts.
func (n *Neuron) evaluateGrowth(desiredID int, usedFallback, atCapacity bool) {
	cfg := n.Engine.Config
	if !cfg.GrowthEnabled || !cfg.NeuronGrowthEnabled {
		return
	}
	if !(atCapacity && usedFallback) {
		return
	}

	if cfg.MinDeltaPctForGrowth > 0 && n.State.LastMaxAxisDeltaPct < cfg.MinDeltaPctForGrowth {
		n.State.FallbackStreak = 0
		return
	}

	if cfg.FallbackGrowthRequiresSameMissingSlot {
		if n.State.PrevMissingSlotID == n.State.LastMissingSlotID && n.State.FallbackStreak > 0 {
			n.State.FallbackStreak++
		} else {
			n.State.FallbackStreak = 1
			n.State.PrevMissingSlotID = n.State.LastMissingSlotID
		}
	} else {
		n.State.FallbackStreak++
	}

	if n.Bus.Step-n.State.LastGrowthTick < cfg.NeuronGrowthCooldownTicks {
		return
	}
	if n.State.FallbackStreak < cfg.FallbackGrowthThreshold {
		return
	}

	if n.Owner == nil {
		return
	}
	newIdx := n.Owner.TryGrowNeuron(n)
	if newIdx < 0 {
		// Host refused (e.g. layer at its own neuron limit): a
		// transient, best-effort failure per spec 7 -- swallow it and
		// reset the streak rather than aborting the tick.
		n.State.FallbackStreak = 0
		return
	}
	n.State.LastGrowthTick = n.Bus.Step
	n.State.FallbackStreak = 0
}
