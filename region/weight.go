// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package region

// Constants required by the weight contract (spec section 4.1).
const (
	WeightEPS           = 0.02
	WeightBETA          = 0.01
	WeightETA           = 0.02
	WeightRStar         = 0.05
	HitSaturation       = 10000
	DefaultStepValue    = 0.001
)

// Weight is a single slot's learning state: strength, adaptive
// threshold, firing-rate EMA, and a frozen flag. Grounded on
// leabra.Neuron's Act/ActAvg/AvgL family of per-unit learning
// variables, trimmed to the scalar threshold-learning rule this
// engine's slots use instead of leabra's XCAL learning rule.
type Weight struct {
	Strength  float32
	Theta     float32
	EMARate   float32
	HitCount  int
	FirstSeen bool
	Frozen    bool

	// StepValue scales each reinforcement step; configurable per
	// Weight so growth-created slots can inherit a different rate,
	// but defaults to DefaultStepValue.
	StepValue float32
}

// NewWeight returns a freshly created, unseen Weight.
func NewWeight() *Weight {
	return &Weight{StepValue: DefaultStepValue}
}

// Reinforce nudges strength toward saturation by stepValue*modulation,
// scaled by the bus's modulation factor. A no-op when frozen or once
// hitCount has saturated.
func (w *Weight) Reinforce(modulationFactor float32) {
	if w.Frozen {
		return
	}
	if w.HitCount < HitSaturation {
		w.Strength = smoothClamp(w.Strength+w.StepValue*modulationFactor, -1, 1)
		w.HitCount++
	}
}

// UpdateThreshold applies the adaptive-threshold rule for input x and
// returns whether the slot fired. On first observation theta is
// imprinted from |x| regardless of x's sign; afterward theta drifts
// toward the target firing rate WeightRStar via an EMA of recent
// firing. Frozen slots skip all updates but still report whether they
// would have fired, per spec 4.1.
func (w *Weight) UpdateThreshold(x float32) bool {
	return w.UpdateThresholdWithEPS(x, WeightEPS)
}

// UpdateThresholdWithEPS is UpdateThreshold with a caller-supplied
// first-seen imprint epsilon. Input neurons use their own epsilonFire
// instead of the slot-engine's fixed WeightEPS (spec 4.4).
func (w *Weight) UpdateThresholdWithEPS(x, eps float32) bool {
	if w.Frozen {
		return absF32(x) > w.Theta || w.Strength > w.Theta
	}
	if !w.FirstSeen {
		w.Theta = absF32(x) * (1 + eps)
		w.FirstSeen = true
	}
	fired := w.Strength > w.Theta
	hit := float32(0)
	if fired {
		hit = 1
	}
	w.EMARate = (1-WeightBETA)*w.EMARate + WeightBETA*hit
	w.Theta = w.Theta + WeightETA*(w.EMARate-WeightRStar)
	return fired
}
