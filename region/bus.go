// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package region

// InhibitionDecayFactor and the modulation reset value implement the
// bus decay semantics spec section 4.2 and 9 leave as an open
// question between a multiplicative relax and a hard reset: this
// engine resets modulation to neutral and multiplicatively relaxes
// inhibition, matching worked example E6 exactly
// (modulation 1.5 -> 1.0, inhibition 0.7 -> 0.63).
const (
	InhibitionDecayFactor = 0.9
	NeutralModulation     = 1.0
	NeutralInhibition     = 0.0
)

// Bus is the per-layer (LateralBus) or per-region (RegionBus) carrier
// of transient inhibition/modulation factors and a monotonic step
// counter. The same type backs both roles, as permitted by spec 4.2 --
// Region.bus is a Bus, and every Layer owns its own Bus.
type Bus struct {
	InhibitionFactor float32
	ModulationFactor float32
	Step             uint64
}

// NewBus returns a Bus with both factors at their neutral values.
func NewBus() *Bus {
	return &Bus{ModulationFactor: NeutralModulation, InhibitionFactor: NeutralInhibition}
}

// Decay advances the step counter and relaxes both factors back to
// neutral: modulation resets to 1.0, inhibition multiplicatively
// decays toward 0 by InhibitionDecayFactor. Called once per tick, after
// all neurons have been given a chance to read the factors a pulse set
// for that tick.
func (b *Bus) Decay() {
	b.Step++
	b.ModulationFactor = NeutralModulation
	b.InhibitionFactor *= InhibitionDecayFactor
}

// PulseInhibition sets the inhibition factor for the next tick; the
// following Decay scales it by InhibitionDecayFactor rather than
// resetting it to neutral.
func (b *Bus) PulseInhibition(f float32) {
	b.InhibitionFactor = f
}

// PulseModulation sets the modulation factor for exactly the next
// tick.
func (b *Bus) PulseModulation(f float32) {
	b.ModulationFactor = f
}
