// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package proximity

import "github.com/nectario/grownet-go/rng"

// Function selects how distance is converted into a connection-accept
// probability.
type Function int

const (
	// Step accepts deterministically: connect iff dist <= radius.
	Step Function = iota
	// Linear accepts with probability max(0, 1-(dist/radius))^Gamma.
	Linear
	// Logistic accepts with probability sigmoid(Steepness*(radius-dist)).
	Logistic
)

// Config is the sidecar's per-region tuning: spec 4.9 and section 6's
// "reject a probabilistic function without a seeded RNG" requirement.
type Config struct {
	Enabled bool
	Radius  float32
	Func    Function

	// Gamma shapes Linear's falloff; Steepness shapes Logistic's.
	Gamma     float32
	Steepness float32

	PerTickBudget int
	CooldownTicks uint64

	// DevWindowStart/End bound the ticks during which the sidecar may
	// run at all; End == 0 means "no upper bound".
	DevWindowStart uint64
	DevWindowEnd   uint64

	CandidateLayers          []int
	RecordMeshRuleCrossLayer bool

	RNG rng.Source
}

// Validate enforces spec 6's sidecar precondition: a probabilistic
// function requires a seeded RNG, since an unseeded one would make
// connectivity irreproducible from run to run.
func (c Config) Validate() error {
	if c.Enabled && c.Func != Step && c.RNG == nil {
		return &ConfigError{Msg: "proximity: Linear/Logistic function requires a seeded RNG source"}
	}
	if c.Enabled && c.Radius <= 0 {
		return &ConfigError{Msg: "proximity: radius must be positive"}
	}
	return nil
}

// ConfigError reports a rejected sidecar configuration.
type ConfigError struct{ Msg string }

func (e *ConfigError) Error() string { return e.Msg }
