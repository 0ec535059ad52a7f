// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package region

import (
	"fmt"

	"goki.dev/grr"
)

// ValidationError reports a malformed tick input: wrong frame size,
// shape mismatch, or an operation called on the wrong layer kind
// (spec 7 "Error Handling Design").
type ValidationError struct {
	Op  string
	Msg string
}

func (e *ValidationError) Error() string { return fmt.Sprintf("region: %s: %s", e.Op, e.Msg) }

func newValidationError(op, msg string) error {
	return grr.Log(&ValidationError{Op: op, Msg: msg})
}

// ConfigError reports a rejected construction-time configuration: a
// non-positive kernel/stride for a windowed tract. Proximity sidecar
// configs are rejected with proximity.ConfigError instead, and
// SetGrowthPolicy performs no validation.
type ConfigError struct {
	Op  string
	Msg string
}

func (e *ConfigError) Error() string { return fmt.Sprintf("region: %s: %s", e.Op, e.Msg) }

func newConfigError(op, msg string) error {
	return grr.Log(&ConfigError{Op: op, Msg: msg})
}

var errInvalidKernel = &ConfigError{Op: "NewTractWindowed", Msg: "kernel and stride must be positive"}
