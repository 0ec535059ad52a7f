// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package region

import "github.com/chewxy/math32"

// smoothClamp saturates v to [lo, hi], monotonically -- used by
// Weight.Reinforce to keep strength in [-1,1]. It is a hard clamp, so
// its derivative is discontinuous at the bounds.
func smoothClamp(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func maxF32(a, b float32) float32 {
	if a > b {
		return a
	}
	return b
}

func minF32(a, b float32) float32 {
	if a < b {
		return a
	}
	return b
}

func absF32(v float32) float32 {
	return math32.Abs(v)
}
