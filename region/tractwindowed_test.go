// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package region

import "testing"

func newGrid(name string, h, w int) *Layer {
	eng := NewEngine(DefaultSlotConfig())
	return NewInputLayer2D(name, eng, h, w, 1.0, WeightEPS)
}

// TestTractWindowedUniqueSources reproduces worked examples E1-E5 from
// spec section 8: regardless of kernel/stride/padding, the reported
// unique-source count is the number of distinct source pixels that
// participate in at least one window, never the raw edge count.
func TestTractWindowedUniqueSources(t *testing.T) {
	cases := []struct {
		name          string
		h, w          int
		kh, kw        int
		sh, sw        int
		padding       Padding
		wantUniqueSrc int
	}{
		{"E1_same_3x3_stride1", 4, 4, 3, 3, 1, 1, PaddingSame, 16},
		{"E2_valid_4x4_stride1", 4, 4, 4, 4, 1, 1, PaddingValid, 16},
		{"E3_valid_2x2_stride2", 4, 4, 2, 2, 2, 2, PaddingValid, 16},
		{"E4_valid_3x3_stride3", 5, 5, 3, 3, 3, 3, PaddingValid, 9},
		{"E5_same_3x3_stride3", 5, 5, 3, 3, 3, 3, PaddingSame, 25},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			src := newGrid("src", c.h, c.w)
			dst := newGrid("dst", c.h, c.w) // non-Output2D dest: allowedSources path
			tw, err := NewTractWindowed(src, dst, c.kh, c.kw, c.sh, c.sw, c.padding, false)
			if err != nil {
				t.Fatalf("NewTractWindowed: %v", err)
			}
			if tw.UniqueSources != c.wantUniqueSrc {
				t.Errorf("UniqueSources = %d, want %d", tw.UniqueSources, c.wantUniqueSrc)
			}
		})
	}
}

// TestTractWindowedOutput2DDedupedEdges checks that an Output2D
// destination produces deduplicated (source, center) edges: the same
// pair is never recorded twice even though E1's overlapping 3x3/stride1
// windows revisit many pixels from multiple origins.
func TestTractWindowedOutput2DDedupedEdges(t *testing.T) {
	eng := NewEngine(DefaultSlotConfig())
	src := NewInputLayer2D("src", eng, 4, 4, 1.0, WeightEPS)
	dst := NewOutputLayer2D("dst", eng, 4, 4, 0.3)
	tw, err := NewTractWindowed(src, dst, 3, 3, 1, 1, PaddingSame, false)
	if err != nil {
		t.Fatalf("NewTractWindowed: %v", err)
	}
	if tw.UniqueSources != 16 {
		t.Errorf("UniqueSources = %d, want 16", tw.UniqueSources)
	}
	seen := make(map[windowEdge]bool)
	for _, e := range tw.edges {
		if seen[e] {
			t.Fatalf("duplicate edge %+v", e)
		}
		seen[e] = true
	}
}

func TestTractWindowedRejectsNonPositiveKernel(t *testing.T) {
	src := newGrid("src", 4, 4)
	dst := newGrid("dst", 4, 4)
	if _, err := NewTractWindowed(src, dst, 0, 3, 1, 1, PaddingValid, false); err == nil {
		t.Error("expected error for zero kernel height")
	}
}
