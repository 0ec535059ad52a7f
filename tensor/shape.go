// Copyright (c) 2019, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tensor carries the shape bookkeeping an N-D input edge layer
// needs: computing total element count from a shape, validating a flat
// buffer against it, and turning an n-dimensional index into the flat
// offset. Adapted from emergent's etensor.Shape (itself adapted from
// apache/arrow/go/tensor), trimmed to the row-major case the region's
// InputND edge actually uses.
package tensor

import "fmt"

// Shape manages an N-D tensor's shape and row-major strides.
type Shape struct {
	dims    []int
	strides []int
}

// NewShape builds a Shape from the given per-dimension sizes.
func NewShape(dims []int) *Shape {
	sh := &Shape{dims: append([]int(nil), dims...)}
	sh.strides = rowMajorStrides(sh.dims)
	return sh
}

func rowMajorStrides(dims []int) []int {
	strides := make([]int, len(dims))
	rem := 1
	for i := len(dims) - 1; i >= 0; i-- {
		strides[i] = rem
		rem *= dims[i]
	}
	return strides
}

// Dims returns the per-dimension sizes.
func (sh *Shape) Dims() []int { return sh.dims }

// NumDims returns the number of dimensions.
func (sh *Shape) NumDims() int { return len(sh.dims) }

// Len returns the total number of elements (product of dims).
func (sh *Shape) Len() int {
	n := 1
	for _, d := range sh.dims {
		n *= d
	}
	return n
}

// Offset returns the flat row-major offset for an n-dimensional index.
// No bounds checking is performed on the individual index components.
func (sh *Shape) Offset(index []int) int {
	off := 0
	for i, v := range index {
		off += v * sh.strides[i]
	}
	return off
}

// Equal reports whether two shapes have identical dimension sizes.
func Equal(a, b []int) bool {
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

// Validate checks that flat has exactly as many elements as shape
// describes. Used by InputND.forwardND before distributing values to
// neurons one-per-element.
func Validate(shape []int, flat []float64) error {
	sh := NewShape(shape)
	if sh.Len() != len(flat) {
		return fmt.Errorf("tensor: shape %v wants %d elements, got %d", shape, sh.Len(), len(flat))
	}
	return nil
}
