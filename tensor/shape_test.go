package tensor

import "testing"

func TestShapeLenAndOffset(t *testing.T) {
	sh := NewShape([]int{2, 3, 4})
	if sh.Len() != 24 {
		t.Fatalf("Len() = %d, want 24", sh.Len())
	}
	off := sh.Offset([]int{1, 2, 3})
	if off != 1*12+2*4+3 {
		t.Fatalf("Offset = %d, want %d", off, 1*12+2*4+3)
	}
}

func TestValidate(t *testing.T) {
	if err := Validate([]int{2, 2}, make([]float64, 4)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := Validate([]int{2, 2}, make([]float64, 3)); err == nil {
		t.Fatalf("expected shape mismatch error")
	}
}

func TestEqual(t *testing.T) {
	if !Equal([]int{1, 2}, []int{1, 2}) {
		t.Fatalf("expected equal shapes")
	}
	if Equal([]int{1, 2}, []int{1, 3}) {
		t.Fatalf("expected unequal shapes")
	}
}
