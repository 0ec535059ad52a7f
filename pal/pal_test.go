package pal

import (
	"testing"

	"github.com/nectario/grownet-go/rng"
)

func TestSumOrderedDeterministicAcrossWorkers(t *testing.T) {
	const n = 10000
	kernel := func(i int) float64 {
		return rng.CounterRNG(1234, 0, rng.DrawNoise, 0, 0, uint64(i))
	}

	one := SumOrdered(IntRange(n), kernel, Options{MaxWorkers: 1})
	eight := SumOrdered(IntRange(n), kernel, Options{MaxWorkers: 8})

	if one != eight {
		t.Fatalf("ordered sum not deterministic across worker counts: %v != %v", one, eight)
	}
}

func TestParallelForVisitsEveryIndex(t *testing.T) {
	const n = 257
	var mu chan int = make(chan int, n)
	ParallelFor(IntRange(n), func(i int) { mu <- i }, Options{MaxWorkers: 4})
	close(mu)
	seen := make([]bool, n)
	for i := range mu {
		seen[i] = true
	}
	for i, ok := range seen {
		if !ok {
			t.Fatalf("index %d never visited", i)
		}
	}
}

func TestReducePairwiseTreeDeterministic(t *testing.T) {
	const n = 513
	kernel := func(i int) float64 {
		return rng.CounterRNG(99, 3, rng.DrawNoise, 1, 2, uint64(i))
	}
	a := Reduce(IntRange(n), kernel, Options{Reduction: PairwiseTree, MaxWorkers: 2})
	b := Reduce(IntRange(n), kernel, Options{Reduction: PairwiseTree, MaxWorkers: 7})
	if a != b {
		t.Fatalf("pairwise tree reduction not deterministic: %v != %v", a, b)
	}
}
