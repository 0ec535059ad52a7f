package rng

// DrawKind tags what a counter-based draw is used for, so that two
// kernels drawing on the same (seed, step, layer, unit) never collide.
type DrawKind uint32

const (
	DrawNoise DrawKind = iota
	DrawProximityAccept
	DrawSlotFallback
	DrawMeshWiring
)

// splitmix64 constants, part of the PAL determinism contract (spec
// section 4.10): the same three odd 64-bit constants used by the
// reference splitmix64 generator.
const (
	mix1 = 0x9E3779B97F4A7C15
	mix2 = 0xBF58476D1CE4E5B9
	mix3 = 0x94D049BB133111EB
)

func mix64(x uint64) uint64 {
	x += mix1
	x = (x ^ (x >> 30)) * mix2
	x = (x ^ (x >> 27)) * mix3
	x = x ^ (x >> 31)
	return x
}

// CounterRNG returns a deterministic uniform float64 in [0,1) for the
// tuple (seed, step, drawKind, layer, unit, drawIndex). Because it is
// a pure function of its inputs rather than a stream advanced by call
// order, it produces bit-identical draws regardless of how many PAL
// workers are used or in what order they happen to run -- the
// determinism invariant PAL.ParallelFor/ParallelMap rely on.
func CounterRNG(seed int64, step uint64, kind DrawKind, layer, unit int32, drawIndex uint64) float64 {
	h := uint64(seed)
	h = mix64(h ^ step)
	h = mix64(h ^ uint64(kind))
	h = mix64(h ^ (uint64(uint32(layer)) << 32))
	h = mix64(h ^ uint64(uint32(unit)))
	h = mix64(h ^ drawIndex)
	// top 53 bits -> float64 in [0,1), same trick math/rand uses.
	return float64(h>>11) / (1 << 53)
}
