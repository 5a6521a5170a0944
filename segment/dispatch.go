package segment

import (
	"os"
	"strconv"
)

// DispatchLevel names the widest vector unit found at startup. Its only use
// is to bound how many mask bytes a kernel may compare per step: Best picks
// the highest-priority implementation whose Width fits CurrentWidth.
type DispatchLevel int

const (
	// DispatchScalar means no recognised vector unit: 8 lanes ("swar64"),
	// or 1 lane ("base" only) under SEGMASK_NO_SIMD.
	DispatchScalar DispatchLevel = iota

	// DispatchSSE2 admits kernels up to 16 lanes ("swar128").
	DispatchSSE2

	// DispatchAVX2 admits kernels up to 32 lanes ("swar256").
	DispatchAVX2

	// DispatchAVX512 requires AVX512BW byte compares and admits 64 lanes ("swar512").
	DispatchAVX512

	// DispatchNEON admits 16 lanes, like SSE2.
	DispatchNEON
)

// String returns a human-readable name for the dispatch level.
func (d DispatchLevel) String() string {
	switch d {
	case DispatchScalar:
		return "scalar"
	case DispatchSSE2:
		return "sse2"
	case DispatchAVX2:
		return "avx2"
	case DispatchAVX512:
		return "avx512"
	case DispatchNEON:
		return "neon"
	default:
		return "unknown"
	}
}

// Lanes returns how many mask bytes a kernel may handle per step at level d.
// DispatchScalar reports the plain word width; SEGMASK_NO_SIMD narrows the
// scalar level further to one byte.
func (d DispatchLevel) Lanes() int {
	switch d {
	case DispatchSSE2, DispatchNEON:
		return 16
	case DispatchAVX2:
		return 32
	case DispatchAVX512:
		return 64
	default:
		return wordWidth
	}
}

// setLevel records the detected level and its lane budget.
func setLevel(d DispatchLevel) {
	currentLevel = d
	currentWidth = d.Lanes()
}

// Both are set once by the per-architecture init.
var (
	currentLevel DispatchLevel
	currentWidth int // mask bytes per step
)

// CurrentLevel returns the detected instruction set class.
func CurrentLevel() DispatchLevel {
	return currentLevel
}

// CurrentWidth is the lane budget kernels are matched against: 1 with
// SEGMASK_NO_SIMD, 8 on CPUs with no recognised vector unit, else the vector
// register size in bytes.
func CurrentWidth() int {
	return currentWidth
}

// CurrentName returns the name of the detected level, e.g. "avx2".
func CurrentName() string {
	return currentLevel.String()
}

// NoSimdEnv reports whether SEGMASK_NO_SIMD asks for the reference kernels.
// Any value other than a false boolean counts.
func NoSimdEnv() bool {
	val := os.Getenv("SEGMASK_NO_SIMD")
	if val == "" {
		return false
	}
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return true
}

// setScalarMode restricts dispatch to the byte-at-a-time reference.
func setScalarMode() {
	currentLevel = DispatchScalar
	currentWidth = 1
}

// wordWidth is the width of the plain 64-bit word path.
const wordWidth = 8
