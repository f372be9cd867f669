package bot

import (
	"math/rand"
	"time"
)

// Source yields uniform samples in [0, 1). *rand.Rand satisfies it.
type Source interface {
	Float64() float64
}

func newDefaultSource() Source {
	return rand.New(rand.NewSource(time.Now().UnixNano()))
}

// signed maps a [0, 1) sample onto [-1, 1).
func signed(src Source) float64 {
	return src.Float64()*2 - 1
}

func chance(src Source, p float64) bool {
	return src.Float64() < p
}

// jittered returns base scaled by a uniform factor in [1-pct, 1+pct).
func jittered(src Source, base, pct float64) float64 {
	return base * (1 + pct*signed(src))
}
