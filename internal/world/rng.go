package world

import (
	"hash/fnv"
	"math/rand"
)

// NewRNG derives a deterministic random stream from a string seed and a
// subsystem label, so spawn placement, shop rolls, and AI jitter each consume
// an independent stream and stay reproducible for a given seed.
func NewRNG(seed, label string) *rand.Rand {
	h := fnv.New64a()
	h.Write([]byte(seed))
	h.Write([]byte{0})
	h.Write([]byte(label))
	return rand.New(rand.NewSource(int64(h.Sum64())))
}
