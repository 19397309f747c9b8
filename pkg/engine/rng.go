package engine

import (
	"hash/fnv"
	"math/rand"
)

// RNG is the engine's deterministic source of randomness. Every draw used by
// rules (combat dice, AI move shuffling) must come from here so that a given
// rngSeed always reproduces the same sequence of outcomes, platform
// notwithstanding. Never read from math/rand's global source directly
// outside this file.
type RNG struct {
	r     *rand.Rand
	label string
}

// NewRNG derives a deterministic RNG from a seed string. The same seed
// always yields the same sequence of draws.
func NewRNG(seed string) *RNG {
	return &RNG{r: rand.New(rand.NewSource(seedToInt64(seed))), label: seed}
}

func seedToInt64(seed string) int64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(seed))
	return int64(h.Sum64())
}

// RollDice returns a uniform value in [1, sides].
func (g *RNG) RollDice(sides int) int {
	return g.r.Intn(sides) + 1
}

// Intn returns a uniform value in [0, n).
func (g *RNG) Intn(n int) int {
	if n <= 0 {
		return 0
	}
	return g.r.Intn(n)
}

// Float64 returns a uniform value in [0, 1).
func (g *RNG) Float64() float64 {
	return g.r.Float64()
}

// Shuffle randomizes the order of a slice of length n in place.
func (g *RNG) Shuffle(n int, swap func(i, j int)) {
	g.r.Shuffle(n, swap)
}

// Fork derives a new, independent RNG from this one and a path label.
// AI search forks once per ply it expands, labeled by the player to move
// and the turn number or remaining depth. Fork never draws from g itself,
// so the child depends only on g's own label and path,
// never on how many draws g has made or in what order sibling branches
// were forked.
func (g *RNG) Fork(path string) *RNG {
	return NewRNG(g.label + "|" + path)
}
