package assessment

import (
	"math/rand"
	"time"
)

// Randomizer is the source of every random draw a session makes. *rand.Rand
// satisfies it; tests inject a deterministic implementation.
type Randomizer interface {
	Shuffle(n int, swap func(i, j int))
	Intn(n int) int
}

// NewRandomizer returns a seeded source. A zero seed uses the current time.
func NewRandomizer(seed int64) Randomizer {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewSource(seed))
}

// sample returns up to n ids drawn uniformly without replacement, in random
// order. ids is not modified.
func sample(rnd Randomizer, ids []string, n int) []string {
	pool := append([]string(nil), ids...)
	rnd.Shuffle(len(pool), func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	if n < len(pool) {
		pool = pool[:n]
	}
	return pool
}

// pickOne draws a single id uniformly, or "" when ids is empty.
func pickOne(rnd Randomizer, ids []string) string {
	if len(ids) == 0 {
		return ""
	}
	return ids[rnd.Intn(len(ids))]
}

// unused filters out ids already present in path.
func unused(ids, path []string) []string {
	seen := make(map[string]bool, len(path))
	for _, id := range path {
		seen[id] = true
	}
	var out []string
	for _, id := range ids {
		if !seen[id] {
			out = append(out, id)
		}
	}
	return out
}
