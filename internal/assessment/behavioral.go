package assessment

import "github.com/piyushranjan2301/ITC27/internal/catalog"

// BehavioralSelector presents the whole forced-choice pool in one random
// order. The path never changes after construction.
type BehavioralSelector struct {
	path []string
}

// NewBehavioralSelector shuffles the full pool.
func NewBehavioralSelector(cat *catalog.Catalog, rnd Randomizer) *BehavioralSelector {
	ids := cat.BehavioralIDs()
	return &BehavioralSelector{path: sample(rnd, ids, len(ids))}
}

// Path returns a copy of the path.
func (s *BehavioralSelector) Path() []string { return append([]string(nil), s.path...) }

// Len is the path length.
func (s *BehavioralSelector) Len() int { return len(s.path) }

// At returns the id at index i.
func (s *BehavioralSelector) At(i int) string { return s.path[i] }
