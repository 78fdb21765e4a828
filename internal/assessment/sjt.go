package assessment

import "github.com/piyushranjan2301/ITC27/internal/catalog"

const (
	// SJTInitial is the number of Basic items the path starts with.
	SJTInitial = 10
	// SJTTarget caps the path length.
	SJTTarget = 15
	// SJTAdvancedDepth is the depth score at which Advanced items are drawn.
	SJTAdvancedDepth = 2
)

// StepDepth applies one answered alignment to the running depth score.
func StepDepth(depth int, alignment string) int {
	switch alignment {
	case catalog.AlignHighInitiative, catalog.AlignStrategic:
		return depth + 1
	case catalog.AlignRiskAverse:
		if depth > 0 {
			return depth - 1
		}
		return 0
	}
	return depth
}

// SJTSelector grows the situational path one item at a time.
type SJTSelector struct {
	cat   *catalog.Catalog
	rnd   Randomizer
	path  []string
	depth int
}

// NewSJTSelector samples the initial Basic items.
func NewSJTSelector(cat *catalog.Catalog, rnd Randomizer) *SJTSelector {
	return &SJTSelector{
		cat:  cat,
		rnd:  rnd,
		path: sample(rnd, cat.SituationalOf(catalog.ComplexityBasic), SJTInitial),
	}
}

// Path returns a copy of the path.
func (s *SJTSelector) Path() []string { return append([]string(nil), s.path...) }

// Len is the current path length.
func (s *SJTSelector) Len() int { return len(s.path) }

// At returns the id at index i.
func (s *SJTSelector) At(i int) string { return s.path[i] }

// Depth is the running depth score.
func (s *SJTSelector) Depth() int { return s.depth }

// Next is called when the respondent moves forward from index. It updates
// the depth score from the answer at index and, while the path is below
// SJTTarget, inserts one unused item right after index.
func (s *SJTSelector) Next(index int, answers map[string]catalog.Option) {
	if index < 0 || index >= len(s.path) {
		return
	}
	if item, ok := s.cat.SituationalByID(s.path[index]); ok {
		if choice, ok := item.Options[answers[s.path[index]]]; ok {
			s.depth = StepDepth(s.depth, choice.Alignment)
		}
	}
	if len(s.path) >= SJTTarget {
		return
	}

	var pick string
	if s.depth >= SJTAdvancedDepth {
		pick = pickOne(s.rnd, unused(s.cat.SituationalOf(catalog.ComplexityAdvanced), s.path))
	}
	if pick == "" {
		pick = pickOne(s.rnd, unused(s.cat.SituationalOf(catalog.ComplexityBasic), s.path))
	}
	if pick == "" {
		return
	}
	s.path = append(s.path[:index+1], append([]string{pick}, s.path[index+1:]...)...)
}
