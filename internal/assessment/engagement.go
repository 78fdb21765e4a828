package assessment

import "github.com/piyushranjan2301/ITC27/internal/catalog"

const (
	// EngagementStageOne is the number of Standard items sampled up front.
	EngagementStageOne = 8
	// EngagementStageTwo is the most items appended after classification.
	EngagementStageTwo = 7
	// EngagementDisplayTotal is the progress denominator shown to the
	// respondent. It stays fixed even when stage two yields fewer items.
	EngagementDisplayTotal = EngagementStageOne + EngagementStageTwo
)

// Mode is the presentation label that accompanies a classification.
type Mode string

const (
	ModeLeadership  Mode = "Leadership"
	ModeSupport     Mode = "Support"
	ModeOperational Mode = "Operational"
)

// Classify maps the stage-one Likert values to the tag of the stage-two pool.
func Classify(values []int) (catalog.AdaptiveTag, Mode) {
	if len(values) == 0 {
		return catalog.TagStandard, ModeOperational
	}
	var sum, high, low int
	for _, v := range values {
		sum += v
		if v >= 4 {
			high++
		}
		if v <= 2 {
			low++
		}
	}
	mean := float64(sum) / float64(len(values))
	switch {
	case mean >= 3.8 && high >= 4:
		return catalog.TagHighEngagement, ModeLeadership
	case low >= 3 || mean <= 2.8:
		return catalog.TagLowEngagement, ModeSupport
	default:
		return catalog.TagStandard, ModeOperational
	}
}

// EngagementSelector builds the two-stage engagement path.
type EngagementSelector struct {
	cat        *catalog.Catalog
	rnd        Randomizer
	path       []string
	classified bool
	tag        catalog.AdaptiveTag
	mode       Mode
}

// NewEngagementSelector samples the stage-one items.
func NewEngagementSelector(cat *catalog.Catalog, rnd Randomizer) *EngagementSelector {
	return &EngagementSelector{
		cat:  cat,
		rnd:  rnd,
		path: sample(rnd, cat.EngagementTagged(catalog.TagStandard), EngagementStageOne),
	}
}

// Path returns a copy of the current path.
func (s *EngagementSelector) Path() []string { return append([]string(nil), s.path...) }

// Len is the current path length.
func (s *EngagementSelector) Len() int { return len(s.path) }

// At returns the id at index i.
func (s *EngagementSelector) At(i int) string { return s.path[i] }

// Classified reports whether the stage-two transition has run.
func (s *EngagementSelector) Classified() bool { return s.classified }

// Classification returns the chosen stage-two tag and mode. Both are empty
// before the transition.
func (s *EngagementSelector) Classification() (catalog.AdaptiveTag, Mode) {
	return s.tag, s.mode
}

// Next is called when the respondent moves forward from index. Leaving the
// last stage-one item classifies the answers and appends stage two; this
// happens at most once per selector.
func (s *EngagementSelector) Next(index int, answers map[string]int) {
	if s.classified || index != EngagementStageOne-1 || len(s.path) != EngagementStageOne {
		return
	}
	values := make([]int, 0, EngagementStageOne)
	for _, id := range s.path {
		values = append(values, answers[id])
	}
	s.tag, s.mode = Classify(values)
	s.classified = true

	pool := unused(s.cat.EngagementTagged(s.tag), s.path)
	s.path = append(s.path, sample(s.rnd, pool, EngagementStageTwo)...)
}
