package assessment

import "fmt"

// --- Phase enum ---

// Phase is one stage of an assessment session.
type Phase string

const (
	PhaseIntro                Phase = "Intro"
	PhaseEngagement           Phase = "Engagement"
	PhaseBehavioral           Phase = "Behavioral"
	PhaseSJT                  Phase = "SJT"
	PhaseScoringMapping       Phase = "ScoringMapping"
	PhaseGrowth               Phase = "Growth"
	PhaseInstitutionalization Phase = "Institutionalization"
	PhaseFeedback             Phase = "Feedback"
	PhaseResults              Phase = "Results"
)

// PhaseOrder is the fixed sequence every session walks through.
var PhaseOrder = []Phase{
	PhaseIntro,
	PhaseEngagement,
	PhaseBehavioral,
	PhaseSJT,
	PhaseScoringMapping,
	PhaseGrowth,
	PhaseInstitutionalization,
	PhaseFeedback,
	PhaseResults,
}

var questionPhases = map[Phase]bool{
	PhaseEngagement: true,
	PhaseBehavioral: true,
	PhaseSJT:        true,
}

var infoPhases = map[Phase]bool{
	PhaseScoringMapping:       true,
	PhaseGrowth:               true,
	PhaseInstitutionalization: true,
}

// ValidatePhase returns an error if the phase is not recognized.
func ValidatePhase(p Phase) error {
	if PhaseIndex(p) < 0 {
		return fmt.Errorf("invalid phase %q: must be one of: Intro, Engagement, Behavioral, SJT, ScoringMapping, Growth, Institutionalization, Feedback, Results", p)
	}
	return nil
}

// PhaseIndex returns the ordinal position of a phase, or -1 if unknown.
func PhaseIndex(p Phase) int {
	for i, ph := range PhaseOrder {
		if ph == p {
			return i
		}
	}
	return -1
}

// IsQuestionPhase reports whether the phase presents questions.
func IsQuestionPhase(p Phase) bool { return questionPhases[p] }

// IsInfoPhase reports whether the phase only presents content and is left
// with Continue.
func IsInfoPhase(p Phase) bool { return infoPhases[p] }

// IsLastPhase reports whether p is the terminal phase.
func IsLastPhase(p Phase) bool {
	return p == PhaseOrder[len(PhaseOrder)-1]
}

// NextPhase returns the phase that follows p.
func NextPhase(p Phase) (Phase, error) {
	idx := PhaseIndex(p)
	if idx < 0 {
		return "", fmt.Errorf("unknown phase %q", p)
	}
	if idx >= len(PhaseOrder)-1 {
		return "", fmt.Errorf("already at the final phase %q", p)
	}
	return PhaseOrder[idx+1], nil
}
