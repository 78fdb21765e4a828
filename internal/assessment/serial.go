package assessment

import "fmt"

// SerialNumber is the global question number shown to a respondent.
// engagementCount and behavioralCount are the live sizes of those response
// maps, so the result must be recomputed on every render.
func SerialNumber(phase Phase, globalOffset, engagementCount, behavioralCount, index int) (int, error) {
	switch phase {
	case PhaseEngagement:
		return globalOffset + index + 1, nil
	case PhaseBehavioral:
		return globalOffset + engagementCount + index + 1, nil
	case PhaseSJT:
		return globalOffset + engagementCount + behavioralCount + index + 1, nil
	default:
		return 0, fmt.Errorf("phase %q has no question numbering", phase)
	}
}
