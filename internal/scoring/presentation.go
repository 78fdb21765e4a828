package scoring

import (
	"fmt"
	"math"

	"github.com/piyushranjan2301/ITC27/internal/catalog"
)

// Rank is the gamified level a point total falls into.
type Rank struct {
	Name catalog.Text `json:"name"`
	// Ceiling is the point total that completes this rank.
	Ceiling int `json:"ceiling"`
	// Progress is the percentage of Ceiling reached, capped at 100.
	Progress float64 `json:"progress"`
}

type rankStep struct {
	floor   int
	ceiling int
	name    catalog.Text
}

// rankSteps is ordered from the highest floor down.
var rankSteps = []rankStep{
	{floor: 3500, ceiling: 5000, name: catalog.Text{En: "Grandmaster", Hi: "ग्रैंडमास्टर"}},
	{floor: 2000, ceiling: 3500, name: catalog.Text{En: "Master", Hi: "मास्टर"}},
	{floor: 1000, ceiling: 2000, name: catalog.Text{En: "Expert", Hi: "विशेषज्ञ"}},
	{floor: 0, ceiling: 1000, name: catalog.Text{En: "Novice", Hi: "नौसिखिया"}},
}

// RankFor returns the rank of a point total.
func RankFor(points int) Rank {
	step := rankSteps[len(rankSteps)-1]
	for _, s := range rankSteps {
		if points >= s.floor {
			step = s
			break
		}
	}
	progress := math.Min(100, float64(points)/float64(step.ceiling)*100)
	return Rank{Name: step.name, Ceiling: step.ceiling, Progress: progress}
}

// TimeBand describes how the assessment duration is presented. A zero
// duration has no band.
func TimeBand(seconds int) catalog.Text {
	switch {
	case seconds <= 0:
		return catalog.Text{}
	case seconds < rushThresholdSeconds:
		return catalog.Text{En: "High Speed Response", Hi: "बहुत तेज़ (Fast)"}
	case seconds > optimalMaxSeconds:
		return catalog.Text{En: "Very Thorough Evaluation", Hi: "गहन विचार (Deep Thinker)"}
	default:
		return catalog.Text{En: "Optimal Engagement Time", Hi: "इष्टतम समय (Optimal)"}
	}
}

// FormatDuration renders seconds as mm:ss.
func FormatDuration(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d", seconds/60, seconds%60)
}
