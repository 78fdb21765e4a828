package scoring

import (
	"math"
	"sort"

	"github.com/piyushranjan2301/ITC27/internal/catalog"
)

// Point rules.
const (
	pointsPerEngagementUnit = 250
	highEngagementBonus     = 200

	rushThresholdSeconds   = 120
	optimalMinSeconds      = 180
	optimalMaxSeconds      = 600
	rushPenalty            = -150
	optimalBonus           = 250
	diligenceBonus         = 100
	strategicBadgeMinimum  = 3 // strictly more than this
	guardianBadgeMinimum   = 4
	harmonizerBadgeMinimum = 4
)

// Compute scores a completed assessment. It is pure: the same catalog,
// responses and elapsed time always produce an identical Result. Responses
// referring to ids the catalog does not know are ignored by the tallies.
func Compute(cat *catalog.Catalog, r Responses, elapsedSeconds int) Result {
	avg := AverageEngagement(r.Engagement)
	profile := TraitTally(cat, r.Behavioral)
	alignment := AlignmentTally(cat, r.SJT)

	points := int(math.Round(avg * pointsPerEngagementUnit))
	badges := []string{BadgeCertifiedParticipant}
	if avg >= 4.5 {
		badges = append(badges, BadgeEngagementStar)
	}
	if alignment[catalog.AlignStrategic] > strategicBadgeMinimum {
		badges = append(badges, BadgeStrategicThinker)
	}
	if profile[catalog.TraitGuardian] > guardianBadgeMinimum {
		badges = append(badges, BadgeSafetyShield)
	}
	if profile[catalog.TraitHarmonizer] > harmonizerBadgeMinimum {
		badges = append(badges, BadgeTeamCatalyst)
	}
	if avg >= 4.0 {
		points += highEngagementBonus
	}
	points += TimeAdjustment(elapsedSeconds)

	return Result{
		EngagementScore:   avg,
		EngagementLevel:   LevelFor(avg),
		BehavioralProfile: profile,
		SJTAlignment:      alignment,
		Category:          Categorize(avg, TopTrait(profile)),
		TotalPoints:       max(0, points),
		Badges:            badges,
		Responses:         r.Clone(),
		ElapsedSeconds:    elapsedSeconds,
	}
}

// AverageEngagement is the arithmetic mean of the Likert values, 0 when empty.
func AverageEngagement(values map[string]int) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0
	for _, v := range values {
		sum += v
	}
	return float64(sum) / float64(len(values))
}

// LevelFor buckets an average engagement score.
func LevelFor(avg float64) Level {
	switch {
	case avg >= 4.0:
		return LevelHigh
	case avg >= 3.0:
		return LevelModerate
	default:
		return LevelLow
	}
}

// TraitTally counts the trait label of every chosen behavioral option.
func TraitTally(cat *catalog.Catalog, answers map[string]catalog.Option) map[string]int {
	tally := map[string]int{}
	for id, choice := range answers {
		q, ok := cat.BehavioralByID(id)
		if !ok {
			continue
		}
		opt, ok := q.Options[choice]
		if !ok {
			continue
		}
		tally[opt.Trait]++
	}
	return tally
}

// AlignmentTally counts the alignment label of every chosen situational option.
func AlignmentTally(cat *catalog.Catalog, answers map[string]catalog.Option) map[string]int {
	tally := map[string]int{}
	for id, choice := range answers {
		q, ok := cat.SituationalByID(id)
		if !ok {
			continue
		}
		opt, ok := q.Options[choice]
		if !ok {
			continue
		}
		tally[opt.Alignment]++
	}
	return tally
}

// TimeAdjustment returns the point change for the assessment duration.
// 120s up to 180s is a band with no adjustment.
func TimeAdjustment(elapsedSeconds int) int {
	switch {
	case elapsedSeconds < rushThresholdSeconds:
		return rushPenalty
	case elapsedSeconds >= optimalMinSeconds && elapsedSeconds <= optimalMaxSeconds:
		return optimalBonus
	case elapsedSeconds > optimalMaxSeconds:
		return diligenceBonus
	default:
		return 0
	}
}

// RankedTrait is one entry of a trait ranking.
type RankedTrait struct {
	Trait string `json:"trait"`
	Count int    `json:"count"`
}

// RankTraits orders traits by tally descending; equal tallies are ordered by
// trait name.
func RankTraits(profile map[string]int) []RankedTrait {
	ranked := make([]RankedTrait, 0, len(profile))
	for t, n := range profile {
		ranked = append(ranked, RankedTrait{Trait: t, Count: n})
	}
	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Count != ranked[j].Count {
			return ranked[i].Count > ranked[j].Count
		}
		return ranked[i].Trait < ranked[j].Trait
	})
	return ranked
}

// TopTrait returns the highest ranked trait, or "" for an empty profile.
func TopTrait(profile map[string]int) string {
	ranked := RankTraits(profile)
	if len(ranked) == 0 {
		return ""
	}
	return ranked[0].Trait
}

// Categorize derives the talent category from the engagement average and the
// dominant trait.
func Categorize(avg float64, topTrait string) string {
	switch {
	case avg >= 4.0 && (topTrait == catalog.TraitExecutor || topTrait == catalog.TraitInformer):
		return CategoryLeadershipPool
	case avg >= 3.5 && topTrait == catalog.TraitHarmonizer:
		return CategoryMentorCandidate
	case avg < 2.5:
		return CategoryNeedsSupport
	default:
		return CategorySkilledOperator
	}
}
