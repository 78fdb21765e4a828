package tools

import (
	"fmt"
	"sort"
	"strings"

	"github.com/piyushranjan2301/ITC27/internal/assessment"
	"github.com/piyushranjan2301/ITC27/internal/catalog"
	"github.com/piyushranjan2301/ITC27/internal/scoring"
)

// writeState renders whatever the session shows in its current phase.
func writeState(b *strings.Builder, cat *catalog.Catalog, s *assessment.Session) error {
	lang := s.Language()
	switch p := s.Phase(); {
	case assessment.IsQuestionPhase(p):
		q, err := s.CurrentQuestion()
		if err != nil {
			return err
		}
		writeQuestion(b, q)
	case p == assessment.PhaseScoringMapping:
		writeScoringMapping(b, cat, s.TraitTally(), lang)
	case p == assessment.PhaseGrowth:
		b.WriteString("## Growth Opportunities\n\n")
		writeCards(b, cat.Growth(), lang)
		b.WriteString("Call `survey_continue` to see the rollout roadmap.\n")
	case p == assessment.PhaseInstitutionalization:
		b.WriteString("## Institutionalization Roadmap\n\n")
		writeCards(b, cat.Institutionalization(), lang)
		b.WriteString("### Safeguards\n\n")
		writeCards(b, cat.Safeguards(), lang)
		b.WriteString("Call `survey_continue` to give feedback.\n")
	case p == assessment.PhaseFeedback:
		b.WriteString("## Feedback\n\n")
		writeFeedbackOptions(b, cat, lang)
		b.WriteString("\nCall `survey_finalize` with one of these options or your own words.\n")
	case p == assessment.PhaseResults:
		if r := s.Result(); r != nil {
			writeResult(b, cat, r, lang)
		}
	default:
		fmt.Fprintf(b, "Phase: %s\n", p)
	}
	return nil
}

func writeQuestion(b *strings.Builder, q assessment.Question) {
	fmt.Fprintf(b, "## Question %d\n\n", q.Serial)
	fmt.Fprintf(b, "**Phase:** %s (%d of %d)\n", q.Phase, q.Progress.Index+1, q.Progress.DisplayTotal)
	fmt.Fprintf(b, "**Question ID:** `%s`\n", q.ID)
	if q.Dimension != "" {
		fmt.Fprintf(b, "**Dimension:** %s\n", q.Dimension)
	}
	if q.Complexity != "" {
		fmt.Fprintf(b, "**Level:** %s\n", q.Complexity)
	}
	fmt.Fprintf(b, "\n%s\n\n", q.Text)
	for _, c := range q.Choices {
		marker := ""
		if c.Key == q.Answer {
			marker = " ← current answer"
		}
		fmt.Fprintf(b, "- `%s` %s%s\n", c.Key, c.Text, marker)
	}
	b.WriteString("\nAnswer with `survey_answer`, then move on with `survey_next`.\n")
}

func writeScoringMapping(b *strings.Builder, cat *catalog.Catalog, tally map[string]int, lang catalog.Language) {
	b.WriteString("## Behavioral Profile\n\n")
	b.WriteString("| Trait | Count | Best fit |\n")
	b.WriteString("|-------|-------|----------|\n")
	for _, rt := range scoring.RankTraits(tally) {
		role := "—"
		if r, ok := cat.RoleFor(rt.Trait); ok {
			role = r.Role.In(lang)
		}
		fmt.Fprintf(b, "| %s | %d | %s |\n", rt.Trait, rt.Count, role)
	}
	if top := scoring.TopTrait(tally); top != "" {
		if r, ok := cat.RoleFor(top); ok {
			fmt.Fprintf(b, "\n**%s:** %s\n", top, r.Description.In(lang))
		}
	}
	b.WriteString("\nCall `survey_continue` to see growth opportunities.\n")
}

func writeCards(b *strings.Builder, cards []catalog.Card, lang catalog.Language) {
	for _, c := range cards {
		fmt.Fprintf(b, "- **%s** %s\n", c.Title.In(lang), c.Description.In(lang))
	}
	b.WriteString("\n")
}

func writeFeedbackOptions(b *strings.Builder, cat *catalog.Catalog, lang catalog.Language) {
	for i, o := range cat.FeedbackOptions() {
		fmt.Fprintf(b, "%d. %s\n", i+1, o.In(lang))
	}
}

// FormatResult renders a scored result as markdown in the given language.
func FormatResult(cat *catalog.Catalog, r *scoring.Result, lang catalog.Language) string {
	var b strings.Builder
	writeResult(&b, cat, r, lang)
	return b.String()
}

// writeResult renders a scored result with its presentation derivations.
func writeResult(b *strings.Builder, cat *catalog.Catalog, r *scoring.Result, lang catalog.Language) {
	rank := scoring.RankFor(r.TotalPoints)

	b.WriteString("## Result\n\n")
	b.WriteString("| Field | Value |\n")
	b.WriteString("|-------|-------|\n")
	fmt.Fprintf(b, "| Employee | %s (`%s`) |\n", r.Identity.EmployeeName, r.Identity.PNo)
	fmt.Fprintf(b, "| Department | %s |\n", r.Identity.Department)
	fmt.Fprintf(b, "| Points | %d |\n", r.TotalPoints)
	fmt.Fprintf(b, "| Rank | %s (%.0f%% of %d) |\n", rank.Name.In(lang), rank.Progress, rank.Ceiling)
	fmt.Fprintf(b, "| Engagement | %.2f / 5 (%s) |\n", r.EngagementScore, r.EngagementLevel)
	fmt.Fprintf(b, "| Category | %s |\n", r.Category)
	duration := scoring.FormatDuration(r.ElapsedSeconds)
	if band := scoring.TimeBand(r.ElapsedSeconds).In(lang); band != "" {
		duration += " · " + band
	}
	fmt.Fprintf(b, "| Time | %s |\n", duration)
	if r.Feedback != "" {
		fmt.Fprintf(b, "| Feedback | %s |\n", r.Feedback)
	}

	b.WriteString("\n### Badges\n\n")
	for _, badge := range r.Badges {
		if tier := cat.BadgeTier(badge); tier != "" {
			fmt.Fprintf(b, "- %s (%s)\n", badge, tier)
		} else {
			fmt.Fprintf(b, "- %s\n", badge)
		}
	}

	if len(r.BehavioralProfile) > 0 {
		b.WriteString("\n### Behavioral Profile\n\n")
		for _, rt := range scoring.RankTraits(r.BehavioralProfile) {
			fmt.Fprintf(b, "- %s: %d\n", rt.Trait, rt.Count)
		}
	}
	if len(r.SJTAlignment) > 0 {
		b.WriteString("\n### Situational Alignment\n\n")
		keys := make([]string, 0, len(r.SJTAlignment))
		for k := range r.SJTAlignment {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(b, "- %s: %d\n", k, r.SJTAlignment[k])
		}
	}
}
