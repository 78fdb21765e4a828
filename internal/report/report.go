// Package report aggregates stored results for administrators.
package report

import (
	"math"
	"sort"
	"strings"

	"github.com/piyushranjan2301/ITC27/internal/scoring"
)

// TrendDays is how many of the most recent days the points trend keeps.
const TrendDays = 7

// otherDepartment groups results stored without a department.
const otherDepartment = "Other"

// Stats is the admin overview across every stored result.
type Stats struct {
	Total             int                `json:"total"`
	AverageEngagement float64            `json:"average_engagement"`
	AveragePoints     float64            `json:"average_points"`
	BadgesAwarded     int                `json:"badges_awarded"`
	TraitAverages     []TraitAverage     `json:"trait_averages"`
	Departments       []DepartmentPoints `json:"departments"`
	Badges            []Count            `json:"badges"`
	Categories        []Count            `json:"categories"`
	DailyPoints       []DailyPoints      `json:"daily_points"`
}

// TraitAverage is the mean tally of one behavioral trait per respondent.
type TraitAverage struct {
	Trait   string  `json:"trait"`
	Average float64 `json:"average"`
}

// DepartmentPoints is the rounded mean score of one department.
type DepartmentPoints struct {
	Department    string `json:"department"`
	AveragePoints int    `json:"average_points"`
	Respondents   int    `json:"respondents"`
}

// Count is a named frequency.
type Count struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// DailyPoints is the point total earned on one UTC date (YYYY-MM-DD).
type DailyPoints struct {
	Date   string `json:"date"`
	Points int    `json:"points"`
}

// Compute builds Stats. An empty input yields zero values and empty slices.
func Compute(results []scoring.Result) Stats {
	st := Stats{
		TraitAverages: []TraitAverage{},
		Departments:   []DepartmentPoints{},
		Badges:        []Count{},
		Categories:    []Count{},
		DailyPoints:   []DailyPoints{},
	}
	total := len(results)
	if total == 0 {
		return st
	}
	st.Total = total

	var engagement float64
	var points int
	traitSums := map[string]int{}
	type dept struct{ points, count int }
	depts := map[string]*dept{}
	badges := map[string]int{}
	categories := map[string]int{}
	daily := map[string]int{}

	for _, r := range results {
		engagement += r.EngagementScore
		points += r.TotalPoints
		st.BadgesAwarded += len(r.Badges)
		for trait, n := range r.BehavioralProfile {
			traitSums[trait] += n
		}

		name := strings.TrimSpace(r.Identity.Department)
		if name == "" {
			name = otherDepartment
		}
		d, ok := depts[name]
		if !ok {
			d = &dept{}
			depts[name] = d
		}
		d.points += r.TotalPoints
		d.count++

		for _, b := range r.Badges {
			badges[b]++
		}
		categories[r.Category]++
		if !r.CreatedAt.IsZero() {
			daily[r.CreatedAt.UTC().Format("2006-01-02")] += r.TotalPoints
		}
	}

	st.AverageEngagement = engagement / float64(total)
	st.AveragePoints = float64(points) / float64(total)

	for trait, sum := range traitSums {
		st.TraitAverages = append(st.TraitAverages, TraitAverage{
			Trait:   trait,
			Average: round2(float64(sum) / float64(total)),
		})
	}
	sort.Slice(st.TraitAverages, func(i, j int) bool {
		return st.TraitAverages[i].Trait < st.TraitAverages[j].Trait
	})

	for name, d := range depts {
		st.Departments = append(st.Departments, DepartmentPoints{
			Department:    name,
			AveragePoints: int(math.Round(float64(d.points) / float64(d.count))),
			Respondents:   d.count,
		})
	}
	sort.Slice(st.Departments, func(i, j int) bool {
		a, b := st.Departments[i], st.Departments[j]
		if a.AveragePoints != b.AveragePoints {
			return a.AveragePoints > b.AveragePoints
		}
		return a.Department < b.Department
	})

	st.Badges = sortedCounts(badges)
	st.Categories = sortedCounts(categories)

	for date, p := range daily {
		st.DailyPoints = append(st.DailyPoints, DailyPoints{Date: date, Points: p})
	}
	sort.Slice(st.DailyPoints, func(i, j int) bool {
		return st.DailyPoints[i].Date < st.DailyPoints[j].Date
	})
	if n := len(st.DailyPoints); n > TrendDays {
		st.DailyPoints = st.DailyPoints[n-TrendDays:]
	}
	return st
}

// TopDepartment is the department with the highest average, or "".
func (s Stats) TopDepartment() string {
	if len(s.Departments) == 0 {
		return ""
	}
	return s.Departments[0].Department
}

func sortedCounts(m map[string]int) []Count {
	out := make([]Count, 0, len(m))
	for name, n := range m {
		out = append(out, Count{Name: name, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Name < out[j].Name
	})
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ─── Leaderboard ─────────────────────────────────────────────────────────────

// Entry is one leaderboard row.
type Entry struct {
	Rank       int    `json:"rank"`
	Name       string `json:"name"`
	PNo        string `json:"pno"`
	Department string `json:"department"`
	Points     int    `json:"points"`
	Category   string `json:"category"`
}

// Leaderboard ranks results by points, newest first on ties, and keeps the
// top n. n <= 0 keeps all of them. The input is not reordered.
func Leaderboard(results []scoring.Result, n int) []Entry {
	sorted := append([]scoring.Result(nil), results...)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].TotalPoints != sorted[j].TotalPoints {
			return sorted[i].TotalPoints > sorted[j].TotalPoints
		}
		return sorted[i].CreatedAt.After(sorted[j].CreatedAt)
	})
	if n > 0 && n < len(sorted) {
		sorted = sorted[:n]
	}

	out := make([]Entry, len(sorted))
	for i, r := range sorted {
		out[i] = Entry{
			Rank:       i + 1,
			Name:       r.Identity.EmployeeName,
			PNo:        r.Identity.PNo,
			Department: r.Identity.Department,
			Points:     r.TotalPoints,
			Category:   r.Category,
		}
	}
	return out
}
