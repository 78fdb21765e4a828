// Package scoring turns a completed set of assessment responses into the
// immutable result record: engagement level, trait and alignment tallies,
// points, badges and the talent category.
//
// Compute is a pure function. It reads the catalog to resolve option labels
// and never touches the clock, storage or randomness, so the same inputs always
// produce the same Result. Identity, feedback and the creation timestamp are
// attached by the caller afterwards.
package scoring

import (
	"errors"
	"strings"
	"time"

	"github.com/piyushranjan2301/ITC27/internal/catalog"
)

// --- Engagement level enum ---

// Level buckets the average engagement score.
type Level string

const (
	LevelHigh     Level = "High"
	LevelModerate Level = "Moderate"
	LevelLow      Level = "Low"
)

// --- Category labels ---

const (
	CategoryLeadershipPool  = "Leadership Pool"
	CategoryMentorCandidate = "Mentor Candidate"
	CategoryNeedsSupport    = "Needs Support"
	CategorySkilledOperator = "Skilled Operator"
)

// --- Badge names ---

const (
	BadgeCertifiedParticipant = "Certified Participant"
	BadgeEngagementStar       = "Engagement Star"
	BadgeStrategicThinker     = "Strategic Thinker"
	BadgeSafetyShield         = "Safety Shield"
	BadgeTeamCatalyst         = "Team Catalyst"
)

// --- Identity ---

// Identity describes the respondent a result belongs to. PNo is the unique
// employee number and the key results are stored under.
type Identity struct {
	EmployeeName string    `json:"employee_name"`
	PNo          string    `json:"pno"`
	Department   string    `json:"department"`
	Designation  string    `json:"designation"`
	Role         string    `json:"role"`
	PhoneNumber  string    `json:"phone_number"`
	Location     string    `json:"location"`
	Timestamp    time.Time `json:"timestamp"`
}

// ErrMissingPNo is returned when an identity has no employee number.
var ErrMissingPNo = errors.New("employee number (pno) is required")

// Normalize trims every field and fills the defaults used for blank
// organisational fields.
func (id Identity) Normalize() (Identity, error) {
	id.EmployeeName = strings.TrimSpace(id.EmployeeName)
	id.PNo = strings.TrimSpace(id.PNo)
	id.Department = orDefault(id.Department, "General")
	id.Designation = orDefault(id.Designation, "Staff")
	id.Role = orDefault(id.Role, "worker")
	id.PhoneNumber = strings.TrimSpace(id.PhoneNumber)
	id.Location = orDefault(id.Location, "Unknown")
	if id.PNo == "" {
		return id, ErrMissingPNo
	}
	return id, nil
}

func orDefault(v, def string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return def
	}
	return v
}

// --- Responses ---

// Responses are the three per-phase answer maps, keyed by question id.
type Responses struct {
	Engagement map[string]int            `json:"engagement"`
	Behavioral map[string]catalog.Option `json:"behavioral"`
	SJT        map[string]catalog.Option `json:"sjt"`
}

// NewResponses returns empty, non-nil maps.
func NewResponses() Responses {
	return Responses{
		Engagement: map[string]int{},
		Behavioral: map[string]catalog.Option{},
		SJT:        map[string]catalog.Option{},
	}
}

// Clone returns a deep copy.
func (r Responses) Clone() Responses {
	c := NewResponses()
	for k, v := range r.Engagement {
		c.Engagement[k] = v
	}
	for k, v := range r.Behavioral {
		c.Behavioral[k] = v
	}
	for k, v := range r.SJT {
		c.SJT[k] = v
	}
	return c
}

// Count is the total number of answers across the three phases.
func (r Responses) Count() int {
	return len(r.Engagement) + len(r.Behavioral) + len(r.SJT)
}

// --- Result ---

// Result is the scored outcome of one assessment. It is never mutated once
// stored; a repeat login re-fetches it instead of recomputing.
type Result struct {
	ID                int64          `json:"id,omitempty"`
	Identity          Identity       `json:"identity"`
	EngagementScore   float64        `json:"engagement_score"`
	EngagementLevel   Level          `json:"engagement_level"`
	BehavioralProfile map[string]int `json:"behavioral_profile"`
	SJTAlignment      map[string]int `json:"sjt_alignment"`
	Category          string         `json:"category"`
	TotalPoints       int            `json:"total_points"`
	Badges            []string       `json:"badges"`
	Responses         Responses      `json:"responses"`
	Feedback          string         `json:"feedback"`
	ElapsedSeconds    int            `json:"elapsed_seconds"`
	CreatedAt         time.Time      `json:"created_at"`
}

// HasBadge reports whether the result carries the named badge.
func (r *Result) HasBadge(name string) bool {
	for _, b := range r.Badges {
		if b == name {
			return true
		}
	}
	return false
}
