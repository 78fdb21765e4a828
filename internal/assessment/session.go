// Package assessment runs one respondent through the adaptive survey: it owns
// the per-phase question paths, records answers, numbers questions and hands
// the completed answer set to the scoring engine.
package assessment

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/piyushranjan2301/ITC27/internal/catalog"
	"github.com/piyushranjan2301/ITC27/internal/scoring"
)

// Gateway persists finished results. results.Store satisfies it.
type Gateway interface {
	Save(ctx context.Context, r *scoring.Result) error
	FetchByIdentity(ctx context.Context, pNo string) (*scoring.Result, error)
}

// Session is the in-memory state of one assessment. It is not safe for
// concurrent use.
type Session struct {
	cat      *catalog.Catalog
	rnd      Randomizer
	identity scoring.Identity
	lang     catalog.Language

	phase     Phase
	index     int
	offset    int
	startedAt time.Time
	completed map[Phase]bool

	engagement *EngagementSelector
	behavioral *BehavioralSelector
	sjt        *SJTSelector

	responses scoring.Responses
	result    *scoring.Result
}

// NewSession opens a session in the Intro phase. The identity is normalized
// and must carry a PNo.
func NewSession(cat *catalog.Catalog, identity scoring.Identity, lang catalog.Language, rnd Randomizer) (*Session, error) {
	if cat == nil {
		return nil, fmt.Errorf("new session: catalog is required")
	}
	if rnd == nil {
		return nil, fmt.Errorf("new session: randomizer is required")
	}
	if err := catalog.ValidateLanguage(lang); err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}
	id, err := identity.Normalize()
	if err != nil {
		return nil, fmt.Errorf("new session: %w", err)
	}
	if id.Timestamp.IsZero() {
		id.Timestamp = timeNow()
	}
	return &Session{
		cat:       cat,
		rnd:       rnd,
		identity:  id,
		lang:      lang,
		phase:     PhaseIntro,
		completed: map[Phase]bool{},
		responses: scoring.NewResponses(),
	}, nil
}

// --- Accessors ---

// Phase is the current phase.
func (s *Session) Phase() Phase { return s.phase }

// Identity is the respondent's normalized identity.
func (s *Session) Identity() scoring.Identity { return s.identity }

// Language is the presentation language.
func (s *Session) Language() catalog.Language { return s.lang }

// GlobalOffset is the answered count fetched when the session began.
func (s *Session) GlobalOffset() int { return s.offset }

// StartedAt is when Begin was called, zero before that.
func (s *Session) StartedAt() time.Time { return s.startedAt }

// Result is the finalized result, nil until Finalize succeeds.
func (s *Session) Result() *scoring.Result { return s.result }

// IsComplete reports whether the session reached Results.
func (s *Session) IsComplete() bool { return IsLastPhase(s.phase) }

// PhaseComplete reports whether the path of a question phase was finished.
func (s *Session) PhaseComplete(p Phase) bool { return s.completed[p] }

// Responses returns a copy of every recorded answer.
func (s *Session) Responses() scoring.Responses { return s.responses.Clone() }

// TraitTally is the running forced-choice trait count.
func (s *Session) TraitTally() map[string]int {
	return scoring.TraitTally(s.cat, s.responses.Behavioral)
}

// EngagementMode is the presentation mode chosen by the engagement
// transition, empty before it fires.
func (s *Session) EngagementMode() Mode {
	if s.engagement == nil {
		return ""
	}
	_, mode := s.engagement.Classification()
	return mode
}

// DepthScore is the running situational depth score.
func (s *Session) DepthScore() int {
	if s.sjt == nil {
		return 0
	}
	return s.sjt.Depth()
}

// Path returns a copy of the path of a question phase. It is nil before
// Begin or for other phases.
func (s *Session) Path(p Phase) []string {
	switch p {
	case PhaseEngagement:
		if s.engagement != nil {
			return s.engagement.Path()
		}
	case PhaseBehavioral:
		if s.behavioral != nil {
			return s.behavioral.Path()
		}
	case PhaseSJT:
		if s.sjt != nil {
			return s.sjt.Path()
		}
	}
	return nil
}

// Elapsed is the wall-clock time since Begin.
func (s *Session) Elapsed() time.Duration {
	if s.startedAt.IsZero() {
		return 0
	}
	if d := timeNow().Sub(s.startedAt); d > 0 {
		return d
	}
	return 0
}

// --- Transitions ---

// Begin leaves Intro, builds all three paths and starts the clock.
// globalOffset is the number of questions answered by earlier respondents.
func (s *Session) Begin(globalOffset int) error {
	if s.phase != PhaseIntro {
		return fmt.Errorf("begin: %w: session is in phase %q", ErrWrongPhase, s.phase)
	}
	if globalOffset < 0 {
		return fmt.Errorf("begin: global offset %d is negative", globalOffset)
	}
	s.offset = globalOffset
	s.startedAt = timeNow()
	s.engagement = NewEngagementSelector(s.cat, s.rnd)
	s.behavioral = NewBehavioralSelector(s.cat, s.rnd)
	s.sjt = NewSJTSelector(s.cat, s.rnd)
	s.enter(PhaseEngagement)
	return nil
}

// Advance records a Next press. The current question must be answered. It
// returns true when the press finished the phase's path.
func (s *Session) Advance() (bool, error) {
	if !IsQuestionPhase(s.phase) {
		return false, fmt.Errorf("advance: %w: phase %q has no questions", ErrWrongPhase, s.phase)
	}
	id := s.currentID()
	if !s.answered(id) {
		return false, fmt.Errorf("advance: %w: %s", ErrAnswerRequired, id)
	}

	switch s.phase {
	case PhaseEngagement:
		s.engagement.Next(s.index, s.responses.Engagement)
	case PhaseSJT:
		s.sjt.Next(s.index, s.responses.SJT)
	}

	if s.index < s.pathLen()-1 {
		s.index++
		return false, nil
	}
	s.completed[s.phase] = true
	next, err := NextPhase(s.phase)
	if err != nil {
		return false, fmt.Errorf("advance: %w", err)
	}
	s.enter(next)
	return true, nil
}

// Retreat moves back one question within the current phase. Answers are
// kept. At the first question it does nothing.
func (s *Session) Retreat() error {
	if !IsQuestionPhase(s.phase) {
		return fmt.Errorf("retreat: %w: phase %q has no questions", ErrWrongPhase, s.phase)
	}
	if s.index > 0 {
		s.index--
	}
	return nil
}

// Continue leaves an informational phase.
func (s *Session) Continue() error {
	if !IsInfoPhase(s.phase) {
		return fmt.Errorf("continue: %w: phase %q is not informational", ErrWrongPhase, s.phase)
	}
	next, err := NextPhase(s.phase)
	if err != nil {
		return fmt.Errorf("continue: %w", err)
	}
	s.enter(next)
	return nil
}

// enter moves to p, skipping question phases whose path is empty.
func (s *Session) enter(p Phase) {
	s.phase = p
	s.index = 0
	for IsQuestionPhase(s.phase) && s.pathLen() == 0 {
		s.completed[s.phase] = true
		next, err := NextPhase(s.phase)
		if err != nil {
			return
		}
		s.phase = next
	}
}

// --- Questions and answers ---

// Choice is one selectable answer.
type Choice struct {
	Key  string `json:"key"`
	Text string `json:"text"`
}

// Question is the rendered view of the current question.
type Question struct {
	Phase      Phase              `json:"phase"`
	ID         string             `json:"id"`
	Text       string             `json:"text"`
	Dimension  string             `json:"dimension,omitempty"`
	Complexity catalog.Complexity `json:"complexity,omitempty"`
	Choices    []Choice           `json:"choices"`
	Answer     string             `json:"answer,omitempty"`
	Serial     int                `json:"serial"`
	Progress   Progress           `json:"progress"`
}

// Progress describes the position inside the current question phase.
type Progress struct {
	Phase        Phase `json:"phase"`
	Index        int   `json:"index"`
	PathLength   int   `json:"path_length"`
	DisplayTotal int   `json:"display_total"`
	Serial       int   `json:"serial"`
	Answered     int   `json:"answered"`
}

// Progress reports the current position. Outside question phases only Phase
// and Answered are set.
func (s *Session) Progress() Progress {
	p := Progress{Phase: s.phase, Answered: s.responses.Count()}
	if !IsQuestionPhase(s.phase) {
		return p
	}
	p.Index = s.index
	p.PathLength = s.pathLen()
	p.DisplayTotal = p.PathLength
	if s.phase == PhaseEngagement {
		p.DisplayTotal = EngagementDisplayTotal
	}
	if s.phase == PhaseSJT {
		p.DisplayTotal = SJTTarget
	}
	p.Serial, _ = s.SerialNumber()
	return p
}

// SerialNumber is the global number of the current question, recomputed from
// the live response counts.
func (s *Session) SerialNumber() (int, error) {
	return SerialNumber(s.phase, s.offset, len(s.responses.Engagement), len(s.responses.Behavioral), s.index)
}

// CurrentQuestion renders the question at the current index.
func (s *Session) CurrentQuestion() (Question, error) {
	if !IsQuestionPhase(s.phase) {
		return Question{}, fmt.Errorf("current question: %w: phase %q has no questions", ErrWrongPhase, s.phase)
	}
	id := s.currentID()
	q := Question{Phase: s.phase, ID: id, Progress: s.Progress()}
	q.Serial = q.Progress.Serial

	switch s.phase {
	case PhaseEngagement:
		item, ok := s.cat.EngagementByID(id)
		if !ok {
			return Question{}, fmt.Errorf("current question: engagement item %q not in catalog", id)
		}
		q.Text = item.Prompt.In(s.lang)
		q.Dimension = item.Dimension
		for i, label := range s.cat.LikertLabels() {
			q.Choices = append(q.Choices, Choice{Key: strconv.Itoa(i + 1), Text: label.In(s.lang)})
		}
		if v, ok := s.responses.Engagement[id]; ok {
			q.Answer = strconv.Itoa(v)
		}
	case PhaseBehavioral:
		item, ok := s.cat.BehavioralByID(id)
		if !ok {
			return Question{}, fmt.Errorf("current question: behavioral item %q not in catalog", id)
		}
		q.Text = item.Scenario.In(s.lang)
		for _, opt := range catalog.ForcedChoiceOptions {
			q.Choices = append(q.Choices, Choice{Key: string(opt), Text: item.Options[opt].Text.In(s.lang)})
		}
		q.Answer = string(s.responses.Behavioral[id])
	case PhaseSJT:
		item, ok := s.cat.SituationalByID(id)
		if !ok {
			return Question{}, fmt.Errorf("current question: situational item %q not in catalog", id)
		}
		q.Text = item.Scenario.In(s.lang)
		q.Complexity = item.Complexity
		for _, opt := range catalog.SituationalOptions {
			q.Choices = append(q.Choices, Choice{Key: string(opt), Text: item.Options[opt].Text.In(s.lang)})
		}
		q.Answer = string(s.responses.SJT[id])
	}
	return q, nil
}

// SubmitAnswer records an answer for a question already reached on the
// current phase's path. Re-answering overwrites. A rejected answer leaves the
// recorded answers unchanged.
func (s *Session) SubmitAnswer(questionID, raw string) error {
	if !IsQuestionPhase(s.phase) {
		return fmt.Errorf("submit answer: %w: phase %q has no questions", ErrWrongPhase, s.phase)
	}
	questionID = strings.TrimSpace(questionID)
	if !s.reached(questionID) {
		return fmt.Errorf("submit answer %q: %w", questionID, ErrUnknownQuestion)
	}

	switch s.phase {
	case PhaseEngagement:
		v, err := strconv.Atoi(strings.TrimSpace(raw))
		if err != nil || v < 1 || v > 5 {
			return fmt.Errorf("submit answer %q: %w: %q is not an integer from 1 to 5", questionID, ErrMalformedAnswer, raw)
		}
		s.responses.Engagement[questionID] = v
	case PhaseBehavioral:
		opt, err := catalog.ParseOption(raw, catalog.ForcedChoiceOptions)
		if err != nil {
			return fmt.Errorf("submit answer %q: %w: %w", questionID, ErrMalformedAnswer, err)
		}
		s.responses.Behavioral[questionID] = opt
	case PhaseSJT:
		opt, err := catalog.ParseOption(raw, catalog.SituationalOptions)
		if err != nil {
			return fmt.Errorf("submit answer %q: %w: %w", questionID, ErrMalformedAnswer, err)
		}
		s.responses.SJT[questionID] = opt
	}
	return nil
}

// --- Finalize ---

// Finalize scores the session and persists the result. It is allowed only in
// the Feedback phase and is idempotent: once it succeeds, later calls return
// the same result without saving again. When the save fails, the result
// already stored for the same PNo is adopted; if there is none the save
// error is returned and the session stays in Feedback.
func (s *Session) Finalize(ctx context.Context, feedback string, gw Gateway) (*scoring.Result, error) {
	if s.result != nil {
		return s.result, nil
	}
	if s.phase != PhaseFeedback {
		return nil, fmt.Errorf("finalize: %w: session is in phase %q", ErrWrongPhase, s.phase)
	}
	feedback = strings.TrimSpace(feedback)
	if feedback == "" {
		return nil, fmt.Errorf("finalize: %w: feedback is empty", ErrAnswerRequired)
	}
	feedback, _ = s.cat.FeedbackLabel(feedback)

	elapsed := int(s.Elapsed() / time.Second)
	res := scoring.Compute(s.cat, s.responses, elapsed)
	res.Identity = s.identity
	res.Feedback = feedback

	if err := gw.Save(ctx, &res); err != nil {
		stored, fetchErr := gw.FetchByIdentity(ctx, s.identity.PNo)
		if fetchErr != nil || stored == nil {
			return nil, fmt.Errorf("finalize: save result: %w", err)
		}
		res = *stored
	}
	s.result = &res
	s.phase = PhaseResults
	return s.result, nil
}

// --- Internals ---

func (s *Session) pathLen() int {
	switch s.phase {
	case PhaseEngagement:
		return s.engagement.Len()
	case PhaseBehavioral:
		return s.behavioral.Len()
	case PhaseSJT:
		return s.sjt.Len()
	}
	return 0
}

func (s *Session) pathAt(i int) string {
	switch s.phase {
	case PhaseEngagement:
		return s.engagement.At(i)
	case PhaseBehavioral:
		return s.behavioral.At(i)
	case PhaseSJT:
		return s.sjt.At(i)
	}
	return ""
}

func (s *Session) currentID() string { return s.pathAt(s.index) }

// reached reports whether id is on the current path at or before the index.
func (s *Session) reached(id string) bool {
	for i := 0; i <= s.index && i < s.pathLen(); i++ {
		if s.pathAt(i) == id {
			return true
		}
	}
	return false
}

func (s *Session) answered(id string) bool {
	var ok bool
	switch s.phase {
	case PhaseEngagement:
		_, ok = s.responses.Engagement[id]
	case PhaseBehavioral:
		_, ok = s.responses.Behavioral[id]
	case PhaseSJT:
		_, ok = s.responses.SJT[id]
	}
	return ok
}
