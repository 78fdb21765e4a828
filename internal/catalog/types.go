// Package catalog holds the static question pools and the bilingual phase
// content of the engagement assessment.
//
// The catalog is loaded once per process from an embedded YAML document and
// never mutated afterwards. Three pools exist, one per question phase:
//   - Engagement: Likert items partitioned by adaptive tag
//   - Behavioral: forced-choice A/B items whose options carry a trait
//   - Situational: four-option judgment items whose options carry an alignment
//     and whose complexity decides which draw they belong to
//
// Accessors hand out copies so callers cannot reach into the pools.
package catalog

import (
	"fmt"
	"strings"
)

// --- Language enum ---

// Language selects which half of a bilingual text is presented.
type Language string

const (
	LangEnglish Language = "en"
	LangHindi   Language = "hi"
)

var validLanguages = map[Language]bool{
	LangEnglish: true,
	LangHindi:   true,
}

// ValidateLanguage returns an error if the language is not supported.
func ValidateLanguage(l Language) error {
	if !validLanguages[l] {
		return fmt.Errorf("invalid language %q: must be one of: en, hi", l)
	}
	return nil
}

// Text is a bilingual string.
type Text struct {
	En string `yaml:"en" json:"en"`
	Hi string `yaml:"hi" json:"hi"`
}

// In returns the text in the given language, falling back to English.
func (t Text) In(l Language) string {
	if l == LangHindi && t.Hi != "" {
		return t.Hi
	}
	return t.En
}

// --- Adaptive tag enum ---

// AdaptiveTag partitions the engagement pool into draw subsets.
type AdaptiveTag string

const (
	TagStandard       AdaptiveTag = "Standard"
	TagHighEngagement AdaptiveTag = "HighEngagement"
	TagLowEngagement  AdaptiveTag = "LowEngagement"
	TagDeepDive       AdaptiveTag = "DeepDive"
)

var validTags = map[AdaptiveTag]bool{
	TagStandard:       true,
	TagHighEngagement: true,
	TagLowEngagement:  true,
	TagDeepDive:       true,
}

// ValidateTag returns an error if the adaptive tag is not recognized.
func ValidateTag(t AdaptiveTag) error {
	if !validTags[t] {
		return fmt.Errorf("invalid adaptive tag %q: must be one of: Standard, HighEngagement, LowEngagement, DeepDive", t)
	}
	return nil
}

// --- Complexity enum ---

// Complexity is the difficulty tier of a situational item.
type Complexity string

const (
	ComplexityBasic    Complexity = "Basic"
	ComplexityAdvanced Complexity = "Advanced"
	ComplexityCoaching Complexity = "Coaching"
)

var validComplexities = map[Complexity]bool{
	ComplexityBasic:    true,
	ComplexityAdvanced: true,
	ComplexityCoaching: true,
}

// ValidateComplexity returns an error if the complexity is not recognized.
func ValidateComplexity(c Complexity) error {
	if !validComplexities[c] {
		return fmt.Errorf("invalid complexity %q: must be one of: Basic, Advanced, Coaching", c)
	}
	return nil
}

// --- Option keys ---

// Option is the key of a selectable answer on a forced-choice or situational item.
type Option string

const (
	OptionA Option = "A"
	OptionB Option = "B"
	OptionC Option = "C"
	OptionD Option = "D"
)

// ForcedChoiceOptions are the keys every behavioral item must define.
var ForcedChoiceOptions = []Option{OptionA, OptionB}

// SituationalOptions are the keys every situational item must define.
var SituationalOptions = []Option{OptionA, OptionB, OptionC, OptionD}

// ParseOption normalizes raw input into an option key and checks it against
// the allowed set.
func ParseOption(raw string, allowed []Option) (Option, error) {
	o := Option(strings.ToUpper(strings.TrimSpace(raw)))
	for _, a := range allowed {
		if o == a {
			return o, nil
		}
	}
	keys := make([]string, len(allowed))
	for i, a := range allowed {
		keys[i] = string(a)
	}
	return "", fmt.Errorf("invalid option %q: must be one of: %s", raw, strings.Join(keys, ", "))
}

// --- Trait and alignment labels ---

// Trait labels carried by behavioral options.
const (
	TraitExecutor   = "Executor"
	TraitGuardian   = "Guardian"
	TraitHarmonizer = "Harmonizer"
	TraitInformer   = "Informer"
)

// Alignment labels carried by situational options. Only the first three
// influence path growth; the rest are tallied like any other label.
const (
	AlignHighInitiative = "High Initiative"
	AlignStrategic      = "Strategic"
	AlignRiskAverse     = "Risk-Averse"
	AlignCompliant      = "Compliant"
	AlignCollaborative  = "Collaborative"
)

// --- Items ---

// EngagementItem is a five-point Likert statement.
type EngagementItem struct {
	ID        string      `yaml:"id" json:"id"`
	Prompt    Text        `yaml:"prompt" json:"prompt"`
	Dimension string      `yaml:"dimension" json:"dimension"`
	Purpose   string      `yaml:"purpose" json:"purpose,omitempty"`
	Framework string      `yaml:"framework" json:"framework,omitempty"`
	Tag       AdaptiveTag `yaml:"tag" json:"tag"`
}

// TraitChoice is one side of a forced-choice item.
type TraitChoice struct {
	Text  Text   `yaml:"text" json:"text"`
	Trait string `yaml:"trait" json:"trait"`
}

// ForcedChoiceItem is a two-option behavioral scenario.
type ForcedChoiceItem struct {
	ID       string                 `yaml:"id" json:"id"`
	Scenario Text                   `yaml:"scenario" json:"scenario"`
	Options  map[Option]TraitChoice `yaml:"options" json:"options"`
}

// AlignedChoice is one answer of a situational item.
type AlignedChoice struct {
	Text      Text   `yaml:"text" json:"text"`
	Alignment string `yaml:"alignment" json:"alignment"`
}

// SituationalItem is a four-option judgment scenario.
type SituationalItem struct {
	ID         string                   `yaml:"id" json:"id"`
	Scenario   Text                     `yaml:"scenario" json:"scenario"`
	Options    map[Option]AlignedChoice `yaml:"options" json:"options"`
	Complexity Complexity               `yaml:"complexity" json:"complexity"`
}

// --- Static phase content ---

// Card is a titled block of informational content.
type Card struct {
	Title       Text `yaml:"title" json:"title"`
	Description Text `yaml:"description" json:"description"`
}

// TraitRole maps a behavioral trait to the work area it suits.
type TraitRole struct {
	Trait       string `yaml:"trait" json:"trait"`
	Role        Text   `yaml:"role" json:"role"`
	Description Text   `yaml:"description" json:"description"`
}

// Badge names a badge and its rarity tier.
type Badge struct {
	Name string `yaml:"name" json:"name"`
	Tier string `yaml:"tier" json:"tier"`
}
