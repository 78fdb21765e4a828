package catalog

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_Loads(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)

	assert.Len(t, cat.EngagementTagged(TagStandard), 15)
	assert.Len(t, cat.EngagementTagged(TagHighEngagement), 7)
	assert.Len(t, cat.EngagementTagged(TagLowEngagement), 7)
	assert.Len(t, cat.EngagementTagged(TagDeepDive), 7)
	assert.Equal(t, 36, cat.EngagementCount())

	assert.Len(t, cat.BehavioralIDs(), 15)

	assert.Len(t, cat.SituationalOf(ComplexityBasic), 15)
	assert.Len(t, cat.SituationalOf(ComplexityAdvanced), 6)
	assert.Len(t, cat.SituationalOf(ComplexityCoaching), 3)
}

func TestDefault_SharedInstance(t *testing.T) {
	a, err := Default()
	require.NoError(t, err)
	b, err := Default()
	require.NoError(t, err)
	assert.Same(t, a, b)
}

func TestDefault_TraitsAndAlignments(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)

	traits := map[string]bool{}
	for _, id := range cat.BehavioralIDs() {
		q, ok := cat.BehavioralByID(id)
		require.True(t, ok)
		for _, o := range ForcedChoiceOptions {
			traits[q.Options[o].Trait] = true
		}
	}
	assert.Equal(t, map[string]bool{
		TraitExecutor: true, TraitGuardian: true, TraitHarmonizer: true, TraitInformer: true,
	}, traits)

	strategic := 0
	for _, id := range cat.SituationalOf(ComplexityBasic) {
		q, ok := cat.SituationalByID(id)
		require.True(t, ok)
		for _, o := range SituationalOptions {
			if q.Options[o].Alignment == AlignStrategic {
				strategic++
			}
		}
	}
	assert.Greater(t, strategic, 3, "enough strategic options to earn the badge")
}

func TestDefault_PhaseContent(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)

	likert := cat.LikertLabels()
	require.Len(t, likert, 5)
	assert.Equal(t, "Strongly Agree", likert[4].En)

	opts := cat.FeedbackOptions()
	require.Len(t, opts, 8)
	assert.Equal(t, "Excellent work environment", opts[0].En)
	assert.Equal(t, "Work-life balance is satisfactory", opts[7].En)

	role, ok := cat.RoleFor(TraitGuardian)
	require.True(t, ok)
	assert.Equal(t, "Quality & Maintenance", role.Role.En)

	assert.Len(t, cat.Growth(), 3)
	assert.Len(t, cat.Institutionalization(), 3)
	assert.Len(t, cat.Safeguards(), 2)

	assert.Equal(t, "Legendary", cat.BadgeTier("High Morale Hero"))
	assert.Equal(t, "Common", cat.BadgeTier("Certified Participant"))
	assert.Empty(t, cat.BadgeTier("Unknown"))
}

func TestFeedbackLabel(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)

	label, fixed := cat.FeedbackLabel("सुरक्षा मानकों में सुधार की आवश्यकता है")
	assert.True(t, fixed)
	assert.Equal(t, "Safety standards need improvement", label)

	label, fixed = cat.FeedbackLabel("More fans on line 3")
	assert.False(t, fixed)
	assert.Equal(t, "More fans on line 3", label)
}

func TestAccessorsReturnCopies(t *testing.T) {
	cat, err := Default()
	require.NoError(t, err)

	opts := cat.FeedbackOptions()
	opts[0].En = "mutated"
	assert.Equal(t, "Excellent work environment", cat.FeedbackOptions()[0].En)

	ids := cat.BehavioralIDs()
	ids[0] = "mutated"
	assert.NotEqual(t, "mutated", cat.BehavioralIDs()[0])
}

func TestParse_RejectsDuplicateIDs(t *testing.T) {
	doc := []byte(`
engagement:
  - {id: E01, prompt: {en: a}, tag: Standard}
  - {id: E01, prompt: {en: b}, tag: Standard}
`)
	_, err := Parse(doc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate engagement id")
}

func TestParse_RejectsBadTag(t *testing.T) {
	_, err := Parse([]byte(`
engagement:
  - {id: E01, prompt: {en: a}, tag: Sometimes}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid adaptive tag")
}

func TestParse_RejectsIncompleteOptions(t *testing.T) {
	_, err := Parse([]byte(`
behavioral:
  - id: B01
    scenario: {en: s}
    options:
      A: {text: {en: x}, trait: Executor}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "want 2 options")

	_, err = Parse([]byte(`
situational:
  - id: S01
    complexity: Basic
    scenario: {en: s}
    options:
      A: {text: {en: a}, alignment: Strategic}
      B: {text: {en: b}, alignment: Strategic}
      C: {text: {en: c}, alignment: Strategic}
      E: {text: {en: e}, alignment: Strategic}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "option D missing")
}

func TestParse_RejectsMissingID(t *testing.T) {
	_, err := Parse([]byte(`
situational:
  - {complexity: Basic, scenario: {en: s}}
`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "has no id")
}

func TestParseOption(t *testing.T) {
	o, err := ParseOption(" b ", ForcedChoiceOptions)
	require.NoError(t, err)
	assert.Equal(t, OptionB, o)

	_, err = ParseOption("C", ForcedChoiceOptions)
	assert.Error(t, err)

	o, err = ParseOption("d", SituationalOptions)
	require.NoError(t, err)
	assert.Equal(t, OptionD, o)

	_, err = ParseOption("", SituationalOptions)
	assert.Error(t, err)
}

func TestText_In(t *testing.T) {
	tx := Text{En: "Hello", Hi: "नमस्ते"}
	assert.Equal(t, "Hello", tx.In(LangEnglish))
	assert.Equal(t, "नमस्ते", tx.In(LangHindi))
	assert.Equal(t, "Only", Text{En: "Only"}.In(LangHindi))
}

func TestValidateEnums(t *testing.T) {
	assert.NoError(t, ValidateLanguage(LangHindi))
	assert.Error(t, ValidateLanguage("fr"))
	assert.NoError(t, ValidateComplexity(ComplexityCoaching))
	assert.Error(t, ValidateComplexity("Expert"))
	assert.NoError(t, ValidateTag(TagDeepDive))
	assert.Error(t, ValidateTag(""))
}
