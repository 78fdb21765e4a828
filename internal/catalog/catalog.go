package catalog

import (
	_ "embed"
	"fmt"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

// document is the on-disk shape of catalog.yaml.
type document struct {
	Engagement           []EngagementItem   `yaml:"engagement"`
	Behavioral           []ForcedChoiceItem `yaml:"behavioral"`
	Situational          []SituationalItem  `yaml:"situational"`
	Likert               []Text             `yaml:"likert"`
	FeedbackOptions      []Text             `yaml:"feedback_options"`
	TraitRoles           []TraitRole        `yaml:"trait_roles"`
	Growth               []Card             `yaml:"growth"`
	Institutionalization []Card             `yaml:"institutionalization"`
	Safeguards           []Card             `yaml:"safeguards"`
	Badges               []Badge            `yaml:"badges"`
}

// Catalog is the immutable set of question pools and phase content.
type Catalog struct {
	doc document

	engagementByID  map[string]int
	behavioralByID  map[string]int
	situationalByID map[string]int
	badgeTiers      map[string]string
}

var (
	defaultOnce sync.Once
	defaultCat  *Catalog
	defaultErr  error
)

// Default returns the catalog compiled into the binary. It is parsed on first
// use and shared afterwards.
func Default() (*Catalog, error) {
	defaultOnce.Do(func() {
		defaultCat, defaultErr = Parse(embeddedCatalog)
	})
	return defaultCat, defaultErr
}

// Parse decodes and validates a catalog document.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("catalog: parse: %w", err)
	}

	c := &Catalog{
		doc:             doc,
		engagementByID:  make(map[string]int, len(doc.Engagement)),
		behavioralByID:  make(map[string]int, len(doc.Behavioral)),
		situationalByID: make(map[string]int, len(doc.Situational)),
		badgeTiers:      make(map[string]string, len(doc.Badges)),
	}

	for i, q := range doc.Engagement {
		if err := c.indexID(c.engagementByID, "engagement", q.ID, i); err != nil {
			return nil, err
		}
		if err := ValidateTag(q.Tag); err != nil {
			return nil, fmt.Errorf("catalog: engagement item %s: %w", q.ID, err)
		}
	}
	for i, q := range doc.Behavioral {
		if err := c.indexID(c.behavioralByID, "behavioral", q.ID, i); err != nil {
			return nil, err
		}
		if len(q.Options) != len(ForcedChoiceOptions) {
			return nil, fmt.Errorf("catalog: behavioral item %s: want %d options, got %d", q.ID, len(ForcedChoiceOptions), len(q.Options))
		}
		for _, o := range ForcedChoiceOptions {
			if opt, ok := q.Options[o]; !ok || opt.Trait == "" {
				return nil, fmt.Errorf("catalog: behavioral item %s: option %s missing or without trait", q.ID, o)
			}
		}
	}
	for i, q := range doc.Situational {
		if err := c.indexID(c.situationalByID, "situational", q.ID, i); err != nil {
			return nil, err
		}
		if err := ValidateComplexity(q.Complexity); err != nil {
			return nil, fmt.Errorf("catalog: situational item %s: %w", q.ID, err)
		}
		if len(q.Options) != len(SituationalOptions) {
			return nil, fmt.Errorf("catalog: situational item %s: want %d options, got %d", q.ID, len(SituationalOptions), len(q.Options))
		}
		for _, o := range SituationalOptions {
			if opt, ok := q.Options[o]; !ok || opt.Alignment == "" {
				return nil, fmt.Errorf("catalog: situational item %s: option %s missing or without alignment", q.ID, o)
			}
		}
	}
	for _, b := range doc.Badges {
		c.badgeTiers[b.Name] = b.Tier
	}

	return c, nil
}

func (c *Catalog) indexID(index map[string]int, pool, id string, pos int) error {
	if id == "" {
		return fmt.Errorf("catalog: %s item at position %d has no id", pool, pos)
	}
	if _, dup := index[id]; dup {
		return fmt.Errorf("catalog: duplicate %s id %q", pool, id)
	}
	index[id] = pos
	return nil
}

// --- Engagement pool ---

// EngagementByID looks up an engagement item.
func (c *Catalog) EngagementByID(id string) (EngagementItem, bool) {
	i, ok := c.engagementByID[id]
	if !ok {
		return EngagementItem{}, false
	}
	return c.doc.Engagement[i], true
}

// EngagementTagged returns the ids of engagement items with the given tag, in
// catalog order.
func (c *Catalog) EngagementTagged(tag AdaptiveTag) []string {
	var ids []string
	for _, q := range c.doc.Engagement {
		if q.Tag == tag {
			ids = append(ids, q.ID)
		}
	}
	return ids
}

// EngagementCount is the size of the engagement pool.
func (c *Catalog) EngagementCount() int { return len(c.doc.Engagement) }

// --- Behavioral pool ---

// BehavioralByID looks up a forced-choice item.
func (c *Catalog) BehavioralByID(id string) (ForcedChoiceItem, bool) {
	i, ok := c.behavioralByID[id]
	if !ok {
		return ForcedChoiceItem{}, false
	}
	return c.doc.Behavioral[i], true
}

// BehavioralIDs returns every forced-choice id in catalog order.
func (c *Catalog) BehavioralIDs() []string {
	ids := make([]string, len(c.doc.Behavioral))
	for i, q := range c.doc.Behavioral {
		ids[i] = q.ID
	}
	return ids
}

// --- Situational pool ---

// SituationalByID looks up a situational item.
func (c *Catalog) SituationalByID(id string) (SituationalItem, bool) {
	i, ok := c.situationalByID[id]
	if !ok {
		return SituationalItem{}, false
	}
	return c.doc.Situational[i], true
}

// SituationalOf returns the ids of situational items with the given
// complexity, in catalog order.
func (c *Catalog) SituationalOf(cx Complexity) []string {
	var ids []string
	for _, q := range c.doc.Situational {
		if q.Complexity == cx {
			ids = append(ids, q.ID)
		}
	}
	return ids
}

// --- Phase content ---

// LikertLabels returns the five agreement labels, from 1 (strongly disagree)
// to 5 (strongly agree).
func (c *Catalog) LikertLabels() []Text {
	return append([]Text(nil), c.doc.Likert...)
}

// FeedbackOptions returns the fixed feedback choices in presentation order.
func (c *Catalog) FeedbackOptions() []Text {
	return append([]Text(nil), c.doc.FeedbackOptions...)
}

// TraitRoles returns the trait to work-area mapping shown after the
// behavioral phase.
func (c *Catalog) TraitRoles() []TraitRole {
	return append([]TraitRole(nil), c.doc.TraitRoles...)
}

// RoleFor returns the role mapped to a trait.
func (c *Catalog) RoleFor(trait string) (TraitRole, bool) {
	for _, r := range c.doc.TraitRoles {
		if r.Trait == trait {
			return r, true
		}
	}
	return TraitRole{}, false
}

// Growth returns the growth pathway cards.
func (c *Catalog) Growth() []Card {
	return append([]Card(nil), c.doc.Growth...)
}

// Institutionalization returns the rollout roadmap steps.
func (c *Catalog) Institutionalization() []Card {
	return append([]Card(nil), c.doc.Institutionalization...)
}

// Safeguards returns the notes shown alongside the rollout roadmap.
func (c *Catalog) Safeguards() []Card {
	return append([]Card(nil), c.doc.Safeguards...)
}

// Badges returns the badge table.
func (c *Catalog) Badges() []Badge {
	return append([]Badge(nil), c.doc.Badges...)
}

// BadgeTier returns the rarity tier of a badge, or "" when unknown.
func (c *Catalog) BadgeTier(name string) string {
	return c.badgeTiers[name]
}

// FeedbackLabel resolves free feedback input against the fixed options: an
// exact match in either language returns the English label. Anything else is
// returned unchanged.
func (c *Catalog) FeedbackLabel(input string) (string, bool) {
	for _, opt := range c.doc.FeedbackOptions {
		if input == opt.En || input == opt.Hi {
			return opt.En, true
		}
	}
	return input, false
}
