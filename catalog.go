package prefs

import (
	"slices"
	"strings"
)

var (
	DefaultLanguages = []string{"English", "Spanish", "French", "Portuguese", "German", "Italian"}
	DefaultLengths   = []string{"1 minute", "3 minutes", "5 minutes", "8 minutes", "10 minutes", "12 minutes"}
	DefaultThemes    = []string{"Friendship", "Family", "Siblings", "Adventure", "Romance", "Magic", "Mystery", "Courage", "Kindness", "Learning"}
	DefaultTopics    = []string{"Dinosaurs", "Robots", "Space", "Princesses", "Wizards", "Animals", "Pirates", "Fairies", "Dragons", "Superheroes"}
)

// Availability rules for the custom entries. They hold when the custom
// field has any text; whitespace-only values are filtered afterwards.
const (
	DefaultThemeRule = `customTheme != ""`
	DefaultTopicRule = `customTopic != ""`
)

// Catalog holds the option lists offered by the settings screen and decides
// whether the custom theme and topic are selectable.
type Catalog struct {
	languages []string
	lengths   []string
	themes    []string
	topics    []string

	themeRule string
	topicRule string
	evaluator Evaluator
	logger    EvaluatorLogger
}

// CatalogOption configures a Catalog.
type CatalogOption func(*Catalog)

// WithRuleEvaluator replaces the default expr evaluator.
func WithRuleEvaluator(evaluator Evaluator) CatalogOption {
	return func(c *Catalog) {
		if evaluator != nil {
			c.evaluator = evaluator
		}
	}
}

// WithThemeRule overrides the rule that gates the custom theme.
func WithThemeRule(expr string) CatalogOption {
	return func(c *Catalog) {
		if strings.TrimSpace(expr) != "" {
			c.themeRule = expr
		}
	}
}

// WithTopicRule overrides the rule that gates the custom topic.
func WithTopicRule(expr string) CatalogOption {
	return func(c *Catalog) {
		if strings.TrimSpace(expr) != "" {
			c.topicRule = expr
		}
	}
}

func WithEvaluatorLogger(logger EvaluatorLogger) CatalogOption {
	return func(c *Catalog) {
		c.logger = logger
	}
}

// WithOptionLists replaces the built-in lists. Nil lists keep the defaults.
func WithOptionLists(languages, lengths, themes, topics []string) CatalogOption {
	return func(c *Catalog) {
		if languages != nil {
			c.languages = slices.Clone(languages)
		}
		if lengths != nil {
			c.lengths = slices.Clone(lengths)
		}
		if themes != nil {
			c.themes = slices.Clone(themes)
		}
		if topics != nil {
			c.topics = slices.Clone(topics)
		}
	}
}

func NewCatalog(opts ...CatalogOption) *Catalog {
	c := &Catalog{
		languages: slices.Clone(DefaultLanguages),
		lengths:   slices.Clone(DefaultLengths),
		themes:    slices.Clone(DefaultThemes),
		topics:    slices.Clone(DefaultTopics),
		themeRule: DefaultThemeRule,
		topicRule: DefaultTopicRule,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	if c.evaluator == nil {
		c.evaluator = NewExprEvaluator(WithProgramCache(NewProgramCache()), WithFunctions(DefaultFunctions()))
	}
	return c
}

func (c *Catalog) Languages() []string { return slices.Clone(c.languages) }
func (c *Catalog) Lengths() []string   { return slices.Clone(c.lengths) }
func (c *Catalog) Themes() []string    { return slices.Clone(c.themes) }
func (c *Catalog) Topics() []string    { return slices.Clone(c.topics) }

// Engine reports the engine evaluating availability rules.
func (c *Catalog) Engine() Engine { return c.evaluator.Engine() }

// AvailableThemes returns the default themes plus the trimmed custom theme
// when its rule holds. Selections are not consulted: a custom value already
// selected stays selected even when it is no longer offered.
func (c *Catalog) AvailableThemes(s UserSettings) ([]string, error) {
	return c.available(s, c.themes, s.CustomTheme, "customTheme", c.themeRule)
}

// AvailableTopics is AvailableThemes for topics.
func (c *Catalog) AvailableTopics(s UserSettings) ([]string, error) {
	return c.available(s, c.topics, s.CustomTopic, "customTopic", c.topicRule)
}

func (c *Catalog) available(s UserSettings, base []string, custom, rule, expr string) ([]string, error) {
	out := slices.Clone(base)
	custom = strings.TrimSpace(custom)

	ok, err := EvaluateBool(c.evaluator, c.logger, RuleContext{Snapshot: s.Snapshot(), Rule: rule}, expr)
	if err != nil {
		return out, err
	}
	if ok && custom != "" && !slices.Contains(out, custom) {
		out = append(out, custom)
	}
	return out, nil
}
