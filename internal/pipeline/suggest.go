package pipeline

import (
	"strings"
	"time"

	"github.com/mlefevre/todopro/internal/model"
)

// Draft accumulates the fields of a task being composed, remembering which
// of them the user set explicitly so suggestions never overwrite a choice.
type Draft struct {
	Title    string
	Category string
	Priority model.Priority
	TagsRaw  string
	DueDate  *time.Time

	CategoryTouched bool
	PriorityTouched bool
	TagsTouched     bool
}

// NewDraft returns a draft with the default priority and no category, so an
// untouched draft materializes with DefaultCategory at add time.
func NewDraft(title string) Draft {
	return Draft{Title: title, Priority: model.PriorityNormal}
}

// ChooseCategory records an explicit category selection.
func (d *Draft) ChooseCategory(category string) {
	d.Category = category
	d.CategoryTouched = true
}

// ChoosePriority records an explicit priority selection.
func (d *Draft) ChoosePriority(p model.Priority) {
	d.Priority = p
	d.PriorityTouched = true
}

// ChooseTags records explicitly entered tag text.
func (d *Draft) ChooseTags(raw string) {
	d.TagsRaw = raw
	d.TagsTouched = true
}

// Suggestion holds keyword-derived defaults for a draft. Nil or empty fields
// mean "no opinion".
type Suggestion struct {
	Category string
	Priority *model.Priority
	Tags     []string
}

// Empty reports whether the suggestion proposes nothing.
func (s Suggestion) Empty() bool {
	return s.Category == "" && s.Priority == nil && len(s.Tags) == 0
}

type suggestionRule struct {
	keywords []string
	category string
	priority *model.Priority
	tags     []string
}

func priorityOf(p model.Priority) *model.Priority { return &p }

// Rule order matters: later rules only fill fields earlier ones left empty,
// and tags accumulate across all matching rules.
var suggestionRules = []suggestionRule{
	{
		keywords: []string{"study", "exam", "revise", "homework"},
		category: "Personal",
		tags:     []string{"#study", "#exam"},
	},
	{
		keywords: []string{"meeting", "client", "report"},
		category: "Work",
		tags:     []string{"#work"},
	},
	{
		keywords: []string{"groceries", "buy", "shopping"},
		category: "Shopping",
		tags:     []string{"#shopping"},
	},
	{
		keywords: []string{"urgent", "today"},
		priority: priorityOf(model.PriorityHigh),
		tags:     []string{"#urgent"},
	},
	{
		keywords: []string{"tomorrow"},
		priority: priorityOf(model.PriorityNormal),
	},
}

// Suggest scans the title for known keywords and proposes a category,
// priority, and tags. Matching is case-insensitive substring search.
func Suggest(title string) Suggestion {
	lowered := strings.ToLower(title)

	var s Suggestion
	for _, rule := range suggestionRules {
		if !matchesAny(lowered, rule.keywords) {
			continue
		}
		if s.Category == "" {
			s.Category = rule.category
		}
		if s.Priority == nil {
			s.Priority = rule.priority
		}
		s.Tags = append(s.Tags, rule.tags...)
	}
	return s
}

func matchesAny(lowered string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(lowered, kw) {
			return true
		}
	}
	return false
}

// Apply fills the draft's untouched fields from the suggestion. Suggested
// tags merge with any existing ones (deduplicated, order preserved) unless
// the user already edited the tag text.
func (s Suggestion) Apply(d *Draft) {
	if s.Category != "" && !d.CategoryTouched {
		d.Category = s.Category
	}
	if s.Priority != nil && !d.PriorityTouched {
		d.Priority = *s.Priority
	}
	if len(s.Tags) > 0 && !d.TagsTouched {
		merged := model.TagTokens(d.TagsRaw + " " + strings.Join(s.Tags, " "))
		d.TagsRaw = strings.Join(merged, ", ")
	}
}
