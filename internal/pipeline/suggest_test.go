package pipeline

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mlefevre/todopro/internal/model"
)

func TestSuggest_StudyKeywords(t *testing.T) {
	s := Suggest("Revise for the physics EXAM")

	assert.Equal(t, "Personal", s.Category)
	assert.Nil(t, s.Priority)
	assert.Equal(t, []string{"#study", "#exam"}, s.Tags)
}

func TestSuggest_WorkKeywords(t *testing.T) {
	s := Suggest("prepare client meeting")

	assert.Equal(t, "Work", s.Category)
	assert.Equal(t, []string{"#work"}, s.Tags)
}

func TestSuggest_UrgencyRaisesPriority(t *testing.T) {
	s := Suggest("buy groceries today")

	assert.Equal(t, "Shopping", s.Category)
	require.NotNil(t, s.Priority)
	assert.Equal(t, model.PriorityHigh, *s.Priority)
	assert.Equal(t, []string{"#shopping", "#urgent"}, s.Tags)
}

func TestSuggest_TomorrowKeepsNormalPriority(t *testing.T) {
	s := Suggest("call the bank tomorrow")

	require.NotNil(t, s.Priority)
	assert.Equal(t, model.PriorityNormal, *s.Priority)
}

func TestSuggest_NoKeywords(t *testing.T) {
	assert.True(t, Suggest("water the plants").Empty())
}

func TestApply_FillsUntouchedFields(t *testing.T) {
	d := NewDraft("urgent report")
	Suggest(d.Title).Apply(&d)

	assert.Equal(t, "Work", d.Category)
	assert.Equal(t, model.PriorityHigh, d.Priority)
	assert.Equal(t, "#work, #urgent", d.TagsRaw)
}

func TestApply_NeverOverridesUserChoices(t *testing.T) {
	d := NewDraft("urgent report")
	d.ChooseCategory("Personal")
	d.ChoosePriority(model.PriorityLow)
	d.ChooseTags("#mine")

	Suggest(d.Title).Apply(&d)

	assert.Equal(t, "Personal", d.Category)
	assert.Equal(t, model.PriorityLow, d.Priority)
	assert.Equal(t, "#mine", d.TagsRaw)
}

func TestApply_MergesTagsWithoutDuplicates(t *testing.T) {
	d := NewDraft("urgent meeting")
	d.TagsRaw = "#work" // pre-filled, not user-touched

	Suggest(d.Title).Apply(&d)

	// The merged raw string parses back into distinct tags.
	assert.Equal(t, []string{"#work", "#urgent"}, model.ParseTags(d.TagsRaw))
}
