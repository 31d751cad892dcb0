package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formlane/formlane/internal/survey"
)

func findCommand(t *testing.T, path ...string) bool {
	t.Helper()
	cur := rootCmd
	for _, name := range path {
		found := false
		for _, c := range cur.Commands() {
			if c.Name() == name {
				cur = c
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

func TestCommandTree(t *testing.T) {
	paths := [][]string{
		{"survey", "list"}, {"survey", "create"}, {"survey", "show"},
		{"survey", "rename"}, {"survey", "publish"}, {"survey", "restore"},
		{"question", "add"}, {"question", "label"}, {"question", "retype"},
		{"question", "reorder"}, {"question", "params"}, {"question", "restore"},
		{"question", "delete"},
		{"option", "add"}, {"option", "label"}, {"option", "reorder"}, {"option", "delete"},
		{"access", "list"}, {"access", "grant"}, {"access", "revoke"},
		{"profile", "show"}, {"profile", "update"},
		{"login"}, {"register"}, {"poll"}, {"stats"}, {"version"},
	}
	for _, p := range paths {
		assert.True(t, findCommand(t, p...), "missing command %v", p)
	}
}

func TestParseQuestionType(t *testing.T) {
	qt, err := parseQuestionType("rating")
	require.NoError(t, err)
	assert.Equal(t, survey.TypeRating, qt)

	_, err = parseQuestionType("matrix")
	assert.Error(t, err)
}

func TestParseID(t *testing.T) {
	id, err := parseID("42", "question id")
	require.NoError(t, err)
	assert.Equal(t, 42, id)

	_, err = parseID("abc", "question id")
	assert.Error(t, err)
}

func TestParamsSummary(t *testing.T) {
	maxLen := 100
	q := survey.Question{
		Type:        survey.TypeShortText,
		ExtraParams: survey.ExtraParams{Required: true, MaxLength: &maxLen},
	}
	assert.Equal(t, " (required, maxLength=100)", paramsSummary(q))
	assert.Equal(t, "", paramsSummary(survey.Question{}))
}

func TestBar(t *testing.T) {
	assert.NotContains(t, bar(0), "█")
	assert.NotContains(t, bar(100), "░")
	half := bar(50)
	assert.Contains(t, half, "█")
	assert.Contains(t, half, "░")
}

func TestInputHint(t *testing.T) {
	assert.Equal(t, "YYYY-MM-DD", inputHint(survey.TypeDate))
	assert.Equal(t, "", inputHint(survey.TypeShortText))
}
