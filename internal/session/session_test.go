package session

import (
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/formlane/formlane/internal/errors"
)

var idPattern = regexp.MustCompile(`^[0-9a-f]{16}$`)

func TestNewInterviewID_Shape(t *testing.T) {
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		id := NewInterviewID()
		assert.Regexp(t, idPattern, id)
		assert.False(t, seen[id], "ids must not repeat")
		seen[id] = true
	}
}

func TestStore_InterviewIDPersists(t *testing.T) {
	s := NewStore(t.TempDir())

	id1, isNew, err := s.InterviewID("h1", false)
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.Regexp(t, idPattern, id1)

	id2, isNew, err := s.InterviewID("h1", false)
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, id1, id2)
}

func TestStore_IDsArePerSurvey(t *testing.T) {
	s := NewStore(t.TempDir())

	id1, _, err := s.InterviewID("h1", false)
	require.NoError(t, err)
	id2, _, err := s.InterviewID("h2", false)
	require.NoError(t, err)
	assert.NotEqual(t, id1, id2)
}

func TestStore_DemoNeverPersisted(t *testing.T) {
	dir := t.TempDir()
	s := NewStore(dir)

	demo1, isNew, err := s.InterviewID("h1", true)
	require.NoError(t, err)
	assert.True(t, isNew)

	demo2, _, err := s.InterviewID("h1", true)
	require.NoError(t, err)
	assert.NotEqual(t, demo1, demo2, "every demo run is a fresh session")

	_, err = os.Stat(filepath.Join(dir, stateFile))
	assert.True(t, os.IsNotExist(err), "demo ids must not touch the state file")
}

func TestStore_Clear(t *testing.T) {
	s := NewStore(t.TempDir())

	id1, _, err := s.InterviewID("h1", false)
	require.NoError(t, err)
	require.NoError(t, s.Clear("h1"))

	id2, isNew, err := s.InterviewID("h1", false)
	require.NoError(t, err)
	assert.True(t, isNew)
	assert.NotEqual(t, id1, id2)
}

func TestStore_ClearUnknownHashIsNoop(t *testing.T) {
	s := NewStore(t.TempDir())
	assert.NoError(t, s.Clear("never-seen"))
}

func TestStore_CorruptStateFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, stateFile), []byte("{not json"), 0o600))

	s := NewStore(dir)
	_, _, err := s.InterviewID("h1", false)
	require.Error(t, err)
	var fe *errors.FormlaneError
	require.ErrorAs(t, err, &fe)
	assert.Equal(t, errors.ErrCodeSessionLoadFailed, fe.Code)
}

func TestStore_SurvivesReopen(t *testing.T) {
	dir := t.TempDir()

	id1, _, err := NewStore(dir).InterviewID("h1", false)
	require.NoError(t, err)

	id2, isNew, err := NewStore(dir).InterviewID("h1", false)
	require.NoError(t, err)
	assert.False(t, isNew)
	assert.Equal(t, id1, id2)
}
