// Package session owns the respondent identity of interviews: a random
// 16-character id generated client-side and persisted per survey hash,
// so an interrupted poll resumes with its answers intact.
package session

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"

	"github.com/formlane/formlane/internal/errors"
)

const stateFile = "interviews.json"

// Store persists interview ids under the state directory.
type Store struct {
	path string
}

// NewStore creates a session store rooted at stateDir.
func NewStore(stateDir string) *Store {
	return &Store{path: filepath.Join(stateDir, stateFile)}
}

// NewInterviewID generates a fresh 16-character alphanumeric id.
func NewInterviewID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}

// InterviewID returns the persisted id for the survey, generating and
// saving a new one on first contact. isNew reports whether the id was
// just created, which callers use to decide between starting and
// resuming an interview.
//
// Demo runs always get a fresh id and are never persisted: a test run
// of one's own survey must not occupy the real respondent slot.
func (s *Store) InterviewID(hash string, demo bool) (id string, isNew bool, err error) {
	if demo {
		return NewInterviewID(), true, nil
	}

	ids, err := s.load()
	if err != nil {
		return "", false, err
	}
	if id, ok := ids[hash]; ok && id != "" {
		return id, false, nil
	}

	id = NewInterviewID()
	ids[hash] = id
	if err := s.save(ids); err != nil {
		return "", false, err
	}
	return id, true, nil
}

// Clear forgets the persisted id of a survey. The next poll run starts
// a brand-new interview.
func (s *Store) Clear(hash string) error {
	ids, err := s.load()
	if err != nil {
		return err
	}
	if _, ok := ids[hash]; !ok {
		return nil
	}
	delete(ids, hash)
	return s.save(ids)
}

func (s *Store) load() (map[string]string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]string{}, nil
		}
		return nil, errors.NewSessionLoadError(s.path, err)
	}

	ids := map[string]string{}
	if err := json.Unmarshal(data, &ids); err != nil {
		return nil, errors.NewSessionLoadError(s.path, err)
	}
	return ids, nil
}

func (s *Store) save(ids map[string]string) error {
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errors.Wrap(errors.ErrCodeSessionSaveFailed, "failed to create state directory", err)
	}
	data, err := json.MarshalIndent(ids, "", "  ")
	if err != nil {
		return errors.Wrap(errors.ErrCodeSessionSaveFailed, "failed to encode interview state", err)
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return errors.Wrap(errors.ErrCodeSessionSaveFailed, "failed to write interview state", err)
	}
	return nil
}
