// Package cache is the client-side data synchronization layer. It keeps a
// keyed, possibly stale copy of remote resources and applies the uniform
// optimistic-mutation protocol: cancel the in-flight refresh for the key,
// patch the cached document structurally, issue the network call, then
// adopt the canonical result or roll the patch back.
package cache

import (
	"context"
	"sync"
	"time"
)

// Resource kinds used in cache keys.
const (
	KindSurvey    = "survey"
	KindInterview = "interview"
	KindAccess    = "access"
)

// Key identifies a cached resource. Different surveys and different
// respondent sessions never collide.
type Key struct {
	Kind        string
	Hash        string
	InterviewID string
}

// SurveyKey builds the key of a survey document.
func SurveyKey(hash string) Key {
	return Key{Kind: KindSurvey, Hash: hash}
}

// InterviewKey builds the key of one respondent session's document.
func InterviewKey(hash, interviewID string) Key {
	return Key{Kind: KindInterview, Hash: hash, InterviewID: interviewID}
}

// AccessKey builds the key of a survey's access list.
func AccessKey(hash string) Key {
	return Key{Kind: KindAccess, Hash: hash}
}

// entry holds one cached value with its freshness timestamp and the
// handle of the in-flight background refresh, if any.
type entry struct {
	value     any
	fetchedAt time.Time

	refreshCancel context.CancelFunc
	refreshGen    uint64
}

// Store is a process-wide keyed cache with refresh bookkeeping. All
// methods are safe for concurrent use; the mutex serializes patch
// application so interleaved optimistic writes never tear.
type Store struct {
	mu      sync.Mutex
	ttl     time.Duration
	entries map[Key]*entry
}

// NewStore creates a Store whose values stay fresh for ttl.
func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:     ttl,
		entries: make(map[Key]*entry),
	}
}

// Get returns the cached value for key and whether it is still fresh.
// ok is false when the key has no value at all.
func (s *Store) Get(key Key) (value any, fresh, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, exists := s.entries[key]
	if !exists || e.value == nil {
		return nil, false, false
	}
	return e.value, time.Since(e.fetchedAt) < s.ttl, true
}

// Put stores a server-fetched value, resetting freshness.
func (s *Store) Put(key Key, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.ensure(key)
	e.value = value
	e.fetchedAt = time.Now()
}

// Update atomically replaces the cached value through fn. fn receives the
// current value (nil when absent) and returns the replacement; returning
// nil leaves the entry untouched. The freshness timestamp is preserved:
// an optimistic patch is not server truth.
func (s *Store) Update(key Key, fn func(current any) any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.ensure(key)
	if next := fn(e.value); next != nil {
		e.value = next
	}
}

// MarkStale zeroes the freshness of a key so the next read refetches,
// while keeping the current value available for immediate display.
func (s *Store) MarkStale(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok {
		e.fetchedAt = time.Time{}
	}
}

// Invalidate drops the key entirely, cancelling any in-flight refresh.
func (s *Store) Invalidate(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok {
		if e.refreshCancel != nil {
			e.refreshCancel()
			e.refreshCancel = nil
		}
		delete(s.entries, key)
	}
}

// BeginRefresh registers a background refresh for key and returns the
// context it must run under plus a generation token. A second refresh for
// the same key supersedes (cancels) the first.
func (s *Store) BeginRefresh(parent context.Context, key Key) (context.Context, uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e := s.ensure(key)
	if e.refreshCancel != nil {
		e.refreshCancel()
	}
	ctx, cancel := context.WithCancel(parent)
	e.refreshCancel = cancel
	e.refreshGen++
	return ctx, e.refreshGen
}

// CompleteRefresh applies a refresh result if the generation token is
// still current. A refresh cancelled by a mutation or superseded by a
// newer refresh reports false and its value is discarded, so a stale GET
// response can never overwrite a fresher optimistic write.
func (s *Store) CompleteRefresh(key Key, gen uint64, value any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[key]
	if !ok || e.refreshGen != gen || e.refreshCancel == nil {
		return false
	}
	e.refreshCancel = nil
	e.value = value
	e.fetchedAt = time.Now()
	return true
}

// CancelRefresh aborts the in-flight refresh for key, if any. Every
// mutation calls this before patching optimistically.
func (s *Store) CancelRefresh(key Key) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.entries[key]; ok && e.refreshCancel != nil {
		e.refreshCancel()
		e.refreshCancel = nil
	}
}

// ensure returns the entry for key, creating it when absent.
// Callers must hold s.mu.
func (s *Store) ensure(key Key) *entry {
	e, ok := s.entries[key]
	if !ok {
		e = &entry{}
		s.entries[key] = e
	}
	return e
}
