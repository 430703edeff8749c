package revalidate

import (
	"sync"
	"time"
)

type Entry struct {
	Status      int
	ContentType string
	Body        []byte
	expires     time.Time
	tags        []Tag
}

// Store is an in-memory response cache indexed by tag.
type Store struct {
	mu      sync.RWMutex
	ttl     time.Duration
	entries map[string]Entry
	byTag   map[Tag]map[string]struct{}
	now     func() time.Time
}

func NewStore(ttl time.Duration) *Store {
	return &Store{
		ttl:     ttl,
		entries: make(map[string]Entry),
		byTag:   make(map[Tag]map[string]struct{}),
		now:     time.Now,
	}
}

func (s *Store) Get(key string) (Entry, bool) {
	s.mu.RLock()
	e, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return Entry{}, false
	}
	if s.now().After(e.expires) {
		s.mu.Lock()
		s.removeLocked(key)
		s.mu.Unlock()
		return Entry{}, false
	}
	return e, true
}

func (s *Store) Set(key string, e Entry, tags []Tag) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.removeLocked(key)
	e.expires = s.now().Add(s.ttl)
	e.tags = tags
	s.entries[key] = e
	for _, t := range tags {
		keys, ok := s.byTag[t]
		if !ok {
			keys = make(map[string]struct{})
			s.byTag[t] = keys
		}
		keys[key] = struct{}{}
	}
}

// Invalidate drops every entry carrying any of tags and returns how many were removed.
func (s *Store) Invalidate(tags ...Tag) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := 0
	for _, t := range tags {
		for key := range s.byTag[t] {
			if _, ok := s.entries[key]; ok {
				s.removeLocked(key)
				n++
			}
		}
		delete(s.byTag, t)
	}
	return n
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store) removeLocked(key string) {
	e, ok := s.entries[key]
	if !ok {
		return
	}
	delete(s.entries, key)
	for _, t := range e.tags {
		if keys, ok := s.byTag[t]; ok {
			delete(keys, key)
			if len(keys) == 0 {
				delete(s.byTag, t)
			}
		}
	}
}
