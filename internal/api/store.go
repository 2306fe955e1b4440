// Package api serves the current boards as JSON so other devices on the
// network can show the same countdowns as the display.
package api

import (
	"strings"
	"sync"
	"time"

	"github.com/akyairhashvil/integrity/internal/models"
)

// Store holds the most recently rendered boards. The display publishes to it
// after every refresh; handlers only read.
type Store struct {
	mu        sync.RWMutex
	boards    []models.Board
	updatedAt time.Time
	errText   string
	stale     bool
}

func NewStore() *Store {
	return &Store{}
}

// Publish replaces the stored boards. A non-nil err is kept alongside them so
// clients can tell the data may be old.
func (s *Store) Publish(boards []models.Board, at time.Time, err error, stale bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.boards = append([]models.Board(nil), boards...)
	s.updatedAt = at
	s.stale = stale
	s.errText = ""
	if err != nil {
		s.errText = err.Error()
	}
}

// Boards returns a copy of the stored boards and when they were published.
func (s *Store) Boards() ([]models.Board, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]models.Board(nil), s.boards...), s.updatedAt
}

// Board looks a person up case-insensitively.
func (s *Store) Board(person string) (models.Board, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, b := range s.boards {
		if strings.EqualFold(b.Person, person) {
			return b, true
		}
	}
	return models.Board{}, false
}

func (s *Store) status() (time.Time, string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt, s.errText, s.stale
}
