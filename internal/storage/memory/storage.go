package memory

import (
	"cmp"
	"context"
	"slices"
	"sync"

	"github.com/mcoot/wordrush/internal/model"
	"github.com/mcoot/wordrush/internal/storage"
)

// Storage keeps archived rounds and the word list in process memory
type Storage struct {
	mu sync.RWMutex

	results map[model.SessionID]*model.RoundResult
	words   []string
}

var _ storage.Storage = (*Storage)(nil)

// New creates an empty Storage
func New() *Storage {
	return &Storage{
		results: make(map[model.SessionID]*model.RoundResult),
	}
}

func (s *Storage) SaveRoundResult(_ context.Context, result *model.RoundResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[result.SessionID] = cloneResult(result)
	return nil
}

func (s *Storage) GetRoundResult(_ context.Context, id model.SessionID) (*model.RoundResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result, ok := s.results[id]
	if !ok {
		return nil, model.ErrResultNotFound
	}
	return cloneResult(result), nil
}

func (s *Storage) RoundResultExists(_ context.Context, id model.SessionID) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.results[id]
	return ok, nil
}

func (s *Storage) RecentRoundResults(_ context.Context, limit int) ([]*model.RoundResult, error) {
	s.mu.RLock()
	all := make([]*model.RoundResult, 0, len(s.results))
	for _, r := range s.results {
		all = append(all, cloneResult(r))
	}
	s.mu.RUnlock()

	slices.SortFunc(all, func(a, b *model.RoundResult) int {
		if c := b.EndedAt.Compare(a.EndedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.SessionID, b.SessionID)
	})

	if limit >= 0 && len(all) > limit {
		all = all[:limit]
	}
	return all, nil
}

// cloneResult copies the slices so callers can't mutate stored state
func cloneResult(r *model.RoundResult) *model.RoundResult {
	c := *r
	c.Rankings = slices.Clone(r.Rankings)
	c.Claims = slices.Clone(r.Claims)
	c.PossibleWords = slices.Clone(r.PossibleWords)
	return &c
}

func (s *Storage) GetDictionaryWords(_ context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.words == nil {
		return nil, model.ErrDictionaryNotLoaded
	}
	return slices.Clone(s.words), nil
}

func (s *Storage) SaveDictionaryWords(_ context.Context, words []string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.words = append(make([]string, 0, len(words)), words...)
	return nil
}
