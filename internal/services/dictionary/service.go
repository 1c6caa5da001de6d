package dictionary

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/mcoot/wordrush/internal/model"
	"github.com/mcoot/wordrush/internal/services/letters"
	"github.com/mcoot/wordrush/internal/storage"
)

// Source names where the word list can be loaded from. Empty fields are skipped.
type Source struct {
	URL  string
	Path string
}

// Service provides dictionary/word validation functionality.
// The word set is replaced wholesale on load and never mutated afterwards.
type Service struct {
	storage    storage.Storage
	logger     *slog.Logger
	httpClient *http.Client
	collation  language.Tag

	mu     sync.RWMutex
	words  map[string]struct{}
	loaded bool
}

// New creates a new DictionaryService
func New(storage storage.Storage, logger *slog.Logger) *Service {
	return &Service{
		storage:    storage,
		logger:     logger.With(slog.String("component", "dictionary")),
		httpClient: &http.Client{Timeout: 30 * time.Second},
		collation:  language.Swedish,
		words:      make(map[string]struct{}),
	}
}

// Load tries each configured source in turn, then the storage cache, then the
// built-in fallback list. It only fails if even the fallback cannot be loaded.
func (s *Service) Load(ctx context.Context, src Source) error {
	if src.URL != "" {
		err := s.LoadFromURL(ctx, src.URL)
		if err == nil {
			return nil
		}
		s.logger.Warn("could not fetch dictionary", slog.String("url", src.URL), slog.String("error", err.Error()))
	}

	if src.Path != "" {
		err := s.LoadFromFile(ctx, src.Path)
		if err == nil {
			return nil
		}
		s.logger.Warn("could not read dictionary file", slog.String("path", src.Path), slog.String("error", err.Error()))
	}

	err := s.LoadFromStorage(ctx)
	if err == nil {
		s.logger.Info("dictionary loaded from storage cache", slog.Int("words", s.WordCount()))
		return nil
	}
	if !errors.Is(err, model.ErrDictionaryNotLoaded) {
		s.logger.Warn("could not read cached dictionary", slog.String("error", err.Error()))
	}

	s.logger.Warn("using built-in fallback dictionary", slog.Int("words", len(fallbackWords)))
	return s.LoadWords(fallbackWords)
}

// LoadFromStorage loads dictionary words from storage
func (s *Service) LoadFromStorage(ctx context.Context) error {
	words, err := s.storage.GetDictionaryWords(ctx)
	if err != nil {
		return err
	}
	return s.loadWords(words)
}

// LoadFromFile loads dictionary words from a file (one word per line)
func (s *Service) LoadFromFile(ctx context.Context, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()

	words, err := parseWords(file)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}
	return s.loadAndCache(ctx, words)
}

// LoadFromURL fetches a newline-delimited word list over HTTP
func (s *Service) LoadFromURL(ctx context.Context, url string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetch dictionary: HTTP %d", resp.StatusCode)
	}

	words, err := parseWords(resp.Body)
	if err != nil {
		return fmt.Errorf("fetch dictionary: %w", err)
	}
	return s.loadAndCache(ctx, words)
}

// LoadWords directly loads a slice of words (useful for testing)
func (s *Service) LoadWords(words []string) error {
	return s.loadWords(words)
}

func (s *Service) loadAndCache(ctx context.Context, words []string) error {
	if len(words) == 0 {
		return model.ErrDictionaryNotLoaded
	}

	// Save to storage for future use
	if err := s.storage.SaveDictionaryWords(ctx, words); err != nil {
		s.logger.Warn("could not cache dictionary", slog.String("error", err.Error()))
	}

	if err := s.loadWords(words); err != nil {
		return err
	}
	s.logger.Info("dictionary loaded", slog.Int("words", s.WordCount()))
	return nil
}

func (s *Service) loadWords(words []string) error {
	set := make(map[string]struct{}, len(words))
	for _, word := range words {
		word = letters.Normalize(word)
		if word != "" {
			set[word] = struct{}{}
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.words = set
	s.loaded = true
	return nil
}

// parseWords reads one word per line, skipping blanks and # comments
func parseWords(r io.Reader) ([]string, error) {
	var words []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		word := strings.TrimSpace(scanner.Text())
		if word == "" || strings.HasPrefix(word, "#") {
			continue
		}
		words = append(words, word)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return words, nil
}

// IsValidWord checks if a word exists in the dictionary, ignoring case
func (s *Service) IsValidWord(word string) bool {
	word = letters.Normalize(word)
	if word == "" {
		return false
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.loaded {
		return false
	}

	_, ok := s.words[word]
	return ok
}

// IsLoaded returns whether the dictionary has been loaded
func (s *Service) IsLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loaded
}

// WordCount returns the number of words in the dictionary
func (s *Service) WordCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.words)
}

// FindFormableWords returns every dictionary word of at least minLength letters
// that can be spelled from bag. Results are uppercase, longest first, then in
// Swedish alphabetical order.
func (s *Service) FindFormableWords(bag []rune, minLength int) []string {
	s.mu.RLock()
	results := []string{}
	for word := range s.words {
		if letters.Length(word) >= minLength && letters.CanForm(word, bag) {
			results = append(results, word)
		}
	}
	s.mu.RUnlock()

	// Collators keep internal buffers, so each call gets its own
	col := collate.New(s.collation)
	sort.Slice(results, func(i, j int) bool {
		li, lj := letters.Length(results[i]), letters.Length(results[j])
		if li != lj {
			return li > lj
		}
		return col.CompareString(results[i], results[j]) < 0
	})

	return results
}

// Interface check
type ServiceInterface interface {
	Load(ctx context.Context, src Source) error
	IsValidWord(word string) bool
	IsLoaded() bool
	WordCount() int
	FindFormableWords(bag []rune, minLength int) []string
	LoadFromStorage(ctx context.Context) error
	LoadFromFile(ctx context.Context, path string) error
	LoadFromURL(ctx context.Context, url string) error
	LoadWords(words []string) error
}

var _ ServiceInterface = (*Service)(nil)
