package factory

import (
	"time"

	"github.com/mcoot/wordrush/internal/dependencies/mocks"
	"github.com/mcoot/wordrush/internal/services/registry"
	"github.com/mcoot/wordrush/internal/storage/memory"
	"github.com/mcoot/wordrush/internal/testutil"
)

// TestApp extends App with test-specific helpers
type TestApp struct {
	*App

	// Mocks for test control
	MockClock   *mocks.MockClock
	MockRandom  *mocks.MockRandom
	MemoryStore *memory.Storage
}

// NewTestApp creates an App configured for testing with mocked dependencies.
// With no queued Intn values every generated bag is four A and the rest R.
func NewTestApp() *TestApp {
	store := memory.New()
	mockClock := mocks.NewMockClock(time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC))
	mockRandom := mocks.NewMockRandom()

	app := newWithDependencies(store, mockClock, mockRandom, registry.DefaultConfig(), testutil.NopLogger())

	return &TestApp{
		App:         app,
		MockClock:   mockClock,
		MockRandom:  mockRandom,
		MemoryStore: store,
	}
}

// LoadTestDictionary loads a small dictionary for testing
func (t *TestApp) LoadTestDictionary() error {
	words := []string{
		"ar", "ara", "rar", "arr", "ärr", "hund", "katt", "ord",
	}
	return t.DictionaryService.LoadWords(words)
}
