package memory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"github.com/mcoot/wordrush/internal/model"
)

type StorageSuite struct {
	suite.Suite
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.storage = New()
	s.ctx = context.Background()
}

func sampleResult(id model.SessionID) *model.RoundResult {
	started := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return &model.RoundResult{
		SessionID:     id,
		Mode:          model.ModeExclusive,
		Letters:       "HUNDKATTEAOR",
		MinWordLength: 3,
		Rankings: []model.Ranking{
			{Rank: 1, PlayerName: "Alice", Score: 4, WordCount: 1},
			{Rank: 2, PlayerName: "Bob", Score: 0, WordCount: 0},
		},
		Claims: []model.Claim{
			{Word: "HUND", PlayerID: "p1", PlayerName: "Alice", ElapsedSeconds: 2.5, Score: 4, ClaimedAt: started.Add(2500 * time.Millisecond)},
		},
		PossibleWords: []string{"HUND", "KATT"},
		StartedAt:     started,
		EndedAt:       started.Add(time.Minute),
	}
}

// Round result tests

func (s *StorageSuite) TestSaveAndGetRoundResult() {
	result := sampleResult("ABC234")

	err := s.storage.SaveRoundResult(s.ctx, result)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetRoundResult(s.ctx, "ABC234")
	s.Require().NoError(err)
	s.Equal(result, retrieved)
}

func (s *StorageSuite) TestGetRoundResultNotFound() {
	_, err := s.storage.GetRoundResult(s.ctx, "NOPE22")
	s.ErrorIs(err, model.ErrResultNotFound)
}

func (s *StorageSuite) TestRoundResultExists() {
	exists, err := s.storage.RoundResultExists(s.ctx, "ABC234")
	s.Require().NoError(err)
	s.False(exists)

	_ = s.storage.SaveRoundResult(s.ctx, sampleResult("ABC234"))

	exists, err = s.storage.RoundResultExists(s.ctx, "ABC234")
	s.Require().NoError(err)
	s.True(exists)
}

func (s *StorageSuite) TestRoundResultIsCopied() {
	result := sampleResult("ABC234")
	_ = s.storage.SaveRoundResult(s.ctx, result)

	result.PossibleWords[0] = "CHANGED"

	retrieved, err := s.storage.GetRoundResult(s.ctx, "ABC234")
	s.Require().NoError(err)
	s.Equal("HUND", retrieved.PossibleWords[0])
}

func (s *StorageSuite) TestRecentRoundResults() {
	older := sampleResult("OLD222")
	newer := sampleResult("NEW222")
	newer.EndedAt = older.EndedAt.Add(time.Hour)
	tied := sampleResult("AAA222")

	for _, r := range []*model.RoundResult{older, newer, tied} {
		s.Require().NoError(s.storage.SaveRoundResult(s.ctx, r))
	}

	recent, err := s.storage.RecentRoundResults(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(recent, 3)
	s.Equal(model.SessionID("NEW222"), recent[0].SessionID)
	s.Equal(model.SessionID("AAA222"), recent[1].SessionID)
	s.Equal(model.SessionID("OLD222"), recent[2].SessionID)

	recent, err = s.storage.RecentRoundResults(s.ctx, 1)
	s.Require().NoError(err)
	s.Len(recent, 1)

	recent, err = s.storage.RecentRoundResults(s.ctx, 0)
	s.Require().NoError(err)
	s.Empty(recent)
}

// Dictionary tests

func (s *StorageSuite) TestGetDictionaryWordsNotLoaded() {
	_, err := s.storage.GetDictionaryWords(s.ctx)
	s.ErrorIs(err, model.ErrDictionaryNotLoaded)
}

func (s *StorageSuite) TestSaveAndGetDictionaryWords() {
	words := []string{"hund", "katt", "år"}

	err := s.storage.SaveDictionaryWords(s.ctx, words)
	s.Require().NoError(err)

	retrieved, err := s.storage.GetDictionaryWords(s.ctx)
	s.Require().NoError(err)
	s.Equal(words, retrieved)
}

func (s *StorageSuite) TestSaveDictionaryWordsReplaces() {
	_ = s.storage.SaveDictionaryWords(s.ctx, []string{"hund"})
	_ = s.storage.SaveDictionaryWords(s.ctx, []string{"katt", "ko"})

	retrieved, err := s.storage.GetDictionaryWords(s.ctx)
	s.Require().NoError(err)
	s.Equal([]string{"katt", "ko"}, retrieved)
}
