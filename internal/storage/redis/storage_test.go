package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/suite"

	"github.com/mcoot/wordrush/internal/model"
)

type StorageSuite struct {
	suite.Suite
	mini    *miniredis.Miniredis
	storage *Storage
	ctx     context.Context
}

func TestStorageSuite(t *testing.T) {
	suite.Run(t, new(StorageSuite))
}

func (s *StorageSuite) SetupTest() {
	s.mini = miniredis.RunT(s.T())

	client := redis.NewClient(&redis.Options{
		Addr: s.mini.Addr(),
	})

	cfg := DefaultConfig()
	cfg.ResultTTL = time.Hour

	s.storage = NewWithClient(client, cfg)
	s.ctx = context.Background()
}

func (s *StorageSuite) TearDownTest() {
	if s.storage != nil {
		_ = s.storage.Close()
	}
	if s.mini != nil {
		s.mini.Close()
	}
}

func sampleResult(id model.SessionID) *model.RoundResult {
	started := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	return &model.RoundResult{
		SessionID:     id,
		Mode:          model.ModeFreeForAll,
		Letters:       "ÅÄÖRSTNLKAEI",
		MinWordLength: 2,
		Rankings: []model.Ranking{
			{Rank: 1, PlayerName: "Alice", Score: 177, WordCount: 1},
		},
		Claims: []model.Claim{
			{Word: "ÅR", PlayerID: "p1", PlayerName: "Alice", ElapsedSeconds: 1.5, Score: 117, ClaimedAt: started.Add(1500 * time.Millisecond)},
		},
		PossibleWords: []string{"ÅR", "ÖL"},
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
	s.Equal(result.SessionID, retrieved.SessionID)
	s.Equal(result.Letters, retrieved.Letters)
	s.Equal(result.Rankings, retrieved.Rankings)
	s.Equal(result.PossibleWords, retrieved.PossibleWords)
	s.Require().Len(retrieved.Claims, 1)
	s.Equal("ÅR", retrieved.Claims[0].Word)
	s.InDelta(1.5, retrieved.Claims[0].ElapsedSeconds, 0.0001)
	s.True(result.EndedAt.Equal(retrieved.EndedAt))
}

func (s *StorageSuite) TestRoundResultHasTTL() {
	_ = s.storage.SaveRoundResult(s.ctx, sampleResult("ABC234"))

	s.Equal(time.Hour, s.mini.TTL(resultKey("ABC234")))

	s.mini.FastForward(2 * time.Hour)

	_, err := s.storage.GetRoundResult(s.ctx, "ABC234")
	s.ErrorIs(err, model.ErrResultNotFound)
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

func (s *StorageSuite) TestRecentRoundResults() {
	older := sampleResult("OLD222")
	newer := sampleResult("NEW222")
	newer.EndedAt = older.EndedAt.Add(time.Hour)

	s.Require().NoError(s.storage.SaveRoundResult(s.ctx, older))
	s.Require().NoError(s.storage.SaveRoundResult(s.ctx, newer))

	recent, err := s.storage.RecentRoundResults(s.ctx, 10)
	s.Require().NoError(err)
	s.Require().Len(recent, 2)
	s.Equal(model.SessionID("NEW222"), recent[0].SessionID)
	s.Equal(model.SessionID("OLD222"), recent[1].SessionID)

	recent, err = s.storage.RecentRoundResults(s.ctx, 1)
	s.Require().NoError(err)
	s.Require().Len(recent, 1)
	s.Equal(model.SessionID("NEW222"), recent[0].SessionID)
}

func (s *StorageSuite) TestRecentRoundResultsPrunesExpired() {
	s.Require().NoError(s.storage.SaveRoundResult(s.ctx, sampleResult("OLD222")))
	s.mini.FastForward(30 * time.Minute)

	newer := sampleResult("NEW222")
	newer.EndedAt = newer.EndedAt.Add(time.Hour)
	s.Require().NoError(s.storage.SaveRoundResult(s.ctx, newer))
	s.mini.FastForward(45 * time.Minute)

	recent, err := s.storage.RecentRoundResults(s.ctx, 1)
	s.Require().NoError(err)
	s.Require().Len(recent, 1)
	s.Equal(model.SessionID("NEW222"), recent[0].SessionID)

	s.Require().NoError(s.storage.SaveRoundResult(s.ctx, sampleResult("GONE22")))
	s.mini.Del(resultKey("GONE22"))

	recent, err = s.storage.RecentRoundResults(s.ctx, 5)
	s.Require().NoError(err)
	s.Require().Len(recent, 1)

	members, err := s.mini.ZMembers(resultIndexKey())
	s.Require().NoError(err)
	s.Equal([]string{"NEW222"}, members)
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
	s.ElementsMatch(words, retrieved)
}

func (s *StorageSuite) TestSaveDictionaryWordsReplaces() {
	_ = s.storage.SaveDictionaryWords(s.ctx, []string{"hund"})
	_ = s.storage.SaveDictionaryWords(s.ctx, []string{"katt", "ko"})

	retrieved, err := s.storage.GetDictionaryWords(s.ctx)
	s.Require().NoError(err)
	s.ElementsMatch([]string{"katt", "ko"}, retrieved)
}

func (s *StorageSuite) TestPing() {
	s.NoError(s.storage.Ping(s.ctx))
}
