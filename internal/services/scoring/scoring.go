package scoring

import (
	"math"
	"sort"

	"github.com/mcoot/wordrush/internal/model"
	"github.com/mcoot/wordrush/internal/services/letters"
)

const (
	// freeForAllWindow is the number of seconds over which free-for-all scores decay to zero
	freeForAllWindow = 60.0

	// Words longer than longWordLength earn longWordBonus on top in free-for-all
	longWordLength = 6
	longWordBonus  = 5
)

// FreeForAll scores a word by length weighted by how early in the round it was found
func FreeForAll(word string, elapsedSeconds float64) int {
	length := letters.Length(word)
	remaining := math.Max(0, freeForAllWindow-elapsedSeconds)

	score := int(math.Round(float64(length) * remaining))
	if length > longWordLength {
		score += longWordBonus
	}
	return score
}

// Exclusive scores a word by its length
func Exclusive(word string) int {
	return letters.Length(word)
}

// Rank orders players by score, highest first. Ties keep join order and share a rank.
func Rank(players []*model.Player, claims []model.Claim) []model.Ranking {
	wordCounts := make(map[string]int)
	for _, c := range claims {
		wordCounts[c.PlayerName]++
	}

	ordered := make([]*model.Player, len(players))
	copy(ordered, players)
	sort.SliceStable(ordered, func(i, j int) bool {
		if ordered[i].Score != ordered[j].Score {
			return ordered[i].Score > ordered[j].Score
		}
		return ordered[i].JoinOrder < ordered[j].JoinOrder
	})

	rankings := make([]model.Ranking, len(ordered))
	for i, p := range ordered {
		rank := i + 1
		if i > 0 && p.Score == ordered[i-1].Score {
			rank = rankings[i-1].Rank
		}
		rankings[i] = model.Ranking{
			Rank:       rank,
			PlayerName: p.Name,
			Score:      p.Score,
			WordCount:  wordCounts[p.Name],
		}
	}
	return rankings
}
