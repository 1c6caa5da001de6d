package session

import (
	"github.com/mcoot/wordrush/internal/model"
	"github.com/mcoot/wordrush/internal/services/scoring"
)

// claimPolicy is the mode-specific part of claim resolution
type claimPolicy interface {
	// check rejects a word the player may not claim
	check(l *ledger, player *model.Player, word string) error
	score(word string, elapsedSeconds float64) int
	// visibleClaims filters the ledger for a viewer; viewer is nil for spectators
	visibleClaims(l *ledger, viewer *model.Player) []model.Claim
	// announce tells the room about an accepted claim
	announce(s *Session, player *model.Player, claim model.Claim)
}

func policyFor(mode model.Mode) claimPolicy {
	if mode == model.ModeExclusive {
		return exclusivePolicy{}
	}
	return freeForAllPolicy{}
}

// exclusivePolicy: a word belongs to whoever claims it first
type exclusivePolicy struct{}

func (exclusivePolicy) check(l *ledger, _ *model.Player, word string) error {
	if l.wordClaimed(word) {
		return model.ErrAlreadyClaimed
	}
	return nil
}

func (exclusivePolicy) score(word string, _ float64) int {
	return scoring.Exclusive(word)
}

func (exclusivePolicy) visibleClaims(l *ledger, _ *model.Player) []model.Claim {
	return l.all()
}

func (exclusivePolicy) announce(s *Session, player *model.Player, claim model.Claim) {
	s.broadcast(model.EventWordClaimed, model.WordClaimedPayload{
		Word:       claim.Word,
		PlayerName: player.Name,
		Score:      claim.Score,
		TotalScore: player.Score,
	})
}

// freeForAllPolicy: every player may claim every word once; words stay private
// until the round ends
type freeForAllPolicy struct{}

func (freeForAllPolicy) check(l *ledger, player *model.Player, word string) error {
	if l.usedBy(player.Name, word) {
		return model.ErrAlreadyUsedByYou
	}
	return nil
}

func (freeForAllPolicy) score(word string, elapsedSeconds float64) int {
	return scoring.FreeForAll(word, elapsedSeconds)
}

func (freeForAllPolicy) visibleClaims(l *ledger, viewer *model.Player) []model.Claim {
	if viewer == nil {
		return []model.Claim{}
	}
	return l.forPlayer(viewer.Name)
}

func (freeForAllPolicy) announce(s *Session, player *model.Player, claim model.Claim) {
	s.sendTo(player.ID, model.EventWordAccepted, model.WordAcceptedPayload{
		Word:       claim.Word,
		Score:      claim.Score,
		TotalScore: player.Score,
	})
	s.broadcast(model.EventScoresUpdated, model.ScoresUpdatedPayload{
		Players: s.playerViewsLocked(),
	})
}
