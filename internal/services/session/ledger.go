package session

import "github.com/mcoot/wordrush/internal/model"

// ledger records accepted claims in acceptance order
type ledger struct {
	claims []model.Claim

	// byWord indexes claims by word; used by exclusive mode
	byWord map[string]int
	// byPlayer holds each player's claimed words keyed by display name
	byPlayer map[string]map[string]struct{}
}

func newLedger() *ledger {
	return &ledger{
		byWord:   make(map[string]int),
		byPlayer: make(map[string]map[string]struct{}),
	}
}

func (l *ledger) wordClaimed(word string) bool {
	_, ok := l.byWord[word]
	return ok
}

func (l *ledger) usedBy(name, word string) bool {
	_, ok := l.byPlayer[name][word]
	return ok
}

// add records c. Callers check uniqueness first.
func (l *ledger) add(c model.Claim) {
	l.claims = append(l.claims, c)
	if _, ok := l.byWord[c.Word]; !ok {
		l.byWord[c.Word] = len(l.claims) - 1
	}
	words, ok := l.byPlayer[c.PlayerName]
	if !ok {
		words = make(map[string]struct{})
		l.byPlayer[c.PlayerName] = words
	}
	words[c.Word] = struct{}{}
}

// all returns a copy of every claim
func (l *ledger) all() []model.Claim {
	return append([]model.Claim{}, l.claims...)
}

// forPlayer returns a copy of the claims made under name
func (l *ledger) forPlayer(name string) []model.Claim {
	out := []model.Claim{}
	for _, c := range l.claims {
		if c.PlayerName == name {
			out = append(out, c)
		}
	}
	return out
}
