package storage

import (
	"context"

	"github.com/mcoot/wordrush/internal/model"
)

// Storage persists finished rounds and the word list. Live sessions stay in memory.
type Storage interface {
	// SaveRoundResult archives a finished round. Saving the same session again replaces it.
	SaveRoundResult(ctx context.Context, result *model.RoundResult) error
	GetRoundResult(ctx context.Context, id model.SessionID) (*model.RoundResult, error)
	RoundResultExists(ctx context.Context, id model.SessionID) (bool, error)
	// RecentRoundResults returns up to limit archived rounds, latest EndedAt first
	RecentRoundResults(ctx context.Context, limit int) ([]*model.RoundResult, error)

	GetDictionaryWords(ctx context.Context) ([]string, error)
	SaveDictionaryWords(ctx context.Context, words []string) error
}
