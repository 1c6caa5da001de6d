package legality

import (
	"github.com/mcoot/wordrush/internal/model"
	"github.com/mcoot/wordrush/internal/services/letters"
)

// WordChecker reports dictionary membership
type WordChecker interface {
	IsValidWord(word string) bool
}

// Validator decides whether a submitted word is legal for a bag
type Validator struct {
	dictionary WordChecker
}

// New creates a new Validator
func New(dictionary WordChecker) *Validator {
	return &Validator{dictionary: dictionary}
}

// Validate normalizes raw and checks, in order: non-empty, minimum length,
// formable from bag, present in the dictionary. On success it returns the
// uppercase word; otherwise a *model.ValidationError.
func (v *Validator) Validate(raw string, bag []rune, minLength int) (string, error) {
	word := letters.Normalize(raw)

	if word == "" {
		return "", &model.ValidationError{Reason: model.ReasonEmpty}
	}
	if letters.Length(word) < minLength {
		return "", &model.ValidationError{Word: word, Reason: model.ReasonTooShort, MinLength: minLength}
	}
	if !letters.CanForm(word, bag) {
		return "", &model.ValidationError{Word: word, Reason: model.ReasonUnformable}
	}
	if !v.dictionary.IsValidWord(word) {
		return "", &model.ValidationError{Word: word, Reason: model.ReasonNotAWord}
	}

	return word, nil
}
