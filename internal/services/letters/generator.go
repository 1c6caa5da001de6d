package letters

import (
	"github.com/mcoot/wordrush/internal/dependencies/random"
)

// Letter pools. The common subsets weight boards toward playable letters.
const (
	Vowels           = "AEIOUYÅÄÖ"
	CommonVowels     = "AEIO"
	Consonants       = "BCDFGHJKLMNPQRSTVWXZ"
	CommonConsonants = "RSTNLKDGM"
)

// Draw weights (percent) for picking from the common pools
const (
	vowelShare            = 35
	commonVowelChance     = 70
	commonConsonantChance = 60
)

// Generator produces letter bags
type Generator struct {
	random random.Random
}

// NewGenerator creates a new Generator
func NewGenerator(random random.Random) *Generator {
	return &Generator{random: random}
}

// Generate returns a shuffled bag of exactly count uppercase letters
func (g *Generator) Generate(count int) []rune {
	if count <= 0 {
		return []rune{}
	}

	vowelCount := count * vowelShare / 100
	bag := make([]rune, 0, count)

	for i := 0; i < vowelCount; i++ {
		bag = append(bag, g.draw(CommonVowels, Vowels, commonVowelChance))
	}
	for i := vowelCount; i < count; i++ {
		bag = append(bag, g.draw(CommonConsonants, Consonants, commonConsonantChance))
	}

	g.random.Shuffle(len(bag), func(i, j int) {
		bag[i], bag[j] = bag[j], bag[i]
	})
	return bag
}

// draw picks from common with the given percent chance, otherwise from full
func (g *Generator) draw(common, full string, chance int) rune {
	pool := []rune(full)
	if g.random.Intn(100) < chance {
		pool = []rune(common)
	}
	return pool[g.random.Intn(len(pool))]
}
