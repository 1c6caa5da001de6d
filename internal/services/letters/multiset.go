package letters

import "strings"

// Normalize trims and uppercases a raw word
func Normalize(word string) string {
	return strings.ToUpper(strings.TrimSpace(word))
}

// Length returns the number of letters in a word
func Length(word string) int {
	return len([]rune(word))
}

// CanForm reports whether word can be spelled from bag, using each bag letter at most once.
// Comparison is case-insensitive.
func CanForm(word string, bag []rune) bool {
	available := Counts(bag)
	for _, r := range strings.ToUpper(word) {
		if available[r] == 0 {
			return false
		}
		available[r]--
	}
	return true
}

// Counts returns the multiplicity of each (uppercased) letter
func Counts(bag []rune) map[rune]int {
	counts := make(map[rune]int, len(bag))
	for _, r := range strings.ToUpper(string(bag)) {
		counts[r]++
	}
	return counts
}

// Mask returns a placeholder of the same length as bag
func Mask(bag []rune, placeholder rune) string {
	return strings.Repeat(string(placeholder), len(bag))
}
