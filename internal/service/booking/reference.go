package booking

import "math/rand/v2"

const (
	referenceLetters = "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	referenceDigits  = "0123456789"
)

// NewReference generates the human-facing booking reference: three uppercase
// letters followed by three digits, uniformly at random. No uniqueness check
// against existing references is made; collisions are an accepted risk.
func NewReference() string {
	ref := make([]byte, 6)
	for i := 0; i < 3; i++ {
		ref[i] = referenceLetters[rand.IntN(len(referenceLetters))]
	}
	for i := 3; i < 6; i++ {
		ref[i] = referenceDigits[rand.IntN(len(referenceDigits))]
	}
	return string(ref)
}
