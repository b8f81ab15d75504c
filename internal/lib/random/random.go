package random

import (
	"crypto/rand"
	"math/big"
)

const alphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// NewSlugSuffix returns a short random base36 string used as the second half
// of a share slug. Not a cryptographic token: the slug only needs to be
// unguessable from a gallery id, not unforgeable.
func NewSlugSuffix(size int) string {
	b := make([]byte, size)
	max := big.NewInt(int64(len(alphabet)))

	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// rand.Reader does not fail on supported platforms
			panic(err)
		}
		b[i] = alphabet[n.Int64()]
	}

	return string(b)
}
