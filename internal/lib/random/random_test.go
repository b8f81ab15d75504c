package random_test

import (
	"regexp"
	"testing"

	"github.com/raks-h21/muse-weave-27/internal/lib/random"

	"github.com/stretchr/testify/assert"
)

func TestNewSlugSuffix(t *testing.T) {
	base36 := regexp.MustCompile(`^[a-z0-9]+$`)

	for _, size := range []int{1, 7, 32} {
		suffix := random.NewSlugSuffix(size)
		assert.Len(t, suffix, size)
		assert.True(t, base36.MatchString(suffix), "suffix %q", suffix)
	}
}

func TestNewSlugSuffix_Distribution(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 1000; i++ {
		seen[random.NewSlugSuffix(7)] = true
	}
	// 36^7 values; 1000 draws colliding would mean the generator is broken.
	assert.Len(t, seen, 1000)
}
