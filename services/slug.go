package services

import (
	"crypto/rand"
	"math/big"
	"regexp"
	"strings"

	"sciarticles/models"
)

const (
	SlugMaxLength    = 100
	SlugSuffixLength = 7
	slugAlphabet     = "0123456789abcdefghijklmnopqrstuvwxyz"
)

var (
	slugSeparators = regexp.MustCompile(`[^a-z0-9]+`)
	slugEdges      = regexp.MustCompile(`^-+|-+$`)
)

// GenerateSlug turns a title into a URL-safe slug with a random base-36 suffix.
// Uniqueness is probabilistic; there is no collision retry.
func GenerateSlug(title string) string {
	base := slugSeparators.ReplaceAllString(strings.ToLower(title), "-")
	base = slugEdges.ReplaceAllString(base, "")
	if len(base) > SlugMaxLength {
		base = base[:SlugMaxLength]
	}

	return base + "-" + randomSuffix(SlugSuffixLength)
}

// ShouldRegenerateSlug reports whether a title change should produce a new slug.
// Publishing freezes the public URL.
func ShouldRegenerateSlug(existing *models.Article, newTitle string) bool {
	return newTitle != existing.Title && !existing.Published
}

func randomSuffix(n int) string {
	max := big.NewInt(int64(len(slugAlphabet)))
	b := make([]byte, n)
	for i := range b {
		idx, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic("slug: crypto/rand unavailable: " + err.Error())
		}
		b[i] = slugAlphabet[idx.Int64()]
	}
	return string(b)
}
