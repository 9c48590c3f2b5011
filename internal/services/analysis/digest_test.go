package analysis

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"

	"github.com/minwooahn/newslens/internal/models"
)

func TestBuildNewsDigest(t *testing.T) {
	digest := BuildNewsDigest([]*models.NewsItem{
		{Source: "naver", Title: "Chip exports jump", Body: "Semiconductor exports rose 20%."},
		{Source: "rss", Title: "Won weakens"},
	})

	assert.Contains(t, digest, "[naver] Chip exports jump")
	assert.Contains(t, digest, "Semiconductor exports rose 20%.")
	assert.Contains(t, digest, "[rss] Won weakens")
	// Input order is preserved.
	assert.Less(t, strings.Index(digest, "naver"), strings.Index(digest, "rss"))
}

func TestBuildNewsDigestTruncatesBody(t *testing.T) {
	long := strings.Repeat("가", 400) // 3 bytes per rune
	digest := BuildNewsDigest([]*models.NewsItem{
		{Source: "naver", Title: "t", Body: long},
	})

	assert.True(t, utf8.ValidString(digest), "truncation must not split a rune")
	assert.Less(t, len(digest), len(long))
}
