package analysis

import (
	"strings"

	"github.com/minwooahn/newslens/internal/models"
)

// digestBodyLimit caps how much of each article body enters the digest.
// Titles carry most of the signal; bodies beyond this add tokens, not
// information.
const digestBodyLimit = 500

// BuildNewsDigest condenses a news batch into the text block handed to the
// oracle. Items appear in input order, numbered, title first.
func BuildNewsDigest(news []*models.NewsItem) string {
	var b strings.Builder
	for i, item := range news {
		if i > 0 {
			b.WriteString("\n\n")
		}
		b.WriteString("[")
		b.WriteString(item.Source)
		b.WriteString("] ")
		b.WriteString(item.Title)
		body := strings.TrimSpace(item.Body)
		if body != "" {
			if len(body) > digestBodyLimit {
				body = truncateUTF8(body, digestBodyLimit)
			}
			b.WriteString("\n")
			b.WriteString(body)
		}
	}
	return b.String()
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && s[n]&0xC0 == 0x80 {
		n--
	}
	return s[:n]
}
