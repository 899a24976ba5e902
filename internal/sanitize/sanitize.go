package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	// StrictPolicy removes all HTML tags and attributes.
	StrictPolicy = bluemonday.StrictPolicy()

	// UGCPolicy keeps basic formatting (<p>, <b>, <a>, lists) and drops
	// scripts, iframes, event handlers and styles.
	UGCPolicy = bluemonday.UGCPolicy()
)

// maxDecodePasses bounds entity decoding of nested encodings like &amp;lt;.
const maxDecodePasses = 4

// Text strips all markup. Entities are decoded before the policy runs so
// encoded tags are stripped too, and the policy's own escaping is undone
// afterwards so "Q&A" survives as typed.
func Text(input string) string {
	return strings.TrimSpace(html.UnescapeString(StrictPolicy.Sanitize(decodeEntities(input))))
}

func decodeEntities(s string) string {
	for i := 0; i < maxDecodePasses; i++ {
		decoded := html.UnescapeString(s)
		if decoded == s {
			break
		}
		s = decoded
	}
	return s
}

// HTML keeps safe formatting tags. Used for event descriptions.
func HTML(input string) string {
	return strings.TrimSpace(UGCPolicy.Sanitize(input))
}
