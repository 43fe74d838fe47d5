package rank

import "strings"

// entityReplacer decodes the entities the search API uses in titles. It is a
// single pass, so "&amp;lt;" becomes "&lt;" and not "<".
var entityReplacer = strings.NewReplacer(
	"&quot;", `"`,
	"&#34;", `"`,
	"&#39;", "'",
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
)

// DecodeEntities decodes HTML entities in API returned text.
func DecodeEntities(s string) string {
	return entityReplacer.Replace(s)
}
