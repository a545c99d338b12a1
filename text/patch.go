package text

import (
	"regexp"
	"strconv"
	"strings"
)

// MaxPlaceholders is the number of positional placeholders a template
// may use, `{{1}}` through `{{9}}`.
const MaxPlaceholders = 9

var placeholders [MaxPlaceholders]*regexp.Regexp

func init() {
	for i := range placeholders {
		placeholders[i] = regexp.MustCompile(
			regexp.QuoteMeta("{{" + strconv.Itoa(i+1) + "}}"),
		)
	}
}

// Patch replaces every `{{N}}` in template with args[N-1].  args should
// already be escaped for wherever the placeholder sits.  Arguments past
// the ninth are ignored, and placeholders with no matching argument are
// left as they are.
func Patch(template string, args []string) string {
	for i, arg := range args {
		if i >= MaxPlaceholders {
			break
		}
		// "$" is a group reference in the replacement.
		template = placeholders[i].ReplaceAllString(
			template,
			strings.ReplaceAll(arg, "$", "$$"),
		)
	}
	return template
}
