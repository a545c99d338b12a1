package args

import "strings"

// IndexUnescaped returns the index of the first occurrence of sep in
// text which is not escaped, or -1 if there is none.  An occurrence is
// escaped when it follows an odd number of consecutive backslashes.
//
// The second result reports whether an escaped occurrence of sep was
// skipped on the way, in which case the text before the returned index
// should be passed through UnescapeSeparator.
func IndexUnescaped(text string, sep byte) (int, bool) {
	escaped := false

	for cursor := 0; cursor < len(text); {
		i := strings.IndexByte(text[cursor:], sep)
		if i < 0 {
			return -1, escaped
		}
		at := cursor + i

		slashes := 0
		for j := at - 1; j >= 0 && text[j] == '\\'; j-- {
			slashes++
		}
		if slashes%2 == 0 {
			return at, escaped
		}

		escaped = true
		cursor = at + 1
	}

	return -1, escaped
}

// UnescapeSeparator turns every `\sep` in text into a literal sep.  A
// doubled backslash is kept as it is, and a backslash before any other
// byte is kept along with that byte.  sep must not be a backslash.
func UnescapeSeparator(text string, sep byte) string {
	var (
		b       strings.Builder
		escaped bool
	)
	b.Grow(len(text))

	for i := 0; i < len(text); i++ {
		c := text[i]
		switch {
		case c == '\\' && escaped:
			b.WriteString(`\\`)
			escaped = false
		case c == '\\':
			escaped = true
		case escaped:
			if c != sep {
				b.WriteByte('\\')
			}
			b.WriteByte(c)
			escaped = false
		default:
			b.WriteByte(c)
		}
	}

	return b.String()
}
