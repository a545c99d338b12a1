// Package args parses the argument lists of scriptlet injection rules,
// e.g. the `set-constant, atob, trueFunc` in `##+js(set-constant, atob,
// trueFunc)`.
//
// Arguments are separated by commas.  An argument may be wrapped in one
// of the quotes ", ' or `, in which case commas inside it are literal.
// A backslash escapes the separator (or quote) that follows it.
package args

import "strings"

// Parse splits raw into its arguments.  The first argument is the
// scriptlet name.  It returns false if raw is malformed: a quoted
// argument was never closed, or something other than a comma follows
// its closing quote.
//
// An empty or all-whitespace raw string has no arguments, which is not
// an error.
func Parse(raw string) ([]string, bool) {
	result := []string{}
	if isBlank(raw) {
		return result, true
	}

	rest := raw
	for len(rest) > 0 {
		rest = trimLeft(rest)

		var (
			arg       string
			unescape  bool
			separator byte
		)

		if len(rest) > 0 && isQuote(rest[0]) {
			separator = rest[0]
			rest = rest[1:]

			end, escaped := IndexUnescaped(rest, separator)
			if end < 0 {
				return nil, false
			}
			arg, unescape = rest[:end], escaped

			rest = trimLeft(rest[end+1:])
			switch {
			case len(rest) == 0:
			case rest[0] == ',':
				rest = rest[1:]
			default:
				return nil, false
			}
		} else {
			separator = ','

			end, escaped := IndexUnescaped(rest, separator)
			if end < 0 {
				end = len(rest)
			}
			arg, unescape = trimRight(rest[:end]), escaped

			rest = rest[end:]
			if len(rest) > 0 {
				// Drop the comma.
				rest = rest[1:]
			}
		}

		if unescape {
			arg = UnescapeSeparator(arg, separator)
		}
		result = append(result, arg)
	}

	return result, true
}

func isQuote(b byte) bool {
	return b == '"' || b == '\'' || b == '`'
}

func isSpace(b byte) bool {
	switch b {
	case ' ', '\t', '\n', '\v', '\f', '\r':
		return true
	}
	return false
}

func isBlank(s string) bool {
	return len(trimLeft(s)) == 0
}

func trimLeft(s string) string {
	return strings.TrimLeftFunc(s, func(r rune) bool {
		return r < 0x80 && isSpace(byte(r))
	})
}

func trimRight(s string) string {
	return strings.TrimRightFunc(s, func(r rune) bool {
		return r < 0x80 && isSpace(byte(r))
	})
}
