// Package text renders argument text into injectable JavaScript: it
// escapes arguments for use inside string literals, and substitutes
// them into `{{N}}` placeholder templates.
package text

import "strings"

const hexDigits = "0123456789abcdef"

// jsEscapes maps each byte which may not appear raw inside a
// double-quoted JS string literal to its escape sequence.  All other
// entries are empty.
var jsEscapes [256]string

func init() {
	for b := 0; b < 0x20; b++ {
		jsEscapes[b] = `\u00` + string(hexDigits[b>>4]) + string(hexDigits[b&0xf])
	}
	jsEscapes['\b'] = `\b`
	jsEscapes['\t'] = `\t`
	jsEscapes['\n'] = `\n`
	jsEscapes['\f'] = `\f`
	jsEscapes['\r'] = `\r`
	jsEscapes['"'] = `\"`
	jsEscapes['\\'] = `\\`
}

// EscapeJS escapes arg so it can be placed between the double quotes of
// a JS string literal.  If quoted is true, the result includes the
// surrounding quotes.
//
// Only ASCII bytes are ever replaced, so valid UTF-8 stays valid.
func EscapeJS(arg string, quoted bool) string {
	first := -1
	for i := 0; i < len(arg); i++ {
		if jsEscapes[arg[i]] != "" {
			first = i
			break
		}
	}

	if first < 0 {
		if quoted {
			return `"` + arg + `"`
		}
		return arg
	}

	var b strings.Builder
	b.Grow(len(arg) + 8)
	if quoted {
		b.WriteByte('"')
	}

	b.WriteString(arg[:first])
	start := first
	for i := first; i < len(arg); i++ {
		esc := jsEscapes[arg[i]]
		if esc == "" {
			continue
		}
		b.WriteString(arg[start:i])
		b.WriteString(esc)
		start = i + 1
	}
	b.WriteString(arg[start:])

	if quoted {
		b.WriteByte('"')
	}
	return b.String()
}
