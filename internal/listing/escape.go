package listing

import (
	"bytes"
	"strconv"
	"unicode/utf16"
	"unicode/utf8"
)

// unescapeNonASCII rewrites \uXXXX escapes of non-ASCII code points inside
// JSON strings as literal UTF-8. ASCII escapes such as \" \\ \n and \u0001
// are kept as written, surrogate pairs are combined and lone surrogates stay
// escaped. Bytes outside strings are copied unchanged.
func unescapeNonASCII(raw []byte) []byte {
	if !bytes.Contains(raw, []byte(`\u`)) {
		return raw
	}

	out := make([]byte, 0, len(raw))
	inString := false
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		if !inString {
			if c == '"' {
				inString = true
			}
			out = append(out, c)
			continue
		}

		switch c {
		case '"':
			inString = false
			out = append(out, c)
		case '\\':
			if r, n := decodeEscape(raw[i:]); n > 0 {
				out = utf8.AppendRune(out, r)
				i += n - 1
				continue
			}
			out = append(out, c)
			if i+1 < len(raw) {
				i++
				out = append(out, raw[i])
			}
		default:
			out = append(out, c)
		}
	}
	return out
}

// decodeEscape decodes the \uXXXX escape, or surrogate pair, at the start
// of b. n is 0 when the escape must stay as written.
func decodeEscape(b []byte) (r rune, n int) {
	r1, ok := hexEscape(b)
	if !ok || r1 < utf8.RuneSelf {
		return 0, 0
	}
	if !utf16.IsSurrogate(r1) {
		return r1, 6
	}

	r2, ok := hexEscape(b[6:])
	if !ok {
		return 0, 0
	}
	if r = utf16.DecodeRune(r1, r2); r == utf8.RuneError {
		return 0, 0
	}
	return r, 12
}

func hexEscape(b []byte) (rune, bool) {
	if len(b) < 6 || b[0] != '\\' || b[1] != 'u' {
		return 0, false
	}
	v, err := strconv.ParseUint(string(b[2:6]), 16, 32)
	if err != nil {
		return 0, false
	}
	return rune(v), true
}
