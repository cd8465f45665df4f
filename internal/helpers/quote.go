package helpers

import "unicode/utf8"

const hexChars = "0123456789ABCDEF"
const firstASCII = 0x20
const lastASCII = 0x7E
const firstHighSurrogate = 0xD800
const lastHighSurrogate = 0xDBFF
const firstLowSurrogate = 0xDC00
const lastLowSurrogate = 0xDFFF

func canPrintWithoutEscape(c rune, quote byte) bool {
	if c <= lastASCII {
		return c >= firstASCII && c != '\\' && c != rune(quote)
	}
	return c != '\uFEFF' && c != '\u2028' && c != '\u2029' && (c < firstHighSurrogate || c > lastLowSurrogate)
}

func appendEscape(bytes []byte, c rune) []byte {
	switch c {
	case '\b':
		return append(bytes, "\\b"...)
	case '\f':
		return append(bytes, "\\f"...)
	case '\n':
		return append(bytes, "\\n"...)
	case '\r':
		return append(bytes, "\\r"...)
	case '\t':
		return append(bytes, "\\t"...)
	case '\\':
		return append(bytes, "\\\\"...)
	case '"':
		return append(bytes, "\\\""...)
	case '\'':
		return append(bytes, "\\'"...)
	}
	return append(bytes, '\\', 'u', hexChars[c>>12], hexChars[(c>>8)&15], hexChars[(c>>4)&15], hexChars[c&15])
}

// QuoteForJSON returns a double-quoted JSON string literal for the given
// UTF-8 text.
func QuoteForJSON(text string) []byte {
	bytes := make([]byte, 0, len(text)+2)
	bytes = append(bytes, '"')

	for i := 0; i < len(text); {
		c, width := DecodeWTF8Rune(text[i:])
		i += width

		if canPrintWithoutEscape(c, '"') {
			var temp [utf8.UTFMax]byte
			n := encodeWTF8Rune(temp[:], c)
			bytes = append(bytes, temp[:n]...)
			continue
		}

		if c <= 0xFFFF {
			bytes = appendEscape(bytes, c)
		} else {
			c -= 0x10000
			bytes = appendEscape(bytes, firstHighSurrogate+((c>>10)&0x3FF))
			bytes = appendEscape(bytes, firstLowSurrogate+(c&0x3FF))
		}
	}

	return append(bytes, '"')
}

// QuoteUTF16 quotes a JavaScript string value. Lone surrogates survive as
// "\uXXXX" escapes so the printed literal evaluates to the same code units.
func QuoteUTF16(text []uint16, quote byte) []byte {
	bytes := make([]byte, 0, len(text)+2)
	bytes = append(bytes, quote)
	var temp [utf8.UTFMax]byte

	for i := 0; i < len(text); i++ {
		c := rune(text[i])

		// Combine valid surrogate pairs into a single code point
		if c >= firstHighSurrogate && c <= lastHighSurrogate && i+1 < len(text) {
			if c2 := rune(text[i+1]); c2 >= firstLowSurrogate && c2 <= lastLowSurrogate {
				i++
				r := (c-firstHighSurrogate)<<10 | (c2 - firstLowSurrogate) + 0x10000
				n := encodeWTF8Rune(temp[:], r)
				bytes = append(bytes, temp[:n]...)
				continue
			}
		}

		if canPrintWithoutEscape(c, quote) {
			n := encodeWTF8Rune(temp[:], c)
			bytes = append(bytes, temp[:n]...)
			continue
		}

		// "\0" is shorter than "\u0000" but must not be followed by a digit
		if c == 0 && (i+1 == len(text) || text[i+1] < '0' || text[i+1] > '9') {
			bytes = append(bytes, "\\0"...)
			continue
		}

		bytes = appendEscape(bytes, c)
	}

	return append(bytes, quote)
}
