package engine

import "strings"

// kwPrefix is the marker prepended to keyword names by preprocessSource.
const kwPrefix = "__kw_"

// preprocessSource rewrites modeling-script syntax into something zygomys
// accepts:
//
//  1. :keyword becomes the string literal "__kw_keyword", so keywords never
//     collide with user variables.
//  2. A hyphen between identifier characters becomes an underscore, so
//     make-arm reads as one name. zygomys reads a bare hyphen as
//     subtraction.
//  3. ; and ;; line comments become // comments.
//
// String literals ("..." and `...`) pass through untouched.
func preprocessSource(source string) string {
	var sb strings.Builder
	sb.Grow(len(source) + len(source)/4)

	for i := 0; i < len(source); {
		c := source[i]
		switch {
		case c == '"':
			i = copyQuoted(&sb, source, i, '"', true)
		case c == '`':
			i = copyQuoted(&sb, source, i, '`', false)
		case c == ';':
			i = copyComment(&sb, source, i)
		case c == ':' && i+1 < len(source) && source[i+1] == '=':
			sb.WriteString(":=")
			i += 2
		case c == ':' && i+1 < len(source) && isLetter(source[i+1]):
			i = copyKeyword(&sb, source, i)
		case c == '-' && i > 0 && i+1 < len(source) &&
			isIdentChar(source[i-1]) && isLetter(source[i+1]):
			sb.WriteByte('_')
			i++
		default:
			sb.WriteByte(c)
			i++
		}
	}
	return sb.String()
}

// copyQuoted copies a quoted literal starting at s[i] and returns the index
// just past the closing quote. An unterminated literal runs to the end.
func copyQuoted(sb *strings.Builder, s string, i int, quote byte, escapes bool) int {
	sb.WriteByte(quote)
	i++
	for i < len(s) && s[i] != quote {
		if escapes && s[i] == '\\' && i+1 < len(s) {
			sb.WriteString(s[i : i+2])
			i += 2
			continue
		}
		sb.WriteByte(s[i])
		i++
	}
	if i < len(s) {
		sb.WriteByte(quote)
		i++
	}
	return i
}

// copyComment rewrites a ; comment to // and copies it to the end of line.
func copyComment(sb *strings.Builder, s string, i int) int {
	sb.WriteString("//")
	for i < len(s) && s[i] == ';' {
		i++
	}
	end := strings.IndexByte(s[i:], '\n')
	if end < 0 {
		end = len(s) - i
	}
	sb.WriteString(s[i : i+end])
	return i + end
}

// copyKeyword emits :name as "__kw_name".
func copyKeyword(sb *strings.Builder, s string, i int) int {
	j := i + 1
	for j < len(s) && isKWChar(s[j]) {
		j++
	}
	sb.WriteByte('"')
	sb.WriteString(kwPrefix)
	sb.WriteString(s[i+1 : j])
	sb.WriteByte('"')
	return j
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isKWChar(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '-' || c == '_'
}

func isIdentChar(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '_'
}
