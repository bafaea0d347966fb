package lexer

import "strings"

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isIdentChar(c byte) bool {
	return isIdentStart(c) || isDigit(c)
}

func isTagChar(c byte) bool {
	return isIdentChar(c) || c == '-' || c == '\\' || c == ':'
}

func spanSpace(s string) int {
	n := 0
	for n < len(s) && isSpace(s[n]) {
		n++
	}
	return n
}

// spanIdent measures an identifier, including namespace separators.
func spanIdent(s string) int {
	n := 0
	for n < len(s) && (isIdentChar(s[n]) || s[n] == '\\') {
		n++
	}
	return n
}

func spanNumber(s string) int {
	n := 0
	for n < len(s) && (isIdentChar(s[n]) || s[n] == '.') {
		n++
	}
	return n
}

// spanLineComment stops before the newline or a closing ?> tag.
func spanLineComment(s string) int {
	end := len(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		end = i
	}
	if i := strings.Index(s[:end], "?>"); i >= 0 {
		end = i
	}
	if end > 0 && s[end-1] == '\r' {
		end--
	}
	return end
}

// spanQuoted measures a quoted string starting at s[0], honouring escapes.
func spanQuoted(s string) int {
	quote := s[0]
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case quote:
			return i + 1
		}
	}
	return len(s)
}

// spanBracketed measures an attribute group "#[...]" with nested brackets.
func spanBracketed(s string) int {
	depth := 0
	for i := 1; i < len(s); i++ {
		switch s[i] {
		case '[':
			depth++
		case ']':
			depth--
			if depth == 0 {
				return i + 1
			}
		case '\'', '"':
			i += spanQuoted(s[i:]) - 1
		}
	}
	return len(s)
}

// spanHeredoc measures a heredoc or nowdoc including its closing marker.
// A "<<<" that does not introduce a heredoc is measured as an operator.
func spanHeredoc(s string) int {
	i := 3
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	quoted := i < len(s) && (s[i] == '\'' || s[i] == '"')
	if quoted {
		i++
	}
	start := i
	for i < len(s) && isIdentChar(s[i]) {
		i++
	}
	label := s[start:i]
	if label == "" {
		return 3
	}
	if quoted {
		i++
	}

	nl := strings.IndexByte(s[i:], '\n')
	if nl < 0 {
		return len(s)
	}
	off := i + nl + 1
	for off < len(s) {
		line := s[off:]
		lineEnd := strings.IndexByte(line, '\n')
		if lineEnd < 0 {
			lineEnd = len(line)
		}
		trimmed := strings.TrimLeft(line[:lineEnd], " \t")
		if strings.HasPrefix(trimmed, label) {
			after := trimmed[len(label):]
			if after == "" || !isIdentChar(after[0]) {
				return off + (lineEnd - len(trimmed)) + len(label)
			}
		}
		off += lineEnd + 1
	}
	return len(s)
}
