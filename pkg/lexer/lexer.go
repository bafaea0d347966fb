// Package lexer turns PHP source into a token.Stream.
//
// The lexer is deliberately shallow: it classifies exactly what the
// commenting sniffs need (doc comments broken into their parts, plain
// comments, whitespace, modifiers and declaration keywords) and folds the
// rest of the language into generic kinds. It never fails; malformed input
// such as an unterminated comment simply runs to the end of the file.
package lexer

import (
	"strings"

	"github.com/leapstack-labs/docsniff/pkg/token"
)

// Lexer tokenizes PHP input.
type Lexer struct {
	input string
	pos   int // current byte offset
	line  int // current line number (1-based)
	col   int // current column number (1-based)
	inPHP bool

	tokens []token.Token
}

// New creates a new Lexer for the given input.
func New(input string) *Lexer {
	return &Lexer{
		input: input,
		line:  1,
		col:   1,
	}
}

// Tokenize lexes src and returns the resulting stream.
func Tokenize(src []byte) *token.Stream {
	return token.NewStream(New(string(src)).All())
}

// All lexes the whole input and returns every token in source order.
func (l *Lexer) All() []token.Token {
	for l.pos < len(l.input) {
		if !l.inPHP {
			l.scanInlineHTML()
			continue
		}
		l.scanPHP()
	}
	return l.tokens
}

type mark struct {
	offset int
	pos    token.Position
}

func (l *Lexer) mark() mark {
	return mark{
		offset: l.pos,
		pos:    token.Position{Line: l.line, Column: l.col, Offset: l.pos},
	}
}

// advance moves n bytes forward, keeping line and column in sync.
func (l *Lexer) advance(n int) {
	end := l.pos + n
	if end > len(l.input) {
		end = len(l.input)
	}
	for ; l.pos < end; l.pos++ {
		if l.input[l.pos] == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}
	}
}

func (l *Lexer) emit(kind token.Kind, m mark) {
	if l.pos == m.offset {
		return
	}
	l.tokens = append(l.tokens, token.Token{
		Kind:    kind,
		Content: l.input[m.offset:l.pos],
		Pos:     m.pos,
	})
}

func (l *Lexer) rest() string {
	return l.input[l.pos:]
}

// prevSignificant returns the kind of the last token that carries code.
func (l *Lexer) prevSignificant() token.Kind {
	for i := len(l.tokens) - 1; i >= 0; i-- {
		if !token.Empty.Has(l.tokens[i].Kind) {
			return l.tokens[i].Kind
		}
	}
	return token.EOF
}

func (l *Lexer) scanInlineHTML() {
	m := l.mark()
	idx := findOpenTag(l.rest())
	if idx < 0 {
		l.advance(len(l.input) - l.pos)
		l.emit(token.InlineHTML, m)
		return
	}
	if idx > 0 {
		l.advance(idx)
		l.emit(token.InlineHTML, m)
		m = l.mark()
	}
	if strings.HasPrefix(l.rest(), "<?=") {
		l.advance(3)
	} else {
		l.advance(5)
	}
	l.emit(token.OpenTag, m)
	l.inPHP = true
}

// findOpenTag returns the offset of the first "<?php" or "<?=" in s.
func findOpenTag(s string) int {
	off := 0
	for {
		i := strings.Index(s[off:], "<?")
		if i < 0 {
			return -1
		}
		at := off + i
		tail := s[at:]
		if strings.HasPrefix(tail, "<?=") || (len(tail) >= 5 && strings.EqualFold(tail[:5], "<?php")) {
			return at
		}
		off = at + 2
	}
}

func (l *Lexer) scanPHP() {
	rest := l.rest()
	c := rest[0]
	m := l.mark()

	switch {
	case isSpace(c):
		l.advance(spanSpace(rest))
		l.emit(token.Whitespace, m)

	case strings.HasPrefix(rest, "?>"):
		l.advance(2)
		l.emit(token.CloseTag, m)
		l.inPHP = false

	case strings.HasPrefix(rest, "/**") && !strings.HasPrefix(rest, "/**/"):
		l.scanDocComment()

	case strings.HasPrefix(rest, "/*"):
		end := strings.Index(rest[2:], "*/")
		if end < 0 {
			l.advance(len(rest))
		} else {
			l.advance(end + 4)
		}
		l.emit(token.Comment, m)

	case strings.HasPrefix(rest, "#["):
		l.advance(spanBracketed(rest))
		l.emit(token.Attribute, m)

	case strings.HasPrefix(rest, "//") || c == '#':
		l.advance(spanLineComment(rest))
		l.emit(token.Comment, m)

	case c == '$' && len(rest) > 1 && isIdentStart(rest[1]):
		l.advance(1 + spanIdent(rest[1:]))
		l.emit(token.Variable, m)

	case isIdentStart(c) || (c == '\\' && len(rest) > 1 && isIdentStart(rest[1])):
		l.scanIdent(m)

	case isDigit(c):
		l.advance(spanNumber(rest))
		l.emit(token.Number, m)

	case c == '\'' || c == '"' || c == '`':
		l.advance(spanQuoted(rest))
		l.emit(token.ConstantString, m)

	case strings.HasPrefix(rest, "<<<"):
		l.advance(spanHeredoc(rest))
		l.emit(token.ConstantString, m)

	default:
		kind, n := punct(rest)
		l.advance(n)
		l.emit(kind, m)
	}
}

func (l *Lexer) scanIdent(m mark) {
	rest := l.rest()
	n := spanIdent(rest)
	word := rest[:n]
	prev := l.prevSignificant()
	l.advance(n)

	kind := token.String
	if !strings.Contains(word, "\\") {
		kind = token.LookupIdent(word)
	}

	// Member access and ::class never declare anything.
	if token.IsKeyword(kind) && (prev == token.DoubleColon || prev == token.ObjectOperator) {
		kind = token.String
	}
	if kind == token.Class && prev == token.New {
		kind = token.AnonClass
	}
	l.emit(kind, m)
}

// scanDocComment splits a /** */ block into its parts. A tag is only
// recognized at the start of a line's content; everything after a tag on
// the same line is a single string token.
func (l *Lexer) scanDocComment() {
	m := l.mark()
	l.advance(3)
	l.emit(token.DocCommentOpen, m)

	lineStart := false // a leading * is allowed
	contentStart := true

	for l.pos < len(l.input) {
		rest := l.rest()
		m := l.mark()

		switch {
		case strings.HasPrefix(rest, "*/"):
			l.advance(2)
			l.emit(token.DocCommentClose, m)
			return

		case isSpace(rest[0]):
			n := spanSpace(rest)
			if strings.ContainsRune(rest[:n], '\n') {
				lineStart = true
				contentStart = true
			}
			l.advance(n)
			l.emit(token.DocCommentWhitespace, m)

		case rest[0] == '*' && lineStart:
			l.advance(1)
			l.emit(token.DocCommentStar, m)
			lineStart = false

		case rest[0] == '@' && contentStart && len(rest) > 1 && isTagChar(rest[1]):
			n := 1
			for n < len(rest) && isTagChar(rest[n]) {
				n++
			}
			l.advance(n)
			l.emit(token.DocCommentTag, m)
			lineStart = false
			contentStart = false

		default:
			end := len(rest)
			if i := strings.IndexByte(rest, '\n'); i >= 0 {
				end = i
			}
			if i := strings.Index(rest[:end], "*/"); i >= 0 {
				end = i
			}
			text := strings.TrimRight(rest[:end], " \t\r")
			if text == "" {
				// Only trailing blanks before */ or a newline.
				l.advance(end)
				l.emit(token.DocCommentWhitespace, m)
				continue
			}
			l.advance(len(text))
			l.emit(token.DocCommentString, m)
			lineStart = false
			contentStart = false
		}
	}
}

func punct(s string) (token.Kind, int) {
	switch {
	case strings.HasPrefix(s, "::"):
		return token.DoubleColon, 2
	case strings.HasPrefix(s, "->"):
		return token.ObjectOperator, 2
	case strings.HasPrefix(s, "?->"):
		return token.ObjectOperator, 3
	}
	switch s[0] {
	case '{':
		return token.OpenCurly, 1
	case '}':
		return token.CloseCurly, 1
	case '(':
		return token.OpenParen, 1
	case ')':
		return token.CloseParen, 1
	case ';':
		return token.Semicolon, 1
	case ',':
		return token.Comma, 1
	}
	return token.Operator, 1
}
