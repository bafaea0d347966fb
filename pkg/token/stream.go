package token

import "strings"

// Stream is an index-addressable token sequence. It is read-only after
// construction and safe for concurrent readers.
type Stream struct {
	tokens  []Token
	openers map[int]int // doc comment closer -> opener
	closers map[int]int // doc comment opener -> closer
}

// NewStream wraps tokens and pairs every doc comment opener with its closer.
// An opener without a closer stays unpaired.
func NewStream(tokens []Token) *Stream {
	s := &Stream{
		tokens:  tokens,
		openers: make(map[int]int),
		closers: make(map[int]int),
	}

	open := -1
	for i, t := range tokens {
		switch t.Kind {
		case DocCommentOpen:
			open = i
		case DocCommentClose:
			if open >= 0 {
				s.openers[i] = open
				s.closers[open] = i
				open = -1
			}
		}
	}
	return s
}

// Len returns the number of tokens.
func (s *Stream) Len() int {
	return len(s.tokens)
}

// Tokens returns the underlying slice. Callers must not modify it.
func (s *Stream) Tokens() []Token {
	return s.tokens
}

// At returns the token at index i, or false when i is out of range.
func (s *Stream) At(i int) (Token, bool) {
	if i < 0 || i >= len(s.tokens) {
		return Token{}, false
	}
	return s.tokens[i], true
}

// Kind returns the kind at index i, or EOF when i is out of range.
func (s *Stream) Kind(i int) Kind {
	if i < 0 || i >= len(s.tokens) {
		return EOF
	}
	return s.tokens[i].Kind
}

// Content returns the content at index i, or "" when i is out of range.
func (s *Stream) Content(i int) string {
	if i < 0 || i >= len(s.tokens) {
		return ""
	}
	return s.tokens[i].Content
}

// CommentOpener returns the doc comment opener paired with closer.
func (s *Stream) CommentOpener(closer int) (int, bool) {
	i, ok := s.openers[closer]
	return i, ok
}

// CommentCloser returns the doc comment closer paired with opener.
func (s *Stream) CommentCloser(opener int) (int, bool) {
	i, ok := s.closers[opener]
	return i, ok
}

// DeclarationName returns the name declared by the keyword at index i:
// the first String token after it, skipping whitespace and comments.
// It returns "" for anonymous or malformed declarations.
func (s *Stream) DeclarationName(i int) string {
	switch s.Kind(i) {
	case Class, Interface, Trait, Enum, Function, Const:
	default:
		return ""
	}

	for j := i + 1; j < len(s.tokens); j++ {
		k := s.tokens[j].Kind
		if Empty.Has(k) {
			continue
		}
		// function &name()
		if k == Operator && s.tokens[j].Content == "&" {
			continue
		}
		if k == String || IsKeyword(k) {
			return s.tokens[j].Content
		}
		return ""
	}
	return ""
}

// Next returns the index of the first token after i whose kind is not in
// skip, or -1 when the stream ends first.
func (s *Stream) Next(i int, skip KindSet) int {
	for j := i + 1; j < len(s.tokens); j++ {
		if !skip.Has(s.tokens[j].Kind) {
			return j
		}
	}
	return -1
}

// Lower returns the lowercased content at index i.
func (s *Stream) Lower(i int) string {
	return strings.ToLower(s.Content(i))
}
