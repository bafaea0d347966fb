package token

import "sort"

// KindSet is a read-only set of token kinds.
type KindSet map[Kind]struct{}

// NewKindSet builds a set from the given kinds.
func NewKindSet(kinds ...Kind) KindSet {
	s := make(KindSet, len(kinds))
	for _, k := range kinds {
		s[k] = struct{}{}
	}
	return s
}

// Has reports whether k is in the set.
func (s KindSet) Has(k Kind) bool {
	_, ok := s[k]
	return ok
}

// With returns a new set holding the receiver's kinds plus the given ones.
func (s KindSet) With(kinds ...Kind) KindSet {
	out := make(KindSet, len(s)+len(kinds))
	for k := range s {
		out[k] = struct{}{}
	}
	for _, k := range kinds {
		out[k] = struct{}{}
	}
	return out
}

// Kinds returns the members in ascending order.
func (s KindSet) Kinds() []Kind {
	out := make([]Kind, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Shared sets. Treat them as constants.
var (
	// MethodPrefixes are the modifiers that may sit between a doc comment
	// and the declaration it documents.
	MethodPrefixes = NewKindSet(Public, Private, Protected, Static, Abstract, Final, Readonly)

	// ClassLikes are the declarations the class comment sniff listens for.
	ClassLikes = NewKindSet(Class, Interface, Trait)

	// Comments are the comment kinds a declaration may be preceded by.
	Comments = NewKindSet(Comment, DocCommentClose)

	// Empty are tokens that carry no code.
	Empty = NewKindSet(Whitespace, Comment, DocCommentOpen, DocCommentClose,
		DocCommentStar, DocCommentWhitespace, DocCommentTag, DocCommentString)
)
