package token

// StartOfFile is returned by LocatePreceding when every token before the
// declaration is skippable.
const StartOfFile = -1

// Preceding classifies the construct found before a declaration.
type Preceding int

// Preceding construct kinds.
const (
	PrecedingNone     Preceding = iota // code, or the start of the file
	PrecedingDocBlock                  // a /** */ doc comment close marker
	PrecedingComment                   // a //, # or /* */ comment
)

// String returns the string representation of the preceding kind.
func (p Preceding) String() string {
	switch p {
	case PrecedingDocBlock:
		return "doc-block"
	case PrecedingComment:
		return "comment"
	default:
		return "none"
	}
}

// LocatePreceding walks backward from decl-1 past every token whose kind is
// in skippable and returns the index of the first token that is not.
// It returns StartOfFile when the stream is exhausted first.
func LocatePreceding(s *Stream, decl int, skippable KindSet) int {
	if decl > s.Len() {
		decl = s.Len()
	}
	for i := decl - 1; i >= 0; i-- {
		if !skippable.Has(s.Kind(i)) {
			return i
		}
	}
	return StartOfFile
}

// ClassifyPreceding reports what kind of construct sits at index i.
func ClassifyPreceding(s *Stream, i int) Preceding {
	switch s.Kind(i) {
	case DocCommentClose:
		return PrecedingDocBlock
	case Comment:
		return PrecedingComment
	default:
		return PrecedingNone
	}
}

// DeclarationSkips is the skip set used for class-like declarations:
// modifiers, whitespace and attribute groups.
var DeclarationSkips = MethodPrefixes.With(Whitespace, Attribute)
