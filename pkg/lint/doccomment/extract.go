package doccomment

import (
	"strings"

	"github.com/leapstack-labs/docsniff/pkg/token"
)

// Occurrence is one tag found in a doc comment.
type Occurrence struct {
	Name    string
	Index   int          // index of the DocCommentTag token
	Content *token.Token // the text after the tag on the same line, or nil
}

// ExtractTags returns the tags between opener and closer in source order.
func ExtractTags(s *token.Stream, opener, closer int) []Occurrence {
	var tags []Occurrence
	for i := opener + 1; i < closer && i < s.Len(); i++ {
		if s.Kind(i) != token.DocCommentTag {
			continue
		}
		occ := Occurrence{Name: s.Content(i), Index: i}
		if s.Kind(i+1) == token.DocCommentWhitespace &&
			!strings.ContainsRune(s.Content(i+1), '\n') &&
			s.Kind(i+2) == token.DocCommentString && i+2 < closer {
			tok, _ := s.At(i + 2)
			occ.Content = &tok
		}
		tags = append(tags, occ)
	}
	return tags
}
