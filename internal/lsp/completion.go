package lsp

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/leapstack-labs/docsniff/pkg/lint/doccomment"
)

// tagPrefixPattern matches a partially typed tag at the end of the text.
var tagPrefixPattern = regexp.MustCompile(`@[\w\\-]*$`)

// handleCompletion offers tag names inside doc comments.
func (s *Server) handleCompletion(msg *JSONRPCMessage) error {
	var params CompletionParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		s.sendResponse(msg.ID, nil, &JSONRPCError{Code: codeInvalidParams, Message: err.Error()})
		return err
	}

	doc := s.documents.Get(params.TextDocument.URI)
	if doc == nil {
		s.sendResponse(msg.ID, &CompletionList{Items: []CompletionItem{}}, nil)
		return nil
	}

	s.sendResponse(msg.ID, &CompletionList{Items: s.getCompletions(doc, params.Position)}, nil)
	return nil
}

// getCompletions returns tag completions at pos, or none when pos is not
// right after an "@" inside a doc comment.
func (s *Server) getCompletions(doc *Document, pos Position) []CompletionItem {
	items := []CompletionItem{}

	offset := doc.PositionToOffset(pos)
	if !doc.InDocComment(offset) {
		return items
	}
	prefix := tagPrefixPattern.FindString(doc.Content[:offset])
	if prefix == "" {
		return items
	}

	replace := Range{Start: doc.OffsetToPosition(offset - len(prefix)), End: pos}
	seen := make(map[string]bool)
	add := func(p *doccomment.Policy, scope string) {
		for _, r := range p.Rules() {
			if seen[r.Name] || !strings.HasPrefix(r.Name, prefix) || p.IsBlacklisted(r.Name) {
				continue
			}
			seen[r.Name] = true
			items = append(items, CompletionItem{
				Label:      r.Name,
				Kind:       CompletionItemKindProperty,
				Detail:     tagDetail(scope, r),
				SortText:   fmt.Sprintf("%03d", len(items)),
				FilterText: r.Name,
				TextEdit:   &TextEdit{Range: replace, NewText: r.Name + " "},
			})
		}
	}
	add(s.classPolicy, "class")
	add(s.filePolicy, "file")

	return items
}

// tagDetail summarizes a tag rule, e.g. "class tag, required".
func tagDetail(scope string, r doccomment.TagRule) string {
	parts := []string{scope + " tag"}
	if r.Required {
		parts = append(parts, "required")
	}
	if r.AllowMultiple {
		parts = append(parts, "multiple allowed")
	}
	return strings.Join(parts, ", ")
}

// handleHover explains the policy of the tag under the cursor.
func (s *Server) handleHover(msg *JSONRPCMessage) error {
	var params HoverParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		s.sendResponse(msg.ID, nil, &JSONRPCError{Code: codeInvalidParams, Message: err.Error()})
		return err
	}

	doc := s.documents.Get(params.TextDocument.URI)
	if doc == nil {
		s.sendResponse(msg.ID, nil, nil)
		return nil
	}

	hover := s.getHover(doc, params.Position)
	if hover == nil {
		s.sendResponse(msg.ID, nil, nil)
		return nil
	}
	s.sendResponse(msg.ID, hover, nil)
	return nil
}

// getHover builds hover content for the tag at pos.
func (s *Server) getHover(doc *Document, pos Position) *Hover {
	tag, rng := doc.GetTagAtPosition(pos)
	if tag == "" || !doc.InDocComment(doc.PositionToOffset(rng.Start)) {
		return nil
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**%s**\n\n", tag)
	describe := func(p *doccomment.Policy, scope string) {
		if p.IsBlacklisted(tag) {
			fmt.Fprintf(&b, "- %s comments: not allowed\n", scope)
			return
		}
		r, ok := p.Rule(tag)
		if !ok {
			fmt.Fprintf(&b, "- %s comments: not recognized\n", scope)
			return
		}
		fmt.Fprintf(&b, "- %s comments: %s, %s\n", scope, requiredText(r), multipleText(r))
	}
	describe(s.classPolicy, "Class")
	describe(s.filePolicy, "File")

	return &Hover{
		Contents: MarkupContent{Kind: MarkupKindMarkdown, Value: b.String()},
		Range:    &rng,
	}
}

func requiredText(r doccomment.TagRule) string {
	if r.Required {
		return "required"
	}
	return "optional"
}

func multipleText(r doccomment.TagRule) string {
	if r.AllowMultiple {
		return "may repeat"
	}
	return "at most once"
}
