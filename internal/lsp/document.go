package lsp

import (
	"net/url"
	"strings"
	"sync"
)

// Document represents an open text document in the editor.
type Document struct {
	URI        string // Document URI (file:///path/to/file.php)
	LanguageID string // Client language, e.g. "php"
	Content    string // Full document content
	Version    int    // Version number, incremented on each change
	Lines      []int  // Byte offsets of line starts for fast position lookups
}

// DocumentStore manages open documents in memory.
type DocumentStore struct {
	mu        sync.RWMutex
	documents map[string]*Document
}

// NewDocumentStore creates a new document store.
func NewDocumentStore() *DocumentStore {
	return &DocumentStore{
		documents: make(map[string]*Document),
	}
}

// Open adds or replaces a document in the store.
func (s *DocumentStore) Open(uri, languageID, content string, version int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.documents[uri] = &Document{
		URI:        uri,
		LanguageID: languageID,
		Content:    content,
		Version:    version,
		Lines:      computeLineOffsets(content),
	}
}

// Close removes a document from the store.
func (s *DocumentStore) Close(uri string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	delete(s.documents, uri)
}

// Get returns a snapshot of the document, or nil when it is not open.
func (s *DocumentStore) Get(uri string) *Document {
	s.mu.RLock()
	defer s.mu.RUnlock()

	doc, ok := s.documents[uri]
	if !ok {
		return nil
	}
	cp := *doc
	return &cp
}

// Update replaces the content of an open document. Versions older than the
// stored one are ignored.
func (s *DocumentStore) Update(uri, content string, version int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	doc, ok := s.documents[uri]
	if !ok || version < doc.Version {
		return false
	}
	doc.Content = content
	doc.Version = version
	doc.Lines = computeLineOffsets(content)
	return true
}

// computeLineOffsets calculates byte offsets for each line start.
func computeLineOffsets(content string) []int {
	offsets := []int{0} // First line starts at offset 0

	for i := 0; i < len(content); i++ {
		if content[i] == '\n' {
			offsets = append(offsets, i+1)
		}
	}

	return offsets
}

// PositionToOffset converts a Position to a byte offset in the document.
func (d *Document) PositionToOffset(pos Position) int {
	if d == nil || len(d.Lines) == 0 {
		return 0
	}

	line := int(pos.Line)
	if line >= len(d.Lines) {
		return len(d.Content)
	}

	offset := d.Lines[line] + int(pos.Character)
	if offset > len(d.Content) {
		return len(d.Content)
	}

	return offset
}

// OffsetToPosition converts a byte offset to a Position.
func (d *Document) OffsetToPosition(offset int) Position {
	if d == nil || len(d.Lines) == 0 {
		return Position{}
	}

	offset = max(0, min(offset, len(d.Content)))

	line := 0
	for i, lineOffset := range d.Lines {
		if lineOffset > offset {
			break
		}
		line = i
	}

	return Position{
		Line:      uint32(line),                   //nolint:gosec // line count fits in uint32
		Character: uint32(offset - d.Lines[line]), //nolint:gosec // non-negative by construction
	}
}

// GetTextBefore returns the text before the given position.
func (d *Document) GetTextBefore(pos Position) string {
	offset := d.PositionToOffset(pos)
	if offset <= 0 {
		return ""
	}
	return d.Content[:offset]
}

// GetLine returns the content of a specific line without its newline.
func (d *Document) GetLine(line int) string {
	if d == nil || line < 0 || line >= len(d.Lines) {
		return ""
	}

	start := d.Lines[line]
	end := len(d.Content)
	if line+1 < len(d.Lines) {
		end = max(start, d.Lines[line+1]-1)
	}

	return strings.TrimSuffix(d.Content[start:end], "\r")
}

// GetTagAtPosition returns the doc tag ("@since") under pos and its range.
func (d *Document) GetTagAtPosition(pos Position) (string, Range) {
	offset := d.PositionToOffset(pos)
	if offset > len(d.Content) {
		return "", Range{Start: pos, End: pos}
	}

	start := offset
	for start > 0 && isTagChar(d.Content[start-1]) {
		start--
	}
	end := offset
	for end < len(d.Content) && isTagChar(d.Content[end]) {
		end++
	}

	if start == 0 || d.Content[start-1] != '@' || start == end {
		return "", Range{Start: pos, End: pos}
	}
	start--

	return d.Content[start:end], Range{
		Start: d.OffsetToPosition(start),
		End:   d.OffsetToPosition(end),
	}
}

// isTagChar returns true if the character may appear in a tag name.
func isTagChar(c byte) bool {
	return (c >= 'a' && c <= 'z') ||
		(c >= 'A' && c <= 'Z') ||
		(c >= '0' && c <= '9') ||
		c == '_' || c == '-' || c == '\\'
}

// InDocComment reports whether offset lies inside an unterminated "/**"
// comment that starts before it.
func (d *Document) InDocComment(offset int) bool {
	before := d.Content[:max(0, min(offset, len(d.Content)))]
	open := strings.LastIndex(before, "/**")
	if open < 0 {
		return false
	}
	return !strings.Contains(before[open+3:], "*/")
}

// URIToPath converts a file:// URI to a file system path.
func URIToPath(uri string) string {
	u, err := url.Parse(uri)
	if err != nil || u.Scheme != "file" {
		return strings.TrimPrefix(uri, "file://")
	}
	return u.Path
}

// PathToURI converts a file system path to a file:// URI.
func PathToURI(path string) string {
	if strings.HasPrefix(path, "file://") {
		return path
	}
	return (&url.URL{Scheme: "file", Path: path}).String()
}
