package lsp

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/docsniff/internal/testutil"
	"github.com/leapstack-labs/docsniff/pkg/lint"
)

const legacyPHP = "<?php\n\nclass Legacy {}\n"

// session frames client messages and collects the server's replies.
type session struct {
	t   *testing.T
	in  bytes.Buffer
	out bytes.Buffer
}

func (s *session) request(id int, method string, params any) {
	s.send(map[string]any{"jsonrpc": "2.0", "id": id, "method": method, "params": params})
}

func (s *session) notify(method string, params any) {
	s.send(map[string]any{"jsonrpc": "2.0", "method": method, "params": params})
}

func (s *session) send(msg map[string]any) {
	body, err := json.Marshal(msg)
	require.NoError(s.t, err)
	fmt.Fprintf(&s.in, "Content-Length: %d\r\n\r\n%s", len(body), body)
}

// run feeds every queued message to a server and returns its replies.
func (s *session) run(opts Options) []JSONRPCMessage {
	if opts.Logger == nil {
		opts.Logger = testutil.NewTestLogger(s.t)
	}
	srv := NewServer(&s.in, &s.out, opts)
	require.NoError(s.t, srv.Run())
	return readFrames(s.t, &s.out)
}

func readFrames(t *testing.T, r io.Reader) []JSONRPCMessage {
	t.Helper()
	br := bufio.NewReader(r)
	var msgs []JSONRPCMessage
	for {
		line, err := br.ReadString('\n')
		if err == io.EOF {
			return msgs
		}
		require.NoError(t, err)
		n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "Content-Length:")))
		require.NoError(t, err)
		_, err = br.ReadString('\n')
		require.NoError(t, err)

		body := make([]byte, n)
		_, err = io.ReadFull(br, body)
		require.NoError(t, err)
		var msg JSONRPCMessage
		require.NoError(t, json.Unmarshal(body, &msg))
		msgs = append(msgs, msg)
	}
}

func findResponse(t *testing.T, msgs []JSONRPCMessage, id int) JSONRPCMessage {
	t.Helper()
	want := strconv.Itoa(id)
	for _, m := range msgs {
		if m.ID != nil && string(*m.ID) == want {
			return m
		}
	}
	t.Fatalf("no response with id %d", id)
	return JSONRPCMessage{}
}

func diagnosticsFor(t *testing.T, msgs []JSONRPCMessage, uri string) [][]Diagnostic {
	t.Helper()
	var out [][]Diagnostic
	for _, m := range msgs {
		if m.Method != "textDocument/publishDiagnostics" {
			continue
		}
		var p PublishDiagnosticsParams
		require.NoError(t, json.Unmarshal(m.Params, &p))
		if p.URI == uri {
			out = append(out, p.Diagnostics)
		}
	}
	return out
}

func openParams(uri, languageID, text string) DidOpenTextDocumentParams {
	return DidOpenTextDocumentParams{TextDocument: TextDocumentItem{
		URI: uri, LanguageID: languageID, Version: 1, Text: text,
	}}
}

func codes(diags []Diagnostic) []string {
	out := make([]string, 0, len(diags))
	for _, d := range diags {
		out = append(out, d.Code)
	}
	return out
}

func TestServer_Initialize(t *testing.T) {
	s := &session{t: t}
	s.request(1, "initialize", InitializeParams{RootURI: "file:///project"})
	s.notify("initialized", struct{}{})
	s.request(2, "workspace/symbol", struct{}{})
	s.request(3, "shutdown", nil)
	s.request(4, "textDocument/hover", struct{}{})
	s.notify("exit", nil)

	msgs := s.run(Options{Version: "1.2.3"})

	var result InitializeResult
	require.NoError(t, json.Unmarshal(findResponse(t, msgs, 1).Result, &result))
	assert.Equal(t, TextDocumentSyncKindFull, result.Capabilities.TextDocumentSync.Change)
	assert.True(t, result.Capabilities.TextDocumentSync.Save.IncludeText)
	assert.Equal(t, []string{"@"}, result.Capabilities.CompletionProvider.TriggerCharacters)
	assert.True(t, result.Capabilities.HoverProvider)
	assert.Equal(t, &ServerInfo{Name: "docsniff", Version: "1.2.3"}, result.ServerInfo)

	unknown := findResponse(t, msgs, 2)
	require.NotNil(t, unknown.Error)
	assert.Equal(t, codeMethodNotFound, unknown.Error.Code)

	assert.Nil(t, findResponse(t, msgs, 3).Error)

	afterShutdown := findResponse(t, msgs, 4)
	require.NotNil(t, afterShutdown.Error)
	assert.Equal(t, codeInvalidRequest, afterShutdown.Error.Code)
}

func TestServer_Diagnostics(t *testing.T) {
	uri := "file:///project/src/Legacy.php"

	s := &session{t: t}
	s.request(1, "initialize", InitializeParams{})
	s.notify("textDocument/didOpen", openParams(uri, "php", legacyPHP))
	s.notify("textDocument/didChange", DidChangeTextDocumentParams{
		TextDocument:   VersionedTextDocumentIdentifier{TextDocumentIdentifier{URI: uri}, 2},
		ContentChanges: []TextDocumentContentChangeEvent{{Text: "<?php\n"}},
	})
	s.notify("textDocument/didClose", DidCloseTextDocumentParams{TextDocument: TextDocumentIdentifier{URI: uri}})

	published := diagnosticsFor(t, s.run(Options{}), uri)
	require.Len(t, published, 3)

	opened := published[0]
	assert.ElementsMatch(t, []string{"DC02.Missing", "DC01.Missing"}, codes(opened))
	for _, d := range opened {
		assert.Equal(t, "docsniff", d.Source)
		assert.Equal(t, DiagnosticSeverityError, d.Severity)
		require.NotNil(t, d.CodeDescription)
		assert.True(t, strings.HasPrefix(d.CodeDescription.Href, "https://"), d.CodeDescription.Href)
		assert.LessOrEqual(t, d.Range.Start.Character, d.Range.End.Character)
		assert.Equal(t, d.Range.Start.Line, d.Range.End.Line)
	}

	assert.Equal(t, []string{"DC02.Missing"}, codes(published[1]), "class removed")
	assert.Empty(t, published[2], "closing clears diagnostics")
}

func TestServer_DiagnosticsRespectConfig(t *testing.T) {
	uri := "file:///project/Legacy.php"

	s := &session{t: t}
	s.notify("textDocument/didOpen", openParams(uri, "php", legacyPHP))

	cfg := lint.NewConfig().Disable("DC02").SetSeverity("DC01.Missing", lint.SeverityInfo)
	published := diagnosticsFor(t, s.run(Options{LintConfig: cfg}), uri)
	require.Len(t, published, 1)
	require.Len(t, published[0], 1)
	assert.Equal(t, "DC01.Missing", published[0][0].Code)
	assert.Equal(t, DiagnosticSeverityInformation, published[0][0].Severity)
}

func TestServer_SkipsNonPHP(t *testing.T) {
	s := &session{t: t}
	s.notify("textDocument/didOpen", openParams("file:///notes.txt", "plaintext", legacyPHP))
	s.notify("textDocument/didOpen", openParams("file:///legacy.inc", "", legacyPHP))

	msgs := s.run(Options{Extensions: []string{".php", ".inc"}})

	txt := diagnosticsFor(t, msgs, "file:///notes.txt")
	require.Len(t, txt, 1)
	assert.Empty(t, txt[0])

	inc := diagnosticsFor(t, msgs, "file:///legacy.inc")
	require.Len(t, inc, 1)
	assert.NotEmpty(t, inc[0], "configured extensions are linted")
}

func TestServer_DidSaveUsesText(t *testing.T) {
	uri := "file:///project/Legacy.php"

	s := &session{t: t}
	s.notify("textDocument/didOpen", openParams(uri, "php", "<?php\n"))
	s.notify("textDocument/didSave", DidSaveTextDocumentParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
		Text:         legacyPHP,
	})

	published := diagnosticsFor(t, s.run(Options{}), uri)
	require.Len(t, published, 2)
	assert.Contains(t, codes(published[1]), "DC01.Missing")
}

func TestServer_CompletionAndHover(t *testing.T) {
	uri := "file:///project/Invoice.php"
	src := "<?php\n/**\n * Invoice.\n *\n * @s\n */\nclass Invoice {}\n"

	s := &session{t: t}
	s.notify("textDocument/didOpen", openParams(uri, "php", src))
	s.request(1, "textDocument/completion", CompletionParams{TextDocumentPositionParams: TextDocumentPositionParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
		Position:     Position{Line: 4, Character: 5},
	}})
	s.request(2, "textDocument/completion", CompletionParams{TextDocumentPositionParams: TextDocumentPositionParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
		Position:     Position{Line: 6, Character: 3},
	}})
	s.request(3, "textDocument/hover", HoverParams{TextDocumentPositionParams{
		TextDocument: TextDocumentIdentifier{URI: uri},
		Position:     Position{Line: 0, Character: 2},
	}})

	msgs := s.run(Options{})

	var list CompletionList
	require.NoError(t, json.Unmarshal(findResponse(t, msgs, 1).Result, &list))
	var labels []string
	for _, item := range list.Items {
		labels = append(labels, item.Label)
	}
	assert.Equal(t, []string{"@subpackage", "@see", "@since"}, labels)

	require.NoError(t, json.Unmarshal(findResponse(t, msgs, 2).Result, &list))
	assert.Empty(t, list.Items, "no completion outside doc comments")

	hover := findResponse(t, msgs, 3)
	assert.Nil(t, hover.Error)
	assert.Contains(t, []string{"", "null"}, string(hover.Result), "no hover outside tags")
}

func TestGetCompletions(t *testing.T) {
	srv := NewServer(strings.NewReader(""), io.Discard, Options{})
	src := "<?php\n/**\n * @\n */\n"
	doc := &Document{Content: src, Lines: computeLineOffsets(src)}

	items := srv.getCompletions(doc, Position{Line: 2, Character: 4})
	require.NotEmpty(t, items)

	byLabel := make(map[string]CompletionItem)
	for _, item := range items {
		byLabel[item.Label] = item
	}
	assert.Equal(t, "@category", items[0].Label, "canonical order")
	assert.Equal(t, "class tag, required", byLabel["@since"].Detail)
	assert.Equal(t, "class tag, multiple allowed", byLabel["@author"].Detail)
	assert.Equal(t, "file tag", byLabel["@version"].Detail, "blacklisted for classes, offered for files")
	assert.Equal(t, "@since ", byLabel["@since"].TextEdit.NewText)
	assert.Equal(t, Range{Start: Position{Line: 2, Character: 3}, End: Position{Line: 2, Character: 4}}, byLabel["@since"].TextEdit.Range)

	seen := make(map[string]bool)
	for _, item := range items {
		assert.False(t, seen[item.Label], "duplicate %s", item.Label)
		seen[item.Label] = true
	}
}

func TestGetHover(t *testing.T) {
	srv := NewServer(strings.NewReader(""), io.Discard, Options{
		LintConfig: lint.NewConfig().SetRuleOptions("DC02", map[string]any{"required": []any{"@license"}}),
	})
	src := "<?php\n/**\n * @version 1.0\n * @license MIT\n * @internal\n */\n"
	doc := &Document{Content: src, Lines: computeLineOffsets(src)}

	hover := srv.getHover(doc, Position{Line: 2, Character: 5})
	require.NotNil(t, hover)
	assert.Equal(t, MarkupKindMarkdown, hover.Contents.Kind)
	assert.Contains(t, hover.Contents.Value, "**@version**")
	assert.Contains(t, hover.Contents.Value, "Class comments: not allowed")
	assert.Contains(t, hover.Contents.Value, "File comments: optional, at most once")

	hover = srv.getHover(doc, Position{Line: 3, Character: 5})
	require.NotNil(t, hover)
	assert.Contains(t, hover.Contents.Value, "File comments: required, at most once")

	hover = srv.getHover(doc, Position{Line: 4, Character: 6})
	require.NotNil(t, hover)
	assert.Contains(t, hover.Contents.Value, "Class comments: not recognized")

	assert.Nil(t, srv.getHover(doc, Position{Line: 0, Character: 1}))
}

func TestToLSPSeverity(t *testing.T) {
	assert.Equal(t, DiagnosticSeverityError, toLSPSeverity(lint.SeverityError))
	assert.Equal(t, DiagnosticSeverityWarning, toLSPSeverity(lint.SeverityWarning))
	assert.Equal(t, DiagnosticSeverityInformation, toLSPSeverity(lint.SeverityInfo))
	assert.Equal(t, DiagnosticSeverityHint, toLSPSeverity(lint.SeverityHint))
}
