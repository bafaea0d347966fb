package lsp

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"
	"sync"

	"github.com/leapstack-labs/docsniff/pkg/lint"
	"github.com/leapstack-labs/docsniff/pkg/lint/doccomment"
	_ "github.com/leapstack-labs/docsniff/pkg/lint/rules" // Register sniffs
)

// Options configures a Server.
type Options struct {
	// LintConfig selects rules, severities and rule options. Nil means defaults.
	LintConfig *lint.Config
	// Extensions lists the file extensions linted when the client does not
	// report the "php" language. Defaults to ".php".
	Extensions []string
	// Version is reported to the client in serverInfo.
	Version string
	// Logger receives server logs. Nil discards them.
	Logger *slog.Logger
}

// Server implements the Language Server Protocol for docsniff.
type Server struct {
	// Document management
	documents *DocumentStore

	// Linting
	analyzer    *lint.Analyzer
	classPolicy *doccomment.Policy
	filePolicy  *doccomment.Policy
	extensions  []string
	version     string

	// Project context
	projectRoot string
	initialized bool

	// I/O
	reader  *bufio.Reader
	writer  io.Writer
	writeMu sync.Mutex

	// Logging
	logger *slog.Logger

	// Shutdown state
	shutdown   bool
	exited     bool
	shutdownMu sync.RWMutex
}

// NewServer creates a new LSP server instance.
func NewServer(reader io.Reader, writer io.Writer, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	lintCfg := opts.LintConfig
	if lintCfg == nil {
		lintCfg = lint.NewConfig()
	}
	extensions := opts.Extensions
	if len(extensions) == 0 {
		extensions = []string{".php"}
	}

	return &Server{
		documents:   NewDocumentStore(),
		analyzer:    lint.NewAnalyzer(lintCfg, lint.WithLogger(logger)),
		classPolicy: resolvePolicy(doccomment.ClassPolicy(), lintCfg.GetRuleOptions("DC01"), logger),
		filePolicy:  resolvePolicy(doccomment.FilePolicy(), lintCfg.GetRuleOptions("DC02"), logger),
		extensions:  extensions,
		version:     opts.Version,
		reader:      bufio.NewReader(reader),
		writer:      writer,
		logger:      logger,
	}
}

// resolvePolicy applies rule options to base. Invalid options fall back to
// base; the analyzer reports the same error on the first lint.
func resolvePolicy(base *doccomment.Policy, raw map[string]any, logger *slog.Logger) *doccomment.Policy {
	p, err := doccomment.PolicyFromOptions(base, raw)
	if err != nil {
		logger.Warn("invalid policy options, using preset", slog.String("error", err.Error()))
		return base
	}
	return p
}

// Run processes JSON-RPC messages until the client disconnects or sends exit.
func (s *Server) Run() error {
	s.logger.Info("docsniff LSP server starting")

	for {
		s.shutdownMu.RLock()
		exited := s.exited
		s.shutdownMu.RUnlock()
		if exited {
			return nil
		}

		msg, err := s.readMessage()
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
				s.logger.Info("client disconnected")
				return nil
			}
			s.logger.Error("error reading message", "error", err)
			continue
		}

		if err := s.handleMessage(msg); err != nil {
			s.logger.Error("error handling message", "method", msg.Method, "error", err)
		}
	}
}

// JSONRPCMessage represents a JSON-RPC 2.0 message.
type JSONRPCMessage struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      *json.RawMessage `json:"id,omitempty"`
	Method  string           `json:"method,omitempty"`
	Params  json.RawMessage  `json:"params,omitempty"`
	Result  json.RawMessage  `json:"result,omitempty"`
	Error   *JSONRPCError    `json:"error,omitempty"`
}

// JSONRPCError represents a JSON-RPC error.
type JSONRPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// JSON-RPC error codes.
const (
	codeInvalidParams  = -32602
	codeMethodNotFound = -32601
	codeInvalidRequest = -32600
)

// readMessage reads a JSON-RPC message from the input stream.
func (s *Server) readMessage() (*JSONRPCMessage, error) {
	var contentLength int
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			return nil, err
		}

		line = strings.TrimSpace(line)
		if line == "" {
			break // End of headers
		}

		if name, value, ok := strings.Cut(line, ":"); ok && strings.EqualFold(name, "Content-Length") {
			contentLength, err = strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return nil, fmt.Errorf("invalid Content-Length: %w", err)
			}
		}
	}

	if contentLength == 0 {
		return nil, fmt.Errorf("missing Content-Length header")
	}

	body := make([]byte, contentLength)
	if _, err := io.ReadFull(s.reader, body); err != nil {
		return nil, fmt.Errorf("error reading body: %w", err)
	}

	var msg JSONRPCMessage
	if err := json.Unmarshal(body, &msg); err != nil {
		return nil, fmt.Errorf("error parsing message: %w", err)
	}

	return &msg, nil
}

// sendResponse sends a JSON-RPC response.
func (s *Server) sendResponse(id *json.RawMessage, result any, err *JSONRPCError) {
	msg := JSONRPCMessage{
		JSONRPC: "2.0",
		ID:      id,
	}

	if err != nil {
		msg.Error = err
	} else {
		resultBytes, _ := json.Marshal(result)
		msg.Result = resultBytes
	}

	s.writeMessage(&msg)
}

// sendNotification sends a JSON-RPC notification (no ID).
func (s *Server) sendNotification(method string, params any) {
	msg := JSONRPCMessage{
		JSONRPC: "2.0",
		Method:  method,
	}

	if params != nil {
		paramsBytes, _ := json.Marshal(params)
		msg.Params = paramsBytes
	}

	s.writeMessage(&msg)
}

// writeMessage writes a JSON-RPC message to the output stream.
func (s *Server) writeMessage(msg *JSONRPCMessage) {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	body, err := json.Marshal(msg)
	if err != nil {
		s.logger.Error("error marshaling message", "error", err)
		return
	}

	header := fmt.Sprintf("Content-Length: %d\r\n\r\n", len(body))
	_, _ = s.writer.Write([]byte(header))
	_, _ = s.writer.Write(body)
}

// handleMessage dispatches a message to the appropriate handler.
func (s *Server) handleMessage(msg *JSONRPCMessage) error {
	s.logger.Debug("received", "method", msg.Method)

	s.shutdownMu.RLock()
	shutdown := s.shutdown
	s.shutdownMu.RUnlock()
	if shutdown && msg.Method != "exit" {
		if msg.ID != nil {
			s.sendResponse(msg.ID, nil, &JSONRPCError{
				Code:    codeInvalidRequest,
				Message: "server is shutting down",
			})
		}
		return nil
	}

	switch msg.Method {
	case "initialize":
		return s.handleInitialize(msg)
	case "initialized":
		return s.handleInitialized(msg)
	case "shutdown":
		return s.handleShutdown(msg)
	case "exit":
		return s.handleExit(msg)
	case "textDocument/didOpen":
		return s.handleDidOpen(msg)
	case "textDocument/didClose":
		return s.handleDidClose(msg)
	case "textDocument/didChange":
		return s.handleDidChange(msg)
	case "textDocument/didSave":
		return s.handleDidSave(msg)
	case "textDocument/completion":
		return s.handleCompletion(msg)
	case "textDocument/hover":
		return s.handleHover(msg)
	default:
		if msg.ID != nil {
			s.sendResponse(msg.ID, nil, &JSONRPCError{
				Code:    codeMethodNotFound,
				Message: "Method not found: " + msg.Method,
			})
		}
		return nil
	}
}

// --- Lifecycle handlers ---

func (s *Server) handleInitialize(msg *JSONRPCMessage) error {
	var params InitializeParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		s.sendResponse(msg.ID, nil, &JSONRPCError{Code: codeInvalidParams, Message: err.Error()})
		return err
	}

	if params.RootURI != "" {
		s.projectRoot = URIToPath(params.RootURI)
	}
	s.logger.Info("project root", "path", s.projectRoot)

	result := InitializeResult{
		Capabilities: ServerCapabilities{
			TextDocumentSync: &TextDocumentSyncOptions{
				OpenClose: true,
				Change:    TextDocumentSyncKindFull,
				Save: &SaveOptions{
					IncludeText: true,
				},
			},
			CompletionProvider: &CompletionOptions{
				TriggerCharacters: []string{"@"},
			},
			HoverProvider: true,
		},
		ServerInfo: &ServerInfo{Name: "docsniff", Version: s.version},
	}

	s.sendResponse(msg.ID, result, nil)
	return nil
}

func (s *Server) handleInitialized(_ *JSONRPCMessage) error {
	s.initialized = true
	s.logger.Info("server initialized")
	return nil
}

func (s *Server) handleShutdown(msg *JSONRPCMessage) error {
	s.shutdownMu.Lock()
	s.shutdown = true
	s.shutdownMu.Unlock()

	s.sendResponse(msg.ID, nil, nil)
	s.logger.Info("server shutdown")
	return nil
}

func (s *Server) handleExit(_ *JSONRPCMessage) error {
	s.shutdownMu.Lock()
	s.exited = true
	s.shutdownMu.Unlock()

	s.logger.Info("server exit")
	return nil
}

// --- Document handlers ---

func (s *Server) handleDidOpen(msg *JSONRPCMessage) error {
	var params DidOpenTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}

	item := params.TextDocument
	s.documents.Open(item.URI, item.LanguageID, item.Text, item.Version)
	s.logger.Debug("opened", "uri", item.URI)

	s.publishDiagnostics(item.URI)
	return nil
}

func (s *Server) handleDidClose(msg *JSONRPCMessage) error {
	var params DidCloseTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}

	s.documents.Close(params.TextDocument.URI)
	s.logger.Debug("closed", "uri", params.TextDocument.URI)

	// Clear diagnostics
	s.sendNotification("textDocument/publishDiagnostics", &PublishDiagnosticsParams{
		URI:         params.TextDocument.URI,
		Diagnostics: []Diagnostic{},
	})
	return nil
}

func (s *Server) handleDidChange(msg *JSONRPCMessage) error {
	var params DidChangeTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}

	// Full sync: the last change carries the whole document.
	if len(params.ContentChanges) == 0 {
		return nil
	}
	text := params.ContentChanges[len(params.ContentChanges)-1].Text
	if !s.documents.Update(params.TextDocument.URI, text, params.TextDocument.Version) {
		s.logger.Debug("ignored change", "uri", params.TextDocument.URI, "version", params.TextDocument.Version)
		return nil
	}

	s.publishDiagnostics(params.TextDocument.URI)
	return nil
}

func (s *Server) handleDidSave(msg *JSONRPCMessage) error {
	var params DidSaveTextDocumentParams
	if err := json.Unmarshal(msg.Params, &params); err != nil {
		return err
	}

	uri := params.TextDocument.URI
	if params.Text != "" {
		if doc := s.documents.Get(uri); doc != nil {
			s.documents.Update(uri, params.Text, doc.Version)
		}
	}

	s.publishDiagnostics(uri)
	return nil
}
