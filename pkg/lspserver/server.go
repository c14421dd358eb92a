package lspserver

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	segjson "github.com/segmentio/encoding/json"
	"go.lsp.dev/protocol"
	"go.lsp.dev/uri"
	"go.uber.org/zap"

	"tsforge/pkg/driver"
	"tsforge/pkg/errors"
)

// Server is a minimal Language Server: it understands only the handful of
// textDocument notifications needed to keep the Diagnostic Sink in sync
// with an editor's buffer, framed over stdio the way tangzhangming/nova's
// internal/lsp.Server reads and writes Content-Length delimited JSON-RPC
// messages. jsonrpc2 request IDs are echoed back untouched; tsforge never
// needs to originate a request of its own, only respond to and notify a
// client.
type Server struct {
	log       *zap.SugaredLogger
	driver    *driver.Driver
	documents *DocumentManager

	reader *bufio.Reader
	writer io.Writer
	writeMu sync.Mutex
}

// New creates a Server that reads from r and writes responses/notifications
// to w. A nil logger installs a no-op logger.
func New(log *zap.SugaredLogger, r io.Reader, w io.Writer) *Server {
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Server{
		log:       log,
		driver:    driver.New(log),
		documents: NewDocumentManager(),
		reader:    bufio.NewReader(r),
		writer:    w,
	}
}

// rpcMessage is the envelope every JSON-RPC 2.0 message on the wire
// shares; Method is empty for a bare response.
type rpcMessage struct {
	JSONRPC string             `json:"jsonrpc"`
	ID      segjson.RawMessage `json:"id,omitempty"`
	Method  string             `json:"method,omitempty"`
	Params  segjson.RawMessage `json:"params,omitempty"`
}

// Run reads and dispatches messages until the client sends "exit" or the
// stream closes.
func (s *Server) Run() error {
	s.log.Infow("lsp server started")
	for {
		msg, err := s.readMessage()
		if err != nil {
			if err == io.EOF {
				s.log.Infow("client disconnected")
				return nil
			}
			return fmt.Errorf("reading message: %w", err)
		}

		var env rpcMessage
		if err := segjson.Unmarshal(msg, &env); err != nil {
			s.log.Warnw("malformed message", "error", err)
			continue
		}

		if env.Method == "exit" {
			s.log.Infow("exit notification received")
			return nil
		}
		s.dispatch(env)
	}
}

func (s *Server) dispatch(env rpcMessage) {
	switch env.Method {
	case "initialize":
		s.handleInitialize(env.ID)
	case "initialized", "shutdown":
		if env.ID != nil {
			s.sendResult(env.ID, nil)
		}
	case "textDocument/didOpen":
		s.handleDidOpen(env.Params)
	case "textDocument/didChange":
		s.handleDidChange(env.Params)
	case "textDocument/didClose":
		s.handleDidClose(env.Params)
	default:
		s.log.Debugw("unhandled method", "method", env.Method)
		if env.ID != nil {
			s.sendError(env.ID, -32601, "method not found: "+env.Method)
		}
	}
}

func (s *Server) handleInitialize(id segjson.RawMessage) {
	// Capabilities are sent as a raw map rather than protocol.ServerCapabilities:
	// tsforge only ever advertises textDocumentSync (openClose plus full
	// change sync) and the typed struct's textDocumentSync union (kind or
	// options) adds nothing here.
	result := map[string]interface{}{
		"capabilities": map[string]interface{}{
			"textDocumentSync": map[string]interface{}{
				"openClose": true,
				"change":    1, // TextDocumentSyncKindFull
			},
		},
		"serverInfo": map[string]interface{}{
			"name":    "tsforge",
			"version": "0.1.0",
		},
	}
	s.sendResult(id, result)
}

func (s *Server) handleDidOpen(params segjson.RawMessage) {
	var p protocol.DidOpenTextDocumentParams
	if err := segjson.Unmarshal(params, &p); err != nil {
		s.log.Warnw("bad didOpen params", "error", err)
		return
	}
	doc := s.documents.Open(p.TextDocument.URI, string(p.TextDocument.LanguageID), p.TextDocument.Text, p.TextDocument.Version)
	s.publishDiagnostics(doc)
}

func (s *Server) handleDidChange(params segjson.RawMessage) {
	var p protocol.DidChangeTextDocumentParams
	if err := segjson.Unmarshal(params, &p); err != nil {
		s.log.Warnw("bad didChange params", "error", err)
		return
	}
	if len(p.ContentChanges) == 0 {
		return
	}
	// Full-document sync only: the last change event carries the entire
	// new text.
	text := p.ContentChanges[len(p.ContentChanges)-1].Text
	doc := s.documents.ApplyFullChange(p.TextDocument.URI, text, p.TextDocument.Version)
	if doc != nil {
		s.publishDiagnostics(doc)
	}
}

func (s *Server) handleDidClose(params segjson.RawMessage) {
	var p protocol.DidCloseTextDocumentParams
	if err := segjson.Unmarshal(params, &p); err != nil {
		s.log.Warnw("bad didClose params", "error", err)
		return
	}
	s.documents.Close(p.TextDocument.URI)
	s.sendNotification("textDocument/publishDiagnostics", protocol.PublishDiagnosticsParams{
		URI:         p.TextDocument.URI,
		Diagnostics: []protocol.Diagnostic{},
	})
}

// publishDiagnostics recompiles a document's current content and reports
// the Diagnostic Sink's contents to the client.
func (s *Server) publishDiagnostics(doc *Document) {
	name := uriToDisplayName(doc.URI)
	result := s.driver.CompileString(name, doc.Content, doc.Options())

	diagnostics := make([]protocol.Diagnostic, 0, len(result.Sink.Diagnostics()))
	for _, d := range result.Sink.Diagnostics() {
		diagnostics = append(diagnostics, toProtocolDiagnostic(d))
	}

	s.sendNotification("textDocument/publishDiagnostics", protocol.PublishDiagnosticsParams{
		URI:         doc.URI,
		Version:     uint32(doc.Version.Load()),
		Diagnostics: diagnostics,
	})
}

func toProtocolDiagnostic(d *errors.Diagnostic) protocol.Diagnostic {
	line := uint32(0)
	if d.Pos.Line > 0 {
		line = uint32(d.Pos.Line - 1)
	}
	col := uint32(0)
	if d.Pos.Column > 0 {
		col = uint32(d.Pos.Column - 1)
	}
	return protocol.Diagnostic{
		Range: protocol.Range{
			Start: protocol.Position{Line: line, Character: col},
			End:   protocol.Position{Line: line, Character: col + 1},
		},
		Severity: protocol.DiagnosticSeverityError,
		Source:   "tsforge",
		Message:  fmt.Sprintf("%s: %s", d.Kind, d.Message),
	}
}

func uriToDisplayName(u protocol.DocumentURI) string {
	parsed, err := uri.Parse(string(u))
	if err != nil {
		return string(u)
	}
	return parsed.Filename()
}

func (s *Server) sendResult(id segjson.RawMessage, result interface{}) {
	s.sendMessage(map[string]interface{}{"jsonrpc": "2.0", "id": id, "result": result})
}

func (s *Server) sendError(id segjson.RawMessage, code int, message string) {
	s.sendMessage(map[string]interface{}{
		"jsonrpc": "2.0",
		"id":      id,
		"error":   map[string]interface{}{"code": code, "message": message},
	})
}

func (s *Server) sendNotification(method string, params interface{}) {
	s.sendMessage(map[string]interface{}{"jsonrpc": "2.0", "method": method, "params": params})
}

func (s *Server) sendMessage(msg interface{}) {
	content, err := segjson.Marshal(msg)
	if err != nil {
		s.log.Warnw("failed to marshal outgoing message", "error", err)
		return
	}

	s.writeMu.Lock()
	defer s.writeMu.Unlock()

	fmt.Fprintf(s.writer, "Content-Length: %d\r\n\r\n", len(content))
	s.writer.Write(content)
}

// readMessage reads one Content-Length delimited JSON-RPC message.
func (s *Server) readMessage() ([]byte, error) {
	contentLength := -1
	for {
		line, err := s.reader.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break
		}
		if strings.HasPrefix(line, "Content-Length:") {
			n, err := strconv.Atoi(strings.TrimSpace(strings.TrimPrefix(line, "Content-Length:")))
			if err != nil {
				return nil, fmt.Errorf("invalid Content-Length header %q: %w", line, err)
			}
			contentLength = n
		}
	}
	if contentLength < 0 {
		return nil, fmt.Errorf("missing Content-Length header")
	}

	buf := make([]byte, contentLength)
	if _, err := io.ReadFull(s.reader, buf); err != nil {
		return nil, err
	}
	return buf, nil
}
