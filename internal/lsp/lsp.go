// Package lsp is the minimal Language Server Protocol stub spec §1
// calls for beyond the hard part: `initialize`, `textDocument/didOpen`,
// and `publishDiagnostics` over stdio JSON-RPC, calling straight into
// internal/parser — a thin I/O wrapper, not a full language server.
// Framing follows the LSP spec's own Content-Length-prefixed framing,
// the same "encoding/json over a raw stream" idiom the teacher uses for
// its own network protocols (scm/network.go's HTTP/websocket handlers),
// generalized here from HTTP/websocket framing to stdio framing since
// no example repo in the pack carries a JSON-RPC library to reach for
// instead.
package lsp

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/nytrix-lang/nytrix/internal/parser"
)

// Request is a JSON-RPC 2.0 request or notification (ID is nil for a
// notification).
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response is a JSON-RPC 2.0 response.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Result  any             `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError is a JSON-RPC 2.0 error object.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Diagnostic is the LSP wire shape for one diagnostic — a small subset
// of the real protocol's fields, just enough for publishDiagnostics.
type Diagnostic struct {
	Range    Range  `json:"range"`
	Severity int    `json:"severity"`
	Message  string `json:"message"`
}

// Range is an LSP zero-based line/character span.
type Range struct {
	Start Position `json:"start"`
	End   Position `json:"end"`
}

// Position is a zero-based line/character location.
type Position struct {
	Line      int `json:"line"`
	Character int `json:"character"`
}

type didOpenParams struct {
	TextDocument struct {
		URI  string `json:"uri"`
		Text string `json:"text"`
	} `json:"textDocument"`
}

type publishDiagnosticsParams struct {
	URI         string       `json:"uri"`
	Diagnostics []Diagnostic `json:"diagnostics"`
}

// Server reads Content-Length-framed JSON-RPC requests from r and
// writes responses/notifications to w until r is exhausted.
type Server struct {
	r *bufio.Reader
	w io.Writer
}

// NewServer wraps r/w for the stdio transport (spec §1: "a thin I/O
// wrapper").
func NewServer(r io.Reader, w io.Writer) *Server {
	return &Server{r: bufio.NewReader(r), w: w}
}

// Serve processes requests until EOF or a fatal transport error.
func (s *Server) Serve() error {
	for {
		req, err := s.readMessage()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
		if err := s.dispatch(req); err != nil {
			return err
		}
	}
}

func (s *Server) dispatch(req *Request) error {
	switch req.Method {
	case "initialize":
		return s.writeResponse(req.ID, map[string]any{
			"capabilities": map[string]any{
				"textDocumentSync": 1, // full-document sync
			},
		})
	case "textDocument/didOpen":
		var p didOpenParams
		if err := json.Unmarshal(req.Params, &p); err != nil {
			return err
		}
		return s.publishDiagnostics(p.TextDocument.URI, p.TextDocument.Text)
	case "shutdown":
		return s.writeResponse(req.ID, nil)
	default:
		// notifications and methods this stub doesn't implement are
		// silently ignored, matching "a thin I/O wrapper" scope.
		return nil
	}
}

// publishDiagnostics parses text and sends every parser.Diagnostic it
// produced back to the client as a textDocument/publishDiagnostics
// notification.
func (s *Server) publishDiagnostics(uri, text string) error {
	p := parser.New(uri, text)
	p.ParseProgram()

	diags := make([]Diagnostic, 0, len(p.Diagnostics()))
	for _, d := range p.Diagnostics() {
		line := d.Line - 1
		if line < 0 {
			line = 0
		}
		col := d.Column - 1
		if col < 0 {
			col = 0
		}
		diags = append(diags, Diagnostic{
			Range:    Range{Start: Position{Line: line, Character: col}, End: Position{Line: line, Character: col}},
			Severity: 1, // Error
			Message:  d.Message,
		})
	}

	return s.writeNotification("textDocument/publishDiagnostics", publishDiagnosticsParams{
		URI:         uri,
		Diagnostics: diags,
	})
}

func (s *Server) writeResponse(id json.RawMessage, result any) error {
	return s.writeMessage(Response{JSONRPC: "2.0", ID: id, Result: result})
}

func (s *Server) writeNotification(method string, params any) error {
	raw, err := json.Marshal(params)
	if err != nil {
		return err
	}
	return s.writeMessage(Request{JSONRPC: "2.0", Method: method, Params: raw})
}

func (s *Server) writeMessage(v any) error {
	body, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(s.w, "Content-Length: %d\r\n\r\n%s", len(body), body)
	return err
}

func (s *Server) readMessage() (*Request, error) {
	var length int
	for {
		line, err := s.r.ReadString('\n')
		if err != nil {
			return nil, err
		}
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			break // blank line ends the header block
		}
		if name, value, ok := strings.Cut(line, ":"); ok && strings.EqualFold(strings.TrimSpace(name), "Content-Length") {
			length, err = strconv.Atoi(strings.TrimSpace(value))
			if err != nil {
				return nil, fmt.Errorf("lsp: invalid Content-Length %q: %w", value, err)
			}
		}
	}
	if length == 0 {
		return nil, fmt.Errorf("lsp: message with no Content-Length header")
	}

	body := make([]byte, length)
	if _, err := io.ReadFull(s.r, body); err != nil {
		return nil, err
	}

	var req Request
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, err
	}
	return &req, nil
}
