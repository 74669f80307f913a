package lsp

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"testing"
)

func frame(t *testing.T, v any) string {
	t.Helper()
	body, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return fmt.Sprintf("Content-Length: %d\r\n\r\n%s", len(body), body)
}

func TestServeRespondsToInitialize(t *testing.T) {
	in := strings.NewReader(frame(t, Request{JSONRPC: "2.0", ID: json.RawMessage("1"), Method: "initialize"}))
	var out bytes.Buffer

	s := NewServer(in, &out)
	if err := s.Serve(); err != nil {
		t.Fatalf("Serve() error = %v", err)
	}

	if !strings.Contains(out.String(), `"capabilities"`) {
		t.Fatalf("response missing capabilities: %s", out.String())
	}
}

func TestServePublishesDiagnosticsOnDidOpenWithBadSource(t *testing.T) {
	params, _ := json.Marshal(map[string]any{
		"textDocument": map[string]any{
			"uri":  "file:///bad.ny",
			"text": "fn ( {",
		},
	})
	in := strings.NewReader(frame(t, Request{JSONRPC: "2.0", Method: "textDocument/didOpen", Params: params}))
	var out bytes.Buffer

	s := NewServer(in, &out)
	if err := s.Serve(); err != nil {
		t.Fatalf("Serve() error = %v", err)
	}

	if !strings.Contains(out.String(), "publishDiagnostics") {
		t.Fatalf("expected a publishDiagnostics notification, got: %s", out.String())
	}
}

func TestServeIgnoresUnknownMethod(t *testing.T) {
	in := strings.NewReader(frame(t, Request{JSONRPC: "2.0", Method: "textDocument/hover"}))
	var out bytes.Buffer

	s := NewServer(in, &out)
	if err := s.Serve(); err != nil {
		t.Fatalf("Serve() error = %v", err)
	}
	if out.Len() != 0 {
		t.Fatalf("expected no output for an unhandled method, got: %s", out.String())
	}
}
