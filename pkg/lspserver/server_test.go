package lspserver

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	segjson "github.com/segmentio/encoding/json"
)

func frame(payload string) string {
	return fmt.Sprintf("Content-Length: %d\r\n\r\n%s", len(payload), payload)
}

func readFrames(t *testing.T, out *bytes.Buffer) []map[string]interface{} {
	t.Helper()
	var frames []map[string]interface{}
	remaining := out.String()
	for {
		idx := strings.Index(remaining, "\r\n\r\n")
		if idx < 0 {
			break
		}
		header := remaining[:idx]
		var length int
		if _, err := fmt.Sscanf(header, "Content-Length: %d", &length); err != nil {
			t.Fatalf("bad header %q: %v", header, err)
		}
		body := remaining[idx+4 : idx+4+length]
		var msg map[string]interface{}
		if err := segjson.Unmarshal([]byte(body), &msg); err != nil {
			t.Fatalf("bad body %q: %v", body, err)
		}
		frames = append(frames, msg)
		remaining = remaining[idx+4+length:]
	}
	return frames
}

func TestServerPublishesDiagnosticsOnDidOpen(t *testing.T) {
	didOpen := frame(`{"jsonrpc":"2.0","method":"textDocument/didOpen","params":{"textDocument":{"uri":"file:///a.ts","languageId":"typescript","version":1,"text":"let x: number = \"oops\";"}}}`)
	exit := frame(`{"jsonrpc":"2.0","method":"exit"}`)

	in := strings.NewReader(didOpen + exit)
	var out bytes.Buffer

	srv := New(nil, in, &out)
	if err := srv.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	frames := readFrames(t, &out)
	var found bool
	for _, f := range frames {
		if f["method"] == "textDocument/publishDiagnostics" {
			found = true
			params := f["params"].(map[string]interface{})
			diags := params["diagnostics"].([]interface{})
			if len(diags) == 0 {
				t.Fatalf("expected at least one diagnostic for a type mismatch")
			}
		}
	}
	if !found {
		t.Fatalf("expected a publishDiagnostics notification, got %+v", frames)
	}
}

func TestServerClearsDiagnosticsOnDidClose(t *testing.T) {
	didOpen := frame(`{"jsonrpc":"2.0","method":"textDocument/didOpen","params":{"textDocument":{"uri":"file:///a.ts","languageId":"typescript","version":1,"text":"let x: number = 1;"}}}`)
	didClose := frame(`{"jsonrpc":"2.0","method":"textDocument/didClose","params":{"textDocument":{"uri":"file:///a.ts"}}}`)
	exit := frame(`{"jsonrpc":"2.0","method":"exit"}`)

	in := strings.NewReader(didOpen + didClose + exit)
	var out bytes.Buffer

	srv := New(nil, in, &out)
	if err := srv.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	frames := readFrames(t, &out)
	last := frames[len(frames)-1]
	if last["method"] != "textDocument/publishDiagnostics" {
		t.Fatalf("expected the final notification to clear diagnostics, got %+v", last)
	}
	params := last["params"].(map[string]interface{})
	diags := params["diagnostics"].([]interface{})
	if len(diags) != 0 {
		t.Fatalf("expected an empty diagnostics array on close, got %v", diags)
	}
}

func TestServerRespondsToInitialize(t *testing.T) {
	initialize := frame(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`)
	exit := frame(`{"jsonrpc":"2.0","method":"exit"}`)

	in := strings.NewReader(initialize + exit)
	var out bytes.Buffer

	srv := New(nil, in, &out)
	if err := srv.Run(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	frames := readFrames(t, &out)
	if len(frames) == 0 {
		t.Fatalf("expected an initialize response")
	}
	if _, ok := frames[0]["result"]; !ok {
		t.Fatalf("expected a result field in the initialize response, got %+v", frames[0])
	}
}
