package lspserver

import (
	"testing"

	"go.lsp.dev/protocol"
)

func TestDocumentManagerOpenAndGet(t *testing.T) {
	dm := NewDocumentManager()
	uri := protocol.DocumentURI("file:///test.ts")

	doc := dm.Open(uri, "typescript", "let x: number = 1;", 1)
	if doc == nil {
		t.Fatal("expected document to be created")
	}
	if doc.Version.Load() != 1 {
		t.Fatalf("expected version 1, got %d", doc.Version.Load())
	}
	if !doc.Options().IsTypeScript {
		t.Fatalf("expected languageId 'typescript' to select TypeScript mode")
	}

	got := dm.Get(uri)
	if got != doc {
		t.Fatalf("expected Get to return the opened document")
	}
	if dm.Get("file:///missing.ts") != nil {
		t.Fatalf("expected nil for an unopened document")
	}
}

func TestDocumentManagerApplyFullChangeBumpsVersion(t *testing.T) {
	dm := NewDocumentManager()
	uri := protocol.DocumentURI("file:///test.js")
	dm.Open(uri, "javascript", "let x;", 1)

	doc := dm.ApplyFullChange(uri, "let x = 2;", 2)
	if doc == nil {
		t.Fatal("expected ApplyFullChange to return the updated document")
	}
	if doc.Content != "let x = 2;" {
		t.Fatalf("unexpected content: %q", doc.Content)
	}
	if doc.Version.Load() != 2 {
		t.Fatalf("expected version 2, got %d", doc.Version.Load())
	}
	if dm.ApplyFullChange("file:///missing.js", "x", 1) != nil {
		t.Fatalf("expected nil for a document that was never opened")
	}
}

func TestDocumentManagerClose(t *testing.T) {
	dm := NewDocumentManager()
	uri := protocol.DocumentURI("file:///test.ts")
	dm.Open(uri, "typescript", "let x = 1;", 1)
	dm.Close(uri)

	if dm.Get(uri) != nil {
		t.Fatalf("expected document to be removed after Close")
	}
}
