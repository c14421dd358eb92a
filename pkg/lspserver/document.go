// Package lspserver adapts pkg/compiler to the Language Server Protocol:
// open documents are recompiled on every change and the Diagnostic Sink's
// contents are published back to the client, following the stdio framing
// and document-manager shape tangzhangming/nova's internal/lsp uses.
package lspserver

import (
	"strings"
	"sync"

	"go.lsp.dev/protocol"
	"go.uber.org/atomic"

	"tsforge/pkg/compiler"
)

// Document is one open text document. Version holds the client-supplied
// document version, echoed back in published diagnostics. It is an
// atomic.Int64 rather than a plain int, although the Server reads and
// writes it only from its single Run loop.
type Document struct {
	URI        protocol.DocumentURI
	LanguageID string
	Content    string
	Version    atomic.Int64
}

// Options reports the compilation mode this document's languageId selects.
func (d *Document) Options() compiler.Options {
	return compiler.Options{IsTypeScript: strings.EqualFold(d.LanguageID, "typescript")}
}

// DocumentManager tracks every document currently open in the client,
// keyed by URI.
type DocumentManager struct {
	mu   sync.RWMutex
	docs map[protocol.DocumentURI]*Document
}

// NewDocumentManager creates an empty DocumentManager.
func NewDocumentManager() *DocumentManager {
	return &DocumentManager{docs: make(map[protocol.DocumentURI]*Document)}
}

// Open registers a newly-opened document.
func (m *DocumentManager) Open(uri protocol.DocumentURI, languageID, content string, version int32) *Document {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc := &Document{URI: uri, LanguageID: languageID, Content: content}
	doc.Version.Store(int64(version))
	m.docs[uri] = doc
	return doc
}

// Close forgets a closed document.
func (m *DocumentManager) Close(uri protocol.DocumentURI) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.docs, uri)
}

// Get looks up an open document, or nil if it isn't open.
func (m *DocumentManager) Get(uri protocol.DocumentURI) *Document {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.docs[uri]
}

// ApplyFullChange replaces a document's content with a full-text sync
// event and bumps its version. tsforge only advertises full-document sync
// (TextDocumentSyncKindFull), so every change event carries the entire
// new text rather than an incremental range edit.
func (m *DocumentManager) ApplyFullChange(uri protocol.DocumentURI, content string, version int32) *Document {
	m.mu.Lock()
	defer m.mu.Unlock()

	doc, ok := m.docs[uri]
	if !ok {
		return nil
	}
	doc.Content = content
	doc.Version.Store(int64(version))
	return doc
}
