package highlight

import (
	"bytes"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/dshills/limn/grammar"
	"github.com/dshills/limn/grammar/treesitter"
	"github.com/dshills/limn/logging"
)

// Service owns the shared grammar registry and loader and the table of
// open documents. One Service backs all documents of an editor session.
type Service struct {
	registry *grammar.Registry
	loader   *grammar.Loader
	log      *logging.Logger

	mu   sync.RWMutex
	docs map[uuid.UUID]*Document

	opens  atomic.Int64
	closes atomic.Int64
}

// ServiceStats holds counters for service activity.
type ServiceStats struct {
	OpenDocuments int
	Opens         int64
	Closes        int64
	Loader        grammar.LoaderStats
}

// NewService creates a service. Unless a custom registry is supplied,
// the registry starts with the plain-text grammar and every built-in
// tree-sitter language.
func NewService(opts ...Option) (*Service, error) {
	s := &Service{
		log:  logging.NullLogger,
		docs: make(map[uuid.UUID]*Document),
	}

	var extra []grammar.Registration
	for _, opt := range opts {
		opt(s, &extra)
	}

	if s.registry == nil {
		s.registry = grammar.NewRegistry()
		if err := s.registry.Register(grammar.PlainTextRegistration()); err != nil {
			return nil, err
		}
		for _, reg := range treesitter.Builtins() {
			if err := s.registry.Register(reg); err != nil {
				return nil, err
			}
		}
	}
	for _, reg := range extra {
		if err := s.registry.Register(reg); err != nil {
			return nil, err
		}
	}

	s.loader = grammar.NewLoader(s.registry, s.log)
	return s, nil
}

// Registry returns the service's grammar registry.
func (s *Service) Registry() *grammar.Registry { return s.registry }

// Loader returns the service's grammar loader.
func (s *Service) Loader() *grammar.Loader { return s.loader }

// Languages returns all registered language ids in lexicographic order.
func (s *Service) Languages() []string { return s.registry.Languages() }

// Open creates a document for an explicit language id. An unknown id
// still opens the document, which renders as plain text; the resolve
// error is returned alongside it.
func (s *Service) Open(langID string, content []byte) (*Document, error) {
	doc := newDocument(langID, "", content, s.loader, s.log)

	var err error
	if _, rerr := s.registry.Resolve(langID); rerr != nil {
		doc.lastErr = rerr
		err = rerr
		s.log.Warn("open %s: %v", doc.id, rerr)
	}

	s.mu.Lock()
	s.docs[doc.id] = doc
	s.mu.Unlock()
	s.opens.Add(1)
	s.log.Debug("opened document %s (language %s)", doc.id, langID)
	return doc, err
}

// OpenPath creates a document for a file path, detecting the language
// from the name and the first content line. Undetected files open as
// plain text.
func (s *Service) OpenPath(path string, content []byte) (*Document, error) {
	langID := grammar.PlainTextID
	if desc, ok := s.registry.Detect(path, firstLine(content)); ok {
		langID = desc.ID
	}

	doc := newDocument(langID, path, content, s.loader, s.log)
	s.mu.Lock()
	s.docs[doc.id] = doc
	s.mu.Unlock()
	s.opens.Add(1)
	s.log.Debug("opened document %s for %s (language %s)", doc.id, path, langID)
	return doc, nil
}

// Get returns an open document by id.
func (s *Service) Get(id uuid.UUID) (*Document, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	doc, ok := s.docs[id]
	return doc, ok
}

// Close closes and removes an open document.
func (s *Service) Close(id uuid.UUID) error {
	s.mu.Lock()
	doc, ok := s.docs[id]
	if ok {
		delete(s.docs, id)
	}
	s.mu.Unlock()

	if !ok {
		return fmt.Errorf("%w: %s", ErrDocumentNotFound, id)
	}
	doc.Close()
	s.closes.Add(1)
	return nil
}

// CloseAll closes every open document.
func (s *Service) CloseAll() {
	s.mu.Lock()
	docs := s.docs
	s.docs = make(map[uuid.UUID]*Document)
	s.mu.Unlock()

	for _, doc := range docs {
		doc.Close()
		s.closes.Add(1)
	}
}

// Stats returns a snapshot of service and loader counters.
func (s *Service) Stats() ServiceStats {
	s.mu.RLock()
	open := len(s.docs)
	s.mu.RUnlock()

	return ServiceStats{
		OpenDocuments: open,
		Opens:         s.opens.Load(),
		Closes:        s.closes.Load(),
		Loader:        s.loader.Stats(),
	}
}

// firstLine returns the first line of content, for shebang detection.
func firstLine(content []byte) string {
	if i := bytes.IndexByte(content, '\n'); i >= 0 {
		return string(content[:i])
	}
	return string(content)
}
