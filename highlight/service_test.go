package highlight

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/dshills/limn/grammar"
)

func newTestService(t *testing.T, grammars ...*lineGrammar) *Service {
	t.Helper()
	reg := grammar.NewRegistry()
	if err := reg.Register(grammar.PlainTextRegistration()); err != nil {
		t.Fatal(err)
	}
	for _, g := range grammars {
		if err := reg.Register(g.registration()); err != nil {
			t.Fatal(err)
		}
	}
	s, err := NewService(WithRegistry(reg))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

func TestServiceOpenAndGet(t *testing.T) {
	s := newTestService(t, newLineGrammar("fake", true))
	defer s.CloseAll()

	doc, err := s.Open("fake", []byte(fiveLines))
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if doc.Language() != "fake" {
		t.Errorf("Language = %q, want fake", doc.Language())
	}

	got, ok := s.Get(doc.ID())
	if !ok || got != doc {
		t.Error("Get should return the opened document")
	}

	if _, ok := s.Get(uuid.New()); ok {
		t.Error("Get should miss for unknown ids")
	}
}

func TestServiceOpenUnknownLanguage(t *testing.T) {
	s := newTestService(t)
	defer s.CloseAll()

	doc, err := s.Open("nosuch", []byte("a\nb"))
	if !errors.Is(err, grammar.ErrUnsupportedLanguage) {
		t.Errorf("error = %v, want ErrUnsupportedLanguage", err)
	}
	if doc == nil {
		t.Fatal("Should still open the document")
	}

	// The document renders as plain text.
	res, herr := doc.Highlight(context.Background())
	if herr != nil {
		t.Fatalf("Highlight failed: %v", herr)
	}
	for i, lt := range res.Lines {
		if len(lt) != 0 {
			t.Errorf("line %d should be empty, got %v", i, lt)
		}
	}
}

func TestServiceOpenPath(t *testing.T) {
	s := newTestService(t, newLineGrammar("fake", true))
	defer s.CloseAll()

	cases := []struct {
		name     string
		path     string
		content  string
		wantLang string
	}{
		{"by extension", "main.fake", "var a", "fake"},
		{"unknown extension", "notes.xyz", "hello", grammar.PlainTextID},
		{"no extension", "README", "hello", grammar.PlainTextID},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			doc, err := s.OpenPath(tc.path, []byte(tc.content))
			if err != nil {
				t.Fatalf("OpenPath failed: %v", err)
			}
			if doc.Language() != tc.wantLang {
				t.Errorf("Language = %q, want %q", doc.Language(), tc.wantLang)
			}
			if doc.Path() != tc.path {
				t.Errorf("Path = %q, want %q", doc.Path(), tc.path)
			}
		})
	}
}

func TestServiceClose(t *testing.T) {
	s := newTestService(t, newLineGrammar("fake", true))

	doc, err := s.Open("fake", []byte(fiveLines))
	if err != nil {
		t.Fatal(err)
	}

	if err := s.Close(doc.ID()); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if _, ok := s.Get(doc.ID()); ok {
		t.Error("Closed document should be removed from the table")
	}
	if _, err := doc.Highlight(context.Background()); !errors.Is(err, ErrDocumentClosed) {
		t.Errorf("Highlight = %v, want ErrDocumentClosed", err)
	}

	if err := s.Close(doc.ID()); !errors.Is(err, ErrDocumentNotFound) {
		t.Errorf("second Close = %v, want ErrDocumentNotFound", err)
	}
}

func TestServiceCloseAll(t *testing.T) {
	s := newTestService(t, newLineGrammar("fake", true))

	docs := make([]*Document, 3)
	for i := range docs {
		doc, err := s.Open("fake", []byte("var a"))
		if err != nil {
			t.Fatal(err)
		}
		docs[i] = doc
	}

	s.CloseAll()
	if got := s.Stats().OpenDocuments; got != 0 {
		t.Errorf("OpenDocuments = %d, want 0", got)
	}
	for _, doc := range docs {
		if _, err := doc.Highlight(context.Background()); !errors.Is(err, ErrDocumentClosed) {
			t.Errorf("document %s still usable after CloseAll", doc.ID())
		}
	}
}

func TestServiceLanguages(t *testing.T) {
	s := newTestService(t, newLineGrammar("fake", true), newLineGrammar("alpha", true))
	defer s.CloseAll()

	langs := s.Languages()
	want := []string{"alpha", "fake", grammar.PlainTextID}
	if len(langs) != len(want) {
		t.Fatalf("Languages = %v, want %v", langs, want)
	}
	for i := range want {
		if langs[i] != want[i] {
			t.Errorf("Languages[%d] = %q, want %q", i, langs[i], want[i])
		}
	}
}

func TestServiceStats(t *testing.T) {
	s := newTestService(t, newLineGrammar("fake", true))

	doc, err := s.Open("fake", []byte(fiveLines))
	if err != nil {
		t.Fatal(err)
	}
	if _, err := doc.Highlight(context.Background()); err != nil {
		t.Fatal(err)
	}

	stats := s.Stats()
	if stats.OpenDocuments != 1 || stats.Opens != 1 {
		t.Errorf("stats = %+v, want 1 open document", stats)
	}
	if stats.Loader.Loads != 1 {
		t.Errorf("Loader.Loads = %d, want 1", stats.Loader.Loads)
	}

	if err := s.Close(doc.ID()); err != nil {
		t.Fatal(err)
	}
	if got := s.Stats().Closes; got != 1 {
		t.Errorf("Closes = %d, want 1", got)
	}
}
