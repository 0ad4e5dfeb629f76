package grammar

import "context"

// Descriptor identifies how to obtain a parser for a language.
// Descriptors are owned by the Registry and immutable after
// registration.
type Descriptor struct {
	// ID is the opaque language identifier, e.g. "go" or "markdown".
	ID string

	// Name is the human-readable language name.
	Name string

	// Extensions are file extensions including the dot, e.g. ".go".
	Extensions []string

	// Filenames are exact base names, e.g. "Makefile".
	Filenames []string

	// Shebangs are interpreter names matched against a #! first line,
	// e.g. "python".
	Shebangs []string

	// Version identifies the grammar revision.
	Version string

	// Source names the artifact kind backing the grammar,
	// e.g. "tree-sitter" or "lua:markdown.lua".
	Source string
}

// Factory constructs the grammar for a descriptor. Factories may block
// while fetching or compiling grammar resources and are invoked at most
// once per concurrent burst of load requests.
type Factory func(ctx context.Context) (Grammar, error)

// Registration pairs a descriptor with its factory.
type Registration struct {
	Descriptor Descriptor
	Factory    Factory
}
