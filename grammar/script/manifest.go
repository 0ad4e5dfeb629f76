package script

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/dshills/limn/grammar"
)

// ManifestName is the manifest filename inside a script grammar
// directory.
const ManifestName = "grammars.yaml"

// Manifest describes the script grammars in a directory.
type Manifest struct {
	Languages []Language `yaml:"languages"`
}

// Language is one manifest entry.
type Language struct {
	ID         string   `yaml:"id"`
	Name       string   `yaml:"name"`
	Extensions []string `yaml:"extensions"`
	Filenames  []string `yaml:"filenames"`
	Shebangs   []string `yaml:"shebangs"`
	Version    string   `yaml:"version"`
	Script     string   `yaml:"script"`
}

// LoadManifest reads and validates the manifest in dir.
func LoadManifest(dir string) (*Manifest, error) {
	path := filepath.Join(dir, ManifestName)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parse manifest %s: %w", path, err)
	}

	for i, lang := range m.Languages {
		if lang.ID == "" {
			return nil, fmt.Errorf("%w: manifest entry %d has no id", grammar.ErrInvalidRegistration, i)
		}
		if lang.Script == "" {
			return nil, fmt.Errorf("%w: manifest entry %q has no script", grammar.ErrInvalidRegistration, lang.ID)
		}
	}
	return &m, nil
}

// Registrations loads the manifest in dir and returns one registration
// per entry. Script files are read when the grammar is first loaded,
// not at registration time, so an evict-and-reload picks up edits.
func Registrations(dir string) ([]grammar.Registration, error) {
	m, err := LoadManifest(dir)
	if err != nil {
		return nil, err
	}

	regs := make([]grammar.Registration, 0, len(m.Languages))
	for _, lang := range m.Languages {
		lang := lang
		version := lang.Version
		if version == "" {
			version = "1"
		}
		scriptPath := filepath.Join(dir, lang.Script)
		regs = append(regs, grammar.Registration{
			Descriptor: grammar.Descriptor{
				ID:         lang.ID,
				Name:       lang.Name,
				Extensions: lang.Extensions,
				Filenames:  lang.Filenames,
				Shebangs:   lang.Shebangs,
				Version:    version,
				Source:     "script",
			},
			Factory: func(ctx context.Context) (grammar.Grammar, error) {
				src, err := os.ReadFile(scriptPath)
				if err != nil {
					return nil, fmt.Errorf("read script %s: %w", lang.Script, err)
				}
				return New(lang.ID, string(src))
			},
		})
	}
	return regs, nil
}
