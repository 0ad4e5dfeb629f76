package grammar

import (
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

// Registry owns the set of available languages and resolves language
// ids to descriptors. Resolution is pure lookup with no I/O.
type Registry struct {
	mu sync.RWMutex

	// byID maps language ids to registrations
	byID map[string]*registration

	// byExtension maps file extensions (with dot) to language ids
	byExtension map[string]string

	// byFilename maps exact base names to language ids
	byFilename map[string]string
}

type registration struct {
	desc    Descriptor
	factory Factory
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		byID:        make(map[string]*registration),
		byExtension: make(map[string]string),
		byFilename:  make(map[string]string),
	}
}

// Register adds a language to the registry.
func (r *Registry) Register(reg Registration) error {
	if reg.Descriptor.ID == "" || reg.Factory == nil {
		return NewOperationError("register", reg.Descriptor.ID, ErrInvalidRegistration)
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.byID[reg.Descriptor.ID]; exists {
		return NewOperationError("register", reg.Descriptor.ID, ErrAlreadyRegistered)
	}

	r.byID[reg.Descriptor.ID] = &registration{desc: reg.Descriptor, factory: reg.Factory}
	for _, ext := range reg.Descriptor.Extensions {
		if ext != "" && ext[0] != '.' {
			ext = "." + ext
		}
		r.byExtension[ext] = reg.Descriptor.ID
	}
	for _, name := range reg.Descriptor.Filenames {
		r.byFilename[name] = reg.Descriptor.ID
	}
	return nil
}

// Languages returns all registered language ids in lexicographic order.
func (r *Registry) Languages() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]string, 0, len(r.byID))
	for id := range r.byID {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Resolve returns the descriptor for a language id.
func (r *Registry) Resolve(id string) (*Descriptor, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	reg, ok := r.byID[id]
	if !ok {
		return nil, NewOperationError("resolve", id, ErrUnsupportedLanguage)
	}
	desc := reg.desc
	return &desc, nil
}

// Detect resolves a descriptor from a file path and optionally the
// file's first line. Matching order: exact base name, extension, then
// shebang interpreter.
func (r *Registry) Detect(path, firstLine string) (*Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	base := filepath.Base(path)
	if id, ok := r.byFilename[base]; ok {
		return r.descriptorLocked(id)
	}

	ext := strings.ToLower(filepath.Ext(base))
	if ext != "" {
		if id, ok := r.byExtension[ext]; ok {
			return r.descriptorLocked(id)
		}
	}

	if strings.HasPrefix(firstLine, "#!") {
		lower := strings.ToLower(firstLine)
		for id, reg := range r.byID {
			for _, interp := range reg.desc.Shebangs {
				if strings.Contains(lower, interp) {
					return r.descriptorLocked(id)
				}
			}
		}
	}

	return nil, false
}

func (r *Registry) descriptorLocked(id string) (*Descriptor, bool) {
	reg, ok := r.byID[id]
	if !ok {
		return nil, false
	}
	desc := reg.desc
	return &desc, true
}

// lookup returns the registration for a language id.
func (r *Registry) lookup(id string) (*registration, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	reg, ok := r.byID[id]
	return reg, ok
}
