// Package loader reads slot type definitions from YAML files and compiles
// their computed and derived expressions into attribute producers.
package loader

import (
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/slotforge-labs/slotforge/internal/script"
	"github.com/slotforge-labs/slotforge/pkg/slots"
)

// maxParallelFiles bounds concurrent definition-file parses.
const maxParallelFiles = 8

// Definition is one type parsed from a definition file, with its
// expressions already compiled.
type Definition struct {
	Name   string
	Slots  []string
	Frozen bool
	File   string

	// Defaults, Computed and Derived feed the assignment pipeline.
	Defaults map[string]any
	Computed map[string]slots.Producer
	Derived  map[string]slots.DependentProducer

	// ComputedSrc and DerivedSrc keep the original expression sources for
	// display and persistence.
	ComputedSrc map[string]string
	DerivedSrc  map[string]string

	// Fingerprint is the structural fingerprint of Name plus Slots.
	Fingerprint uint64
}

// Sources assembles the pipeline sources for one construction call:
// the definition's computed/defaults/derived stages plus the caller's
// overrides.
func (d *Definition) Sources(overrides map[string]any) slots.Sources {
	return slots.Sources{
		Computed:  d.Computed,
		Defaults:  d.Defaults,
		Overrides: overrides,
		Derived:   d.Derived,
	}
}

// Schema builds a schema from the definition.
func (d *Definition) Schema() (*slots.Schema, error) {
	return slots.New(d.Name, d.Slots)
}

// DefinitionError reports an invalid type definition.
type DefinitionError struct {
	File    string
	Type    string
	Message string
}

func (e *DefinitionError) Error() string {
	switch {
	case e.File != "" && e.Type != "":
		return fmt.Sprintf("%s: type %q: %s", e.File, e.Type, e.Message)
	case e.File != "":
		return fmt.Sprintf("%s: %s", e.File, e.Message)
	default:
		return fmt.Sprintf("type %q: %s", e.Type, e.Message)
	}
}

// definitionFileYAML is the on-disk shape of a definition file.
type definitionFileYAML struct {
	Types []definitionYAML `yaml:"types"`
}

type definitionYAML struct {
	Name     string            `yaml:"name"`
	Slots    []string          `yaml:"slots"`
	Defaults map[string]any    `yaml:"defaults"`
	Computed map[string]string `yaml:"computed"`
	Derived  map[string]string `yaml:"derived"`
	Frozen   bool              `yaml:"frozen"`
}

// Loader parses definition files from a types directory.
type Loader struct {
	engine *script.Engine
	logger *slog.Logger
}

// New creates a loader. The engine compiles computed/derived expressions;
// a nil logger discards all output.
func New(engine *script.Engine, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Loader{engine: engine, logger: logger}
}

// LoadDir parses every *.yaml and *.yml file under dir (recursively) and
// returns the definitions sorted by type name. Files are parsed
// concurrently; the first error aborts the load.
func (l *Loader) LoadDir(dir string) ([]*Definition, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		switch strings.ToLower(filepath.Ext(path)) {
		case ".yaml", ".yml":
			files = append(files, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to scan types directory %s: %w", dir, err)
	}

	var (
		mu   sync.Mutex
		defs []*Definition
	)
	g := new(errgroup.Group)
	g.SetLimit(maxParallelFiles)

	for _, file := range files {
		g.Go(func() error {
			parsed, err := l.LoadFile(file)
			if err != nil {
				return err
			}
			mu.Lock()
			defs = append(defs, parsed...)
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })

	// Duplicate names across files are a definition conflict, not a
	// last-one-wins situation like the in-memory registry.
	for i := 1; i < len(defs); i++ {
		if defs[i].Name == defs[i-1].Name {
			return nil, &DefinitionError{
				File:    defs[i].File,
				Type:    defs[i].Name,
				Message: "already defined in " + defs[i-1].File,
			}
		}
	}

	l.logger.Debug("loaded type definitions", "dir", dir, "files", len(files), "types", len(defs))
	return defs, nil
}

// LoadFile parses a single definition file.
func (l *Loader) LoadFile(path string) ([]*Definition, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read definition file: %w", err)
	}

	var doc definitionFileYAML
	dec := yaml.NewDecoder(strings.NewReader(string(raw)))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, &DefinitionError{File: path, Message: err.Error()}
	}
	if len(doc.Types) == 0 {
		return nil, &DefinitionError{File: path, Message: "no types defined"}
	}

	defs := make([]*Definition, 0, len(doc.Types))
	for _, entry := range doc.Types {
		def, err := l.build(path, entry)
		if err != nil {
			return nil, err
		}
		defs = append(defs, def)
	}
	return defs, nil
}

// build validates one YAML entry and compiles its expressions.
func (l *Loader) build(file string, entry definitionYAML) (*Definition, error) {
	if entry.Name == "" {
		return nil, &DefinitionError{File: file, Message: "type name is required"}
	}
	if len(entry.Slots) == 0 {
		return nil, &DefinitionError{File: file, Type: entry.Name, Message: "at least one slot is required"}
	}

	// Validate the slot list by building a schema for it; reject mapping
	// keys that name undeclared slots.
	schema, err := slots.New(entry.Name, entry.Slots)
	if err != nil {
		return nil, &DefinitionError{File: file, Type: entry.Name, Message: err.Error()}
	}
	for _, stage := range []struct {
		label string
		keys  []string
	}{
		{"defaults", slots.KeysOf(entry.Defaults)},
		{"computed", slots.KeysOf(entry.Computed)},
		{"derived", slots.KeysOf(entry.Derived)},
	} {
		for _, key := range stage.keys {
			if _, ok := schema.Index(key); !ok {
				return nil, &DefinitionError{
					File:    file,
					Type:    entry.Name,
					Message: fmt.Sprintf("%s key %q is not a declared slot", stage.label, key),
				}
			}
		}
	}

	def := &Definition{
		Name:        entry.Name,
		Slots:       append([]string(nil), entry.Slots...),
		Frozen:      entry.Frozen,
		File:        file,
		Defaults:    entry.Defaults,
		Computed:    make(map[string]slots.Producer, len(entry.Computed)),
		Derived:     make(map[string]slots.DependentProducer, len(entry.Derived)),
		ComputedSrc: entry.Computed,
		DerivedSrc:  entry.Derived,
		Fingerprint: schema.Fingerprint(),
	}

	for key, expr := range entry.Computed {
		produce, err := l.engine.Compile(entry.Name+"."+key, expr)
		if err != nil {
			return nil, &DefinitionError{File: file, Type: entry.Name, Message: fmt.Sprintf("computed %q: %v", key, err)}
		}
		def.Computed[key] = produce
	}
	for key, expr := range entry.Derived {
		produce, err := l.engine.CompileDependent(entry.Name+"."+key, expr)
		if err != nil {
			return nil, &DefinitionError{File: file, Type: entry.Name, Message: fmt.Sprintf("derived %q: %v", key, err)}
		}
		def.Derived[key] = produce
	}

	return def, nil
}
