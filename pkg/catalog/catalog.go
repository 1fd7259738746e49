// pkg/catalog/catalog.go
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Source is what the catalog is built from. The engine registry satisfies it.
type Source interface {
	Intents() []string
	HandlersFor(intent string) []string
}

// Build snapshots src. Intents are sorted.
func Build(src Source, version string, now time.Time) *Catalog {
	intents := src.Intents()
	sort.Strings(intents)

	c := &Catalog{
		Version:     version,
		GeneratedAt: now.UTC().Format(time.RFC3339),
		Intents:     make([]Intent, 0, len(intents)),
	}
	for _, in := range intents {
		c.Intents = append(c.Intents, Intent{Intent: in, Handlers: src.HandlersFor(in)})
	}
	return c
}

// isYAML selects the encoding from the file extension; anything else is JSON.
func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var c Catalog
	if isYAML(path) {
		err = yaml.Unmarshal(data, &c)
	} else {
		err = json.Unmarshal(data, &c)
	}
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &c, nil
}

func Save(path string, c *Catalog) error {
	data, err := Encode(c, isYAML(path))
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// Encode renders c as indented JSON or, when asYAML is set, YAML.
func Encode(c *Catalog, asYAML bool) ([]byte, error) {
	if asYAML {
		return yaml.Marshal(c)
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(data, '\n'), nil
}

// Validate reports duplicate intents and intents without handlers.
func Validate(c *Catalog) []error {
	var errs []error
	seen := make(map[string]bool, len(c.Intents))
	for _, in := range c.Intents {
		if in.Intent == "" {
			errs = append(errs, fmt.Errorf("intent with empty name"))
			continue
		}
		if seen[in.Intent] {
			errs = append(errs, fmt.Errorf("duplicate intent %s", in.Intent))
		}
		seen[in.Intent] = true
		if len(in.Handlers) == 0 {
			errs = append(errs, fmt.Errorf("intent %s has no handlers", in.Intent))
		}
	}
	return errs
}

// Lookup returns the handlers claiming intent.
func (c *Catalog) Lookup(intent string) ([]string, bool) {
	for _, in := range c.Intents {
		if in.Intent == intent {
			return in.Handlers, true
		}
	}
	return nil, false
}
