package corpus

import (
	_ "embed"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

//go:embed seed.yaml
var defaultDefinition []byte

// Definition is the versioned, reviewable corpus content: the curated
// documentation entries and exemplars upserted on every rebuild. Schema
// facts are not part of the definition; they are extracted live from the
// relational store. The definition is versioned alongside the relational
// schema — schema changes require corresponding definition updates.
type Definition struct {
	version       int
	documentation []string
	exemplars     []ExemplarEntry
}

// ExemplarEntry is one question/SQL pair in a corpus definition.
type ExemplarEntry struct {
	question string
	sql      string
}

// Question returns the natural-language question.
func (e ExemplarEntry) Question() string { return e.question }

// SQL returns the validated SQL text.
func (e ExemplarEntry) SQL() string { return e.sql }

// Version returns the definition version.
func (d Definition) Version() int { return d.version }

// Documentation returns the documentation passages.
func (d Definition) Documentation() []string {
	out := make([]string, len(d.documentation))
	copy(out, d.documentation)
	return out
}

// Exemplars returns the exemplar entries.
func (d Definition) Exemplars() []ExemplarEntry {
	out := make([]ExemplarEntry, len(d.exemplars))
	copy(out, d.exemplars)
	return out
}

// Items returns the definition content as corpus items in declaration order.
func (d Definition) Items() []Item {
	items := make([]Item, 0, len(d.documentation)+len(d.exemplars))
	for _, doc := range d.documentation {
		items = append(items, NewDocumentation(doc))
	}
	for _, ex := range d.exemplars {
		items = append(items, NewExemplar(ex.question, ex.sql))
	}
	return items
}

type definitionYAML struct {
	Version       int      `yaml:"version"`
	Documentation []string `yaml:"documentation"`
	Exemplars     []struct {
		Question string `yaml:"question"`
		SQL      string `yaml:"sql"`
	} `yaml:"exemplars"`
}

// ParseDefinition parses a YAML corpus definition.
func ParseDefinition(data []byte) (Definition, error) {
	var raw definitionYAML
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Definition{}, fmt.Errorf("parse corpus definition: %w", err)
	}

	def := Definition{
		version:       raw.Version,
		documentation: raw.Documentation,
	}
	for i, ex := range raw.Exemplars {
		if ex.Question == "" || ex.SQL == "" {
			return Definition{}, fmt.Errorf("corpus definition exemplar %d: question and sql are required", i)
		}
		def.exemplars = append(def.exemplars, ExemplarEntry{question: ex.Question, sql: ex.SQL})
	}
	return def, nil
}

// LoadDefinition loads a corpus definition from a YAML file.
func LoadDefinition(path string) (Definition, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Definition{}, fmt.Errorf("read corpus definition: %w", err)
	}
	return ParseDefinition(data)
}

// DefaultDefinition returns the corpus definition embedded in the binary.
func DefaultDefinition() Definition {
	def, err := ParseDefinition(defaultDefinition)
	if err != nil {
		// The embedded definition is validated by tests; reaching this
		// means the binary itself is broken.
		panic(fmt.Sprintf("embedded corpus definition invalid: %v", err))
	}
	return def
}
