// Package corpus defines the knowledge corpus that grounds translation:
// schema facts, documentation entries, and question/SQL exemplars.
package corpus

import (
	"crypto/sha256"
	"encoding/hex"
)

// Kind identifies an item kind within the corpus.
type Kind string

// Item kinds.
const (
	KindSchemaFact    Kind = "schema_fact"
	KindDocumentation Kind = "documentation"
	KindExemplar      Kind = "exemplar"
)

// Item is one retrievable unit of the knowledge corpus. Items are
// immutable; they are replaced only by a corpus rebuild.
type Item struct {
	kind     Kind
	question string
	content  string
}

// NewSchemaFact creates a schema fact item from a structural definition.
func NewSchemaFact(ddl string) Item {
	return Item{kind: KindSchemaFact, content: ddl}
}

// NewDocumentation creates a documentation item from a free-text passage.
func NewDocumentation(text string) Item {
	return Item{kind: KindDocumentation, content: text}
}

// NewExemplar creates an exemplar item from a validated question/SQL pair.
func NewExemplar(question, sql string) Item {
	return Item{kind: KindExemplar, question: question, content: sql}
}

// Kind returns the item kind.
func (i Item) Kind() Kind { return i.kind }

// Question returns the natural-language question (exemplars only).
func (i Item) Question() string { return i.question }

// Content returns the item body: DDL for schema facts, passage text for
// documentation, SQL text for exemplars.
func (i Item) Content() string { return i.content }

// EmbeddingText returns the text the item is indexed under for similarity
// retrieval. Exemplars are indexed by their question so that similar
// questions retrieve them.
func (i Item) EmbeddingText() string {
	if i.kind == KindExemplar {
		return i.question
	}
	return i.content
}

// Hash returns a stable content hash identifying the item. Two items with
// the same kind, question, and content share a hash, which is what makes
// corpus rebuilds idempotent.
func (i Item) Hash() string {
	h := sha256.New()
	h.Write([]byte(string(i.kind)))
	h.Write([]byte{0})
	h.Write([]byte(i.question))
	h.Write([]byte{0})
	h.Write([]byte(i.content))
	return hex.EncodeToString(h.Sum(nil))
}

// IsZero reports whether the item is the zero value.
func (i Item) IsZero() bool {
	return i.kind == "" && i.question == "" && i.content == ""
}
