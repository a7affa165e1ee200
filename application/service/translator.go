// Package service implements the application pipeline: corpus rebuild,
// question translation, statement execution, and result normalization.
package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/startuplens/startuplens/domain/corpus"
	"github.com/startuplens/startuplens/domain/query"
	"github.com/startuplens/startuplens/infrastructure/provider"
)

const systemPromptHeader = `You are a SQL expert for a startup companies database. ` +
	`Translate the user's question into a single SQLite SELECT statement. ` +
	`Use only the tables and columns shown below. ` +
	`Respond with SQL only, no explanation.`

// Translator turns a natural-language question into SQL, grounded by
// corpus retrieval. It holds no conversation state; every call assembles
// a fresh prompt from the retrieved context.
type Translator struct {
	store     corpus.Store
	generator provider.TextGenerator
	limit     int
	logger    *slog.Logger
}

// NewTranslator creates a Translator retrieving up to limit items per
// corpus kind for each question.
func NewTranslator(store corpus.Store, generator provider.TextGenerator, limit int, logger *slog.Logger) *Translator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Translator{
		store:     store,
		generator: generator,
		limit:     limit,
		logger:    logger,
	}
}

// Translate produces a SQL statement for the question. Retrieval and
// generation failures, and outputs with no recognizable statement, are
// reported as ErrTranslation.
func (t *Translator) Translate(ctx context.Context, question string) (string, error) {
	items, err := t.store.Retrieve(ctx, question, t.limit)
	if err != nil {
		return "", fmt.Errorf("%w: retrieve context: %v", query.ErrTranslation, err)
	}

	messages := buildPrompt(question, items)

	resp, err := t.generator.ChatCompletion(ctx, provider.NewChatCompletionRequest(messages))
	if err != nil {
		return "", fmt.Errorf("%w: generate: %v", query.ErrTranslation, err)
	}

	sql, err := ExtractSQL(resp.Content())
	if err != nil {
		t.logger.Warn("model output contained no statement", "question", question, "output", resp.Content())
		return "", err
	}

	t.logger.Debug("translated question", "question", question, "sql", sql)
	return sql, nil
}

// buildPrompt assembles the grounded chat prompt: schema facts and
// documentation in the system message, exemplars as few-shot turns, and
// the question last.
func buildPrompt(question string, items []corpus.Item) []provider.Message {
	var ddl, docs []string
	var exemplars []corpus.Item
	for _, item := range items {
		switch item.Kind() {
		case corpus.KindSchemaFact:
			ddl = append(ddl, item.Content())
		case corpus.KindDocumentation:
			docs = append(docs, item.Content())
		case corpus.KindExemplar:
			exemplars = append(exemplars, item)
		}
	}

	var system strings.Builder
	system.WriteString(systemPromptHeader)
	if len(ddl) > 0 {
		system.WriteString("\n\nSchema:\n")
		system.WriteString(strings.Join(ddl, "\n\n"))
	}
	if len(docs) > 0 {
		system.WriteString("\n\nNotes:\n")
		for _, doc := range docs {
			system.WriteString("- ")
			system.WriteString(doc)
			system.WriteString("\n")
		}
	}

	messages := []provider.Message{provider.SystemMessage(system.String())}
	for _, ex := range exemplars {
		messages = append(messages,
			provider.UserMessage(ex.Question()),
			provider.AssistantMessage(ex.Content()),
		)
	}
	return append(messages, provider.UserMessage(question))
}

// ExtractSQL pulls the SQL statement out of a model response. Markdown
// fences are stripped; the statement starts at the first SELECT or WITH
// keyword. Output with no such keyword is ErrTranslation, carrying the
// raw output for diagnosis.
func ExtractSQL(output string) (string, error) {
	text := strings.TrimSpace(output)

	if start := strings.Index(text, "```"); start >= 0 {
		fenced := text[start+3:]
		// Language tag on the opening fence, e.g. ```sql
		if newline := strings.Index(fenced, "\n"); newline >= 0 {
			firstLine := strings.TrimSpace(fenced[:newline])
			if firstLine != "" && !strings.ContainsAny(firstLine, " ;") {
				fenced = fenced[newline+1:]
			}
		}
		if end := strings.Index(fenced, "```"); end >= 0 {
			fenced = fenced[:end]
		}
		text = strings.TrimSpace(fenced)
	}

	upper := strings.ToUpper(text)
	idx := strings.Index(upper, "SELECT")
	if withIdx := strings.Index(upper, "WITH"); withIdx >= 0 && (idx < 0 || withIdx < idx) {
		idx = withIdx
	}
	if idx < 0 {
		return "", fmt.Errorf("%w: model output contained no SELECT statement: %q", query.ErrTranslation, output)
	}

	return strings.TrimSpace(text[idx:]), nil
}
