package service

import (
	"context"
	"log/slog"

	"github.com/startuplens/startuplens/domain/query"
)

// smokeTestQuestion exercises the full pipeline over a multi-join path:
// industry filter plus founder experience through the bridge table.
const smokeTestQuestion = "AI companies whose founders previously worked at Google"

// QueryService runs the full question-to-identifiers pipeline:
// translate, execute, normalize. Pipeline failures never escape as
// errors; they come back as Response values with the failure in-band, so
// the transport can always answer uniformly.
type QueryService struct {
	translator *Translator
	executor   *Executor
	normalizer *Normalizer
	logger     *slog.Logger
}

// NewQueryService creates a QueryService.
func NewQueryService(translator *Translator, executor *Executor, normalizer *Normalizer, logger *slog.Logger) *QueryService {
	if logger == nil {
		logger = slog.Default()
	}
	return &QueryService{
		translator: translator,
		executor:   executor,
		normalizer: normalizer,
		logger:     logger,
	}
}

// Query answers a natural-language question with a deduplicated company
// identifier sequence. An empty sequence is a legitimate answer; failure
// is signaled only through the response's error field.
func (s *QueryService) Query(ctx context.Context, question string) query.Response {
	sql, err := s.translator.Translate(ctx, question)
	if err != nil {
		s.logger.Warn("translation failed", "question", question, "error", err)
		return query.NewErrorResponse(question, err)
	}

	table, err := s.executor.Execute(ctx, sql)
	if err != nil {
		// Failure responses never carry SQL; the translated statement
		// still reaches the log for diagnosis.
		s.logger.Warn("execution failed", "question", question, "sql", sql, "error", err)
		return query.NewErrorResponse(question, err)
	}

	normalized := s.normalizer.Normalize(table)
	if normalized.Degraded() {
		return query.NewRowResponse(question, sql, normalized.Rows())
	}

	s.logger.Info("query answered", "question", question, "sql", sql, "companies", len(normalized.CompanyIDs()))
	return query.NewResponse(question, sql, normalized.CompanyIDs())
}

// SmokeTest runs a fixed multi-join question through the live pipeline.
func (s *QueryService) SmokeTest(ctx context.Context) query.Response {
	return s.Query(ctx, smokeTestQuestion)
}
