// Package service orchestrates one document parse end to end: line
// splitting, dialect probing, classification and state machine drive,
// reconciliation, and persistence of the outcome.
package service

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/FACorreiaa/invoice-parser/internal/domain/parse/classifier"
	"github.com/FACorreiaa/invoice-parser/internal/domain/parse/machine"
	"github.com/FACorreiaa/invoice-parser/internal/domain/parse/reconcile"
	"github.com/FACorreiaa/invoice-parser/internal/domain/parse/repository"
	"github.com/FACorreiaa/invoice-parser/pkg/config"
)

// Result is the outcome of one parse request. DocumentID identifies the
// stored outcome; the record itself is a pure function of the input lines.
type Result struct {
	DocumentID uuid.UUID            `json:"document_id"`
	Record     *machine.ParseRecord `json:"record"`
	Verdict    machine.Verdict      `json:"verdict"`
}

// Service runs parses and stores their outcomes. The repository is optional;
// without one the service is a pure function over the input.
type Service struct {
	cfg     config.ParserConfig
	repo    repository.DocumentRepository
	metrics *Metrics
	logger  *slog.Logger
	tracer  trace.Tracer
}

// NewService creates a parse service. repo may be nil to disable persistence.
func NewService(cfg config.ParserConfig, repo repository.DocumentRepository, metrics *Metrics, logger *slog.Logger) *Service {
	return &Service{
		cfg:     cfg,
		repo:    repo,
		metrics: metrics,
		logger:  logger,
		tracer:  otel.Tracer("parse.service"),
	}
}

// ParseDocument reads the statement from r and parses it. The returned
// Result always carries a verdict, valid or not; err reports infrastructure
// failures (unreadable input, storage) only.
func (s *Service) ParseDocument(ctx context.Context, name string, r io.Reader) (*Result, error) {
	ctx, span := s.tracer.Start(ctx, "ParseDocument")
	defer span.End()

	start := time.Now()

	lines, err := ReadLines(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read document: %w", err)
	}

	european := s.cfg.EuropeanAmounts
	if d := ProbeDialect(lines); d != DialectUnknown {
		european = d == DialectEuropean
	}

	driver := machine.NewDriver(machine.Config{
		DefaultCurrency: s.cfg.DefaultCurrency,
		EuropeanAmounts: european,
		Classifier:      classifier.Config{FuzzyLabels: s.cfg.FuzzyLabels},
	})
	rec, verdict := driver.Parse(lines)

	if verdict.Valid() {
		if mismatch := reconcile.Check(rec); mismatch != nil {
			verdict.Semantic = mismatch
			s.metrics.SemanticMismatches.Inc()
		}
	} else {
		s.metrics.StructuralFailures.Inc()
	}
	s.metrics.DocumentsParsed.Inc()
	s.metrics.ParseDuration.Observe(time.Since(start).Seconds())

	id := uuid.New()
	s.logger.Info("document parsed",
		slog.String("name", name),
		slog.String("document_id", id.String()),
		slog.String("verdict", string(verdict.Kind)),
		slog.Int("entries", len(rec.Entries)),
		slog.Bool("semantic_mismatch", verdict.Semantic != nil),
	)

	result := &Result{DocumentID: id, Record: rec, Verdict: verdict}

	if s.repo != nil {
		doc, headers, entries := toRows(id, name, rec, verdict)
		if err := s.repo.CreateDocument(ctx, doc, headers, entries); err != nil {
			return result, fmt.Errorf("failed to store parse outcome: %w", err)
		}
	}
	return result, nil
}

// ReadLines splits the reader into lines, tolerating CRLF endings. The
// service owns this boundary so the core packages never see an io.Reader.
func ReadLines(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var lines []string
	for scanner.Scan() {
		lines = append(lines, strings.TrimRight(scanner.Text(), "\r"))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

// toRows flattens a parse outcome into repository rows.
func toRows(id uuid.UUID, name string, rec *machine.ParseRecord, verdict machine.Verdict) (*repository.Document, []repository.HeaderField, []repository.Entry) {
	doc := &repository.Document{
		ID:                id,
		Name:              name,
		Currency:          rec.Currency,
		StructurallyValid: verdict.Valid(),
		FailedLine:        verdict.Line,
		FailedClass:       string(verdict.Class),
		Reason:            verdict.Reason,
	}
	if verdict.Semantic != nil {
		doc.SemanticMismatch = true
		doc.ExpectedMinor = verdict.Semantic.Expected.Amount()
		doc.StatedMinor = verdict.Semantic.Actual.Amount()
	} else if rec.Total != nil {
		doc.ExpectedMinor = rec.Total.Amount()
		doc.StatedMinor = rec.Total.Amount()
	}

	headers := make([]repository.HeaderField, len(rec.Header))
	for i, h := range rec.Header {
		headers[i] = repository.HeaderField{DocumentID: id, Position: i, Name: h.Name, Value: h.Value}
	}

	entries := make([]repository.Entry, len(rec.Entries))
	for i, e := range rec.Entries {
		entries[i] = repository.Entry{
			DocumentID:  id,
			Position:    i,
			EntryDate:   e.Date,
			Description: e.Description,
			Kind:        string(e.Kind),
			AmountMinor: e.Amount.Amount(),
			Currency:    e.Amount.Currency(),
			SourceLine:  e.Line,
		}
	}
	return doc, headers, entries
}
