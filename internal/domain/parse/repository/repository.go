// Package repository persists parse outcomes. The core parser never touches
// storage; the service maps a ParseRecord and its verdict into these rows
// after the parse completes.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound is returned when a document does not exist.
var ErrNotFound = errors.New("document not found")

// DB is the subset of pgxpool.Pool the repository needs. pgxmock implements
// it too, so repository tests run without a database.
type DB interface {
	Begin(ctx context.Context) (pgx.Tx, error)
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Document is one stored parse outcome.
type Document struct {
	ID                uuid.UUID
	Name              string
	Currency          string
	StructurallyValid bool
	FailedLine        int
	FailedClass       string
	Reason            string
	SemanticMismatch  bool
	ExpectedMinor     int64 // recomputed entry sum, minor units
	StatedMinor       int64 // total stated in the document, minor units
	CreatedAt         time.Time
}

// HeaderField is one stored header line, position-ordered.
type HeaderField struct {
	DocumentID uuid.UUID
	Position   int
	Name       string
	Value      string
}

// Entry is one stored line item, position-ordered.
type Entry struct {
	DocumentID  uuid.UUID
	Position    int
	EntryDate   string
	Description string
	Kind        string
	AmountMinor int64
	Currency    string
	SourceLine  int
}

// DocumentRepository stores and retrieves parse outcomes.
type DocumentRepository interface {
	CreateDocument(ctx context.Context, doc *Document, headers []HeaderField, entries []Entry) error
	GetDocument(ctx context.Context, id uuid.UUID) (*Document, error)
	ListEntries(ctx context.Context, documentID uuid.UUID) ([]Entry, error)
}
