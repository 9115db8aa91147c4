package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// PostgresDocumentRepository implements DocumentRepository on PostgreSQL.
type PostgresDocumentRepository struct {
	db DB
}

// NewPostgresDocumentRepository creates a PostgreSQL-backed repository.
func NewPostgresDocumentRepository(db DB) *PostgresDocumentRepository {
	return &PostgresDocumentRepository{db: db}
}

// CreateDocument stores a document with its header fields and entries in one
// transaction.
func (r *PostgresDocumentRepository) CreateDocument(ctx context.Context, doc *Document, headers []HeaderField, entries []Entry) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO documents (id, name, currency, structurally_valid, failed_line, failed_class, reason, semantic_mismatch, expected_minor, stated_minor)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		doc.ID, doc.Name, doc.Currency, doc.StructurallyValid, doc.FailedLine,
		doc.FailedClass, doc.Reason, doc.SemanticMismatch, doc.ExpectedMinor, doc.StatedMinor,
	)
	if err != nil {
		return fmt.Errorf("failed to insert document: %w", err)
	}

	for _, h := range headers {
		_, err = tx.Exec(ctx, `
			INSERT INTO document_headers (document_id, position, name, value)
			VALUES ($1, $2, $3, $4)`,
			doc.ID, h.Position, h.Name, h.Value,
		)
		if err != nil {
			return fmt.Errorf("failed to insert header field: %w", err)
		}
	}

	for _, e := range entries {
		_, err = tx.Exec(ctx, `
			INSERT INTO document_entries (document_id, position, entry_date, description, kind, amount_minor, currency, source_line)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
			doc.ID, e.Position, e.EntryDate, e.Description, e.Kind, e.AmountMinor, e.Currency, e.SourceLine,
		)
		if err != nil {
			return fmt.Errorf("failed to insert entry: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit document: %w", err)
	}
	return nil
}

// GetDocument retrieves a stored document by ID.
func (r *PostgresDocumentRepository) GetDocument(ctx context.Context, id uuid.UUID) (*Document, error) {
	doc := &Document{}
	err := r.db.QueryRow(ctx, `
		SELECT id, name, currency, structurally_valid, failed_line, failed_class, reason, semantic_mismatch, expected_minor, stated_minor, created_at
		FROM documents
		WHERE id = $1`, id,
	).Scan(
		&doc.ID, &doc.Name, &doc.Currency, &doc.StructurallyValid, &doc.FailedLine,
		&doc.FailedClass, &doc.Reason, &doc.SemanticMismatch, &doc.ExpectedMinor,
		&doc.StatedMinor, &doc.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get document: %w", err)
	}
	return doc, nil
}

// ListEntries returns a document's entries in original input order.
func (r *PostgresDocumentRepository) ListEntries(ctx context.Context, documentID uuid.UUID) ([]Entry, error) {
	rows, err := r.db.Query(ctx, `
		SELECT document_id, position, entry_date, description, kind, amount_minor, currency, source_line
		FROM document_entries
		WHERE document_id = $1
		ORDER BY position`, documentID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.DocumentID, &e.Position, &e.EntryDate, &e.Description, &e.Kind, &e.AmountMinor, &e.Currency, &e.SourceLine); err != nil {
			return nil, fmt.Errorf("failed to scan entry: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read entries: %w", err)
	}
	return entries, nil
}
