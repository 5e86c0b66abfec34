package repository

import (
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/contaflow/docrecon/internal/domain"
)

type DocumentRepo struct {
	db *sql.DB
}

func NewDocumentRepo(db *sql.DB) *DocumentRepo {
	return &DocumentRepo{db: db}
}

func (r *DocumentRepo) Insert(d *domain.DocumentRecord) error {
	_, err := r.db.Exec(
		`INSERT OR IGNORE INTO documents
		(id, file_hash, kind, success, confidence, raw_text, processed_at)
		VALUES (?,?,?,?,?,?,?)`,
		d.ID, d.FileHash, string(d.Kind), boolToInt(d.Success), d.Confidence,
		d.RawText, d.ProcessedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

// ExistsByHash reports whether a document with the same file hash was
// already processed. Used for ingest idempotency.
func (r *DocumentRepo) ExistsByHash(hash string) (bool, error) {
	var count int
	err := r.db.QueryRow(
		"SELECT COUNT(*) FROM documents WHERE file_hash = ?", hash,
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("count by hash: %w", err)
	}
	return count > 0, nil
}

func (r *DocumentRepo) GetByID(id string) (*domain.DocumentRecord, error) {
	row := r.db.QueryRow(
		"SELECT id, file_hash, kind, success, confidence, raw_text, processed_at FROM documents WHERE id = ?",
		id,
	)
	return scanDocument(row)
}

type DocumentFilter struct {
	Kind          string
	MaxConfidence *float64
	Page          int
	Limit         int
}

// List returns documents matching the filter, newest first. MaxConfidence
// lets a reviewer pull only the poor extractions.
func (r *DocumentRepo) List(f DocumentFilter) ([]domain.DocumentRecord, int, error) {
	var clauses []string
	var args []any
	if f.Kind != "" {
		clauses = append(clauses, "kind = ?")
		args = append(args, f.Kind)
	}
	if f.MaxConfidence != nil {
		clauses = append(clauses, "confidence <= ?")
		args = append(args, *f.MaxConfidence)
	}
	where := ""
	if len(clauses) > 0 {
		where = " WHERE " + strings.Join(clauses, " AND ")
	}

	var total int
	if err := r.db.QueryRow("SELECT COUNT(*) FROM documents"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count: %w", err)
	}

	if f.Limit <= 0 {
		f.Limit = 50
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	args = append(args, f.Limit, (f.Page-1)*f.Limit)

	rows, err := r.db.Query(
		"SELECT id, file_hash, kind, success, confidence, raw_text, processed_at FROM documents"+
			where+" ORDER BY processed_at DESC LIMIT ? OFFSET ?", args...)
	if err != nil {
		return nil, 0, fmt.Errorf("query: %w", err)
	}
	defer rows.Close()

	var docs []domain.DocumentRecord
	for rows.Next() {
		var d domain.DocumentRecord
		var kind, processedAt string
		var success int
		if err := rows.Scan(&d.ID, &d.FileHash, &kind, &success, &d.Confidence, &d.RawText, &processedAt); err != nil {
			return nil, 0, fmt.Errorf("scan: %w", err)
		}
		d.Kind = domain.DocumentKind(kind)
		d.Success = success != 0
		d.ProcessedAt, _ = time.Parse(time.RFC3339, processedAt)
		docs = append(docs, d)
	}
	return docs, total, rows.Err()
}

// Stats aggregates processing outcomes for the dashboard.
type DocumentStats struct {
	Total         int     `json:"total"`
	Invoices      int     `json:"invoices"`
	Statements    int     `json:"statements"`
	Failed        int     `json:"failed"`
	AvgConfidence float64 `json:"avg_confidence"`
}

func (r *DocumentRepo) GetStats() (*DocumentStats, error) {
	s := &DocumentStats{}
	err := r.db.QueryRow(`
		SELECT
			COUNT(*),
			COALESCE(SUM(CASE WHEN kind='invoice' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN kind='statement' THEN 1 ELSE 0 END), 0),
			COALESCE(SUM(CASE WHEN success=0 THEN 1 ELSE 0 END), 0),
			COALESCE(AVG(confidence), 0)
		FROM documents
	`).Scan(&s.Total, &s.Invoices, &s.Statements, &s.Failed, &s.AvgConfidence)
	return s, err
}

func scanDocument(row *sql.Row) (*domain.DocumentRecord, error) {
	var d domain.DocumentRecord
	var kind, processedAt string
	var success int
	err := row.Scan(&d.ID, &d.FileHash, &kind, &success, &d.Confidence, &d.RawText, &processedAt)
	if err != nil {
		return nil, err
	}
	d.Kind = domain.DocumentKind(kind)
	d.Success = success != 0
	d.ProcessedAt, _ = time.Parse(time.RFC3339, processedAt)
	return &d, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
