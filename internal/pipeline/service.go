// Package pipeline wires document processing to persistence: it runs the
// processor on uploaded bytes, stores the structured results, and
// triggers a matching pass over whatever is currently unmatched.
package pipeline

import (
	"crypto/sha256"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/contaflow/docrecon/internal/domain"
	"github.com/contaflow/docrecon/internal/match"
	"github.com/contaflow/docrecon/internal/process"
	"github.com/contaflow/docrecon/internal/repository"
)

// ProcessResult is returned from a successful document ingest.
type ProcessResult struct {
	DocumentID       string                  `json:"document_id"`
	AlreadyProcessed bool                    `json:"already_processed,omitempty"`
	Extraction       domain.ExtractionResult `json:"extraction"`
	InvoicesStored   int                     `json:"invoices_stored"`
	TxnsStored       int                     `json:"transactions_stored"`
	MatchesCommitted int                     `json:"matches_committed"`
}

// Service handles the full ingest flow for uploaded documents.
type Service struct {
	docRepo *repository.DocumentRepo
	invRepo *repository.InvoiceRepo
	txnRepo *repository.TransactionRepo
	matcher *match.Matcher
}

func NewService(
	docRepo *repository.DocumentRepo,
	invRepo *repository.InvoiceRepo,
	txnRepo *repository.TransactionRepo,
	matcher *match.Matcher,
) *Service {
	return &Service{
		docRepo: docRepo,
		invRepo: invRepo,
		txnRepo: txnRepo,
		matcher: matcher,
	}
}

// ProcessDocument runs extraction on the uploaded bytes and persists the
// outcome. Re-uploading identical bytes is a no-op (file hash check).
// Extraction never fails; an unreadable document is stored as a failed
// DocumentRecord the caller can review. Matching runs after every ingest
// but a matching problem never fails the ingest itself.
func (s *Service) ProcessDocument(data []byte, kind domain.DocumentKind) (*ProcessResult, error) {
	hash := fmt.Sprintf("%x", sha256.Sum256(data))
	exists, err := s.docRepo.ExistsByHash(hash)
	if err != nil {
		return nil, fmt.Errorf("check hash: %w", err)
	}
	if exists {
		return &ProcessResult{AlreadyProcessed: true}, nil
	}

	result := process.Process(data, kind)

	docID := "DOC-" + uuid.NewString()
	now := time.Now()
	doc := &domain.DocumentRecord{
		ID:          docID,
		FileHash:    hash,
		Kind:        result.FileType,
		Success:     result.Success,
		Confidence:  result.Confidence,
		RawText:     result.RawText,
		ProcessedAt: now,
	}
	if err := s.docRepo.Insert(doc); err != nil {
		return nil, fmt.Errorf("insert document: %w", err)
	}

	res := &ProcessResult{DocumentID: docID, Extraction: result}

	if result.Data != nil {
		inv := &domain.Invoice{
			ID:         "INV-" + uuid.NewString(),
			DocumentID: docID,
			Fields:     *result.Data,
			RawText:    result.RawText,
			Confidence: result.Confidence,
			CreatedAt:  now,
		}
		if err := s.invRepo.Insert(inv); err != nil {
			return nil, fmt.Errorf("insert invoice: %w", err)
		}
		res.InvoicesStored = 1
	}

	if len(result.Transactions) > 0 {
		txns := make([]domain.BankTransaction, len(result.Transactions))
		for i, t := range result.Transactions {
			t.ID = "TXN-" + uuid.NewString()
			t.DocumentID = docID
			t.CreatedAt = now
			txns[i] = t
		}
		stored, err := s.txnRepo.BulkInsert(txns)
		if err != nil {
			return nil, fmt.Errorf("insert transactions: %w", err)
		}
		res.TxnsStored = stored
	}

	log.Printf("[pipeline] Processed %s as %s: success=%v confidence=%.2f invoices=%d transactions=%d",
		docID, result.FileType, result.Success, result.Confidence,
		res.InvoicesStored, res.TxnsStored)

	matched, err := s.RunMatching()
	if err != nil {
		log.Printf("[pipeline] WARNING: matching failed after ingest: %v", err)
	} else {
		res.MatchesCommitted = len(matched.Assignments)
	}

	return res, nil
}

// RunMatching loads the unmatched invoice and transaction sets, runs one
// matching pass, and links the committed assignments. Each run is
// independent: it recomputes over the current unmatched sets.
func (s *Service) RunMatching() (*domain.MatchResult, error) {
	invoices, err := s.invRepo.GetUnmatchedCandidates()
	if err != nil {
		return nil, fmt.Errorf("load unmatched invoices: %w", err)
	}
	txns, err := s.txnRepo.GetUnmatched()
	if err != nil {
		return nil, fmt.Errorf("load unmatched transactions: %w", err)
	}

	result := s.matcher.Match(invoices, txns)

	for _, a := range result.Assignments {
		if err := s.txnRepo.LinkInvoice(a.TransactionID, a.InvoiceID); err != nil {
			log.Printf("[pipeline] WARNING: failed to link %s -> %s: %v",
				a.TransactionID, a.InvoiceID, err)
			continue
		}
		log.Printf("[pipeline] Matched %s -> %s (score=%.2f)",
			a.TransactionID, a.InvoiceID, a.Score)
	}

	log.Printf("[pipeline] Matching: %d invoices x %d transactions -> %d assignments, %d transactions left",
		len(invoices), len(txns), len(result.Assignments), len(result.UnmatchedTransactions))

	return &result, nil
}
