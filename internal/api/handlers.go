package api

import (
	"database/sql"
	"encoding/json"
	"io"
	"log"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/contaflow/docrecon/internal/domain"
	"github.com/contaflow/docrecon/internal/pipeline"
	"github.com/contaflow/docrecon/internal/repository"
)

// Handlers groups all HTTP handler methods and their dependencies.
type Handlers struct {
	docRepo     *repository.DocumentRepo
	invRepo     *repository.InvoiceRepo
	txnRepo     *repository.TransactionRepo
	pipelineSvc *pipeline.Service
}

// --- helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("[api] encode error: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 1 {
		return def
	}
	return v
}

func parseFloatPtr(s string) *float64 {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &v
}

func parseBoolPtr(s string) *bool {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseBool(s)
	if err != nil {
		return nil
	}
	return &v
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// --- ProcessDocument ---

func (h *Handlers) ProcessDocument(w http.ResponseWriter, r *http.Request) {
	// Accept multipart form.
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form: "+err.Error())
		return
	}

	kind := domain.DocumentKind(r.FormValue("kind"))
	if !kind.Valid() {
		writeError(w, http.StatusBadRequest, "kind must be \"invoice\" or \"statement\"")
		return
	}

	file, _, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required: "+err.Error())
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "read file: "+err.Error())
		return
	}

	result, err := h.pipelineSvc.ProcessDocument(data, kind)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// --- ListDocuments ---

func (h *Handlers) ListDocuments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.DocumentFilter{
		Kind:          q.Get("kind"),
		MaxConfidence: parseFloatPtr(q.Get("max_confidence")),
		Page:          parseIntDefault(q.Get("page"), 1),
		Limit:         parseIntDefault(q.Get("limit"), 50),
	}

	docs, total, err := h.docRepo.List(filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"documents": docs,
		"total":     total,
		"page":      filter.Page,
		"limit":     filter.Limit,
	})
}

// --- GetDocument ---

func (h *Handlers) GetDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	doc, err := h.docRepo.GetByID(id)
	if err != nil {
		if err == sql.ErrNoRows {
			writeError(w, http.StatusNotFound, "document not found")
			return
		}
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, doc)
}

// --- ListInvoices ---

func (h *Handlers) ListInvoices(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.InvoiceFilter{
		PartnerCUI: q.Get("partner_cui"),
		Currency:   q.Get("currency"),
		From:       q.Get("from"),
		To:         q.Get("to"),
		Page:       parseIntDefault(q.Get("page"), 1),
		Limit:      parseIntDefault(q.Get("limit"), 50),
	}

	invs, total, err := h.invRepo.List(filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"invoices": invs,
		"total":    total,
		"page":     filter.Page,
		"limit":    filter.Limit,
	})
}

// --- ListTransactions ---

func (h *Handlers) ListTransactions(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter := repository.TransactionFilter{
		Direction: q.Get("direction"),
		Currency:  q.Get("currency"),
		Matched:   parseBoolPtr(q.Get("matched")),
		From:      q.Get("from"),
		To:        q.Get("to"),
		Page:      parseIntDefault(q.Get("page"), 1),
		Limit:     parseIntDefault(q.Get("limit"), 50),
	}

	txns, total, err := h.txnRepo.List(filter)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"transactions": txns,
		"total":        total,
		"page":         filter.Page,
		"limit":        filter.Limit,
	})
}

// --- RunMatching ---

func (h *Handlers) RunMatching(w http.ResponseWriter, r *http.Request) {
	result, err := h.pipelineSvc.RunMatching()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"assignments":            result.Assignments,
		"unmatched_transactions": result.UnmatchedTransactions,
		"matched_count":          len(result.Assignments),
		"unmatched_count":        len(result.UnmatchedTransactions),
	})
}

// --- GetDashboard ---

func (h *Handlers) GetDashboard(w http.ResponseWriter, r *http.Request) {
	docStats, err := h.docRepo.GetStats()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	matchStats, err := h.txnRepo.GetMatchStats()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	currencyVols, err := h.txnRepo.GetVolumeByCurrency()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	coverage := 0.0
	if matchStats.Total > 0 {
		coverage = float64(matchStats.Matched) / float64(matchStats.Total)
	}

	dashboard := map[string]any{
		"documents": map[string]any{
			"total":          docStats.Total,
			"invoices":       docStats.Invoices,
			"statements":     docStats.Statements,
			"failed":         docStats.Failed,
			"avg_confidence": round2(docStats.AvgConfidence),
		},
		"matching": map[string]any{
			"transactions":   matchStats.Total,
			"matched":        matchStats.Matched,
			"unmatched":      matchStats.Unmatched,
			"coverage":       round2(coverage),
			"matched_volume": round2(matchStats.MatchedVolume),
		},
		"volume": map[string]any{
			"debit":  round2(matchStats.DebitVolume),
			"credit": round2(matchStats.CreditVolume),
		},
		"by_currency": currencyVols,
	}

	writeJSON(w, http.StatusOK, dashboard)
}
