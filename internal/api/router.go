package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/contaflow/docrecon/internal/pipeline"
	"github.com/contaflow/docrecon/internal/repository"
)

// NewRouter creates the Chi router with all API routes mounted.
func NewRouter(
	docRepo *repository.DocumentRepo,
	invRepo *repository.InvoiceRepo,
	txnRepo *repository.TransactionRepo,
	pipelineSvc *pipeline.Service,
) http.Handler {
	h := &Handlers{
		docRepo:     docRepo,
		invRepo:     invRepo,
		txnRepo:     txnRepo,
		pipelineSvc: pipelineSvc,
	}

	r := chi.NewRouter()

	// Middleware.
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SetHeader("Content-Type", "application/json"))

	r.Route("/api/v1", func(r chi.Router) {
		// Document ingestion.
		r.Post("/documents", h.ProcessDocument)
		r.Get("/documents", h.ListDocuments)
		r.Get("/documents/{id}", h.GetDocument)

		// Extracted data.
		r.Get("/invoices", h.ListInvoices)
		r.Get("/transactions", h.ListTransactions)

		// Matching.
		r.Post("/matching/run", h.RunMatching)

		// Dashboard.
		r.Get("/dashboard", h.GetDashboard)
	})

	return r
}
