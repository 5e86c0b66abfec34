package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/contaflow/docrecon/internal/api"
	"github.com/contaflow/docrecon/internal/match"
	"github.com/contaflow/docrecon/internal/pipeline"
	"github.com/contaflow/docrecon/internal/repository"
)

func main() {
	fs := ff.NewFlagSet("docrecon")
	var (
		port        = fs.IntLong("port", 8080, "HTTP server port")
		dbPath      = fs.StringLong("db", "docrecon.db", "SQLite database file path")
		companyName = fs.StringLong("company-name", "", "Owning company name, excluded from counterparty matching")
		companyCUI  = fs.StringLong("company-cui", "", "Owning company tax id (CUI), excluded from matching")
		matchFloor  = fs.Float64Long("match-floor", match.DefaultFloor, "Minimum score for an auto-match")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("DOCRECON"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	log.Printf("Initializing database at %s", *dbPath)
	db, err := repository.InitDB(*dbPath)
	if err != nil {
		log.Fatalf("Failed to init DB: %v", err)
	}
	defer db.Close()

	// Create repositories.
	docRepo := repository.NewDocumentRepo(db)
	invRepo := repository.NewInvoiceRepo(db)
	txnRepo := repository.NewTransactionRepo(db)

	// Create services.
	matcher := match.New(*companyName, *companyCUI)
	matcher.Floor = *matchFloor
	pipelineSvc := pipeline.NewService(docRepo, invRepo, txnRepo, matcher)

	// Create router.
	router := api.NewRouter(docRepo, invRepo, txnRepo, pipelineSvc)

	log.Printf("docrecon: document understanding & invoice/transaction reconciliation")
	log.Printf("Listening on http://localhost:%d", *port)
	log.Printf("API base: http://localhost:%d/api/v1", *port)
	log.Printf("")
	log.Printf("Endpoints:")
	log.Printf("  POST   /api/v1/documents")
	log.Printf("  GET    /api/v1/documents")
	log.Printf("  GET    /api/v1/documents/{id}")
	log.Printf("  GET    /api/v1/invoices")
	log.Printf("  GET    /api/v1/transactions")
	log.Printf("  POST   /api/v1/matching/run")
	log.Printf("  GET    /api/v1/dashboard")

	if err := http.ListenAndServe(fmt.Sprintf(":%d", *port), router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
