package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/timebank/internal/config"
	"github.com/MrJamesThe3rd/timebank/internal/database"
	"github.com/MrJamesThe3rd/timebank/internal/document"
	timebankHttp "github.com/MrJamesThe3rd/timebank/internal/http"
	accountHandler "github.com/MrJamesThe3rd/timebank/internal/http/account"
	creditHandler "github.com/MrJamesThe3rd/timebank/internal/http/credit"
	expenditureHandler "github.com/MrJamesThe3rd/timebank/internal/http/expenditure"
	importHandler "github.com/MrJamesThe3rd/timebank/internal/http/importcsv"
	invoiceHandler "github.com/MrJamesThe3rd/timebank/internal/http/invoice"
	"github.com/MrJamesThe3rd/timebank/internal/importer"
	"github.com/MrJamesThe3rd/timebank/internal/invoice"
	invoiceMemstore "github.com/MrJamesThe3rd/timebank/internal/invoice/memstore"
	invoiceStore "github.com/MrJamesThe3rd/timebank/internal/invoice/store"
	"github.com/MrJamesThe3rd/timebank/internal/ledger"
	ledgerMemstore "github.com/MrJamesThe3rd/timebank/internal/ledger/memstore"
	ledgerStore "github.com/MrJamesThe3rd/timebank/internal/ledger/store"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var (
		ledgerRepo  ledger.Repository
		invoiceRepo invoice.Repository
	)

	switch cfg.Store.Driver {
	case config.DriverMemory:
		slog.Warn("using in-memory store, data is lost on exit")

		ledgerRepo = ledgerMemstore.New()
		invoiceRepo = invoiceMemstore.New()
	default:
		db, err := database.New(ctx, cfg.ConnectionString(), database.Pool{
			MaxOpenConns:    cfg.DB.MaxOpenConns,
			MaxIdleConns:    cfg.DB.MaxIdleConns,
			ConnMaxLifetime: cfg.DB.ConnMaxLifetime,
		})
		if err != nil {
			slog.Error("failed to connect to database", "error", err)
			os.Exit(1)
		}
		defer db.Close()

		ledgerRepo = ledgerStore.New(db)
		invoiceRepo = invoiceStore.New(db)
	}

	var invoiceOpts []invoice.Option
	if cfg.Renderer.URL != "" {
		invoiceOpts = append(invoiceOpts, invoice.WithRenderer(
			document.NewClient(cfg.Renderer.URL, cfg.Renderer.Token, cfg.Renderer.Timeout),
		))
	}

	var (
		ledgerService  = ledger.NewService(ledgerRepo)
		invoiceService = invoice.NewService(invoiceRepo, ledgerService, invoiceOpts...)
		importService  = importer.NewService()
	)

	router := timebankHttp.New(timebankHttp.Handlers{
		Credits:      creditHandler.NewHandler(ledgerService),
		Expenditures: expenditureHandler.NewHandler(ledgerService),
		Import:       importHandler.NewHandler(importService, ledgerService),
		Account:      accountHandler.NewHandler(ledgerService),
		Invoices:     invoiceHandler.NewHandler(invoiceService),
	}, cfg.CORS.AllowedOrigins)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.App.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.Timeout,
		WriteTimeout: cfg.Server.Timeout,
	}

	go func() {
		<-ctx.Done()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.Timeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			slog.Error("shutdown failed", "error", err)
		}
	}()

	slog.Info("starting server", "app", cfg.App.Name, "port", srv.Addr, "store", cfg.Store.Driver)

	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
