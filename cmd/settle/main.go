package main

import (
	"context"
	"os"
	"time"

	"goldmine/internal/db"
	"goldmine/internal/idgen"
	"goldmine/internal/logger"
	"goldmine/internal/service"
)

// One-shot settlement pass, for cron-driven deployments that don't want the
// in-process scheduler. Re-running it is harmless; paid days are skipped.
func main() {
	logger.Init(os.Getenv("LOG_LEVEL"), os.Getenv("LOG_JSON") == "true")

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logger.Fatal("DATABASE_URL not set")
	}

	pool := db.Connect(dsn)
	defer pool.Close()

	ledger := service.NewLedgerService(pool, idgen.UUID{})
	settlement := service.NewSettlementService(pool, ledger)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	report, err := settlement.Run(ctx)
	if err != nil {
		logger.Fatal("settlement run failed", "error", err, "credited_before_failure", report.Credited)
	}

	logger.Info("settlement finished",
		"candidates", report.Candidates,
		"credited", report.Credited,
		"already_paid", report.AlreadyPaid,
		"skipped_expired", report.SkippedExpired,
		"failed", report.Failed)
}
