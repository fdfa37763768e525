package integration

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"goldmine/internal/domain"
	"goldmine/internal/idgen"
	"goldmine/internal/repository"
	"goldmine/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
)

func applyMigrations(t *testing.T, db *pgxpool.Pool) {
	t.Helper()
	migDir := filepath.Join("..", "..", "internal", "migrations")
	files, err := os.ReadDir(migDir)
	if err != nil {
		t.Fatalf("read migrations: %v", err)
	}
	for _, f := range files {
		b, err := os.ReadFile(filepath.Join(migDir, f.Name()))
		if err != nil {
			t.Fatalf("read file: %v", err)
		}
		if _, err := db.Exec(context.Background(), string(b)); err != nil {
			t.Fatalf("apply migration %s: %v", f.Name(), err)
		}
	}
}

func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}

	db, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		t.Fatalf("connect db: %v", err)
	}
	t.Cleanup(db.Close)

	applyMigrations(t, db)
	return db
}

func createTestUser(t *testing.T, db *pgxpool.Pool) *domain.User {
	t.Helper()
	repo := repository.NewUserRepository(db)
	u := &domain.User{
		Mobile:       fmt.Sprintf("9%014d", time.Now().UnixNano()%100000000000000),
		PasswordHash: "x",
		Name:         "Tester",
	}
	if err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return u
}

func TestLedgerCreditDebit(t *testing.T) {
	db := testPool(t)
	ledger := service.NewLedgerService(db, idgen.UUID{})
	user := createTestUser(t, db)
	ctx := context.Background()

	entry, err := ledger.Credit(ctx, user.ID, 1000, domain.TxTypeRecharge, "test credit", 0)
	if err != nil {
		t.Fatalf("credit: %v", err)
	}
	if entry.BalanceBefore != 0 || entry.BalanceAfter != 1000 {
		t.Errorf("credit snapshots = (%v, %v), want (0, 1000)", entry.BalanceBefore, entry.BalanceAfter)
	}

	balance, err := ledger.GetBalance(ctx, user.ID)
	if err != nil {
		t.Fatalf("get balance: %v", err)
	}
	if balance != 1000 {
		t.Errorf("balance = %v, want 1000", balance)
	}

	entry, err = ledger.Debit(ctx, user.ID, 400, domain.TxTypeWithdrawal, "test debit", 0)
	if err != nil {
		t.Fatalf("debit: %v", err)
	}
	if entry.BalanceBefore != 1000 || entry.BalanceAfter != 600 {
		t.Errorf("debit snapshots = (%v, %v), want (1000, 600)", entry.BalanceBefore, entry.BalanceAfter)
	}

	if _, err := ledger.Debit(ctx, user.ID, 601, domain.TxTypeWithdrawal, "overdraw", 0); !errors.Is(err, service.ErrInsufficientFunds) {
		t.Errorf("overdraw error = %v, want ErrInsufficientFunds", err)
	}

	// failed debit must leave no ledger row and no balance change
	balance, _ = ledger.GetBalance(ctx, user.ID)
	if balance != 600 {
		t.Errorf("balance after failed debit = %v, want 600", balance)
	}
	history, err := ledger.GetHistory(ctx, user.ID, "", 10)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	if len(history) != 2 {
		t.Errorf("history length = %d, want 2", len(history))
	}
}

func TestLedgerRejectsNonPositiveAmounts(t *testing.T) {
	db := testPool(t)
	ledger := service.NewLedgerService(db, idgen.UUID{})
	user := createTestUser(t, db)
	ctx := context.Background()

	for _, amount := range []float64{0, -5} {
		if _, err := ledger.Credit(ctx, user.ID, amount, domain.TxTypeRecharge, "", 0); !errors.Is(err, service.ErrInvalidAmount) {
			t.Errorf("credit %v error = %v, want ErrInvalidAmount", amount, err)
		}
		if _, err := ledger.Debit(ctx, user.ID, amount, domain.TxTypeWithdrawal, "", 0); !errors.Is(err, service.ErrInvalidAmount) {
			t.Errorf("debit %v error = %v, want ErrInvalidAmount", amount, err)
		}
	}
}

func TestLedgerUnknownUser(t *testing.T) {
	db := testPool(t)
	ledger := service.NewLedgerService(db, idgen.UUID{})
	ctx := context.Background()

	if _, err := ledger.Credit(ctx, -1, 100, domain.TxTypeRecharge, "", 0); !errors.Is(err, service.ErrUserNotFound) {
		t.Errorf("credit error = %v, want ErrUserNotFound", err)
	}
	if _, err := ledger.GetBalance(ctx, -1); !errors.Is(err, service.ErrUserNotFound) {
		t.Errorf("balance error = %v, want ErrUserNotFound", err)
	}
}

func TestDailyIncomeIdempotent(t *testing.T) {
	db := testPool(t)
	ledger := service.NewLedgerService(db, idgen.UUID{})
	user := createTestUser(t, db)
	ctx := context.Background()

	// reference id only has to be unique among daily_income rows; it does not
	// need a backing user_plan for the index to bite
	ref := time.Now().UnixNano()
	day := time.Date(2025, 6, 10, 9, 30, 0, 0, time.UTC)

	paid, err := ledger.CreditDailyIncome(ctx, user.ID, 20, ref, day)
	if err != nil {
		t.Fatalf("first credit: %v", err)
	}
	if !paid {
		t.Fatal("first credit reported already paid")
	}

	// same day again, even at a different clock time
	paid, err = ledger.CreditDailyIncome(ctx, user.ID, 20, ref, day.Add(5*time.Hour))
	if err != nil {
		t.Fatalf("second credit: %v", err)
	}
	if paid {
		t.Error("second credit for the same day went through")
	}

	balance, _ := ledger.GetBalance(ctx, user.ID)
	if balance != 20 {
		t.Errorf("balance = %v, want 20 (single payment)", balance)
	}

	// next day pays again
	paid, err = ledger.CreditDailyIncome(ctx, user.ID, 20, ref, day.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("next day credit: %v", err)
	}
	if !paid {
		t.Error("next day credit reported already paid")
	}
}

func TestDailyIncomeLocalDayBoundary(t *testing.T) {
	db := testPool(t)
	ledger := service.NewLedgerService(db, idgen.UUID{})
	user := createTestUser(t, db)
	ctx := context.Background()

	// Early-morning and late-evening runs on one local calendar day straddle
	// the UTC midnight in between; both must still resolve to the same day.
	ist := time.FixedZone("IST", 5*3600+1800)
	ref := time.Now().UnixNano()
	morning := time.Date(2026, time.September, 1, 0, 30, 0, 0, ist)
	evening := time.Date(2026, time.September, 1, 23, 0, 0, 0, ist)

	paid, err := ledger.CreditDailyIncome(ctx, user.ID, 20, ref, morning)
	if err != nil {
		t.Fatalf("morning credit: %v", err)
	}
	if !paid {
		t.Fatal("morning credit reported already paid")
	}

	paid, err = ledger.CreditDailyIncome(ctx, user.ID, 20, ref, evening)
	if err != nil {
		t.Fatalf("evening credit: %v", err)
	}
	if paid {
		t.Error("evening run of the same local day paid a second time")
	}

	balance, _ := ledger.GetBalance(ctx, user.ID)
	if balance != 20 {
		t.Errorf("balance = %v, want 20 (single payment)", balance)
	}
}
