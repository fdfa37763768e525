package integration

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"goldmine/internal/domain"
	"goldmine/internal/idgen"
	"goldmine/internal/repository"
	"goldmine/internal/service"

	"github.com/jackc/pgx/v5/pgxpool"
)

func createTestPlan(t *testing.T, db *pgxpool.Pool, price, dailyIncome float64, days int) *domain.Plan {
	t.Helper()
	repo := repository.NewPlanRepository(db)
	p := &domain.Plan{
		Name:         fmt.Sprintf("test-plan-%d", time.Now().UnixNano()),
		Price:        price,
		DailyIncome:  dailyIncome,
		DurationDays: days,
		TotalReturn:  dailyIncome * float64(days),
		IsActive:     true,
	}
	if err := repo.Create(context.Background(), p); err != nil {
		t.Fatalf("create plan: %v", err)
	}
	return p
}

func TestPlanPurchaseWorkflow(t *testing.T) {
	db := testPool(t)
	ledger := service.NewLedgerService(db, idgen.UUID{})
	plans := service.NewPlanService(db, ledger, idgen.UUID{})
	user := createTestUser(t, db)
	plan := createTestPlan(t, db, 500, 20, 30)
	ctx := context.Background()

	// broke user can't buy
	if _, err := plans.Purchase(ctx, user.ID, plan.ID); !errors.Is(err, service.ErrInsufficientFunds) {
		t.Fatalf("broke purchase error = %v, want ErrInsufficientFunds", err)
	}

	if _, err := ledger.Credit(ctx, user.ID, 2000, domain.TxTypeRecharge, "fund", 0); err != nil {
		t.Fatalf("fund user: %v", err)
	}

	sub, err := plans.Purchase(ctx, user.ID, plan.ID)
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}
	if sub.OrderID == "" {
		t.Error("order id not assigned")
	}
	if sub.Price != plan.Price || sub.DailyIncome != plan.DailyIncome {
		t.Errorf("snapshot mismatch: got (%v, %v)", sub.Price, sub.DailyIncome)
	}
	wantEnd := sub.StartDate.AddDate(0, 0, plan.DurationDays)
	if !sub.EndDate.Equal(wantEnd) {
		t.Errorf("end date = %v, want %v", sub.EndDate, wantEnd)
	}

	balance, _ := ledger.GetBalance(ctx, user.ID)
	if balance != 1500 {
		t.Errorf("balance after purchase = %v, want 1500", balance)
	}

	// second purchase in the same calendar month is blocked
	if _, err := plans.Purchase(ctx, user.ID, plan.ID); !errors.Is(err, service.ErrMonthlyLimitExceeded) {
		t.Errorf("second purchase error = %v, want ErrMonthlyLimitExceeded", err)
	}

	// the block left no partial writes behind
	balance, _ = ledger.GetBalance(ctx, user.ID)
	if balance != 1500 {
		t.Errorf("balance after blocked purchase = %v, want 1500", balance)
	}

	// unknown and inactive plans
	if _, err := plans.Purchase(ctx, user.ID, -1); !errors.Is(err, service.ErrNotFound) {
		t.Errorf("unknown plan error = %v, want ErrNotFound", err)
	}
	if err := repository.NewPlanRepository(db).SetActive(ctx, plan.ID, false); err != nil {
		t.Fatalf("deactivate plan: %v", err)
	}
	if _, err := plans.Purchase(ctx, user.ID, plan.ID); !errors.Is(err, service.ErrInvalidState) {
		t.Errorf("inactive plan error = %v, want ErrInvalidState", err)
	}
}

func TestRechargeWorkflow(t *testing.T) {
	db := testPool(t)
	ledger := service.NewLedgerService(db, idgen.UUID{})
	recharges := service.NewRechargeService(db, ledger)
	user := createTestUser(t, db)
	ctx := context.Background()

	rc, err := recharges.Request(ctx, user.ID, 750, "UTR123456", "upi")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if rc.Status != domain.RechargeStatusPending {
		t.Errorf("status = %s, want pending", rc.Status)
	}

	// pending request has no balance effect
	balance, _ := ledger.GetBalance(ctx, user.ID)
	if balance != 0 {
		t.Errorf("balance while pending = %v, want 0", balance)
	}

	approved, err := recharges.Approve(ctx, rc.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != domain.RechargeStatusApproved {
		t.Errorf("status = %s, want approved", approved.Status)
	}

	balance, _ = ledger.GetBalance(ctx, user.ID)
	if balance != 750 {
		t.Errorf("balance after approve = %v, want 750", balance)
	}

	// terminal states can't transition again
	if _, err := recharges.Approve(ctx, rc.ID); !errors.Is(err, service.ErrInvalidState) {
		t.Errorf("double approve error = %v, want ErrInvalidState", err)
	}
	if _, err := recharges.Reject(ctx, rc.ID); !errors.Is(err, service.ErrInvalidState) {
		t.Errorf("reject approved error = %v, want ErrInvalidState", err)
	}

	// rejected requests stay uncredited
	rc2, err := recharges.Request(ctx, user.ID, 300, "UTR654321", "bank")
	if err != nil {
		t.Fatalf("second request: %v", err)
	}
	if _, err := recharges.Reject(ctx, rc2.ID); err != nil {
		t.Fatalf("reject: %v", err)
	}
	balance, _ = ledger.GetBalance(ctx, user.ID)
	if balance != 750 {
		t.Errorf("balance after reject = %v, want 750", balance)
	}
}

func TestWithdrawalWorkflow(t *testing.T) {
	db := testPool(t)
	ledger := service.NewLedgerService(db, idgen.UUID{})
	withdrawals := service.NewWithdrawalService(db, ledger, 0.18, 24*time.Hour)
	user := createTestUser(t, db)
	ctx := context.Background()

	if _, err := ledger.Credit(ctx, user.ID, 2000, domain.TxTypeRecharge, "fund", 0); err != nil {
		t.Fatalf("fund user: %v", err)
	}

	upi := service.MethodDetails{UpiID: "tester@okbank"}

	// more than the balance
	if _, err := withdrawals.Request(ctx, user.ID, 5000, "upi", upi); !errors.Is(err, service.ErrInsufficientFunds) {
		t.Fatalf("overdraw request error = %v, want ErrInsufficientFunds", err)
	}

	w, err := withdrawals.Request(ctx, user.ID, 1000, "upi", upi)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if w.TaxAmount != 180 || w.NetAmount != 820 {
		t.Errorf("tax breakdown = (%v, %v), want (180, 820)", w.TaxAmount, w.NetAmount)
	}

	// request alone doesn't touch the balance
	balance, _ := ledger.GetBalance(ctx, user.ID)
	if balance != 2000 {
		t.Errorf("balance while pending = %v, want 2000", balance)
	}

	// cooldown blocks a second open request
	if _, err := withdrawals.Request(ctx, user.ID, 100, "upi", upi); !errors.Is(err, service.ErrRateLimited) {
		t.Errorf("cooldown request error = %v, want ErrRateLimited", err)
	}

	approved, err := withdrawals.Approve(ctx, w.ID)
	if err != nil {
		t.Fatalf("approve: %v", err)
	}
	if approved.Status != domain.WithdrawalStatusApproved {
		t.Errorf("status = %s, want approved", approved.Status)
	}

	// gross amount debited, not net
	balance, _ = ledger.GetBalance(ctx, user.ID)
	if balance != 1000 {
		t.Errorf("balance after approve = %v, want 1000", balance)
	}

	if _, err := withdrawals.Approve(ctx, w.ID); !errors.Is(err, service.ErrInvalidState) {
		t.Errorf("double approve error = %v, want ErrInvalidState", err)
	}
}

func TestWithdrawalConcurrentRequests(t *testing.T) {
	db := testPool(t)
	ledger := service.NewLedgerService(db, idgen.UUID{})
	withdrawals := service.NewWithdrawalService(db, ledger, 0.18, 24*time.Hour)
	user := createTestUser(t, db)
	ctx := context.Background()

	if _, err := ledger.Credit(ctx, user.ID, 5000, domain.TxTypeRecharge, "fund", 0); err != nil {
		t.Fatalf("fund user: %v", err)
	}

	// Parallel requests serialize on the user row lock, so exactly one may
	// pass the cooldown check.
	const n = 5
	var wg sync.WaitGroup
	errs := make([]error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = withdrawals.Request(ctx, user.ID, 100, "upi", service.MethodDetails{UpiID: "t@ok"})
		}(i)
	}
	wg.Wait()

	succeeded := 0
	for i, err := range errs {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, service.ErrRateLimited):
		default:
			t.Errorf("request %d unexpected error: %v", i, err)
		}
	}
	if succeeded != 1 {
		t.Errorf("open withdrawals created = %d, want 1", succeeded)
	}
}

func TestWithdrawalApproveRevalidatesBalance(t *testing.T) {
	db := testPool(t)
	ledger := service.NewLedgerService(db, idgen.UUID{})
	withdrawals := service.NewWithdrawalService(db, ledger, 0.18, 24*time.Hour)
	user := createTestUser(t, db)
	ctx := context.Background()

	if _, err := ledger.Credit(ctx, user.ID, 1000, domain.TxTypeRecharge, "fund", 0); err != nil {
		t.Fatalf("fund user: %v", err)
	}

	w, err := withdrawals.Request(ctx, user.ID, 1000, "upi", service.MethodDetails{UpiID: "t@ok"})
	if err != nil {
		t.Fatalf("request: %v", err)
	}

	// balance drops between request and approval
	if _, err := ledger.Debit(ctx, user.ID, 500, domain.TxTypePlanPurchase, "spend", 0); err != nil {
		t.Fatalf("spend: %v", err)
	}

	if _, err := withdrawals.Approve(ctx, w.ID); !errors.Is(err, service.ErrInsufficientFunds) {
		t.Errorf("approve error = %v, want ErrInsufficientFunds", err)
	}

	// the request stays pending and the balance is untouched
	balance, _ := ledger.GetBalance(ctx, user.ID)
	if balance != 500 {
		t.Errorf("balance after failed approve = %v, want 500", balance)
	}
}

func TestSettlementRun(t *testing.T) {
	db := testPool(t)
	ledger := service.NewLedgerService(db, idgen.UUID{})
	plans := service.NewPlanService(db, ledger, idgen.UUID{})
	settlement := service.NewSettlementService(db, ledger)
	user := createTestUser(t, db)
	plan := createTestPlan(t, db, 500, 20, 30)
	ctx := context.Background()

	if _, err := ledger.Credit(ctx, user.ID, 500, domain.TxTypeRecharge, "fund", 0); err != nil {
		t.Fatalf("fund user: %v", err)
	}
	sub, err := plans.Purchase(ctx, user.ID, plan.ID)
	if err != nil {
		t.Fatalf("purchase: %v", err)
	}

	if _, err := settlement.Run(ctx); err != nil {
		t.Fatalf("first run: %v", err)
	}

	balance, _ := ledger.GetBalance(ctx, user.ID)
	if balance != 20 {
		t.Errorf("balance after first run = %v, want 20", balance)
	}

	// a second pass the same day pays nothing more
	if _, err := settlement.Run(ctx); err != nil {
		t.Fatalf("second run: %v", err)
	}
	balance, _ = ledger.GetBalance(ctx, user.ID)
	if balance != 20 {
		t.Errorf("balance after second run = %v, want 20", balance)
	}

	// exactly one daily_income row for this subscription today
	var n int
	err = db.QueryRow(ctx, `
		SELECT COUNT(*) FROM transactions
		WHERE type = 'daily_income' AND reference_id = $1
	`, sub.ID).Scan(&n)
	if err != nil {
		t.Fatalf("count income rows: %v", err)
	}
	if n != 1 {
		t.Errorf("daily_income rows = %d, want 1", n)
	}
}

func TestSettlementSkipsExpiredPlan(t *testing.T) {
	db := testPool(t)
	ledger := service.NewLedgerService(db, idgen.UUID{})
	settlement := service.NewSettlementService(db, ledger)
	user := createTestUser(t, db)
	plan := createTestPlan(t, db, 500, 20, 10)
	ctx := context.Background()

	// subscription whose window closed yesterday, still marked active
	var subID int64
	err := db.QueryRow(ctx, `
		INSERT INTO user_plans (order_id, user_id, plan_id, name, price, daily_income, duration_days, total_return, status, start_date, end_date)
		VALUES (gen_random_uuid(), $1, $2, $3, $4, $5, $6, $7, 'active', now() - interval '11 days', now() - interval '1 day')
		RETURNING id
	`, user.ID, plan.ID, plan.Name, plan.Price, plan.DailyIncome, plan.DurationDays, plan.TotalReturn).Scan(&subID)
	if err != nil {
		t.Fatalf("insert expired subscription: %v", err)
	}

	if _, err := settlement.Run(ctx); err != nil {
		t.Fatalf("run: %v", err)
	}

	balance, _ := ledger.GetBalance(ctx, user.ID)
	if balance != 0 {
		t.Errorf("balance = %v, want 0 (no income for expired plan)", balance)
	}

	var n int
	if err := db.QueryRow(ctx, `
		SELECT COUNT(*) FROM transactions
		WHERE type = 'daily_income' AND reference_id = $1
	`, subID).Scan(&n); err != nil {
		t.Fatalf("count income rows: %v", err)
	}
	if n != 0 {
		t.Errorf("daily_income rows = %d, want 0", n)
	}

	// the run also flipped its status
	var status string
	if err := db.QueryRow(ctx, `SELECT status FROM user_plans WHERE id = $1`, subID).Scan(&status); err != nil {
		t.Fatalf("read status: %v", err)
	}
	if status != "expired" {
		t.Errorf("status = %s, want expired", status)
	}
}
