package main

import (
	"context"
	"log"
	"os"

	"goldmine/internal/db"
	"goldmine/internal/domain"
	"goldmine/internal/repository"
)

// Seeds a starter plan catalog for local development. Idempotent by name.
func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	pool := db.Connect(dsn)
	defer pool.Close()

	repo := repository.NewPlanRepository(pool)
	ctx := context.Background()

	seed := []domain.Plan{
		{Name: "Starter", Price: 500, DailyIncome: 20, DurationDays: 30, TotalReturn: 600, IsActive: true},
		{Name: "Silver", Price: 2000, DailyIncome: 85, DurationDays: 30, TotalReturn: 2550, IsActive: true},
		{Name: "Gold", Price: 5000, DailyIncome: 225, DurationDays: 30, TotalReturn: 6750, IsActive: true},
		{Name: "Platinum", Price: 10000, DailyIncome: 480, DurationDays: 30, TotalReturn: 14400, IsActive: true},
	}

	existing, err := repo.GetActive(ctx)
	if err != nil {
		log.Fatalf("list plans failed: %v", err)
	}
	have := make(map[string]bool, len(existing))
	for _, p := range existing {
		have[p.Name] = true
	}

	for _, p := range seed {
		if have[p.Name] {
			log.Printf("plan %q already exists, skipping\n", p.Name)
			continue
		}
		plan := p
		if err := repo.Create(ctx, &plan); err != nil {
			log.Fatalf("create plan %q failed: %v", p.Name, err)
		}
		log.Printf("created plan %q id=%d\n", plan.Name, plan.ID)
	}
}
