package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"tutoring-platform/internal/config"
	"tutoring-platform/internal/domain/model"
	pg "tutoring-platform/internal/infra/db/postgres"
	"tutoring-platform/internal/usecase"
)

func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, false)
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pg.NewPgxPool(ctx, cfg.Database.URL, 4)
	if err != nil {
		log.Fatalf("postgres: %v", err)
	}
	defer pool.Close()

	planUC := usecase.NewPlanUseCase(pg.NewPlanRepo(pool))

	// If plans already exist, do nothing
	existing, err := planUC.ListActive(ctx)
	if err != nil {
		log.Fatalf("list plans: %v", err)
	}
	if len(existing) > 0 {
		fmt.Printf("%d plans already present. No changes.\n", len(existing))
		for _, p := range existing {
			fmt.Printf("  - %s (%d %s, %d classes/month)\n", p.Name, p.Price, p.Currency, p.ClassesPerMonth)
		}
		return
	}

	seed := []struct {
		ID          string
		Name        string
		Description string
		Price       int64
		Classes     int
		Popular     bool
	}{
		{"starter", "Starter", "4 clases al mes para empezar", 45_000, 4, false},
		{"progress", "Progress", "8 clases al mes para avanzar rápido", 80_000, 8, true},
		{"intensive", "Intensive", "12 clases al mes de inmersión total", 110_000, 12, false},
	}

	for _, s := range seed {
		plan, err := model.NewPlan(s.ID, s.Name, s.Price, "CLP", s.Classes)
		if err != nil {
			log.Fatalf("plan %q: %v", s.Name, err)
		}
		plan.Description = s.Description
		plan.Popular = s.Popular
		if err := planUC.Save(ctx, plan); err != nil {
			log.Fatalf("save plan %q: %v", s.Name, err)
		}
		fmt.Printf("seeded: %s (id=%s, %d CLP, %d classes/month)\n", plan.Name, plan.ID, plan.Price, plan.ClassesPerMonth)
	}

	fmt.Println("Seeding complete.")
}
