package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"mixpool-commerce/internal/config"
	"mixpool-commerce/internal/domain/model"
	pg "mixpool-commerce/internal/infra/db/postgres"
)

// Seeds sample plans and products so the payment flow can be exercised
// end to end against a fresh database.
func main() {
	cfgPath := flag.String("config", "config.yaml", "path to YAML config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*cfgPath, true)
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

	planRepo := pg.NewSubscriptionPlanRepo(pool)
	productRepo := pg.NewProductRepo(pool)

	// If plans already exist, do nothing.
	plans, err := planRepo.ListAll(ctx, nil)
	if err != nil {
		log.Fatalf("list plans: %v", err)
	}
	if len(plans) > 0 {
		fmt.Printf("%d plans already present. No changes.\n", len(plans))
		for _, p := range plans {
			fmt.Printf("  - %s (tier=%s, days=%d, price=%d)\n", p.Name, p.Tier, p.DurationDays, p.Price)
		}
		return
	}

	seedPlans := []struct {
		Name  string
		Tier  model.TierAccess
		Days  int
		Price int64
	}{
		{"Basic Monthly", model.TierBasic, 30, 500_000},
		{"Pro Monthly", model.TierPro, 30, 1_200_000},
		{"Pro Quarterly", model.TierPro, 90, 3_000_000},
	}
	for _, s := range seedPlans {
		p, err := model.NewSubscriptionPlan(uuid.NewString(), s.Name, s.Tier, s.Days, s.Price)
		if err != nil {
			log.Fatalf("build plan %q: %v", s.Name, err)
		}
		if err := planRepo.Save(ctx, nil, p); err != nil {
			log.Fatalf("save plan %q: %v", s.Name, err)
		}
		fmt.Printf("seeded plan: %s (id=%s, tier=%s, days=%d, price=%d)\n", p.Name, p.ID, p.Tier, p.DurationDays, p.Price)
	}

	three := 3
	seedProducts := []struct {
		Title string
		Tier  model.TierAccess
		Price int64
		Limit *int
		Files []model.ProductFile
	}{
		{
			Title: "Afrobeats Mix Vol. 1",
			Tier:  model.TierPaid,
			Price: 250_000,
			Limit: &three,
			Files: []model.ProductFile{{URL: "https://cdn.example.com/afro-v1.mp3", Name: "afro-v1.mp3", Size: 98_304_000}},
		},
		{
			Title: "Amapiano Pool Pack",
			Tier:  model.TierBasic,
			Price: 0,
			Limit: nil,
			Files: []model.ProductFile{
				{URL: "https://cdn.example.com/ama-01.mp3", Name: "ama-01.mp3", Size: 12_288_000},
				{URL: "https://cdn.example.com/ama-02.mp3", Name: "ama-02.mp3", Size: 11_534_000},
			},
		},
	}
	for _, s := range seedProducts {
		p, err := model.NewProduct(uuid.NewString(), s.Title, s.Tier, s.Price, s.Files)
		if err != nil {
			log.Fatalf("build product %q: %v", s.Title, err)
		}
		p.Published = true
		p.DownloadLimit = s.Limit
		if err := productRepo.Save(ctx, nil, p); err != nil {
			log.Fatalf("save product %q: %v", s.Title, err)
		}
		fmt.Printf("seeded product: %s (id=%s, tier=%s, files=%d)\n", p.Title, p.ID, p.TierAccess, len(p.Files))
	}

	fmt.Println("✅ Seeding complete.")
}
