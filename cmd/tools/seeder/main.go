package main

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	"github.com/dawaa-dev/backend-dawaa/internal/config"
	"github.com/dawaa-dev/backend-dawaa/internal/obs"
	"github.com/dawaa-dev/backend-dawaa/internal/pricing"
)

type seedItem struct {
	name     string
	price    pricing.Money
	category pricing.Category
	inStock  bool
}

type seedPlan struct {
	name             string
	minOrderValue    pricing.Money
	monthlyFee       pricing.Money
	medicineDiscount pricing.Money
	orderDiscount    pricing.Money
	frequency        pricing.Frequency
	position         int
}

var catalogSeed = []seedItem{
	{"Paracetamol 500mg", 45, pricing.CategoryOTC, true},
	{"Ibuprofen 400mg", 60, pricing.CategoryOTC, true},
	{"Amoxicillin 500mg", 120, pricing.CategoryPrescription, true},
	{"Metformin 850mg", 95, pricing.CategoryPrescription, true},
	{"Vitamin C 1000mg", 150, pricing.CategorySupplement, true},
	{"Omega-3 Fish Oil", 220, pricing.CategorySupplement, true},
	{"Moisturizing Cream", 180, pricing.CategoryCosmetic, true},
	{"Baby Formula Stage 1", 350, pricing.CategoryBabyCare, true},
	{"Digital Thermometer", 275, pricing.CategoryMedicalDevice, true},
	{"Blood Pressure Monitor", 1200, pricing.CategoryMedicalDevice, false},
}

var planSeed = []seedPlan{
	{"Saver", 0, 0, 0, 0, pricing.FrequencyMonthly, 0},
	{"Basic", 200, 15, 2, 25, pricing.FrequencyMonthly, 1},
	{"Premium", 500, 30, 5, 75, pricing.FrequencyMonthly, 2},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}
	logger := obs.NewLogger(cfg.LogFormat, cfg.LogLevel)

	ctx := context.Background()
	pool, err := pgxpool.New(ctx, cfg.DatabaseURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("connect postgres")
	}
	defer pool.Close()

	seedCatalog(ctx, pool, logger)
	seedPlans(ctx, pool, logger)
	logger.Info().Msg("seed complete")
}

func seedCatalog(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) {
	for _, item := range catalogSeed {
		_, err := pool.Exec(ctx, `
			INSERT INTO catalog_items (id, name, price, category, in_stock)
			SELECT $1, $2, $3, $4, $5
			WHERE NOT EXISTS (SELECT 1 FROM catalog_items WHERE name = $2)`,
			uuid.New(), item.name, item.price, item.category, item.inStock)
		if err != nil {
			logger.Fatal().Err(err).Str("item", item.name).Msg("seed catalog item")
		}
	}
	logger.Info().Int("count", len(catalogSeed)).Msg("catalog seeded")
}

func seedPlans(ctx context.Context, pool *pgxpool.Pool, logger zerolog.Logger) {
	for _, p := range planSeed {
		_, err := pool.Exec(ctx, `
			INSERT INTO plans (id, name, min_order_value, monthly_fee, medicine_discount, order_discount, frequency, position, active)
			SELECT $1, $2, $3, $4, $5, $6, $7, $8, true
			WHERE NOT EXISTS (SELECT 1 FROM plans WHERE name = $2)`,
			uuid.New(), p.name, p.minOrderValue, p.monthlyFee, p.medicineDiscount, p.orderDiscount, p.frequency, p.position)
		if err != nil {
			logger.Fatal().Err(err).Str("plan", p.name).Msg("seed plan")
		}
	}
	logger.Info().Int("count", len(planSeed)).Msg("plans seeded")
}
