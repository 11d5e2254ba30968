// cmd/seeder/main.go
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/tealeg/xlsx/v3"

	"github.com/yanniacalzado/OptiGest/internal/core/domain"
)

// productTemplate is one catalog entry to seed. Stock values are chosen so
// the dashboard always has low and critical rows to show.
type productTemplate struct {
	name      string
	category  domain.Category
	supplier  string
	baseStock int
	price     string
	ptype     domain.ProductType
}

var defaultCatalog = []productTemplate{
	{"Armazón Clásico Negro", domain.CategoryFrames, "Luxottica", 18, "120.50", domain.TypeOwned},
	{"Armazón Aviador Dorado", domain.CategoryFrames, "Luxottica", 9, "145.00", domain.TypeOwned},
	{"Armazón Infantil Flexible", domain.CategoryFrames, "Safilo", 4, "89.90", domain.TypeOwned},
	{"Armazón Titanio Premium", domain.CategoryFrames, "Telko", 2, "310.00", domain.TypeConsignment},
	{"Lentes Monofocales CR-39", domain.CategoryLenses, "Essilor", 40, "65.00", domain.TypeOwned},
	{"Lentes Progresivos Varilux", domain.CategoryLenses, "Essilor", 12, "280.00", domain.TypeOwned},
	{"Lentes Fotocromáticos", domain.CategoryLenses, "Zeiss", 7, "195.50", domain.TypeOwned},
	{"Lentes Premium Blue Light", domain.CategoryLenses, "Telko", 0, "225.00", domain.TypeConsignment},
	{"Lentes de Contacto Diarios x30", domain.CategoryContactLens, "Alcon", 25, "42.00", domain.TypeOwned},
	{"Lentes de Contacto Mensuales x6", domain.CategoryContactLens, "Bausch + Lomb", 14, "58.90", domain.TypeOwned},
	{"Lentes de Contacto Tóricos", domain.CategoryContactLens, "Alcon", 3, "75.00", domain.TypeOwned},
	{"Estuche Rígido", domain.CategoryAccessories, "Proveedor A", 60, "8.50", domain.TypeOwned},
	{"Paño de Microfibra", domain.CategoryAccessories, "Proveedor A", 80, "3.00", domain.TypeOwned},
	{"Spray Limpiador 60ml", domain.CategoryAccessories, "Proveedor B", 5, "6.90", domain.TypeOwned},
	{"Cordón Sujetador", domain.CategoryAccessories, "Proveedor B", 0, "4.50", domain.TypeOwned},
}

var patientNames = []string{
	"María González", "Carlos Rodríguez", "Ana Martín", "Luis Fernández",
	"Laura Sánchez", "Javier López", "Carmen Díaz", "Miguel Torres",
	"Isabel Ruiz", "Pedro Moreno", "Lucía Jiménez", "Antonio Navarro",
}

var appointmentTypes = []string{"Examen Visual", "Adaptación Lentes de Contacto", "Control", "Entrega"}

var saleStatuses = []string{"Nuevo", "En Proceso", "Entregado"}

// Seeder generates and persists demo data for the console.
type Seeder struct {
	db     *pgxpool.Pool
	logger *slog.Logger
	rng    *rand.Rand
	dryRun bool
}

func NewSeeder(db *pgxpool.Pool, logger *slog.Logger, seed int64, dryRun bool) *Seeder {
	return &Seeder{
		db:     db,
		logger: logger,
		rng:    rand.New(rand.NewSource(seed)),
		dryRun: dryRun,
	}
}

// LoadCatalog reads extra product rows from an Excel workbook. Columns:
// name, category code, supplier, stock, price, type code. The first row
// is treated as a header.
func LoadCatalog(filepath string) ([]productTemplate, error) {
	file, err := xlsx.OpenFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog file: %w", err)
	}
	if len(file.Sheets) == 0 {
		return nil, fmt.Errorf("no sheets found in catalog file")
	}
	sheet := file.Sheets[0]

	var templates []productTemplate
	rowIdx := 0
	err = sheet.ForEachRow(func(r *xlsx.Row) error {
		if rowIdx == 0 {
			rowIdx++
			return nil
		}
		rowIdx++

		get := func(i int) string {
			c := r.GetCell(i)
			if c == nil {
				return ""
			}
			if s, err := c.FormattedValue(); err == nil {
				return strings.TrimSpace(s)
			}
			return strings.TrimSpace(c.String())
		}

		name := get(0)
		if name == "" {
			return nil
		}

		category := domain.Category(get(1))
		if !category.Valid() {
			return fmt.Errorf("row %d: unknown category %q", rowIdx, get(1))
		}
		stock, _ := strconv.Atoi(get(3))
		ptype := domain.ProductType(get(5))
		if ptype == "" {
			ptype = domain.TypeOwned
		}
		if !ptype.Valid() {
			return fmt.Errorf("row %d: unknown type %q", rowIdx, get(5))
		}

		templates = append(templates, productTemplate{
			name:      name,
			category:  category,
			supplier:  get(2),
			baseStock: stock,
			price:     get(4),
			ptype:     ptype,
		})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to iterate rows: %w", err)
	}

	return templates, nil
}

// SeedProducts inserts one product per template. Codes are generated and
// status is derived from stock, matching what the API does on create.
func (s *Seeder) SeedProducts(ctx context.Context, templates []productTemplate) (int, error) {
	products := make([]domain.Product, 0, len(templates))
	now := time.Now()

	for i, tpl := range templates {
		price, err := decimal.NewFromString(tpl.price)
		if err != nil {
			return 0, fmt.Errorf("invalid price %q for %s: %w", tpl.price, tpl.name, err)
		}

		product := domain.Product{
			Name:      tpl.name,
			Category:  tpl.category,
			Supplier:  tpl.supplier,
			Stock:     tpl.baseStock,
			Price:     price,
			Type:      tpl.ptype,
			CreatedAt: now.AddDate(0, 0, -s.rng.Intn(90)),
		}
		product.PrepareForStorage()
		products = append(products, product)

		s.logger.Debug("prepared product",
			slog.Int("index", i),
			slog.String("code", product.Code),
			slog.String("status", product.Status))
	}

	if s.dryRun {
		return len(products), nil
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	for _, p := range products {
		batch.Queue(`
			INSERT INTO products (
				code, name, category, supplier, stock, price, status, type, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			ON CONFLICT (code) DO NOTHING`,
			p.Code, p.Name, p.Category, p.Supplier,
			p.Stock, p.Price, p.Status, p.Type, p.CreatedAt,
		)
	}

	if err := flushBatch(ctx, tx, batch, len(products)); err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Info("seeded products", slog.Int("count", len(products)))
	return len(products), nil
}

// SeedPatients inserts the demo patient registry and returns the ids so
// sales, purchases and appointments can reference them.
func (s *Seeder) SeedPatients(ctx context.Context) ([]int64, error) {
	if s.dryRun {
		return nil, nil
	}

	ids := make([]int64, 0, len(patientNames))
	now := time.Now()

	for i, name := range patientNames {
		patient := domain.Patient{
			Name:      name,
			Email:     patientEmail(name),
			Phone:     fmt.Sprintf("+34 600 %03d %03d", 100+i, 200+i),
			Status:    domain.PatientActive.Display(),
			CreatedAt: now.AddDate(0, 0, -s.rng.Intn(365)),
		}
		if i%5 == 4 {
			patient.Status = domain.PatientInactive.Display()
		}

		var id int64
		err := s.db.QueryRow(ctx, `
			INSERT INTO patients (name, email, phone, status, address, notes, created_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			ON CONFLICT (email) DO UPDATE SET name = EXCLUDED.name
			RETURNING id`,
			patient.Name, patient.Email, patient.Phone, patient.Status,
			patient.Address, patient.Notes, patient.CreatedAt,
		).Scan(&id)
		if err != nil {
			return nil, fmt.Errorf("failed to insert patient %s: %w", patient.Email, err)
		}
		ids = append(ids, id)
	}

	s.logger.Info("seeded patients", slog.Int("count", len(ids)))
	return ids, nil
}

// SeedPurchases gives each patient a short purchase history drawn from the
// product catalog.
func (s *Seeder) SeedPurchases(ctx context.Context, patientIDs []int64, templates []productTemplate) (int, error) {
	if s.dryRun || len(patientIDs) == 0 {
		return 0, nil
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	total := 0
	now := time.Now()

	for _, patientID := range patientIDs {
		purchases := s.rng.Intn(7)
		for j := 0; j < purchases; j++ {
			tpl := templates[s.rng.Intn(len(templates))]
			price, err := decimal.NewFromString(tpl.price)
			if err != nil {
				return 0, fmt.Errorf("invalid price %q for %s: %w", tpl.price, tpl.name, err)
			}

			batch.Queue(`
				INSERT INTO patient_purchases (patient_id, product, quantity, price, purchased_at)
				VALUES ($1, $2, $3, $4, $5)`,
				patientID, tpl.name, 1+s.rng.Intn(2), price,
				now.AddDate(0, 0, -s.rng.Intn(180)),
			)
			total++
		}
	}

	if err := flushBatch(ctx, tx, batch, total); err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Info("seeded purchase history", slog.Int("count", total))
	return total, nil
}

// SeedSales spreads sales over the current month plus today so the daily
// and monthly dashboard totals are both non-zero.
func (s *Seeder) SeedSales(ctx context.Context, patientIDs []int64) (int, error) {
	if s.dryRun || len(patientIDs) == 0 {
		return 0, nil
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	now := time.Now()
	count := 20

	for i := 0; i < count; i++ {
		amount := decimal.NewFromInt(int64(50 + s.rng.Intn(400))).
			Add(decimal.NewFromInt(int64(s.rng.Intn(100))).Div(decimal.NewFromInt(100))).
			Round(2)

		createdAt := now.AddDate(0, 0, -s.rng.Intn(now.Day()))
		if i < 3 {
			createdAt = now.Add(-time.Duration(s.rng.Intn(8)) * time.Hour)
		}

		batch.Queue(`
			INSERT INTO sales (patient_id, total_amount, status, created_at)
			VALUES ($1, $2, $3, $4)`,
			patientIDs[s.rng.Intn(len(patientIDs))],
			amount,
			saleStatuses[s.rng.Intn(len(saleStatuses))],
			createdAt,
		)
	}

	if err := flushBatch(ctx, tx, batch, count); err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Info("seeded sales", slog.Int("count", count))
	return count, nil
}

// SeedAppointments books appointments for today and the coming two weeks.
func (s *Seeder) SeedAppointments(ctx context.Context, patientIDs []int64) (int, error) {
	if s.dryRun || len(patientIDs) == 0 {
		return 0, nil
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	batch := &pgx.Batch{}
	today := time.Now().Truncate(24 * time.Hour)
	count := 12

	for i := 0; i < count; i++ {
		date := today.AddDate(0, 0, s.rng.Intn(14))
		if i < 2 {
			date = today
		}

		status := "Pendiente"
		if s.rng.Intn(2) == 0 {
			status = "Confirmada"
		}

		batch.Queue(`
			INSERT INTO appointments (patient_id, date, time, type, status)
			VALUES ($1, $2, $3, $4, $5)`,
			patientIDs[s.rng.Intn(len(patientIDs))],
			date,
			fmt.Sprintf("%02d:%02d", 9+s.rng.Intn(9), 15*s.rng.Intn(4)),
			appointmentTypes[s.rng.Intn(len(appointmentTypes))],
			status,
		)
	}

	if err := flushBatch(ctx, tx, batch, count); err != nil {
		return 0, err
	}
	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	s.logger.Info("seeded appointments", slog.Int("count", count))
	return count, nil
}

// Truncate clears all seeded tables so a fresh run starts from zero.
func (s *Seeder) Truncate(ctx context.Context) error {
	if s.dryRun {
		return nil
	}
	_, err := s.db.Exec(ctx, `
		TRUNCATE appointments, sales, patient_purchases, patients, products
		RESTART IDENTITY CASCADE`)
	if err != nil {
		return fmt.Errorf("failed to truncate tables: %w", err)
	}
	s.logger.Info("truncated existing data")
	return nil
}

func flushBatch(ctx context.Context, tx pgx.Tx, batch *pgx.Batch, n int) error {
	br := tx.SendBatch(ctx, batch)
	for i := 0; i < n; i++ {
		if _, err := br.Exec(); err != nil {
			br.Close()
			return fmt.Errorf("failed to insert row: %w", err)
		}
	}
	if err := br.Close(); err != nil {
		return fmt.Errorf("failed to close batch results: %w", err)
	}
	return nil
}

func patientEmail(name string) string {
	slug := strings.ToLower(name)
	replacer := strings.NewReplacer(
		" ", ".", "á", "a", "é", "e", "í", "i", "ó", "o", "ú", "u", "ñ", "n",
	)
	return replacer.Replace(slug) + "@example.com"
}

func main() {
	var (
		catalogFile = flag.String("catalog", "", "Optional Excel file with extra products")
		logLevel    = flag.String("log-level", "info", "Log level (debug, info, warn, error)")
		seed        = flag.Int64("seed", 42, "Random seed for generated data")
		dryRun      = flag.Bool("dry-run", false, "Preview changes without modifying database")
		force       = flag.Bool("force", false, "Truncate existing data before seeding")
	)
	flag.Parse()

	var slogLevel slog.Level
	switch *logLevel {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slogLevel}))
	slog.SetDefault(logger)

	dbURL := fmt.Sprintf("postgresql://%s:%s@%s:%s/%s?sslmode=%s",
		getEnv("DB_USER", "optigest"),
		getEnv("DB_PASSWORD", "optigest_dev_2026"),
		getEnv("DB_HOST", "localhost"),
		getEnv("DB_PORT", "5432"),
		getEnv("DB_NAME", "optigest"),
		getEnv("DB_SSL_MODE", "disable"),
	)

	ctx := context.Background()

	var db *pgxpool.Pool
	var err error

	if !*dryRun {
		db, err = pgxpool.New(ctx, dbURL)
		if err != nil {
			logger.Error("Failed to connect to database", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer db.Close()
	}

	seeder := NewSeeder(db, logger, *seed, *dryRun)

	templates := defaultCatalog
	if *catalogFile != "" {
		extra, err := LoadCatalog(*catalogFile)
		if err != nil {
			logger.Error("Failed to load catalog", slog.String("error", err.Error()))
			os.Exit(1)
		}
		logger.Info("Loaded catalog file", slog.Int("count", len(extra)))
		templates = append(templates, extra...)
	}

	if *force {
		if err := seeder.Truncate(ctx); err != nil {
			logger.Error("Failed to truncate", slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	productCount, err := seeder.SeedProducts(ctx, templates)
	if err != nil {
		logger.Error("Failed to seed products", slog.String("error", err.Error()))
		os.Exit(1)
	}

	patientIDs, err := seeder.SeedPatients(ctx)
	if err != nil {
		logger.Error("Failed to seed patients", slog.String("error", err.Error()))
		os.Exit(1)
	}

	purchaseCount, err := seeder.SeedPurchases(ctx, patientIDs, templates)
	if err != nil {
		logger.Error("Failed to seed purchases", slog.String("error", err.Error()))
		os.Exit(1)
	}

	saleCount, err := seeder.SeedSales(ctx, patientIDs)
	if err != nil {
		logger.Error("Failed to seed sales", slog.String("error", err.Error()))
		os.Exit(1)
	}

	appointmentCount, err := seeder.SeedAppointments(ctx, patientIDs)
	if err != nil {
		logger.Error("Failed to seed appointments", slog.String("error", err.Error()))
		os.Exit(1)
	}

	fmt.Println("\n" + strings.Repeat("=", 60))
	fmt.Println("SEEDING SUMMARY")
	fmt.Println(strings.Repeat("=", 60))
	fmt.Printf("Products:     %d\n", productCount)
	fmt.Printf("Patients:     %d\n", len(patientIDs))
	fmt.Printf("Purchases:    %d\n", purchaseCount)
	fmt.Printf("Sales:        %d\n", saleCount)
	fmt.Printf("Appointments: %d\n", appointmentCount)

	logger.Info("Seed operation completed",
		slog.Int("products", productCount),
		slog.Int("patients", len(patientIDs)),
		slog.Int("sales", saleCount),
		slog.Int("appointments", appointmentCount))

	if *dryRun {
		fmt.Println("\n[DRY RUN] No changes were made to the database")
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
