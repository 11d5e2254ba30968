// internal/handlers/dashboard.go
package handlers

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	redis_a "github.com/yanniacalzado/OptiGest/internal/adapters/redis_adapter"
	"github.com/yanniacalzado/OptiGest/internal/core/domain"
	"github.com/yanniacalzado/OptiGest/internal/core/ports"
)

// DashboardHandler handles dashboard aggregation requests
type DashboardHandler struct {
	db       ports.Database
	cache    ports.CacheRepository
	cacheTTL time.Duration
	logger   *slog.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(database ports.Database, cache ports.CacheRepository, cacheTTL time.Duration, logger *slog.Logger) *DashboardHandler {
	return &DashboardHandler{
		db:       database,
		cache:    cache,
		cacheTTL: cacheTTL,
		logger:   logger.With(slog.String("handler", "dashboard")),
	}
}

// GetDashboard handles GET /api/dashboard/
func (h *DashboardHandler) GetDashboard(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	cacheKey := redis_a.BuildKey(redis_a.PrefixDashboard, "snapshot")
	var snapshot domain.DashboardSnapshot

	err := h.cache.GetOrSet(ctx, cacheKey, &snapshot, func() (interface{}, error) {
		return h.loadSnapshot(ctx)
	}, h.cacheTTL)

	if err != nil {
		h.logger.ErrorContext(ctx, "failed to load dashboard",
			slog.String("error", err.Error()))
		h.respondError(w, http.StatusInternalServerError, "Failed to load dashboard")
		return
	}

	h.respondJSON(w, http.StatusOK, snapshot)
}

func (h *DashboardHandler) loadSnapshot(ctx context.Context) (*domain.DashboardSnapshot, error) {
	snapshot := &domain.DashboardSnapshot{
		RecentSales:        []domain.RecentSale{},
		RecentAppointments: []domain.RecentAppointment{},
		Stats:              &domain.DashboardStats{},
	}

	summaryQuery := `
		SELECT
			COALESCE((SELECT SUM(total_amount) FROM sales WHERE created_at::date = CURRENT_DATE), 0),
			COALESCE((SELECT SUM(total_amount) FROM sales WHERE created_at::date >= date_trunc('month', CURRENT_DATE)), 0),
			(SELECT COUNT(*) FROM appointments WHERE date = CURRENT_DATE),
			COALESCE((SELECT SUM(stock) FROM products), 0),
			(SELECT COUNT(*) FROM products WHERE type = 'consignacion'),
			(SELECT COUNT(*) FROM products),
			(SELECT COUNT(*) FROM patients),
			(SELECT COUNT(*) FROM appointments WHERE status = 'Pendiente'),
			(SELECT COUNT(*) FROM sales WHERE status IN ('Nuevo', 'En Proceso'))`

	err := h.db.QueryRow(ctx, summaryQuery).Scan(
		&snapshot.DailySales,
		&snapshot.MonthlySales,
		&snapshot.Appointments,
		&snapshot.Inventory,
		&snapshot.Consignments,
		&snapshot.Stats.TotalProducts,
		&snapshot.Stats.TotalPatients,
		&snapshot.Stats.PendingAppointments,
		&snapshot.Stats.ActiveSales,
	)
	if err != nil {
		return nil, err
	}

	if err := h.loadRecentSales(ctx, snapshot); err != nil {
		return nil, err
	}
	if err := h.loadRecentAppointments(ctx, snapshot); err != nil {
		return nil, err
	}
	if err := h.loadInventoryByCategory(ctx, snapshot); err != nil {
		return nil, err
	}
	if err := h.loadLowStockProducts(ctx, snapshot); err != nil {
		return nil, err
	}

	return snapshot, nil
}

func (h *DashboardHandler) loadRecentSales(ctx context.Context, snapshot *domain.DashboardSnapshot) error {
	query := `
		SELECT p.name, s.total_amount, to_char(s.created_at, 'YYYY-MM-DD')
		FROM sales s
		JOIN patients p ON p.id = s.patient_id
		ORDER BY s.created_at DESC
		LIMIT 5`

	rows, err := h.db.Query(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var sale domain.RecentSale
		if err := rows.Scan(&sale.Client, &sale.Amount, &sale.Date); err != nil {
			return err
		}
		snapshot.RecentSales = append(snapshot.RecentSales, sale)
	}
	return rows.Err()
}

func (h *DashboardHandler) loadRecentAppointments(ctx context.Context, snapshot *domain.DashboardSnapshot) error {
	query := `
		SELECT p.name, to_char(a.time, 'HH24:MI'), a.type
		FROM appointments a
		JOIN patients p ON p.id = a.patient_id
		WHERE a.date >= CURRENT_DATE
		ORDER BY a.date ASC, a.time ASC
		LIMIT 5`

	rows, err := h.db.Query(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var apt domain.RecentAppointment
		if err := rows.Scan(&apt.Patient, &apt.Time, &apt.Type); err != nil {
			return err
		}
		snapshot.RecentAppointments = append(snapshot.RecentAppointments, apt)
	}
	return rows.Err()
}

func (h *DashboardHandler) loadInventoryByCategory(ctx context.Context, snapshot *domain.DashboardSnapshot) error {
	query := `
		SELECT category, COALESCE(SUM(stock), 0), COUNT(*)
		FROM products
		GROUP BY category
		ORDER BY category ASC`

	rows, err := h.db.Query(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var inv domain.CategoryInventory
		var category string
		if err := rows.Scan(&category, &inv.Stock, &inv.Products); err != nil {
			return err
		}
		inv.Category = domain.Category(category).Display()
		snapshot.InventoryByCategory = append(snapshot.InventoryByCategory, inv)
	}
	return rows.Err()
}

func (h *DashboardHandler) loadLowStockProducts(ctx context.Context, snapshot *domain.DashboardSnapshot) error {
	query := `
		SELECT name, code, stock, status
		FROM products
		WHERE status IN ('Bajo', 'Crítico')
		ORDER BY stock ASC
		LIMIT 10`

	rows, err := h.db.Query(ctx, query)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var p domain.LowStockProduct
		if err := rows.Scan(&p.Name, &p.Code, &p.Stock, &p.Status); err != nil {
			return err
		}
		snapshot.LowStockProducts = append(snapshot.LowStockProducts, p)
	}
	return rows.Err()
}

// Helper methods

func (h *DashboardHandler) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Error("failed to encode JSON response",
			slog.String("error", err.Error()))
	}
}

func (h *DashboardHandler) respondError(w http.ResponseWriter, status int, message string) {
	h.respondJSON(w, status, map[string]string{"error": message})
}
