// internal/console/dashboard.go
package console

import (
	"context"
	"log/slog"
	"sync"

	"github.com/shopspring/decimal"

	"github.com/yanniacalzado/OptiGest/internal/core/domain"
)

// fallbackSnapshot is the complete demo dashboard served when the backend
// cannot be reached. It is committed whole or not at all; live and fallback
// data are never mixed.
func fallbackSnapshot() domain.DashboardSnapshot {
	return domain.DashboardSnapshot{
		DailySales:   decimal.NewFromInt(2850),
		MonthlySales: decimal.NewFromInt(45600),
		Appointments: 12,
		Inventory:    1250,
		RecentSales: []domain.RecentSale{
			{Client: "María González", Amount: decimal.NewFromInt(350), Date: "2024-01-15"},
			{Client: "Carlos López", Amount: decimal.NewFromInt(520), Date: "2024-01-15"},
		},
		RecentAppointments: []domain.RecentAppointment{
			{Patient: "Ana Martín", Time: "10:00", Type: "Examen Visual"},
			{Patient: "Luis Pérez", Time: "11:30", Type: "Control"},
		},
	}
}

// DashboardController loads the aggregated dashboard. A failed load is
// logged and answered with the fallback snapshot instead of an error, so
// the dashboard always renders.
type DashboardController struct {
	gw     *Gateway
	logger *slog.Logger

	mu       sync.Mutex
	snapshot domain.DashboardSnapshot
	live     bool
	loaded   bool
}

// NewDashboardController builds a dashboard controller over the gateway.
func NewDashboardController(gw *Gateway, logger *slog.Logger) *DashboardController {
	return &DashboardController{
		gw:     gw,
		logger: logger.With(slog.String("controller", "dashboard")),
	}
}

// Load fetches the dashboard and returns it. Any fetch failure falls back
// to the demo snapshot; the cause is logged, never surfaced.
func (d *DashboardController) Load(ctx context.Context) domain.DashboardSnapshot {
	snapshot, err := d.gw.FetchDashboard(ctx)
	live := err == nil
	if err != nil {
		d.logger.Error("dashboard fetch failed, serving fallback data",
			slog.Any("error", err))
		snapshot = fallbackSnapshot()
	}

	d.mu.Lock()
	d.snapshot = snapshot
	d.live = live
	d.loaded = true
	d.mu.Unlock()
	return snapshot
}

// Snapshot returns the last loaded dashboard, falling back to the demo
// snapshot when nothing has been loaded yet.
func (d *DashboardController) Snapshot() domain.DashboardSnapshot {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.loaded {
		return fallbackSnapshot()
	}
	return d.snapshot
}

// Live reports whether the current snapshot came from the backend, letting
// a front-end badge demo data instead of passing it off as real.
func (d *DashboardController) Live() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.live
}
