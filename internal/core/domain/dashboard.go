// internal/core/domain/dashboard.go
package domain

import (
	"github.com/shopspring/decimal"
)

// RecentSale is one row of the dashboard's latest-sales panel.
type RecentSale struct {
	Client string          `json:"client"`
	Amount decimal.Decimal `json:"amount"`
	Date   string          `json:"date"`
}

// RecentAppointment is one row of the dashboard's upcoming-appointments panel.
type RecentAppointment struct {
	Patient string `json:"patient"`
	Time    string `json:"time"`
	Type    string `json:"type"`
}

// CategoryInventory aggregates stock per product category.
type CategoryInventory struct {
	Category string `json:"category"`
	Stock    int    `json:"stock"`
	Products int    `json:"products"`
}

// LowStockProduct is a product flagged on the dashboard for restocking.
type LowStockProduct struct {
	Name   string `json:"name"`
	Code   string `json:"code"`
	Stock  int    `json:"stock"`
	Status string `json:"status"`
}

// DashboardStats carries the headline counters.
type DashboardStats struct {
	TotalPatients       int64 `json:"totalPatients"`
	TotalProducts       int64 `json:"totalProducts"`
	PendingAppointments int64 `json:"pendingAppointments"`
	ActiveSales         int64 `json:"activeSales"`
}

// DashboardSnapshot is the aggregated view served at /api/dashboard/.
// Keys are camelCase to match the consumer contract.
type DashboardSnapshot struct {
	DailySales          decimal.Decimal     `json:"dailySales"`
	MonthlySales        decimal.Decimal     `json:"monthlySales"`
	Appointments        int64               `json:"appointments"`
	Inventory           int64               `json:"inventory"`
	Consignments        int64               `json:"consignments"`
	RecentSales         []RecentSale        `json:"recentSales"`
	RecentAppointments  []RecentAppointment `json:"recentAppointments"`
	InventoryByCategory []CategoryInventory `json:"inventoryByCategory,omitempty"`
	LowStockProducts    []LowStockProduct   `json:"lowStockProducts,omitempty"`
	Stats               *DashboardStats     `json:"stats,omitempty"`
}
