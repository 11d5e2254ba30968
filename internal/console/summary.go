// internal/console/summary.go
package console

import (
	"github.com/yanniacalzado/OptiGest/internal/core/domain"
)

// ProductSummary tallies the CURRENT page of the catalog listing by stock
// status. The counts are page-scoped on purpose: they describe what the
// operator is looking at, not the whole result set.
type ProductSummary struct {
	Total    int
	Normal   int
	Low      int
	Critical int
}

// SummarizeProducts tallies one page of products. Records whose status
// string is missing or unknown are classified from their stock count.
func SummarizeProducts(items []domain.Product) ProductSummary {
	s := ProductSummary{Total: len(items)}
	for i := range items {
		switch items[i].StockStatus() {
		case domain.StockNormal:
			s.Normal++
		case domain.StockLow:
			s.Low++
		case domain.StockCritical:
			s.Critical++
		}
	}
	return s
}

// PatientSummary tallies the current page of the patient listing.
type PatientSummary struct {
	Total          int
	Active         int
	Inactive       int
	TotalPurchases int
}

// SummarizePatients tallies one page of patients, summing their purchase
// counters.
func SummarizePatients(items []domain.Patient) PatientSummary {
	s := PatientSummary{Total: len(items)}
	for i := range items {
		switch st, _ := domain.ParsePatientStatus(items[i].Status); st {
		case domain.PatientActive:
			s.Active++
		case domain.PatientInactive:
			s.Inactive++
		}
		s.TotalPurchases += items[i].TotalPurchases
	}
	return s
}
