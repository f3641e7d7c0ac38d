package service

import (
	"context"

	"github.com/and161185/assetdesk/internal/model"
)

// InventoryMetrics aggregates the inventory dashboard.
func (s *InventoryServiceImpl) InventoryMetrics(ctx context.Context) (model.InventoryMetrics, error) {
	assets, err := s.assets.ListAssets(ctx)
	if err != nil {
		return model.InventoryMetrics{}, err
	}
	assignments, err := s.assignments.ListAssignments(ctx)
	if err != nil {
		return model.InventoryMetrics{}, err
	}
	jobs, err := s.maintenances.ListMaintenances(ctx)
	if err != nil {
		return model.InventoryMetrics{}, err
	}

	out := model.InventoryMetrics{
		TotalAssets:          len(assets),
		CategoryDistribution: map[string]int{},
		StatusDistribution:   map[string]int{},
	}
	var value float64
	priced := false
	for _, a := range assets {
		out.CategoryDistribution[string(a.Category)]++
		out.StatusDistribution[string(a.Status)]++
		switch a.Status {
		case model.AssetAvailable:
			out.AvailableAssets++
		case model.AssetAssigned:
			out.AssignedAssets++
		case model.AssetInMaintenance:
			out.MaintenanceAssets++
		}
		if a.PurchasePrice != nil {
			value += *a.PurchasePrice
			priced = true
		}
	}
	if priced {
		out.TotalValue = ptr(value)
	}
	for _, a := range assignments {
		if a.Status == model.AssignmentActive {
			out.ActiveAssignments++
		}
	}
	now := s.now()
	for _, m := range jobs {
		if pending(m.Status) {
			out.PendingMaintenances++
		}
		if s.overdue(m, now) {
			out.OverdueMaintenances++
		}
	}
	return out, nil
}
