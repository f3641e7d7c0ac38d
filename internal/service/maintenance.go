package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/and161185/assetdesk/internal/errs"
	"github.com/and161185/assetdesk/internal/model"
)

// pending reports whether a job still has work ahead of it.
func pending(s model.MaintenanceStatus) bool {
	return s == model.MaintenanceScheduled || s == model.MaintenanceInProgress ||
		s == model.MaintenancePostponed || s == model.MaintenancePendingParts
}

func startable(s model.MaintenanceStatus) bool {
	return s == model.MaintenanceScheduled || s == model.MaintenancePostponed || s == model.MaintenancePendingParts
}

func (s *InventoryServiceImpl) overdue(m model.AssetMaintenance, now time.Time) bool {
	if m.Status != model.MaintenanceScheduled {
		return false
	}
	at, ok := parseDate(m.ScheduledDate)
	return ok && at.Before(now)
}

func totalCost(m model.AssetMaintenance) *float64 {
	if m.LaborCost == nil && m.PartsCost == nil && m.ExternalServiceCost == nil {
		return nil
	}
	var sum float64
	for _, c := range []*float64{m.LaborCost, m.PartsCost, m.ExternalServiceCost} {
		if c != nil {
			sum += *c
		}
	}
	return &sum
}

func (s *InventoryServiceImpl) decorateMaintenance(ctx context.Context, m model.AssetMaintenance) model.AssetMaintenance {
	if asset, err := s.assets.GetAsset(ctx, m.TechAssetID); err == nil {
		m.TechAssetName = ptr(asset.Name)
		m.TechAssetSerial = ptr(asset.SerialNumber)
	}
	m.TechnicianName = s.userName(ctx, m.AssignedTechnicianID)
	m.RequestedByName = s.userName(ctx, m.RequestedByUserID)
	m.TotalCost = totalCost(m)
	return m
}

func (s *InventoryServiceImpl) listMaintenances(ctx context.Context, keep func(model.AssetMaintenance) bool) ([]model.AssetMaintenance, error) {
	all, err := s.maintenances.ListMaintenances(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]model.AssetMaintenance, 0, len(all))
	for _, m := range all {
		if keep(m) {
			out = append(out, s.decorateMaintenance(ctx, m))
		}
	}
	return out, nil
}

// inRange reports whether date falls in [from, to]; a date-only bound covers the whole day.
func inRange(date, from, to string) bool {
	at, ok := parseDate(date)
	if !ok {
		return from == "" && to == ""
	}
	if from != "" {
		if lo, ok := parseDate(from); ok && at.Before(lo) {
			return false
		}
	}
	if to != "" {
		if hi, ok := parseDate(to); ok {
			if len(strings.TrimSpace(to)) == len("2006-01-02") {
				hi = hi.Add(24 * time.Hour)
				return at.Before(hi)
			}
			return !at.After(hi)
		}
	}
	return true
}

func (s *InventoryServiceImpl) ListMaintenances(ctx context.Context, f model.MaintenanceFilters) ([]model.AssetMaintenance, error) {
	return s.listMaintenances(ctx, func(m model.AssetMaintenance) bool {
		switch {
		case f.Status != "" && m.Status != f.Status:
			return false
		case f.MaintenanceType != "" && m.MaintenanceType != f.MaintenanceType:
			return false
		case f.Priority != "" && m.Priority != f.Priority:
			return false
		case f.AssetID > 0 && m.TechAssetID != f.AssetID:
			return false
		case f.TechnicianID > 0 && (m.AssignedTechnicianID == nil || *m.AssignedTechnicianID != f.TechnicianID):
			return false
		}
		return inRange(m.ScheduledDate, f.DateFrom, f.DateTo)
	})
}

func (s *InventoryServiceImpl) GetMaintenance(ctx context.Context, id int64) (model.AssetMaintenance, error) {
	m, err := s.maintenances.GetMaintenance(ctx, id)
	if err != nil {
		return model.AssetMaintenance{}, notFound("maintenance", id)
	}
	return s.decorateMaintenance(ctx, *m), nil
}

// CreateMaintenance schedules a job for an existing asset (priority defaults to medium).
func (s *InventoryServiceImpl) CreateMaintenance(ctx context.Context, actorID int64, in model.AssetMaintenanceCreate) (model.AssetMaintenance, error) {
	if strings.TrimSpace(in.Title) == "" {
		return model.AssetMaintenance{}, fmt.Errorf("%w: title is required", errs.ErrInvalidInput)
	}
	if !in.MaintenanceType.Valid() {
		return model.AssetMaintenance{}, fmt.Errorf("%w: unknown maintenance type %q", errs.ErrInvalidInput, in.MaintenanceType)
	}
	priority := in.Priority
	if priority == "" {
		priority = model.PriorityMedium
	}
	if !priority.Valid() {
		return model.AssetMaintenance{}, fmt.Errorf("%w: unknown priority %q", errs.ErrInvalidInput, priority)
	}
	if err := requireDate("scheduled_date", in.ScheduledDate); err != nil {
		return model.AssetMaintenance{}, err
	}
	if _, err := s.assets.GetAsset(ctx, in.TechAssetID); err != nil {
		return model.AssetMaintenance{}, notFound("tech asset", in.TechAssetID)
	}
	if in.AssignedTechnicianID != nil {
		if _, err := s.users.GetByID(ctx, *in.AssignedTechnicianID); err != nil {
			return model.AssetMaintenance{}, notFound("user", *in.AssignedTechnicianID)
		}
	}

	m := &model.AssetMaintenance{
		TechAssetID:            in.TechAssetID,
		MaintenanceType:        in.MaintenanceType,
		Title:                  in.Title,
		Description:            in.Description,
		Priority:               priority,
		Status:                 model.MaintenanceScheduled,
		ScheduledDate:          in.ScheduledDate,
		EstimatedDurationHours: in.EstimatedDurationHours,
		AssignedTechnicianID:   in.AssignedTechnicianID,
		RequestedByUserID:      ptr(actorID),
		MaintenanceProvider:    in.MaintenanceProvider,
		Notes:                  in.Notes,
		CreatedAt:              timestamp(s.now()),
	}
	if in.WarrantyWork != nil {
		m.WarrantyWork = *in.WarrantyWork
	}
	if err := s.maintenances.CreateMaintenance(ctx, m); err != nil {
		return model.AssetMaintenance{}, err
	}
	return s.decorateMaintenance(ctx, *m), nil
}

// UpdateMaintenance edits a job that has not reached a terminal status.
func (s *InventoryServiceImpl) UpdateMaintenance(ctx context.Context, id int64, in model.AssetMaintenanceUpdate) (model.AssetMaintenance, error) {
	if in.MaintenanceType != nil && !in.MaintenanceType.Valid() {
		return model.AssetMaintenance{}, fmt.Errorf("%w: unknown maintenance type %q", errs.ErrInvalidInput, *in.MaintenanceType)
	}
	if in.Priority != nil && !in.Priority.Valid() {
		return model.AssetMaintenance{}, fmt.Errorf("%w: unknown priority %q", errs.ErrInvalidInput, *in.Priority)
	}
	if err := optionalDate("scheduled_date", in.ScheduledDate); err != nil {
		return model.AssetMaintenance{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.maintenances.GetMaintenance(ctx, id)
	if err != nil {
		return model.AssetMaintenance{}, notFound("maintenance", id)
	}
	if m.Status.Terminal() {
		return model.AssetMaintenance{}, fmt.Errorf("%w: maintenance is %s", errs.ErrInvalidTransition, m.Status)
	}
	setIf(&m.MaintenanceType, in.MaintenanceType)
	setIf(&m.Title, in.Title)
	setIf(&m.Description, in.Description)
	setIf(&m.Priority, in.Priority)
	setIf(&m.ScheduledDate, in.ScheduledDate)
	setIf(&m.WarrantyWork, in.WarrantyWork)
	setPtrIf(&m.EstimatedDurationHours, in.EstimatedDurationHours)
	setPtrIf(&m.AssignedTechnicianID, in.AssignedTechnicianID)
	setPtrIf(&m.MaintenanceProvider, in.MaintenanceProvider)
	setPtrIf(&m.Notes, in.Notes)
	m.UpdatedAt = ptr(timestamp(s.now()))

	if err := s.maintenances.UpdateMaintenance(ctx, m); err != nil {
		return model.AssetMaintenance{}, err
	}
	return s.decorateMaintenance(ctx, *m), nil
}

func appendNote(cur *string, note string) *string {
	note = strings.TrimSpace(note)
	if note == "" {
		return cur
	}
	if cur == nil || *cur == "" {
		return &note
	}
	return ptr(*cur + "\n" + note)
}

// StartMaintenance moves a scheduled, postponed or pending_parts job to
// in_progress and the asset to in_maintenance.
func (s *InventoryServiceImpl) StartMaintenance(ctx context.Context, id int64, notes string) (model.AssetMaintenance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.maintenances.GetMaintenance(ctx, id)
	if err != nil {
		return model.AssetMaintenance{}, notFound("maintenance", id)
	}
	if !startable(m.Status) {
		return model.AssetMaintenance{}, fmt.Errorf("%w: cannot start maintenance in status %s", errs.ErrInvalidTransition, m.Status)
	}
	now := timestamp(s.now())
	m.Status = model.MaintenanceInProgress
	m.StartedAt = ptr(now)
	m.UpdatedAt = ptr(now)
	m.Notes = appendNote(m.Notes, notes)
	if err := s.maintenances.UpdateMaintenance(ctx, m); err != nil {
		return model.AssetMaintenance{}, err
	}

	if asset, err := s.assets.GetAsset(ctx, m.TechAssetID); err == nil && asset.Status != model.AssetRetired {
		asset.Status = model.AssetInMaintenance
		asset.UpdatedAt = ptr(now)
		if err := s.assets.UpdateAsset(ctx, asset); err != nil {
			return model.AssetMaintenance{}, err
		}
	}
	return s.decorateMaintenance(ctx, *m), nil
}

// restoreAsset puts an asset leaving maintenance back to assigned or available.
func (s *InventoryServiceImpl) restoreAsset(ctx context.Context, assetID int64) error {
	asset, err := s.assets.GetAsset(ctx, assetID)
	if err != nil || asset.Status != model.AssetInMaintenance {
		return nil
	}
	all, err := s.maintenances.ListMaintenances(ctx)
	if err != nil {
		return err
	}
	for _, other := range all {
		if other.TechAssetID == assetID && other.Status == model.MaintenanceInProgress {
			return nil
		}
	}
	active, err := s.activeAssignment(ctx, assetID)
	if err != nil {
		return err
	}
	asset.Status = model.AssetAvailable
	if active != nil {
		asset.Status = model.AssetAssigned
	}
	asset.UpdatedAt = ptr(timestamp(s.now()))
	return s.assets.UpdateAsset(ctx, asset)
}

// CompleteMaintenance closes an in_progress job with its work report.
func (s *InventoryServiceImpl) CompleteMaintenance(ctx context.Context, id int64, in model.CompleteMaintenanceRequest) (model.AssetMaintenance, error) {
	if err := optionalDate("follow_up_date", in.FollowUpDate); err != nil {
		return model.AssetMaintenance{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.maintenances.GetMaintenance(ctx, id)
	if err != nil {
		return model.AssetMaintenance{}, notFound("maintenance", id)
	}
	if m.Status != model.MaintenanceInProgress {
		return model.AssetMaintenance{}, fmt.Errorf("%w: only in_progress maintenance can be completed (status %s)", errs.ErrInvalidTransition, m.Status)
	}
	now := timestamp(s.now())
	m.Status = model.MaintenanceCompleted
	m.CompletedAt = ptr(now)
	m.UpdatedAt = ptr(now)
	m.ProceduresPerformed = in.ProceduresPerformed
	m.PartsReplaced = in.PartsReplaced
	m.ToolsUsed = in.ToolsUsed
	m.LaborCost = in.LaborCost
	m.PartsCost = in.PartsCost
	m.ExternalServiceCost = in.ExternalServiceCost
	setIf(&m.FollowUpRequired, in.FollowUpRequired)
	m.FollowUpDate = in.FollowUpDate
	if in.Notes != nil {
		m.Notes = appendNote(m.Notes, *in.Notes)
	}
	if err := s.maintenances.UpdateMaintenance(ctx, m); err != nil {
		return model.AssetMaintenance{}, err
	}
	if err := s.restoreAsset(ctx, m.TechAssetID); err != nil {
		return model.AssetMaintenance{}, err
	}
	return s.decorateMaintenance(ctx, *m), nil
}

// CancelMaintenance cancels any non-terminal job.
func (s *InventoryServiceImpl) CancelMaintenance(ctx context.Context, id int64, reason string) (model.AssetMaintenance, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.maintenances.GetMaintenance(ctx, id)
	if err != nil {
		return model.AssetMaintenance{}, notFound("maintenance", id)
	}
	if m.Status.Terminal() {
		return model.AssetMaintenance{}, fmt.Errorf("%w: maintenance is already %s", errs.ErrInvalidTransition, m.Status)
	}
	now := timestamp(s.now())
	m.Status = model.MaintenanceCancelled
	m.UpdatedAt = ptr(now)
	if reason = strings.TrimSpace(reason); reason != "" {
		m.Notes = appendNote(m.Notes, "Cancelled: "+reason)
	}
	if err := s.maintenances.UpdateMaintenance(ctx, m); err != nil {
		return model.AssetMaintenance{}, err
	}
	if err := s.restoreAsset(ctx, m.TechAssetID); err != nil {
		return model.AssetMaintenance{}, err
	}
	return s.decorateMaintenance(ctx, *m), nil
}

// DeleteMaintenance removes a job that is not in progress.
func (s *InventoryServiceImpl) DeleteMaintenance(ctx context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	m, err := s.maintenances.GetMaintenance(ctx, id)
	if err != nil {
		return notFound("maintenance", id)
	}
	if m.Status == model.MaintenanceInProgress {
		return fmt.Errorf("%w: maintenance in progress cannot be deleted", errs.ErrConflict)
	}
	return s.maintenances.DeleteMaintenance(ctx, id)
}

func (s *InventoryServiceImpl) AssetMaintenanceHistory(ctx context.Context, assetID int64) ([]model.AssetMaintenance, error) {
	return s.listMaintenances(ctx, func(m model.AssetMaintenance) bool { return m.TechAssetID == assetID })
}

func (s *InventoryServiceImpl) UpcomingMaintenances(ctx context.Context, daysAhead int) ([]model.AssetMaintenance, error) {
	if daysAhead <= 0 {
		daysAhead = 30
	}
	now := s.now()
	limit := now.AddDate(0, 0, daysAhead)
	return s.listMaintenances(ctx, func(m model.AssetMaintenance) bool {
		if m.Status != model.MaintenanceScheduled {
			return false
		}
		at, ok := parseDate(m.ScheduledDate)
		return ok && !at.Before(now) && !at.After(limit)
	})
}

func (s *InventoryServiceImpl) OverdueMaintenances(ctx context.Context) ([]model.AssetMaintenance, error) {
	now := s.now()
	return s.listMaintenances(ctx, func(m model.AssetMaintenance) bool { return s.overdue(m, now) })
}

// TechnicianMaintenances lists the open jobs assigned to technicianID.
func (s *InventoryServiceImpl) TechnicianMaintenances(ctx context.Context, technicianID int64) ([]model.AssetMaintenance, error) {
	return s.listMaintenances(ctx, func(m model.AssetMaintenance) bool {
		return m.AssignedTechnicianID != nil && *m.AssignedTechnicianID == technicianID && pending(m.Status)
	})
}

func (s *InventoryServiceImpl) MaintenanceMetrics(ctx context.Context, dateFrom, dateTo string) (model.MaintenanceMetrics, error) {
	all, err := s.maintenances.ListMaintenances(ctx)
	if err != nil {
		return model.MaintenanceMetrics{}, err
	}
	now := s.now()
	var (
		out                    model.MaintenanceMetrics
		hours, cost            float64
		timed                  int
		costed                 bool
		preventive, corrective int
	)
	for _, m := range all {
		if !inRange(m.ScheduledDate, dateFrom, dateTo) {
			continue
		}
		out.TotalMaintenances++
		switch {
		case m.Status == model.MaintenanceCompleted:
			out.CompletedMaintenances++
		case pending(m.Status):
			out.PendingMaintenances++
		}
		if s.overdue(m, now) {
			out.OverdueMaintenances++
		}
		if m.Status == model.MaintenanceCompleted && m.StartedAt != nil && m.CompletedAt != nil {
			start, ok1 := parseDate(*m.StartedAt)
			end, ok2 := parseDate(*m.CompletedAt)
			if ok1 && ok2 {
				hours += end.Sub(start).Hours()
				timed++
			}
		}
		if c := totalCost(m); c != nil {
			cost += *c
			costed = true
		}
		switch m.MaintenanceType {
		case model.MaintenancePreventive:
			preventive++
		case model.MaintenanceCorrective:
			corrective++
		}
	}
	if timed > 0 {
		out.AverageCompletionTimeHours = ptr(hours / float64(timed))
	}
	if costed {
		out.TotalMaintenanceCost = ptr(cost)
	}
	if corrective > 0 {
		out.PreventiveVsCorrectiveRatio = ptr(float64(preventive) / float64(corrective))
	}
	return out, nil
}

// SchedulePreventive books a preventive job intervalDays after the last one
// (or after today when the asset has none).
func (s *InventoryServiceImpl) SchedulePreventive(ctx context.Context, actorID, assetID int64, intervalDays int) (model.AssetMaintenance, error) {
	if intervalDays <= 0 {
		intervalDays = 90
	}
	asset, err := s.assets.GetAsset(ctx, assetID)
	if err != nil {
		return model.AssetMaintenance{}, notFound("tech asset", assetID)
	}
	all, err := s.maintenances.ListMaintenances(ctx)
	if err != nil {
		return model.AssetMaintenance{}, err
	}
	base := s.now()
	for _, m := range all {
		if m.TechAssetID != assetID || m.MaintenanceType != model.MaintenancePreventive || m.Status == model.MaintenanceCancelled {
			continue
		}
		if at, ok := parseDate(m.ScheduledDate); ok && at.After(base) {
			base = at
		}
	}
	return s.CreateMaintenance(ctx, actorID, model.AssetMaintenanceCreate{
		TechAssetID:     assetID,
		MaintenanceType: model.MaintenancePreventive,
		Title:           "Mantenimiento preventivo - " + asset.Name,
		Description:     fmt.Sprintf("Mantenimiento preventivo programado cada %d días", intervalDays),
		Priority:        model.PriorityMedium,
		ScheduledDate:   timestamp(base.AddDate(0, 0, intervalDays)),
	})
}
