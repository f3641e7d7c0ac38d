package httpapi

import (
	"net/http"

	"github.com/and161185/assetdesk/internal/model"
)

func (s *server) listMaintenances(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := model.MaintenanceFilters{
		Status:          model.MaintenanceStatus(q.Get("status")),
		MaintenanceType: model.MaintenanceType(q.Get("maintenance_type")),
		Priority:        model.MaintenancePriority(q.Get("priority")),
		AssetID:         queryID(r, "asset_id"),
		TechnicianID:    queryID(r, "technician_id"),
		DateFrom:        q.Get("date_from"),
		DateTo:          q.Get("date_to"),
	}
	out, err := s.inv.ListMaintenances(r.Context(), f)
	respond(w, out, err)
}

func (s *server) getMaintenance(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badID(w)
		return
	}
	out, err := s.inv.GetMaintenance(r.Context(), id)
	respond(w, out, err)
}

func (s *server) createMaintenance(w http.ResponseWriter, r *http.Request) {
	var in model.AssetMaintenanceCreate
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	actor, _ := UserFromCtx(r.Context())
	out, err := s.inv.CreateMaintenance(r.Context(), actor.ID, in)
	respond(w, out, err)
}

func (s *server) updateMaintenance(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badID(w)
		return
	}
	var in model.AssetMaintenanceUpdate
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	out, err := s.inv.UpdateMaintenance(r.Context(), id, in)
	respond(w, out, err)
}

func (s *server) startMaintenance(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badID(w)
		return
	}
	var in struct {
		Notes *string `json:"notes"`
	}
	if r.ContentLength != 0 {
		if err := decode(r, &in); err != nil {
			writeError(w, err)
			return
		}
	}
	notes := ""
	if in.Notes != nil {
		notes = *in.Notes
	}
	out, err := s.inv.StartMaintenance(r.Context(), id, notes)
	respond(w, out, err)
}

func (s *server) completeMaintenance(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badID(w)
		return
	}
	var in model.CompleteMaintenanceRequest
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	out, err := s.inv.CompleteMaintenance(r.Context(), id, in)
	respond(w, out, err)
}

func (s *server) cancelMaintenance(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badID(w)
		return
	}
	out, err := s.inv.CancelMaintenance(r.Context(), id, r.URL.Query().Get("reason"))
	respond(w, out, err)
}

func (s *server) deleteMaintenance(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badID(w)
		return
	}
	if err := s.inv.DeleteMaintenance(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Maintenance deleted"})
}

func (s *server) assetMaintenanceHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "assetID")
	if !ok {
		badID(w)
		return
	}
	out, err := s.inv.AssetMaintenanceHistory(r.Context(), id)
	respond(w, out, err)
}

func (s *server) upcomingMaintenances(w http.ResponseWriter, r *http.Request) {
	out, err := s.inv.UpcomingMaintenances(r.Context(), queryInt(r, "days_ahead", 30))
	respond(w, out, err)
}

func (s *server) overdueMaintenances(w http.ResponseWriter, r *http.Request) {
	out, err := s.inv.OverdueMaintenances(r.Context())
	respond(w, out, err)
}

func (s *server) myMaintenances(w http.ResponseWriter, r *http.Request) {
	actor, _ := UserFromCtx(r.Context())
	out, err := s.inv.TechnicianMaintenances(r.Context(), actor.ID)
	respond(w, out, err)
}

func (s *server) maintenanceMetrics(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	out, err := s.inv.MaintenanceMetrics(r.Context(), q.Get("date_from"), q.Get("date_to"))
	respond(w, out, err)
}

func (s *server) schedulePreventive(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "assetID")
	if !ok {
		badID(w)
		return
	}
	var in struct {
		IntervalDays int `json:"maintenance_interval_days"`
	}
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	actor, _ := UserFromCtx(r.Context())
	out, err := s.inv.SchedulePreventive(r.Context(), actor.ID, id, in.IntervalDays)
	respond(w, out, err)
}
