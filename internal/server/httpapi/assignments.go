package httpapi

import (
	"net/http"
	"strconv"

	"github.com/and161185/assetdesk/internal/model"
)

func (s *server) listAssignments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := model.AssignmentFilters{
		Status:  model.AssignmentStatus(q.Get("status")),
		UserID:  queryID(r, "user_id"),
		AssetID: queryID(r, "asset_id"),
	}
	if v, err := strconv.ParseBool(q.Get("active_only")); err == nil {
		f.ActiveOnly = &v
	}
	out, err := s.inv.ListAssignments(r.Context(), f)
	respond(w, out, err)
}

func (s *server) getAssignment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badID(w)
		return
	}
	out, err := s.inv.GetAssignment(r.Context(), id)
	respond(w, out, err)
}

func (s *server) createAssignment(w http.ResponseWriter, r *http.Request) {
	var in model.AssetAssignmentCreate
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	actor, _ := UserFromCtx(r.Context())
	out, err := s.inv.CreateAssignment(r.Context(), actor.ID, in)
	respond(w, out, err)
}

func (s *server) returnAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badID(w)
		return
	}
	var in model.ReturnAssetRequest
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	out, err := s.inv.ReturnAsset(r.Context(), id, in)
	respond(w, out, err)
}

func (s *server) transferAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badID(w)
		return
	}
	newUser := queryID(r, "new_user_id")
	if newUser <= 0 {
		writeDetail(w, http.StatusUnprocessableEntity, "new_user_id is required")
		return
	}
	actor, _ := UserFromCtx(r.Context())
	out, err := s.inv.TransferAsset(r.Context(), actor.ID, id, newUser, r.URL.Query().Get("transfer_notes"))
	respond(w, out, err)
}

func (s *server) deleteAssignment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badID(w)
		return
	}
	if err := s.inv.DeleteAssignment(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Assignment deleted"})
}

func (s *server) userAssignments(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "userID")
	if !ok {
		badID(w)
		return
	}
	activeOnly, err := strconv.ParseBool(r.URL.Query().Get("active_only"))
	if err != nil {
		activeOnly = true
	}
	out, err := s.inv.UserAssignments(r.Context(), id, activeOnly)
	respond(w, out, err)
}

func (s *server) assetAssignmentHistory(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "assetID")
	if !ok {
		badID(w)
		return
	}
	out, err := s.inv.AssetAssignmentHistory(r.Context(), id)
	respond(w, out, err)
}

func (s *server) myAssignments(w http.ResponseWriter, r *http.Request) {
	actor, _ := UserFromCtx(r.Context())
	out, err := s.inv.UserAssignments(r.Context(), actor.ID, true)
	respond(w, out, err)
}

func (s *server) assignmentStatistics(w http.ResponseWriter, r *http.Request) {
	out, err := s.inv.AssignmentStatistics(r.Context())
	respond(w, out, err)
}
