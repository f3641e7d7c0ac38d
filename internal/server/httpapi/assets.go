package httpapi

import (
	"net/http"
	"strings"

	"github.com/and161185/assetdesk/internal/model"
)

func label(v string) string {
	s := strings.ReplaceAll(v, "_", " ")
	return strings.ToUpper(s[:1]) + s[1:]
}

func (s *server) listAssets(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	f := model.AssetFilters{
		Search:     q.Get("search"),
		Category:   model.AssetCategory(q.Get("category")),
		Status:     model.AssetStatus(q.Get("status")),
		Brand:      q.Get("brand"),
		Location:   q.Get("location"),
		Department: q.Get("department"),
	}
	out, err := s.inv.ListAssets(r.Context(), f)
	respond(w, out, err)
}

func (s *server) getAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badID(w)
		return
	}
	out, err := s.inv.GetAsset(r.Context(), id)
	respond(w, out, err)
}

func (s *server) createAsset(w http.ResponseWriter, r *http.Request) {
	var in model.TechAssetCreate
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	out, err := s.inv.CreateAsset(r.Context(), in)
	respond(w, out, err)
}

func (s *server) updateAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badID(w)
		return
	}
	var in model.TechAssetUpdate
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	out, err := s.inv.UpdateAsset(r.Context(), id, in)
	respond(w, out, err)
}

func (s *server) updateAssetStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badID(w)
		return
	}
	var in struct {
		Status model.AssetStatus `json:"status"`
	}
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	out, err := s.inv.UpdateAssetStatus(r.Context(), id, in.Status)
	respond(w, out, err)
}

func (s *server) deleteAsset(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(r, "id")
	if !ok {
		badID(w)
		return
	}
	if err := s.inv.DeleteAsset(r.Context(), id); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Tech asset deleted"})
}

func (s *server) assetCategories(w http.ResponseWriter, _ *http.Request) {
	out := make([]model.Option, 0, len(model.AssetCategories))
	for _, c := range model.AssetCategories {
		out = append(out, model.Option{Value: string(c), Label: label(string(c))})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *server) assetStatuses(w http.ResponseWriter, _ *http.Request) {
	out := make([]model.Option, 0, len(model.AssetStatuses))
	for _, st := range model.AssetStatuses {
		out = append(out, model.Option{Value: string(st), Label: label(string(st))})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *server) warrantyExpiring(w http.ResponseWriter, r *http.Request) {
	out, err := s.inv.WarrantyExpiring(r.Context(), queryInt(r, "days_ahead", 30))
	respond(w, out, err)
}

func (s *server) generateTag(w http.ResponseWriter, r *http.Request) {
	var in model.AssetTagRequest
	if err := decode(r, &in); err != nil {
		writeError(w, err)
		return
	}
	out, err := s.inv.GenerateAssetTag(r.Context(), in)
	respond(w, out, err)
}

func (s *server) assetStatistics(w http.ResponseWriter, r *http.Request) {
	out, err := s.inv.AssetStatistics(r.Context())
	respond(w, out, err)
}

func respond(w http.ResponseWriter, v any, err error) {
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, v)
}

func badID(w http.ResponseWriter) {
	writeDetail(w, http.StatusUnprocessableEntity, "id must be a positive integer")
}
