package httpapi

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/and161185/assetdesk/internal/model"
)

// dashboard always answers with the {success,data,error} envelope.
func (s *server) dashboard(w http.ResponseWriter, r *http.Request) {
	env := model.DashboardData{Timestamp: time.Now().UTC().Format(time.RFC3339)}
	m, err := s.inv.InventoryMetrics(r.Context())
	if err != nil {
		s.log.Error("dashboard metrics", zap.Error(err))
		msg := "could not compute inventory metrics"
		env.Error = &msg
		writeJSON(w, http.StatusOK, env)
		return
	}
	env.Success = true
	env.Data = &m
	writeJSON(w, http.StatusOK, env)
}
