package handlers

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/dms-app/dms-backend/middleware"
	"github.com/dms-app/dms-backend/models"
	"github.com/dms-app/dms-backend/store"
)

type DashboardHandler struct {
	DB store.Store
}

type DashboardResponse struct {
	Username        string `json:"username"`
	Role            string `json:"role"`
	TotalDocuments  int64  `json:"total_documents"`
	PendingRequests int64  `json:"pending_requests"`
}

// Summary returns the caller's dashboard counters. Admins see the global
// pending-request count, users their own.
func (h *DashboardHandler) Summary(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	role := middleware.RoleFromContext(r.Context())

	total, err := h.DB.CountDocumentsByOwner(r.Context(), userID)
	if err != nil {
		http.Error(w, `{"error":"failed to load dashboard"}`, http.StatusInternalServerError)
		return
	}
	var pending int64
	if strings.EqualFold(role, models.RoleAdmin) {
		pending, err = h.DB.CountPendingRequests(r.Context())
	} else {
		pending, err = h.DB.CountPendingRequestsByRequester(r.Context(), userID)
	}
	if err != nil {
		http.Error(w, `{"error":"failed to load dashboard"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(DashboardResponse{
		Username:        middleware.UsernameFromContext(r.Context()),
		Role:            role,
		TotalDocuments:  total,
		PendingRequests: pending,
	})
}
