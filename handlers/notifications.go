package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dms-app/dms-backend/middleware"
	"github.com/dms-app/dms-backend/models"
	"github.com/dms-app/dms-backend/store"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type NotificationsHandler struct {
	DB store.Store
}

func (h *NotificationsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	ns, err := h.DB.NotificationsForUser(r.Context(), userID)
	if err != nil {
		http.Error(w, `{"error":"failed to list notifications"}`, http.StatusInternalServerError)
		return
	}
	if ns == nil {
		ns = []models.Notification{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(ns)
}

func (h *NotificationsHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, `{"error":"invalid notification id"}`, http.StatusBadRequest)
		return
	}
	if err := h.DB.MarkNotificationRead(r.Context(), id, userID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, `{"error":"notification not found"}`, http.StatusNotFound)
			return
		}
		http.Error(w, `{"error":"failed to update notification"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "marked read"})
}
