package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/dms-app/dms-backend/middleware"
	"github.com/dms-app/dms-backend/models"
	"github.com/dms-app/dms-backend/service"
	"github.com/dms-app/dms-backend/store"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type PermissionsHandler struct {
	DB    store.Store
	Files service.ObjectStore
}

func (h *PermissionsHandler) ListPending(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.DB.PendingRequests(r.Context())
	if err != nil {
		http.Error(w, `{"error":"failed to list requests"}`, http.StatusInternalServerError)
		return
	}
	if reqs == nil {
		reqs = []models.PermissionRequest{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reqs)
}

func (h *PermissionsHandler) History(w http.ResponseWriter, r *http.Request) {
	reqs, err := h.DB.ResolvedRequests(r.Context())
	if err != nil {
		http.Error(w, `{"error":"failed to list requests"}`, http.StatusInternalServerError)
		return
	}
	if reqs == nil {
		reqs = []models.PermissionRequest{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(reqs)
}

// Approve resolves a pending request to APPROVED and applies its effect
// to the document: DELETE removes the document and its stored files,
// REPLACE swaps in the staged file and bumps the version. Resolution is
// atomic on the pending status, so a request already decided by another
// admin yields a 404.
func (h *PermissionsHandler) Approve(w http.ResponseWriter, r *http.Request) {
	req, ok := h.resolve(w, r, models.StatusApproved)
	if !ok {
		return
	}
	switch req.Action {
	case models.ActionDelete:
		doc, err := h.DB.DeleteDocument(r.Context(), req.DocumentID)
		if err != nil && !errors.Is(err, store.ErrNotFound) {
			http.Error(w, `{"error":"failed to delete document"}`, http.StatusInternalServerError)
			return
		}
		if doc != nil && h.Files != nil && doc.S3Key != "" {
			if err := h.Files.Delete(r.Context(), doc.S3Key); err != nil {
				log.Printf("permissions: delete object %s: %v", doc.S3Key, err)
			}
		}
	case models.ActionReplace:
		doc, err := h.DB.DocumentByID(r.Context(), req.DocumentID)
		if err != nil {
			http.Error(w, `{"error":"failed to load document"}`, http.StatusInternalServerError)
			return
		}
		oldKey := doc.S3Key
		if err := h.DB.ReplaceDocumentFile(r.Context(), req.DocumentID,
			req.PendingS3Key, req.PendingFileName, req.PendingFileType, req.PendingFileSize); err != nil {
			http.Error(w, `{"error":"failed to replace document file"}`, http.StatusInternalServerError)
			return
		}
		if h.Files != nil && oldKey != "" && oldKey != req.PendingS3Key {
			if err := h.Files.Delete(r.Context(), oldKey); err != nil {
				log.Printf("permissions: delete object %s: %v", oldKey, err)
			}
		}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": models.StatusApproved})
}

// Reject resolves a pending request to REJECTED, returns the document to
// ACTIVE and discards any staged replacement file.
func (h *PermissionsHandler) Reject(w http.ResponseWriter, r *http.Request) {
	req, ok := h.resolve(w, r, models.StatusRejected)
	if !ok {
		return
	}
	if err := h.DB.UpdateDocumentStatus(r.Context(), req.DocumentID, models.StatusActive); err != nil && !errors.Is(err, store.ErrNotFound) {
		http.Error(w, `{"error":"failed to update document"}`, http.StatusInternalServerError)
		return
	}
	if req.Action == models.ActionReplace && h.Files != nil && req.PendingS3Key != "" {
		if err := h.Files.Delete(r.Context(), req.PendingS3Key); err != nil {
			log.Printf("permissions: delete object %s: %v", req.PendingS3Key, err)
		}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": models.StatusRejected})
}

func (h *PermissionsHandler) resolve(w http.ResponseWriter, r *http.Request, status string) (*models.PermissionRequest, bool) {
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, `{"error":"invalid request id"}`, http.StatusBadRequest)
		return nil, false
	}
	approver := middleware.UsernameFromContext(r.Context())
	req, err := h.DB.ResolvePermissionRequest(r.Context(), id, status, approver, time.Now())
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, `{"error":"request not found or already resolved"}`, http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		http.Error(w, `{"error":"failed to resolve request"}`, http.StatusInternalServerError)
		return nil, false
	}
	return req, true
}
