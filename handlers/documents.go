package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/dms-app/dms-backend/middleware"
	"github.com/dms-app/dms-backend/models"
	"github.com/dms-app/dms-backend/service"
	"github.com/dms-app/dms-backend/store"
	"github.com/go-chi/chi/v5"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100

	documentsPrefix = "documents/"
	pendingPrefix   = "documents/pending/"
)

type DocumentsHandler struct {
	DB       store.Store
	Files    service.ObjectStore
	Mailer   *service.Mailer
	MaxBytes int64
}

// PaginatedDocuments is the list envelope: count is the filtered total,
// next/previous are page URLs or null.
type PaginatedDocuments struct {
	Count    int               `json:"count"`
	Next     *string           `json:"next"`
	Previous *string           `json:"previous"`
	Results  []models.Document `json:"results"`
}

func (h *DocumentsHandler) List(w http.ResponseWriter, r *http.Request) {
	if _, ok := middleware.UserIDFromContext(r.Context()); !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	q := r.URL.Query()
	filter := store.DocumentFilter{
		Search: strings.TrimSpace(q.Get("search")),
		Status: strings.TrimSpace(q.Get("status")),
	}
	if filter.Status == "all" {
		filter.Status = ""
	}
	docs, err := h.DB.Documents(r.Context(), filter)
	if err != nil {
		http.Error(w, `{"error":"failed to list documents"}`, http.StatusInternalServerError)
		return
	}

	page := intParam(q.Get("page"), 1)
	size := intParam(q.Get("size"), defaultPageSize)
	if size > maxPageSize {
		size = maxPageSize
	}
	count := len(docs)
	totalPages := (count + size - 1) / size
	if totalPages == 0 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}
	start := (page - 1) * size
	end := start + size
	if start > count {
		start = count
	}
	if end > count {
		end = count
	}
	results := docs[start:end]
	for i := range results {
		setFileURL(&results[i])
	}

	resp := PaginatedDocuments{Count: count, Results: results}
	if page < totalPages {
		resp.Next = pageURL(r, page+1, size)
	}
	if page > 1 {
		resp.Previous = pageURL(r, page-1, size)
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

func intParam(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}

func pageURL(r *http.Request, page, size int) *string {
	q := url.Values{}
	for k, vs := range r.URL.Query() {
		for _, v := range vs {
			q.Add(k, v)
		}
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("size", strconv.Itoa(size))
	u := r.URL.Path + "?" + q.Encode()
	return &u
}

func setFileURL(doc *models.Document) {
	doc.FileURL = fmt.Sprintf("/api/documents/%s/download/", doc.ID.Hex())
}

func (h *DocumentsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return
	}
	if h.Files == nil {
		http.Error(w, `{"error":"upload not configured (missing S3)"}`, http.StatusServiceUnavailable)
		return
	}
	if h.MaxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes)
	}
	if err := r.ParseMultipartForm(h.MaxBytes); err != nil {
		http.Error(w, `{"error":"failed to parse multipart form"}`, http.StatusBadRequest)
		return
	}
	title := strings.TrimSpace(r.FormValue("title"))
	if title == "" {
		http.Error(w, `{"error":"title is required"}`, http.StatusBadRequest)
		return
	}
	docType := strings.TrimSpace(r.FormValue("documentType"))
	if !models.ValidDocumentType(docType) {
		http.Error(w, `{"error":"document type is required (PDF, DOC, IMG or OTHER)"}`, http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, `{"error":"file is required"}`, http.StatusBadRequest)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	key, err := h.Files.Put(r.Context(), documentsPrefix, header.Filename, file, contentType)
	if err != nil {
		http.Error(w, `{"error":"failed to upload to storage"}`, http.StatusInternalServerError)
		return
	}

	now := time.Now()
	doc := &models.Document{
		Title:        title,
		Description:  strings.TrimSpace(r.FormValue("description")),
		DocumentType: docType,
		S3Key:        key,
		FileName:     header.Filename,
		FileSize:     header.Size,
		FileType:     contentType,
		Version:      1,
		Status:       models.StatusActive,
		CreatedBy: models.UserRef{
			ID:       userID,
			Username: middleware.UsernameFromContext(r.Context()),
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	id, err := h.DB.InsertDocument(r.Context(), doc)
	if err != nil {
		http.Error(w, `{"error":"failed to save document record"}`, http.StatusInternalServerError)
		return
	}
	doc.ID = id
	setFileURL(doc)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(doc)
}

func (h *DocumentsHandler) Get(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.documentFromURL(w, r)
	if !ok {
		return
	}
	setFileURL(doc)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(doc)
}

type DownloadResponse struct {
	URL string `json:"url"`
}

func (h *DocumentsHandler) Download(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.documentFromURL(w, r)
	if !ok {
		return
	}
	if h.Files == nil {
		http.Error(w, `{"error":"download not configured"}`, http.StatusServiceUnavailable)
		return
	}
	url, err := h.Files.PresignedGetURL(r.Context(), doc.S3Key, 15*time.Minute, doc.FileName)
	if err != nil {
		http.Error(w, `{"error":"failed to generate download url"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(DownloadResponse{URL: url})
}

// RequestReplace stages a replacement file and opens a PENDING_REPLACE
// permission request. The current file and version stay authoritative
// until an admin approves.
func (h *DocumentsHandler) RequestReplace(w http.ResponseWriter, r *http.Request) {
	doc, requester, ok := h.ownedActiveDocument(w, r)
	if !ok {
		return
	}
	if h.Files == nil {
		http.Error(w, `{"error":"upload not configured (missing S3)"}`, http.StatusServiceUnavailable)
		return
	}
	if h.MaxBytes > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, h.MaxBytes)
	}
	if err := r.ParseMultipartForm(h.MaxBytes); err != nil {
		http.Error(w, `{"error":"failed to parse multipart form"}`, http.StatusBadRequest)
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		http.Error(w, `{"error":"file is required"}`, http.StatusBadRequest)
		return
	}
	defer file.Close()

	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	pendingKey, err := h.Files.Put(r.Context(), pendingPrefix, header.Filename, file, contentType)
	if err != nil {
		http.Error(w, `{"error":"failed to upload to storage"}`, http.StatusInternalServerError)
		return
	}

	req := &models.PermissionRequest{
		DocumentID:      doc.ID,
		Document:        doc.Title,
		Action:          models.ActionReplace,
		Status:          models.StatusPendingReplace,
		Requester:       requester.Username,
		RequestedByID:   requester.ID,
		PendingS3Key:    pendingKey,
		PendingFileName: header.Filename,
		PendingFileSize: header.Size,
		PendingFileType: contentType,
		CreatedAt:       time.Now(),
	}
	if _, err := h.DB.InsertPermissionRequest(r.Context(), req); err != nil {
		http.Error(w, `{"error":"failed to create request"}`, http.StatusInternalServerError)
		return
	}
	if err := h.DB.UpdateDocumentStatus(r.Context(), doc.ID, models.StatusPendingReplace); err != nil {
		http.Error(w, `{"error":"failed to update document"}`, http.StatusInternalServerError)
		return
	}
	notifyAdmins(r.Context(), h.DB, h.Mailer, doc, models.ActionReplace, requester.Username)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Replace request submitted"})
}

// RequestDelete opens a PENDING_DELETE permission request. Nothing is
// deleted until an admin approves.
func (h *DocumentsHandler) RequestDelete(w http.ResponseWriter, r *http.Request) {
	doc, requester, ok := h.ownedActiveDocument(w, r)
	if !ok {
		return
	}
	req := &models.PermissionRequest{
		DocumentID:    doc.ID,
		Document:      doc.Title,
		Action:        models.ActionDelete,
		Status:        models.StatusPendingDelete,
		Requester:     requester.Username,
		RequestedByID: requester.ID,
		CreatedAt:     time.Now(),
	}
	if _, err := h.DB.InsertPermissionRequest(r.Context(), req); err != nil {
		http.Error(w, `{"error":"failed to create request"}`, http.StatusInternalServerError)
		return
	}
	if err := h.DB.UpdateDocumentStatus(r.Context(), doc.ID, models.StatusPendingDelete); err != nil {
		http.Error(w, `{"error":"failed to update document"}`, http.StatusInternalServerError)
		return
	}
	notifyAdmins(r.Context(), h.DB, h.Mailer, doc, models.ActionDelete, requester.Username)
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"message": "Delete request submitted"})
}

func (h *DocumentsHandler) documentFromURL(w http.ResponseWriter, r *http.Request) (*models.Document, bool) {
	if _, ok := middleware.UserIDFromContext(r.Context()); !ok {
		http.Error(w, `{"error":"unauthorized"}`, http.StatusUnauthorized)
		return nil, false
	}
	id, err := primitive.ObjectIDFromHex(chi.URLParam(r, "id"))
	if err != nil {
		http.Error(w, `{"error":"invalid document id"}`, http.StatusBadRequest)
		return nil, false
	}
	doc, err := h.DB.DocumentByID(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		http.Error(w, `{"error":"document not found"}`, http.StatusNotFound)
		return nil, false
	}
	if err != nil {
		http.Error(w, `{"error":"failed to load document"}`, http.StatusInternalServerError)
		return nil, false
	}
	return doc, true
}

// ownedActiveDocument loads the document from the URL and checks the
// caller owns it and it carries no pending request. Non-owners get a
// 404, not a 403, so document existence does not leak.
func (h *DocumentsHandler) ownedActiveDocument(w http.ResponseWriter, r *http.Request) (*models.Document, models.UserRef, bool) {
	doc, ok := h.documentFromURL(w, r)
	if !ok {
		return nil, models.UserRef{}, false
	}
	userID, _ := middleware.UserIDFromContext(r.Context())
	if doc.CreatedBy.ID != userID {
		http.Error(w, `{"error":"document not found"}`, http.StatusNotFound)
		return nil, models.UserRef{}, false
	}
	if doc.Status != models.StatusActive {
		http.Error(w, `{"error":"document locked"}`, http.StatusBadRequest)
		return nil, models.UserRef{}, false
	}
	requester := models.UserRef{ID: userID, Username: middleware.UsernameFromContext(r.Context())}
	return doc, requester, true
}
