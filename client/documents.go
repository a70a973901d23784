package client

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"
)

// Document statuses as the server reports them.
const (
	StatusActive         = "ACTIVE"
	StatusPendingDelete  = "PENDING_DELETE"
	StatusPendingReplace = "PENDING_REPLACE"
	StatusApproved       = "APPROVED"
	StatusRejected       = "REJECTED"
)

// StatusAll is the sentinel filter value meaning "no status filter".
const StatusAll = "all"

type Document struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description,omitempty"`
	DocumentType string    `json:"documentType"`
	FileURL      string    `json:"fileUrl,omitempty"`
	FileName     string    `json:"fileName"`
	FileSize     int64     `json:"fileSize"`
	FileType     string    `json:"fileType,omitempty"`
	Version      int       `json:"version"`
	Status       string    `json:"status"`
	CreatedBy    UserRef   `json:"createdBy"`
	CreatedAt    time.Time `json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

type UserRef struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}

// DocumentPage is the server's pagination envelope.
type DocumentPage struct {
	Count    int        `json:"count"`
	Next     *string    `json:"next"`
	Previous *string    `json:"previous"`
	Results  []Document `json:"results"`
}

// ValidationError is a local input error, caught before any network
// call and attributed to a field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

var (
	// ErrStaleResult marks a List response that was overtaken by a newer
	// fetch; its payload must not overwrite fresher state.
	ErrStaleResult = errors.New("list result superseded by a newer fetch")
	// ErrUploadInFlight rejects a second Upload while one is running.
	ErrUploadInFlight = errors.New("an upload is already in flight")
)

// Documents is the document-registry view model: listing, upload and
// the delete/replace request operations.
type Documents struct {
	client *Client

	mu        sync.Mutex
	issued    uint64 // latest List sequence handed out
	applied   uint64 // latest List sequence whose result was accepted
	uploading bool
}

func NewDocuments(c *Client) *Documents {
	return &Documents{client: c}
}

type ListOptions struct {
	Search string
	Status string // one of the five statuses, "PENDING", or "all"/empty
	Page   int
	Size   int
}

// List fetches a page of documents. The status filter is forwarded to
// the server unless it is the "all" sentinel. Each call is tagged with
// a monotonically increasing sequence; a response overtaken by a newer
// call's response returns ErrStaleResult so rapid re-fetches cannot
// clobber fresh results with stale ones.
func (d *Documents) List(ctx context.Context, opts ListOptions) (*DocumentPage, error) {
	d.mu.Lock()
	d.issued++
	seq := d.issued
	d.mu.Unlock()

	q := url.Values{}
	if opts.Search != "" {
		q.Set("search", opts.Search)
	}
	if opts.Status != "" && opts.Status != StatusAll {
		q.Set("status", opts.Status)
	}
	if opts.Page > 0 {
		q.Set("page", strconv.Itoa(opts.Page))
	}
	if opts.Size > 0 {
		q.Set("size", strconv.Itoa(opts.Size))
	}
	path := "documents/"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var page DocumentPage
	if err := d.client.getJSON(ctx, path, &page); err != nil {
		return nil, err
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if seq < d.applied {
		return nil, ErrStaleResult
	}
	d.applied = seq
	return &page, nil
}

// Get fetches one document by id.
func (d *Documents) Get(ctx context.Context, id string) (*Document, error) {
	var doc Document
	if err := d.client.getJSON(ctx, "documents/"+id+"/", &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// DownloadURL returns a short-lived URL for the document's file.
func (d *Documents) DownloadURL(ctx context.Context, id string) (string, error) {
	var resp struct {
		URL string `json:"url"`
	}
	if err := d.client.getJSON(ctx, "documents/"+id+"/download/", &resp); err != nil {
		return "", err
	}
	return resp.URL, nil
}

type UploadInput struct {
	Title        string
	Description  string
	DocumentType string // PDF, DOC, IMG or OTHER
	FileName     string
	File         io.Reader
	// Progress, when set, receives a coarse percentage in [0,100].
	Progress func(pct int)
}

var documentTypes = map[string]bool{"PDF": true, "DOC": true, "IMG": true, "OTHER": true}

// Upload validates its input locally (no network call on a validation
// failure), then submits the multipart form. Only one upload may be in
// flight per registry; a second call returns ErrUploadInFlight.
func (d *Documents) Upload(ctx context.Context, in UploadInput) (*Document, error) {
	if strings.TrimSpace(in.Title) == "" {
		return nil, &ValidationError{Field: "title", Reason: "title is required"}
	}
	if !documentTypes[in.DocumentType] {
		return nil, &ValidationError{Field: "documentType", Reason: "choose PDF, DOC, IMG or OTHER"}
	}
	if in.File == nil {
		return nil, &ValidationError{Field: "file", Reason: "a file must be selected"}
	}

	d.mu.Lock()
	if d.uploading {
		d.mu.Unlock()
		return nil, ErrUploadInFlight
	}
	d.uploading = true
	d.mu.Unlock()
	defer func() {
		d.mu.Lock()
		d.uploading = false
		d.mu.Unlock()
	}()

	fields := map[string]string{
		"title":        strings.TrimSpace(in.Title),
		"documentType": in.DocumentType,
	}
	if in.Description != "" {
		fields["description"] = in.Description
	}
	body, contentType, err := multipartBody(fields, "file", in.FileName, in.File)
	if err != nil {
		return nil, err
	}
	reader := io.Reader(body)
	if in.Progress != nil {
		reader = &progressReader{r: body, total: int64(body.Len()), report: in.Progress}
		in.Progress(0)
	}

	resp, err := d.client.do(ctx, http.MethodPost, "documents/upload/", reader, contentType)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()
	if in.Progress != nil {
		in.Progress(100)
	}
	var doc Document
	if err := decodeJSON(resp.Body, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// RequestDelete asks for the document to be deleted. The document moves
// to PENDING_DELETE server-side; nothing is removed until an admin
// approves.
func (d *Documents) RequestDelete(ctx context.Context, id string) error {
	return d.client.postJSON(ctx, "documents/"+id+"/request-delete/", nil, nil)
}

// RequestReplace submits a new file for an existing document. The
// current file and version stay authoritative until approval.
func (d *Documents) RequestReplace(ctx context.Context, id, fileName string, file io.Reader) error {
	if file == nil {
		return &ValidationError{Field: "file", Reason: "a file must be selected"}
	}
	body, contentType, err := multipartBody(nil, "file", fileName, file)
	if err != nil {
		return err
	}
	resp, err := d.client.do(ctx, http.MethodPost, "documents/"+id+"/request-replace/", body, contentType)
	if err != nil {
		return err
	}
	return resp.Body.Close()
}

func multipartBody(fields map[string]string, fileField, fileName string, file io.Reader) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			return nil, "", err
		}
	}
	part, err := w.CreateFormFile(fileField, fileName)
	if err != nil {
		return nil, "", err
	}
	if _, err := io.Copy(part, file); err != nil {
		return nil, "", err
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

// progressReader reports consumed bytes as a coarse percentage of the
// buffered request body.
type progressReader struct {
	r      io.Reader
	total  int64
	read   int64
	last   int
	report func(pct int)
}

func (p *progressReader) Read(b []byte) (int, error) {
	n, err := p.r.Read(b)
	p.read += int64(n)
	if p.total > 0 {
		pct := int(p.read * 100 / p.total)
		if pct > 100 {
			pct = 100
		}
		if pct != p.last {
			p.last = pct
			p.report(pct)
		}
	}
	return n, err
}

// FilterDocuments narrows docs the way the server does: a document
// matches when the query is a case-insensitive substring of its title
// or file name, and its status matches the filter ("all"/empty matches
// everything, "PENDING" matches both pending statuses). Order is
// preserved; the same inputs always yield the same result.
func FilterDocuments(docs []Document, query, status string) []Document {
	q := strings.ToLower(strings.TrimSpace(query))
	out := make([]Document, 0, len(docs))
	for _, doc := range docs {
		if q != "" &&
			!strings.Contains(strings.ToLower(doc.Title), q) &&
			!strings.Contains(strings.ToLower(doc.FileName), q) {
			continue
		}
		switch status {
		case "", StatusAll:
		case "PENDING":
			if doc.Status != StatusPendingDelete && doc.Status != StatusPendingReplace {
				continue
			}
		default:
			if doc.Status != status {
				continue
			}
		}
		out = append(out, doc)
	}
	return out
}

// Paginate slices docs into 1-indexed pages of the given size, clamping
// page to [1, ceil(len/size)]. Returns the page and the total number of
// pages (at least 1).
func Paginate(docs []Document, page, size int) ([]Document, int) {
	if size < 1 {
		size = 1
	}
	totalPages := (len(docs) + size - 1) / size
	if totalPages == 0 {
		totalPages = 1
	}
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	start := (page - 1) * size
	end := start + size
	if start > len(docs) {
		start = len(docs)
	}
	if end > len(docs) {
		end = len(docs)
	}
	return docs[start:end], totalPages
}
