package store

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/dms-app/dms-backend/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Memory is an in-memory Store used by tests and by the server when no
// MongoDB is configured. Behavior mirrors the MongoDB implementation:
// newest-first listings, atomic pending-only resolution.
type Memory struct {
	mu            sync.RWMutex
	users         map[primitive.ObjectID]*models.User
	documents     map[primitive.ObjectID]*models.Document
	requests      map[primitive.ObjectID]*models.PermissionRequest
	notifications map[primitive.ObjectID]*models.Notification
}

func NewMemory() *Memory {
	return &Memory{
		users:         make(map[primitive.ObjectID]*models.User),
		documents:     make(map[primitive.ObjectID]*models.Document),
		requests:      make(map[primitive.ObjectID]*models.PermissionRequest),
		notifications: make(map[primitive.ObjectID]*models.Notification),
	}
}

func (m *Memory) CreateUser(ctx context.Context, user *models.User) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	cp := *user
	m.users[user.ID] = &cp
	return user.ID, nil
}

func (m *Memory) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, u := range m.users {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	return nil, nil
}

func (m *Memory) UserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[id]
	if !ok {
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (m *Memory) Admins(ctx context.Context) ([]models.User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var admins []models.User
	for _, u := range m.users {
		if u.Role == models.RoleAdmin {
			admins = append(admins, *u)
		}
	}
	return admins, nil
}

func (m *Memory) InsertDocument(ctx context.Context, doc *models.Document) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if doc.ID.IsZero() {
		doc.ID = primitive.NewObjectID()
	}
	cp := *doc
	m.documents[doc.ID] = &cp
	return doc.ID, nil
}

func matchesFilter(doc *models.Document, filter DocumentFilter) bool {
	if filter.Search != "" {
		q := strings.ToLower(filter.Search)
		if !strings.Contains(strings.ToLower(doc.Title), q) &&
			!strings.Contains(strings.ToLower(doc.FileName), q) {
			return false
		}
	}
	switch filter.Status {
	case "":
	case models.RequestPending:
		if doc.Status != models.StatusPendingDelete && doc.Status != models.StatusPendingReplace {
			return false
		}
	default:
		if doc.Status != filter.Status {
			return false
		}
	}
	return true
}

func (m *Memory) Documents(ctx context.Context, filter DocumentFilter) ([]models.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var docs []models.Document
	for _, d := range m.documents {
		if matchesFilter(d, filter) {
			docs = append(docs, *d)
		}
	}
	sort.Slice(docs, func(i, j int) bool { return docs[i].CreatedAt.After(docs[j].CreatedAt) })
	return docs, nil
}

func (m *Memory) DocumentByID(ctx context.Context, id primitive.ObjectID) (*models.Document, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	d, ok := m.documents[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *d
	return &cp, nil
}

func (m *Memory) UpdateDocumentStatus(ctx context.Context, id primitive.ObjectID, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.documents[id]
	if !ok {
		return ErrNotFound
	}
	d.Status = status
	d.UpdatedAt = time.Now()
	return nil
}

func (m *Memory) ReplaceDocumentFile(ctx context.Context, id primitive.ObjectID, s3Key, fileName, fileType string, fileSize int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.documents[id]
	if !ok {
		return ErrNotFound
	}
	d.S3Key = s3Key
	d.FileName = fileName
	d.FileType = fileType
	d.FileSize = fileSize
	d.Status = models.StatusActive
	d.Version++
	d.UpdatedAt = time.Now()
	return nil
}

func (m *Memory) DeleteDocument(ctx context.Context, id primitive.ObjectID) (*models.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	d, ok := m.documents[id]
	if !ok {
		return nil, ErrNotFound
	}
	delete(m.documents, id)
	return d, nil
}

func (m *Memory) CountDocumentsByOwner(ctx context.Context, owner primitive.ObjectID) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, d := range m.documents {
		if d.CreatedBy.ID == owner {
			n++
		}
	}
	return n, nil
}

func (m *Memory) InsertPermissionRequest(ctx context.Context, req *models.PermissionRequest) (primitive.ObjectID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if req.ID.IsZero() {
		req.ID = primitive.NewObjectID()
	}
	cp := *req
	m.requests[req.ID] = &cp
	return req.ID, nil
}

func (m *Memory) listRequests(pending bool) []models.PermissionRequest {
	var reqs []models.PermissionRequest
	for _, r := range m.requests {
		if models.PendingStatus(r.Status) == pending {
			reqs = append(reqs, *r)
		}
	}
	sort.Slice(reqs, func(i, j int) bool { return reqs[i].CreatedAt.After(reqs[j].CreatedAt) })
	return reqs
}

func (m *Memory) PendingRequests(ctx context.Context) ([]models.PermissionRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listRequests(true), nil
}

func (m *Memory) ResolvedRequests(ctx context.Context) ([]models.PermissionRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.listRequests(false), nil
}

func (m *Memory) PermissionRequestByID(ctx context.Context, id primitive.ObjectID) (*models.PermissionRequest, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	r, ok := m.requests[id]
	if !ok {
		return nil, ErrNotFound
	}
	cp := *r
	return &cp, nil
}

func (m *Memory) ResolvePermissionRequest(ctx context.Context, id primitive.ObjectID, status, approver string, at time.Time) (*models.PermissionRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	r, ok := m.requests[id]
	if !ok || !models.PendingStatus(r.Status) {
		return nil, ErrNotFound
	}
	r.Status = status
	r.ApprovedBy = approver
	t := at
	r.ApprovedAt = &t
	cp := *r
	return &cp, nil
}

func (m *Memory) CountPendingRequests(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.listRequests(true))), nil
}

func (m *Memory) CountPendingRequestsByRequester(ctx context.Context, requester primitive.ObjectID) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var n int64
	for _, r := range m.requests {
		if r.RequestedByID == requester && models.PendingStatus(r.Status) {
			n++
		}
	}
	return n, nil
}

func (m *Memory) InsertNotification(ctx context.Context, n *models.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n.ID.IsZero() {
		n.ID = primitive.NewObjectID()
	}
	cp := *n
	m.notifications[n.ID] = &cp
	return nil
}

func (m *Memory) NotificationsForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var ns []models.Notification
	for _, n := range m.notifications {
		if n.UserID == userID {
			ns = append(ns, *n)
		}
	}
	sort.Slice(ns, func(i, j int) bool { return ns[i].CreatedAt.After(ns[j].CreatedAt) })
	return ns, nil
}

func (m *Memory) MarkNotificationRead(ctx context.Context, id, userID primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	n, ok := m.notifications[id]
	if !ok || n.UserID != userID {
		return ErrNotFound
	}
	n.IsRead = true
	return nil
}
