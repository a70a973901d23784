package store

import (
	"context"
	"errors"
	"time"

	"github.com/dms-app/dms-backend/models"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ErrNotFound is returned when a looked-up record does not exist.
var ErrNotFound = errors.New("not found")

// DocumentFilter narrows a document listing. Status "PENDING" matches
// both PENDING_DELETE and PENDING_REPLACE; Search is a case-insensitive
// substring over title and file name.
type DocumentFilter struct {
	Search string
	Status string
}

// Store is the persistence surface the handlers depend on. Implemented
// by the MongoDB-backed DB and by the in-memory store used in tests.
type Store interface {
	// Users
	CreateUser(ctx context.Context, user *models.User) (primitive.ObjectID, error)
	UserByUsername(ctx context.Context, username string) (*models.User, error)
	UserByID(ctx context.Context, id primitive.ObjectID) (*models.User, error)
	Admins(ctx context.Context) ([]models.User, error)

	// Documents
	InsertDocument(ctx context.Context, doc *models.Document) (primitive.ObjectID, error)
	Documents(ctx context.Context, filter DocumentFilter) ([]models.Document, error)
	DocumentByID(ctx context.Context, id primitive.ObjectID) (*models.Document, error)
	UpdateDocumentStatus(ctx context.Context, id primitive.ObjectID, status string) error
	ReplaceDocumentFile(ctx context.Context, id primitive.ObjectID, s3Key, fileName, fileType string, fileSize int64) error
	DeleteDocument(ctx context.Context, id primitive.ObjectID) (*models.Document, error)
	CountDocumentsByOwner(ctx context.Context, owner primitive.ObjectID) (int64, error)

	// Permission requests
	InsertPermissionRequest(ctx context.Context, req *models.PermissionRequest) (primitive.ObjectID, error)
	PendingRequests(ctx context.Context) ([]models.PermissionRequest, error)
	ResolvedRequests(ctx context.Context) ([]models.PermissionRequest, error)
	PermissionRequestByID(ctx context.Context, id primitive.ObjectID) (*models.PermissionRequest, error)
	ResolvePermissionRequest(ctx context.Context, id primitive.ObjectID, status, approver string, at time.Time) (*models.PermissionRequest, error)
	CountPendingRequests(ctx context.Context) (int64, error)
	CountPendingRequestsByRequester(ctx context.Context, requester primitive.ObjectID) (int64, error)

	// Notifications
	InsertNotification(ctx context.Context, n *models.Notification) error
	NotificationsForUser(ctx context.Context, userID primitive.ObjectID) ([]models.Notification, error)
	MarkNotificationRead(ctx context.Context, id, userID primitive.ObjectID) error
}
