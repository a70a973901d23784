package models

import (
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Permission request actions.
const (
	ActionReplace = "REPLACE"
	ActionDelete  = "DELETE"
)

// A request is created in one of the two PENDING_* statuses and resolved
// to APPROVED or REJECTED by an admin. Plain "PENDING" is accepted on
// input for compatibility with older records but never written.
const (
	RequestPending = "PENDING"
)

// PendingStatus reports whether a request status is still awaiting an
// admin decision. APPROVED and REJECTED are terminal.
func PendingStatus(s string) bool {
	return strings.HasPrefix(s, RequestPending)
}

// CanTransition reports whether a permission request may move from one
// status to another. The only legal edges are PENDING_* to APPROVED or
// REJECTED; terminal states admit no further transitions.
func CanTransition(from, to string) bool {
	if !PendingStatus(from) {
		return false
	}
	return to == StatusApproved || to == StatusRejected
}

type PermissionRequest struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	DocumentID    primitive.ObjectID `bson:"documentId" json:"-"`
	Document      string             `bson:"document" json:"document"` // display title
	Action        string             `bson:"action" json:"action"`     // REPLACE or DELETE
	Status        string             `bson:"status" json:"status"`
	Requester     string             `bson:"requester" json:"requester"`
	RequestedByID primitive.ObjectID `bson:"requestedById" json:"-"`
	// Replacement file staged in S3 until the request is decided.
	PendingS3Key    string     `bson:"pendingS3Key,omitempty" json:"-"`
	PendingFileName string     `bson:"pendingFileName,omitempty" json:"-"`
	PendingFileSize int64      `bson:"pendingFileSize,omitempty" json:"-"`
	PendingFileType string     `bson:"pendingFileType,omitempty" json:"-"`
	CreatedAt       time.Time  `bson:"createdAt" json:"created_at"`
	ApprovedBy      string     `bson:"approvedBy,omitempty" json:"approved_by,omitempty"`
	ApprovedAt      *time.Time `bson:"approvedAt,omitempty" json:"approved_at,omitempty"`
}
