package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Document statuses. The server only ever assigns the first three to a
// document; APPROVED and REJECTED belong to the permission-request
// lifecycle but remain valid document statuses for display.
const (
	StatusActive         = "ACTIVE"
	StatusPendingDelete  = "PENDING_DELETE"
	StatusPendingReplace = "PENDING_REPLACE"
	StatusApproved       = "APPROVED"
	StatusRejected       = "REJECTED"
)

var DocumentStatuses = []string{
	StatusActive,
	StatusPendingDelete,
	StatusPendingReplace,
	StatusApproved,
	StatusRejected,
}

// ValidDocumentStatus reports whether s is one of the five enumerated
// document statuses.
func ValidDocumentStatus(s string) bool {
	for _, v := range DocumentStatuses {
		if v == s {
			return true
		}
	}
	return false
}

// Document types.
const (
	TypePDF   = "PDF"
	TypeDOC   = "DOC"
	TypeIMG   = "IMG"
	TypeOther = "OTHER"
)

var DocumentTypes = []string{TypePDF, TypeDOC, TypeIMG, TypeOther}

func ValidDocumentType(t string) bool {
	for _, v := range DocumentTypes {
		if v == t {
			return true
		}
	}
	return false
}

type Document struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Title        string             `bson:"title" json:"title"`
	Description  string             `bson:"description,omitempty" json:"description,omitempty"`
	DocumentType string             `bson:"documentType" json:"documentType"`
	S3Key        string             `bson:"s3Key" json:"-"` // object key in S3
	FileName     string             `bson:"fileName" json:"fileName"`
	FileSize     int64              `bson:"fileSize" json:"fileSize"`
	FileType     string             `bson:"fileType,omitempty" json:"fileType,omitempty"` // MIME type
	FileURL      string             `bson:"-" json:"fileUrl,omitempty"`                   // download path, set by handlers
	Version      int                `bson:"version" json:"version"`
	Status       string             `bson:"status" json:"status"`
	CreatedBy    UserRef            `bson:"createdBy" json:"createdBy"`
	CreatedAt    time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updatedAt" json:"updatedAt"`
}
