package client

import (
	"context"
	"strings"
	"time"
)

// Permission request actions.
const (
	ActionReplace = "REPLACE"
	ActionDelete  = "DELETE"
)

type PermissionRequest struct {
	ID         string     `json:"id"`
	Document   string     `json:"document"` // display title
	Action     string     `json:"action"`
	Status     string     `json:"status"`
	Requester  string     `json:"requester"`
	CreatedAt  time.Time  `json:"created_at"`
	ApprovedBy string     `json:"approved_by,omitempty"`
	ApprovedAt *time.Time `json:"approved_at,omitempty"`
}

// Actionable reports whether a request still accepts an admin decision.
// APPROVED and REJECTED are terminal; acting on them is prevented here
// on the client, and authoritatively by the server.
func Actionable(status string) bool {
	return strings.HasPrefix(status, "PENDING")
}

// StatusLabel is the single status-to-display-label table shared by the
// pending and history views.
var StatusLabel = map[string]string{
	StatusActive:         "Active",
	StatusPendingDelete:  "Pending Delete",
	StatusPendingReplace: "Pending Replace",
	StatusApproved:       "Approved",
	StatusRejected:       "Rejected",
	"PENDING":            "Pending",
}

// Permissions is the admin review workflow over replace/delete
// requests.
type Permissions struct {
	client *Client
}

func NewPermissions(c *Client) *Permissions {
	return &Permissions{client: c}
}

// Pending returns requests awaiting a decision.
func (p *Permissions) Pending(ctx context.Context) ([]PermissionRequest, error) {
	var reqs []PermissionRequest
	if err := p.client.getJSON(ctx, "permissions", &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

// History returns resolved requests with approver and resolution time.
func (p *Permissions) History(ctx context.Context) ([]PermissionRequest, error) {
	var reqs []PermissionRequest
	if err := p.client.getJSON(ctx, "permissions/admin/history/", &reqs); err != nil {
		return nil, err
	}
	return reqs, nil
}

// Approve moves a pending request to APPROVED. The server is the
// authoritative guard against acting on an already-resolved request.
func (p *Permissions) Approve(ctx context.Context, id string) error {
	return p.client.postJSON(ctx, "permissions/"+id+"/approve/", nil, nil)
}

// Reject moves a pending request to REJECTED.
func (p *Permissions) Reject(ctx context.Context, id string) error {
	return p.client.postJSON(ctx, "permissions/"+id+"/reject/", nil, nil)
}
