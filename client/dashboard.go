package client

import (
	"context"
	"time"
)

type DashboardSummary struct {
	Username        string `json:"username"`
	Role            string `json:"role"`
	TotalDocuments  int64  `json:"total_documents"`
	PendingRequests int64  `json:"pending_requests"`
}

func (c *Client) Dashboard(ctx context.Context) (*DashboardSummary, error) {
	var s DashboardSummary
	if err := c.getJSON(ctx, "dashboard/", &s); err != nil {
		return nil, err
	}
	return &s, nil
}

type Notification struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Message   string    `json:"message"`
	IsRead    bool      `json:"is_read"`
	CreatedAt time.Time `json:"createdAt"`
}

func (c *Client) Notifications(ctx context.Context) ([]Notification, error) {
	var ns []Notification
	if err := c.getJSON(ctx, "notifications/", &ns); err != nil {
		return nil, err
	}
	return ns, nil
}

func (c *Client) MarkNotificationRead(ctx context.Context, id string) error {
	return c.postJSON(ctx, "notifications/"+id+"/read/", nil, nil)
}
