package client

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestActionable(t *testing.T) {
	tests := []struct {
		status string
		want   bool
	}{
		{"PENDING_DELETE", true},
		{"PENDING_REPLACE", true},
		{"PENDING", true},
		{"APPROVED", false},
		{"REJECTED", false},
		{"", false},
	}
	for _, tc := range tests {
		if got := Actionable(tc.status); got != tc.want {
			t.Errorf("Actionable(%q) = %v, want %v", tc.status, got, tc.want)
		}
	}
}

func TestStatusLabel(t *testing.T) {
	// Every status the server can report has a display label.
	for _, status := range []string{
		StatusActive, StatusPendingDelete, StatusPendingReplace,
		StatusApproved, StatusRejected, "PENDING",
	} {
		if StatusLabel[status] == "" {
			t.Errorf("no label for status %q", status)
		}
	}
	if StatusLabel[StatusPendingDelete] == StatusLabel[StatusPendingReplace] {
		t.Error("pending delete and pending replace must be distinguishable")
	}
}

func TestPermissions_ApproveResolvedRequest(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"request not found or already resolved"}`, http.StatusNotFound)
	}))
	defer server.Close()

	p := NewPermissions(New(server.URL, NewMemoryTokenStore()))
	err := p.Approve(context.Background(), "some-id")
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusNotFound {
		t.Fatalf("err = %v, want 404 APIError", err)
	}
}

func TestPermissions_PendingAndHistory(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/permissions", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]PermissionRequest{
			{ID: "p1", Document: "Report", Action: ActionDelete, Status: "PENDING_DELETE", Requester: "alice"},
		})
	})
	mux.HandleFunc("/permissions/admin/history/", func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]PermissionRequest{
			{ID: "p0", Document: "Old", Action: ActionReplace, Status: "APPROVED", Requester: "bob", ApprovedBy: "admin"},
		})
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	p := NewPermissions(New(server.URL, NewMemoryTokenStore()))

	pending, err := p.Pending(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(pending) != 1 || !Actionable(pending[0].Status) {
		t.Fatalf("pending = %+v", pending)
	}

	history, err := p.History(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if len(history) != 1 || Actionable(history[0].Status) {
		t.Fatalf("history = %+v", history)
	}
	if history[0].ApprovedBy != "admin" {
		t.Errorf("history approver = %q", history[0].ApprovedBy)
	}
}
