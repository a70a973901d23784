package models

import "testing"

func TestValidDocumentStatus(t *testing.T) {
	for _, s := range DocumentStatuses {
		if !ValidDocumentStatus(s) {
			t.Errorf("expected %q to be valid", s)
		}
	}
	for _, s := range []string{"", "active", "PENDING", "DELETED", "Pending_Delete"} {
		if ValidDocumentStatus(s) {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}

func TestValidDocumentType(t *testing.T) {
	for _, d := range DocumentTypes {
		if !ValidDocumentType(d) {
			t.Errorf("expected %q to be valid", d)
		}
	}
	if ValidDocumentType("pdf") || ValidDocumentType("XLS") {
		t.Error("unexpected type accepted")
	}
}

func TestPendingStatus(t *testing.T) {
	cases := map[string]bool{
		StatusPendingDelete:  true,
		StatusPendingReplace: true,
		RequestPending:       true,
		StatusApproved:       false,
		StatusRejected:       false,
		StatusActive:         false,
		"":                   false,
	}
	for status, want := range cases {
		if got := PendingStatus(status); got != want {
			t.Errorf("PendingStatus(%q) = %v, want %v", status, got, want)
		}
	}
}

func TestCanTransition(t *testing.T) {
	// Pending states may resolve either way.
	for _, from := range []string{StatusPendingDelete, StatusPendingReplace} {
		for _, to := range []string{StatusApproved, StatusRejected} {
			if !CanTransition(from, to) {
				t.Errorf("expected %s -> %s to be allowed", from, to)
			}
		}
		if CanTransition(from, StatusActive) {
			t.Errorf("unexpected %s -> ACTIVE", from)
		}
	}
	// Terminal states admit nothing.
	for _, from := range []string{StatusApproved, StatusRejected} {
		for _, to := range DocumentStatuses {
			if CanTransition(from, to) {
				t.Errorf("unexpected transition %s -> %s", from, to)
			}
		}
	}
}

func TestUserIsAdmin(t *testing.T) {
	for _, role := range []string{"ADMIN", "admin", "Admin"} {
		u := User{Role: role}
		if !u.IsAdmin() {
			t.Errorf("expected role %q to be admin", role)
		}
	}
	u := User{Role: RoleUser}
	if u.IsAdmin() {
		t.Error("USER should not be admin")
	}
}
