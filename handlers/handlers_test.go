package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/dms-app/dms-backend/models"
	"github.com/dms-app/dms-backend/service"
	"github.com/dms-app/dms-backend/store"
	"golang.org/x/crypto/bcrypt"
)

type testAPI struct {
	t      *testing.T
	server *httptest.Server
	db     *store.Memory
	files  *service.MemoryObjectStore
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()
	db := store.NewMemory()
	files := service.NewMemoryObjectStore()
	router := NewRouter(Deps{
		DB:         db,
		Files:      files,
		JWTSecret:  "test-secret",
		AccessTTL:  time.Minute,
		RefreshTTL: time.Hour,
		MaxBytes:   10 << 20,
	})
	server := httptest.NewServer(router)
	t.Cleanup(server.Close)
	return &testAPI{t: t, server: server, db: db, files: files}
}

// seedUser inserts a user directly into the store and returns the
// password for logging in through the API.
func (a *testAPI) seedUser(username, role string) string {
	a.t.Helper()
	password := username + "-pw"
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		a.t.Fatal(err)
	}
	_, err = a.db.CreateUser(context.Background(), &models.User{
		Username:  username,
		Email:     username + "@example.com",
		Password:  string(hash),
		Role:      role,
		CreatedAt: time.Now(),
	})
	if err != nil {
		a.t.Fatal(err)
	}
	return password
}

func (a *testAPI) login(username, password string) string {
	a.t.Helper()
	resp := a.do(http.MethodPost, "/api/auth/login/", "", jsonBody(a.t, map[string]string{
		"username": username,
		"password": password,
	}), "application/json")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		a.t.Fatalf("login %s: status %d", username, resp.StatusCode)
	}
	var tokens TokenResponse
	decode(a.t, resp, &tokens)
	return tokens.AccessToken
}

func (a *testAPI) do(method, path, token string, body io.Reader, contentType string) *http.Response {
	a.t.Helper()
	req, err := http.NewRequest(method, a.server.URL+path, body)
	if err != nil {
		a.t.Fatal(err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		a.t.Fatal(err)
	}
	return resp
}

func jsonBody(t *testing.T, v interface{}) io.Reader {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	return bytes.NewReader(data)
}

func decode(t *testing.T, resp *http.Response, out interface{}) {
	t.Helper()
	defer resp.Body.Close()
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		t.Fatal(err)
	}
}

func uploadForm(t *testing.T, fields map[string]string, fileName, content string) (io.Reader, string) {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatal(err)
		}
	}
	if fileName != "" {
		part, err := w.CreateFormFile("file", fileName)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := io.Copy(part, strings.NewReader(content)); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatal(err)
	}
	return &buf, w.FormDataContentType()
}

func (a *testAPI) upload(token, title string) models.Document {
	a.t.Helper()
	body, contentType := uploadForm(a.t, map[string]string{
		"title":        title,
		"documentType": models.TypePDF,
	}, title+".pdf", "pdf bytes for "+title)
	resp := a.do(http.MethodPost, "/api/documents/upload/", token, body, contentType)
	if resp.StatusCode != http.StatusCreated {
		a.t.Fatalf("upload %q: status %d", title, resp.StatusCode)
	}
	var doc models.Document
	decode(a.t, resp, &doc)
	return doc
}

func TestRegisterLoginMe(t *testing.T) {
	api := newTestAPI(t)

	resp := api.do(http.MethodPost, "/api/auth/register/", "", jsonBody(t, map[string]string{
		"username": "alice",
		"email":    "Alice@Example.com",
		"password": "secret",
	}), "application/json")
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("register: status %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Duplicate username is rejected.
	resp = api.do(http.MethodPost, "/api/auth/register/", "", jsonBody(t, map[string]string{
		"username": "alice",
		"email":    "other@example.com",
		"password": "pw2",
	}), "application/json")
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("duplicate register: status %d, want 400", resp.StatusCode)
	}
	resp.Body.Close()

	token := api.login("alice", "secret")
	resp = api.do(http.MethodGet, "/api/auth/me/", token, nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("me: status %d", resp.StatusCode)
	}
	var me MeResponse
	decode(t, resp, &me)
	if me.Username != "alice" || me.Email != "alice@example.com" || me.Role != models.RoleUser {
		t.Fatalf("me = %+v", me)
	}
}

func TestLoginInvalidCredentials(t *testing.T) {
	api := newTestAPI(t)
	api.seedUser("alice", models.RoleUser)

	for _, creds := range []map[string]string{
		{"username": "alice", "password": "wrong"},
		{"username": "nobody", "password": "pw"},
	} {
		resp := api.do(http.MethodPost, "/api/auth/login/", "", jsonBody(t, creds), "application/json")
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("login %v: status %d, want 401", creds, resp.StatusCode)
		}
		resp.Body.Close()
	}
}

func TestAuthRequired(t *testing.T) {
	api := newTestAPI(t)

	for _, path := range []string{"/api/auth/me/", "/api/documents/", "/api/dashboard/"} {
		resp := api.do(http.MethodGet, path, "", nil, "")
		if resp.StatusCode != http.StatusUnauthorized {
			t.Errorf("GET %s without token: status %d, want 401", path, resp.StatusCode)
		}
		resp.Body.Close()
	}

	resp := api.do(http.MethodGet, "/api/documents/", "not-a-jwt", nil, "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("garbage token: status %d, want 401", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestRefreshFlow(t *testing.T) {
	api := newTestAPI(t)
	pw := api.seedUser("alice", models.RoleUser)

	resp := api.do(http.MethodPost, "/api/auth/login/", "", jsonBody(t, map[string]string{
		"username": "alice", "password": pw,
	}), "application/json")
	var tokens TokenResponse
	decode(t, resp, &tokens)

	// The refresh token buys a fresh pair.
	resp = api.do(http.MethodPost, "/api/auth/refresh/", "", jsonBody(t, map[string]string{
		"refresh": tokens.RefreshToken,
	}), "application/json")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("refresh: status %d", resp.StatusCode)
	}
	var next TokenResponse
	decode(t, resp, &next)
	resp = api.do(http.MethodGet, "/api/auth/me/", next.AccessToken, nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("me with refreshed access token: status %d", resp.StatusCode)
	}
	resp.Body.Close()

	// An access token is not accepted where a refresh token is expected,
	// and vice versa.
	resp = api.do(http.MethodPost, "/api/auth/refresh/", "", jsonBody(t, map[string]string{
		"refresh": tokens.AccessToken,
	}), "application/json")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("refresh with access token: status %d, want 401", resp.StatusCode)
	}
	resp.Body.Close()
	resp = api.do(http.MethodGet, "/api/auth/me/", tokens.RefreshToken, nil, "")
	if resp.StatusCode != http.StatusUnauthorized {
		t.Errorf("me with refresh token: status %d, want 401", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestUploadValidation(t *testing.T) {
	api := newTestAPI(t)
	pw := api.seedUser("alice", models.RoleUser)
	token := api.login("alice", pw)

	tests := []struct {
		name     string
		fields   map[string]string
		fileName string
	}{
		{"missing title", map[string]string{"documentType": "PDF"}, "a.pdf"},
		{"whitespace title", map[string]string{"title": "  ", "documentType": "PDF"}, "a.pdf"},
		{"missing type", map[string]string{"title": "t"}, "a.pdf"},
		{"bad type", map[string]string{"title": "t", "documentType": "XLS"}, "a.xls"},
		{"missing file", map[string]string{"title": "t", "documentType": "PDF"}, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			body, contentType := uploadForm(t, tc.fields, tc.fileName, "x")
			resp := api.do(http.MethodPost, "/api/documents/upload/", token, body, contentType)
			defer resp.Body.Close()
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("status %d, want 400", resp.StatusCode)
			}
		})
	}
	if api.files.Len() != 0 {
		t.Fatalf("object store has %d objects after failed uploads, want 0", api.files.Len())
	}
}

func TestUploadAndGet(t *testing.T) {
	api := newTestAPI(t)
	pw := api.seedUser("alice", models.RoleUser)
	token := api.login("alice", pw)

	doc := api.upload(token, "Quarterly Report")
	if doc.Status != models.StatusActive || doc.Version != 1 {
		t.Fatalf("uploaded doc = status %q version %d, want ACTIVE v1", doc.Status, doc.Version)
	}
	if doc.CreatedBy.Username != "alice" {
		t.Errorf("createdBy = %+v", doc.CreatedBy)
	}
	if api.files.Len() != 1 {
		t.Errorf("object store has %d objects, want 1", api.files.Len())
	}

	resp := api.do(http.MethodGet, "/api/documents/"+doc.ID.Hex()+"/", token, nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get: status %d", resp.StatusCode)
	}
	var got models.Document
	decode(t, resp, &got)
	if got.Title != "Quarterly Report" || got.FileURL == "" {
		t.Fatalf("got = %+v", got)
	}

	resp = api.do(http.MethodGet, "/api/documents/"+doc.ID.Hex()+"/download/", token, nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("download: status %d", resp.StatusCode)
	}
	var dl DownloadResponse
	decode(t, resp, &dl)
	if dl.URL == "" {
		t.Error("download url is empty")
	}
}

func TestListFilterAndPagination(t *testing.T) {
	api := newTestAPI(t)
	pw := api.seedUser("alice", models.RoleUser)
	token := api.login("alice", pw)

	for i := 1; i <= 5; i++ {
		api.upload(token, fmt.Sprintf("Report %d", i))
	}
	api.upload(token, "Team Photo")

	get := func(path string) PaginatedDocuments {
		t.Helper()
		resp := api.do(http.MethodGet, path, token, nil, "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("GET %s: status %d", path, resp.StatusCode)
		}
		var page PaginatedDocuments
		decode(t, resp, &page)
		return page
	}

	all := get("/api/documents/")
	if all.Count != 6 || len(all.Results) != 6 {
		t.Fatalf("count = %d, results = %d, want 6", all.Count, len(all.Results))
	}
	if all.Next != nil || all.Previous != nil {
		t.Errorf("single page should have null next/previous")
	}

	// Search is a case-insensitive title/file-name match; count reflects
	// the filtered total.
	search := get("/api/documents/?search=report")
	if search.Count != 5 {
		t.Errorf("search count = %d, want 5", search.Count)
	}

	// Page size splits the filtered set; next/previous link the pages.
	page1 := get("/api/documents/?search=report&size=2")
	if len(page1.Results) != 2 || page1.Count != 5 {
		t.Fatalf("page 1: %d results, count %d", len(page1.Results), page1.Count)
	}
	if page1.Next == nil || page1.Previous != nil {
		t.Fatalf("page 1 links: next=%v previous=%v", page1.Next, page1.Previous)
	}
	page3 := get("/api/documents/?search=report&size=2&page=3")
	if len(page3.Results) != 1 || page3.Next != nil || page3.Previous == nil {
		t.Fatalf("page 3: %d results, next=%v previous=%v", len(page3.Results), page3.Next, page3.Previous)
	}

	// Out-of-range pages clamp instead of erroring.
	clamped := get("/api/documents/?search=report&size=2&page=99")
	if len(clamped.Results) != 1 {
		t.Errorf("clamped page has %d results, want last page's 1", len(clamped.Results))
	}

	// "all" status is a no-op filter.
	if got := get("/api/documents/?status=all"); got.Count != 6 {
		t.Errorf("status=all count = %d, want 6", got.Count)
	}
}

func TestStatusFilter(t *testing.T) {
	api := newTestAPI(t)
	pw := api.seedUser("alice", models.RoleUser)
	token := api.login("alice", pw)

	active := api.upload(token, "Stays Active")
	pendingDelete := api.upload(token, "Going Away")
	pendingReplace := api.upload(token, "Getting Replaced")

	resp := api.do(http.MethodPost, "/api/documents/"+pendingDelete.ID.Hex()+"/request-delete/", token, nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("request-delete: status %d", resp.StatusCode)
	}
	resp.Body.Close()
	body, contentType := uploadForm(t, nil, "new.pdf", "new bytes")
	resp = api.do(http.MethodPost, "/api/documents/"+pendingReplace.ID.Hex()+"/request-replace/", token, body, contentType)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("request-replace: status %d", resp.StatusCode)
	}
	resp.Body.Close()

	get := func(status string) []models.Document {
		t.Helper()
		resp := api.do(http.MethodGet, "/api/documents/?status="+status, token, nil, "")
		var page PaginatedDocuments
		decode(t, resp, &page)
		return page.Results
	}

	if docs := get(models.StatusActive); len(docs) != 1 || docs[0].ID != active.ID {
		t.Errorf("ACTIVE filter returned %d docs", len(docs))
	}
	if docs := get(models.StatusPendingDelete); len(docs) != 1 || docs[0].ID != pendingDelete.ID {
		t.Errorf("PENDING_DELETE filter returned %d docs", len(docs))
	}
	// The bare PENDING filter covers both pending statuses.
	if docs := get("PENDING"); len(docs) != 2 {
		t.Errorf("PENDING filter returned %d docs, want 2", len(docs))
	}
}

func TestRequestDeleteGuards(t *testing.T) {
	api := newTestAPI(t)
	alicePw := api.seedUser("alice", models.RoleUser)
	bobPw := api.seedUser("bob", models.RoleUser)
	alice := api.login("alice", alicePw)
	bob := api.login("bob", bobPw)

	doc := api.upload(alice, "Alice's Doc")
	path := "/api/documents/" + doc.ID.Hex() + "/request-delete/"

	// Non-owners get a 404, not a 403.
	resp := api.do(http.MethodPost, path, bob, nil, "")
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("non-owner request: status %d, want 404", resp.StatusCode)
	}
	resp.Body.Close()

	resp = api.do(http.MethodPost, path, alice, nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("owner request: status %d", resp.StatusCode)
	}
	resp.Body.Close()

	// A second request on the now-pending document is rejected.
	resp = api.do(http.MethodPost, path, alice, nil, "")
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("request on pending doc: status %d, want 400", resp.StatusCode)
	}
	data, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(data), "document locked") {
		t.Errorf("body = %s, want document locked", data)
	}
}

func TestDeleteWorkflow(t *testing.T) {
	api := newTestAPI(t)
	userPw := api.seedUser("alice", models.RoleUser)
	adminPw := api.seedUser("root", models.RoleAdmin)
	user := api.login("alice", userPw)
	admin := api.login("root", adminPw)

	doc := api.upload(user, "Doomed Doc")

	resp := api.do(http.MethodPost, "/api/documents/"+doc.ID.Hex()+"/request-delete/", user, nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("request-delete: status %d", resp.StatusCode)
	}
	resp.Body.Close()

	// The request shows up in the admin pending queue.
	resp = api.do(http.MethodGet, "/api/permissions", admin, nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("pending list: status %d", resp.StatusCode)
	}
	var pending []models.PermissionRequest
	decode(t, resp, &pending)
	if len(pending) != 1 || pending[0].Action != models.ActionDelete || pending[0].Requester != "alice" {
		t.Fatalf("pending = %+v", pending)
	}
	reqID := pending[0].ID.Hex()

	// The admin was notified in-app.
	resp = api.do(http.MethodGet, "/api/notifications/", admin, nil, "")
	var notes []models.Notification
	decode(t, resp, &notes)
	if len(notes) != 1 {
		t.Fatalf("admin has %d notifications, want 1", len(notes))
	}

	resp = api.do(http.MethodPost, "/api/permissions/"+reqID+"/approve/", admin, nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("approve: status %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Approval deletes the document and its stored file.
	resp = api.do(http.MethodGet, "/api/documents/"+doc.ID.Hex()+"/", user, nil, "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("deleted doc get: status %d, want 404", resp.StatusCode)
	}
	resp.Body.Close()
	if api.files.Len() != 0 {
		t.Errorf("object store has %d objects after approved delete, want 0", api.files.Len())
	}

	// The decision lands in history with the approver recorded.
	resp = api.do(http.MethodGet, "/api/permissions/admin/history/", admin, nil, "")
	var history []models.PermissionRequest
	decode(t, resp, &history)
	if len(history) != 1 || history[0].Status != models.StatusApproved || history[0].ApprovedBy != "root" {
		t.Fatalf("history = %+v", history)
	}

	// Acting on the resolved request again is a 404.
	resp = api.do(http.MethodPost, "/api/permissions/"+reqID+"/reject/", admin, nil, "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("re-resolve: status %d, want 404", resp.StatusCode)
	}
	resp.Body.Close()
}

func TestReplaceWorkflow(t *testing.T) {
	api := newTestAPI(t)
	userPw := api.seedUser("alice", models.RoleUser)
	adminPw := api.seedUser("root", models.RoleAdmin)
	user := api.login("alice", userPw)
	admin := api.login("root", adminPw)

	doc := api.upload(user, "Living Doc")

	body, contentType := uploadForm(t, nil, "v2.pdf", "version two bytes")
	resp := api.do(http.MethodPost, "/api/documents/"+doc.ID.Hex()+"/request-replace/", user, body, contentType)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("request-replace: status %d", resp.StatusCode)
	}
	resp.Body.Close()

	// The replacement is staged alongside the original.
	if api.files.Len() != 2 {
		t.Fatalf("object store has %d objects, want original + staged", api.files.Len())
	}

	resp = api.do(http.MethodGet, "/api/permissions", admin, nil, "")
	var pending []models.PermissionRequest
	decode(t, resp, &pending)
	if len(pending) != 1 || pending[0].Action != models.ActionReplace {
		t.Fatalf("pending = %+v", pending)
	}

	resp = api.do(http.MethodPost, "/api/permissions/"+pending[0].ID.Hex()+"/approve/", admin, nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("approve: status %d", resp.StatusCode)
	}
	resp.Body.Close()

	// Approval swaps the file, bumps the version and reactivates the
	// document; the old object is removed.
	resp = api.do(http.MethodGet, "/api/documents/"+doc.ID.Hex()+"/", user, nil, "")
	var got models.Document
	decode(t, resp, &got)
	if got.Status != models.StatusActive || got.Version != 2 || got.FileName != "v2.pdf" {
		t.Fatalf("after approve: status %q version %d file %q", got.Status, got.Version, got.FileName)
	}
	if api.files.Len() != 1 {
		t.Errorf("object store has %d objects after approved replace, want 1", api.files.Len())
	}
}

func TestRejectReplaceDiscardsStagedFile(t *testing.T) {
	api := newTestAPI(t)
	userPw := api.seedUser("alice", models.RoleUser)
	adminPw := api.seedUser("root", models.RoleAdmin)
	user := api.login("alice", userPw)
	admin := api.login("root", adminPw)

	doc := api.upload(user, "Keeps Its File")

	body, contentType := uploadForm(t, nil, "v2.pdf", "rejected bytes")
	resp := api.do(http.MethodPost, "/api/documents/"+doc.ID.Hex()+"/request-replace/", user, body, contentType)
	resp.Body.Close()

	resp = api.do(http.MethodGet, "/api/permissions", admin, nil, "")
	var pending []models.PermissionRequest
	decode(t, resp, &pending)

	resp = api.do(http.MethodPost, "/api/permissions/"+pending[0].ID.Hex()+"/reject/", admin, nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("reject: status %d", resp.StatusCode)
	}
	resp.Body.Close()

	// The document returns to ACTIVE with its original file and version;
	// the staged object is discarded.
	resp = api.do(http.MethodGet, "/api/documents/"+doc.ID.Hex()+"/", user, nil, "")
	var got models.Document
	decode(t, resp, &got)
	if got.Status != models.StatusActive || got.Version != 1 || got.FileName != "Keeps Its File.pdf" {
		t.Fatalf("after reject: status %q version %d file %q", got.Status, got.Version, got.FileName)
	}
	if api.files.Len() != 1 {
		t.Errorf("object store has %d objects after reject, want original only", api.files.Len())
	}
}

func TestPermissionsRequireAdmin(t *testing.T) {
	api := newTestAPI(t)
	pw := api.seedUser("alice", models.RoleUser)
	token := api.login("alice", pw)

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/permissions"},
		{http.MethodGet, "/api/permissions/admin/history/"},
		{http.MethodPost, "/api/permissions/0123456789abcdef01234567/approve/"},
		{http.MethodPost, "/api/permissions/0123456789abcdef01234567/reject/"},
	} {
		resp := api.do(tc.method, tc.path, token, nil, "")
		if resp.StatusCode != http.StatusForbidden {
			t.Errorf("%s %s as user: status %d, want 403", tc.method, tc.path, resp.StatusCode)
		}
		resp.Body.Close()
	}
}

func TestDashboardSummary(t *testing.T) {
	api := newTestAPI(t)
	alicePw := api.seedUser("alice", models.RoleUser)
	bobPw := api.seedUser("bob", models.RoleUser)
	adminPw := api.seedUser("root", models.RoleAdmin)
	alice := api.login("alice", alicePw)
	bob := api.login("bob", bobPw)
	admin := api.login("root", adminPw)

	aliceDoc := api.upload(alice, "Alice One")
	api.upload(alice, "Alice Two")
	bobDoc := api.upload(bob, "Bob One")

	resp := api.do(http.MethodPost, "/api/documents/"+aliceDoc.ID.Hex()+"/request-delete/", alice, nil, "")
	resp.Body.Close()
	resp = api.do(http.MethodPost, "/api/documents/"+bobDoc.ID.Hex()+"/request-delete/", bob, nil, "")
	resp.Body.Close()

	get := func(token string) DashboardResponse {
		t.Helper()
		resp := api.do(http.MethodGet, "/api/dashboard/", token, nil, "")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("dashboard: status %d", resp.StatusCode)
		}
		var d DashboardResponse
		decode(t, resp, &d)
		return d
	}

	// Users see their own counters.
	d := get(alice)
	if d.Username != "alice" || d.TotalDocuments != 2 || d.PendingRequests != 1 {
		t.Fatalf("alice dashboard = %+v", d)
	}
	// Admins see the global pending count.
	d = get(admin)
	if d.TotalDocuments != 0 || d.PendingRequests != 2 {
		t.Fatalf("admin dashboard = %+v", d)
	}
}

func TestNotificationsMarkRead(t *testing.T) {
	api := newTestAPI(t)
	userPw := api.seedUser("alice", models.RoleUser)
	adminPw := api.seedUser("root", models.RoleAdmin)
	user := api.login("alice", userPw)
	admin := api.login("root", adminPw)

	doc := api.upload(user, "Notify Me")
	resp := api.do(http.MethodPost, "/api/documents/"+doc.ID.Hex()+"/request-delete/", user, nil, "")
	resp.Body.Close()

	resp = api.do(http.MethodGet, "/api/notifications/", admin, nil, "")
	var notes []models.Notification
	decode(t, resp, &notes)
	if len(notes) != 1 || notes[0].IsRead {
		t.Fatalf("notes = %+v", notes)
	}
	noteID := notes[0].ID.Hex()

	// Another user cannot mark the admin's notification.
	resp = api.do(http.MethodPost, "/api/notifications/"+noteID+"/read/", user, nil, "")
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("foreign mark-read: status %d, want 404", resp.StatusCode)
	}
	resp.Body.Close()

	resp = api.do(http.MethodPost, "/api/notifications/"+noteID+"/read/", admin, nil, "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("mark-read: status %d", resp.StatusCode)
	}
	resp.Body.Close()

	resp = api.do(http.MethodGet, "/api/notifications/", admin, nil, "")
	decode(t, resp, &notes)
	if len(notes) != 1 || !notes[0].IsRead {
		t.Fatalf("after mark-read: %+v", notes)
	}
}
