package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/gorilla/mux"

	"github.com/nhle/focusflow/internal/model"
)

// RecordedRequest is one request seen by the fake dashboard.
type RecordedRequest struct {
	Method    string
	Path      string
	CSRF      string
	FormToken string
	Cookie    string
}

// FakeDashboard is an httptest server speaking the dashboard endpoints.
// Set the exported fields before issuing requests; they are read under
// the fake's lock.
type FakeDashboard struct {
	Server *httptest.Server

	mu       sync.Mutex
	requests []RecordedRequest

	// Token is handed out as the csrftoken cookie on every page load.
	Token    string
	Messages []model.ServerMessage
	// RawMessages, when set, is written as the message global verbatim
	// instead of the JSON of Messages.
	RawMessages string
	Tasks    []model.Task
	Unread   []model.Notification
	PageSize int

	// Status overrides per action; zero means 200.
	CompleteStatus    int
	DeleteStatus      int
	MarkAllReadStatus int

	// DropConnections makes every POST close the connection without a
	// response.
	DropConnections bool
}

// NewFakeDashboard starts a fake dashboard server and stops it when the
// test completes.
func NewFakeDashboard(t *testing.T) *FakeDashboard {
	t.Helper()

	f := &FakeDashboard{Token: "tok-1", PageSize: 50}

	r := mux.NewRouter()
	r.Use(f.record)
	r.HandleFunc("/dashboard/", f.handlePage).Methods(http.MethodGet)
	r.HandleFunc("/api/tasks/", f.handleTasks).Methods(http.MethodGet)
	r.HandleFunc("/api/notifications/", f.handleNotifications).Methods(http.MethodGet)
	r.HandleFunc("/api/notifications/mark_all_read/", f.action(func() int { return f.MarkAllReadStatus })).
		Methods(http.MethodPost)
	r.HandleFunc("/tasks/{id:[0-9]+}/complete/", f.action(func() int { return f.CompleteStatus })).
		Methods(http.MethodPost)
	r.HandleFunc("/tasks/{id:[0-9]+}/delete/", f.action(func() int { return f.DeleteStatus })).
		Methods(http.MethodPost)

	f.Server = httptest.NewServer(r)
	t.Cleanup(f.Server.Close)

	return f
}

// URL returns the server root.
func (f *FakeDashboard) URL() string { return f.Server.URL }

// Requests returns a copy of every request recorded so far.
func (f *FakeDashboard) Requests() []RecordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]RecordedRequest(nil), f.requests...)
}

// RequestsTo returns the recorded requests for one method and path.
func (f *FakeDashboard) RequestsTo(method, path string) []RecordedRequest {
	var out []RecordedRequest
	for _, r := range f.Requests() {
		if r.Method == method && r.Path == path {
			out = append(out, r)
		}
	}
	return out
}

// SetToken rotates the CSRF token handed out on the next page load.
func (f *FakeDashboard) SetToken(tok string) {
	f.mu.Lock()
	f.Token = tok
	f.mu.Unlock()
}

func (f *FakeDashboard) record(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := RecordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			CSRF:   r.Header.Get("X-CSRFToken"),
			Cookie: r.Header.Get("Cookie"),
		}
		if r.Method == http.MethodPost {
			_ = r.ParseForm()
			rec.FormToken = r.PostForm.Get("csrfmiddlewaretoken")
		}
		f.mu.Lock()
		f.requests = append(f.requests, rec)
		f.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (f *FakeDashboard) handlePage(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	tok := f.Token
	msgs := []byte(f.RawMessages)
	if f.RawMessages == "" {
		list := f.Messages
		if list == nil {
			list = []model.ServerMessage{}
		}
		msgs, _ = json.Marshal(list)
	}
	f.mu.Unlock()

	http.SetCookie(w, &http.Cookie{Name: "csrftoken", Value: tok, Path: "/"})
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprintf(w, "<html><body><script>window.__django_messages__ = %s;</script></body></html>", msgs)
}

func (f *FakeDashboard) handleTasks(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	tasks := append([]model.Task(nil), f.Tasks...)
	size := f.PageSize
	f.mu.Unlock()

	writePage(w, r, tasks, size)
}

func (f *FakeDashboard) handleNotifications(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	unread := append([]model.Notification(nil), f.Unread...)
	size := f.PageSize
	f.mu.Unlock()

	writePage(w, r, unread, size)
}

func (f *FakeDashboard) action(status func() int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		drop := f.DropConnections
		code := status()
		f.mu.Unlock()

		if drop {
			hj, ok := w.(http.Hijacker)
			if !ok {
				http.Error(w, "hijack unsupported", http.StatusInternalServerError)
				return
			}
			conn, _, err := hj.Hijack()
			if err == nil {
				_ = conn.Close()
			}
			return
		}

		if code == 0 {
			code = http.StatusOK
		}
		w.WriteHeader(code)
	}
}

func writePage[T any](w http.ResponseWriter, r *http.Request, items []T, size int) {
	if size <= 0 {
		size = len(items) + 1
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}

	start := (page - 1) * size
	if start > len(items) {
		start = len(items)
	}
	end := start + size
	if end > len(items) {
		end = len(items)
	}

	body := map[string]any{
		"count":    len(items),
		"next":     nil,
		"previous": nil,
		"results":  items[start:end],
	}
	if end < len(items) {
		q := r.URL.Query()
		q.Set("page", strconv.Itoa(page+1))
		body["next"] = "http://" + r.Host + r.URL.Path + "?" + q.Encode()
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(body)
}
