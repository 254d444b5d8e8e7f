package cli

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
)

type fakeUser struct {
	id, email, password, name, schedule string
}

// fakeServer mimics the API closely enough for the CLI: users keyed by
// email, opaque random tokens, a single chat history.
type fakeServer struct {
	mu       sync.Mutex
	users    map[string]*fakeUser
	tokens   map[string]string
	sessions map[string]int
}

func newFakeServer(t *testing.T) *httptest.Server {
	t.Helper()
	f := &fakeServer{
		users:    map[string]*fakeUser{},
		tokens:   map[string]string{},
		sessions: map[string]int{},
	}
	srv := httptest.NewServer(f)
	t.Cleanup(srv.Close)
	return srv
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErr(w http.ResponseWriter, status int, code string) {
	writeJSON(w, status, map[string]any{"error": map[string]string{"code": code, "message": code}})
}

func (f *fakeServer) issue(u *fakeUser) string {
	token := uuid.NewString()
	f.tokens[token] = u.email
	return token
}

func (f *fakeServer) caller(r *http.Request) *fakeUser {
	email, ok := f.tokens[strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")]
	if !ok {
		return nil
	}
	return f.users[email]
}

func (f *fakeServer) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var body map[string]any
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&body)
	}
	str := func(k string) string { s, _ := body[k].(string); return s }

	switch {
	case r.URL.Path == "/healthz":
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		return
	case r.URL.Path == "/api/auth/signup":
		if _, ok := f.users[str("email")]; ok {
			writeErr(w, http.StatusBadRequest, "duplicate_email")
			return
		}
		u := &fakeUser{id: uuid.NewString(), email: str("email"), password: str("password"), name: str("name"), schedule: "weekly"}
		f.users[u.email] = u
		writeJSON(w, http.StatusCreated, map[string]any{
			"token": f.issue(u),
			"user":  map[string]string{"id": u.id, "email": u.email, "name": u.name},
		})
		return
	case r.URL.Path == "/api/auth/login":
		u, ok := f.users[str("email")]
		if !ok || u.password != str("password") {
			writeErr(w, http.StatusUnauthorized, "invalid_credentials")
			return
		}
		writeJSON(w, http.StatusOK, map[string]any{
			"token": f.issue(u),
			"user":  map[string]string{"id": u.id, "email": u.email, "name": u.name},
		})
		return
	}

	u := f.caller(r)
	if u == nil {
		writeErr(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	switch {
	case r.URL.Path == "/api/auth/me":
		writeJSON(w, http.StatusOK, map[string]string{"id": u.id, "email": u.email, "name": u.name})
	case r.URL.Path == "/api/settings" && r.Method == http.MethodGet:
		writeJSON(w, http.StatusOK, map[string]any{
			"name": u.name, "email": u.email, "email_notifications": true, "report_schedule": u.schedule,
		})
	case r.URL.Path == "/api/settings" && r.Method == http.MethodPut:
		if s := str("report_schedule"); s != "" {
			u.schedule = s
		}
		if n := str("name"); n != "" {
			u.name = n
		}
		writeJSON(w, http.StatusOK, map[string]string{"message": "Settings updated successfully"})
	case r.URL.Path == "/api/account":
		delete(f.users, u.email)
		w.WriteHeader(http.StatusNoContent)
	case r.URL.Path == "/api/dashboard/metrics":
		writeJSON(w, http.StatusOK, map[string]any{"mrr": 1, "chart_data": []any{map[string]any{"date": "Jan 1"}}, "anomalies": []any{}})
	case r.URL.Path == "/api/chat/message":
		sid := str("session_id")
		if sid == "" {
			sid = uuid.NewString()
		}
		f.sessions[sid] += 2
		writeJSON(w, http.StatusOK, map[string]any{
			"session_id": sid,
			"message": map[string]any{
				"id": "m1", "role": "assistant", "content": "All good",
				"reasoning_steps": []any{map[string]any{"step": 1, "title": "Look", "description": "at data"}},
				"created_at":      time.Now().UTC().Format(time.RFC3339Nano),
			},
		})
	case strings.HasPrefix(r.URL.Path, "/api/chat/history/"):
		n := f.sessions[strings.TrimPrefix(r.URL.Path, "/api/chat/history/")]
		msgs := make([]map[string]string, n)
		for i := range msgs {
			msgs[i] = map[string]string{"id": uuid.NewString(), "role": "user", "content": "x"}
		}
		writeJSON(w, http.StatusOK, map[string]any{"messages": msgs})
	case r.URL.Path == "/api/chat/sessions":
		var list []map[string]any
		for sid := range f.sessions {
			list = append(list, map[string]any{"session_id": sid, "preview": "x", "last_updated": time.Now().UTC()})
		}
		writeJSON(w, http.StatusOK, map[string]any{"sessions": list})
	case r.URL.Path == "/api/integrations":
		writeJSON(w, http.StatusOK, []map[string]any{{"id": "slack", "name": "Slack", "connected": true}})
	case strings.HasSuffix(r.URL.Path, "/toggle"):
		writeJSON(w, http.StatusOK, map[string]any{"message": "toggled", "connected": true})
	default:
		writeErr(w, http.StatusNotFound, "not_found")
	}
}
