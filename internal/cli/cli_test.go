package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/vrain/internal/card"
	"github.com/MrSnakeDoc/vrain/internal/config"
	"github.com/MrSnakeDoc/vrain/internal/domain"
	"github.com/MrSnakeDoc/vrain/internal/logger"
)

const ytLink = "https://youtu.be/dQw4w9WgXcQ"

type memStore struct {
	mu    sync.Mutex
	token string
}

func (m *memStore) LoadToken(context.Context) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token, nil
}

func (m *memStore) SaveToken(_ context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	return nil
}

func (m *memStore) ClearToken(context.Context) error {
	return m.SaveToken(context.Background(), "")
}

type testEnv struct {
	t         *testing.T
	backend   *httptest.Server
	hits      *atomic.Int32
	store     *memStore
	clipboard *bytes.Buffer
	stdin     string

	mu       sync.Mutex
	lastBody map[string]any
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{t: t, hits: &atomic.Int32{}, store: &memStore{}, clipboard: &bytes.Buffer{}}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /api/v1/signin", func(w http.ResponseWriter, r *http.Request) {
		body := env.record(r)
		if body["password"] != "secret" {
			w.WriteHeader(http.StatusForbidden)
			_, _ = io.WriteString(w, `{"message":"Incorrect credentials"}`)
			return
		}
		_, _ = io.WriteString(w, `{"token":"tok"}`)
	})
	mux.HandleFunc("GET /api/v1/user", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"fullname":"Ada Lovelace"}`)
	})
	mux.HandleFunc("GET /api/v1/content", func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"Content":[{"_id":"1","title":"Rick","link":"`+ytLink+`","type":"video"},{"_id":"2","title":"","link":""}]}`)
	})
	mux.HandleFunc("POST /api/v1/vrain/share", func(w http.ResponseWriter, r *http.Request) {
		env.record(r)
		_, _ = io.WriteString(w, `{"message":"Shared!","data":{"hash":"abc123","contentId":"1"}}`)
	})
	mux.HandleFunc("GET /api/v1/notes/{id}", func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"note":{"_id":"n1","title":"Old","content":"Body","tags":["go"],"isPublic":false}}`)
	})
	mux.HandleFunc("PUT /api/v1/notes/{id}", func(w http.ResponseWriter, r *http.Request) {
		env.record(r)
		_, _ = io.WriteString(w, `{"note":{"_id":"n1"}}`)
	})
	env.backend = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		env.hits.Add(1)
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(env.backend.Close)

	return env
}

func (e *testEnv) record(r *http.Request) map[string]any {
	var body map[string]any
	_ = json.NewDecoder(r.Body).Decode(&body)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastBody = body
	return body
}

func (e *testEnv) body() map[string]any {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastBody
}

func (e *testEnv) run(args ...string) (string, error) {
	e.t.Helper()
	cfg := &config.Config{
		BackendURL:  e.backend.URL,
		HTTPTimeout: time.Second,
		LogLevel:    "error",
	}
	var out bytes.Buffer
	cmd := NewRootCommand(Options{
		Config:    cfg,
		Logger:    logger.New("error", false),
		Store:     e.store,
		Clipboard: card.NewWriterClipboard(e.clipboard),
	})
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetIn(strings.NewReader(e.stdin))
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestClassify(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		url  string
		want string
	}{
		{ytLink, "youtube"},
		{"https://x.com/someuser/status/123", "twitter"},
		{"https://go.dev", "generic"},
	}
	for _, tt := range tests {
		out, err := env.run("classify", tt.url)
		require.NoError(t, err)
		assert.Equal(t, tt.want+"\n", out)
	}
	assert.Equal(t, int32(0), env.hits.Load())
}

func TestPreviewJSON(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run("preview", "--json", ytLink)
	require.NoError(t, err)

	var p domain.PreviewResult
	require.NoError(t, json.Unmarshal([]byte(out), &p))
	assert.Equal(t, "https://img.youtube.com/vi/dQw4w9WgXcQ/hqdefault.jpg", p.Src)
	assert.False(t, p.Fallback)
}

func TestPreviewEmptyLink(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run("preview", "")
	assert.ErrorIs(t, err, domain.ErrEmptyLink)
}

func TestLoginStoresToken(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run("login", "-u", "ada", "-p", "secret")
	require.NoError(t, err)
	assert.Contains(t, out, "Signed in as ada")
	assert.Equal(t, "tok", env.store.token)

	out, err = env.run("whoami")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace\n", out)
}

func TestLoginReadsPasswordFromStdin(t *testing.T) {
	env := newTestEnv(t)
	env.stdin = "secret\n"

	_, err := env.run("login", "--username", "ada")
	require.NoError(t, err)
	assert.Equal(t, "ada", env.body()["username"])
	assert.Equal(t, "tok", env.store.token)
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run("login", "-u", "ada", "-p", "nope")
	require.Error(t, err)
	assert.Contains(t, out, "Sign in failed")
	assert.Empty(t, env.store.token)
}

func TestLogout(t *testing.T) {
	env := newTestEnv(t)
	env.store.token = "tok"

	_, err := env.run("logout")
	require.NoError(t, err)
	assert.Empty(t, env.store.token)
	assert.Equal(t, int32(0), env.hits.Load())
}

func TestCardsList(t *testing.T) {
	env := newTestEnv(t)
	env.store.token = "tok"

	out, err := env.run("cards", "list", "--json")
	require.NoError(t, err)

	var views []card.View
	require.NoError(t, json.Unmarshal([]byte(out), &views))
	require.Len(t, views, 2)

	assert.Equal(t, card.ViewThumbnail, views[0].Kind)
	assert.Equal(t, "https://img.youtube.com/vi/dQw4w9WgXcQ/hqdefault.jpg", views[0].ImageSrc)
	assert.Equal(t, "Rick", views[0].Title)

	assert.Equal(t, card.ViewMessage, views[1].Kind)
	assert.Equal(t, card.NoLinkMessage, views[1].Message)
	assert.Equal(t, "Untitled", views[1].Title)
}

func TestCardsListTable(t *testing.T) {
	env := newTestEnv(t)
	env.store.token = "tok"

	out, err := env.run("cards", "list")
	require.NoError(t, err)
	assert.Contains(t, out, "ID")
	assert.Contains(t, out, "hqdefault.jpg")
	assert.Contains(t, out, card.NoLinkMessage)
}

func TestCardActionsRequireLogin(t *testing.T) {
	tests := []struct {
		args []string
		msg  string
	}{
		{[]string{"cards", "share", "1"}, card.MsgLoginToShare},
		{[]string{"cards", "delete", "1"}, card.MsgLoginToDelete},
		{[]string{"cards", "copy", "1"}, card.MsgLoginToCopy},
	}
	for _, tt := range tests {
		t.Run(tt.args[1], func(t *testing.T) {
			env := newTestEnv(t)

			out, err := env.run(tt.args...)
			assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
			assert.Contains(t, out, tt.msg)
			assert.Equal(t, int32(0), env.hits.Load())
		})
	}
}

func TestCardsShare(t *testing.T) {
	env := newTestEnv(t)
	env.store.token = "tok"

	out, err := env.run("cards", "share", "1")
	require.NoError(t, err)
	assert.Contains(t, out, "Shared!")
	assert.Contains(t, out, env.backend.URL+"/api/v1/vrain/abc123")
	assert.Equal(t, map[string]any{"contentId": "1", "status": true}, env.body())
}

func TestCardsCopy(t *testing.T) {
	env := newTestEnv(t)
	env.store.token = "tok"

	out, err := env.run("cards", "copy", "1")
	require.NoError(t, err)
	assert.Contains(t, out, card.MsgCopied)
	assert.Equal(t, ytLink+"\n", env.clipboard.String())
}

func TestCardsAddValidatesBeforeNetwork(t *testing.T) {
	env := newTestEnv(t)
	env.store.token = "tok"

	_, err := env.run("cards", "add", "https://go.dev")
	assert.ErrorIs(t, err, domain.ErrMissingTitle)

	_, err = env.run("cards", "add", "https://go.dev", "-t", "Go", "--type", "podcast")
	assert.ErrorIs(t, err, domain.ErrInvalidContentType)

	assert.Equal(t, int32(0), env.hits.Load())
}

func TestNotesShareRejectsBadPermission(t *testing.T) {
	env := newTestEnv(t)
	env.store.token = "tok"

	_, err := env.run("notes", "share", "n1", "bob", "--permission", "owner")
	assert.ErrorIs(t, err, domain.ErrInvalidPermission)
	assert.Equal(t, int32(0), env.hits.Load())
}

func TestNotesUpdateKeepsUnchangedFields(t *testing.T) {
	env := newTestEnv(t)
	env.store.token = "tok"

	out, err := env.run("notes", "update", "n1", "--title", "New")
	require.NoError(t, err)
	assert.Contains(t, out, "Note updated")

	body := env.body()
	assert.Equal(t, "New", body["title"])
	assert.Equal(t, "Body", body["content"])
	assert.Equal(t, []any{"go"}, body["tags"])
	assert.Equal(t, false, body["isPublic"])
}

func TestVersion(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run("version")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "vrain "), out)
}
