package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrSnakeDoc/vrain/internal/domain"
	"github.com/MrSnakeDoc/vrain/internal/session"
)

func newTestClient(t *testing.T, h http.HandlerFunc, token string) (*Client, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		h(w, r)
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL, session.FromToken(token)), &hits
}

func TestAuthenticatedCallsWithoutTokenMakeNoRequest(t *testing.T) {
	c, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	}, "")
	ctx := context.Background()

	calls := map[string]func() error{
		"ListContent":   func() error { _, err := c.ListContent(ctx); return err },
		"DeleteContent": func() error { return c.DeleteContent(ctx, "abc") },
		"ShareContent":  func() error { _, err := c.ShareContent(ctx, "abc"); return err },
		"ListNotes":     func() error { _, err := c.ListNotes(ctx); return err },
		"Profile":       func() error { _, err := c.Profile(ctx); return err },
		"LookupUser":    func() error { _, err := c.LookupUser(ctx, "bob"); return err },
	}
	for name, call := range calls {
		t.Run(name, func(t *testing.T) {
			err := call()
			assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
		})
	}
	assert.Equal(t, int32(0), atomic.LoadInt32(hits))
}

func TestShareContent(t *testing.T) {
	c, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/vrain/share", r.URL.Path)
		assert.Equal(t, "Bearer tok", r.Header.Get("Authorization"))

		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "c1", body["contentId"])
		assert.Equal(t, true, body["status"])

		_, _ = io.WriteString(w, `{"message":"ok","data":{"hash":"h123","contentId":"c1","status":true,"userId":"u1"}}`)
	}, "tok")

	res, err := c.ShareContent(context.Background(), "c1")
	require.NoError(t, err)
	assert.Equal(t, "h123", res.Hash)
	assert.Equal(t, "ok", res.Message)
	assert.Equal(t, c.BaseURL()+"/api/v1/vrain/h123", c.ShareURL(res.Hash))
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestListContent(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/content", r.URL.Path)
		_, _ = io.WriteString(w, `{"Content":[{"_id":"1","link":"https://youtu.be/abc","title":"t"}]}`)
	}, "tok")

	items, err := c.ListContent(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "1", items[0].ID)
	assert.Equal(t, "https://youtu.be/abc", items[0].Link)
}

func TestDeleteContentEscapesID(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodDelete, r.Method)
		assert.Equal(t, "/api/v1/delete/a%2Fb", r.URL.RawPath)
		w.WriteHeader(http.StatusOK)
	}, "tok")

	require.NoError(t, c.DeleteContent(context.Background(), "a/b"))
}

func TestAPIErrorParsing(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{"message field", http.StatusForbidden, `{"message":"nope"}`, "nope"},
		{"error field", http.StatusBadRequest, `{"error":"bad"}`, "bad"},
		{"plain text", http.StatusInternalServerError, "boom\n", "boom"},
		{"empty", http.StatusNotFound, "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			}, "tok")

			err := c.DeleteContent(context.Background(), "x")
			require.Error(t, err)

			var apiErr *APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
			assert.True(t, IsStatus(err, tt.status))
		})
	}
}

func TestSignInStoresToken(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/signin", r.URL.Path)
		assert.Empty(t, r.Header.Get("Authorization"))
		_, _ = io.WriteString(w, `{"token":"fresh"}`)
	}, "")

	require.NoError(t, c.SignIn(context.Background(), "alice", "secret"))
	assert.Equal(t, "fresh", c.Session().Token())

	require.NoError(t, c.SignOut(context.Background()))
	assert.False(t, c.Session().Authenticated())
}

func TestSignInRejectsEmptyCredentials(t *testing.T) {
	c, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {}, "")

	assert.Error(t, c.SignIn(context.Background(), " ", "x"))
	assert.Equal(t, int32(0), atomic.LoadInt32(hits))
}

func TestAddContentValidatesLocally(t *testing.T) {
	c, hits := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	}, "tok")

	err := c.AddContent(context.Background(), domain.NewContent{Title: "x"})
	assert.ErrorIs(t, err, domain.ErrMissingLink)
	assert.Equal(t, int32(0), atomic.LoadInt32(hits))

	err = c.AddContent(context.Background(), domain.NewContent{Title: "x", Link: "https://example.com"})
	require.NoError(t, err)
	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
}

func TestNotePermissions(t *testing.T) {
	c, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/v1/notes/n1/share":
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "u2", body["userId"])
			assert.Equal(t, "edit", body["permissionType"])
		case "/api/v1/notes/n1/permissions":
			_, _ = io.WriteString(w, `{"permissions":[{"_id":"p1","userId":"u2","permissionType":"edit"}]}`)
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
		}
	}, "tok")
	ctx := context.Background()

	require.NoError(t, c.ShareNote(ctx, "n1", "u2", domain.PermissionEdit))
	assert.Error(t, c.ShareNote(ctx, "n1", "u2", domain.PermissionType("owner")))

	perms, err := c.ListPermissions(ctx, "n1")
	require.NoError(t, err)
	require.Len(t, perms, 1)
	assert.Equal(t, domain.PermissionEdit, perms[0].PermissionType)
}
