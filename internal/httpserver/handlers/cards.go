package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/MrSnakeDoc/vrain/internal/api"
	"github.com/MrSnakeDoc/vrain/internal/card"
	"github.com/MrSnakeDoc/vrain/internal/domain"
	"github.com/MrSnakeDoc/vrain/internal/httpserver/deps"
	"github.com/MrSnakeDoc/vrain/internal/logger"
	"github.com/MrSnakeDoc/vrain/internal/notify"
	"github.com/MrSnakeDoc/vrain/internal/session"
)

const msgLoginToView = "Please login to view content"

type cardsResponse struct {
	Cards []card.View `json:"cards"`
}

type actionResponse struct {
	Notifications []notify.Notification `json:"notifications"`
	Hash          string                `json:"hash,omitempty"`
	ShareURL      string                `json:"share_url,omitempty"`
}

// cardEnv binds the shared deps to the caller's bearer token.
type cardEnv struct {
	client   *api.Client
	session  *session.Session
	recorder *notify.Recorder
	deps     card.Deps
}

func newCardEnv(d deps.Deps, r *http.Request) cardEnv {
	sess := session.FromAuthorization(r.Header.Get("Authorization"))
	client := d.Backend.WithSession(sess)
	rec := notify.NewRecorder()
	return cardEnv{
		client:   client,
		session:  sess,
		recorder: rec,
		deps: card.Deps{
			Resolver:    d.Resolver,
			Placeholder: d.Resolver.Placeholder(),
			Backend:     client,
			Session:     sess,
			Notifier:    notify.Multi{rec, notify.NewLogNotifier(d.Logger)},
			Logger:      d.Logger,
		},
	}
}

// Cards lists the caller's saved items with their previews resolved,
// optionally filtered by the q query parameter.
func Cards(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		env := newCardEnv(d, r)
		if !env.session.Authenticated() {
			writeError(w, http.StatusUnauthorized, domain.ErrNotAuthenticated.Error(),
				notify.New(notify.LevelError, msgLoginToView))
			return
		}

		items, err := env.client.ListContent(r.Context())
		if err != nil {
			d.Logger.Warn("failed to list content", logger.Error(err))
			writeError(w, backendStatus(err), "failed to list content")
			return
		}

		items = domain.SearchItems(r.URL.Query().Get("q"), items)
		writeJSON(w, http.StatusOK, cardsResponse{Cards: card.LoadViews(r.Context(), items, env.deps)})
	}
}

// ShareCard publishes one saved item.
func ShareCard(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		env := newCardEnv(d, r)
		c := card.New(domain.SavedItem{ID: chi.URLParam(r, "id")}, env.deps)

		res, err := c.Share(r.Context())
		if err != nil {
			writeJSON(w, actionStatus(err), actionResponse{Notifications: env.recorder.All()})
			return
		}

		resp := actionResponse{Notifications: env.recorder.All(), Hash: res.Hash}
		if res.Hash != "" {
			resp.ShareURL = env.client.ShareURL(res.Hash)
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// DeleteCard removes one saved item.
func DeleteCard(d deps.Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		env := newCardEnv(d, r)
		c := card.New(domain.SavedItem{ID: chi.URLParam(r, "id")}, env.deps)

		status := http.StatusOK
		if err := c.Delete(r.Context()); err != nil {
			status = actionStatus(err)
		}
		writeJSON(w, status, actionResponse{Notifications: env.recorder.All()})
	}
}

func actionStatus(err error) int {
	if errors.Is(err, domain.ErrNotAuthenticated) {
		return http.StatusUnauthorized
	}
	return backendStatus(err)
}

// backendStatus maps a backend failure onto the response status.
func backendStatus(err error) int {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Status {
		case http.StatusUnauthorized, http.StatusForbidden, http.StatusNotFound:
			return apiErr.Status
		}
	}
	return http.StatusBadGateway
}
