// Package gestor serves a small web UI and JSON API for browsing, inserting
// into and deleting from a fixed set of tables held by a remote data service.
package gestor

import (
	"context"
	"embed"
	"net/http"
	"time"

	"github.com/dracory/gestor/api/api_draft_update"
	"github.com/dracory/gestor/api/api_row_delete"
	"github.com/dracory/gestor/api/api_row_insert"
	"github.com/dracory/gestor/api/api_rows_browse"
	"github.com/dracory/gestor/api/api_tables_list"
	"github.com/dracory/gestor/pages/page_table"
	"github.com/dracory/gestor/shared"
	"github.com/dracory/gestor/shared/constants"
	"github.com/dracory/gestor/shared/dataservice"
	"github.com/dracory/gestor/shared/session"
	"github.com/dracory/gestor/shared/types"
	"github.com/dracory/gestor/shared/viewstate"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"
)

//go:embed assets/*
var embeddedFS embed.FS

// Asset paths inside the embedded filesystem.
const (
	AssetPathCSS = "assets/style.css"
	AssetPathJS  = "assets/app.js"
)

// App wires configuration, the data service and the browser sessions into
// one HTTP handler.
type App struct {
	config   types.Config
	service  dataservice.Service
	sessions *session.Store
	log      logrus.FieldLogger
}

// New creates a new App. Every browser session gets its own controller over
// service.
func New(cfg types.Config, service dataservice.Service, log logrus.FieldLogger) *App {
	cfg.BasePath = lo.Ternary(cfg.BasePath == "", "/", cfg.BasePath)
	cfg.ActionParam = lo.Ternary(cfg.ActionParam == "", "action", cfg.ActionParam)
	if log == nil {
		log = logrus.StandardLogger()
	}

	a := &App{config: cfg, service: service, log: log}
	a.sessions = session.NewStore(a.newController, cfg.SecureCookies)
	return a
}

func (a *App) newController(n viewstate.Notifier) *viewstate.Controller {
	return viewstate.New(a.service,
		viewstate.WithNotifier(n),
		viewstate.WithLogger(a.log),
		viewstate.WithTimeout(a.config.RequestTimeout),
	)
}

// Sessions exposes the session store, mainly for sweeping idle sessions.
func (a *App) Sessions() *session.Store {
	return a.sessions
}

// Handler returns an http.Handler that serves the UI and API under BasePath.
func (a *App) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc(a.config.BasePath, a.handleRequest)

	return a.middleware(mux)
}

// middleware applies common middleware to all handlers
func (a *App) middleware(next http.Handler) http.Handler {
	h := CSRFProtect(a.config)(next)
	h = SecurityHeaders(h)
	return RequestLogger(a.log)(h)
}

// handleRequest routes requests to the appropriate handler
func (a *App) handleRequest(w http.ResponseWriter, r *http.Request) {
	action := r.URL.Query().Get(a.config.ActionParam)

	switch action {
	case constants.ActionApiTablesList:
		api_tables_list.New(a.config, a.sessions).Handle(w, r)
	case constants.ActionApiRowsBrowse:
		api_rows_browse.New(a.config, a.sessions).Handle(w, r)
	case constants.ActionApiDraftUpdate:
		api_draft_update.New(a.config, a.sessions).Handle(w, r)
	case constants.ActionApiRowInsert:
		api_row_insert.New(a.config, a.sessions).Handle(w, r)
	case constants.ActionApiRowDelete:
		api_row_delete.New(a.config, a.sessions).Handle(w, r)

	case constants.ActionAssetCSS:
		a.serveAsset(w, AssetPathCSS, constants.ContentTypeCSS)
	case constants.ActionAssetJS:
		a.serveAsset(w, AssetPathJS, constants.ContentTypeJS)

	case constants.ActionHealthz:
		WriteSuccess(w, r, http.StatusOK, "ok")
	case constants.ActionReadyz:
		a.readyz(w, r)

	case "", constants.ActionPageTable:
		page_table.New(a.config, a.sessions, a.log).ServeHTTP(w, r)

	default:
		WriteNotFound(w, r, "unknown action: "+action)
	}
}

func (a *App) serveAsset(w http.ResponseWriter, path, contentType string) {
	body, err := shared.ReadAsset(embeddedFS, path)
	if err != nil {
		http.Error(w, "asset not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.Write(body)
}

// readyz answers ready when the data service can be reached. Services that
// cannot be checked cheaply are assumed ready.
func (a *App) readyz(w http.ResponseWriter, r *http.Request) {
	pinger, ok := a.service.(dataservice.Pinger)
	if !ok {
		WriteSuccess(w, r, http.StatusOK, "ready")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), lo.Ternary(a.config.RequestTimeout > 0, a.config.RequestTimeout, 5*time.Second))
	defer cancel()
	if err := pinger.Ping(ctx); err != nil {
		a.log.WithError(err).Warn("readiness check failed")
		WriteUnavailable(w, r, "data service unavailable")
		return
	}
	WriteSuccess(w, r, http.StatusOK, "ready")
}
