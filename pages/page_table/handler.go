package page_table

import (
	"context"
	"embed"
	"net/http"
	"strings"

	"github.com/dracory/gestor/internal/ports"
	"github.com/dracory/gestor/shared"
	"github.com/dracory/gestor/shared/constants"
	"github.com/dracory/gestor/shared/logging"
	"github.com/dracory/gestor/shared/types"
	"github.com/dracory/gestor/shared/urls"
	"github.com/dracory/gestor/shared/viewstate"
	"github.com/gorilla/csrf"
	"github.com/sirupsen/logrus"
)

const (
	// DefaultTitle is the default page title
	DefaultTitle = "Tables"
	// DraftPrefix prefixes the names of the insertion form inputs
	DraftPrefix = "draft."
	// MsgUnknownOperation is shown for a form post with an unexpected op
	MsgUnknownOperation = "Unknown operation"
)

//go:embed script.js styles.css
var embeddedFS embed.FS

// pageTableController serves the table page and the form posts it makes.
type pageTableController struct {
	config   types.Config
	sessions ports.Sessions
	log      logrus.FieldLogger
}

// pageForm holds the fixed fields of every form on the page.
type pageForm struct {
	Op      string `schema:"op"`
	Table   string `schema:"table"`
	ID      string `schema:"id"`
	Confirm string `schema:"confirm"`
}

// New creates a new pageTableController instance
func New(config types.Config, sessions ports.Sessions, log logrus.FieldLogger) *pageTableController {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &pageTableController{
		config:   config,
		sessions: sessions,
		log:      log,
	}
}

// ServeHTTP renders the page on GET. A POST runs one operation and
// redirects back so that reloading never repeats it.
func (h *pageTableController) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet, http.MethodHead:
	case http.MethodPost:
		sess, ctrl := h.sessions.Attach(w, r)
		h.post(w, r, sess, ctrl)
		return
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}

	sess, ctrl := h.sessions.Resolve(w, r)

	html, err := Handle(
		h.config.BasePath,
		h.config.ActionParam,
		h.config.SafeModeDefault,
		csrf.TemplateField(r),
		ctrl.Registry().Names(),
		ctrl.State(),
		sess.TakeNotices(),
	)
	if err != nil {
		http.Error(w, "Failed to render table page: "+err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", constants.ContentTypeHTML)
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(html))
}

type notifier interface {
	Notify(viewstate.Notice)
}

func (h *pageTableController) post(w http.ResponseWriter, r *http.Request, sess notifier, ctrl *viewstate.Controller) {
	back := urls.New(h.config.BasePath, h.config.ActionParam).PageTable()

	if err := r.ParseForm(); err != nil {
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}
	var form pageForm
	if err := shared.DecodeForm(&form, r.PostForm); err != nil {
		http.Error(w, "failed to parse form", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	var err error
	switch strings.TrimSpace(form.Op) {
	case constants.OpSelect:
		err = ctrl.SelectTable(ctx, strings.TrimSpace(form.Table))
		if viewstate.IsKind(err, viewstate.KindUnknownTable) {
			sess.Notify(viewstate.Notice{Level: viewstate.LevelError, Message: viewstate.UserMessage(err)})
		}
	case constants.OpRefresh:
		err = ctrl.Refresh(ctx)
	case constants.OpInsert:
		for column, value := range shared.FormDraft(r.PostForm, DraftPrefix) {
			ctrl.UpdateDraftField(column, value)
		}
		err = ctrl.SubmitInsert(ctx)
	case constants.OpDelete:
		err = ctrl.DeleteRow(ctx, strings.TrimSpace(form.ID), h.confirmer(form.Confirm))
	default:
		sess.Notify(viewstate.Notice{Level: viewstate.LevelError, Message: MsgUnknownOperation})
	}
	if err != nil {
		logging.FromContext(ctx, h.log).WithError(err).WithField("op", form.Op).Debug("table page operation failed")
	}

	http.Redirect(w, r, back, http.StatusSeeOther)
}

// confirmer accepts a delete only when the browser confirmed it, unless
// safe mode is off.
func (h *pageTableController) confirmer(value string) viewstate.Confirmer {
	if !h.config.SafeModeDefault {
		return viewstate.Always
	}
	return viewstate.ConfirmFunc(func(_ context.Context, _ string) bool {
		return strings.TrimSpace(value) == constants.ConfirmYes
	})
}

func css() (string, error) {
	return shared.ReadAssets(embeddedFS, "styles.css")
}

func js() (string, error) {
	return shared.ReadAssets(embeddedFS, "script.js")
}
