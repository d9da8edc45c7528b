package api_row_insert

import (
	"net/http"

	"github.com/dracory/api"
	"github.com/dracory/gestor/internal/ports"
	"github.com/dracory/gestor/shared"
	"github.com/dracory/gestor/shared/types"
	"github.com/dracory/gestor/shared/viewstate"
)

// rowInsertController submits the session's draft as a new row.
type rowInsertController struct {
	config   types.Config
	sessions ports.Sessions
}

// New creates a new row insert handler
func New(cfg types.Config, sessions ports.Sessions) *rowInsertController {
	return &rowInsertController{config: cfg, sessions: sessions}
}

// Handle copies every posted column field into the draft and submits it.
// Fields whose name is not a column identifier (the CSRF token, for one)
// are ignored.
func (h *rowInsertController) Handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		api.Respond(w, r, api.Error("insert_row must be POST"))
		return
	}

	if err := r.ParseForm(); err != nil {
		api.Respond(w, r, api.Error("failed to parse form"))
		return
	}

	sess, ctrl := h.sessions.Attach(w, r)
	for column, value := range shared.FormDraft(r.PostForm, "") {
		ctrl.UpdateDraftField(column, value)
	}

	err := ctrl.SubmitInsert(r.Context())
	notices := sess.TakeNotices()
	if err != nil {
		api.Respond(w, r, api.Error(viewstate.UserMessage(err)))
		return
	}

	data := shared.StateData(ctrl.State())
	data["notices"] = shared.NoticesData(notices)
	api.Respond(w, r, api.SuccessWithData(viewstate.MsgInserted, data))
}
