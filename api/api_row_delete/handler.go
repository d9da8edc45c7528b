package api_row_delete

import (
	"context"
	"net/http"
	"strings"

	"github.com/dracory/api"
	"github.com/dracory/gestor/internal/ports"
	"github.com/dracory/gestor/shared"
	"github.com/dracory/gestor/shared/constants"
	"github.com/dracory/gestor/shared/types"
	"github.com/dracory/gestor/shared/viewstate"
)

// rowDeleteController deletes one row of the selected table by id.
type rowDeleteController struct {
	config   types.Config
	sessions ports.Sessions
}

type rowDeleteRequest struct {
	ID      string `schema:"id"`
	Confirm string `schema:"confirm"`
}

// New creates a new row delete handler
func New(cfg types.Config, sessions ports.Sessions) *rowDeleteController {
	return &rowDeleteController{config: cfg, sessions: sessions}
}

// Handle deletes the row whose id is posted. With safe mode on, the request
// must also carry confirm=yes.
func (h *rowDeleteController) Handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		api.Respond(w, r, api.Error("delete_row must be POST"))
		return
	}

	if err := r.ParseForm(); err != nil {
		api.Respond(w, r, api.Error("failed to parse form"))
		return
	}

	var req rowDeleteRequest
	if err := shared.DecodeForm(&req, r.PostForm); err != nil {
		api.Respond(w, r, api.Error("failed to parse form"))
		return
	}

	req.ID = strings.TrimSpace(req.ID)
	if req.ID == "" {
		api.Respond(w, r, api.Error("id is required"))
		return
	}

	declined := false
	confirmer := viewstate.ConfirmFunc(func(context.Context, string) bool {
		if !h.config.SafeModeDefault {
			return true
		}
		ok := strings.TrimSpace(req.Confirm) == constants.ConfirmYes
		declined = !ok
		return ok
	})

	sess, ctrl := h.sessions.Attach(w, r)
	err := ctrl.DeleteRow(r.Context(), req.ID, confirmer)
	notices := sess.TakeNotices()
	if err != nil {
		api.Respond(w, r, api.Error(viewstate.UserMessage(err)))
		return
	}
	if declined {
		api.Respond(w, r, api.Error("confirmation required (set confirm=yes)"))
		return
	}

	data := shared.StateData(ctrl.State())
	data["notices"] = shared.NoticesData(notices)
	api.Respond(w, r, api.SuccessWithData("deleted", data))
}
