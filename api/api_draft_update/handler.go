package api_draft_update

import (
	"net/http"
	"strings"

	"github.com/dracory/api"
	"github.com/dracory/gestor/internal/ports"
	"github.com/dracory/gestor/shared"
	"github.com/dracory/gestor/shared/dataservice"
	"github.com/dracory/gestor/shared/types"
)

// draftUpdateController edits one field of the session's draft record.
type draftUpdateController struct {
	config   types.Config
	sessions ports.Sessions
}

type draftUpdateRequest struct {
	Column string `schema:"column"`
	Value  string `schema:"value"`
}

// New creates a new draft update handler
func New(cfg types.Config, sessions ports.Sessions) *draftUpdateController {
	return &draftUpdateController{config: cfg, sessions: sessions}
}

// Handle sets draft[column] = value. No request reaches the data service.
func (h *draftUpdateController) Handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		api.Respond(w, r, api.Error("draft_update must be POST"))
		return
	}

	if err := r.ParseForm(); err != nil {
		api.Respond(w, r, api.Error("failed to parse form"))
		return
	}

	var req draftUpdateRequest
	if err := shared.DecodeForm(&req, r.PostForm); err != nil {
		api.Respond(w, r, api.Error("failed to parse form"))
		return
	}

	req.Column = strings.TrimSpace(req.Column)
	if req.Column == "" {
		api.Respond(w, r, api.Error("column is required"))
		return
	}
	if !dataservice.ValidIdent(req.Column) {
		api.Respond(w, r, api.Error("invalid identifier"))
		return
	}
	if req.Column == dataservice.KeyColumn {
		api.Respond(w, r, api.Error("column id is assigned by the data service"))
		return
	}

	_, ctrl := h.sessions.Attach(w, r)
	ctrl.UpdateDraftField(req.Column, req.Value)

	api.Respond(w, r, api.SuccessWithData("draft_updated", map[string]any{
		"draft": ctrl.State().Draft,
	}))
}
