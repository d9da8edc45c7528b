package ports

import (
	"net/http"

	"github.com/dracory/gestor/shared/session"
	"github.com/dracory/gestor/shared/viewstate"
)

// Sessions resolves the browser session behind a request and the controller
// it drives, so handlers can be tested without the router.
type Sessions interface {
	// Attach never fetches; the handler is expected to.
	Attach(w http.ResponseWriter, r *http.Request) (*session.Session, *viewstate.Controller)
	// Resolve loads a controller that has not fetched yet.
	Resolve(w http.ResponseWriter, r *http.Request) (*session.Session, *viewstate.Controller)
}
