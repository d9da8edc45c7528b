package viewstate

import "context"

// Level is the severity of a notice.
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notice is a message for the user.
type Notice struct {
	Level   Level  `json:"level"`
	Message string `json:"message"`
}

// Notifier shows notices to the user.
type Notifier interface {
	Notify(n Notice)
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(n Notice)

func (f NotifierFunc) Notify(n Notice) { f(n) }

// Confirmer asks the user to confirm a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) bool

func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) bool { return f(ctx, prompt) }

// Always confirms without asking.
var Always Confirmer = ConfirmFunc(func(context.Context, string) bool { return true })

// User-facing texts.
const (
	PromptDelete     = "Delete this record?"
	MsgEnterValue    = "Enter at least one value"
	MsgInserted      = "Record inserted"
	MsgInsertFailed  = "Insert failed: "
	MsgDeleteFailed  = "Delete failed"
	MsgNoData        = "No data, or the table does not exist"
	msgTableNotFound = "Error: table %q does not exist in the data service"
	msgUnknownTable  = "Unknown table %q"
)
