package viewstate

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/dracory/gestor/shared/dataservice"
	"github.com/dracory/gestor/shared/logging"
	"github.com/dracory/gestor/shared/tables"
	"github.com/sirupsen/logrus"
)

// Controller owns one State and runs the fetch/insert/delete calls that
// change it. It is safe for concurrent use; the lock is never held across a
// call to the data service.
type Controller struct {
	service  dataservice.Service
	registry tables.Registry
	notifier Notifier
	log      logrus.FieldLogger
	timeout  time.Duration

	mu    sync.Mutex
	state State
	// seq numbers refreshes so that a slow, older result cannot overwrite a newer one
	seq uint64
	// loaded is set once a fetch has completed, successfully or not
	loaded bool
}

// Option configures a Controller.
type Option func(*Controller)

// WithNotifier sets where notices go.
func WithNotifier(n Notifier) Option {
	return func(c *Controller) { c.notifier = n }
}

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(c *Controller) { c.log = l }
}

// WithTimeout bounds each call to the data service. Zero means no bound.
func WithTimeout(d time.Duration) Option {
	return func(c *Controller) { c.timeout = d }
}

// New creates a controller positioned on the registry's first table. Nothing
// is fetched until Refresh or SelectTable is called.
func New(service dataservice.Service, opts ...Option) *Controller {
	c := &Controller{
		service:  service,
		registry: tables.Default,
		log:      logrus.StandardLogger(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.state = NewState(c.registry)
	return c
}

// State returns a snapshot of the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state.Clone()
}

// Loaded reports whether a fetch has completed since the controller was
// created.
func (c *Controller) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// Registry returns the tables the controller accepts.
func (c *Controller) Registry() tables.Registry {
	return c.registry
}

// SelectTable switches to name and refreshes.
func (c *Controller) SelectTable(ctx context.Context, name string) error {
	if !c.registry.Contains(name) {
		return newError(KindUnknownTable, fmt.Sprintf(msgUnknownTable, name))
	}

	c.mu.Lock()
	c.state = c.state.WithTable(name)
	c.mu.Unlock()

	c.logger(ctx).WithField("table", name).Debug("table selected")
	return c.Refresh(ctx)
}

// Refresh fetches all rows of the selected table. On failure the state is
// left untouched and the user is told the table could not be loaded.
func (c *Controller) Refresh(ctx context.Context) error {
	c.mu.Lock()
	c.seq++
	seq := c.seq
	table := c.state.Table
	c.mu.Unlock()

	log := c.logger(ctx).WithFields(logrus.Fields{"op": "refresh", "table": table})

	callCtx, cancel := c.callContext(ctx)
	rows, err := c.service.FetchAll(callCtx, table)
	cancel()

	c.mu.Lock()
	current := seq == c.seq && table == c.state.Table
	if current {
		c.loaded = true
	}
	if current && err == nil {
		c.state = c.state.WithRows(rows)
	}
	c.mu.Unlock()

	if !current {
		log.Debug("discarding superseded fetch result")
		return nil
	}
	if err != nil {
		if dataservice.IsNotFound(err) {
			log.WithError(err).Info("table missing in the data service")
		} else {
			log.WithError(err).Warn("fetch failed")
		}
		msg := fmt.Sprintf(msgTableNotFound, table)
		c.notify(LevelError, msg)
		return wrap(KindTableNotFound, msg, err)
	}

	log.WithField("rows", len(rows)).Debug("rows loaded")
	return nil
}

// UpdateDraftField sets one field of the draft record.
func (c *Controller) UpdateDraftField(column, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.state = c.state.WithDraftField(column, value)
}

// SubmitInsert sends the non-empty draft fields as a new row. The draft is
// cleared only when the insert succeeds.
func (c *Controller) SubmitInsert(ctx context.Context) error {
	c.mu.Lock()
	table := c.state.Table
	record := FilterDraft(c.state.Draft, c.state.Columns)
	c.mu.Unlock()

	log := c.logger(ctx).WithFields(logrus.Fields{"op": "insert", "table": table})

	if record.Len() == 0 {
		c.notify(LevelError, MsgEnterValue)
		return newError(KindValidation, MsgEnterValue)
	}

	callCtx, cancel := c.callContext(ctx)
	err := c.service.InsertOne(callCtx, table, record)
	cancel()
	if err != nil {
		log.WithError(err).Warn("insert failed")
		msg := MsgInsertFailed + dataservice.Message(err)
		c.notify(LevelError, msg)
		return wrap(KindInsert, msg, err)
	}

	c.mu.Lock()
	c.state = c.state.WithoutDraft()
	c.mu.Unlock()
	log.WithField("fields", record.Keys()).Info("row inserted")

	// a failed refresh has already told the user
	_ = c.Refresh(ctx)
	c.notify(LevelSuccess, MsgInserted)
	return nil
}

// DeleteRow removes the row with the given id after confirm agrees. A nil
// confirm or a declined prompt does nothing.
func (c *Controller) DeleteRow(ctx context.Context, id string, confirm Confirmer) error {
	c.mu.Lock()
	table := c.state.Table
	c.mu.Unlock()

	log := c.logger(ctx).WithFields(logrus.Fields{"op": "delete", "table": table, "id": id})

	if confirm == nil || !confirm.Confirm(ctx, PromptDelete) {
		log.Debug("delete cancelled")
		return nil
	}

	callCtx, cancel := c.callContext(ctx)
	err := c.service.DeleteByKey(callCtx, table, id)
	cancel()
	if err != nil {
		log.WithError(err).Warn("delete failed")
		c.notify(LevelError, MsgDeleteFailed)
		return wrap(KindDelete, MsgDeleteFailed, err)
	}
	log.Info("row deleted")

	_ = c.Refresh(ctx)
	return nil
}

func (c *Controller) notify(level Level, msg string) {
	if c.notifier != nil {
		c.notifier.Notify(Notice{Level: level, Message: msg})
	}
}

// logger carries the request id of ctx, when there is one.
func (c *Controller) logger(ctx context.Context) logrus.FieldLogger {
	return logging.FromContext(ctx, c.log)
}

func (c *Controller) callContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.timeout > 0 {
		return context.WithTimeout(ctx, c.timeout)
	}
	return context.WithCancel(ctx)
}
