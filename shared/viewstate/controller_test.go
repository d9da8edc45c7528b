package viewstate

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/Velocidex/ordereddict"
	"github.com/dracory/gestor/shared/dataservice"
	"github.com/dracory/gestor/shared/logging"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type call struct {
	Op     string
	Table  string
	ID     string
	Record *ordereddict.Dict
}

// fakeService records every call and answers from canned rows.
type fakeService struct {
	mu        sync.Mutex
	calls     []call
	rows      map[string][]*ordereddict.Dict
	fetchErr  error
	insertErr error
	deleteErr error
	// hold makes FetchAll for a table wait until the channel is closed
	hold    map[string]chan struct{}
	started chan string
}

func newFakeService() *fakeService {
	return &fakeService{rows: map[string][]*ordereddict.Dict{}, hold: map[string]chan struct{}{}}
}

func (f *fakeService) FetchAll(ctx context.Context, table string) ([]*ordereddict.Dict, error) {
	f.mu.Lock()
	f.calls = append(f.calls, call{Op: "fetch", Table: table})
	hold := f.hold[table]
	started := f.started
	f.mu.Unlock()

	if started != nil {
		started <- table
	}
	if hold != nil {
		<-hold
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.rows[table], nil
}

func (f *fakeService) InsertOne(ctx context.Context, table string, record *ordereddict.Dict) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{Op: "insert", Table: table, Record: record})
	return f.insertErr
}

func (f *fakeService) DeleteByKey(ctx context.Context, table string, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call{Op: "delete", Table: table, ID: id})
	return f.deleteErr
}

func (f *fakeService) ops() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.calls))
	for i, c := range f.calls {
		out[i] = c.Op
	}
	return out
}

func (f *fakeService) last(op string) (call, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := len(f.calls) - 1; i >= 0; i-- {
		if f.calls[i].Op == op {
			return f.calls[i], true
		}
	}
	return call{}, false
}

type noticeLog struct {
	mu      sync.Mutex
	notices []Notice
}

func (n *noticeLog) Notify(notice Notice) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.notices = append(n.notices, notice)
}

func (n *noticeLog) all() []Notice {
	n.mu.Lock()
	defer n.mu.Unlock()
	return append([]Notice(nil), n.notices...)
}

func newTestController(svc dataservice.Service) (*Controller, *noticeLog) {
	notes := &noticeLog{}
	logger, _ := test.NewNullLogger()
	logger.SetLevel(logrus.DebugLevel)
	return New(svc, WithNotifier(notes), WithLogger(logger), WithTimeout(time.Second)), notes
}

func confirmAnswer(answer bool) (Confirmer, *int) {
	asked := 0
	return ConfirmFunc(func(_ context.Context, prompt string) bool {
		asked++
		return answer
	}), &asked
}

func TestRefresh_PopulatesRowsAndColumns(t *testing.T) {
	svc := newFakeService()
	svc.rows["clientes"] = []*ordereddict.Dict{row("id", 1, "nombre", "Ana"), row("id", 2, "nombre", "Luis")}
	c, notes := newTestController(svc)

	require.NoError(t, c.Refresh(context.Background()))

	st := c.State()
	assert.Equal(t, []string{"id", "nombre"}, st.Columns)
	assert.Len(t, st.Rows, 2)
	assert.Empty(t, notes.all())
}

func TestRefresh_EmptyResultKeepsColumns(t *testing.T) {
	svc := newFakeService()
	svc.rows["clientes"] = []*ordereddict.Dict{row("id", 1, "nombre", "Ana")}
	c, _ := newTestController(svc)
	require.NoError(t, c.Refresh(context.Background()))

	svc.mu.Lock()
	svc.rows["clientes"] = nil
	svc.mu.Unlock()
	require.NoError(t, c.Refresh(context.Background()))

	st := c.State()
	assert.Empty(t, st.Rows)
	assert.Equal(t, []string{"id", "nombre"}, st.Columns)
}

func TestRefresh_FailureLeavesStateAndNotifies(t *testing.T) {
	svc := newFakeService()
	svc.rows["clientes"] = []*ordereddict.Dict{row("id", 1, "nombre", "Ana")}
	c, notes := newTestController(svc)
	require.NoError(t, c.Refresh(context.Background()))

	svc.mu.Lock()
	svc.fetchErr = &dataservice.Error{Status: 404, Code: "42P01", Message: "relation does not exist"}
	svc.mu.Unlock()

	err := c.Refresh(context.Background())
	require.Error(t, err)
	assert.True(t, IsKind(err, KindTableNotFound))

	st := c.State()
	assert.Len(t, st.Rows, 1)
	assert.Equal(t, []string{"id", "nombre"}, st.Columns)

	got := notes.all()
	require.Len(t, got, 1)
	assert.Equal(t, LevelError, got[0].Level)
	assert.Contains(t, got[0].Message, `"clientes"`)
}

func TestSelectTable_EveryRegisteredTable(t *testing.T) {
	for _, name := range []string{"clientes", "productos", "pedidos", "detalles"} {
		t.Run(name, func(t *testing.T) {
			svc := newFakeService()
			svc.rows[name] = []*ordereddict.Dict{row("id", 1, "campo", "x")}
			c, _ := newTestController(svc)

			require.NoError(t, c.SelectTable(context.Background(), name))
			st := c.State()
			assert.Equal(t, name, st.Table)
			assert.Equal(t, []string{"id", "campo"}, st.Columns)

			f, ok := svc.last("fetch")
			require.True(t, ok)
			assert.Equal(t, name, f.Table)
		})
	}
}

func TestSelectTable_Unknown(t *testing.T) {
	svc := newFakeService()
	c, _ := newTestController(svc)

	err := c.SelectTable(context.Background(), "usuarios")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindUnknownTable))
	assert.Equal(t, "clientes", c.State().Table)
	assert.Empty(t, svc.ops())
}

func TestSubmitInsert_AllEmptyNeverCallsService(t *testing.T) {
	svc := newFakeService()
	c, notes := newTestController(svc)
	c.UpdateDraftField("nombre", "")
	c.UpdateDraftField("email", "")

	err := c.SubmitInsert(context.Background())
	require.Error(t, err)
	assert.True(t, IsKind(err, KindValidation))
	assert.Empty(t, svc.ops())

	got := notes.all()
	require.Len(t, got, 1)
	assert.Equal(t, MsgEnterValue, got[0].Message)
}

func TestSubmitInsert_SendsOnlyNonEmptyFields(t *testing.T) {
	svc := newFakeService()
	c, _ := newTestController(svc)
	c.UpdateDraftField("nombre", "Ana")
	c.UpdateDraftField("email", "")

	require.NoError(t, c.SubmitInsert(context.Background()))

	ins, ok := svc.last("insert")
	require.True(t, ok)
	assert.Equal(t, "clientes", ins.Table)
	assert.Equal(t, []string{"nombre"}, ins.Record.Keys())
	v, _ := ins.Record.Get("nombre")
	assert.Equal(t, "Ana", v)
}

func TestSubmitInsert_SuccessClearsDraftAndRefreshes(t *testing.T) {
	svc := newFakeService()
	c, notes := newTestController(svc)
	c.UpdateDraftField("nombre", "Ana")

	require.NoError(t, c.SubmitInsert(context.Background()))

	assert.Empty(t, c.State().Draft)
	assert.Equal(t, []string{"insert", "fetch"}, svc.ops())

	got := notes.all()
	require.NotEmpty(t, got)
	assert.Equal(t, Notice{Level: LevelSuccess, Message: MsgInserted}, got[len(got)-1])
}

func TestSubmitInsert_FailureKeepsDraft(t *testing.T) {
	svc := newFakeService()
	svc.insertErr = &dataservice.Error{Message: "duplicate key value"}
	c, notes := newTestController(svc)
	c.UpdateDraftField("nombre", "Ana")
	c.UpdateDraftField("email", "")

	err := c.SubmitInsert(context.Background())
	require.Error(t, err)
	assert.True(t, IsKind(err, KindInsert))
	assert.Equal(t, map[string]string{"nombre": "Ana", "email": ""}, c.State().Draft)
	assert.Equal(t, []string{"insert"}, svc.ops())

	got := notes.all()
	require.Len(t, got, 1)
	assert.Equal(t, "Insert failed: duplicate key value", got[0].Message)
	assert.Equal(t, "Insert failed: duplicate key value", UserMessage(err))
}

func TestDeleteRow_DeclinedDoesNothing(t *testing.T) {
	svc := newFakeService()
	svc.rows["clientes"] = []*ordereddict.Dict{row("id", 1, "nombre", "Ana")}
	c, notes := newTestController(svc)
	require.NoError(t, c.Refresh(context.Background()))

	confirm, asked := confirmAnswer(false)
	require.NoError(t, c.DeleteRow(context.Background(), "1", confirm))

	assert.Equal(t, 1, *asked)
	assert.Equal(t, []string{"fetch"}, svc.ops())
	assert.Len(t, c.State().Rows, 1)
	assert.Empty(t, notes.all())
}

func TestDeleteRow_NilConfirmerDoesNothing(t *testing.T) {
	svc := newFakeService()
	c, _ := newTestController(svc)

	require.NoError(t, c.DeleteRow(context.Background(), "1", nil))
	assert.Empty(t, svc.ops())
}

func TestDeleteRow_ConfirmedRefreshes(t *testing.T) {
	svc := newFakeService()
	c, _ := newTestController(svc)
	require.NoError(t, c.SelectTable(context.Background(), "pedidos"))

	confirm, _ := confirmAnswer(true)
	require.NoError(t, c.DeleteRow(context.Background(), "9", confirm))

	assert.Equal(t, []string{"fetch", "delete", "fetch"}, svc.ops())
	del, _ := svc.last("delete")
	assert.Equal(t, "pedidos", del.Table)
	assert.Equal(t, "9", del.ID)
}

func TestDeleteRow_FailureNotifiesGenerically(t *testing.T) {
	svc := newFakeService()
	svc.deleteErr = errors.New("violates foreign key constraint")
	c, notes := newTestController(svc)

	err := c.DeleteRow(context.Background(), "1", Always)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindDelete))
	assert.Equal(t, []string{"delete"}, svc.ops())

	got := notes.all()
	require.Len(t, got, 1)
	assert.Equal(t, MsgDeleteFailed, got[0].Message)
}

func TestRefresh_SupersededResultIsDiscarded(t *testing.T) {
	svc := newFakeService()
	svc.rows["clientes"] = []*ordereddict.Dict{row("id", 1, "nombre", "Ana")}
	svc.rows["productos"] = []*ordereddict.Dict{row("id", 5, "nombre", "Mesa", "precio", 100)}
	release := make(chan struct{})
	svc.hold["clientes"] = release
	svc.started = make(chan string, 4)
	c, _ := newTestController(svc)

	done := make(chan error, 1)
	go func() { done <- c.SelectTable(context.Background(), "clientes") }()
	assert.Equal(t, "clientes", <-svc.started)

	require.NoError(t, c.SelectTable(context.Background(), "productos"))
	assert.Equal(t, "productos", <-svc.started)

	close(release)
	require.NoError(t, <-done)

	st := c.State()
	assert.Equal(t, "productos", st.Table)
	assert.Equal(t, []string{"id", "nombre", "precio"}, st.Columns)
}

func TestEndToEnd_Productos(t *testing.T) {
	ctx := context.Background()
	mem := dataservice.NewMemory()
	mem.Seed("productos", row("id", 5, "nombre", "Mesa", "precio", 100))
	c, notes := newTestController(mem)

	require.NoError(t, c.SelectTable(ctx, "productos"))
	st := c.State()
	assert.Equal(t, []string{"id", "nombre", "precio"}, st.Columns)
	assert.Equal(t, []string{"nombre", "precio"}, st.FormColumns())

	c.UpdateDraftField("nombre", "Silla")
	require.NoError(t, c.SubmitInsert(ctx))

	st = c.State()
	assert.Empty(t, st.Draft)
	require.Len(t, st.Rows, 2)
	name, _ := st.Rows[1].Get("nombre")
	assert.Equal(t, "Silla", name)
	_, hasPrice := st.Rows[1].Get("precio")
	assert.False(t, hasPrice)

	got := notes.all()
	require.Len(t, got, 1)
	assert.Equal(t, LevelSuccess, got[0].Level)
}

func TestRefresh_MissingTableLogsInfo(t *testing.T) {
	logger, hook := test.NewNullLogger()
	svc := newFakeService()
	svc.fetchErr = &dataservice.Error{Status: 404, Code: "42P01", Message: "relation does not exist"}
	c := New(svc, WithLogger(logger))

	require.Error(t, c.Refresh(logging.WithRequestID(context.Background(), "req-7")))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.InfoLevel, entry.Level)
	assert.Equal(t, "req-7", entry.Data["request_id"])

	svc.mu.Lock()
	svc.fetchErr = errors.New("connection refused")
	svc.mu.Unlock()
	require.Error(t, c.Refresh(context.Background()))
	assert.Equal(t, logrus.WarnLevel, hook.LastEntry().Level)
}

func TestLoaded(t *testing.T) {
	svc := newFakeService()
	svc.fetchErr = errors.New("connection refused")
	c, _ := newTestController(svc)
	assert.False(t, c.Loaded())

	assert.True(t, IsKind(c.SelectTable(context.Background(), "usuarios"), KindUnknownTable))
	assert.False(t, c.Loaded())

	require.Error(t, c.Refresh(context.Background()))
	assert.True(t, c.Loaded())
}
