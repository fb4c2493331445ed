package server

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/obreasy/obreasy/pkg/alerts"
	"github.com/obreasy/obreasy/pkg/model"
	"github.com/obreasy/obreasy/pkg/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEnv struct {
	store  storage.Store
	server *Server
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	store, err := storage.NewSQLite(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	today := time.Date(2025, 6, 13, 12, 0, 0, 0, time.UTC)
	engine := alerts.NewWithClock(store, nil, logger, func() time.Time { return today })

	return &testEnv{
		store:  store,
		server: NewServer(engine, store, logger),
	}
}

func (env *testEnv) project(t *testing.T, budget float64) *model.Project {
	t.Helper()
	p := &model.Project{Name: "Obra Teste", Kind: "reforma", AreaM2: 50, BudgetBRL: budget}
	require.NoError(t, env.store.CreateProject(context.Background(), p))
	return p
}

func (env *testEnv) do(t *testing.T, method, target string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	rec := httptest.NewRecorder()
	env.server.Handler().ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/healthz")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"ok"`)
}

func TestNotificationsEndpoint(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.project(t, 0)

	require.NoError(t, env.store.AppendNotification(ctx, &model.Notification{
		ProjectID: p.ID, Kind: model.KindBudget, Title: "t1", Message: "m1",
	}))
	read := &model.Notification{
		ProjectID: p.ID, Kind: model.KindDeadline, Title: "t2", Message: "m2",
	}
	require.NoError(t, env.store.AppendNotification(ctx, read))
	_, err := env.store.MarkNotificationRead(ctx, read.ID)
	require.NoError(t, err)

	rec := env.do(t, http.MethodGet, "/api/v1/notifications?project="+p.ID)
	require.Equal(t, http.StatusOK, rec.Code)

	var got []model.Notification
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.Len(t, got, 2)

	rec = env.do(t, http.MethodGet, "/api/v1/notifications?project="+p.ID+"&unread=true")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	require.Len(t, got, 1)
	assert.Equal(t, "t1", got[0].Title)
}

func TestNotificationsMissingProject(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/notifications")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMarkReadEndpoint(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.project(t, 0)

	n := &model.Notification{ProjectID: p.ID, Kind: model.KindPayment, Title: "t", Message: "m"}
	require.NoError(t, env.store.AppendNotification(ctx, n))

	rec := env.do(t, http.MethodPost, "/api/v1/notifications/"+n.ID+"/read")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"changed":true`)

	// Second call is a no-op.
	rec = env.do(t, http.MethodPost, "/api/v1/notifications/"+n.ID+"/read")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"changed":false`)
}

func TestMarkAllReadEndpoint(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.project(t, 0)

	for i := 0; i < 3; i++ {
		require.NoError(t, env.store.AppendNotification(ctx, &model.Notification{
			ProjectID: p.ID, Kind: model.KindBudget, Title: "t", Message: "m",
		}))
	}

	rec := env.do(t, http.MethodPost, "/api/v1/projects/"+p.ID+"/notifications/read-all")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"changed":3`)
}

func TestSummaryEndpoint(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.project(t, 100000)

	require.NoError(t, env.store.AddExpense(ctx, &model.Expense{
		ProjectID: p.ID, Category: "material", AmountBRL: 25000,
	}))

	rec := env.do(t, http.MethodGet, "/api/v1/summary?project="+p.ID)
	require.Equal(t, http.StatusOK, rec.Code)

	var m model.Metrics
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &m))
	assert.Equal(t, 100000.0, m.BudgetBRL)
	assert.Equal(t, 25000.0, m.TotalSpent)
	assert.Equal(t, 75000.0, m.Balance)
	assert.Equal(t, 500.0, m.CostPerM2)
}

func TestSummaryProjectNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodGet, "/api/v1/summary?project=missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestCheckEndpoint(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	p := env.project(t, 10000)

	require.NoError(t, env.store.UpsertBudgetAlert(ctx, &model.BudgetAlert{
		ProjectID:  p.ID,
		Active:     true,
		Thresholds: []float64{80},
	}))
	require.NoError(t, env.store.AddExpense(ctx, &model.Expense{
		ProjectID: p.ID, Category: "material", AmountBRL: 8500,
	}))

	rec := env.do(t, http.MethodPost, "/api/v1/check?project="+p.ID)
	require.Equal(t, http.StatusOK, rec.Code)

	var created []model.Notification
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	require.Len(t, created, 1)
	assert.Equal(t, "Alerta de Orçamento - 80%", created[0].Title)

	// A repeat check returns an empty list, not null.
	rec = env.do(t, http.MethodPost, "/api/v1/check?project="+p.ID)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())
}

func TestCheckProjectNotFound(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(t, http.MethodPost, "/api/v1/check?project=missing")
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRunPeriodicChecks(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithCancel(context.Background())
	p := env.project(t, 10000)

	require.NoError(t, env.store.UpsertBudgetAlert(ctx, &model.BudgetAlert{
		ProjectID:  p.ID,
		Active:     true,
		Thresholds: []float64{80},
	}))
	require.NoError(t, env.store.AddExpense(ctx, &model.Expense{
		ProjectID: p.ID, Category: "material", AmountBRL: 9000,
	}))

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	engine := alerts.New(env.store, nil, logger)

	done := make(chan struct{})
	go func() {
		RunPeriodicChecks(ctx, engine, env.store, 10*time.Millisecond, logger)
		close(done)
	}()

	require.Eventually(t, func() bool {
		ns, err := env.store.ListNotifications(context.Background(), p.ID)
		return err == nil && len(ns) == 1
	}, 2*time.Second, 10*time.Millisecond)

	cancel()
	<-done
}
