package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/fulfil-dashboard-bot/internal/domain/entity"
	"github.com/yourusername/fulfil-dashboard-bot/internal/domain/repository"
	"github.com/yourusername/fulfil-dashboard-bot/internal/infrastructure/metrics"
	"github.com/yourusername/fulfil-dashboard-bot/internal/infrastructure/parser"
	"github.com/yourusername/fulfil-dashboard-bot/internal/infrastructure/storage"
	"github.com/yourusername/fulfil-dashboard-bot/internal/pipeline"
)

const (
	linesCSV   = "purchase_id,product_id,quantity\nP1,1,2\nP1,2,1\nP2,1,1\n"
	headersCSV = "PURCHASE_ID,PURCHASE_DATE_TIME\nP1,2020-03-25 10:12:00\nP2,2020-03-25 18:40:00\n"
	productCSV = "product_id,department_name,height_inches,width_inches,depth_inches\n1,Toys,2,3,4\n2,Kitchen,1,1,1\n"
)

type fakeRenderer struct {
	rendered *entity.Dashboard
}

func (f *fakeRenderer) Render(d *entity.Dashboard) ([]byte, error) {
	f.rendered = d
	return []byte("xlsx"), nil
}

func (f *fakeRenderer) Filename() string { return "report.xlsx" }

type fakeInsights struct {
	got *entity.Dashboard
	err error
}

func (f *fakeInsights) Summarize(ctx context.Context, d *entity.Dashboard) (string, error) {
	f.got = d
	if f.err != nil {
		return "", f.err
	}
	return "Toys lead the quantity chart.", nil
}

type fixture struct {
	auth      AuthUseCase
	dashboard DashboardUseCase
	sessions  repository.SessionRepository
	actions   repository.ActionRepository
	renderer  *fakeRenderer
	metrics   *metrics.Registry
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		sessions: storage.NewMemorySessionRepository(),
		actions:  storage.NewMemoryActionRepository(100),
		renderer: &fakeRenderer{},
		metrics:  metrics.NewRegistry(),
	}
	f.auth = NewAuthUseCase(f.sessions, f.actions, "ilovefulfil", "docs", time.Hour)
	f.dashboard = NewDashboardUseCase(f.sessions, f.actions, parser.NewTableParser(), f.renderer, f.metrics, time.Hour)
	return f
}

func (f *fixture) login(t *testing.T, userID int64) {
	t.Helper()
	ok, err := f.auth.Login(context.Background(), userID, "ilovefulfil")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestAuth_LoginAndLogout(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	ok, err := f.auth.Login(ctx, 1, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)

	authed, err := f.auth.IsAuthenticated(ctx, 1)
	require.NoError(t, err)
	assert.False(t, authed)

	f.login(t, 1)
	authed, err = f.auth.IsAuthenticated(ctx, 1)
	require.NoError(t, err)
	assert.True(t, authed)

	require.NoError(t, f.auth.Logout(ctx, 1))
	authed, err = f.auth.IsAuthenticated(ctx, 1)
	require.NoError(t, err)
	assert.False(t, authed)

	recent, err := f.actions.Recent(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, recent, 3)
	assert.Equal(t, "logout", recent[0].Action)
	assert.Equal(t, "login", recent[1].Action)
	assert.Equal(t, "login_failed", recent[2].Action)
}

func TestAuth_ExpiredSessionIsNotAuthenticated(t *testing.T) {
	ctx := context.Background()
	sessions := storage.NewMemorySessionRepository()
	auth := NewAuthUseCase(sessions, nil, "pw", "", time.Nanosecond)

	ok, err := auth.Login(ctx, 5, "pw")
	require.NoError(t, err)
	require.True(t, ok)

	time.Sleep(time.Millisecond)
	authed, err := auth.IsAuthenticated(ctx, 5)
	require.NoError(t, err)
	assert.False(t, authed)
}

func TestAuth_ToggleDocs(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.auth.ToggleDocs(ctx, 1)
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	f.login(t, 1)
	on, err := f.auth.ToggleDocs(ctx, 1)
	require.NoError(t, err)
	assert.True(t, on)

	on, err = f.auth.ToggleDocs(ctx, 1)
	require.NoError(t, err)
	assert.False(t, on)
	assert.Equal(t, "docs", f.auth.Docs())
}

func TestDashboard_UploadRequiresLogin(t *testing.T) {
	f := newFixture(t)
	_, err := f.dashboard.Upload(context.Background(), 1, []byte(linesCSV), "purchase_lines.csv")
	assert.ErrorIs(t, err, ErrNotAuthenticated)
}

func TestDashboard_UploadRejectsUnsupportedFile(t *testing.T) {
	f := newFixture(t)
	f.login(t, 1)
	_, err := f.dashboard.Upload(context.Background(), 1, []byte("{}"), "data.json")
	assert.ErrorIs(t, err, ErrUnsupportedFile)
}

func TestDashboard_UploadRejectsUnknownTable(t *testing.T) {
	f := newFixture(t)
	f.login(t, 1)
	_, err := f.dashboard.Upload(context.Background(), 1, []byte("a,b\n1,2\n"), "mystery.csv")
	assert.ErrorIs(t, err, ErrUnknownTable)
}

func TestDashboard_WaitsForAllThreeFiles(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.login(t, 1)

	res, err := f.dashboard.Upload(ctx, 1, []byte(productCSV), "a.csv")
	require.NoError(t, err)
	assert.Equal(t, entity.KindProducts, res.Kind)
	assert.Equal(t, 2, res.Rows)
	assert.True(t, res.Waiting())
	assert.Equal(t, []entity.UploadKind{entity.KindLineItems, entity.KindHeaders}, res.Missing)
	assert.Nil(t, res.Dashboard)

	_, err = f.dashboard.Dashboard(ctx, 1)
	assert.ErrorIs(t, err, ErrWaitingForInput)

	_, _, err = f.dashboard.Report(ctx, 1)
	assert.ErrorIs(t, err, ErrWaitingForInput)
}

func TestDashboard_RunsPipelineWhenComplete(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.login(t, 1)

	_, err := f.dashboard.Upload(ctx, 1, []byte(linesCSV), "purchase_lines.csv")
	require.NoError(t, err)
	_, err = f.dashboard.Upload(ctx, 1, []byte(headersCSV), "purchase_header.csv")
	require.NoError(t, err)
	res, err := f.dashboard.Upload(ctx, 1, []byte(productCSV), "product.csv")
	require.NoError(t, err)

	require.False(t, res.Waiting())
	require.NotNil(t, res.Dashboard)
	d := res.Dashboard
	assert.Equal(t, 3, d.LineCount)
	assert.Equal(t, 2, d.PurchaseCount)
	require.Len(t, d.ByDepartmentQuantity, 2)
	assert.Equal(t, "Toys", d.ByDepartmentQuantity[0].Department.Label())
	assert.InDelta(t, 3.0, d.ByDepartmentQuantity[0].Quantity, 1e-9)
	assert.InDelta(t, 1.5, d.MeanBasketSize.Value, 1e-9)

	stored, err := f.dashboard.Dashboard(ctx, 1)
	require.NoError(t, err)
	assert.Same(t, d, stored)

	data, name, err := f.dashboard.Report(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, []byte("xlsx"), data)
	assert.Equal(t, "report.xlsx", name)
	assert.Same(t, d, f.renderer.rendered)
}

func TestDashboard_NewUploadReplacesAndReruns(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.login(t, 1)

	for name, body := range map[string]string{
		"purchase_lines.csv":  linesCSV,
		"purchase_header.csv": headersCSV,
		"product.csv":         productCSV,
	} {
		_, err := f.dashboard.Upload(ctx, 1, []byte(body), name)
		require.NoError(t, err)
	}

	res, err := f.dashboard.Upload(ctx, 1, []byte("purchase_id,product_id,quantity\nP9,99,5\n"), "purchase_lines.csv")
	require.NoError(t, err)
	assert.True(t, res.Replaced)
	require.NotNil(t, res.Dashboard)
	assert.Equal(t, 1, res.Dashboard.LineCount)
	require.Len(t, res.Dashboard.ByDepartmentQuantity, 1)
	assert.Equal(t, "(unmatched)", res.Dashboard.ByDepartmentQuantity[0].Department.Label())
}

func TestDashboard_SchemaErrorIsReturned(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.login(t, 1)

	_, err := f.dashboard.Upload(ctx, 1, []byte(linesCSV), "purchase_lines.csv")
	require.NoError(t, err)
	_, err = f.dashboard.Upload(ctx, 1, []byte(headersCSV), "purchase_header.csv")
	require.NoError(t, err)
	// No PRODUCT_ID column; classified by filename.
	res, err := f.dashboard.Upload(ctx, 1, []byte("department_name,height_inches\nToys,1\n"), "product.csv")
	require.Error(t, err)

	var schemaErr *pipeline.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "PRODUCT_ID", schemaErr.Column)
	require.NotNil(t, res)
	assert.Nil(t, res.Dashboard)

	_, err = f.dashboard.Dashboard(ctx, 1)
	assert.ErrorIs(t, err, ErrWaitingForInput)
}

func TestDashboard_ResetKeepsLogin(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.login(t, 1)

	_, err := f.dashboard.Upload(ctx, 1, []byte(productCSV), "product.csv")
	require.NoError(t, err)
	require.NoError(t, f.dashboard.Reset(ctx, 1))

	session, err := f.dashboard.Status(ctx, 1)
	require.NoError(t, err)
	assert.True(t, session.Authenticated)
	assert.Empty(t, session.Uploads)
	assert.Len(t, session.MissingKinds(), 3)
}

func TestInsights_DisabledWithoutBackend(t *testing.T) {
	f := newFixture(t)
	insights := NewInsightUseCase(nil, f.dashboard, f.actions)
	_, err := insights.Summarize(context.Background(), 1)
	assert.ErrorIs(t, err, ErrInsightsDisabled)
}

func TestInsights_SummarizesCurrentDashboard(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.login(t, 1)
	ai := &fakeInsights{}
	insights := NewInsightUseCase(ai, f.dashboard, f.actions)

	_, err := insights.Summarize(ctx, 1)
	assert.ErrorIs(t, err, ErrWaitingForInput)

	for name, body := range map[string]string{
		"purchase_lines.csv":  linesCSV,
		"purchase_header.csv": headersCSV,
		"product.csv":         productCSV,
	} {
		_, err := f.dashboard.Upload(ctx, 1, []byte(body), name)
		require.NoError(t, err)
	}

	text, err := insights.Summarize(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "Toys lead the quantity chart.", text)
	require.NotNil(t, ai.got)
	assert.Equal(t, 3, ai.got.LineCount)

	ai.err = errors.New("quota")
	_, err = insights.Summarize(ctx, 1)
	assert.ErrorContains(t, err, "quota")
}

func bigLinesCSV(rows int) string {
	var sb strings.Builder
	sb.WriteString("purchase_id,product_id,quantity\n")
	for i := 0; i < rows; i++ {
		fmt.Fprintf(&sb, "P%d,%d,1\n", i%500, i%2+1)
	}
	return sb.String()
}

func TestDashboard_ConcurrentUploadsAllLand(t *testing.T) {
	ctx := context.Background()
	files := map[string]string{
		"purchase_lines.csv":  bigLinesCSV(20000),
		"purchase_header.csv": headersCSV,
		"product.csv":         productCSV,
	}

	for run := 0; run < 20; run++ {
		f := newFixture(t)
		f.login(t, 1)

		var wg sync.WaitGroup
		errs := make(chan error, len(files))
		for name, body := range files {
			wg.Add(1)
			go func(name, body string) {
				defer wg.Done()
				_, err := f.dashboard.Upload(ctx, 1, []byte(body), name)
				errs <- err
			}(name, body)
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			require.NoError(t, err)
		}

		session, err := f.dashboard.Status(ctx, 1)
		require.NoError(t, err)
		require.Empty(t, session.MissingKinds(), "run %d lost an upload", run)
		require.NotNil(t, session.Dashboard, "run %d has no dashboard", run)
		assert.Equal(t, 20000, session.Dashboard.LineCount)
	}
}

func TestDashboard_StaleRunDoesNotOverwriteNewerUpload(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.login(t, 1)

	for _, name := range []string{"purchase_lines.csv", "purchase_header.csv", "product.csv"} {
		body := map[string]string{
			"purchase_lines.csv":  linesCSV,
			"purchase_header.csv": headersCSV,
			"product.csv":         productCSV,
		}[name]
		_, err := f.dashboard.Upload(ctx, 1, []byte(body), name)
		require.NoError(t, err)
	}

	session, err := f.dashboard.Status(ctx, 1)
	require.NoError(t, err)
	snapshot := copyUploads(session.Uploads)
	assert.True(t, sameUploads(session.Uploads, snapshot))

	_, err = f.dashboard.Upload(ctx, 1, []byte(productCSV), "product.csv")
	require.NoError(t, err)
	session, err = f.dashboard.Status(ctx, 1)
	require.NoError(t, err)
	assert.False(t, sameUploads(session.Uploads, snapshot))
}

func TestAuth_History(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.auth.History(ctx, 1, 10)
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	f.login(t, 1)
	f.login(t, 2)
	_, err = f.dashboard.Upload(ctx, 1, []byte(productCSV), "product.csv")
	require.NoError(t, err)

	history, err := f.auth.History(ctx, 1, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "upload", history[0].Action)
	assert.Equal(t, "login", history[1].Action)
	for _, a := range history {
		assert.Equal(t, int64(1), a.UserID)
	}

	history, err = f.auth.History(ctx, 1, 1)
	require.NoError(t, err)
	assert.Len(t, history, 1)
}
