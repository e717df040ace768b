package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/ChiragNSundar/EmployerSubscriptionPortal/internal/domain"
	"github.com/ChiragNSundar/EmployerSubscriptionPortal/internal/reports"
	"github.com/ChiragNSundar/EmployerSubscriptionPortal/internal/snapshot"
	"github.com/ChiragNSundar/EmployerSubscriptionPortal/pkg/logger"
)

type noopMetrics struct{}

func (noopMetrics) IncReportBuilt(string)                       {}
func (noopMetrics) ObserveReportDuration(string, time.Duration) {}
func (noopMetrics) IncCacheHit(string)                          {}
func (noopMetrics) IncCacheMiss(string)                         {}
func (noopMetrics) SetSnapshotRecords(int, int)                 {}
func (noopMetrics) IncReloadSuccess()                           {}
func (noopMetrics) IncReloadFailure()                           {}

type fixtureLoader struct {
	rows []domain.RawRow
}

func (f *fixtureLoader) FetchAll(ctx context.Context) ([]domain.RawRow, error) {
	return f.rows, nil
}

func (f *fixtureLoader) Source() string { return "fixture" }

func testHandler(t *testing.T) *ReportHandler {
	t.Helper()
	gin.SetMode(gin.TestMode)

	log := logger.New(logger.ERROR)
	rows := []domain.RawRow{
		{
			domain.ColDate:             "2024-01-01",
			domain.ColSubscriptionType: "new",
			domain.ColUserID:           "u1",
			domain.ColLocation:         "Berlin",
			domain.ColPackageName:      "Basic",
			domain.ColAmountPaid:       "100",
			domain.ColPaymentReceived:  "2024-01-01",
		},
	}
	store := snapshot.NewStore(&fixtureLoader{rows: rows}, log)
	_, err := store.Reload(context.Background())
	require.NoError(t, err)

	return NewReportHandler(reports.NewService(store, log), nil, noopMetrics{}, log)
}

func performRequest(h *ReportHandler, register func(*gin.Engine, *ReportHandler), method, url, body string) *httptest.ResponseRecorder {
	r := gin.New()
	register(r, h)

	var reader *strings.Reader
	if body != "" {
		reader = strings.NewReader(body)
	} else {
		reader = strings.NewReader("")
	}
	req := httptest.NewRequest(method, url, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestReportHandler_Revenue(t *testing.T) {
	h := testHandler(t)
	w := performRequest(h, func(r *gin.Engine, h *ReportHandler) {
		r.GET("/revenue", h.Revenue)
	}, http.MethodGet, "/revenue", "")

	require.Equal(t, http.StatusOK, w.Code)

	var report reports.RevenueReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	require.Equal(t, 1, report.PaidCount)
	require.Equal(t, 100.0, report.Summary.Total)
}

func TestReportHandler_InvalidDate(t *testing.T) {
	h := testHandler(t)
	w := performRequest(h, func(r *gin.Engine, h *ReportHandler) {
		r.GET("/revenue", h.Revenue)
	}, http.MethodGet, "/revenue?start=not-a-date", "")

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportHandler_InvertedRange(t *testing.T) {
	h := testHandler(t)
	w := performRequest(h, func(r *gin.Engine, h *ReportHandler) {
		r.GET("/volume", h.Volume)
	}, http.MethodGet, "/volume?start=2024-02-01&end=2024-01-01", "")

	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportHandler_FilterParsing(t *testing.T) {
	h := testHandler(t)
	w := performRequest(h, func(r *gin.Engine, h *ReportHandler) {
		r.GET("/daily-overview", h.DailyOverview)
	}, http.MethodGet, "/daily-overview?locations=Berlin,Hamburg&types=new", "")

	require.Equal(t, http.StatusOK, w.Code)

	var report reports.OverviewReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	require.Equal(t, 1, report.KPI.Total)
}

func TestReportHandler_Query(t *testing.T) {
	h := testHandler(t)
	body := `{"page":"revenue","locations":["Berlin"]}`
	w := performRequest(h, func(r *gin.Engine, h *ReportHandler) {
		r.POST("/query", h.Query)
	}, http.MethodPost, "/query", body)

	require.Equal(t, http.StatusOK, w.Code)

	var report reports.RevenueReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	require.Equal(t, 100.0, report.Summary.Total)
}

func TestReportHandler_QueryUnknownPage(t *testing.T) {
	h := testHandler(t)
	w := performRequest(h, func(r *gin.Engine, h *ReportHandler) {
		r.POST("/query", h.Query)
	}, http.MethodPost, "/query", `{"page":"nope"}`)

	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestReportHandler_QueryValidation(t *testing.T) {
	h := testHandler(t)
	// нет обязательного page
	w := performRequest(h, func(r *gin.Engine, h *ReportHandler) {
		r.POST("/query", h.Query)
	}, http.MethodPost, "/query", `{"start":"2024-01-01"}`)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestReportHandler_Filters(t *testing.T) {
	h := testHandler(t)
	w := performRequest(h, func(r *gin.Engine, h *ReportHandler) {
		r.GET("/filters", h.Filters)
	}, http.MethodGet, "/filters", "")

	require.Equal(t, http.StatusOK, w.Code)

	var opts reports.FilterOptions
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &opts))
	require.Equal(t, []string{"Berlin"}, opts.Locations)
}

func TestHealthCheck_ReportsSnapshotState(t *testing.T) {
	gin.SetMode(gin.TestMode)
	log := logger.New(logger.ERROR)
	store := snapshot.NewStore(&fixtureLoader{rows: []domain.RawRow{
		{
			domain.ColDate:             "2024-01-01",
			domain.ColSubscriptionType: "new",
			domain.ColUserID:           "u1",
		},
	}}, log)
	_, err := store.Reload(context.Background())
	require.NoError(t, err)

	r := gin.New()
	r.GET("/health", NewHealthHandler(store).HealthCheck)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Equal(t, "OK", body["status"])
	require.Equal(t, float64(1), body["snapshot_records"])
	require.NotEmpty(t, body["snapshot_loaded_at"])
}
