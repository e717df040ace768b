package handlers

import (
	"net/http"
	"time"

	"github.com/ChiragNSundar/EmployerSubscriptionPortal/internal/reports"
	"github.com/ChiragNSundar/EmployerSubscriptionPortal/pkg/req"
	"github.com/ChiragNSundar/EmployerSubscriptionPortal/pkg/res"
	"github.com/gin-gonic/gin"
)

// ReportQueryRequest тело POST-запроса произвольной страницы. Дублирует
// query-параметры GET-маршрутов: длинные списки фильтров не помещаются
// в строку запроса.
type ReportQueryRequest struct {
	Page      string   `json:"page" validate:"required"`
	Start     string   `json:"start,omitempty" validate:"omitempty,datetime=2006-01-02"`
	End       string   `json:"end,omitempty" validate:"omitempty,datetime=2006-01-02"`
	Locations []string `json:"locations,omitempty"`
	Types     []string `json:"types,omitempty"`
	MinDays   *float64 `json:"min_days,omitempty" validate:"omitempty,gte=0"`
	MaxDays   *float64 `json:"max_days,omitempty" validate:"omitempty,gte=0"`
	MonthA    string   `json:"month_a,omitempty" validate:"omitempty,datetime=2006-01"`
	MonthB    string   `json:"month_b,omitempty" validate:"omitempty,datetime=2006-01"`
	Horizon   int      `json:"horizon,omitempty" validate:"omitempty,min=1,max=365"`
}

// toRequest переводит валидированное тело в параметры отчета
func (r ReportQueryRequest) toRequest() reports.Request {
	out := reports.Request{
		Locations: r.Locations,
		Types:     r.Types,
		MinDays:   r.MinDays,
		MaxDays:   r.MaxDays,
		MonthA:    r.MonthA,
		MonthB:    r.MonthB,
		Horizon:   r.Horizon,
	}
	// Формат дат уже проверен валидатором
	if t, err := time.Parse(dateLayout, r.Start); err == nil && r.Start != "" {
		t = t.UTC()
		out.Start = &t
	}
	if t, err := time.Parse(dateLayout, r.End); err == nil && r.End != "" {
		t = t.UTC()
		out.End = &t
	}
	return out
}

// Query POST /reports/query — страница по имени с фильтрами в теле
func (h *ReportHandler) Query(c *gin.Context) {
	w := http.ResponseWriter(c.Writer)
	body, err := req.HandleBody[ReportQueryRequest](&w, c.Request, h.log)
	if err != nil {
		c.Abort()
		return
	}

	build, ok := h.pageBuilder(body.Page)
	if !ok {
		res.JsonResponse(c.Writer, res.ErrorResponse{
			Error:     "Unknown report page: " + body.Page,
			ErrorCode: http.StatusNotFound,
		}, http.StatusNotFound)
		return
	}

	request := body.toRequest()
	if request.Start != nil && request.End != nil && request.End.Before(*request.Start) {
		res.JsonResponse(c.Writer, res.ErrorResponse{
			Error:     "end date is before start date",
			ErrorCode: http.StatusBadRequest,
		}, http.StatusBadRequest)
		return
	}

	started := time.Now()
	payload := build(request)
	h.metrics.IncReportBuilt(body.Page)
	h.metrics.ObserveReportDuration(body.Page, time.Since(started))
	c.JSON(http.StatusOK, payload)
}

// pageBuilder сопоставляет имя страницы с построителем отчета
func (h *ReportHandler) pageBuilder(page string) (func(reports.Request) any, bool) {
	builders := map[string]func(reports.Request) any{
		"daily-overview":          func(r reports.Request) any { return h.svc.DailyOverview(r) },
		"monthly-overview":        func(r reports.Request) any { return h.svc.MonthlyOverview(r) },
		"revenue":                 func(r reports.Request) any { return h.svc.Revenue(r) },
		"daily-revenue":           func(r reports.Request) any { return h.svc.DailyRevenue(r) },
		"monthly-revenue":         func(r reports.Request) any { return h.svc.MonthlyRevenue(r) },
		"revenue-comparison":      func(r reports.Request) any { return h.svc.RevenueComparison(r) },
		"volume-comparison":       func(r reports.Request) any { return h.svc.VolumeComparison(r) },
		"cancellations":           func(r reports.Request) any { return h.svc.Cancellations(r) },
		"paid-subscriptions":      func(r reports.Request) any { return h.svc.PaidSubscriptions(r) },
		"volume":                  func(r reports.Request) any { return h.svc.Volume(r) },
		"type-breakdown":          func(r reports.Request) any { return h.svc.TypeBreakdown(r) },
		"packages":                func(r reports.Request) any { return h.svc.Packages(r) },
		"duration":                func(r reports.Request) any { return h.svc.Duration(r) },
		"retention":               func(r reports.Request) any { return h.svc.Retention(r) },
		"time-to-first":           func(r reports.Request) any { return h.svc.TimeToFirst(r) },
		"locations-volume":        func(r reports.Request) any { return h.svc.LocationVolume(r) },
		"locations-revenue":       func(r reports.Request) any { return h.svc.LocationRevenue(r) },
		"locations-cancellations": func(r reports.Request) any { return h.svc.LocationCancellations(r) },
		"locations-paid":          func(r reports.Request) any { return h.svc.LocationPaid(r) },
		"forecast-revenue":        func(r reports.Request) any { return h.svc.RevenueForecast(r) },
		"forecast-volume":         func(r reports.Request) any { return h.svc.VolumeForecast(r) },
		"forecast-churn":          func(r reports.Request) any { return h.svc.ChurnForecast(r) },
	}
	build, ok := builders[page]
	return build, ok
}
