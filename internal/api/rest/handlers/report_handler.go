package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/ChiragNSundar/EmployerSubscriptionPortal/internal/metrics"
	"github.com/ChiragNSundar/EmployerSubscriptionPortal/internal/reports"
	"github.com/ChiragNSundar/EmployerSubscriptionPortal/internal/repository"
	"github.com/ChiragNSundar/EmployerSubscriptionPortal/pkg/logger"
	"github.com/ChiragNSundar/EmployerSubscriptionPortal/pkg/res"
	"github.com/gin-gonic/gin"
)

const dateLayout = "2006-01-02"

// ReportHandler обслуживает страницы дашборда. Готовые payload'ы
// кэшируются в Redis по ключу (снапшот, страница, фильтры).
type ReportHandler struct {
	svc     *reports.Service
	cache   *repository.ReportCache
	metrics metrics.ReportMetrics
	log     *logger.Logger
}

// NewReportHandler создает обработчик отчетов; cache может быть nil
func NewReportHandler(svc *reports.Service, cache *repository.ReportCache, m metrics.ReportMetrics, log *logger.Logger) *ReportHandler {
	return &ReportHandler{
		svc:     svc,
		cache:   cache,
		metrics: m,
		log:     log,
	}
}

// parseRequest разбирает общие параметры страниц из query string
func parseRequest(c *gin.Context) (reports.Request, error) {
	var req reports.Request

	if raw := c.Query("start"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return req, fmt.Errorf("invalid start date %q", raw)
		}
		t = t.UTC()
		req.Start = &t
	}
	if raw := c.Query("end"); raw != "" {
		t, err := time.Parse(dateLayout, raw)
		if err != nil {
			return req, fmt.Errorf("invalid end date %q", raw)
		}
		t = t.UTC()
		req.End = &t
	}
	if req.Start != nil && req.End != nil && req.End.Before(*req.Start) {
		return req, fmt.Errorf("end date is before start date")
	}

	req.Locations = splitList(c.Query("locations"))
	req.Types = splitList(c.Query("types"))

	if raw := c.Query("min_days"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return req, fmt.Errorf("invalid min_days %q", raw)
		}
		req.MinDays = &v
	}
	if raw := c.Query("max_days"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return req, fmt.Errorf("invalid max_days %q", raw)
		}
		req.MaxDays = &v
	}

	req.MonthA = c.Query("month_a")
	req.MonthB = c.Query("month_b")

	if raw := c.Query("horizon"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return req, fmt.Errorf("invalid horizon %q", raw)
		}
		req.Horizon = v
	}
	return req, nil
}

func splitList(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// respond отдает страницу: сперва пробует кэш, иначе собирает отчет,
// кэширует и возвращает его
func (h *ReportHandler) respond(c *gin.Context, page string, build func(reports.Request) any) {
	req, err := parseRequest(c)
	if err != nil {
		res.JsonResponse(c.Writer, res.ErrorResponse{
			Error:     err.Error(),
			ErrorCode: http.StatusBadRequest,
		}, http.StatusBadRequest)
		return
	}

	var key string
	if h.cache != nil {
		key = h.cache.Key(h.svc.Snapshot().ID, page, req.Fingerprint())
		var cached json.RawMessage
		switch err := h.cache.Get(c.Request.Context(), key, &cached); err {
		case nil:
			h.metrics.IncCacheHit(page)
			c.Data(http.StatusOK, "application/json", cached)
			return
		case repository.ErrCacheMiss:
			h.metrics.IncCacheMiss(page)
		default:
			// Недоступный Redis не должен ронять страницу
			h.log.Warnw("Report cache lookup failed", "page", page, "error", err)
		}
	}

	started := time.Now()
	payload := build(req)
	h.metrics.IncReportBuilt(page)
	h.metrics.ObserveReportDuration(page, time.Since(started))

	if h.cache != nil {
		if err := h.cache.Set(c.Request.Context(), key, payload); err != nil {
			h.log.Warnw("Failed to cache report", "page", page, "error", err)
		}
	}
	c.JSON(http.StatusOK, payload)
}

// DailyOverview GET /reports/daily-overview
func (h *ReportHandler) DailyOverview(c *gin.Context) {
	h.respond(c, "daily-overview", func(req reports.Request) any { return h.svc.DailyOverview(req) })
}

// MonthlyOverview GET /reports/monthly-overview
func (h *ReportHandler) MonthlyOverview(c *gin.Context) {
	h.respond(c, "monthly-overview", func(req reports.Request) any { return h.svc.MonthlyOverview(req) })
}

// Revenue GET /reports/revenue
func (h *ReportHandler) Revenue(c *gin.Context) {
	h.respond(c, "revenue", func(req reports.Request) any { return h.svc.Revenue(req) })
}

// DailyRevenue GET /reports/daily-revenue
func (h *ReportHandler) DailyRevenue(c *gin.Context) {
	h.respond(c, "daily-revenue", func(req reports.Request) any { return h.svc.DailyRevenue(req) })
}

// MonthlyRevenue GET /reports/monthly-revenue
func (h *ReportHandler) MonthlyRevenue(c *gin.Context) {
	h.respond(c, "monthly-revenue", func(req reports.Request) any { return h.svc.MonthlyRevenue(req) })
}

// RevenueComparison GET /reports/revenue-comparison
func (h *ReportHandler) RevenueComparison(c *gin.Context) {
	h.respond(c, "revenue-comparison", func(req reports.Request) any { return h.svc.RevenueComparison(req) })
}

// VolumeComparison GET /reports/volume-comparison
func (h *ReportHandler) VolumeComparison(c *gin.Context) {
	h.respond(c, "volume-comparison", func(req reports.Request) any { return h.svc.VolumeComparison(req) })
}

// Cancellations GET /reports/cancellations
func (h *ReportHandler) Cancellations(c *gin.Context) {
	h.respond(c, "cancellations", func(req reports.Request) any { return h.svc.Cancellations(req) })
}

// PaidSubscriptions GET /reports/paid-subscriptions
func (h *ReportHandler) PaidSubscriptions(c *gin.Context) {
	h.respond(c, "paid-subscriptions", func(req reports.Request) any { return h.svc.PaidSubscriptions(req) })
}

// Volume GET /reports/volume
func (h *ReportHandler) Volume(c *gin.Context) {
	h.respond(c, "volume", func(req reports.Request) any { return h.svc.Volume(req) })
}

// TypeBreakdown GET /reports/type-breakdown
func (h *ReportHandler) TypeBreakdown(c *gin.Context) {
	h.respond(c, "type-breakdown", func(req reports.Request) any { return h.svc.TypeBreakdown(req) })
}

// Packages GET /reports/packages
func (h *ReportHandler) Packages(c *gin.Context) {
	h.respond(c, "packages", func(req reports.Request) any { return h.svc.Packages(req) })
}

// Duration GET /reports/duration
func (h *ReportHandler) Duration(c *gin.Context) {
	h.respond(c, "duration", func(req reports.Request) any { return h.svc.Duration(req) })
}

// Retention GET /reports/retention
func (h *ReportHandler) Retention(c *gin.Context) {
	h.respond(c, "retention", func(req reports.Request) any { return h.svc.Retention(req) })
}

// TimeToFirst GET /reports/time-to-first
func (h *ReportHandler) TimeToFirst(c *gin.Context) {
	h.respond(c, "time-to-first", func(req reports.Request) any { return h.svc.TimeToFirst(req) })
}

// LocationVolume GET /reports/locations/volume
func (h *ReportHandler) LocationVolume(c *gin.Context) {
	h.respond(c, "locations-volume", func(req reports.Request) any { return h.svc.LocationVolume(req) })
}

// LocationRevenue GET /reports/locations/revenue
func (h *ReportHandler) LocationRevenue(c *gin.Context) {
	h.respond(c, "locations-revenue", func(req reports.Request) any { return h.svc.LocationRevenue(req) })
}

// LocationCancellations GET /reports/locations/cancellations
func (h *ReportHandler) LocationCancellations(c *gin.Context) {
	h.respond(c, "locations-cancellations", func(req reports.Request) any { return h.svc.LocationCancellations(req) })
}

// LocationPaid GET /reports/locations/paid
func (h *ReportHandler) LocationPaid(c *gin.Context) {
	h.respond(c, "locations-paid", func(req reports.Request) any { return h.svc.LocationPaid(req) })
}

// RevenueForecast GET /reports/forecast/revenue
func (h *ReportHandler) RevenueForecast(c *gin.Context) {
	h.respond(c, "forecast-revenue", func(req reports.Request) any { return h.svc.RevenueForecast(req) })
}

// VolumeForecast GET /reports/forecast/volume
func (h *ReportHandler) VolumeForecast(c *gin.Context) {
	h.respond(c, "forecast-volume", func(req reports.Request) any { return h.svc.VolumeForecast(req) })
}

// ChurnForecast GET /reports/forecast/churn
func (h *ReportHandler) ChurnForecast(c *gin.Context) {
	h.respond(c, "forecast-churn", func(req reports.Request) any { return h.svc.ChurnForecast(req) })
}

// Filters GET /filters
func (h *ReportHandler) Filters(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Options())
}
