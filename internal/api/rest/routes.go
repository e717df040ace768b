package rest

import (
	"github.com/ChiragNSundar/EmployerSubscriptionPortal/internal/api/rest/handlers"
	restmw "github.com/ChiragNSundar/EmployerSubscriptionPortal/internal/api/rest/middleware"
	"github.com/ChiragNSundar/EmployerSubscriptionPortal/internal/middleware"
	"github.com/ChiragNSundar/EmployerSubscriptionPortal/pkg/logger"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Handlers обработчики, которые монтирует роутер
type Handlers struct {
	Reports  *handlers.ReportHandler
	Snapshot *handlers.SnapshotHandler
	Health   *handlers.HealthHandler
	Auth     *middleware.JWTMiddleware
}

// SetupRouter настраивает маршрутизатор Gin с маршрутами и middleware
func SetupRouter(log *logger.Logger, registry *prometheus.Registry, h Handlers) *gin.Engine {
	r := gin.New()

	// Подключение middleware
	r.Use(restmw.LoggerMiddleware(log))
	r.Use(gin.Recovery())

	// Endpoint для проверки работоспособности сервиса
	r.GET("/health", h.Health.HealthCheck)

	// Prometheus метрики
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	v1 := r.Group("/api/v1")
	{
		v1.GET("/filters", h.Reports.Filters)

		// Снапшот: чтение открыто, перезагрузка только для админского токена
		v1.GET("/snapshot", h.Snapshot.GetSnapshot)
		v1.POST("/snapshot/reload", h.Auth.RequireAuth(middleware.ScopeAdmin), h.Snapshot.Reload)

		// Страницы дашборда
		rp := v1.Group("/reports")
		{
			rp.GET("/daily-overview", h.Reports.DailyOverview)
			rp.GET("/monthly-overview", h.Reports.MonthlyOverview)
			rp.GET("/revenue", h.Reports.Revenue)
			rp.GET("/daily-revenue", h.Reports.DailyRevenue)
			rp.GET("/monthly-revenue", h.Reports.MonthlyRevenue)
			rp.GET("/revenue-comparison", h.Reports.RevenueComparison)
			rp.GET("/volume-comparison", h.Reports.VolumeComparison)
			rp.GET("/cancellations", h.Reports.Cancellations)
			rp.GET("/paid-subscriptions", h.Reports.PaidSubscriptions)
			rp.GET("/volume", h.Reports.Volume)
			rp.GET("/type-breakdown", h.Reports.TypeBreakdown)
			rp.GET("/packages", h.Reports.Packages)
			rp.GET("/duration", h.Reports.Duration)
			rp.GET("/retention", h.Reports.Retention)
			rp.GET("/time-to-first", h.Reports.TimeToFirst)
			rp.POST("/query", h.Reports.Query)

			locations := rp.Group("/locations")
			{
				locations.GET("/volume", h.Reports.LocationVolume)
				locations.GET("/revenue", h.Reports.LocationRevenue)
				locations.GET("/cancellations", h.Reports.LocationCancellations)
				locations.GET("/paid", h.Reports.LocationPaid)
			}

			forecasts := rp.Group("/forecast")
			{
				forecasts.GET("/revenue", h.Reports.RevenueForecast)
				forecasts.GET("/volume", h.Reports.VolumeForecast)
				forecasts.GET("/churn", h.Reports.ChurnForecast)
			}
		}
	}

	return r
}
