package handlers

import (
	"net/http"

	"github.com/ChiragNSundar/EmployerSubscriptionPortal/internal/kafka"
	"github.com/ChiragNSundar/EmployerSubscriptionPortal/internal/metrics"
	"github.com/ChiragNSundar/EmployerSubscriptionPortal/internal/reports"
	"github.com/ChiragNSundar/EmployerSubscriptionPortal/internal/snapshot"
	"github.com/ChiragNSundar/EmployerSubscriptionPortal/pkg/logger"
	"github.com/ChiragNSundar/EmployerSubscriptionPortal/pkg/res"
	"github.com/gin-gonic/gin"
)

// SnapshotHandler обслуживает метаданные и перезагрузку снапшота
type SnapshotHandler struct {
	store    *snapshot.Store
	svc      *reports.Service
	producer kafka.SnapshotProducer
	metrics  metrics.ReportMetrics
	log      *logger.Logger
}

// NewSnapshotHandler создает обработчик снапшота; producer может быть nil
func NewSnapshotHandler(store *snapshot.Store, svc *reports.Service, producer kafka.SnapshotProducer, m metrics.ReportMetrics, log *logger.Logger) *SnapshotHandler {
	return &SnapshotHandler{
		store:    store,
		svc:      svc,
		producer: producer,
		metrics:  m,
		log:      log,
	}
}

// GetSnapshot возвращает метаданные текущего снапшота
func (h *SnapshotHandler) GetSnapshot(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.Snapshot())
}

// Reload перечитывает данные из локального хранилища и публикует новый
// снапшот. Неудача оставляет опубликованным пустой снапшот; дашборд
// продолжает отвечать.
func (h *SnapshotHandler) Reload(c *gin.Context) {
	snap, err := h.store.Reload(c.Request.Context())
	if err != nil {
		h.metrics.IncReloadFailure()
		h.publishEvent(c, snap, err)
		res.JsonResponse(c.Writer, res.ErrorResponse{
			Error:     "Snapshot reload failed: " + err.Error(),
			ErrorCode: http.StatusBadGateway,
		}, http.StatusBadGateway)
		return
	}

	h.metrics.IncReloadSuccess()
	h.metrics.SetSnapshotRecords(len(snap.Records), snap.Dropped)
	h.publishEvent(c, snap, nil)
	c.JSON(http.StatusOK, h.svc.Snapshot())
}

func (h *SnapshotHandler) publishEvent(c *gin.Context, snap *snapshot.Snapshot, reloadErr error) {
	if h.producer == nil || snap == nil {
		return
	}

	event := kafka.SnapshotEvent{
		SnapshotID: snap.ID,
		Source:     snap.Source,
		Records:    len(snap.Records),
		Dropped:    snap.Dropped,
	}

	var err error
	if reloadErr != nil {
		event.Error = reloadErr.Error()
		err = h.producer.PublishFailed(c.Request.Context(), event)
	} else {
		err = h.producer.PublishRefreshed(c.Request.Context(), event)
	}
	if err != nil {
		h.log.Warnw("Failed to publish snapshot event", "snapshotID", snap.ID, "error", err)
	}
}
