package handlers

import (
	"net/http"
	"time"

	"github.com/ChiragNSundar/EmployerSubscriptionPortal/internal/snapshot"
	"github.com/gin-gonic/gin"
)

// HealthHandler проверка работоспособности сервиса
type HealthHandler struct {
	store *snapshot.Store
}

// NewHealthHandler создает обработчик проверки работоспособности
func NewHealthHandler(store *snapshot.Store) *HealthHandler {
	return &HealthHandler{store: store}
}

// HealthCheck статус сервиса и состояние опубликованного снапшота
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	snap := h.store.Current()
	c.JSON(http.StatusOK, gin.H{
		"status":             "OK",
		"time":               time.Now().Format(time.RFC3339),
		"snapshot_records":   len(snap.Records),
		"snapshot_loaded_at": snap.LoadedAt.Format(time.RFC3339),
	})
}
