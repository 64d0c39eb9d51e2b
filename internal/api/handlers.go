package api

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/ety001/cryptotoken-converter/internal/coinhandler"
	"github.com/ety001/cryptotoken-converter/internal/config"
	"github.com/ety001/cryptotoken-converter/internal/models"
	"github.com/ety001/cryptotoken-converter/internal/storage"
	"github.com/gin-gonic/gin"
)

const healthTimeout = 10 * time.Second

// Handler handles API requests
type Handler struct {
	settings  *config.Settings
	handlers  []coinhandler.Handler
	coinTypes []models.CoinType
	notices   storage.NoticeStore
}

// NewHandler creates a new API handler. notices may be nil.
func NewHandler(settings *config.Settings, handlers []coinhandler.Handler, notices storage.NoticeStore) *Handler {
	return &Handler{
		settings:  settings,
		handlers:  handlers,
		coinTypes: coinhandler.CoinTypes(config.CoinTypes(), handlers),
		notices:   notices,
	}
}

// Health handles GET /api/v1/health
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetSettings handles GET /api/v1/settings
func (h *Handler) GetSettings(c *gin.Context) {
	c.JSON(http.StatusOK, h.settings.Public(h.coinTypes))
}

// GetCoinTypes handles GET /api/v1/coin_types
func (h *Handler) GetCoinTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"coin_types": h.coinTypes})
}

// GetHandlers handles GET /api/v1/handlers
func (h *Handler) GetHandlers(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), healthTimeout)
	defer cancel()

	statuses := make([]models.HandlerStatus, len(h.handlers))
	var wg sync.WaitGroup
	for i, handler := range h.handlers {
		wg.Add(1)
		go func(i int, handler coinhandler.Handler) {
			defer wg.Done()
			status := models.HandlerStatus{Name: handler.Name(), Healthy: true}
			if err := handler.Health(ctx); err != nil {
				status.Healthy = false
				status.Error = err.Error()
			}
			statuses[i] = status
		}(i, handler)
	}
	wg.Wait()

	c.JSON(http.StatusOK, gin.H{"handlers": statuses})
}

// GetLowFunds handles GET /api/v1/lowfunds
func (h *Handler) GetLowFunds(c *gin.Context) {
	if h.notices == nil {
		c.JSON(http.StatusOK, gin.H{"notices": []models.LowFundsNotice{}})
		return
	}

	notices, err := h.notices.ListNotices(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"notices": notices})
}
