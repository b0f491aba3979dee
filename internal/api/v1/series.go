package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Batatao343/buser-simulador/internal/simulation"
	"github.com/Batatao343/buser-simulador/internal/store"
)

// SeriesRequest requisição das séries do gráfico
type SeriesRequest struct {
	SimulateRequest

	// Overrides opcionais da janela de checagem e das metas
	CheckStart string   `json:"checkStart"` // AAAA-MM-DD
	CheckEnd   string   `json:"checkEnd"`
	GMVTarget  *float64 `json:"gmvTarget"`
	CashTarget *float64 `json:"cashTarget"`
}

// BuildSeries séries acumuladas do cenário base e do simulado
// POST /api/series
func (h *Handler) BuildSeries(c *gin.Context) {
	var req SeriesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "formato de requisição inválido"})
		return
	}

	result, datasetID, ok := h.runSimulation(c, req.SimulateRequest)
	if !ok {
		return
	}

	cfg := h.effectiveConfig()
	now := time.Now()

	opts := simulation.SeriesOptions{
		CheckStart: now.Add(time.Duration(cfg.CheckWindowStartHours) * time.Hour),
		CheckEnd:   now.Add(time.Duration(cfg.CheckWindowEndHours) * time.Hour),
		GMVTarget:  cfg.GMVMonthlyTarget,
		CashTarget: cfg.CashMonthlyTarget,
	}

	if req.CheckStart != "" {
		t, err := time.Parse("2006-01-02", req.CheckStart)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "checkStart inválido, use AAAA-MM-DD"})
			return
		}
		opts.CheckStart = t
	}
	if req.CheckEnd != "" {
		t, err := time.Parse("2006-01-02", req.CheckEnd)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "checkEnd inválido, use AAAA-MM-DD"})
			return
		}
		opts.CheckEnd = t
	}
	if req.GMVTarget != nil {
		opts.GMVTarget = *req.GMVTarget
	}
	if req.CashTarget != nil {
		opts.CashTarget = *req.CashTarget
	}

	trips, err := h.store.GetTrips(store.TripQueryOptions{DatasetID: datasetID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "falha ao ler as viagens"})
		return
	}

	series := simulation.BuildSeries(trips, result, opts)

	c.JSON(http.StatusOK, gin.H{
		"datasetId": datasetID,
		"series":    series,
	})
}
