package v1

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Batatao343/buser-simulador/internal/calculator"
	"github.com/Batatao343/buser-simulador/internal/metrics"
	"github.com/Batatao343/buser-simulador/internal/simulation"
	"github.com/Batatao343/buser-simulador/internal/store"
)

// SimulateRequest requisição de simulação
type SimulateRequest struct {
	DatasetID       string   `json:"datasetId"`
	CancelledRoutes []string `json:"cancelledRoutes"`
	CashFactor      *float64 `json:"cashFactor"`   // nil usa a configuração
	Cutoff          string   `json:"cutoff"`       // AAAA-MM-DD, vazio usa hoje
	IncludeTrips    bool     `json:"includeTrips"` // inclui as viagens simuladas na resposta
}

// SimulateResponse resultado da simulação
type SimulateResponse struct {
	DatasetID       string                      `json:"datasetId"`
	Cutoff          string                      `json:"cutoff"`
	CashFactor      float64                     `json:"cashFactor"`
	Baseline        simulation.Totals           `json:"baseline"`
	Simulated       simulation.Totals           `json:"simulated"`
	Delta           simulation.Totals           `json:"delta"`
	CancelledRoutes []string                    `json:"cancelledRoutes"`
	UnknownRoutes   []string                    `json:"unknownRoutes"`
	CancelledTrips  int                         `json:"cancelledTrips"`
	Indicators      []calculator.IndicatorGroup `json:"indicators"`
	Trips           []simulation.SimulatedTrip  `json:"trips,omitempty"`
}

// resolveCashFactor aplica o padrão da configuração e valida o intervalo
func (h *Handler) resolveCashFactor(c *gin.Context, requested *float64) (float64, bool) {
	cashFactor := h.effectiveConfig().CancelCashFactor
	if requested != nil {
		cashFactor = *requested
	}
	if cashFactor < 0 || cashFactor > 1 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "cashFactor deve estar entre 0 e 1"})
		return 0, false
	}
	return cashFactor, true
}

// runSimulation executa a simulação para uma requisição já validada
func (h *Handler) runSimulation(c *gin.Context, req SimulateRequest) (*simulation.Result, string, bool) {
	datasetID, ok := h.resolveDatasetID(c, req.DatasetID)
	if !ok {
		return nil, "", false
	}

	cutoff := simulation.StartOfDay(time.Now())
	if req.Cutoff != "" {
		t, err := time.Parse("2006-01-02", req.Cutoff)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "cutoff inválido, use AAAA-MM-DD"})
			return nil, "", false
		}
		cutoff = t
	}

	cashFactor, ok := h.resolveCashFactor(c, req.CashFactor)
	if !ok {
		return nil, "", false
	}

	trips, err := h.store.GetTrips(store.TripQueryOptions{DatasetID: datasetID})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "falha ao ler as viagens"})
		return nil, "", false
	}
	if len(trips) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "dataset sem viagens"})
		return nil, "", false
	}

	start := time.Now()
	result := simulation.Run(trips, req.CancelledRoutes, simulation.Options{
		Cutoff:     cutoff,
		CashFactor: cashFactor,
	})
	metrics.SimulationDuration.Observe(time.Since(start).Seconds())
	metrics.SimulationsTotal.Inc()

	return result, datasetID, true
}

// Simulate simula o cancelamento de rotas
// POST /api/simulate
func (h *Handler) Simulate(c *gin.Context) {
	var req SimulateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "formato de requisição inválido"})
		return
	}

	result, datasetID, ok := h.runSimulation(c, req)
	if !ok {
		return
	}

	routes, err := h.store.ListRoutes(datasetID, result.Cutoff)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "falha ao listar as rotas"})
		return
	}

	resp := SimulateResponse{
		DatasetID:       datasetID,
		Cutoff:          result.Cutoff.Format("2006-01-02"),
		CashFactor:      result.CashFactor,
		Baseline:        result.Baseline,
		Simulated:       result.Simulated,
		Delta:           result.Delta,
		CancelledRoutes: result.CancelledRoutes,
		UnknownRoutes:   result.UnknownRoutes,
		CancelledTrips:  result.CancelledTrips,
		Indicators:      calculator.BuildGroups(result, routes),
	}
	if req.IncludeTrips {
		resp.Trips = result.Trips
	}

	c.JSON(http.StatusOK, resp)
}
