package v1

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/Batatao343/buser-simulador/internal/model"
	"github.com/Batatao343/buser-simulador/internal/simulation"
	"github.com/Batatao343/buser-simulador/internal/store"
)

// ListScenarios cenários salvos do dataset
// GET /api/scenarios?datasetId=...
func (h *Handler) ListScenarios(c *gin.Context) {
	datasetID, ok := h.resolveDatasetID(c, c.Query("datasetId"))
	if !ok {
		return
	}

	scenarios, err := h.store.ListScenarios(datasetID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "falha ao listar os cenários"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"datasetId": datasetID, "scenarios": scenarios})
}

// CreateScenarioRequest criação de cenário
type CreateScenarioRequest struct {
	Name            string   `json:"name" binding:"required"`
	DatasetID       string   `json:"datasetId"`
	CancelledRoutes []string `json:"cancelledRoutes"`
	CashFactor      *float64 `json:"cashFactor"`
}

// CreateScenario salva um cenário de cancelamento com o snapshot dos totais
// POST /api/scenarios
func (h *Handler) CreateScenario(c *gin.Context) {
	var req CreateScenarioRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "formato de requisição inválido"})
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nome do cenário é obrigatório"})
		return
	}

	result, datasetID, ok := h.runSimulation(c, SimulateRequest{
		DatasetID:       req.DatasetID,
		CancelledRoutes: req.CancelledRoutes,
		CashFactor:      req.CashFactor,
	})
	if !ok {
		return
	}

	scenario := &model.Scenario{
		ID:              uuid.NewString(),
		DatasetID:       datasetID,
		Name:            strings.TrimSpace(req.Name),
		CancelledRoutes: result.CancelledRoutes,
		CashFactor:      result.CashFactor,
		BaselineGMV:     result.Baseline.GMV,
		SimulatedGMV:    result.Simulated.GMV,
		BaselineCash:    result.Baseline.Cash,
		SimulatedCash:   result.Simulated.Cash,
	}

	if err := h.store.InsertScenario(scenario); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "falha ao salvar o cenário"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "cenário salvo", "scenario": scenario})
}

// GetScenario detalhe de um cenário
// GET /api/scenarios/:id
func (h *Handler) GetScenario(c *gin.Context) {
	scenario, err := h.store.GetScenario(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "cenário não encontrado"})
		return
	}
	c.JSON(http.StatusOK, scenario)
}

// DeleteScenario remove um cenário salvo
// DELETE /api/scenarios/:id
func (h *Handler) DeleteScenario(c *gin.Context) {
	if err := h.store.DeleteScenario(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "cenário não encontrado"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "cenário removido"})
}

// CompareScenariosRequest comparação de cenários
type CompareScenariosRequest struct {
	ScenarioIDs []string `json:"scenarioIds" binding:"required"`
}

// ScenarioComparison linha da comparação, com os totais recalculados
type ScenarioComparison struct {
	Scenario  *model.Scenario   `json:"scenario"`
	Baseline  simulation.Totals `json:"baseline"`
	Simulated simulation.Totals `json:"simulated"`
	Delta     simulation.Totals `json:"delta"`
}

// CompareScenarios recalcula e compara cenários salvos lado a lado
// POST /api/scenarios/compare
func (h *Handler) CompareScenarios(c *gin.Context) {
	var req CompareScenariosRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "formato de requisição inválido"})
		return
	}
	if len(req.ScenarioIDs) < 2 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "informe ao menos dois cenários"})
		return
	}

	cutoff := simulation.StartOfDay(time.Now())
	tripCache := map[string][]*model.RouteTrip{}

	comparisons := make([]ScenarioComparison, 0, len(req.ScenarioIDs))
	for _, id := range req.ScenarioIDs {
		scenario, err := h.store.GetScenario(id)
		if err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "cenário não encontrado: " + id})
			return
		}

		trips, ok := tripCache[scenario.DatasetID]
		if !ok {
			trips, err = h.store.GetTrips(store.TripQueryOptions{DatasetID: scenario.DatasetID})
			if err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "falha ao ler as viagens"})
				return
			}
			tripCache[scenario.DatasetID] = trips
		}

		result := simulation.Run(trips, scenario.CancelledRoutes, simulation.Options{
			Cutoff:     cutoff,
			CashFactor: scenario.CashFactor,
		})

		comparisons = append(comparisons, ScenarioComparison{
			Scenario:  scenario,
			Baseline:  result.Baseline,
			Simulated: result.Simulated,
			Delta:     result.Delta,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"cutoff":      cutoff.Format("2006-01-02"),
		"comparisons": comparisons,
	})
}
