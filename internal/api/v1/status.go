package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Batatao343/buser-simulador/internal/store"
)

// StatusResponse estado do sistema
type StatusResponse struct {
	Initialized    bool   `json:"initialized"`    // existe dataset importado
	DatasetID      string `json:"datasetId"`      // dataset corrente
	Filename       string `json:"filename"`       // arquivo de origem
	TotalTrips     int    `json:"totalTrips"`     // viagens no dataset
	TotalRoutes    int    `json:"totalRoutes"`    // rotas distintas
	StartDate      string `json:"startDate"`      // início do período
	EndDate        string `json:"endDate"`        // fim do período
	LastImportTime string `json:"lastImportTime"` // momento da importação
}

// GetStatus estado do sistema
// GET /api/status
func (h *Handler) GetStatus(c *gin.Context) {
	datasetID, err := h.store.GetCurrentDatasetID()
	if err != nil || datasetID == "" {
		c.JSON(http.StatusOK, StatusResponse{Initialized: false})
		return
	}

	dataset, err := h.store.GetDataset(datasetID)
	if err != nil {
		c.JSON(http.StatusOK, StatusResponse{Initialized: false})
		return
	}

	total, err := h.store.CountTrips(store.TripQueryOptions{DatasetID: datasetID})
	if err != nil {
		total = dataset.TotalRows
	}

	resp := StatusResponse{
		Initialized:    total > 0,
		DatasetID:      dataset.ID,
		Filename:       dataset.Filename,
		TotalTrips:     total,
		TotalRoutes:    dataset.RouteCount,
		LastImportTime: dataset.ImportedAt.Format("2006-01-02 15:04:05"),
	}
	if !dataset.StartDate.IsZero() {
		resp.StartDate = dataset.StartDate.Format("2006-01-02")
	}
	if !dataset.EndDate.IsZero() {
		resp.EndDate = dataset.EndDate.Format("2006-01-02")
	}

	c.JSON(http.StatusOK, resp)
}
