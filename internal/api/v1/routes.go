package v1

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Batatao343/buser-simulador/internal/simulation"
	"github.com/Batatao343/buser-simulador/internal/store"
)

// ListRoutes rotas do dataset com os agregados de baseline
// GET /api/routes?datasetId=...
func (h *Handler) ListRoutes(c *gin.Context) {
	datasetID, ok := h.resolveDatasetID(c, c.Query("datasetId"))
	if !ok {
		return
	}

	cutoff := simulation.StartOfDay(time.Now())
	routes, err := h.store.ListRoutes(datasetID, cutoff)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "falha ao listar as rotas"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"datasetId": datasetID,
		"cutoff":    cutoff.Format("2006-01-02"),
		"routes":    routes,
	})
}

// ListTrips viagens do dataset com filtros opcionais
// GET /api/trips?datasetId=...&route=...&from=...&to=...&limit=...&offset=...
func (h *Handler) ListTrips(c *gin.Context) {
	datasetID, ok := h.resolveDatasetID(c, c.Query("datasetId"))
	if !ok {
		return
	}

	opts := store.TripQueryOptions{DatasetID: datasetID}

	if route := c.Query("route"); route != "" {
		opts.Route = &route
	}
	if from := c.Query("from"); from != "" {
		t, err := time.Parse("2006-01-02", from)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "parâmetro from inválido, use AAAA-MM-DD"})
			return
		}
		opts.From = &t
	}
	if to := c.Query("to"); to != "" {
		t, err := time.Parse("2006-01-02", to)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "parâmetro to inválido, use AAAA-MM-DD"})
			return
		}
		opts.To = &t
	}

	opts.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "500"))
	opts.Offset, _ = strconv.Atoi(c.DefaultQuery("offset", "0"))

	trips, err := h.store.GetTrips(opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "falha ao listar as viagens"})
		return
	}

	total, err := h.store.CountTrips(store.TripQueryOptions{
		DatasetID: datasetID,
		Route:     opts.Route,
		From:      opts.From,
		To:        opts.To,
	})
	if err != nil {
		total = len(trips)
	}

	c.JSON(http.StatusOK, gin.H{
		"datasetId": datasetID,
		"total":     total,
		"trips":     trips,
	})
}
