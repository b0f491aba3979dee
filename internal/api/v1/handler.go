// Package v1 API HTTP do simulador
package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Batatao343/buser-simulador/internal/config"
	"github.com/Batatao343/buser-simulador/internal/store"
)

// Handler processador da API v1
type Handler struct {
	store     *store.Store
	cfg       *config.AppConfig
	downloads *exportDownloadStore
}

// NewHandler cria o processador da API
func NewHandler(store *store.Store, cfg *config.AppConfig) *Handler {
	return &Handler{
		store:     store,
		cfg:       cfg,
		downloads: newExportDownloadStore(),
	}
}

// RegisterRoutes registra as rotas da API
func (h *Handler) RegisterRoutes(router *gin.RouterGroup) {
	// Estado do sistema
	router.GET("/status", h.GetStatus)

	// Configuração
	router.GET("/config", h.GetConfig)
	router.PATCH("/config", h.UpdateConfig)

	// Importação de dados
	router.POST("/import", h.Import)
	router.POST("/sample", h.GenerateSample)

	// Datasets
	router.GET("/datasets", h.ListDatasets)
	router.POST("/datasets/select", h.SelectDataset)
	router.DELETE("/datasets/:id", h.DeleteDataset)

	// Rotas e viagens do dataset corrente
	router.GET("/routes", h.ListRoutes)
	router.GET("/trips", h.ListTrips)

	// Simulação
	router.POST("/simulate", h.Simulate)
	router.POST("/series", h.BuildSeries)

	// Cenários salvos
	router.GET("/scenarios", h.ListScenarios)
	router.POST("/scenarios", h.CreateScenario)
	router.GET("/scenarios/:id", h.GetScenario)
	router.DELETE("/scenarios/:id", h.DeleteScenario)
	router.POST("/scenarios/compare", h.CompareScenarios)

	// Exportação
	router.POST("/export", h.Export)
	router.POST("/export/stream", h.ExportStream)
	router.GET("/export/download/:token", h.DownloadExport)
}

// resolveDatasetID devolve o dataset informado ou o corrente da sessão
func (h *Handler) resolveDatasetID(c *gin.Context, requested string) (string, bool) {
	if requested != "" {
		return requested, true
	}
	id, err := h.store.GetCurrentDatasetID()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "falha ao obter o dataset corrente"})
		return "", false
	}
	if id == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nenhum dataset importado; envie uma planilha primeiro"})
		return "", false
	}
	return id, true
}
