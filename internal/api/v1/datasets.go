package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ListDatasets datasets importados
// GET /api/datasets
func (h *Handler) ListDatasets(c *gin.Context) {
	datasets, err := h.store.ListDatasets()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "falha ao listar os datasets"})
		return
	}

	current, _ := h.store.GetCurrentDatasetID()

	c.JSON(http.StatusOK, gin.H{
		"datasets": datasets,
		"current":  current,
	})
}

// SelectDatasetRequest seleção do dataset corrente
type SelectDatasetRequest struct {
	DatasetID string `json:"datasetId" binding:"required"`
}

// SelectDataset define o dataset corrente da sessão
// POST /api/datasets/select
func (h *Handler) SelectDataset(c *gin.Context) {
	var req SelectDatasetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "formato de requisição inválido"})
		return
	}

	if _, err := h.store.GetDataset(req.DatasetID); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "dataset não encontrado"})
		return
	}

	if err := h.store.SetCurrentDatasetID(req.DatasetID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "falha ao selecionar o dataset"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "dataset selecionado", "datasetId": req.DatasetID})
}

// DeleteDataset remove um dataset e tudo que depende dele
// DELETE /api/datasets/:id
func (h *Handler) DeleteDataset(c *gin.Context) {
	id := c.Param("id")

	if _, err := h.store.GetDataset(id); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "dataset não encontrado"})
		return
	}

	if err := h.store.DeleteDataset(id); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "falha ao remover o dataset"})
		return
	}

	// Limpa a seleção corrente quando ela apontava para o removido
	if current, _ := h.store.GetCurrentDatasetID(); current == id {
		_ = h.store.SetCurrentDatasetID("")
	}

	c.JSON(http.StatusOK, gin.H{"message": "dataset removido"})
}
