package v1

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Batatao343/buser-simulador/internal/importer"
)

// Import importa uma planilha de viagens (resposta SSE)
// POST /api/import
func (h *Handler) Import(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "formulário inválido"})
		return
	}

	files := form.File["file"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "arquivo não enviado"})
		return
	}

	uploadedFile := files[0]

	tempDir := os.TempDir()
	tempFilePath := filepath.Join(tempDir, fmt.Sprintf("simulador_import_%d_%s", time.Now().Unix(), uploadedFile.Filename))

	if err := c.SaveUploadedFile(uploadedFile, tempFilePath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "falha ao salvar o arquivo"})
		return
	}
	defer os.Remove(tempFilePath)

	clearExisting := c.DefaultPostForm("clearExisting", "false") == "true"

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	coordinator := importer.NewCoordinator(h.store)

	progressChan := coordinator.Import(importer.ImportOptions{
		FilePath:         tempFilePath,
		OriginalFilename: uploadedFile.Filename,
		ClearExisting:    clearExisting,
		SelectDataset:    true,
	})

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming não suportado"})
		return
	}

	for event := range progressChan {
		eventData, err := json.Marshal(event)
		if err != nil {
			continue
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", eventData)
		flusher.Flush()
	}
}

// GenerateSample gera um dataset sintético de demonstração
// POST /api/sample
func (h *Handler) GenerateSample(c *gin.Context) {
	routes, _ := strconv.Atoi(c.DefaultQuery("routes", "100"))
	tripsPerRoute, _ := strconv.Atoi(c.DefaultQuery("tripsPerRoute", "5"))

	dataset, err := importer.GenerateSample(h.store, importer.SampleOptions{
		Routes:        routes,
		TripsPerRoute: tripsPerRoute,
		SelectDataset: true,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "dados de exemplo gerados",
		"dataset": dataset,
	})
}
