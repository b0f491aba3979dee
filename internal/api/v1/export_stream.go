package v1

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Batatao343/buser-simulador/internal/exporter"
	"github.com/Batatao343/buser-simulador/internal/metrics"
)

type exportProgressEvent struct {
	Type      string      `json:"type"`
	Message   string      `json:"message"`
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// ExportStream exporta com progresso via SSE e devolve a URL de download
// POST /api/export/stream
func (h *Handler) ExportStream(c *gin.Context) {
	var req ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "formato de requisição inválido"})
		return
	}

	datasetID, ok := h.resolveDatasetID(c, req.DatasetID)
	if !ok {
		return
	}

	cashFactor, ok := h.resolveCashFactor(c, req.CashFactor)
	if !ok {
		return
	}

	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "streaming não suportado"})
		return
	}

	send := func(event exportProgressEvent) {
		b, err := json.Marshal(event)
		if err != nil {
			return
		}
		fmt.Fprintf(c.Writer, "data: %s\n\n", b)
		flusher.Flush()
	}

	send(exportProgressEvent{
		Type:    "start",
		Message: "Iniciando exportação",
		Data: map[string]any{
			"datasetId":       datasetID,
			"cancelledRoutes": req.CancelledRoutes,
		},
		Timestamp: time.Now(),
	})

	exp := exporter.NewExporter(h.store)

	lastPercent := -1
	progressFn := func(p exporter.ProgressEvent) {
		if p.Percent == lastPercent {
			return
		}
		lastPercent = p.Percent
		send(exportProgressEvent{
			Type:      "progress",
			Message:   p.Message,
			Data:      map[string]any{"stage": p.Stage, "percent": p.Percent},
			Timestamp: time.Now(),
		})
	}

	file, err := exp.ExportWithProgress(exporter.ExportOptions{
		DatasetID:       datasetID,
		CancelledRoutes: req.CancelledRoutes,
		CashFactor:      cashFactor,
	}, progressFn)
	if err != nil {
		send(exportProgressEvent{
			Type:      "error",
			Message:   "Falha na exportação: " + err.Error(),
			Data:      map[string]any{},
			Timestamp: time.Now(),
		})
		return
	}
	defer file.Close()

	tempPath := filepath.Join(os.TempDir(), fmt.Sprintf("simulador_export_%d_%d.xlsx", time.Now().UnixNano(), os.Getpid()))
	if err := file.SaveAs(tempPath); err != nil {
		send(exportProgressEvent{
			Type:      "error",
			Message:   "Falha ao gravar o arquivo exportado: " + err.Error(),
			Data:      map[string]any{},
			Timestamp: time.Now(),
		})
		_ = os.Remove(tempPath)
		return
	}

	metrics.ExportsTotal.Inc()

	token := h.downloads.put(tempPath, datasetID, 10*time.Minute)
	downloadURL := fmt.Sprintf("/api/export/download/%s", token)

	send(exportProgressEvent{
		Type:    "done",
		Message: "Exportação concluída",
		Data: map[string]any{
			"percent":     100,
			"downloadUrl": downloadURL,
		},
		Timestamp: time.Now(),
	})
}

// DownloadExport download único do arquivo exportado
// GET /api/export/download/:token
func (h *Handler) DownloadExport(c *gin.Context) {
	token := c.Param("token")
	if token == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "token ausente"})
		return
	}

	item, ok := h.downloads.get(token)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "link de download expirado"})
		return
	}

	if _, err := os.Stat(item.filePath); err != nil {
		h.downloads.delete(token)
		c.JSON(http.StatusNotFound, gin.H{"error": "arquivo exportado não existe"})
		return
	}

	c.Header("Content-Disposition", buildExportContentDisposition())
	c.Header("Content-Type", xlsxContentType)
	c.File(item.filePath)

	h.downloads.delete(token)
	_ = os.Remove(item.filePath)
}
