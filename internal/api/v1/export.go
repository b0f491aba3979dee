package v1

import (
	"bytes"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Batatao343/buser-simulador/internal/exporter"
	"github.com/Batatao343/buser-simulador/internal/metrics"
)

// ExportRequest requisição de exportação
type ExportRequest struct {
	DatasetID       string   `json:"datasetId"`
	CancelledRoutes []string `json:"cancelledRoutes"`
	CashFactor      *float64 `json:"cashFactor"`
}

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func buildExportContentDisposition() string {
	filename := fmt.Sprintf("simulacao_%s.xlsx", time.Now().Format("2006-01-02"))
	return fmt.Sprintf(`attachment; filename="%s"; filename*=UTF-8''%s`, filename, url.PathEscape(filename))
}

// Export exporta a planilha com o resultado da simulação
// POST /api/export
func (h *Handler) Export(c *gin.Context) {
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

	exp := exporter.NewExporter(h.store)
	file, err := exp.Export(exporter.ExportOptions{
		DatasetID:       datasetID,
		CancelledRoutes: req.CancelledRoutes,
		CashFactor:      cashFactor,
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "falha na exportação: " + err.Error()})
		return
	}
	defer file.Close()

	var buf bytes.Buffer
	if err := file.Write(&buf); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "falha ao escrever a planilha"})
		return
	}

	metrics.ExportsTotal.Inc()

	c.Header("Content-Disposition", buildExportContentDisposition())
	c.Data(http.StatusOK, xlsxContentType, buf.Bytes())
}
