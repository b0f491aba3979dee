package importer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/Batatao343/buser-simulador/internal/metrics"
	"github.com/Batatao343/buser-simulador/internal/model"
	"github.com/Batatao343/buser-simulador/internal/parser"
	"github.com/Batatao343/buser-simulador/internal/store"
)

// Coordinator coordenador da importação de planilhas
type Coordinator struct {
	store      *store.Store
	recognizer *parser.SheetRecognizer
}

// NewCoordinator cria o coordenador
func NewCoordinator(store *store.Store) *Coordinator {
	return &Coordinator{
		store:      store,
		recognizer: parser.NewSheetRecognizer(),
	}
}

// ImportOptions opções de importação
type ImportOptions struct {
	FilePath         string
	OriginalFilename string
	ClearExisting    bool // remove os datasets anteriores
	SelectDataset    bool // torna o novo dataset o corrente da sessão
}

// ProgressEvent evento de progresso da importação
type ProgressEvent struct {
	Type      string      `json:"type"`    // start/info/sheet_start/sheet_done/warning/error/done
	Message   string      `json:"message"` // mensagem do evento
	Data      interface{} `json:"data"`
	Timestamp time.Time   `json:"timestamp"`
}

// importContext contexto de uma importação em andamento
type importContext struct {
	opts         ImportOptions
	dataset      *model.Dataset
	report       *parser.ImportReport
	progressChan chan ProgressEvent
	startTime    time.Time
}

// Import executa a importação e devolve o canal de progresso
func (c *Coordinator) Import(opts ImportOptions) <-chan ProgressEvent {
	progressChan := make(chan ProgressEvent, 100)

	go func() {
		defer close(progressChan)
		c.doImport(opts, progressChan)
	}()

	return progressChan
}

func (c *Coordinator) doImport(opts ImportOptions, progressChan chan ProgressEvent) {
	startTime := time.Now()

	filename := opts.OriginalFilename
	if filename == "" {
		filename = filepath.Base(opts.FilePath)
	}

	ctx := &importContext{
		opts:         opts,
		progressChan: progressChan,
		startTime:    startTime,
		dataset: &model.Dataset{
			ID:       uuid.NewString(),
			Filename: filename,
		},
		report: &parser.ImportReport{
			Filename: filename,
			Sheets:   []parser.ParseResult{},
		},
	}
	ctx.report.DatasetID = ctx.dataset.ID

	c.sendProgress(progressChan, ProgressEvent{
		Type:      "start",
		Message:   "Iniciando importação da planilha",
		Data:      map[string]string{"filename": filename, "datasetId": ctx.dataset.ID},
		Timestamp: time.Now(),
	})

	var fileSize int64
	if info, err := os.Stat(opts.FilePath); err == nil {
		fileSize = info.Size()
	}
	logID, err := c.store.CreateImportLog(ctx.dataset.ID, filename, fileSize)
	if err != nil {
		c.fail(ctx, logID, fmt.Sprintf("falha ao registrar importação: %v", err))
		return
	}

	if opts.ClearExisting {
		if err := c.store.DeleteAllDatasets(); err != nil {
			c.sendProgress(progressChan, ProgressEvent{
				Type:      "warning",
				Message:   fmt.Sprintf("Falha ao limpar dados anteriores: %v", err),
				Timestamp: time.Now(),
			})
		}
	}

	if err := c.store.InsertDataset(ctx.dataset); err != nil {
		c.fail(ctx, logID, fmt.Sprintf("falha ao criar dataset: %v", err))
		return
	}

	if strings.EqualFold(filepath.Ext(filename), ".csv") {
		c.importCSV(ctx)
	} else {
		c.importWorkbook(ctx)
	}

	if ctx.report.ImportedRows == 0 {
		metrics.ImportFailures.Inc()
		c.fail(ctx, logID, "nenhuma linha válida importada")
		return
	}

	// Consolida período e contagem de rotas do dataset
	if err := c.finalizeDataset(ctx); err != nil {
		c.sendProgress(progressChan, ProgressEvent{
			Type:      "warning",
			Message:   fmt.Sprintf("Falha ao consolidar o dataset: %v", err),
			Timestamp: time.Now(),
		})
	}

	if ctx.opts.SelectDataset {
		if err := c.store.SetCurrentDatasetID(ctx.dataset.ID); err != nil {
			c.sendProgress(progressChan, ProgressEvent{
				Type:      "warning",
				Message:   fmt.Sprintf("Falha ao selecionar o dataset: %v", err),
				Timestamp: time.Now(),
			})
		}
	}

	ctx.report.Duration = time.Since(startTime)

	_ = c.store.CompleteImportLog(logID,
		ctx.report.TotalSheets, ctx.report.TotalRows,
		ctx.report.ImportedRows, ctx.report.ErrorRows,
		"completed", "")

	metrics.ImportsTotal.Inc()
	metrics.ImportRowsTotal.Add(float64(ctx.report.ImportedRows))

	c.sendProgress(progressChan, ProgressEvent{
		Type:      "done",
		Message:   "Importação concluída",
		Data:      ctx.report,
		Timestamp: time.Now(),
	})
}

// importWorkbook processa um arquivo XLSX aba a aba
func (c *Coordinator) importWorkbook(ctx *importContext) {
	file, err := excelize.OpenFile(ctx.opts.FilePath)
	if err != nil {
		c.recordSheetResult(ctx, parser.ParseResult{
			SheetName: ctx.report.Filename,
			SheetType: parser.SheetTypeUnknown,
			Status:    "error",
			Errors:    []string{fmt.Sprintf("falha ao abrir o arquivo: %v", err)},
		})
		c.sendProgress(ctx.progressChan, ProgressEvent{
			Type:      "error",
			Message:   fmt.Sprintf("Falha ao abrir o arquivo: %v", err),
			Timestamp: time.Now(),
		})
		return
	}
	defer file.Close()

	sheetList := file.GetSheetList()
	ctx.report.TotalSheets = len(sheetList)

	c.sendProgress(ctx.progressChan, ProgressEvent{
		Type:      "info",
		Message:   fmt.Sprintf("Encontradas %d abas", len(sheetList)),
		Data:      map[string]interface{}{"total_sheets": len(sheetList)},
		Timestamp: time.Now(),
	})

	for _, sheetName := range sheetList {
		c.processSheet(ctx, file, sheetName)
	}
}

// importCSV processa um arquivo CSV como aba única
func (c *Coordinator) importCSV(ctx *importContext) {
	ctx.report.TotalSheets = 1

	f, err := os.Open(ctx.opts.FilePath)
	if err != nil {
		c.recordSheetResult(ctx, parser.ParseResult{
			SheetName: ctx.report.Filename,
			SheetType: parser.SheetTypeTrips,
			Status:    "error",
			Errors:    []string{fmt.Sprintf("falha ao abrir o arquivo: %v", err)},
		})
		return
	}
	defer f.Close()

	sheetStart := time.Now()
	trips, errorRows, err := parser.NewCSVParser().Parse(f, ctx.report.Filename)
	if err != nil {
		c.recordSheetResult(ctx, parser.ParseResult{
			SheetName: ctx.report.Filename,
			SheetType: parser.SheetTypeTrips,
			Status:    "error",
			Errors:    []string{err.Error()},
			Duration:  time.Since(sheetStart),
		})
		c.sendProgress(ctx.progressChan, ProgressEvent{
			Type:      "error",
			Message:   err.Error(),
			Timestamp: time.Now(),
		})
		return
	}

	c.storeTrips(ctx, ctx.report.Filename, trips, errorRows, sheetStart)
}

// processSheet processa uma aba do XLSX
func (c *Coordinator) processSheet(ctx *importContext, file *excelize.File, sheetName string) {
	sheetStart := time.Now()

	c.sendProgress(ctx.progressChan, ProgressEvent{
		Type:      "sheet_start",
		Message:   fmt.Sprintf("Analisando aba: %s", sheetName),
		Data:      map[string]string{"sheet_name": sheetName},
		Timestamp: time.Now(),
	})

	rows, err := file.GetRows(sheetName)
	if err != nil || len(rows) < 1 {
		c.recordSheetResult(ctx, parser.ParseResult{
			SheetName: sheetName,
			SheetType: parser.SheetTypeUnknown,
			Status:    "error",
			Errors:    []string{fmt.Sprintf("falha ao ler a aba: %v", err)},
			Duration:  time.Since(sheetStart),
		})
		return
	}

	recognition := c.recognizer.Recognize(sheetName, rows[0])

	c.sendProgress(ctx.progressChan, ProgressEvent{
		Type:    "info",
		Message: fmt.Sprintf("Aba %q reconhecida como: %s (confiança: %.2f)", sheetName, recognition.SheetType, recognition.Confidence),
		Data: map[string]interface{}{
			"sheet_name": sheetName,
			"sheet_type": recognition.SheetType,
			"confidence": recognition.Confidence,
		},
		Timestamp: time.Now(),
	})

	switch recognition.SheetType {
	case parser.SheetTypeTrips:
		trips, errorRows, err := parser.NewTripParser(file).ParseSheet(sheetName)
		if err != nil {
			c.recordSheetResult(ctx, parser.ParseResult{
				SheetName: sheetName,
				SheetType: parser.SheetTypeTrips,
				Status:    "error",
				Errors:    []string{err.Error()},
				Duration:  time.Since(sheetStart),
			})
			c.sendProgress(ctx.progressChan, ProgressEvent{
				Type:      "error",
				Message:   fmt.Sprintf("Aba %q: %v", sheetName, err),
				Timestamp: time.Now(),
			})
			return
		}
		c.storeTrips(ctx, sheetName, trips, errorRows, sheetStart)

	case parser.SheetTypeSummary:
		c.recordSheetResult(ctx, parser.ParseResult{
			SheetName: sheetName,
			SheetType: parser.SheetTypeSummary,
			Status:    "skipped",
			Duration:  time.Since(sheetStart),
		})
		c.sendProgress(ctx.progressChan, ProgressEvent{
			Type:      "info",
			Message:   fmt.Sprintf("Aba de resumo ignorada: %s", sheetName),
			Timestamp: time.Now(),
		})

	default:
		c.recordSheetResult(ctx, parser.ParseResult{
			SheetName: sheetName,
			SheetType: parser.SheetTypeUnknown,
			Status:    "skipped",
			Errors:    []string{"tipo de aba não reconhecido"},
			Duration:  time.Since(sheetStart),
		})
		c.sendProgress(ctx.progressChan, ProgressEvent{
			Type:      "warning",
			Message:   fmt.Sprintf("Aba não reconhecida: %s (confiança baixa)", sheetName),
			Timestamp: time.Now(),
		})
	}
}

// storeTrips grava as viagens de uma aba e registra o resultado
func (c *Coordinator) storeTrips(ctx *importContext, sheetName string, trips []*model.RouteTrip, errorRows int, sheetStart time.Time) {
	for _, t := range trips {
		t.DatasetID = ctx.dataset.ID
	}

	if err := c.store.BatchInsertTrips(trips); err != nil {
		c.recordSheetResult(ctx, parser.ParseResult{
			SheetName: sheetName,
			SheetType: parser.SheetTypeTrips,
			Status:    "error",
			ErrorRows: len(trips) + errorRows,
			Errors:    []string{fmt.Sprintf("falha ao gravar viagens: %v", err)},
			Duration:  time.Since(sheetStart),
		})
		return
	}

	c.recordSheetResult(ctx, parser.ParseResult{
		SheetName:    sheetName,
		SheetType:    parser.SheetTypeTrips,
		Status:       "imported",
		ImportedRows: len(trips),
		ErrorRows:    errorRows,
		Duration:     time.Since(sheetStart),
	})

	c.sendProgress(ctx.progressChan, ProgressEvent{
		Type:    "sheet_done",
		Message: fmt.Sprintf("Aba %q importada: %d viagens", sheetName, len(trips)),
		Data: map[string]interface{}{
			"sheet_name":    sheetName,
			"imported_rows": len(trips),
			"error_rows":    errorRows,
		},
		Timestamp: time.Now(),
	})
}

// finalizeDataset atualiza os contadores e o período do dataset
func (c *Coordinator) finalizeDataset(ctx *importContext) error {
	start, end, err := c.store.TripDateRange(ctx.dataset.ID)
	if err != nil {
		return err
	}

	routes, err := c.store.ListRoutes(ctx.dataset.ID, time.Now())
	if err != nil {
		return err
	}

	ctx.dataset.TotalRows = ctx.report.ImportedRows
	ctx.dataset.RouteCount = len(routes)
	ctx.dataset.StartDate = start
	ctx.dataset.EndDate = end

	return c.store.UpdateDatasetStats(ctx.dataset)
}

// fail aborta a importação descartando o dataset parcial
func (c *Coordinator) fail(ctx *importContext, logID int64, message string) {
	_ = c.store.DeleteDataset(ctx.dataset.ID)
	if logID > 0 {
		_ = c.store.CompleteImportLog(logID,
			ctx.report.TotalSheets, ctx.report.TotalRows,
			ctx.report.ImportedRows, ctx.report.ErrorRows,
			"error", message)
	}
	c.sendProgress(ctx.progressChan, ProgressEvent{
		Type:      "error",
		Message:   message,
		Timestamp: time.Now(),
	})
}

// recordSheetResult acumula o resultado de uma aba no relatório
func (c *Coordinator) recordSheetResult(ctx *importContext, result parser.ParseResult) {
	ctx.report.Sheets = append(ctx.report.Sheets, result)

	if result.Status == "imported" {
		ctx.report.ImportedRows += result.ImportedRows
	}
	if result.ErrorRows > 0 {
		ctx.report.ErrorRows += result.ErrorRows
	}
	ctx.report.TotalRows += result.ImportedRows + result.ErrorRows
}

// sendProgress envia um evento sem bloquear
func (c *Coordinator) sendProgress(ch chan ProgressEvent, event ProgressEvent) {
	select {
	case ch <- event:
	default:
		// canal cheio, evento descartado
	}
}
