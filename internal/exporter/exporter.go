// Package exporter gera a planilha XLSX com o resultado da simulação
package exporter

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/Batatao343/buser-simulador/internal/calculator"
	"github.com/Batatao343/buser-simulador/internal/simulation"
	"github.com/Batatao343/buser-simulador/internal/store"
)

const (
	sheetTrips   = "Simulação"
	sheetSummary = "Resumo"
)

// Exporter exportador do resultado da simulação
type Exporter struct {
	store *store.Store
}

// NewExporter cria o exportador
func NewExporter(store *store.Store) *Exporter {
	return &Exporter{store: store}
}

// ExportOptions opções de exportação
type ExportOptions struct {
	DatasetID       string
	CancelledRoutes []string
	CashFactor      float64
	Cutoff          time.Time // zero usa o início do dia corrente
}

// Export executa a simulação e monta a planilha de resultado
func (e *Exporter) Export(opts ExportOptions) (*excelize.File, error) {
	cutoff := opts.Cutoff
	if cutoff.IsZero() {
		cutoff = simulation.StartOfDay(time.Now())
	}

	trips, err := e.store.GetTrips(store.TripQueryOptions{DatasetID: opts.DatasetID})
	if err != nil {
		return nil, fmt.Errorf("falha ao ler as viagens: %w", err)
	}
	if len(trips) == 0 {
		return nil, fmt.Errorf("dataset sem viagens para exportar")
	}

	result := simulation.Run(trips, opts.CancelledRoutes, simulation.Options{
		Cutoff:     cutoff,
		CashFactor: opts.CashFactor,
	})

	return e.buildWorkbook(result, nil)
}

// ExportWithProgress idem, reportando o progresso linha a linha
func (e *Exporter) ExportWithProgress(opts ExportOptions, progress func(ProgressEvent)) (*excelize.File, error) {
	cutoff := opts.Cutoff
	if cutoff.IsZero() {
		cutoff = simulation.StartOfDay(time.Now())
	}

	report(progress, "loading", 0, "Lendo viagens do dataset")

	trips, err := e.store.GetTrips(store.TripQueryOptions{DatasetID: opts.DatasetID})
	if err != nil {
		return nil, fmt.Errorf("falha ao ler as viagens: %w", err)
	}
	if len(trips) == 0 {
		return nil, fmt.Errorf("dataset sem viagens para exportar")
	}

	report(progress, "simulating", 10, "Executando a simulação")

	result := simulation.Run(trips, opts.CancelledRoutes, simulation.Options{
		Cutoff:     cutoff,
		CashFactor: opts.CashFactor,
	})

	return e.buildWorkbook(result, progress)
}

func (e *Exporter) buildWorkbook(result *simulation.Result, progress func(ProgressEvent)) (*excelize.File, error) {
	f := excelize.NewFile()

	if err := f.SetSheetName(f.GetSheetName(0), sheetTrips); err != nil {
		_ = f.Close()
		return nil, err
	}
	if _, err := f.NewSheet(sheetSummary); err != nil {
		_ = f.Close()
		return nil, err
	}

	if err := e.fillTripsSheet(f, result, progress); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := e.fillSummarySheet(f, result); err != nil {
		_ = f.Close()
		return nil, err
	}

	report(progress, "finishing", 95, "Finalizando a planilha")

	f.SetActiveSheet(0)
	return f, nil
}

func (e *Exporter) fillTripsSheet(f *excelize.File, result *simulation.Result, progress func(ProgressEvent)) error {
	headers := []string{
		"Rota", "Data",
		"GMV previsto", "GMV simulado",
		"Cash-repasse previsto", "Cash-repasse simulado",
		"Cancelada",
	}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetTrips, cell, h); err != nil {
			return err
		}
	}

	total := len(result.Trips)
	for i, t := range result.Trips {
		row := i + 2

		cancelled := "não"
		if t.Cancelled {
			cancelled = "sim"
		}

		values := []interface{}{
			t.Route,
			t.Date.Format("2006-01-02"),
			t.GMVBase,
			t.GMV,
			t.CashBase,
			t.Cash,
			cancelled,
		}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellValue(sheetTrips, cell, v); err != nil {
				return fmt.Errorf("falha ao escrever %s linha %d: %w", sheetTrips, row, err)
			}
		}

		if total > 0 && (i%500 == 0 || i == total-1) {
			pct := 20 + int(float64(i+1)/float64(total)*70)
			report(progress, "writing", pct, fmt.Sprintf("Escrevendo viagens: %d/%d", i+1, total))
		}
	}

	if err := f.SetColWidth(sheetTrips, "A", "A", 24); err != nil {
		return err
	}
	return f.SetColWidth(sheetTrips, "B", "G", 18)
}

func (e *Exporter) fillSummarySheet(f *excelize.File, result *simulation.Result) error {
	rows := [][]interface{}{
		{"Indicador", "Valor"},
		{"Data de corte", result.Cutoff.Format("2006-01-02")},
		{"GMV total previsto", result.Baseline.GMV},
		{"GMV total simulado", result.Simulated.GMV},
		{"Variação de GMV", result.Delta.GMV},
		{"Variação de GMV (%)", calculator.DeltaPercent(result.Baseline.GMV, result.Simulated.GMV)},
		{"Cash-repasse total previsto", result.Baseline.Cash},
		{"Cash-repasse total simulado", result.Simulated.Cash},
		{"Variação de cash-repasse", result.Delta.Cash},
		{"Rotas canceladas", len(result.CancelledRoutes)},
		{"Viagens canceladas", result.CancelledTrips},
	}

	for i, r := range rows {
		for col, v := range r {
			cell, _ := excelize.CoordinatesToCellName(col+1, i+1)
			if err := f.SetCellValue(sheetSummary, cell, v); err != nil {
				return fmt.Errorf("falha ao escrever %s: %w", sheetSummary, err)
			}
		}
	}

	// Lista das rotas canceladas ao lado dos indicadores
	if err := f.SetCellValue(sheetSummary, "D1", "Rotas canceladas"); err != nil {
		return err
	}
	for i, route := range result.CancelledRoutes {
		cell, _ := excelize.CoordinatesToCellName(4, i+2)
		if err := f.SetCellValue(sheetSummary, cell, route); err != nil {
			return err
		}
	}

	return f.SetColWidth(sheetSummary, "A", "D", 28)
}
