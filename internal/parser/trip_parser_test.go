package parser

import (
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
)

func buildTripsWorkbook(t *testing.T, sheet string, rows [][]interface{}) *excelize.File {
	t.Helper()

	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		t.Fatalf("renomear aba: %v", err)
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			t.Fatalf("escrever linha %d: %v", i+1, err)
		}
	}
	t.Cleanup(func() { _ = f.Close() })
	return f
}

func TestParseSheet(t *testing.T) {
	f := buildTripsWorkbook(t, "Viagens", [][]interface{}{
		{"Data", "Rota", "GMV Previsto", "GMV Realizado", "Cash-Repasse Previsto", "Cash-Repasse Realizado"},
		{"2026-03-10", "BH-SP", 1500.5, 1480, 300, 290},
		{"2026-03-11", "RJ-SP", 2000, 0, -150, 0},
	})

	trips, errorRows, err := NewTripParser(f).ParseSheet("Viagens")
	if err != nil {
		t.Fatalf("ParseSheet: %v", err)
	}
	if errorRows != 0 {
		t.Fatalf("errorRows = %d, esperado 0", errorRows)
	}
	if len(trips) != 2 {
		t.Fatalf("viagens = %d, esperado 2", len(trips))
	}

	first := trips[0]
	if first.Route != "BH-SP" {
		t.Fatalf("rota = %q", first.Route)
	}
	if first.Date.Format("2006-01-02") != "2026-03-10" {
		t.Fatalf("data = %v", first.Date)
	}
	if first.GMVBaseline != 1500.5 || first.GMVActual != 1480 {
		t.Fatalf("gmv = %v/%v", first.GMVBaseline, first.GMVActual)
	}
	if first.CashBaseline != 300 || first.CashActual != 290 {
		t.Fatalf("cash = %v/%v", first.CashBaseline, first.CashActual)
	}
	if first.SourceSheet != "Viagens" || first.RowNo != 2 {
		t.Fatalf("metadados de origem: %q linha %d", first.SourceSheet, first.RowNo)
	}

	if trips[1].CashBaseline != -150 {
		t.Fatalf("cash negativo deveria ser aceito: %v", trips[1].CashBaseline)
	}
}

func TestParseSheet_SingleValueColumnsCopyBaseline(t *testing.T) {
	f := buildTripsWorkbook(t, "Rotas", [][]interface{}{
		{"data", "rota", "gmv", "cash"},
		{"2026-03-10", "BH-SP", 1000, 200},
	})

	trips, _, err := NewTripParser(f).ParseSheet("Rotas")
	if err != nil {
		t.Fatalf("ParseSheet: %v", err)
	}
	if len(trips) != 1 {
		t.Fatalf("viagens = %d", len(trips))
	}
	if trips[0].GMVActual != 1000 || trips[0].CashActual != 200 {
		t.Fatalf("realizado deveria assumir o baseline: %+v", trips[0])
	}
}

func TestParseSheet_BadRowsCounted(t *testing.T) {
	f := buildTripsWorkbook(t, "Viagens", [][]interface{}{
		{"data", "rota", "gmv", "cash"},
		{"2026-03-10", "BH-SP", 1000, 200},
		{"não é data", "RJ-SP", 500, 100},
		{"2026-03-11", "", 500, 100},
		{}, // linha vazia, não conta como erro
	})

	trips, errorRows, err := NewTripParser(f).ParseSheet("Viagens")
	if err != nil {
		t.Fatalf("ParseSheet: %v", err)
	}
	if len(trips) != 1 {
		t.Fatalf("viagens = %d, esperado 1", len(trips))
	}
	if errorRows != 2 {
		t.Fatalf("errorRows = %d, esperado 2", errorRows)
	}
}

func TestParseSheet_MissingRequiredColumns(t *testing.T) {
	f := buildTripsWorkbook(t, "Viagens", [][]interface{}{
		{"data", "gmv"},
		{"2026-03-10", 1000},
	})

	_, _, err := NewTripParser(f).ParseSheet("Viagens")
	if err == nil {
		t.Fatal("deveria falhar sem coluna de rota")
	}
	if !strings.Contains(err.Error(), "colunas obrigatórias ausentes") {
		t.Fatalf("mensagem inesperada: %v", err)
	}
}

func TestCSVParse(t *testing.T) {
	data := "data;rota;gmv;cash\n2026-03-10;BH-SP;1.500,00;300,25\n2026-03-11;RJ-SP;2000;-150\n"

	trips, errorRows, err := NewCSVParser().Parse(strings.NewReader(data), "viagens.csv")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if errorRows != 0 {
		t.Fatalf("errorRows = %d", errorRows)
	}
	if len(trips) != 2 {
		t.Fatalf("viagens = %d, esperado 2", len(trips))
	}
	if trips[0].GMVBaseline != 1500 || trips[0].CashBaseline != 300.25 {
		t.Fatalf("valores pt-BR: %+v", trips[0])
	}
	if trips[1].CashBaseline != -150 {
		t.Fatalf("cash negativo: %v", trips[1].CashBaseline)
	}
}

func TestCSVParse_CommaDelimiter(t *testing.T) {
	data := "date,route,gmv,cash\n2026-03-10,BH-SP,1000.5,200\n"

	trips, _, err := NewCSVParser().Parse(strings.NewReader(data), "trips.csv")
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(trips) != 1 || trips[0].GMVBaseline != 1000.5 {
		t.Fatalf("viagens = %+v", trips)
	}
}

func TestDetectDelimiter(t *testing.T) {
	if detectDelimiter("a;b;c\n1;2;3") != ';' {
		t.Fatal("deveria detectar ponto e vírgula")
	}
	if detectDelimiter("a,b,c\n1,2,3") != ',' {
		t.Fatal("deveria detectar vírgula")
	}
}
