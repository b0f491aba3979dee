package parser

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/Batatao343/buser-simulador/internal/model"
)

// TripParser analisador da aba de viagens
type TripParser struct {
	file       *excelize.File
	recognizer *SheetRecognizer
	mapper     *FieldMapper
}

// NewTripParser cria o analisador de viagens
func NewTripParser(file *excelize.File) *TripParser {
	return &TripParser{
		file:       file,
		recognizer: NewSheetRecognizer(),
		mapper:     NewFieldMapper(),
	}
}

// ParseSheet analisa uma aba de viagens e devolve os registros válidos.
// Linhas sem rota ou sem data válida são contadas em errorRows.
func (p *TripParser) ParseSheet(sheetName string) (trips []*model.RouteTrip, errorRows int, err error) {
	rows, err := p.file.GetRows(sheetName)
	if err != nil {
		return nil, 0, fmt.Errorf("falha ao ler a aba: %w", err)
	}

	if len(rows) < 2 {
		return nil, 0, fmt.Errorf("a aba não tem linhas de dados")
	}

	headers := rows[0]

	result := p.recognizer.Recognize(sheetName, headers)
	if result.SheetType != SheetTypeTrips || result.Confidence < 0.5 {
		if len(result.MissingColumns) > 0 {
			return nil, 0, fmt.Errorf("colunas obrigatórias ausentes: %s",
				strings.Join(result.MissingColumns, ", "))
		}
		return nil, 0, fmt.Errorf("a aba não é uma planilha de viagens")
	}

	mappings := p.mapper.MapTrips(headers)

	for rowIdx := 1; rowIdx < len(rows); rowIdx++ {
		trip, ok := p.parseTripRow(rows[rowIdx], mappings, sheetName, rowIdx+1)
		if !ok {
			// linha vazia não conta como erro
			if !rowIsEmpty(rows[rowIdx]) {
				errorRows++
			}
			continue
		}
		trips = append(trips, trip)
	}

	return trips, errorRows, nil
}

// parseTripRow converte uma linha da planilha em viagem
func (p *TripParser) parseTripRow(row []string, mappings map[int]FieldMapping, sheetName string, rowNo int) (*model.RouteTrip, bool) {
	trip := &model.RouteTrip{
		SourceSheet: sheetName,
		RowNo:       rowNo,
	}

	hasDate := false
	hasGMVActual := false
	hasCashActual := false

	for colIdx, mapping := range mappings {
		if colIdx >= len(row) {
			continue
		}

		value := strings.TrimSpace(row[colIdx])
		if value == "" {
			continue
		}

		switch mapping.Field {
		case FieldDate:
			d, err := ParseDate(value)
			if err != nil {
				return nil, false
			}
			trip.Date = d
			hasDate = true
		case FieldRoute:
			trip.Route = value
		case FieldGMVBaseline:
			trip.GMVBaseline = ParseFloat(value)
		case FieldGMVActual:
			trip.GMVActual = ParseFloat(value)
			hasGMVActual = true
		case FieldCashBaseline:
			trip.CashBaseline = ParseFloat(value)
		case FieldCashActual:
			trip.CashActual = ParseFloat(value)
			hasCashActual = true
		}
	}

	if trip.Route == "" || !hasDate {
		return nil, false
	}

	// Planilhas com uma única coluna de valor: realizado assume o baseline
	if !hasGMVActual {
		trip.GMVActual = trip.GMVBaseline
	}
	if !hasCashActual {
		trip.CashActual = trip.CashBaseline
	}

	return trip, true
}

func rowIsEmpty(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
