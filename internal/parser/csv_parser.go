package parser

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/Batatao343/buser-simulador/internal/model"
)

// CSVParser analisador de arquivos CSV de viagens
type CSVParser struct {
	recognizer *SheetRecognizer
	mapper     *FieldMapper
}

// NewCSVParser cria o analisador CSV
func NewCSVParser() *CSVParser {
	return &CSVParser{
		recognizer: NewSheetRecognizer(),
		mapper:     NewFieldMapper(),
	}
}

// Parse lê um CSV de viagens. O separador é detectado entre vírgula e
// ponto e vírgula pela linha de cabeçalho.
func (p *CSVParser) Parse(r io.Reader, sourceName string) (trips []*model.RouteTrip, errorRows int, err error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, 0, fmt.Errorf("falha ao ler o arquivo: %w", err)
	}

	reader := csv.NewReader(strings.NewReader(string(data)))
	reader.Comma = detectDelimiter(string(data))
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, 0, fmt.Errorf("CSV inválido: %w", err)
	}

	if len(rows) < 2 {
		return nil, 0, fmt.Errorf("o arquivo não tem linhas de dados")
	}

	headers := rows[0]
	result := p.recognizer.Recognize(sourceName, headers)
	if result.SheetType != SheetTypeTrips || result.Confidence < 0.5 {
		if len(result.MissingColumns) > 0 {
			return nil, 0, fmt.Errorf("colunas obrigatórias ausentes: %s",
				strings.Join(result.MissingColumns, ", "))
		}
		return nil, 0, fmt.Errorf("o arquivo não é uma planilha de viagens")
	}

	mappings := p.mapper.MapTrips(headers)

	// Reaproveita a conversão de linha do analisador de planilhas
	tp := &TripParser{recognizer: p.recognizer, mapper: p.mapper}
	for rowIdx := 1; rowIdx < len(rows); rowIdx++ {
		trip, ok := tp.parseTripRow(rows[rowIdx], mappings, sourceName, rowIdx+1)
		if !ok {
			if !rowIsEmpty(rows[rowIdx]) {
				errorRows++
			}
			continue
		}
		trips = append(trips, trip)
	}

	return trips, errorRows, nil
}

// detectDelimiter escolhe o separador pela primeira linha
func detectDelimiter(data string) rune {
	firstLine := data
	if idx := strings.IndexByte(data, '\n'); idx >= 0 {
		firstLine = data[:idx]
	}
	if strings.Count(firstLine, ";") > strings.Count(firstLine, ",") {
		return ';'
	}
	return ','
}
