package parser

import "time"

// SheetType tipo de planilha reconhecida
type SheetType string

const (
	SheetTypeTrips   SheetType = "trips"   // viagens por rota/data
	SheetTypeSummary SheetType = "summary" // aba de resumo (ignorada)
	SheetTypeUnknown SheetType = "unknown"
)

// SheetRecognitionResult resultado do reconhecimento de uma aba
type SheetRecognitionResult struct {
	SheetName  string    `json:"sheetName"`
	SheetType  SheetType `json:"sheetType"`
	Confidence float64   `json:"confidence"` // 0-1
	// Colunas obrigatórias ausentes quando o reconhecimento falha
	MissingColumns []string `json:"missingColumns,omitempty"`
}

// FieldMapping mapeamento de coluna da planilha para campo interno
type FieldMapping struct {
	ColumnIndex int    `json:"columnIndex"`
	ColumnName  string `json:"columnName"`
	Field       string `json:"field"`
}

// ParseResult resultado do processamento de uma aba
type ParseResult struct {
	SheetName    string        `json:"sheetName"`
	SheetType    SheetType     `json:"sheetType"`
	Status       string        `json:"status"` // imported/skipped/error
	ImportedRows int           `json:"importedRows"`
	ErrorRows    int           `json:"errorRows"`
	Errors       []string      `json:"errors,omitempty"`
	Duration     time.Duration `json:"duration"`
}

// ImportReport relatório consolidado de uma importação
type ImportReport struct {
	Filename     string        `json:"filename"`
	DatasetID    string        `json:"datasetId"`
	TotalSheets  int           `json:"totalSheets"`
	TotalRows    int           `json:"totalRows"`
	ImportedRows int           `json:"importedRows"`
	ErrorRows    int           `json:"errorRows"`
	Duration     time.Duration `json:"duration"`
	Sheets       []ParseResult `json:"sheets"`
}
