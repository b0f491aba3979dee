package parser

import "strings"

// SheetRecognizer reconhecedor do tipo de aba
type SheetRecognizer struct{}

// NewSheetRecognizer cria o reconhecedor
func NewSheetRecognizer() *SheetRecognizer {
	return &SheetRecognizer{}
}

// Recognize identifica o tipo da aba pelos cabeçalhos
func (r *SheetRecognizer) Recognize(sheetName string, columnNames []string) SheetRecognitionResult {
	normalized := make([]string, len(columnNames))
	for i, col := range columnNames {
		normalized[i] = NormalizeColumnName(col)
	}

	if result := r.recognizeTrips(sheetName, normalized); result.Confidence >= 0.5 {
		return result
	}

	if result := r.recognizeSummary(sheetName, normalized); result.Confidence >= 0.3 {
		return result
	}

	return SheetRecognitionResult{
		SheetName:  sheetName,
		SheetType:  SheetTypeUnknown,
		Confidence: 0,
	}
}

// recognizeTrips reconhece a aba de viagens por rota/data
func (r *SheetRecognizer) recognizeTrips(sheetName string, columns []string) SheetRecognitionResult {
	mapper := NewFieldMapper()
	mappings := mapper.MapTrips(columns)

	found := make(map[string]bool, len(mappings))
	for _, m := range mappings {
		found[m.Field] = true
	}

	// Campos mínimos de uma aba de viagens
	required := []string{FieldDate, FieldRoute}
	var missing []string
	matchCount := 0
	for _, f := range required {
		if found[f] {
			matchCount++
		} else {
			missing = append(missing, f)
		}
	}

	hasGMV := found[FieldGMVBaseline] || found[FieldGMVActual]
	hasCash := found[FieldCashBaseline] || found[FieldCashActual]
	if hasGMV {
		matchCount++
	} else {
		missing = append(missing, FieldGMVBaseline)
	}
	if hasCash {
		matchCount++
	} else {
		missing = append(missing, FieldCashBaseline)
	}

	confidence := float64(matchCount) / 4.0

	// Nome da aba ajuda na decisão
	name := NormalizeColumnName(sheetName)
	if ContainsAny(name, []string{"rota", "viagen", "viagem", "trip"}) {
		confidence += 0.15
		if confidence > 1 {
			confidence = 1
		}
	}

	return SheetRecognitionResult{
		SheetName:      sheetName,
		SheetType:      SheetTypeTrips,
		Confidence:     confidence,
		MissingColumns: missing,
	}
}

// recognizeSummary reconhece abas de resumo/totais (ignoradas na importação)
func (r *SheetRecognizer) recognizeSummary(sheetName string, columns []string) SheetRecognitionResult {
	name := NormalizeColumnName(sheetName)

	confidence := 0.0
	if ContainsAny(name, []string{"resumo", "total", "consolidado", "summary"}) {
		confidence = 0.6
	}
	for _, col := range columns {
		if strings.Contains(col, "total_geral") {
			confidence += 0.2
			break
		}
	}

	return SheetRecognitionResult{
		SheetName:  sheetName,
		SheetType:  SheetTypeSummary,
		Confidence: confidence,
	}
}
