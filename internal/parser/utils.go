package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var spaceRE = regexp.MustCompile(`\s+`)

// accentReplacer remove acentos comuns em cabeçalhos pt-BR
var accentReplacer = strings.NewReplacer(
	"á", "a", "à", "a", "ã", "a", "â", "a",
	"é", "e", "ê", "e",
	"í", "i",
	"ó", "o", "õ", "o", "ô", "o",
	"ú", "u",
	"ç", "c",
)

// NormalizeColumnName normaliza um nome de coluna para comparação:
// minúsculas, sem acento, separadores convertidos para underscore
func NormalizeColumnName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ToLower(name)
	name = accentReplacer.Replace(name)
	name = strings.ReplaceAll(name, "\n", " ")
	name = strings.ReplaceAll(name, "\r", " ")
	name = strings.ReplaceAll(name, "\t", " ")
	name = strings.ReplaceAll(name, "-", " ")
	name = spaceRE.ReplaceAllString(name, "_")
	return name
}

// ContainsAny verifica se o texto contém alguma das palavras-chave
func ContainsAny(text string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			return true
		}
	}
	return false
}

// dateLayouts formatos de data aceitos nas planilhas
var dateLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"02/01/2006",
	"02/01/2006 15:04",
	"02-01-2006",
	"01-02-06",
}

// excelEpoch base da contagem serial de datas do Excel
var excelEpoch = time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)

// ParseDate converte um valor de célula em data (granularidade de dia).
// Aceita os formatos textuais usuais e o número serial do Excel.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("data vazia")
	}

	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			y, m, d := t.Date()
			return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
		}
	}

	// Número serial do Excel
	if serial, err := strconv.ParseFloat(value, 64); err == nil && serial > 0 {
		t := excelEpoch.Add(time.Duration(serial * 24 * float64(time.Hour)))
		y, m, d := t.Date()
		return time.Date(y, m, d, 0, 0, 0, 0, time.UTC), nil
	}

	return time.Time{}, fmt.Errorf("formato de data não reconhecido: %q", value)
}

// ParseFloat converte um valor de célula em número.
// Aceita separador de milhar e vírgula decimal (pt-BR).
func ParseFloat(s string) float64 {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "R$", "")
	s = strings.TrimSpace(s)

	hasComma := strings.Contains(s, ",")
	hasDot := strings.Contains(s, ".")
	switch {
	case hasComma && hasDot:
		// o último separador é o decimal: "1.234,56" ou "1,234.56"
		if strings.LastIndex(s, ",") > strings.LastIndex(s, ".") {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.ReplaceAll(s, ",", ".")
		} else {
			s = strings.ReplaceAll(s, ",", "")
		}
	case hasComma:
		s = strings.ReplaceAll(s, ",", ".")
	case strings.Count(s, ".") > 1:
		// múltiplos pontos só podem ser separador de milhar
		s = strings.ReplaceAll(s, ".", "")
	}

	f, _ := strconv.ParseFloat(s, 64)
	return f
}
