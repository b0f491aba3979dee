package parser

// Campos internos de uma viagem
const (
	FieldDate         = "date"
	FieldRoute        = "route"
	FieldGMVBaseline  = "gmv_baseline"
	FieldGMVActual    = "gmv_actual"
	FieldCashBaseline = "cash_baseline"
	FieldCashActual   = "cash_actual"
)

// fieldAliases variantes de cabeçalho aceitas por campo (já normalizadas).
// Cobre os nomes das planilhas internas e os usuais em exports pt/en.
var fieldAliases = map[string][]string{
	FieldDate: {
		"data", "date", "data_viagem", "dia",
	},
	FieldRoute: {
		"rota", "route", "linha", "id_rota", "codigo_rota",
	},
	FieldGMVBaseline: {
		"gmv_baseline", "gmv_previsto", "gmv_base", "gmv",
	},
	FieldGMVActual: {
		"gmv_realizado", "gmv_real", "gmv_actual",
	},
	FieldCashBaseline: {
		"cash_baseline", "cash_repasse_baseline", "cash_repasse_previsto",
		"cash_previsto", "cash_repasse", "cash",
	},
	FieldCashActual: {
		"cash_realizado", "cash_repasse_realizado", "cash_real", "cash_actual",
	},
}

// FieldMapper mapeador de colunas da planilha para campos internos
type FieldMapper struct {
	// alias normalizado -> campo
	byAlias map[string]string
}

// NewFieldMapper cria o mapeador
func NewFieldMapper() *FieldMapper {
	byAlias := make(map[string]string)
	for field, aliases := range fieldAliases {
		for _, a := range aliases {
			byAlias[a] = field
		}
	}
	return &FieldMapper{byAlias: byAlias}
}

// MapTrips mapeia os cabeçalhos de uma aba de viagens.
// Cabeçalhos desconhecidos são ignorados; o primeiro cabeçalho que casa com
// um campo vence (colunas duplicadas não sobrepõem).
func (m *FieldMapper) MapTrips(columnNames []string) map[int]FieldMapping {
	mappings := make(map[int]FieldMapping)
	taken := make(map[string]bool)

	for idx, col := range columnNames {
		normalized := NormalizeColumnName(col)
		field, ok := m.byAlias[normalized]
		if !ok || taken[field] {
			continue
		}
		taken[field] = true
		mappings[idx] = FieldMapping{
			ColumnIndex: idx,
			ColumnName:  col,
			Field:       field,
		}
	}

	return mappings
}
