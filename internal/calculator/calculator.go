package calculator

import (
	"github.com/Batatao343/buser-simulador/internal/model"
	"github.com/Batatao343/buser-simulador/internal/simulation"
)

// Indicator indicador exibido no painel
type Indicator struct {
	ID    string  `json:"id"`    // identificador do indicador
	Name  string  `json:"name"`  // nome exibido
	Value float64 `json:"value"` // valor
	Unit  string  `json:"unit"`  // unidade (R$, %, rotas, viagens)
}

// IndicatorGroup grupo de indicadores
type IndicatorGroup struct {
	Name       string      `json:"name"`
	Indicators []Indicator `json:"indicators"`
}

// DeltaPercent variação percentual entre o simulado e a base.
// Base zero devolve 0 para não poluir o painel com infinitos.
func DeltaPercent(baseline, simulated float64) float64 {
	if baseline == 0 {
		return 0
	}
	return (simulated - baseline) / baseline * 100
}

// BuildGroups monta os grupos de indicadores a partir de uma simulação
func BuildGroups(res *simulation.Result, routes []*model.RouteSummary) []IndicatorGroup {
	gmvDeltaPct := DeltaPercent(res.Baseline.GMV, res.Simulated.GMV)
	cashDeltaPct := DeltaPercent(res.Baseline.Cash, res.Simulated.Cash)

	groups := []IndicatorGroup{
		{
			Name: "GMV",
			Indicators: []Indicator{
				{ID: "gmv_baseline", Name: "GMV total (base)", Value: res.Baseline.GMV, Unit: "R$"},
				{ID: "gmv_simulated", Name: "GMV total (simulado)", Value: res.Simulated.GMV, Unit: "R$"},
				{ID: "gmv_delta", Name: "Impacto no GMV", Value: res.Delta.GMV, Unit: "R$"},
				{ID: "gmv_delta_pct", Name: "Impacto no GMV (%)", Value: gmvDeltaPct, Unit: "%"},
			},
		},
		{
			Name: "Cash-repasse",
			Indicators: []Indicator{
				{ID: "cash_baseline", Name: "Cash-repasse total (base)", Value: res.Baseline.Cash, Unit: "R$"},
				{ID: "cash_simulated", Name: "Cash-repasse total (simulado)", Value: res.Simulated.Cash, Unit: "R$"},
				{ID: "cash_delta", Name: "Impacto no cash-repasse", Value: res.Delta.Cash, Unit: "R$"},
				{ID: "cash_delta_pct", Name: "Impacto no cash-repasse (%)", Value: cashDeltaPct, Unit: "%"},
			},
		},
		{
			Name: "Rotas",
			Indicators: []Indicator{
				{ID: "routes_total", Name: "Rotas no dataset", Value: float64(len(routes)), Unit: "rotas"},
				{ID: "routes_cancelled", Name: "Rotas canceladas", Value: float64(len(res.CancelledRoutes)), Unit: "rotas"},
				{ID: "trips_cancelled", Name: "Viagens canceladas", Value: float64(res.CancelledTrips), Unit: "viagens"},
			},
		},
	}

	return groups
}
