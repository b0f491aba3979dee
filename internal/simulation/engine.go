package simulation

import (
	"sort"
	"time"

	"github.com/Batatao343/buser-simulador/internal/model"
)

// Options parâmetros de uma simulação
type Options struct {
	// Cutoff separa realizado de previsto: viagens antes do cutoff usam os
	// valores realizados; do cutoff em diante, os valores baseline. Apenas
	// viagens a partir do cutoff podem ser canceladas.
	Cutoff time.Time

	// CashFactor fração do cash-repasse mantida em viagem cancelada (0 = zera)
	CashFactor float64
}

// SimulatedTrip viagem com os valores efetivos do cenário base e do simulado
type SimulatedTrip struct {
	ID    int64     `json:"id"`
	Route string    `json:"route"`
	Date  time.Time `json:"date"`

	// Valores efetivos do cenário base (realizado antes do cutoff, previsto depois)
	GMVBase  float64 `json:"gmvBase"`
	CashBase float64 `json:"cashBase"`

	// Valores após aplicar o cancelamento
	GMV  float64 `json:"gmv"`
	Cash float64 `json:"cash"`

	Cancelled bool `json:"cancelled"`
}

// Totals totais agregados de um cenário
type Totals struct {
	GMV  float64 `json:"gmv"`
	Cash float64 `json:"cash"`
}

// Result resultado de uma simulação
type Result struct {
	Cutoff     time.Time `json:"cutoff"`
	CashFactor float64   `json:"cashFactor"`

	Trips []SimulatedTrip `json:"trips"`

	Baseline  Totals `json:"baseline"`
	Simulated Totals `json:"simulated"`
	Delta     Totals `json:"delta"`

	CancelledRoutes []string `json:"cancelledRoutes"`
	UnknownRoutes   []string `json:"unknownRoutes"`
	CancelledTrips  int      `json:"cancelledTrips"`
}

// Run executa a simulação de cancelamento sobre as viagens do dataset.
// Função pura: não altera as viagens de entrada e é determinística para as
// mesmas entradas.
func Run(trips []*model.RouteTrip, cancelledRoutes []string, opts Options) *Result {
	cancelled := make(map[string]bool, len(cancelledRoutes))
	for _, r := range cancelledRoutes {
		cancelled[r] = true
	}

	known := make(map[string]bool, len(trips))
	for _, t := range trips {
		known[t.Route] = true
	}

	res := &Result{
		Cutoff:     opts.Cutoff,
		CashFactor: opts.CashFactor,
		Trips:      make([]SimulatedTrip, 0, len(trips)),
	}

	// Rotas canceladas efetivas e rotas desconhecidas (ignoradas),
	// sem duplicatas mesmo que a entrada repita nomes
	for r := range cancelled {
		if known[r] {
			res.CancelledRoutes = append(res.CancelledRoutes, r)
		} else {
			res.UnknownRoutes = append(res.UnknownRoutes, r)
		}
	}
	sort.Strings(res.CancelledRoutes)
	sort.Strings(res.UnknownRoutes)

	for _, t := range trips {
		st := SimulatedTrip{
			ID:    t.ID,
			Route: t.Route,
			Date:  t.Date,
		}

		// Seleção de valor: realizado antes do cutoff, previsto depois
		if t.Date.Before(opts.Cutoff) {
			st.GMVBase = t.GMVActual
			st.CashBase = t.CashActual
		} else {
			st.GMVBase = t.GMVBaseline
			st.CashBase = t.CashBaseline
		}

		st.GMV = st.GMVBase
		st.Cash = st.CashBase

		// Cancelamento só atinge viagens futuras
		if cancelled[t.Route] && !t.Date.Before(opts.Cutoff) {
			st.Cancelled = true
			st.GMV = 0
			st.Cash = st.CashBase * opts.CashFactor
			res.CancelledTrips++
		}

		res.Baseline.GMV += st.GMVBase
		res.Baseline.Cash += st.CashBase
		res.Simulated.GMV += st.GMV
		res.Simulated.Cash += st.Cash

		res.Trips = append(res.Trips, st)
	}

	res.Delta.GMV = res.Simulated.GMV - res.Baseline.GMV
	res.Delta.Cash = res.Simulated.Cash - res.Baseline.Cash

	return res
}

// StartOfDay trunca um instante para o início do dia (cutoff padrão)
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
