package simulation

import (
	"sort"
	"time"

	"gonum.org/v1/gonum/floats"

	"github.com/Batatao343/buser-simulador/internal/model"
)

// SeriesOptions parâmetros para a construção das séries acumuladas
type SeriesOptions struct {
	// Janela do check de cancelamento; a série simulada é realinhada no início
	// da janela quando há rotas canceladas
	CheckStart time.Time
	CheckEnd   time.Time

	// Metas mensais diluídas por peso do baseline diário
	GMVTarget  float64
	CashTarget float64
}

// SeriesSet séries acumuladas prontas para o gráfico.
// Todos os vetores têm o mesmo comprimento de Dates.
type SeriesSet struct {
	Dates []string `json:"dates"` // YYYY-MM-DD, ordem crescente

	// Cenário base acumulado (realizado/previsto)
	BaseGMV  []float64 `json:"baseGmv"`
	BaseCash []float64 `json:"baseCash"`

	// Cenário simulado acumulado, realinhado no início do check
	SimGMV  []float64 `json:"simGmv"`
	SimCash []float64 `json:"simCash"`

	// Diferença acumulada (zero antes do início do check)
	DiffGMV  []float64 `json:"diffGmv"`
	DiffCash []float64 `json:"diffCash"`

	// Baseline histórico acumulado (valores previstos brutos)
	BaselineGMV  []float64 `json:"baselineGmv"`
	BaselineCash []float64 `json:"baselineCash"`

	// Meta mensal diluída acumulada
	TargetGMV  []float64 `json:"targetGmv"`
	TargetCash []float64 `json:"targetCash"`

	Cutoff     string `json:"cutoff"`
	CheckStart string `json:"checkStart"`
	CheckEnd   string `json:"checkEnd"`

	HasCancellation bool `json:"hasCancellation"`
}

// BuildSeries agrega o resultado da simulação por dia e monta as séries
// acumuladas do cenário base, do simulado e das metas diluídas.
func BuildSeries(trips []*model.RouteTrip, res *Result, opts SeriesOptions) *SeriesSet {
	type daily struct {
		baseGMV, baseCash         float64
		simGMV, simCash           float64
		baselineGMV, baselineCash float64
	}

	byDay := make(map[string]*daily)
	dayOf := func(t time.Time) string { return t.Format("2006-01-02") }
	bucket := func(key string) *daily {
		d, ok := byDay[key]
		if !ok {
			d = &daily{}
			byDay[key] = d
		}
		return d
	}

	for i := range res.Trips {
		st := &res.Trips[i]
		d := bucket(dayOf(st.Date))
		d.baseGMV += st.GMVBase
		d.baseCash += st.CashBase
		d.simGMV += st.GMV
		d.simCash += st.Cash
	}
	for _, t := range trips {
		d := bucket(dayOf(t.Date))
		d.baselineGMV += t.GMVBaseline
		d.baselineCash += t.CashBaseline
	}

	dates := make([]string, 0, len(byDay))
	for k := range byDay {
		dates = append(dates, k)
	}
	sort.Strings(dates)

	n := len(dates)
	set := &SeriesSet{
		Dates:           dates,
		Cutoff:          dayOf(res.Cutoff),
		CheckStart:      dayOf(opts.CheckStart),
		CheckEnd:        dayOf(opts.CheckEnd),
		HasCancellation: len(res.CancelledRoutes) > 0,
	}

	baseGMV := make([]float64, n)
	baseCash := make([]float64, n)
	simGMV := make([]float64, n)
	simCash := make([]float64, n)
	baselineGMV := make([]float64, n)
	baselineCash := make([]float64, n)
	for i, k := range dates {
		d := byDay[k]
		baseGMV[i] = d.baseGMV
		baseCash[i] = d.baseCash
		simGMV[i] = d.simGMV
		simCash[i] = d.simCash
		baselineGMV[i] = d.baselineGMV
		baselineCash[i] = d.baselineCash
	}

	set.BaseGMV = cumulative(baseGMV)
	set.BaseCash = cumulative(baseCash)
	set.BaselineGMV = cumulative(baselineGMV)
	set.BaselineCash = cumulative(baselineCash)

	// Índice do primeiro dia dentro da janela do check
	checkDay := dayOf(opts.CheckStart)
	checkIdx := sort.SearchStrings(dates, checkDay)

	set.SimGMV = alignSimulated(set.BaseGMV, cumulative(simGMV), checkIdx, set.HasCancellation)
	set.SimCash = alignSimulated(set.BaseCash, cumulative(simCash), checkIdx, set.HasCancellation)

	set.DiffGMV = difference(set.BaseGMV, set.SimGMV, checkIdx)
	set.DiffCash = difference(set.BaseCash, set.SimCash, checkIdx)

	set.TargetGMV = dilutedTarget(baselineGMV, opts.GMVTarget)
	set.TargetCash = dilutedTarget(baselineCash, opts.CashTarget)

	return set
}

// cumulative soma acumulada de uma série diária
func cumulative(daily []float64) []float64 {
	if len(daily) == 0 {
		return []float64{}
	}
	return floats.CumSum(make([]float64, len(daily)), daily)
}

// alignSimulated realinha a série simulada acumulada ao valor do cenário base
// no início da janela do check. Sem cancelamento, a simulada coincide com a
// base; com cancelamento, o desvio só aparece a partir do check.
func alignSimulated(base, sim []float64, checkIdx int, hasCancellation bool) []float64 {
	out := make([]float64, len(base))
	copy(out, base)

	if !hasCancellation || checkIdx >= len(sim) {
		return out
	}

	anchor := 0.0
	prev := 0.0
	if checkIdx > 0 {
		anchor = base[checkIdx-1]
		prev = sim[checkIdx-1]
	}
	for i := checkIdx; i < len(sim); i++ {
		out[i] = anchor + (sim[i] - prev)
	}
	return out
}

// difference diferença acumulada entre simulado e base, zerada antes do check
func difference(base, sim []float64, checkIdx int) []float64 {
	out := make([]float64, len(base))
	for i := checkIdx; i < len(base); i++ {
		out[i] = sim[i] - base[i]
	}
	return out
}

// dilutedTarget dilui a meta mensal pelo peso do baseline de cada dia e
// devolve a meta acumulada. Baseline total zero produz meta zero.
func dilutedTarget(baselineDaily []float64, target float64) []float64 {
	n := len(baselineDaily)
	if n == 0 {
		return []float64{}
	}

	total := floats.Sum(baselineDaily)
	diluted := make([]float64, n)
	if total != 0 {
		for i, v := range baselineDaily {
			diluted[i] = target * (v / total)
		}
	}
	return floats.CumSum(make([]float64, n), diluted)
}
