// Package metrics contadores Prometheus do simulador
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ImportsTotal importações concluídas com sucesso
	ImportsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "simulador_imports_total",
		Help: "Total de importações de planilha concluídas",
	})

	// ImportRowsTotal linhas de viagem importadas
	ImportRowsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "simulador_import_rows_total",
		Help: "Total de linhas de viagem importadas",
	})

	// ImportFailures importações abortadas
	ImportFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "simulador_import_failures_total",
		Help: "Total de importações que falharam",
	})

	// SimulationsTotal simulações executadas
	SimulationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "simulador_simulations_total",
		Help: "Total de simulações executadas",
	})

	// SimulationDuration duração da simulação em segundos
	SimulationDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "simulador_simulation_duration_seconds",
		Help:    "Duração das simulações",
		Buckets: prometheus.DefBuckets,
	})

	// ExportsTotal exportações geradas
	ExportsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "simulador_exports_total",
		Help: "Total de planilhas de resultado exportadas",
	})
)
