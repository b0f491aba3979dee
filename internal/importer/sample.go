package importer

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"

	"github.com/Batatao343/buser-simulador/internal/model"
	"github.com/Batatao343/buser-simulador/internal/store"
)

// Janela de datas do gerador: ±20 dias ao redor de hoje (41 dias distintos)
const sampleWindowDays = 41

// SampleOptions opções do gerador de dados de exemplo
type SampleOptions struct {
	Routes        int   // quantidade de rotas (padrão 100)
	TripsPerRoute int   // viagens por rota (padrão 5)
	Seed          int64 // 0 usa o relógio
	SelectDataset bool
}

// GenerateSample cria um dataset sintético de viagens para demonstração.
// As datas ficam em uma janela de ±20 dias ao redor de hoje, misturando
// viagens já realizadas e viagens futuras.
func GenerateSample(st *store.Store, opts SampleOptions) (*model.Dataset, error) {
	if opts.Routes <= 0 {
		opts.Routes = 100
	}
	if opts.TripsPerRoute <= 0 {
		opts.TripsPerRoute = 5
	}
	// A janela de ±20 dias só comporta 41 dias distintos por rota
	if opts.TripsPerRoute > sampleWindowDays {
		opts.TripsPerRoute = sampleWindowDays
	}
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	dataset := &model.Dataset{
		ID:       uuid.NewString(),
		Filename: "dados_exemplo.xlsx",
	}
	if err := st.InsertDataset(dataset); err != nil {
		return nil, fmt.Errorf("falha ao criar dataset de exemplo: %w", err)
	}

	today := time.Now().UTC().Truncate(24 * time.Hour)
	var trips []*model.RouteTrip
	var start, end time.Time

	for r := 1; r <= opts.Routes; r++ {
		route := fmt.Sprintf("R%d", r)

		// Dias distintos por rota dentro da janela
		days := map[int]bool{}
		for len(days) < opts.TripsPerRoute {
			days[rng.Intn(sampleWindowDays)-20] = true
		}

		for offset := range days {
			date := today.AddDate(0, 0, offset)
			if start.IsZero() || date.Before(start) {
				start = date
			}
			if date.After(end) {
				end = date
			}

			gmvBase := float64(500 + rng.Intn(1501))
			cashBase := float64(-500 + rng.Intn(1501))

			trips = append(trips, &model.RouteTrip{
				DatasetID:    dataset.ID,
				Route:        route,
				Date:         date,
				GMVBaseline:  gmvBase,
				GMVActual:    gmvBase + float64(rng.Intn(201)-100),
				CashBaseline: cashBase,
				CashActual:   cashBase + float64(rng.Intn(101)-50),
				SourceSheet:  "exemplo",
			})
		}
	}

	if err := st.BatchInsertTrips(trips); err != nil {
		_ = st.DeleteDataset(dataset.ID)
		return nil, fmt.Errorf("falha ao gravar viagens de exemplo: %w", err)
	}

	dataset.TotalRows = len(trips)
	dataset.RouteCount = opts.Routes
	dataset.StartDate = start
	dataset.EndDate = end
	if err := st.UpdateDatasetStats(dataset); err != nil {
		return nil, fmt.Errorf("falha ao consolidar dataset de exemplo: %w", err)
	}

	if opts.SelectDataset {
		if err := st.SetCurrentDatasetID(dataset.ID); err != nil {
			return nil, err
		}
	}

	return dataset, nil
}
