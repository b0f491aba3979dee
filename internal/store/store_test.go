package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/Batatao343/buser-simulador/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "simulador.db")
	st, err := New(dbPath)
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func insertTestDataset(t *testing.T, st *Store, id string) {
	t.Helper()
	if err := st.InsertDataset(&model.Dataset{ID: id, Filename: "planilha.xlsx"}); err != nil {
		t.Fatalf("insert dataset: %v", err)
	}
}

func day(d int) time.Time {
	return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)
}

func TestTripsRoundTrip(t *testing.T) {
	st := newTestStore(t)
	insertTestDataset(t, st, "ds1")

	trips := []*model.RouteTrip{
		{DatasetID: "ds1", Route: "BH-SP", Date: day(10), GMVBaseline: 100, GMVActual: 90, CashBaseline: 10, CashActual: 9, SourceSheet: "Viagens", RowNo: 2},
		{DatasetID: "ds1", Route: "RJ-SP", Date: day(11), GMVBaseline: 200, CashBaseline: -20},
		{DatasetID: "ds1", Route: "BH-SP", Date: day(12), GMVBaseline: 150, CashBaseline: 15},
	}
	if err := st.BatchInsertTrips(trips); err != nil {
		t.Fatalf("batch insert: %v", err)
	}

	got, err := st.GetTrips(TripQueryOptions{DatasetID: "ds1"})
	if err != nil {
		t.Fatalf("get trips: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("viagens = %d, esperado 3", len(got))
	}

	// Ordenação por data
	if !got[0].Date.Equal(day(10)) || !got[2].Date.Equal(day(12)) {
		t.Fatalf("ordem inesperada: %v, %v", got[0].Date, got[2].Date)
	}
	if got[0].Route != "BH-SP" || got[0].GMVActual != 90 {
		t.Fatalf("primeira viagem: %+v", got[0])
	}
	if got[1].CashBaseline != -20 {
		t.Fatalf("cash negativo deveria persistir: %v", got[1].CashBaseline)
	}
}

func TestGetTripsFilters(t *testing.T) {
	st := newTestStore(t)
	insertTestDataset(t, st, "ds1")

	trips := []*model.RouteTrip{
		{DatasetID: "ds1", Route: "A", Date: day(10), GMVBaseline: 100},
		{DatasetID: "ds1", Route: "B", Date: day(11), GMVBaseline: 200},
		{DatasetID: "ds1", Route: "A", Date: day(12), GMVBaseline: 150},
	}
	if err := st.BatchInsertTrips(trips); err != nil {
		t.Fatalf("batch insert: %v", err)
	}

	route := "A"
	byRoute, err := st.GetTrips(TripQueryOptions{DatasetID: "ds1", Route: &route})
	if err != nil {
		t.Fatalf("get by route: %v", err)
	}
	if len(byRoute) != 2 {
		t.Fatalf("rota A = %d viagens, esperado 2", len(byRoute))
	}

	from := day(11)
	to := day(11)
	byDate, err := st.GetTrips(TripQueryOptions{DatasetID: "ds1", From: &from, To: &to})
	if err != nil {
		t.Fatalf("get by date: %v", err)
	}
	if len(byDate) != 1 || byDate[0].Route != "B" {
		t.Fatalf("filtro de data: %+v", byDate)
	}

	count, err := st.CountTrips(TripQueryOptions{DatasetID: "ds1", Route: &route})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 2 {
		t.Fatalf("count = %d, esperado 2", count)
	}
}

func TestListRoutes(t *testing.T) {
	st := newTestStore(t)
	insertTestDataset(t, st, "ds1")

	cutoff := day(11)
	trips := []*model.RouteTrip{
		{DatasetID: "ds1", Route: "A", Date: day(10), GMVBaseline: 100, CashBaseline: 10},
		{DatasetID: "ds1", Route: "A", Date: day(12), GMVBaseline: 150, CashBaseline: 15},
		{DatasetID: "ds1", Route: "B", Date: day(10), GMVBaseline: 200, CashBaseline: 20},
	}
	if err := st.BatchInsertTrips(trips); err != nil {
		t.Fatalf("batch insert: %v", err)
	}

	routes, err := st.ListRoutes("ds1", cutoff)
	if err != nil {
		t.Fatalf("list routes: %v", err)
	}
	if len(routes) != 2 {
		t.Fatalf("rotas = %d, esperado 2", len(routes))
	}

	var a *model.RouteSummary
	for _, r := range routes {
		if r.Route == "A" {
			a = r
		}
	}
	if a == nil {
		t.Fatal("rota A não listada")
	}
	if a.TripCount != 2 || a.FutureTrips != 1 {
		t.Fatalf("rota A: %+v", a)
	}
	if a.GMVBaseline != 250 || a.CashBaseline != 25 {
		t.Fatalf("agregados da rota A: %+v", a)
	}
}

func TestTripDateRange(t *testing.T) {
	st := newTestStore(t)
	insertTestDataset(t, st, "ds1")

	trips := []*model.RouteTrip{
		{DatasetID: "ds1", Route: "A", Date: day(12)},
		{DatasetID: "ds1", Route: "A", Date: day(8)},
		{DatasetID: "ds1", Route: "B", Date: day(20)},
	}
	if err := st.BatchInsertTrips(trips); err != nil {
		t.Fatalf("batch insert: %v", err)
	}

	start, end, err := st.TripDateRange("ds1")
	if err != nil {
		t.Fatalf("date range: %v", err)
	}
	if !start.Equal(day(8)) || !end.Equal(day(20)) {
		t.Fatalf("período = %v a %v", start, end)
	}
}

func TestScenarioRoundTrip(t *testing.T) {
	st := newTestStore(t)
	insertTestDataset(t, st, "ds1")

	sc := &model.Scenario{
		ID:              "sc1",
		DatasetID:       "ds1",
		Name:            "Corte de inverno",
		CancelledRoutes: []string{"A", "B"},
		CashFactor:      0.25,
		BaselineGMV:     1000,
		SimulatedGMV:    700,
		BaselineCash:    100,
		SimulatedCash:   80,
	}
	if err := st.InsertScenario(sc); err != nil {
		t.Fatalf("insert scenario: %v", err)
	}

	got, err := st.GetScenario("sc1")
	if err != nil {
		t.Fatalf("get scenario: %v", err)
	}
	if got.Name != "Corte de inverno" || got.CashFactor != 0.25 {
		t.Fatalf("cenário: %+v", got)
	}
	if len(got.CancelledRoutes) != 2 || got.CancelledRoutes[0] != "A" {
		t.Fatalf("rotas canceladas: %v", got.CancelledRoutes)
	}
	if got.SimulatedGMV != 700 {
		t.Fatalf("snapshot: %+v", got)
	}

	list, err := st.ListScenarios("ds1")
	if err != nil {
		t.Fatalf("list scenarios: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("cenários = %d", len(list))
	}

	if err := st.DeleteScenario("sc1"); err != nil {
		t.Fatalf("delete scenario: %v", err)
	}
	if err := st.DeleteScenario("sc1"); err == nil {
		t.Fatal("remover cenário inexistente deveria falhar")
	}
}

func TestConfigKV(t *testing.T) {
	st := newTestStore(t)

	if err := st.SetConfig("cancel_cash_factor", "0.5"); err != nil {
		t.Fatalf("set config: %v", err)
	}
	// Upsert
	if err := st.SetConfig("cancel_cash_factor", "0.25"); err != nil {
		t.Fatalf("set config again: %v", err)
	}

	v, err := st.GetConfigFloat("cancel_cash_factor")
	if err != nil {
		t.Fatalf("get config: %v", err)
	}
	if v != 0.25 {
		t.Fatalf("valor = %v, esperado 0.25", v)
	}

	all, err := st.GetAllConfig()
	if err != nil {
		t.Fatalf("get all: %v", err)
	}
	if all["cancel_cash_factor"] != "0.25" {
		t.Fatalf("all = %v", all)
	}
}

func TestCurrentDataset(t *testing.T) {
	st := newTestStore(t)

	id, err := st.GetCurrentDatasetID()
	if err != nil {
		t.Fatalf("get current: %v", err)
	}
	if id != "" {
		t.Fatalf("sem seleção deveria devolver vazio, veio %q", id)
	}

	insertTestDataset(t, st, "ds1")
	if err := st.SetCurrentDatasetID("ds1"); err != nil {
		t.Fatalf("set current: %v", err)
	}

	id, err = st.GetCurrentDatasetID()
	if err != nil {
		t.Fatalf("get current: %v", err)
	}
	if id != "ds1" {
		t.Fatalf("corrente = %q, esperado ds1", id)
	}
}

func TestDeleteDatasetCascades(t *testing.T) {
	st := newTestStore(t)
	insertTestDataset(t, st, "ds1")

	trips := []*model.RouteTrip{{DatasetID: "ds1", Route: "A", Date: day(10)}}
	if err := st.BatchInsertTrips(trips); err != nil {
		t.Fatalf("batch insert: %v", err)
	}
	if err := st.InsertScenario(&model.Scenario{ID: "sc1", DatasetID: "ds1", Name: "x"}); err != nil {
		t.Fatalf("insert scenario: %v", err)
	}

	if err := st.DeleteDataset("ds1"); err != nil {
		t.Fatalf("delete dataset: %v", err)
	}

	if _, err := st.GetDataset("ds1"); err == nil {
		t.Fatal("dataset removido ainda existe")
	}
	count, err := st.CountTrips(TripQueryOptions{DatasetID: "ds1"})
	if err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 0 {
		t.Fatalf("viagens órfãs: %d", count)
	}
	if _, err := st.GetScenario("sc1"); err == nil {
		t.Fatal("cenário órfão ainda existe")
	}
}
