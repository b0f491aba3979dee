package v1

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/Batatao343/buser-simulador/internal/config"
	"github.com/Batatao343/buser-simulador/internal/model"
	"github.com/Batatao343/buser-simulador/internal/simulation"
	"github.com/Batatao343/buser-simulador/internal/store"
)

func newTestRouter(t *testing.T) (*gin.Engine, *store.Store) {
	t.Helper()

	gin.SetMode(gin.TestMode)

	dbPath := filepath.Join(t.TempDir(), "simulador.db")
	st, err := store.New(dbPath)
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	handler := NewHandler(st, config.DefaultConfig())
	router := gin.New()
	handler.RegisterRoutes(router.Group("/api"))

	return router, st
}

// seedDataset insere um dataset com duas rotas futuras e o seleciona
func seedDataset(t *testing.T, st *store.Store) {
	t.Helper()

	if err := st.InsertDataset(&model.Dataset{ID: "ds1", Filename: "planilha.xlsx"}); err != nil {
		t.Fatalf("insert dataset: %v", err)
	}

	future := simulation.StartOfDay(time.Now()).AddDate(0, 0, 5)
	trips := []*model.RouteTrip{
		{DatasetID: "ds1", Route: "BH-SP", Date: future, GMVBaseline: 1000, CashBaseline: 100},
		{DatasetID: "ds1", Route: "RJ-SP", Date: future, GMVBaseline: 2000, CashBaseline: 200},
	}
	if err := st.BatchInsertTrips(trips); err != nil {
		t.Fatalf("batch insert: %v", err)
	}
	if err := st.SetCurrentDatasetID("ds1"); err != nil {
		t.Fatalf("set current: %v", err)
	}
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), out); err != nil {
		t.Fatalf("decode resposta: %v\n%s", err, w.Body.String())
	}
}

func TestGetStatus_Uninitialized(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/status", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}

	var resp StatusResponse
	decode(t, w, &resp)
	if resp.Initialized {
		t.Fatal("sem dados deveria reportar não inicializado")
	}
}

func TestGetStatus_WithData(t *testing.T) {
	router, st := newTestRouter(t)
	seedDataset(t, st)

	var resp StatusResponse
	w := doJSON(t, router, http.MethodGet, "/api/status", nil)
	decode(t, w, &resp)

	if !resp.Initialized || resp.DatasetID != "ds1" || resp.TotalTrips != 2 {
		t.Fatalf("resposta: %+v", resp)
	}
}

func TestSimulate(t *testing.T) {
	router, st := newTestRouter(t)
	seedDataset(t, st)

	w := doJSON(t, router, http.MethodPost, "/api/simulate", SimulateRequest{
		CancelledRoutes: []string{"BH-SP", "NAO-EXISTE"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var resp SimulateResponse
	decode(t, w, &resp)

	if resp.Baseline.GMV != 3000 || resp.Simulated.GMV != 2000 {
		t.Fatalf("totais: base=%+v sim=%+v", resp.Baseline, resp.Simulated)
	}
	if resp.Delta.GMV != -1000 {
		t.Fatalf("delta = %+v", resp.Delta)
	}
	if len(resp.UnknownRoutes) != 1 || resp.UnknownRoutes[0] != "NAO-EXISTE" {
		t.Fatalf("rotas desconhecidas: %v", resp.UnknownRoutes)
	}
	if len(resp.Indicators) != 3 {
		t.Fatalf("grupos de indicadores = %d", len(resp.Indicators))
	}
	if len(resp.Trips) != 0 {
		t.Fatal("viagens não deveriam vir sem includeTrips")
	}
}

func TestSimulate_NoDataset(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/simulate", SimulateRequest{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, esperado 400", w.Code)
	}
}

func TestSimulate_InvalidCashFactor(t *testing.T) {
	router, st := newTestRouter(t)
	seedDataset(t, st)

	bad := 1.5
	w := doJSON(t, router, http.MethodPost, "/api/simulate", SimulateRequest{CashFactor: &bad})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, esperado 400", w.Code)
	}
}

func TestExport_InvalidCashFactor(t *testing.T) {
	router, st := newTestRouter(t)
	seedDataset(t, st)

	// A exportação valida o intervalo como o /api/simulate
	bad := 1.5
	w := doJSON(t, router, http.MethodPost, "/api/export", ExportRequest{CashFactor: &bad})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("export status = %d, esperado 400", w.Code)
	}

	w = doJSON(t, router, http.MethodPost, "/api/export/stream", ExportRequest{CashFactor: &bad})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("export/stream status = %d, esperado 400", w.Code)
	}
}

func TestConfigRoundTrip(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPatch, "/api/config", UpdateConfigRequest{
		Updates: map[string]interface{}{"cancel_cash_factor": 0.5},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("patch = %d: %s", w.Code, w.Body.String())
	}

	var resp ConfigResponse
	w = doJSON(t, router, http.MethodGet, "/api/config", nil)
	decode(t, w, &resp)
	if resp.CancelCashFactor != 0.5 {
		t.Fatalf("cancelCashFactor = %v, esperado 0.5", resp.CancelCashFactor)
	}
}

func TestConfigRejectsUnknownKey(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPatch, "/api/config", UpdateConfigRequest{
		Updates: map[string]interface{}{"chave_invalida": 1},
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, esperado 400", w.Code)
	}
}

func TestSelectDatasetNotFound(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodPost, "/api/datasets/select", SelectDatasetRequest{DatasetID: "nao-existe"})
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, esperado 404", w.Code)
	}
}

func TestScenarioLifecycle(t *testing.T) {
	router, st := newTestRouter(t)
	seedDataset(t, st)

	w := doJSON(t, router, http.MethodPost, "/api/scenarios", CreateScenarioRequest{
		Name:            "Corte BH",
		CancelledRoutes: []string{"BH-SP"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("criar cenário = %d: %s", w.Code, w.Body.String())
	}

	var created struct {
		Scenario model.Scenario `json:"scenario"`
	}
	decode(t, w, &created)
	if created.Scenario.SimulatedGMV != 2000 {
		t.Fatalf("snapshot do cenário: %+v", created.Scenario)
	}

	w = doJSON(t, router, http.MethodPost, "/api/scenarios", CreateScenarioRequest{
		Name:            "Corte RJ",
		CancelledRoutes: []string{"RJ-SP"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("criar segundo cenário = %d", w.Code)
	}

	var listed struct {
		Scenarios []*model.Scenario `json:"scenarios"`
	}
	w = doJSON(t, router, http.MethodGet, "/api/scenarios", nil)
	decode(t, w, &listed)
	if len(listed.Scenarios) != 2 {
		t.Fatalf("cenários = %d, esperado 2", len(listed.Scenarios))
	}

	ids := []string{listed.Scenarios[0].ID, listed.Scenarios[1].ID}
	w = doJSON(t, router, http.MethodPost, "/api/scenarios/compare", CompareScenariosRequest{ScenarioIDs: ids})
	if w.Code != http.StatusOK {
		t.Fatalf("comparar = %d: %s", w.Code, w.Body.String())
	}

	var compared struct {
		Comparisons []ScenarioComparison `json:"comparisons"`
	}
	decode(t, w, &compared)
	if len(compared.Comparisons) != 2 {
		t.Fatalf("comparações = %d", len(compared.Comparisons))
	}
	for _, cmp := range compared.Comparisons {
		if cmp.Baseline.GMV != 3000 {
			t.Fatalf("base recalculada: %+v", cmp)
		}
	}

	w = doJSON(t, router, http.MethodDelete, "/api/scenarios/"+ids[0], nil)
	if w.Code != http.StatusOK {
		t.Fatalf("remover = %d", w.Code)
	}
	w = doJSON(t, router, http.MethodGet, "/api/scenarios/"+ids[0], nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("cenário removido ainda responde %d", w.Code)
	}
}

func TestCompareRequiresTwoScenarios(t *testing.T) {
	router, st := newTestRouter(t)
	seedDataset(t, st)

	w := doJSON(t, router, http.MethodPost, "/api/scenarios/compare", CompareScenariosRequest{ScenarioIDs: []string{"x"}})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, esperado 400", w.Code)
	}
}

func TestBuildSeriesEndpoint(t *testing.T) {
	router, st := newTestRouter(t)
	seedDataset(t, st)

	w := doJSON(t, router, http.MethodPost, "/api/series", map[string]interface{}{
		"cancelledRoutes": []string{"BH-SP"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}

	var resp struct {
		Series simulation.SeriesSet `json:"series"`
	}
	decode(t, w, &resp)

	if !resp.Series.HasCancellation {
		t.Fatal("deveria marcar cancelamento")
	}
	if len(resp.Series.Dates) == 0 {
		t.Fatal("séries vazias")
	}
	if len(resp.Series.SimGMV) != len(resp.Series.Dates) {
		t.Fatal("séries com comprimentos diferentes")
	}
}

func TestExportDownloadInvalidToken(t *testing.T) {
	router, _ := newTestRouter(t)

	w := doJSON(t, router, http.MethodGet, "/api/export/download/token-invalido", nil)
	if w.Code != http.StatusNotFound {
		t.Fatalf("status = %d, esperado 404", w.Code)
	}
}

func TestExportEndpoint(t *testing.T) {
	router, st := newTestRouter(t)
	seedDataset(t, st)

	w := doJSON(t, router, http.MethodPost, "/api/export", ExportRequest{
		CancelledRoutes: []string{"BH-SP"},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != xlsxContentType {
		t.Fatalf("content-type = %q", ct)
	}
	if w.Body.Len() == 0 {
		t.Fatal("corpo vazio")
	}
}
