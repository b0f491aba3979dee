package model

import "time"

// RouteTrip viagem de uma rota em uma data (linha da planilha importada)
type RouteTrip struct {
	ID        int64     `json:"id"`
	DatasetID string    `json:"datasetId"`
	Route     string    `json:"route"`
	Date      time.Time `json:"date"` // granularidade de dia

	// Valores previstos (baseline) e realizados
	GMVBaseline  float64 `json:"gmvBaseline"`
	GMVActual    float64 `json:"gmvActual"`
	CashBaseline float64 `json:"cashBaseline"`
	CashActual   float64 `json:"cashActual"`

	// Metadados de origem
	SourceSheet string    `json:"sourceSheet"`
	RowNo       int       `json:"rowNo"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Dataset conjunto de viagens importado de um arquivo
type Dataset struct {
	ID         string    `json:"id"`
	Filename   string    `json:"filename"`
	TotalRows  int       `json:"totalRows"`
	RouteCount int       `json:"routeCount"`
	StartDate  time.Time `json:"startDate"`
	EndDate    time.Time `json:"endDate"`
	ImportedAt time.Time `json:"importedAt"`
}

// Scenario cenário de cancelamento salvo pelo usuário
type Scenario struct {
	ID              string   `json:"id"`
	DatasetID       string   `json:"datasetId"`
	Name            string   `json:"name"`
	CancelledRoutes []string `json:"cancelledRoutes"`
	CashFactor      float64  `json:"cashFactor"` // fração do cash-repasse mantida após cancelamento

	// Snapshot dos totais no momento do salvamento
	BaselineGMV   float64 `json:"baselineGmv"`
	SimulatedGMV  float64 `json:"simulatedGmv"`
	BaselineCash  float64 `json:"baselineCash"`
	SimulatedCash float64 `json:"simulatedCash"`

	CreatedAt time.Time `json:"createdAt"`
}

// ImportLog registro de uma importação
type ImportLog struct {
	ID           int64      `json:"id"`
	DatasetID    string     `json:"datasetId"`
	Filename     string     `json:"filename"`
	FileSize     int64      `json:"fileSize"`
	TotalSheets  int        `json:"totalSheets"`
	TotalRows    int        `json:"totalRows"`
	ImportedRows int        `json:"importedRows"`
	ErrorRows    int        `json:"errorRows"`
	Status       string     `json:"status"` // running/completed/error
	ErrorMessage string     `json:"errorMessage"`
	StartedAt    time.Time  `json:"startedAt"`
	CompletedAt  *time.Time `json:"completedAt"`
}

// RouteSummary resumo agregado de uma rota dentro do dataset
type RouteSummary struct {
	Route        string  `json:"route"`
	TripCount    int     `json:"tripCount"`
	FutureTrips  int     `json:"futureTrips"`
	GMVBaseline  float64 `json:"gmvBaseline"`
	CashBaseline float64 `json:"cashBaseline"`
}
