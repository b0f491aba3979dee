package store

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Batatao343/buser-simulador/internal/model"
)

// InsertScenario salva um cenário de cancelamento
func (s *Store) InsertScenario(sc *model.Scenario) error {
	routesJSON, err := json.Marshal(sc.CancelledRoutes)
	if err != nil {
		return fmt.Errorf("falha ao serializar rotas canceladas: %w", err)
	}

	_, err = s.db.Exec(`
		INSERT INTO scenarios (
			id, dataset_id, name, cancelled_routes, cash_factor,
			baseline_gmv, simulated_gmv, baseline_cash, simulated_cash
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, sc.ID, sc.DatasetID, sc.Name, string(routesJSON), sc.CashFactor,
		sc.BaselineGMV, sc.SimulatedGMV, sc.BaselineCash, sc.SimulatedCash)
	if err != nil {
		return fmt.Errorf("falha ao inserir cenário: %w", err)
	}
	return nil
}

// GetScenario busca um cenário por id
func (s *Store) GetScenario(id string) (*model.Scenario, error) {
	row := s.db.QueryRow(`
		SELECT id, dataset_id, name, cancelled_routes, cash_factor,
		       baseline_gmv, simulated_gmv, baseline_cash, simulated_cash, created_at
		FROM scenarios WHERE id = ?
	`, id)

	sc, err := scanScenario(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("cenário não encontrado")
		}
		return nil, err
	}
	return sc, nil
}

// ListScenarios lista os cenários de um dataset (mais recentes primeiro)
func (s *Store) ListScenarios(datasetID string) ([]*model.Scenario, error) {
	rows, err := s.db.Query(`
		SELECT id, dataset_id, name, cancelled_routes, cash_factor,
		       baseline_gmv, simulated_gmv, baseline_cash, simulated_cash, created_at
		FROM scenarios WHERE dataset_id = ? ORDER BY created_at DESC
	`, datasetID)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar cenários: %w", err)
	}
	defer rows.Close()

	var out []*model.Scenario
	for rows.Next() {
		sc, err := scanScenario(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, sc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao iterar cenários: %w", err)
	}
	return out, nil
}

// DeleteScenario remove um cenário salvo
func (s *Store) DeleteScenario(id string) error {
	res, err := s.db.Exec("DELETE FROM scenarios WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("falha ao remover cenário: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("cenário não encontrado")
	}
	return nil
}

type scenarioScanner interface {
	Scan(dest ...interface{}) error
}

func scanScenario(sc scenarioScanner) (*model.Scenario, error) {
	out := &model.Scenario{}
	var routesJSON string
	err := sc.Scan(
		&out.ID, &out.DatasetID, &out.Name, &routesJSON, &out.CashFactor,
		&out.BaselineGMV, &out.SimulatedGMV, &out.BaselineCash, &out.SimulatedCash,
		&out.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("falha ao ler cenário: %w", err)
	}

	if err := json.Unmarshal([]byte(routesJSON), &out.CancelledRoutes); err != nil {
		return nil, fmt.Errorf("rotas canceladas inválidas: %w", err)
	}
	if out.CancelledRoutes == nil {
		out.CancelledRoutes = []string{}
	}
	return out, nil
}
