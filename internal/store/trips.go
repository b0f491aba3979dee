package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/Batatao343/buser-simulador/internal/model"
)

const dateLayout = "2006-01-02"

// BatchInsertTrips insere viagens em lote dentro de uma transação
func (s *Store) BatchInsertTrips(trips []*model.RouteTrip) error {
	if len(trips) == 0 {
		return nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("falha ao abrir transação: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO route_trips (
			dataset_id, route, trip_date,
			gmv_baseline, gmv_actual, cash_baseline, cash_actual,
			source_sheet, row_no
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("falha ao preparar insert: %w", err)
	}
	defer stmt.Close()

	for _, t := range trips {
		_, err := stmt.Exec(
			t.DatasetID, t.Route, t.Date.Format(dateLayout),
			t.GMVBaseline, t.GMVActual, t.CashBaseline, t.CashActual,
			t.SourceSheet, t.RowNo,
		)
		if err != nil {
			return fmt.Errorf("falha ao inserir viagem: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("falha ao confirmar transação: %w", err)
	}

	return nil
}

// TripQueryOptions filtros de consulta de viagens
type TripQueryOptions struct {
	DatasetID string
	Route     *string
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

// GetTrips consulta viagens do dataset, ordenadas por data e rota
func (s *Store) GetTrips(opts TripQueryOptions) ([]*model.RouteTrip, error) {
	query := `
		SELECT id, dataset_id, route, trip_date,
		       gmv_baseline, gmv_actual, cash_baseline, cash_actual,
		       source_sheet, row_no, created_at
		FROM route_trips WHERE dataset_id = ?`
	args := []interface{}{opts.DatasetID}

	if opts.Route != nil {
		query += " AND route = ?"
		args = append(args, *opts.Route)
	}
	if opts.From != nil {
		query += " AND trip_date >= ?"
		args = append(args, opts.From.Format(dateLayout))
	}
	if opts.To != nil {
		query += " AND trip_date <= ?"
		args = append(args, opts.To.Format(dateLayout))
	}

	query += " ORDER BY trip_date, route, id"

	if opts.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, opts.Limit)
		if opts.Offset > 0 {
			query += " OFFSET ?"
			args = append(args, opts.Offset)
		}
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("falha na consulta de viagens: %w", err)
	}
	defer rows.Close()

	return scanTripRows(rows)
}

// CountTrips conta viagens do dataset
func (s *Store) CountTrips(opts TripQueryOptions) (int, error) {
	query := "SELECT COUNT(1) FROM route_trips WHERE dataset_id = ?"
	args := []interface{}{opts.DatasetID}

	if opts.Route != nil {
		query += " AND route = ?"
		args = append(args, *opts.Route)
	}
	if opts.From != nil {
		query += " AND trip_date >= ?"
		args = append(args, opts.From.Format(dateLayout))
	}
	if opts.To != nil {
		query += " AND trip_date <= ?"
		args = append(args, opts.To.Format(dateLayout))
	}

	var count int
	if err := s.db.QueryRow(query, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("falha ao contar viagens: %w", err)
	}
	return count, nil
}

// DeleteTripsByDataset remove todas as viagens de um dataset
func (s *Store) DeleteTripsByDataset(datasetID string) error {
	if err := s.Exec("DELETE FROM route_trips WHERE dataset_id = ?", datasetID); err != nil {
		return fmt.Errorf("falha ao remover viagens: %w", err)
	}
	return nil
}

// ListRoutes lista as rotas distintas do dataset com totais baseline
// cutoff separa viagens passadas de futuras (apenas futuras são canceláveis)
func (s *Store) ListRoutes(datasetID string, cutoff time.Time) ([]*model.RouteSummary, error) {
	rows, err := s.db.Query(`
		SELECT route,
		       COUNT(1),
		       SUM(CASE WHEN trip_date >= ? THEN 1 ELSE 0 END),
		       COALESCE(SUM(gmv_baseline), 0),
		       COALESCE(SUM(cash_baseline), 0)
		FROM route_trips
		WHERE dataset_id = ?
		GROUP BY route
		ORDER BY route
	`, cutoff.Format(dateLayout), datasetID)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar rotas: %w", err)
	}
	defer rows.Close()

	var out []*model.RouteSummary
	for rows.Next() {
		r := &model.RouteSummary{}
		if err := rows.Scan(&r.Route, &r.TripCount, &r.FutureTrips, &r.GMVBaseline, &r.CashBaseline); err != nil {
			return nil, fmt.Errorf("falha ao ler rota: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao iterar rotas: %w", err)
	}
	return out, nil
}

// TripDateRange devolve a menor e a maior data do dataset
func (s *Store) TripDateRange(datasetID string) (start, end time.Time, err error) {
	var minStr, maxStr sql.NullString
	err = s.db.QueryRow(
		"SELECT MIN(trip_date), MAX(trip_date) FROM route_trips WHERE dataset_id = ?",
		datasetID,
	).Scan(&minStr, &maxStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("falha ao consultar período: %w", err)
	}
	if !minStr.Valid || !maxStr.Valid {
		return time.Time{}, time.Time{}, nil
	}

	start, err = time.Parse(dateLayout, minStr.String)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("data inicial inválida: %w", err)
	}
	end, err = time.Parse(dateLayout, maxStr.String)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("data final inválida: %w", err)
	}
	return start, end, nil
}

// scanTripRows converte linhas SQL em RouteTrip
func scanTripRows(rows *sql.Rows) ([]*model.RouteTrip, error) {
	var results []*model.RouteTrip

	for rows.Next() {
		t := &model.RouteTrip{}
		var dateStr string
		err := rows.Scan(
			&t.ID, &t.DatasetID, &t.Route, &dateStr,
			&t.GMVBaseline, &t.GMVActual, &t.CashBaseline, &t.CashActual,
			&t.SourceSheet, &t.RowNo, &t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("falha ao ler viagem: %w", err)
		}
		t.Date, err = time.Parse(dateLayout, dateStr)
		if err != nil {
			return nil, fmt.Errorf("data de viagem inválida %q: %w", dateStr, err)
		}
		results = append(results, t)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao iterar viagens: %w", err)
	}

	return results, nil
}
