package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Batatao343/buser-simulador/internal/model"
)

// InsertDataset registra um novo dataset
func (s *Store) InsertDataset(d *model.Dataset) error {
	_, err := s.db.Exec(`
		INSERT INTO datasets (id, filename, total_rows, route_count, start_date, end_date)
		VALUES (?, ?, ?, ?, ?, ?)
	`, d.ID, d.Filename, d.TotalRows, d.RouteCount,
		formatOptionalDate(d.StartDate), formatOptionalDate(d.EndDate))
	if err != nil {
		return fmt.Errorf("falha ao inserir dataset: %w", err)
	}
	return nil
}

// UpdateDatasetStats atualiza contadores e período após a importação
func (s *Store) UpdateDatasetStats(d *model.Dataset) error {
	_, err := s.db.Exec(`
		UPDATE datasets SET total_rows = ?, route_count = ?, start_date = ?, end_date = ?
		WHERE id = ?
	`, d.TotalRows, d.RouteCount,
		formatOptionalDate(d.StartDate), formatOptionalDate(d.EndDate), d.ID)
	if err != nil {
		return fmt.Errorf("falha ao atualizar dataset: %w", err)
	}
	return nil
}

// GetDataset busca um dataset por id
func (s *Store) GetDataset(id string) (*model.Dataset, error) {
	row := s.db.QueryRow(`
		SELECT id, filename, total_rows, route_count, start_date, end_date, imported_at
		FROM datasets WHERE id = ?
	`, id)
	return scanDatasetRow(row)
}

// ListDatasets lista datasets por ordem de importação (mais recentes primeiro)
func (s *Store) ListDatasets() ([]*model.Dataset, error) {
	rows, err := s.db.Query(`
		SELECT id, filename, total_rows, route_count, start_date, end_date, imported_at
		FROM datasets ORDER BY imported_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("falha ao listar datasets: %w", err)
	}
	defer rows.Close()

	var out []*model.Dataset
	for rows.Next() {
		d, err := scanDataset(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("erro ao iterar datasets: %w", err)
	}
	return out, nil
}

// DeleteDataset remove um dataset e suas viagens/cenários
func (s *Store) DeleteDataset(id string) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("falha ao abrir transação: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		"DELETE FROM scenarios WHERE dataset_id = ?",
		"DELETE FROM route_trips WHERE dataset_id = ?",
		"DELETE FROM datasets WHERE id = ?",
	} {
		if _, err := tx.Exec(stmt, id); err != nil {
			return fmt.Errorf("falha ao remover dataset: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("falha ao confirmar remoção: %w", err)
	}
	return nil
}

// DeleteAllDatasets limpa todos os dados importados
func (s *Store) DeleteAllDatasets() error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("falha ao abrir transação: %w", err)
	}
	defer tx.Rollback()

	for _, stmt := range []string{
		"DELETE FROM scenarios",
		"DELETE FROM route_trips",
		"DELETE FROM datasets",
	} {
		if _, err := tx.Exec(stmt); err != nil {
			return fmt.Errorf("falha ao limpar dados: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("falha ao confirmar limpeza: %w", err)
	}
	return nil
}

type datasetScanner interface {
	Scan(dest ...interface{}) error
}

func scanDataset(sc datasetScanner) (*model.Dataset, error) {
	d := &model.Dataset{}
	var startStr, endStr string
	err := sc.Scan(&d.ID, &d.Filename, &d.TotalRows, &d.RouteCount, &startStr, &endStr, &d.ImportedAt)
	if err != nil {
		return nil, fmt.Errorf("falha ao ler dataset: %w", err)
	}
	d.StartDate = parseOptionalDate(startStr)
	d.EndDate = parseOptionalDate(endStr)
	return d, nil
}

func scanDatasetRow(row *sql.Row) (*model.Dataset, error) {
	d, err := scanDataset(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("dataset não encontrado")
		}
		return nil, err
	}
	return d, nil
}

func formatOptionalDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(dateLayout)
}

func parseOptionalDate(s string) time.Time {
	if s == "" {
		return time.Time{}
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return time.Time{}
	}
	return t
}
